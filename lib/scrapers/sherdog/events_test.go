package sherdog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const eventsPage = `
<html><body>
<table class="new_table event">
	<tr><th>Date</th><th>Event</th><th>Location</th></tr>
	<tr onclick="document.location='/events/UFC-320-Ankalaev-vs-Pereira-2';">
		<td>OCT042025</td>
		<td>UFC 320 - Ankalaev vs. Pereira 2</td>
		<td>T-Mobile Arena, Las Vegas, Nevada, United States</td>
	</tr>
	<tr onclick="document.location='/events/UFC-317-Topuria-vs-Oliveira';">
		<td>JUL122025</td>
		<td>UFC 317 - Topuria vs. Oliveira</td>
		<td>T-Mobile Arena, Las Vegas, Nevada, United States</td>
	</tr>
	<tr onclick="document.location='/events/Glory-100';">
		<td>TBD</td>
		<td>Glory 100</td>
		<td>GelreDome, Arnhem, Netherlands</td>
	</tr>
</table>
</body></html>`

func TestScrapeEvents(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC)

	events, err := ScrapeEvents(ctx, eventsPage, now)
	require.NoError(t, err)
	require.Len(t, events, 3)

	// sorted by date descending, unparsable dates last
	require.Equal(t, "UFC 320", events[0].Name)
	require.Equal(t, "Ankalaev vs. Pereira 2", events[0].Fight)
	require.Equal(t, "/events/UFC-320-Ankalaev-vs-Pereira-2", events[0].Link)
	require.Equal(t, EventUpcoming, events[0].Status)
	require.NotNil(t, events[0].Date)
	require.Equal(t, time.Date(2025, time.October, 4, 0, 0, 0, 0, time.UTC), *events[0].Date)

	require.Equal(t, "UFC 317", events[1].Name)
	require.Equal(t, EventPast, events[1].Status)
	require.Equal(t, "T-Mobile Arena, Las Vegas, Nevada, United States", events[1].Location)

	require.Equal(t, "Glory 100", events[2].Name)
	require.Empty(t, events[2].Fight)
	require.Nil(t, events[2].Date)
	require.Equal(t, EventUpcoming, events[2].Status)
}

func TestScrapeEventsMissingLink(t *testing.T) {
	const page = `
<table class="new_table event">
	<tr><th>Date</th><th>Event</th><th>Location</th></tr>
	<tr>
		<td>JUL122025</td>
		<td>UFC 317 - Topuria vs. Oliveira</td>
		<td>Las Vegas, Nevada, United States</td>
	</tr>
</table>`

	_, err := ScrapeEvents(context.Background(), page, time.Now())
	require.Error(t, err)

	parseErr, ok := err.(*ParseError)
	require.True(t, ok)
	require.Equal(t, 1, parseErr.Row)
	require.Contains(t, parseErr.Missing, "link")
}

func TestSplitHeadline(t *testing.T) {
	name, fight := splitHeadline("UFC 317 - Topuria vs. Oliveira")
	require.Equal(t, "UFC 317", name)
	require.Equal(t, "Topuria vs. Oliveira", fight)

	name, fight = splitHeadline("Makhachev vs. Moicano")
	require.Equal(t, "Makhachev vs. Moicano", name)
	require.Equal(t, "Makhachev vs. Moicano", fight)

	name, fight = splitHeadline("Glory 100")
	require.Equal(t, "Glory 100", name)
	require.Empty(t, fight)
}
