package pipeline

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"mmascorecard-backend/lib/telemetry"
	"mmascorecard-backend/services/fightdb"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

// fakeFetcher serves canned documents and counts network-equivalent
// lookups per url.
type fakeFetcher struct {
	pages map[string]string
	hits  map[string]int
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (string, error) {
	content, found := f.pages[url]
	if !found {
		return "", fmt.Errorf("no page for %q", url)
	}
	f.hits[url]++
	return content, nil
}

const siteEventsPage = `
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
</table>
</body></html>`

const pastEventPage = `
<html><body>
<div class="fight_card">
	<div class="fighter left_side">
		<a href="/fighter/Ilia-Topuria-177000"><img src="/image_crop/topuria.jpg"></a>
		<h3>Ilia Topuria</h3>
	</div>
	<span class="weight_class">Lightweight Title Bout</span>
	<div class="fighter right_side">
		<a href="/fighter/Charles-Oliveira-30300"><img src="/image_crop/oliveira.jpg"></a>
		<h3>Charles Oliveira</h3>
	</div>
</div>
<table class="fight_card_resume">
	<tr>
		<td>Match 2</td>
		<td>Method KO (Punch)</td>
		<td>Referee Herb Dean</td>
		<td>Round 1</td>
		<td>Time 2:27</td>
	</tr>
</table>
<table class="new_table result">
	<tr><th>#</th><th>Fighter</th><th>Division</th><th>Fighter</th><th>Result</th><th>R</th><th>Time</th></tr>
	<tr>
		<td>1</td>
		<td><a href="/fighter/Joshua-Van-396099"><img src="/image_crop/van.jpg"></a>Joshua Van win</td>
		<td>125 Flyweight</td>
		<td><a href="/fighter/Brandon-Royval-89775"><img src="/image_crop/royval.jpg"></a>Brandon Royval loss</td>
		<td>Decision (Unanimous) Mark Smith</td>
		<td>3</td>
		<td>5:00</td>
	</tr>
</table>
</body></html>`

const upcomingEventPage = `
<html><body>
<div class="fight_card">
	<div class="fighter left_side">
		<a href="/fighter/Magomed-Ankalaev-47423"><img src="/image_crop/ankalaev.jpg"></a>
		<h3>Magomed Ankalaev</h3>
	</div>
	<span class="weight_class">Light Heavyweight Title Bout</span>
	<div class="fighter right_side">
		<a href="/fighter/Alex-Pereira-85957"><img src="/image_crop/pereira.jpg"></a>
		<h3>Alex Pereira</h3>
	</div>
</div>
<table class="new_table upcoming">
	<tr><th>#</th><th>Fighter</th><th>Division</th><th>Fighter</th><th></th></tr>
	<tr>
		<td>1</td>
		<td><a href="/fighter/Beneil-Dariush-56583"><img src="/image_crop/dariush.jpg"></a>Beneil Dariush</td>
		<td>155 Lightweight</td>
		<td><a href="/fighter/Renato-Moicano-51347"><img src="/image_crop/moicano.jpg"></a>Renato Moicano</td>
		<td></td>
	</tr>
</table>
</body></html>`

func fighterProfile(city, country string) string {
	return fmt.Sprintf(`
<html><body>
<h1>Somebody <span class="nickname">"Someone"</span></h1>
<span class="birthplace">
	<span class="locality">%s</span>
	<span class="nationality">%s</span>
</span>
<table class="bio">
	<tr><td>AGE</td><td>1990-01-15</td></tr>
	<tr><td>HEIGHT</td><td>5'11" / 180.0 cm</td></tr>
	<tr><td>WEIGHT</td><td>155 lbs / 70.3 kg</td></tr>
</table>
</body></html>`, city, country)
}

func newTestFetcher() *fakeFetcher {
	pages := map[string]string{
		"https://www.sherdog.com/events":                               siteEventsPage,
		"https://www.sherdog.com/events/UFC-317-Topuria-vs-Oliveira":   pastEventPage,
		"https://www.sherdog.com/events/UFC-320-Ankalaev-vs-Pereira-2": upcomingEventPage,
	}
	profiles := map[string][2]string{
		"/fighter/Ilia-Topuria-177000":    {"Alicante", "Spain"},
		"/fighter/Charles-Oliveira-30300": {"Guaruja", "Brazil"},
		"/fighter/Joshua-Van-396099":      {"Houston", "United States"},
		"/fighter/Brandon-Royval-89775":   {"Denver", "United States"},
		"/fighter/Magomed-Ankalaev-47423": {"Makhachkala", "Russia"},
		"/fighter/Alex-Pereira-85957":     {"Sao Paulo", "Brazil"},
		"/fighter/Beneil-Dariush-56583":   {"Urmia", "Iran"},
		"/fighter/Renato-Moicano-51347":   {"Brasilia", "Brazil"},
	}
	for path, birthplace := range profiles {
		pages["https://www.sherdog.com"+path] = fighterProfile(birthplace[0], birthplace[1])
	}
	return &fakeFetcher{pages: pages, hits: map[string]int{}}
}

func newTestStore(t *testing.T) fightdb.Store {
	database, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// an in-memory sqlite database lives on its connection
	database.SetMaxOpenConns(1)
	t.Cleanup(func() { database.Close() })

	store := fightdb.NewStore(database)
	err = store.EnsureSchema(context.Background())
	require.NoError(t, err)
	return store
}

func buildPipeline(t *testing.T, store fightdb.Store, fetcher *fakeFetcher, now time.Time) *Pipeline {
	pipeline, err := New(Options{
		BaseURL: "https://www.sherdog.com",
		Store:   store,
		Fetcher: fetcher,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now:     func() time.Time { return now },
	})
	require.NoError(t, err)
	return pipeline
}

func newTestPipeline(t *testing.T) (*Pipeline, fightdb.Store, *fakeFetcher) {
	t.Cleanup(telemetry.SetupForTesting(t, "pipeline"))

	store := newTestStore(t)
	fetcher := newTestFetcher()
	now := time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC)
	return buildPipeline(t, store, fetcher, now), store, fetcher
}

func TestRunWritesEveryLevel(t *testing.T) {
	pipeline, store, _ := newTestPipeline(t)
	ctx := context.Background()

	err := pipeline.Run(ctx)
	require.NoError(t, err)

	events, err := store.Events(ctx)
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, "UFC 320", events[0].Name)
	require.Equal(t, "Las Vegas", events[0].Location.City.Name)
	require.Equal(t, "United States", events[0].Location.City.Country.Name)

	fighters, err := store.Fighters(ctx)
	require.NoError(t, err)
	names := make([]string, len(fighters))
	for i, fighter := range fighters {
		names[i] = fighter.Name
	}
	require.Empty(t, cmp.Diff([]string{
		"Alex Pereira",
		"Beneil Dariush",
		"Brandon Royval",
		"Charles Oliveira",
		"Ilia Topuria",
		"Joshua Van",
		"Magomed Ankalaev",
		"Renato Moicano",
	}, names))

	var past fightdb.Event
	for _, event := range events {
		if event.Name == "UFC 317" {
			past = event
		}
	}
	fights, err := store.FightsForEvent(ctx, past.ID)
	require.NoError(t, err)
	require.Len(t, fights, 2)

	main := fights[0]
	require.True(t, main.MainEvent)
	require.True(t, main.TitleFight)
	require.Equal(t, "Ilia Topuria", main.FighterOne.Name)
	require.Equal(t, "Charles Oliveira", main.FighterTwo.Name)
	require.NotNil(t, main.Category)
	require.Equal(t, "Lightweight", main.Category.Name)
	require.Equal(t, 155, main.Category.Weight)
	require.NotNil(t, main.Referee)
	require.Equal(t, "Herb Dean", main.Referee.Name)
	require.Equal(t, "KO", main.Decision)
	require.Equal(t, "Punch", main.Method)
	require.Equal(t, 1, main.Round)
	require.Equal(t, 147, main.Time)

	undercard := fights[1]
	require.Nil(t, undercard.Referee)
	require.NotNil(t, undercard.Category)
	require.Equal(t, "Flyweight", undercard.Category.Name)
}

func TestRunTwiceIsIdempotent(t *testing.T) {
	pipeline, store, _ := newTestPipeline(t)
	ctx := context.Background()

	err := pipeline.Run(ctx)
	require.NoError(t, err)
	err = pipeline.Run(ctx)
	require.NoError(t, err)

	events, err := store.Events(ctx)
	require.NoError(t, err)
	require.Len(t, events, 2)

	fighters, err := store.Fighters(ctx)
	require.NoError(t, err)
	require.Len(t, fighters, 8)

	for _, event := range events {
		fights, err := store.FightsForEvent(ctx, event.ID)
		require.NoError(t, err)
		require.Len(t, fights, 2)
	}
}

func TestRefreshOnlyTouchesUpcomingEvents(t *testing.T) {
	pipeline, store, fetcher := newTestPipeline(t)
	ctx := context.Background()

	err := pipeline.Run(ctx)
	require.NoError(t, err)
	pastDetailHits := fetcher.hits["https://www.sherdog.com/events/UFC-317-Topuria-vs-Oliveira"]

	err = pipeline.Refresh(ctx)
	require.NoError(t, err)

	// the past event's detail page is not refetched
	require.Equal(t, pastDetailHits, fetcher.hits["https://www.sherdog.com/events/UFC-317-Topuria-vs-Oliveira"])

	events, err := store.Events(ctx)
	require.NoError(t, err)
	require.Len(t, events, 2)

	for _, event := range events {
		fights, err := store.FightsForEvent(ctx, event.ID)
		require.NoError(t, err)
		require.Len(t, fights, 2)
	}
}

func TestRefreshRecreatesEventThatHasHappened(t *testing.T) {
	pipeline, store, fetcher := newTestPipeline(t)
	ctx := context.Background()

	err := pipeline.Run(ctx)
	require.NoError(t, err)

	// by November the October card has happened; the purged upcoming row
	// must come back as a past event rather than vanish
	later := buildPipeline(t, store, fetcher, time.Date(2025, time.November, 1, 0, 0, 0, 0, time.UTC))
	err = later.Refresh(ctx)
	require.NoError(t, err)

	events, err := store.Events(ctx)
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, "UFC 320", events[0].Name)
	require.Equal(t, "past", events[0].Status)
	require.Equal(t, "UFC 317", events[1].Name)

	fights, err := store.FightsForEvent(ctx, events[0].ID)
	require.NoError(t, err)
	require.Len(t, fights, 2)
}

func TestRefreshFailureLeavesStoreUntouched(t *testing.T) {
	pipeline, store, fetcher := newTestPipeline(t)
	ctx := context.Background()

	err := pipeline.Run(ctx)
	require.NoError(t, err)

	// a listing fetch failure aborts before anything is deleted
	listing := fetcher.pages["https://www.sherdog.com/events"]
	delete(fetcher.pages, "https://www.sherdog.com/events")
	err = pipeline.Refresh(ctx)
	require.Error(t, err)

	events, err := store.Events(ctx)
	require.NoError(t, err)
	require.Len(t, events, 2)

	// a failure after the purge rolls the whole cycle back
	fetcher.pages["https://www.sherdog.com/events"] = listing
	delete(fetcher.pages, "https://www.sherdog.com/events/UFC-320-Ankalaev-vs-Pereira-2")
	err = pipeline.Refresh(ctx)
	require.Error(t, err)

	events, err = store.Events(ctx)
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, "UFC 320", events[0].Name)
	require.Equal(t, "upcoming", events[0].Status)
}

const sharedNameEventPage = `
<html><body>
<div class="fight_card">
	<div class="fighter left_side">
		<a href="/fighter/John-Smith-100"><img src="/image_crop/smith-100.jpg"></a>
		<h3>John Smith</h3>
	</div>
	<span class="weight_class">Lightweight</span>
	<div class="fighter right_side">
		<a href="/fighter/John-Smith-200"><img src="/image_crop/smith-200.jpg"></a>
		<h3>John Smith</h3>
	</div>
</div>
</body></html>`

func TestRunResolvesFightersByProfileLink(t *testing.T) {
	store := newTestStore(t)
	fetcher := &fakeFetcher{
		pages: map[string]string{
			"https://www.sherdog.com/events": `
<table class="new_table event">
	<tr><th>Date</th><th>Event</th><th>Location</th></tr>
	<tr onclick="document.location='/events/Regional-10';">
		<td>SEP062025</td>
		<td>Regional 10 - Smith vs. Smith</td>
		<td>Arena, Springfield, United States</td>
	</tr>
</table>`,
			"https://www.sherdog.com/events/Regional-10":     sharedNameEventPage,
			"https://www.sherdog.com/fighter/John-Smith-100": fighterProfile("Springfield", "United States"),
			"https://www.sherdog.com/fighter/John-Smith-200": fighterProfile("Shelbyville", "United States"),
		},
		hits: map[string]int{},
	}
	pipeline := buildPipeline(t, store, fetcher, time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	err := pipeline.Run(ctx)
	require.NoError(t, err)

	events, err := store.Events(ctx)
	require.NoError(t, err)
	require.Len(t, events, 1)

	fights, err := store.FightsForEvent(ctx, events[0].ID)
	require.NoError(t, err)
	require.Len(t, fights, 1)

	// both corners resolve to a stored fighter row even though the two
	// profile links carry the same display name
	require.NotZero(t, fights[0].FighterOne.ID)
	require.NotZero(t, fights[0].FighterTwo.ID)
	require.Equal(t, "John Smith", fights[0].FighterOne.Name)
	require.Equal(t, "John Smith", fights[0].FighterTwo.Name)
}

func TestRunFailsWhenDetailPageIsMissing(t *testing.T) {
	pipeline, _, fetcher := newTestPipeline(t)
	delete(fetcher.pages, "https://www.sherdog.com/events/UFC-317-Topuria-vs-Oliveira")

	err := pipeline.Run(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "UFC 317")
}
