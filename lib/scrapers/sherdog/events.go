package sherdog

import (
	"context"
	"regexp"
	"slices"
	"strings"
	"time"

	"mmascorecard-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("lib/scrapers/sherdog")

var onclickLink = regexp.MustCompile(`'([^']+)'`)

// ScrapeEvents extracts the event listing from the events page. Rows are
// three cells wide (compact date, headline, location); the detail link
// comes from the row's onclick attribute. The result is sorted by date
// descending, events without a parsable date last.
func ScrapeEvents(ctx context.Context, content string, now time.Time) ([]Event, error) {
	ctx, span := tracer.Start(ctx, "ScrapeEvents")
	defer span.End()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse html")
		return nil, err
	}

	var events []Event
	var rowErr error

	doc.Find("table.new_table.event tr").EachWithBreak(func(i int, row *goquery.Selection) bool {
		if i == 0 {
			// header row
			return true
		}
		cells := row.Find("td")
		if cells.Length() < 3 {
			return true
		}

		onclick := row.AttrOr("onclick", "")
		groups := onclickLink.FindStringSubmatch(onclick)
		if len(groups) < 2 {
			rowErr = &ParseError{Row: i, Missing: []string{"link"}}
			return false
		}
		link := groups[1]

		date := ParseCompactDate(htmlutil.CleanText(cells.Eq(0)))
		name, fight := splitHeadline(htmlutil.CleanText(cells.Eq(1)))
		location := htmlutil.CleanText(cells.Eq(2))

		status := EventPast
		if date == nil || date.After(now) {
			status = EventUpcoming
		}

		events = append(events, Event{
			Name:     name,
			Fight:    fight,
			Date:     date,
			Location: location,
			Link:     link,
			Status:   status,
		})
		return true
	})
	if rowErr != nil {
		span.RecordError(rowErr)
		span.SetStatus(codes.Error, "failed to extract event row")
		return nil, rowErr
	}
	span.SetAttributes(attribute.Int("event_count", len(events)))

	slices.SortFunc(events, func(a, b Event) int {
		switch {
		case a.Date == nil && b.Date == nil:
			return 0
		case a.Date == nil:
			return 1
		case b.Date == nil:
			return -1
		}
		return b.Date.Compare(*a.Date)
	})

	return events, nil
}

// splitHeadline separates "UFC 320 - Ankalaev vs. Pereira 2" into the
// event name and the headline fight. A cell with a "vs" but no dash is a
// fight headline standing in for the whole name.
func splitHeadline(cell string) (name, fight string) {
	if before, after, found := strings.Cut(cell, " - "); found {
		return strings.TrimSpace(before), strings.TrimSpace(after)
	}
	lower := strings.ToLower(cell)
	if strings.Contains(lower, " vs ") || strings.Contains(lower, " vs. ") {
		return cell, cell
	}
	return cell, ""
}
