package sherdog

import (
	"context"
	"strconv"
	"strings"
	"time"

	"mmascorecard-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/codes"
)

type bioField int

const (
	bioBirthday bioField = iota
	bioDied
	bioHeight
	bioWeight
)

// the bio table carries no field labels; what a row means depends on its
// index and on how many rows the table has (a fourth row means the
// fighter has died)
var bioFieldOrder = map[int][]bioField{
	3: {bioBirthday, bioHeight, bioWeight},
	4: {bioBirthday, bioDied, bioHeight, bioWeight},
}

// ScrapeFighter extracts a fighter's bio from their profile page:
// nickname and birthplace from labeled spans, dates and measurements
// from the positional bio table.
func ScrapeFighter(ctx context.Context, content string) (FighterStats, error) {
	_, span := tracer.Start(ctx, "ScrapeFighter")
	defer span.End()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse html")
		return FighterStats{}, err
	}

	stats := FighterStats{
		Nickname:    strings.Trim(htmlutil.CleanText(doc.Find("span.nickname")), `"'`),
		Nationality: htmlutil.CleanText(doc.Find("span.nationality")),
		City:        htmlutil.CleanText(doc.Find("span.locality")),
	}

	rows := doc.Find("table.bio tr")
	order, ok := bioFieldOrder[rows.Length()]
	if !ok {
		return FighterStats{}, &ParseError{Row: -1, Missing: []string{"bio"}}
	}

	rows.Each(func(i int, row *goquery.Selection) {
		value := htmlutil.CleanText(row.Find("td").Last())
		switch order[i] {
		case bioBirthday:
			stats.Birthday = parseBioDate(value)
		case bioDied:
			stats.Died = parseBioDate(value)
		case bioHeight:
			stats.HeightCm = parseMetric(value, "cm")
		case bioWeight:
			stats.WeightKg = parseMetric(value, "kg")
		}
	})

	var missing []string
	if stats.Nationality == "" {
		missing = append(missing, "nationality")
	}
	if stats.City == "" {
		missing = append(missing, "city")
	}
	if stats.HeightCm == 0 {
		missing = append(missing, "height")
	}
	if stats.WeightKg == 0 {
		missing = append(missing, "weight")
	}
	if len(missing) > 0 {
		return FighterStats{}, &ParseError{Row: -1, Missing: missing}
	}

	return stats, nil
}

func parseBioDate(value string) *time.Time {
	date, err := time.Parse(time.DateOnly, strings.TrimSpace(value))
	if err != nil {
		return nil
	}
	return &date
}

// parseMetric reads the metric half of a cell like `6'4" / 193.0 cm`,
// returning 0 when the unit is absent or the number malformed.
func parseMetric(value, unit string) float64 {
	_, metric, found := strings.Cut(value, "/")
	if !found {
		metric = value
	}
	metric = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(metric), unit))
	parsed, err := strconv.ParseFloat(metric, 64)
	if err != nil {
		return 0
	}
	return parsed
}
