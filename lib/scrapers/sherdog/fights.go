package sherdog

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"mmascorecard-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// ScrapeFights extracts the full fight card from an event detail page.
// Undercard rows come from the generic listing table and are recognized
// structurally: 7 cells is a completed fight, 5 cells a pending one. The
// main event lives in a separate card container and is appended with the
// next position. The result is sorted by position descending, so the main
// event comes first.
func ScrapeFights(ctx context.Context, content string, base *url.URL) ([]Fight, error) {
	ctx, span := tracer.Start(ctx, "ScrapeFights")
	defer span.End()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse html")
		return nil, err
	}

	var fights []Fight
	var rowErr error

	doc.Find("table.new_table tr").EachWithBreak(func(i int, row *goquery.Selection) bool {
		cells := row.Find("td")

		var fight Fight
		var parseErr error
		switch cells.Length() {
		case 7:
			fight, parseErr = parseDoneRow(i, cells, base)
		case 5:
			fight, parseErr = parsePendingRow(i, cells, base)
		default:
			// header or spacer row
			return true
		}
		if parseErr != nil {
			rowErr = parseErr
			return false
		}

		fights = append(fights, fight)
		return true
	})
	if rowErr != nil {
		span.RecordError(rowErr)
		span.SetStatus(codes.Error, "failed to extract fight row")
		return nil, rowErr
	}

	main, err := parseMainEvent(doc, base, nextPosition(fights))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to extract main event")
		return nil, err
	}
	fights = append(fights, main)
	span.SetAttributes(attribute.Int("fight_count", len(fights)))

	slices.SortFunc(fights, func(a, b Fight) int {
		return b.Position - a.Position
	})

	return fights, nil
}

func nextPosition(fights []Fight) int {
	max := 0
	for _, f := range fights {
		if f.Position > max {
			max = f.Position
		}
	}
	return max + 1
}

// participant pulls a fighter block out of a listing cell: the text is
// the name (minus the trailing win/loss token on completed fights), the
// first image and anchor are the portrait and profile link, resolved
// against the site origin.
func participant(cell *goquery.Selection, base *url.URL, stripStatus bool) Participant {
	name := htmlutil.CleanText(cell)
	if stripStatus {
		if idx := strings.LastIndex(name, " "); idx >= 0 {
			name = name[:idx]
		}
	}
	return Participant{
		Name:  name,
		Image: resolveRef(base, htmlutil.FirstAttr(cell, "img", "src")),
		Link:  resolveRef(base, htmlutil.FirstAttr(cell, "a", "href")),
	}
}

func resolveRef(base *url.URL, href string) string {
	if href == "" {
		return ""
	}
	if base == nil {
		return href
	}
	resolved, err := base.Parse(href)
	if err != nil {
		return ""
	}
	return resolved.String()
}

func participantMissing(out *[]string, p Participant, side string) {
	if p.Name == "" {
		*out = append(*out, side+" name")
	}
	if p.Image == "" {
		*out = append(*out, side+" image")
	}
	if p.Link == "" {
		*out = append(*out, side+" link")
	}
}

func parseDoneRow(row int, cells *goquery.Selection, base *url.URL) (Fight, error) {
	position, _ := strconv.Atoi(htmlutil.CleanText(cells.Eq(0)))
	one := participant(cells.Eq(1), base, true)
	division := htmlutil.CleanText(cells.Eq(2))
	two := participant(cells.Eq(3), base, true)
	decision, method, referee := SplitDecisionCell(htmlutil.CleanText(cells.Eq(4)))
	round, _ := strconv.Atoi(htmlutil.CleanText(cells.Eq(5)))
	seconds, timeOk := ParseRoundTime(htmlutil.CleanText(cells.Eq(6)))

	var missing []string
	participantMissing(&missing, one, "fighter one")
	participantMissing(&missing, two, "fighter two")
	if division == "" {
		missing = append(missing, "division")
	}
	if decision == "" {
		missing = append(missing, "decision")
	}
	if method == "" {
		missing = append(missing, "method")
	}
	if referee == "" {
		missing = append(missing, "referee")
	}
	if round == 0 {
		missing = append(missing, "round")
	}
	if !timeOk {
		missing = append(missing, "time")
	}
	if len(missing) > 0 {
		return Fight{}, &ParseError{Row: row, Missing: missing}
	}

	return Fight{
		Position:   position,
		FighterOne: one,
		FighterTwo: two,
		Division:   division,
		Type:       FightDone,
		TitleFight: IsTitleFight(division),
		Decision:   decision,
		Method:     method,
		Referee:    referee,
		Round:      round,
		Time:       seconds,
	}, nil
}

func parsePendingRow(row int, cells *goquery.Selection, base *url.URL) (Fight, error) {
	position, _ := strconv.Atoi(htmlutil.CleanText(cells.Eq(0)))
	one := participant(cells.Eq(1), base, false)
	division := htmlutil.CleanText(cells.Eq(2))
	two := participant(cells.Eq(3), base, false)

	var missing []string
	participantMissing(&missing, one, "fighter one")
	participantMissing(&missing, two, "fighter two")
	if division == "" {
		missing = append(missing, "division")
	}
	if len(missing) > 0 {
		return Fight{}, &ParseError{Row: row, Missing: missing}
	}

	return Fight{
		Position:   position,
		FighterOne: one,
		FighterTwo: two,
		Division:   division,
		Type:       FightPending,
		TitleFight: IsTitleFight(division),
	}, nil
}

// SplitDecisionCell separates a result cell like
// "Submission (Rear-Naked Choke) John Smith" into the decision, the
// method and the referee.
func SplitDecisionCell(cell string) (decision, method, referee string) {
	outcome, rest, found := strings.Cut(cell, ")")
	if !found {
		return strings.TrimSpace(cell), "", ""
	}
	referee = strings.TrimSpace(rest)

	decision, method, found = strings.Cut(outcome, "(")
	if !found {
		return strings.TrimSpace(outcome), "", referee
	}
	return strings.TrimSpace(decision), strings.TrimSpace(method), referee
}

// parseMainEvent reads the headline fight from the dedicated card
// container. Exactly one container must be present: historical layout
// variants with zero or several are surfaced as errors instead of
// silently picking one.
func parseMainEvent(doc *goquery.Document, base *url.URL, position int) (Fight, error) {
	cards := doc.Find("div.fight_card")
	if cards.Length() != 1 {
		return Fight{}, fmt.Errorf("expected exactly one fight card container, found %d", cards.Length())
	}
	card := cards.First()

	one := participant(card.Find("div.fighter.left_side"), base, false)
	two := participant(card.Find("div.fighter.right_side"), base, false)
	division := htmlutil.CleanText(card.Find("span.weight_class"))

	var missing []string
	participantMissing(&missing, one, "fighter one")
	participantMissing(&missing, two, "fighter two")
	if division == "" {
		missing = append(missing, "division")
	}
	if len(missing) > 0 {
		return Fight{}, &ParseError{Row: -1, Missing: missing}
	}

	fight := Fight{
		Position:   position,
		FighterOne: one,
		FighterTwo: two,
		Division:   division,
		Type:       FightPending,
		MainEvent:  true,
		TitleFight: IsTitleFight(division),
	}

	// the small results table only exists once the main event has been
	// fought; without it the fight stays pending
	resume := doc.Find("table.fight_card_resume")
	if resume.Length() == 0 {
		return fight, nil
	}

	err := parseResumeTable(resume.First(), &fight)
	if err != nil {
		return Fight{}, err
	}
	return fight, nil
}

// parseResumeTable fills result fields from label-prefixed cells such as
// "Method Submission (Rear-Naked Choke)" or "Round 2".
func parseResumeTable(resume *goquery.Selection, fight *Fight) error {
	resume.Find("td").Each(func(_ int, cell *goquery.Selection) {
		text := htmlutil.CleanText(cell)
		switch {
		case strings.HasPrefix(text, "Method "):
			outcome := strings.TrimPrefix(text, "Method ")
			decision, method, found := strings.Cut(outcome, "(")
			fight.Decision = strings.TrimSpace(decision)
			if found {
				fight.Method = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(method), ")"))
			}
		case strings.HasPrefix(text, "Referee "):
			fight.Referee = strings.TrimPrefix(text, "Referee ")
		case strings.HasPrefix(text, "Round "):
			fight.Round, _ = strconv.Atoi(strings.TrimPrefix(text, "Round "))
		case strings.HasPrefix(text, "Time "):
			fight.Time, _ = ParseRoundTime(strings.TrimPrefix(text, "Time "))
		}
	})

	var missing []string
	if fight.Decision == "" {
		missing = append(missing, "decision")
	}
	if fight.Method == "" {
		missing = append(missing, "method")
	}
	if fight.Referee == "" {
		missing = append(missing, "referee")
	}
	if fight.Round == 0 {
		missing = append(missing, "round")
	}
	if fight.Time == 0 {
		missing = append(missing, "time")
	}
	if len(missing) > 0 {
		return &ParseError{Row: -1, Missing: missing}
	}

	fight.Type = FightDone
	return nil
}
