// Package pipeline drives one full scraping pass: events first, then
// each dependency level in order, so every foreign key's parent row
// exists before a dependent insert is attempted. Fetches may be warmed
// concurrently; writes are strictly sequential.
package pipeline

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"time"

	"mmascorecard-backend/lib/scrapers/sherdog"
	"mmascorecard-backend/services/fightdb"

	"github.com/jedib0t/go-pretty/v6/progress"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/fightdb/pipeline")

// Fetcher returns the raw document behind a url, from cache when
// possible. lib/fetchcache satisfies this.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Warmer is the optional prefetch side of a Fetcher.
type Warmer interface {
	Warm(ctx context.Context, urls []string, workers int)
}

type Options struct {
	BaseURL string
	// path of the event listing page under BaseURL
	EventsPath string
	Store      fightdb.Store
	Fetcher    Fetcher
	// pass a logger explicitly instead of toggling a global flag
	Logger *slog.Logger
	// progress rendering sink, discarded when nil
	Progress io.Writer
	// number of concurrent prefetches, 1 disables warming
	Workers int
	Now     func() time.Time
}

type Pipeline struct {
	opts Options
	base *url.URL
}

func New(opts Options) (*Pipeline, error) {
	base, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if opts.EventsPath == "" {
		opts.EventsPath = "/events"
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Progress == nil {
		opts.Progress = io.Discard
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Pipeline{opts: opts, base: base}, nil
}

// Run performs a full pass over every listed event.
func (p *Pipeline) Run(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()

	events, err := p.scrapeEventList(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to scrape event list")
		return err
	}

	err = p.process(ctx, p.opts.Store, events)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "pipeline failed")
		return err
	}
	return nil
}

// Refresh purges upcoming events and reinserts them from a fresh scrape,
// leaving past events untouched. This is the narrow cycle the scheduled
// refresh contract invokes. The scrape happens before anything is
// deleted and the purge+reinsert runs in one transaction, so a failed
// refresh leaves the store exactly as it was.
func (p *Pipeline) Refresh(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "Refresh")
	defer span.End()

	events, err := p.scrapeEventList(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to scrape event list")
		return err
	}

	// every stored upcoming event is about to be purged; a re-scraped
	// event matching one is reinserted even when its status has since
	// flipped to past, otherwise the transition would drop it entirely
	stored, err := p.opts.Store.Events(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to list stored events")
		return err
	}
	purging := map[string]bool{}
	for _, event := range stored {
		if event.Status == string(sherdog.EventUpcoming) {
			purging[event.Name] = true
		}
	}
	var refresh []sherdog.Event
	for _, event := range events {
		if event.Status == sherdog.EventUpcoming || purging[event.Name] {
			refresh = append(refresh, event)
		}
	}

	store, tx, err := p.opts.Store.Begin(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to begin transaction")
		return err
	}
	defer tx.Rollback()

	err = store.PurgeUpcoming(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to purge upcoming events")
		return err
	}

	err = p.process(ctx, store, refresh)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "refresh failed")
		return err
	}
	return tx.Commit()
}

func (p *Pipeline) scrapeEventList(ctx context.Context) ([]sherdog.Event, error) {
	listURL, err := p.base.Parse(p.opts.EventsPath)
	if err != nil {
		return nil, err
	}
	content, err := p.opts.Fetcher.Fetch(ctx, listURL.String())
	if err != nil {
		return nil, err
	}
	return sherdog.ScrapeEvents(ctx, content, p.opts.Now())
}

// eventCard pairs an event with its scraped fights through the levels.
type eventCard struct {
	event  sherdog.Event
	id     int64
	fights []sherdog.Fight
}

func (p *Pipeline) process(ctx context.Context, store fightdb.Store, events []sherdog.Event) error {
	pw := progress.NewWriter()
	pw.SetOutputWriter(p.opts.Progress)
	go pw.Render()
	defer pw.Stop()

	log := p.opts.Logger

	// level 1: events, each deriving its country/city/location parents
	cards := make([]*eventCard, len(events))
	eventTracker := newTracker(pw, "events", len(events))
	for i, event := range events {
		id, err := store.EnsureEvent(ctx, event)
		if err != nil {
			return fmt.Errorf("event %q: %w", event.Name, err)
		}
		cards[i] = &eventCard{event: event, id: id}
		eventTracker.Increment(1)
	}
	eventTracker.MarkAsDone()
	log.InfoContext(ctx, "events written", "count", len(events))

	// level 2: fight cards, fetched per event detail page. Event links
	// come off the listing page relative to the site root.
	links := make([]string, len(cards))
	for i, card := range cards {
		link, err := p.base.Parse(card.event.Link)
		if err != nil {
			return fmt.Errorf("event %q: %w", card.event.Name, err)
		}
		links[i] = link.String()
	}
	p.warm(ctx, links)
	cardTracker := newTracker(pw, "fight cards", len(cards))
	for i, card := range cards {
		content, err := p.opts.Fetcher.Fetch(ctx, links[i])
		if err != nil {
			return fmt.Errorf("event %q: %w", card.event.Name, err)
		}
		card.fights, err = sherdog.ScrapeFights(ctx, content, p.base)
		if err != nil {
			return fmt.Errorf("event %q: %w", card.event.Name, err)
		}
		cardTracker.Increment(1)
	}
	cardTracker.MarkAsDone()

	// level 3: fighters, enriched from their profile pages
	participants := uniqueParticipants(cards)
	p.warm(ctx, participantLinks(participants))
	fighterIDs := map[string]int64{}
	fighterTracker := newTracker(pw, "fighters", len(participants))
	for _, participant := range participants {
		content, err := p.opts.Fetcher.Fetch(ctx, participant.Link)
		if err != nil {
			return fmt.Errorf("fighter %q: %w", participant.Name, err)
		}
		stats, err := sherdog.ScrapeFighter(ctx, content)
		if err != nil {
			return fmt.Errorf("fighter %q: %w", participant.Name, err)
		}
		id, err := store.EnsureFighter(ctx, participant, stats)
		if err != nil {
			return fmt.Errorf("fighter %q: %w", participant.Name, err)
		}
		// keyed by profile link, the same key uniqueParticipants dedups on
		fighterIDs[participant.Link] = id
		fighterTracker.Increment(1)
	}
	fighterTracker.MarkAsDone()
	log.InfoContext(ctx, "fighters written", "count", len(participants))

	// level 4: categories
	categoryIDs := map[string]int64{}
	for _, card := range cards {
		for _, fight := range card.fights {
			if _, done := categoryIDs[fight.Division]; done {
				continue
			}
			id, err := store.EnsureCategory(ctx, fight.Division)
			if err != nil {
				return fmt.Errorf("division %q: %w", fight.Division, err)
			}
			categoryIDs[fight.Division] = id
		}
	}

	// level 5: referees, completed fights only
	refereeIDs := map[string]int64{}
	for _, card := range cards {
		for _, fight := range card.fights {
			if fight.Type != sherdog.FightDone {
				continue
			}
			if _, done := refereeIDs[fight.Referee]; done {
				continue
			}
			id, err := store.EnsureReferee(ctx, fight.Referee)
			if err != nil {
				return fmt.Errorf("referee %q: %w", fight.Referee, err)
			}
			refereeIDs[fight.Referee] = id
		}
	}

	// level 6: fights, every parent row now exists
	total := 0
	for _, card := range cards {
		total += len(card.fights)
	}
	fightTracker := newTracker(pw, "fights", total)
	for _, card := range cards {
		for _, fight := range card.fights {
			refs := fightdb.FightRefs{
				EventID:      card.id,
				FighterOneID: fighterIDs[fight.FighterOne.Link],
				FighterTwoID: fighterIDs[fight.FighterTwo.Link],
				CategoryID:   sql.NullInt64{Int64: categoryIDs[fight.Division], Valid: true},
			}
			if fight.Type == sherdog.FightDone {
				refs.RefereeID = sql.NullInt64{Int64: refereeIDs[fight.Referee], Valid: true}
			}
			_, err := store.EnsureFight(ctx, fight, refs)
			if err != nil {
				return fmt.Errorf("event %q position %d: %w", card.event.Name, fight.Position, err)
			}
			fightTracker.Increment(1)
		}
	}
	fightTracker.MarkAsDone()
	log.InfoContext(ctx, "fights written", "count", total)

	return nil
}

func (p *Pipeline) warm(ctx context.Context, urls []string) {
	if p.opts.Workers < 2 {
		return
	}
	warmer, ok := p.opts.Fetcher.(Warmer)
	if !ok {
		return
	}
	warmer.Warm(ctx, urls, p.opts.Workers)
}

func newTracker(pw progress.Writer, message string, total int) *progress.Tracker {
	tracker := &progress.Tracker{
		Message: message,
		Total:   int64(total),
		Units:   progress.UnitsDefault,
	}
	pw.AppendTracker(tracker)
	return tracker
}

// uniqueParticipants gathers every fighter appearing on any card, keyed
// by profile link, in first-seen order.
func uniqueParticipants(cards []*eventCard) []sherdog.Participant {
	seen := map[string]bool{}
	var out []sherdog.Participant
	for _, card := range cards {
		for _, fight := range card.fights {
			for _, participant := range []sherdog.Participant{fight.FighterOne, fight.FighterTwo} {
				if seen[participant.Link] {
					continue
				}
				seen[participant.Link] = true
				out = append(out, participant)
			}
		}
	}
	return out
}

func participantLinks(participants []sherdog.Participant) []string {
	links := make([]string, len(participants))
	for i, participant := range participants {
		links[i] = participant.Link
	}
	return links
}
