// Package fightdb normalizes scraped records into the relational store.
// Every write is a check-then-insert on the row's natural key, so a
// re-run over the same input never creates duplicates and never updates
// a row in place.
package fightdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"mmascorecard-backend/lib/scrapers/sherdog"
	"mmascorecard-backend/services/fightdb/db"
)

type Store struct {
	db  *sql.DB
	qry *db.Queries
}

func NewStore(database *sql.DB) Store {
	return Store{
		db:  database,
		qry: db.New(database),
	}
}

// Begin returns a copy of the store whose writes run inside tx. Nothing
// is visible to other readers until the caller commits; rolling back
// leaves the store exactly as it was.
func (s Store) Begin(ctx context.Context) (Store, *sql.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Store{}, nil, err
	}
	return Store{db: s.db, qry: s.qry.WithTx(tx)}, tx, nil
}

// EnsureSchema creates any missing table. It is safe to run on every
// startup.
func (s Store) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, db.Schema)
	return err
}

// ResetSchema drops and recreates every table for a full-rebuild run.
func (s Store) ResetSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, db.Drop)
	if err != nil {
		return err
	}
	return s.EnsureSchema(ctx)
}

// SplitLocation breaks an event's location cell into venue, city and
// country. The country is always the last comma-separated part; with
// three or more parts the first is the venue and the second the city,
// with fewer the city has to stand in for the venue as well.
func SplitLocation(location string) (venue, city, country string) {
	parts := strings.Split(location, ", ")
	switch len(parts) {
	case 1:
		return parts[0], parts[0], parts[0]
	case 2:
		return parts[0], parts[0], parts[1]
	default:
		return parts[0], parts[1], parts[len(parts)-1]
	}
}

func (s Store) EnsureCountry(ctx context.Context, name string) (int64, error) {
	if name == "" {
		return 0, fmt.Errorf("country name is required")
	}
	existing, err := s.qry.GetCountryByName(ctx, name)
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}
	return s.qry.CreateCountry(ctx, name)
}

func (s Store) EnsureCity(ctx context.Context, name string, countryID int64) (int64, error) {
	if name == "" {
		return 0, fmt.Errorf("city name is required")
	}
	existing, err := s.qry.GetCityByName(ctx, name, countryID)
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}
	return s.qry.CreateCity(ctx, name, countryID)
}

func (s Store) EnsureLocation(ctx context.Context, name string, cityID int64) (int64, error) {
	if name == "" {
		return 0, fmt.Errorf("location name is required")
	}
	existing, err := s.qry.GetLocationByName(ctx, name, cityID)
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}
	return s.qry.CreateLocation(ctx, name, cityID)
}

// EnsureEventLocation derives the country, city and venue rows for a
// scraped location string in dependency order and returns the venue's
// location id.
func (s Store) EnsureEventLocation(ctx context.Context, location string) (int64, error) {
	if strings.TrimSpace(location) == "" {
		return 0, fmt.Errorf("event location is required")
	}
	venue, city, country := SplitLocation(location)

	countryID, err := s.EnsureCountry(ctx, country)
	if err != nil {
		return 0, err
	}
	cityID, err := s.EnsureCity(ctx, city, countryID)
	if err != nil {
		return 0, err
	}
	return s.EnsureLocation(ctx, venue, cityID)
}

func (s Store) EnsureEvent(ctx context.Context, event sherdog.Event) (int64, error) {
	existing, err := s.qry.GetEventByName(ctx, event.Name)
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}

	locationID, err := s.EnsureEventLocation(ctx, event.Location)
	if err != nil {
		return 0, err
	}
	return s.qry.CreateEvent(ctx, db.CreateEventParams{
		Name:       event.Name,
		Fight:      nullString(event.Fight),
		Date:       nullDate(event.Date),
		Link:       event.Link,
		Status:     string(event.Status),
		LocationID: locationID,
	})
}

// EnsureFighter inserts a fight participant enriched with their scraped
// bio, deriving the nationality and city rows first.
func (s Store) EnsureFighter(ctx context.Context, participant sherdog.Participant, stats sherdog.FighterStats) (int64, error) {
	existing, err := s.qry.GetFighterByName(ctx, participant.Name)
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}

	countryID, err := s.EnsureCountry(ctx, stats.Nationality)
	if err != nil {
		return 0, err
	}
	cityID, err := s.EnsureCity(ctx, stats.City, countryID)
	if err != nil {
		return 0, err
	}
	return s.qry.CreateFighter(ctx, db.CreateFighterParams{
		Name:     participant.Name,
		Nickname: nullString(stats.Nickname),
		CityID:   cityID,
		Birthday: nullDate(stats.Birthday),
		Died:     nullDate(stats.Died),
		Height:   stats.HeightCm,
		Weight:   stats.WeightKg,
		Link:     participant.Link,
	})
}

// EnsureCategory resolves a division cell (parsing the weight or falling
// back to the static table) into a category row.
func (s Store) EnsureCategory(ctx context.Context, division string) (int64, error) {
	category, err := sherdog.ParseCategory(division)
	if err != nil {
		return 0, err
	}

	existing, err := s.qry.GetCategoryByName(ctx, category.Name, int64(category.Weight))
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}
	return s.qry.CreateCategory(ctx, category.Name, int64(category.Weight))
}

func (s Store) EnsureReferee(ctx context.Context, name string) (int64, error) {
	if name == "" {
		return 0, fmt.Errorf("referee name is required")
	}
	existing, err := s.qry.GetRefereeByName(ctx, name)
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}
	return s.qry.CreateReferee(ctx, name)
}

// FightRefs carries the already-normalized foreign keys a fight row
// needs; the parents are guaranteed to exist because their levels
// completed before any fight insert is attempted.
type FightRefs struct {
	EventID      int64
	FighterOneID int64
	FighterTwoID int64
	CategoryID   sql.NullInt64
	RefereeID    sql.NullInt64
}

func (s Store) EnsureFight(ctx context.Context, fight sherdog.Fight, refs FightRefs) (int64, error) {
	existing, err := s.qry.GetFightByPosition(ctx, refs.EventID, int64(fight.Position))
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}

	params := db.CreateFightParams{
		Position:     int64(fight.Position),
		CategoryID:   refs.CategoryID,
		FighterOneID: refs.FighterOneID,
		FighterTwoID: refs.FighterTwoID,
		RefereeID:    refs.RefereeID,
		MainEvent:    fight.MainEvent,
		TitleFight:   fight.TitleFight,
		Type:         string(fight.Type),
		EventID:      refs.EventID,
	}
	if fight.Type == sherdog.FightDone {
		params.Method = nullString(fight.Method)
		params.Decision = nullString(fight.Decision)
		params.Round = sql.NullInt64{Int64: int64(fight.Round), Valid: true}
		params.Time = sql.NullInt64{Int64: int64(fight.Time), Valid: true}
	}
	return s.qry.CreateFight(ctx, params)
}

// PurgeUpcoming deletes upcoming events together with their fights so a
// scheduled refresh can reinsert them with corrected dates and statuses.
func (s Store) PurgeUpcoming(ctx context.Context) error {
	return s.qry.DeleteUpcomingEvents(ctx)
}

func nullString(value string) sql.NullString {
	return sql.NullString{String: value, Valid: value != ""}
}

func nullDate(value *time.Time) sql.NullString {
	if value == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: value.Format(time.DateOnly), Valid: true}
}
