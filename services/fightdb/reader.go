package fightdb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"mmascorecard-backend/services/fightdb/db"
)

// Nested entity shapes consumed by the presentation layer. All read
// paths, no writes.

type Country struct {
	ID   int64
	Name string
}

type City struct {
	ID      int64
	Name    string
	Country Country
}

type Location struct {
	ID   int64
	Name string
	City City
}

type Event struct {
	ID       int64
	Name     string
	Fight    string
	Date     *time.Time
	Link     string
	Status   string
	Location Location
}

type Fighter struct {
	ID       int64
	Name     string
	Nickname string
	City     City
	Birthday *time.Time
	Died     *time.Time
	HeightCm float64
	WeightKg float64
	Link     string
}

type Category struct {
	ID     int64
	Name   string
	Weight int
}

type Referee struct {
	ID   int64
	Name string
}

type FightDetail struct {
	ID         int64
	Position   int
	Category   *Category
	FighterOne Fighter
	FighterTwo Fighter
	Referee    *Referee
	MainEvent  bool
	TitleFight bool
	Type       string
	Method     string
	Time       int
	Round      int
	Decision   string
	EventID    int64
}

// geography loads the location hierarchy once per read call; the tables
// are small enough that composing through maps beats join scanning.
type geography struct {
	countries map[int64]Country
	cities    map[int64]City
	locations map[int64]Location
}

func (s Store) loadGeography(ctx context.Context) (geography, error) {
	countryRows, err := s.qry.ListCountries(ctx)
	if err != nil {
		return geography{}, err
	}
	cityRows, err := s.qry.ListCities(ctx)
	if err != nil {
		return geography{}, err
	}
	locationRows, err := s.qry.ListLocations(ctx)
	if err != nil {
		return geography{}, err
	}

	geo := geography{
		countries: map[int64]Country{},
		cities:    map[int64]City{},
		locations: map[int64]Location{},
	}
	for _, row := range countryRows {
		geo.countries[row.ID] = Country{ID: row.ID, Name: row.Name}
	}
	for _, row := range cityRows {
		geo.cities[row.ID] = City{
			ID:      row.ID,
			Name:    row.Name,
			Country: geo.countries[row.CountryID],
		}
	}
	for _, row := range locationRows {
		geo.locations[row.ID] = Location{
			ID:   row.ID,
			Name: row.Name,
			City: geo.cities[row.CityID],
		}
	}
	return geo, nil
}

// Events returns every event with its location chain resolved, most
// recent first.
func (s Store) Events(ctx context.Context) ([]Event, error) {
	geo, err := s.loadGeography(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := s.qry.ListEvents(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]Event, len(rows))
	for i, row := range rows {
		out[i] = Event{
			ID:       row.ID,
			Name:     row.Name,
			Fight:    row.Fight.String,
			Date:     parseDate(row.Date),
			Link:     row.Link,
			Status:   row.Status,
			Location: geo.locations[row.LocationID],
		}
	}
	return out, nil
}

// Fighters returns every fighter with their city and country resolved.
func (s Store) Fighters(ctx context.Context) ([]Fighter, error) {
	geo, err := s.loadGeography(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := s.qry.ListFighters(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]Fighter, len(rows))
	for i, row := range rows {
		out[i] = fighterFromRow(row, geo)
	}
	return out, nil
}

func fighterFromRow(row db.Fighter, geo geography) Fighter {
	return Fighter{
		ID:       row.ID,
		Name:     row.Name,
		Nickname: row.Nickname.String,
		City:     geo.cities[row.CityID],
		Birthday: parseDate(row.Birthday),
		Died:     parseDate(row.Died),
		HeightCm: row.Height,
		WeightKg: row.Weight,
		Link:     row.Link,
	}
}

// FightsForEvent returns an event's card with categories, fighters and
// referees resolved, main event first.
func (s Store) FightsForEvent(ctx context.Context, eventID int64) ([]FightDetail, error) {
	geo, err := s.loadGeography(ctx)
	if err != nil {
		return nil, err
	}

	fighterRows, err := s.qry.ListFighters(ctx)
	if err != nil {
		return nil, err
	}
	fighters := map[int64]Fighter{}
	for _, row := range fighterRows {
		fighters[row.ID] = fighterFromRow(row, geo)
	}

	categoryRows, err := s.qry.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	categories := map[int64]Category{}
	for _, row := range categoryRows {
		categories[row.ID] = Category{ID: row.ID, Name: row.Name, Weight: int(row.Weight)}
	}

	refereeRows, err := s.qry.ListReferees(ctx)
	if err != nil {
		return nil, err
	}
	referees := map[int64]Referee{}
	for _, row := range refereeRows {
		referees[row.ID] = Referee{ID: row.ID, Name: row.Name}
	}

	rows, err := s.qry.ListFightsByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	out := make([]FightDetail, len(rows))
	for i, row := range rows {
		fighterOne, ok := fighters[row.FighterOneID]
		if !ok {
			return nil, fmt.Errorf("fight %d references unknown fighter %d", row.ID, row.FighterOneID)
		}
		fighterTwo, ok := fighters[row.FighterTwoID]
		if !ok {
			return nil, fmt.Errorf("fight %d references unknown fighter %d", row.ID, row.FighterTwoID)
		}

		detail := FightDetail{
			ID:         row.ID,
			Position:   int(row.Position),
			FighterOne: fighterOne,
			FighterTwo: fighterTwo,
			MainEvent:  row.MainEvent,
			TitleFight: row.TitleFight,
			Type:       row.Type,
			Method:     row.Method.String,
			Time:       int(row.Time.Int64),
			Round:      int(row.Round.Int64),
			Decision:   row.Decision.String,
			EventID:    row.EventID,
		}
		if row.CategoryID.Valid {
			category := categories[row.CategoryID.Int64]
			detail.Category = &category
		}
		if row.RefereeID.Valid {
			referee := referees[row.RefereeID.Int64]
			detail.Referee = &referee
		}
		out[i] = detail
	}
	return out, nil
}

func parseDate(value sql.NullString) *time.Time {
	if !value.Valid {
		return nil
	}
	date, err := time.Parse(time.DateOnly, value.String)
	if err != nil {
		return nil
	}
	return &date
}
