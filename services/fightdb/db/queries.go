package db

import (
	"context"
	"database/sql"
)

func (q *Queries) GetCountryByName(ctx context.Context, name string) (Country, error) {
	row := q.db.QueryRowContext(ctx, `SELECT id, name FROM countries WHERE name = ?`, name)
	var out Country
	err := row.Scan(&out.ID, &out.Name)
	return out, err
}

func (q *Queries) CreateCountry(ctx context.Context, name string) (int64, error) {
	res, err := q.db.ExecContext(ctx, `INSERT INTO countries (name) VALUES (?)`, name)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (q *Queries) GetCityByName(ctx context.Context, name string, countryID int64) (City, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT id, name, country_id FROM cities
		WHERE name = ? AND country_id = ?
	`, name, countryID)
	var out City
	err := row.Scan(&out.ID, &out.Name, &out.CountryID)
	return out, err
}

func (q *Queries) CreateCity(ctx context.Context, name string, countryID int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO cities (name, country_id) VALUES (?, ?)
	`, name, countryID)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (q *Queries) GetLocationByName(ctx context.Context, name string, cityID int64) (Location, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT id, name, city_id FROM locations
		WHERE name = ? AND city_id = ?
	`, name, cityID)
	var out Location
	err := row.Scan(&out.ID, &out.Name, &out.CityID)
	return out, err
}

func (q *Queries) CreateLocation(ctx context.Context, name string, cityID int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO locations (name, city_id) VALUES (?, ?)
	`, name, cityID)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (q *Queries) GetEventByName(ctx context.Context, name string) (Event, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT id, name, fight, date, link, status, location_id
		FROM events WHERE name = ?
	`, name)
	var out Event
	err := row.Scan(&out.ID, &out.Name, &out.Fight, &out.Date, &out.Link, &out.Status, &out.LocationID)
	return out, err
}

type CreateEventParams struct {
	Name       string
	Fight      sql.NullString
	Date       sql.NullString
	Link       string
	Status     string
	LocationID int64
}

func (q *Queries) CreateEvent(ctx context.Context, params CreateEventParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO events (name, fight, date, link, status, location_id)
		VALUES (?, ?, ?, ?, ?, ?)
	`, params.Name, params.Fight, params.Date, params.Link, params.Status, params.LocationID)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (q *Queries) ListEvents(ctx context.Context) ([]Event, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, name, fight, date, link, status, location_id
		FROM events ORDER BY date DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var event Event
		err := rows.Scan(&event.ID, &event.Name, &event.Fight, &event.Date, &event.Link, &event.Status, &event.LocationID)
		if err != nil {
			return nil, err
		}
		out = append(out, event)
	}
	return out, rows.Err()
}

func (q *Queries) DeleteUpcomingEvents(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, `
		DELETE FROM fights WHERE event_id IN (
			SELECT id FROM events WHERE status = 'upcoming'
		)
	`)
	if err != nil {
		return err
	}
	_, err = q.db.ExecContext(ctx, `DELETE FROM events WHERE status = 'upcoming'`)
	return err
}

func (q *Queries) GetFighterByName(ctx context.Context, name string) (Fighter, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT id, name, nickname, city_id, birthday, died, height, weight, link
		FROM fighters WHERE name = ?
	`, name)
	var out Fighter
	err := row.Scan(
		&out.ID, &out.Name, &out.Nickname, &out.CityID,
		&out.Birthday, &out.Died, &out.Height, &out.Weight, &out.Link,
	)
	return out, err
}

type CreateFighterParams struct {
	Name     string
	Nickname sql.NullString
	CityID   int64
	Birthday sql.NullString
	Died     sql.NullString
	Height   float64
	Weight   float64
	Link     string
}

func (q *Queries) CreateFighter(ctx context.Context, params CreateFighterParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO fighters (name, nickname, city_id, birthday, died, height, weight, link)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		params.Name, params.Nickname, params.CityID, params.Birthday,
		params.Died, params.Height, params.Weight, params.Link,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (q *Queries) ListFighters(ctx context.Context) ([]Fighter, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, name, nickname, city_id, birthday, died, height, weight, link
		FROM fighters ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Fighter
	for rows.Next() {
		var fighter Fighter
		err := rows.Scan(
			&fighter.ID, &fighter.Name, &fighter.Nickname, &fighter.CityID,
			&fighter.Birthday, &fighter.Died, &fighter.Height, &fighter.Weight, &fighter.Link,
		)
		if err != nil {
			return nil, err
		}
		out = append(out, fighter)
	}
	return out, rows.Err()
}

func (q *Queries) GetCategoryByName(ctx context.Context, name string, weight int64) (Category, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT id, name, weight FROM categories
		WHERE name = ? AND weight = ?
	`, name, weight)
	var out Category
	err := row.Scan(&out.ID, &out.Name, &out.Weight)
	return out, err
}

func (q *Queries) CreateCategory(ctx context.Context, name string, weight int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO categories (name, weight) VALUES (?, ?)
	`, name, weight)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (q *Queries) GetRefereeByName(ctx context.Context, name string) (Referee, error) {
	row := q.db.QueryRowContext(ctx, `SELECT id, name FROM referees WHERE name = ?`, name)
	var out Referee
	err := row.Scan(&out.ID, &out.Name)
	return out, err
}

func (q *Queries) CreateReferee(ctx context.Context, name string) (int64, error) {
	res, err := q.db.ExecContext(ctx, `INSERT INTO referees (name) VALUES (?)`, name)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (q *Queries) GetFightByPosition(ctx context.Context, eventID, position int64) (Fight, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT id, position, category_id, fighter_one_id, fighter_two_id, referee_id,
			main_event, title_fight, type, method, time, round, decision, event_id
		FROM fights WHERE event_id = ? AND position = ?
	`, eventID, position)
	var out Fight
	err := row.Scan(
		&out.ID, &out.Position, &out.CategoryID, &out.FighterOneID, &out.FighterTwoID,
		&out.RefereeID, &out.MainEvent, &out.TitleFight, &out.Type, &out.Method,
		&out.Time, &out.Round, &out.Decision, &out.EventID,
	)
	return out, err
}

type CreateFightParams struct {
	Position     int64
	CategoryID   sql.NullInt64
	FighterOneID int64
	FighterTwoID int64
	RefereeID    sql.NullInt64
	MainEvent    bool
	TitleFight   bool
	Type         string
	Method       sql.NullString
	Time         sql.NullInt64
	Round        sql.NullInt64
	Decision     sql.NullString
	EventID      int64
}

func (q *Queries) CreateFight(ctx context.Context, params CreateFightParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO fights (
			position, category_id, fighter_one_id, fighter_two_id, referee_id,
			main_event, title_fight, type, method, time, round, decision, event_id
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		params.Position, params.CategoryID, params.FighterOneID, params.FighterTwoID,
		params.RefereeID, params.MainEvent, params.TitleFight, params.Type,
		params.Method, params.Time, params.Round, params.Decision, params.EventID,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (q *Queries) ListFightsByEvent(ctx context.Context, eventID int64) ([]Fight, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, position, category_id, fighter_one_id, fighter_two_id, referee_id,
			main_event, title_fight, type, method, time, round, decision, event_id
		FROM fights WHERE event_id = ? ORDER BY position DESC
	`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Fight
	for rows.Next() {
		var fight Fight
		err := rows.Scan(
			&fight.ID, &fight.Position, &fight.CategoryID, &fight.FighterOneID, &fight.FighterTwoID,
			&fight.RefereeID, &fight.MainEvent, &fight.TitleFight, &fight.Type, &fight.Method,
			&fight.Time, &fight.Round, &fight.Decision, &fight.EventID,
		)
		if err != nil {
			return nil, err
		}
		out = append(out, fight)
	}
	return out, rows.Err()
}

func (q *Queries) ListCountries(ctx context.Context) ([]Country, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT id, name FROM countries`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Country
	for rows.Next() {
		var country Country
		err := rows.Scan(&country.ID, &country.Name)
		if err != nil {
			return nil, err
		}
		out = append(out, country)
	}
	return out, rows.Err()
}

func (q *Queries) ListCities(ctx context.Context) ([]City, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT id, name, country_id FROM cities`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []City
	for rows.Next() {
		var city City
		err := rows.Scan(&city.ID, &city.Name, &city.CountryID)
		if err != nil {
			return nil, err
		}
		out = append(out, city)
	}
	return out, rows.Err()
}

func (q *Queries) ListLocations(ctx context.Context) ([]Location, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT id, name, city_id FROM locations`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Location
	for rows.Next() {
		var location Location
		err := rows.Scan(&location.ID, &location.Name, &location.CityID)
		if err != nil {
			return nil, err
		}
		out = append(out, location)
	}
	return out, rows.Err()
}

func (q *Queries) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT id, name, weight FROM categories`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Category
	for rows.Next() {
		var category Category
		err := rows.Scan(&category.ID, &category.Name, &category.Weight)
		if err != nil {
			return nil, err
		}
		out = append(out, category)
	}
	return out, rows.Err()
}

func (q *Queries) ListReferees(ctx context.Context) ([]Referee, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT id, name FROM referees`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Referee
	for rows.Next() {
		var referee Referee
		err := rows.Scan(&referee.ID, &referee.Name)
		if err != nil {
			return nil, err
		}
		out = append(out, referee)
	}
	return out, rows.Err()
}
