package db

import "database/sql"

type Country struct {
	ID   int64
	Name string
}

type City struct {
	ID        int64
	Name      string
	CountryID int64
}

type Location struct {
	ID     int64
	Name   string
	CityID int64
}

type Event struct {
	ID         int64
	Name       string
	Fight      sql.NullString
	Date       sql.NullString
	Link       string
	Status     string
	LocationID int64
}

type Fighter struct {
	ID       int64
	Name     string
	Nickname sql.NullString
	CityID   int64
	Birthday sql.NullString
	Died     sql.NullString
	Height   float64
	Weight   float64
	Link     string
}

type Category struct {
	ID     int64
	Name   string
	Weight int64
}

type Referee struct {
	ID   int64
	Name string
}

type Fight struct {
	ID           int64
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
