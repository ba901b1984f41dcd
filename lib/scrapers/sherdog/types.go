// Package sherdog extracts events, fight cards and fighter bios from the
// site's rendered HTML. Every function here is pure: document text in,
// typed records out.
package sherdog

import "time"

type EventStatus string

const (
	EventUpcoming EventStatus = "upcoming"
	EventPast     EventStatus = "past"
)

type Event struct {
	Name string
	// headline of the main fight, empty when the listing cell carries
	// no separator
	Fight    string
	Date     *time.Time
	Location string
	Link     string
	Status   EventStatus
}

type FightType string

const (
	FightPending FightType = "pending"
	FightDone    FightType = "done"
)

// Participant is one fighter's block inside a fight row.
type Participant struct {
	Name  string
	Image string
	Link  string
}

type Fight struct {
	Position   int
	FighterOne Participant
	FighterTwo Participant
	// raw division cell, e.g. "185 Middleweight" or "Light Heavyweight
	// Title Bout"
	Division   string
	Type       FightType
	MainEvent  bool
	TitleFight bool
	Decision   string
	Method     string
	Referee    string
	Round      int
	// fight end time within the round, in seconds
	Time int
}

type FighterStats struct {
	Nickname    string
	Nationality string
	City        string
	Birthday    *time.Time
	Died        *time.Time
	HeightCm    float64
	WeightKg    float64
}

type Category struct {
	Name string
	// weight limit in pounds
	Weight int
}
