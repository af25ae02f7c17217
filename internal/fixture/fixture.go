// Package fixture provides the match fixture value type and its text codec.
//
// A fixture is one upcoming match's descriptive facts. Its serialized form
// lives inside the Discord scheduled event's description field, which is the
// durable record — there is no database row linking event and fixture.
package fixture

import "time"

// Fixture holds one match's essential facts. Optional string fields use the
// empty string for "not announced". Immutable once constructed.
type Fixture struct {
	LocalTeam    string
	VisitingTeam string
	Competition  string
	DateTime     time.Time
	Stadium      string
	Referee      string
	TVChannels   string
}

// Equal reports full structural equality, including the exact kickoff
// instant (not just the date).
func (f Fixture) Equal(other Fixture) bool {
	return f.LocalTeam == other.LocalTeam &&
		f.VisitingTeam == other.VisitingTeam &&
		f.Competition == other.Competition &&
		f.DateTime.Equal(other.DateTime) &&
		f.Stadium == other.Stadium &&
		f.Referee == other.Referee &&
		f.TVChannels == other.TVChannels
}

// EventName derives the deterministic scheduled-event name used as the
// matching key by the synchronization engine.
func (f Fixture) EventName() string {
	return "Watch Party - " + f.LocalTeam + " vs " + f.VisitingTeam
}
