package fixture

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Wire format constants — version 1
// --------------------------------------------------------------------------

// Tag glyphs are the field delimiters of the encoded description. Events
// created by earlier bot versions must stay decodable, so treat this table
// as append-only.
const (
	TagTeams       = "⚽"
	TagLocal       = "🏠"
	TagVisiting    = "🧳"
	TagCompetition = "🏆"
	TagStadium     = "🏟️"
	TagDate        = "📅"
	TagReferee     = "⚖️"
	TagTV          = "📺"
)

// NotAnnounced is the sentinel written for absent optional fields. The line
// is always present in the encoded form; only its value changes.
const NotAnnounced = "No anunciado"

// teamsSeparator splits the teams line into local and visiting.
const teamsSeparator = " vs "

// dateLayout is the fixed kickoff format, rendered in the configured
// local timezone.
const dateLayout = "02/01/2006 15:04"

var (
	// ErrMalformedDescription means the teams line is absent or does not
	// contain the " vs " separator.
	ErrMalformedDescription = errors.New("description has no parseable teams line")

	// ErrInvalidTimestamp means the date line does not match the
	// DD/MM/YYYY HH:MM layout.
	ErrInvalidTimestamp = errors.New("description has no parseable date line")
)

// --------------------------------------------------------------------------
// Codec
// --------------------------------------------------------------------------

// Codec encodes fixtures into scheduled-event descriptions and back.
// The location fixes the timezone the date line is rendered and parsed in.
type Codec struct {
	loc *time.Location
}

// NewCodec creates a codec for the given local timezone. A nil location
// falls back to UTC.
func NewCodec(loc *time.Location) *Codec {
	if loc == nil {
		loc = time.UTC
	}
	return &Codec{loc: loc}
}

// Encode renders a fixture as the emoji-tagged description block. Field
// order is fixed; absent optional fields are written as the sentinel so
// every tagged line is always present.
func (c *Codec) Encode(f Fixture) string {
	var b strings.Builder
	line := func(tag, value string) {
		if value == "" {
			value = NotAnnounced
		}
		b.WriteString("\t  ")
		b.WriteString(tag)
		b.WriteString("\t")
		b.WriteString(value)
		b.WriteString("\n")
	}

	line(TagTeams, f.LocalTeam+teamsSeparator+f.VisitingTeam)
	line(TagCompetition, f.Competition)
	line(TagStadium, f.Stadium)
	line(TagDate, f.DateTime.In(c.loc).Format(dateLayout))
	line(TagReferee, f.Referee)
	line(TagTV, f.TVChannels)
	return b.String()
}

// Decode parses a description block back into a fixture.
//
// Only the teams line is required; any other missing tagged line yields an
// absent field, not an error, so descriptions written before a field
// existed stay decodable. A date line that is present but unparseable is
// an error. Sentinel values map back to absent.
func (c *Codec) Decode(text string) (Fixture, error) {
	var f Fixture
	var haveTeams bool

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)

		switch {
		case strings.HasPrefix(line, TagTeams):
			teams := strings.TrimSpace(strings.TrimPrefix(line, TagTeams))
			local, visiting, ok := strings.Cut(teams, teamsSeparator)
			if !ok {
				return Fixture{}, fmt.Errorf("%w: %q", ErrMalformedDescription, teams)
			}
			f.LocalTeam = strings.TrimSpace(local)
			f.VisitingTeam = strings.TrimSpace(visiting)
			haveTeams = true

		case strings.HasPrefix(line, TagDate):
			value := strings.TrimSpace(strings.TrimPrefix(line, TagDate))
			dt, err := time.ParseInLocation(dateLayout, value, c.loc)
			if err != nil {
				return Fixture{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, value)
			}
			f.DateTime = dt

		case strings.HasPrefix(line, TagCompetition):
			f.Competition = optional(line, TagCompetition)
		case strings.HasPrefix(line, TagStadium):
			f.Stadium = optional(line, TagStadium)
		case strings.HasPrefix(line, TagReferee):
			f.Referee = optional(line, TagReferee)
		case strings.HasPrefix(line, TagTV):
			f.TVChannels = optional(line, TagTV)
		}
	}

	if !haveTeams {
		return Fixture{}, ErrMalformedDescription
	}
	return f, nil
}

// optional extracts a tagged value, mapping the sentinel back to absent.
func optional(line, tag string) string {
	value := strings.TrimSpace(strings.TrimPrefix(line, tag))
	if value == NotAnnounced {
		return ""
	}
	return value
}

// --------------------------------------------------------------------------
// Diff
// --------------------------------------------------------------------------

// Diff returns one rendered entry per differing field, in the Fixture's
// fixed field order (kickoff before venue details) regardless of which
// fields differ. Empty iff the fixtures are equal.
func (c *Codec) Diff(old, new Fixture) []string {
	var changes []string
	add := func(tag, oldVal, newVal string) {
		if oldVal == newVal {
			return
		}
		changes = append(changes, formatChange(tag, oldVal, newVal))
	}

	add(TagLocal, old.LocalTeam, new.LocalTeam)
	add(TagVisiting, old.VisitingTeam, new.VisitingTeam)
	add(TagCompetition, old.Competition, new.Competition)
	if !old.DateTime.Equal(new.DateTime) {
		changes = append(changes, formatChange(TagDate,
			old.DateTime.In(c.loc).Format(dateLayout),
			new.DateTime.In(c.loc).Format(dateLayout)))
	}
	add(TagStadium, old.Stadium, new.Stadium)
	add(TagReferee, old.Referee, new.Referee)
	add(TagTV, old.TVChannels, new.TVChannels)
	return changes
}

func formatChange(tag, oldVal, newVal string) string {
	if oldVal == "" {
		oldVal = NotAnnounced
	}
	if newVal == "" {
		newVal = NotAnnounced
	}
	return fmt.Sprintf("%s: %s -> %s", tag, oldVal, newVal)
}
