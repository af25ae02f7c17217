package fixture

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLocation(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Argentina/Buenos_Aires")
	require.NoError(t, err)
	return loc
}

func TestCodec_RoundTrip(t *testing.T) {
	loc := testLocation(t)
	codec := NewCodec(loc)

	tests := []struct {
		name    string
		fixture Fixture
	}{
		{
			name: "all fields present",
			fixture: Fixture{
				LocalTeam:    "Independiente",
				VisitingTeam: "Boca",
				Competition:  "Liga Profesional",
				DateTime:     time.Date(2025, 5, 1, 20, 0, 0, 0, loc),
				Stadium:      "Libertadores de América",
				Referee:      "J. Pérez",
				TVChannels:   "ESPN",
			},
		},
		{
			name: "optional fields absent",
			fixture: Fixture{
				LocalTeam:    "Independiente",
				VisitingTeam: "Racing",
				DateTime:     time.Date(2025, 8, 17, 15, 30, 0, 0, loc),
			},
		},
		{
			name: "some optional fields absent",
			fixture: Fixture{
				LocalTeam:    "Argentina",
				VisitingTeam: "Brasil",
				Competition:  "Eliminatorias",
				DateTime:     time.Date(2026, 3, 24, 21, 0, 0, 0, loc),
				TVChannels:   "TyC Sports",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoded, err := codec.Decode(codec.Encode(tt.fixture))
			require.NoError(t, err)
			assert.True(t, decoded.Equal(tt.fixture), "decoded %+v != original %+v", decoded, tt.fixture)
		})
	}
}

func TestCodec_Encode_AbsentFieldsUseSentinel(t *testing.T) {
	loc := testLocation(t)
	codec := NewCodec(loc)

	encoded := codec.Encode(Fixture{
		LocalTeam:    "Independiente",
		VisitingTeam: "Boca",
		DateTime:     time.Date(2025, 5, 1, 20, 0, 0, 0, loc),
	})

	// Every tagged line is present even when the field is absent.
	assert.Contains(t, encoded, TagTeams+"\tIndependiente vs Boca")
	assert.Contains(t, encoded, TagCompetition+"\t"+NotAnnounced)
	assert.Contains(t, encoded, TagStadium+"\t"+NotAnnounced)
	assert.Contains(t, encoded, TagDate+"\t01/05/2025 20:00")
	assert.Contains(t, encoded, TagReferee+"\t"+NotAnnounced)
	assert.Contains(t, encoded, TagTV+"\t"+NotAnnounced)
}

func TestCodec_Decode_Errors(t *testing.T) {
	codec := NewCodec(testLocation(t))

	tests := []struct {
		name    string
		text    string
		wantErr error
	}{
		{
			name:    "missing teams line",
			text:    "🏆\tLiga\n📅\t01/05/2025 20:00\n",
			wantErr: ErrMalformedDescription,
		},
		{
			name:    "teams line without separator",
			text:    "⚽\tIndependiente - Boca\n📅\t01/05/2025 20:00\n",
			wantErr: ErrMalformedDescription,
		},
		{
			name:    "unparseable date",
			text:    "⚽\tIndependiente vs Boca\n📅\tmañana a la tarde\n",
			wantErr: ErrInvalidTimestamp,
		},
		{
			name:    "empty description",
			text:    "",
			wantErr: ErrMalformedDescription,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := codec.Decode(tt.text)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCodec_Decode_ToleratesMissingOptionalLines(t *testing.T) {
	loc := testLocation(t)
	codec := NewCodec(loc)

	// A description written before the referee and TV fields existed.
	text := "\t  ⚽\tIndependiente vs Boca\n" +
		"\t  🏆\tLiga Profesional\n" +
		"\t  📅\t01/05/2025 20:00\n"

	f, err := codec.Decode(text)
	require.NoError(t, err)
	assert.Equal(t, "Independiente", f.LocalTeam)
	assert.Equal(t, "Boca", f.VisitingTeam)
	assert.Equal(t, "Liga Profesional", f.Competition)
	assert.Empty(t, f.Stadium)
	assert.Empty(t, f.Referee)
	assert.Empty(t, f.TVChannels)
	assert.True(t, f.DateTime.Equal(time.Date(2025, 5, 1, 20, 0, 0, 0, loc)))
}

func TestCodec_Decode_MissingDateLineIsAbsentNotError(t *testing.T) {
	codec := NewCodec(testLocation(t))

	f, err := codec.Decode("⚽\tIndependiente vs Boca\n🏆\tLiga\n")
	require.NoError(t, err)
	assert.True(t, f.DateTime.IsZero())
}

func TestCodec_Decode_SentinelMapsToAbsent(t *testing.T) {
	loc := testLocation(t)
	codec := NewCodec(loc)

	text := "⚽\tIndependiente vs Boca\n" +
		"🏟️\t" + NotAnnounced + "\n" +
		"📅\t01/05/2025 20:00\n" +
		"⚖️\t" + NotAnnounced + "\n"

	f, err := codec.Decode(text)
	require.NoError(t, err)
	assert.Empty(t, f.Stadium)
	assert.Empty(t, f.Referee)
}

func TestCodec_Diff(t *testing.T) {
	loc := testLocation(t)
	codec := NewCodec(loc)

	base := Fixture{
		LocalTeam:    "Independiente",
		VisitingTeam: "Boca",
		Competition:  "Liga Profesional",
		DateTime:     time.Date(2025, 5, 1, 20, 0, 0, 0, loc),
		Stadium:      "Libertadores de América",
		TVChannels:   "ESPN",
	}

	t.Run("empty iff equal", func(t *testing.T) {
		assert.Empty(t, codec.Diff(base, base))
	})

	t.Run("single field change renders sentinel", func(t *testing.T) {
		changed := base
		changed.Referee = "J. Pérez"

		diff := codec.Diff(base, changed)
		require.Len(t, diff, 1)
		assert.Equal(t, "⚖️: No anunciado -> J. Pérez", diff[0])
	})

	t.Run("entries follow fixture field order", func(t *testing.T) {
		changed := base
		changed.TVChannels = "TNT Sports"
		changed.Stadium = "Monumental"
		changed.DateTime = base.DateTime.Add(time.Hour)

		diff := codec.Diff(base, changed)
		require.Len(t, diff, 3)
		assert.Equal(t, "📅: 01/05/2025 20:00 -> 01/05/2025 21:00", diff[0])
		assert.Equal(t, "🏟️: Libertadores de América -> Monumental", diff[1])
		assert.Equal(t, "📺: ESPN -> TNT Sports", diff[2])
	})

	t.Run("team change uses home and away tags", func(t *testing.T) {
		changed := base
		changed.LocalTeam = "Racing"
		changed.VisitingTeam = "River"

		diff := codec.Diff(base, changed)
		require.Len(t, diff, 2)
		assert.Equal(t, "🏠: Independiente -> Racing", diff[0])
		assert.Equal(t, "🧳: Boca -> River", diff[1])
	})
}

func TestFixture_EventName(t *testing.T) {
	f := Fixture{LocalTeam: "Independiente", VisitingTeam: "Boca"}
	assert.Equal(t, "Watch Party - Independiente vs Boca", f.EventName())
}

func TestFixture_Equal_ComparesInstants(t *testing.T) {
	loc := testLocation(t)
	kickoff := time.Date(2025, 5, 1, 20, 0, 0, 0, loc)

	a := Fixture{LocalTeam: "A", VisitingTeam: "B", DateTime: kickoff}
	b := Fixture{LocalTeam: "A", VisitingTeam: "B", DateTime: kickoff.UTC()}
	c := Fixture{LocalTeam: "A", VisitingTeam: "B", DateTime: kickoff.Add(time.Second)}

	assert.True(t, a.Equal(b), "same instant in different zones must compare equal")
	assert.False(t, a.Equal(c), "one second apart must not compare equal")
}
