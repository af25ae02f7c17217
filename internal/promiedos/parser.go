package promiedos

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/diablorojo/matchday/internal/fixture"
)

var (
	errNoDescription = errors.New("match page has no parseable description metadata")
	errNoStartTime   = errors.New("match page has no parseable start time")
)

// --------------------------------------------------------------------------
// Team page — next match URL from the embedded Next.js JSON
// --------------------------------------------------------------------------

var scriptRe = regexp.MustCompile(`(?s)<script[^>]*>(.*?)</script>`)

// teamPage mirrors the slice of the embedded page JSON we care about.
type teamPage struct {
	Props struct {
		PageProps struct {
			Data struct {
				Games struct {
					Next struct {
						Rows []struct {
							Game struct {
								ID      string `json:"id"`
								URLName string `json:"url_name"`
							} `json:"game"`
						} `json:"rows"`
					} `json:"next"`
				} `json:"games"`
			} `json:"data"`
		} `json:"pageProps"`
	} `json:"props"`
}

// nextMatchURL extracts the first upcoming match URL from the team page.
// Script bodies that are not JSON, or JSON of a different shape, are
// skipped silently.
func nextMatchURL(body []byte) (string, bool) {
	for _, m := range scriptRe.FindAllSubmatch(body, -1) {
		var page teamPage
		if err := json.Unmarshal(m[1], &page); err != nil {
			continue
		}
		rows := page.Props.PageProps.Data.Games.Next.Rows
		if len(rows) == 0 {
			continue
		}
		game := rows[0].Game
		if game.URLName != "" && game.ID != "" {
			return baseURL + "/game/" + game.URLName + "/" + game.ID, true
		}
	}
	return "", false
}

// --------------------------------------------------------------------------
// Match page — teams, competition, kickoff and venue details
// --------------------------------------------------------------------------

var (
	metaDescriptionRe = regexp.MustCompile(`<meta\s+name="description"\s+content="([^"]*)"`)

	// "<visiting> vs. <local> en <competition>." — promiedos writes the
	// visiting side first in the description.
	teamsRe = regexp.MustCompile(`^(.*?)\s+vs\.?\s+(.*?)\s+en\s+([^.]+)\.`)

	startTimeRe = regexp.MustCompile(`"start_time":"(\d{2}-\d{2}-\d{4} \d{2}:\d{2})"`)

	nameValueRe = regexp.MustCompile(`"name"\s*:\s*"([^"]*)"`)
)

const startTimeLayout = "02-01-2006 15:04"

// parseMatchPage extracts a fixture from a match page. Teams and kickoff
// are required; stadium, referee and TV channels stay absent when the page
// does not carry them.
func parseMatchPage(body []byte, now time.Time, loc *time.Location) (fixture.Fixture, error) {
	page := string(body)
	var f fixture.Fixture

	meta := metaDescriptionRe.FindStringSubmatch(page)
	if meta == nil {
		return fixture.Fixture{}, errNoDescription
	}
	teams := teamsRe.FindStringSubmatch(meta[1])
	if teams == nil {
		return fixture.Fixture{}, errNoDescription
	}
	f.VisitingTeam = strings.TrimSpace(teams[1])
	f.LocalTeam = strings.TrimSpace(teams[2])
	f.Competition = strings.TrimSpace(teams[3])

	st := startTimeRe.FindStringSubmatch(page)
	if st == nil {
		return fixture.Fixture{}, errNoStartTime
	}
	parsed, err := time.ParseInLocation(startTimeLayout, st[1], loc)
	if err != nil {
		return fixture.Fixture{}, errNoStartTime
	}
	f.DateTime = normalizeYear(parsed, now, loc)

	f.Stadium = fieldAfterLabel(page, "Estadio")
	f.Referee = fieldAfterLabel(page, "Árbitro")
	f.TVChannels = fieldAfterLabel(page, "Arg TV")

	return f, nil
}

// normalizeYear corrects the kickoff year: the page sometimes carries a
// stale one. Matches are always upcoming, so a day/month still ahead keeps
// the current year and anything already past rolls into the next.
func normalizeYear(parsed, now time.Time, loc *time.Location) time.Time {
	candidate := time.Date(now.Year(), parsed.Month(), parsed.Day(),
		parsed.Hour(), parsed.Minute(), 0, 0, loc)
	if candidate.After(now) {
		return candidate
	}
	return candidate.AddDate(1, 0, 0)
}

// fieldAfterLabel returns the first quoted "name" value following a Spanish
// label in the page source. Venue, referee and broadcast details render as
// JSON fragments next to their labels; a missing label means the detail is
// not announced yet.
func fieldAfterLabel(page, label string) string {
	idx := strings.Index(page, label)
	if idx == -1 {
		return ""
	}
	window := page[idx+len(label):]
	if len(window) > 500 {
		window = window[:500]
	}
	m := nameValueRe.FindStringSubmatch(window)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}
