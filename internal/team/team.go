// Package team holds the static registry of club sides the bot follows.
// Pure configuration: each team maps to its promiedos source URL, the
// banner attached to created events, and the voice channel the watch
// party happens in.
package team

import "github.com/diablorojo/matchday/internal/config"

// Team is one registry entry.
type Team struct {
	ID             string // stable slug used by the CLI and logs
	Name           string
	SourceURL      string
	BannerPath     string
	VoiceChannelID string
}

// Registry returns the finite ordered set of teams polled each cycle.
// Order is the per-cycle processing order.
func Registry(cfg *config.Config) []Team {
	return []Team{
		{
			ID:             "profesional",
			Name:           "Profesional Masculino",
			SourceURL:      "https://www.promiedos.com.ar/team/independiente/ihe",
			BannerPath:     "assets/banners/profesional.jpeg",
			VoiceChannelID: cfg.ClubVoiceChannelID,
		},
		{
			ID:             "reserva",
			Name:           "Reserva Masculino",
			SourceURL:      "https://www.promiedos.com.ar/team/independiente-res./ghjfh",
			BannerPath:     "assets/banners/reserva.jpg",
			VoiceChannelID: cfg.ClubVoiceChannelID,
		},
		{
			ID:             "femenino",
			Name:           "Profesional Femenino",
			SourceURL:      "https://www.promiedos.com.ar/team/independiente-(w)/ceede",
			BannerPath:     "assets/banners/femenino.jpg",
			VoiceChannelID: cfg.ClubVoiceChannelID,
		},
		{
			ID:             "seleccion",
			Name:           "Selección Nacional",
			SourceURL:      "https://www.promiedos.com.ar/team/argentina/cdhi",
			BannerPath:     "assets/banners/seleccion.jpg",
			VoiceChannelID: cfg.GeneralVoiceChannelID,
		},
		{
			ID:             "sub20",
			Name:           "Selección Sub-20",
			SourceURL:      "https://www.promiedos.com.ar/team/argentina-u20/baaff",
			BannerPath:     "assets/banners/sub20.jpg",
			VoiceChannelID: cfg.GeneralVoiceChannelID,
		},
	}
}

// Lookup finds a team by its slug. Returns false when unknown.
func Lookup(cfg *config.Config, id string) (Team, bool) {
	for _, t := range Registry(cfg) {
		if t.ID == id {
			return t, true
		}
	}
	return Team{}, false
}
