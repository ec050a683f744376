// Package steam aggregates a player's Steam profile, library and friends
// data into the context block used to personalize chat completions.
package steam

// Persona state codes as returned by GetPlayerSummaries.
const (
	PersonaOffline        = 0
	PersonaOnline         = 1
	PersonaBusy           = 2
	PersonaAway           = 3
	PersonaSnooze         = 4
	PersonaLookingToTrade = 5
	PersonaInGame         = 6
)

var personaLabels = map[int]string{
	PersonaOffline:        "Offline",
	PersonaOnline:         "Online",
	PersonaBusy:           "Ocupado",
	PersonaAway:           "Ausente",
	PersonaSnooze:         "Durmiendo",
	PersonaLookingToTrade: "Trade",
	PersonaInGame:         "Jugando",
}

// PersonaLabel translates a persona state code into its human-readable
// label. Unrecognized codes map to "Desconocido".
func PersonaLabel(code int) string {
	if label, ok := personaLabels[code]; ok {
		return label
	}
	return "Desconocido"
}
