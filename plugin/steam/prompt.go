package steam

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// SystemPromptBase defines the assistant's persona, language, tone and
// formatting rules. It is constant and never user-influenceable; the
// context block is appended after it.
const SystemPromptBase = `Eres SteaMate AI, un asistente experto en videojuegos de Steam. Tu personalidad es amigable, entusiasta y conocedora.

Tus capacidades:
- Recomendar juegos basado en los gustos REALES del usuario (tienes acceso a su biblioteca de Steam)
- Informar sobre ofertas y precios en Steam
- Sugerir juegos cooperativos para jugar con sus amigos reales
- Analizar géneros y dar recomendaciones personalizadas basadas en su historial
- Hablar sobre noticias y tendencias de gaming
- Ayudar a descubrir juegos indie ocultos similares a los que ya juega

Reglas:
- Responde siempre en español
- Sé conciso pero informativo (máximo 2-3 párrafos)
- Usa **negritas** para nombres de juegos
- Incluye precios aproximados cuando sea relevante
- Si no conoces un juego específico, sé honesto
- Mantén un tono casual y gamer
- IMPORTANTE: Usa activamente los datos de la biblioteca y amigos del usuario para personalizar tus respuestas
- Cuando recomiendes juegos, ten en cuenta lo que ya tiene y lo que juega más
- Si el usuario pregunta por juegos cooperativos, mira qué amigos están online y qué juegan`

// BuildContextPrompt renders an aggregate into the bounded text block
// appended to the system prompt. The transformation is deterministic and
// order-preserving; sections without data are omitted entirely. A nil
// aggregate renders as the empty string.
func BuildContextPrompt(data *AggregatedContext) string {
	if data == nil {
		return ""
	}

	lines := []string{"\n\n--- DATOS DEL USUARIO DE STEAM (usa esta información para personalizar tus respuestas) ---"}

	if data.Profile != nil {
		lines = append(lines, fmt.Sprintf("\nUsuario: %s", data.Profile.PersonaName))
		lines = append(lines, fmt.Sprintf("Estado: %s", PersonaLabel(data.Profile.PersonaState)))
		if data.Profile.GameExtraInfo != "" {
			lines = append(lines, fmt.Sprintf("Jugando ahora: %s", data.Profile.GameExtraInfo))
		}
	}

	lines = append(lines, fmt.Sprintf("\nTotal de juegos en biblioteca: %d", data.TotalGames))

	if len(data.TopGames) > 0 {
		lines = append(lines, "\n📊 TOP JUEGOS MÁS JUGADOS:")
		for i, g := range data.TopGames {
			lines = append(lines, fmt.Sprintf("%d. %s — %dh jugadas", i+1, g.Name, roundHours(g.PlaytimeForever)))
		}
	}

	if len(data.RecentGames) > 0 {
		lines = append(lines, "\n🕹️ JUEGOS RECIENTES (últimas 2 semanas):")
		for _, g := range data.RecentGames {
			lines = append(lines, fmt.Sprintf("- %s — %dh recientes (%dh totales)", g.Name, roundHours(g.Playtime2Weeks), roundHours(g.PlaytimeForever)))
		}
	}

	if len(data.FriendProfiles) > 0 {
		lines = append(lines, "\n👥 AMIGOS DE STEAM:")
		for _, f := range orderFriends(data.FriendProfiles) {
			info := fmt.Sprintf("- %s (%s)", f.PersonaName, PersonaLabel(f.PersonaState))
			if f.GameExtraInfo != "" {
				info += fmt.Sprintf(" — jugando %s", f.GameExtraInfo)
			}
			lines = append(lines, info)
		}
	}

	lines = append(lines, "\n--- FIN DATOS STEAM ---")
	return strings.Join(lines, "\n")
}

// orderFriends ranks friends with nonzero presence before offline ones,
// keeping the upstream relative order within each group.
func orderFriends(friends []FriendProfile) []FriendProfile {
	ordered := make([]FriendProfile, len(friends))
	copy(ordered, friends)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].PersonaState != PersonaOffline && ordered[j].PersonaState == PersonaOffline
	})
	return ordered
}

// roundHours converts minutes to hours, rounded to the nearest whole hour.
func roundHours(minutes int32) int {
	return int(math.Round(float64(minutes) / 60.0))
}
