package steam

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPersonaLabel(t *testing.T) {
	t.Run("KnownCodes", func(t *testing.T) {
		assert.Equal(t, "Offline", PersonaLabel(PersonaOffline))
		assert.Equal(t, "Online", PersonaLabel(PersonaOnline))
		assert.Equal(t, "Ocupado", PersonaLabel(PersonaBusy))
		assert.Equal(t, "Ausente", PersonaLabel(PersonaAway))
		assert.Equal(t, "Durmiendo", PersonaLabel(PersonaSnooze))
		assert.Equal(t, "Trade", PersonaLabel(PersonaLookingToTrade))
		assert.Equal(t, "Jugando", PersonaLabel(PersonaInGame))
	})

	t.Run("UnknownCode", func(t *testing.T) {
		assert.Equal(t, "Desconocido", PersonaLabel(42))
		assert.Equal(t, "Desconocido", PersonaLabel(-1))
	})
}
