package application

import (
	"testing"

	"github.com/rocketscienceinc/tictactoe-solver/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBotMarkFor(t *testing.T) {
	t.Run("Bot takes the other mark", func(t *testing.T) {
		mark, err := botMarkFor("X")
		require.NoError(t, err)
		assert.Equal(t, entity.PlayerO, mark)

		mark, err = botMarkFor("O")
		require.NoError(t, err)
		assert.Equal(t, entity.PlayerX, mark)
	})

	t.Run("Rejects unknown mark", func(t *testing.T) {
		_, err := botMarkFor("Z")

		require.ErrorIs(t, err, ErrInvalidHumanMark)
	})
}
