package matchmaking_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vossvolley/tracker/internal/matchmaking"
)

func TestShuffle(t *testing.T) {
	t.Run("even pool splits in half", func(t *testing.T) {
		names := []string{"A", "B", "C", "D"}
		teams := matchmaking.Shuffle(names)

		assert.Len(t, teams.Blue, 2)
		assert.Len(t, teams.Red, 2)
		assert.ElementsMatch(t, names, append(append([]string{}, teams.Blue...), teams.Red...))
	})

	t.Run("odd pool keeps every player", func(t *testing.T) {
		names := []string{"A", "B", "C", "D", "E"}
		teams := matchmaking.Shuffle(names)

		require.Equal(t, 5, len(teams.Blue)+len(teams.Red))
		diff := len(teams.Blue) - len(teams.Red)
		if diff < 0 {
			diff = -diff
		}
		assert.Equal(t, 1, diff)
		assert.ElementsMatch(t, names, append(append([]string{}, teams.Blue...), teams.Red...))
	})

	t.Run("does not modify the input", func(t *testing.T) {
		names := []string{"A", "B", "C", "D"}
		matchmaking.Shuffle(names)
		assert.Equal(t, []string{"A", "B", "C", "D"}, names)
	})

	t.Run("empty pool", func(t *testing.T) {
		teams := matchmaking.Shuffle(nil)
		assert.Empty(t, teams.Blue)
		assert.Empty(t, teams.Red)
	})
}
