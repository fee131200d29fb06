// Package matchmaking splits a pool of players into two random teams.
package matchmaking

import "math/rand"

// Teams is the outcome of a shuffle, ready to be turned into a draft.
type Teams struct {
	Blue []string `json:"blue"`
	Red  []string `json:"red"`
}

// Shuffle randomly assigns the given player names to two teams. With an
// odd pool the extra player lands on either side with equal probability.
// The input slice is not modified.
func Shuffle(names []string) Teams {
	pool := make([]string, len(names))
	copy(pool, names)
	rand.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})

	mid := len(pool) / 2
	if len(pool)%2 == 1 && rand.Intn(2) == 1 {
		mid++
	}
	return Teams{Blue: pool[:mid], Red: pool[mid:]}
}
