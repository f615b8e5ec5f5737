package engine

import "math/rand"

func newSeededRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
