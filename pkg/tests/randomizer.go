package tests

import (
	"math/rand"
	"time"
)

type Randomizer struct {
	Int63n  func(n int64) int64
	Float64 func() float64
	Shuffle func(n int, swap func(i, j int))
}

func NewRandomizer() Randomizer {
	random := rand.New(rand.NewSource(time.Now().Unix())) //nolint:gosec // for tests

	return Randomizer{
		Int63n:  random.Int63n,
		Float64: random.Float64,
		Shuffle: random.Shuffle,
	}
}
