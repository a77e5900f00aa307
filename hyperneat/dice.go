package hyperneat

import "math/rand"

// Dice is the randomness capability used by genome construction and mutation.
// Given the same stream of answers the genome code is fully deterministic.
type Dice interface {
	// Intn picks uniformly from [0, n). n is always > 0.
	Intn(n int) int
	// PickWeighted picks an index with probability proportional to its rate.
	// Non-positive rates are never picked; -1 means nothing could be picked.
	PickWeighted(rates []float64) int
	// Draw returns a uniform real in [min, max).
	Draw(min, max float64) float64
}

// PickOne returns a uniformly chosen element of set, which must not be empty.
func PickOne[T any](d Dice, set []T) T {
	return set[d.Intn(len(set))]
}

// RandDice implements Dice on a seeded math/rand source.
type RandDice struct {
	rng *rand.Rand
}

// NewRandDice returns a Dice whose stream is fixed by seed.
func NewRandDice(seed int64) *RandDice {
	return &RandDice{rng: rand.New(rand.NewSource(seed))}
}

// Intn picks uniformly from [0, n).
func (d *RandDice) Intn(n int) int { return d.rng.Intn(n) }

// Draw returns a uniform real in [min, max).
func (d *RandDice) Draw(min, max float64) float64 {
	return min + d.rng.Float64()*(max-min)
}

// PickWeighted picks an index with probability proportional to its positive
// rate, or -1 when no rate is positive.
func (d *RandDice) PickWeighted(rates []float64) int {
	total := 0.0
	for _, r := range rates {
		if r > 0 {
			total += r
		}
	}
	if total <= 0 {
		return -1
	}
	x := d.rng.Float64() * total
	last := -1
	for i, r := range rates {
		if r <= 0 {
			continue
		}
		last = i
		if x < r {
			return i
		}
		x -= r
	}
	// Rounding can leave x marginally above the final rate.
	return last
}
