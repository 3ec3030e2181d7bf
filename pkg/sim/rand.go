package sim

import "math/rand/v2"

// Rand is the randomness a Simulation consumes. Tests substitute a scripted
// implementation to make spawn and report outcomes deterministic.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

type systemRand struct{}

func (systemRand) Float64() float64 { return rand.Float64() }
func (systemRand) Intn(n int) int   { return rand.IntN(n) }
