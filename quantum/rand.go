package quantum

import "math/rand"

// Source supplies the uniform random samples used by measurement. It is
// injected so tests can drive measurement outcomes deterministically.
type Source interface {
	// Float64 returns a sample uniformly distributed in [0, 1).
	Float64() float64
}

// systemSource draws from the process-wide math/rand generator.
type systemSource struct{}

func (systemSource) Float64() float64 { return rand.Float64() }

// DefaultSource returns the process-wide random source.
func DefaultSource() Source { return systemSource{} }
