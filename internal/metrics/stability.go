package metrics

import (
	"math"

	"github.com/san-kum/orbsim/internal/sim"
)

// Stability is the fraction of ticks where the orb stayed finite and did not
// sink further than threshold below its resting height.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(f sim.Frame) {
	s.samples++
	for _, val := range f.Orb.Position {
		if math.IsNaN(float64(val)) || math.IsInf(float64(val), 0) {
			s.violations++
			return
		}
	}
	if float64(f.Orb.Position.Y()-f.Orb.Radius()) < -s.threshold {
		s.violations++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
