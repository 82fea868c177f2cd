package metrics

import (
	"github.com/san-kum/orbsim/internal/dynamo"
	"github.com/san-kum/orbsim/internal/sim"
)

// Bounces counts orb impacts fast enough to reflect.
type Bounces struct {
	name  string
	count int
}

func NewBounces() *Bounces {
	return &Bounces{name: "bounces"}
}

func (b *Bounces) Name() string { return b.name }

func (b *Bounces) Observe(f sim.Frame) {
	if f.Contacts.Orb.Bounced {
		b.count++
	}
}

func (b *Bounces) Value() float64 { return float64(b.count) }
func (b *Bounces) Reset()         { b.count = 0 }

// SleepFraction is the share of ticks the orb spent sleeping.
type SleepFraction struct {
	name     string
	sleeping int
	samples  int
}

func NewSleepFraction() *SleepFraction {
	return &SleepFraction{name: "sleep_fraction"}
}

func (s *SleepFraction) Name() string { return s.name }

func (s *SleepFraction) Observe(f sim.Frame) {
	if f.Orb.Equilibrium == dynamo.Sleeping {
		s.sleeping++
	}
	s.samples++
}

func (s *SleepFraction) Value() float64 {
	if s.samples == 0 {
		return 0
	}
	return float64(s.sleeping) / float64(s.samples)
}

func (s *SleepFraction) Reset() {
	s.sleeping = 0
	s.samples = 0
}

// Standard returns the metric set recorded for every headless run.
func Standard(gravity float64) []sim.Metric {
	return []sim.Metric{
		NewEnergy(gravity),
		NewEnergyDrift(gravity),
		NewStability(0.5),
		NewPeakCharge(),
		NewInteractDuty(),
		NewBounces(),
		NewSleepFraction(),
	}
}
