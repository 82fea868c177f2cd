package metrics

import (
	"math"

	"github.com/san-kum/orbsim/internal/sim"
)

// mechanical returns kinetic plus potential energy of the orb, with the
// potential measured from the resting height above the plane origin.
func mechanical(f sim.Frame, gravity float64) float64 {
	m := float64(f.Orb.Mass)
	v := float64(f.Orb.Velocity.Len())
	h := float64(f.Orb.Position.Y() - f.Orb.Radius())
	ke := 0.5 * m * v * v
	pe := m * math.Abs(gravity) * h
	return ke + pe
}

// Energy is the mean mechanical energy of the orb over the run.
type Energy struct {
	name        string
	gravity     float64
	samples     int
	totalEnergy float64
}

func NewEnergy(gravity float64) *Energy {
	return &Energy{
		name:    "energy",
		gravity: gravity,
	}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(f sim.Frame) {
	e.totalEnergy += mechanical(f, e.gravity)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// EnergyDrift is the largest relative change of mechanical energy seen
// against the first observed frame. Bounces dissipate, so a growing value
// after the orb settles points at an integration problem.
type EnergyDrift struct {
	name          string
	gravity       float64
	initialEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift(gravity float64) *EnergyDrift {
	return &EnergyDrift{
		name:    "energy_drift",
		gravity: gravity,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(f sim.Frame) {
	energy := mechanical(f, e.gravity)

	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++

	if e.initialEnergy == 0 {
		return
	}
	drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
	if drift > e.maxDrift {
		e.maxDrift = drift
	}
}

func (e *EnergyDrift) Value() float64 { return e.maxDrift }

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}
