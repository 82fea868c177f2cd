package physics

import (
	"fmt"

	"github.com/san-kum/orbsim/internal/dynamo"
)

const (
	DefaultGravity            = -9.8
	DefaultRestitution        = 0.6
	DefaultRestThreshold      = 0.1
	DefaultBounceEnergyFactor = 0.1
	DefaultChargeRate         = 1.0
	DefaultDecayRate          = 0.1

	DefaultSleepVelocity = 0.3
	DefaultSleepTime     = 0.5

	// LinearSlop is the penetration a sleeping body tolerates before waking.
	LinearSlop = 0.005
)

type SleepParams struct {
	Enabled           bool
	VelocityThreshold float32
	TimeThreshold     float32
}

// Params holds the tunable constants of the engine.
type Params struct {
	Gravity            float32
	Restitution        float32
	RestThreshold      float32
	BounceEnergyFactor float32
	ChargeRate         float32
	DecayRate          float32
	Sleep              SleepParams
}

func DefaultParams() Params {
	return Params{
		Gravity:            DefaultGravity,
		Restitution:        DefaultRestitution,
		RestThreshold:      DefaultRestThreshold,
		BounceEnergyFactor: DefaultBounceEnergyFactor,
		ChargeRate:         DefaultChargeRate,
		DecayRate:          DefaultDecayRate,
		Sleep: SleepParams{
			Enabled:           false,
			VelocityThreshold: DefaultSleepVelocity,
			TimeThreshold:     DefaultSleepTime,
		},
	}
}

func (p Params) Validate() error {
	if p.Restitution < 0 || p.Restitution > 1 {
		return fmt.Errorf("restitution %g: %w", p.Restitution, dynamo.ErrParameterBounds)
	}
	if p.RestThreshold < 0 {
		return fmt.Errorf("rest threshold %g: %w", p.RestThreshold, dynamo.ErrParameterBounds)
	}
	if p.BounceEnergyFactor < 0 || p.ChargeRate < 0 || p.DecayRate < 0 {
		return fmt.Errorf("energy rates must be non-negative: %w", dynamo.ErrParameterBounds)
	}
	if p.Sleep.Enabled && (p.Sleep.VelocityThreshold <= 0 || p.Sleep.TimeThreshold <= 0) {
		return fmt.Errorf("sleep thresholds must be positive: %w", dynamo.ErrParameterBounds)
	}
	return nil
}
