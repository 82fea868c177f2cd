package automation

import (
	"context"
	"fmt"
	"sort"

	"github.com/san-kum/orbsim/internal/config"
	"github.com/san-kum/orbsim/internal/dynamo"
	"github.com/san-kum/orbsim/internal/experiment"
	"github.com/san-kum/orbsim/internal/sim"
	"github.com/sirupsen/logrus"
)

// Tunables are the config fields a sweep can vary.
var Tunables = map[string]func(*config.Config, float32){
	"gravity":              func(c *config.Config, v float32) { c.Physics.Gravity = v },
	"restitution":          func(c *config.Config, v float32) { c.Physics.Restitution = v },
	"rest_threshold":       func(c *config.Config, v float32) { c.Physics.RestThreshold = v },
	"bounce_energy_factor": func(c *config.Config, v float32) { c.Physics.BounceEnergyFactor = v },
	"charge_rate":          func(c *config.Config, v float32) { c.Physics.ChargeRate = v },
	"decay_rate":           func(c *config.Config, v float32) { c.Physics.DecayRate = v },
	"orb_mass":             func(c *config.Config, v float32) { c.Orb.Mass = v },
	"sleep_velocity":       func(c *config.Config, v float32) { c.Sleep.VelocityThreshold = v },
}

func ListTunables() []string {
	names := make([]string, 0, len(Tunables))
	for name := range Tunables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParameterSweep runs one headless simulation per evenly spaced value of a
// single tunable.
type ParameterSweep struct {
	Base      *config.Config
	ParamName string
	ParamMin  float32
	ParamMax  float32
	NumSteps  int
	Scenario  *Scenario
}

// SweepResult holds results from a parameter sweep
type SweepResult struct {
	ParamValue  float32
	FinalHeight float32
	FinalEnergy float32
	Metrics     map[string]float64
}

// RunSweep executes a parameter sweep, running all points concurrently.
func RunSweep(ctx context.Context, sweep *ParameterSweep, log logrus.FieldLogger) ([]SweepResult, error) {
	apply, ok := Tunables[sweep.ParamName]
	if !ok {
		return nil, fmt.Errorf("unknown parameter %q", sweep.ParamName)
	}
	if sweep.NumSteps < 2 {
		return nil, fmt.Errorf("sweep needs at least 2 steps, got %d: %w", sweep.NumSteps, dynamo.ErrParameterBounds)
	}

	base := config.DefaultConfig()
	if sweep.Base != nil {
		base = sweep.Base
	}

	paramStep := (sweep.ParamMax - sweep.ParamMin) / float32(sweep.NumSteps-1)
	values := make([]float32, sweep.NumSteps)
	ens := sim.NewEnsemble()

	for i := 0; i < sweep.NumSteps; i++ {
		paramVal := sweep.ParamMin + float32(i)*paramStep
		values[i] = paramVal

		cfg := *base
		apply(&cfg, paramVal)
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("%s=%.4f: %w", sweep.ParamName, paramVal, err)
		}

		job := fmt.Sprintf("%s=%.4f", sweep.ParamName, paramVal)
		var in sim.InputSource
		if sweep.Scenario != nil {
			in = NewScript(sweep.Scenario)
		}
		exp := experiment.New(job, &cfg)
		if err := exp.Setup(nil, in, log); err != nil {
			return nil, err
		}
		ens.Add(exp.Job())
	}

	runs, err := ens.Run(ctx, base.Run.Dt, base.Run.Duration)
	if err != nil {
		return nil, err
	}

	results := make([]SweepResult, 0, len(runs))
	for i, r := range runs {
		last := r.Samples[len(r.Samples)-1]
		results = append(results, SweepResult{
			ParamValue:  values[i],
			FinalHeight: last.OrbPosition.Y(),
			FinalEnergy: last.Energy,
			Metrics:     r.Metrics,
		})
		log.WithFields(logrus.Fields{
			"param": sweep.ParamName,
			"value": values[i],
			"steps": r.Steps,
		}).Debug("sweep point done")
	}

	return results, nil
}
