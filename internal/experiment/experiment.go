package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/orbsim/internal/config"
	"github.com/san-kum/orbsim/internal/metrics"
	"github.com/san-kum/orbsim/internal/sim"
	"github.com/san-kum/orbsim/internal/storage"
	"github.com/sirupsen/logrus"
)

// Experiment is one configured headless run: scene, engine, driver and the
// standard metric set.
type Experiment struct {
	name   string
	cfg    *config.Config
	driver *sim.Driver
	input  sim.InputSource
}

func New(name string, cfg *config.Config) *Experiment {
	return &Experiment{name: name, cfg: cfg}
}

// Setup builds the driver. p may be nil to run without the entity state
// file; input may be nil for an idle run.
func (e *Experiment) Setup(p sim.Persister, input sim.InputSource, log logrus.FieldLogger) error {
	engine, err := e.cfg.NewEngine()
	if err != nil {
		return err
	}
	scene, err := e.cfg.NewScene()
	if err != nil {
		return err
	}

	e.driver = sim.NewDriver(engine, scene, p, e.cfg.Run.StatePath, log.WithField("experiment", e.name))
	for _, m := range metrics.Standard(float64(e.cfg.Physics.Gravity)) {
		e.driver.AddMetric(m)
	}
	e.input = input
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.driver == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.driver.Run(ctx, e.input, e.cfg.Run.Dt, e.cfg.Run.Duration)
}

// Driver returns the underlying driver for restoring state or adding observers
func (e *Experiment) Driver() *sim.Driver {
	return e.driver
}

func (e *Experiment) Name() string           { return e.name }
func (e *Experiment) Config() *config.Config { return e.cfg }

// Job wraps the experiment for a sim.Ensemble.
func (e *Experiment) Job() sim.Job {
	return sim.Job{Name: e.name, Driver: e.driver, Input: e.input}
}

// Metadata describes the experiment for the run store.
func (e *Experiment) Metadata() storage.RunMetadata {
	return storage.RunMetadata{
		Preset:     e.name,
		Dt:         float64(e.cfg.Run.Dt),
		Duration:   float64(e.cfg.Run.Duration),
		Integrator: e.cfg.Physics.Integrator,
		Gravity:    float64(e.cfg.Physics.Gravity),
		Sleep:      e.cfg.Sleep.Enabled,
		Cube:       e.cfg.Cube.Enabled,
	}
}
