package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/orbsim/internal/dynamo"
	"github.com/san-kum/orbsim/internal/input"
	"github.com/san-kum/orbsim/internal/physics"
	"github.com/sirupsen/logrus"
)

// Driver runs the per-frame order: exit, save, reset, then physics. The
// persister may be nil, in which case nothing is loaded or saved.
type Driver struct {
	engine    *physics.Engine
	scene     *dynamo.Scene
	persister Persister
	statePath string
	log       logrus.FieldLogger
	metrics   []Metric
	observers []Observer

	time   float32
	exited bool
}

func NewDriver(engine *physics.Engine, scene *dynamo.Scene, persister Persister, statePath string, log logrus.FieldLogger) *Driver {
	return &Driver{
		engine:    engine,
		scene:     scene,
		persister: persister,
		statePath: statePath,
		log:       log,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (d *Driver) AddMetric(m Metric)     { d.metrics = append(d.metrics, m) }
func (d *Driver) AddObserver(o Observer) { d.observers = append(d.observers, o) }

func (d *Driver) Scene() *dynamo.Scene     { return d.scene }
func (d *Driver) Engine() *physics.Engine { return d.engine }
func (d *Driver) Time() float32           { return d.time }
func (d *Driver) Exited() bool            { return d.exited }

// Restore replaces the orb's persisted fields with the stored snapshot and
// seeds the engine's gravity flag from it. Collider and mass keep their
// configured values.
func (d *Driver) Restore() {
	if d.persister == nil {
		return
	}
	loaded := d.persister.LoadState(d.statePath)

	orb := &d.scene.Orb
	orb.ID = loaded.ID
	orb.Position = loaded.Position
	orb.Velocity = loaded.Velocity
	orb.Energy = loaded.Energy
	orb.State = loaded.State
	orb.IsGravityOn = loaded.IsGravityOn
	orb.Wake()

	d.engine.SetGravity(orb.IsGravityOn)
}

// Save writes the orb through the persister.
func (d *Driver) Save() {
	if d.persister == nil {
		return
	}
	d.persister.SaveState(d.scene.Orb, d.statePath)
}

// Shutdown performs the final save.
func (d *Driver) Shutdown() {
	d.log.WithField("time", d.time).Debug("shutting down")
	d.Save()
}

// Tick applies one frame of input and advances physics by dt. An exit request
// still completes its own tick; every later Tick returns false without
// touching the scene.
func (d *Driver) Tick(in input.State, dt float32) bool {
	if d.exited {
		return false
	}
	if in.ExitApp {
		d.exited = true
	}
	if in.SaveState {
		d.Save()
	}
	if in.ResetPosition {
		d.scene.Orb.ResetKinematics()
		d.log.Debug("orb position reset")
	}

	d.engine.Update(&d.scene.Orb, &d.scene.Plane, d.scene.Cube, in, dt)
	d.scene.Orb.IsGravityOn = d.engine.GravityEnabled()
	d.time += dt

	f := d.frame(in)
	for _, m := range d.metrics {
		m.Observe(f)
	}
	for _, obs := range d.observers {
		obs.OnTick(f)
	}
	return true
}

func (d *Driver) frame(in input.State) Frame {
	f := Frame{
		Time:      d.time,
		Orb:       d.scene.Orb,
		Contacts:  d.engine.Contacts(),
		Input:     in,
		GravityOn: d.engine.GravityEnabled(),
	}
	if d.scene.Cube != nil {
		c := *d.scene.Cube
		f.Cube = &c
	}
	return f
}

// Run drives the scene headlessly for duration seconds. On cancellation it
// returns the partial trace together with ctx.Err().
func (d *Driver) Run(ctx context.Context, src InputSource, dt, duration float32) (*Result, error) {
	if err := validateRun(dt, duration); err != nil {
		return nil, err
	}
	if src == nil {
		src = Idle
	}

	steps := int(math.Round(float64(duration / dt)))
	result := &Result{
		Samples: make([]Sample, 0, steps+1),
		Metrics: make(map[string]float64),
	}

	for _, m := range d.metrics {
		m.Reset()
	}

	result.Samples = append(result.Samples, sampleOf(d.time, d.scene))

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			d.collect(result)
			return result, ctx.Err()
		default:
		}

		if !d.Tick(src.Next(d.time), dt) {
			result.Exited = true
			break
		}
		result.Steps++
		result.Samples = append(result.Samples, sampleOf(d.time, d.scene))
		if d.exited {
			result.Exited = true
			break
		}
	}

	d.collect(result)
	return result, nil
}

func (d *Driver) collect(result *Result) {
	for _, m := range d.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func validateRun(dt, duration float32) error {
	if dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %f", dynamo.ErrParameterBounds, dt)
	}
	if duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %f", dynamo.ErrParameterBounds, duration)
	}
	return nil
}
