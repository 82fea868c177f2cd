package sim

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/orbsim/internal/dynamo"
	"github.com/san-kum/orbsim/internal/input"
	"github.com/san-kum/orbsim/internal/physics"
)

// InputSource yields the input for the tick starting at time t.
type InputSource interface {
	Next(t float32) input.State
}

// InputFunc adapts a plain function to InputSource.
type InputFunc func(t float32) input.State

func (f InputFunc) Next(t float32) input.State { return f(t) }

// Idle never presses anything.
var Idle InputSource = InputFunc(func(float32) input.State { return input.State{} })

// Persister stores the orb between sessions. Implementations never fail;
// they report problems through their own logging.
type Persister interface {
	LoadState(path string) dynamo.Orb
	SaveState(orb dynamo.Orb, path string)
}

// Frame is everything a metric or observer sees after a tick.
type Frame struct {
	Time      float32
	Orb       dynamo.Orb
	Cube      *dynamo.Cube
	Contacts  physics.Contacts
	Input     input.State
	GravityOn bool
}

type Metric interface {
	Name() string
	Observe(f Frame)
	Value() float64
	Reset()
}

type Observer interface {
	OnTick(f Frame)
}

// Sample is one row of a recorded trace.
type Sample struct {
	Time         float32
	OrbPosition  mgl32.Vec3
	OrbVelocity  mgl32.Vec3
	Energy       float32
	Equilibrium  dynamo.EquilibriumState
	GravityOn    bool
	HasCube      bool
	CubePosition mgl32.Vec3
}

type Result struct {
	Samples []Sample
	Metrics map[string]float64
	Steps   int
	Exited  bool
}

// Heights returns the orb's y coordinate over the trace.
func (r *Result) Heights() []float64 {
	out := make([]float64, len(r.Samples))
	for i, s := range r.Samples {
		out[i] = float64(s.OrbPosition.Y())
	}
	return out
}

// Charges returns the orb's energy over the trace.
func (r *Result) Charges() []float64 {
	out := make([]float64, len(r.Samples))
	for i, s := range r.Samples {
		out[i] = float64(s.Energy)
	}
	return out
}

func sampleOf(t float32, scene *dynamo.Scene) Sample {
	s := Sample{
		Time:        t,
		OrbPosition: scene.Orb.Position,
		OrbVelocity: scene.Orb.Velocity,
		Energy:      scene.Orb.Energy,
		Equilibrium: scene.Orb.Equilibrium,
		GravityOn:   scene.Orb.IsGravityOn,
	}
	if scene.Cube != nil {
		s.HasCube = true
		s.CubePosition = scene.Cube.Position
	}
	return s
}
