package physics

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/orbsim/internal/dynamo"
	"github.com/san-kum/orbsim/internal/input"
	"github.com/san-kum/orbsim/internal/integrators"
)

// Contact describes what happened between one body and the plane during the last tick.
type Contact struct {
	Hit         bool
	Penetration float32
	Impact      float32
	Bounced     bool
	EnergyGain  float32
}

type Contacts struct {
	Orb  Contact
	Cube Contact
}

// Engine owns the gravity flag and the integration scheme. It is not safe for
// concurrent use; the frame loop calls Update from a single goroutine.
type Engine struct {
	params         Params
	integrator     integrators.Integrator
	gravityEnabled bool
	contacts       Contacts
}

// New returns an engine with gravity disabled. A nil integrator selects
// semi-implicit Euler.
func New(params Params, integ integrators.Integrator) *Engine {
	if integ == nil {
		integ = integrators.NewSemiImplicitEuler()
	}
	return &Engine{
		params:     params,
		integrator: integ,
	}
}

func (e *Engine) SetGravity(enabled bool) { e.gravityEnabled = enabled }
func (e *Engine) GravityEnabled() bool    { return e.gravityEnabled }
func (e *Engine) Params() Params          { return e.params }

// Contacts reports the plane contacts of the last Update.
func (e *Engine) Contacts() Contacts { return e.contacts }

// Update advances the scene by dt seconds. cube may be nil.
func (e *Engine) Update(orb *dynamo.Orb, plane *dynamo.Plane, cube *dynamo.Cube, in input.State, dt float32) {
	e.contacts = Contacts{}

	if in.ToggleGravity {
		e.gravityEnabled = !e.gravityEnabled
	}

	if in.ShouldInteract {
		orb.AddEnergy(e.params.ChargeRate * dt)
	} else {
		orb.AddEnergy(-e.params.DecayRate * dt)
	}

	orb.ClearForces()
	if cube != nil {
		cube.ClearForces()
	}

	if e.gravityEnabled {
		if orb.IsAwake() {
			orb.AddForce(mgl32.Vec3{0, e.params.Gravity * orb.Mass, 0})
		}
		if cube != nil && cube.IsAwake() {
			cube.AddForce(mgl32.Vec3{0, e.params.Gravity * cube.Mass, 0})
		}
	}

	if orb.IsAwake() {
		e.integrator.Step(&orb.Body, dt)
	}
	if cube != nil && cube.IsAwake() {
		e.integrator.Step(&cube.Body, dt)
	}

	e.contacts.Orb = e.solveSpherePlaneCollision(orb, plane)
	if cube != nil {
		e.contacts.Cube = e.solveCubePlaneCollision(cube, plane)
	}

	if e.params.Sleep.Enabled {
		e.settle(&orb.Body, e.contacts.Orb, dt)
		if cube != nil {
			e.settle(&cube.Body, e.contacts.Cube, dt)
		}
	}
}
