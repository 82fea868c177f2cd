package dynamo

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

type ShapeType int

const (
	ShapeNone ShapeType = iota
	ShapeSphere
	ShapePlane
	ShapeBox
)

func (s ShapeType) String() string {
	switch s {
	case ShapeSphere:
		return "sphere"
	case ShapePlane:
		return "plane"
	case ShapeBox:
		return "box"
	default:
		return "none"
	}
}

type EquilibriumState int

const (
	Awake EquilibriumState = iota
	Sleeping
)

func (e EquilibriumState) String() string {
	if e == Sleeping {
		return "sleeping"
	}
	return "awake"
}

// Collider describes exactly one shape. Only the fields of Type are meaningful.
type Collider struct {
	Type ShapeType

	Radius float32 // sphere

	Normal mgl32.Vec3 // plane, unit length

	BaseHalfExtents mgl32.Vec3 // box, shape local
}

func SphereCollider(radius float32) Collider {
	return Collider{Type: ShapeSphere, Radius: radius}
}

// PlaneCollider normalizes normal. A zero normal is kept and fails Validate.
func PlaneCollider(normal mgl32.Vec3) Collider {
	if normal.Len() >= minNormalLength {
		normal = normal.Normalize()
	}
	return Collider{Type: ShapePlane, Normal: normal}
}

func BoxCollider(halfExtents mgl32.Vec3) Collider {
	return Collider{Type: ShapeBox, BaseHalfExtents: halfExtents}
}

// Body is the state shared by every dynamic entity.
type Body struct {
	Position         mgl32.Vec3
	Velocity         mgl32.Vec3
	Mass             float32
	InverseMass      float32
	ForceAccumulator mgl32.Vec3
	Equilibrium      EquilibriumState
	SleepTimer       float32
	Collider         Collider
}

// NewBody returns an awake body at rest with the given mass.
func NewBody(mass float32, collider Collider) (Body, error) {
	b := Body{Collider: collider}
	if err := b.SetMass(mass); err != nil {
		return Body{}, err
	}
	return b, nil
}

// SetMass keeps InverseMass in sync with Mass.
func (b *Body) SetMass(mass float32) error {
	if mass <= 0 {
		return fmt.Errorf("mass %g: %w", mass, ErrZeroMass)
	}
	b.Mass = mass
	b.InverseMass = 1 / mass
	return nil
}

func (b *Body) IsAwake() bool { return b.Equilibrium == Awake }

// Wake forces the body out of sleep and restarts its rest timer.
func (b *Body) Wake() {
	b.Equilibrium = Awake
	b.SleepTimer = 0
}

// Sleep freezes the body in place.
func (b *Body) Sleep() {
	b.Equilibrium = Sleeping
	b.Velocity = mgl32.Vec3{}
	b.ForceAccumulator = mgl32.Vec3{}
}

func (b *Body) ClearForces() { b.ForceAccumulator = mgl32.Vec3{} }

func (b *Body) AddForce(f mgl32.Vec3) { b.ForceAccumulator = b.ForceAccumulator.Add(f) }

// Speed returns the magnitude of the linear velocity.
func (b *Body) Speed() float32 { return b.Velocity.Len() }

func (b *Body) validate(entity string) error {
	if b.Mass <= 0 {
		return &ValidationError{Entity: entity, Field: "mass", Wrapped: ErrZeroMass}
	}
	if d := b.InverseMass*b.Mass - 1; d > 1e-5 || d < -1e-5 {
		return &ValidationError{Entity: entity, Field: "inverseMass", Wrapped: ErrParameterBounds}
	}
	return nil
}
