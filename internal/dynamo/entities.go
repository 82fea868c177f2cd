package dynamo

import (
	"github.com/go-gl/mathgl/mgl32"
)

const (
	DefaultOrbID     = "entity_01"
	DefaultOrbState  = "active"
	DefaultOrbEnergy = 0.5
	DefaultOrbRadius = 1.0
	DefaultMass      = 1.0
	DefaultCubeHalf  = 1.0

	minNormalLength = 1e-6
	unitTolerance   = 1e-5
)

var (
	DefaultOrbPosition  = mgl32.Vec3{0, 5, 0}
	DefaultCubePosition = mgl32.Vec3{2, 2, 2}
	DefaultPlaneNormal  = mgl32.Vec3{0, 1, 0}
)

// Orb is the interactive sphere. Energy is its visual charge and stays in [0,1].
type Orb struct {
	Body
	ID          string
	Energy      float32
	State       string
	IsGravityOn bool
}

// NewOrb returns the default orb: mid-air, at rest, half charged.
func NewOrb() Orb {
	o := Orb{
		ID:     DefaultOrbID,
		Energy: DefaultOrbEnergy,
		State:  DefaultOrbState,
	}
	o.Init()
	return o
}

// Init applies the sphere shape defaults and the spawn position.
func (o *Orb) Init() {
	o.Body = Body{
		Position:    DefaultOrbPosition,
		Mass:        DefaultMass,
		InverseMass: 1 / DefaultMass,
		Collider:    SphereCollider(DefaultOrbRadius),
	}
}

// ResetKinematics puts the orb back at its spawn point, awake and at rest.
// Charge, identity and the gravity flag are kept.
func (o *Orb) ResetKinematics() {
	o.Position = DefaultOrbPosition
	o.Velocity = mgl32.Vec3{}
	o.ClearForces()
	o.Wake()
}

// AddEnergy changes the charge by delta and clamps it.
func (o *Orb) AddEnergy(delta float32) {
	o.Energy = ClampEnergy(o.Energy + delta)
}

func (o *Orb) Radius() float32 { return o.Collider.Radius }

func (o *Orb) Validate() error {
	if err := o.validate("orb"); err != nil {
		return err
	}
	if o.Collider.Type != ShapeSphere {
		return &ValidationError{Entity: "orb", Field: "collider", Wrapped: ErrWrongShape}
	}
	if o.Collider.Radius <= 0 {
		return &ValidationError{Entity: "orb", Field: "radius", Wrapped: ErrInvalidRadius}
	}
	if o.Energy < 0 || o.Energy > 1 {
		return &ValidationError{Entity: "orb", Field: "energy", Wrapped: ErrParameterBounds}
	}
	return nil
}

// ClampEnergy bounds a charge value to [0,1].
func ClampEnergy(e float32) float32 {
	return mgl32.Clamp(e, 0, 1)
}

// Plane is an immovable collider with infinite mass. It is never integrated.
type Plane struct {
	Position mgl32.Vec3
	Collider Collider
}

// NewPlane returns the ground plane at y=0 facing up.
func NewPlane() Plane {
	p := Plane{}
	p.Init()
	return p
}

func (p *Plane) Init() {
	p.Collider = PlaneCollider(DefaultPlaneNormal)
}

func (p *Plane) Normal() mgl32.Vec3 { return p.Collider.Normal }

// Distance is the signed offset of the plane from the origin along its normal.
func (p *Plane) Distance() float32 { return p.Position.Dot(p.Collider.Normal) }

func (p *Plane) Validate() error {
	if p.Collider.Type != ShapePlane {
		return &ValidationError{Entity: "plane", Field: "collider", Wrapped: ErrWrongShape}
	}
	if mgl32.Abs(p.Collider.Normal.Len()-1) > unitTolerance {
		return &ValidationError{Entity: "plane", Field: "normal", Wrapped: ErrDegenerateNormal}
	}
	return nil
}

// Cube is the optional box body. Its rotational fields are carried but not
// evolved; collision treats it as an axis aligned box.
type Cube struct {
	Body
	Scale                mgl32.Vec3
	Rotation             mgl32.Quat
	AngularVelocity      mgl32.Vec3
	Torque               mgl32.Vec3
	InverseInertiaTensor mgl32.Mat3
}

func NewCube() Cube {
	c := Cube{}
	c.Init()
	return c
}

func (c *Cube) Init() {
	c.Body = Body{
		Position:    DefaultCubePosition,
		Mass:        DefaultMass,
		InverseMass: 1 / DefaultMass,
		Collider:    BoxCollider(mgl32.Vec3{DefaultCubeHalf, DefaultCubeHalf, DefaultCubeHalf}),
	}
	c.Scale = mgl32.Vec3{1, 1, 1}
	c.Rotation = mgl32.QuatIdent()
	c.AngularVelocity = mgl32.Vec3{}
	c.Torque = mgl32.Vec3{}
	c.UpdateInertia()
}

// HalfExtents returns the base half extents scaled by the cube's scale.
func (c *Cube) HalfExtents() mgl32.Vec3 {
	h := c.Collider.BaseHalfExtents
	return mgl32.Vec3{h[0] * c.Scale[0], h[1] * c.Scale[1], h[2] * c.Scale[2]}
}

// UpdateInertia recomputes the inverse inertia tensor of a solid box.
func (c *Cube) UpdateInertia() {
	h := c.HalfExtents()
	w, ht, d := 2*h[0], 2*h[1], 2*h[2]
	k := c.Mass / 12
	ix := k * (ht*ht + d*d)
	iy := k * (w*w + d*d)
	iz := k * (w*w + ht*ht)
	if ix <= 0 || iy <= 0 || iz <= 0 {
		c.InverseInertiaTensor = mgl32.Mat3{}
		return
	}
	c.InverseInertiaTensor = mgl32.Diag3(mgl32.Vec3{1 / ix, 1 / iy, 1 / iz})
}

func (c *Cube) Validate() error {
	if err := c.validate("cube"); err != nil {
		return err
	}
	if c.Collider.Type != ShapeBox {
		return &ValidationError{Entity: "cube", Field: "collider", Wrapped: ErrWrongShape}
	}
	h := c.HalfExtents()
	if h[0] <= 0 || h[1] <= 0 || h[2] <= 0 {
		return &ValidationError{Entity: "cube", Field: "scale", Wrapped: ErrInvalidScale}
	}
	return nil
}

// Scene is the fixed entity set of a session. Cube is nil when disabled.
type Scene struct {
	Orb   Orb
	Plane Plane
	Cube  *Cube
}

func NewScene(withCube bool) *Scene {
	s := &Scene{Orb: NewOrb(), Plane: NewPlane()}
	if withCube {
		c := NewCube()
		s.Cube = &c
	}
	return s
}

func (s *Scene) Validate() error {
	if err := s.Orb.Validate(); err != nil {
		return err
	}
	if err := s.Plane.Validate(); err != nil {
		return err
	}
	if s.Cube != nil {
		return s.Cube.Validate()
	}
	return nil
}
