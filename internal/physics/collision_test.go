package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/san-kum/orbsim/internal/dynamo"
	"github.com/san-kum/orbsim/internal/input"
)

var _ = Describe("solveSpherePlaneCollision", func() {
	var (
		engine *Engine
		orb    dynamo.Orb
		plane  dynamo.Plane
	)

	BeforeEach(func() {
		engine = New(DefaultParams(), nil)
		orb = dynamo.NewOrb()
		plane = dynamo.NewPlane()
	})

	It("pushes an overlapping orb out by exactly the penetration", func() {
		orb.Position = mgl32.Vec3{0, 0.5, 0}
		orb.Equilibrium = dynamo.Sleeping
		orb.SleepTimer = 0.25

		c := engine.solveSpherePlaneCollision(&orb, &plane)

		Expect(c.Hit).To(BeTrue())
		Expect(c.Penetration).To(BeNumerically("~", 0.5, 1e-6))
		Expect(orb.Position.Y()).To(Equal(float32(1)))
		Expect(orb.IsAwake()).To(BeTrue())
		Expect(orb.SleepTimer).To(BeZero())
	})

	It("ignores an orb above the plane", func() {
		orb.Position = mgl32.Vec3{0, 1.01, 0}
		orb.Velocity = mgl32.Vec3{0, -3, 0}

		c := engine.solveSpherePlaneCollision(&orb, &plane)

		Expect(c.Hit).To(BeFalse())
		Expect(orb.Velocity).To(Equal(mgl32.Vec3{0, -3, 0}))
	})

	It("leaves a separating orb's velocity alone", func() {
		orb.Position = mgl32.Vec3{0, 0.9, 0}
		orb.Velocity = mgl32.Vec3{0, 2, 0}

		engine.solveSpherePlaneCollision(&orb, &plane)

		Expect(orb.Velocity).To(Equal(mgl32.Vec3{0, 2, 0}))
	})

	DescribeTable("zeroes the whole velocity below the rest threshold",
		func(v mgl32.Vec3) {
			orb.Position = mgl32.Vec3{0, 0.99, 0}
			orb.Velocity = v
			energy := orb.Energy

			c := engine.solveSpherePlaneCollision(&orb, &plane)

			Expect(orb.Velocity).To(Equal(mgl32.Vec3{}))
			Expect(c.Bounced).To(BeFalse())
			Expect(orb.Energy).To(Equal(energy))
		},
		Entry("straight down", mgl32.Vec3{0, -0.05, 0}),
		Entry("sliding", mgl32.Vec3{1.5, -0.05, -0.7}),
		Entry("just under", mgl32.Vec3{0, -0.0999, 0}),
	)

	It("reflects the normal component with restitution 0.6", func() {
		orb.Position = mgl32.Vec3{0, 0.9, 0}
		orb.Velocity = mgl32.Vec3{2, -5, 1}

		c := engine.solveSpherePlaneCollision(&orb, &plane)

		Expect(c.Bounced).To(BeTrue())
		Expect(c.Impact).To(BeNumerically("~", 5, 1e-6))
		Expect(orb.Velocity.X()).To(Equal(float32(2)))
		Expect(orb.Velocity.Y()).To(BeNumerically("~", 3, 1e-5))
		Expect(orb.Velocity.Z()).To(Equal(float32(1)))
	})

	DescribeTable("charges the orb by impact*0.1, capped at 1",
		func(before, impact, want float32) {
			orb.Position = mgl32.Vec3{0, 0.95, 0}
			orb.Velocity = mgl32.Vec3{0, -impact, 0}
			orb.Energy = before

			c := engine.solveSpherePlaneCollision(&orb, &plane)

			Expect(orb.Energy).To(BeNumerically("~", want, 1e-6))
			Expect(c.EnergyGain).To(BeNumerically("~", want-before, 1e-6))
		},
		Entry("small bump", float32(0.2), float32(0.5), float32(0.25)),
		Entry("hard landing", float32(0.3), float32(5), float32(0.8)),
		Entry("saturates", float32(0.95), float32(5), float32(1)),
		Entry("already full", float32(1), float32(2), float32(1)),
	)

	It("works for a tilted plane", func() {
		n := mgl32.Vec3{1, 1, 0}.Normalize()
		plane.Collider.Normal = n
		orb.Position = mgl32.Vec3{0.5, 0.5, 0}
		orb.Velocity = n.Mul(-2)

		engine.solveSpherePlaneCollision(&orb, &plane)

		dist := orb.Position.Dot(n) - orb.Radius()
		Expect(dist).To(BeNumerically("~", 0, 1e-5))
		Expect(orb.Velocity.Dot(n)).To(BeNumerically("~", 1.2, 1e-5))
	})

	It("ignores a shallow overlap of a sleeping orb when sleeping is enabled", func() {
		params := DefaultParams()
		params.Sleep.Enabled = true
		engine = New(params, nil)
		orb.Position = mgl32.Vec3{0, 1 - LinearSlop/2, 0}
		orb.Sleep()

		c := engine.solveSpherePlaneCollision(&orb, &plane)

		Expect(c.Hit).To(BeFalse())
		Expect(orb.IsAwake()).To(BeFalse())
	})

	It("wakes and corrects a shallow overlap of a sleeping orb when sleeping is disabled", func() {
		orb.Position = mgl32.Vec3{0, 1 - LinearSlop/2, 0}
		orb.Sleep()

		engine.Update(&orb, &plane, nil, input.State{}, 0.01)

		Expect(engine.Contacts().Orb.Hit).To(BeTrue())
		Expect(orb.IsAwake()).To(BeTrue())
		Expect(orb.Position.Y()).To(BeNumerically("~", 1, 1e-6))
	})
})

var _ = Describe("solveCubePlaneCollision", func() {
	var (
		engine *Engine
		cube   dynamo.Cube
		plane  dynamo.Plane
	)

	BeforeEach(func() {
		engine = New(DefaultParams(), nil)
		cube = dynamo.NewCube()
		plane = dynamo.NewPlane()
	})

	It("pushes the box out and bounces without the rest snap", func() {
		cube.Position = mgl32.Vec3{0, 0.5, 0}
		cube.Velocity = mgl32.Vec3{0, -0.05, 0}

		c := engine.solveCubePlaneCollision(&cube, &plane)

		Expect(c.Hit).To(BeTrue())
		Expect(cube.Position.Y()).To(Equal(float32(1)))
		Expect(cube.Velocity.Y()).To(BeNumerically("~", 0.03, 1e-6))
		Expect(cube.IsAwake()).To(BeTrue())
	})

	It("uses scaled half extents", func() {
		cube.Scale = mgl32.Vec3{1, 2, 1}
		cube.Position = mgl32.Vec3{0, 1.5, 0}

		engine.solveCubePlaneCollision(&cube, &plane)

		Expect(cube.Position.Y()).To(Equal(float32(2)))
	})

	It("projects the box onto a tilted normal", func() {
		n := mgl32.Vec3{1, 1, 0}.Normalize()
		plane.Collider.Normal = n
		cube.Position = mgl32.Vec3{0, 0, 0}

		engine.solveCubePlaneCollision(&cube, &plane)

		// r = |hx*nx| + |hy*ny| = sqrt(2) for unit half extents
		Expect(cube.Position.Dot(n)).To(BeNumerically("~", math.Sqrt2, 1e-5))
	})

	It("ignores the rotation field", func() {
		cube.Rotation = mgl32.QuatRotate(0.7, mgl32.Vec3{0, 0, 1})
		cube.Position = mgl32.Vec3{0, 1.2, 0}

		c := engine.solveCubePlaneCollision(&cube, &plane)

		Expect(c.Hit).To(BeFalse())
	})

	It("reflects the cube's normal velocity and keeps the tangent", func() {
		cube.Position = mgl32.Vec3{0, 0.9, 0}
		cube.Velocity = mgl32.Vec3{3, -4, 0}

		engine.solveCubePlaneCollision(&cube, &plane)

		Expect(cube.Velocity.X()).To(Equal(float32(3)))
		Expect(cube.Velocity.Y()).To(BeNumerically("~", 2.4, 1e-5))
	})
})

var _ = Describe("Contacts", func() {
	It("reports the last tick only", func() {
		engine := New(DefaultParams(), nil)
		orb := dynamo.NewOrb()
		plane := dynamo.NewPlane()
		cube := dynamo.NewCube()
		cube.Position = mgl32.Vec3{0, 0.5, 0}
		orb.Position = mgl32.Vec3{0, 0.8, 0}
		orb.Velocity = mgl32.Vec3{0, -4, 0}

		engine.Update(&orb, &plane, &cube, noInput, 0)
		c := engine.Contacts()
		Expect(c.Orb.Hit).To(BeTrue())
		Expect(c.Orb.Bounced).To(BeTrue())
		Expect(c.Cube.Hit).To(BeTrue())

		orb.Position = mgl32.Vec3{0, 5, 0}
		engine.Update(&orb, &plane, nil, noInput, 0)
		Expect(engine.Contacts()).To(Equal(Contacts{}))
	})
})

var noInput = input.State{}
