package physics

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/san-kum/orbsim/internal/dynamo"
	"github.com/san-kum/orbsim/internal/input"
	"github.com/san-kum/orbsim/internal/integrators"
)

var _ = Describe("Engine.Update", func() {
	var (
		engine *Engine
		orb    dynamo.Orb
		plane  dynamo.Plane
		idle   input.State
	)

	BeforeEach(func() {
		engine = New(DefaultParams(), nil)
		orb = dynamo.NewOrb()
		plane = dynamo.NewPlane()
		idle = input.State{}
	})

	Describe("gravity", func() {
		It("starts disabled", func() {
			Expect(engine.GravityEnabled()).To(BeFalse())
			engine.Update(&orb, &plane, nil, idle, 0.1)
			Expect(orb.Velocity).To(Equal(mgl32.Vec3{}))
			Expect(orb.Position).To(Equal(dynamo.DefaultOrbPosition))
		})

		It("flips on a toggle request and stays flipped", func() {
			engine.Update(&orb, &plane, nil, input.State{ToggleGravity: true}, 0.01)
			Expect(engine.GravityEnabled()).To(BeTrue())
			engine.Update(&orb, &plane, nil, idle, 0.01)
			Expect(engine.GravityEnabled()).To(BeTrue())
			engine.Update(&orb, &plane, nil, input.State{ToggleGravity: true}, 0.01)
			Expect(engine.GravityEnabled()).To(BeFalse())
		})

		DescribeTable("adds g*dt to the vertical velocity of an awake body",
			func(dt float32) {
				engine.SetGravity(true)
				orb.Position = mgl32.Vec3{0, 50, 0}
				orb.Velocity = mgl32.Vec3{1, 2, 0}
				before := orb.Velocity.Y()

				engine.Update(&orb, &plane, nil, idle, dt)

				Expect(orb.Velocity.Y()).To(BeNumerically("~", before+DefaultGravity*dt, 1e-5))
				Expect(orb.Velocity.X()).To(Equal(float32(1)))
			},
			Entry("zero step", float32(0)),
			Entry("60 Hz frame", float32(1.0/60)),
			Entry("slow frame", float32(0.1)),
			Entry("long stall", float32(0.5)),
		)

		It("scales the force with mass", func() {
			engine.SetGravity(true)
			Expect(orb.SetMass(4)).To(Succeed())
			orb.Position = mgl32.Vec3{0, 50, 0}

			engine.Update(&orb, &plane, nil, idle, 0.1)

			Expect(orb.ForceAccumulator.Y()).To(BeNumerically("~", DefaultGravity*4, 1e-4))
			Expect(orb.Velocity.Y()).To(BeNumerically("~", DefaultGravity*0.1, 1e-5))
		})

		It("never moves the plane", func() {
			engine.SetGravity(true)
			for i := 0; i < 100; i++ {
				engine.Update(&orb, &plane, nil, idle, 1.0/60)
			}
			Expect(plane.Position).To(Equal(mgl32.Vec3{}))
		})
	})

	Describe("energy", func() {
		It("charges at 1/s while interacting", func() {
			engine.Update(&orb, &plane, nil, input.State{ShouldInteract: true}, 0.1)
			Expect(orb.Energy).To(BeNumerically("~", 0.6, 1e-6))
		})

		It("decays at 0.1/s otherwise", func() {
			engine.Update(&orb, &plane, nil, idle, 1)
			Expect(orb.Energy).To(BeNumerically("~", 0.4, 1e-6))
		})

		It("stays within [0,1] for any tick sequence", func() {
			engine.SetGravity(true)
			rng := rand.New(rand.NewSource(7))
			for i := 0; i < 5000; i++ {
				in := input.State{
					ShouldInteract: rng.Intn(3) == 0,
					ToggleGravity:  rng.Intn(50) == 0,
				}
				engine.Update(&orb, &plane, nil, in, rng.Float32()*0.2)
				Expect(orb.Energy).To(BeNumerically(">=", 0))
				Expect(orb.Energy).To(BeNumerically("<=", 1))
			}
		})

		It("keeps changing while the orb sleeps", func() {
			orb.Sleep()
			engine.Update(&orb, &plane, nil, input.State{ShouldInteract: true}, 0.2)
			Expect(orb.Energy).To(BeNumerically("~", 0.7, 1e-6))
		})
	})

	Describe("sleeping bodies", func() {
		It("receive no force and no integration", func() {
			engine.SetGravity(true)
			cube := dynamo.NewCube()
			cube.Position = mgl32.Vec3{3, 9, 0}
			orb.Sleep()
			cube.Sleep()
			orbPos, cubePos := orb.Position, cube.Position

			for i := 0; i < 240; i++ {
				engine.Update(&orb, &plane, &cube, idle, 1.0/60)
				Expect(orb.ForceAccumulator).To(Equal(mgl32.Vec3{}))
				Expect(cube.ForceAccumulator).To(Equal(mgl32.Vec3{}))
			}

			Expect(orb.Position).To(Equal(orbPos))
			Expect(orb.Velocity).To(Equal(mgl32.Vec3{}))
			Expect(cube.Position).To(Equal(cubePos))
			Expect(orb.IsAwake()).To(BeFalse())
			Expect(cube.IsAwake()).To(BeFalse())
		})

		It("wake when the plane cuts into them", func() {
			orb.Sleep()
			plane.Position = mgl32.Vec3{0, 4.5, 0}

			engine.Update(&orb, &plane, nil, idle, 1.0/60)

			Expect(orb.IsAwake()).To(BeTrue())
			Expect(orb.SleepTimer).To(BeZero())
			Expect(orb.Position.Y()).To(BeNumerically("~", 5.5, 1e-5))
		})
	})

	Describe("sleep disabled", func() {
		It("keeps a resting orb awake with its timer at zero", func() {
			engine.SetGravity(true)
			orb.Position = mgl32.Vec3{0, 1, 0}
			for i := 0; i < 600; i++ {
				engine.Update(&orb, &plane, nil, idle, 1.0/60)
			}
			Expect(orb.IsAwake()).To(BeTrue())
			Expect(orb.SleepTimer).To(BeZero())
		})
	})

	Describe("sleep enabled", func() {
		BeforeEach(func() {
			params := DefaultParams()
			params.Sleep.Enabled = true
			engine = New(params, nil)
			engine.SetGravity(true)
		})

		It("puts a cube resting on the plane to sleep", func() {
			cube := dynamo.NewCube()
			cube.Position = mgl32.Vec3{0, 1, 0}

			for i := 0; i < 120; i++ {
				engine.Update(&orb, &plane, &cube, idle, 1.0/60)
			}

			Expect(cube.Equilibrium).To(Equal(dynamo.Sleeping))
			Expect(cube.Velocity).To(Equal(mgl32.Vec3{}))
			Expect(cube.Position.Y()).To(BeNumerically("~", 1, 0.01))
		})

		It("lets a dropped orb settle and then freezes it", func() {
			for i := 0; i < 1200; i++ {
				engine.Update(&orb, &plane, nil, idle, 1.0/60)
			}
			Expect(orb.Equilibrium).To(Equal(dynamo.Sleeping))

			frozen := orb.Position
			for i := 0; i < 60; i++ {
				engine.Update(&orb, &plane, nil, idle, 1.0/60)
			}
			Expect(orb.Position).To(Equal(frozen))
		})

		It("does not sleep in mid-air", func() {
			engine.SetGravity(false)
			for i := 0; i < 120; i++ {
				engine.Update(&orb, &plane, nil, idle, 1.0/60)
			}
			Expect(orb.IsAwake()).To(BeTrue())
			Expect(orb.SleepTimer).To(BeZero())
		})
	})

	Describe("integrator choice", func() {
		It("uses the supplied integrator", func() {
			engine = New(DefaultParams(), integrators.NewEuler())
			engine.SetGravity(true)
			orb.Position = mgl32.Vec3{0, 50, 0}

			engine.Update(&orb, &plane, nil, idle, 0.1)

			Expect(orb.Position.Y()).To(Equal(float32(50)))
			Expect(orb.Velocity.Y()).To(BeNumerically("~", -0.98, 1e-5))
		})
	})
})
