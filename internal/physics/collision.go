package physics

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/orbsim/internal/dynamo"
)

// solveSpherePlaneCollision pushes the orb out of the plane and resolves its
// velocity. Strong impacts bounce and charge the orb; weak ones stop it dead.
func (e *Engine) solveSpherePlaneCollision(orb *dynamo.Orb, plane *dynamo.Plane) Contact {
	normal := plane.Normal()
	planeDist := plane.Distance()
	orbDist := orb.Position.Dot(normal)
	penetration := (orbDist - orb.Radius()) - planeDist

	if penetration >= 0 || !e.penetrates(&orb.Body, penetration) {
		return Contact{}
	}

	c := Contact{Hit: true, Penetration: -penetration}
	velocityAlongNormal := orb.Velocity.Dot(normal)
	if velocityAlongNormal < 0 {
		c.Impact = -velocityAlongNormal
	}
	e.wake(&orb.Body, c.Impact)

	orb.Position = orb.Position.Sub(normal.Mul(penetration))

	if velocityAlongNormal >= 0 {
		return c
	}

	if c.Impact < e.params.RestThreshold {
		orb.Velocity = mgl32.Vec3{}
		return c
	}

	normalVelocity := normal.Mul(velocityAlongNormal)
	bounceVelocity := normalVelocity.Mul(-e.params.Restitution)
	orb.Velocity = orb.Velocity.Sub(normalVelocity).Add(bounceVelocity)

	before := orb.Energy
	orb.AddEnergy(c.Impact * e.params.BounceEnergyFactor)
	c.Bounced = true
	c.EnergyGain = orb.Energy - before
	return c
}

// solveCubePlaneCollision treats the cube as an axis aligned box. Rotation is ignored.
func (e *Engine) solveCubePlaneCollision(cube *dynamo.Cube, plane *dynamo.Plane) Contact {
	halfExtents := cube.HalfExtents()
	normal := plane.Normal()

	planeDist := plane.Distance()
	cubeCenterDist := cube.Position.Dot(normal)

	radius := halfExtents[0]*mgl32.Abs(normal[0]) +
		halfExtents[1]*mgl32.Abs(normal[1]) +
		halfExtents[2]*mgl32.Abs(normal[2])

	cubeBottomDist := cubeCenterDist - radius
	if cubeBottomDist >= planeDist {
		return Contact{}
	}

	penetrationDepth := planeDist - cubeBottomDist
	if !e.penetrates(&cube.Body, -penetrationDepth) {
		return Contact{}
	}

	c := Contact{Hit: true, Penetration: penetrationDepth}
	velocityAlongNormal := cube.Velocity.Dot(normal)
	if velocityAlongNormal < 0 {
		c.Impact = -velocityAlongNormal
	}
	e.wake(&cube.Body, c.Impact)

	cube.Position = cube.Position.Add(normal.Mul(penetrationDepth))

	if velocityAlongNormal < 0 {
		normalVelocity := normal.Mul(velocityAlongNormal)
		bounceVelocity := normalVelocity.Mul(-e.params.Restitution)
		cube.Velocity = cube.Velocity.Sub(normalVelocity).Add(bounceVelocity)
		c.Bounced = true
	}
	return c
}
