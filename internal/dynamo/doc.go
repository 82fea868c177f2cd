// Package dynamo provides the entity state model mutated by the physics engine.
//
// The package defines plain data for every simulated body:
//
//   - [Body]: kinematic and material state shared by dynamic bodies
//   - [Collider]: closed variant over sphere, plane and box shapes
//   - [Orb]: the interactive sphere carrying an energy charge in [0,1]
//   - [Plane]: immovable infinite ground collider
//   - [Cube]: optional box body with inert rotational state
//   - [Scene]: the fixed set of entities owned by a session
//
// Construction goes through [NewOrb], [NewPlane], [NewCube] and [NewScene], which
// apply the shape specific defaults. Degenerate values (non-positive mass, zero
// length normals) are rejected by the Validate methods rather than at every tick.
//
// # Ownership
//
// Bodies hold no pointers or slices, so copying an [Orb] yields an independent
// value. The frame driver owns the live scene; snapshot code only ever sees copies.
package dynamo
