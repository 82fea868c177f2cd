// Package physics advances the orb, ground plane and optional cube by one frame.
//
// [Engine.Update] runs the per tick pipeline in a fixed order:
//
//  1. gravity toggle (edge triggered, sticky across ticks)
//  2. orb charge: grows while interacting, decays otherwise, clamped to [0,1]
//  3. force accumulation: forces cleared, gravity added to awake bodies only
//  4. integration of awake bodies (semi-implicit Euler by default)
//  5. plane collision resolution: sphere-plane, then box-plane
//  6. optional sleep evaluation
//
// Collision pairs form a closed set and are resolved by named functions rather
// than by shape dispatch. The plane is never integrated and never accumulates force.
//
// # Sleep
//
// With [SleepParams.Enabled] false (the default) bodies never fall asleep: the
// rest timer is reset on every contact and nothing advances it. When enabled, a
// body resting on the plane below the velocity threshold for the configured time
// becomes [dynamo.Sleeping] and is skipped by gravity and integration until a
// contact deeper than [LinearSlop] wakes it.
//
// Update performs no allocation and no I/O.
package physics
