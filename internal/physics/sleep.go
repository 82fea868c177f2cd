package physics

import "github.com/san-kum/orbsim/internal/dynamo"

// penetrates reports whether a contact with the given (negative) penetration
// counts. With sleeping enabled, sleeping bodies ignore overlap within LinearSlop.
func (e *Engine) penetrates(b *dynamo.Body, penetration float32) bool {
	if !e.params.Sleep.Enabled || b.IsAwake() {
		return true
	}
	return penetration < -LinearSlop
}

// wake marks the body awake after a contact. With sleeping enabled a resting
// contact, weaker than the sleep velocity threshold, keeps the rest timer running.
func (e *Engine) wake(b *dynamo.Body, impact float32) {
	if e.params.Sleep.Enabled && b.IsAwake() && impact < e.params.Sleep.VelocityThreshold {
		return
	}
	b.Wake()
}

// settle advances the rest timer of a body lying on the plane.
func (e *Engine) settle(b *dynamo.Body, c Contact, dt float32) {
	if !b.IsAwake() {
		return
	}
	if c.Hit && b.Speed() < e.params.Sleep.VelocityThreshold {
		b.SleepTimer += dt
		if b.SleepTimer >= e.params.Sleep.TimeThreshold {
			b.Sleep()
		}
		return
	}
	b.SleepTimer = 0
}
