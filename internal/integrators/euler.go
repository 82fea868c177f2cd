package integrators

import (
	"fmt"
	"sort"

	"github.com/san-kum/orbsim/internal/dynamo"
)

const (
	NameSemiImplicitEuler = "semi_implicit_euler"
	NameEuler             = "euler"
)

// Integrator advances one body by dt using its accumulated force.
type Integrator interface {
	Step(b *dynamo.Body, dt float32)
}

// SemiImplicitEuler updates velocity first and moves with the new velocity.
type SemiImplicitEuler struct{}

func NewSemiImplicitEuler() *SemiImplicitEuler {
	return &SemiImplicitEuler{}
}

func (e *SemiImplicitEuler) Step(b *dynamo.Body, dt float32) {
	acc := b.ForceAccumulator.Mul(b.InverseMass)
	b.Velocity = b.Velocity.Add(acc.Mul(dt))
	b.Position = b.Position.Add(b.Velocity.Mul(dt))
}

// Euler is the explicit variant: position moves with the old velocity.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(b *dynamo.Body, dt float32) {
	acc := b.ForceAccumulator.Mul(b.InverseMass)
	b.Position = b.Position.Add(b.Velocity.Mul(dt))
	b.Velocity = b.Velocity.Add(acc.Mul(dt))
}

var registry = map[string]func() Integrator{
	NameSemiImplicitEuler: func() Integrator { return NewSemiImplicitEuler() },
	NameEuler:             func() Integrator { return NewEuler() },
}

// New looks an integrator up by name. An empty name selects semi-implicit Euler.
func New(name string) (Integrator, error) {
	if name == "" {
		name = NameSemiImplicitEuler
	}
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s (available: %v)", name, Names())
	}
	return fn(), nil
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
