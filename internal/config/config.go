package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/san-kum/orbsim/internal/dynamo"
	"github.com/san-kum/orbsim/internal/integrators"
	"github.com/san-kum/orbsim/internal/physics"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDt        = 1.0 / 60.0
	DefaultDuration  = 10.0
	DefaultStatePath = "entity_state.json"
	DefaultDataDir   = ".orbsim"
	DefaultFPS       = 60
	DefaultHoldMs    = 550
)

type Config struct {
	Physics PhysicsConfig `yaml:"physics"`
	Sleep   SleepConfig   `yaml:"sleep"`
	Orb     OrbConfig     `yaml:"orb"`
	Cube    CubeConfig    `yaml:"cube"`
	Run     RunConfig     `yaml:"run"`
	View    ViewConfig    `yaml:"view"`
}

type PhysicsConfig struct {
	Gravity            float32 `yaml:"gravity"`
	GravityEnabled     bool    `yaml:"gravity_enabled"`
	Restitution        float32 `yaml:"restitution"`
	RestThreshold      float32 `yaml:"rest_threshold"`
	BounceEnergyFactor float32 `yaml:"bounce_energy_factor"`
	ChargeRate         float32 `yaml:"charge_rate"`
	DecayRate          float32 `yaml:"decay_rate"`
	Integrator         string  `yaml:"integrator"`
}

type SleepConfig struct {
	Enabled           bool    `yaml:"enabled"`
	VelocityThreshold float32 `yaml:"velocity_threshold"`
	TimeThreshold     float32 `yaml:"time_threshold"`
}

type OrbConfig struct {
	Radius float32 `yaml:"radius"`
	Mass   float32 `yaml:"mass"`
}

type CubeConfig struct {
	Enabled     bool       `yaml:"enabled"`
	Mass        float32    `yaml:"mass"`
	Position    [3]float32 `yaml:"position"`
	Scale       [3]float32 `yaml:"scale"`
	HalfExtents [3]float32 `yaml:"half_extents"`
}

type RunConfig struct {
	Dt        float32 `yaml:"dt"`
	Duration  float32 `yaml:"duration"`
	StatePath string  `yaml:"state_path"`
	DataDir   string  `yaml:"data_dir"`
	Autosave  bool    `yaml:"autosave"`
}

type ViewConfig struct {
	FPS    int `yaml:"fps"`
	HoldMs int `yaml:"hold_ms"`
}

func DefaultConfig() *Config {
	p := physics.DefaultParams()
	return &Config{
		Physics: PhysicsConfig{
			Gravity:            p.Gravity,
			Restitution:        p.Restitution,
			RestThreshold:      p.RestThreshold,
			BounceEnergyFactor: p.BounceEnergyFactor,
			ChargeRate:         p.ChargeRate,
			DecayRate:          p.DecayRate,
			Integrator:         integrators.NameSemiImplicitEuler,
		},
		Sleep: SleepConfig{
			Enabled:           p.Sleep.Enabled,
			VelocityThreshold: p.Sleep.VelocityThreshold,
			TimeThreshold:     p.Sleep.TimeThreshold,
		},
		Orb: OrbConfig{
			Radius: dynamo.DefaultOrbRadius,
			Mass:   dynamo.DefaultMass,
		},
		Cube: CubeConfig{
			Mass:        dynamo.DefaultMass,
			Position:    dynamo.DefaultCubePosition,
			Scale:       [3]float32{1, 1, 1},
			HalfExtents: [3]float32{dynamo.DefaultCubeHalf, dynamo.DefaultCubeHalf, dynamo.DefaultCubeHalf},
		},
		Run: RunConfig{
			Dt:        DefaultDt,
			Duration:  DefaultDuration,
			StatePath: DefaultStatePath,
			DataDir:   DefaultDataDir,
			Autosave:  true,
		},
		View: ViewConfig{
			FPS:    DefaultFPS,
			HoldMs: DefaultHoldMs,
		},
	}
}

// Load overlays the YAML file at path on the defaults.
func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver overlays the YAML file at path on base, which is modified and
// returned. Keys missing from the file keep base's values.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, base); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := base.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return base, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	var errs []error
	if err := c.PhysicsParams().Validate(); err != nil {
		errs = append(errs, err)
	}
	if _, err := integrators.New(c.Physics.Integrator); err != nil {
		errs = append(errs, err)
	}
	if c.Orb.Mass <= 0 {
		errs = append(errs, fmt.Errorf("orb mass %g: %w", c.Orb.Mass, dynamo.ErrZeroMass))
	}
	if c.Orb.Radius <= 0 {
		errs = append(errs, fmt.Errorf("orb radius %g: %w", c.Orb.Radius, dynamo.ErrInvalidRadius))
	}
	if c.Cube.Enabled {
		if c.Cube.Mass <= 0 {
			errs = append(errs, fmt.Errorf("cube mass %g: %w", c.Cube.Mass, dynamo.ErrZeroMass))
		}
		for i := 0; i < 3; i++ {
			if c.Cube.Scale[i] <= 0 || c.Cube.HalfExtents[i] <= 0 {
				errs = append(errs, fmt.Errorf("cube axis %d: %w", i, dynamo.ErrInvalidScale))
				break
			}
		}
	}
	if c.Run.Dt <= 0 {
		errs = append(errs, fmt.Errorf("dt must be positive, got %g: %w", c.Run.Dt, dynamo.ErrParameterBounds))
	}
	if c.Run.Duration <= 0 {
		errs = append(errs, fmt.Errorf("duration must be positive, got %g: %w", c.Run.Duration, dynamo.ErrParameterBounds))
	}
	if c.View.FPS <= 0 {
		errs = append(errs, fmt.Errorf("fps must be positive, got %d: %w", c.View.FPS, dynamo.ErrParameterBounds))
	}
	return errors.Join(errs...)
}

func (c *Config) PhysicsParams() physics.Params {
	return physics.Params{
		Gravity:            c.Physics.Gravity,
		Restitution:        c.Physics.Restitution,
		RestThreshold:      c.Physics.RestThreshold,
		BounceEnergyFactor: c.Physics.BounceEnergyFactor,
		ChargeRate:         c.Physics.ChargeRate,
		DecayRate:          c.Physics.DecayRate,
		Sleep: physics.SleepParams{
			Enabled:           c.Sleep.Enabled,
			VelocityThreshold: c.Sleep.VelocityThreshold,
			TimeThreshold:     c.Sleep.TimeThreshold,
		},
	}
}

// NewEngine builds the physics engine described by the config.
func (c *Config) NewEngine() (*physics.Engine, error) {
	integ, err := integrators.New(c.Physics.Integrator)
	if err != nil {
		return nil, err
	}
	e := physics.New(c.PhysicsParams(), integ)
	e.SetGravity(c.Physics.GravityEnabled)
	return e, nil
}

// NewScene builds the entity set: plane, orb and the cube when enabled.
func (c *Config) NewScene() (*dynamo.Scene, error) {
	s := dynamo.NewScene(c.Cube.Enabled)
	s.Orb.Collider.Radius = c.Orb.Radius
	if err := s.Orb.SetMass(c.Orb.Mass); err != nil {
		return nil, err
	}
	if s.Cube != nil {
		s.Cube.Position = c.Cube.Position
		s.Cube.Scale = c.Cube.Scale
		s.Cube.Collider.BaseHalfExtents = c.Cube.HalfExtents
		if err := s.Cube.SetMass(c.Cube.Mass); err != nil {
			return nil, err
		}
		s.Cube.UpdateInertia()
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}
