package config

import "sort"

// Presets are applied on top of DefaultConfig.
var Presets = map[string]func(*Config){
	"classic": func(c *Config) {},
	"bouncy": func(c *Config) {
		c.Physics.GravityEnabled = true
		c.Physics.Restitution = 0.9
		c.Physics.RestThreshold = 0.05
	},
	"moon": func(c *Config) {
		c.Physics.GravityEnabled = true
		c.Physics.Gravity = -1.62
		c.Run.Duration = 30
	},
	"sleepy": func(c *Config) {
		c.Physics.GravityEnabled = true
		c.Sleep.Enabled = true
	},
	"cube": func(c *Config) {
		c.Physics.GravityEnabled = true
		c.Cube.Enabled = true
		c.Cube.Position = [3]float32{2, 6, 0}
	},
}

// GetPreset returns a fresh config with the named preset applied, or nil.
func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
