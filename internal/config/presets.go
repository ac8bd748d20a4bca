package config

// Presets are named scene setups for the CLI and live view. Each starts
// from DefaultConfig so only the interesting fields are spelled out.
var presetBuilders = map[string]func(*Config){
	// One bar magnet overhead, steady shower. The baseline scene.
	"single": func(c *Config) {},

	// Three bar magnets in a triangle around the origin.
	"tripod": func(c *Config) {
		c.Magnets = []MagnetConfig{
			{Type: "bar", X: 1.5, Y: 1.5, Strength: 1.0},
			{Type: "bar", X: -0.75, Y: 1.5, Z: 1.3, Strength: 1.0},
			{Type: "bar", X: -0.75, Y: 1.5, Z: -1.3, Strength: 1.0},
		}
		c.Emitter.Rate = 120
		c.Emitter.Spread = 4
	},

	// A ring magnet collecting particles into its toroidal band.
	"torus": func(c *Config) {
		c.Magnets = []MagnetConfig{
			{Type: "ring", Y: 2, Strength: 1.5},
		}
		c.Emitter.Pattern = "ring"
		c.Emitter.Spread = 3
		c.Emitter.Rate = 90
	},

	// Maximum-strength magnets and a dense shower; stresses the ceiling.
	"storm": func(c *Config) {
		c.Magnets = []MagnetConfig{
			{Type: "bar", X: 2, Y: 3, Strength: 2.0},
			{Type: "horseshoe", X: -2, Y: 3, Strength: 2.0},
		}
		c.Emitter.Rate = 400
		c.Emitter.Spread = 5
	},

	// Short-lived particles cycling hard through the pool.
	"churn": func(c *Config) {
		c.Engine.MaxAge = 2.0
		c.Emitter.Rate = 200
	},
}

// GetPreset returns a fresh Config for the named preset, nil if unknown.
func GetPreset(name string) *Config {
	build, ok := presetBuilders[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	build(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(presetBuilders))
	for name := range presetBuilders {
		names = append(names, name)
	}
	return names
}
