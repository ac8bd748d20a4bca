package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/ferrosim/internal/engine"
	"github.com/san-kum/ferrosim/internal/magnet"
	"github.com/san-kum/ferrosim/internal/particle"
	"github.com/san-kum/ferrosim/internal/vecmath"
)

const (
	DefaultDt       = 1.0 / 60.0
	DefaultDuration = 10.0

	// MaxDt bounds a single frame; hosts clamp to this before stepping so
	// frame-rate drops cannot blow up the integration error.
	MaxDt = 1.0 / 30.0
)

type Config struct {
	Dt       float64 `yaml:"dt"`
	Duration float64 `yaml:"duration"`
	Debug    bool    `yaml:"debug"`

	Engine  EngineConfig   `yaml:"engine"`
	Magnets []MagnetConfig `yaml:"magnets"`
	Emitter EmitterConfig  `yaml:"emitter"`
}

type EngineConfig struct {
	Gravity     float64 `yaml:"gravity"`
	Drag        float64 `yaml:"drag"`
	Damping     float64 `yaml:"damping"`
	MaxSpeed    float64 `yaml:"max_speed"`
	Restitution float64 `yaml:"restitution"`
	Friction    float64 `yaml:"friction"`

	ForceScale float64 `yaml:"force_scale"`
	NearCutoff float64 `yaml:"near_cutoff"`
	MinForce   float64 `yaml:"min_force"`
	MaxForce   float64 `yaml:"max_force"`

	MaxAge       float64 `yaml:"max_age"` // 0 means no expiry
	Ceiling      int     `yaml:"ceiling"`
	PoolCap      int     `yaml:"pool_cap"`
	PairwiseGate int     `yaml:"pairwise_gate"`

	Bounds BoundsConfig `yaml:"bounds"`
}

type BoundsConfig struct {
	MaxX float64 `yaml:"max_x"`
	MaxZ float64 `yaml:"max_z"`
	MinY float64 `yaml:"min_y"`
	MaxY float64 `yaml:"max_y"`
}

type MagnetConfig struct {
	Type     string  `yaml:"type"`
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	Z        float64 `yaml:"z"`
	Strength float64 `yaml:"strength"`
}

type EmitterConfig struct {
	X       float64 `yaml:"x"`
	Y       float64 `yaml:"y"`
	Z       float64 `yaml:"z"`
	Rate    float64 `yaml:"rate"`
	Pattern string  `yaml:"pattern"`
	Spread  float64 `yaml:"spread"`
	Mass    float64 `yaml:"mass"`
	Radius  float64 `yaml:"radius"`
}

func DefaultConfig() *Config {
	ep := engine.DefaultParams()
	return &Config{
		Dt:       DefaultDt,
		Duration: DefaultDuration,
		Engine: EngineConfig{
			Gravity:      ep.Physics.Gravity,
			Drag:         ep.Physics.Drag,
			Damping:      ep.Physics.Damping,
			MaxSpeed:     ep.Physics.MaxSpeed,
			Restitution:  ep.Physics.Restitution,
			Friction:     ep.Physics.Friction,
			ForceScale:   ep.Field.Scale,
			NearCutoff:   ep.Field.NearCutoff,
			MinForce:     ep.Field.MinForce,
			MaxForce:     ep.Field.MaxForce,
			Ceiling:      ep.Ceiling,
			PoolCap:      ep.PoolCap,
			PairwiseGate: ep.PairwiseGate,
			Bounds: BoundsConfig{
				MaxX: ep.Bounds.MaxX,
				MaxZ: ep.Bounds.MaxZ,
				MinY: ep.Bounds.MinY,
				MaxY: ep.Bounds.MaxY,
			},
		},
		Magnets: []MagnetConfig{
			{Type: "bar", Y: 2, Strength: 1.0},
		},
		Emitter: EmitterConfig{
			Y: 5, Rate: 60, Pattern: "shower", Spread: 2,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// EngineParams translates the config into engine construction parameters.
func (c *Config) EngineParams() engine.Params {
	p := engine.DefaultParams()
	e := c.Engine

	p.Physics.Gravity = e.Gravity
	p.Physics.Drag = e.Drag
	p.Physics.Damping = e.Damping
	p.Physics.MaxSpeed = e.MaxSpeed
	p.Physics.Restitution = e.Restitution
	p.Physics.Friction = e.Friction

	p.Field.Scale = e.ForceScale
	p.Field.NearCutoff = e.NearCutoff
	p.Field.MinForce = e.MinForce
	p.Field.MaxForce = e.MaxForce

	if e.MaxAge > 0 {
		p.MaxAge = e.MaxAge
	}
	p.Ceiling = e.Ceiling
	p.PoolCap = e.PoolCap
	p.PairwiseGate = e.PairwiseGate
	p.Bounds = particle.Bounds{MaxX: e.Bounds.MaxX, MaxZ: e.Bounds.MaxZ, MinY: e.Bounds.MinY, MaxY: e.Bounds.MaxY}
	p.Debug = c.Debug

	return p
}

// BuildMagnets validates and constructs the configured magnet layout.
func (c *Config) BuildMagnets() ([]magnet.Magnet, error) {
	ms := make([]magnet.Magnet, 0, len(c.Magnets))
	for i, mc := range c.Magnets {
		typ, err := magnet.ParseType(mc.Type)
		if err != nil {
			return nil, fmt.Errorf("magnet %d: %w", i, err)
		}
		m, err := magnet.New(typ, vecmath.Vec3{X: mc.X, Y: mc.Y, Z: mc.Z}, mc.Strength)
		if err != nil {
			return nil, fmt.Errorf("magnet %d: %w", i, err)
		}
		ms = append(ms, m)
	}
	return ms, nil
}

// BuildEmitter constructs the configured spawn source, nil when the rate is
// zero and no bursts are wanted.
func (c *Config) BuildEmitter() (*engine.Emitter, error) {
	pattern, err := engine.ParsePattern(c.Emitter.Pattern)
	if err != nil {
		return nil, err
	}
	return engine.NewEmitter(
		vecmath.Vec3{X: c.Emitter.X, Y: c.Emitter.Y, Z: c.Emitter.Z},
		c.Emitter.Rate,
		pattern,
		c.Emitter.Spread,
		particle.SpawnOptions{Mass: c.Emitter.Mass, Radius: c.Emitter.Radius},
	)
}

// BuildEngine wires params, magnets, and emitter into a ready engine.
func (c *Config) BuildEngine() (*engine.Engine, error) {
	magnets, err := c.BuildMagnets()
	if err != nil {
		return nil, err
	}
	e, err := engine.New(c.EngineParams(), magnets)
	if err != nil {
		return nil, err
	}
	em, err := c.BuildEmitter()
	if err != nil {
		return nil, err
	}
	e.SetEmitter(em)
	return e, nil
}
