package engine

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/ferrosim/internal/magnet"
	"github.com/san-kum/ferrosim/internal/particle"
	"github.com/san-kum/ferrosim/internal/physics"
	"github.com/san-kum/ferrosim/internal/vecmath"
)

// Params configure an Engine at construction. Zero values are not usable;
// start from DefaultParams and override.
type Params struct {
	Physics physics.Params
	Field   physics.FieldParams
	Bounds  particle.Bounds

	// MaxAge is the particle expiry in seconds. Defaults to +Inf so
	// particles die by leaving the world, not by timer.
	MaxAge float64

	Ceiling int
	PoolCap int

	// PairwiseGate disables the O(n^2) particle-particle pass at or above
	// this live population.
	PairwiseGate int

	// Debug turns on extra per-run accounting in hosts. It replaces the
	// process-wide toggle of earlier iterations; nothing global.
	Debug bool
}

func DefaultParams() Params {
	return Params{
		Physics:      physics.DefaultParams(),
		Field:        physics.DefaultFieldParams(),
		Bounds:       particle.DefaultBounds(),
		MaxAge:       math.Inf(1),
		Ceiling:      particle.DefaultCeiling,
		PoolCap:      particle.DefaultPoolCap,
		PairwiseGate: 100,
	}
}

func (p Params) validate() error {
	if p.MaxAge <= 0 {
		return fmt.Errorf("%w: max age %v", particle.ErrInvalidParameter, p.MaxAge)
	}
	if p.PairwiseGate < 0 {
		return fmt.Errorf("%w: pairwise gate %d", particle.ErrInvalidParameter, p.PairwiseGate)
	}
	if p.Physics.MaxSpeed <= 0 {
		return fmt.Errorf("%w: max speed %v", particle.ErrInvalidParameter, p.Physics.MaxSpeed)
	}
	return nil
}

// Stats is a per-frame summary exposed for diagnostics, metrics, and
// persistence.
type Stats struct {
	Time       float64
	Frame      int64
	Live       int
	Pooled     int
	Kinetic    float64
	MeanHeight float64
	Settled    int
}

// settledSpeed is the speed below which a grounded particle counts as
// settled in Stats.
const settledSpeed = 0.05

// Engine owns the live particle set and a read-only snapshot of the magnet
// layout. One logical thread of execution: no method may be called while
// Step is running.
type Engine struct {
	params  Params
	arena   *particle.Arena
	magnets []magnet.Magnet
	emitter *Emitter

	pending []func()

	running bool
	time    float64
	frame   int64

	scratch []*particle.Particle
}

// New validates params and the magnet layout and returns a running engine.
func New(params Params, magnets []magnet.Magnet) (*Engine, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	for i, m := range magnets {
		if _, err := magnet.New(m.Type, m.Pos, m.Strength); err != nil {
			return nil, fmt.Errorf("magnet %d: %w", i, err)
		}
	}

	arena, err := particle.NewArena(params.Ceiling, params.PoolCap)
	if err != nil {
		return nil, err
	}

	ms := make([]magnet.Magnet, len(magnets))
	copy(ms, magnets)

	return &Engine{
		params:  params,
		arena:   arena,
		magnets: ms,
		running: true,
	}, nil
}

func (e *Engine) Running() bool { return e.running }
func (e *Engine) Pause()        { e.running = false }
func (e *Engine) Resume()       { e.running = true }

func (e *Engine) Time() float64 { return e.time }
func (e *Engine) Live() int     { return e.arena.Live() }
func (e *Engine) Pooled() int   { return e.arena.Pooled() }

// Magnets returns a copy of the current layout.
func (e *Engine) Magnets() []magnet.Magnet {
	ms := make([]magnet.Magnet, len(e.magnets))
	copy(ms, e.magnets)
	return ms
}

// SetEmitter installs (or removes, with nil) the continuous spawn source.
func (e *Engine) SetEmitter(em *Emitter) { e.emitter = em }

// EachParticle visits every live particle. Intended for renderers; the
// callback must not call back into the engine.
func (e *Engine) EachParticle(fn func(p *particle.Particle)) {
	e.arena.Each(func(_ particle.Handle, p *particle.Particle) { fn(p) })
}

// QueueSpawn validates the request now and applies it at the start of the
// next step. Fail-fast: a bad request never reaches the queue.
func (e *Engine) QueueSpawn(pos vecmath.Vec3, opts particle.SpawnOptions) error {
	if !pos.IsFinite() {
		return fmt.Errorf("%w: position %v", particle.ErrInvalidParameter, pos)
	}
	if err := opts.Validate(); err != nil {
		return err
	}
	e.pending = append(e.pending, func() {
		e.arena.Spawn(pos, opts)
	})
	return nil
}

// QueueBurst asks the installed emitter for n immediate spawns at the next
// step boundary.
func (e *Engine) QueueBurst(n int) error {
	if e.emitter == nil {
		return fmt.Errorf("%w: no emitter installed", particle.ErrInvalidParameter)
	}
	if n <= 0 {
		return fmt.Errorf("%w: burst size %d", particle.ErrInvalidParameter, n)
	}
	e.pending = append(e.pending, func() {
		e.emitter.Burst(n, e.arena)
	})
	return nil
}

// QueueMagnetMove repositions a magnet at the next step boundary.
func (e *Engine) QueueMagnetMove(idx int, pos vecmath.Vec3) error {
	if idx < 0 || idx >= len(e.magnets) {
		return fmt.Errorf("%w: magnet index %d", magnet.ErrInvalidParameter, idx)
	}
	if !pos.IsFinite() {
		return fmt.Errorf("%w: magnet position %v", magnet.ErrInvalidParameter, pos)
	}
	e.pending = append(e.pending, func() {
		e.magnets[idx].Pos = pos
	})
	return nil
}

// QueueMagnetStrength adjusts a magnet's strength at the next step
// boundary, clamped into the legal range.
func (e *Engine) QueueMagnetStrength(idx int, strength float64) error {
	if idx < 0 || idx >= len(e.magnets) {
		return fmt.Errorf("%w: magnet index %d", magnet.ErrInvalidParameter, idx)
	}
	e.pending = append(e.pending, func() {
		e.magnets[idx].SetStrength(strength)
	})
	return nil
}

// Step advances the world by dt. Paused engines ignore the call entirely;
// queued commands wait for the next running step.
func (e *Engine) Step(dt float64) {
	if !e.running || dt <= 0 {
		return
	}

	e.drain()

	if e.emitter != nil {
		e.emitter.pump(dt, e.arena)
	}

	// Forces and integration, ground contact included.
	e.arena.Each(func(_ particle.Handle, p *particle.Particle) {
		f := physics.TotalForce(e.magnets, p.Pos, e.params.Field)
		physics.Integrate(p, f, dt, e.params.Physics)
		p.Age += dt
	})

	// Pairwise pass only under the population gate.
	if e.arena.Live() < e.params.PairwiseGate {
		e.scratch = e.scratch[:0]
		e.arena.Each(func(_ particle.Handle, p *particle.Particle) {
			e.scratch = append(e.scratch, p)
		})
		physics.ResolvePairs(e.scratch, e.params.Physics)
	}

	e.arena.Cull(e.params.MaxAge, e.params.Bounds)

	e.time += dt
	e.frame++
}

func (e *Engine) drain() {
	for _, cmd := range e.pending {
		cmd()
	}
	e.pending = e.pending[:0]
}

// Stats summarizes the current frame.
func (e *Engine) Stats() Stats {
	st := Stats{
		Time:   e.time,
		Frame:  e.frame,
		Live:   e.arena.Live(),
		Pooled: e.arena.Pooled(),
	}
	sumY := 0.0
	e.arena.Each(func(_ particle.Handle, p *particle.Particle) {
		st.Kinetic += 0.5 * p.Mass * p.Vel.LengthSq()
		sumY += p.Pos.Y
		if p.Pos.Y == 0 && p.Vel.Length() < settledSpeed {
			st.Settled++
		}
	})
	if st.Live > 0 {
		st.MeanHeight = sumY / float64(st.Live)
	}
	return st
}

// Run steps the engine for duration at a fixed dt, invoking onFrame after
// every step. Used by the headless CLI paths; the live view drives Step
// directly from its tick loop.
func (e *Engine) Run(ctx context.Context, duration, dt float64, onFrame func(Stats)) error {
	if dt <= 0 {
		return fmt.Errorf("%w: dt %v", particle.ErrInvalidParameter, dt)
	}
	if duration <= 0 {
		return fmt.Errorf("%w: duration %v", particle.ErrInvalidParameter, duration)
	}

	steps := int(duration / dt)
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		e.Step(dt)
		if onFrame != nil {
			onFrame(e.Stats())
		}
	}
	return nil
}
