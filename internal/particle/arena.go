package particle

import (
	"fmt"

	"github.com/san-kum/ferrosim/internal/vecmath"
)

// Default capacity limits, matching the tuned values of the visualizer this
// engine was built for.
const (
	DefaultCeiling = 1000
	DefaultPoolCap = 50
)

// Handle addresses a live particle by slot index plus generation. A handle
// goes stale when its slot is recycled, so a dead particle can never be
// reached through a handle taken before its death.
type Handle struct {
	index int
	gen   uint32
}

type slot struct {
	p   Particle
	gen uint32
}

// Arena owns every particle. Live particles occupy slots addressed by
// handles; dead slots are recycled LIFO through a bounded free list. Slots
// whose death finds the free list full are abandoned in place, never reused.
type Arena struct {
	slots   []slot
	free    []int
	ceiling int
	poolCap int
	live    int
}

func NewArena(ceiling, poolCap int) (*Arena, error) {
	if ceiling <= 0 {
		return nil, fmt.Errorf("%w: ceiling %d", ErrInvalidParameter, ceiling)
	}
	if poolCap < 0 {
		return nil, fmt.Errorf("%w: pool capacity %d", ErrInvalidParameter, poolCap)
	}
	return &Arena{
		slots:   make([]slot, 0, ceiling),
		free:    make([]int, 0, poolCap),
		ceiling: ceiling,
		poolCap: poolCap,
	}, nil
}

func (a *Arena) Live() int    { return a.live }
func (a *Arena) Pooled() int  { return len(a.free) }
func (a *Arena) Ceiling() int { return a.ceiling }

// Spawn places a new particle at pos, recycling a pooled slot when one is
// available. At the population ceiling the oldest live particle is evicted
// first, so the live count never exceeds the ceiling.
func (a *Arena) Spawn(pos vecmath.Vec3, opts SpawnOptions) (Handle, error) {
	if !pos.IsFinite() {
		return Handle{}, fmt.Errorf("%w: position %v", ErrInvalidParameter, pos)
	}
	mass, radius, err := opts.resolve()
	if err != nil {
		return Handle{}, err
	}

	if a.live >= a.ceiling {
		a.evictOldest()
	}

	var idx int
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		a.slots = append(a.slots, slot{})
		idx = len(a.slots) - 1
	}

	s := &a.slots[idx]
	s.p = Particle{
		Pos:    pos,
		Vel:    opts.Vel,
		Mass:   mass,
		Radius: radius,
		Alive:  true,
	}
	a.live++
	return Handle{index: idx, gen: s.gen}, nil
}

// evictOldest kills the live particle with the largest age, first found
// winning ties. Linear scan: eviction happens at most once per spawn.
func (a *Arena) evictOldest() {
	best := -1
	bestAge := -1.0
	for i := range a.slots {
		if a.slots[i].p.Alive && a.slots[i].p.Age > bestAge {
			best = i
			bestAge = a.slots[i].p.Age
		}
	}
	if best >= 0 {
		a.kill(best)
	}
}

func (a *Arena) kill(idx int) {
	s := &a.slots[idx]
	s.p = Particle{Mass: s.p.Mass, Radius: s.p.Radius}
	s.gen++
	a.live--
	if len(a.free) < a.poolCap {
		a.free = append(a.free, idx)
	}
}

// Kill removes the particle behind h, returning its slot to the pool when
// there is room.
func (a *Arena) Kill(h Handle) error {
	if _, err := a.Get(h); err != nil {
		return err
	}
	a.kill(h.index)
	return nil
}

// Get resolves a handle to its particle. The pointer is valid until the next
// Spawn, which may grow the slot array.
func (a *Arena) Get(h Handle) (*Particle, error) {
	if h.index < 0 || h.index >= len(a.slots) {
		return nil, fmt.Errorf("%w: index %d", ErrStaleHandle, h.index)
	}
	s := &a.slots[h.index]
	if s.gen != h.gen || !s.p.Alive {
		return nil, ErrStaleHandle
	}
	return &s.p, nil
}

// Each visits every live particle in slot order. The callback may mutate the
// particle but must not spawn or kill.
func (a *Arena) Each(fn func(Handle, *Particle)) {
	for i := range a.slots {
		if a.slots[i].p.Alive {
			fn(Handle{index: i, gen: a.slots[i].gen}, &a.slots[i].p)
		}
	}
}

// Cull kills every live particle past maxAge or outside bounds, returning
// how many died.
func (a *Arena) Cull(maxAge float64, b Bounds) int {
	killed := 0
	for i := range a.slots {
		p := &a.slots[i].p
		if !p.Alive {
			continue
		}
		if p.Age > maxAge || !b.Contains(p.Pos) {
			a.kill(i)
			killed++
		}
	}
	return killed
}
