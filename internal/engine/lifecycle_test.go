package engine_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/ferrosim/internal/engine"
	"github.com/san-kum/ferrosim/internal/magnet"
	"github.com/san-kum/ferrosim/internal/particle"
	"github.com/san-kum/ferrosim/internal/vecmath"
)

const frame = 1.0 / 60.0

var _ = Describe("particle lifecycle", func() {
	var e *engine.Engine

	spawn := func(pos vecmath.Vec3) {
		ExpectWithOffset(1, e.QueueSpawn(pos, particle.SpawnOptions{})).To(Succeed())
		e.Step(frame)
	}

	Describe("pool round-trip", func() {
		BeforeEach(func() {
			params := engine.DefaultParams()
			params.Ceiling = 5
			params.PoolCap = 3
			params.MaxAge = 2 * frame

			var err error
			e, err = engine.New(params, nil)
			Expect(err).NotTo(HaveOccurred())
		})

		It("returns expired particles to the pool and reuses them fresh", func() {
			spawn(vecmath.Vec3{Y: 5})
			Expect(e.Live()).To(Equal(1))

			for i := 0; i < 4; i++ {
				e.Step(frame)
			}
			Expect(e.Live()).To(Equal(0))
			Expect(e.Pooled()).To(Equal(1))

			spawn(vecmath.Vec3{Y: 5})
			Expect(e.Live()).To(Equal(1))
			Expect(e.Pooled()).To(Equal(0))

			e.EachParticle(func(p *particle.Particle) {
				// Age restarts on reuse; one step has already run.
				Expect(p.Age).To(BeNumerically("~", frame, 1e-12))
			})
		})

		It("discards deaths beyond the pool capacity", func() {
			for i := 0; i < 5; i++ {
				Expect(e.QueueSpawn(vecmath.Vec3{Y: 5}, particle.SpawnOptions{})).To(Succeed())
			}
			e.Step(frame)
			Expect(e.Live()).To(Equal(5))

			for i := 0; i < 4; i++ {
				e.Step(frame)
			}
			Expect(e.Live()).To(Equal(0))
			Expect(e.Pooled()).To(Equal(3), "pool must stay bounded at its capacity")
		})
	})

	Describe("population ceiling", func() {
		BeforeEach(func() {
			bar, err := magnet.New(magnet.Bar, vecmath.Vec3{Y: 3}, 1.0)
			Expect(err).NotTo(HaveOccurred())

			e, err = engine.New(engine.DefaultParams(), []magnet.Magnet{bar})
			Expect(err).NotTo(HaveOccurred())

			em, err := engine.NewEmitter(vecmath.Vec3{Y: 5}, 0, engine.Shower, 3, particle.SpawnOptions{})
			Expect(err).NotTo(HaveOccurred())
			e.SetEmitter(em)
		})

		It("evicts exactly one oldest particle per over-ceiling spawn", func() {
			Expect(e.QueueBurst(particle.DefaultCeiling)).To(Succeed())
			e.Step(frame)
			Expect(e.Live()).To(Equal(particle.DefaultCeiling))

			// One generation older than everything spawned next.
			Expect(e.QueueSpawn(vecmath.Vec3{Y: 5}, particle.SpawnOptions{})).To(Succeed())
			e.Step(frame)

			Expect(e.Live()).To(Equal(particle.DefaultCeiling),
				"live count must hold at the ceiling, not ceiling+1")

			// The evicted slot passed through the pool and was reused by the
			// incoming spawn, so exactly one particle is a generation young.
			young := 0
			e.EachParticle(func(p *particle.Particle) {
				if p.Age < 1.5*frame {
					young++
				}
			})
			Expect(young).To(Equal(1), "exactly one particle replaced per over-ceiling spawn")
		})

		It("keeps ages monotonically increasing while alive", func() {
			Expect(e.QueueBurst(10)).To(Succeed())
			e.Step(frame)

			prev := make(map[*particle.Particle]float64)
			e.EachParticle(func(p *particle.Particle) { prev[p] = p.Age })

			e.Step(frame)
			e.EachParticle(func(p *particle.Particle) {
				if old, ok := prev[p]; ok {
					Expect(p.Age).To(BeNumerically(">", old))
				}
			})
		})
	})

	Describe("emitter", func() {
		It("produces an identical deterministic stream every run", func() {
			stream := func() []vecmath.Vec3 {
				params := engine.DefaultParams()
				eng, err := engine.New(params, nil)
				Expect(err).NotTo(HaveOccurred())

				em, err := engine.NewEmitter(vecmath.Vec3{Y: 5}, 120, engine.RingBurst, 2, particle.SpawnOptions{})
				Expect(err).NotTo(HaveOccurred())
				eng.SetEmitter(em)

				for i := 0; i < 30; i++ {
					eng.Step(frame)
				}
				var out []vecmath.Vec3
				eng.EachParticle(func(p *particle.Particle) { out = append(out, p.Pos) })
				return out
			}

			first := stream()
			Expect(first).NotTo(BeEmpty())
			Expect(stream()).To(Equal(first))
		})

		It("rejects invalid construction up front", func() {
			_, err := engine.NewEmitter(vecmath.Vec3{}, -1, engine.Point, 0, particle.SpawnOptions{})
			Expect(err).To(MatchError(particle.ErrInvalidParameter))

			_, err = engine.NewEmitter(vecmath.Vec3{X: math.Inf(1)}, 1, engine.Point, 0, particle.SpawnOptions{})
			Expect(err).To(MatchError(particle.ErrInvalidParameter))

			_, err = engine.NewEmitter(vecmath.Vec3{}, 1, engine.Point, 0, particle.SpawnOptions{Radius: -2})
			Expect(err).To(MatchError(particle.ErrInvalidParameter))
		})
	})
})
