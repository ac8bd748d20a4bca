// Package metrics aggregates per-frame engine stats over a run.
package metrics

import (
	"github.com/san-kum/ferrosim/internal/engine"
)

// Metric consumes one Stats snapshot per frame and reduces it to a single
// number at the end of a run.
type Metric interface {
	Name() string
	Observe(st engine.Stats)
	Value() float64
	Reset()
}

// MeanKinetic tracks the average total kinetic energy per frame.
type MeanKinetic struct {
	sum     float64
	samples int
}

func NewMeanKinetic() *MeanKinetic { return &MeanKinetic{} }

func (m *MeanKinetic) Name() string { return "mean_kinetic" }

func (m *MeanKinetic) Observe(st engine.Stats) {
	m.sum += st.Kinetic
	m.samples++
}

func (m *MeanKinetic) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanKinetic) Reset() { m.sum, m.samples = 0, 0 }

// PeakPopulation tracks the highest live particle count seen.
type PeakPopulation struct {
	peak int
}

func NewPeakPopulation() *PeakPopulation { return &PeakPopulation{} }

func (m *PeakPopulation) Name() string { return "peak_population" }

func (m *PeakPopulation) Observe(st engine.Stats) {
	if st.Live > m.peak {
		m.peak = st.Live
	}
}

func (m *PeakPopulation) Value() float64 { return float64(m.peak) }
func (m *PeakPopulation) Reset()         { m.peak = 0 }

// SettledFraction tracks the final share of live particles at rest on the
// ground. Only the last observed frame matters.
type SettledFraction struct {
	last engine.Stats
}

func NewSettledFraction() *SettledFraction { return &SettledFraction{} }

func (m *SettledFraction) Name() string { return "settled_fraction" }

func (m *SettledFraction) Observe(st engine.Stats) { m.last = st }

func (m *SettledFraction) Value() float64 {
	if m.last.Live == 0 {
		return 0
	}
	return float64(m.last.Settled) / float64(m.last.Live)
}

func (m *SettledFraction) Reset() { m.last = engine.Stats{} }
