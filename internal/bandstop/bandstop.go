package bandstop

import "math"

// Params describes one band-stop configuration. Center and Bandwidth are in
// Hz; Order must be even (each pair of orders maps to one biquad section).
type Params struct {
	SampleRate float64
	Order      int
	Center     float64
	Bandwidth  float64
}

type section struct {
	b0, b1, b2 float64
	a1, a2     float64

	x1, x2 float64
	y1, y2 float64
}

// Filter is a stateful single-channel band-stop IIR filter built from
// cascaded second-order band-reject sections.
type Filter struct {
	sections []section
	params   Params
}

// New returns an unconfigured filter of the given order. Until Configure is
// called the filter passes samples through unchanged.
func New(order int) *Filter {
	if order < 2 {
		order = 2
	}
	f := &Filter{sections: make([]section, order/2)}
	for i := range f.sections {
		f.sections[i] = passthrough()
	}
	return f
}

// Params returns the configuration last applied with Configure.
func (f *Filter) Params() Params {
	return f.params
}

// Configure recomputes all section coefficients for p and clears the delay
// state. The section count follows p.Order, so a filter may be re-used across
// order changes.
func (f *Filter) Configure(p Params) {
	f.params = p

	n := p.Order / 2
	if n < 1 {
		n = 1
	}
	if n != len(f.sections) {
		f.sections = make([]section, n)
	}

	s := bandRejectSection(p.SampleRate, p.Center, p.Bandwidth)
	for i := range f.sections {
		f.sections[i] = s
	}
}

// bandRejectSection computes one RBJ cookbook band-reject biquad. Degenerate
// parameters yield an identity section instead of unstable coefficients.
func bandRejectSection(sampleRate, center, bandwidth float64) section {
	if sampleRate <= 0 || center <= 0 || bandwidth <= 0 || center >= sampleRate*0.499 {
		return passthrough()
	}

	w0 := 2 * math.Pi * center / sampleRate
	cosw0 := math.Cos(w0)
	// Q derived from the absolute bandwidth in Hz.
	q := center / bandwidth
	alpha := math.Sin(w0) / (2 * q)

	a0 := 1 + alpha
	return section{
		b0: 1 / a0,
		b1: -2 * cosw0 / a0,
		b2: 1 / a0,
		a1: -2 * cosw0 / a0,
		a2: (1 - alpha) / a0,
	}
}

func passthrough() section {
	return section{b0: 1}
}

// Process filters samples in place through every section.
func (f *Filter) Process(samples []float64) {
	for i := range f.sections {
		s := &f.sections[i]
		for j, x := range samples {
			y := s.b0*x + s.b1*s.x1 + s.b2*s.x2 - s.a1*s.y1 - s.a2*s.y2
			s.x2 = s.x1
			s.x1 = x
			s.y2 = s.y1
			s.y1 = y
			samples[j] = y
		}
	}
}

// Reset clears the delay state of every section without touching the
// coefficients.
func (f *Filter) Reset() {
	for i := range f.sections {
		s := &f.sections[i]
		s.x1, s.x2, s.y1, s.y2 = 0, 0, 0, 0
	}
}
