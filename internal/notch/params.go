package notch

// Parameter names shared with the control plane.
const (
	ParamLowCut  = "low_cut"
	ParamHighCut = "high_cut"
)

// Frequency limits for both cut parameters, in Hz.
const (
	MinFrequency = 0.1
	MaxFrequency = 15000.0
)

// Default cut values, in Hz. The shipped pair brackets 60 Hz mains hum.
const (
	DefaultLowCut  = 59.0
	DefaultHighCut = 61.0
)

// Params is the stream-scoped parameter state: the two cut frequencies with
// their previous values, the channel selection mask and the enable flag.
// An edit is stored first and validated by the coordinator afterwards, so a
// rejected edit can be rolled back with RestorePrevious.
type Params struct {
	lowCut      float64
	highCut     float64
	prevLowCut  float64
	prevHighCut float64

	channels []int
	enabled  bool
}

// NewParams returns parameter state with default cut values, an empty channel
// mask and the stream enabled.
func NewParams() *Params {
	return &Params{
		lowCut:      DefaultLowCut,
		highCut:     DefaultHighCut,
		prevLowCut:  DefaultLowCut,
		prevHighCut: DefaultHighCut,
		enabled:     true,
	}
}

// Value returns the named cut parameter. The second result is false for names
// this state does not hold.
func (p *Params) Value(name string) (float64, bool) {
	switch name {
	case ParamLowCut:
		return p.lowCut, true
	case ParamHighCut:
		return p.highCut, true
	}
	return 0, false
}

// Set stores a new value for the named cut parameter, clamped to the valid
// frequency range, and remembers the value it replaced. Unknown names are
// ignored.
func (p *Params) Set(name string, value float64) {
	value = clampFrequency(value)

	switch name {
	case ParamLowCut:
		p.prevLowCut = p.lowCut
		p.lowCut = value
	case ParamHighCut:
		p.prevHighCut = p.highCut
		p.highCut = value
	}
}

// RestorePrevious rolls the named parameter back to the value it held before
// the last Set. Used by the coordinator to reject an invalid edit.
func (p *Params) RestorePrevious(name string) {
	switch name {
	case ParamLowCut:
		p.lowCut = p.prevLowCut
	case ParamHighCut:
		p.highCut = p.prevHighCut
	}
}

// LowCut returns the current low cut value in Hz.
func (p *Params) LowCut() float64 { return p.lowCut }

// HighCut returns the current high cut value in Hz.
func (p *Params) HighCut() float64 { return p.highCut }

// Channels returns the selected local channel indices, sorted ascending.
// The slice is owned by the parameter state; callers must not modify it.
func (p *Params) Channels() []int { return p.channels }

// Enabled reports whether block processing touches this stream.
func (p *Params) Enabled() bool { return p.enabled }

// SetEnabled sets the enable flag.
func (p *Params) SetEnabled(enabled bool) { p.enabled = enabled }

func clampFrequency(v float64) float64 {
	if v < MinFrequency {
		return MinFrequency
	}
	if v > MaxFrequency {
		return MaxFrequency
	}
	return v
}
