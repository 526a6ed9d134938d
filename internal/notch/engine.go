package notch

// Engine ties the stream list, the bank registry and the parameter
// coordinator together. It is single-threaded: topology updates, parameter
// edits and block processing must be serialized by the caller.
type Engine struct {
	streams  []*Stream
	registry *Registry
}

// NewEngine returns an engine with no active streams. newFilter selects the
// per-channel filter implementation; nil means the default band-stop.
func NewEngine(newFilter func() Filter) *Engine {
	return &Engine{registry: NewRegistry(newFilter)}
}

// UpdateSettings replaces the active stream list and resynchronizes the bank
// registry against it. After it returns, every stream has a bank matching its
// topology and current cut pair.
func (e *Engine) UpdateSettings(streams []*Stream) {
	e.streams = streams
	e.registry.Resync(streams)
}

// Streams returns the current active stream list.
func (e *Engine) Streams() []*Stream { return e.streams }

// Stream returns the active stream with the given identifier, or nil.
func (e *Engine) Stream(id string) *Stream {
	for _, s := range e.streams {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// Bank returns the bank for a stream identifier, or nil.
func (e *Engine) Bank(id string) *Bank {
	return e.registry.Bank(id)
}

// SetParameter applies a cut-parameter edit to one stream. The new value is
// stored first; if it violates the low < high ordering against the sibling
// parameter the stored value is rolled back and no bank is touched.
// Parameter names other than low_cut/high_cut are not this coordinator's
// concern and are ignored.
func (e *Engine) SetParameter(streamID, name string, value float64) {
	s := e.Stream(streamID)
	if s == nil {
		return
	}

	switch name {
	case ParamLowCut:
		s.Params.Set(ParamLowCut, value)
		if s.Params.LowCut() >= s.Params.HighCut() {
			s.Params.RestorePrevious(ParamLowCut)
			return
		}
	case ParamHighCut:
		s.Params.Set(ParamHighCut, value)
		if s.Params.HighCut() <= s.Params.LowCut() {
			s.Params.RestorePrevious(ParamHighCut)
			return
		}
	default:
		return
	}

	e.registry.Bank(streamID).UpdateFilters(s.Params.LowCut(), s.Params.HighCut())
}
