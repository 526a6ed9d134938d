package notch

// Registry maps each active stream identifier to its bank. It exclusively
// owns the banks; each bank exclusively owns its filters.
type Registry struct {
	banks map[string]*Bank

	newFilter func() Filter
}

// NewRegistry returns an empty registry. newFilter is passed through to the
// banks it creates; nil selects the default band-stop implementation.
func NewRegistry(newFilter func() Filter) *Registry {
	return &Registry{
		banks:     make(map[string]*Bank),
		newFilter: newFilter,
	}
}

// Resync brings the registry in line with the current stream list: one bank
// per stream, rebuilt when the stream's channel count or sample rate no
// longer matches, refreshed from the stream's current cut pair otherwise.
// Banks for streams no longer present are removed.
//
// Invoked on topology changes, never on the block path.
func (r *Registry) Resync(streams []*Stream) {
	for _, s := range streams {
		bank, ok := r.banks[s.ID]
		if !ok {
			bank = NewBank(r.newFilter)
			r.banks[s.ID] = bank
		}

		if !ok || bank.ChannelCount() != s.ChannelCount || bank.SampleRate() != s.SampleRate {
			bank.CreateFilters(s.ChannelCount, s.SampleRate, s.Params.LowCut(), s.Params.HighCut())
			continue
		}

		bank.UpdateFilters(s.Params.LowCut(), s.Params.HighCut())
	}

	if len(r.banks) == len(streams) {
		return
	}

	active := make(map[string]bool, len(streams))
	for _, s := range streams {
		active[s.ID] = true
	}
	for id := range r.banks {
		if !active[id] {
			delete(r.banks, id)
		}
	}
}

// Bank returns the bank for a stream identifier, or nil if none exists.
func (r *Registry) Bank(id string) *Bank {
	return r.banks[id]
}

// Len returns the number of banks currently held.
func (r *Registry) Len() int { return len(r.banks) }
