package notch

// Process runs one block through the filters, in place. buffer holds one
// sample slice per absolute channel; each stream's channels start at its
// FirstChannel offset and the slice length is that stream's sample count for
// this block.
//
// Disabled streams and channels outside a stream's mask are left untouched.
// This path allocates nothing and does no structural work; bank sizing
// happens in UpdateSettings only.
func (e *Engine) Process(buffer [][]float64) {
	for _, s := range e.streams {
		if !s.Params.Enabled() {
			continue
		}

		// The registry guarantees a bank for every active stream.
		bank := e.registry.Bank(s.ID)

		for _, local := range s.Params.Channels() {
			bank.filters[local].Process(buffer[s.FirstChannel+local])
		}
	}
}
