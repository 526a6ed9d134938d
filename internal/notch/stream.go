package notch

import "sort"

// Stream describes one active multi-channel signal source: a stable
// identifier, its current topology, where its channels start in the shared
// block buffer, and its parameter state.
//
// Channel count and sample rate may change over a stream's lifetime; when
// they do, the host reports the full stream list again through
// Engine.UpdateSettings.
type Stream struct {
	ID           string
	ChannelCount int
	SampleRate   float64
	FirstChannel int

	Params *Params
}

// NewStream returns a stream descriptor with default parameters and all
// channels selected for filtering.
func NewStream(id string, channelCount int, sampleRate float64, firstChannel int) *Stream {
	s := &Stream{
		ID:           id,
		ChannelCount: channelCount,
		SampleRate:   sampleRate,
		FirstChannel: firstChannel,
		Params:       NewParams(),
	}
	s.SelectAllChannels()
	return s
}

// SelectAllChannels sets the channel mask to every local channel index.
func (s *Stream) SelectAllChannels() {
	mask := make([]int, s.ChannelCount)
	for i := range mask {
		mask[i] = i
	}
	s.Params.channels = mask
}

// SetChannelMask replaces the channel mask. Indices outside
// [0, ChannelCount) are dropped; duplicates collapse; the stored mask is
// sorted so the block processor walks it in buffer order.
func (s *Stream) SetChannelMask(channels []int) {
	mask := make([]int, 0, len(channels))
	seen := make(map[int]bool, len(channels))
	for _, ch := range channels {
		if ch < 0 || ch >= s.ChannelCount || seen[ch] {
			continue
		}
		seen[ch] = true
		mask = append(mask, ch)
	}
	sort.Ints(mask)
	s.Params.channels = mask
}

// GlobalChannel resolves a local channel index to its absolute position in
// the shared block buffer.
func (s *Stream) GlobalChannel(local int) int {
	return s.FirstChannel + local
}
