// Package notch orchestrates a bank of per-channel band-stop filters over a
// set of multi-channel streams, with live low/high cut reconfiguration while
// block processing continues.
package notch

import "github.com/florian6973/notch-filter-plugin/internal/bandstop"

// FilterOrder is the band-stop order applied to every channel.
const FilterOrder = 4

// Filter is the capability the bank requires from a single-channel filter.
// The concrete implementation is bandstop.Filter; tests substitute fakes.
type Filter interface {
	Configure(p bandstop.Params)
	Process(samples []float64)
	Reset()
}

func newBandstopFilter() Filter {
	return bandstop.New(FilterOrder)
}

// Bank owns one filter per channel of a single stream.
type Bank struct {
	sampleRate float64
	lowCut     float64
	highCut    float64
	filters    []Filter

	newFilter func() Filter
}

// NewBank returns an empty bank producing band-stop filters. newFilter may be
// nil, in which case the default fourth-order implementation is used.
func NewBank(newFilter func() Filter) *Bank {
	if newFilter == nil {
		newFilter = newBandstopFilter
	}
	return &Bank{newFilter: newFilter}
}

// CreateFilters discards any existing filters and allocates one per channel,
// then configures them all from the given cut pair. Called whenever the
// stream's channel count or sample rate changes; previous filter state does
// not survive a rebuild.
func (b *Bank) CreateFilters(channelCount int, sampleRate, lowCut, highCut float64) {
	b.sampleRate = sampleRate

	b.filters = make([]Filter, 0, channelCount)
	for n := 0; n < channelCount; n++ {
		b.filters = append(b.filters, b.newFilter())
	}

	b.UpdateFilters(lowCut, highCut)
}

// UpdateFilters reconfigures every filter from the given cut pair. The number
// of filters is unchanged.
func (b *Bank) UpdateFilters(lowCut, highCut float64) {
	b.lowCut = lowCut
	b.highCut = highCut

	for n := range b.filters {
		b.setFilterParameters(lowCut, highCut, n)
	}
}

// setFilterParameters applies the derived band-stop parameters to one
// channel's filter. The caller guarantees channel < len(b.filters).
func (b *Bank) setFilterParameters(lowCut, highCut float64, channel int) {
	b.filters[channel].Configure(bandstop.Params{
		SampleRate: b.sampleRate,
		Order:      FilterOrder,
		Center:     (highCut + lowCut) / 2,
		Bandwidth:  highCut - lowCut,
	})
}

// ChannelCount returns the number of filters in the bank.
func (b *Bank) ChannelCount() int { return len(b.filters) }

// SampleRate returns the sample rate the bank was built for.
func (b *Bank) SampleRate() float64 { return b.sampleRate }

// CutRange returns the cut pair last applied with UpdateFilters.
func (b *Bank) CutRange() (lowCut, highCut float64) {
	return b.lowCut, b.highCut
}
