package spectrum

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// Analyzer measures single-block magnitude spectra with a Hann window. It is
// used for reporting and tests, not on the block processing path.
type Analyzer struct {
	SampleRate float64
	FFTSize    int

	window []float64
}

// New returns an analyzer for the given sample rate and FFT size.
func New(sampleRate float64, fftSize int) *Analyzer {
	window := make([]float64, fftSize)
	for i := range window {
		window[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(fftSize-1)))
	}

	return &Analyzer{
		SampleRate: sampleRate,
		FFTSize:    fftSize,
		window:     window,
	}
}

// BinWidth returns the frequency resolution in Hz.
func (a *Analyzer) BinWidth() float64 {
	return a.SampleRate / float64(a.FFTSize)
}

// magnitudes windows the first FFTSize samples and returns the magnitude of
// the positive-frequency bins.
func (a *Analyzer) magnitudes(samples []float64) []float64 {
	input := make([]complex128, a.FFTSize)
	for i := 0; i < a.FFTSize; i++ {
		input[i] = complex(samples[i]*a.window[i], 0)
	}

	bins := fft.FFT(input)

	mags := make([]float64, a.FFTSize/2)
	for i := range mags {
		mags[i] = cmplx.Abs(bins[i])
	}
	return mags
}

// MagnitudeAt returns the magnitude of the bin nearest to freq. Samples
// shorter than the FFT size yield 0.
func (a *Analyzer) MagnitudeAt(samples []float64, freq float64) float64 {
	if len(samples) < a.FFTSize {
		return 0
	}

	bin := int(math.Round(freq / a.BinWidth()))
	if bin < 0 || bin >= a.FFTSize/2 {
		return 0
	}
	return a.magnitudes(samples)[bin]
}

// DominantFrequency returns the frequency and magnitude of the strongest bin
// between minFreq and maxFreq.
func (a *Analyzer) DominantFrequency(samples []float64, minFreq, maxFreq float64) (float64, float64) {
	if len(samples) < a.FFTSize {
		return 0, 0
	}

	mags := a.magnitudes(samples)
	binWidth := a.BinWidth()

	start := int(minFreq / binWidth)
	end := int(maxFreq / binWidth)
	if start < 0 {
		start = 0
	}
	if end >= len(mags) {
		end = len(mags) - 1
	}

	maxMag := 0.0
	maxBin := start
	for i := start; i <= end; i++ {
		if mags[i] > maxMag {
			maxMag = mags[i]
			maxBin = i
		}
	}

	return float64(maxBin) * binWidth, maxMag
}

// AttenuationDB compares the magnitude of two signals at one frequency and
// returns the level change in dB (negative when after is weaker).
func (a *Analyzer) AttenuationDB(before, after []float64, freq float64) float64 {
	b := a.MagnitudeAt(before, freq)
	f := a.MagnitudeAt(after, freq)
	if b == 0 || f == 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(f/b)
}
