package spectrum

import (
	"math"
	"testing"
)

func sine(freq, sampleRate float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Sin(2 * math.Pi * freq * float64(i) / sampleRate)
	}
	return out
}

func TestDominantFrequencyFindsTone(t *testing.T) {
	tests := []struct {
		name string
		freq float64
	}{
		{"mains hum", 60},
		{"mid band", 440},
		{"high band", 5000},
	}

	const sampleRate = 30000.0
	a := New(sampleRate, 8192)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			samples := sine(tt.freq, sampleRate, 8192)

			got, mag := a.DominantFrequency(samples, 1, 10000)
			if math.Abs(got-tt.freq) > a.BinWidth() {
				t.Fatalf("DominantFrequency() = %v, want %v within %v", got, tt.freq, a.BinWidth())
			}
			if mag <= 0 {
				t.Fatalf("magnitude = %v, want > 0", mag)
			}
		})
	}
}

func TestMagnitudeAtDistinguishesPresenceOfTone(t *testing.T) {
	const sampleRate = 30000.0
	a := New(sampleRate, 8192)

	tone := sine(60, sampleRate, 8192)
	silence := make([]float64, 8192)

	if got := a.MagnitudeAt(tone, 60); got <= 0 {
		t.Fatalf("MagnitudeAt(tone) = %v, want > 0", got)
	}
	if got := a.MagnitudeAt(silence, 60); got != 0 {
		t.Fatalf("MagnitudeAt(silence) = %v, want 0", got)
	}
}

func TestShortInputYieldsZero(t *testing.T) {
	a := New(30000, 8192)
	if got := a.MagnitudeAt(make([]float64, 16), 60); got != 0 {
		t.Fatalf("MagnitudeAt(short input) = %v, want 0", got)
	}
	if freq, mag := a.DominantFrequency(make([]float64, 16), 1, 100); freq != 0 || mag != 0 {
		t.Fatalf("DominantFrequency(short input) = %v, %v, want 0, 0", freq, mag)
	}
}
