package bandstop

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

// rmsTail measures the RMS of the last quarter of the signal, past the
// filter's settling transient.
func rmsTail(samples []float64) float64 {
	tail := samples[len(samples)-len(samples)/4:]
	sum := 0.0
	for _, v := range tail {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(tail)))
}

func TestZeroInputZeroOutput(t *testing.T) {
	f := New(4)
	f.Configure(Params{SampleRate: 30000, Order: 4, Center: 60, Bandwidth: 2})

	buf := make([]float64, 512)
	f.Process(buf)

	for i, v := range buf {
		if v != 0 {
			t.Fatalf("sample %d = %v, want 0", i, v)
		}
	}
}

func TestAttenuatesCenterFrequency(t *testing.T) {
	const sampleRate = 30000.0

	f := New(4)
	f.Configure(Params{SampleRate: sampleRate, Order: 4, Center: 60, Bandwidth: 2})

	buf := sine(60, sampleRate, 4*int(sampleRate))
	in := rmsTail(buf)
	f.Process(buf)
	out := rmsTail(buf)

	if out > 0.05*in {
		t.Fatalf("center-frequency RMS %v vs input %v, want heavy attenuation", out, in)
	}
}

func TestPassesFrequenciesOutsideBand(t *testing.T) {
	const sampleRate = 30000.0

	tests := []struct {
		name string
		freq float64
	}{
		{"below band", 10},
		{"above band", 300},
		{"far above band", 5000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := New(4)
			f.Configure(Params{SampleRate: sampleRate, Order: 4, Center: 60, Bandwidth: 2})

			buf := sine(tt.freq, sampleRate, 2*int(sampleRate))
			in := rmsTail(buf)
			f.Process(buf)
			out := rmsTail(buf)

			if out < 0.9*in || out > 1.1*in {
				t.Fatalf("passband RMS %v vs input %v, want near-unity gain", out, in)
			}
		})
	}
}

func TestResetClearsState(t *testing.T) {
	f := New(4)
	f.Configure(Params{SampleRate: 30000, Order: 4, Center: 60, Bandwidth: 2})

	impulse := make([]float64, 64)
	impulse[0] = 1
	f.Process(impulse)

	f.Reset()

	buf := make([]float64, 64)
	f.Process(buf)
	for i, v := range buf {
		if v != 0 {
			t.Fatalf("post-reset sample %d = %v, want 0", i, v)
		}
	}
}

func TestUnconfiguredFilterPassesThrough(t *testing.T) {
	f := New(4)

	buf := []float64{0.5, -0.25, 1, -1}
	want := []float64{0.5, -0.25, 1, -1}
	f.Process(buf)

	for i := range buf {
		if buf[i] != want[i] {
			t.Fatalf("sample %d = %v, want %v", i, buf[i], want[i])
		}
	}
}

func TestDegenerateParamsFallBackToPassthrough(t *testing.T) {
	tests := []struct {
		name string
		p    Params
	}{
		{"center at nyquist", Params{SampleRate: 30000, Order: 4, Center: 15000, Bandwidth: 2}},
		{"zero bandwidth", Params{SampleRate: 30000, Order: 4, Center: 60, Bandwidth: 0}},
		{"zero sample rate", Params{SampleRate: 0, Order: 4, Center: 60, Bandwidth: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := New(4)
			f.Configure(tt.p)

			buf := []float64{0.5, -0.25, 1, -1}
			want := []float64{0.5, -0.25, 1, -1}
			f.Process(buf)

			for i := range buf {
				if buf[i] != want[i] {
					t.Fatalf("sample %d = %v, want %v", i, buf[i], want[i])
				}
			}
		})
	}
}

func TestConfigureStoresParams(t *testing.T) {
	f := New(4)
	p := Params{SampleRate: 30000, Order: 4, Center: 60, Bandwidth: 2}
	f.Configure(p)

	if got := f.Params(); got != p {
		t.Fatalf("Params() = %+v, want %+v", got, p)
	}
}
