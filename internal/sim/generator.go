package sim

import (
	"math"
	"math/rand"
)

// Generator produces test signal for one stream: a mains-hum sine shared by
// all channels plus independent white noise per channel. It stands in for the
// acquisition hardware when running the daemon without real input.
type Generator struct {
	sampleRate float64
	humFreq    float64
	humAmp     float64
	noiseAmp   float64

	rng   *rand.Rand
	phase float64
}

// NewGenerator returns a generator for one stream's sample rate. humFreq is
// the simulated interference frequency in Hz; humAmp and noiseAmp scale the
// two components.
func NewGenerator(sampleRate, humFreq, humAmp, noiseAmp float64) *Generator {
	return &Generator{
		sampleRate: sampleRate,
		humFreq:    humFreq,
		humAmp:     humAmp,
		noiseAmp:   noiseAmp,
		rng:        rand.New(rand.NewSource(rand.Int63())),
	}
}

// Reseed replaces the internal RNG with one seeded from the given value.
// Caller must ensure this is not called concurrently with Fill.
func (g *Generator) Reseed(seed int64) {
	g.rng = rand.New(rand.NewSource(seed))
}

// Fill writes one block into the given channel slices. Every channel gets the
// same hum phase, as real mains interference couples into all electrodes at
// once; the noise component is independent per channel. All slices must have
// equal length.
func (g *Generator) Fill(channels [][]float64) {
	if len(channels) == 0 {
		return
	}

	step := 2 * math.Pi * g.humFreq / g.sampleRate
	samples := len(channels[0])

	for i := 0; i < samples; i++ {
		hum := g.humAmp * math.Sin(g.phase)
		g.phase += step
		if g.phase > 2*math.Pi {
			g.phase -= 2 * math.Pi
		}

		for c := range channels {
			channels[c][i] = hum + g.noiseAmp*(g.rng.Float64()*2-1)
		}
	}
}
