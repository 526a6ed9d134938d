// Package wavio converts between WAV files and the per-channel float64
// blocks the filter engine works on.
package wavio

import (
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// ReadFile decodes a WAV file into one float64 slice per channel, scaled to
// [-1, 1], and returns the file's sample rate.
func ReadFile(path string) ([][]float64, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return nil, 0, fmt.Errorf("wavio: %s is not a valid WAV file", path)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("wavio: decode %s: %w", path, err)
	}

	numChans := buf.Format.NumChannels
	if numChans <= 0 {
		return nil, 0, fmt.Errorf("wavio: %s reports %d channels", path, numChans)
	}

	frames := len(buf.Data) / numChans
	scale := 1.0 / float64(int(1)<<(decoder.BitDepth-1))

	channels := make([][]float64, numChans)
	for c := range channels {
		channels[c] = make([]float64, frames)
	}
	for i := 0; i < frames; i++ {
		for c := 0; c < numChans; c++ {
			channels[c][i] = float64(buf.Data[i*numChans+c]) * scale
		}
	}

	return channels, buf.Format.SampleRate, nil
}

// WriteFile encodes per-channel samples as 16-bit PCM. All channels must have
// equal length. Samples outside [-1, 1] are clipped.
func WriteFile(path string, channels [][]float64, sampleRate int) error {
	if len(channels) == 0 {
		return fmt.Errorf("wavio: no channels to write")
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	const bitDepth = 16
	encoder := wav.NewEncoder(f, sampleRate, bitDepth, len(channels), 1)

	frames := len(channels[0])
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: len(channels),
			SampleRate:  sampleRate,
		},
		Data:           make([]int, frames*len(channels)),
		SourceBitDepth: bitDepth,
	}

	for i := 0; i < frames; i++ {
		for c := range channels {
			s := channels[c][i]
			if s > 1 {
				s = 1
			} else if s < -1 {
				s = -1
			}
			buf.Data[i*len(channels)+c] = int(s * 32767)
		}
	}

	if err := encoder.Write(buf); err != nil {
		encoder.Close()
		return fmt.Errorf("wavio: encode %s: %w", path, err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("wavio: finalize %s: %w", path, err)
	}

	return nil
}
