package main

import (
	"flag"
	"log"
	"strconv"
	"strings"

	"github.com/florian6973/notch-filter-plugin/internal/notch"
	"github.com/florian6973/notch-filter-plugin/internal/spectrum"
	"github.com/florian6973/notch-filter-plugin/internal/wavio"
)

func main() {
	in := flag.String("in", "", "input WAV file")
	out := flag.String("out", "", "output WAV file")
	low := flag.Float64("low", notch.DefaultLowCut, "low cut frequency in Hz")
	high := flag.Float64("high", notch.DefaultHighCut, "high cut frequency in Hz")
	channelsFlag := flag.String("channels", "all", "channels to filter: \"all\" or a comma-separated index list")
	blockSize := flag.Int("block", 4096, "processing block size in samples")
	flag.Parse()

	if *in == "" || *out == "" {
		log.Fatal("both -in and -out are required")
	}
	if *low >= *high {
		log.Fatalf("low cut %v must be below high cut %v", *low, *high)
	}

	channels, rate, err := wavio.ReadFile(*in)
	if err != nil {
		log.Fatalf("Failed to read input: %v", err)
	}
	frames := len(channels[0])
	log.Printf("Read %s: %d channels, %d Hz, %d frames", *in, len(channels), rate, frames)

	stream := notch.NewStream("wav", len(channels), float64(rate), 0)
	stream.Params.Set(notch.ParamLowCut, *low)
	stream.Params.Set(notch.ParamHighCut, *high)
	if *channelsFlag != "all" {
		mask, err := parseChannels(*channelsFlag)
		if err != nil {
			log.Fatalf("Invalid -channels: %v", err)
		}
		stream.SetChannelMask(mask)
	}

	engine := notch.NewEngine(nil)
	engine.UpdateSettings([]*notch.Stream{stream})

	original := make([][]float64, len(channels))
	for c := range channels {
		original[c] = make([]float64, frames)
		copy(original[c], channels[c])
	}

	views := make([][]float64, len(channels))
	for start := 0; start < frames; start += *blockSize {
		end := start + *blockSize
		if end > frames {
			end = frames
		}
		for c := range channels {
			views[c] = channels[c][start:end]
		}
		engine.Process(views)
	}

	if err := wavio.WriteFile(*out, channels, rate); err != nil {
		log.Fatalf("Failed to write output: %v", err)
	}
	log.Printf("Wrote %s", *out)

	reportAttenuation(original, channels, float64(rate), (*low+*high)/2)
}

func parseChannels(spec string) ([]int, error) {
	var mask []int
	for _, part := range strings.Split(spec, ",") {
		ch, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		mask = append(mask, ch)
	}
	return mask, nil
}

// reportAttenuation measures the level change at the notch center over the
// tail of the file, past the filters' settling transient.
func reportAttenuation(before, after [][]float64, sampleRate, center float64) {
	frames := len(before[0])

	fftSize := 8192
	for fftSize > frames {
		fftSize /= 2
	}
	if fftSize < 256 {
		log.Printf("Input too short for a spectrum report")
		return
	}

	analyzer := spectrum.New(sampleRate, fftSize)
	tail := frames - fftSize

	for c := range before {
		att := analyzer.AttenuationDB(before[c][tail:], after[c][tail:], center)
		log.Printf("Channel %d: %.1f dB at %.1f Hz", c, att, center)
	}
}
