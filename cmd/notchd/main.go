package main

import (
	"encoding/binary"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/florian6973/notch-filter-plugin/internal/audio"
	"github.com/florian6973/notch-filter-plugin/internal/config"
	"github.com/florian6973/notch-filter-plugin/internal/mqtt"
	"github.com/florian6973/notch-filter-plugin/internal/notch"
	"github.com/florian6973/notch-filter-plugin/internal/sim"
)

// session owns the filter engine and the simulated signal sources, and
// serializes control commands against the audio pull. The engine itself is
// single-threaded; this lock is the only synchronization in the daemon.
type session struct {
	mu sync.Mutex

	engine     *notch.Engine
	streams    []*notch.Stream
	generators map[string]*sim.Generator
	monitor    *notch.Stream

	buffer [][]float64 // one slice per absolute channel
	out    []float64   // interleaved stereo monitor block
	frames int
}

func newSession(cfg *config.Config) *session {
	s := &session{
		engine:     notch.NewEngine(nil),
		generators: make(map[string]*sim.Generator),
	}

	firstChannel := 0
	for _, spec := range cfg.Streams {
		stream := notch.NewStream(spec.ID, spec.Channels, spec.SampleRate, firstChannel)
		firstChannel += spec.Channels

		s.streams = append(s.streams, stream)
		s.generators[spec.ID] = sim.NewGenerator(spec.SampleRate, cfg.HumFreq, cfg.HumAmp, cfg.NoiseAmp)

		if spec.ID == cfg.MonitorStream {
			s.monitor = stream
		}
	}
	if s.monitor == nil {
		s.monitor = s.streams[0]
	}

	s.buffer = make([][]float64, firstChannel)
	return s
}

// start pushes the (possibly restored) parameter state into the banks.
func (s *session) start() {
	s.engine.UpdateSettings(s.streams)
}

// Mix generates one block for every stream, filters it in place and returns
// the monitored stream's first two channels as interleaved stereo.
func (s *session) Mix(samples int) []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.frames != samples {
		for i := range s.buffer {
			s.buffer[i] = make([]float64, samples)
		}
		s.out = make([]float64, samples*2)
		s.frames = samples
	}

	for _, stream := range s.streams {
		seg := s.buffer[stream.FirstChannel : stream.FirstChannel+stream.ChannelCount]
		s.generators[stream.ID].Fill(seg)
	}

	s.engine.Process(s.buffer)

	if s.monitor.ChannelCount == 0 {
		for i := range s.out {
			s.out[i] = 0
		}
		return s.out
	}

	left := s.buffer[s.monitor.GlobalChannel(0)]
	right := left
	if s.monitor.ChannelCount > 1 {
		right = s.buffer[s.monitor.GlobalChannel(1)]
	}
	for i := 0; i < samples; i++ {
		s.out[i*2] = left[i]
		s.out[i*2+1] = right[i]
	}

	return s.out
}

// Apply routes one control command into the engine.
func (s *session) Apply(cmd mqtt.Command) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch cmd.Parameter {
	case notch.ParamLowCut, notch.ParamHighCut:
		s.engine.SetParameter(cmd.StreamID, cmd.Parameter, cmd.Value)
	case "channels":
		stream := s.engine.Stream(cmd.StreamID)
		if stream == nil {
			return
		}
		if cmd.Channels == nil {
			stream.SelectAllChannels()
		} else {
			stream.SetChannelMask(cmd.Channels)
		}
	case "enabled":
		stream := s.engine.Stream(cmd.StreamID)
		if stream == nil {
			return
		}
		stream.Params.SetEnabled(cmd.Enabled)
	}
}

// States snapshots the per-stream parameter state for publishing.
func (s *session) States() []mqtt.StreamState {
	s.mu.Lock()
	defer s.mu.Unlock()

	states := make([]mqtt.StreamState, 0, len(s.streams))
	for _, stream := range s.streams {
		channels := make([]int, len(stream.Params.Channels()))
		copy(channels, stream.Params.Channels())

		states = append(states, mqtt.StreamState{
			ID:       stream.ID,
			LowCut:   stream.Params.LowCut(),
			HighCut:  stream.Params.HighCut(),
			Channels: channels,
			Enabled:  stream.Params.Enabled(),
		})
	}
	return states
}

func (s *session) Reseed(seed int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, g := range s.generators {
		g.Reseed(seed)
		seed++
	}
}

func main() {
	cfg := config.Load()

	sess := newSession(cfg)
	restoreState(sess, cfg.StateFile)
	sess.start()

	player, err := audio.NewPlayer(int(sess.monitor.SampleRate), cfg.BlockSize)
	if err != nil {
		log.Fatalf("Failed to create audio player: %v", err)
	}
	defer player.Close()

	commandChan := make(chan mqtt.Command, 100)

	streamIDs := make([]string, 0, len(cfg.Streams))
	for _, spec := range cfg.Streams {
		streamIDs = append(streamIDs, spec.ID)
	}

	mqttClient, err := mqtt.NewClient(
		cfg.MQTTBroker,
		cfg.MQTTPort,
		cfg.MQTTUser,
		cfg.MQTTPassword,
		cfg.MQTTTopic,
		streamIDs,
		sess.States,
		commandChan,
	)
	if err != nil {
		log.Fatalf("Failed to create MQTT client: %v", err)
	}
	defer mqttClient.Close()

	player.Start(sess.Mix)

	go reseedLoop(sess)
	go processCommands(sess, commandChan, mqttClient, cfg.StateFile)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down...")
}

func reseedLoop(sess *session) {
	reseed(sess)
	for range time.Tick(10 * time.Minute) {
		reseed(sess)
	}
}

func reseed(sess *session) {
	f, err := os.Open("/dev/random")
	if err != nil {
		log.Printf("Failed to open /dev/random: %v", err)
		return
	}
	defer f.Close()

	var seed int64
	if err := binary.Read(f, binary.LittleEndian, &seed); err != nil {
		log.Printf("Failed to read /dev/random: %v", err)
		return
	}
	sess.Reseed(seed)
	log.Printf("Re-seeded signal generators from /dev/random")
}

func processCommands(sess *session, cmdChan <-chan mqtt.Command, mqttClient *mqtt.Client, stateFile string) {
	stateTicker := time.NewTicker(2 * time.Second)
	defer stateTicker.Stop()

	for {
		select {
		case cmd, ok := <-cmdChan:
			if !ok {
				return
			}
			sess.Apply(cmd)
			saveState(sess, stateFile)
			mqttClient.PublishState()
		case <-stateTicker.C:
			mqttClient.PublishState()
		}
	}
}

// persistedStream is the saved parameter state of one stream.
type persistedStream struct {
	LowCut   float64 `json:"low_cut"`
	HighCut  float64 `json:"high_cut"`
	Channels []int   `json:"channels"`
	Enabled  bool    `json:"enabled"`
}

func saveState(sess *session, path string) {
	state := make(map[string]persistedStream)
	for _, s := range sess.States() {
		state[s.ID] = persistedStream{
			LowCut:   s.LowCut,
			HighCut:  s.HighCut,
			Channels: s.Channels,
			Enabled:  s.Enabled,
		}
	}

	data, err := json.Marshal(state)
	if err != nil {
		log.Printf("Failed to marshal state: %v", err)
		return
	}

	os.MkdirAll(filepath.Dir(path), 0755)
	if err := os.WriteFile(path, data, 0644); err != nil {
		log.Printf("Failed to save state: %v", err)
	}
}

// restoreState loads persisted parameters into the stream state before the
// first bank resync. Pairs violating the low < high ordering are skipped.
func restoreState(sess *session, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}

	var state map[string]persistedStream
	if err := json.Unmarshal(data, &state); err != nil {
		log.Printf("Failed to parse saved state: %v", err)
		return
	}

	for _, stream := range sess.streams {
		saved, ok := state[stream.ID]
		if !ok {
			continue
		}

		if saved.LowCut < saved.HighCut {
			stream.Params.Set(notch.ParamLowCut, saved.LowCut)
			stream.Params.Set(notch.ParamHighCut, saved.HighCut)
		} else {
			log.Printf("Ignoring saved cuts for %s: %v >= %v", stream.ID, saved.LowCut, saved.HighCut)
		}
		if saved.Channels != nil {
			stream.SetChannelMask(saved.Channels)
		}
		stream.Params.SetEnabled(saved.Enabled)

		log.Printf("Restored %s: cuts=(%.1f, %.1f), channels=%d, enabled=%v",
			stream.ID, stream.Params.LowCut(), stream.Params.HighCut(),
			len(stream.Params.Channels()), stream.Params.Enabled())
	}
}
