package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
)

// StreamSpec describes one simulated input stream for the daemon.
type StreamSpec struct {
	ID         string
	Channels   int
	SampleRate float64
}

type Config struct {
	MQTTBroker   string
	MQTTPort     int
	MQTTUser     string
	MQTTPassword string
	MQTTTopic    string

	Streams       []StreamSpec
	BlockSize     int
	MonitorStream string
	StateFile     string

	HumFreq  float64
	HumAmp   float64
	NoiseAmp float64
}

func Load() *Config {
	broker := getEnv("MQTT_BROKER", "localhost")
	if !strings.HasPrefix(broker, "tcp://") && !strings.HasPrefix(broker, "ssl://") {
		broker = "tcp://" + broker
	}

	streams, err := ParseStreams(getEnv("STREAMS", "probe-a:2@30000"))
	if err != nil {
		log.Printf("Invalid STREAMS value (%v), using default", err)
		streams = []StreamSpec{{ID: "probe-a", Channels: 2, SampleRate: 30000}}
	}

	cfg := &Config{
		MQTTBroker:    broker,
		MQTTPort:      getEnvInt("MQTT_PORT", 1883),
		MQTTUser:      getEnv("MQTT_USER", ""),
		MQTTPassword:  getEnv("MQTT_PASSWORD", ""),
		MQTTTopic:     getEnv("MQTT_TOPIC", "lab/notch"),
		Streams:       streams,
		BlockSize:     getEnvInt("BLOCK_SIZE", 1024),
		MonitorStream: getEnv("MONITOR_STREAM", streams[0].ID),
		StateFile:     getEnv("STATE_FILE", "/var/lib/notchd/state.json"),
		HumFreq:       getEnvFloat("HUM_FREQ", 60),
		HumAmp:        getEnvFloat("HUM_AMP", 0.5),
		NoiseAmp:      getEnvFloat("NOISE_AMP", 0.1),
	}

	log.Printf("Config: MQTT=%s:%d, Topic=%s, Streams=%d, Block=%d",
		cfg.MQTTBroker, cfg.MQTTPort, cfg.MQTTTopic, len(cfg.Streams), cfg.BlockSize)
	return cfg
}

// ParseStreams parses a topology spec of the form
// "id:channels@rate,id:channels@rate". Whitespace around entries is ignored.
func ParseStreams(spec string) ([]StreamSpec, error) {
	var streams []StreamSpec
	seen := make(map[string]bool)

	for _, entry := range strings.Split(spec, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		id, rest, ok := strings.Cut(entry, ":")
		if !ok || id == "" {
			return nil, fmt.Errorf("stream entry %q: want id:channels@rate", entry)
		}
		if seen[id] {
			return nil, fmt.Errorf("duplicate stream id %q", id)
		}
		seen[id] = true

		chanStr, rateStr, ok := strings.Cut(rest, "@")
		if !ok {
			return nil, fmt.Errorf("stream entry %q: want id:channels@rate", entry)
		}

		channels, err := strconv.Atoi(chanStr)
		if err != nil || channels < 0 {
			return nil, fmt.Errorf("stream %q: bad channel count %q", id, chanStr)
		}
		rate, err := strconv.ParseFloat(rateStr, 64)
		if err != nil || rate <= 0 {
			return nil, fmt.Errorf("stream %q: bad sample rate %q", id, rateStr)
		}

		streams = append(streams, StreamSpec{ID: id, Channels: channels, SampleRate: rate})
	}

	if len(streams) == 0 {
		return nil, fmt.Errorf("no streams in %q", spec)
	}
	return streams, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
