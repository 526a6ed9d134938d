package mqtt

import (
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// Command is one parameter edit received from the control plane.
type Command struct {
	StreamID  string
	Parameter string // "low_cut", "high_cut", "channels", "enabled"
	Value     float64
	Channels  []int // nil means all channels
	Enabled   bool
}

// StreamState is the retained per-stream state published to the broker.
type StreamState struct {
	ID       string  `json:"id"`
	LowCut   float64 `json:"low_cut"`
	HighCut  float64 `json:"high_cut"`
	Channels []int   `json:"channels"`
	Enabled  bool    `json:"enabled"`
}

// Client bridges MQTT topics to the filter daemon. Edits arrive on
// <topic>/<stream>/<parameter>/set and are forwarded as Commands; the current
// per-stream state is published retained on <topic>/<stream>/state.
type Client struct {
	client      mqtt.Client
	topic       string
	streamIDs   []string
	states      func() []StreamState
	commandChan chan<- Command
}

func NewClient(broker string, port int, user, password, topic string,
	streamIDs []string, states func() []StreamState, cmdChan chan<- Command) (*Client, error) {

	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("%s:%d", broker, port))
	opts.SetClientID(fmt.Sprintf("notchd-%d", time.Now().Unix()))

	if user != "" {
		opts.SetUsername(user)
	}
	if password != "" {
		opts.SetPassword(password)
	}

	opts.SetAutoReconnect(true)
	opts.SetMaxReconnectInterval(30 * time.Second)

	c := &Client{
		topic:       topic,
		streamIDs:   streamIDs,
		states:      states,
		commandChan: cmdChan,
	}

	opts.OnConnect = c.onConnect
	opts.OnConnectionLost = c.onConnectionLost
	opts.SetWill(topic+"/availability", "offline", 0, true)

	c.client = mqtt.NewClient(opts)
	if token := c.client.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}

	return c, nil
}

func (c *Client) onConnect(client mqtt.Client) {
	log.Println("Connected to MQTT broker")

	client.Publish(c.topic+"/availability", 0, true, "online")

	for _, id := range c.streamIDs {
		subs := map[string]mqtt.MessageHandler{
			fmt.Sprintf("%s/%s/low_cut/set", c.topic, id):  c.cutHandler(id, "low_cut"),
			fmt.Sprintf("%s/%s/high_cut/set", c.topic, id): c.cutHandler(id, "high_cut"),
			fmt.Sprintf("%s/%s/channels/set", c.topic, id): c.channelsHandler(id),
			fmt.Sprintf("%s/%s/enabled/set", c.topic, id):  c.enabledHandler(id),
		}

		for topic, handler := range subs {
			if token := client.Subscribe(topic, 0, handler); token.Wait() && token.Error() != nil {
				log.Printf("Failed to subscribe to %s: %v", topic, token.Error())
			}
		}
	}

	c.PublishState()
}

func (c *Client) onConnectionLost(client mqtt.Client, err error) {
	log.Printf("MQTT connection lost: %v", err)
}

func (c *Client) cutHandler(streamID, param string) mqtt.MessageHandler {
	return func(client mqtt.Client, msg mqtt.Message) {
		v, err := strconv.ParseFloat(strings.TrimSpace(string(msg.Payload())), 64)
		if err != nil {
			return
		}
		c.sendCommand(Command{StreamID: streamID, Parameter: param, Value: v})
	}
}

// channelsHandler parses a channel mask payload: "all" selects every channel,
// otherwise a comma-separated list of local channel indices ("0,1,3").
// An empty payload clears the mask.
func (c *Client) channelsHandler(streamID string) mqtt.MessageHandler {
	return func(client mqtt.Client, msg mqtt.Message) {
		payload := strings.TrimSpace(string(msg.Payload()))

		if strings.EqualFold(payload, "all") {
			c.sendCommand(Command{StreamID: streamID, Parameter: "channels", Channels: nil})
			return
		}

		channels := []int{}
		if payload != "" {
			for _, part := range strings.Split(payload, ",") {
				ch, err := strconv.Atoi(strings.TrimSpace(part))
				if err != nil {
					return
				}
				channels = append(channels, ch)
			}
		}
		c.sendCommand(Command{StreamID: streamID, Parameter: "channels", Channels: channels})
	}
}

func (c *Client) enabledHandler(streamID string) mqtt.MessageHandler {
	return func(client mqtt.Client, msg mqtt.Message) {
		payload := strings.TrimSpace(string(msg.Payload()))
		c.sendCommand(Command{StreamID: streamID, Parameter: "enabled", Enabled: payload == "ON"})
	}
}

func (c *Client) sendCommand(cmd Command) {
	select {
	case c.commandChan <- cmd:
	default:
		log.Println("Command channel full")
	}
}

// PublishState publishes the retained state of every stream.
func (c *Client) PublishState() {
	for _, state := range c.states() {
		data, err := json.Marshal(state)
		if err != nil {
			log.Printf("Failed to marshal state for %s: %v", state.ID, err)
			continue
		}
		c.client.Publish(fmt.Sprintf("%s/%s/state", c.topic, state.ID), 0, true, data)
	}
}

func (c *Client) Close() {
	if c.client != nil {
		c.client.Publish(c.topic+"/availability", 0, true, "offline")
		c.client.Disconnect(250)
	}
}
