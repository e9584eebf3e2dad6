// Package sinks forwards device updates from the registry to external
// systems: Domoticz over MQTT and InfluxDB.
package sinks

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/Uranury/dhtplug/config"
	"github.com/Uranury/dhtplug/host"
)

var ErrPublishTimeout = errors.New("publish_timeout")

// domoticzMessage is the payload Domoticz accepts on domoticz/in.
type domoticzMessage struct {
	Idx     int    `json:"idx"`
	NValue  int    `json:"nvalue"`
	SValue  string `json:"svalue"`
	Battery int    `json:"Battery,omitempty"`
}

type publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

type MQTT struct {
	client  publisher
	close   func()
	topic   string
	timeout time.Duration
}

// NewMQTT connects to the broker in cfg.
func NewMQTT(cfg config.MQTT) (*MQTT, error) {
	clientID := cfg.ClientID
	if clientID == "" {
		clientID = "dhtplug-" + uuid.NewString()[:8]
	}
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectTimeout(10 * time.Second)
	c := mqtt.NewClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect %s: %w", cfg.Broker, token.Error())
	}
	m := newMQTT(c, cfg.Topic)
	m.close = func() { c.Disconnect(250) }
	return m, nil
}

func newMQTT(c publisher, topic string) *MQTT {
	return &MQTT{client: c, topic: topic, timeout: 5 * time.Second}
}

func (m *MQTT) Name() string { return "mqtt" }

// Publish sends d to Domoticz. Devices without a Domoticz idx are skipped.
func (m *MQTT) Publish(d host.Device) error {
	if d.ID == 0 {
		return nil
	}
	payload, err := json.Marshal(domoticzMessage{
		Idx:     d.ID,
		NValue:  d.NValue,
		SValue:  d.SValue,
		Battery: d.BatteryLevel,
	})
	if err != nil {
		return err
	}

	token := m.client.Publish(m.topic, 0, false, payload)
	if !token.WaitTimeout(m.timeout) {
		return fmt.Errorf("%w: %s", ErrPublishTimeout, m.topic)
	}
	return token.Error()
}

func (m *MQTT) Close() {
	if m.close != nil {
		m.close()
	}
}
