package bridge

import (
	"errors"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// MQTTConfig holds the broker connection parameters.
type MQTTConfig struct {
	BrokerURL string
	ClientID  string
	Username  string
	Password  string
}

type mqttPublisher struct {
	client mqtt.Client
}

// NewMQTTPublisher connects to the broker and returns a Publisher
// backed by a paho client.
func NewMQTTPublisher(cfg MQTTConfig) (Publisher, error) {
	if cfg.BrokerURL == "" {
		return nil, errors.New("missing broker URL")
	}
	if cfg.ClientID == "" {
		cfg.ClientID = "midas-bridge"
	}

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.BrokerURL).
		SetClientID(cfg.ClientID).
		SetKeepAlive(30 * time.Second).
		SetConnectTimeout(5 * time.Second).
		SetPingTimeout(3 * time.Second).
		SetOrderMatters(false)

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}

	client := mqtt.NewClient(opts)
	t := client.Connect()
	if ok := t.WaitTimeout(10 * time.Second); !ok {
		return nil, errors.New("timed out connecting to broker")
	}
	if err := t.Error(); err != nil {
		return nil, err
	}
	return &mqttPublisher{client: client}, nil
}

func (p *mqttPublisher) Publish(topic string, payload []byte, qos byte, retain bool) error {
	t := p.client.Publish(topic, qos, retain, payload)
	t.Wait()
	return t.Error()
}

func (p *mqttPublisher) Close() {
	if p.client.IsConnectionOpen() {
		p.client.Disconnect(250)
	}
}
