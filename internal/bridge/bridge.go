package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/alexrudd2/midas/internal/midas"
	"github.com/alexrudd2/midas/internal/models"
	"github.com/alexrudd2/midas/pkg/log"

	"go.uber.org/zap"
)

// Publisher is the broker surface the bridge needs. The real
// implementation wraps a paho MQTT client.
type Publisher interface {
	Publish(topic string, payload []byte, qos byte, retain bool) error
	Close()
}

// Config controls the publishing loop.
type Config struct {
	DeviceID string
	Model    string
	Interval time.Duration
}

// Meta is the retained announcement published when the bridge starts.
type Meta struct {
	DeviceID string   `json:"device_id"`
	Model    string   `json:"model,omitempty"`
	Caps     []string `json:"caps"`
}

type stateDoc struct {
	Ts int64 `json:"ts"`
	models.Status
}

// Bridge polls a detector and publishes status documents to MQTT.
type Bridge struct {
	detector midas.Detector
	pub      Publisher
	cfg      Config
}

func New(detector midas.Detector, pub Publisher, cfg Config) *Bridge {
	if cfg.DeviceID == "" {
		cfg.DeviceID = "midas"
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 10 * time.Second
	}
	return &Bridge{detector: detector, pub: pub, cfg: cfg}
}

// Run announces the device and then publishes a state document every
// interval until the context is cancelled.
func (b *Bridge) Run(ctx context.Context) error {
	if err := b.detector.Start(ctx); err != nil {
		return err
	}
	defer b.detector.Stop()
	defer b.pub.Close()

	if err := b.announce(); err != nil {
		log.Warn("meta publish failed", zap.Error(err))
	}

	ticker := time.NewTicker(b.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := b.PublishOnce(ctx, time.Now().Unix()); err != nil {
				log.Warn("state publish failed", zap.Error(err))
			}
		}
	}
}

// PublishOnce reads the detector and publishes one state document.
func (b *Bridge) PublishOnce(ctx context.Context, now int64) error {
	status, err := b.detector.Read(ctx)
	if err != nil {
		return fmt.Errorf("read detector: %w", err)
	}

	payload, err := json.Marshal(stateDoc{Ts: now, Status: status})
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	return b.pub.Publish(b.topic("state"), payload, 1, false)
}

func (b *Bridge) announce() error {
	payload, err := json.Marshal(Meta{
		DeviceID: b.cfg.DeviceID,
		Model:    b.cfg.Model,
		Caps:     []string{"sensor.gas", "alarm", "fault"},
	})
	if err != nil {
		return err
	}
	return b.pub.Publish(b.topic("meta"), payload, 1, true)
}

func (b *Bridge) topic(suffix string) string {
	return "midas/" + b.cfg.DeviceID + "/" + suffix
}
