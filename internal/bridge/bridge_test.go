package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alexrudd2/midas/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDetector struct {
	status  models.Status
	readErr error
	started bool
	stopped bool
}

func (f *fakeDetector) Start(ctx context.Context) error { f.started = true; return nil }
func (f *fakeDetector) Stop()                           { f.stopped = true }
func (f *fakeDetector) IsConnected() bool               { return f.started && !f.stopped }

func (f *fakeDetector) Read(ctx context.Context) (models.Status, error) {
	if f.readErr != nil {
		return models.Status{}, f.readErr
	}
	return f.status, nil
}

type published struct {
	topic   string
	payload []byte
	qos     byte
	retain  bool
}

type fakePublisher struct {
	msgs   []published
	closed bool
}

func (f *fakePublisher) Publish(topic string, payload []byte, qos byte, retain bool) error {
	f.msgs = append(f.msgs, published{topic: topic, payload: payload, qos: qos, retain: retain})
	return nil
}

func (f *fakePublisher) Close() { f.closed = true }

func detectorStatus() models.Status {
	s := models.Status{
		Address:       "192.168.1.100:502",
		Connected:     true,
		State:         models.StateMonitoring,
		Alarm:         models.AlarmNone,
		Concentration: 0.25,
		Unit:          models.UnitPPM,
		Temperature:   25,
		Flow:          500,
		CellLife:      87.5,
	}
	s.Normalize()
	return s
}

func TestPublishOnce(t *testing.T) {
	det := &fakeDetector{status: detectorStatus()}
	pub := &fakePublisher{}
	b := New(det, pub, Config{DeviceID: "lab-a"})

	require.NoError(t, b.PublishOnce(context.Background(), 1700000000))
	require.Len(t, pub.msgs, 1)

	msg := pub.msgs[0]
	assert.Equal(t, "midas/lab-a/state", msg.topic)
	assert.Equal(t, byte(1), msg.qos)
	assert.False(t, msg.retain)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(msg.payload, &doc))
	assert.EqualValues(t, 1700000000, doc["ts"])
	assert.Equal(t, "Monitoring", doc["state"])
	assert.EqualValues(t, 0.25, doc["concentration"])
	assert.Equal(t, "ppm", doc["units"])
}

func TestPublishOnceReadError(t *testing.T) {
	det := &fakeDetector{readErr: errors.New("not connected")}
	pub := &fakePublisher{}
	b := New(det, pub, Config{DeviceID: "lab-a"})

	err := b.PublishOnce(context.Background(), 0)
	assert.Error(t, err)
	assert.Empty(t, pub.msgs)
}

func TestRunAnnouncesMeta(t *testing.T) {
	det := &fakeDetector{status: detectorStatus()}
	pub := &fakePublisher{}
	b := New(det, pub, Config{DeviceID: "lab-a", Model: "Midas-E", Interval: time.Minute})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, b.Run(ctx))

	assert.True(t, det.started)
	assert.True(t, det.stopped)
	assert.True(t, pub.closed)

	require.Len(t, pub.msgs, 1)
	msg := pub.msgs[0]
	assert.Equal(t, "midas/lab-a/meta", msg.topic)
	assert.True(t, msg.retain)

	var meta Meta
	require.NoError(t, json.Unmarshal(msg.payload, &meta))
	assert.Equal(t, "lab-a", meta.DeviceID)
	assert.Equal(t, "Midas-E", meta.Model)
	assert.Contains(t, meta.Caps, "sensor.gas")
}

func TestConfigDefaults(t *testing.T) {
	b := New(&fakeDetector{}, &fakePublisher{}, Config{})
	assert.Equal(t, "midas", b.cfg.DeviceID)
	assert.Equal(t, 10*time.Second, b.cfg.Interval)
}
