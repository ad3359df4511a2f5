package mock

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/alexrudd2/midas/internal/midas"
	"github.com/alexrudd2/midas/internal/models"
)

// MockDetector is a simulated Midas used for demos and testing. It
// random-walks the readings on a ticker and occasionally raises and
// clears maintenance faults.
type MockDetector struct {
	mu      sync.RWMutex
	running bool

	concentration float64
	temperature   int
	flow          int
	cellLife      float64
	fault         models.Fault

	updateTicker *time.Ticker
	stopCh       chan struct{}
}

const (
	lowThreshold  = 2.0
	highThreshold = 5.0
)

var mockFaultCodes = []string{"m10", "m12", "m13", "m14"}

func New() midas.Detector {
	return &MockDetector{
		concentration: 0.2,
		temperature:   25,
		flow:          500,
		cellLife:      87.5,
		stopCh:        make(chan struct{}),
	}
}

func (m *MockDetector) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return nil
	}
	m.updateTicker = time.NewTicker(1 * time.Second)
	m.running = true
	go func() {
		for {
			select {
			case <-m.updateTicker.C:
				m.step()
			case <-ctx.Done():
				return
			case <-m.stopCh:
				return
			}
		}
	}()
	return nil
}

// step random-walks the simulated readings.
func (m *MockDetector) step() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.concentration += (rand.Float64() - 0.45) * 0.5
	if m.concentration < 0 {
		m.concentration = 0
	}
	if m.concentration > 8 {
		m.concentration = 8
	}

	m.temperature += rand.Intn(3) - 1
	if m.temperature < 15 {
		m.temperature = 15
	}
	if m.temperature > 40 {
		m.temperature = 40
	}

	m.flow += rand.Intn(21) - 10
	if m.flow < 450 {
		m.flow = 450
	}
	if m.flow > 550 {
		m.flow = 550
	}

	m.cellLife -= rand.Float64() * 0.01

	// randomly raise or clear a maintenance fault
	if m.fault.Status == models.FaultNone && rand.Float32() < 0.05 {
		m.fault = models.Fault{
			Status: models.FaultMaintenance,
			Code:   mockFaultCodes[rand.Intn(len(mockFaultCodes))],
		}
	} else if m.fault.Status != models.FaultNone && rand.Float32() < 0.1 {
		m.fault = models.Fault{}
	}
}

func (m *MockDetector) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running {
		return
	}
	m.updateTicker.Stop()
	close(m.stopCh)
	m.running = false
}

func (m *MockDetector) IsConnected() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.running
}

func (m *MockDetector) Read(ctx context.Context) (models.Status, error) {
	if err := ctx.Err(); err != nil {
		return models.Status{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.running {
		return models.Status{}, fmt.Errorf("mock detector not started")
	}

	status := models.Status{
		Address:            "mock",
		Connected:          true,
		State:              models.StateMonitoring,
		Alarm:              alarmFor(m.concentration),
		Fault:              m.fault,
		Concentration:      m.concentration,
		Unit:               models.UnitPPM,
		Temperature:        m.temperature,
		Flow:               m.flow,
		CellLife:           m.cellLife,
		LowAlarmThreshold:  lowThreshold,
		HighAlarmThreshold: highThreshold,
	}
	status.Normalize()
	return status, nil
}

func alarmFor(concentration float64) models.AlarmLevel {
	switch {
	case concentration >= highThreshold:
		return models.AlarmHigh
	case concentration >= lowThreshold:
		return models.AlarmLow
	default:
		return models.AlarmNone
	}
}
