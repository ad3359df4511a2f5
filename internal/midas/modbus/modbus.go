package modbus

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/alexrudd2/midas/internal/midas"
	"github.com/alexrudd2/midas/internal/models"
	"github.com/alexrudd2/midas/pkg/log"

	"github.com/goburrow/modbus"
	"go.uber.org/zap"
)

// maxRegistersPerRead is the largest register count a single Modbus
// request may carry; the protocol caps responses at 250 bytes.
const maxRegistersPerRead = 124

const (
	// DefaultPort is the Modbus/TCP port the Midas listens on.
	DefaultPort = 502
	// DefaultUnitID is the factory slave address.
	DefaultUnitID = 1
	// DefaultTimeout bounds both the initial connect and each request.
	DefaultTimeout = time.Second

	maxBackoff = 30 * time.Second
)

// ErrNotConnected is returned for reads attempted while the TCP
// connection is down. The reconnect loop keeps retrying in the
// background.
var ErrNotConnected = errors.New("not connected to Midas")

// Config holds the connection parameters for a detector.
type Config struct {
	Address string // host or host:port; DefaultPort is appended if missing
	UnitID  byte
	Timeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.UnitID == 0 {
		c.UnitID = DefaultUnitID
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if _, _, err := net.SplitHostPort(c.Address); err != nil {
		c.Address = net.JoinHostPort(c.Address, strconv.Itoa(DefaultPort))
	}
	return c
}

// Client implements midas.Detector over Modbus/TCP.
//
// The Midas ignores requests received while it is processing another,
// so every transaction is serialized through a single mutex. This
// assumes one client instance per detector.
type Client struct {
	cfg     Config
	handler *modbus.TCPClientHandler
	api     modbus.Client

	reqMu sync.Mutex // one in-flight Modbus transaction

	mu        sync.RWMutex
	connected bool
	running   bool

	stopCh   chan struct{}
	stopOnce sync.Once
}

// New creates a detector client for the given address. No connection is
// attempted until Start.
func New(cfg Config) *Client {
	cfg = cfg.withDefaults()

	handler := modbus.NewTCPClientHandler(cfg.Address)
	handler.Timeout = cfg.Timeout
	handler.SlaveId = cfg.UnitID

	return &Client{
		cfg:     cfg,
		handler: handler,
		api:     modbus.NewClient(handler),
		stopCh:  make(chan struct{}),
	}
}

// Start connects to the detector and spawns the reconnect loop. The
// initial connect failure is returned so callers can fail fast on a bad
// address; the loop still takes over retrying afterwards.
func (c *Client) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return nil
	}
	c.running = true
	c.mu.Unlock()

	err := c.connect()
	go c.run(ctx)
	if err != nil {
		return fmt.Errorf("could not connect to %q: %w", c.cfg.Address, err)
	}
	return nil
}

// Stop closes the TCP connection and halts the reconnect loop.
func (c *Client) Stop() {
	c.stopOnce.Do(func() {
		close(c.stopCh)
	})
	c.reqMu.Lock()
	defer c.reqMu.Unlock()
	c.handler.Close()
	c.setConnected(false)
	c.mu.Lock()
	c.running = false
	c.mu.Unlock()
}

func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// Read fetches the status register block and decodes it.
func (c *Client) Read(ctx context.Context) (models.Status, error) {
	if err := ctx.Err(); err != nil {
		return models.Status{}, err
	}
	if !c.IsConnected() {
		return models.Status{}, fmt.Errorf("%w at %q", ErrNotConnected, c.cfg.Address)
	}

	regs, err := c.readRegisters(midas.StatusBlockStart, midas.StatusBlockLength)
	if err != nil {
		c.setConnected(false)
		return models.Status{}, fmt.Errorf("%w at %q: %v", ErrNotConnected, c.cfg.Address, err)
	}

	status, err := decodeStatus(c.cfg.Address, regs)
	if err != nil {
		return models.Status{}, err
	}
	return status, nil
}

// readRegisters reads count holding registers starting at address,
// splitting requests that exceed the protocol's response ceiling.
func (c *Client) readRegisters(address, count uint16) ([]uint16, error) {
	registers := make([]uint16, 0, count)
	for _, span := range readSpans(address, count) {
		c.reqMu.Lock()
		raw, err := c.api.ReadHoldingRegisters(span.address, span.count)
		c.reqMu.Unlock()
		if err != nil {
			return nil, err
		}
		words, err := wordsFromBytes(raw, span.count)
		if err != nil {
			return nil, err
		}
		registers = append(registers, words...)
	}
	return registers, nil
}

type span struct {
	address uint16
	count   uint16
}

// readSpans splits a register range into request-sized chunks.
func readSpans(address, count uint16) []span {
	var spans []span
	for count > maxRegistersPerRead {
		spans = append(spans, span{address: address, count: maxRegistersPerRead})
		address += maxRegistersPerRead
		count -= maxRegistersPerRead
	}
	return append(spans, span{address: address, count: count})
}

func wordsFromBytes(raw []byte, count uint16) ([]uint16, error) {
	if len(raw) < int(count)*2 {
		return nil, fmt.Errorf("short response: %d bytes for %d registers", len(raw), count)
	}
	words := make([]uint16, count)
	for i := range words {
		words[i] = uint16(raw[2*i])<<8 | uint16(raw[2*i+1])
	}
	return words, nil
}

func (c *Client) connect() error {
	c.reqMu.Lock()
	defer c.reqMu.Unlock()
	if err := c.handler.Connect(); err != nil {
		return err
	}
	c.setConnected(true)
	return nil
}

// run redials with exponential backoff whenever the connection drops.
func (c *Client) run(ctx context.Context) {
	backoff := time.Second
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.stopCh:
			return
		default:
		}

		if c.IsConnected() {
			backoff = time.Second
			select {
			case <-ctx.Done():
				return
			case <-c.stopCh:
				return
			case <-time.After(time.Second):
			}
			continue
		}

		if err := c.connect(); err != nil {
			log.Warn("reconnect failed",
				zap.String("address", c.cfg.Address),
				zap.Duration("backoff", backoff),
				zap.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-c.stopCh:
				return
			case <-time.After(backoff):
			}
			backoff *= 2
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
			continue
		}
		log.Info("reconnected to detector", zap.String("address", c.cfg.Address))
	}
}

func (c *Client) setConnected(v bool) {
	c.mu.Lock()
	c.connected = v
	c.mu.Unlock()
}
