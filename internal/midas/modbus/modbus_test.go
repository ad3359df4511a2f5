package modbus

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadNotConnected(t *testing.T) {
	c := New(Config{Address: "192.0.2.1"}) // never started

	_, err := c.Read(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotConnected)
	assert.Contains(t, err.Error(), "192.0.2.1:502")
}

func TestReadCancelledContext(t *testing.T) {
	c := New(Config{Address: "192.0.2.1"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Read(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStartBadAddress(t *testing.T) {
	c := New(Config{Address: "192.0.2.1:1"})
	defer c.Stop()

	// TEST-NET address; connect fails fast and the error names the target
	err := c.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "192.0.2.1:1")
	assert.False(t, c.IsConnected())
}
