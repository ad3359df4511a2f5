package midas

import (
	"context"

	"github.com/alexrudd2/midas/internal/models"
)

// Detector abstracts access to a Midas gas detector.
// It handles connecting, reconnecting, and reading the current state.
type Detector interface {
	Start(ctx context.Context) error
	Stop()
	Read(ctx context.Context) (models.Status, error)
	IsConnected() bool
}
