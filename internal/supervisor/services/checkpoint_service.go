// Linkpulse - URL Shortener with Click Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/linkpulse

package services

import (
	"context"
	"time"

	"github.com/tomtom215/linkpulse/internal/logging"
)

// DefaultCheckpointInterval is how often the store is checkpointed.
const DefaultCheckpointInterval = 5 * time.Minute

// Checkpointer flushes the store's write-ahead log. Drivers without one
// return nil.
type Checkpointer interface {
	Checkpoint(ctx context.Context) error
}

// CheckpointService checkpoints the store on a fixed interval. A failed
// checkpoint is logged and retried on the next tick; it never stops the
// service.
type CheckpointService struct {
	store    Checkpointer
	interval time.Duration
	name     string
}

// NewCheckpointService creates the service. A non-positive interval uses
// DefaultCheckpointInterval.
func NewCheckpointService(store Checkpointer, interval time.Duration) *CheckpointService {
	if interval <= 0 {
		interval = DefaultCheckpointInterval
	}
	return &CheckpointService{
		store:    store,
		interval: interval,
		name:     "db-checkpoint",
	}
}

// Serve implements suture.Service. A final checkpoint runs on shutdown.
func (c *CheckpointService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.checkpoint(ctx)
		case <-ctx.Done():
			c.checkpoint(context.WithoutCancel(ctx))
			return ctx.Err()
		}
	}
}

func (c *CheckpointService) checkpoint(ctx context.Context) {
	start := time.Now()
	if err := c.store.Checkpoint(ctx); err != nil {
		logging.Warn().Err(err).Str("service", c.name).Msg("Database checkpoint failed")
		return
	}
	logging.Debug().Str("service", c.name).Dur("duration", time.Since(start)).Msg("Database checkpoint completed")
}

// String implements fmt.Stringer.
func (c *CheckpointService) String() string {
	return c.name
}
