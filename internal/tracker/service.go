// Package tracker implements the study tracker's operations on top of a
// store: input validation, checklist generation, derived-state upkeep
// and change notification.
package tracker

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/nhle/studytrack/internal/events"
	"github.com/nhle/studytrack/internal/model"
	"github.com/nhle/studytrack/internal/store"
)

// Service is the single entry point used by the TUI and the CLI. Every
// mutation that commits publishes one event on the bus; failed
// mutations publish nothing.
type Service struct {
	store store.Store
	bus   *events.Bus
	log   zerolog.Logger
	now   func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithLogger sets the service logger. The default discards output.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) { s.log = l.With().Str("component", "tracker").Logger() }
}

// WithClock overrides the time source used for urgency checks.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService wires a store and a bus. bus may be nil.
func NewService(st store.Store, bus *events.Bus, opts ...Option) *Service {
	s := &Service{
		store: st,
		bus:   bus,
		log:   zerolog.Nop(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Bus returns the bus the service publishes on.
func (s *Service) Bus() *events.Bus { return s.bus }

// Now returns the service clock's current time.
func (s *Service) Now() time.Time { return s.now() }

// Seed writes bootstrap data into an empty database.
func (s *Service) Seed(ctx context.Context, cfg model.SeedConfig) (store.SeedResult, error) {
	res, err := s.store.Seed(ctx, cfg)
	if err != nil {
		s.log.Error().Err(err).Msg("seeding failed")
		return res, err
	}
	if res.Categories > 0 || res.Tasks > 0 {
		s.log.Info().
			Int("categories", res.Categories).
			Int("tasks", res.Tasks).
			Msg("database seeded")
		s.bus.PublishStoreSeeded(res.Categories, res.Tasks)
	}
	return res, nil
}
