package dataset

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Scheduler refreshes the dataset snapshot on a cron schedule, optionally
// pulling a fresh export from S3 first.
type Scheduler struct {
	cron    *cron.Cron
	service *Service
	source  *S3Source // May be nil; refresh then only reloads from the store
	log     zerolog.Logger
}

// NewScheduler creates the refresh scheduler. spec uses the standard
// five-field cron syntax ("0 */6 * * *" = every six hours).
func NewScheduler(service *Service, source *S3Source, spec string, log zerolog.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:    cron.New(),
		service: service,
		source:  source,
		log:     log.With().Str("component", "dataset_scheduler").Logger(),
	}
	if _, err := s.cron.AddFunc(spec, s.refresh); err != nil {
		return nil, fmt.Errorf("invalid refresh schedule %q: %w", spec, err)
	}
	return s, nil
}

// Start begins running scheduled refreshes.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Msg("Dataset refresh scheduler started")
}

// Stop halts the scheduler and waits for a running refresh to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info().Msg("Dataset refresh scheduler stopped")
}

func (s *Scheduler) refresh() {
	start := time.Now()
	if s.source != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		stored, err := s.source.Sync(ctx, s.service)
		if err != nil {
			s.log.Error().Err(err).Msg("Scheduled S3 sync failed, keeping current dataset")
			return
		}
		s.log.Info().Int("stored", stored).Dur("elapsed", time.Since(start)).Msg("Scheduled S3 sync completed")
		return
	}
	if err := s.service.Refresh(); err != nil {
		s.log.Error().Err(err).Msg("Scheduled refresh failed")
		return
	}
	s.log.Info().Dur("elapsed", time.Since(start)).Msg("Scheduled refresh completed")
}
