package dataset

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/talentwatch/internal/domain"
)

// Stats summarizes the currently loaded dataset.
type Stats struct {
	Records     int       `json:"records"`
	Agencies    int       `json:"agencies"`
	Categories  int       `json:"categories"`
	RefreshedAt time.Time `json:"refreshed_at"`
}

// Service holds the in-memory record snapshot the analytics handlers compute
// on. The snapshot is replaced wholesale on refresh; readers always see a
// consistent record set.
type Service struct {
	repo *Repository
	log  zerolog.Logger

	mu          sync.RWMutex
	records     []domain.JobRecord
	refreshedAt time.Time
}

// NewService creates the dataset service. Call Refresh before serving.
func NewService(repo *Repository, log zerolog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.With().Str("service", "dataset").Logger(),
	}
}

// Refresh reloads the snapshot from the repository.
func (s *Service) Refresh() error {
	records, err := s.repo.GetAll()
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.records = records
	s.refreshedAt = time.Now()
	s.mu.Unlock()

	s.log.Info().Int("records", len(records)).Msg("Dataset snapshot refreshed")
	return nil
}

// Records returns the current snapshot. The slice itself is shared read-only
// between callers; the analytics engine never mutates records.
func (s *Service) Records() []domain.JobRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records
}

// Stats computes summary counts over the current snapshot.
func (s *Service) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	agencies := make(map[string]bool)
	categories := make(map[string]bool)
	for i := range s.records {
		agencies[s.records[i].Agency] = true
		categories[s.records[i].Category] = true
	}
	return Stats{
		Records:     len(s.records),
		Agencies:    len(agencies),
		Categories:  len(categories),
		RefreshedAt: s.refreshedAt,
	}
}

// Import stores records and refreshes the snapshot. When replace is true the
// existing dataset is cleared first.
func (s *Service) Import(records []domain.JobRecord, replace bool) (int, error) {
	if replace {
		if err := s.repo.DeleteAll(); err != nil {
			return 0, err
		}
	}
	stored, err := s.repo.UpsertMany(records)
	if err != nil {
		return stored, err
	}
	if err := s.Refresh(); err != nil {
		return stored, err
	}
	return stored, nil
}
