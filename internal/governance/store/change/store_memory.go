package change

import (
	"context"
	"sort"
	"sync"

	"github.com/realassetcoin-RAC/ignite-rewards/internal/governance/models"
	id "github.com/realassetcoin-RAC/ignite-rewards/pkg/domain"
	"github.com/realassetcoin-RAC/ignite-rewards/pkg/platform/sentinel"
)

type recordKey struct {
	domain   models.Domain
	changeID id.ChangeID
}

// InMemoryStore keeps change records and per-domain counters behind one
// mutex, so id assignment and every status transition are indivisible.
// Production deployments use PostgresStore; this store backs dev mode and
// unit tests.
type InMemoryStore struct {
	mu       sync.RWMutex
	records  map[recordKey]*models.ChangeRecord
	counters map[models.Domain]uint64
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		records:  make(map[recordKey]*models.ChangeRecord),
		counters: make(map[models.Domain]uint64),
	}
}

// Create assigns id = counter+1, increments the domain counter, and persists
// the record, all under one lock so concurrent proposers never collide.
func (s *InMemoryStore) Create(_ context.Context, rec *models.ChangeRecord) (*models.ChangeRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.counters[rec.Domain] + 1
	stored := rec.Clone()
	stored.ID = id.ChangeID(next)

	s.records[recordKey{rec.Domain, stored.ID}] = stored
	s.counters[rec.Domain] = next

	return stored.Clone(), nil
}

// FindByID returns a copy of the record or sentinel.ErrNotFound.
func (s *InMemoryStore) FindByID(_ context.Context, domain models.Domain, changeID id.ChangeID) (*models.ChangeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[recordKey{domain, changeID}]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return rec.Clone(), nil
}

// Execute runs validate-then-mutate atomically against one record. The
// callbacks run inside the store's critical section; validate returning an
// error aborts with no mutation. Concurrent callers racing on the same
// transition see exactly one winner.
func (s *InMemoryStore) Execute(ctx context.Context, domain models.Domain, changeID id.ChangeID, validate func(context.Context, *models.ChangeRecord) error, mutate func(*models.ChangeRecord)) (*models.ChangeRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[recordKey{domain, changeID}]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if err := validate(ctx, rec.Clone()); err != nil {
		return nil, err
	}
	mutate(rec)
	return rec.Clone(), nil
}

// ListByStatus returns the domain's records ordered by id, optionally
// filtered by status. nil status lists everything.
func (s *InMemoryStore) ListByStatus(_ context.Context, domain models.Domain, status *models.ChangeStatus) ([]*models.ChangeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.ChangeRecord
	for key, rec := range s.records {
		if key.domain != domain {
			continue
		}
		if status != nil && rec.Status != *status {
			continue
		}
		out = append(out, rec.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Count returns the domain's total_changes counter (audit trail length).
func (s *InMemoryStore) Count(_ context.Context, domain models.Domain) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.counters[domain], nil
}
