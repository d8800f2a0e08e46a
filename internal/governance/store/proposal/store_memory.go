package proposal

import (
	"context"
	"sync"

	"github.com/realassetcoin-RAC/ignite-rewards/internal/governance/models"
	id "github.com/realassetcoin-RAC/ignite-rewards/pkg/domain"
	"github.com/realassetcoin-RAC/ignite-rewards/pkg/platform/sentinel"
)

type proposalKey struct {
	domain     models.Domain
	proposalID id.ProposalID
}

// InMemoryStore keeps proposals behind one mutex so tally increments and
// status transitions are indivisible.
type InMemoryStore struct {
	mu        sync.RWMutex
	proposals map[proposalKey]*models.Proposal
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{proposals: make(map[proposalKey]*models.Proposal)}
}

// Create persists a new proposal. Returns sentinel.ErrConflict if the
// (domain, id) slot is already taken — a change escalates exactly once.
func (s *InMemoryStore) Create(_ context.Context, p *models.Proposal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := proposalKey{p.Domain, p.ID}
	if _, exists := s.proposals[key]; exists {
		return sentinel.ErrConflict
	}
	s.proposals[key] = p.Clone()
	return nil
}

// FindByID returns a copy of the proposal or sentinel.ErrNotFound.
func (s *InMemoryStore) FindByID(_ context.Context, domain models.Domain, proposalID id.ProposalID) (*models.Proposal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.proposals[proposalKey{domain, proposalID}]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return p.Clone(), nil
}

// Execute runs validate-then-mutate atomically against one proposal. Vote
// tally increments go through here, so no update is ever lost.
func (s *InMemoryStore) Execute(ctx context.Context, domain models.Domain, proposalID id.ProposalID, validate func(context.Context, *models.Proposal) error, mutate func(*models.Proposal)) (*models.Proposal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.proposals[proposalKey{domain, proposalID}]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if err := validate(ctx, p.Clone()); err != nil {
		return nil, err
	}
	mutate(p)
	return p.Clone(), nil
}
