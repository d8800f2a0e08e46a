package vote

import (
	"context"
	"sort"
	"sync"

	"github.com/realassetcoin-RAC/ignite-rewards/internal/governance/models"
	id "github.com/realassetcoin-RAC/ignite-rewards/pkg/domain"
	"github.com/realassetcoin-RAC/ignite-rewards/pkg/platform/sentinel"
)

type voteKey struct {
	domain     models.Domain
	proposalID id.ProposalID
	voter      id.AccountID
}

// InMemoryStore is the voting ledger: one record per (proposal, voter) pair.
// The map key enforces the uniqueness invariant.
type InMemoryStore struct {
	mu    sync.RWMutex
	votes map[voteKey]models.VoteRecord
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{votes: make(map[voteKey]models.VoteRecord)}
}

// Create persists a vote record. Returns sentinel.ErrConflict when the voter
// already has a record for the proposal — double voting is a hard error.
func (s *InMemoryStore) Create(_ context.Context, rec models.VoteRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := voteKey{rec.Domain, rec.ProposalID, rec.Voter}
	if _, exists := s.votes[key]; exists {
		return sentinel.ErrConflict
	}
	s.votes[key] = rec
	return nil
}

// Find returns the voter's record for a proposal, or sentinel.ErrNotFound.
func (s *InMemoryStore) Find(_ context.Context, domain models.Domain, proposalID id.ProposalID, voter id.AccountID) (models.VoteRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.votes[voteKey{domain, proposalID, voter}]
	if !ok {
		return models.VoteRecord{}, sentinel.ErrNotFound
	}
	return rec, nil
}

// ListByProposal returns all votes on a proposal ordered by cast time.
func (s *InMemoryStore) ListByProposal(_ context.Context, domain models.Domain, proposalID id.ProposalID) ([]models.VoteRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.VoteRecord
	for key, rec := range s.votes {
		if key.domain == domain && key.proposalID == proposalID {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CastAt.Before(out[j].CastAt) })
	return out, nil
}
