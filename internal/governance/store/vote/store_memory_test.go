package vote

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/realassetcoin-RAC/ignite-rewards/internal/governance/models"
	id "github.com/realassetcoin-RAC/ignite-rewards/pkg/domain"
	"github.com/realassetcoin-RAC/ignite-rewards/pkg/platform/sentinel"
)

type InMemoryVoteStoreSuite struct {
	suite.Suite
	store *InMemoryStore
	now   time.Time
}

func (s *InMemoryVoteStoreSuite) SetupTest() {
	s.store = NewInMemoryStore()
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

func TestInMemoryVoteStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryVoteStoreSuite))
}

func (s *InMemoryVoteStoreSuite) newVote(proposalID id.ProposalID, voter id.AccountID, weight uint64, castAt time.Time) models.VoteRecord {
	return models.VoteRecord{
		Domain:     models.DomainLoyalty,
		ProposalID: proposalID,
		Voter:      voter,
		Direction:  models.VoteFor,
		Weight:     weight,
		CastAt:     castAt,
	}
}

func (s *InMemoryVoteStoreSuite) TestOneVotePerVoter() {
	s.Run("stores and retrieves a vote", func() {
		voter := id.AccountID(uuid.New())
		rec := s.newVote(id.ProposalID(1), voter, 100, s.now)
		s.Require().NoError(s.store.Create(context.Background(), rec))

		found, err := s.store.Find(context.Background(), models.DomainLoyalty, id.ProposalID(1), voter)
		s.Require().NoError(err)
		s.Equal(rec, found)
	})

	s.Run("returns ErrConflict on a second vote by the same voter", func() {
		voter := id.AccountID(uuid.New())
		s.Require().NoError(s.store.Create(context.Background(), s.newVote(id.ProposalID(2), voter, 100, s.now)))

		against := s.newVote(id.ProposalID(2), voter, 50, s.now.Add(time.Minute))
		against.Direction = models.VoteAgainst
		err := s.store.Create(context.Background(), against)
		s.Require().ErrorIs(err, sentinel.ErrConflict)
	})

	s.Run("same voter may vote on different proposals", func() {
		voter := id.AccountID(uuid.New())
		s.Require().NoError(s.store.Create(context.Background(), s.newVote(id.ProposalID(3), voter, 10, s.now)))
		s.Require().NoError(s.store.Create(context.Background(), s.newVote(id.ProposalID(4), voter, 10, s.now)))
	})

	s.Run("concurrent double-vote attempts admit exactly one record", func() {
		voter := id.AccountID(uuid.New())
		const n = 20
		var wg sync.WaitGroup
		errs := make(chan error, n)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				errs <- s.store.Create(context.Background(), s.newVote(id.ProposalID(5), voter, 1, s.now))
			}()
		}
		wg.Wait()
		close(errs)

		var wins int
		for err := range errs {
			if err == nil {
				wins++
			}
		}
		s.Equal(1, wins)
	})

	s.Run("returns ErrNotFound when the voter has no record", func() {
		_, err := s.store.Find(context.Background(), models.DomainLoyalty, id.ProposalID(1), id.AccountID(uuid.New()))
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *InMemoryVoteStoreSuite) TestListByProposal() {
	s.Run("lists votes ordered by cast time", func() {
		first := s.newVote(id.ProposalID(9), id.AccountID(uuid.New()), 10, s.now)
		second := s.newVote(id.ProposalID(9), id.AccountID(uuid.New()), 20, s.now.Add(time.Minute))
		third := s.newVote(id.ProposalID(9), id.AccountID(uuid.New()), 30, s.now.Add(2*time.Minute))

		// Insert out of order.
		s.Require().NoError(s.store.Create(context.Background(), third))
		s.Require().NoError(s.store.Create(context.Background(), first))
		s.Require().NoError(s.store.Create(context.Background(), second))

		listed, err := s.store.ListByProposal(context.Background(), models.DomainLoyalty, id.ProposalID(9))
		s.Require().NoError(err)
		s.Require().Len(listed, 3)
		s.Equal(uint64(10), listed[0].Weight)
		s.Equal(uint64(20), listed[1].Weight)
		s.Equal(uint64(30), listed[2].Weight)
	})

	s.Run("other proposals' votes are excluded", func() {
		s.Require().NoError(s.store.Create(context.Background(), s.newVote(id.ProposalID(10), id.AccountID(uuid.New()), 1, s.now)))
		s.Require().NoError(s.store.Create(context.Background(), s.newVote(id.ProposalID(11), id.AccountID(uuid.New()), 1, s.now)))

		listed, err := s.store.ListByProposal(context.Background(), models.DomainLoyalty, id.ProposalID(10))
		s.Require().NoError(err)
		s.Len(listed, 1)
	})

	s.Run("empty proposal yields empty list", func() {
		listed, err := s.store.ListByProposal(context.Background(), models.DomainLoyalty, id.ProposalID(999))
		s.Require().NoError(err)
		s.Empty(listed)
	})
}
