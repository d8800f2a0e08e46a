package change

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

type InMemoryChangeStoreSuite struct {
	suite.Suite
	store *InMemoryStore
	now   time.Time
}

func (s *InMemoryChangeStoreSuite) SetupTest() {
	s.store = NewInMemoryStore()
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

func TestInMemoryChangeStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryChangeStoreSuite))
}

func (s *InMemoryChangeStoreSuite) newRecord(domain models.Domain, changeType models.ChangeType) *models.ChangeRecord {
	rec, err := models.NewChangeRecord(domain, changeType,
		"otp_validity_seconds", "300", "600", "extend OTP window for slow carriers",
		id.AccountID(uuid.New()), s.now)
	s.Require().NoError(err)
	return rec
}

func (s *InMemoryChangeStoreSuite) TestCreateAssignsSequentialIDs() {
	s.Run("ids start at 1 and increment per domain", func() {
		first, err := s.store.Create(context.Background(), s.newRecord(models.DomainLoyalty, models.ChangeTypeSMSOTPSettings))
		s.Require().NoError(err)
		s.Equal(id.ChangeID(1), first.ID)

		second, err := s.store.Create(context.Background(), s.newRecord(models.DomainLoyalty, models.ChangeTypeSMSOTPSettings))
		s.Require().NoError(err)
		s.Equal(id.ChangeID(2), second.ID)
	})

	s.Run("counters are independent across domains", func() {
		store := NewInMemoryStore()
		_, err := store.Create(context.Background(), s.newRecord(models.DomainLoyalty, models.ChangeTypeSMSOTPSettings))
		s.Require().NoError(err)

		merchant, err := store.Create(context.Background(), s.newRecord(models.DomainMerchant, models.ChangeTypeSubscriptionLimits))
		s.Require().NoError(err)
		s.Equal(id.ChangeID(1), merchant.ID)

		count, err := store.Count(context.Background(), models.DomainMerchant)
		s.Require().NoError(err)
		s.Equal(uint64(1), count)
	})

	s.Run("concurrent creators never collide on an id", func() {
		store := NewInMemoryStore()
		const n = 50
		var wg sync.WaitGroup
		ids := make(chan id.ChangeID, n)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				rec, err := store.Create(context.Background(), s.newRecord(models.DomainLoyalty, models.ChangeTypeSMSOTPSettings))
				s.Require().NoError(err)
				ids <- rec.ID
			}()
		}
		wg.Wait()
		close(ids)

		seen := make(map[id.ChangeID]bool)
		for changeID := range ids {
			s.False(seen[changeID], "duplicate id %d", changeID)
			seen[changeID] = true
		}
		s.Len(seen, n)

		count, err := store.Count(context.Background(), models.DomainLoyalty)
		s.Require().NoError(err)
		s.Equal(uint64(n), count)
	})
}

func (s *InMemoryChangeStoreSuite) TestLookupBehavior() {
	s.Run("returns stored record by (domain, id)", func() {
		created, err := s.store.Create(context.Background(), s.newRecord(models.DomainLoyalty, models.ChangeTypeSMSOTPSettings))
		s.Require().NoError(err)

		found, err := s.store.FindByID(context.Background(), models.DomainLoyalty, created.ID)
		s.Require().NoError(err)
		s.Equal(created, found)
	})

	s.Run("same id in another domain is a different record", func() {
		created, err := s.store.Create(context.Background(), s.newRecord(models.DomainLoyalty, models.ChangeTypeSMSOTPSettings))
		s.Require().NoError(err)

		_, err = s.store.FindByID(context.Background(), models.DomainMerchant, created.ID)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("returns ErrNotFound for unknown id", func() {
		_, err := s.store.FindByID(context.Background(), models.DomainLoyalty, id.ChangeID(99))
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("returned record is a copy", func() {
		created, err := s.store.Create(context.Background(), s.newRecord(models.DomainLoyalty, models.ChangeTypeSMSOTPSettings))
		s.Require().NoError(err)

		created.Status = models.ChangeStatusApproved

		stored, err := s.store.FindByID(context.Background(), models.DomainLoyalty, created.ID)
		s.Require().NoError(err)
		s.Equal(models.ChangeStatusPending, stored.Status)
	})
}

func (s *InMemoryChangeStoreSuite) TestExecute() {
	s.Run("applies mutation when validate passes", func() {
		created, err := s.store.Create(context.Background(), s.newRecord(models.DomainLoyalty, models.ChangeTypeSMSOTPSettings))
		s.Require().NoError(err)

		proposalID := id.ProposalID(created.ID)
		updated, err := s.store.Execute(context.Background(), models.DomainLoyalty, created.ID,
			func(_ context.Context, rec *models.ChangeRecord) error { return rec.CanEscalate() },
			func(rec *models.ChangeRecord) { rec.ApplyEscalation(proposalID, s.now.Add(time.Minute)) },
		)
		s.Require().NoError(err)
		s.Equal(models.ChangeStatusDaoProposalCreated, updated.Status)
		s.Require().NotNil(updated.ProposalID)
		s.Equal(proposalID, *updated.ProposalID)
	})

	s.Run("validate failure leaves the record untouched", func() {
		created, err := s.store.Create(context.Background(), s.newRecord(models.DomainLoyalty, models.ChangeTypeSMSOTPSettings))
		s.Require().NoError(err)

		_, err = s.store.Execute(context.Background(), models.DomainLoyalty, created.ID,
			func(_ context.Context, rec *models.ChangeRecord) error { return rec.CanApprove() },
			func(rec *models.ChangeRecord) { rec.ApplyApproval(s.now) },
		)
		s.Require().Error(err)

		stored, err := s.store.FindByID(context.Background(), models.DomainLoyalty, created.ID)
		s.Require().NoError(err)
		s.Equal(models.ChangeStatusPending, stored.Status)
	})

	s.Run("returns ErrNotFound for unknown id", func() {
		_, err := s.store.Execute(context.Background(), models.DomainLoyalty, id.ChangeID(404),
			func(context.Context, *models.ChangeRecord) error { return nil },
			func(*models.ChangeRecord) {},
		)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("concurrent racers on one transition see exactly one winner", func() {
		store := NewInMemoryStore()
		created, err := store.Create(context.Background(), s.newRecord(models.DomainLoyalty, models.ChangeTypeSMSOTPSettings))
		s.Require().NoError(err)

		const n = 20
		var wg sync.WaitGroup
		errs := make(chan error, n)
		proposalID := id.ProposalID(created.ID)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := store.Execute(context.Background(), models.DomainLoyalty, created.ID,
					func(_ context.Context, rec *models.ChangeRecord) error { return rec.CanEscalate() },
					func(rec *models.ChangeRecord) { rec.ApplyEscalation(proposalID, s.now) },
				)
				errs <- err
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
}

func (s *InMemoryChangeStoreSuite) TestListByStatus() {
	s.Run("filters by status within the domain", func() {
		first, err := s.store.Create(context.Background(), s.newRecord(models.DomainLoyalty, models.ChangeTypeSMSOTPSettings))
		s.Require().NoError(err)
		_, err = s.store.Create(context.Background(), s.newRecord(models.DomainLoyalty, models.ChangeTypeNFTEarningRatios))
		s.Require().NoError(err)

		_, err = s.store.Execute(context.Background(), models.DomainLoyalty, first.ID,
			func(_ context.Context, rec *models.ChangeRecord) error { return rec.CanEscalate() },
			func(rec *models.ChangeRecord) { rec.ApplyEscalation(id.ProposalID(first.ID), s.now) },
		)
		s.Require().NoError(err)

		pending := models.ChangeStatusPending
		listed, err := s.store.ListByStatus(context.Background(), models.DomainLoyalty, &pending)
		s.Require().NoError(err)
		s.Require().Len(listed, 1)
		s.Equal(id.ChangeID(2), listed[0].ID)
	})

	s.Run("nil status lists everything ordered by id", func() {
		store := NewInMemoryStore()
		for i := 0; i < 3; i++ {
			_, err := store.Create(context.Background(), s.newRecord(models.DomainMerchant, models.ChangeTypeSubscriptionLimits))
			s.Require().NoError(err)
		}

		listed, err := store.ListByStatus(context.Background(), models.DomainMerchant, nil)
		s.Require().NoError(err)
		s.Require().Len(listed, 3)
		for i, rec := range listed {
			s.Equal(id.ChangeID(i+1), rec.ID)
		}
	})

	s.Run("empty domain yields empty list", func() {
		listed, err := s.store.ListByStatus(context.Background(), models.DomainIntegration, nil)
		s.Require().NoError(err)
		s.Empty(listed)
	})
}
