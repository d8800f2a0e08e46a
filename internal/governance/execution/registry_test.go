package execution

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/realassetcoin-RAC/ignite-rewards/internal/governance"
	"github.com/realassetcoin-RAC/ignite-rewards/internal/governance/models"
	id "github.com/realassetcoin-RAC/ignite-rewards/pkg/domain"
	"github.com/realassetcoin-RAC/ignite-rewards/pkg/platform/sentinel"
)

type RegistrySuite struct {
	suite.Suite
	store  *InMemoryParamStore
	logger *slog.Logger
}

func (s *RegistrySuite) SetupTest() {
	s.store = NewInMemoryParamStore()
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRegistrySuite(t *testing.T) {
	suite.Run(t, new(RegistrySuite))
}

func (s *RegistrySuite) newRecord(domain models.Domain, changeType models.ChangeType, parameter, newValue string) *models.ChangeRecord {
	rec, err := models.NewChangeRecord(domain, changeType,
		parameter, "300", newValue, "test change",
		id.AccountID(uuid.New()), time.Now())
	s.Require().NoError(err)
	rec.ID = id.ChangeID(1)
	return rec
}

func (s *RegistrySuite) TestDispatch() {
	s.Run("routes to the registered handler", func() {
		registry := NewRegistry()
		var applied *models.ChangeRecord
		registry.Register(models.DomainLoyalty, models.ChangeTypeSMSOTPSettings,
			HandlerFunc(func(_ context.Context, rec *models.ChangeRecord) error {
				applied = rec
				return nil
			}))

		rec := s.newRecord(models.DomainLoyalty, models.ChangeTypeSMSOTPSettings, "otp_validity_seconds", "600")
		s.Require().NoError(registry.Dispatch(context.Background(), rec))
		s.Equal(rec, applied)
	})

	s.Run("returns ErrUnsupportedChangeType on a miss", func() {
		registry := NewRegistry()

		rec := s.newRecord(models.DomainLoyalty, models.ChangeTypeSMSOTPSettings, "otp_validity_seconds", "600")
		err := registry.Dispatch(context.Background(), rec)
		s.Require().ErrorIs(err, governance.ErrUnsupportedChangeType)
	})

	s.Run("registration is scoped to the domain", func() {
		registry := NewRegistry()
		registry.Register(models.DomainLoyalty, models.ChangeTypeSMSOTPSettings,
			HandlerFunc(func(context.Context, *models.ChangeRecord) error { return nil }))

		rec := s.newRecord(models.DomainIntegration, models.ChangeTypeSMSOTPSettings, "otp_validity_seconds", "600")
		err := registry.Dispatch(context.Background(), rec)
		s.Require().ErrorIs(err, governance.ErrUnsupportedChangeType)
	})

	s.Run("handler errors propagate", func() {
		registry := NewRegistry()
		boom := errors.New("downstream unavailable")
		registry.Register(models.DomainMerchant, models.ChangeTypeSubscriptionLimits,
			HandlerFunc(func(context.Context, *models.ChangeRecord) error { return boom }))

		rec := s.newRecord(models.DomainMerchant, models.ChangeTypeSubscriptionLimits, "max_plans", "10")
		err := registry.Dispatch(context.Background(), rec)
		s.Require().ErrorIs(err, boom)
	})
}

func (s *RegistrySuite) TestDefaultRegistry() {
	s.Run("covers every allowed pair in every domain", func() {
		registry := NewDefaultRegistry(s.store, s.logger)
		for _, domain := range models.Domains() {
			for _, changeType := range models.AllowedChangeTypes(domain) {
				s.True(registry.Supports(domain, changeType),
					"missing handler for %s/%s", domain, changeType)
			}
		}
	})

	s.Run("writes the new value to the parameter store", func() {
		registry := NewDefaultRegistry(s.store, s.logger)

		rec := s.newRecord(models.DomainLoyalty, models.ChangeTypeSMSOTPSettings, "otp_validity_seconds", "600")
		s.Require().NoError(registry.Dispatch(context.Background(), rec))

		value, err := s.store.GetParameter(context.Background(), models.DomainLoyalty, "otp_validity_seconds")
		s.Require().NoError(err)
		s.Equal("600", value)
	})

	s.Run("parameters are domain-scoped", func() {
		registry := NewDefaultRegistry(s.store, s.logger)

		rec := s.newRecord(models.DomainLoyalty, models.ChangeTypeSMSOTPSettings, "otp_validity_seconds", "600")
		s.Require().NoError(registry.Dispatch(context.Background(), rec))

		_, err := s.store.GetParameter(context.Background(), models.DomainIntegration, "otp_validity_seconds")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *RegistrySuite) TestInMemoryParamStore() {
	s.Run("missing parameter returns ErrNotFound", func() {
		_, err := s.store.GetParameter(context.Background(), models.DomainLoyalty, "missing")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("set then get round-trips", func() {
		s.Require().NoError(s.store.SetParameter(context.Background(), models.DomainMerchant, "fee_bps", "250"))
		value, err := s.store.GetParameter(context.Background(), models.DomainMerchant, "fee_bps")
		s.Require().NoError(err)
		s.Equal("250", value)
	})
}
