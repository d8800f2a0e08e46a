// Package voting runs the token-weighted vote on escalated proposals: cast,
// tally, and the single finalization path from Active to Passed or Rejected.
package voting

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/realassetcoin-RAC/ignite-rewards/internal/governance"
	"github.com/realassetcoin-RAC/ignite-rewards/internal/governance/metrics"
	"github.com/realassetcoin-RAC/ignite-rewards/internal/governance/models"
	"github.com/realassetcoin-RAC/ignite-rewards/internal/notify"
	id "github.com/realassetcoin-RAC/ignite-rewards/pkg/domain"
	dErrors "github.com/realassetcoin-RAC/ignite-rewards/pkg/domain-errors"
	"github.com/realassetcoin-RAC/ignite-rewards/pkg/platform/sentinel"
	"github.com/realassetcoin-RAC/ignite-rewards/pkg/requestcontext"
)

type ProposalStore interface {
	FindByID(ctx context.Context, domain models.Domain, proposalID id.ProposalID) (*models.Proposal, error)
	Execute(ctx context.Context, domain models.Domain, proposalID id.ProposalID, validate func(context.Context, *models.Proposal) error, mutate func(*models.Proposal)) (*models.Proposal, error)
}

type VoteStore interface {
	Create(ctx context.Context, rec models.VoteRecord) error
	Find(ctx context.Context, domain models.Domain, proposalID id.ProposalID, voter id.AccountID) (models.VoteRecord, error)
	ListByProposal(ctx context.Context, domain models.Domain, proposalID id.ProposalID) ([]models.VoteRecord, error)
}

type ChangeStore interface {
	Execute(ctx context.Context, domain models.Domain, changeID id.ChangeID, validate func(context.Context, *models.ChangeRecord) error, mutate func(*models.ChangeRecord)) (*models.ChangeRecord, error)
}

type BalanceOracle interface {
	Balance(ctx context.Context, account id.AccountID) (uint64, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event notify.Event) error
}

// Config carries the approval predicate parameters. TokenSupply zero
// disables the quorum check.
type Config struct {
	QuorumBPS   uint64
	TokenSupply uint64
}

// Service orchestrates vote casting and proposal finalization.
type Service struct {
	proposals ProposalStore
	votes     VoteStore
	changes   ChangeStore
	oracle    BalanceOracle
	cfg       Config
	logger    *slog.Logger
	publisher EventPublisher
	metrics   *metrics.Metrics
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithPublisher(publisher EventPublisher) Option {
	return func(s *Service) {
		s.publisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// New constructs a Service.
func New(proposals ProposalStore, votes VoteStore, changes ChangeStore, oracle BalanceOracle, cfg Config, opts ...Option) *Service {
	s := &Service{
		proposals: proposals,
		votes:     votes,
		changes:   changes,
		oracle:    oracle,
		cfg:       cfg,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CastVote records a weighted vote. The weight is the voter's token balance
// at cast time; it is snapshotted into the vote record and never re-read.
//
// The vote record insert runs inside the proposal store's critical section,
// so the record and the tally increment land together: a duplicate vote is
// rejected before the tally moves.
func (s *Service) CastVote(ctx context.Context, domain models.Domain, proposalID id.ProposalID, voter id.AccountID, direction models.VoteDirection) (models.VoteRecord, error) {
	start := time.Now()
	defer s.observeCastVote(start)

	if voter.IsNil() {
		return models.VoteRecord{}, dErrors.New(dErrors.CodeUnauthorized, "caller identity required")
	}
	if _, err := models.ParseVoteDirection(string(direction)); err != nil {
		return models.VoteRecord{}, err
	}

	weight, err := s.oracle.Balance(ctx, voter)
	if err != nil {
		return models.VoteRecord{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read voter balance")
	}
	if weight == 0 {
		return models.VoteRecord{}, governance.ErrInsufficientVoteWeight
	}

	now := requestcontext.Now(ctx)
	rec := models.VoteRecord{
		Domain:     domain,
		ProposalID: proposalID,
		Voter:      voter,
		Direction:  direction,
		Weight:     weight,
		CastAt:     now,
	}

	_, err = s.proposals.Execute(ctx, domain, proposalID,
		func(txCtx context.Context, p *models.Proposal) error {
			if p.Status != models.ProposalStatusActive {
				return governance.ErrProposalNotActive
			}
			if now.After(p.EndsAt) {
				return governance.ErrVotingClosed
			}
			if err := s.votes.Create(txCtx, rec); err != nil {
				if errors.Is(err, sentinel.ErrConflict) {
					return governance.ErrAlreadyVoted
				}
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record vote")
			}
			return nil
		},
		func(p *models.Proposal) {
			p.ApplyVote(direction, weight, now)
		},
	)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.VoteRecord{}, governance.ErrProposalNotFound
		}
		return models.VoteRecord{}, err
	}

	s.publish(ctx, notify.Event{
		Type:       notify.EventVoteCast,
		Domain:     domain.String(),
		ChangeID:   uint64(proposalID),
		ProposalID: uint64(proposalID),
		Actor:      voter.String(),
		Detail:     string(direction),
		Timestamp:  now,
	})
	s.incrementVotesCast(domain)
	s.logger.InfoContext(ctx, "vote cast",
		"domain", domain.String(),
		"proposal_id", uint64(proposalID),
		"direction", string(direction),
		"weight", weight)

	return rec, nil
}

// Tally returns the proposal's current weighted totals.
func (s *Service) Tally(ctx context.Context, domain models.Domain, proposalID id.ProposalID) (models.Tally, error) {
	p, err := s.proposals.FindByID(ctx, domain, proposalID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.Tally{}, governance.ErrProposalNotFound
		}
		return models.Tally{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load proposal")
	}
	return p.Tally(), nil
}

// GetProposal returns the proposal by (domain, id).
func (s *Service) GetProposal(ctx context.Context, domain models.Domain, proposalID id.ProposalID) (*models.Proposal, error) {
	p, err := s.proposals.FindByID(ctx, domain, proposalID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, governance.ErrProposalNotFound
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load proposal")
	}
	return p, nil
}

// FinalizeProposal closes an Active proposal and records the outcome. This
// is the only transition out of Active: passed iff the tally holds a
// relative majority, at least one vote was cast, and participation meets
// the quorum threshold.
//
// A rejected proposal drags its change record to the terminal Rejected
// state, so the change can never be approved or executed afterwards.
func (s *Service) FinalizeProposal(ctx context.Context, domain models.Domain, proposalID id.ProposalID, caller id.AccountID) (*models.Proposal, error) {
	now := requestcontext.Now(ctx)

	var passed bool
	finalized, err := s.proposals.Execute(ctx, domain, proposalID,
		func(_ context.Context, p *models.Proposal) error {
			if p.Status != models.ProposalStatusActive {
				return governance.ErrProposalNotActive
			}
			passed = p.Tally().Passed(s.cfg.QuorumBPS, s.cfg.TokenSupply)
			return nil
		},
		func(p *models.Proposal) {
			p.ApplyFinalization(passed, now)
		},
	)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, governance.ErrProposalNotFound
		}
		return nil, err
	}

	outcome := "rejected"
	if passed {
		outcome = "passed"
	}

	if !passed {
		// Terminal rejection propagates to the linked change record. The
		// proposal outcome is already durable; a propagation failure is
		// logged and the record converges on the next approval check.
		if _, err := s.changes.Execute(ctx, domain, finalized.ChangeID,
			func(_ context.Context, rec *models.ChangeRecord) error { return rec.CanReject() },
			func(rec *models.ChangeRecord) { rec.ApplyRejection(now) },
		); err != nil {
			s.logger.ErrorContext(ctx, "failed to propagate proposal rejection to change record",
				"domain", domain.String(),
				"change_id", uint64(finalized.ChangeID),
				"error", err)
		} else {
			s.publish(ctx, notify.Event{
				Type:      notify.EventChangeRejected,
				Domain:    domain.String(),
				ChangeID:  uint64(finalized.ChangeID),
				Actor:     caller.String(),
				Timestamp: now,
			})
		}
	}

	s.publish(ctx, notify.Event{
		Type:       notify.EventProposalFinalized,
		Domain:     domain.String(),
		ChangeID:   uint64(finalized.ChangeID),
		ProposalID: uint64(proposalID),
		Actor:      caller.String(),
		Detail:     outcome,
		Timestamp:  now,
	})
	s.incrementFinalized(domain, outcome)
	s.logger.InfoContext(ctx, "proposal finalized",
		"domain", domain.String(),
		"proposal_id", uint64(proposalID),
		"outcome", outcome,
		"votes_for", finalized.VotesFor,
		"votes_against", finalized.VotesAgainst)

	return finalized, nil
}

// ListVotes returns the proposal's vote ledger ordered by cast time.
func (s *Service) ListVotes(ctx context.Context, domain models.Domain, proposalID id.ProposalID) ([]models.VoteRecord, error) {
	votes, err := s.votes.ListByProposal(ctx, domain, proposalID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list votes")
	}
	return votes, nil
}

func (s *Service) publish(ctx context.Context, event notify.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish governance event",
			"event_type", string(event.Type),
			"error", err)
	}
}

func (s *Service) observeCastVote(start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveCastVote(start)
	}
}

func (s *Service) incrementVotesCast(domain models.Domain) {
	if s.metrics != nil {
		s.metrics.IncrementVotesCast(domain.String())
	}
}

func (s *Service) incrementFinalized(domain models.Domain, outcome string) {
	if s.metrics != nil {
		s.metrics.IncrementProposalsFinalized(domain.String(), outcome)
	}
}
