// Package service hosts the governance engine: one generic change lifecycle
// shared by the loyalty, merchant, and integration domains. The domain is a
// parameter of every operation, never a reason for a separate code path.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/realassetcoin-RAC/ignite-rewards/internal/governance"
	"github.com/realassetcoin-RAC/ignite-rewards/internal/governance/metrics"
	"github.com/realassetcoin-RAC/ignite-rewards/internal/governance/models"
	"github.com/realassetcoin-RAC/ignite-rewards/internal/notify"
	id "github.com/realassetcoin-RAC/ignite-rewards/pkg/domain"
	dErrors "github.com/realassetcoin-RAC/ignite-rewards/pkg/domain-errors"
	"github.com/realassetcoin-RAC/ignite-rewards/pkg/platform/sentinel"
	"github.com/realassetcoin-RAC/ignite-rewards/pkg/requestcontext"
)

type ChangeStore interface {
	Create(ctx context.Context, rec *models.ChangeRecord) (*models.ChangeRecord, error)
	FindByID(ctx context.Context, domain models.Domain, changeID id.ChangeID) (*models.ChangeRecord, error)
	Execute(ctx context.Context, domain models.Domain, changeID id.ChangeID, validate func(context.Context, *models.ChangeRecord) error, mutate func(*models.ChangeRecord)) (*models.ChangeRecord, error)
	ListByStatus(ctx context.Context, domain models.Domain, status *models.ChangeStatus) ([]*models.ChangeRecord, error)
	Count(ctx context.Context, domain models.Domain) (uint64, error)
}

type ProposalStore interface {
	Create(ctx context.Context, p *models.Proposal) error
	FindByID(ctx context.Context, domain models.Domain, proposalID id.ProposalID) (*models.Proposal, error)
	Execute(ctx context.Context, domain models.Domain, proposalID id.ProposalID, validate func(context.Context, *models.Proposal) error, mutate func(*models.Proposal)) (*models.Proposal, error)
}

// Dispatcher applies approved changes. Implemented by execution.Registry.
type Dispatcher interface {
	Dispatch(ctx context.Context, rec *models.ChangeRecord) error
}

type EventPublisher interface {
	Publish(ctx context.Context, event notify.Event) error
}

// Config carries engine timing parameters.
type Config struct {
	// VotingPeriod is how long escalated proposals accept votes.
	VotingPeriod time.Duration
}

// ProposeChangeRequest is the input for a new change record.
type ProposeChangeRequest struct {
	ChangeType    models.ChangeType
	ParameterName string
	OldValue      string
	NewValue      string
	Reason        string
}

// Engine orchestrates the change lifecycle across all governed domains.
type Engine struct {
	changes    ChangeStore
	proposals  ProposalStore
	dispatcher Dispatcher
	cfg        Config
	logger     *slog.Logger
	publisher  EventPublisher
	metrics    *metrics.Metrics
	tracer     trace.Tracer
}

type Option func(e *Engine)

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

func WithPublisher(publisher EventPublisher) Option {
	return func(e *Engine) {
		e.publisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(e *Engine) {
		e.tracer = tracer
	}
}

// New constructs an Engine.
func New(changes ChangeStore, proposals ProposalStore, dispatcher Dispatcher, cfg Config, opts ...Option) *Engine {
	if cfg.VotingPeriod <= 0 {
		cfg.VotingPeriod = 72 * time.Hour
	}
	e := &Engine{
		changes:    changes,
		proposals:  proposals,
		dispatcher: dispatcher,
		cfg:        cfg,
		logger:     slog.Default(),
		tracer:     otel.Tracer("governance"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ProposeChange validates the request against the domain's allow-list and
// persists a Pending record. The per-domain counter only moves for accepted
// changes: a rejected type costs nothing.
func (e *Engine) ProposeChange(ctx context.Context, domain models.Domain, req ProposeChangeRequest, proposedBy id.AccountID) (*models.ChangeRecord, error) {
	ctx, span := e.startSpan(ctx, "governance.ProposeChange", domain)
	defer span.End()

	if proposedBy.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authenticated account required")
	}
	if !req.ChangeType.AllowedInDomain(domain) {
		return nil, governance.ErrInvalidChangeType
	}

	now := requestcontext.Now(ctx)
	rec, err := models.NewChangeRecord(domain, req.ChangeType,
		req.ParameterName, req.OldValue, req.NewValue, req.Reason, proposedBy, now)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeValidation, err.Error())
		}
		return nil, err
	}

	created, err := e.changes.Create(ctx, rec)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create change record")
	}

	e.publish(ctx, notify.Event{
		Type:      notify.EventChangeProposed,
		Domain:    domain.String(),
		ChangeID:  uint64(created.ID),
		Actor:     proposedBy.String(),
		Detail:    string(req.ChangeType),
		Timestamp: now,
	})
	e.incrementProposed(domain)
	e.logger.InfoContext(ctx, "change proposed",
		"domain", domain.String(),
		"change_id", uint64(created.ID),
		"change_type", req.ChangeType.String(),
		"parameter", req.ParameterName)

	return created, nil
}

// EscalateToProposal promotes a Pending record into an Active proposal that
// opens for voting immediately. The proposal shares the record's numeric
// key. Exactly one escalation can win: the proposal insert runs inside the
// change store's critical section on the store-supplied context, so it
// commits with the status transition and a racing caller loses on either
// the status check or the (domain, id) uniqueness.
func (e *Engine) EscalateToProposal(ctx context.Context, domain models.Domain, changeID id.ChangeID, title, description string, caller id.AccountID) (*models.Proposal, error) {
	ctx, span := e.startSpan(ctx, "governance.EscalateToProposal", domain)
	defer span.End()

	if caller.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authenticated account required")
	}

	now := requestcontext.Now(ctx)
	proposalID := id.ProposalID(changeID)

	var created *models.Proposal
	_, err := e.changes.Execute(ctx, domain, changeID,
		func(txCtx context.Context, rec *models.ChangeRecord) error {
			if err := rec.CanEscalate(); err != nil {
				return governance.ErrChangeNotPending
			}
			p, err := models.NewProposal(domain, changeID, title, description, caller, now, now.Add(e.cfg.VotingPeriod))
			if err != nil {
				if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
					return dErrors.New(dErrors.CodeValidation, err.Error())
				}
				return err
			}
			if err := e.proposals.Create(txCtx, p); err != nil {
				if errors.Is(err, sentinel.ErrConflict) {
					return governance.ErrChangeNotPending
				}
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create proposal")
			}
			created = p
			return nil
		},
		func(rec *models.ChangeRecord) {
			rec.ApplyEscalation(proposalID, now)
		},
	)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, governance.ErrChangeNotFound
		}
		return nil, err
	}

	e.publish(ctx, notify.Event{
		Type:       notify.EventProposalCreated,
		Domain:     domain.String(),
		ChangeID:   uint64(changeID),
		ProposalID: uint64(proposalID),
		Actor:      caller.String(),
		Timestamp:  now,
	})
	e.incrementEscalated(domain)
	e.logger.InfoContext(ctx, "change escalated to proposal",
		"domain", domain.String(),
		"change_id", uint64(changeID),
		"proposal_id", uint64(proposalID))

	return created, nil
}

// ValidateApproval checks the linked proposal passed and stamps the record
// Approved. The gate reads the proposal's terminal status, never the raw
// tally: finalization is the only authority on outcomes.
//
// The check is not idempotent: a second call fails on the status guard
// instead of silently re-approving.
func (e *Engine) ValidateApproval(ctx context.Context, domain models.Domain, changeID id.ChangeID, caller id.AccountID) (*models.ChangeRecord, error) {
	ctx, span := e.startSpan(ctx, "governance.ValidateApproval", domain)
	defer span.End()

	now := requestcontext.Now(ctx)

	approved, err := e.changes.Execute(ctx, domain, changeID,
		func(txCtx context.Context, rec *models.ChangeRecord) error {
			if rec.ProposalID == nil {
				return governance.ErrNoDaoProposal
			}
			if err := rec.CanApprove(); err != nil {
				return governance.ErrChangeNotPending
			}
			p, err := e.proposals.FindByID(txCtx, domain, *rec.ProposalID)
			if err != nil {
				if errors.Is(err, sentinel.ErrNotFound) {
					return governance.ErrProposalNotFound
				}
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load proposal")
			}
			if p.Status != models.ProposalStatusPassed {
				return governance.ErrChangeNotApproved
			}
			return nil
		},
		func(rec *models.ChangeRecord) {
			rec.ApplyApproval(now)
		},
	)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, governance.ErrChangeNotFound
		}
		return nil, err
	}

	e.publish(ctx, notify.Event{
		Type:      notify.EventChangeApproved,
		Domain:    domain.String(),
		ChangeID:  uint64(changeID),
		Actor:     caller.String(),
		Timestamp: now,
	})
	e.logger.InfoContext(ctx, "change approved",
		"domain", domain.String(),
		"change_id", uint64(changeID))

	return approved, nil
}

// ExecuteChange dispatches an Approved record to its handler and stamps it
// Implemented. The dispatch runs inside the store's critical section, so
// concurrent executors invoke the handler exactly once; a handler failure
// (or a missing handler) aborts the transition and leaves the record
// Approved for retry.
func (e *Engine) ExecuteChange(ctx context.Context, domain models.Domain, changeID id.ChangeID, caller id.AccountID) (*models.ChangeRecord, error) {
	ctx, span := e.startSpan(ctx, "governance.ExecuteChange", domain)
	defer span.End()

	start := time.Now()
	defer e.observeExecute(start)

	now := requestcontext.Now(ctx)

	executed, err := e.changes.Execute(ctx, domain, changeID,
		func(txCtx context.Context, rec *models.ChangeRecord) error {
			if err := rec.CanExecute(); err != nil {
				return governance.ErrChangeNotApproved
			}
			return e.dispatcher.Dispatch(txCtx, rec)
		},
		func(rec *models.ChangeRecord) {
			rec.ApplyExecution(now)
		},
	)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, governance.ErrChangeNotFound
		}
		e.incrementExecutionFailures(domain)
		return nil, err
	}

	e.markProposalExecuted(ctx, domain, executed, now)

	e.publish(ctx, notify.Event{
		Type:      notify.EventChangeExecuted,
		Domain:    domain.String(),
		ChangeID:  uint64(changeID),
		Actor:     caller.String(),
		Detail:    executed.ParameterName,
		Timestamp: now,
	})
	e.incrementExecuted(domain)
	e.logger.InfoContext(ctx, "change executed",
		"domain", domain.String(),
		"change_id", uint64(changeID),
		"parameter", executed.ParameterName,
		"new_value", executed.NewValue)

	return executed, nil
}

// markProposalExecuted advances the linked proposal from Passed to Executed.
// Best-effort: the change record is already Implemented, which is the
// authoritative state.
func (e *Engine) markProposalExecuted(ctx context.Context, domain models.Domain, rec *models.ChangeRecord, now time.Time) {
	if rec.ProposalID == nil {
		return
	}
	_, err := e.proposals.Execute(ctx, domain, *rec.ProposalID,
		func(_ context.Context, p *models.Proposal) error {
			if p.Status != models.ProposalStatusPassed {
				return governance.ErrProposalNotActive
			}
			return nil
		},
		func(p *models.Proposal) {
			p.Status = models.ProposalStatusExecuted
			p.UpdatedAt = now
		},
	)
	if err != nil {
		e.logger.WarnContext(ctx, "failed to mark proposal executed",
			"domain", domain.String(),
			"proposal_id", uint64(*rec.ProposalID),
			"error", err)
	}
}

// GetChange returns the record by (domain, id).
func (e *Engine) GetChange(ctx context.Context, domain models.Domain, changeID id.ChangeID) (*models.ChangeRecord, error) {
	rec, err := e.changes.FindByID(ctx, domain, changeID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, governance.ErrChangeNotFound
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load change")
	}
	return rec, nil
}

// ListChanges returns the domain's records ordered by id, optionally
// filtered by status.
func (e *Engine) ListChanges(ctx context.Context, domain models.Domain, status *models.ChangeStatus) ([]*models.ChangeRecord, error) {
	records, err := e.changes.ListByStatus(ctx, domain, status)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list changes")
	}
	return records, nil
}

// TotalChanges returns the domain's audit counter: every change ever
// accepted, including terminal ones.
func (e *Engine) TotalChanges(ctx context.Context, domain models.Domain) (uint64, error) {
	count, err := e.changes.Count(ctx, domain)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read change counter")
	}
	return count, nil
}

func (e *Engine) startSpan(ctx context.Context, name string, domain models.Domain) (context.Context, trace.Span) {
	return e.tracer.Start(ctx, name,
		trace.WithAttributes(attribute.String("governance.domain", domain.String())))
}

func (e *Engine) publish(ctx context.Context, event notify.Event) {
	if e.publisher == nil {
		return
	}
	if err := e.publisher.Publish(ctx, event); err != nil {
		e.logger.ErrorContext(ctx, "failed to publish governance event",
			"event_type", string(event.Type),
			"error", err)
	}
}

func (e *Engine) incrementProposed(domain models.Domain) {
	if e.metrics != nil {
		e.metrics.IncrementChangesProposed(domain.String())
	}
}

func (e *Engine) incrementEscalated(domain models.Domain) {
	if e.metrics != nil {
		e.metrics.IncrementProposalsCreated(domain.String())
	}
}

func (e *Engine) incrementExecuted(domain models.Domain) {
	if e.metrics != nil {
		e.metrics.IncrementChangesExecuted(domain.String())
	}
}

func (e *Engine) incrementExecutionFailures(domain models.Domain) {
	if e.metrics != nil {
		e.metrics.IncrementExecutionFailures(domain.String())
	}
}

func (e *Engine) observeExecute(start time.Time) {
	if e.metrics != nil {
		e.metrics.ObserveExecute(start)
	}
}
