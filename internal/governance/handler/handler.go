// Package handler exposes the governance engine over HTTP. Routes are
// domain-scoped: every path starts with the governed domain, and the same
// handlers serve loyalty, merchant, and integration identically.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/realassetcoin-RAC/ignite-rewards/internal/governance/models"
	"github.com/realassetcoin-RAC/ignite-rewards/internal/governance/service"
	"github.com/realassetcoin-RAC/ignite-rewards/internal/platform/middleware"
	id "github.com/realassetcoin-RAC/ignite-rewards/pkg/domain"
	dErrors "github.com/realassetcoin-RAC/ignite-rewards/pkg/domain-errors"
	"github.com/realassetcoin-RAC/ignite-rewards/pkg/platform/httputil"
	"github.com/realassetcoin-RAC/ignite-rewards/pkg/requestcontext"
)

// EngineService defines the change-lifecycle operations the handler needs.
type EngineService interface {
	ProposeChange(ctx context.Context, domain models.Domain, req service.ProposeChangeRequest, proposedBy id.AccountID) (*models.ChangeRecord, error)
	EscalateToProposal(ctx context.Context, domain models.Domain, changeID id.ChangeID, title, description string, caller id.AccountID) (*models.Proposal, error)
	ValidateApproval(ctx context.Context, domain models.Domain, changeID id.ChangeID, caller id.AccountID) (*models.ChangeRecord, error)
	ExecuteChange(ctx context.Context, domain models.Domain, changeID id.ChangeID, caller id.AccountID) (*models.ChangeRecord, error)
	GetChange(ctx context.Context, domain models.Domain, changeID id.ChangeID) (*models.ChangeRecord, error)
	ListChanges(ctx context.Context, domain models.Domain, status *models.ChangeStatus) ([]*models.ChangeRecord, error)
	TotalChanges(ctx context.Context, domain models.Domain) (uint64, error)
}

// VotingService defines the voting operations the handler needs.
type VotingService interface {
	CastVote(ctx context.Context, domain models.Domain, proposalID id.ProposalID, voter id.AccountID, direction models.VoteDirection) (models.VoteRecord, error)
	GetProposal(ctx context.Context, domain models.Domain, proposalID id.ProposalID) (*models.Proposal, error)
	FinalizeProposal(ctx context.Context, domain models.Domain, proposalID id.ProposalID, caller id.AccountID) (*models.Proposal, error)
	ListVotes(ctx context.Context, domain models.Domain, proposalID id.ProposalID) ([]models.VoteRecord, error)
	Tally(ctx context.Context, domain models.Domain, proposalID id.ProposalID) (models.Tally, error)
}

// Handler serves the governance HTTP surface.
type Handler struct {
	logger       *slog.Logger
	engine       EngineService
	voting       VotingService
	jwtValidator middleware.JWTValidator
}

// New creates a governance Handler.
func New(engine EngineService, voting VotingService, jwtValidator middleware.JWTValidator, logger *slog.Logger) *Handler {
	return &Handler{
		logger:       logger,
		engine:       engine,
		voting:       voting,
		jwtValidator: jwtValidator,
	}
}

// Register mounts the governance routes under /v1/governance.
func (h *Handler) Register(r chi.Router) {
	gov := chi.NewRouter()
	gov.Use(middleware.RequestID)
	gov.Use(middleware.RequestTime)
	gov.Use(middleware.RequireAuth(h.jwtValidator, h.logger))

	gov.Route("/{domain}", func(r chi.Router) {
		r.Post("/changes", h.handleProposeChange)
		r.Get("/changes", h.handleListChanges)
		r.Get("/changes/{id}", h.handleGetChange)
		r.Post("/changes/{id}/escalate", h.handleEscalate)
		r.Post("/changes/{id}/approval", h.handleValidateApproval)
		r.With(middleware.RequireRole(middleware.RoleOperator)).
			Post("/changes/{id}/execute", h.handleExecuteChange)

		r.Post("/proposals/{id}/votes", h.handleCastVote)
		r.Get("/proposals/{id}/votes", h.handleListVotes)
		r.Get("/proposals/{id}", h.handleGetProposal)
		r.Post("/proposals/{id}/finalize", h.handleFinalize)
	})

	r.Mount("/v1/governance", gov)
}

// domainParam parses the {domain} path segment. On failure it writes the
// error response and returns false.
func (h *Handler) domainParam(w http.ResponseWriter, r *http.Request) (models.Domain, bool) {
	domain, err := models.ParseDomain(chi.URLParam(r, "domain"))
	if err != nil {
		httputil.WriteError(w, err)
		return "", false
	}
	return domain, true
}

func (h *Handler) changeIDParam(w http.ResponseWriter, r *http.Request) (id.ChangeID, bool) {
	changeID, err := id.ParseChangeID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return 0, false
	}
	return changeID, true
}

func (h *Handler) proposalIDParam(w http.ResponseWriter, r *http.Request) (id.ProposalID, bool) {
	proposalID, err := id.ParseProposalID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return 0, false
	}
	return proposalID, true
}

func (h *Handler) handleProposeChange(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	domain, ok := h.domainParam(w, r)
	if !ok {
		return
	}
	req, ok := httputil.Decode[ProposeChangeRequest](w, r, h.logger)
	if !ok {
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	rec, err := h.engine.ProposeChange(ctx, domain, service.ProposeChangeRequest{
		ChangeType:    models.ChangeType(req.ChangeType),
		ParameterName: req.ParameterName,
		OldValue:      req.OldValue,
		NewValue:      req.NewValue,
		Reason:        req.Reason,
	}, requestcontext.AccountID(ctx))
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to propose change")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, FromChange(rec))
}

func (h *Handler) handleListChanges(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	domain, ok := h.domainParam(w, r)
	if !ok {
		return
	}

	var status *models.ChangeStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		parsed, err := models.ParseChangeStatus(raw)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		status = &parsed
	}

	records, err := h.engine.ListChanges(ctx, domain, status)
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to list changes")
		return
	}
	total, err := h.engine.TotalChanges(ctx, domain)
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to read change counter")
		return
	}

	resp := ListChangesResponse{
		Changes:      make([]*ChangeResponse, 0, len(records)),
		TotalChanges: total,
	}
	for _, rec := range records {
		resp.Changes = append(resp.Changes, FromChange(rec))
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetChange(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	domain, ok := h.domainParam(w, r)
	if !ok {
		return
	}
	changeID, ok := h.changeIDParam(w, r)
	if !ok {
		return
	}

	rec, err := h.engine.GetChange(ctx, domain, changeID)
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to load change")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromChange(rec))
}

func (h *Handler) handleEscalate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	domain, ok := h.domainParam(w, r)
	if !ok {
		return
	}
	changeID, ok := h.changeIDParam(w, r)
	if !ok {
		return
	}
	req, ok := httputil.Decode[EscalateRequest](w, r, h.logger)
	if !ok {
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	p, err := h.engine.EscalateToProposal(ctx, domain, changeID,
		req.Title, req.Description, requestcontext.AccountID(ctx))
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to escalate change")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, FromProposal(p))
}

func (h *Handler) handleValidateApproval(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	domain, ok := h.domainParam(w, r)
	if !ok {
		return
	}
	changeID, ok := h.changeIDParam(w, r)
	if !ok {
		return
	}

	rec, err := h.engine.ValidateApproval(ctx, domain, changeID, requestcontext.AccountID(ctx))
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to validate approval")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromChange(rec))
}

func (h *Handler) handleExecuteChange(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	domain, ok := h.domainParam(w, r)
	if !ok {
		return
	}
	changeID, ok := h.changeIDParam(w, r)
	if !ok {
		return
	}

	rec, err := h.engine.ExecuteChange(ctx, domain, changeID, requestcontext.AccountID(ctx))
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to execute change")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromChange(rec))
}

func (h *Handler) handleCastVote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	domain, ok := h.domainParam(w, r)
	if !ok {
		return
	}
	proposalID, ok := h.proposalIDParam(w, r)
	if !ok {
		return
	}
	req, ok := httputil.Decode[CastVoteRequest](w, r, h.logger)
	if !ok {
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	vote, err := h.voting.CastVote(ctx, domain, proposalID,
		requestcontext.AccountID(ctx), req.ParsedDirection())
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to cast vote")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, FromVote(vote))
}

func (h *Handler) handleListVotes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	domain, ok := h.domainParam(w, r)
	if !ok {
		return
	}
	proposalID, ok := h.proposalIDParam(w, r)
	if !ok {
		return
	}

	votes, err := h.voting.ListVotes(ctx, domain, proposalID)
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to list votes")
		return
	}
	tally, err := h.voting.Tally(ctx, domain, proposalID)
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to read tally")
		return
	}

	resp := ListVotesResponse{
		Votes: make([]*VoteResponse, 0, len(votes)),
		Tally: tally,
	}
	for _, v := range votes {
		resp.Votes = append(resp.Votes, FromVote(v))
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetProposal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	domain, ok := h.domainParam(w, r)
	if !ok {
		return
	}
	proposalID, ok := h.proposalIDParam(w, r)
	if !ok {
		return
	}

	p, err := h.voting.GetProposal(ctx, domain, proposalID)
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to load proposal")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromProposal(p))
}

func (h *Handler) handleFinalize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	domain, ok := h.domainParam(w, r)
	if !ok {
		return
	}
	proposalID, ok := h.proposalIDParam(w, r)
	if !ok {
		return
	}

	p, err := h.voting.FinalizeProposal(ctx, domain, proposalID, requestcontext.AccountID(ctx))
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to finalize proposal")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromProposal(p))
}

// writeServiceError logs internal failures and passes coded errors through.
func (h *Handler) writeServiceError(ctx context.Context, w http.ResponseWriter, err error, msg string) {
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, msg,
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
	}
	httputil.WriteError(w, err)
}
