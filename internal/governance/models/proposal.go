package models

import (
	"time"

	id "github.com/realassetcoin-RAC/ignite-rewards/pkg/domain"
	dErrors "github.com/realassetcoin-RAC/ignite-rewards/pkg/domain-errors"
)

// ProposalKind classifies what a proposal decides on.
type ProposalKind string

const (
	ProposalKindGeneral           ProposalKind = "general"
	ProposalKindConfigUpdate      ProposalKind = "config_update"
	ProposalKindTreasury          ProposalKind = "treasury"
	ProposalKindGovernance        ProposalKind = "governance"
	ProposalKindLoyaltyChange     ProposalKind = "loyalty_change"
	ProposalKindMerchantChange    ProposalKind = "merchant_change"
	ProposalKindIntegrationChange ProposalKind = "integration_change"
)

// ProposalStatus is the lifecycle state of a proposal. "Passed" is the only
// spelling for a proposal approved by the collective; the gate between voting
// outcome and change execution checks exactly this value.
type ProposalStatus string

const (
	ProposalStatusDraft    ProposalStatus = "draft"
	ProposalStatusActive   ProposalStatus = "active"
	ProposalStatusPassed   ProposalStatus = "passed"
	ProposalStatusRejected ProposalStatus = "rejected"
	ProposalStatusExecuted ProposalStatus = "executed"
)

// IsTerminal reports whether the proposal reached a final outcome.
func (s ProposalStatus) IsTerminal() bool {
	return s == ProposalStatusPassed || s == ProposalStatusRejected || s == ProposalStatusExecuted
}

const (
	maxTitleLen       = 200
	maxDescriptionLen = 2000
)

// Proposal is a votable item escalated from a change record. It shares the
// numeric key of that record, so (domain, id) identifies both sides of the
// link.
//
// Invariants:
//   - VotesFor/VotesAgainst only increase
//   - the proposal transitions to a terminal status exactly once
type Proposal struct {
	ID           id.ProposalID  `json:"id"`
	Domain       Domain         `json:"domain"`
	ChangeID     id.ChangeID    `json:"change_id"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	Kind         ProposalKind   `json:"kind"`
	Status       ProposalStatus `json:"status"`
	Proposer     id.AccountID   `json:"proposer"`
	VotesFor     uint64         `json:"votes_for"`
	VotesAgainst uint64         `json:"votes_against"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	EndsAt       time.Time      `json:"ends_at"`
	FinalizedAt  *time.Time     `json:"finalized_at,omitempty"`
}

// NewProposal validates invariants and builds an Active proposal linked to a
// change record. Voting opens immediately and closes at endsAt.
func NewProposal(domain Domain, changeID id.ChangeID, title, description string, proposer id.AccountID, now, endsAt time.Time) (*Proposal, error) {
	if title == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "proposal title cannot be empty")
	}
	if len(title) > maxTitleLen {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "proposal title must be 200 characters or less")
	}
	if len(description) > maxDescriptionLen {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "proposal description must be 2000 characters or less")
	}
	if proposer.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "proposer is required")
	}
	if !endsAt.After(now) {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "voting deadline must be in the future")
	}
	return &Proposal{
		ID:          id.ProposalID(changeID),
		Domain:      domain,
		ChangeID:    changeID,
		Title:       title,
		Description: description,
		Kind:        domain.ProposalKind(),
		Status:      ProposalStatusActive,
		Proposer:    proposer,
		CreatedAt:   now,
		UpdatedAt:   now,
		EndsAt:      endsAt,
	}, nil
}

// CanVote checks the proposal accepts votes at the given time.
func (p *Proposal) CanVote(now time.Time) error {
	if p.Status != ProposalStatusActive {
		return dErrors.New(dErrors.CodeInvariantViolation, "proposal is not active")
	}
	if now.After(p.EndsAt) {
		return dErrors.New(dErrors.CodeInvariantViolation, "voting period has ended")
	}
	return nil
}

// ApplyVote adds weight to the chosen side. Tallies only ever increase.
func (p *Proposal) ApplyVote(direction VoteDirection, weight uint64, now time.Time) {
	if direction == VoteFor {
		p.VotesFor += weight
	} else {
		p.VotesAgainst += weight
	}
	p.UpdatedAt = now
}

// CanFinalize checks the proposal may be closed.
func (p *Proposal) CanFinalize() error {
	if p.Status != ProposalStatusActive {
		return dErrors.New(dErrors.CodeInvariantViolation, "proposal is not active")
	}
	return nil
}

// ApplyFinalization records the voting outcome. This is the only path from
// Active to Passed or Rejected.
func (p *Proposal) ApplyFinalization(passed bool, now time.Time) {
	if passed {
		p.Status = ProposalStatusPassed
	} else {
		p.Status = ProposalStatusRejected
	}
	p.FinalizedAt = &now
	p.UpdatedAt = now
}

// Tally returns the current weighted totals.
func (p *Proposal) Tally() Tally {
	return Tally{For: p.VotesFor, Against: p.VotesAgainst}
}

// Clone returns a deep copy so stores never hand out shared mutable state.
func (p *Proposal) Clone() *Proposal {
	out := *p
	if p.FinalizedAt != nil {
		t := *p.FinalizedAt
		out.FinalizedAt = &t
	}
	return &out
}
