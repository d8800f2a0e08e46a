package handler

import (
	"time"

	"github.com/realassetcoin-RAC/ignite-rewards/internal/governance/models"
)

// ChangeResponse is the HTTP representation of a change record.
type ChangeResponse struct {
	ID            uint64     `json:"id"`
	Domain        string     `json:"domain"`
	ChangeType    string     `json:"change_type"`
	ParameterName string     `json:"parameter_name"`
	OldValue      string     `json:"old_value"`
	NewValue      string     `json:"new_value"`
	Reason        string     `json:"reason"`
	ProposedBy    string     `json:"proposed_by"`
	Status        string     `json:"status"`
	ProposalID    *uint64    `json:"proposal_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	ApprovedAt    *time.Time `json:"approved_at,omitempty"`
	ImplementedAt *time.Time `json:"implemented_at,omitempty"`
}

// FromChange converts a domain change record to its HTTP representation.
func FromChange(rec *models.ChangeRecord) *ChangeResponse {
	resp := &ChangeResponse{
		ID:            uint64(rec.ID),
		Domain:        rec.Domain.String(),
		ChangeType:    rec.ChangeType.String(),
		ParameterName: rec.ParameterName,
		OldValue:      rec.OldValue,
		NewValue:      rec.NewValue,
		Reason:        rec.Reason,
		ProposedBy:    rec.ProposedBy.String(),
		Status:        string(rec.Status),
		CreatedAt:     rec.CreatedAt,
		UpdatedAt:     rec.UpdatedAt,
		ApprovedAt:    rec.ApprovedAt,
		ImplementedAt: rec.ImplementedAt,
	}
	if rec.ProposalID != nil {
		pid := uint64(*rec.ProposalID)
		resp.ProposalID = &pid
	}
	return resp
}

// ListChangesResponse is the HTTP response for GET /v1/governance/{domain}/changes.
// TotalChanges is the domain's lifetime counter, not the filtered result size.
type ListChangesResponse struct {
	Changes      []*ChangeResponse `json:"changes"`
	TotalChanges uint64            `json:"total_changes"`
}

// ProposalResponse is the HTTP representation of a proposal.
type ProposalResponse struct {
	ID           uint64     `json:"id"`
	Domain       string     `json:"domain"`
	ChangeID     uint64     `json:"change_id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Kind         string     `json:"kind"`
	Status       string     `json:"status"`
	Proposer     string     `json:"proposer"`
	VotesFor     uint64     `json:"votes_for"`
	VotesAgainst uint64     `json:"votes_against"`
	CreatedAt    time.Time  `json:"created_at"`
	EndsAt       time.Time  `json:"ends_at"`
	FinalizedAt  *time.Time `json:"finalized_at,omitempty"`
}

// FromProposal converts a domain proposal to its HTTP representation.
func FromProposal(p *models.Proposal) *ProposalResponse {
	return &ProposalResponse{
		ID:           uint64(p.ID),
		Domain:       p.Domain.String(),
		ChangeID:     uint64(p.ChangeID),
		Title:        p.Title,
		Description:  p.Description,
		Kind:         string(p.Kind),
		Status:       string(p.Status),
		Proposer:     p.Proposer.String(),
		VotesFor:     p.VotesFor,
		VotesAgainst: p.VotesAgainst,
		CreatedAt:    p.CreatedAt,
		EndsAt:       p.EndsAt,
		FinalizedAt:  p.FinalizedAt,
	}
}

// VoteResponse is the HTTP representation of a cast vote.
type VoteResponse struct {
	Domain     string    `json:"domain"`
	ProposalID uint64    `json:"proposal_id"`
	Voter      string    `json:"voter"`
	Direction  string    `json:"direction"`
	Weight     uint64    `json:"weight"`
	CastAt     time.Time `json:"cast_at"`
}

// FromVote converts a vote record to its HTTP representation.
func FromVote(v models.VoteRecord) *VoteResponse {
	return &VoteResponse{
		Domain:     v.Domain.String(),
		ProposalID: uint64(v.ProposalID),
		Voter:      v.Voter.String(),
		Direction:  string(v.Direction),
		Weight:     v.Weight,
		CastAt:     v.CastAt,
	}
}

// ListVotesResponse is the HTTP response for
// GET /v1/governance/{domain}/proposals/{id}/votes.
type ListVotesResponse struct {
	Votes []*VoteResponse `json:"votes"`
	Tally models.Tally    `json:"tally"`
}
