// Package notify fans governance lifecycle events out to interested
// consumers: dashboards, merchant webhooks, the analytics pipeline.
package notify

import "time"

// EventType names a governance lifecycle transition.
type EventType string

const (
	EventChangeProposed    EventType = "governance.change_proposed"
	EventProposalCreated   EventType = "governance.proposal_created"
	EventVoteCast          EventType = "governance.vote_cast"
	EventProposalFinalized EventType = "governance.proposal_finalized"
	EventChangeApproved    EventType = "governance.change_approved"
	EventChangeRejected    EventType = "governance.change_rejected"
	EventChangeExecuted    EventType = "governance.change_executed"
)

// Event is emitted from governance logic to capture key transitions. Keep it
// transport-agnostic so sinks can fan out.
type Event struct {
	Type       EventType `json:"type"`
	Domain     string    `json:"domain"`
	ChangeID   uint64    `json:"change_id,omitempty"`
	ProposalID uint64    `json:"proposal_id,omitempty"`
	Actor      string    `json:"actor,omitempty"`
	Detail     string    `json:"detail,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}
