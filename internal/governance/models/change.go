package models

import (
	"time"

	id "github.com/realassetcoin-RAC/ignite-rewards/pkg/domain"
	dErrors "github.com/realassetcoin-RAC/ignite-rewards/pkg/domain-errors"
)

// ChangeStatus is the lifecycle state of a change record.
//
// Pending → DaoProposalCreated → Approved → Implemented, with Rejected as a
// terminal branch off DaoProposalCreated. Status only moves forward; a record
// is never deleted, so terminal records double as the audit trail.
type ChangeStatus string

const (
	ChangeStatusPending            ChangeStatus = "pending"
	ChangeStatusDaoProposalCreated ChangeStatus = "dao_proposal_created"
	ChangeStatusApproved           ChangeStatus = "approved"
	ChangeStatusRejected           ChangeStatus = "rejected"
	ChangeStatusImplemented        ChangeStatus = "implemented"
)

var changeTransitions = map[ChangeStatus][]ChangeStatus{
	ChangeStatusPending:            {ChangeStatusDaoProposalCreated},
	ChangeStatusDaoProposalCreated: {ChangeStatusApproved, ChangeStatusRejected},
	ChangeStatusApproved:           {ChangeStatusImplemented},
}

// CanTransitionTo reports whether the state machine allows the move.
func (s ChangeStatus) CanTransitionTo(next ChangeStatus) bool {
	for _, allowed := range changeTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are possible.
func (s ChangeStatus) IsTerminal() bool {
	return s == ChangeStatusImplemented || s == ChangeStatusRejected
}

// ParseChangeStatus constructs a ChangeStatus from external input.
func ParseChangeStatus(s string) (ChangeStatus, error) {
	switch ChangeStatus(s) {
	case ChangeStatusPending, ChangeStatusDaoProposalCreated, ChangeStatusApproved,
		ChangeStatusRejected, ChangeStatusImplemented:
		return ChangeStatus(s), nil
	default:
		return "", dErrors.New(dErrors.CodeInvalidInput, "unknown change status")
	}
}

// Field bounds carried over from the on-chain account layout.
const (
	maxParameterNameLen = 100
	maxValueLen         = 500
	maxReasonLen        = 1000
)

// ChangeRecord represents one proposed mutation to a named configuration
// parameter in one domain.
//
// Invariants:
//   - ChangeType is on the domain's allow-list
//   - ParameterName is non-empty, ≤ 100 chars; values ≤ 500; reason ≤ 1000
//   - ProposalID is set at most once and never cleared
//   - Status only moves forward per changeTransitions
type ChangeRecord struct {
	ID            id.ChangeID   `json:"id"`
	Domain        Domain        `json:"domain"`
	ChangeType    ChangeType    `json:"change_type"`
	ParameterName string        `json:"parameter_name"`
	OldValue      string        `json:"old_value"`
	NewValue      string        `json:"new_value"`
	Reason        string        `json:"reason"`
	ProposedBy    id.AccountID  `json:"proposed_by"`
	Status        ChangeStatus  `json:"status"`
	ProposalID    *id.ProposalID `json:"proposal_id,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
	ApprovedAt    *time.Time    `json:"approved_at,omitempty"`
	ImplementedAt *time.Time    `json:"implemented_at,omitempty"`
}

// NewChangeRecord validates invariants and builds a Pending record. The id is
// assigned by the store atomically with the domain counter increment.
func NewChangeRecord(domain Domain, changeType ChangeType, parameterName, oldValue, newValue, reason string, proposedBy id.AccountID, now time.Time) (*ChangeRecord, error) {
	if !validDomains[domain] {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "unknown governance domain")
	}
	if !changeType.AllowedInDomain(domain) {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "change type not allowed for domain")
	}
	if parameterName == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "parameter name cannot be empty")
	}
	if len(parameterName) > maxParameterNameLen {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "parameter name must be 100 characters or less")
	}
	if len(oldValue) > maxValueLen || len(newValue) > maxValueLen {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "parameter values must be 500 characters or less")
	}
	if newValue == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "new value cannot be empty")
	}
	if len(reason) > maxReasonLen {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "reason must be 1000 characters or less")
	}
	if proposedBy.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "proposer is required")
	}
	return &ChangeRecord{
		Domain:        domain,
		ChangeType:    changeType,
		ParameterName: parameterName,
		OldValue:      oldValue,
		NewValue:      newValue,
		Reason:        reason,
		ProposedBy:    proposedBy,
		Status:        ChangeStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// CanEscalate checks the record may be escalated into a proposal.
// Use with ApplyEscalation in store Execute callbacks.
func (c *ChangeRecord) CanEscalate() error {
	if c.Status != ChangeStatusPending {
		return dErrors.New(dErrors.CodeInvariantViolation, "change is not pending")
	}
	return nil
}

// ApplyEscalation links the proposal and advances the status.
// Call CanEscalate first to validate the transition.
func (c *ChangeRecord) ApplyEscalation(proposalID id.ProposalID, now time.Time) {
	c.Status = ChangeStatusDaoProposalCreated
	c.ProposalID = &proposalID
	c.UpdatedAt = now
}

// CanApprove checks the record may be marked approved. The linked proposal's
// outcome is checked by the engine; this guards the record's own state only.
func (c *ChangeRecord) CanApprove() error {
	if c.ProposalID == nil {
		return dErrors.New(dErrors.CodeInvariantViolation, "change has no linked proposal")
	}
	if c.Status != ChangeStatusDaoProposalCreated {
		return dErrors.New(dErrors.CodeInvariantViolation, "change is not awaiting approval")
	}
	return nil
}

// ApplyApproval stamps the approval.
func (c *ChangeRecord) ApplyApproval(now time.Time) {
	c.Status = ChangeStatusApproved
	c.ApprovedAt = &now
	c.UpdatedAt = now
}

// CanExecute checks the record may be executed.
func (c *ChangeRecord) CanExecute() error {
	if c.Status != ChangeStatusApproved {
		return dErrors.New(dErrors.CodeInvariantViolation, "change is not approved")
	}
	return nil
}

// ApplyExecution stamps the implementation.
func (c *ChangeRecord) ApplyExecution(now time.Time) {
	c.Status = ChangeStatusImplemented
	c.ImplementedAt = &now
	c.UpdatedAt = now
}

// CanReject checks the record may be terminally rejected.
func (c *ChangeRecord) CanReject() error {
	if !c.Status.CanTransitionTo(ChangeStatusRejected) {
		return dErrors.New(dErrors.CodeInvariantViolation, "change cannot be rejected in its current state")
	}
	return nil
}

// ApplyRejection marks the terminal rejection.
func (c *ChangeRecord) ApplyRejection(now time.Time) {
	c.Status = ChangeStatusRejected
	c.UpdatedAt = now
}

// Clone returns a deep copy so stores never hand out shared mutable state.
func (c *ChangeRecord) Clone() *ChangeRecord {
	out := *c
	if c.ProposalID != nil {
		pid := *c.ProposalID
		out.ProposalID = &pid
	}
	if c.ApprovedAt != nil {
		t := *c.ApprovedAt
		out.ApprovedAt = &t
	}
	if c.ImplementedAt != nil {
		t := *c.ImplementedAt
		out.ImplementedAt = &t
	}
	return &out
}
