// Package governance defines the errors shared by the change-lifecycle
// engine, the voting ledger, and the execution dispatcher.
//
// Services return these exact values (or wrap them with %w) so callers and
// tests can branch with errors.Is while transports keep mapping on the
// attached domain-error codes.
package governance

import (
	dErrors "github.com/realassetcoin-RAC/ignite-rewards/pkg/domain-errors"
)

var (
	// ErrInvalidChangeType rejects a propose call whose type is not on the
	// domain's allow-list. No record is created and the counter is untouched.
	ErrInvalidChangeType = dErrors.New(dErrors.CodeValidation, "change type not allowed for this domain")

	// ErrChangeNotFound marks a lookup for an unknown (domain, change id).
	ErrChangeNotFound = dErrors.New(dErrors.CodeNotFound, "change not found")

	// ErrChangeNotPending rejects an escalation (or re-approval) of a record
	// that already left the Pending state.
	ErrChangeNotPending = dErrors.New(dErrors.CodeConflict, "change is not pending")

	// ErrNoDaoProposal rejects an approval check on a record that was never
	// escalated.
	ErrNoDaoProposal = dErrors.New(dErrors.CodeConflict, "change has no linked proposal")

	// ErrChangeNotApproved rejects execution (or approval validation) when
	// the collective has not passed the linked proposal.
	ErrChangeNotApproved = dErrors.New(dErrors.CodeConflict, "change not approved by vote")

	// ErrUnsupportedChangeType means no handler is registered for the
	// (domain, change type) pair. The record stays Approved so execution can
	// be retried once a handler is added.
	ErrUnsupportedChangeType = dErrors.New(dErrors.CodeInvariantViolation, "no execution handler registered for change type")

	// ErrProposalNotFound marks a lookup for an unknown (domain, proposal id).
	ErrProposalNotFound = dErrors.New(dErrors.CodeNotFound, "proposal not found")

	// ErrProposalNotActive rejects votes or finalization on a proposal that
	// is not open.
	ErrProposalNotActive = dErrors.New(dErrors.CodeConflict, "proposal is not active")

	// ErrVotingClosed rejects votes cast after the proposal deadline.
	ErrVotingClosed = dErrors.New(dErrors.CodeConflict, "voting period has ended")

	// ErrAlreadyVoted rejects a second vote by the same account on the same
	// proposal. Double voting is a hard error, never a silent overwrite.
	ErrAlreadyVoted = dErrors.New(dErrors.CodeConflict, "account already voted on this proposal")

	// ErrInsufficientVoteWeight rejects votes from accounts with no
	// governance token balance.
	ErrInsufficientVoteWeight = dErrors.New(dErrors.CodeForbidden, "insufficient token balance to vote")
)
