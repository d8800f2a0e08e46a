// Package domain holds strongly typed identifiers shared across modules.
//
// Each identifier gets its own type so the compiler rejects cross-wiring
// (passing an account where a proposal id is expected). Construct via the
// Parse functions at trust boundaries; direct casting bypasses validation.
package domain

import (
	"strconv"

	"github.com/google/uuid"

	dErrors "github.com/realassetcoin-RAC/ignite-rewards/pkg/domain-errors"
)

// AccountID identifies an authenticated platform account (proposer, voter,
// executor). Backed by a UUID issued by the identity provider.
type AccountID uuid.UUID

// ParseAccountID constructs an AccountID from external input.
//
// Errors: returns CodeInvalidInput when the value is empty, malformed, or the
// nil UUID; no other errors are expected.
func ParseAccountID(s string) (AccountID, error) {
	if s == "" {
		return AccountID{}, dErrors.New(dErrors.CodeInvalidInput, "account id cannot be empty")
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return AccountID{}, dErrors.New(dErrors.CodeInvalidInput, "account id must be a valid UUID")
	}
	if parsed == uuid.Nil {
		return AccountID{}, dErrors.New(dErrors.CodeInvalidInput, "account id cannot be the nil UUID")
	}
	return AccountID(parsed), nil
}

func (id AccountID) String() string {
	return uuid.UUID(id).String()
}

// IsNil reports whether the id is the zero value.
func (id AccountID) IsNil() bool {
	return uuid.UUID(id) == uuid.Nil
}

// ChangeID identifies a change record. Ids are assigned from the per-domain
// counter, so a ChangeID is only unique together with its domain.
type ChangeID uint64

// ParseChangeID constructs a ChangeID from external input (URL segments).
func ParseChangeID(s string) (ChangeID, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil || n == 0 {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "change id must be a positive integer")
	}
	return ChangeID(n), nil
}

func (id ChangeID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// ProposalID identifies a proposal. A proposal shares the numeric key of the
// change record it escalates, so the same per-domain scoping applies.
type ProposalID uint64

// ParseProposalID constructs a ProposalID from external input.
func ParseProposalID(s string) (ProposalID, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil || n == 0 {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "proposal id must be a positive integer")
	}
	return ProposalID(n), nil
}

func (id ProposalID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}
