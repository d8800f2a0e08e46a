package models

import (
	"math/bits"
	"time"

	id "github.com/realassetcoin-RAC/ignite-rewards/pkg/domain"
	dErrors "github.com/realassetcoin-RAC/ignite-rewards/pkg/domain-errors"
)

// VoteDirection is which side of a proposal a vote lands on.
type VoteDirection string

const (
	VoteFor     VoteDirection = "for"
	VoteAgainst VoteDirection = "against"
)

// ParseVoteDirection constructs a VoteDirection from external input.
func ParseVoteDirection(s string) (VoteDirection, error) {
	switch VoteDirection(s) {
	case VoteFor:
		return VoteFor, nil
	case VoteAgainst:
		return VoteAgainst, nil
	default:
		return "", dErrors.New(dErrors.CodeInvalidInput, "vote direction must be \"for\" or \"against\"")
	}
}

// VoteRecord proves an account voted on a proposal. At most one record may
// exist per (domain, proposal, voter); the store enforces the unique key.
// Weight is snapshotted from the balance oracle at cast time and never
// re-read.
type VoteRecord struct {
	Domain     Domain        `json:"domain"`
	ProposalID id.ProposalID `json:"proposal_id"`
	Voter      id.AccountID  `json:"voter"`
	Direction  VoteDirection `json:"direction"`
	Weight     uint64        `json:"weight"`
	CastAt     time.Time     `json:"cast_at"`
}

// Tally is a weighted vote count snapshot.
type Tally struct {
	For     uint64 `json:"for"`
	Against uint64 `json:"against"`
}

// Total is the cast weight across both sides.
func (t Tally) Total() uint64 {
	return t.For + t.Against
}

// Passed applies the approval predicate: relative majority of cast weight,
// at least one vote cast, and participation meeting the quorum threshold.
// A zero tokenSupply disables the quorum check.
//
// The quorum comparison is total*10000 >= quorumBPS*tokenSupply, done in
// 128 bits so large supplies cannot overflow.
func (t Tally) Passed(quorumBPS, tokenSupply uint64) bool {
	total := t.Total()
	if total == 0 || t.For <= t.Against {
		return false
	}
	if tokenSupply == 0 || quorumBPS == 0 {
		return true
	}
	hiCast, loCast := bits.Mul64(total, 10_000)
	hiNeed, loNeed := bits.Mul64(quorumBPS, tokenSupply)
	if hiCast != hiNeed {
		return hiCast > hiNeed
	}
	return loCast >= loNeed
}
