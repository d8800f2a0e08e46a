package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVoteDirection(t *testing.T) {
	d, err := ParseVoteDirection("for")
	require.NoError(t, err)
	assert.Equal(t, VoteFor, d)

	d, err = ParseVoteDirection("against")
	require.NoError(t, err)
	assert.Equal(t, VoteAgainst, d)

	_, err = ParseVoteDirection("abstain")
	require.Error(t, err)
}

func TestTally_Passed(t *testing.T) {
	t.Run("no votes never passes", func(t *testing.T) {
		assert.False(t, Tally{}.Passed(0, 0))
	})

	t.Run("simple majority without quorum", func(t *testing.T) {
		assert.True(t, Tally{For: 100, Against: 40}.Passed(0, 0))
		assert.False(t, Tally{For: 40, Against: 100}.Passed(0, 0))
	})

	t.Run("tie does not pass", func(t *testing.T) {
		assert.False(t, Tally{For: 50, Against: 50}.Passed(0, 0))
	})

	t.Run("quorum threshold gates majority", func(t *testing.T) {
		// 10% of a supply of 10_000 requires 1_000 cast weight.
		quorum := uint64(1000)
		supply := uint64(10_000)

		assert.False(t, Tally{For: 600, Against: 100}.Passed(quorum, supply))
		assert.True(t, Tally{For: 900, Against: 100}.Passed(quorum, supply))
		assert.True(t, Tally{For: 5000, Against: 100}.Passed(quorum, supply))
	})

	t.Run("quorum boundary is inclusive", func(t *testing.T) {
		// Exactly 1_000 of 10_000 at 10% meets quorum.
		assert.True(t, Tally{For: 999, Against: 1}.Passed(1000, 10_000))
	})

	t.Run("zero supply disables quorum", func(t *testing.T) {
		assert.True(t, Tally{For: 1, Against: 0}.Passed(9999, 0))
	})

	t.Run("large supplies do not overflow", func(t *testing.T) {
		const supply = uint64(1) << 62
		// Majority met but participation is far below 10% of 2^62.
		assert.False(t, Tally{For: 10, Against: 1}.Passed(1000, supply))
		// Half the supply voting clears any sane quorum.
		assert.True(t, Tally{For: supply / 2, Against: 1}.Passed(1000, supply))
	})
}

func TestDomainAllowLists(t *testing.T) {
	assert.Len(t, AllowedChangeTypes(DomainLoyalty), 12)
	assert.Len(t, AllowedChangeTypes(DomainMerchant), 5)
	assert.Len(t, AllowedChangeTypes(DomainIntegration), 5)

	assert.True(t, ChangeTypeSMSOTPSettings.AllowedInDomain(DomainLoyalty))
	assert.True(t, ChangeTypeSMSOTPSettings.AllowedInDomain(DomainIntegration))
	assert.False(t, ChangeTypeSMSOTPSettings.AllowedInDomain(DomainMerchant))
	assert.False(t, ChangeTypeMerchantVerification.AllowedInDomain(DomainLoyalty))
}

func TestProposal_Invariants(t *testing.T) {
	rec := newTestChange(t)
	now := rec.CreatedAt
	endsAt := now.Add(72 * time.Hour)

	t.Run("valid proposal opens active with the change id", func(t *testing.T) {
		p, err := NewProposal(rec.Domain, 1, "Raise OTP validity", "300 -> 600", rec.ProposedBy, now, endsAt)
		require.NoError(t, err)
		assert.Equal(t, ProposalStatusActive, p.Status)
		assert.Equal(t, ProposalKindLoyaltyChange, p.Kind)
		assert.EqualValues(t, 1, p.ID)
		assert.EqualValues(t, 1, p.ChangeID)
	})

	t.Run("rejects empty or oversized title", func(t *testing.T) {
		_, err := NewProposal(rec.Domain, 1, "", "d", rec.ProposedBy, now, endsAt)
		require.Error(t, err)
	})

	t.Run("rejects deadline in the past", func(t *testing.T) {
		_, err := NewProposal(rec.Domain, 1, "t", "d", rec.ProposedBy, now, now)
		require.Error(t, err)
	})

	t.Run("votes accumulate and never reset", func(t *testing.T) {
		p, err := NewProposal(rec.Domain, 1, "t", "d", rec.ProposedBy, now, endsAt)
		require.NoError(t, err)

		require.NoError(t, p.CanVote(now))
		p.ApplyVote(VoteFor, 100, now)
		p.ApplyVote(VoteAgainst, 40, now)
		assert.Equal(t, Tally{For: 100, Against: 40}, p.Tally())

		require.Error(t, p.CanVote(endsAt.Add(1)))
	})

	t.Run("finalization is terminal and single-shot", func(t *testing.T) {
		p, err := NewProposal(rec.Domain, 1, "t", "d", rec.ProposedBy, now, endsAt)
		require.NoError(t, err)

		require.NoError(t, p.CanFinalize())
		p.ApplyFinalization(true, now)
		assert.Equal(t, ProposalStatusPassed, p.Status)
		require.Error(t, p.CanFinalize())
		require.Error(t, p.CanVote(now))
	})
}
