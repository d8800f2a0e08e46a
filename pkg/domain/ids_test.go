package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "github.com/realassetcoin-RAC/ignite-rewards/pkg/domain-errors"
)

// TestParseAccountID_Invariants validates the parsing invariant:
// account ids must be valid, non-empty, non-nil UUIDs.
func TestParseAccountID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseAccountID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseAccountID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseAccountID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		valid := uuid.New()
		id, err := ParseAccountID(valid.String())
		require.NoError(t, err)
		assert.Equal(t, AccountID(valid), id)
		assert.False(t, id.IsNil())
	})
}

func TestParseNumericIDs(t *testing.T) {
	t.Run("change id rejects zero and garbage", func(t *testing.T) {
		_, err := ParseChangeID("0")
		require.Error(t, err)
		_, err = ParseChangeID("abc")
		require.Error(t, err)
	})

	t.Run("round trips", func(t *testing.T) {
		id, err := ParseChangeID("42")
		require.NoError(t, err)
		assert.Equal(t, ChangeID(42), id)
		assert.Equal(t, "42", id.String())

		pid, err := ParseProposalID("7")
		require.NoError(t, err)
		assert.Equal(t, ProposalID(7), pid)
	})
}
