package jwttoken

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "github.com/realassetcoin-RAC/ignite-rewards/pkg/domain-errors"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := NewService("test-signing-key", "governance", "platform")
	accountID := uuid.New()

	token, err := svc.GenerateAccessToken(accountID, "operator", time.Minute)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, accountID.String(), claims.AccountID)
	assert.Equal(t, "operator", claims.Role)
}

func TestValidateToken_Rejections(t *testing.T) {
	svc := NewService("test-signing-key", "governance", "platform")

	t.Run("rejects expired token", func(t *testing.T) {
		token, err := svc.GenerateAccessToken(uuid.New(), "", -time.Minute)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	t.Run("rejects token signed with a different key", func(t *testing.T) {
		other := NewService("other-key", "governance", "platform")
		token, err := other.GenerateAccessToken(uuid.New(), "", time.Minute)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := svc.ValidateToken("not.a.token")
		require.Error(t, err)
	})
}
