package oracle

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "github.com/realassetcoin-RAC/ignite-rewards/pkg/domain"
)

func TestStaticOracle(t *testing.T) {
	t.Run("unknown account holds zero", func(t *testing.T) {
		o := NewStatic()

		balance, err := o.Balance(context.Background(), id.AccountID(uuid.New()))
		require.NoError(t, err)
		assert.Equal(t, uint64(0), balance)
	})

	t.Run("returns the configured balance", func(t *testing.T) {
		o := NewStatic()
		account := id.AccountID(uuid.New())
		o.SetBalance(account, 2500)

		balance, err := o.Balance(context.Background(), account)
		require.NoError(t, err)
		assert.Equal(t, uint64(2500), balance)
	})

	t.Run("SetBalance overwrites", func(t *testing.T) {
		o := NewStatic()
		account := id.AccountID(uuid.New())
		o.SetBalance(account, 100)
		o.SetBalance(account, 0)

		balance, err := o.Balance(context.Background(), account)
		require.NoError(t, err)
		assert.Equal(t, uint64(0), balance)
	})
}
