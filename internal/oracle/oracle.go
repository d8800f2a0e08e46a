// Package oracle resolves governance token balances. The balance read at
// vote time becomes the vote's immutable weight; the voting service never
// re-reads it.
package oracle

import (
	"context"

	id "github.com/realassetcoin-RAC/ignite-rewards/pkg/domain"
)

// BalanceOracle reports an account's governance token balance.
//
// Implementations must treat an unknown account as balance zero, not an
// error: holding no tokens is a valid (non-voting) state.
type BalanceOracle interface {
	Balance(ctx context.Context, account id.AccountID) (uint64, error)
}
