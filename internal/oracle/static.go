package oracle

import (
	"context"
	"sync"

	id "github.com/realassetcoin-RAC/ignite-rewards/pkg/domain"
)

// StaticOracle serves balances from an in-memory table. Used in dev mode and
// unit tests; production deployments read from Redis, fed by the token
// ledger.
type StaticOracle struct {
	mu       sync.RWMutex
	balances map[id.AccountID]uint64
}

func NewStatic() *StaticOracle {
	return &StaticOracle{balances: make(map[id.AccountID]uint64)}
}

// SetBalance sets an account's balance. Overwrites any previous value.
func (o *StaticOracle) SetBalance(account id.AccountID, balance uint64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.balances[account] = balance
}

// Balance returns the account's balance; unknown accounts hold zero.
func (o *StaticOracle) Balance(_ context.Context, account id.AccountID) (uint64, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.balances[account], nil
}
