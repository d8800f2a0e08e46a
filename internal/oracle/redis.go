package oracle

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"

	id "github.com/realassetcoin-RAC/ignite-rewards/pkg/domain"
)

var balanceLookupDurationMs = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "governance_balance_lookup_duration_ms",
	Help:    "Latency of balance oracle lookups in milliseconds",
	Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25},
})

// Redis key prefix for account balances
const balanceKeyPrefix = "governance:balance:"

// RedisOracle reads balances from Redis. The token ledger writes
// governance:balance:{account} keys; a missing key means the account holds
// no tokens.
type RedisOracle struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *RedisOracle {
	return &RedisOracle{client: client}
}

// Balance returns the account's balance; a missing key is balance zero.
func (o *RedisOracle) Balance(ctx context.Context, account id.AccountID) (uint64, error) {
	start := time.Now()
	defer func() {
		balanceLookupDurationMs.Observe(float64(time.Since(start).Microseconds()) / 1000.0)
	}()

	val, err := o.client.Get(ctx, balanceKeyPrefix+account.String()).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("balance lookup: %w", err)
	}

	balance, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed balance for account %s: %w", account, err)
	}
	return balance, nil
}

// SetBalance writes an account's balance. Exposed for the ledger sync job
// and integration tests.
func (o *RedisOracle) SetBalance(ctx context.Context, account id.AccountID, balance uint64) error {
	return o.client.Set(ctx, balanceKeyPrefix+account.String(), strconv.FormatUint(balance, 10), 0).Err()
}
