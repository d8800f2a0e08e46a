package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures process-level configuration.
type Server struct {
	Addr          string
	JWTSigningKey string

	// PostgresDSN selects the Postgres-backed stores when set; the in-memory
	// stores are used otherwise (dev and tests).
	PostgresDSN string

	// RedisURL selects the Redis-backed balance oracle and applied-parameter
	// store when set.
	RedisURL string

	// KafkaBrokers selects the Kafka event publisher when non-empty.
	KafkaBrokers []string
	KafkaTopic   string

	Governance Governance
}

// Governance carries the voting parameters shared by all domains.
type Governance struct {
	// QuorumBPS is the minimum participation threshold in basis points of
	// TokenSupply. A proposal cannot pass unless cast weight reaches it.
	QuorumBPS uint64

	// TokenSupply is the total governance token supply the quorum is measured
	// against. Zero disables the quorum check (majority of cast votes only).
	TokenSupply uint64

	// VotingPeriod is how long a proposal accepts votes after escalation.
	VotingPeriod time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("GOVERNANCE_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	var brokers []string
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		brokers = strings.Split(v, ",")
	}
	topic := os.Getenv("KAFKA_TOPIC")
	if topic == "" {
		topic = "governance.changes"
	}

	return Server{
		Addr:          addr,
		JWTSigningKey: jwtSigningKey,
		PostgresDSN:   os.Getenv("POSTGRES_DSN"),
		RedisURL:      os.Getenv("REDIS_URL"),
		KafkaBrokers:  brokers,
		KafkaTopic:    topic,
		Governance: Governance{
			QuorumBPS:    envUint("GOVERNANCE_QUORUM_BPS", 1000),
			TokenSupply:  envUint("GOVERNANCE_TOKEN_SUPPLY", 0),
			VotingPeriod: envDuration("GOVERNANCE_VOTING_PERIOD", 72*time.Hour),
		},
	}
}

func envUint(key string, fallback uint64) uint64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

// RedisConfig captures Redis client tuning.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultRedisConfig returns the Redis tuning used unless overridden.
func DefaultRedisConfig(url string) RedisConfig {
	return RedisConfig{
		URL:          url,
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}
