// Command server runs the governance API. Backends are selected from the
// environment: Postgres stores when POSTGRES_DSN is set, the Redis balance
// oracle and parameter store when REDIS_URL is set, and the Kafka event
// publisher when KAFKA_BROKERS is set. Everything falls back to in-memory
// implementations so a bare `go run ./cmd/server` works for development.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/realassetcoin-RAC/ignite-rewards/internal/governance/execution"
	"github.com/realassetcoin-RAC/ignite-rewards/internal/governance/handler"
	"github.com/realassetcoin-RAC/ignite-rewards/internal/governance/metrics"
	"github.com/realassetcoin-RAC/ignite-rewards/internal/governance/service"
	changestore "github.com/realassetcoin-RAC/ignite-rewards/internal/governance/store/change"
	proposalstore "github.com/realassetcoin-RAC/ignite-rewards/internal/governance/store/proposal"
	votestore "github.com/realassetcoin-RAC/ignite-rewards/internal/governance/store/vote"
	"github.com/realassetcoin-RAC/ignite-rewards/internal/governance/voting"
	"github.com/realassetcoin-RAC/ignite-rewards/internal/jwttoken"
	"github.com/realassetcoin-RAC/ignite-rewards/internal/notify"
	"github.com/realassetcoin-RAC/ignite-rewards/internal/oracle"
	"github.com/realassetcoin-RAC/ignite-rewards/internal/platform/config"
	"github.com/realassetcoin-RAC/ignite-rewards/internal/platform/httpserver"
	"github.com/realassetcoin-RAC/ignite-rewards/internal/platform/logger"
	"github.com/realassetcoin-RAC/ignite-rewards/internal/platform/postgres"
	redisplatform "github.com/realassetcoin-RAC/ignite-rewards/internal/platform/redis"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if err := run(cfg, log); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Server, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Both store implementations satisfy the engine's and the voting
	// service's interfaces, so each gets handed out twice.
	var (
		changes         service.ChangeStore
		proposals       service.ProposalStore
		votingChanges   voting.ChangeStore
		votingProposals voting.ProposalStore
		votes           voting.VoteStore
	)
	if cfg.PostgresDSN != "" {
		db, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := postgres.Migrate(ctx, db); err != nil {
			return err
		}
		cs, ps := changestore.NewPostgres(db), proposalstore.NewPostgres(db)
		changes, votingChanges = cs, cs
		proposals, votingProposals = ps, ps
		votes = votestore.NewPostgres(db)
		log.Info("using postgres stores")
	} else {
		cs, ps := changestore.NewInMemoryStore(), proposalstore.NewInMemoryStore()
		changes, votingChanges = cs, cs
		proposals, votingProposals = ps, ps
		votes = votestore.NewInMemoryStore()
		log.Warn("POSTGRES_DSN not set, using in-memory stores")
	}

	var (
		balances oracle.BalanceOracle
		params   execution.ParamStore
	)
	if cfg.RedisURL != "" {
		rc, err := redisplatform.New(ctx, config.DefaultRedisConfig(cfg.RedisURL))
		if err != nil {
			return err
		}
		defer rc.Close()
		balances = oracle.NewRedis(rc.Client)
		params = execution.NewRedisParamStore(rc.Client)
		log.Info("using redis balance oracle and parameter store")
	} else {
		balances = oracle.NewStatic()
		params = execution.NewInMemoryParamStore()
		log.Warn("REDIS_URL not set, using in-memory balance oracle and parameter store")
	}

	var publisher notify.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		kp, err := notify.NewKafkaPublisher(ctx, cfg.KafkaBrokers, cfg.KafkaTopic,
			notify.WithKafkaLogger(log))
		if err != nil {
			return err
		}
		defer kp.Close()
		publisher = kp
		log.Info("publishing governance events to kafka", "topic", cfg.KafkaTopic)
	} else {
		publisher = notify.NewInMemoryPublisher()
		log.Warn("KAFKA_BROKERS not set, governance events stay in memory")
	}

	m := metrics.New()
	registry := execution.NewDefaultRegistry(params, log)
	engine := service.New(changes, proposals, registry,
		service.Config{VotingPeriod: cfg.Governance.VotingPeriod},
		service.WithLogger(log),
		service.WithPublisher(publisher),
		service.WithMetrics(m),
	)
	votingSvc := voting.New(votingProposals, votes, votingChanges, balances,
		voting.Config{
			QuorumBPS:   cfg.Governance.QuorumBPS,
			TokenSupply: cfg.Governance.TokenSupply,
		},
		voting.WithLogger(log),
		voting.WithPublisher(publisher),
		voting.WithMetrics(m),
	)

	jwtService := jwttoken.NewService(cfg.JWTSigningKey, "ignite-rewards", "governance")

	router := chi.NewRouter()
	router.Use(chimiddleware.Recoverer)
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.Method(http.MethodGet, "/metrics", promhttp.Handler())
	handler.New(engine, votingSvc, jwtService, log).Register(router)

	srv := httpserver.New(cfg.Addr, router)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("governance server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
