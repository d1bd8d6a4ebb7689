package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/pitchside/matchday/internal/config"
	"github.com/pitchside/matchday/internal/domain/ledger"
	"github.com/pitchside/matchday/internal/domain/match"
	"github.com/pitchside/matchday/internal/domain/referee"
	"github.com/pitchside/matchday/internal/domain/rules"
	"github.com/pitchside/matchday/internal/domain/team"
	"github.com/pitchside/matchday/internal/infrastructure/identity"
	"github.com/pitchside/matchday/internal/infrastructure/notify"
	"github.com/pitchside/matchday/internal/infrastructure/repository/memory"
	"github.com/pitchside/matchday/internal/infrastructure/repository/postgres"
	"github.com/pitchside/matchday/internal/interfaces/httpapi"
	"github.com/pitchside/matchday/internal/platform/cache"
	"github.com/pitchside/matchday/internal/platform/id"
	"github.com/pitchside/matchday/internal/platform/resilience"
	"github.com/pitchside/matchday/internal/usecase"
)

type repositories struct {
	matches  match.Repository
	teams    team.Repository
	rules    rules.Repository
	referees referee.Repository
	ledger   ledger.Repository
}

// NewHTTPServer wires repositories, services, and the HTTP router into a
// ready-to-run server. The returned cleanup releases the notifier worker
// pool and the database handle and must be called after Shutdown.
func NewHTTPServer(cfg config.Config, logger *slog.Logger) (*http.Server, func(context.Context) error, error) {
	if logger == nil {
		logger = slog.Default()
	}

	repos, closeStorage, err := buildRepositories(context.Background(), cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	notifier, closeNotifier, err := buildNotifier(cfg, logger)
	if err != nil {
		closeStorage()
		return nil, nil, err
	}

	rosterCache := cache.NewStore(cfg.CacheTTL)
	idGen := id.NewRandomGenerator()

	lifecycleSvc := usecase.NewLifecycleService(
		repos.matches,
		repos.teams,
		idGen,
		notifier,
		logger,
		cfg.ChallengeTTL,
	)
	challengeSvc := usecase.NewChallengeService(
		repos.matches,
		repos.teams,
		repos.rules,
		repos.referees,
		repos.ledger,
		rosterCache,
		notifier,
		logger,
	)
	rulesSvc := usecase.NewRulesService(repos.matches, repos.rules, notifier, logger)
	phaseClockSvc := usecase.NewPhaseClockService(repos.matches, repos.rules, logger)
	refereeClockSvc := usecase.NewRefereeClockService(repos.matches, repos.rules, repos.referees, logger)
	scoreSvc := usecase.NewScoreService(repos.matches, repos.teams, repos.ledger, idGen, logger)

	identityClient := identity.NewClient(
		&http.Client{Timeout: cfg.IdentityTimeout},
		cfg.IdentityBaseURL,
		cfg.IdentityIntrospectPath,
		cfg.IdentityAdminKey,
		resilience.CircuitBreakerConfig{
			Enabled:          cfg.IdentityCircuitEnabled,
			FailureThreshold: cfg.IdentityCircuitFailureCount,
			OpenTimeout:      cfg.IdentityCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.IdentityCircuitHalfOpenMaxReq,
		},
		logger,
	)

	handler := httpapi.NewHandler(
		lifecycleSvc,
		challengeSvc,
		rulesSvc,
		phaseClockSvc,
		refereeClockSvc,
		scoreSvc,
		logger,
	)
	router := httpapi.NewRouter(handler, identityClient, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		closeNotifier()
		closeStorage()
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	cleanup := func(context.Context) error {
		closeNotifier()
		return closeStorage()
	}

	return server, cleanup, nil
}

func buildRepositories(ctx context.Context, cfg config.Config, logger *slog.Logger) (repositories, func() error, error) {
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		db, err := otelsqlx.Connect(
			"postgres",
			normalizeDBURL(cfg.DBURL, true),
			otelsql.WithDBSystem("postgresql"),
			otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
			otelsql.WithQueryFormatter(formatDBQueryForTrace),
		)
		if err != nil {
			return repositories{}, nil, fmt.Errorf("connect postgres: %w", err)
		}

		logger.Info("storage ready", "driver", cfg.StorageDriver, "db", dbNameFromURL(cfg.DBURL))

		return repositories{
			matches:  postgres.NewMatchRepository(db),
			teams:    postgres.NewTeamRepository(db),
			rules:    postgres.NewRulesRepository(db),
			referees: postgres.NewRefereeRepository(db),
			ledger:   postgres.NewLedgerRepository(db),
		}, db.Close, nil

	default:
		matchRepo := memory.NewMatchRepository()
		for _, record := range memory.SeedMatches(time.Now()) {
			if err := matchRepo.Create(ctx, record); err != nil {
				return repositories{}, nil, fmt.Errorf("seed match %s: %w", record.ID, err)
			}
		}

		logger.Info("storage ready", "driver", cfg.StorageDriver)

		return repositories{
			matches:  matchRepo,
			teams:    memory.NewTeamRepository(memory.SeedTeams(), memory.SeedMembers()),
			rules:    memory.NewRulesRepository(),
			referees: memory.NewRefereeRepository(),
			ledger:   memory.NewLedgerRepository(matchRepo),
		}, func() error { return nil }, nil
	}
}

func buildNotifier(cfg config.Config, logger *slog.Logger) (usecase.Notifier, func(), error) {
	if !cfg.WebhookEnabled {
		return usecase.NopNotifier{}, func() {}, nil
	}

	dispatcher, err := notify.NewWebhookDispatcher(notify.WebhookDispatcherConfig{
		Endpoint:   cfg.WebhookEndpoint,
		SigningKey: cfg.WebhookSigningKey,
		Timeout:    cfg.WebhookTimeout,
		Retries:    cfg.WebhookRetries,
		Workers:    cfg.WebhookWorkers,
		Breaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.WebhookCircuitEnabled,
			FailureThreshold: cfg.WebhookCircuitFailureCount,
			OpenTimeout:      cfg.WebhookCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.WebhookCircuitHalfOpenMaxReq,
		},
	}, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("build webhook dispatcher: %w", err)
	}

	return dispatcher, dispatcher.Close, nil
}
