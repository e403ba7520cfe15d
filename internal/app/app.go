// Package app wires configuration, storage, the adapter chain, and the
// HTTP surface into a runnable server.
package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/riftwatch/rift-ledger/internal/config"
	"github.com/riftwatch/rift-ledger/internal/domain/match"
	"github.com/riftwatch/rift-ledger/internal/domain/summoner"
	"github.com/riftwatch/rift-ledger/internal/infrastructure/repository/memory"
	"github.com/riftwatch/rift-ledger/internal/infrastructure/repository/postgres"
	"github.com/riftwatch/rift-ledger/internal/interfaces/httpapi"
	"github.com/riftwatch/rift-ledger/internal/platform/cache"
	idgen "github.com/riftwatch/rift-ledger/internal/platform/id"
	"github.com/riftwatch/rift-ledger/internal/platform/logging"
	"github.com/riftwatch/rift-ledger/internal/platform/resilience"
	"github.com/riftwatch/rift-ledger/internal/source"
	"github.com/riftwatch/rift-ledger/internal/source/aggregator"
	"github.com/riftwatch/rift-ledger/internal/source/browser"
	"github.com/riftwatch/rift-ledger/internal/source/riotapi"
	"github.com/riftwatch/rift-ledger/internal/source/synthetic"
	"github.com/riftwatch/rift-ledger/internal/source/webscrape"
	"github.com/riftwatch/rift-ledger/internal/usecase"
)

// NewHTTPServer builds the fully wired server. The returned cleanup
// releases the database pool and must run after shutdown.
func NewHTTPServer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*http.Server, func(), error) {
	if logger == nil {
		logger = logging.Default()
	}

	cleanup := func() {}

	var (
		summonerRepo summoner.Repository
		matchRepo    match.Repository
	)
	if cfg.DBURL == "" {
		logger.Info("using in-memory repositories", "reason", "DB_URL empty")
		summonerRepo = memory.NewSummonerRepository()
		matchRepo = memory.NewMatchRepository()
	} else {
		db, err := postgres.Connect(ctx, cfg.DBURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect database: %w", err)
		}
		cleanup = func() { _ = db.Close() }
		summonerRepo = postgres.NewSummonerRepository(db)
		matchRepo = postgres.NewMatchRepository(db)
	}

	var cacheStore *cache.Store
	if cfg.CacheEnabled {
		cacheStore = cache.NewStore(cfg.CacheTTL)
	}

	adapters := buildAdapterChain(cfg, logger)

	ingestSvc := usecase.NewIngestService(usecase.IngestServiceConfig{
		Adapters:       adapters,
		Summoners:      summonerRepo,
		Matches:        matchRepo,
		Cache:          cacheStore,
		MaxBatchSize:   cfg.MaxBatchSize,
		BatchItemDelay: cfg.BatchItemDelay,
		Logger:         logger,
	})
	summonerSvc := usecase.NewSummonerService(summonerRepo, matchRepo, cacheStore, logger)
	reconcileSvc := usecase.NewReconcileService(usecase.ReconcileServiceConfig{
		Summoners: summonerRepo,
		Matches:   matchRepo,
		Cache:     cacheStore,
		Workers:   cfg.ReconcileWorkers,
		Logger:    logger,
	})

	handler := httpapi.NewHandler(ingestSvc, summonerSvc, reconcileSvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if server.Addr == "" {
		cleanup()
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, cleanup, nil
}

// buildAdapterChain assembles the configured order, dropping disabled
// sources. The synthetic generator is always appended when missing so
// the chain stays total.
func buildAdapterChain(cfg config.Config, logger *logging.Logger) []source.Adapter {
	available := map[summoner.Source]source.Adapter{}

	if cfg.RiotEnabled && cfg.RiotAPIKey != "" {
		available[summoner.SourceRiotAPI] = riotapi.NewClient(riotapi.ClientConfig{
			BaseURL:        cfg.RiotBaseURL,
			APIKey:         cfg.RiotAPIKey,
			Timeout:        cfg.RiotTimeout,
			MaxRetries:     cfg.RiotMaxRetries,
			MatchWindow:    cfg.RiotMatchWindow,
			RequestsPerSec: cfg.RiotRequestsPerSec,
			Logger:         logger,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.RiotCircuitEnabled,
				FailureThreshold: cfg.RiotCircuitFailureCount,
				OpenTimeout:      cfg.RiotCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.RiotCircuitHalfOpenMaxReq,
			},
		})
	}
	if cfg.ScrapeEnabled {
		available[summoner.SourceWebScrape] = webscrape.NewClient(webscrape.ClientConfig{
			URLTemplates: cfg.ScrapeURLTemplates,
			Timeout:      cfg.ScrapeTimeout,
			UserAgent:    cfg.ScrapeUserAgent,
			Logger:       logger,
		})
	}
	if cfg.BrowserEnabled {
		available[summoner.SourceBrowser] = browser.NewClient(browser.ClientConfig{
			URLTemplates: cfg.ScrapeURLTemplates,
			NavTimeout:   cfg.BrowserNavTimeout,
			Headless:     cfg.BrowserHeadless,
			Logger:       logger,
		})
	}
	if cfg.AggregatorEnabled {
		available[summoner.SourceAggregator] = aggregator.NewClient(aggregator.ClientConfig{
			BaseURL:   cfg.AggregatorBaseURL,
			Timeout:   cfg.AggregatorTimeout,
			UserAgent: cfg.ScrapeUserAgent,
			Logger:    logger,
		})
	}
	available[summoner.SourceSynthetic] = synthetic.NewGenerator(synthetic.GeneratorConfig{
		MatchCount: cfg.SyntheticMatchCount,
		IDGen:      idgen.NewRandomGenerator(),
		Logger:     logger,
	})

	order := cfg.ChainOrder
	if len(order) == 0 {
		order = config.DefaultChainOrder()
	}

	chain := make([]source.Adapter, 0, len(order))
	for _, kind := range order {
		if adapter, ok := available[kind]; ok {
			chain = append(chain, adapter)
		}
	}
	if len(chain) == 0 || chain[len(chain)-1].Kind() != summoner.SourceSynthetic {
		chain = append(chain, available[summoner.SourceSynthetic])
	}

	return chain
}
