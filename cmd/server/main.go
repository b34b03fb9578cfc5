package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"stylelens/internal/analyzer"
	"stylelens/internal/cache"
	"stylelens/internal/config"
	"stylelens/internal/handler"
	"stylelens/internal/keywords"
	"stylelens/internal/logging"
	"stylelens/internal/metrics"
	"stylelens/internal/repository"
	"stylelens/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

const (
	memoryCacheSize = 1000
	shutdownTimeout = 10 * time.Second
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger := logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	logger.Info().
		Str("version", Version).
		Str("build_time", BuildTime).
		Str("git_commit", GitCommit).
		Msg("stylelens starting")

	if err := run(cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("server failed")
	}
}

func run(cfg *config.Config, logger zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gin.SetMode(cfg.Server.GinMode)
	recorder := metrics.New()

	tables, err := keywords.Load(cfg.Pipeline.TablesFile)
	if err != nil {
		return fmt.Errorf("load keyword tables: %w", err)
	}
	pipeline := analyzer.New(tables, analyzer.Options{
		FreeTextThreshold:    cfg.Pipeline.FreeTextThreshold,
		SearchQueryThreshold: cfg.Pipeline.SearchQueryThreshold,
		MinConfidence:        cfg.Pipeline.MinConfidence,
		MaxCandidates:        cfg.Pipeline.MaxCandidates,
		MaxQueries:           cfg.Pipeline.MaxQueriesPerTerm,
	}, recorder, logger)

	// Optional persistence
	var store service.RunStore
	if cfg.DatabaseEnabled() {
		repo, err := repository.NewPostgresRepository(
			cfg.GetPostgreSQLDSN(),
			cfg.Database.MaxConnections,
			cfg.Database.MaxIdleConnections,
		)
		if err != nil {
			return err
		}
		defer repo.Close()

		if err := repo.EnsureSchema(ctx); err != nil {
			return err
		}
		store = repo
		logger.Info().Msg("connected to PostgreSQL")
	} else {
		logger.Warn().Msg("persistence disabled, set DATABASE_URL or PG_HOST to log runs and feedback")
	}

	// Stylist
	var stylist service.AIClient
	if cfg.LLM.Enabled() {
		stylist = service.NewOpenAIClient(cfg.LLM, logger)
		logger.Info().
			Str("api_base", cfg.LLM.APIBase).
			Str("model", cfg.LLM.Model).
			Float64("temperature", cfg.LLM.Temperature).
			Int("max_tokens", cfg.LLM.MaxTokens).
			Msg("stylist enabled")
	} else {
		logger.Warn().Msg("stylist disabled, set LLM_API_KEY to generate narratives")
	}

	// Product search
	var searcher service.ProductSearcher
	if cfg.Search.Enabled() {
		var searchCache cache.Client
		if cfg.Redis.Addr != "" {
			rc, err := cache.NewRedisClient(ctx, cache.RedisConfig{
				Addr:     cfg.Redis.Addr,
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
				PoolSize: cfg.Redis.PoolSize,
				Prefix:   cfg.Redis.Prefix,
			})
			if err != nil {
				return err
			}
			searchCache = rc
			logger.Info().Str("addr", cfg.Redis.Addr).Msg("connected to Redis")
		} else {
			searchCache = cache.NewMemoryClient(memoryCacheSize)
			logger.Info().Msg("using in-memory search cache")
		}
		defer searchCache.Close()

		client := service.NewCachedSearchClient(
			service.NewWebSearchClient(cfg.Search),
			searchCache,
			cfg.Search,
			cfg.Redis.TTL,
			recorder,
			logger,
		)
		searcher = service.NewSearcher(client, cfg.Search, logger)
	} else {
		logger.Warn().Msg("product search disabled, set SEARCH_API_KEY to enable recommendations")
	}

	ranker := service.NewRanker(
		tables,
		cfg.Ranking.WeightRelevance,
		cfg.Ranking.WeightConfidence,
		cfg.Ranking.WeightBudget,
	)
	recommendService := service.NewRecommendService(
		pipeline,
		stylist,
		searcher,
		ranker,
		store,
		recorder,
		service.RecommendOptions{
			MaxTerms:       cfg.Search.MaxTerms,
			QueriesPerTerm: cfg.Search.QueriesPerTerm,
		},
		logger,
	)

	router := gin.New()
	router.Use(gin.Recovery(), handler.RequestID(), handler.RequestLogger(logger, recorder))

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = config.CORSList(cfg.Server.AllowedOrigins)
	corsConfig.AllowMethods = config.CORSList(cfg.Server.AllowedMethods)
	corsConfig.AllowHeaders = append(config.CORSList(cfg.Server.AllowedHeaders), handler.RequestIDHeader)
	corsConfig.ExposeHeaders = []string{handler.RequestIDHeader}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "healthy",
			"service":     "stylelens",
			"version":     Version,
			"persistence": store != nil,
			"stylist":     stylist != nil,
			"search":      searcher != nil,
		})
	})

	router.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	handler.RegisterRoutes(
		router.Group("/api/v1"),
		handler.NewRecommendHandler(recommendService),
		handler.NewFeedbackHandler(recommendService),
		handler.NewEmbeddingHandler(recommendService),
	)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info().Msg("server stopped")
	return nil
}
