package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"mortgage-engine/config"
	httpLayer "mortgage-engine/http"
	"mortgage-engine/repository"
	"mortgage-engine/service"
)

func newServeCmd(policyPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(*policyPath)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg, logger)
		},
	}
}

// serve runs the API until ctx is cancelled, then drains in-flight requests
// within the configured shutdown timeout.
func serve(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	policy, err := config.LoadPolicy(cfg.Policy.Path)
	if err != nil {
		return err
	}

	store, err := repository.Open(cfg.Storage.Driver, cfg.Storage.DSN)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer store.Close()

	cache, closeCache := newCache(ctx, cfg, logger)
	defer closeCache()

	mortgage := service.NewMortgageMath(policy)
	loanService := service.NewLoanService(store, cache, logger)
	solver := service.SolverConfig{
		Tolerance:     cfg.Solver.Tolerance,
		MaxIterations: cfg.Solver.MaxIterations,
		ShrinkFactor:  cfg.Solver.ShrinkFactor,
		PaymentSlack:  cfg.Solver.PaymentSlack,
	}

	rateLimiter := httpLayer.NewRateLimiter(cfg.RateLimit.Capacity, cfg.RateLimit.Window.Duration)
	defer rateLimiter.Stop()
	if err := rateLimiter.TrustProxies(cfg.RateLimit.TrustedProxies); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}

	handler := httpLayer.NewRouter(httpLayer.Handlers{
		Loan: httpLayer.NewLoanHandler(loanService, logger),
		Term: httpLayer.NewTermRecommendationHandler(
			service.NewTermRecommendationService(loanService, logger), logger),
		Mortgage: httpLayer.NewMortgageHandler(
			mortgage, service.NewAffordabilityService(mortgage, solver, logger), logger),
		Calc: httpLayer.NewCalculatorHandler(
			service.NewInvestmentService(),
			service.NewRefinanceService(),
			service.NewBuydownService(),
			logger,
		),
		Lead: httpLayer.NewLeadHandler(
			service.NewLeadService(cfg.Leads.Endpoint, cfg.Leads.Timeout.Duration, store, logger), logger),
	}, rateLimiter, logger)

	if cfg.Leads.Endpoint == "" {
		logger.Warn("no lead endpoint configured, POST /leads will answer 503")
	}

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout.Duration,
		WriteTimeout: cfg.Server.WriteTimeout.Duration,
		IdleTimeout:  cfg.Server.IdleTimeout.Duration,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("API listening",
			zap.String("addr", server.Addr),
			zap.String("storage", cfg.Storage.Driver),
			zap.String("cache", cfg.Cache.Driver),
			zap.String("policy_version", policy.Metadata.Version),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Duration)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("server exited")
	return nil
}

// newCache returns the configured quote cache. An unreachable Redis falls
// back to the in-memory cache so the API stays up.
func newCache(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.CacheRepository, func()) {
	if cfg.Cache.Driver != "redis" {
		return repository.NewMemoryCache(cfg.Cache.TTL.Duration), func() {}
	}

	redisCache := repository.NewRedisCache(cfg.Cache.RedisAddr, cfg.Cache.TTL.Duration)
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := redisCache.Ping(pingCtx); err != nil {
		logger.Warn("redis unavailable, using in-memory cache",
			zap.String("addr", cfg.Cache.RedisAddr),
			zap.Error(err),
		)
		_ = redisCache.Close()
		return repository.NewMemoryCache(cfg.Cache.TTL.Duration), func() {}
	}
	return redisCache, func() { _ = redisCache.Close() }
}
