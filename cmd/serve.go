package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"capstack/config"
	httpLayer "capstack/http"
	"capstack/repository"
	"capstack/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// newLogger builds the process logger. The level lives in lvl so a config
// reload can change it in place.
func newLogger(w io.Writer, cfg config.LogConfig, lvl *slog.LevelVar) *slog.Logger {
	lvl.Set(cfg.SlogLevel())
	opts := &slog.HandlerOptions{Level: lvl}
	if strings.EqualFold(cfg.Format, "text") {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}

	var level slog.LevelVar
	slog.SetDefault(newLogger(os.Stdout, cfg.Log, &level))

	slog.Info("capstack starting",
		"config", flagConfig,
		"http_port", cfg.Server.HTTPPort,
		"cache", cfg.Cache.Backend,
		"storage", cfg.Storage.Backend,
	)

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	scores, loans, closeStore, err := openStorage(cfg.Storage)
	if err != nil {
		return err
	}
	defer closeStore()

	cache, closeCache, err := openCache(ctx, cfg.Cache)
	if err != nil {
		return err
	}
	defer closeCache()

	advisor := service.NewAdvisor()
	services := httpLayer.Services{
		HealthScore:        service.NewHealthScoreService(scores, cache),
		Loan:               service.NewLoanService(loans),
		TermRecommendation: service.NewTermRecommendationService(advisor),
		DebtExit:           service.NewDebtExitService(advisor),
		Retirement:         service.NewRetirementService(),
		EmergencyFund:      service.NewEmergencyFundService(),
	}

	rateLimiter := httpLayer.NewRateLimiter(cfg.RateLimit.Capacity, cfg.RateLimit.Refill)
	defer rateLimiter.Stop()

	if flagConfig != "" {
		go func() {
			err := config.Watch(ctx, flagConfig, func(next *config.Config) {
				rateLimiter.SetLimits(next.RateLimit.Capacity, next.RateLimit.Refill)
				level.Set(next.Log.SlogLevel())
				slog.Info("config: applied reload",
					"rate_capacity", next.RateLimit.Capacity,
					"rate_refill", next.RateLimit.Refill,
					"log_level", next.Log.Level,
				)
			})
			if err != nil {
				slog.Error("config: watch stopped", "err", err)
			}
		}()
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler:      httpLayer.NewRouter(services, rateLimiter),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		slog.Info("capstack shutting down")
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("error during server shutdown", "err", err)
	}

	slog.Info("server exited")
	return nil
}

func openStorage(cfg config.StorageConfig) (repository.ScoreRepository, repository.LoanRepository, func(), error) {
	if cfg.Backend != config.BackendSQLite {
		return repository.NewScoreRepositoryMemory(), repository.NewLoanRepositoryMemory(), func() {}, nil
	}

	st, err := repository.OpenSQLite(cfg.SQLitePath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("storage: %w", err)
	}
	closeFn := func() {
		if err := st.Close(); err != nil {
			slog.Error("storage: close failed", "err", err)
		}
	}
	return st, st.Loans(), closeFn, nil
}

func openCache(ctx context.Context, cfg config.CacheConfig) (repository.CacheRepository, func(), error) {
	if cfg.Backend != config.BackendRedis {
		return repository.NewMemoryCache(cfg.TTL), func() {}, nil
	}

	rc, err := repository.NewRedisCache(ctx, cfg.RedisAddr, cfg.Password(), cfg.TTL)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if err := rc.Close(); err != nil {
			slog.Error("cache: close failed", "err", err)
		}
	}
	return rc, closeFn, nil
}
