package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	goredis "github.com/redis/go-redis/v9"

	rediscache "github.com/wadjakorntonsri/folio/pkg/adapters/cache/redis"
	"github.com/wadjakorntonsri/folio/pkg/adapters/handler"
	"github.com/wadjakorntonsri/folio/pkg/adapters/repository/sqlite"
	"github.com/wadjakorntonsri/folio/pkg/catalog"
	"github.com/wadjakorntonsri/folio/pkg/config"
	"github.com/wadjakorntonsri/folio/pkg/core/services"
	"github.com/wadjakorntonsri/folio/pkg/logger"
	"github.com/wadjakorntonsri/folio/pkg/ports"
)

// App holds the wired services shared by the server, the serverless
// handler and the CLI.
type App struct {
	cfg         *config.Config
	log         logger.Logger
	redisClient *goredis.Client

	Repo       *sqlite.SQLiteRepository
	Catalog    *catalog.Catalog
	Links      *services.LinkService
	Profiles   *services.ProfileService
	Engagement *services.EngagementService
	Handler    http.Handler
}

// New opens the database, connects Redis when configured and builds the router
func New(ctx context.Context, cfg *config.Config, log logger.Logger) (*App, error) {
	cat := catalog.Default()
	if cfg.CatalogFile != "" {
		loaded, err := catalog.Load(cfg.CatalogFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load catalog: %w", err)
		}
		cat = loaded
		log.Info("catalog loaded", logger.String("file", cfg.CatalogFile))
	}

	repo, err := sqlite.NewSQLiteRepository(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	a := &App{cfg: cfg, log: log, Repo: repo, Catalog: cat}

	// Left as a nil interface when Redis is not configured.
	var cache ports.PageCache
	if cfg.RedisAddr != "" {
		client, err := rediscache.Connect(ctx, rediscache.DefaultConnectOptions(
			cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.RedisConnectTimeout,
		), log)
		if err != nil {
			_ = repo.Close()
			return nil, err
		}
		a.redisClient = client
		cache = rediscache.NewPageStore(client, cfg.PageCacheTTL)
	} else {
		log.Info("REDIS_ADDR not set, public page cache disabled")
	}

	a.Links = services.NewLinkService(repo, cat, cache, log)
	a.Profiles = services.NewProfileService(repo, repo, cat, cache, log)
	a.Engagement = services.NewEngagementService(repo, log)

	a.Handler = handler.NewRouter(cfg, log, handler.Deps{
		Links:      a.Links,
		Profiles:   a.Profiles,
		Engagement: a.Engagement,
		Catalog:    cat,
		Ready:      a.ready,
	})

	return a, nil
}

func (a *App) ready(ctx context.Context) error {
	if err := a.Repo.Ping(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if a.redisClient != nil {
		if err := a.redisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
	}
	return nil
}

// Run serves HTTP until ctx is canceled, then drains in-flight requests
// within ShutdownTimeout.
func (a *App) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              ":" + a.cfg.Port,
		Handler:           a.Handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("server starting", logger.String("addr", server.Addr), logger.String("env", a.cfg.AppEnv))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		a.log.Info("shutting down gracefully", logger.Duration("timeout", a.cfg.ShutdownTimeout))
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server error: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Close releases the database and Redis connections
func (a *App) Close() error {
	var errs []error
	if a.redisClient != nil {
		errs = append(errs, a.redisClient.Close())
	}
	errs = append(errs, a.Repo.Close())
	return errors.Join(errs...)
}
