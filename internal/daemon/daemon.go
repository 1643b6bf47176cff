package daemon

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/tutu-network/kudos/internal/api"
	"github.com/tutu-network/kudos/internal/app/engagement"
	"github.com/tutu-network/kudos/internal/app/tags"
	"github.com/tutu-network/kudos/internal/health"
	"github.com/tutu-network/kudos/internal/infra/catalog"
	"github.com/tutu-network/kudos/internal/infra/classifier"
	"github.com/tutu-network/kudos/internal/infra/sqlite"
	"github.com/tutu-network/kudos/internal/infra/tuning"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Daemon is the kudos runtime. It wires together all services.
type Daemon struct {
	Config Config
	Logger *zap.Logger
	DB     *sqlite.DB // nil when no data dir is configured

	Tuning    *tuning.Store
	Templates *catalog.Catalog
	Model     *classifier.LogisticModel

	Compliments *engagement.ComplimentEngine
	Nudges      *engagement.NudgeEngine
	Evaluator   *engagement.Evaluator
	Tags        *tags.Service
	Health      *health.Checker
	Server      *api.Server

	cancel context.CancelFunc
}

// New creates and initializes a Daemon with all services wired.
func New(version string) (*Daemon, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	return NewWithConfig(cfg, version)
}

// NewWithConfig creates a Daemon with the given configuration.
func NewWithConfig(cfg Config, version string) (*Daemon, error) {
	logger, err := NewLogger(cfg.Logging)
	if err != nil {
		return nil, err
	}
	d := &Daemon{Config: cfg, Logger: logger}
	if err := d.wire(version); err != nil {
		d.Close()
		return nil, err
	}
	return d, nil
}

func (d *Daemon) wire(version string) error {
	cfg, logger := d.Config, d.Logger

	// ─── Configuration sources ─────────────────────────────────────────

	store, err := tuning.Load(cfg.Paths.Tuning, logger)
	if err != nil {
		return fmt.Errorf("load tuning: %w", err)
	}
	d.Tuning = store

	d.Templates = catalog.Default()
	if cfg.Paths.Templates != "" {
		if d.Templates, err = catalog.Load(cfg.Paths.Templates); err != nil {
			return fmt.Errorf("load templates: %w", err)
		}
	}

	if d.Model, err = classifier.Load(cfg.Paths.Model); err != nil {
		return fmt.Errorf("load model: %w", err)
	}

	if cfg.Paths.DataDir != "" {
		if d.DB, err = sqlite.Open(cfg.Paths.DataDir); err != nil {
			return fmt.Errorf("open database: %w", err)
		}
	}

	// ─── Engines ───────────────────────────────────────────────────────

	seed := cfg.Engine.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	composer := engagement.NewComposer(d.Templates, rand.New(rand.NewPCG(seed, seed)), logger)

	t := store.Tuning()
	d.Compliments = engagement.NewComplimentEngine(t, d.Model, composer, logger)
	d.Nudges = engagement.NewNudgeEngine(t, composer, logger)
	d.Evaluator = engagement.NewEvaluator(d.Compliments, d.Nudges, store, logger)

	var revisions tags.RevisionLog
	if d.DB != nil {
		revisions = d.DB
	}
	d.Tags = tags.NewService(store, revisions, logger)

	// ─── Health and transport ──────────────────────────────────────────

	d.Health = health.NewChecker(health.Deps{
		Tuning:        store,
		TemplatesFile: cfg.Paths.Templates,
		ModelFile:     cfg.Paths.Model,
		Compliments:   d.Compliments,
		Nudges:        d.Nudges,
		DB:            d.DB,
	}, parseDuration(cfg.Health.CheckInterval, 60*time.Second), logger)

	d.Server = api.NewServer(d.Evaluator, d.Tags, logger)
	d.Server.SetHealth(d.Health)
	d.Server.SetVersions(d.Model.Version(), version)
	d.Server.SetTimeout(parseDuration(cfg.API.RequestTimeout, 30*time.Second))
	if cfg.Telemetry.Prometheus {
		d.Server.EnableMetrics()
	}

	logger.Info("kudos wired",
		zap.String("tuning", store.Path()),
		zap.String("templates", d.Templates.Source()),
		zap.String("model_version", d.Model.Version()),
		zap.Bool("revision_log", d.DB != nil))
	return nil
}

// SetClock pins both engines to a fixed time source.
func (d *Daemon) SetClock(now func() time.Time) {
	d.Compliments.SetClock(now)
	d.Nudges.SetClock(now)
}

// Serve starts the HTTP server and blocks until ctx ends or a signal arrives.
func (d *Daemon) Serve(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	d.cancel = cancel

	addr := fmt.Sprintf("%s:%d", d.Config.API.Host, d.Config.API.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      d.Server.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  2 * time.Minute,
	}

	g, gctx := errgroup.WithContext(ctx)

	// Health checker (always runs)
	g.Go(func() error {
		d.Health.Run(gctx)
		return nil
	})

	g.Go(func() error {
		d.Logger.Info("kudos serving", zap.String("addr", "http://"+addr),
			zap.Bool("metrics", d.Config.Telemetry.Prometheus))
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		d.Logger.Info("kudos shutting down")
		return httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// Close shuts down all daemon resources.
func (d *Daemon) Close() {
	if d.cancel != nil {
		d.cancel()
	}
	if d.DB != nil {
		_ = d.DB.Close()
	}
	if d.Logger != nil {
		_ = d.Logger.Sync()
	}
}

// parseDuration parses a duration string, returning a fallback on error.
func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
