package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mindscape-city/mindscape/internal/api"
	"github.com/mindscape-city/mindscape/internal/app/minigame"
	"github.com/mindscape-city/mindscape/internal/app/reward"
	"github.com/mindscape-city/mindscape/internal/app/rotation"
	"github.com/mindscape-city/mindscape/internal/app/session"
	"github.com/mindscape-city/mindscape/internal/infra/catalog"
	_ "github.com/mindscape-city/mindscape/internal/infra/metrics" // register Prometheus metrics
	"github.com/mindscape-city/mindscape/internal/infra/outbox"
	"github.com/mindscape-city/mindscape/internal/infra/sqlite"
	"github.com/mindscape-city/mindscape/internal/logging"
	"github.com/mindscape-city/mindscape/internal/notify"
	"github.com/mindscape-city/mindscape/internal/scene"
)

// outboxFlushInterval is how often queued completions are retried.
const outboxFlushInterval = 30 * time.Second

// Daemon is the core Mindscape runtime. It wires together all services.
type Daemon struct {
	Config    Config
	Log       *slog.Logger
	DB        *sqlite.DB
	Rotations *rotation.Engine
	Sessions  *session.Controller
	Rewards   *reward.Service
	Scene     *scene.Builder
	Scheduler *notify.Scheduler
	Clicks    *notify.ClickRouter
	Outbox    *outbox.Queue
	Server    *api.Server
	cancel    context.CancelFunc
}

// New creates and initializes a Daemon with all services wired.
func New() (*Daemon, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return NewWithConfig(cfg)
}

// NewWithConfig creates a Daemon with the given configuration.
func NewWithConfig(cfg Config) (*Daemon, error) {
	log, err := logging.Setup(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		return nil, fmt.Errorf("setup logging: %w", err)
	}

	db, err := sqlite.Open(mindscapeHome())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	seed := cfg.Breaks.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	clock := minigame.SystemClock()

	rotations := rotation.NewEngine(rng, catalog.Templates)
	queue := outbox.New(db, log)
	streak := reward.NewStreakTracker()
	sessions := session.New(db, queue, streak, clock, rng, log)
	sessions.SetDailyLimit(cfg.Breaks.MaxDaily)
	rewards := reward.NewService(db, log)
	sceneBuilder := scene.NewBuilder(db, clock, log)

	notifier := notify.NewInAppNotifier(db, clock.Now)
	scheduler := notify.NewScheduler(db, notifier, rewards, rng, clock.Now, log)
	clicks := notify.NewClickRouter(scheduler, clock, log)

	srv := api.NewServer(db, rotations, sessions, rewards, sceneBuilder, clicks, clock.Now)
	if cfg.Telemetry.Prometheus {
		srv.EnableMetrics()
	}

	return &Daemon{
		Config:    cfg,
		Log:       log,
		DB:        db,
		Rotations: rotations,
		Sessions:  sessions,
		Rewards:   rewards,
		Scene:     sceneBuilder,
		Scheduler: scheduler,
		Clicks:    clicks,
		Outbox:    queue,
		Server:    srv,
	}, nil
}

// Serve starts the HTTP server and background loops, blocking until
// shutdown.
func (d *Daemon) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	go d.Scheduler.Run(ctx)
	go d.flushOutboxLoop(ctx)

	addr := fmt.Sprintf("%s:%d", d.Config.API.Host, d.Config.API.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      d.Server.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  2 * time.Minute,
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
		case <-ctx.Done():
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		_ = httpServer.Shutdown(shutdownCtx)
		_ = d.DB.Close()
	}()

	d.Log.Info("mindscape serving", "addr", addr, "metrics", d.Config.Telemetry.Prometheus)
	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// flushOutboxLoop retries queued completions until the context ends.
func (d *Daemon) flushOutboxLoop(ctx context.Context) {
	ticker := time.NewTicker(outboxFlushInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := d.Outbox.Flush(d.Sessions.ReplaySink()); err != nil {
				d.Log.Warn("outbox flush incomplete", "error", err)
			}
		}
	}
}

// Close shuts down all daemon resources.
func (d *Daemon) Close() {
	if d.cancel != nil {
		d.cancel()
	}
	if d.DB != nil {
		_ = d.DB.Close()
	}
}
