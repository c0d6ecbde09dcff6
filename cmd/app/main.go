package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ochaloup/mango-explorer/internal/app"
	"github.com/ochaloup/mango-explorer/internal/exec"
	"github.com/ochaloup/mango-explorer/internal/infra"
	"github.com/ochaloup/mango-explorer/internal/maker"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	dryRun := flag.Bool("dry-run", false, "log instructions instead of executing them")
	flag.Parse()

	bootstrap := app.NewBootstrap()
	if err := bootstrap.Initialize(*configPath); err != nil {
		slog.Error("bootstrap failed", slog.Any("err", err))
		os.Exit(1)
	}
	defer bootstrap.Close()

	// The venue adapter plugs in behind exec.Executor. Without one wired the
	// maker trades against the in-process paper venue.
	var executor exec.Executor = exec.NewPaperExecutor()
	if *dryRun {
		executor = exec.NewMockExecutor(slog.Default())
	}
	executor = exec.NewRateLimited(executor, infra.NewRateLimiter(4, 2))

	hooks := maker.Hooks{
		OnPulseComplete: func(at time.Time) {
			slog.Debug("pulse complete", slog.Time("at", at))
		},
		OnPulseError: func(err error) {
			slog.Warn("pulse error", slog.Any("err", err))
		},
	}
	m, err := bootstrap.BuildMaker(executor, hooks)
	if err != nil {
		slog.Error("building market maker failed", slog.Any("err", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Leave no stale quotes from a previous run before quoting starts.
	if err := m.Cleanup(ctx); err != nil {
		slog.Error("startup cleanup failed", slog.Any("err", err))
		os.Exit(1)
	}

	for _, feed := range bootstrap.Feeds {
		feed.Start(ctx)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		m.Run(gctx)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		// The signal context is gone; give the final cancel its own deadline.
		cleanupCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return m.Cleanup(cleanupCtx)
	})

	slog.Info("market maker running, press Ctrl+C to exit")
	if err := g.Wait(); err != nil {
		slog.Error("shutdown error", slog.Any("err", err))
		os.Exit(1)
	}
	slog.Info("shutdown complete")
}
