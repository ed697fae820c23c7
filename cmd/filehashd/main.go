// Command filehashd serves SHA-256 digests of the files in a storage backend
// over HTTP, caching the most valuable results in memory.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/filehash/pkg/cache"
	"github.com/dmitrymomot/filehash/pkg/clientip"
	"github.com/dmitrymomot/filehash/pkg/config"
	"github.com/dmitrymomot/filehash/pkg/environment"
	"github.com/dmitrymomot/filehash/pkg/file"
	"github.com/dmitrymomot/filehash/pkg/httpserver"
	"github.com/dmitrymomot/filehash/pkg/logger"
	"github.com/dmitrymomot/filehash/pkg/requestid"
	"github.com/dmitrymomot/filehash/pkg/workerpool"
	"github.com/dmitrymomot/filehash/svc/filehash"
)

type appConfig struct {
	Env  string `env:"APP_ENV" envDefault:"development"`
	Name string `env:"APP_NAME" envDefault:"filehashd"`
}

func main() {
	if err := run(); err != nil {
		slog.Error("filehashd exited", logger.Error(err))
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		appCfg     appConfig
		logCfg     logger.Config
		svcCfg     filehash.Config
		storageCfg file.Config
		httpCfg    httpserver.Config
	)
	if err := config.Load(&appCfg); err != nil {
		return err
	}
	if err := config.Load(&logCfg); err != nil {
		return err
	}

	env := environment.Parse(appCfg.Env)
	log := logger.New(
		logger.WithEnvironment(env, appCfg.Name),
		logger.WithConfig(logCfg),
		logger.WithContextExtractors(
			requestid.LoggerExtractor(),
			clientip.LoggerExtractor(),
		),
	)
	logger.SetAsDefault(log)

	for _, load := range []func() error{
		func() error { return config.Load(&svcCfg) },
		func() error { return config.Load(&storageCfg) },
		func() error { return config.Load(&httpCfg) },
	} {
		if err := load(); err != nil {
			return err
		}
	}

	storage, err := file.New(ctx, storageCfg)
	if err != nil {
		return err
	}

	c := cache.New(svcCfg.CacheCapacity, cache.WithLogger(log.With(logger.Component("cache"))))
	evictor := cache.NewEvictor(c, cache.WithEvictorLogger(log.With(logger.Component("evictor"))))
	pool := workerpool.New(svcCfg.MaxConcurrent,
		workerpool.WithAdmissionTimeout(svcCfg.AdmissionTimeout),
		workerpool.WithLogger(log.With(logger.Component("workerpool"))),
	)
	svc := filehash.New(c, pool, storage,
		filehash.WithLogger(log.With(logger.Component("pipeline"))),
		filehash.WithEvictor(evictor),
	)

	router := filehash.Router(svc, log.With(logger.Component("http")))
	srv := httpserver.NewFromConfig(httpCfg, httpserver.WithLogger(log))

	log.InfoContext(ctx, "starting",
		slog.String("storage", string(storageCfg.Driver)),
		slog.Int("cache_capacity", svcCfg.CacheCapacity),
		slog.Int("max_concurrent", svcCfg.MaxConcurrent),
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return evictor.Run(ctx) })
	g.Go(func() error { return srv.Run(ctx, router) })
	return g.Wait()
}
