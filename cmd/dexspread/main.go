package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"dexspread/internal/arbitrage"
	"dexspread/internal/config"
	"dexspread/internal/database"
	"dexspread/internal/exchange"
	"dexspread/internal/report"
	"dexspread/internal/server"

	"golang.org/x/sync/errgroup"
)

func main() {
	configPath := flag.String("config", ".", "directory containing config.yaml")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Error("cannot load config", "path", *configPath, "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}))
	slog.SetDefault(logger)
	logger.Info("Starting DEX spread monitor", "pair", cfg.Pair().String(), "venues", len(cfg.ActiveVenues()))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, &cfg); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("exited with error", "error", err)
		os.Exit(1)
	}
	logger.Info("DEX spread monitor stopped")
}

func run(ctx context.Context, logger *slog.Logger, cfg *config.Config) error {
	rpc, err := exchange.Dial(ctx, cfg.RPC.URL)
	if err != nil {
		return err
	}
	defer rpc.Close()

	opts := exchange.ClientOptions{
		Timeout:      cfg.RequestTimeout(),
		Retries:      cfg.RPC.Retries,
		RetryBackoff: cfg.RetryBackoff(),
	}
	var sources []exchange.QuoteSource
	for _, venue := range cfg.ActiveVenues() {
		client, err := exchange.NewClient(venue, logger, rpc, opts)
		if err != nil {
			return err
		}
		sources = append(sources, client)
	}

	sinks := []report.Sink{report.NewLogSink(logger)}

	if cfg.Database.DSN != "" {
		repo, err := database.Open(ctx, cfg.Database.DSN)
		if err != nil {
			return err
		}
		defer repo.Close()
		sinks = append(sinks, report.NewJournalSink(repo))
	}

	if cfg.Redis.Addr != "" {
		publisher, err := report.NewRedisPublisher(ctx, report.RedisOptions{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			TLSEnabled: cfg.Redis.TLSEnabled,
			Channel:    cfg.Redis.Channel,
		})
		if err != nil {
			return err
		}
		defer publisher.Close()
		sinks = append(sinks, publisher)
	}

	g, ctx := errgroup.WithContext(ctx)

	if cfg.Server.Enabled {
		hub := report.NewHub(logger)
		defer hub.Close()
		sinks = append(sinks, hub)
		srv := server.New(logger, cfg.Server.Addr, hub)
		g.Go(func() error {
			return srv.Run(ctx)
		})
	}

	engine, err := arbitrage.NewEngine(
		logger,
		sources,
		cfg.Pair(),
		cfg.AmountIn(),
		cfg.CostModel(),
		cfg.Interval(),
		report.NewMulti(logger, sinks...),
	)
	if err != nil {
		return err
	}
	g.Go(func() error {
		return engine.Run(ctx)
	})

	return g.Wait()
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
