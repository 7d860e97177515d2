package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ZaguanLabs/ltproxy"
	"github.com/ZaguanLabs/ltproxy/cache"
	"github.com/ZaguanLabs/ltproxy/config"
	"github.com/ZaguanLabs/ltproxy/metrics"
	"github.com/ZaguanLabs/ltproxy/provider"
	"github.com/ZaguanLabs/ltproxy/server"
)

type serveFlags struct {
	configFile string
	port       int
	logLevel   string
	dryRun     bool
}

func newServeCmd(stdout, stderr io.Writer) *cobra.Command {
	var flags serveFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the translation proxy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, flags, stdout, stderr)
		},
	}

	cmd.Flags().StringVarP(&flags.configFile, "config", "c", "", "config file path (optional)")
	cmd.Flags().IntVarP(&flags.port, "port", "p", 0, "override listen port")
	cmd.Flags().StringVar(&flags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "validate config and print the backend list without listening")

	return cmd
}

func serve(ctx context.Context, flags serveFlags, stdout, stderr io.Writer) error {
	cfg, err := config.Load(flags.configFile)
	if err != nil {
		return err
	}
	if flags.port != 0 {
		cfg.Server.Port = flags.port
	}
	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	if flags.dryRun {
		printSummary(stdout, cfg)
		return nil
	}

	a, err := buildApp(ctx, cfg, stderr)
	if err != nil {
		return err
	}
	defer a.close()

	a.logger.Info("starting ltproxy",
		"version", ltproxy.FullVersion(),
		"port", cfg.Server.Port,
		"backends", a.backends,
		"cache", cfg.Cache.Backend,
	)
	return a.server.Start(ctx)
}

func printSummary(w io.Writer, cfg *config.Config) {
	fmt.Fprintf(w, "configuration OK\n")
	fmt.Fprintf(w, "  port:     %d\n", cfg.Server.Port)
	fmt.Fprintf(w, "  timeout:  %s\n", cfg.Upstream.Timeout)
	fmt.Fprintf(w, "  cache:    %s (ttl %s, max %d)\n", cfg.Cache.Backend, cfg.Cache.TTL, cfg.Cache.MaxItems)
	for i, u := range cfg.BackendURLs() {
		fmt.Fprintf(w, "  backend %d: %s\n", i+1, u)
	}
	if cfg.OpenAI.Enabled {
		fmt.Fprintf(w, "  backend %d: %s (openai %s)\n", len(cfg.BackendURLs())+1, cfg.OpenAI.BaseURL, cfg.OpenAI.Model)
	}
}

// app holds the wired components of a running proxy.
type app struct {
	logger     *slog.Logger
	dispatcher *ltproxy.Dispatcher
	server     *server.Server
	backends   []string
	closers    []io.Closer
}

func (a *app) close() {
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.logger.Warn("close failed", "error", err)
		}
	}
}

// buildApp wires config into logger, metrics, cache, backends, dispatcher
// and server.
func buildApp(ctx context.Context, cfg *config.Config, logOut io.Writer) (*app, error) {
	logger := newLogger(cfg.Log, logOut)
	collector := metrics.NewCollector(metrics.Config{Namespace: cfg.Metrics.Namespace}, nil)

	a := &app{logger: logger}
	serverOpts := []server.Option{
		server.WithLogger(logger),
		server.WithMetrics(collector),
	}

	var translationCache ltproxy.TranslationCache
	switch cfg.Cache.Backend {
	case config.CacheBackendRedis:
		retry := ltproxy.DefaultRetryConfig()
		retry.OnRetry = func(attempt int, err error, delay time.Duration) {
			logger.Warn("redis not ready, retrying", "attempt", attempt, "delay", delay.String(), "error", err)
		}
		rc, err := ltproxy.WithRetry(ctx, retry, func() (*cache.RedisCache, error) {
			return cache.NewRedisCache(ctx, cache.RedisConfig{
				URL:       cfg.Cache.Redis.URL,
				TTL:       cfg.Cache.TTL,
				KeyPrefix: cfg.Cache.Redis.KeyPrefix,
				Timeout:   cfg.Cache.Redis.Timeout,
			})
		})
		if err != nil {
			return nil, fmt.Errorf("connecting to redis: %w", err)
		}
		rc.SetLogger(logger)
		a.closers = append(a.closers, rc)
		translationCache = rc
	default:
		mem := cache.NewInMemoryCache(
			cache.WithTTL(cfg.Cache.TTL),
			cache.WithMaxItems(cfg.Cache.MaxItems),
			cache.WithEvictionHook(collector.RecordEviction),
		)
		collector.TrackCacheSize(mem.Len)
		serverOpts = append(serverOpts, server.WithCacheExporter(cache.NewExporter(mem)))
		translationCache = mem
	}

	backends := buildBackends(cfg)
	a.dispatcher = ltproxy.NewDispatcher(backends,
		ltproxy.WithCache(translationCache),
		ltproxy.WithTimeout(cfg.Upstream.Timeout),
		ltproxy.WithLogger(logger),
		ltproxy.WithObserver(collector),
	)
	a.backends = a.dispatcher.Backends()

	a.server = server.New(server.Config{
		Port:            cfg.Server.Port,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		MaxBodyBytes:    cfg.Server.MaxBodyBytes,
	}, a.dispatcher, serverOpts...)

	return a, nil
}

// buildBackends returns the LibreTranslate backends in configured order,
// followed by the OpenAI backend when enabled.
func buildBackends(cfg *config.Config) []ltproxy.Backend {
	var backends []ltproxy.Backend
	for _, u := range cfg.BackendURLs() {
		backends = append(backends, provider.NewLibreTranslateBackend(provider.LibreTranslateConfig{
			URL:    u,
			APIKey: cfg.Upstream.APIKey,
		}))
	}
	if cfg.OpenAI.Enabled {
		backends = append(backends, provider.NewOpenAIBackend(provider.OpenAIConfig{
			APIKey:      cfg.OpenAI.APIKey,
			Model:       cfg.OpenAI.Model,
			Temperature: cfg.OpenAI.Temperature,
			BaseURL:     cfg.OpenAI.BaseURL,
		}))
	}
	return backends
}

// newLogger builds the process logger. Records carry the request ID when
// logged with a request context.
func newLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "text") {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}
	return slog.New(server.NewContextHandler(handler))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
