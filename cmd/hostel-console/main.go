// cmd/hostel-console/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"hostel-portal/internal/common/auth"
	"hostel-portal/internal/common/cache"
	"hostel-portal/internal/common/config"
	httpclient "hostel-portal/internal/common/http"
	"hostel-portal/internal/common/logger"
	"hostel-portal/internal/common/observability"
	"hostel-portal/internal/console"
	"hostel-portal/internal/pages"
)

type options struct {
	configPath string
	baseURL    string
	email      string
	password   string
	logLevel   string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:          "hostel-console",
		Short:        "Interactive console for the hostel management portal",
		Long:         "Browse, search, filter and manage hostel records (announcements, complaints, leaves, fees, rooms, users and wardens) against the portal backend.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	f := cmd.Flags()
	f.StringVarP(&opts.configPath, "config", "c", "", "config file (default: configs/config.yaml)")
	f.StringVar(&opts.baseURL, "base-url", "", "backend base URL, overrides backend.base_url")
	f.StringVarP(&opts.email, "email", "e", "", "login email, overrides session.email")
	f.StringVarP(&opts.password, "password", "p", "", "login password, overrides session.password")
	f.StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error")
	return cmd
}

func loadConfig(opts options) (*config.Config, error) {
	// Flags are applied through the environment so config validation sees them.
	for env, val := range map[string]string{
		"BACKEND_BASE_URL": opts.baseURL,
		"SESSION_EMAIL":    opts.email,
		"SESSION_PASSWORD": opts.password,
		"LOGGING_LEVEL":    opts.logLevel,
	} {
		if val != "" {
			_ = os.Setenv(env, val)
		}
	}
	if opts.configPath != "" {
		return config.LoadFromFile(opts.configPath)
	}
	return config.Load()
}

func run(ctx context.Context, opts options, in io.Reader, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(opts)
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}

	zapLog, err := logger.NewWithOutput(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	if err != nil {
		zapLog = logger.New(cfg.Logging.Level, cfg.Logging.Format)
		zapLog.Warn("log output unavailable, logging to stderr", zap.String("output", cfg.Logging.Output), zap.Error(err))
	}
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting hostel console",
		zap.String("backend", cfg.Backend.BaseURL),
		zap.String("environment", cfg.App.Environment),
	)

	obs, err := observability.New(observability.Options{
		ServiceName:    cfg.Telemetry.ServiceName,
		JaegerEndpoint: cfg.Telemetry.JaegerEndpoint,
	})
	if err != nil {
		zapLog.Warn("telemetry degraded", zap.Error(err))
	}
	defer obs.Shutdown()

	if addr := cfg.Telemetry.MetricsAddress; addr != "" {
		srv := startMetricsServer(addr, zapLog)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	var directoryCache pages.Cache
	if cfg.Cache.Redis.Enabled() {
		rc := cache.NewRedis(cfg.Cache.Redis)
		if err := rc.Ping(ctx); err != nil {
			zapLog.Warn("redis unavailable, room directory will not be cached", zap.Error(err))
			_ = rc.Close()
		} else {
			defer rc.Close()
			directoryCache = rc
			zapLog.Info("Redis connected successfully", zap.String("address", cfg.Cache.Redis.Address))
		}
	}

	base := httpclient.NewClient(cfg.Backend.BaseURL, config.GetDuration(cfg.Backend.Timeout),
		httpclient.WithTracer(obs.Tracer()),
		httpclient.WithRecorder(obs),
		httpclient.WithLogger(log),
	)

	session := auth.NewSession(base, cfg.Session)
	user, err := session.Login(ctx)
	if err != nil {
		zapLog.Error("login failed", zap.Error(err))
		return fmt.Errorf("login failed: %w", err)
	}
	zapLog.Info("Signed in", zap.String("user", user.Email), zap.String("role", string(user.Role)))

	deps := pages.Deps{
		Client:             base.WithTokenSource(session),
		Cache:              directoryCache,
		User:               user,
		Logger:             log,
		Debounce:           cfg.Debounce(),
		ItemsPerPage:       cfg.ItemsPerPage,
		RoomDirectoryLimit: cfg.Listing.RoomDirectoryLimit,
	}

	err = console.New(in, out, deps).Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func startMetricsServer(addr string, log *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		log.Info("Metrics server listening", zap.String("address", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Metrics server failed", zap.Error(err))
		}
	}()
	return srv
}
