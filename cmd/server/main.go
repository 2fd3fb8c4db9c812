package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/studentbook/internal/auth"
	"github.com/mmynk/studentbook/internal/config"
	"github.com/mmynk/studentbook/internal/middleware"
	"github.com/mmynk/studentbook/internal/photos"
	"github.com/mmynk/studentbook/internal/records"
	"github.com/mmynk/studentbook/internal/repository"
	"github.com/mmynk/studentbook/internal/service"
	"github.com/mmynk/studentbook/internal/storage/sqlite"
	"github.com/mmynk/studentbook/pkg/logging"
)

const (
	Version = "0.1.0"
	appName = "studentbook"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configPath string

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the Connect server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), configPath)
		},
	}

	cmd := &cobra.Command{
		Use:          appName,
		Short:        "Student records server",
		SilenceUsage: true,
		RunE:         serve.RunE,
	}
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (yaml, json or toml)")

	cmd.AddCommand(serve)
	cmd.AddCommand(&cobra.Command{
		Use:   "schema",
		Short: "Open the database and print its schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchema(cmd, configPath)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
		},
	})

	return cmd
}

func runSchema(cmd *cobra.Command, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logging.SetupWithLevel(logging.ParseLevel(cfg.LogLevel))

	store, err := sqlite.NewContext(cmd.Context(), cfg.Database.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	version, err := store.SchemaVersion(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: schema version %d (build supports %d)\n", cfg.Database.Path, version, sqlite.SchemaVersion)
	return nil
}

func runServe(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logging.SetupWithLevel(logging.ParseLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := sqlite.NewContext(ctx, cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("initialize storage: %w", err)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.Database.Path, "schema_version", sqlite.SchemaVersion)

	photoStore, err := photos.NewFileStore(cfg.Photos.Dir, cfg.Photos.MaxBytes)
	if err != nil {
		return fmt.Errorf("initialize photo store: %w", err)
	}

	jwtSecret := cfg.Auth.JWTSecret
	if jwtSecret == "" {
		jwtSecret = auth.RandomSecret()
		slog.Warn("JWT_SECRET not set; using a random secret, sessions end on restart")
	}
	jwtManager := auth.NewJWTManager(jwtSecret, cfg.Auth.TokenDuration)

	repo := repository.New(store, auth.NewPasswordHasher(cfg.Auth.BcryptCost))
	accounts := records.NewAccounts(repo)
	students := records.NewStudents(repo, cfg.Records.StudentPolicy)
	slog.Info("Student policy", "policy", students.Policy())

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := middleware.NewMetrics(registry)

	mux := http.NewServeMux()

	// Interceptors run outermost first: metrics see auth failures, logging sees the username.
	authPath, authHandler := service.NewAuthServiceHandler(
		service.NewAuthService(accounts, jwtManager, slog.Default()),
		connect.WithInterceptors(metrics.Interceptor(), middleware.OptionalAuth(jwtManager), middleware.LoggingInterceptor()),
	)
	mux.Handle(authPath, authHandler)

	studentPath, studentHandler := service.NewStudentServiceHandler(
		service.NewStudentService(students, photoStore, slog.Default()),
		connect.WithInterceptors(metrics.Interceptor(), middleware.RequireAuth(jwtManager), middleware.LoggingInterceptor()),
		// Base64 inflates photo uploads by a third.
		connect.WithReadMaxBytes(int(cfg.Photos.MaxBytes*2)),
	)
	mux.Handle(studentPath, studentHandler)

	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	h2cHandler := h2c.NewHandler(loggingMiddleware(corsMiddleware(mux)), &http2.Server{})

	server := &http.Server{
		Addr:              cfg.HTTP.Addr(),
		Handler:           h2cHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Connect server starting", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	slog.Info("Shutting down", "timeout", cfg.Global.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Global.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// loggingMiddleware logs all incoming requests
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		slog.Debug("Request received",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"user_agent", r.UserAgent(),
		)

		next.ServeHTTP(w, r)

		slog.Debug("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
