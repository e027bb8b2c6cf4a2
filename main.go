package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/developersajeeb/code-stack-server/config"
	"github.com/developersajeeb/code-stack-server/controllers"
	"github.com/developersajeeb/code-stack-server/rate"
	"github.com/developersajeeb/code-stack-server/routes"
	"github.com/developersajeeb/code-stack-server/store"
	"github.com/developersajeeb/code-stack-server/store/memstore"
	"github.com/developersajeeb/code-stack-server/store/mongostore"
	"github.com/developersajeeb/code-stack-server/utils"
)

const (
	shutdownTimeout = 10 * time.Second
	sweepInterval   = 5 * time.Minute
)

func main() {
	memory := flag.Bool("memory", false, "use an in-process store instead of MongoDB (development only)")
	flag.Parse()

	// Load environment variables
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})))
	if os.Getenv(gin.EnvGinMode) == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	tokens, err := utils.NewTokenService(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		slog.Error("token service", "error", err)
		os.Exit(1)
	}

	st, err := openStore(cfg, *memory)
	if err != nil {
		slog.Error("store", "error", err)
		os.Exit(1)
	}

	limiter := rate.NewMemory()
	router, err := routes.NewRouter(routes.Deps{
		Handler:        controllers.New(st, tokens),
		Tokens:         tokens,
		Users:          st,
		Limiter:        limiter,
		Limits:         cfg.RateLimits,
		TrustedProxies: cfg.TrustedProxies,
	})
	if err != nil {
		slog.Error("router", "error", err)
		_ = st.Close(context.Background())
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine for graceful shutdown
	go func() {
		slog.Info("server started", "port", cfg.Port, "memory", *memory)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	sweepDone := make(chan struct{})
	go func() {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				limiter.Sweep()
			case <-sweepDone:
				return
			}
		}
	}()

	// Wait for interrupt (Ctrl+C)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server")
	close(sweepDone)

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Warn("server forced to shutdown", "error", err)
	}
	if err := st.Close(ctx); err != nil {
		slog.Warn("error closing store", "error", err)
	} else {
		slog.Info("store closed")
	}
	slog.Info("server exited")
}

func openStore(cfg config.Config, memory bool) (store.Store, error) {
	if memory {
		slog.Warn("using in-memory store; data is lost on exit")
		return memstore.New(), nil
	}

	ctx := context.Background()
	client, err := config.ConnectDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	st := mongostore.New(client, cfg.MongoDB, cfg.DBTimeout)
	if err := st.EnsureIndexes(ctx); err != nil {
		_ = st.Close(ctx)
		return nil, err
	}
	return st, nil
}
