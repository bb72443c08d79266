package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/agenthands/casefile/internal/config"
	"github.com/agenthands/casefile/internal/core"
	"github.com/agenthands/casefile/internal/core/assistant"
	"github.com/agenthands/casefile/internal/core/extraction"
	"github.com/agenthands/casefile/internal/driver"
	"github.com/agenthands/casefile/internal/llm"
	"github.com/agenthands/casefile/internal/logger"
	"github.com/agenthands/casefile/internal/server"
)

func main() {
	envErr := godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.toml"
	}
	cfg, cfgErr := config.Load(cfgPath)
	missing := errors.Is(cfgErr, os.ErrNotExist)
	if missing {
		cfg = config.Default()
	}
	if cfgErr != nil && !missing {
		logger.Init(logger.NewConsole(logger.Options{Level: "info"}))
		logger.Fatal("failed to load configuration", "path", cfgPath, "err", cfgErr)
	}
	cfg.ApplyEnv()

	logger.Init(logger.NewConsole(logger.Options{Level: cfg.Log.Level}))
	if envErr != nil {
		logger.Debug("no .env file found, using environment")
	}
	if missing {
		logger.Warn("config file not found, using defaults", "path", cfgPath)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := llm.NewClient(ctx, cfg.LLM)
	if err != nil {
		logger.Fatal("failed to initialize LLM client", "provider", cfg.LLM.Provider, "err", err)
	}

	var mirror core.Mirror
	if cfg.Memgraph.Enabled() {
		d, err := driver.NewMemgraphDriver(ctx, cfg.Memgraph.URI, cfg.Memgraph.User, cfg.Memgraph.Password)
		if err != nil {
			logger.Fatal("failed to connect to memgraph", "err", err)
		}
		defer d.Close(context.Background())
		if err := d.BuildIndices(ctx); err != nil {
			logger.Warn("failed to build indices", "err", err)
		}
		session := uuid.NewString()
		mirror = driver.NewMirror(d, session)
		logger.Info("mirroring board to memgraph", "session", session)
	}

	ws := core.NewWorkspace(
		extraction.NewExtractor(client, cfg.Prompts.Extraction),
		assistant.NewAssistant(client, cfg.Prompts.Assistant),
		mirror,
	)

	gin.SetMode(cfg.Server.GinMode)
	srv := server.NewServer(ws, cfg.Server.MaxUploadBytes)
	httpServer := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           srv.SetupRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return ws.Run(gctx)
	})
	g.Go(func() error {
		logger.Info("starting server", "port", cfg.Server.Port, "provider", cfg.LLM.Provider, "model", cfg.LLM.Model)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("server stopped", "err", err)
	}
	logger.Info("server stopped")
}
