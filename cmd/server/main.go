package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rpggio/pairs/internal/config"
	"github.com/rpggio/pairs/internal/domain/board"
	"github.com/rpggio/pairs/internal/domain/catalog"
	"github.com/rpggio/pairs/internal/domain/history"
	"github.com/rpggio/pairs/internal/domain/progress"
	"github.com/rpggio/pairs/internal/game"
	"github.com/rpggio/pairs/internal/mcp"
	"github.com/rpggio/pairs/internal/sqlite"
	"github.com/rpggio/pairs/internal/transport"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	// Use stderr for logs in stdio mode to keep stdout clean for JSON-RPC.
	logWriter := io.Writer(os.Stdout)
	if cfg.Transport == "stdio" {
		logWriter = os.Stderr
	}
	if cfg.Log.Path != "" {
		fileWriter, err := newLogFileWriter(cfg.Log.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file error: %v\n", err)
		} else {
			defer fileWriter.Close()
			logWriter = fileWriter
		}
	}
	logger := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	if err := ensureDBDir(cfg.DB.Path); err != nil {
		logger.Error("failed to prepare database path", "error", err)
		os.Exit(1)
	}

	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	keys := sqlite.NewAPIKeyRepository(db)
	if len(os.Args) > 1 {
		if err := runCommand(context.Background(), os.Stdout, keys, os.Args[1:]); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(2)
		}
		return
	}

	hub := transport.NewHub(logger)
	svc := newGame(cfg, db, hub, logger)

	mcpServer := mcp.NewServer(mcp.Config{
		Game:          svc,
		Resolver:      keys,
		AuthEnabled:   cfg.Auth.Enabled,
		TransportMode: cfg.Transport,
		DefaultPlayer: cfg.Auth.DefaultPlayer,
		Logger:        logger,
	})

	if cfg.Transport == "stdio" {
		runStdioMode(logger, mcpServer)
		return
	}

	auth := transport.DefaultPlayerMiddleware(cfg.Auth.DefaultPlayer)
	if cfg.Auth.Enabled {
		auth = transport.AuthMiddleware(keys)
	}
	runHTTPMode(logger, transport.RouterConfig{
		RPC:  mcp.NewHandler(svc),
		Hub:  hub,
		MCP:  streamableHandler(mcpServer),
		Auth: auth,
	}, cfg.Server.Host, cfg.Server.Port)
}

func newGame(cfg config.Config, db *sqlite.DB, hub *transport.Hub, logger *slog.Logger) *game.Service {
	seed := cfg.Game.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	dealer := board.NewDealer(catalog.Default(), rand.New(rand.NewPCG(seed, seed>>1|1)))

	return game.NewService(game.Config{
		Dealer:    dealer,
		Progress:  progress.NewService(sqlite.NewProgressRepository(db), logger),
		History:   history.NewService(sqlite.NewHistoryRepository(db), logger),
		Snapshots: sqlite.NewSnapshotRepository(db),
		Scheduler: game.ClockScheduler{},
		Sink:      game.Sinks{hub, game.LogSink{Logger: logger}},
		Timings: game.Timings{
			Memorize:      cfg.Game.MemorizeDelay,
			Resolve:       cfg.Game.ResolveDelay,
			Tick:          cfg.Game.TickInterval,
			AutoTick:      cfg.Game.AutoTick,
			PersistRounds: cfg.Game.PersistRounds,
		},
		Logger: logger,
	})
}

func streamableHandler(mcpServer *sdkmcp.Server) http.Handler {
	return sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{
			Stateless:      false,
			SessionTimeout: 30 * time.Minute,
		},
	)
}

func runStdioMode(logger *slog.Logger, mcpServer *sdkmcp.Server) {
	logger.Info("starting stdio transport", "auth", "disabled")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Run blocks until stdin closes or context is canceled
	if err := mcpServer.Run(ctx, &sdkmcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		logger.Error("stdio server error", "error", err)
		os.Exit(1)
	}
	logger.Info("shutting down")
}

func runHTTPMode(logger *slog.Logger, routes transport.RouterConfig, host string, port int) {
	addr := fmt.Sprintf("%s:%d", host, port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           transport.NewServer(routes),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
		}
	}()

	waitForShutdown(logger, httpServer)
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func waitForShutdown(logger *slog.Logger, server *http.Server) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}
