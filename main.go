package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/lucky-ballot/cliparse"
	"github.com/danielhkuo/lucky-ballot/db"
	"github.com/danielhkuo/lucky-ballot/lottery"
	"github.com/danielhkuo/lucky-ballot/middleware"
	"github.com/danielhkuo/lucky-ballot/notify"
	"github.com/danielhkuo/lucky-ballot/router"
	"github.com/danielhkuo/lucky-ballot/store"
)

func main() {
	// Load .env if present; real env vars win
	if err := godotenv.Load(); err == nil {
		slog.Info("Loaded .env file")
	}

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	// Open the backing store
	st, err := openStore(cfg)
	if err != nil {
		slog.Error("store initialization failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Store ready", "type", cfg.DatabaseType)

	// Build the lottery engine
	engine := lottery.New(st, notify.NewLog(), nil)

	// Create router
	mux := router.NewRouter(st, engine, cfg)

	// Create server
	server := http.Server{
		Handler: middleware.CORS(mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		cancel()
		server.Close()
	}()

	// Run scheduled executions in the background
	go engine.RunScheduler(ctx, cfg.SchedulerInterval)

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}

func openStore(cfg cliparse.Config) (store.Store, error) {
	if cfg.DatabaseType == "memory" {
		return store.NewMemory(), nil
	}

	dbConn, err := sql.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := dbConn.Ping(); err != nil {
		return nil, err
	}
	if err := db.CreateSchema(dbConn, cfg.DatabaseType); err != nil {
		return nil, err
	}
	return store.NewSQL(dbConn, cfg.DatabaseType), nil
}
