package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/server"
	"github.com/vovakirdan/tui-2048/internal/session"
)

var flagHTTPAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP + WebSocket game service",
	Long: `Start the game service. Clients create sessions, send moves and read
state over JSON; /api/ws streams every applied move of a session.

Routes:
  POST /api/game/new        ?rows=&columns=&encoding=
  POST /api/game/move       ?id=&direction=&encoding=
  GET  /api/game/state      ?id=&encoding=
  GET  /api/game/hint       ?id=
  POST /api/game/replay     {rows, columns, tiles, moves}
  GET  /api/leader-board    ?rows=&columns=
  POST /api/leader-board    ?id=&name=
  GET  /api/ws              ?id=&encoding=
  GET  /healthz

Examples:
  t2048 serve
  t2048 serve --http :9000
  t2048 serve --db ./scores.db --log-level debug`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagHTTPAddr, "http", "", "HTTP listen address (default from config)")
}

func runServe(_ *cobra.Command, _ []string) error {
	if flagHTTPAddr != "" {
		cfg.Server.HTTPAddr = flagHTTPAddr
	}

	manager := session.NewManager(session.ManagerConfig{
		MinSize:       cfg.Board.MinSize,
		MaxSize:       cfg.Board.MaxSize,
		Spawn4:        cfg.Board.Spawn4Probability,
		IdleTTL:       cfg.Session.IdleTTL,
		CleanupPeriod: cfg.Session.CleanupPeriod,
		Seed:          flagSeed,
	}, logger.WithPrefix("session"))
	manager.Start()
	defer manager.Stop()

	opts := server.Options{
		Manager: manager,
		Config:  cfg,
		Logger:  logger.WithPrefix("http"),
	}
	if store := openStore(); store != nil {
		defer store.Close()
		opts.Scores = store
	}
	oracle, err := newOracle()
	if err != nil {
		return err
	}
	opts.Oracle = oracle

	handler, err := server.NewHandler(opts)
	if err != nil {
		return err
	}
	srv := server.New(cfg.Server, handler, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Serving t2048 on %s\n", srv.Addr())
	fmt.Println("Press Ctrl+C to stop")

	return srv.ListenAndServe(ctx)
}
