package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/platform/tui"
)

var (
	flagSSHAddr string
	flagHostKey string
)

var sshCmd = &cobra.Command{
	Use:   "ssh",
	Short: "Start the SSH server for remote play",
	Long: `Start an SSH server that gives every connection its own game.
Scores are stored per server under the SSH user name.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, uses server.host_key_path from the config (generated if missing)

Examples:
  t2048 ssh                           # Listen on :23234
  t2048 ssh --ssh :2222               # Listen on port 2222
  t2048 ssh --host-key ./my_host_key  # Use specific host key

Users can connect with:
  ssh localhost -p 23234`,
	RunE: runSSH,
}

func init() {
	sshCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH listen address (default from config)")
	sshCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (default from config)")
}

func runSSH(_ *cobra.Command, _ []string) error {
	if flagSSHAddr != "" {
		cfg.Server.SSHAddr = flagSSHAddr
	}
	if flagHostKey != "" {
		cfg.Server.HostKeyPath = flagHostKey
	}

	oracle, err := newOracle()
	if err != nil {
		return err
	}
	game := tui.Options{
		Rows:            cfg.Board.Rows,
		Columns:         cfg.Board.Columns,
		Spawn4:          cfg.Board.Spawn4Probability,
		Name:            cfg.Leaderboard.DefaultName,
		LeaderboardSize: cfg.Leaderboard.Size,
		Oracle:          oracle,
		HintTimeout:     cfg.Hint.Timeout,
		Logger:          logger.WithPrefix("game"),
	}
	if store := openStore(); store != nil {
		defer store.Close()
		game.Scores = store
	}

	server, err := tui.NewSSHServer(tui.SSHServerConfig{
		Address:         cfg.Server.SSHAddr,
		HostKeyPath:     cfg.Server.HostKeyPath,
		IdleTimeout:     cfg.Server.IdleTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Game:            game,
	}, logger.WithPrefix("ssh"))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Starting t2048 SSH server on %s\n", server.Addr())
	fmt.Println("Press Ctrl+C to stop")

	return server.ListenAndServe(ctx)
}
