package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/merge2048/internal/transport/ws"
)

var flagWSAddr string

var wsCmd = &cobra.Command{
	Use:   "ws",
	Short: "Start the websocket server",
	Long: `Serve 2048 sessions over websocket.

Connect to /ws?mode=classic&session=<id>. Clients that give the same session
id share one board. Without a session id a new one is generated and returned
in the first message.

Requests:
  {"action":"move","direction":"left"}
  {"action":"undo"}  {"action":"new"}  {"action":"keep_playing"}  {"action":"state"}

GET /healthz reports the number of open sessions.

Examples:
  merge2048 ws
  merge2048 ws --addr 127.0.0.1:9000`,
	Run: runWS,
}

func init() {
	wsCmd.Flags().StringVar(&flagWSAddr, "addr", ":8080", "HTTP listen address")
}

func runWS(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	logger := newLogger(os.Stderr, "merge2048-ws")

	opts := ws.Options{Config: cfg, Logger: logger, Seed: flagSeed}
	if store := openStore(logger); store != nil {
		defer store.Close()
		opts.Store = store
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := ws.ListenAndServe(ctx, flagWSAddr, ws.NewHub(opts)); err != nil {
		logger.Error("server stopped", "error", err)
		stop()
		os.Exit(1)
	}
}
