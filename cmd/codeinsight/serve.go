package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rohankatakam/codeinsight/internal/config"
	"github.com/rohankatakam/codeinsight/internal/logging"
	"github.com/rohankatakam/codeinsight/internal/peer"
	"github.com/rohankatakam/codeinsight/internal/server"
	"github.com/rohankatakam/codeinsight/internal/storage"
	"github.com/spf13/cobra"
)

var (
	serveAddr   string
	serveNoPeer bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP analysis service",
	Long: `Run the HTTP analysis service until SIGINT or SIGTERM.

The service stores jobs and results in the configured backend
(storage.type) and forwards /api/cross-language/sync requests to the
configured peer (peer.url).

Examples:
  # Serve on the default address with in-memory storage
  codeinsight serve

  # Two instances acting as each other's peer
  CODEINSIGHT_PEER_URL=http://localhost:8001 codeinsight serve --addr :8000
  CODEINSIGHT_PEER_URL=http://localhost:8000 codeinsight serve --addr :8001`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.addr)")
	serveCmd.Flags().BoolVar(&serveNoPeer, "no-peer", false, "disable peer synchronization")
}

func runServe(cmd *cobra.Command, args []string) error {
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}
	if serveNoPeer {
		cfg.Peer.URL = ""
	}

	result := cfg.Validate(config.ValidationContextServe)
	for _, w := range result.Warnings {
		logger.Warn(w)
	}
	if err := result.Err(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(ctx, cfg.Storage, logging.Default().Slog())
	if err != nil {
		return err
	}
	defer store.Close()

	var remote peer.Analyzer
	if cfg.Peer.URL != "" {
		client, err := peer.NewClient(cfg.Peer, logging.Default().Slog())
		if err != nil {
			return err
		}
		remote = client
		logger.Infof("Peer service: %s", client.URL())
		// the peer may start later; sync requests fail with 502 until it does
		if err := client.Health(ctx); err != nil {
			logger.WithError(err).Warnf("Peer %s is not answering /health", client.URL())
		}
	} else {
		logger.Info("No peer configured; cross-language sync disabled")
	}

	logger.Infof("CodeInsight %s listening on %s (storage: %s)", Version, cfg.Server.Addr, cfg.Storage.Type)

	srv := server.New(store, remote, logging.Default().Slog(), cfg.Server.MaxBodyBytes)
	if err := srv.ListenAndServe(ctx, cfg.Server); err != nil {
		return err
	}

	logger.Info("Server stopped")
	return nil
}
