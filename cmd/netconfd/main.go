package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/onehostcloud/cloud-init/internal/config"
	"github.com/onehostcloud/cloud-init/internal/editor"
	"github.com/onehostcloud/cloud-init/internal/utils"
	"github.com/onehostcloud/cloud-init/internal/watcher"
)

func main() {
	manifestPath := flag.String("config", config.DefaultManifestPath, "path to the manifest file")
	logPath := flag.String("log", utils.DefaultLogPath, "path to the log file")
	flag.Parse()

	// The managed files normally live under /etc.
	if os.Geteuid() != 0 {
		fmt.Fprintln(os.Stderr, "Error: netconfd must be run as root")
		os.Exit(1)
	}

	logger, err := utils.NewLogger(*logPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	logger.Info("=== Starting netconfd ===")

	manifest, err := config.Load(*manifestPath)
	if err != nil {
		logger.Error("Failed to load manifest: %v", err)
		os.Exit(1)
	}
	logger.Info("Loaded manifest from %s", *manifestPath)

	applier := editor.NewApplier(manifest, logger)
	if err := applier.Apply(); err != nil {
		logger.Error("Initial apply failed: %v", err)
		os.Exit(1)
	}

	// Outside edits to the managed files or the manifest trigger a
	// re-apply; manifest changes are picked up fresh from disk.
	watched := []string{manifest.HostsPath, manifest.ResolvConfPath, *manifestPath}
	w, err := watcher.NewWatcher(watched, logger, func(path string) error {
		if path == *manifestPath {
			reloaded, err := config.Reload(*manifestPath)
			if err != nil {
				return fmt.Errorf("failed to reload manifest: %w", err)
			}
			manifest = reloaded
			applier = editor.NewApplier(manifest, logger)
		}
		return applier.Apply()
	})
	if err != nil {
		logger.Error("Failed to start watcher: %v", err)
		os.Exit(1)
	}
	defer w.Close()
	w.Start()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh

	logger.Info("Received %s, shutting down", sig)
}
