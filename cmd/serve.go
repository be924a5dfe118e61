package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/urfave/cli/v3"

	"github.com/docdex/docdex/pkg/api"
	"github.com/docdex/docdex/pkg/config"
	"github.com/docdex/docdex/pkg/core"
	"github.com/docdex/docdex/pkg/engine"
	"github.com/docdex/docdex/pkg/log"
)

// ServeCommand creates the serve command
func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the HTTP query host",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "listen",
				Usage: "Address to listen on (overrides config)",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return serve(ctx, c.String("config"), c.String("listen"))
		},
	}
}

func serve(ctx context.Context, configPath, listenOverride string) error {
	logger := log.For("serve")

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	registry := core.GetGlobalRegistry()
	if err := createProvidersFromConfig(registry, cfg); err != nil {
		return fmt.Errorf("creating providers: %w", err)
	}
	defer func() {
		if err := registry.Close(); err != nil {
			fmt.Printf("Warning: failed to close registry: %v\n", err)
		}
	}()

	eng := engine.New(registry, cfg.MinQueryLength)
	defer eng.Teardown()

	server := api.NewServer(eng, registry)
	mux := http.NewServeMux()
	server.RegisterRoutes(mux)

	listenAddr := cfg.ListenAddr
	if listenOverride != "" {
		listenAddr = listenOverride
	}

	httpServer := &http.Server{
		Addr:         listenAddr,
		Handler:      api.RequestIDMiddleware(api.CorsMiddleware(mux)),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Infof("listening on http://%s", listenAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Signal handling - includes SIGHUP for reload
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	// Set up filesystem watcher for config file
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Warnf("failed to create config file watcher: %v", err)
	} else {
		defer func() {
			if err := watcher.Close(); err != nil {
				logger.Warnf("failed to close config file watcher: %v", err)
			}
		}()

		if err := watcher.Add(configPath); err != nil {
			logger.Warnf("failed to watch config file %s: %v", configPath, err)
		} else {
			logger.Infof("watching config file for changes: %s", configPath)
		}
	}

	fmt.Println("Press Ctrl+C to stop, send SIGHUP to reload, or modify the config file for automatic reload.")

	currentConfig := cfg
	for {
		select {
		case err := <-serverErr:
			return fmt.Errorf("http server: %w", err)
		case sig := <-sigCh:
			switch sig {
			case syscall.SIGHUP:
				logger.Infof("received SIGHUP, reloading configuration")
				if err := reloadConfiguration(configPath, registry, &currentConfig); err != nil {
					logger.Errorf("failed to reload configuration: %v", err)
				} else {
					logger.Infof("configuration reloaded")
				}
			case syscall.SIGINT, syscall.SIGTERM:
				fmt.Println("\nShutting down...")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := httpServer.Shutdown(shutdownCtx); err != nil {
					logger.Warnf("http server shutdown: %v", err)
				}
				return nil
			}
		case event, ok := <-watcher.Events:
			if !ok {
				continue
			}
			// React to write, create, rename, and remove events (editors often use atomic writes)
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
				logger.Infof("config file changed: %s (event: %s), reloading", event.Name, event.Op.String())

				// For rename/remove events the file was replaced, so it has
				// to be re-added to the watcher.
				if event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
					time.Sleep(200 * time.Millisecond)

					if _, err := os.Stat(configPath); os.IsNotExist(err) {
						logger.Warnf("config file was removed and not replaced, skipping reload")
						continue
					}

					if err := watcher.Add(configPath); err != nil {
						logger.Warnf("failed to re-add config file to watcher: %v", err)
					}
				} else {
					// Small delay to ensure the file write is complete
					time.Sleep(100 * time.Millisecond)
				}

				if err := reloadConfiguration(configPath, registry, &currentConfig); err != nil {
					logger.Errorf("failed to reload configuration after file change: %v", err)
				} else {
					logger.Infof("configuration reloaded after file change")
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				continue
			}
			logger.Warnf("config file watcher error: %v", err)
		}
	}
}

// reloadConfiguration swaps the registry's provider instances for the set
// declared in the config file on disk. The engine picks the new instances
// up on the next query; min_query_length changes need a restart.
func reloadConfiguration(configPath string, registry *core.Registry, currentConfig **config.Config) error {
	newCfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading new config: %w", err)
	}

	logger := log.For("serve")

	for _, name := range registry.ListProviders() {
		if _, stillWanted := newCfg.Providers[name]; stillWanted {
			continue
		}
		logger.Infof("removing provider: %s", name)
		if err := registry.RemoveProvider(name); err != nil {
			logger.Warnf("failed to remove provider %s: %v", name, err)
		}
	}

	if err := createProvidersFromConfig(registry, newCfg); err != nil {
		return fmt.Errorf("creating providers: %w", err)
	}

	if newCfg.MinQueryLength != (*currentConfig).MinQueryLength {
		logger.Warnf("min_query_length changed; restart to apply")
	}

	*currentConfig = newCfg
	return nil
}
