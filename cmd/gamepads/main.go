package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/phinze/gamepads/internal/config"
	"github.com/phinze/gamepads/internal/pad"
)

var (
	configPath string
	layoutName string
)

var rootCmd = &cobra.Command{
	Use:           "gamepads",
	Short:         "Virtual joysticks, buttons and swipe gestures for touch surfaces",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default "+config.DefaultConfigPath()+")")
	rootCmd.PersistentFlags().StringVarP(&layoutName, "layout", "l", "", "controller layout, overrides the config file")
	rootCmd.AddCommand(playCmd, deckCmd, remoteCmd, layoutsCmd, setupCmd, statusCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-sigChan:
			log.Println("Received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()
	return ctx, cancel
}

// loadConfig loads and validates the config, applying the --layout flag.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if layoutName != "" {
		cfg.Layout = layoutName
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// buildPad creates the configured layout with a tally attached to its callbacks.
func buildPad(cfg *config.Config, t *tally) (*pad.Pad, error) {
	layout, opts, err := cfg.PadOptions()
	if err != nil {
		return nil, err
	}
	p, err := pad.New(layout, opts)
	if err != nil {
		return nil, err
	}
	t.attach(p)
	return p, nil
}
