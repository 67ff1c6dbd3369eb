package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/phinze/gamepads/internal/config"
	"github.com/phinze/gamepads/internal/device/hotplug"
	"github.com/phinze/gamepads/internal/pad"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check config, secrets, layout and device health",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Gamepads Status ===")
	fmt.Println()

	allOK := true

	// Config file
	path := configPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	fmt.Printf("Config file: %s\n", path)
	if _, err := os.Stat(path); err == nil {
		fmt.Println("  Status: found")
	} else {
		fmt.Println("  Status: not found, using defaults")
	}

	cfg, err := config.Load(path)
	if err != nil {
		fmt.Printf("  Load error: %v\n", err)
		fmt.Println()
		fmt.Println("Some checks failed. Run 'gamepads setup' to configure.")
		return nil
	}
	if layoutName != "" {
		cfg.Layout = layoutName
	}
	if err := cfg.Validate(); err != nil {
		fmt.Printf("  Invalid: %v\n", err)
		allOK = false
	} else {
		fmt.Println("  Valid: yes")
	}
	fmt.Println()

	// Layout dry run
	fmt.Println("Layout:")
	if layout, opts, err := cfg.PadOptions(); err != nil {
		fmt.Printf("  %v\n", err)
		allOK = false
	} else if p, err := pad.New(layout, opts); err != nil {
		fmt.Printf("  Build error: %v\n", err)
		allOK = false
	} else {
		fmt.Printf("  %s: %d sticks, %d buttons, %d swipe pads\n", p.Layout, len(p.Sticks), len(p.Buttons), len(p.Gestures))
		if layout.UsesButtons() {
			fmt.Printf("  Button pad: %s (%s)\n", p.ButtonPad, opts.ButtonType)
		}
	}
	fmt.Println()

	// Remote
	fmt.Println("Remote:")
	fmt.Printf("  Listen: %s\n", cfg.Remote.Listen)
	if _, err := config.GetKeychainSecret(config.KeyRemoteToken); err == nil {
		fmt.Println("  Token (Keychain): set")
	} else if cfg.Remote.Token != "" {
		fmt.Println("  Token (env): set")
	} else {
		fmt.Println("  Token: NOT SET")
		allOK = false
	}
	fmt.Println()

	// Device check (quick USB probe)
	fmt.Println("Stream Deck:")
	if dev := probeDevice(2 * probeTimeout / 5); dev != nil {
		fmt.Printf("  Device: CONNECTED (%s)\n", dev.GetModelName())
		dev.Close()
	} else {
		fmt.Println("  Device: not detected")
	}
	if hotplug.Supported() {
		fmt.Println("  Hotplug: yes")
	} else {
		fmt.Println("  Hotplug: no, polling")
	}
	fmt.Println()

	if allOK {
		fmt.Println("All checks passed.")
	} else {
		fmt.Println("Some checks failed. Run 'gamepads setup' to configure.")
	}
	return nil
}
