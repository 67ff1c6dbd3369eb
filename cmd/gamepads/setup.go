package main

import (
	"bufio"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/phinze/gamepads/internal/config"
	"github.com/phinze/gamepads/internal/pad"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive setup: write config and store the remote token in the keychain",
	RunE:  runSetup,
}

func runSetup(cmd *cobra.Command, args []string) error {
	reader := bufio.NewReader(os.Stdin)
	fmt.Println("=== Gamepads Setup ===")
	fmt.Println()

	// Start from the current config so Enter keeps each value
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Ignoring unreadable config: %v\n", err)
		cfg = config.Default()
	}
	hadToken := cfg.Remote.Token != ""

	fmt.Println("-- Controller --")
	fmt.Printf("  Layouts: %s\n", joinNames(pad.Layouts()))
	cfg.Layout = prompt(reader, "Layout", cfg.Layout)
	fmt.Printf("  Button pads: %s\n", joinNames(pad.ButtonPads()))
	cfg.ButtonPad = prompt(reader, "Button pad", cfg.ButtonPad)
	cfg.Button.Type = prompt(reader, "Button type (single, turbo, delayed-turbo, single-then-turbo, custom)", cfg.Button.Type)
	fmt.Println()

	fmt.Println("-- Screen --")
	if cfg.Screen.Width, err = promptInt(reader, "Width", cfg.Screen.Width); err != nil {
		return err
	}
	if cfg.Screen.Height, err = promptInt(reader, "Height", cfg.Screen.Height); err != nil {
		return err
	}
	fmt.Println()

	fmt.Println("-- Remote --")
	cfg.Remote.Listen = prompt(reader, "Listen address", cfg.Remote.Listen)

	token := promptSecret(reader, "Pairing token (\"new\" to generate)", hadToken)
	if token == "new" || (token == "" && !hadToken) {
		if token, err = newToken(); err != nil {
			return err
		}
		fmt.Printf("  Generated token: %s\n", token)
	}
	if token != "" {
		if err := config.SetKeychainSecret(config.KeyRemoteToken, token); err != nil {
			return fmt.Errorf("storing token in Keychain: %w", err)
		}
		fmt.Println("  -> Stored in Keychain")
	} else {
		fmt.Println("  -> Kept existing")
	}
	fmt.Println()

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("not saving: %w", err)
	}
	if err := config.WriteConfigFile(cfg, configPath); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	path := configPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	fmt.Printf("Config written to %s\n", path)
	fmt.Println("Setup complete!")
	return nil
}

// prompt asks for a value with an optional default.
func prompt(reader *bufio.Reader, label, defaultVal string) string {
	if defaultVal != "" {
		fmt.Printf("  %s [%s]: ", label, defaultVal)
	} else {
		fmt.Printf("  %s: ", label)
	}
	line, _ := reader.ReadString('\n')
	line = strings.TrimSpace(line)
	if line == "" {
		return defaultVal
	}
	return line
}

func promptInt(reader *bufio.Reader, label string, defaultVal int) (int, error) {
	v := prompt(reader, label, strconv.Itoa(defaultVal))
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", label, err)
	}
	return n, nil
}

// promptSecret asks for a secret value. If one already exists, allows keeping it.
func promptSecret(reader *bufio.Reader, label string, hasExisting bool) string {
	if hasExisting {
		fmt.Printf("  %s [press Enter to keep existing]: ", label)
	} else {
		fmt.Printf("  %s [press Enter to generate]: ", label)
	}
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

func newToken() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func joinNames[T fmt.Stringer](items []T) string {
	names := make([]string, len(items))
	for i, it := range items {
		names[i] = it.String()
	}
	return strings.Join(names, ", ")
}
