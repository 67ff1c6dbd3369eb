// Package config provides configuration loading from YAML or TOML files, the
// system keychain, and environment variables. Environment variables take
// precedence for dev flexibility.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/zalando/go-keyring"
	"gopkg.in/yaml.v3"

	"github.com/phinze/gamepads/internal/pad"
	"github.com/phinze/gamepads/internal/widget"
	"github.com/phinze/gamepads/internal/widgets/button"
	"github.com/phinze/gamepads/internal/widgets/gesture"
	"github.com/phinze/gamepads/internal/widgets/joystick"
)

const (
	// KeychainService is the keychain service name for gamepads secrets.
	KeychainService = "gamepads"

	// KeyRemoteToken is the keychain account holding the remote pairing token.
	KeyRemoteToken = "remote-token"
)

// Config holds the full application configuration, assembled from file + keychain + env.
type Config struct {
	Layout    string         `yaml:"layout" toml:"layout"`
	ButtonPad string         `yaml:"button_pad" toml:"button_pad"`
	Screen    ScreenConfig   `yaml:"screen" toml:"screen"`
	Joystick  JoystickConfig `yaml:"joystick" toml:"joystick"`
	Button    ButtonConfig   `yaml:"button" toml:"button"`
	Gesture   GestureConfig  `yaml:"gesture" toml:"gesture"`
	Remote    RemoteConfig   `yaml:"remote" toml:"remote"`
	Deck      DeckConfig     `yaml:"deck" toml:"deck"`
}

// ScreenConfig is the size of the emulator window and the remote surface.
type ScreenConfig struct {
	Width  int `yaml:"width" toml:"width"`
	Height int `yaml:"height" toml:"height"`
}

// JoystickConfig holds the settings shared by every stick of a layout.
type JoystickConfig struct {
	MaxDistance     float64 `yaml:"max_distance" toml:"max_distance"`
	TopSpeed        float64 `yaml:"top_speed" toml:"top_speed"`
	SingleDirection bool    `yaml:"single_direction" toml:"single_direction"`
	Float           bool    `yaml:"float" toml:"float"`
	Analog          bool    `yaml:"analog" toml:"analog"`
}

// ButtonConfig holds the settings shared by every button of a layout.
type ButtonConfig struct {
	Type     string        `yaml:"type" toml:"type"`
	Cooldown time.Duration `yaml:"cooldown" toml:"cooldown"`
}

// GestureConfig holds gesture recognizer settings. An empty sector keeps the
// layout's own.
type GestureConfig struct {
	Mode      string  `yaml:"mode" toml:"mode"`
	Sector    string  `yaml:"sector,omitempty" toml:"sector,omitempty"`
	Threshold float64 `yaml:"threshold" toml:"threshold"`
}

// RemoteConfig holds the browser bridge settings.
type RemoteConfig struct {
	Listen string `yaml:"listen" toml:"listen"`
	Token  string `yaml:"-" toml:"-"` // secret, not in the file
}

// DeckConfig holds Stream Deck settings.
type DeckConfig struct {
	Brightness int `yaml:"brightness" toml:"brightness"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	stick := joystick.DefaultSettings()
	return &Config{
		Layout:    pad.DoubleStick.String(),
		ButtonPad: pad.ThreeFan.String(),
		Screen:    ScreenConfig{Width: 960, Height: 540},
		Joystick: JoystickConfig{
			MaxDistance:     stick.MaxDistance,
			TopSpeed:        stick.TopSpeed,
			SingleDirection: stick.SingleDirection,
			Float:           stick.Float,
			Analog:          stick.Analog,
		},
		Button:  ButtonConfig{Type: button.SingleThenTurbo.String()},
		Gesture: GestureConfig{Mode: gesture.Swipe.String(), Threshold: gesture.DefaultThreshold},
		Remote:  RemoteConfig{Listen: ":8377"},
		Deck:    DeckConfig{Brightness: 80},
	}
}

// DefaultConfigDir returns the default config directory path.
func DefaultConfigDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "gamepads")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	if p := os.Getenv("GAMEPADS_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// Load assembles configuration from the file at path (or the default path
// when empty) + keychain + environment variables. A missing file is not an
// error. Environment variables always take precedence.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigPath()
	}
	cfg := Default()

	// 1. Try to load the config file
	if data, err := os.ReadFile(path); err == nil {
		if err := decode(path, data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	// 2. Layer in keychain secrets (ignore errors, the keychain may not be populated)
	if token, err := keyring.Get(KeychainService, KeyRemoteToken); err == nil {
		cfg.Remote.Token = token
	}

	// 3. Environment variables override everything
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	if isTOML(path) {
		_, err := toml.Decode(string(data), cfg)
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func applyEnv(cfg *Config) error {
	strs := map[string]*string{
		"GAMEPADS_LAYOUT":         &cfg.Layout,
		"GAMEPADS_BUTTON_PAD":     &cfg.ButtonPad,
		"GAMEPADS_BUTTON_TYPE":    &cfg.Button.Type,
		"GAMEPADS_GESTURE_MODE":   &cfg.Gesture.Mode,
		"GAMEPADS_GESTURE_SECTOR": &cfg.Gesture.Sector,
		"GAMEPADS_REMOTE_LISTEN":  &cfg.Remote.Listen,
		"GAMEPADS_REMOTE_TOKEN":   &cfg.Remote.Token,
	}
	for env, dst := range strs {
		if v := os.Getenv(env); v != "" {
			*dst = v
		}
	}

	ints := map[string]*int{
		"GAMEPADS_SCREEN_WIDTH":    &cfg.Screen.Width,
		"GAMEPADS_SCREEN_HEIGHT":   &cfg.Screen.Height,
		"GAMEPADS_DECK_BRIGHTNESS": &cfg.Deck.Brightness,
	}
	for env, dst := range ints {
		if v := os.Getenv(env); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s: %w", env, err)
			}
			*dst = n
		}
	}

	floats := map[string]*float64{
		"GAMEPADS_JOYSTICK_MAX_DISTANCE": &cfg.Joystick.MaxDistance,
		"GAMEPADS_JOYSTICK_TOP_SPEED":    &cfg.Joystick.TopSpeed,
		"GAMEPADS_GESTURE_THRESHOLD":     &cfg.Gesture.Threshold,
	}
	for env, dst := range floats {
		if v := os.Getenv(env); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("%s: %w", env, err)
			}
			*dst = f
		}
	}

	if v := os.Getenv("GAMEPADS_BUTTON_COOLDOWN"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("GAMEPADS_BUTTON_COOLDOWN: %w", err)
		}
		cfg.Button.Cooldown = d
	}
	return nil
}

// StickSettings returns the joystick settings described by the config.
func (c *Config) StickSettings() joystick.Settings {
	return joystick.Settings{
		MaxDistance:     c.Joystick.MaxDistance,
		TopSpeed:        c.Joystick.TopSpeed,
		SingleDirection: c.Joystick.SingleDirection,
		Float:           c.Joystick.Float,
		Analog:          c.Joystick.Analog,
	}
}

// PadOptions resolves the layout and the options to build it with.
func (c *Config) PadOptions() (pad.Layout, pad.Options, error) {
	layout, err := pad.ParseLayout(c.Layout)
	if err != nil {
		return 0, pad.Options{}, err
	}

	opts := pad.Options{
		Stick:          c.StickSettings(),
		Cooldown:       c.Button.Cooldown,
		SwipeThreshold: c.Gesture.Threshold,
	}
	if opts.ButtonType, err = button.ParseType(c.Button.Type); err != nil {
		return 0, pad.Options{}, err
	}
	if opts.GestureMode, opts.GestureSector, err = c.GestureTarget(); err != nil {
		return 0, pad.Options{}, err
	}
	if layout.UsesButtons() {
		if opts.ButtonPad, err = pad.ParseButtonPad(c.ButtonPad); err != nil {
			return 0, pad.Options{}, err
		}
	}
	return layout, opts, nil
}

// GestureTarget parses the gesture mode and the optional sector override.
// An empty mode means swipe.
func (c *Config) GestureTarget() (gesture.Mode, widget.Sector, error) {
	mode := gesture.Swipe
	if c.Gesture.Mode != "" {
		m, err := gesture.ParseMode(c.Gesture.Mode)
		if err != nil {
			return 0, 0, fmt.Errorf("gesture: %w", err)
		}
		mode = m
	}
	if c.Gesture.Sector == "" {
		return mode, 0, nil
	}
	sector, err := widget.ParseSector(c.Gesture.Sector)
	if err != nil {
		return 0, 0, fmt.Errorf("gesture: %w", err)
	}
	return mode, sector, nil
}

// Validate reports the first configuration error, so bad settings are
// rejected at startup rather than when a widget is built.
func (c *Config) Validate() error {
	if _, _, err := c.PadOptions(); err != nil {
		return err
	}
	if err := c.StickSettings().Validate(); err != nil {
		return fmt.Errorf("joystick: %w", err)
	}
	if c.Button.Cooldown < 0 {
		return fmt.Errorf("button: cooldown must not be negative, got %v", c.Button.Cooldown)
	}
	if !(c.Gesture.Threshold > 0) {
		return fmt.Errorf("gesture: threshold must be positive, got %v", c.Gesture.Threshold)
	}
	if c.Screen.Width <= 0 || c.Screen.Height <= 0 {
		return fmt.Errorf("screen: size must be positive, got %dx%d", c.Screen.Width, c.Screen.Height)
	}
	if c.Deck.Brightness < 0 || c.Deck.Brightness > 100 {
		return fmt.Errorf("deck: brightness must be 0-100, got %d", c.Deck.Brightness)
	}
	return nil
}

// WriteConfigFile writes the non-secret portion of config to path, or to the
// default path when empty. Paths ending in .toml are written as TOML.
func WriteConfigFile(cfg *Config, path string) error {
	if path == "" {
		path = DefaultConfigPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	var data []byte
	if isTOML(path) {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return fmt.Errorf("marshaling config: %w", err)
		}
		data = buf.Bytes()
	} else {
		var err error
		if data, err = yaml.Marshal(cfg); err != nil {
			return fmt.Errorf("marshaling config: %w", err)
		}
	}

	return os.WriteFile(path, data, 0o644)
}

// SetKeychainSecret stores a secret in the system keychain.
func SetKeychainSecret(account, value string) error {
	// Delete first to avoid "already exists" errors on update
	_ = keyring.Delete(KeychainService, account)
	return keyring.Set(KeychainService, account, value)
}

// GetKeychainSecret retrieves a secret from the system keychain.
func GetKeychainSecret(account string) (string, error) {
	return keyring.Get(KeychainService, account)
}
