// Package config provides configuration management for TouchRelay.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"
)

// Move factor bounds. Values persisted outside this range are clamped on
// load; the UI enforces the same range on input.
const (
	MinMoveFactor     = 0.5
	MaxMoveFactor     = 3.0
	DefaultMoveFactor = 1.5
)

// Config is the application configuration.
type Config struct {
	// MoveFactor scales single-pointer pan deltas before they become
	// relative mouse moves.
	MoveFactor float64 `toml:"move_factor"`

	// ListenAddr is the receiver's HTTP/WebSocket listen address.
	ListenAddr string `toml:"listen_addr"`

	// RemoteAddr is the host:port of the receiver a client connects to.
	RemoteAddr string `toml:"remote_addr"`

	// RemotePath is the WebSocket path on the receiver.
	RemotePath string `toml:"remote_path"`

	// Secure selects wss instead of ws for the client connection.
	Secure bool `toml:"secure"`

	// StartMinimized keeps the receiver in the tray on launch.
	StartMinimized bool `toml:"start_minimized"`
}

// DefaultConfig returns a Config with compiled-in defaults.
func DefaultConfig() *Config {
	return &Config{
		MoveFactor:     DefaultMoveFactor,
		ListenAddr:     "0.0.0.0:8000",
		RemoteAddr:     "127.0.0.1:8000",
		RemotePath:     "/ws",
		StartMinimized: true,
	}
}

// Manager handles loading and saving configuration.
type Manager struct {
	mu         sync.Mutex
	configPath string
	config     *Config
	onChanged  func()
	log        zerolog.Logger
}

// NewManager creates a configuration manager using the per-OS default
// config path. path overrides the default when non-empty.
func NewManager(path string, log zerolog.Logger) (*Manager, error) {
	if path == "" {
		var err error
		path, err = defaultConfigPath()
		if err != nil {
			return nil, err
		}
	}

	return &Manager{
		configPath: path,
		config:     DefaultConfig(),
		log:        log,
	}, nil
}

func defaultConfigPath() (string, error) {
	var configDir string

	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = filepath.Join(home, "Library", "Application Support", "touchrelay")
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			appData = filepath.Join(home, "AppData", "Roaming")
		}
		configDir = filepath.Join(appData, "touchrelay")
	default:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = filepath.Join(home, ".config", "touchrelay")
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", err
	}

	return filepath.Join(configDir, "config.toml"), nil
}

// Load reads the configuration from disk. A missing file keeps the
// defaults. A malformed file is logged and keeps the defaults rather than
// failing; out-of-range values in a well-formed file are clamped.
func (m *Manager) Load() error {
	m.mu.Lock()

	data, err := os.ReadFile(m.configPath)
	if os.IsNotExist(err) {
		m.mu.Unlock()
		return nil
	}
	if err != nil {
		m.mu.Unlock()
		return err
	}

	cfg := DefaultConfig()
	if _, err := toml.Decode(string(data), cfg); err != nil {
		m.log.Warn().Err(err).Str("path", m.configPath).
			Msg("malformed config, falling back to defaults")
		m.config = DefaultConfig()
		m.mu.Unlock()
		return nil
	}

	if cfg.MoveFactor < MinMoveFactor || cfg.MoveFactor > MaxMoveFactor {
		m.log.Warn().Float64("move_factor", cfg.MoveFactor).
			Msg("stored move factor out of range, clamping")
		cfg.MoveFactor = clampMoveFactor(cfg.MoveFactor)
	}

	m.config = cfg
	// Snapshot under the lock, invoke outside it: callbacks are free to
	// read back through the manager.
	fn := m.onChanged
	m.mu.Unlock()

	if fn != nil {
		fn()
	}
	return nil
}

// Save writes the configuration to disk.
func (m *Manager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(m.config); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	return os.WriteFile(m.configPath, buf.Bytes(), 0644)
}

// Get returns a copy of the current configuration.
func (m *Manager) Get() Config {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.config
}

// Set replaces the configuration.
func (m *Manager) Set(cfg Config) {
	m.mu.Lock()
	m.config = &cfg
	fn := m.onChanged
	m.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// MoveFactor returns the current pointer sensitivity. It is safe to call
// from the gesture path on every pan move.
func (m *Manager) MoveFactor() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.config.MoveFactor
}

// SetMoveFactor clamps, stores and persists a new sensitivity value.
func (m *Manager) SetMoveFactor(f float64) error {
	m.mu.Lock()
	m.config.MoveFactor = clampMoveFactor(f)
	fn := m.onChanged
	m.mu.Unlock()

	if fn != nil {
		fn()
	}
	return m.Save()
}

// RegisterChangeCallback registers a function called when config changes.
func (m *Manager) RegisterChangeCallback(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChanged = fn
}

func clampMoveFactor(f float64) float64 {
	if f < MinMoveFactor {
		return MinMoveFactor
	}
	if f > MaxMoveFactor {
		return MaxMoveFactor
	}
	return f
}
