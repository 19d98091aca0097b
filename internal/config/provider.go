package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

const (
	appDirName = "tuicher"
	fileName   = "config.json"
)

// Provider loads and persists the configuration.
type Provider interface {
	Load() (*Config, error)
	Save(cfg *Config) error
	Path() string
}

// DefaultDir returns the per-user configuration directory.
func DefaultDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve user config dir: %w", err)
	}
	return filepath.Join(base, appDirName), nil
}

// FileProvider stores the configuration as JSON under a directory.
type FileProvider struct {
	dir string
	log zerolog.Logger
	mu  sync.Mutex
}

// NewFileProvider creates a provider rooted at dir.
func NewFileProvider(dir string, log zerolog.Logger) *FileProvider {
	return &FileProvider{
		dir: dir,
		log: log.With().Str("component", "config").Logger(),
	}
}

// Path returns the config file location.
func (p *FileProvider) Path() string {
	return filepath.Join(p.dir, fileName)
}

// Load reads the config file. A missing file is created with defaults.
// Keys absent from the file keep their default values.
func (p *FileProvider) Load() (*Config, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	data, err := os.ReadFile(p.Path())
	if errors.Is(err, fs.ErrNotExist) {
		cfg := Default()
		if err := p.write(cfg); err != nil {
			return nil, err
		}
		p.log.Info().Str("path", p.Path()).Msg("wrote default config")
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := ValidateDocument(data); err != nil {
		return nil, err
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	p.log.Debug().
		Int("plugins", len(cfg.Plugins)).
		Int("bookmarks", len(cfg.Bookmarks)).
		Msg("config loaded")
	return cfg, nil
}

// Save validates and writes cfg, replacing the existing file.
func (p *FileProvider) Save(cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.write(cfg)
}

func (p *FileProvider) write(cfg *Config) error {
	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	tmp, err := os.CreateTemp(p.dir, fileName+".*")
	if err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := os.Rename(tmp.Name(), p.Path()); err != nil {
		return fmt.Errorf("failed to replace config: %w", err)
	}
	return nil
}

// MemoryProvider keeps the configuration in memory. Used by tests and dry runs.
type MemoryProvider struct {
	mu  sync.Mutex
	cfg *Config
}

// NewMemoryProvider starts from cfg, or the defaults when cfg is nil.
func NewMemoryProvider(cfg *Config) *MemoryProvider {
	if cfg == nil {
		cfg = Default()
	}
	return &MemoryProvider{cfg: cfg.Clone()}
}

func (p *MemoryProvider) Load() (*Config, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cfg.Clone(), nil
}

func (p *MemoryProvider) Save(cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cfg = cfg.Clone()
	return nil
}

func (p *MemoryProvider) Path() string { return ":memory:" }
