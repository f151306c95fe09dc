package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"textcore/buffer"
	"textcore/killring"
)

type Config struct {
	UndoLimit     int      `json:"undo_limit"`
	KillRingMax   int      `json:"kill_ring_max"`
	FileEncodings []string `json:"file_encodings"`
	UseClipboard  bool     `json:"use_clipboard"`
	WatchFiles    bool     `json:"watch_files"`
}

func Default() *Config {
	return &Config{
		UndoLimit:     buffer.DefaultUndoLimit,
		KillRingMax:   killring.DefaultMax,
		FileEncodings: append([]string(nil), buffer.DefaultFileEncodings...),
		UseClipboard:  true,
		WatchFiles:    false,
	}
}

// BufferOptions returns the buffer options implied by the config.
func (c *Config) BufferOptions() []buffer.Option {
	return []buffer.Option{
		buffer.WithUndoLimit(c.UndoLimit),
		buffer.WithFileEncodings(c.FileEncodings),
	}
}

func ConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "textcore", "settings.json")
}

func Load() (*Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom reads the config at path. Keys missing from the file keep
// their defaults, and a missing file yields Default().
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if len(cfg.FileEncodings) == 0 {
		cfg.FileEncodings = append([]string(nil), buffer.DefaultFileEncodings...)
	}
	return cfg, nil
}

func (c *Config) Save() error {
	return c.SaveTo(ConfigPath())
}

func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
