// pattern: Imperative Shell

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"gopkg.in/yaml.v3"
)

// ConfigError reports a configuration file that could not be read, parsed
// or written. The caller continues with defaults.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// LoadInfo describes how a configuration was obtained.
type LoadInfo struct {
	Path     string
	Created  bool     // The file was absent and defaults were written
	Warnings []string // Values replaced by defaults, unknown keys
}

// Store reads and writes one configuration file.
type Store struct {
	path     string
	home     string
	defaults Config
	readOnly bool
}

// NewStore creates a store for path. home is used to expand "~".
func NewStore(path, home string, defaults Config) *Store {
	return &Store{path: path, home: home, defaults: defaults}
}

// ReadOnly returns a copy of the store whose Load returns the defaults for a
// missing file instead of creating it.
func (s *Store) ReadOnly() *Store {
	c := *s
	c.readOnly = true
	return &c
}

// Path returns the configuration file path.
func (s *Store) Path() string {
	return s.path
}

// Load returns the merged configuration. A missing file is created with the
// defaults. A file that cannot be read or parsed yields a *ConfigError
// together with the defaults and is left as it is.
func (s *Store) Load() (Config, LoadInfo, error) {
	info := LoadInfo{Path: s.path}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) && s.readOnly {
		return s.defaults, info, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		created, err := s.CreateIfAbsent(s.defaults)
		if err != nil {
			return s.defaults, info, &ConfigError{Path: s.path, Err: err}
		}
		info.Created = created
		if created {
			return s.defaults, info, nil
		}
		// Another process wrote it first.
		data, err = os.ReadFile(s.path)
		if err != nil {
			return s.defaults, info, &ConfigError{Path: s.path, Err: err}
		}
	} else if err != nil {
		return s.defaults, info, &ConfigError{Path: s.path, Err: err}
	}

	p, raw, err := decode(s.path, data)
	if err != nil {
		return s.defaults, info, &ConfigError{Path: s.path, Err: err}
	}

	cfg, warnings := Merge(s.defaults, p, s.home)
	for _, k := range UnknownKeys(raw) {
		warnings = append(warnings, fmt.Sprintf("unknown key %q ignored", k))
	}
	info.Warnings = warnings
	return cfg, info, nil
}

// CreateIfAbsent writes cfg only when no file exists yet. It reports
// whether the file was created.
func (s *Store) CreateIfAbsent(cfg Config) (bool, error) {
	unlock, err := s.lock()
	if err != nil {
		return false, err
	}
	defer unlock()

	if _, err := os.Stat(s.path); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, err
	}
	if err := s.write(cfg); err != nil {
		return false, err
	}
	return true, nil
}

// Save writes cfg, replacing any existing file.
func (s *Store) Save(cfg Config) error {
	unlock, err := s.lock()
	if err != nil {
		return err
	}
	defer unlock()
	return s.write(cfg)
}

func (s *Store) lock() (func(), error) {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return nil, fmt.Errorf("create config directory: %w", err)
	}
	fl := flock.New(s.path + ".lock")
	if err := fl.Lock(); err != nil {
		return nil, fmt.Errorf("failed to acquire config lock: %w", err)
	}
	return func() { _ = fl.Unlock() }, nil
}

// write replaces the file atomically via a temporary file and rename.
func (s *Store) write(cfg Config) error {
	data, err := encode(s.path, cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "."+filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("rename config: %w", err)
	}
	return nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func decode(path string, data []byte) (Partial, map[string]any, error) {
	var p Partial
	raw := map[string]any{}
	if isYAML(path) {
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return p, nil, fmt.Errorf("parse yaml: %w", err)
		}
		if err := yaml.Unmarshal(data, &p); err != nil {
			return p, nil, fmt.Errorf("parse yaml: %w", err)
		}
		return p, raw, nil
	}

	if err := json.Unmarshal(data, &raw); err != nil {
		return p, nil, fmt.Errorf("parse json: %w", err)
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return p, nil, fmt.Errorf("parse json: %w", err)
	}
	return p, raw, nil
}

func encode(path string, cfg Config) ([]byte, error) {
	if isYAML(path) {
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		return data, nil
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}
	return append(data, '\n'), nil
}
