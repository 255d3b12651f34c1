// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/prototui/internal/util"
)

// =============================================================================
// CONFIG
// =============================================================================

// Config reads and writes a schemaless settings file. The format follows
// the file extension: .toml is TOML, everything else JSON. A missing or
// unparseable file loads as an empty map so first runs and hand-edited
// mistakes never block startup.
type Config struct {
	// path is the settings file location
	path string

	// mu serializes load-modify-save cycles
	mu sync.Mutex
}

// NewConfig creates a Config for the given file path. The file is not
// touched until the first Load or Save.
func NewConfig(path string) *Config {
	return &Config{path: path}
}

// Path returns the settings file location.
func (c *Config) Path() string {
	return c.path
}

// Load reads the settings file. A missing file or one that fails to parse
// yields an empty map; only I/O errors other than non-existence are
// reported.
func (c *Config) Load() (map[string]any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.load()
}

// Save writes the full settings map atomically.
func (c *Config) Save(values map[string]any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.save(values)
}

// Get returns the value stored under key, or fallback when the key is
// absent.
func (c *Config) Get(key string, fallback any) (any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	values, err := c.load()
	if err != nil {
		return fallback, err
	}
	if value, ok := values[key]; ok {
		return value, nil
	}
	return fallback, nil
}

// Set stores value under key, preserving all other keys.
func (c *Config) Set(key string, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	values, err := c.load()
	if err != nil {
		return err
	}
	values[key] = value
	return c.save(values)
}

// load reads and decodes the file. Callers hold c.mu.
func (c *Config) load() (map[string]any, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]any{}, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	values := map[string]any{}
	if c.isTOML() {
		if err := toml.Unmarshal(data, &values); err != nil {
			return map[string]any{}, nil
		}
	} else {
		if err := json.Unmarshal(data, &values); err != nil {
			return map[string]any{}, nil
		}
	}
	return values, nil
}

// save encodes values and writes them atomically. Callers hold c.mu.
func (c *Config) save(values map[string]any) error {
	var data []byte
	if c.isTOML() {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(values); err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}
		data = buf.Bytes()
	} else {
		encoded, err := json.MarshalIndent(values, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}
		data = encoded
	}

	// RELIABILITY: Atomic write with fsync prevents data loss on crash
	// SECURITY: Write with restrictive permissions (0600 = owner read/write only)
	if err := util.AtomicWriteFile(c.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func (c *Config) isTOML() bool {
	return strings.HasSuffix(c.path, ".toml")
}
