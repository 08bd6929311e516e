package cmd

import (
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

const envConfigPathKey = "STRONGHOLDCTL_CONFIG_PATH"

const defaultConfigName = ".config/strongholdctl/config.toml"

// FileConfig holds the handful of settings worth persisting across
// invocations instead of repeating on every command line.
//
//nolint:tagalign
type FileConfig struct {
	SnapshotPath string `toml:"snapshot_path,commented" comment:"Path to the stronghold snapshot file (default: '~/.stronghold/vault.snap' if not set)"`
	Argon2       struct {
		MemoryKiB   uint32 `toml:"memory_kib,commented" comment:"Argon2id memory cost in KiB (default: 65536)"`
		Time        uint32 `toml:"time,commented" comment:"Argon2id time cost (default: 1)"`
		Parallelism uint8  `toml:"parallelism,commented" comment:"Argon2id parallelism (default: 4)"`
	} `toml:"argon2"`
}

// loadFileConfig loads the config from the given or default path. A missing
// file at the default location is not an error: it just yields an empty
// config, matching the CLI's hard-coded defaults.
func loadFileConfig(path string) (*FileConfig, error) {
	defaultPath, err := defaultConfigPath()
	if err != nil {
		return nil, err
	}

	configPath := cmp.Or(path, defaultPath)

	c, err := parseFileConfig(configPath)
	if err != nil {
		if len(path) == 0 && errors.Is(err, fs.ErrNotExist) {
			return &FileConfig{}, nil
		}

		return nil, err
	}

	return c, nil
}

func defaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: user home dir: %w", err)
	}

	path := filepath.Join(home, defaultConfigName)
	if p, ok := os.LookupEnv(envConfigPathKey); ok {
		path = p
	}

	return path, nil
}

func parseFileConfig(path string) (*FileConfig, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}

	config := &FileConfig{}
	if err := toml.Unmarshal(raw, config); err != nil {
		return nil, fmt.Errorf("config: parse file: %w", err)
	}

	return config, nil
}
