// Package runconfig loads an optional sidecar run configuration — letting a
// caller override the hardcoded `./script0.txt` source path, set a path the
// canvas is saved to at exit (none by default), and fix the RNG seed — without touching the
// language itself. Multi-format loading by file extension mirrors
// pkg/config's BridgLinkConfig loader in the teacher repository, which
// accepts the same schema as YAML, JSON, or BCL.
package runconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/oarkflow/bcl"
	"github.com/oarkflow/json"
	"gopkg.in/yaml.v3"
)

// Config is entirely optional: Default(), and any loaded file that leaves
// script_path unset, keeps the hardcoded ./script0.txt path. An empty
// SavePath means no bitmap is saved at exit.
type Config struct {
	ScriptPath string `yaml:"script_path" json:"script_path"`
	SavePath   string `yaml:"save_path" json:"save_path"`
	RandomSeed int64  `yaml:"random_seed" json:"random_seed"`
	HasSeed    bool   `yaml:"-" json:"-"`
}

const DefaultScriptPath = "./script0.txt"

func Default() Config {
	return Config{ScriptPath: DefaultScriptPath}
}

type unmarshalFunc func([]byte, any) error

// Load reads a sidecar config file, dispatching on its extension the same
// way LoadBridgLinkConfig does.
func Load(path string) (Config, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return loadWith(path, yaml.Unmarshal)
	case ".json":
		return loadWith(path, func(data []byte, v any) error {
			return json.Unmarshal(data, v)
		})
	case ".bcl":
		return loadWith(path, func(data []byte, v any) error {
			_, err := bcl.Unmarshal(data, v)
			return err
		})
	default:
		return Config{}, fmt.Errorf("unsupported run config format: %s", ext)
	}
}

func loadWith(path string, unmarshal unmarshalFunc) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	if err := unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	if cfg.ScriptPath == "" {
		cfg.ScriptPath = DefaultScriptPath
	}
	if cfg.RandomSeed != 0 {
		cfg.HasSeed = true
	}
	return cfg, nil
}
