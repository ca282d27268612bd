package runconfig

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultUsesHardcodedScriptPath(t *testing.T) {
	cfg := Default()
	if cfg.ScriptPath != DefaultScriptPath {
		t.Fatalf("got %q, want %q", cfg.ScriptPath, DefaultScriptPath)
	}
	if cfg.HasSeed {
		t.Fatal("expected HasSeed false by default")
	}
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	content := "script_path: ./other.txt\nrandom_seed: 42\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ScriptPath != "./other.txt" {
		t.Fatalf("got %q, want %q", cfg.ScriptPath, "./other.txt")
	}
	if cfg.RandomSeed != 42 || !cfg.HasSeed {
		t.Fatalf("expected seed 42 and HasSeed true, got %+v", cfg)
	}
}

func TestLoadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.json")
	content := `{"script_path": "./other.txt", "save_path": "./out.bmp"}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ScriptPath != "./other.txt" || cfg.SavePath != "./out.bmp" {
		t.Fatalf("got %+v", cfg)
	}
}

func TestLoadUnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.toml")
	if err := os.WriteFile(path, []byte("x=1"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for an unsupported config format")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
