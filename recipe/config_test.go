package recipe

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const sampleConfig = `
name: opencv
version: 4.5.5
options:
  shared: true
  cuda_version: "11.7"
  with_contrib: false
build:
  type: RelWithDebInfo
  generator: Ninja
  source: upstream
python:
  custom_version: "3.10"
  dependency: cpython
`

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(sampleConfig))
	if err != nil {
		t.Fatalf("ParseConfig() returned error: %v", err)
	}

	want := &Config{
		Name:    "opencv",
		Version: "4.5.5",
		Options: Options{
			"shared":       true,
			"cuda_version": "11.7",
			"with_contrib": false,
		},
		Build:  BuildConfig{System: "cmake", Type: "RelWithDebInfo", Generator: "Ninja", Source: "upstream"},
		Python: PythonConfig{CustomVersion: "3.10", Dependency: "cpython"},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("ParseConfig() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte("name: zlib\n"))
	if err != nil {
		t.Fatalf("ParseConfig() returned error: %v", err)
	}
	if cfg.Build.System != "cmake" {
		t.Fatalf("default build system = %q, want cmake", cfg.Build.System)
	}
	if cfg.Build.Type != "Release" {
		t.Fatalf("default build type = %q, want Release", cfg.Build.Type)
	}
	if cfg.Build.Source != "." {
		t.Fatalf("default source = %q, want .", cfg.Build.Source)
	}
	if cfg.Options == nil {
		t.Fatal("Options not initialized")
	}
}

func TestParseConfigRejectsUnknownSystem(t *testing.T) {
	if _, err := ParseConfig([]byte("name: zlib\nbuild:\n  system: bazel\n")); err == nil {
		t.Fatal("ParseConfig() with unknown build system did not fail")
	}
}

func TestParseConfigRequiresName(t *testing.T) {
	if _, err := ParseConfig([]byte("version: 1.0\n")); err == nil {
		t.Fatal("ParseConfig() without name did not fail")
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFile)
	if err := os.WriteFile(path, []byte("name: zlib\nversion: 1.3\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() returned error: %v", err)
	}
	if cfg.Name != "zlib" || cfg.Version != "1.3" {
		t.Fatalf("LoadConfig() = %+v", cfg)
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("LoadConfig() on a missing file did not fail")
	}
}
