package cmake

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefinesArgsSortedAndTyped(t *testing.T) {
	c := New("src", "build", "")
	c.Define("FOO", "BAR")
	c.DefineBool("ENABLE", true)
	c.DefineBool("DISABLE", false)

	want := []string{
		"-DDISABLE:BOOL=OFF",
		"-DENABLE:BOOL=ON",
		"-DFOO:STRING=BAR",
	}
	if diff := cmp.Diff(want, c.definesArgs()); diff != "" {
		t.Fatalf("definesArgs() mismatch (-want +got):\n%s", diff)
	}
}

func TestOutputDirPrefersInstall(t *testing.T) {
	c := New("src", "build", "")
	if got := c.OutputDir(); got != "build" {
		t.Fatalf("default OutputDir = %q, want %q", got, "build")
	}
	c.InstallDir("custom-install")
	if got := c.OutputDir(); got != "custom-install" {
		t.Fatalf("OutputDir after InstallDir = %q, want %q", got, "custom-install")
	}
}

func TestUseSetsEnv(t *testing.T) {
	tempDir := t.TempDir()
	includeDir := filepath.Join(tempDir, "include")
	libDir := filepath.Join(tempDir, "lib")
	pkgconfigDir := filepath.Join(libDir, "pkgconfig")

	for _, dir := range []string{includeDir, libDir, pkgconfigDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}

	for _, key := range []string{
		"PKG_CONFIG_PATH",
		"CMAKE_PREFIX_PATH",
		"CMAKE_INCLUDE_PATH",
		"CMAKE_LIBRARY_PATH",
		"INCLUDE",
		"LIB",
		"CPPFLAGS",
		"LDFLAGS",
	} {
		t.Setenv(key, "")
	}

	c := New("src", "build", "")
	c.Use(tempDir)

	expectEq := map[string]string{
		"PKG_CONFIG_PATH":    pkgconfigDir,
		"CMAKE_PREFIX_PATH":  tempDir,
		"CMAKE_INCLUDE_PATH": includeDir,
		"CMAKE_LIBRARY_PATH": libDir,
	}
	for k, v := range expectEq {
		if got := os.Getenv(k); got != v {
			t.Fatalf("%s = %q, want %q", k, got, v)
		}
	}

	if runtime.GOOS == "windows" {
		if got := os.Getenv("INCLUDE"); got != includeDir {
			t.Fatalf("INCLUDE = %q, want %q", got, includeDir)
		}
		if got := os.Getenv("LIB"); got != libDir {
			t.Fatalf("LIB = %q, want %q", got, libDir)
		}
	} else {
		if got := os.Getenv("CPPFLAGS"); strings.TrimSpace(got) != "-I"+includeDir {
			t.Fatalf("CPPFLAGS = %q, want %q", got, "-I"+includeDir)
		}
		if got := os.Getenv("LDFLAGS"); strings.TrimSpace(got) != "-L"+libDir {
			t.Fatalf("LDFLAGS = %q, want %q", got, "-L"+libDir)
		}
	}
}

func TestEnvIsMerged(t *testing.T) {
	t.Setenv("CMAKE_TEST_SENTINEL", "")

	c := New("src", "build", "")
	c.Env("CMAKE_TEST_SENTINEL", "VAL")

	merged := mergeEnv(os.Environ(), c.env)
	found := false
	for _, kv := range merged {
		if kv == "CMAKE_TEST_SENTINEL=VAL" {
			found = true
			break
		}
	}
	if !found {
		t.Fatal("merged env is missing CMAKE_TEST_SENTINEL=VAL")
	}
}
