package recipe

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/camp-build/camp/pkgs/platform"
)

// fakeSystem records the calls the lifecycle makes against it.
type fakeSystem struct {
	outputDir string
	calls     []string
	defines   map[string]string
	failPhase string
}

func newFakeSystem(outputDir string) *fakeSystem {
	return &fakeSystem{outputDir: outputDir, defines: map[string]string{}}
}

func (f *fakeSystem) Use(root string) { f.calls = append(f.calls, "use") }

func (f *fakeSystem) Source(dir string)     {}
func (f *fakeSystem) InstallDir(dir string) {}
func (f *fakeSystem) Env(key, val string)   {}

func (f *fakeSystem) OutputDir() string  { return f.outputDir }
func (f *fakeSystem) Define(k, v string) { f.defines[k] = v }

func (f *fakeSystem) DefineBool(k string, v bool) {
	if v {
		f.defines[k] = "ON"
	} else {
		f.defines[k] = "OFF"
	}
}

func (f *fakeSystem) phase(name string) error {
	f.calls = append(f.calls, name)
	if f.failPhase == name {
		return errors.New(name + " exploded")
	}
	return nil
}

func (f *fakeSystem) Configure(args ...string) error { return f.phase("configure") }
func (f *fakeSystem) Build(args ...string) error     { return f.phase("build") }
func (f *fakeSystem) Install(args ...string) error   { return f.phase("install") }

func TestConfigureProjectsOptions(t *testing.T) {
	sys := newFakeSystem(t.TempDir())
	l := &Lifecycle{
		Options:  Options{"shared": true, "with_contrib": false, "cuda_version": "11.7", "jobs": 4},
		System:   sys,
		Platform: platform.Linux,
	}

	if err := l.Configure(); err != nil {
		t.Fatalf("Configure() returned error: %v", err)
	}

	want := map[string]string{
		"SHARED":       "ON",
		"WITH_CONTRIB": "OFF",
		"CUDA_VERSION": "11.7",
		"JOBS":         "4",
	}
	if diff := cmp.Diff(want, sys.defines); diff != "" {
		t.Fatalf("projected variables mismatch (-want +got):\n%s", diff)
	}
}

func TestRunPhaseOrder(t *testing.T) {
	outDir := t.TempDir()
	sys := newFakeSystem(outDir)

	var hookTrace []string
	trace := func(name string) Hook {
		return func(*Lifecycle) error {
			hookTrace = append(hookTrace, name)
			return nil
		}
	}

	l := &Lifecycle{
		System:   sys,
		Platform: platform.Linux,
		Hooks: Hooks{
			PreConfigure:  trace("pre-configure"),
			PostConfigure: trace("post-configure"),
			PreBuild:      trace("pre-build"),
			PostBuild:     trace("post-build"),
			PreInstall:    trace("pre-install"),
			PostInstall:   trace("post-install"),
			PreReport:     trace("pre-report"),
			PostReport:    trace("post-report"),
		},
	}

	if err := l.Run(); err != nil {
		t.Fatalf("Run() returned error: %v", err)
	}

	wantCalls := []string{"configure", "build", "install"}
	if diff := cmp.Diff(wantCalls, sys.calls); diff != "" {
		t.Fatalf("phase calls mismatch (-want +got):\n%s", diff)
	}
	wantHooks := []string{
		"pre-configure", "post-configure",
		"pre-build", "post-build",
		"pre-install", "post-install",
		"pre-report", "post-report",
	}
	if diff := cmp.Diff(wantHooks, hookTrace); diff != "" {
		t.Fatalf("hook order mismatch (-want +got):\n%s", diff)
	}
}

func TestRunAbortsOnPhaseFailure(t *testing.T) {
	sys := newFakeSystem(t.TempDir())
	sys.failPhase = "build"

	l := &Lifecycle{System: sys, Platform: platform.Linux}
	if err := l.Run(); err == nil {
		t.Fatal("Run() did not fail on build error")
	}

	for _, call := range sys.calls {
		if call == "install" {
			t.Fatal("install ran after build failure")
		}
	}
}

func TestHookErrorAborts(t *testing.T) {
	sys := newFakeSystem(t.TempDir())
	boom := errors.New("hook rejected")

	l := &Lifecycle{
		System:   sys,
		Platform: platform.Linux,
		Hooks:    Hooks{PreConfigure: func(*Lifecycle) error { return boom }},
	}
	if err := l.Run(); !errors.Is(err, boom) {
		t.Fatalf("Run() error = %v, want %v", err, boom)
	}
	if len(sys.calls) != 0 {
		t.Fatalf("phases ran after pre-configure hook failure: %v", sys.calls)
	}
}

func TestReportCollectsLibs(t *testing.T) {
	outDir := t.TempDir()
	libDir := filepath.Join(outDir, "lib")
	if err := os.MkdirAll(libDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	for _, name := range []string{"libfoo.a", "libbar.so", "README"} {
		if err := os.WriteFile(filepath.Join(libDir, name), nil, 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	l := &Lifecycle{System: newFakeSystem(outDir), Platform: platform.Linux}
	if err := l.Report(); err != nil {
		t.Fatalf("Report() returned error: %v", err)
	}
	if diff := cmp.Diff([]string{"bar", "foo"}, l.Libs); diff != "" {
		t.Fatalf("Libs mismatch (-want +got):\n%s", diff)
	}
}
