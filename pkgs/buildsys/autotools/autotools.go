// Package autotools wraps the configure/make/make install workflow.
package autotools

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/camp-build/camp/pkgs/buildsys"
)

// AutoTools drives configure-script based builds.
type AutoTools struct {
	sourceDir  string
	buildDir   string
	installDir string
	vars       map[string]string
	switches   map[string]bool
	env        map[string]string
}

var _ buildsys.BuildSystem = (*AutoTools)(nil)

// New returns a ready-to-use AutoTools.
func New(sourceDir, buildDir, installDir string) *AutoTools {
	return &AutoTools{
		sourceDir:  sourceDir,
		buildDir:   buildDir,
		installDir: installDir,
		vars:       make(map[string]string),
		switches:   make(map[string]bool),
		env:        make(map[string]string),
	}
}

// Source overrides the source directory.
func (a *AutoTools) Source(dir string) { a.sourceDir = dir }

// InstallDir overrides the install directory.
func (a *AutoTools) InstallDir(dir string) { a.installDir = dir }

// Define passes a KEY=value assignment to configure (e.g. CC, CFLAGS).
func (a *AutoTools) Define(key, value string) {
	a.vars[key] = value
}

// DefineBool turns a feature switch into --enable-<key> or --disable-<key>.
// Underscores in key become dashes and the name is lowercased.
func (a *AutoTools) DefineBool(key string, value bool) {
	a.switches[switchName(key)] = value
}

// Env sets an environment variable for the configure and make invocations.
func (a *AutoTools) Env(key, value string) {
	a.env[key] = value
	_ = os.Setenv(key, value)
}

// Use configures the process environment so that configure and compilers
// find headers, libraries and pkg-config files from a non-system
// dependency installed at root.
func (a *AutoTools) Use(root string) {
	includeDir := filepath.Join(root, "include")
	libDir := filepath.Join(root, "lib")
	pkgconfigDir := filepath.Join(libDir, "pkgconfig")

	if _, err := os.Stat(pkgconfigDir); err == nil {
		prependPath("PKG_CONFIG_PATH", pkgconfigDir)
	}

	if runtime.GOOS == "windows" {
		if _, err := os.Stat(includeDir); err == nil {
			prependPath("INCLUDE", includeDir)
		}
		if _, err := os.Stat(libDir); err == nil {
			prependPath("LIB", libDir)
		}
	} else {
		if _, err := os.Stat(includeDir); err == nil {
			appendFlag("CPPFLAGS", "-I"+includeDir)
		}
		if _, err := os.Stat(libDir); err == nil {
			appendFlag("LDFLAGS", "-L"+libDir)
		}
	}
}

// Configure runs the configure script from the build directory with all
// configured options. Extra args are appended at the end.
func (a *AutoTools) Configure(args ...string) error {
	if err := os.MkdirAll(a.buildDir, 0o755); err != nil {
		return err
	}
	exe := filepath.Join(a.sourceDir, "configure")
	configArgs := []string{}
	if a.installDir != "" {
		configArgs = append(configArgs, "--prefix="+a.installDir)
	}
	configArgs = append(configArgs, a.optionArgs()...)
	configArgs = append(configArgs, args...)
	return a.run(exe, configArgs)
}

// Build runs make in the build directory.
func (a *AutoTools) Build(args ...string) error {
	return a.run("make", args)
}

// Install runs make install in the build directory.
func (a *AutoTools) Install(args ...string) error {
	makeArgs := append([]string{"install"}, args...)
	return a.run("make", makeArgs)
}

// OutputDir returns installDir if set, otherwise buildDir.
func (a *AutoTools) OutputDir() string {
	if a.installDir != "" {
		return a.installDir
	}
	return a.buildDir
}

func (a *AutoTools) run(name string, args []string) error {
	cmd := exec.Command(name, args...)
	cmd.Dir = a.buildDir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if len(a.env) > 0 {
		cmd.Env = mergeEnv(os.Environ(), a.env)
	}
	return cmd.Run()
}

func (a *AutoTools) optionArgs() []string {
	args := make([]string, 0, len(a.switches)+len(a.vars))
	names := make([]string, 0, len(a.switches))
	for name := range a.switches {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if a.switches[name] {
			args = append(args, "--enable-"+name)
		} else {
			args = append(args, "--disable-"+name)
		}
	}
	keys := make([]string, 0, len(a.vars))
	for k := range a.vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		args = append(args, k+"="+a.vars[k])
	}
	return args
}

func switchName(key string) string {
	return strings.ToLower(strings.ReplaceAll(key, "_", "-"))
}

func mergeEnv(base []string, override map[string]string) []string {
	envMap := make(map[string]string, len(base))
	for _, kv := range base {
		if k, v, ok := strings.Cut(kv, "="); ok {
			envMap[k] = v
		}
	}
	for k, v := range override {
		envMap[k] = v
	}
	keys := make([]string, 0, len(envMap))
	for k := range envMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+envMap[k])
	}
	return out
}

func prependPath(key, value string) {
	sep := ":"
	if runtime.GOOS == "windows" {
		sep = ";"
	}
	if cur := os.Getenv(key); cur != "" {
		value += sep + cur
	}
	os.Setenv(key, value)
}

func appendFlag(key, flag string) {
	if cur := os.Getenv(key); cur != "" {
		flag = cur + " " + flag
	}
	os.Setenv(key, flag)
}
