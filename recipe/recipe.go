// Package recipe provides the shared helpers packaging recipes build on:
// declared options, on-disk configuration, toolchain probes, and the
// configure/build/install/report lifecycle.
//
// A Recipe and everything it owns is used from a single goroutine; each run
// constructs fresh recipes, so probe caches never leak between builds.
package recipe

import (
	"fmt"

	"github.com/camp-build/camp/pkgs/platform"
	"github.com/camp-build/camp/pkgs/probe"
	"github.com/camp-build/camp/pkgs/probe/cuda"
	"github.com/camp-build/camp/pkgs/probe/python"
)

// Options declares the recipe's configuration surface: option name to value
// (bool, string, or number).
type Options map[string]any

// Bool returns the named option as a bool.
func (o Options) Bool(name string) (value, ok bool) {
	v, ok := o[name]
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

// String returns the named option rendered as a plain string, or "" when
// the option is absent.
func (o Options) String(name string) string {
	v, ok := o[name]
	if !ok {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// ProjectValue renders an option value as a native build-system variable
// value. Booleans become "ON"/"OFF"; everything else is converted to its
// plain string form.
func ProjectValue(v any) string {
	switch x := v.(type) {
	case bool:
		if x {
			return "ON"
		}
		return "OFF"
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}

// Dependency is a built dependency visible to the recipe. Vars carries the
// configuration it exports, e.g. its own interpreter path.
type Dependency struct {
	Name string
	Root string
	Vars map[string]string
}

// Dependencies indexes declared dependencies by name.
type Dependencies map[string]Dependency

// Var looks up a configuration var exported by the named dependency.
func (d Dependencies) Var(dep, name string) (value string, ok bool) {
	info, ok := d[dep]
	if !ok {
		return "", false
	}
	value, ok = info.Vars[name]
	return value, ok
}

// Recipe bundles a loaded configuration with the probes a concrete recipe
// needs. Each Recipe owns fresh probe caches.
type Recipe struct {
	Config   *Config
	Deps     Dependencies
	Platform platform.Platform
	Runner   probe.Runner

	cudaProbe   *cuda.Probe
	pythonProbe *python.Probe
}

// New returns a recipe for the current platform using the real process
// runner.
func New(cfg *Config, deps Dependencies) *Recipe {
	return NewFor(cfg, deps, platform.Current(), probe.ExecRunner{})
}

// NewFor returns a recipe with an explicit platform and runner.
func NewFor(cfg *Config, deps Dependencies, plat platform.Platform, run probe.Runner) *Recipe {
	return &Recipe{Config: cfg, Deps: deps, Platform: plat, Runner: run}
}

// CUDA returns the recipe's SDK probe, built from the cuda_version and
// cuda_root options.
func (r *Recipe) CUDA() *cuda.Probe {
	if r.cudaProbe == nil {
		req := cuda.Request{
			Version: r.Config.Options.String("cuda_version"),
			Root:    r.Config.Options.String("cuda_root"),
		}
		r.cudaProbe = cuda.New(req, r.Platform, r.Runner)
	}
	return r.cudaProbe
}

// Python returns the recipe's interpreter probe, built from the python
// options and the recipe's declared dependencies.
func (r *Recipe) Python() *python.Probe {
	if r.pythonProbe == nil {
		cfg := python.Config{
			Command:       r.Config.Options.String("python"),
			WithSystem:    true,
			CustomVersion: r.Config.Python.CustomVersion,
			Dependency:    r.Config.Python.Dependency,
		}
		if v, ok := r.Config.Options.Bool("with_system_python"); ok {
			cfg.WithSystem = v
		}
		r.pythonProbe = python.New(cfg, r.Platform, r.Runner, r.Deps.Var)
	}
	return r.pythonProbe
}

// Shared reports whether the recipe builds shared libraries.
func (r *Recipe) Shared() bool {
	v, _ := r.Config.Options.Bool("shared")
	return v
}

// CudaRuntimeLib returns the cudart artifact this recipe links against,
// honoring the shared option.
func (r *Recipe) CudaRuntimeLib() string {
	return cuda.RuntimeLibName(r.Platform, r.Shared())
}
