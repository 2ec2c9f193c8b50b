// Package python discovers a Python interpreter and its build artifacts
// (headers, link library, version) by running short introspection one-liners
// against the interpreter itself.
package python

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/camp-build/camp/pkgs/memo"
	"github.com/camp-build/camp/pkgs/platform"
	"github.com/camp-build/camp/pkgs/probe"
	"github.com/qiniu/x/log"
)

// Discovery failures.
var (
	ErrInterpreterNotFound = errors.New("python interpreter not found")
	ErrHeaderNotFound      = errors.New("pyconfig.h not found")
	ErrDependencyMissing   = errors.New("python dependency missing")
)

// PythonExecVar is the configuration var a packaged python dependency
// exports to report its own interpreter path.
const PythonExecVar = "python_exec"

// Config selects the interpreter to probe.
type Config struct {
	// Command is an explicit interpreter command or path. Empty picks the
	// conventional command for the platform.
	Command string

	// WithSystem allows falling back to the system interpreter when no
	// explicit command is given.
	WithSystem bool

	// CustomVersion, when set, bypasses live version discovery entirely:
	// version fields come from configuration and the executable path is
	// taken from the dependency named by Dependency.
	CustomVersion string

	// Dependency names the declared dependency backing custom mode.
	Dependency string
}

// DependencyVars looks up a configuration var exported by a declared
// dependency. It reports false when the dependency or var is absent.
type DependencyVars func(dep, name string) (string, bool)

// Probe discovers one interpreter. Every accessor is computed at most once
// per Probe instance; construct a fresh Probe to re-discover.
type Probe struct {
	cfg  Config
	plat platform.Platform
	run  probe.Runner
	deps DependencyVars

	cache memo.Cache
}

// New returns a probe for the configured interpreter. deps may be nil when
// custom mode is not used.
func New(cfg Config, plat platform.Platform, run probe.Runner, deps DependencyVars) *Probe {
	return &Probe{cfg: cfg, plat: plat, run: run, deps: deps}
}

// Executable resolves the interpreter's absolute path by asking the
// interpreter itself for sys.executable.
func (p *Probe) Executable() (string, error) {
	return memo.Get(&p.cache, "executable", func() (string, error) {
		if p.cfg.CustomVersion != "" {
			if p.deps == nil {
				return "", fmt.Errorf("%w: no dependency lookup configured", ErrDependencyMissing)
			}
			exe, ok := p.deps(p.cfg.Dependency, PythonExecVar)
			if !ok {
				return "", fmt.Errorf("%w: %s", ErrDependencyMissing, p.cfg.Dependency)
			}
			return exe, nil
		}

		command := p.cfg.Command
		if command == "" {
			if !p.cfg.WithSystem {
				return "", fmt.Errorf("%w: system interpreter disabled and no command given",
					ErrInterpreterNotFound)
			}
			command = defaultCommand(p.plat)
		}

		out, err := p.run.Run(command, "-c", "import sys; print(sys.executable)")
		if err != nil {
			log.Errorf("python: running %s failed: %v", command, err)
			return "", fmt.Errorf("%w: %v", ErrInterpreterNotFound, err)
		}
		return out, nil
	})
}

// Version returns "major.minor", e.g. "3.11".
func (p *Probe) Version() (string, error) {
	if p.cfg.CustomVersion != "" {
		return p.cfg.CustomVersion, nil
	}
	return memo.Get(&p.cache, "version", func() (string, error) {
		return p.command("import sys; print('{0}.{1}'.format(sys.version_info[0], sys.version_info[1]))")
	})
}

// VersionNoDot returns the version without separator, e.g. "311".
func (p *Probe) VersionNoDot() (string, error) {
	version, err := p.Version()
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(version, ".", ""), nil
}

// SysconfigVar queries a named sysconfig build-configuration variable.
func (p *Probe) SysconfigVar(name string) (string, error) {
	return memo.Get(&p.cache, "var:"+name, func() (string, error) {
		return p.command(fmt.Sprintf("import sysconfig; print(sysconfig.get_config_var('%s'))", name))
	})
}

// SysconfigPath queries a named sysconfig installation path.
func (p *Probe) SysconfigPath(name string) (string, error) {
	return memo.Get(&p.cache, "path:"+name, func() (string, error) {
		return p.command(fmt.Sprintf("import sysconfig; print(sysconfig.get_path('%s'))", name))
	})
}

// Prefix returns the interpreter's installation prefix.
func (p *Probe) Prefix() (string, error) {
	return p.SysconfigVar("prefix")
}

// BinDir returns the interpreter's binary directory.
func (p *Probe) BinDir() (string, error) {
	return p.SysconfigVar("BINDIR")
}

// Stdlib returns the standard library directory.
func (p *Probe) Stdlib() (string, error) {
	return p.SysconfigPath("stdlib")
}

// Lib returns the path of the library a build links against. Windows keeps
// import libraries next to the standard library under libs\pythonNN.lib;
// POSIX systems report it through sysconfig.
func (p *Probe) Lib() (string, error) {
	return memo.Get(&p.cache, "lib", func() (string, error) {
		switch p.plat {
		case platform.Windows:
			stdlib, err := p.Stdlib()
			if err != nil {
				return "", err
			}
			nodot, err := p.VersionNoDot()
			if err != nil {
				return "", err
			}
			return filepath.Join(filepath.Dir(stdlib), "libs", "python"+nodot+".lib"), nil
		case platform.Darwin:
			return p.joinSysconfigVars("LIBDIR", "LIBRARY")
		default:
			return p.joinSysconfigVars("LIBDIR", "LDLIBRARY")
		}
	})
}

// LibLinkName returns the name passed to the linker for Lib.
func (p *Probe) LibLinkName() (string, error) {
	lib, err := p.Lib()
	if err != nil {
		return "", err
	}
	name := filepath.Base(lib)
	if p.plat == platform.Windows {
		return name, nil
	}
	name = strings.TrimSuffix(name, filepath.Ext(name))
	return strings.TrimPrefix(name, "lib"), nil
}

// IncludeDir resolves the header directory, accepting the first candidate
// that actually contains pyconfig.h. The sysconfig "include" path is tried
// first, then the INCLUDEPY variable.
func (p *Probe) IncludeDir() (string, error) {
	return memo.Get(&p.cache, "include_dir", func() (string, error) {
		primary, err := p.SysconfigPath("include")
		if err != nil {
			return "", err
		}
		secondary, err := p.SysconfigVar("INCLUDEPY")
		if err != nil {
			return "", err
		}
		for _, dir := range []string{primary, secondary} {
			if _, statErr := os.Stat(filepath.Join(dir, "pyconfig.h")); statErr == nil {
				return dir, nil
			}
		}
		return "", fmt.Errorf("%w: tried %s and %s", ErrHeaderNotFound, primary, secondary)
	})
}

func (p *Probe) joinSysconfigVars(dirVar, fileVar string) (string, error) {
	dir, err := p.SysconfigVar(dirVar)
	if err != nil {
		return "", err
	}
	file, err := p.SysconfigVar(fileVar)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, file), nil
}

// command runs a one-liner against the resolved interpreter.
func (p *Probe) command(oneLiner string) (string, error) {
	exe, err := p.Executable()
	if err != nil {
		return "", err
	}
	out, err := p.run.Run(exe, "-c", oneLiner)
	if err != nil {
		log.Errorf("python: running %q failed: %v", oneLiner, err)
		return "", fmt.Errorf("%w: %v", probe.ErrExecution, err)
	}
	return out, nil
}

func defaultCommand(plat platform.Platform) string {
	if plat == platform.Windows {
		return "python"
	}
	return "python3"
}
