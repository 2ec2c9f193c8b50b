// Package cuda discovers a locally installed CUDA SDK.
//
// A recipe may pin the SDK version, the install root, both, or neither.
// When both are pinned the installation found at the root must report
// exactly the requested version. When neither is pinned the supported
// versions are probed newest-first and the first existing install root wins.
package cuda

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/camp-build/camp/pkgs/memo"
	"github.com/camp-build/camp/pkgs/platform"
	"github.com/camp-build/camp/pkgs/probe"
	"github.com/qiniu/x/log"
	"golang.org/x/mod/semver"
)

// Discovery failures.
var (
	ErrUnsupportedVersion = errors.New("unsupported CUDA SDK version")
	ErrSDKNotFound        = errors.New("CUDA SDK not found")
	ErrSDKValidation      = errors.New("CUDA SDK validation failed")
)

// DefaultVersion is the SDK generation assumed by recipes that pin nothing.
const DefaultVersion = "11.7"

// SupportedVersions returns the SDK versions recipes may request,
// oldest first.
func SupportedVersions() []string {
	return []string{"11.0", "11.1", "11.2", "11.4", "11.5", "11.6", "11.7", "11.8", "12.0", "12.1"}
}

// ArchList returns the compute capabilities passed to nvcc arch selection.
func ArchList() []string {
	return []string{"6.0", "6.1", "7.0", "7.2", "7.5", "8.0", "8.6", "8.7", "9.0"}
}

// Request pins the SDK a recipe wants. Empty fields mean "any".
type Request struct {
	Version string
	Root    string
}

// Installation describes a resolved SDK. It never changes once resolved.
type Installation struct {
	Root       string
	Version    string
	BinDir     string
	LibDir     string
	IncludeDir string
}

// Probe resolves a CUDA SDK installation. Results are computed at most once
// per Probe instance; construct a fresh Probe to re-discover.
type Probe struct {
	req  Request
	plat platform.Platform
	run  probe.Runner

	// rootTemplate overrides the platform install naming convention.
	// The template must contain one %s for the version.
	rootTemplate string

	cache memo.Cache
}

// New returns a probe for the requested SDK.
func New(req Request, plat platform.Platform, run probe.Runner) *Probe {
	return &Probe{req: req, plat: plat, run: run}
}

// SetRootTemplate replaces the OS install-root naming convention,
// e.g. "/opt/cuda-%s".
func (p *Probe) SetRootTemplate(tpl string) {
	p.rootTemplate = tpl
}

// Resolve discovers the installation. Resolving twice on the same probe
// yields the identical result without re-probing.
func (p *Probe) Resolve() (Installation, error) {
	return memo.Get(&p.cache, "installation", p.resolve)
}

// Root returns the resolved SDK root directory.
func (p *Probe) Root() (string, error) {
	inst, err := p.Resolve()
	return inst.Root, err
}

// Version returns the resolved SDK version.
func (p *Probe) Version() (string, error) {
	inst, err := p.Resolve()
	return inst.Version, err
}

func (p *Probe) resolve() (Installation, error) {
	root, version := p.req.Root, p.req.Version

	if root == "" {
		foundRoot, foundVersion, err := p.findRootAndVersion(version)
		if err != nil {
			return Installation{}, err
		}
		if version != "" && foundVersion != version {
			return Installation{}, fmt.Errorf("%w: requested %s, found %s",
				ErrSDKValidation, version, foundVersion)
		}
		root, version = foundRoot, foundVersion
	}

	if version != "" {
		if !p.Validate(root, version) {
			return Installation{}, fmt.Errorf("%w: %s does not provide version %s",
				ErrSDKValidation, root, version)
		}
	} else {
		v, err := p.InstalledVersion(root)
		if err != nil {
			return Installation{}, err
		}
		version = v
	}

	return Installation{
		Root:       root,
		Version:    version,
		BinDir:     filepath.Join(root, "bin"),
		LibDir:     libDir(root, p.plat),
		IncludeDir: filepath.Join(root, "include"),
	}, nil
}

// findRootAndVersion probes candidate install roots and returns the first
// that exists. An explicit version is checked against the supported set
// before any filesystem access; without one the candidates are tried
// newest-first.
func (p *Probe) findRootAndVersion(requested string) (root, version string, err error) {
	candidates := SupportedVersions()
	sort.Slice(candidates, func(i, j int) bool {
		return semver.Compare("v"+candidates[i], "v"+candidates[j]) > 0
	})

	if requested != "" {
		if !supported(requested) {
			return "", "", fmt.Errorf("%w: %s", ErrUnsupportedVersion, requested)
		}
		candidates = []string{requested}
	}

	tpl := p.rootTemplate
	if tpl == "" {
		tpl = rootTemplate(p.plat)
	}
	if tpl == "" {
		return "", "", fmt.Errorf("%w: no install convention for %s", ErrSDKNotFound, p.plat)
	}

	for _, v := range candidates {
		candidate := fmt.Sprintf(tpl, v)
		if _, statErr := os.Stat(candidate); statErr == nil {
			log.Infof("found CUDA SDK %s at %s", v, candidate)
			return candidate, v, nil
		}
	}

	if requested == "" {
		requested = "ANY"
	}
	return "", "", fmt.Errorf("%w: version %s", ErrSDKNotFound, requested)
}

// nvcc's --version banner carries ", release <version>," on its fourth line.
var releaseRe = regexp.MustCompile(`, release (\S+),`)

// InstalledVersion asks the SDK's own nvcc for its version. An unrecognized
// banner yields an empty version, which is not fatal by itself; a failed
// nvcc invocation is.
func (p *Probe) InstalledVersion(root string) (string, error) {
	return memo.Get(&p.cache, "version:"+root, func() (string, error) {
		nvcc := filepath.Join(root, "bin", "nvcc"+p.plat.ExeSuffix())
		out, err := p.run.Run(nvcc, "--version")
		if err != nil {
			return "", fmt.Errorf("%w: %v", probe.ErrExecution, err)
		}
		lines := strings.Split(out, "\n")
		if len(lines) < 4 {
			return "", nil
		}
		m := releaseRe.FindStringSubmatch(lines[3])
		if m == nil {
			return "", nil
		}
		log.Infof("CUDA SDK at %s reports version %s", root, m[1])
		return m[1], nil
	})
}

// Validate reports whether the SDK at root reports exactly version.
// A mismatch is logged and returned as false; the caller decides whether
// that is fatal.
func (p *Probe) Validate(root, version string) bool {
	found, err := p.InstalledVersion(root)
	if err != nil {
		log.Errorf("cuda: %v", err)
		return false
	}
	if found != version {
		log.Errorf("cuda: SDK at %s reports version %q, expected %q", root, found, version)
		return false
	}
	return true
}

// RuntimeLibName returns the cudart artifact a build links against.
func RuntimeLibName(plat platform.Platform, shared bool) string {
	if plat == platform.Windows {
		if shared {
			return "cudart.dll"
		}
		return "cudart_static.lib"
	}
	if shared {
		return "libcudart." + plat.SharedLibSuffix()
	}
	return "libcudart_static.a"
}

// DefaultRoot returns the conventional install root of the default SDK
// generation, or "" when the platform has no convention.
func DefaultRoot(plat platform.Platform) string {
	tpl := rootTemplate(plat)
	if tpl == "" {
		return ""
	}
	return fmt.Sprintf(tpl, DefaultVersion)
}

func rootTemplate(plat platform.Platform) string {
	switch plat {
	case platform.Linux:
		return "/usr/local/cuda-%s"
	case platform.Windows:
		return `C:\Program Files\NVIDIA GPU Computing Toolkit\CUDA\v%s`
	}
	return ""
}

// libDir differs by OS and SDK generation: lib64 on Linux, lib\x64 on
// Windows, plain lib elsewhere.
func libDir(root string, plat platform.Platform) string {
	switch plat {
	case platform.Linux:
		return filepath.Join(root, "lib64")
	case platform.Windows:
		return filepath.Join(root, "lib", "x64")
	}
	return filepath.Join(root, "lib")
}

func supported(version string) bool {
	for _, v := range SupportedVersions() {
		if v == version {
			return true
		}
	}
	return false
}
