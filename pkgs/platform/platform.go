// Package platform identifies the operating system that OS-sensitive build
// logic targets. Callers pass a Platform value explicitly instead of reading
// runtime.GOOS deep inside helpers, so every branch can be exercised in tests.
package platform

import "runtime"

// Platform is a target operating system.
type Platform int

const (
	Linux Platform = iota
	Darwin
	Windows
)

// Current returns the platform this process runs on.
func Current() Platform {
	switch runtime.GOOS {
	case "darwin":
		return Darwin
	case "windows":
		return Windows
	default:
		return Linux
	}
}

func (p Platform) String() string {
	switch p {
	case Darwin:
		return "darwin"
	case Windows:
		return "windows"
	default:
		return "linux"
	}
}

// ExeSuffix returns the executable file suffix, ".exe" on Windows.
func (p Platform) ExeSuffix() string {
	if p == Windows {
		return ".exe"
	}
	return ""
}

// SharedLibSuffix returns the shared library extension without the dot.
func (p Platform) SharedLibSuffix() string {
	switch p {
	case Darwin:
		return "dylib"
	case Windows:
		return "dll"
	default:
		return "so"
	}
}
