// Package toolflags holds the compiler flag policy tables shared by recipes.
// The tables are configuration data keyed by platform and build type; they
// carry no logic beyond composition.
package toolflags

import (
	"fmt"
	"strings"

	"github.com/camp-build/camp/pkgs/platform"
)

// BuildType selects one build configuration.
type BuildType int

const (
	Debug BuildType = iota
	Release
	RelWithDebInfo
)

// ParseBuildType parses a build type name as spelled by CMake
// (case-insensitive).
func ParseBuildType(s string) (BuildType, error) {
	switch strings.ToLower(s) {
	case "debug":
		return Debug, nil
	case "release":
		return Release, nil
	case "relwithdebinfo":
		return RelWithDebInfo, nil
	}
	return 0, fmt.Errorf("unknown build type: %s", s)
}

func (b BuildType) String() string {
	switch b {
	case Release:
		return "Release"
	case RelWithDebInfo:
		return "RelWithDebInfo"
	default:
		return "Debug"
	}
}

// NvccCompiler marks flags composed for nvcc's host compiler pass-through.
const NvccCompiler = "nvcc"

// CFlags returns the base C flags for the platform.
//
// Linux builds target a CPU with 64-bit extensions, MMX, SSE through SSE4.2,
// POPCNT, AVX, AES, PCLMUL and FSGSBASE support. The macOS baseline is older
// (Westmere, no AVX) to match the oldest CI hardware.
func CFlags(plat platform.Platform) string {
	switch plat {
	case platform.Linux:
		return "-march=sandybridge -mtune=generic -mfpmath=sse"
	case platform.Darwin:
		return "-march=westmere -mtune=intel -mfpmath=sse -arch x86_64" +
			" -mmacosx-version-min=10.14 -DGL_SILENCE_DEPRECATION"
	default:
		return "/favor:blend /fp:precise /Qfast_transcendentals /arch:AVX" +
			" /MP /bigobj /EHsc /D_ENABLE_EXTENDED_ALIGNED_STORAGE"
	}
}

// CXXFlags returns the base C++ flags for the platform.
func CXXFlags(plat platform.Platform) string {
	return CFlags(plat)
}

// ReleaseCFlags returns the Release-configuration C flags.
func ReleaseCFlags(plat platform.Platform) string {
	switch plat {
	case platform.Linux:
		return "-O3 -fomit-frame-pointer -DNDEBUG"
	case platform.Windows:
		return "/O2 /Ob2 /MD /DNDEBUG"
	}
	return ""
}

// DebugCFlags returns the Debug-configuration C flags. nvcc does not accept
// -Og as a host flag, so its debug set drops optimization entirely.
func DebugCFlags(plat platform.Platform, compiler string) string {
	switch plat {
	case platform.Linux:
		if compiler == NvccCompiler {
			return "-O0 -g -D_DEBUG"
		}
		return "-Og -g -D_DEBUG"
	case platform.Windows:
		return "/Ox /Oy- /Ob1 /Z7 /MDd /D_DEBUG"
	}
	return ""
}

// RelWithDebInfoCFlags returns the RelWithDebInfo-configuration C flags.
func RelWithDebInfoCFlags(plat platform.Platform) string {
	switch plat {
	case platform.Linux:
		return "-O3 -g -DNDEBUG"
	case platform.Windows:
		return ReleaseCFlags(plat) + " /Z7"
	}
	return ""
}

// ThoroughDebugCFlags returns an uncompromising debug set (no optimization,
// full runtime checks on MSVC).
func ThoroughDebugCFlags(plat platform.Platform) string {
	switch plat {
	case platform.Linux:
		return "-O0 -g3 -D_DEBUG"
	case platform.Windows:
		return "/Od /Ob0 /RTC1 /sdl /Z7 /MDd /D_DEBUG"
	}
	return ""
}

// FullCFlags composes the base flags with the build-type-specific set.
func FullCFlags(plat platform.Platform, buildType BuildType, compiler string) string {
	flags := CFlags(plat)
	var extra string
	switch buildType {
	case Debug:
		extra = DebugCFlags(plat, compiler)
	case Release:
		extra = ReleaseCFlags(plat)
	case RelWithDebInfo:
		extra = RelWithDebInfoCFlags(plat)
	}
	if extra == "" {
		return flags
	}
	return flags + " " + extra
}

// FullCXXFlags composes the base C++ flags with the build-type-specific set.
func FullCXXFlags(plat platform.Platform, buildType BuildType, compiler string) string {
	return FullCFlags(plat, buildType, compiler)
}
