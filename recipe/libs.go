package recipe

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/camp-build/camp/pkgs/platform"
)

// CollectLibs scans the conventional library directories under root and
// returns the link names of every library artifact found, sorted and
// de-duplicated.
func CollectLibs(root string, plat platform.Platform) ([]string, error) {
	dirs := []string{"lib", "lib64"}
	if plat == platform.Windows {
		dirs = []string{"lib", "bin"}
	}

	seen := make(map[string]bool)
	var libs []string
	for _, dir := range dirs {
		entries, err := os.ReadDir(filepath.Join(root, dir))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, err
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			name, ok := linkName(entry.Name(), plat)
			if !ok || seen[name] {
				continue
			}
			seen[name] = true
			libs = append(libs, name)
		}
	}
	sort.Strings(libs)
	return libs, nil
}

// linkName maps a library file name to the name passed to the linker.
// POSIX artifacts drop the lib prefix and the extension; Windows artifacts
// keep their base name.
func linkName(file string, plat platform.Platform) (string, bool) {
	if plat == platform.Windows {
		switch filepath.Ext(file) {
		case ".lib", ".dll":
			return strings.TrimSuffix(file, filepath.Ext(file)), true
		}
		return "", false
	}

	for _, ext := range []string{".a", ".so", ".dylib"} {
		if strings.HasSuffix(file, ext) {
			return strings.TrimPrefix(strings.TrimSuffix(file, ext), "lib"), true
		}
	}
	// Versioned shared objects, e.g. libfoo.so.1.2.3.
	if i := strings.Index(file, ".so."); i >= 0 {
		return strings.TrimPrefix(file[:i], "lib"), true
	}
	return "", false
}
