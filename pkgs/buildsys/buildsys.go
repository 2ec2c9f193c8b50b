// Package buildsys defines the capabilities shared by native build helpers.
package buildsys

// BuildSystem captures shared capabilities of build helpers (CMake,
// Autotools, etc). It keeps the common lifecycle and dependency/env setup;
// implementations add their own extras.
type BuildSystem interface {
	// Use injects an installed dependency root into the build environment.
	Use(root string)

	// Basic paths.
	Source(dir string)
	InstallDir(dir string)

	// Environment helper.
	Env(key, val string)

	// Variables projected into the generated build.
	Define(key, value string)
	DefineBool(key string, value bool)

	// Lifecycle.
	Configure(args ...string) error
	Build(args ...string) error
	Install(args ...string) error

	// Where artifacts land.
	OutputDir() string
}
