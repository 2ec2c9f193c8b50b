package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/camp-build/camp/internal/env"
	"github.com/camp-build/camp/pkgs/buildsys"
	"github.com/camp-build/camp/pkgs/buildsys/autotools"
	"github.com/camp-build/camp/pkgs/buildsys/cmake"
	"github.com/camp-build/camp/pkgs/platform"
	"github.com/camp-build/camp/pkgs/toolflags"
	"github.com/camp-build/camp/recipe"
)

var buildInstallDir string

var buildCmd = &cobra.Command{
	Use:   "build [dir]",
	Short: "Run a recipe's full build lifecycle",
	Long: `Build loads camp.yaml from the given directory (default ".") and drives
the configure, build, install, and report phases against cmake.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVarP(&buildInstallDir, "output", "o", "", "Install directory (default under the camp work dir)")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	recipeDir := "."
	if len(args) == 1 {
		recipeDir = args[0]
	}

	cfg, err := recipe.LoadConfig(filepath.Join(recipeDir, recipe.ConfigFile))
	if err != nil {
		return err
	}

	plat := platform.Current()
	buildType, err := toolflags.ParseBuildType(cfg.Build.Type)
	if err != nil {
		return err
	}

	buildDir, err := env.BuildDir(cfg.Name, cfg.Version)
	if err != nil {
		return fmt.Errorf("failed to get build dir: %w", err)
	}
	installDir := buildInstallDir
	if installDir == "" {
		installDir = filepath.Join(buildDir, "install")
	} else if installDir, err = filepath.Abs(installDir); err != nil {
		return fmt.Errorf("failed to resolve install dir: %w", err)
	}

	sourceDir := cfg.Build.Source
	if !filepath.IsAbs(sourceDir) {
		sourceDir = filepath.Join(recipeDir, sourceDir)
	}

	var system buildsys.BuildSystem
	switch cfg.Build.System {
	case "autotools":
		system = autotools.New(sourceDir, filepath.Join(buildDir, "autotools"), installDir)
	default:
		cm := cmake.New(sourceDir, filepath.Join(buildDir, "cmake"), installDir)
		cm.BuildType(buildType.String())
		if cfg.Build.Generator != "" {
			cm.Generator(cfg.Build.Generator)
		}
		system = cm
	}

	r := recipe.New(cfg, nil)
	compiler := ""
	if cfg.Options.String("cuda_version") != "" || cfg.Options.String("cuda_root") != "" {
		inst, err := r.CUDA().Resolve()
		if err != nil {
			return fmt.Errorf("failed to resolve CUDA SDK: %w", err)
		}
		system.Use(inst.Root)
		system.Env("CUDACXX", filepath.Join(inst.BinDir, "nvcc"+plat.ExeSuffix()))
		compiler = toolflags.NvccCompiler
	}

	if cfg.Build.System == "autotools" {
		system.Define("CFLAGS", toolflags.FullCFlags(plat, buildType, compiler))
		system.Define("CXXFLAGS", toolflags.FullCXXFlags(plat, buildType, compiler))
	} else {
		system.Define("CMAKE_C_FLAGS", toolflags.FullCFlags(plat, buildType, compiler))
		system.Define("CMAKE_CXX_FLAGS", toolflags.FullCXXFlags(plat, buildType, compiler))
	}

	l := &recipe.Lifecycle{
		Options:  cfg.Options,
		System:   system,
		Platform: plat,
	}
	if err := l.Run(); err != nil {
		return fmt.Errorf("failed to build %s@%s: %w", cfg.Name, cfg.Version, err)
	}

	fmt.Fprintf(os.Stdout, "installed to %s\n", system.OutputDir())
	if len(l.Libs) > 0 {
		fmt.Fprintf(os.Stdout, "libs: %s\n", strings.Join(l.Libs, " "))
	}
	return nil
}
