package internal

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/camp-build/camp/pkgs/platform"
	"github.com/camp-build/camp/pkgs/toolflags"
)

var flagsBuildType string
var flagsCompiler string

var flagsCmd = &cobra.Command{
	Use:   "flags",
	Short: "Print the composed compiler flags for this platform",
	Args:  cobra.NoArgs,
	RunE:  runFlags,
}

func init() {
	flagsCmd.Flags().StringVar(&flagsBuildType, "build-type", "Release", "Build type (Debug, Release, RelWithDebInfo)")
	flagsCmd.Flags().StringVar(&flagsCompiler, "compiler", "", "Host compiler ('nvcc' adjusts debug flags)")
	rootCmd.AddCommand(flagsCmd)
}

func runFlags(cmd *cobra.Command, args []string) error {
	buildType, err := toolflags.ParseBuildType(flagsBuildType)
	if err != nil {
		return err
	}
	plat := platform.Current()
	fmt.Printf("CFLAGS:   %s\n", toolflags.FullCFlags(plat, buildType, flagsCompiler))
	fmt.Printf("CXXFLAGS: %s\n", toolflags.FullCXXFlags(plat, buildType, flagsCompiler))
	return nil
}
