package internal

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/camp-build/camp/pkgs/platform"
	"github.com/camp-build/camp/pkgs/probe"
	"github.com/camp-build/camp/pkgs/probe/cuda"
	"github.com/camp-build/camp/pkgs/probe/python"
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Discover external toolchains",
}

var cudaVersion string
var cudaRoot string

var probeCudaCmd = &cobra.Command{
	Use:   "cuda",
	Short: "Discover a CUDA SDK installation",
	Args:  cobra.NoArgs,
	RunE:  runProbeCuda,
}

var pythonCommand string
var pythonNoSystem bool

var probePythonCmd = &cobra.Command{
	Use:   "python",
	Short: "Discover a Python interpreter and its build artifacts",
	Args:  cobra.NoArgs,
	RunE:  runProbePython,
}

func init() {
	probeCudaCmd.Flags().StringVar(&cudaVersion, "version", "", "Requested CUDA SDK version")
	probeCudaCmd.Flags().StringVar(&cudaRoot, "root", "", "CUDA SDK root directory")
	probePythonCmd.Flags().StringVar(&pythonCommand, "interpreter", "", "Interpreter command or path")
	probePythonCmd.Flags().BoolVar(&pythonNoSystem, "no-system", false, "Disallow the system interpreter")
	probeCmd.AddCommand(probeCudaCmd)
	probeCmd.AddCommand(probePythonCmd)
	rootCmd.AddCommand(probeCmd)
}

func runProbeCuda(cmd *cobra.Command, args []string) error {
	p := cuda.New(cuda.Request{Version: cudaVersion, Root: cudaRoot}, platform.Current(), probe.ExecRunner{})

	inst, err := p.Resolve()
	if err != nil {
		return fmt.Errorf("failed to resolve CUDA SDK: %w", err)
	}

	fmt.Printf("root:    %s\n", inst.Root)
	fmt.Printf("version: %s\n", inst.Version)
	fmt.Printf("bin:     %s\n", inst.BinDir)
	fmt.Printf("lib:     %s\n", inst.LibDir)
	fmt.Printf("include: %s\n", inst.IncludeDir)
	return nil
}

func runProbePython(cmd *cobra.Command, args []string) error {
	cfg := python.Config{Command: pythonCommand, WithSystem: !pythonNoSystem}
	p := python.New(cfg, platform.Current(), probe.ExecRunner{}, nil)

	exe, err := p.Executable()
	if err != nil {
		return fmt.Errorf("failed to locate interpreter: %w", err)
	}
	version, err := p.Version()
	if err != nil {
		return fmt.Errorf("failed to query interpreter version: %w", err)
	}
	fmt.Printf("executable: %s\n", exe)
	fmt.Printf("version:    %s\n", version)

	if lib, err := p.Lib(); err == nil {
		fmt.Printf("lib:        %s\n", lib)
	}
	if name, err := p.LibLinkName(); err == nil {
		fmt.Printf("link name:  %s\n", name)
	}
	if include, err := p.IncludeDir(); err == nil {
		fmt.Printf("include:    %s\n", include)
	}
	return nil
}
