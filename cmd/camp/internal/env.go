package internal

import (
	"fmt"

	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/spf13/cobra"

	"github.com/camp-build/camp/internal/env"
	"github.com/camp-build/camp/pkgs/platform"
)

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Print host and camp environment information",
	Args:  cobra.NoArgs,
	RunE:  runEnv,
}

func init() {
	rootCmd.AddCommand(envCmd)
}

func runEnv(cmd *cobra.Command, args []string) error {
	workDir, err := env.WorkDir()
	if err != nil {
		return fmt.Errorf("failed to get work dir: %w", err)
	}
	fmt.Printf("platform: %s\n", platform.Current())
	fmt.Printf("workdir:  %s\n", workDir)

	info, err := host.Info()
	if err != nil {
		return fmt.Errorf("failed to query host info: %w", err)
	}
	fmt.Printf("host:     %s %s (%s, kernel %s)\n",
		info.Platform, info.PlatformVersion, info.KernelArch, info.KernelVersion)

	vm, err := mem.VirtualMemory()
	if err != nil {
		return fmt.Errorf("failed to query memory: %w", err)
	}
	fmt.Printf("memory:   %d MiB total, %d MiB available\n",
		vm.Total/1024/1024, vm.Available/1024/1024)
	return nil
}
