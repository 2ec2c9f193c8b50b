package internal

import (
	"log"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "camp",
	Short: "camp provides shared helpers for native-library packaging recipes",
	Long: `camp provides the shared helpers packaging recipes build on: toolchain
discovery (CUDA SDK, Python interpreter), compiler flag tables, and a
cmake-based configure/build/install/report lifecycle.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		log.Fatal(err)
	}
}
