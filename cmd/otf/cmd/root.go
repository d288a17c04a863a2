package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "otf",
	Short: "OpenTraceFabric - FPGA fabric visualization tools",
	Long: `OpenTraceFabric (otf) provides tools for working with eFPGA fabrics:
  - Interactive fabric viewing with routed-design overlays
  - Fabric and design file inspection

Examples:
  otf view fabric.json                # View a fabric
  otf view fabric.json design.fasm    # View a fabric with a routed design
  otf info fabric.json                # Show fabric summary
  otf info fabric.json design.fasm    # Include design statistics`,
	Version: "0.1.0",
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
