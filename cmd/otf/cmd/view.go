package cmd

import (
	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceFabric/internal/ui"
)

var viewCmd = &cobra.Command{
	Use:   "view <fabric_file> [design_file]",
	Short: "Open the interactive fabric viewer",
	Long: `Open a fabric description in the interactive viewer.

An optional routed design (.fasm or design .json) is overlaid on the
fabric's switch-matrix wiring. Click a connection to highlight its net.`,
	Args: cobra.RangeArgs(1, 2),
	Run:  runView,
}

func init() {
	rootCmd.AddCommand(viewCmd)
}

func runView(cmd *cobra.Command, args []string) {
	fabricPath := args[0]
	designPath := ""
	if len(args) >= 2 {
		designPath = args[1]
	}
	ui.Run(fabricPath, designPath)
}
