package cmd

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceFabric/pkg/design"
	"github.com/OpenTraceLab/OpenTraceFabric/pkg/fabric"
	"github.com/OpenTraceLab/OpenTraceFabric/pkg/fabric/geometry"
	"github.com/OpenTraceLab/OpenTraceFabric/pkg/fasm"
)

var infoCmd = &cobra.Command{
	Use:   "info <fabric_file> [design_file]",
	Short: "Show fabric information",
	Long: `Display a summary of a fabric description: grid size, tile types,
BEL and port counts, and built geometry dimensions.

With a design file argument, routed-design statistics are included.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	fd, err := fabric.LoadFabricFile(args[0])
	if err != nil {
		return fmt.Errorf("error loading fabric: %w", err)
	}

	showFabricSummary(fd, args[0])

	if len(args) >= 2 {
		d, err := loadDesignFile(args[1])
		if err != nil {
			return fmt.Errorf("error loading design: %w", err)
		}
		fmt.Println()
		showDesignSummary(d, args[1])
	}
	return nil
}

func loadDesignFile(path string) (*design.DesignData, error) {
	if strings.EqualFold(filepath.Ext(path), ".fasm") {
		parser, err := fasm.NewParser()
		if err != nil {
			return nil, err
		}
		return parser.ParseFile(path)
	}
	return design.LoadDesignFile(path)
}

func showFabricSummary(fd *fabric.FabricDescription, filename string) {
	fmt.Printf("Fabric: %s\n", filename)
	fmt.Printf("Name: %s\n", fd.Name)
	fmt.Printf("Grid: %d columns x %d rows\n", fd.Columns, fd.Rows)

	occupied := 0
	usage := make(map[string]int)
	for y := 0; y < fd.Rows; y++ {
		for x := 0; x < fd.Columns; x++ {
			if t := fd.TileTypeAt(x, y); t != "" {
				occupied++
				usage[t]++
			}
		}
	}
	fmt.Printf("Occupied cells: %d of %d\n", occupied, fd.Rows*fd.Columns)
	fmt.Println()

	builder := geometry.NewBuilder(geometry.DefaultLayoutConfig())
	if verbose {
		builder.SetWarnFunc(func(format string, args ...any) {
			fmt.Printf("  warning: "+format+"\n", args...)
		})
	}
	geoms := builder.BuildFabric(fd)

	names := make([]string, 0, len(usage))
	for name := range usage {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("Tile types:")
	for _, name := range names {
		def := fd.TileDict[name]
		line := fmt.Sprintf("  %s: %d cells", name, usage[name])
		if def != nil {
			line += fmt.Sprintf(", %d BELs, %d matrix ports, %d wires",
				len(def.Bels), len(def.SwitchMatrixPorts()), len(def.Wires))
		}
		if g, ok := geoms[name]; ok {
			line += fmt.Sprintf(", %.0fx%.0f px (%s)", g.Width, g.Height, fabric.FamilyOf(name))
		}
		fmt.Println(line)
	}
}

func showDesignSummary(d *design.DesignData, filename string) {
	s := design.Statistics(d)

	fmt.Printf("Design: %s\n", filename)
	if d.Name != "" {
		fmt.Printf("Name: %s\n", d.Name)
	}
	fmt.Println()
	fmt.Println("Statistics:")
	fmt.Printf("  Connections: %d\n", s.Connections)
	fmt.Printf("  Occupied tiles: %d\n", s.Locations)
	fmt.Printf("  Nets: %d\n", s.Nets)
	fmt.Printf("  Connections per tile: %.2f mean, %.2f stddev, %d max\n",
		s.MeanPerTile, s.StdDevPerTile, s.MaxPerTile)
	if s.Nets > 0 {
		fmt.Printf("  Net fan-out: %.2f mean, %d max (%s)\n",
			s.MeanFanOut, s.MaxFanOut, s.MaxNet)
	}
}
