// fabric-viewer is the standalone interactive fabric viewer:
//
//	fabric-viewer fabric.json [design.fasm]
package main

import (
	"fmt"
	"os"

	"github.com/OpenTraceLab/OpenTraceFabric/internal/ui"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <fabric.json> [design.fasm]\n", os.Args[0])
		os.Exit(1)
	}

	designPath := ""
	if len(os.Args) >= 3 {
		designPath = os.Args[2]
	}
	ui.Run(os.Args[1], designPath)
}
