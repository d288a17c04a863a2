package main

import "github.com/OpenTraceLab/OpenTraceFabric/cmd/otf/cmd"

func main() {
	cmd.Execute()
}
