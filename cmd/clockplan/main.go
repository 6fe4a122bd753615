// Command clockplan plans and dry-runs STM32G4 clock trees on the host.
package main

import "clocktree-go/cmd/clockplan/cmd"

func main() {
	cmd.Execute()
}
