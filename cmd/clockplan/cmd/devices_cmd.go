package cmd

import (
	"fmt"
	"io"

	"clocktree-go/drivers/rcc"
	"clocktree-go/services/config"

	"github.com/spf13/cobra"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List the embedded device configurations and the SYSCLK each plans to",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.SilenceUsage = true
		listDevices(cmd.OutOrStdout())
	},
}

// listDevices plans every embedded config. Bad entries are listed with their
// error code rather than skipped.
func listDevices(w io.Writer) {
	for _, dev := range config.Devices() {
		doc, err := config.Load(dev)
		if err != nil {
			fmt.Fprintf(w, "%-16s error %v\n", dev, err)
			continue
		}
		cfg, err := doc.Clock.ToRCC()
		if err != nil {
			fmt.Fprintf(w, "%-16s error %v\n", dev, err)
			continue
		}
		p, err := rcc.NewPlan(cfg)
		if err != nil {
			fmt.Fprintf(w, "%-16s error %v\n", dev, err)
			continue
		}
		fmt.Fprintf(w, "%-16s %-24s sysclk %s\n", dev, cfg.Source, p.SysClk)
	}
}

func init() {
	rootCmd.AddCommand(devicesCmd)
}
