package cmd

import (
	"fmt"
	"io"
	"log"

	"clocktree-go/drivers/rcc"
	"clocktree-go/types"

	"github.com/spf13/cobra"
)

var solveCmd = &cobra.Command{
	Use:   "solve [input] [target]",
	Short: "Solve the PLL for an input (hsi16 or a crystal frequency) and a target SYSCLK",
	Example: "  clockplan solve hsi16 48MHz\n" +
		"  clockplan solve 24MHz 144MHz",
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		cmd.SilenceUsage = true

		in, err := parsePLLInput(args[0])
		if err != nil {
			log.Fatalf("Error: %v", err)
		}
		target, err := types.ParseHertz(args[1])
		if err != nil {
			log.Fatalf("Error: target %q: %v", args[1], err)
		}

		plan, err := rcc.SolvePLL(in.Frequency(), target)
		if err != nil {
			log.Fatalf("Error: %v", err)
		}
		writePLLPlan(cmd.OutOrStdout(), in, plan)
	},
}

func parsePLLInput(s string) (rcc.PLLInput, error) {
	if s == "hsi16" {
		return rcc.PLLFromHSI16(), nil
	}
	f, err := types.ParseHertz(s)
	if err != nil {
		return rcc.PLLInput{}, fmt.Errorf("input %q: want hsi16 or a frequency", s)
	}
	return rcc.PLLFromHSE(f), nil
}

func writePLLPlan(w io.Writer, in rcc.PLLInput, p rcc.PLLPlan) {
	fmt.Fprintf(w, "input    %s\n", in)
	fmt.Fprintf(w, "M=%d N=%d R=%d Q=%d\n", p.M, p.N, p.R, p.Q)
	fmt.Fprintf(w, "vco_in   %s\n", p.VCOIn)
	fmt.Fprintf(w, "vco_out  %s\n", p.VCOOut)
	fmt.Fprintf(w, "sysclk   %s\n", p.Output)
	fmt.Fprintf(w, "tap48    %s\n", p.Tap48)
	fmt.Fprintf(w, "fields   PLLM=%d PLLN=%d PLLR=%d PLLQ=%d\n", p.M-1, p.N, p.RCode, p.QCode)
}

func init() {
	rootCmd.AddCommand(solveCmd)
}
