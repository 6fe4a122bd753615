// Package cmd provides the command-line interface for clockplan.
package cmd

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

const (
	envDevice = "CLOCKPLAN_DEVICE"
	envConfig = "CLOCKPLAN_CONFIG"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "clockplan",
	Short: "Plan, check and simulate STM32G4 clock trees.",
	Long: `clockplan solves PLL plans, lists the embedded device configurations and ` +
		`brings a configuration up against a simulated RCC, printing the resulting ` +
		`bus frequencies and, optionally, every register write.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		loadEnv()
	},
}

// loadEnv reads .env from the working directory when there is one.
// Variables already set in the environment win.
func loadEnv() {
	if _, err := os.Stat(".env"); err != nil {
		return
	}
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: could not read .env: %v", err)
	}
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		atexit.Exit(1)
	}
	atexit.Exit(0)
}
