package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information
	version = "0.1.0"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "calibrate",
	Short: "Plot calibration replay agent",
	Long: `Calibrate replays a recorded chart-calibration session against the
plot-digitizer web application. It uploads the plot image, re-projects the
recorded pixel coordinates into the live rendering, clicks the axis reference
and data points, and enters the axis calibration values.`,
	Version: version,
}

func init() {
	// Add subcommands here
	rootCmd.AddCommand(runCmd)
}
