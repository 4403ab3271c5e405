package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/plotpoint/calibration-agent/internal/agent"
	"github.com/spf13/cobra"
)

var (
	// Run command flags
	runURL     string
	configPath string
	imageDir   string
	headless   bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Replay the recorded calibration against the live app",
	Long: `Execute one end-to-end calibration replay. The agent launches a
browser, uploads the configured plot image, clicks the axis reference points
and data points re-projected into the current rendering, enters the axis
values, then waits for you to press Enter before closing the browser.`,
	RunE: runReplay,
}

func init() {
	// Define flags for run command
	runCmd.Flags().StringVarP(&runURL, "url", "u", "", "Web application URL (default: deployed app)")
	runCmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to calibration config file")
	runCmd.Flags().StringVarP(&imageDir, "image-dir", "i", "", "Directory holding the plot image (default: working directory)")
	runCmd.Flags().BoolVar(&headless, "headless", false, "Run browser in headless mode")
}

func runReplay(cmd *cobra.Command, args []string) error {
	config, err := LoadConfig(configPath)
	if err != nil {
		return err
	}
	if runURL != "" {
		config.URL = runURL
	}
	if imageDir != "" {
		config.ImageDir = imageDir
	}
	if cmd.Flags().Changed("headless") {
		config.Headless = headless
	}

	spec := config.Spec()
	if err := spec.Validate(); err != nil {
		return fmt.Errorf("invalid calibration data: %w", err)
	}

	fmt.Printf("🎯 Calibration Replay Agent v%s\n", version)
	fmt.Printf("📋 Configuration:\n")
	fmt.Printf("   URL: %s\n", config.URL)
	fmt.Printf("   Image: %s (width %g px)\n", spec.FileName, spec.Width)
	fmt.Printf("   Axis points: 4, data points: %d\n", len(spec.DataPoints))
	fmt.Printf("   Headless Mode: %v\n", config.Headless)
	fmt.Println()

	fmt.Println("🌐 Starting browser...")
	bm, err := agent.NewBrowserManager(config.Headless)
	if err != nil {
		return fmt.Errorf("failed to create browser manager: %w", err)
	}
	// Release the browser on every exit path, including failed runs.
	defer bm.Close()

	session := agent.NewSession(bm, config.URL, config.ImageDir, spec)

	fmt.Printf("▶️  Run %s: replaying %d clicks...\n", session.RunID, 4+len(spec.DataPoints))
	if err := session.Run(); err != nil {
		return fmt.Errorf("replay aborted at stage %s: %w", session.Stage(), err)
	}

	geom := session.Geometry
	fmt.Println("\n📐 Rendered image geometry:")
	fmt.Printf("   Location: (%g, %g)\n", geom.Location.X, geom.Location.Y)
	fmt.Printf("   Size: %g x %g\n", geom.Size.Width, geom.Size.Height)
	fmt.Printf("   Border: %g px\n", geom.Border)

	fmt.Print("\nPress Enter to close the browser...")
	bufio.NewReader(os.Stdin).ReadString('\n')

	bm.Close()
	session.MarkClosed()
	fmt.Println("✅ Replay completed")

	return nil
}
