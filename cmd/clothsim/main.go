package main

import (
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	dataDir      string
	configFile   string
	sceneFile    string
	ratesFile    string
	preset       string
	fps          float64
	substeps     int
	frames       int
	seed         int64
	gravityScale float64
	verbose      bool

	runs      int
	canvasW   int
	canvasH   int
	svgFile   string
	trailFile string
	meshFile  string
	outFile   string

	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "clothsim",
	})
)

// main registers the commands and exits with status 1 when one fails.
func main() {
	rootCmd := &cobra.Command{
		Use:           "clothsim",
		Short:         "cloth and gravity simulation lab",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logger.SetLevel(log.DebugLevel)
			}
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".clothsim", "data directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&sceneFile, "scene", "", "legacy scene file (json) with a spheres list")
	pf.StringVar(&ratesFile, "rates", "", "rate file (ini) with [simulation] and [galaxy] sections")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.Float64Var(&fps, "fps", 90, "frames per second")
	pf.IntVar(&substeps, "substeps", 30, "sub-steps per frame")
	pf.IntVar(&frames, "frames", 300, "number of frames")
	pf.Int64Var(&seed, "seed", 0, "random seed")
	pf.Float64Var(&gravityScale, "gravity-scale", 1, "multiplier on the gravitational constant")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	clothCmd := &cobra.Command{
		Use:   "cloth",
		Short: "run a headless cloth simulation and store it",
		Args:  cobra.NoArgs,
		RunE:  func(cmd *cobra.Command, args []string) error { return runHeadless(cmd, "cloth") },
	}
	galaxyCmd := &cobra.Command{
		Use:   "galaxy",
		Short: "run a headless gravity simulation and store it",
		Args:  cobra.NoArgs,
		RunE:  func(cmd *cobra.Command, args []string) error { return runHeadless(cmd, "galaxy") },
	}
	for _, c := range []*cobra.Command{clothCmd, galaxyCmd} {
		c.Flags().IntVar(&runs, "runs", 1, "number of seeded runs executed concurrently")
	}

	liveCmd := &cobra.Command{
		Use:       "live [cloth|galaxy]",
		Short:     "run a simulation with live terminal visualization",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"cloth", "galaxy"},
		RunE:      runLive,
	}

	renderCmd := &cobra.Command{
		Use:       "render [cloth|galaxy]",
		Short:     "simulate headless and draw the final frame",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"cloth", "galaxy"},
		RunE:      runRender,
	}
	renderCmd.Flags().IntVar(&canvasW, "width", 80, "canvas width in cells")
	renderCmd.Flags().IntVar(&canvasH, "height", 24, "canvas height in cells")
	renderCmd.Flags().StringVar(&svgFile, "svg", "", "also write the frame as SVG")
	renderCmd.Flags().StringVar(&trailFile, "trails", "", "write galaxy orbit trails as SVG")
	renderCmd.Flags().StringVar(&meshFile, "mesh", "", "write the cloth mesh as shaded SVG faces")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets [scenario]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	rootCmd.AddCommand(clothCmd, galaxyCmd, liveCmd, renderCmd, listCmd, plotCmd, exportJSONCmd, presetsCmd)
	rootCmd.AddCommand(toolCommands()...)

	if err := rootCmd.Execute(); err != nil {
		logger.Error("command failed", "err", err)
		os.Exit(1)
	}
}
