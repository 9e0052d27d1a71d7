package main

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/clothsim/internal/analysis"
	"github.com/san-kum/clothsim/internal/automation"
	"github.com/san-kum/clothsim/internal/optim"
	"github.com/san-kum/clothsim/internal/sim"
	"github.com/san-kum/clothsim/internal/storage"
)

var (
	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
	metricName string
	gridSpecs  []string
)

func toolCommands() []*cobra.Command {
	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	batchCmd := &cobra.Command{
		Use:   "batch [file]",
		Short: "run a yaml batch of scenarios and store each run",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}

	sweepCmd := &cobra.Command{
		Use:       "sweep [cloth|galaxy]",
		Short:     "sweep one parameter and tabulate the run metrics",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"cloth", "galaxy"},
		RunE:      runSweep,
	}
	sweepCmd.Flags().StringVar(&sweepParam, "param", "ks", "parameter name")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 1000, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 10000, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of values")
	sweepCmd.Flags().StringVar(&metricName, "metric", "max_strain", "metric to plot")

	tuneCmd := &cobra.Command{
		Use:       "tune [cloth|galaxy]",
		Short:     "grid search parameters minimizing a metric",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"cloth", "galaxy"},
		RunE:      runTune,
	}
	tuneCmd.Flags().StringArrayVar(&gridSpecs, "grid", nil, "parameter values, e.g. ks=1000,5000 (repeatable)")
	tuneCmd.Flags().StringVar(&metricName, "metric", "max_strain", "metric to minimize")

	return []*cobra.Command{analyzeCmd, batchCmd, sweepCmd, tuneCmd}
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s (%s, %.0f fps)\n\n", meta.ID, meta.System, meta.FPS)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SERIES\tFREQ (Hz)\tPERIOD (s)\tMAGNITUDE")
	var spectrum []float64
	for _, name := range []string{"centroid_y", "energy"} {
		data, err := st.Series(runID, name)
		if err != nil {
			return err
		}
		f, mag := analysis.DominantFrequency(data, meta.FPS)
		period := math.Inf(1)
		if f > 0 {
			period = 1 / f
		}
		fmt.Fprintf(w, "%s\t%.4f\t%.3f\t%.4g\n", name, f, period, mag)
		if name == "centroid_y" {
			spectrum = analysis.PowerSpectrum(data)
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(spectrum) > 1 {
		if len(spectrum) > 80 {
			spectrum = spectrum[:80]
		}
		fmt.Println()
		fmt.Println(asciigraph.Plot(spectrum, asciigraph.Height(8), asciigraph.Caption("centroid height spectrum")))
	}
	return nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	b, err := automation.LoadBatch(args[0])
	if err != nil {
		return err
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	logger.Info("running batch", "name", b.Name, "steps", len(b.Steps))
	results, err := automation.RunBatch(cmd.Context(), b, func(i int, s automation.Step) {
		logger.Info("step", "n", i+1, "system", s.System, "preset", s.Preset)
	})
	for _, r := range results {
		label := r.Step.SaveAs
		if label == "" {
			label = r.Step.Preset
		}
		runID, serr := st.Save(label, r.Config, r.Result)
		if serr != nil {
			return serr
		}
		fmt.Printf("%s\t%s\tframes=%d\tdrift=%.3g\n", runID, r.Step.System, r.Result.StepsTaken, r.Result.EnergyDrift)
	}
	return err
}

func runSweep(cmd *cobra.Command, args []string) error {
	scenario := args[0]
	s, err := resolve(cmd, scenario)
	if err != nil {
		return err
	}
	sw := automation.Sweep{System: scenario, Param: sweepParam, Min: sweepMin, Max: sweepMax, Steps: sweepSteps}
	logger.Info("sweeping", "param", sweepParam, "min", sweepMin, "max", sweepMax, "steps", sweepSteps)

	points, err := automation.RunSweep(cmd.Context(), s.cfg, sw)
	if err != nil {
		return err
	}
	if len(points) == 0 {
		return fmt.Errorf("sweep produced no points")
	}

	names := sortedKeys(points[0].Metrics)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\tSTOPPED\n", strings.ToUpper(sweepParam), strings.ToUpper(strings.Join(names, "\t")))
	series := make([]float64, 0, len(points))
	for _, p := range points {
		fmt.Fprintf(w, "%.4g", p.Value)
		for _, n := range names {
			fmt.Fprintf(w, "\t%.4g", p.Metrics[n])
		}
		fmt.Fprintf(w, "\t%v\n", p.Stopped)
		series = append(series, p.Metrics[metricName])
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if len(series) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(series, asciigraph.Height(8), asciigraph.Caption(metricName+" vs "+sweepParam)))
	}
	return nil
}

// parseGrid reads arguments of the form name=v1,v2,...
func parseGrid(args []string) ([]string, [][]float64, error) {
	var names []string
	var ranges [][]float64
	for _, arg := range args {
		name, list, ok := strings.Cut(arg, "=")
		if !ok || name == "" || list == "" {
			return nil, nil, fmt.Errorf("bad grid value %q, want name=v1,v2", arg)
		}
		var vals []float64
		for _, f := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("grid %s: %w", name, err)
			}
			vals = append(vals, v)
		}
		names = append(names, strings.TrimSpace(name))
		ranges = append(ranges, vals)
	}
	if len(names) == 0 {
		return nil, nil, fmt.Errorf("no --grid given")
	}
	return names, ranges, nil
}

func runTune(cmd *cobra.Command, args []string) error {
	scenario := args[0]
	s, err := resolve(cmd, scenario)
	if err != nil {
		return err
	}
	names, ranges, err := parseGrid(gridSpecs)
	if err != nil {
		return err
	}

	build := func() (sim.System, []sim.Metric, error) {
		sys, err := automation.Build(s.cfg, scenario)
		return sys, automation.Metrics(scenario), err
	}
	best, val, all, err := optim.NewGridSearch(names, ranges).Search(cmd.Context(), build, s.cfg.Sim(), metricName)
	for _, c := range all {
		if c.Err != nil {
			logger.Warn("candidate failed", "params", c.Params, "err", c.Err)
			continue
		}
		logger.Debug("candidate", "params", c.Params, metricName, c.Value)
	}
	if err != nil {
		return err
	}

	fmt.Printf("best %s: %.6g (of %d candidates)\n", metricName, val, len(all))
	for _, n := range names {
		fmt.Printf("  %s = %.6g\n", n, best[n])
	}
	return nil
}
