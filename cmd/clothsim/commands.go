package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/clothsim/internal/automation"
	"github.com/san-kum/clothsim/internal/config"
	"github.com/san-kum/clothsim/internal/export"
	"github.com/san-kum/clothsim/internal/sim"
	"github.com/san-kum/clothsim/internal/storage"
	"github.com/san-kum/clothsim/internal/vecmath"
	"github.com/san-kum/clothsim/internal/viz"
)

// setup is a resolved scenario: the merged config and the display scale for
// galaxy rendering.
type setup struct {
	cfg          *config.Config
	displayScale float64
}

// resolve merges defaults, preset, config file, scene, rate file and flags,
// in that order. Flags only win when set explicitly.
func resolve(cmd *cobra.Command, scenario string) (*setup, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		if !config.Apply(cfg, scenario, preset) {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(scenario))
		}
		logger.Debug("applied preset", "scenario", scenario, "preset", preset)
	}
	if configFile != "" {
		if err := config.LoadInto(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		logger.Debug("loaded config", "path", configFile)
	}

	s := &setup{cfg: cfg, displayScale: config.DisplayScale(cfg.Galaxy.Bodies)}
	if sceneFile != "" {
		scene, err := config.LoadScene(sceneFile)
		if err != nil {
			return nil, err
		}
		cfg.ApplyScene(scene)
		s.displayScale = scene.DisplayScale
		logger.Info("loaded scene", "path", sceneFile, "bodies", len(scene.Bodies), "display_scale", scene.DisplayScale)
	}
	if ratesFile != "" {
		rates, err := config.LoadRates(ratesFile)
		if err != nil {
			return nil, err
		}
		cfg.ApplyRates(rates)
		logger.Debug("loaded rates", "path", ratesFile)
	}

	flags := cmd.Flags()
	if flags.Changed("fps") {
		cfg.Simulation.FPS = fps
	}
	if flags.Changed("substeps") {
		cfg.Simulation.Substeps = substeps
	}
	if flags.Changed("frames") {
		cfg.Simulation.Frames = frames
	}
	if flags.Changed("seed") {
		cfg.Simulation.Seed = seed
	}
	if flags.Changed("gravity-scale") {
		cfg.Galaxy.Scale = gravityScale
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func runHeadless(cmd *cobra.Command, scenario string) error {
	s, err := resolve(cmd, scenario)
	if err != nil {
		return err
	}
	cfg := s.cfg.Sim()

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Info("running simulation", "system", scenario, "frames", cfg.Frames, "fps", cfg.FPS, "substeps", cfg.Substeps, "runs", runs)
	start := time.Now()

	var results []*sim.Result
	if runs > 1 {
		factory := func(seed int64) (sim.System, error) {
			c := *s.cfg
			c.Simulation.Seed = seed
			return automation.Build(&c, scenario)
		}
		ens := sim.NewEnsemble(factory, func() []sim.Metric { return automation.Metrics(scenario) }, runs, cfg.Seed)
		results, err = ens.Run(ctx, cfg)
		if err != nil {
			return err
		}
	} else {
		sys, err := automation.Build(s.cfg, scenario)
		if err != nil {
			return err
		}
		simulator := sim.New()
		for _, m := range automation.Metrics(scenario) {
			simulator.AddMetric(m)
		}
		result, err := simulator.Run(ctx, sys, cfg)
		if errors.Is(err, context.Canceled) {
			logger.Warn("interrupted, saving partial run", "frames", result.StepsTaken)
		} else if err != nil {
			return err
		}
		results = []*sim.Result{result}
	}
	elapsed := time.Since(start)

	for i, result := range results {
		runCfg := cfg
		runCfg.Seed = cfg.Seed + int64(i)
		for _, e := range result.Errors {
			logger.Warn("simulation stopped early", "err", e)
		}
		runID, err := st.Save(preset, runCfg, result)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
		fmt.Printf("frames: %d\n", result.StepsTaken)
		fmt.Println("metrics:")
		for _, name := range sortedKeys(result.Metrics) {
			fmt.Printf("  %s: %.6g\n", name, result.Metrics[name])
		}
	}
	logger.Info("finished", "elapsed", elapsed)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	scenario := args[0]
	s, err := resolve(cmd, scenario)
	if err != nil {
		return err
	}
	sys, err := automation.Build(s.cfg, scenario)
	if err != nil {
		return err
	}
	return viz.Run(sys, s.cfg.Simulation.FPS, s.cfg.Simulation.Substeps, s.displayScale)
}

func runRender(cmd *cobra.Command, args []string) error {
	scenario := args[0]
	s, err := resolve(cmd, scenario)
	if err != nil {
		return err
	}
	sys, err := automation.Build(s.cfg, scenario)
	if err != nil {
		return err
	}
	if _, err := sim.New().Run(cmd.Context(), sys, s.cfg.Sim()); err != nil {
		return err
	}

	canvas := viz.NewCanvas(canvasW, canvasH)
	viz.Draw(canvas, sys, viz.FitCamera(sys, s.displayScale), s.displayScale)
	fmt.Print(canvas.String())

	if svgFile != "" {
		if err := writeSVG(svgFile, export.CanvasToSVG(canvas, 4)); err != nil {
			return err
		}
		logger.Info("wrote frame", "path", svgFile)
	}
	if meshFile != "" {
		c, ok := sys.(*sim.ClothSystem)
		if !ok {
			return fmt.Errorf("--mesh needs the cloth scenario")
		}
		if err := writeSVG(meshFile, export.ClothToSVG(c.Grid(), 800, 800)); err != nil {
			return err
		}
		logger.Info("wrote mesh", "path", meshFile, "faces", len(c.Grid().Triangles()))
	}
	if trailFile != "" {
		g, ok := sys.(*sim.GalaxySystem)
		if !ok {
			return fmt.Errorf("--trails needs the galaxy scenario")
		}
		var trails [][]vecmath.Vec3
		for _, b := range g.Galaxy().Bodies() {
			trails = append(trails, b.Trail)
		}
		if err := writeSVG(trailFile, export.TrailsToSVG(trails, 800, 800)); err != nil {
			return err
		}
		logger.Info("wrote trails", "path", trailFile, "bodies", len(trails))
	}
	return nil
}

func writeSVG(path, svg string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := export.Write(f, svg); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSYSTEM\tPRESET\tTIME\tFRAMES\tFPS\tSUBSTEPS\tPOINTS\tDRIFT")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%.0f\t%d\t%d\t%.3g\n",
			run.ID,
			run.System,
			valueOr(run.Preset, "-"),
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Frames,
			run.FPS,
			run.Substeps,
			run.Points,
			run.EnergyDrift,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("system: %s\n\n", meta.System)

	series := []struct{ name, caption string }{
		{"energy", "energy vs frame"},
		{"centroid_y", "centroid height vs frame"},
	}
	if meta.System == "cloth" {
		series = append(series, struct{ name, caption string }{"strain", "max strain vs frame"})
	}
	for _, s := range series {
		data, err := st.Series(runID, s.name)
		if err != nil {
			return err
		}
		if len(data) == 0 {
			return fmt.Errorf("no data to plot")
		}
		fmt.Println(asciigraph.Plot(data, asciigraph.Height(10), asciigraph.Width(80), asciigraph.Caption(s.caption)))
		fmt.Println()
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	data, err := st.Export(args[0])
	if err != nil {
		return err
	}
	if outFile == "" {
		return storage.ExportJSONStdout(data)
	}
	if err := storage.ExportJSON(outFile, data); err != nil {
		return err
	}
	logger.Info("exported run", "id", args[0], "path", outFile)
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	scenarios := config.Scenarios()
	if len(args) == 1 {
		scenarios = []string{args[0]}
	}
	for _, sc := range scenarios {
		presets := config.ListPresets(sc)
		if len(presets) == 0 {
			fmt.Printf("no presets for scenario: %s\n", sc)
			continue
		}
		fmt.Printf("presets for %s:\n", sc)
		for _, p := range presets {
			fmt.Printf("  %s\n", p)
		}
	}
	return nil
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
