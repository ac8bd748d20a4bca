package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/ferrosim/internal/config"
	"github.com/san-kum/ferrosim/internal/engine"
	"github.com/san-kum/ferrosim/internal/magnet"
	"github.com/san-kum/ferrosim/internal/metrics"
	"github.com/san-kum/ferrosim/internal/store"
	"github.com/san-kum/ferrosim/internal/viz"
)

var (
	dataDir    string
	configFile string
	dt         float64
	duration   float64
	rate       float64
	debug      bool
	seriesName string
	sweepRuns  int
	benchSteps int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ferrosim",
		Short: "magnetic particle playground",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default to the live view on the baseline scene.
			return runLive(cmd, []string{"single"})
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".ferrosim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run a scene headless and record the result",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runHeadless,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "scene config file (yaml)")
	runCmd.Flags().Float64Var(&dt, "dt", 0, "timestep override")
	runCmd.Flags().Float64Var(&duration, "time", 0, "duration override (seconds)")
	runCmd.Flags().Float64Var(&rate, "rate", 0, "emitter rate override (particles/s)")
	runCmd.Flags().BoolVar(&debug, "debug", false, "extra per-run accounting")

	liveCmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "interactive live view",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&configFile, "config", "", "scene config file (yaml)")
	liveCmd.Flags().Float64Var(&rate, "rate", 0, "emitter rate override (particles/s)")

	sweepCmd := &cobra.Command{
		Use:   "sweep [preset]",
		Short: "sweep magnet strength across parallel runs",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	sweepCmd.Flags().IntVar(&sweepRuns, "runs", 8, "number of strengths to sample")
	sweepCmd.Flags().Float64Var(&duration, "time", 10, "duration per run (seconds)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a recorded series",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&seriesName, "series", "live", "series to plot: live|kinetic|height")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a recorded run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	benchCmd := &cobra.Command{
		Use:   "bench [preset]",
		Short: "measure step throughput at full population",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchScene,
	}
	benchCmd.Flags().IntVar(&benchSteps, "steps", 2000, "steps to time")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list scene presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, sweepCmd, listCmd, plotCmd, exportCmd, benchCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadScene resolves precedence: --config file, then named preset, then the
// baseline, with flag overrides applied on top.
func loadScene(args []string) (*config.Config, string, error) {
	name := "single"
	if len(args) > 0 {
		name = args[0]
	}

	var cfg *config.Config
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, "", fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
		name = "custom"
	} else {
		cfg = config.GetPreset(name)
		if cfg == nil {
			return nil, "", fmt.Errorf("unknown preset %q (see `ferrosim presets`)", name)
		}
	}

	if dt > 0 {
		cfg.Dt = dt
	}
	if duration > 0 {
		cfg.Duration = duration
	}
	if rate > 0 {
		cfg.Emitter.Rate = rate
	}
	if debug {
		cfg.Debug = true
	}
	if cfg.Dt > config.MaxDt {
		cfg.Dt = config.MaxDt
	}
	return cfg, name, nil
}

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, preset, err := loadScene(args)
	if err != nil {
		return err
	}

	eng, err := cfg.BuildEngine()
	if err != nil {
		return err
	}

	ms := []metrics.Metric{
		metrics.NewMeanKinetic(),
		metrics.NewPeakPopulation(),
		metrics.NewSettledFraction(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	series := make([]engine.Stats, 0, int(cfg.Duration/cfg.Dt))
	start := time.Now()
	err = eng.Run(ctx, cfg.Duration, cfg.Dt, func(st engine.Stats) {
		for _, m := range ms {
			m.Observe(st)
		}
		series = append(series, st)
	})
	elapsed := time.Since(start)
	if err != nil {
		return err
	}

	metricVals := make(map[string]float64, len(ms))
	for _, m := range ms {
		metricVals[m.Name()] = m.Value()
	}

	st := store.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(preset, cfg.Dt, cfg.Duration, len(cfg.Magnets), metricVals, series)
	if err != nil {
		return err
	}

	fmt.Printf("run %s: %.1fs simulated in %v\n\n", runID, cfg.Duration, elapsed.Round(time.Millisecond))
	printSeries(series, "live")

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	final := eng.Stats()
	fmt.Fprintf(w, "live\t%d\n", final.Live)
	fmt.Fprintf(w, "pooled\t%d\n", final.Pooled)
	for _, m := range ms {
		fmt.Fprintf(w, "%s\t%.4f\n", m.Name(), m.Value())
	}
	if cfg.Debug {
		fmt.Fprintf(w, "frames\t%d\n", len(series))
		fmt.Fprintf(w, "steps/s\t%.0f\n", float64(len(series))/elapsed.Seconds())
	}
	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, preset, err := loadScene(args)
	if err != nil {
		return err
	}
	eng, err := cfg.BuildEngine()
	if err != nil {
		return err
	}
	return viz.Run(cfg, eng, preset)
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, preset, err := loadScene(args)
	if err != nil {
		return err
	}
	if len(cfg.Magnets) == 0 {
		return fmt.Errorf("preset %q has no magnets to sweep", preset)
	}
	if sweepRuns < 2 {
		return fmt.Errorf("need at least 2 runs, got %d", sweepRuns)
	}

	strengths := make([]float64, sweepRuns)
	for i := range strengths {
		frac := float64(i) / float64(sweepRuns-1)
		strengths[i] = magnet.MinStrength + frac*(magnet.MaxStrength-magnet.MinStrength)
	}

	en := engine.NewEnsemble(sweepRuns, func(run int) (*engine.Engine, error) {
		c := *cfg
		c.Magnets = append([]config.MagnetConfig(nil), cfg.Magnets...)
		for i := range c.Magnets {
			c.Magnets[i].Strength = strengths[run]
		}
		return c.BuildEngine()
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	stats, err := en.Run(ctx, cfg.Duration, cfg.Dt)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "strength\tlive\tsettled\tkinetic\tmean height")
	for i, st := range stats {
		fmt.Fprintf(w, "%.2f\t%d\t%d\t%.3f\t%.2f\n",
			strengths[i], st.Live, st.Settled, st.Kinetic, st.MeanHeight)
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := store.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs recorded")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "id\tpreset\twhen\tduration\tmagnets")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.1fs\t%d\n",
			r.ID, r.Preset, r.Timestamp.Format("2006-01-02 15:04"), r.Duration, r.Magnets)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	series, err := store.New(dataDir).LoadSeries(args[0])
	if err != nil {
		return err
	}
	printSeries(series, seriesName)
	return nil
}

func printSeries(series []engine.Stats, name string) {
	if len(series) < 2 {
		return
	}
	data := make([]float64, len(series))
	for i, st := range series {
		switch name {
		case "kinetic":
			data[i] = st.Kinetic
		case "height":
			data[i] = st.MeanHeight
		default:
			data[i] = float64(st.Live)
		}
	}
	fmt.Println(asciigraph.Plot(data,
		asciigraph.Height(12),
		asciigraph.Width(70),
		asciigraph.Caption(name),
	))
	fmt.Println()
}

func exportRun(cmd *cobra.Command, args []string) error {
	return store.New(dataDir).Export(args[0], os.Stdout)
}

func benchScene(cmd *cobra.Command, args []string) error {
	cfg, preset, err := loadScene(args)
	if err != nil {
		return err
	}

	eng, err := cfg.BuildEngine()
	if err != nil {
		return err
	}
	if err := eng.QueueBurst(cfg.Engine.Ceiling); err != nil {
		return err
	}
	eng.Step(cfg.Dt) // drain the burst so timing sees full population

	start := time.Now()
	for i := 0; i < benchSteps; i++ {
		eng.Step(cfg.Dt)
	}
	elapsed := time.Since(start)

	fmt.Printf("%s: %d steps, %d live, %v/step, %.0f steps/s\n",
		preset, benchSteps, eng.Live(),
		(elapsed / time.Duration(benchSteps)).Round(time.Microsecond),
		float64(benchSteps)/elapsed.Seconds())
	return nil
}
