package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/experiment"
	"github.com/san-kum/orbitsim/internal/export"
	"github.com/san-kum/orbitsim/internal/metrics"
	"github.com/san-kum/orbitsim/internal/storage"
	"github.com/san-kum/orbitsim/internal/viz"
)

var (
	dataDir    string
	logLevel   string
	configFile string
	integrator string
	force      string
	theta      float64
	frames     int
	seed       int64
	exportPath string
	svgPath    string
	svgSize    int
	format     string
	seeds      int
	theme      string
	gifPath    string
	noSave     bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "orbitsim",
		Short:         "n-body gravity with collisions and particle effects",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPicker()
		},
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".orbitsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run [scene]",
		Short: "run a scene headlessly and store the run",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScene,
	}
	simFlags(runCmd)
	runCmd.Flags().StringVar(&exportPath, "export", "", "also write the full result (.json or .msgpack)")
	runCmd.Flags().StringVar(&svgPath, "svg", "", "write final bodies and trails as SVG")
	runCmd.Flags().IntVar(&svgSize, "svg-size", 800, "SVG width and height in pixels")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "don't store the run")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the energy and roster of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "print run metadata as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportMeta,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export stored run data to stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportJSONCmd.Flags().StringVar(&format, "format", "json", "output format (json, msgpack)")

	compareCmd := &cobra.Command{
		Use:   "compare [scene] [integrator1] [integrator2] ...",
		Short: "run one scene with several integrators and compare drift",
		Args:  cobra.MinimumNArgs(1),
		RunE:  compareIntegrators,
	}
	simFlags(compareCmd)

	sweepCmd := &cobra.Command{
		Use:   "sweep [scene]",
		Short: "run one scene over consecutive seeds",
		Args:  cobra.ExactArgs(1),
		RunE:  sweepSeeds,
	}
	simFlags(sweepCmd)
	sweepCmd.Flags().IntVar(&seeds, "seeds", 8, "number of seeds")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list scene presets and body templates",
		RunE:  listPresets,
	}

	configCmd := &cobra.Command{
		Use:   "config [path] [scene]",
		Short: "write a scene's full config to a YAML file",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  writeConfig,
	}
	simFlags(configCmd)

	liveCmd := &cobra.Command{
		Use:   "live [scene]",
		Short: "watch a scene in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	simFlags(liveCmd)
	liveCmd.Flags().StringVar(&theme, "theme", "", "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")
	liveCmd.Flags().StringVar(&gifPath, "gif", "orbitsim.gif", "GIF recording path")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCmd, exportJSONCmd, compareCmd, sweepCmd, presetsCmd, configCmd, liveCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func simFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&integrator, "integrator", config.DefaultIntegrator, "integrator")
	cmd.Flags().StringVar(&force, "force", config.DefaultForce, "force model (direct, tree)")
	cmd.Flags().Float64Var(&theta, "theta", config.DefaultTheta, "tree opening angle")
	cmd.Flags().IntVar(&frames, "frames", config.DefaultFrames, "frames to run")
	cmd.Flags().Int64Var(&seed, "seed", 1, "random seed")
}

func newLogger() (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})), nil
}

// loadConfig starts from the config file, or the named scene preset, and
// applies the flags the user set explicitly.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	var cfg *config.Config
	switch {
	case configFile != "":
		c, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = c
		if len(args) > 0 {
			p := config.GetPreset(args[0])
			if p == nil {
				return nil, fmt.Errorf("unknown scene: %s (available: %v)", args[0], config.ListPresets())
			}
			cfg.Scene = p.Scene
		}
	default:
		name := "solar"
		if len(args) > 0 {
			name = args[0]
		}
		cfg = config.GetPreset(name)
		if cfg == nil {
			return nil, fmt.Errorf("unknown scene: %s (available: %v)", name, config.ListPresets())
		}
	}

	flags := cmd.Flags()
	if flags.Changed("integrator") {
		cfg.Simulation.Integrator = integrator
	}
	if flags.Changed("force") {
		cfg.Simulation.Force = force
	}
	if flags.Changed("theta") {
		cfg.Simulation.Theta = theta
	}
	if flags.Changed("frames") {
		cfg.Run.Frames = frames
	}
	if flags.Changed("seed") {
		cfg.Simulation.Seed = seed
	}
	return cfg, cfg.Validate()
}

func runScene(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	logger, err := newLogger()
	if err != nil {
		return err
	}

	exp := experiment.New(cfg, nil, logger)
	if err := exp.Setup(); err != nil {
		return err
	}
	fmt.Printf("running %s (%d frames, %s, %s force)...\n", cfg.Scene.Name, cfg.Run.Frames, cfg.Simulation.Integrator, cfg.Simulation.Force)
	res, err := exp.Run(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", res.Elapsed)
	if !noSave {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(res)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}
	if exportPath != "" {
		if err := export.WriteFile(exportPath, res); err != nil {
			return err
		}
		fmt.Printf("result: %s\n", exportPath)
	}
	if svgPath != "" {
		if err := os.WriteFile(svgPath, []byte(export.TrailsToSVG(res.Bodies, svgSize)), 0644); err != nil {
			return err
		}
		fmt.Printf("svg: %s\n", svgPath)
	}

	fmt.Printf("bodies: %d  collisions: %d  supernovae: %d\n", len(res.Bodies), len(res.Collisions), exp.Tally().Supernovae())
	fmt.Println("\nmetrics:")
	for _, name := range sortedKeys(res.Metrics) {
		fmt.Printf("  %s: %.6g\n", name, res.Metrics[name])
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENE\tTIME\tFRAMES\tINTEG\tFORCE\tBODIES\tCOLLISIONS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\t%d\t%d\n",
			run.ID,
			run.Scene,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Frames,
			run.Integrator,
			run.Force,
			run.Bodies,
			run.Collisions,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	res, err := st.Result(args[0])
	if err != nil {
		return err
	}
	if len(res.Samples) < 2 {
		return fmt.Errorf("not enough samples to plot")
	}

	fmt.Printf("run: %s\n", args[0])
	fmt.Printf("scene: %s  integrator: %s  samples: %d\n\n", res.Scene, res.Integrator, len(res.Samples))

	bodies := make([]float64, len(res.Samples))
	for i, s := range res.Samples {
		bodies[i] = float64(s.Bodies)
	}
	for _, series := range []struct {
		caption string
		data    []float64
	}{
		{"total energy", res.Totals()},
		{"bodies", bodies},
	} {
		fmt.Println(asciigraph.Plot(series.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(series.caption),
		))
		fmt.Println()
	}

	sum := metrics.Summarize(res.Totals())
	fmt.Printf("energy: mean %.6g  stddev %.3g  min %.6g  max %.6g\n", sum.Mean, sum.StdDev, sum.Min, sum.Max)
	for _, c := range res.Collisions {
		line := fmt.Sprintf("  t=%.2f %s: %s + %s (impact %.1f)", c.Time, c.Type, c.A, c.B, c.Impact)
		if c.Supernova {
			line += " supernova -> " + c.Remnant
		}
		fmt.Println(line)
	}
	return nil
}

func exportMeta(cmd *cobra.Command, args []string) error {
	meta, err := storage.New(dataDir).Load(args[0])
	if err != nil {
		return err
	}
	return writeJSON(meta)
}

func exportRun(cmd *cobra.Command, args []string) error {
	f, err := export.ParseFormat(format)
	if err != nil {
		return err
	}
	res, err := storage.New(dataDir).Result(args[0])
	if err != nil {
		return err
	}
	return export.Write(os.Stdout, res, f)
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	names := args[1:]
	if len(names) == 0 {
		names = experiment.NewRegistry().ListIntegrators()
	}
	cfg, err := loadConfig(cmd, args[:1])
	if err != nil {
		return err
	}
	logger, err := newLogger()
	if err != nil {
		return err
	}

	fmt.Printf("comparing integrators on %s (%d frames, %s force)\n\n", cfg.Scene.Name, cfg.Run.Frames, cfg.Simulation.Force)
	results, err := experiment.NewEnsemble(cfg, nil, logger).CompareIntegrators(cmd.Context(), names)
	if err != nil {
		return err
	}

	fmt.Printf("%-10s  %12s  %12s  %10s  %10s\n", "integrator", "energy_drift", "momentum", "collisions", "time_ms")
	fmt.Println(strings.Repeat("-", 62))
	for _, r := range results {
		fmt.Printf("%-10s  %12.3e  %12.3e  %10d  %10.2f\n",
			r.Integrator,
			r.Metrics["energy_drift"],
			r.Metrics["momentum_drift"],
			len(r.Collisions),
			float64(r.Elapsed.Microseconds())/1000)
	}
	return nil
}

func sweepSeeds(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	logger, err := newLogger()
	if err != nil {
		return err
	}

	results, err := experiment.NewEnsemble(cfg, nil, logger).Seeds(cmd.Context(), seeds, cfg.Simulation.Seed)
	if err != nil {
		return err
	}

	collisions := make([]float64, len(results))
	survivors := make([]float64, len(results))
	drift := make([]float64, len(results))
	for i, r := range results {
		collisions[i] = float64(len(r.Collisions))
		survivors[i] = float64(len(r.Bodies))
		drift[i] = r.Metrics["energy_drift"]
	}

	fmt.Printf("%s over %d seeds from %d\n\n", cfg.Scene.Name, len(results), cfg.Simulation.Seed)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SERIES\tMEAN\tSTDDEV\tMIN\tMAX\tP95")
	for _, row := range []struct {
		name string
		xs   []float64
	}{
		{"collisions", collisions},
		{"bodies", survivors},
		{"energy_drift", drift},
	} {
		s := metrics.Summarize(row.xs)
		fmt.Fprintf(w, "%s\t%.4g\t%.4g\t%.4g\t%.4g\t%.4g\n", row.name, s.Mean, s.StdDev, s.Min, s.Max, s.P95)
	}
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	fmt.Println("scenes:")
	for _, name := range config.ListPresets() {
		fmt.Printf("  %-12s %s\n", name, config.Presets[name].Description)
	}
	fmt.Println("\nbody templates:")
	for _, name := range config.ListTemplates() {
		t, _ := config.GetTemplate(name)
		star := ""
		if t.IsStar {
			star = " star"
		}
		fmt.Printf("  %-12s mass %-8g radius %g%s\n", name, t.Mass, t.Radius, star)
	}
	fmt.Println("\nintegrators:", strings.Join(experiment.NewRegistry().ListIntegrators(), ", "))
	fmt.Println("force models:", strings.Join(experiment.NewRegistry().ListForces(), ", "))
	return nil
}

func writeConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args[1:])
	if err != nil {
		return err
	}
	if err := config.Save(args[0], cfg); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%s, %d bodies)\n", args[0], cfg.Scene.Name, len(cfg.Scene.Bodies))
	return nil
}

// liveModel builds the simulation for a config. Logs are discarded: the
// live view owns the terminal.
func liveModel(cfg *config.Config) (viz.Model, error) {
	exp := experiment.New(cfg, nil, nil)
	if err := exp.Setup(); err != nil {
		return viz.Model{}, err
	}
	return viz.NewModel(exp.Simulation(), cfg.Scene.Name,
		viz.WithTheme(theme),
		viz.WithGIFPath(gifPath),
		viz.WithFrameDt(cfg.Run.FrameDt)), nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	m, err := liveModel(cfg)
	if err != nil {
		return err
	}
	return viz.Run(m)
}

func runPicker() error {
	entries := make([]viz.SceneEntry, 0, len(config.Presets))
	for _, name := range config.ListPresets() {
		entries = append(entries, viz.SceneEntry{Name: name, Description: config.Presets[name].Description})
	}
	return viz.RunPicker(entries, func(scene string) (viz.Model, error) {
		cfg := config.GetPreset(scene)
		if cfg == nil {
			return viz.Model{}, fmt.Errorf("unknown scene: %s", scene)
		}
		return liveModel(cfg)
	})
}
