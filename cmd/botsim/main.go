package main

import (
	"fmt"
	"math"
	"os"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rmarien/botsim/internal/controller"
	"github.com/rmarien/botsim/internal/export"
	"github.com/rmarien/botsim/internal/scene"
	"github.com/rmarien/botsim/internal/sim"
	"github.com/rmarien/botsim/internal/store"
	"github.com/rmarien/botsim/internal/trace"
	"github.com/rmarien/botsim/internal/tui"
)

var (
	dataDir    string
	duration   float64
	dt         float64
	seed       int64
	ctrlName   string
	gravity    bool
	noTerrain  bool
	settings   string
	runCfg     *scene.RunSettings
	verbose    bool
	plotBody   string
	plotMotor  string
	exportPath string
	svgPath    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "botsim",
		Short: "2d robot physics and sensing simulator",
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".botsim", "data directory")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "engine debug logging")

	runCmd := &cobra.Command{
		Use:   "run [scenario.json]",
		Short: "run a scenario headless and persist the trace",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	runCmd.Flags().Float64Var(&duration, "time", 10.0, "duration in seconds")
	runCmd.Flags().Float64Var(&dt, "dt", 0, "timestep override (0 keeps the scene's)")
	runCmd.Flags().Int64Var(&seed, "seed", 0, "seed override (0 keeps the scene's)")
	runCmd.Flags().StringVar(&ctrlName, "controller", "", "controller override for every robot")
	runCmd.Flags().BoolVar(&gravity, "gravity", false, "apply in-plane gravity")
	runCmd.Flags().BoolVar(&noTerrain, "no-terrain", false, "skip static terrain")
	runCmd.Flags().StringVar(&settings, "config", "", "run settings file (yaml)")

	liveCmd := &cobra.Command{
		Use:   "live [scenario.json]",
		Short: "run a scenario with a live terminal view",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&ctrlName, "controller", "", "controller override for every robot")
	liveCmd.Flags().BoolVar(&gravity, "gravity", false, "apply in-plane gravity")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list persisted runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a run's body track and wheel slip",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&plotBody, "body", "", "body to plot (default: first)")
	plotCmd.Flags().StringVar(&plotMotor, "motor", "", "motor to plot (default: first)")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&exportPath, "out", "", "output file (default: stdout)")
	exportCmd.Flags().StringVar(&svgPath, "svg", "", "also render body tracks to an SVG file")

	validateCmd := &cobra.Command{
		Use:   "validate [scenario.json]",
		Short: "validate a scenario file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := scene.LoadScenario(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("ok: %s (%d robots, %d terrain objects)\n",
				sc.Name, len(sc.Robots), len(sc.World.Terrain))
			return nil
		},
	}

	controllersCmd := &cobra.Command{
		Use:   "controllers",
		Short: "list registered controllers",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range controller.NewRegistry().Names() {
				fmt.Println(name)
			}
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, exportCmd, validateCmd, controllersCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger() *zap.Logger {
	if verbose {
		logger, _ := zap.NewDevelopment()
		return logger
	}
	logger, _ := zap.NewProduction()
	return logger
}

func loadSimulator(path string) (*sim.Simulator, *scene.Scenario, error) {
	sc, err := scene.LoadScenario(path)
	if err != nil {
		return nil, nil, err
	}
	if dt > 0 {
		sc.World.Timestep = dt
	}
	if seed != 0 {
		sc.World.Seed = seed
	}
	if runCfg != nil {
		runCfg.ApplyControllers(sc)
	}
	if ctrlName != "" {
		for i := range sc.Robots {
			sc.Robots[i].Controller = ctrlName
		}
	}
	s := sim.New(nil, newLogger())
	err = s.Load(sc, sim.LoadOptions{WithGravity: gravity, IgnoreTerrain: noTerrain})
	if err != nil {
		return nil, nil, err
	}
	return s, sc, nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	path := args[0]
	if settings != "" {
		cfg, err := scene.LoadRunSettings(settings)
		if err != nil {
			return fmt.Errorf("load run settings: %w", err)
		}
		if cfg.Scenario != "" {
			path = cfg.Scenario
		}
		if !cmd.Flags().Changed("time") && cfg.Duration > 0 {
			duration = cfg.Duration
		}
		if !cmd.Flags().Changed("dt") && cfg.Dt > 0 {
			dt = cfg.Dt
		}
		if !cmd.Flags().Changed("seed") && cfg.Seed != 0 {
			seed = cfg.Seed
		}
		if !cmd.Flags().Changed("data") && cfg.DataDir != "" {
			dataDir = cfg.DataDir
		}
		runCfg = cfg
	}

	s, sc, err := loadSimulator(path)
	if err != nil {
		return err
	}
	var rec *trace.Recorder
	if runCfg == nil || runCfg.Trace {
		rec = trace.NewRecorder()
		s.EnableTrace(rec)
	}

	steps := int(duration / s.Dt())
	fmt.Printf("running %s (%d steps at dt=%.4fs)...\n", sc.Name, steps, s.Dt())
	start := time.Now()
	if err := s.Run(steps); err != nil {
		return err
	}
	elapsed := time.Since(start)

	st := store.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	controllers := map[string]string{}
	for _, r := range sc.Robots {
		controllers[r.ID] = r.ControllerRef()
	}
	ctrlErrs := map[string]string{}
	for rid, cerr := range s.ControllerErrors() {
		ctrlErrs[rid] = cerr.Error()
	}
	runID, err := st.Save(store.RunMetadata{
		Scenario:    sc.Name,
		Seed:        sc.World.Seed,
		Dt:          s.Dt(),
		Duration:    duration,
		Controllers: controllers,
		Errors:      ctrlErrs,
	}, rec)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	if rec != nil {
		for _, ms := range trace.Summarize(rec.Records()) {
			fmt.Printf("  %s: mean slip %.3f (max %.3f), mean command %.2f\n",
				ms.Motor, ms.MeanSlip, ms.MaxSlip, ms.MeanCommand)
		}
	}
	for rid, cerr := range ctrlErrs {
		fmt.Printf("  controller error (%s): %s\n", rid, cerr)
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	s, sc, err := loadSimulator(args[0])
	if err != nil {
		return err
	}
	minX, minY, maxX, maxY := -1.0, -1.0, 1.0, 1.0
	if b := sc.World.Bounds; b != nil {
		minX, minY, maxX, maxY = b.MinX, b.MinY, b.MaxX, b.MaxY
	}
	return tui.NewLive(s, sc.Name, minX, minY, maxX, maxY).Run()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tDURATION\tDT\tSTEPS\tERRORS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%d\t%d\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Steps,
			len(run.Errors),
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := store.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	bodies, err := st.LoadBodies(runID)
	if err != nil {
		return err
	}
	if len(bodies) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\nscenario: %s\nsamples: %d\n\n", meta.ID, meta.Scenario, len(bodies))

	body := plotBody
	if body == "" {
		body = bodies[0].Body
	}
	var xs, ys, speeds []float64
	for _, b := range bodies {
		if b.Body != body {
			continue
		}
		xs = append(xs, b.X)
		ys = append(ys, b.Y)
		speeds = append(speeds, math.Hypot(b.VX, b.VY))
	}
	if len(xs) == 0 {
		return fmt.Errorf("body %q not in run", body)
	}
	fmt.Println(asciigraph.Plot(xs, asciigraph.Height(10), asciigraph.Width(80),
		asciigraph.Caption(body+" x position")))
	fmt.Println()
	fmt.Println(asciigraph.Plot(ys, asciigraph.Height(10), asciigraph.Width(80),
		asciigraph.Caption(body+" y position")))
	fmt.Println()
	fmt.Println(asciigraph.Plot(speeds, asciigraph.Height(10), asciigraph.Width(80),
		asciigraph.Caption(body+" speed")))

	motors, err := st.LoadMotors(runID)
	if err != nil || len(motors) == 0 {
		return nil
	}
	motor := plotMotor
	if motor == "" {
		motor = motors[0].Motor
	}
	var slips []float64
	for _, m := range motors {
		if m.Motor == motor {
			slips = append(slips, m.SlipRatio)
		}
	}
	if len(slips) > 0 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(slips, asciigraph.Height(10), asciigraph.Width(80),
			asciigraph.Caption(motor+" slip ratio")))
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	if svgPath != "" {
		bodies, err := st.LoadBodies(args[0])
		if err != nil {
			return err
		}
		if err := export.WriteTracksSVG(svgPath, bodies, 800, 600); err != nil {
			return err
		}
		fmt.Printf("tracks rendered to %s\n", svgPath)
	}
	if exportPath != "" {
		if err := st.ExportJSON(args[0], exportPath); err != nil {
			return err
		}
		fmt.Printf("exported to %s\n", exportPath)
		return nil
	}
	return st.ExportJSONStdout(args[0])
}
