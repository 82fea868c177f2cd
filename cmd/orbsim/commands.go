package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/orbsim/internal/automation"
	"github.com/san-kum/orbsim/internal/config"
	"github.com/san-kum/orbsim/internal/dynamo"
	"github.com/san-kum/orbsim/internal/experiment"
	"github.com/san-kum/orbsim/internal/logger"
	"github.com/san-kum/orbsim/internal/sim"
	"github.com/san-kum/orbsim/internal/storage"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// loadScenario reads --scenario. Its preset applies unless --preset was given.
func loadScenario() (*automation.Scenario, error) {
	if scenarioFile == "" {
		return nil, nil
	}
	sc, err := automation.LoadScenario(scenarioFile)
	if err != nil {
		return nil, err
	}
	if sc.Preset != "" && preset == "" {
		preset = sc.Preset
	}
	return sc, nil
}

// applyScenario lets the scenario's dt and duration fill in what the command
// line left unset.
func applyScenario(cmd *cobra.Command, cfg *config.Config, sc *automation.Scenario) {
	if sc == nil {
		return
	}
	if sc.Dt > 0 && !cmd.Flags().Changed("dt") {
		cfg.Run.Dt = sc.Dt
	}
	if sc.Duration > 0 && !cmd.Flags().Changed("time") {
		cfg.Run.Duration = sc.Duration
	}
}

func scriptFor(sc *automation.Scenario) sim.InputSource {
	if sc == nil {
		return sim.Idle
	}
	return automation.NewScript(sc)
}

func runHeadless(cmd *cobra.Command, args []string) error {
	sc, err := loadScenario()
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	applyScenario(cmd, cfg, sc)
	log := logger.Log

	name := preset
	if name == "" {
		name = "custom"
	}

	var p sim.Persister
	if persist {
		p = storage.NewGateway(log)
	}
	exp := experiment.New(name, cfg)
	if err := exp.Setup(p, scriptFor(sc), log); err != nil {
		return err
	}
	d := exp.Driver()
	d.Restore()
	if cmd.Flags().Changed("gravity") {
		d.Engine().SetGravity(cfg.Physics.GravityEnabled)
	}

	st := storage.New(cfg.Run.DataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running %s simulation...\n", name)
	start := time.Now()

	result, runErr := exp.Run(ctx)
	if result == nil {
		return runErr
	}
	if runErr != nil {
		log.WithError(runErr).Warn("run interrupted, storing partial trace")
	}
	if persist && cfg.Run.Autosave {
		d.Shutdown()
	}

	elapsed := time.Since(start)

	meta := exp.Metadata()
	if sc != nil {
		meta.Scenario = sc.Name
	}
	runID, err := st.Save(meta, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.Steps)
	printMetrics(result.Metrics)

	if !noPlot {
		plotSeries(result.Heights(), "orb height")
		plotSeries(result.Charges(), "orb charge")
	}
	return nil
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, m[name])
	}
}

func plotSeries(data []float64, caption string) {
	if len(data) < 2 {
		return
	}
	fmt.Println()
	fmt.Println(asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(caption),
	))
}

func resolvedStatePath(cmd *cobra.Command) (string, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return "", err
	}
	return cfg.Run.StatePath, nil
}

func showState(cmd *cobra.Command, args []string) error {
	path, err := resolvedStatePath(cmd)
	if err != nil {
		return err
	}
	orb, err := storage.ReadState(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "file\t%s\n", path)
	fmt.Fprintf(w, "id\t%s\n", orb.ID)
	fmt.Fprintf(w, "state\t%s\n", orb.State)
	fmt.Fprintf(w, "position\t%.4f %.4f %.4f\n", orb.Position.X(), orb.Position.Y(), orb.Position.Z())
	fmt.Fprintf(w, "velocity\t%.4f %.4f %.4f\n", orb.Velocity.X(), orb.Velocity.Y(), orb.Velocity.Z())
	fmt.Fprintf(w, "energy\t%.4f\n", orb.Energy)
	fmt.Fprintf(w, "gravity\t%v\n", orb.IsGravityOn)
	return w.Flush()
}

func resetState(cmd *cobra.Command, args []string) error {
	path, err := resolvedStatePath(cmd)
	if err != nil {
		return err
	}
	if err := storage.WriteState(dynamo.NewOrb(), path); err != nil {
		return err
	}
	fmt.Printf("reset %s\n", path)
	return nil
}

func runStore(cmd *cobra.Command) (*storage.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return storage.New(cfg.Run.DataDir), nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st, err := runStore(cmd)
	if err != nil {
		return err
	}
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tSCENARIO\tTIME\tDURATION\tDT\tINTEG\tBOUNCES")

	for _, run := range runs {
		scenario := run.Scenario
		if scenario == "" {
			scenario = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2fs\t%.4fs\t%s\t%.0f\n",
			run.ID,
			run.Preset,
			scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Integrator,
			run.Metrics["bounces"],
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st, err := runStore(cmd)
	if err != nil {
		return err
	}
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	samples, err := st.LoadStates(runID)
	if err != nil {
		return err
	}

	if len(samples) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("preset: %s\n", meta.Preset)
	fmt.Printf("samples: %d\n", len(samples))

	result := &sim.Result{Samples: samples}
	plotSeries(result.Heights(), "orb height")
	plotSeries(result.Charges(), "orb charge")

	if samples[0].HasCube {
		cube := make([]float64, len(samples))
		for i, s := range samples {
			cube[i] = float64(s.CubePosition.Y())
		}
		plotSeries(cube, "cube height")
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st, err := runStore(cmd)
	if err != nil {
		return err
	}
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func writeConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if len(args) == 1 {
		if err := config.Save(args[0], cfg); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", args[0])
		return nil
	}
	enc := yaml.NewEncoder(os.Stdout)
	defer enc.Close()
	return enc.Encode(cfg)
}

func runSweep(cmd *cobra.Command, args []string) error {
	sc, err := loadScenario()
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	applyScenario(cmd, cfg, sc)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := automation.RunSweep(ctx, &automation.ParameterSweep{
		Base:      cfg,
		ParamName: sweepParam,
		ParamMin:  sweepMin,
		ParamMax:  sweepMax,
		NumSteps:  sweepSteps,
		Scenario:  sc,
	}, logger.Log)
	if err != nil {
		return err
	}

	fmt.Printf("sweeping %s over %d values (dt=%.4f, duration=%.1fs)\n\n", sweepParam, sweepSteps, cfg.Run.Dt, cfg.Run.Duration)
	fmt.Printf("%-12s  %-10s  %-10s  %-8s  %-10s\n", sweepParam, "final_y", "charge", "bounces", "asleep")
	fmt.Println(strings.Repeat("-", 58))
	for _, r := range results {
		fmt.Printf("%-12.4f  %10.4f  %10.4f  %8.0f  %10.2f\n",
			r.ParamValue, r.FinalHeight, r.FinalEnergy, r.Metrics["bounces"], r.Metrics["sleep_fraction"])
	}
	return nil
}

func comparePresets(cmd *cobra.Command, args []string) error {
	sc, err := loadScenario()
	if err != nil {
		return err
	}

	ens := sim.NewEnsemble()
	var runCfg *config.Config
	for _, name := range args {
		preset = name
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		applyScenario(cmd, cfg, sc)
		if runCfg == nil {
			runCfg = cfg
		}
		exp := experiment.New(name, cfg)
		if err := exp.Setup(nil, scriptFor(sc), logger.Log); err != nil {
			return err
		}
		ens.Add(exp.Job())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := ens.Run(ctx, runCfg.Run.Dt, runCfg.Run.Duration)
	if err != nil {
		return err
	}

	fmt.Printf("comparing presets (dt=%.4f, duration=%.1fs)\n\n", runCfg.Run.Dt, runCfg.Run.Duration)
	fmt.Printf("%-10s  %-10s  %-10s  %-8s  %-12s\n", "preset", "final_y", "charge", "bounces", "energy_drift")
	fmt.Println(strings.Repeat("-", 58))
	for i, r := range results {
		last := r.Samples[len(r.Samples)-1]
		fmt.Printf("%-10s  %10.4f  %10.4f  %8.0f  %12.2e\n",
			args[i], last.OrbPosition.Y(), last.Energy, r.Metrics["bounces"], r.Metrics["energy_drift"])
	}
	return nil
}
