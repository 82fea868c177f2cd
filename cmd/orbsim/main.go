package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/orbsim/internal/config"
	"github.com/san-kum/orbsim/internal/logger"
	"github.com/san-kum/orbsim/internal/sim"
	"github.com/san-kum/orbsim/internal/storage"
	"github.com/san-kum/orbsim/internal/viz"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	configFile string
	preset     string
	dataDir    string
	statePath  string
	logLevel   string
	logFormat  string
	// run, sweep and compare
	dt           float32
	duration     float32
	integrator   string
	scenarioFile string
	gravityOn    bool
	withCube     bool
	sleepOn      bool
	persist      bool
	noPlot       bool
	// interactive view
	frameRate int
	theme     string
	// sweep
	sweepParam string
	sweepMin   float32
	sweepMax   float32
	sweepSteps int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "orbsim",
		Short: "orb, plane and cube physics sandbox",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Init(logLevel, logFormat)
		},
		RunE: runInteractive,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.StringVar(&dataDir, "data", "", "data directory (default from config)")
	pf.StringVar(&statePath, "state", "", "entity state file (default from config)")
	pf.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	pf.StringVar(&logFormat, "log-format", "text", "log format (text, json)")
	pf.BoolVar(&gravityOn, "gravity", false, "start with gravity enabled")
	pf.BoolVar(&withCube, "cube", false, "add the cube to the scene")
	pf.BoolVar(&sleepOn, "sleep", false, "enable body sleeping")
	pf.StringVar(&integrator, "integrator", "", "integrator (semi_implicit_euler, euler)")

	rootCmd.Flags().IntVar(&frameRate, "fps", 0, "frame rate (default from config)")
	rootCmd.Flags().StringVar(&theme, "theme", "", fmt.Sprintf("color theme %v", viz.ThemeNames()))

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless simulation and store it",
		Args:  cobra.NoArgs,
		RunE:  runHeadless,
	}
	addRunFlags(runCmd)
	runCmd.Flags().StringVar(&scenarioFile, "scenario", "", "scripted input scenario (yaml)")
	runCmd.Flags().BoolVar(&persist, "persist", false, "load and save the entity state file")
	runCmd.Flags().BoolVar(&noPlot, "no-plot", false, "skip the height and charge charts")

	stateCmd := &cobra.Command{
		Use:   "state",
		Short: "show the saved entity state",
		Args:  cobra.NoArgs,
		RunE:  showState,
	}

	resetStateCmd := &cobra.Command{
		Use:   "reset-state",
		Short: "overwrite the entity state file with the default orb",
		Args:  cobra.NoArgs,
		RunE:  resetState,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range config.ListPresets() {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	configCmd := &cobra.Command{
		Use:   "config [path]",
		Short: "print the effective config, or write it to path",
		Args:  cobra.MaximumNArgs(1),
		RunE:  writeConfig,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep one parameter across headless runs",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addRunFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&scenarioFile, "scenario", "", "scripted input scenario (yaml)")
	sweepCmd.Flags().StringVar(&sweepParam, "param", "restitution", "parameter to sweep")
	sweepCmd.Flags().Float32Var(&sweepMin, "min", 0.2, "first value")
	sweepCmd.Flags().Float32Var(&sweepMax, "max", 0.9, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 8, "number of values")

	compareCmd := &cobra.Command{
		Use:   "compare [preset] [preset] ...",
		Short: "run presets side by side and compare their metrics",
		Args:  cobra.MinimumNArgs(2),
		RunE:  comparePresets,
	}
	addRunFlags(compareCmd)
	compareCmd.Flags().StringVar(&scenarioFile, "scenario", "", "scripted input scenario (yaml)")

	rootCmd.AddCommand(runCmd, stateCmd, resetStateCmd, listCmd, plotCmd, exportCmd, presetsCmd, configCmd, sweepCmd, compareCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().Float32Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float32Var(&duration, "time", config.DefaultDuration, "duration")
}

// loadConfig resolves preset, then config file, then changed flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		var err error
		cfg, err = config.LoadOver(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Run.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Run.Duration = duration
	}
	if flags.Changed("data") {
		cfg.Run.DataDir = dataDir
	}
	if flags.Changed("state") {
		cfg.Run.StatePath = statePath
	}
	if flags.Changed("gravity") {
		cfg.Physics.GravityEnabled = gravityOn
	}
	if flags.Changed("cube") {
		cfg.Cube.Enabled = withCube
	}
	if flags.Changed("sleep") {
		cfg.Sleep.Enabled = sleepOn
	}
	if flags.Changed("integrator") {
		cfg.Physics.Integrator = integrator
	}
	if flags.Changed("fps") {
		cfg.View.FPS = frameRate
	}
}

// newDriver builds the scene and engine. A nil persister runs without the
// entity state file.
func newDriver(cfg *config.Config, p sim.Persister, log logrus.FieldLogger) (*sim.Driver, error) {
	engine, err := cfg.NewEngine()
	if err != nil {
		return nil, err
	}
	scene, err := cfg.NewScene()
	if err != nil {
		return nil, err
	}
	return sim.NewDriver(engine, scene, p, cfg.Run.StatePath, log), nil
}

func runInteractive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// the terminal belongs to the view, so logs go to a file in the data dir
	if err := os.MkdirAll(cfg.Run.DataDir, 0755); err != nil {
		return err
	}
	logFile, err := os.OpenFile(filepath.Join(cfg.Run.DataDir, "orbsim.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	defer logFile.Close()
	log := logger.New(logFile, logLevel, logFormat)

	d, err := newDriver(cfg, storage.NewGateway(log), log)
	if err != nil {
		return err
	}
	d.Restore()
	if cmd.Flags().Changed("gravity") {
		d.Engine().SetGravity(cfg.Physics.GravityEnabled)
	}

	m := viz.NewModel(d, viz.Options{
		Title: "orbsim",
		Dt:    1 / float32(cfg.View.FPS),
		FPS:   cfg.View.FPS,
		Hold:  time.Duration(cfg.View.HoldMs) * time.Millisecond,
		Theme: theme,
	})

	p := tea.NewProgram(m)
	_, runErr := p.Run()
	if cfg.Run.Autosave {
		d.Shutdown()
	}
	return runErr
}
