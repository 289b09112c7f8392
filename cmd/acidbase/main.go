package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/acidbase/internal/automation"
	"github.com/san-kum/acidbase/internal/chem"
	"github.com/san-kum/acidbase/internal/config"
	"github.com/san-kum/acidbase/internal/export"
	"github.com/san-kum/acidbase/internal/instruments"
	"github.com/san-kum/acidbase/internal/journal"
	"github.com/san-kum/acidbase/internal/optim"
	"github.com/san-kum/acidbase/internal/solution"
	"github.com/san-kum/acidbase/internal/storage"
	"github.com/san-kum/acidbase/internal/sweep"
	"github.com/san-kum/acidbase/internal/viz"
)

var (
	configFile    string
	dataDir       string
	journalPath   string
	logLevel      string
	theme         string
	concentration float64
	strength      float64
	preset        string
	record        bool
	param         string
	from          float64
	to            float64
	points        int
	comparePoints int
	fixed         float64
	species       string
	limit         int
	asJSON        bool
	targetPH      float64
	matchPoints   int
	output        string
	trials        int
	perturbation  float64
	seed          int64

	cfg *config.Config
)

// main registers the commands and flags, opens the interactive lab when no
// subcommand is given, and exits with status 1 if the command fails.
func main() {
	rootCmd := &cobra.Command{
		Use:               "acidbase",
		Short:             "acid-base solutions equilibrium lab",
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		RunE: func(cmd *cobra.Command, args []string) error {
			j, closeJournal := openJournal()
			defer closeJournal()
			return viz.RunInteractive(solution.NewRegistry(), viz.GetTheme(theme), recorderOf(j))
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	rootCmd.PersistentFlags().StringVar(&journalPath, "journal", config.DefaultJournal, "readings database")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&theme, "theme", "classic", "colour theme (classic, minimal)")

	computeCmd := &cobra.Command{
		Use:   "compute [solution]",
		Short: "compute equilibrium concentrations",
		Args:  cobra.ExactArgs(1),
		RunE:  runCompute,
	}
	addSolutionFlags(computeCmd)
	computeCmd.Flags().BoolVar(&record, "record", false, "record the reading in the journal")
	computeCmd.Flags().BoolVar(&asJSON, "json", false, "print concentrations as JSON")

	sweepCmd := &cobra.Command{
		Use:   "sweep [solution]",
		Short: "sweep concentration or strength and save the series",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	addSolutionFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&param, "param", "concentration", "input to sweep (concentration, strength)")
	sweepCmd.Flags().Float64Var(&from, "from", 0, "sweep start (default: range minimum of --param)")
	sweepCmd.Flags().Float64Var(&to, "to", 0, "sweep end (default: range maximum of --param)")
	sweepCmd.Flags().IntVar(&points, "points", config.DefaultPoints, "number of log-spaced points")
	sweepCmd.Flags().Float64Var(&fixed, "fixed", 0, "value of the input that is not swept")

	compareCmd := &cobra.Command{
		Use:   "compare",
		Short: "sweep every solution over concentration and compare pH",
		RunE:  runCompare,
	}
	compareCmd.Flags().IntVar(&comparePoints, "points", 11, "number of log-spaced points")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved sweeps",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a saved sweep",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&species, "species", "", "plot log10 of this species instead of pH")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a saved sweep to JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return newStore().ExportJSON(os.Stdout, args[0])
		},
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export a saved sweep to CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return newStore().ExportCSV(os.Stdout, args[0])
		},
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export a saved sweep curve to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVar(&species, "species", "", "plot log10 of this species instead of pH")
	exportSVGCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")

	matchCmd := &cobra.Command{
		Use:   "match [solution]",
		Short: "find the inputs whose pH is closest to a target",
		Args:  cobra.ExactArgs(1),
		RunE:  runMatch,
	}
	matchCmd.Flags().Float64Var(&targetPH, "ph", 7, "target pH")
	matchCmd.Flags().IntVar(&matchPoints, "points", 25, "grid points per input")

	scriptCmd := &cobra.Command{
		Use:   "script [scenario.yaml]",
		Short: "run a scripted sequence of readings",
		Args:  cobra.ExactArgs(1),
		RunE:  runScript,
	}

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo [solution]",
		Short: "perturb the inputs and report the pH spread",
		Args:  cobra.ExactArgs(1),
		RunE:  runMonteCarlo,
	}
	addSolutionFlags(monteCarloCmd)
	monteCarloCmd.Flags().IntVar(&trials, "trials", 200, "number of trials")
	monteCarloCmd.Flags().Float64Var(&perturbation, "perturbation", 0.05, "input perturbation in decades")
	monteCarloCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 uses the clock)")

	presetsCmd := &cobra.Command{
		Use:   "presets [solution]",
		Short: "list presets for a solution",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for solution: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				c := config.GetPreset(args[0], p)
				fmt.Printf("  %-18s c=%g", p, c.Concentration)
				if c.Strength != 0 {
					fmt.Printf(" K=%g", c.Strength)
				}
				fmt.Println()
			}
			return nil
		},
	}

	liveCmd := &cobra.Command{
		Use:   "live [solution]",
		Short: "open the lab bench for one solution",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	addSolutionFlags(liveCmd)

	readingsCmd := &cobra.Command{
		Use:   "readings",
		Short: "show recent journal readings",
		RunE:  listReadings,
	}
	readingsCmd.Flags().IntVar(&limit, "limit", 20, "number of readings")

	rootCmd.AddCommand(computeCmd, sweepCmd, compareCmd, listCmd, plotCmd, exportJSONCmd, exportCSVCmd, exportSVGCmd, matchCmd, scriptCmd, monteCarloCmd, presetsCmd, liveCmd, readingsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSolutionFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&concentration, "concentration", 0, "total solute concentration (mol/L)")
	cmd.Flags().Float64Var(&strength, "strength", 0, "Ka or Kb of a weak solute")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

// setup loads configuration (file, then env, then flags) and installs the logger.
func setup(cmd *cobra.Command, args []string) error {
	cfg = config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	} else if err := config.ApplyEnv(cfg); err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("data") || cfg.DataDir == "" {
		cfg.DataDir = dataDir
	}
	if flags.Changed("journal") || cfg.Journal == "" {
		cfg.Journal = journalPath
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)
	slog.Debug("configuration loaded", "data", cfg.DataDir, "journal", cfg.Journal, "config", configFile)
	return nil
}

// solutionConfig layers preset and flags over the loaded configuration.
func solutionConfig(cmd *cobra.Command, name string) (*config.Config, error) {
	c := *cfg
	c.Solution = name
	if preset != "" {
		p := config.GetPreset(name, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(name))
		}
		c.Concentration, c.Strength = p.Concentration, p.Strength
	}
	if cmd.Flags().Changed("concentration") {
		c.Concentration = concentration
	}
	if cmd.Flags().Changed("strength") {
		c.Strength = strength
	}
	return &c, nil
}

func newStore() *storage.Store {
	return storage.New(cfg.DataDir, slog.Default())
}

// openJournal opens the readings database. Failure is logged and the lab
// runs without recording.
func openJournal() (*journal.DB, func()) {
	if err := os.MkdirAll(filepath.Dir(cfg.Journal), 0755); err != nil {
		slog.Warn("journal unavailable", "path", cfg.Journal, "error", err)
		return nil, func() {}
	}
	j, err := journal.Open(cfg.Journal, slog.Default())
	if err != nil {
		slog.Warn("journal unavailable", "path", cfg.Journal, "error", err)
		return nil, func() {}
	}
	return j, func() { j.Close() }
}

func recorderOf(j *journal.DB) viz.Recorder {
	if j == nil {
		return nil
	}
	return j
}

func runCompute(cmd *cobra.Command, args []string) error {
	c, err := solutionConfig(cmd, args[0])
	if err != nil {
		return err
	}
	sol, err := c.Build()
	if err != nil {
		return err
	}
	conc, err := sol.Concentrations()
	if err != nil {
		return err
	}

	if asJSON {
		return printJSON(conc)
	}

	table := chem.NewSpeciesTable()
	fmt.Printf("solution: %s\n", sol.Kind())
	if sol.Kind() != chem.Water {
		fmt.Printf("concentration: %g mol/L\n", sol.Concentration())
	}
	if sol.Kind().IsWeak() {
		fmt.Printf("strength: %g\n", sol.Strength())
	}
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SPECIES\tNAME\tMOL/L\tPARTICLES")
	for _, s := range conc.Species() {
		n := "-"
		if s != chem.H2O {
			n = fmt.Sprint(instruments.ParticleCount(conc.Value(s)))
		}
		fmt.Fprintf(w, "%s\t%s\t%.4e\t%s\n", table.Symbol(s), table[s].Name, conc.Value(s), n)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	readings := instruments.ReadAll(instruments.Default(), conc)
	paper := instruments.NewPHPaper()
	paper.Observe(conc)
	fmt.Printf("\npH: %.2f\n", readings["ph"])
	fmt.Printf("paper: %s\n", paper.Color())
	fmt.Printf("brightness: %.2f\n", readings["brightness"])

	if record {
		j, closeJournal := openJournal()
		defer closeJournal()
		if j == nil {
			return fmt.Errorf("journal unavailable: %s", cfg.Journal)
		}
		r, err := journal.Take(sol, time.Now())
		if err != nil {
			return err
		}
		id, err := j.Record(cmd.Context(), r)
		if err != nil {
			return err
		}
		fmt.Printf("recorded reading #%d\n", id)
	}
	return nil
}

func printJSON(conc chem.Concentrations) error {
	out := map[string]any{
		"solution":       conc.Kind().String(),
		"ph":             chem.PH(conc),
		"concentrations": conc.Map(),
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func runSweep(cmd *cobra.Command, args []string) error {
	c, err := solutionConfig(cmd, args[0])
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("param") {
		c.Sweep.Param = param
	}
	if cmd.Flags().Changed("points") {
		c.Sweep.Points = points
	}
	if cmd.Flags().Changed("fixed") {
		c.Sweep.Fixed = fixed
	}

	sc, err := c.SweepConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("param") {
		r := chem.ConcentrationRange
		if sc.Param == sweep.Strength {
			r = chem.WeakStrengthRange
		}
		sc.From, sc.To = r.Min, r.Max
	}
	if cmd.Flags().Changed("from") {
		sc.From = from
	}
	if cmd.Flags().Changed("to") {
		sc.To = to
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	st := newStore()
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("sweeping %s of %s...\n", sc.Param, sc.Kind)
	start := time.Now()
	result, err := sweep.New(instruments.Default()...).Run(ctx, sc)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(result)
	if err != nil {
		return err
	}
	slog.Info("sweep saved", "id", runID, "points", len(result.Values), "elapsed", elapsed)

	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("points: %d\n", len(result.Values))
	fmt.Printf("pH: %.2f -> %.2f\n", result.PH[0], result.PH[len(result.PH)-1])
	return nil
}

func runCompare(cmd *cobra.Command, args []string) error {
	var cfgs []sweep.Config
	for _, kind := range chem.Kinds() {
		if kind == chem.Water {
			continue
		}
		sc := sweep.DefaultConfig(kind)
		sc.Points = comparePoints
		cfgs = append(cfgs, sc)
	}

	results, err := sweep.NewEnsemble(instruments.Default).Run(cmd.Context(), cfgs)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	header := []string{"MOL/L"}
	for _, r := range results {
		header = append(header, strings.ToUpper(r.Config.Kind.String()))
	}
	fmt.Fprintln(w, strings.Join(header, "\t"))
	for i := 0; i < comparePoints; i++ {
		row := []string{fmt.Sprintf("%.3e", results[0].Values[i])}
		for _, r := range results {
			row = append(row, fmt.Sprintf("%.2f", r.PH[i]))
		}
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := newStore().List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSOLUTION\tTIME\tPARAM\tRANGE\tPOINTS\tPH")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.1e..%.1e\t%d\t%.2f..%.2f\n",
			run.ID,
			run.Solution,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Param,
			run.From, run.To,
			run.Points,
			run.PHMin, run.PHMax,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := newStore()
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}

	if len(series.Values) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("solution: %s\n", meta.Solution)
	fmt.Printf("x: log10(%s) from %.1e to %.1e\n\n", meta.Param, meta.From, meta.To)

	data := series.PH
	caption := "pH vs log10(" + meta.Param + ")"
	if species != "" {
		col, ok := series.Columns[species]
		if !ok {
			return fmt.Errorf("unknown species %s (available: %v)", species, series.Species)
		}
		data = make([]float64, len(col))
		for i, v := range col {
			data[i] = logOrFloor(v)
		}
		caption = "log10[" + species + "] vs log10(" + meta.Param + ")"
	}

	graph := asciigraph.Plot(data,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption(caption),
	)
	fmt.Println(graph)
	return nil
}

// logOrFloor returns log10(v), flooring zero concentrations at the graph's axis minimum.
func logOrFloor(v float64) float64 {
	if v <= 0 {
		return instruments.GraphMinExponent
	}
	l := math.Log10(v)
	if l < instruments.GraphMinExponent {
		return instruments.GraphMinExponent
	}
	return l
}

func runLive(cmd *cobra.Command, args []string) error {
	c, err := solutionConfig(cmd, args[0])
	if err != nil {
		return err
	}
	sol, err := c.Build()
	if err != nil {
		return err
	}
	j, closeJournal := openJournal()
	defer closeJournal()
	return viz.RunLab(sol, viz.GetTheme(theme), recorderOf(j))
}

func listReadings(cmd *cobra.Command, args []string) error {
	j, closeJournal := openJournal()
	defer closeJournal()
	if j == nil {
		return fmt.Errorf("journal unavailable: %s", cfg.Journal)
	}

	readings, err := j.Recent(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if len(readings) == 0 {
		fmt.Println("no readings found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tSOLUTION\tMOL/L\tK\tPH\tBULB")
	for _, r := range readings {
		k := "-"
		if r.Strength != 0 && r.Strength != chem.StrongStrength {
			k = fmt.Sprintf("%.1e", r.Strength)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%.3e\t%s\t%.2f\t%.2f\n",
			r.ID,
			r.TakenAt.Format("2006-01-02 15:04:05"),
			r.Solution,
			r.Concentration,
			k,
			r.PH,
			r.Brightness,
		)
	}
	return w.Flush()
}

func exportSVG(cmd *cobra.Command, args []string) error {
	series, err := newStore().LoadSeries(args[0])
	if err != nil {
		return err
	}

	t := viz.GetTheme(theme)
	stroke := string(t.H3O)
	if species != "" {
		stroke = string(t.Acid)
	}
	svg, err := export.SeriesToSVG(series, species, 800, 400, stroke)
	if err != nil {
		return err
	}

	if output == "" {
		fmt.Println(svg)
		return nil
	}
	if err := os.WriteFile(output, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", output)
	return nil
}

func runMatch(cmd *cobra.Command, args []string) error {
	kind, err := chem.ParseKind(args[0])
	if err != nil {
		return err
	}
	g, err := optim.ForKind(kind, matchPoints)
	if err != nil {
		return err
	}

	m, err := g.Search(cmd.Context(), kind, targetPH)
	if err != nil {
		return err
	}

	fmt.Printf("solution: %s\n", kind)
	fmt.Printf("target pH: %.2f\n", targetPH)
	fmt.Printf("concentration: %.3e mol/L\n", m.Concentration)
	if kind.IsWeak() {
		fmt.Printf("strength: %.3e\n", m.Strength)
	}
	fmt.Printf("pH: %.2f (off by %.2f)\n", m.PH, m.Error)
	return nil
}

func runScript(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return fmt.Errorf("failed to load scenario: %w", err)
	}

	var rec automation.Recorder
	for _, step := range scenario.Steps {
		if step.Record {
			j, closeJournal := openJournal()
			defer closeJournal()
			if j != nil {
				rec = j
			}
			break
		}
	}

	results, err := automation.NewRunner(solution.NewRegistry(), rec, slog.Default()).RunScenario(cmd.Context(), scenario)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tLABEL\tSOLUTION\tMOL/L\tPH\tBULB\tRECORD")
	for i, r := range results {
		id := "-"
		if r.RecordID != 0 {
			id = fmt.Sprintf("#%d", r.RecordID)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%.3e\t%.2f\t%.2f\t%s\n",
			i+1, r.Step.Label, r.Reading.Solution, r.Reading.Concentration, r.Reading.PH, r.Reading.Brightness, id)
	}
	if ferr := w.Flush(); ferr != nil && err == nil {
		err = ferr
	}
	return err
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	c, err := solutionConfig(cmd, args[0])
	if err != nil {
		return err
	}

	mc := &automation.MonteCarloConfig{
		Solution:      c.Solution,
		Concentration: c.Concentration,
		Strength:      c.Strength,
		Perturbation:  perturbation,
		NumTrials:     trials,
		Seed:          seed,
	}
	results, err := automation.NewRunner(solution.NewRegistry(), nil, slog.Default()).RunMonteCarlo(cmd.Context(), mc)
	if err != nil {
		return err
	}

	minPH, maxPH, mean := automation.MonteCarloStats(results)
	ph := make([]float64, len(results))
	for i, r := range results {
		ph[i] = r.PH
	}

	fmt.Printf("solution: %s\n", c.Solution)
	fmt.Printf("trials: %d (perturbation %.2f decades)\n", len(results), perturbation)
	fmt.Printf("pH: mean %.3f, range %.3f..%.3f\n\n", mean, minPH, maxPH)
	fmt.Println(asciigraph.Plot(ph, asciigraph.Height(8), asciigraph.Width(80), asciigraph.Caption("pH per trial")))
	return nil
}
