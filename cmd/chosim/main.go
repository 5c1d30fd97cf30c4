package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/bioproc/chosim/internal/analysis"
	"github.com/bioproc/chosim/internal/config"
	"github.com/bioproc/chosim/internal/export"
	"github.com/bioproc/chosim/internal/ferment"
	"github.com/bioproc/chosim/internal/kpi"
	"github.com/bioproc/chosim/internal/logging"
	"github.com/bioproc/chosim/internal/session"
	"github.com/bioproc/chosim/internal/sweep"
	"github.com/bioproc/chosim/internal/tui"
)

var (
	logLevel   string
	configFile string
	preset     string

	// Culture conditions
	glucose float64
	seedVCD float64
	temp    float64
	ph      float64
	oxygen  float64
	hours   float64
	dt      float64

	// Table output
	every   int
	format  string
	outFile string

	// Chart output
	outDir string

	// Sweep grid
	axisSpecs []string
	workers   int
)

// main registers the chosim commands and runs the root command. Without a
// subcommand it opens the interactive terminal session.
func main() {
	rootCmd := &cobra.Command{
		Use:   "chosim",
		Short: "cho cell batch culture lab",
		RunE:  startTUI,
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "culture scenario preset")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		slog.SetDefault(logging.New(logLevel, os.Stderr))
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run one batch culture",
		RunE:  runBatch,
	}
	addCultureFlags(runCmd)

	tableCmd := &cobra.Command{
		Use:   "table",
		Short: "print the sampled trajectory",
		RunE:  printTable,
	}
	addCultureFlags(tableCmd)
	tableCmd.Flags().IntVar(&every, "every", 6, "print every n-th sample")
	tableCmd.Flags().StringVar(&format, "format", "text", "output format (text, csv, json)")
	tableCmd.Flags().StringVar(&outFile, "out", "", "write to a file instead of stdout")

	plotCmd := &cobra.Command{
		Use:   "plot",
		Short: "terminal plots of a batch",
		RunE:  plotBatch,
	}
	addCultureFlags(plotCmd)

	chartCmd := &cobra.Command{
		Use:   "chart",
		Short: "write png charts of a batch",
		RunE:  chartBatch,
	}
	addCultureFlags(chartCmd)
	chartCmd.Flags().StringVar(&outDir, "out", "charts", "output directory")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "run a parallel grid over culture conditions",
		RunE:  sweepGrid,
	}
	addCultureFlags(sweepCmd)
	sweepCmd.Flags().StringArrayVar(&axisSpecs, "axis", nil, "sweep axis as param=from:to:points (repeatable)")
	sweepCmd.Flags().IntVar(&workers, "workers", 0, "parallel workers (0 = all cpus)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list culture scenarios",
		RunE:  listScenarios,
	}

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "interactive terminal session",
		RunE:  startTUI,
	}

	rootCmd.AddCommand(runCmd, tableCmd, plotCmd, chartCmd, sweepCmd, presetsCmd, tuiCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addCultureFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&glucose, "glucose", 25.0, "initial glucose (g/L)")
	cmd.Flags().Float64Var(&seedVCD, "vcd", 0.5, "seeding viable cell density (1e6 cells/mL)")
	cmd.Flags().Float64Var(&temp, "temp", 37.0, "culture temperature (C)")
	cmd.Flags().Float64Var(&ph, "ph", 7.2, "culture ph")
	cmd.Flags().Float64Var(&oxygen, "oxygen", 50.0, "dissolved oxygen (% saturation)")
	cmd.Flags().Float64Var(&hours, "hours", 288.0, "batch duration (h)")
	cmd.Flags().Float64Var(&dt, "dt", 1.0, "sampling interval (h)")
}

// cultureSetup resolves the engine and run inputs from preset, config file
// and flags, in that order of precedence.
func cultureSetup(cmd *cobra.Command) (*ferment.Simulator, ferment.RunParams, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, ferment.RunParams{}, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, ferment.RunParams{}, fmt.Errorf("failed to load config: %w", err)
		}
		if preset != "" {
			slog.Debug("config file overrides preset", "preset", preset, "config", configFile)
		}
		cfg = loaded
	}

	eng := cfg.Engine()
	if cmd.Flags().Changed("hours") {
		eng.Duration = hours
	}
	if cmd.Flags().Changed("dt") {
		eng.TimeStep = dt
	}

	p := cfg.Params()
	if cmd.Flags().Changed("glucose") {
		p.InitialGlucose = glucose
	}
	if cmd.Flags().Changed("vcd") {
		p.InitialVCD = seedVCD
	}
	if cmd.Flags().Changed("temp") {
		p.Temperature = temp
	}
	if cmd.Flags().Changed("ph") {
		p.PH = ph
	}
	if cmd.Flags().Changed("oxygen") {
		p.DissolvedOxygen = oxygen
	}

	sim, err := ferment.New(eng)
	if err != nil {
		return nil, ferment.RunParams{}, err
	}

	slog.Debug("engine ready",
		"duration_h", eng.Duration,
		"dt_h", eng.TimeStep,
		"glucose", p.InitialGlucose,
		"vcd", p.InitialVCD,
		"temp", p.Temperature,
		"ph", p.PH,
		"do2", p.DissolvedOxygen)

	return sim, p, nil
}

func scenarioName() string {
	if preset != "" {
		return preset
	}
	return "custom"
}

func runBatch(cmd *cobra.Command, args []string) error {
	sim, p, err := cultureSetup(cmd)
	if err != nil {
		return err
	}

	fmt.Printf("running %s batch culture...\n", scenarioName())
	start := time.Now()
	tr := sim.Simulate(p)
	elapsed := time.Since(start)

	summary := kpi.Compute(tr)
	final := tr.Final()

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("samples: %d\n", tr.Len())

	fmt.Println("\nfinal state:")
	fmt.Printf("  glucose:   %8.2f g/L\n", final.Glucose)
	fmt.Printf("  vcd:       %8.2f 1e6 cells/mL\n", final.VCD)
	fmt.Printf("  tcd:       %8.2f 1e6 cells/mL\n", final.TCD)
	fmt.Printf("  viability: %8.2f %%\n", final.Viability)
	fmt.Printf("  titer:     %8.2f ug/mL\n", final.Titer)

	fmt.Println("\nkpis:")
	fmt.Printf("  final titer:   %8.2f ug/mL\n", summary.FinalTiter)
	fmt.Printf("  peak vcd:      %8.2f 1e6 cells/mL\n", summary.MaxVCD)
	fmt.Printf("  avg viability: %8.2f %%\n", summary.AvgViability)
	fmt.Printf("  min viability: %8.2f %%\n", summary.MinViability)

	return nil
}

func printTable(cmd *cobra.Command, args []string) error {
	sim, p, err := cultureSetup(cmd)
	if err != nil {
		return err
	}
	tr := sim.Simulate(p)

	if outFile == "" {
		return writeTable(os.Stdout, tr)
	}
	f, err := os.Create(outFile)
	if err != nil {
		return err
	}
	if err := writeTable(f, tr); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeTable(w io.Writer, tr *ferment.Trajectory) error {
	switch format {
	case "csv":
		return export.WriteCSV(w, tr)
	case "json":
		return export.WriteJSON(w, tr, kpi.Compute(tr))
	case "text":
		return export.FprintTable(w, tr, every)
	default:
		return fmt.Errorf("unknown format: %s (want text, csv or json)", format)
	}
}

func plotBatch(cmd *cobra.Command, args []string) error {
	sim, p, err := cultureSetup(cmd)
	if err != nil {
		return err
	}
	tr := sim.Simulate(p)

	fmt.Printf("scenario: %s\n", scenarioName())
	fmt.Printf("samples: %d\n\n", tr.Len())

	series := []struct {
		data    []float64
		caption string
	}{
		{tr.VCDSeries(), "viable cell density (1e6 cells/mL)"},
		{tr.ViabilitySeries(), "viability (%)"},
		{tr.GlucoseSeries(), "glucose (g/L)"},
		{tr.TiterSeries(), "antibody titer (ug/mL)"},
	}

	for _, s := range series {
		graph := asciigraph.Plot(s.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(s.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func chartBatch(cmd *cobra.Command, args []string) error {
	sim, p, err := cultureSetup(cmd)
	if err != nil {
		return err
	}
	tr := sim.Simulate(p)

	paths, err := export.SaveCharts(outDir, tr)
	if err != nil {
		return err
	}
	for _, path := range paths {
		fmt.Println(path)
	}
	return nil
}

func sweepGrid(cmd *cobra.Command, args []string) error {
	sim, base, err := cultureSetup(cmd)
	if err != nil {
		return err
	}

	axes := make([]sweep.Axis, 0, len(axisSpecs))
	for _, spec := range axisSpecs {
		axis, err := parseAxis(spec)
		if err != nil {
			return err
		}
		axes = append(axes, axis)
	}

	sw, err := sweep.New(sim, base, axes, workers)
	if err != nil {
		return err
	}

	fmt.Printf("sweeping %d combinations...\n", sw.Size())
	start := time.Now()
	results, err := sw.Run(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Printf("completed in %v\n\n", time.Since(start))

	ledger := session.NewLedger()
	for _, r := range results {
		ledger.Add(comboLabel(axes, r.Params), r.Params, r.KPIs)
	}
	if err := ledger.FprintComparison(os.Stdout); err != nil {
		return err
	}

	titers := make([]float64, len(results))
	for i, r := range results {
		titers[i] = r.KPIs.FinalTiter
	}
	fmt.Printf("\ntiter across grid: mean %.3f, std %.3f ug/mL\n",
		analysis.Mean(titers), analysis.Std(titers))

	if best, ok := sweep.Best(results); ok {
		fmt.Printf("best titer %.3f ug/mL at glc=%.1f vcd=%.1f temp=%.1f ph=%.2f do2=%.0f\n",
			best.KPIs.FinalTiter, best.Params.InitialGlucose, best.Params.InitialVCD,
			best.Params.Temperature, best.Params.PH, best.Params.DissolvedOxygen)
	}

	if ledger.Len() >= 2 {
		fmt.Println("\nparameter correlations:")
		if err := ledger.Correlation().Fprint(os.Stdout); err != nil {
			return err
		}
	}

	return nil
}

// comboLabel names a grid combination by its swept values only.
func comboLabel(axes []sweep.Axis, p ferment.RunParams) string {
	parts := make([]string, 0, len(axes))
	for _, a := range axes {
		v, _ := sweep.Value(p, a.Param)
		parts = append(parts, fmt.Sprintf("%s=%g", a.Param, v))
	}
	return strings.Join(parts, " ")
}

// parseAxis reads a sweep axis spec of the form param=from:to:points.
func parseAxis(spec string) (sweep.Axis, error) {
	name, rest, ok := strings.Cut(spec, "=")
	if !ok {
		return sweep.Axis{}, fmt.Errorf("invalid axis %q (want param=from:to:points)", spec)
	}
	parts := strings.Split(rest, ":")
	if len(parts) != 3 {
		return sweep.Axis{}, fmt.Errorf("invalid axis %q (want param=from:to:points)", spec)
	}
	from, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return sweep.Axis{}, fmt.Errorf("invalid axis %q: %w", spec, err)
	}
	to, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return sweep.Axis{}, fmt.Errorf("invalid axis %q: %w", spec, err)
	}
	points, err := strconv.Atoi(parts[2])
	if err != nil {
		return sweep.Axis{}, fmt.Errorf("invalid axis %q: %w", spec, err)
	}
	return sweep.Axis{Param: name, From: from, To: to, Points: points}, nil
}

func listScenarios(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tGLC\tVCD\tTEMP\tPH\tDO2")
	for _, name := range config.ListPresets() {
		run := config.GetPreset(name).Run
		fmt.Fprintf(w, "%s\t%.1f\t%.1f\t%.1f\t%.1f\t%.0f\n",
			name, run.InitialGlucose, run.InitialVCD, run.Temperature, run.PH, run.DissolvedOxygen)
	}
	return w.Flush()
}

func startTUI(cmd *cobra.Command, args []string) error {
	sim, _, err := cultureSetup(cmd)
	if err != nil {
		return err
	}
	return tui.Run(sim, session.NewLedger())
}
