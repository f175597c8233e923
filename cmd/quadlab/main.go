package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/quadlab/internal/config"
	"github.com/san-kum/quadlab/internal/convergence"
	"github.com/san-kum/quadlab/internal/export"
	"github.com/san-kum/quadlab/internal/quad"
	"github.com/san-kum/quadlab/internal/storage"
	"github.com/san-kum/quadlab/internal/viz"
)

var (
	dataDir    string
	configFile string
	themeName  string
	verbose    bool

	lower     float64
	upper     float64
	intervals int
	maxN      int
	counts    []int
	threshold float64
	workers   int
	preset    string
	save      bool
	svgPath   string
	noPlot    bool
	outPath   string

	log = slog.Default()
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "quadlab",
		Short:         "midpoint and trapezoid quadrature with error analysis",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".quadlab", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&themeName, "theme", "minimal", "color theme")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	functionsCmd := &cobra.Command{
		Use:   "functions",
		Short: "list the available integrands",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Print(viz.RenderCatalog(styles()))
		},
	}

	integrateCmd := &cobra.Command{
		Use:   "integrate [function]",
		Short: "estimate one integral with both rules",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runIntegrate,
	}
	addBoundsFlags(integrateCmd)
	integrateCmd.Flags().IntVar(&intervals, "n", 100, "number of subintervals")

	compareCmd := &cobra.Command{
		Use:   "compare [function]",
		Short: "compare rule errors at fixed interval counts",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runCompare,
	}
	addBoundsFlags(compareCmd)
	compareCmd.Flags().IntSliceVar(&counts, "intervals", convergence.DefaultCounts, "interval counts")
	compareCmd.Flags().BoolVar(&save, "save", false, "store the run")

	convergeCmd := &cobra.Command{
		Use:   "converge [function]",
		Short: "sweep n from 2 to max-n and plot the error decay",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runConverge,
	}
	addBoundsFlags(convergeCmd)
	convergeCmd.Flags().IntVar(&maxN, "max-n", convergence.DefaultMaxIntervals, "largest subinterval count")
	convergeCmd.Flags().BoolVar(&save, "save", false, "store the run")
	convergeCmd.Flags().StringVar(&svgPath, "svg", "", "also write an svg chart to this path")
	convergeCmd.Flags().BoolVar(&noPlot, "no-plot", false, "skip the terminal chart")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Run: func(cmd *cobra.Command, args []string) {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tFUNCTION\tLOWER\tUPPER\tMAX_N")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%s\t%g\t%g\t%d\n", name, p.Function, p.Lower, p.Upper, p.MaxN)
			}
			w.Flush()
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "print the table and chart of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export a stored series as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a stored series as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export a stored series as an SVG chart",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")
	exportSVGCmd.Flags().Float64Var(&threshold, "threshold", convergence.DefaultThreshold, "reference error line")

	rootCmd.AddCommand(functionsCmd, integrateCmd, compareCmd, convergeCmd, presetsCmd,
		listCmd, showCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		if errors.Is(err, quad.ErrInvalidBounds) {
			fmt.Fprintln(os.Stderr, "upper bound must be greater than lower bound; try again")
		}
		stop()
		os.Exit(1)
	}
}

func addBoundsFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&lower, "a", config.DefaultLower, "lower bound")
	cmd.Flags().Float64Var(&upper, "b", config.DefaultUpper, "upper bound")
	cmd.Flags().Float64Var(&threshold, "threshold", convergence.DefaultThreshold, "reference error line")
	cmd.Flags().IntVar(&workers, "workers", 0, "parallel workers (0 = GOMAXPROCS)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

func styles() viz.Styles {
	return viz.NewStyles(viz.GetTheme(themeName))
}

// resolveConfig starts from the preset (or the defaults), layers the config
// file and environment on top, then the positional function, then
// explicitly set flags.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	base := config.DefaultConfig()
	if preset != "" {
		base = config.GetPreset(preset)
		if base == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	cfg, err := config.LoadLayered(base, configFile)
	if err != nil {
		return nil, err
	}

	if len(args) > 0 {
		cfg.Function = args[0]
	}

	flags := cmd.Flags()
	if flags.Changed("a") {
		cfg.Lower = lower
	}
	if flags.Changed("b") {
		cfg.Upper = upper
	}
	if flags.Changed("threshold") {
		cfg.Threshold = threshold
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("max-n") {
		cfg.MaxN = maxN
	}
	if flags.Changed("intervals") {
		cfg.Intervals = counts
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.Debug("resolved config",
		"function", cfg.Function, "lower", cfg.Lower, "upper", cfg.Upper,
		"max_n", cfg.MaxN, "intervals", cfg.Intervals, "workers", cfg.Workers)
	return cfg, nil
}

func runIntegrate(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	f, err := cfg.Integrand()
	if err != nil {
		return err
	}

	req, err := quad.NewRequest(cfg.Lower, cfg.Upper, intervals, f)
	if err != nil {
		return err
	}
	trueValue, err := req.TrueValue()
	if err != nil {
		return err
	}

	results, err := quad.Integrate(req, trueValue)
	if err != nil {
		return err
	}

	fmt.Print(viz.RenderResults(req, trueValue, results, styles()))
	return nil
}

func runCompare(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	f, err := cfg.Integrand()
	if err != nil {
		return err
	}

	series, err := convergence.Compare(cmd.Context(), cfg.Lower, cfg.Upper, f, cfg.Intervals, cfg.SweepOptions()...)
	if err != nil {
		return err
	}

	fmt.Print(viz.RenderComparison(series, cfg.Threshold, styles()))
	return maybeSave(series, cfg.Threshold)
}

func runConverge(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	f, err := cfg.Integrand()
	if err != nil {
		return err
	}

	series, err := convergence.Sweep(cmd.Context(), cfg.Lower, cfg.Upper, f, cfg.MaxN, cfg.SweepOptions()...)
	if err != nil {
		return err
	}

	fmt.Print(viz.RenderComparison(series, cfg.Threshold, styles()))
	if !noPlot {
		fmt.Println()
		fmt.Println(viz.Plot(series, cfg.Threshold, 70, 15))
	}

	if svgPath != "" {
		svg := export.SeriesToSVG(series, 800, 480, cfg.Threshold)
		if err := os.WriteFile(svgPath, []byte(svg), 0644); err != nil {
			return err
		}
		log.Info("wrote svg", "path", svgPath)
	}

	return maybeSave(series, cfg.Threshold)
}

func maybeSave(series *convergence.Series, threshold float64) error {
	if !save {
		return nil
	}
	st := storage.New(dataDir).WithLogger(log)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(series, threshold)
	if err != nil {
		return err
	}
	log.Info("saved run", "id", runID, "dir", dataDir)
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir).WithLogger(log)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tFUNCTION\tTIME\tBOUNDS\tPOINTS\tMAX_N\tORDER(MID)\tORDER(TRAP)")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t[%g, %g]\t%d\t%d\t%.3f\t%.3f\n",
			run.ID,
			run.Function,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Lower, run.Upper,
			run.Counts,
			run.MaxN,
			run.Orders[quad.MethodMidpoint],
			run.Orders[quad.MethodTrapezoid],
		)
	}

	return w.Flush()
}

func loadRun(runID string) (*storage.RunMetadata, *convergence.Series, error) {
	st := storage.New(dataDir).WithLogger(log)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	series, err := st.LoadSeries(runID)
	if err != nil {
		return nil, nil, err
	}
	return meta, series, nil
}

func showRun(cmd *cobra.Command, args []string) error {
	meta, series, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s (%s)\n\n", meta.ID, meta.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Print(viz.RenderComparison(series, meta.Threshold, styles()))
	fmt.Println()
	fmt.Println(viz.Plot(series, meta.Threshold, 70, 15))
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, series, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return export.WriteCSV(os.Stdout, series)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	_, series, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return export.WriteJSON(os.Stdout, series)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	_, series, err := loadRun(args[0])
	if err != nil {
		return err
	}

	svg := export.SeriesToSVG(series, 800, 480, threshold)
	if outPath == "" {
		fmt.Println(svg)
		return nil
	}
	if err := os.WriteFile(outPath, []byte(svg), 0644); err != nil {
		return err
	}
	log.Info("wrote svg", "path", outPath, "function", series.Integrand.Formula())
	return nil
}
