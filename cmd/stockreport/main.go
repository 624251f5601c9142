// stockreport: 1-year equity research reports for NSE-listed companies.
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/seenimoa/stockreport/internal/config"
	"github.com/seenimoa/stockreport/internal/report"
	"github.com/seenimoa/stockreport/pkg/utils"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config and logger, set up before any command runs.
var (
	cfg    *config.Config
	logger = zap.NewNop()
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "stockreport",
	Short: "Render 1-year stock research reports as PDF",
	Long: `stockreport renders a company's research bundle (charts, tables and
commentary) into a multi-page PDF research report.

Bundles for the covered companies ship with the binary; external bundle
files can be rendered with --bundle.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
			cfg.Logging.Level = lvl
		}
		logger, err = newLogger(cfg.Logging)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(chartsCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(statusCmd)
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("stockreport %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Build Command ---

var buildCmd = &cobra.Command{
	Use:   "build [ticker...]",
	Short: "Generate PDF reports",
	Long: `Render charts and write the PDF report for each ticker.

Examples:
  stockreport build BIKAJI
  stockreport build "idfc first bank" ABLBL --jobs 2
  stockreport build --all --html
  stockreport build --bundle ./sula.yaml --out ./out`,
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")
		bundleFile, _ := cmd.Flags().GetString("bundle")
		bundles, err := resolveBundles(args, all, bundleFile)
		if err != nil {
			return err
		}

		jobs, _ := cmd.Flags().GetInt("jobs")
		if jobs <= 0 {
			jobs = cfg.Render.Jobs
		}
		g, err := newGenerator(cmd)
		if err != nil {
			return err
		}

		results, err := g.GenerateAll(cmd.Context(), bundles, jobs)
		if err != nil {
			return err
		}
		if len(results) > 1 {
			fmt.Println()
			for _, r := range results {
				fmt.Println(r.String())
			}
		}
		return nil
	},
}

func init() {
	buildCmd.Flags().Bool("all", false, "build every bundled ticker")
	buildCmd.Flags().String("bundle", "", "render an external bundle file")
	buildCmd.Flags().Bool("html", false, "also write a self-contained HTML copy")
	buildCmd.Flags().Int("jobs", 0, "reports generated in parallel (0 uses render.jobs)")
	buildCmd.Flags().String("out", "", "output directory (default: output.dir)")
}

// --- Charts Command ---

var chartsCmd = &cobra.Command{
	Use:   "charts [ticker]",
	Short: "Render a report's charts only",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := singleBundle(cmd, args)
		if err != nil {
			return err
		}
		g, err := newGenerator(cmd)
		if err != nil {
			return err
		}
		paths, err := g.Charts(cmd.Context(), b)
		if err != nil {
			return err
		}
		for _, spec := range b.Charts {
			fmt.Printf("  %-16s %s\n", spec.Role, paths[spec.Role])
		}
		return nil
	},
}

// --- Preview Command ---

var previewCmd = &cobra.Command{
	Use:   "preview [ticker]",
	Short: "Print a text outline of a report",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := singleBundle(cmd, args)
		if err != nil {
			return err
		}
		g, err := newGenerator(cmd)
		if err != nil {
			return err
		}
		out, err := g.Preview(b)
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{chartsCmd, previewCmd} {
		c.Flags().String("bundle", "", "use an external bundle file")
		c.Flags().String("out", "", "output directory (default: output.dir)")
	}
}

// --- List Command ---

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List bundled tickers",
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := report.NewCatalog()
		if err != nil {
			return err
		}
		for _, b := range catalog.All() {
			fmt.Println(listLine(b))
		}
		return nil
	},
}

// --- Status Command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("═══════════════════════════════════════")
		fmt.Println("  stockreport | Status")
		fmt.Println("═══════════════════════════════════════")
		fmt.Printf("  Version:    %s (%s)\n", version, commit)
		fmt.Printf("  Time (IST): %s\n", utils.FormatDateTimeIST(utils.NowIST()))
		fmt.Println()

		fmt.Println("  Configuration:")
		fmt.Print(indent(config.Summary(cfg), "    "))
		fmt.Println()

		fmt.Println("  Fonts:")
		for _, f := range config.CheckFonts(cfg) {
			state := "embedded Liberation Sans"
			switch {
			case f.Source == config.FontSourceEmbedded:
			case f.Exists:
				state = fmt.Sprintf("%s (%s, %s)", f.Path, f.Source, f.Size)
			default:
				state = fmt.Sprintf("%s (%s) MISSING", f.Path, f.Source)
			}
			fmt.Printf("    %-12s %s\n", f.Face+":", state)
		}

		catalog, err := report.NewCatalog()
		if err != nil {
			return err
		}
		fmt.Println()
		fmt.Printf("  Bundled tickers: %d\n", len(catalog.List()))
		fmt.Println("═══════════════════════════════════════")
		return nil
	},
}
