// stockgraph: geometry and rendering for compact stock charts
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/seenimoa/stockgraph/api"
	"github.com/seenimoa/stockgraph/internal/calc"
	"github.com/seenimoa/stockgraph/internal/chartfile"
	"github.com/seenimoa/stockgraph/internal/config"
	"github.com/seenimoa/stockgraph/internal/logger"
	"github.com/seenimoa/stockgraph/internal/report"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config and logger, set up before every command runs.
var (
	cfg *config.Config
	log *zap.Logger
)

func main() {
	err := rootCmd.Execute()
	if log != nil {
		_ = log.Sync()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "stockgraph",
	Short: "stockgraph: compact line, bar and open/close charts",
	Long: `stockgraph turns numeric series into chart geometry.

It renders line charts (straight or curved, with a gradient fill), simple
bars, delta bars around a baseline and open/close bars, either from chart
documents on disk or over an HTTP API.`,
	SilenceUsage: true,
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
		log, err = logger.New(cfg.Logging)
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(calcCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statusCmd)
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("stockgraph %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Render Command ---

var renderCmd = &cobra.Command{
	Use:   "render [chart files...]",
	Short: "Render chart documents to SVG or drawing JSON",
	Long: `Render one or more chart documents (.yaml, .yml or .json).

Each document is written to <out-dir>/<name>.<format>, where name is the
document's name field or its file name.

Examples:
  stockgraph render weekly.yaml
  stockgraph render --format json --out-dir build charts/*.yaml`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		outDir, _ := cmd.Flags().GetString("out-dir")
		if outDir == "" {
			outDir = cfg.Render.OutputDir
		}
		format, _ := cmd.Flags().GetString("format")
		if format == "" {
			format = cfg.Render.Format
		}
		if format != "svg" && format != "json" {
			return fmt.Errorf("format %q must be svg or json", format)
		}
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}

		def := chartfile.Defaults{
			Width:  cfg.Chart.Width,
			Height: cfg.Chart.Height,
			Style:  cfg.ChartStyle(),
		}

		jobs, err := planRenders(args, outDir, format, def)
		if err != nil {
			return err
		}

		g, ctx := errgroup.WithContext(cmd.Context())
		g.SetLimit(cfg.Render.Concurrency)
		for _, job := range jobs {
			job := job
			g.Go(func() error {
				if err := job.run(ctx); err != nil {
					return err
				}
				log.Info("rendered chart", zap.String("source", job.source), zap.String("output", job.out))
				return nil
			})
		}
		return g.Wait()
	},
}

func init() {
	renderCmd.Flags().String("out-dir", "", "output directory (default: render.output_dir)")
	renderCmd.Flags().String("format", "", "output format: svg or json (default: render.format)")
}

// renderJob is one chart document and the file it renders to.
type renderJob struct {
	source string
	doc    *chartfile.Document
	format string
	out    string
}

// planRenders loads every document and assigns its output path. Two
// documents that would write the same file are an error.
func planRenders(paths []string, outDir, format string, def chartfile.Defaults) ([]renderJob, error) {
	jobs := make([]renderJob, 0, len(paths))
	seen := make(map[string]string, len(paths))
	for _, path := range paths {
		doc, err := chartfile.Load(path, def)
		if err != nil {
			return nil, err
		}
		out := filepath.Join(outDir, doc.Name+"."+format)
		if prev, ok := seen[out]; ok {
			return nil, fmt.Errorf("%s and %s both render to %s", prev, path, out)
		}
		seen[out] = path
		jobs = append(jobs, renderJob{source: path, doc: doc, format: format, out: out})
	}
	return jobs, nil
}

// run renders the document and writes the output file.
func (j renderJob) run(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c, err := j.doc.Build()
	if err != nil {
		return fmt.Errorf("%s: %w", j.source, err)
	}
	d := c.Render(j.doc.Width, j.doc.Height)

	var data []byte
	if j.format == "json" {
		if data, err = json.MarshalIndent(d, "", "  "); err != nil {
			return fmt.Errorf("%s: encoding drawing: %w", j.source, err)
		}
	} else {
		data = []byte(report.SVG(d, report.SVGOptions{Title: j.doc.Name, Message: "No data"}))
	}

	if err := os.WriteFile(j.out, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", j.out, err)
	}
	return nil
}

// --- Calc Command ---

var calcCmd = &cobra.Command{
	Use:   "calc [op] [a] [b]",
	Short: "Integer arithmetic: add, subtract, multiply, divide",
	Example: `  stockgraph calc add 2 3
  stockgraph calc divide 7 2`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("a: %w", err)
		}
		b, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("b: %w", err)
		}
		result, err := calc.Apply(args[0], a, b)
		if err != nil {
			return err
		}
		fmt.Println(result)
		return nil
	},
}

// --- Serve Command (API Server) ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if port, _ := cmd.Flags().GetInt("port"); port > 0 {
			cfg.API.Port = port
		}
		api.Version = version

		srv := api.NewServer(cfg, log)
		return srv.ListenAndServe(cfg.API.Addr())
	},
}

func init() {
	serveCmd.Flags().Int("port", 0, "listen port (default: api.port)")
}

// --- Status Command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configuration summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		style := cfg.ChartStyle()

		fmt.Println("═══════════════════════════════════════")
		fmt.Println("  stockgraph status")
		fmt.Println("═══════════════════════════════════════")
		fmt.Printf("  Version:       %s (%s)\n", version, commit)
		fmt.Println()

		fmt.Println("  Chart defaults:")
		fmt.Printf("    Canvas:        %gx%g\n", cfg.Chart.Width, cfg.Chart.Height)
		fmt.Printf("    Line mode:     %s (smoothness %g)\n", style.LineMode, style.CurveSmoothness)
		fmt.Printf("    Gradient:      %t (%s, alpha %g)\n", style.GradientEnabled, style.GradientColor, style.GradientAlpha)
		fmt.Printf("    Bars:          width ratio %g, corner radius %g\n", style.BarWidthRatio, style.BarCornerRadius)
		fmt.Println()

		fmt.Println("  Render:")
		fmt.Printf("    Output:        %s (%s)\n", cfg.Render.OutputDir, cfg.Render.Format)
		fmt.Printf("    Concurrency:   %d\n", cfg.Render.Concurrency)
		fmt.Println()

		fmt.Println("  API:")
		fmt.Printf("    Listen:        %s\n", cfg.API.Addr())
		fmt.Printf("    CORS origins:  %s\n", strings.Join(cfg.API.CORSOrigins, ", "))
		fmt.Printf("    Logging:       %s (%s)\n", cfg.Logging.Level, cfg.Logging.Format)
		fmt.Println("═══════════════════════════════════════")
		return nil
	},
}
