package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/audi70r/commitdigest/internal/config"
	"github.com/audi70r/commitdigest/internal/digest"
	"github.com/audi70r/commitdigest/internal/fetch"
	"github.com/audi70r/commitdigest/internal/logger"
	"github.com/audi70r/commitdigest/internal/render"
)

var (
	// Version information (set by build flags)
	Version   = "dev"
	BuildTime = "unknown"

	cfgFile      string
	verbose      bool
	days         int
	translations string
	projectOrder string
	cfg          *config.Config
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "commitdigest",
	Short: "Weekly digest of a commit mailing list archive",
	Long: `commitdigest reads the monthly date index of a commit notification
mailing list, classifies every subject line into project, branch and
revision, and ranks the most active authors and projects of the last days.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return err
		}
		applyFlags(cmd)

		level := cfg.Log.Level
		if verbose {
			level = "debug"
		}
		logger.Init(level, cfg.Log.JSON)

		return cfg.Validate()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./commitdigest.yaml or ~/.commitdigest/commitdigest.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().IntVarP(&days, "days", "d", 0, "aggregation window in days (default from config)")
	rootCmd.PersistentFlags().StringVarP(&translations, "translations", "t", "", "translation commits: include, exclude or only")
	rootCmd.PersistentFlags().StringVar(&projectOrder, "order", "", "project ranking: recent or count")

	rootCmd.SetVersionTemplate(`commitdigest {{.Version}}
Build time: ` + BuildTime + `
`)

	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(viewCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(configCmd)
}

// applyFlags lets explicit command line flags override the loaded config
func applyFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("days") {
		cfg.Window.Days = days
	}
	if flags.Changed("translations") {
		cfg.Window.Translations = translations
	}
	if flags.Changed("order") {
		cfg.Report.ProjectOrder = projectOrder
	}
}

// collect loads or fetches the archive pages and runs the pipeline over them
func collect(ctx context.Context, files []string) (*digest.Result, error) {
	now := time.Now()

	pages, err := fetch.Collect(ctx, fetch.NewClient(cfg.FetchOptions()), cfg.Sources(files), now)
	if err != nil {
		return nil, err
	}

	opts, err := cfg.PipelineOptions()
	if err != nil {
		return nil, err
	}
	p, err := digest.New(opts)
	if err != nil {
		return nil, err
	}
	w, err := cfg.AggregationWindow()
	if err != nil {
		return nil, err
	}

	return p.Run(pages, w, now)
}

func renderOptions(showFailed bool) render.Options {
	return render.Options{
		MaxAuthors:    cfg.Report.MaxAuthors,
		MaxProjects:   cfg.Report.MaxProjects,
		DefaultBranch: cfg.Classify.DefaultBranch,
		ShowFailed:    showFailed,
	}
}
