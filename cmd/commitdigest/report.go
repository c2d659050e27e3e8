package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/audi70r/commitdigest/internal/render"
)

var (
	htmlOut    string
	alsoText   bool
	showFailed bool
)

var reportCmd = &cobra.Command{
	Use:   "report [FILE...]",
	Short: "Print the digest of the last days",
	Long: `Print the top authors, active projects and new projects of the
aggregation window. With no files the current and previous months are
fetched from the archive; files ending in .txt are read as plain-text
digests.`,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVar(&htmlOut, "html", "", "write an HTML report with charts to this file")
	reportCmd.Flags().BoolVar(&alsoText, "text", false, "print the text report even when --html is set")
	reportCmd.Flags().BoolVar(&showFailed, "failed", false, "list subjects no grammar recognised")
}

func runReport(cmd *cobra.Command, args []string) error {
	res, err := collect(cmd.Context(), args)
	if err != nil {
		return err
	}
	opts := renderOptions(showFailed)

	if htmlOut != "" {
		f, err := os.Create(htmlOut)
		if err != nil {
			return fmt.Errorf("create %s: %w", htmlOut, err)
		}
		if err := render.HTML(f, res, opts); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("close %s: %w", htmlOut, err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "HTML report written to %s\n", htmlOut)
		if !alsoText {
			return nil
		}
	}

	return render.Text(cmd.OutOrStdout(), res, opts)
}
