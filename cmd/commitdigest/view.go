package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/audi70r/commitdigest/internal/logger"
	"github.com/audi70r/commitdigest/internal/ui"
)

var viewCmd = &cobra.Command{
	Use:   "view [FILE...]",
	Short: "Browse the digest in an interactive terminal UI",
	RunE: func(cmd *cobra.Command, args []string) error {
		// log lines would tear the screen
		logger.SetOutput(io.Discard)
		return ui.NewApp(cfg, args).Run()
	},
}
