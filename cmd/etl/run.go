package main

import (
	"github.com/couchcryptid/stadium-data-etl/internal/observability"
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the pipeline once and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, cleanup, err := newPipeline(cfg, observability.NewMetrics(), logger)
			if err != nil {
				return err
			}
			defer cleanup()

			_, err = p.RunOnce(cmd.Context())
			return err
		},
	}
}
