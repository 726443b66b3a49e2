package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/couchcryptid/stadium-data-etl/internal/adapter/web"
	"github.com/couchcryptid/stadium-data-etl/internal/pipeline"
	"github.com/spf13/cobra"
)

func newExtractCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Fetch and parse the stadium table, printing raw rows as JSON",
		Long: `Fetch and parse the stadium table and print the raw rows as JSON.

Logs share stdout, so use --output to get a clean JSON file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := web.NewFetcher(cfg.FetchTimeout, logger).Fetch(cmd.Context(), cfg.SourceURL)
			if err != nil {
				return err
			}
			raws, err := pipeline.HTMLExtractor{}.Extract(cmd.Context(), content)
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}

			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			if err := enc.Encode(raws); err != nil {
				return err
			}
			logger.Info("stadiums extracted", "records", len(raws), "output", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write JSON to this file instead of stdout")
	return cmd
}
