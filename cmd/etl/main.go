// Command stadium-etl scrapes the Wikipedia list of association football
// stadiums, geocodes every row and writes the result as a dated file.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/stadium-data-etl/internal/config"
	"github.com/couchcryptid/stadium-data-etl/internal/observability"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	cfg    *config.Config
	logger *slog.Logger
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stadium-etl",
		Short: "Extract, geocode and store football stadium data",
		Long: `stadium-etl fetches the stadium table from Wikipedia, looks up coordinates
for every stadium and writes the cleaned records to OUTPUT_DIR.

Configuration is read from the environment, with a .env file loaded first
when present.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()

			c, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			cfg = c
			logger = observability.NewLogger(cfg)
			return nil
		},
	}

	cmd.AddCommand(newRunCmd(), newServeCmd(), newExtractCmd(), newValidateCmd())
	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
