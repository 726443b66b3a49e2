package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/couchcryptid/stadium-data-etl/internal/validate"
	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file.csv>",
		Short: "Check a written CSV file for rank, capacity, image and location violations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			report, err := validate.CSV(f)
			if err != nil {
				return fmt.Errorf("validate %s: %w", args[0], err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "=== %s ===\n\n", args[0])
			report.Print(out)

			if !report.Passed() {
				return errors.New("validation failed")
			}
			fmt.Fprintln(out, "\nAll validations passed.")
			return nil
		},
	}
}
