package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/mockexam/internal/export"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the test history as CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("out")
		if path == "" {
			path = export.FileName(time.Now())
		}

		records, err := loadHistory(cmd)
		if err != nil {
			return err
		}
		if err := export.WriteFile(path, records, time.Local); err != nil {
			if errors.Is(err, export.ErrNoHistory) {
				fmt.Fprintln(cmd.ErrOrStderr(), err)
				return nil
			}
			return fmt.Errorf("export: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d records to %s\n", len(records), path)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringP("out", "o", "", "Output file (default fantextic_test_history_YYYY-MM-DD.csv)")
}
