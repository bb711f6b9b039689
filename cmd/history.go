package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/mockexam/internal/feedback"
	"github.com/abhisek/mockexam/internal/session"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List stored test records, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		records, err := loadHistory(cmd)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(records) == 0 {
			fmt.Fprintln(out, "No test records found.")
			return nil
		}

		fmt.Fprintf(out, "%-13s  %-16s  %-8s  %-10s  %s\n", "ID", "Date", "Score", "Time", "Exam")
		fmt.Fprintln(out, strings.Repeat("─", 90))
		for i := len(records) - 1; i >= 0; i-- {
			if limit > 0 && len(records)-1-i >= limit {
				break
			}
			r := records[i]
			fmt.Fprintf(out, "%-13s  %-16s  %-8s  %-10s  %s\n",
				r.ID,
				r.Time().Local().Format("2006/01/02 15:04"),
				fmt.Sprintf("%d/%d", r.Score.Correct, len(r.Questions)),
				feedback.FormatElapsed(r.ElapsedSecs),
				r.ExamName,
			)
		}
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all stored test records",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			return fmt.Errorf("refusing to delete history without --yes")
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		st, err := cfg.openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		if err := session.NewKVHistory(st.KV()).Clear(cmd.Context()); err != nil {
			return fmt.Errorf("clear history: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
		return nil
	},
}

// loadHistory reads all stored records, oldest first.
func loadHistory(cmd *cobra.Command) ([]session.TestRecord, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	st, err := cfg.openStore()
	if err != nil {
		return nil, err
	}
	defer st.Close()

	records, err := session.NewKVHistory(st.KV()).Load(cmd.Context())
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	return records, nil
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 0, "Number of records to show (0 = all)")
	historyClearCmd.Flags().Bool("yes", false, "Confirm deletion")
	historyCmd.AddCommand(historyClearCmd)
}
