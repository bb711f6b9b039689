package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/mockexam/internal/exam"
)

var examsCmd = &cobra.Command{
	Use:   "exams",
	Short: "List the exam formats",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		for _, f := range exam.All() {
			counts := make([]string, len(f.QuestionCounts))
			for i, c := range f.QuestionCounts {
				counts[i] = fmt.Sprint(c)
			}
			fmt.Fprintf(out, "%s\n  %s\n", f.ID, f.Name())
			fmt.Fprintf(out, "  counts: %s (default %d)\n", strings.Join(counts, ", "), f.DefaultCount)
			for _, t := range f.Topics {
				fmt.Fprintf(out, "  - %s\n", t)
			}
			fmt.Fprintln(out)
		}
		return nil
	},
}
