package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/mockexam/internal/exam"
	"github.com/abhisek/mockexam/internal/questiongen"
	"github.com/abhisek/mockexam/internal/session"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Preview LLM-generated questions for an exam (no database)",
	Long: `Generate a question set for one exam and print it.

This is a stateless developer tool: nothing is saved to the history.
With --answer the questions are asked one by one and graded at the end.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().String("exam", exam.DefaultID, "Exam format ID (see `mockexam exams`)")
	generateCmd.Flags().Int("count", 5, "Number of questions to generate")
	generateCmd.Flags().Bool("answer", false, "Answer the questions interactively")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	examID, _ := cmd.Flags().GetString("exam")
	count, _ := cmd.Flags().GetInt("count")
	interactive, _ := cmd.Flags().GetBool("answer")

	f, ok := exam.Lookup(examID)
	if !ok {
		return fmt.Errorf("unknown exam %q", examID)
	}
	if count <= 0 {
		return fmt.Errorf("count must be positive, got %d", count)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logs, err := setupLogging(cfg.LogLevel, cfg.LogFormat, cfg.LogFile)
	if err != nil {
		return err
	}
	defer logs.Close()

	// No event repo: preview calls are not logged.
	ctx := cmd.Context()
	provider, err := buildProvider(ctx, cfg.LLM, nil)
	if err != nil {
		return fmt.Errorf("LLM provider: %w", err)
	}

	gen := questiongen.New(provider, questiongen.DefaultConfig())
	return previewQuestions(ctx, gen, f, count, interactive, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// previewQuestions generates count questions for f and prints them. With
// interactive set, answers are read from in one line per question and a
// per-topic summary follows.
func previewQuestions(ctx context.Context, gen session.QuestionGenerator, f exam.Format, count int,
	interactive bool, in io.Reader, out, errOut io.Writer) error {
	fmt.Fprintf(out, "Exam: %s (%s)\n", f.Name(), gen.ModelID())
	fmt.Fprintf(out, "Generating %d questions...\n", count)

	qs, err := gen.Generate(ctx, questiongen.Input{
		Count:    count,
		Topics:   f.Topics,
		ExamName: f.Name(),
	}, questiongen.ProgressFunc(func(n int) {
		fmt.Fprintf(errOut, "  %d / %d\n", n, count)
	}))
	if err != nil {
		return err
	}
	if len(qs) == 0 {
		return fmt.Errorf("%w: every generated item failed validation", session.ErrNoValidQuestions)
	}
	fmt.Fprintln(out)

	answers := map[string]string{}
	scanner := bufio.NewScanner(in)

	for i, q := range qs {
		fmt.Fprintf(out, "── Question %d/%d ── [%s]\n", i+1, len(qs), q.Topic)
		fmt.Fprintln(out, q.QuestionText)
		for _, o := range q.Options {
			fmt.Fprintf(out, "  %s) %s\n", o.Key, o.Text)
		}

		if !interactive {
			fmt.Fprintf(out, "Answer: %s\n", q.CorrectAnswerKey)
			if q.Explanation != "" {
				fmt.Fprintf(out, "Explanation: %s\n", q.Explanation)
			}
			fmt.Fprintln(out)
			continue
		}

		fmt.Fprint(out, "\nYour answer: ")
		if !scanner.Scan() {
			fmt.Fprintln(out, "\n(input closed)")
			break
		}
		answer := strings.ToUpper(strings.TrimSpace(scanner.Text()))
		if _, ok := q.Option(answer); !ok {
			fmt.Fprintln(out, "(skipped)")
			fmt.Fprintln(out)
			continue
		}
		answers[q.ID] = answer

		if answer == q.CorrectAnswerKey {
			fmt.Fprintln(out, "\033[32m✓ Correct!\033[0m")
		} else {
			fmt.Fprintf(out, "\033[31m✗ Wrong.\033[0m Answer: %s\n", q.CorrectAnswerKey)
		}
		if q.Explanation != "" {
			fmt.Fprintf(out, "Explanation: %s\n", q.Explanation)
		}
		fmt.Fprintln(out)
	}

	if interactive {
		score := session.Grade(qs, answers)
		fmt.Fprintf(out, "── Summary: %d/%d correct ──\n", score.Correct, score.Total())
		for _, tr := range session.TopicResults(qs, session.BuildTopicAnalysis(qs, answers)) {
			fmt.Fprintf(out, "  %s: %d/%d\n", tr.Topic, tr.Correct, tr.Total)
		}
	}
	return nil
}
