package cli

import (
	"fmt"
	"strings"

	"github.com/akolanti/QuestionnaireAPI/internal/domain/jobModel"
	"github.com/akolanti/QuestionnaireAPI/internal/domain/projectModel"
	"github.com/spf13/cobra"
)

var (
	generateJSON bool
	answersJSON  bool
)

var generateCmd = &cobra.Command{
	Use:   "generate [project-id]",
	Short: "Generate answers for every question of a project",
	Long: `Answers the questions in order. A question whose retrieval is too weak is
stored as MISSING_DATA. A provider failure on one question leaves it PENDING and the
run continues.`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

var answersCmd = &cobra.Command{
	Use:   "answers [project-id]",
	Short: "Show the answers of a project",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnswers,
}

func init() {
	generateCmd.Flags().BoolVar(&generateJSON, "json", false, "output the report as JSON")
	answersCmd.Flags().BoolVar(&answersJSON, "json", false, "output answers as JSON")
	rootCmd.AddCommand(generateCmd, answersCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	var last jobModel.InternalStatus
	report, err := a.Generator.GenerateAnswers(cmd.Context(), args[0], func(step jobModel.InternalStatus) {
		if step != last {
			fmt.Fprintf(cmd.ErrOrStderr(), "... %s\n", step)
			last = step
		}
	})
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}
	if generateJSON {
		return printJSON(cmd, report)
	}
	cmd.Printf("Generated %d/%d answers (%d missing data, %d failed)\n",
		report.Generated, report.Total, report.MissingData, report.Failed)
	for _, id := range report.FailedIds {
		cmd.Printf("  failed: %s\n", id)
	}
	return nil
}

func runAnswers(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	items, err := a.Projects.Answers(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if answersJSON {
		return printJSON(cmd, items)
	}
	for _, item := range items {
		printAnswer(cmd, item)
	}
	return nil
}

func printAnswer(cmd *cobra.Command, item projectModel.QuestionAnswer) {
	q, ans := item.Question, item.Answer
	header := fmt.Sprintf("[%d] %s", q.OrderIndex, q.Text)
	if q.Section != nil {
		header = fmt.Sprintf("[%d] (%s) %s", q.OrderIndex, *q.Section, q.Text)
	}
	cmd.Println(header)

	status := string(ans.Status)
	if ans.AIConfidence != nil {
		status = fmt.Sprintf("%s, confidence %.3f", status, *ans.AIConfidence)
	}
	cmd.Printf("    status: %s\n", status)
	if ans.ManualAnswerText != nil {
		cmd.Printf("    manual: %s\n", indent(*ans.ManualAnswerText))
	}
	if ans.AIAnswerText != nil {
		cmd.Printf("    answer: %s\n", indent(*ans.AIAnswerText))
	}
	if ans.AIError != "" {
		cmd.Printf("    error:  %s\n", ans.AIError)
	}
	for _, c := range ans.AICitations {
		cmd.Printf("    - %s\n", citationLine(c))
	}
}

func citationLine(c projectModel.Citation) string {
	page := "-"
	if c.Page != nil {
		page = fmt.Sprint(*c.Page)
	}
	return fmt.Sprintf("doc %s page %s (%.3f)", c.DocumentId, page, c.Similarity)
}

func indent(text string) string {
	return strings.ReplaceAll(strings.TrimSpace(text), "\n", "\n            ")
}
