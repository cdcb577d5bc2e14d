package cli

import (
	"strings"

	"github.com/akolanti/QuestionnaireAPI/internal/domain/jobModel"
	"github.com/spf13/cobra"
)

var (
	chatId   string
	chatJSON bool
)

var chatCmd = &cobra.Command{
	Use:   "chat [query]",
	Short: "Ask a question against the whole corpus",
	Long: `Retrieves the closest chunks from every indexed document and answers from them.
With --chat-id the turn is appended to that chat's transcript.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVar(&chatId, "chat-id", "", "append the turn to this chat transcript")
	chatCmd.Flags().BoolVar(&chatJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	query := strings.Join(args, " ")

	result, err := a.Generator.Chat(cmd.Context(), query, nil)
	if err != nil {
		return err
	}
	turn := jobModel.ChatAnswer{
		Query:      query,
		AnswerText: result.Text,
		Answerable: result.Answerable,
		Confidence: result.Confidence,
		Citations:  result.Citations,
	}
	if chatId != "" {
		if err := a.Transcripts.AppendTurn(cmd.Context(), chatId, turn); err != nil {
			return err
		}
	}

	if chatJSON {
		return printJSON(cmd, turn)
	}
	cmd.Println(strings.TrimSpace(turn.AnswerText))
	cmd.Printf("\nconfidence %.3f\n", turn.Confidence)
	for _, c := range turn.Citations {
		cmd.Printf("  - %s\n", citationLine(c))
	}
	return nil
}
