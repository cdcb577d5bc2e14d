package answer

import (
	"strings"
)

const promptPreamble = "You are answering a questionnaire using the provided context. " +
	"If the context does not contain the answer, say that it is not available. " +
	"Provide a concise answer without citations or markdown.\n\n"

// BuildPrompt lays out the question and the retrieved chunk texts, nearest first.
func BuildPrompt(question string, contexts []string) string {
	var sb strings.Builder
	sb.WriteString(promptPreamble)
	sb.WriteString("Question: ")
	sb.WriteString(question)
	sb.WriteString("\n\nContext:\n")
	sb.WriteString(strings.Join(contexts, "\n\n"))
	sb.WriteString("\n\nAnswer:")
	return sb.String()
}
