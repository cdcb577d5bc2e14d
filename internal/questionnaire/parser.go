package questionnaire

import (
	"context"
	"strings"

	"github.com/akolanti/QuestionnaireAPI/internal/domain/projectModel"
	"github.com/akolanti/QuestionnaireAPI/internal/rag/ingest"
)

const sectionPrefix = "section:"

// header reports whether line is a section header and returns its title.
func header(line string) (string, bool) {
	if len(line) >= len(sectionPrefix) && strings.EqualFold(line[:len(sectionPrefix)], sectionPrefix) {
		return strings.TrimSpace(line[len(sectionPrefix):]), true
	}
	if strings.HasPrefix(line, "#") {
		return strings.TrimSpace(strings.TrimLeft(line, "#")), true
	}
	return "", false
}

// ParseText splits questionnaire text into questions with 1-based order indexes.
// Header lines set the section of the questions after them. A text made only of
// headers is read as a list of questions without sections.
func ParseText(text string) []projectModel.Question {
	var lines []string
	for _, l := range strings.Split(text, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}

	var questions []projectModel.Question
	var section *string
	for _, line := range lines {
		if title, ok := header(line); ok {
			if title != "" {
				s := title
				section = &s
			}
			continue
		}
		questions = append(questions, projectModel.Question{
			Section:    section,
			OrderIndex: len(questions) + 1,
			Text:       line,
		})
	}
	if len(questions) > 0 {
		return questions
	}

	for _, line := range lines {
		candidate := line
		if title, ok := header(line); ok {
			candidate = title
		}
		if candidate == "" {
			continue
		}
		questions = append(questions, projectModel.Question{OrderIndex: len(questions) + 1, Text: candidate})
	}
	return questions
}

// ParseFile extracts the file like any corpus document and parses the joined page text.
func ParseFile(ctx context.Context, extractor ingest.Extractor, path string) ([]projectModel.Question, error) {
	pages, err := extractor.Extract(ctx, path)
	if err != nil {
		return nil, err
	}
	texts := make([]string, len(pages))
	for i, p := range pages {
		texts[i] = p.Text
	}
	return ParseText(strings.Join(texts, "\n")), nil
}
