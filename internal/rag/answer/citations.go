package answer

import (
	"github.com/akolanti/QuestionnaireAPI/internal/config"
	"github.com/akolanti/QuestionnaireAPI/internal/domain/corpusModel"
	"github.com/akolanti/QuestionnaireAPI/internal/domain/projectModel"
)

// Citations keeps hit order. Snippets are the first CitationSnippetRunes characters.
func Citations(hits []corpusModel.RetrievalHit) []projectModel.Citation {
	citations := make([]projectModel.Citation, 0, len(hits))
	for _, h := range hits {
		citations = append(citations, projectModel.Citation{
			ChunkId:     h.ChunkId,
			DocumentId:  h.DocumentId,
			Page:        h.Page,
			BBox:        h.BBox,
			Similarity:  Round3(Similarity(h.Distance)),
			TextSnippet: snippet(h.Text, config.CitationSnippetRunes),
		})
	}
	return citations
}

func snippet(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}

func contexts(hits []corpusModel.RetrievalHit) []string {
	texts := make([]string, len(hits))
	for i, h := range hits {
		texts[i] = h.Text
	}
	return texts
}
