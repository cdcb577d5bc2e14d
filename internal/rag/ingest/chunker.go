package ingest

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/akolanti/QuestionnaireAPI/internal/adapter/utils"
	"github.com/akolanti/QuestionnaireAPI/internal/domain/appErrors"
	"github.com/akolanti/QuestionnaireAPI/internal/domain/corpusModel"
)

// Chunker cuts page text into fixed-size character windows that overlap by a fixed amount.
// Offsets are rune offsets.
type Chunker struct {
	size    int
	overlap int
}

type window struct {
	Start int
	End   int
	Text  string
}

func NewChunker(size int, overlap int) (*Chunker, error) {
	if size <= 0 {
		return nil, appErrors.NewConfigurationError("chunk size must be > 0, got %d", size)
	}
	if overlap < 0 {
		return nil, appErrors.NewConfigurationError("chunk overlap must be >= 0, got %d", overlap)
	}
	if size <= overlap {
		return nil, appErrors.NewConfigurationError("chunk size (%d) must be greater than overlap (%d)", size, overlap)
	}
	return &Chunker{size: size, overlap: overlap}, nil
}

func (c *Chunker) split(text string) []window {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	runes := []rune(text)
	if !utf8.ValidString(text) {
		runes = []rune(strings.ToValidUTF8(text, ""))
	}
	length := len(runes)

	var windows []window
	start := 0
	for start < length {
		end := min(start+c.size, length)
		part := string(runes[start:end])
		if strings.TrimSpace(part) != "" {
			windows = append(windows, window{Start: start, End: end, Text: part})
		}
		if end == length {
			break
		}
		start = end - c.overlap
	}
	return windows
}

// ChunkPages chunks every page of one document. chunk_index runs across pages without gaps
// and page/bbox provenance is copied onto each chunk.
func (c *Chunker) ChunkPages(documentId string, pages []corpusModel.Page) []corpusModel.Chunk {
	var chunks []corpusModel.Chunk
	now := time.Now().UTC()

	for _, page := range pages {
		for _, w := range c.split(page.Text) {
			chunks = append(chunks, corpusModel.Chunk{
				Id:         utils.GetNewUUID(),
				DocumentId: documentId,
				ChunkIndex: len(chunks),
				Text:       w.Text,
				Page:       page.PageNumber,
				BBox:       page.BBox,
				CreatedAt:  now,
			})
		}
	}
	return chunks
}
