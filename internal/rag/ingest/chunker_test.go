package ingest

import (
	"strings"
	"testing"

	"github.com/akolanti/QuestionnaireAPI/internal/domain/appErrors"
	"github.com/akolanti/QuestionnaireAPI/internal/domain/corpusModel"
)

func intPtr(i int) *int { return &i }

func TestNewChunker_RejectsBadParameters(t *testing.T) {
	tests := []struct {
		size, overlap int
	}{
		{10, 10},
		{10, 11},
		{0, 0},
		{-5, 0},
		{10, -1},
	}
	for _, tt := range tests {
		_, err := NewChunker(tt.size, tt.overlap)
		if err == nil {
			t.Errorf("NewChunker(%d, %d) expected error", tt.size, tt.overlap)
			continue
		}
		if !appErrors.IsConfiguration(err) {
			t.Errorf("NewChunker(%d, %d) error %T; want ConfigurationError", tt.size, tt.overlap, err)
		}
	}
}

func TestSplit_KnownOffsets(t *testing.T) {
	c, err := NewChunker(10, 3)
	if err != nil {
		t.Fatal(err)
	}
	text := strings.Repeat("abcde", 5) // 25 characters

	windows := c.split(text)
	wantStarts := []int{0, 7, 14, 21}
	if len(windows) != len(wantStarts) {
		t.Fatalf("got %d windows; want %d", len(windows), len(wantStarts))
	}
	for i, w := range windows {
		if w.Start != wantStarts[i] {
			t.Errorf("window %d starts at %d; want %d", i, w.Start, wantStarts[i])
		}
		if w.Text != text[w.Start:w.End] {
			t.Errorf("window %d text %q does not match offsets", i, w.Text)
		}
	}
	if last := windows[len(windows)-1]; last.End != 25 {
		t.Errorf("last window ends at %d; want 25", last.End)
	}
}

func TestSplit_WindowProperties(t *testing.T) {
	for size := 1; size <= 12; size++ {
		for overlap := 0; overlap < size; overlap++ {
			c, err := NewChunker(size, overlap)
			if err != nil {
				t.Fatalf("NewChunker(%d,%d): %v", size, overlap, err)
			}
			for length := 1; length <= 40; length++ {
				text := strings.Repeat("x", length)
				windows := c.split(text)
				if len(windows) == 0 {
					t.Fatalf("size=%d overlap=%d len=%d produced no windows", size, overlap, length)
				}
				for i, w := range windows {
					if w.End-w.Start > size {
						t.Errorf("size=%d overlap=%d len=%d window %d longer than size", size, overlap, length, i)
					}
					if i > 0 && w.Start <= windows[i-1].Start {
						t.Errorf("size=%d overlap=%d len=%d starts not strictly increasing", size, overlap, length)
					}
				}
				if windows[len(windows)-1].End != length {
					t.Errorf("size=%d overlap=%d len=%d last end %d", size, overlap, length, windows[len(windows)-1].End)
				}
			}
		}
	}
}

func TestSplit_IsIdempotent(t *testing.T) {
	c, _ := NewChunker(50, 10)
	text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 20)

	first := c.split(text)
	second := c.split(text)
	if len(first) != len(second) {
		t.Fatalf("window count differs: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Text != second[i].Text {
			t.Errorf("window %d differs between runs", i)
		}
	}
}

func TestSplit_EdgeCases(t *testing.T) {
	c, _ := NewChunker(100, 20)

	if got := c.split("   \n\t  "); len(got) != 0 {
		t.Errorf("blank text produced %d windows", len(got))
	}

	short := "A short page."
	got := c.split(short)
	if len(got) != 1 || got[0].Text != short {
		t.Errorf("short page = %+v; want exactly the full text", got)
	}

	padded := "  A short page. \n"
	got = c.split(padded)
	if len(got) != 1 || got[0].Text != padded || got[0].Start != 0 || got[0].End != len(padded) {
		t.Errorf("padded page = %+v; want one untrimmed window spanning the text", got)
	}

	small, _ := NewChunker(5, 0)
	spaced := "abc" + strings.Repeat(" ", 12) + "defgh"
	for _, w := range small.split(spaced) {
		if strings.TrimSpace(w.Text) == "" {
			t.Errorf("whitespace-only window emitted at %d", w.Start)
		}
	}
}

func TestSplit_CountsRunesNotBytes(t *testing.T) {
	c, _ := NewChunker(4, 1)
	text := "héllo wörld"
	for _, w := range c.split(text) {
		if !strings.Contains(text, w.Text) {
			t.Errorf("window %q is not a substring, a character was cut", w.Text)
		}
		if n := len([]rune(w.Text)); n > 4 {
			t.Errorf("window %q has %d runes", w.Text, n)
		}
	}
}

func TestChunkPages_Provenance(t *testing.T) {
	c, _ := NewChunker(10, 2)
	bbox := &corpusModel.BBox{X0: 1, Y0: 2, X1: 3, Y1: 4}
	pages := []corpusModel.Page{
		{Text: strings.Repeat("a", 15), PageNumber: intPtr(1), BBox: bbox},
		{Text: "   ", PageNumber: intPtr(2)},
		{Text: "last page", PageNumber: intPtr(3)},
	}

	chunks := c.ChunkPages("doc-1", pages)
	if len(chunks) != 3 {
		t.Fatalf("got %d chunks; want 3", len(chunks))
	}

	ids := map[string]bool{}
	for i, ch := range chunks {
		if ch.ChunkIndex != i {
			t.Errorf("chunk %d has index %d", i, ch.ChunkIndex)
		}
		if ch.DocumentId != "doc-1" {
			t.Errorf("chunk %d document id %q", i, ch.DocumentId)
		}
		if ch.Id == "" || ids[ch.Id] {
			t.Errorf("chunk %d id %q empty or duplicated", i, ch.Id)
		}
		ids[ch.Id] = true
	}
	if *chunks[0].Page != 1 || chunks[0].BBox != bbox || *chunks[1].Page != 1 {
		t.Errorf("page 1 provenance not copied: %+v %+v", chunks[0], chunks[1])
	}
	if *chunks[2].Page != 3 || chunks[2].BBox != nil {
		t.Errorf("page 3 provenance wrong: %+v", chunks[2])
	}
}
