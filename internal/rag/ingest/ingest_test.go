package ingest

import (
	"archive/zip"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/akolanti/QuestionnaireAPI/internal/domain/corpusModel"
	"github.com/akolanti/QuestionnaireAPI/internal/domain/jobModel"
	"github.com/xuri/excelize/v2"
)

// --- fakes ---

type fakeDocStore struct {
	mu       sync.Mutex
	docs     map[string]corpusModel.Document
	chunks   map[string][]corpusModel.Chunk
	statuses []corpusModel.DocumentStatus
	rejects  corpusModel.DocumentStatus
}

func newFakeDocStore(docs ...corpusModel.Document) *fakeDocStore {
	s := &fakeDocStore{docs: map[string]corpusModel.Document{}, chunks: map[string][]corpusModel.Chunk{}}
	for _, d := range docs {
		s.docs[d.Id] = d
	}
	return s
}

func (s *fakeDocStore) CreateDocument(_ context.Context, doc corpusModel.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.Id] = doc
	return nil
}

func (s *fakeDocStore) GetDocument(_ context.Context, id string) (corpusModel.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.docs[id]
	if !ok {
		return d, errors.New("not found")
	}
	return d, nil
}

func (s *fakeDocStore) ListDocuments(context.Context) ([]corpusModel.Document, error) { return nil, nil }

func (s *fakeDocStore) UpdateDocumentPath(_ context.Context, id string, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.docs[id]
	d.StoragePath = path
	s.docs[id] = d
	return nil
}

func (s *fakeDocStore) SetDocumentStatus(_ context.Context, id string, status corpusModel.DocumentStatus, errMsg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rejects != "" && status == s.rejects {
		return errors.New("status write rejected")
	}
	d := s.docs[id]
	d.Status = status
	d.Error = errMsg
	s.docs[id] = d
	s.statuses = append(s.statuses, status)
	return nil
}

func (s *fakeDocStore) ReplaceChunks(ctx context.Context, documentId string, chunks []corpusModel.Chunk) error {
	s.mu.Lock()
	s.chunks[documentId] = chunks
	s.mu.Unlock()
	return s.SetDocumentStatus(ctx, documentId, corpusModel.DocumentParsed, "")
}

func (s *fakeDocStore) ListChunks(_ context.Context, documentId string) ([]corpusModel.Chunk, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chunks[documentId], nil
}

type fakeIndexer struct {
	err    error
	called int
	got    []corpusModel.Chunk
}

func (f *fakeIndexer) IndexDocument(_ context.Context, _ string, chunks []corpusModel.Chunk) error {
	f.called++
	f.got = chunks
	return f.err
}

// --- helpers ---

func writeZip(t *testing.T, name string, parts map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	for partName, body := range parts {
		w, err := zw.Create(partName)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

const relNS = `xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"`

// --- tests ---

func TestGetDocType(t *testing.T) {
	tests := []struct {
		path     string
		expected corpusModel.DocType
	}{
		{"test.pdf", corpusModel.PDF},
		{"DOC.DOCX", corpusModel.DOCX},
		{"letter.rtf", corpusModel.DOCX},
		{"sheet.xlsx", corpusModel.XLSX},
		{"deck.PPTX", corpusModel.PPTX},
		{"notes.txt", corpusModel.TEXT},
		{"image.png", corpusModel.TEXT},
		{"no-extension", corpusModel.TEXT},
	}

	for _, tt := range tests {
		if got := getDocType(tt.path); got != tt.expected {
			t.Errorf("getDocType(%s) = %v; want %v", tt.path, got, tt.expected)
		}
	}
}

func TestExtract_PlainTextFallback(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.md")
	if err := os.WriteFile(path, []byte("Backups run nightly.\xff"), 0o600); err != nil {
		t.Fatal(err)
	}

	pages, err := NewFileExtractor().Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(pages) != 1 {
		t.Fatalf("got %d pages; want 1", len(pages))
	}
	if pages[0].Text != "Backups run nightly." {
		t.Errorf("invalid bytes not dropped: %q", pages[0].Text)
	}
	if pages[0].PageNumber != nil {
		t.Errorf("plain text should have no page number")
	}
}

func TestExtract_MissingFile(t *testing.T) {
	_, err := NewFileExtractor().Extract(context.Background(), filepath.Join(t.TempDir(), "gone.txt"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func writeWorkbook(t *testing.T) string {
	t.Helper()
	wb := excelize.NewFile()
	t.Cleanup(func() { wb.Close() })

	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	must(wb.SetSheetName("Sheet1", "Controls"))
	must(wb.SetCellValue("Controls", "A1", "Encryption"))
	must(wb.SetCellRichText("Controls", "B1", []excelize.RichTextRun{{Text: "AES"}, {Text: "-256"}}))
	must(wb.SetCellValue("Controls", "A3", 42))
	must(wb.SetCellValue("Controls", "C3", "inline"))
	must(wb.SetCellValue("Controls", "A4", "Reviewed"))
	must(wb.SetCellValue("Controls", "B4", time.Date(2023, 7, 15, 0, 0, 0, 0, time.UTC)))
	dateFmt := "yyyy-mm-dd"
	style, err := wb.NewStyle(&excelize.Style{CustomNumFmt: &dateFmt})
	must(err)
	must(wb.SetCellStyle("Controls", "B4", "B4", style))
	_, err = wb.NewSheet("Empty")
	must(err)

	path := filepath.Join(t.TempDir(), "controls.xlsx")
	must(wb.SaveAs(path))
	return path
}

func TestExtractXLSX(t *testing.T) {
	pages, err := NewFileExtractor().Extract(context.Background(), writeWorkbook(t))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("got %d pages; want one per sheet", len(pages))
	}
	want := "Encryption\tAES-256\n42\tinline\nReviewed\t2023-07-15"
	if pages[0].Text != want {
		t.Errorf("sheet text = %q; want %q", pages[0].Text, want)
	}
	if pages[1].Text != "" {
		t.Errorf("empty sheet text = %q", pages[1].Text)
	}
	for _, p := range pages {
		if p.PageNumber != nil {
			t.Errorf("sheets carry no page number")
		}
	}
}

func TestSheetText_SkipsBlankCellsAndRows(t *testing.T) {
	got := sheetText([][]string{{"a", "", " ", "b"}, {}, {"", "  "}, {"c"}})
	if got != "a\tb\nc" {
		t.Errorf("sheetText = %q", got)
	}
}

func TestExtractPPTX(t *testing.T) {
	slide := func(texts ...string) string {
		var sb strings.Builder
		sb.WriteString(`<sld><cSld><spTree>`)
		for _, tx := range texts {
			sb.WriteString(`<sp><txBody>`)
			for _, para := range strings.Split(tx, "|") {
				sb.WriteString(`<p><r><t>` + para + `</t></r></p>`)
			}
			sb.WriteString(`</txBody></sp>`)
		}
		sb.WriteString(`<sp><spPr/></sp></spTree></cSld></sld>`)
		return sb.String()
	}

	path := writeZip(t, "deck.pptx", map[string]string{
		"ppt/presentation.xml": `<presentation ` + relNS + `><sldIdLst>
			<sldId id="256" r:id="rId7"/>
			<sldId id="257" r:id="rId3"/>
		</sldIdLst></presentation>`,
		"ppt/_rels/presentation.xml.rels": `<Relationships>
			<Relationship Id="rId3" Target="slides/slide2.xml"/>
			<Relationship Id="rId7" Target="slides/slide1.xml"/>
		</Relationships>`,
		"ppt/slides/slide1.xml": slide("Security Overview", "SOC 2|ISO 27001"),
		"ppt/slides/slide2.xml": slide("Roadmap"),
	})

	pages, err := NewFileExtractor().Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("got %d pages; want 2", len(pages))
	}
	if pages[0].Text != "Security Overview\nSOC 2\nISO 27001" {
		t.Errorf("slide 1 text = %q", pages[0].Text)
	}
	if pages[1].Text != "Roadmap" {
		t.Errorf("slide 2 text = %q", pages[1].Text)
	}
	if *pages[0].PageNumber != 1 || *pages[1].PageNumber != 2 {
		t.Errorf("slide numbers = %d, %d", *pages[0].PageNumber, *pages[1].PageNumber)
	}
}

func TestExtractXLSX_NotAWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.xlsx")
	if err := os.WriteFile(path, []byte("not a zip package"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFileExtractor().Extract(context.Background(), path); err == nil {
		t.Fatal("expected error for a file that is not a workbook")
	}
}

func TestProcessDocument_IndexesAndMarksStatuses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.txt")
	if err := os.WriteFile(path, []byte(strings.Repeat("all data is encrypted at rest. ", 10)), 0o600); err != nil {
		t.Fatal(err)
	}
	store := newFakeDocStore(corpusModel.Document{Id: "doc-1", Filename: "doc.txt", StoragePath: path, Status: corpusModel.DocumentUploaded})
	indexer := &fakeIndexer{}
	chunker, _ := NewChunker(100, 20)

	var steps []jobModel.InternalStatus
	n, err := NewPipeline(store, NewFileExtractor(), chunker, indexer).
		ProcessDocument(context.Background(), "doc-1", func(s jobModel.InternalStatus) { steps = append(steps, s) })
	if err != nil {
		t.Fatalf("ProcessDocument: %v", err)
	}
	if n == 0 || n != len(store.chunks["doc-1"]) || n != len(indexer.got) {
		t.Errorf("chunk counts disagree: returned %d stored %d indexed %d", n, len(store.chunks["doc-1"]), len(indexer.got))
	}
	wantStatuses := []corpusModel.DocumentStatus{corpusModel.DocumentParsed, corpusModel.DocumentIndexed}
	if strings.Join(statusStrings(store.statuses), ",") != strings.Join(statusStrings(wantStatuses), ",") {
		t.Errorf("statuses = %v; want %v", store.statuses, wantStatuses)
	}
	wantSteps := []jobModel.InternalStatus{jobModel.Extraction, jobModel.Chunking, jobModel.Indexing}
	if len(steps) != len(wantSteps) {
		t.Errorf("steps = %v; want %v", steps, wantSteps)
	}
}

func TestProcessDocument_EmptyDocumentStillIndexes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blank.txt")
	if err := os.WriteFile(path, []byte("   \n  "), 0o600); err != nil {
		t.Fatal(err)
	}
	store := newFakeDocStore(corpusModel.Document{Id: "doc-2", StoragePath: path})
	indexer := &fakeIndexer{}
	chunker, _ := NewChunker(100, 20)

	n, err := NewPipeline(store, NewFileExtractor(), chunker, indexer).ProcessDocument(context.Background(), "doc-2", nil)
	if err != nil {
		t.Fatalf("ProcessDocument: %v", err)
	}
	if n != 0 || indexer.called != 1 {
		t.Errorf("n=%d indexer called %d times; want 0 chunks and one index call", n, indexer.called)
	}
	if store.docs["doc-2"].Status != corpusModel.DocumentIndexed {
		t.Errorf("status = %s", store.docs["doc-2"].Status)
	}
}

func TestProcessDocument_FailureMarksFailed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.txt")
	if err := os.WriteFile(path, []byte("some content"), 0o600); err != nil {
		t.Fatal(err)
	}
	store := newFakeDocStore(
		corpusModel.Document{Id: "ok", StoragePath: path},
		corpusModel.Document{Id: "missing", StoragePath: filepath.Join(t.TempDir(), "nope.txt")},
	)
	chunker, _ := NewChunker(100, 20)

	boom := errors.New("embedding service down")
	_, err := NewPipeline(store, NewFileExtractor(), chunker, &fakeIndexer{err: boom}).ProcessDocument(context.Background(), "ok", nil)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v; want %v", err, boom)
	}
	if d := store.docs["ok"]; d.Status != corpusModel.DocumentFailed || d.Error == "" {
		t.Errorf("indexing failure left doc %+v", d)
	}

	_, err = NewPipeline(store, NewFileExtractor(), chunker, &fakeIndexer{}).ProcessDocument(context.Background(), "missing", nil)
	if err == nil {
		t.Fatal("expected extraction error")
	}
	if d := store.docs["missing"]; d.Status != corpusModel.DocumentFailed {
		t.Errorf("extraction failure left status %s", d.Status)
	}
}

func TestProcessDocument_IndexedWriteFailureMarksFailed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.txt")
	if err := os.WriteFile(path, []byte("backups run nightly"), 0o600); err != nil {
		t.Fatal(err)
	}
	store := newFakeDocStore(corpusModel.Document{Id: "doc-3", StoragePath: path})
	store.rejects = corpusModel.DocumentIndexed
	chunker, _ := NewChunker(100, 20)

	_, err := NewPipeline(store, NewFileExtractor(), chunker, &fakeIndexer{}).ProcessDocument(context.Background(), "doc-3", nil)
	if err == nil || !strings.Contains(err.Error(), "status write rejected") {
		t.Fatalf("err = %v; want the status write error", err)
	}
	if d := store.docs["doc-3"]; d.Status != corpusModel.DocumentFailed || d.Error != err.Error() {
		t.Errorf("doc = %+v; want FAILED carrying %q", d, err)
	}
}

func statusStrings(in []corpusModel.DocumentStatus) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = string(s)
	}
	return out
}
