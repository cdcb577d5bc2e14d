package corpusModel

import (
	"context"
	"time"
)

type DocumentStatus string

const (
	DocumentUploaded DocumentStatus = "UPLOADED"
	DocumentParsed   DocumentStatus = "PARSED"
	DocumentIndexed  DocumentStatus = "INDEXED"
	DocumentFailed   DocumentStatus = "FAILED"
)

type DocType string

const (
	PDF  DocType = "PDF"
	DOCX DocType = "DOCX"
	XLSX DocType = "XLSX"
	PPTX DocType = "PPTX"
	TEXT DocType = "TEXT"
)

// BBox is a page-space rectangle. Extractors that cannot locate text leave it nil.
type BBox struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// Page is one extracted text block. PageNumber is nil for formats without pages.
type Page struct {
	Text       string `json:"text"`
	PageNumber *int   `json:"page"`
	BBox       *BBox  `json:"bbox"`
}

type Document struct {
	Id          string         `json:"id" db:"id"`
	Filename    string         `json:"filename" db:"filename"`
	ContentType string         `json:"content_type" db:"content_type"`
	Status      DocumentStatus `json:"status" db:"status"`
	StoragePath string         `json:"-" db:"storage_path"`
	Error       string         `json:"error,omitempty" db:"error"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
}

type Chunk struct {
	Id         string    `json:"id"`
	DocumentId string    `json:"document_id"`
	ChunkIndex int       `json:"chunk_index"`
	Text       string    `json:"text"`
	Page       *int      `json:"page"`
	BBox       *BBox     `json:"bbox"`
	CreatedAt  time.Time `json:"created_at"`
}

// IndexRecord is the vector index form of a chunk, keyed by the chunk id.
type IndexRecord struct {
	Id         string
	Text       string
	Vector     []float32
	DocumentId string
	ChunkId    string
	Page       *int
	BBox       *BBox
}

// RetrievalHit is one nearest-neighbour result. Distance is cosine distance in [0,2].
type RetrievalHit struct {
	ChunkId    string  `json:"chunk_id"`
	DocumentId string  `json:"document_id"`
	Text       string  `json:"text"`
	Page       *int    `json:"page"`
	BBox       *BBox   `json:"bbox"`
	Distance   float64 `json:"distance"`
}

// DocumentFilter restricts a query to a set of document ids. A nil filter is unconstrained;
// a non-nil filter with no ids matches nothing.
type DocumentFilter struct {
	DocumentIds []string
}

// NoDocumentSentinel is the document id used to build a filter that can never match.
const NoDocumentSentinel = "__none__"

func (f *DocumentFilter) IsEmpty() bool {
	return f != nil && len(f.DocumentIds) == 0
}

func NewIndexRecord(chunk Chunk, vector []float32) IndexRecord {
	return IndexRecord{
		Id:         chunk.Id,
		Text:       chunk.Text,
		Vector:     vector,
		DocumentId: chunk.DocumentId,
		ChunkId:    chunk.Id,
		Page:       chunk.Page,
		BBox:       chunk.BBox,
	}
}

type DocumentStore interface {
	CreateDocument(ctx context.Context, doc Document) error
	GetDocument(ctx context.Context, id string) (Document, error)
	ListDocuments(ctx context.Context) ([]Document, error)
	UpdateDocumentPath(ctx context.Context, id string, path string) error
	SetDocumentStatus(ctx context.Context, id string, status DocumentStatus, errMsg string) error
	// ReplaceChunks swaps the document's chunk rows and marks it PARSED in one transaction.
	ReplaceChunks(ctx context.Context, documentId string, chunks []Chunk) error
	ListChunks(ctx context.Context, documentId string) ([]Chunk, error)
}
