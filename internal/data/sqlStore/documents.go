package sqlStore

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/akolanti/QuestionnaireAPI/internal/domain/corpusModel"
	"github.com/jmoiron/sqlx"
)

var _ corpusModel.DocumentStore = (*Store)(nil)

type chunkRow struct {
	Id         string         `db:"id"`
	DocumentId string         `db:"document_id"`
	ChunkIndex int            `db:"chunk_index"`
	Text       string         `db:"text"`
	Page       sql.NullInt64  `db:"page"`
	BBox       sql.NullString `db:"bbox"`
	CreatedAt  time.Time      `db:"created_at"`
}

func (r chunkRow) toChunk() corpusModel.Chunk {
	c := corpusModel.Chunk{
		Id:         r.Id,
		DocumentId: r.DocumentId,
		ChunkIndex: r.ChunkIndex,
		Text:       r.Text,
		CreatedAt:  r.CreatedAt,
	}
	if r.Page.Valid {
		p := int(r.Page.Int64)
		c.Page = &p
	}
	if r.BBox.Valid {
		var b corpusModel.BBox
		if json.Unmarshal([]byte(r.BBox.String), &b) == nil {
			c.BBox = &b
		}
	}
	return c
}

func (s *Store) CreateDocument(ctx context.Context, doc corpusModel.Document) error {
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}
	return s.write(ctx, "create document", func(tx *sqlx.Tx) error {
		_, err := tx.NamedExecContext(ctx, `
			INSERT INTO documents (id, filename, content_type, status, storage_path, error, created_at)
			VALUES (:id, :filename, :content_type, :status, :storage_path, :error, :created_at)`, doc)
		return err
	})
}

func (s *Store) GetDocument(ctx context.Context, id string) (corpusModel.Document, error) {
	var doc corpusModel.Document
	err := s.get(ctx, &doc, "document", id, `SELECT * FROM documents WHERE id = ?`, id)
	return doc, err
}

// ListDocuments returns newest first.
func (s *Store) ListDocuments(ctx context.Context) ([]corpusModel.Document, error) {
	docs := []corpusModel.Document{}
	if err := s.db.SelectContext(ctx, &docs, `SELECT * FROM documents ORDER BY created_at DESC, id`); err != nil {
		return nil, wrapRead("list documents", err)
	}
	return docs, nil
}

func (s *Store) UpdateDocumentPath(ctx context.Context, id string, path string) error {
	return s.write(ctx, "update document path", func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, tx.Rebind(`UPDATE documents SET storage_path = ? WHERE id = ?`), path, id)
		if err != nil {
			return err
		}
		return affected(res, "document", id)
	})
}

func (s *Store) SetDocumentStatus(ctx context.Context, id string, status corpusModel.DocumentStatus, errMsg string) error {
	return s.write(ctx, "set document status", func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, tx.Rebind(`UPDATE documents SET status = ?, error = ? WHERE id = ?`), status, errMsg, id)
		if err != nil {
			return err
		}
		return affected(res, "document", id)
	})
}

func (s *Store) ReplaceChunks(ctx context.Context, documentId string, chunks []corpusModel.Chunk) error {
	return s.write(ctx, "replace chunks", func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, tx.Rebind(`UPDATE documents SET status = ?, error = '' WHERE id = ?`),
			corpusModel.DocumentParsed, documentId)
		if err != nil {
			return err
		}
		if err := affected(res, "document", documentId); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM chunks WHERE document_id = ?`), documentId); err != nil {
			return err
		}

		insert := tx.Rebind(`INSERT INTO chunks (id, document_id, chunk_index, text, page, bbox, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`)
		for _, c := range chunks {
			var page sql.NullInt64
			if c.Page != nil {
				page = sql.NullInt64{Int64: int64(*c.Page), Valid: true}
			}
			bbox, err := nullJSON(c.BBox)
			if err != nil {
				return err
			}
			createdAt := c.CreatedAt
			if createdAt.IsZero() {
				createdAt = time.Now().UTC()
			}
			if _, err := tx.ExecContext(ctx, insert, c.Id, documentId, c.ChunkIndex, c.Text, page, bbox, createdAt); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) ListChunks(ctx context.Context, documentId string) ([]corpusModel.Chunk, error) {
	var rows []chunkRow
	err := s.db.SelectContext(ctx, &rows, s.db.Rebind(`SELECT * FROM chunks WHERE document_id = ? ORDER BY chunk_index`), documentId)
	if err != nil {
		return nil, wrapRead("list chunks", err)
	}
	chunks := make([]corpusModel.Chunk, len(rows))
	for i, r := range rows {
		chunks[i] = r.toChunk()
	}
	return chunks, nil
}

// nullJSON stores nil pointers as SQL NULL.
func nullJSON[T any](v *T) (sql.NullString, error) {
	if v == nil {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}
