package pgvectorDB

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	"github.com/akolanti/QuestionnaireAPI/internal/domain/corpusModel"
	"github.com/akolanti/QuestionnaireAPI/internal/rag/vectorDB"
	"github.com/akolanti/QuestionnaireAPI/pkg/logger_i"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pgvector/pgvector-go"
)

var tableNamePattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// Store keeps chunk vectors in a postgres table with a pgvector column and answers
// queries with the cosine distance operator.
type Store struct {
	db     *sqlx.DB
	table  string
	owned  bool
	logger *logger_i.Logger
}

// Open connects with the pgx driver and prepares the table.
func Open(ctx context.Context, dsn string, table string, dimension int) (*Store, error) {
	db, err := sqlx.ConnectContext(ctx, "pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to pgvector database: %w", err)
	}
	s, err := New(ctx, db, table, dimension)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	s.owned = true
	return s, nil
}

// New reuses an existing pgx connection pool, for example the relational store's.
func New(ctx context.Context, db *sqlx.DB, table string, dimension int) (*Store, error) {
	if !tableNamePattern.MatchString(table) {
		return nil, fmt.Errorf("invalid pgvector table name %q", table)
	}
	s := &Store{db: db, table: table, logger: logger_i.NewLogger("pgvector")}
	if err := s.migrate(ctx, dimension); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context, dimension int) error {
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			document_id TEXT NOT NULL,
			chunk_id TEXT NOT NULL,
			text TEXT NOT NULL,
			page INTEGER,
			bbox TEXT,
			embedding vector(%d) NOT NULL
		)`, s.table, dimension),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_document_idx ON %s (document_id)`, s.table, s.table),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_embedding_idx ON %s USING hnsw (embedding vector_cosine_ops)`, s.table, s.table),
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("pgvector migration failed: %w", err)
		}
	}
	return nil
}

func (s *Store) Upsert(ctx context.Context, records []corpusModel.IndexRecord) error {
	if len(records) == 0 {
		return nil
	}
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := fmt.Sprintf(`
		INSERT INTO %s (id, document_id, chunk_id, text, page, bbox, embedding)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			document_id = EXCLUDED.document_id,
			chunk_id = EXCLUDED.chunk_id,
			text = EXCLUDED.text,
			page = EXCLUDED.page,
			bbox = EXCLUDED.bbox,
			embedding = EXCLUDED.embedding
	`, s.table)

	for _, r := range records {
		var bbox sql.NullString
		if encoded, ok := vectorDB.EncodeBBox(r.BBox); ok {
			bbox = sql.NullString{String: encoded, Valid: true}
		}
		_, err := tx.ExecContext(ctx, query,
			r.Id,
			r.DocumentId,
			r.ChunkId,
			r.Text,
			r.Page,
			bbox,
			pgvector.NewVector(r.Vector),
		)
		if err != nil {
			return fmt.Errorf("pgvector upsert of %s failed: %w", r.Id, err)
		}
	}
	return tx.Commit()
}

type hitRow struct {
	ChunkId    string         `db:"chunk_id"`
	DocumentId string         `db:"document_id"`
	Text       string         `db:"text"`
	Page       sql.NullInt64  `db:"page"`
	BBox       sql.NullString `db:"bbox"`
	Distance   float64        `db:"distance"`
}

func (s *Store) Query(ctx context.Context, vector []float32, k int, filter *corpusModel.DocumentFilter) ([]corpusModel.RetrievalHit, error) {
	query, args, err := s.buildQuery(pgvector.NewVector(vector), k, filter)
	if err != nil {
		return nil, err
	}

	var rows []hitRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("pgvector query failed: %w", err)
	}

	hits := make([]corpusModel.RetrievalHit, 0, len(rows))
	for _, r := range rows {
		hit := corpusModel.RetrievalHit{
			ChunkId:    r.ChunkId,
			DocumentId: r.DocumentId,
			Text:       r.Text,
			Distance:   r.Distance,
		}
		if r.Page.Valid {
			page := int(r.Page.Int64)
			hit.Page = &page
		}
		if r.BBox.Valid {
			hit.BBox = vectorDB.DecodeBBox(r.BBox.String)
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

// buildQuery expands the document filter with sqlx.In and rebinds for postgres.
func (s *Store) buildQuery(vector pgvector.Vector, k int, filter *corpusModel.DocumentFilter) (string, []any, error) {
	base := fmt.Sprintf(`SELECT chunk_id, document_id, text, page, bbox, embedding <=> ? AS distance FROM %s`, s.table)

	var query string
	var args []any
	var err error
	if ids := vectorDB.FilterIds(filter); ids != nil {
		query, args, err = sqlx.In(base+` WHERE document_id IN (?) ORDER BY distance LIMIT ?`, vector, ids, k)
		if err != nil {
			return "", nil, err
		}
	} else {
		query = base + ` ORDER BY distance LIMIT ?`
		args = []any{vector, k}
	}
	return sqlx.Rebind(sqlx.DOLLAR, query), args, nil
}

func (s *Store) DeleteDocument(ctx context.Context, documentId string) error {
	_, err := s.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE document_id = $1`, s.table), documentId)
	if err != nil {
		return fmt.Errorf("pgvector delete of document %s failed: %w", documentId, err)
	}
	return nil
}

// Close only closes pools this store opened itself.
func (s *Store) Close() error {
	if !s.owned {
		return nil
	}
	s.logger.Info("Closing pgvector connection")
	return s.db.Close()
}
