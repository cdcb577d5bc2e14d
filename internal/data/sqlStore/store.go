// Package sqlStore is the relational store for documents, chunks, projects, questions,
// answers and evaluations. It runs on SQLite for single-node setups and on Postgres
// through pgx. Every exported method is one transaction.
package sqlStore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/akolanti/QuestionnaireAPI/internal/data/sqlStore/migrations"
	"github.com/akolanti/QuestionnaireAPI/internal/domain/appErrors"
	"github.com/akolanti/QuestionnaireAPI/pkg/logger_i"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

func init() {
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

type Store struct {
	db     *sqlx.DB
	driver string
	logger *logger_i.Logger
}

// Open connects with driver ("sqlite" or "pgx") and applies pending migrations.
func Open(ctx context.Context, driver string, dsn string) (*Store, error) {
	var dir string
	switch driver {
	case DriverSQLite:
		dir = "sqlite"
		var err error
		if dsn, err = sqliteDSN(dsn); err != nil {
			return nil, err
		}
	case DriverPostgres:
		dir = "postgres"
	default:
		return nil, appErrors.NewConfigurationError("unsupported database driver %q", driver)
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, appErrors.NewPersistenceError("open database", err)
	}
	if driver == DriverSQLite {
		// sqlite has a single writer
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, appErrors.NewPersistenceError("ping database", err)
	}

	s := &Store{db: db, driver: driver, logger: logger_i.NewLogger("SQL Store")}
	if err := s.migrate(ctx, dir); err != nil {
		db.Close()
		return nil, appErrors.NewPersistenceError("migrate", err)
	}
	return s, nil
}

// sqliteDSN creates the database directory and adds WAL, busy timeout and foreign keys
// to a bare file path.
func sqliteDSN(dsn string) (string, error) {
	if dsn == "" {
		return "", appErrors.NewConfigurationError("database dsn is empty")
	}
	file, _, hasParams := strings.Cut(strings.TrimPrefix(dsn, "file:"), "?")
	if file != "" && file != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
			return "", appErrors.NewPersistenceError("create database directory", err)
		}
	}
	if hasParams || file == ":memory:" {
		return dsn, nil
	}
	return dsn + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the pool so the pgvector index can share it.
func (s *Store) DB() *sqlx.DB {
	return s.db
}

func (s *Store) Driver() string {
	return s.driver
}

func (s *Store) migrate(ctx context.Context, dir string) error {
	if _, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (version INTEGER PRIMARY KEY)`); err != nil {
		return fmt.Errorf("creating schema_migrations: %w", err)
	}
	var current int
	if err := s.db.GetContext(ctx, &current, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	entries, err := fs.ReadDir(migrations.FS, dir)
	if err != nil {
		return fmt.Errorf("reading migrations: %w", err)
	}
	var files []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".up.sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	for _, name := range files {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil || version <= current {
			continue
		}
		content, err := fs.ReadFile(migrations.FS, dir+"/"+name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		err = s.inTx(ctx, func(tx *sqlx.Tx) error {
			if _, err := tx.ExecContext(ctx, string(content)); err != nil {
				return err
			}
			_, err := tx.ExecContext(ctx, tx.Rebind(`INSERT INTO schema_migrations (version) VALUES (?)`), version)
			return err
		})
		if err != nil {
			return fmt.Errorf("applying migration %s: %w", name, err)
		}
		s.logger.Info("Applied migration", "name", name, "driver", s.driver)
	}
	return nil
}

func (s *Store) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// write runs fn in a transaction and classifies the failure.
func (s *Store) write(ctx context.Context, op string, fn func(tx *sqlx.Tx) error) error {
	err := s.inTx(ctx, fn)
	if err == nil || appErrors.IsNotFound(err) || appErrors.IsValidation(err) {
		return err
	}
	return appErrors.NewPersistenceError(op, err)
}

func (s *Store) get(ctx context.Context, dest any, entity, id, query string, args ...any) error {
	err := s.db.GetContext(ctx, dest, s.db.Rebind(query), args...)
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.NewNotFound(entity, id)
	}
	if err != nil {
		return appErrors.NewPersistenceError("get "+entity, err)
	}
	return nil
}

// affected turns a zero-row update into NotFound.
func affected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return appErrors.NewNotFound(entity, id)
	}
	return nil
}

func wrapRead(op string, err error) error {
	return appErrors.NewPersistenceError(op, err)
}
