// Package primary implements the record store behind the persistence facade:
// named collections of JSON rows with email/phone secondary indexes, kept in
// SQLite (default) or PostgreSQL.
package primary

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/dmitrijs2005/shopkeeper/internal/client/storage"
	"github.com/dmitrijs2005/shopkeeper/internal/client/storage/primary/migrations"
	"github.com/dmitrijs2005/shopkeeper/internal/common"
	"github.com/dmitrijs2005/shopkeeper/internal/dbx"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// Supported drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Store is a storage.RecordStore over database/sql. Queries use $n
// placeholders, which both modernc sqlite and pgx accept.
type Store struct {
	db *sql.DB
}

var _ storage.RecordStore = (*Store)(nil)

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded schema for the given dialect.
func RunMigrations(ctx context.Context, db *sql.DB, dialect dbx.Dialect) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(string(dialect)); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	return gooseUpContext(ctx, db, ".")
}

// Open connects to the database, runs migrations and returns a ready Store.
// An empty driver means sqlite.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	var (
		sqlDriver string
		dialect   dbx.Dialect
	)

	switch driver {
	case "", DriverSQLite:
		sqlDriver, dialect = "sqlite", dbx.DialectSQLite
	case DriverPostgres:
		sqlDriver, dialect = "pgx", dbx.DialectPostgres
	default:
		return nil, fmt.Errorf("unsupported primary driver %q", driver)
	}

	db, err := sql.Open(sqlDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	if dialect == dbx.DialectSQLite {
		// one writer at a time; also keeps ":memory:" a single database
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	if err := RunMigrations(ctx, db, dialect); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

func checkCollection(name string) error {
	if !slices.Contains(common.Collections, name) {
		return fmt.Errorf("%w: %q", common.ErrUnknownCollection, name)
	}
	return nil
}

const upsertQuery = `INSERT INTO records (collection, id, email, phone, data)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (collection, id) DO UPDATE
	SET email = excluded.email, phone = excluded.phone, data = excluded.data`

func (s *Store) put(ctx context.Context, db dbx.DBTX, collection string, row storage.Row) error {
	_, err := db.ExecContext(ctx, upsertQuery, collection, row.ID, row.Email, row.Phone, string(row.Data))
	if err != nil {
		return fmt.Errorf("failed to put record %s/%s: %w", collection, row.ID, err)
	}
	return nil
}

// Put inserts or replaces one row.
func (s *Store) Put(ctx context.Context, collection string, row storage.Row) error {
	if err := checkCollection(collection); err != nil {
		return err
	}
	return s.put(ctx, s.db, collection, row)
}

// Get returns the row with the given id or common.ErrorNotFound.
func (s *Store) Get(ctx context.Context, collection, id string) (storage.Row, error) {
	if err := checkCollection(collection); err != nil {
		return storage.Row{}, err
	}

	query := `SELECT id, email, phone, data FROM records WHERE collection = $1 AND id = $2`
	row := s.db.QueryRowContext(ctx, query, collection, id)

	r, err := scanRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.Row{}, common.ErrorNotFound
	}
	if err != nil {
		return storage.Row{}, fmt.Errorf("failed to get record %s/%s: %w", collection, id, err)
	}
	return r, nil
}

// GetAll returns every row of a collection ordered by id.
func (s *Store) GetAll(ctx context.Context, collection string) ([]storage.Row, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}

	query := `SELECT id, email, phone, data FROM records WHERE collection = $1 ORDER BY id`
	return s.query(ctx, query, collection)
}

// FindByIndex returns rows whose email or phone index equals the given
// non-empty value.
func (s *Store) FindByIndex(ctx context.Context, collection, email, phone string) ([]storage.Row, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}

	var (
		conds []string
		args  = []any{collection}
	)
	if email != "" {
		args = append(args, email)
		conds = append(conds, fmt.Sprintf("email = $%d", len(args)))
	}
	if phone != "" {
		args = append(args, phone)
		conds = append(conds, fmt.Sprintf("phone = $%d", len(args)))
	}
	if len(conds) == 0 {
		return nil, nil
	}

	query := `SELECT id, email, phone, data FROM records WHERE collection = $1 AND (` +
		strings.Join(conds, " OR ") + `) ORDER BY id`
	return s.query(ctx, query, args...)
}

// Delete removes one row. Missing rows are not an error.
func (s *Store) Delete(ctx context.Context, collection, id string) error {
	if err := checkCollection(collection); err != nil {
		return err
	}

	query := `DELETE FROM records WHERE collection = $1 AND id = $2`
	if _, err := s.db.ExecContext(ctx, query, collection, id); err != nil {
		return fmt.Errorf("failed to delete record %s/%s: %w", collection, id, err)
	}
	return nil
}

// Clear removes every row of a collection.
func (s *Store) Clear(ctx context.Context, collection string) error {
	if err := checkCollection(collection); err != nil {
		return err
	}
	return s.clear(ctx, s.db, collection)
}

func (s *Store) clear(ctx context.Context, db dbx.DBTX, collection string) error {
	query := `DELETE FROM records WHERE collection = $1`
	if _, err := db.ExecContext(ctx, query, collection); err != nil {
		return fmt.Errorf("failed to clear collection %s: %w", collection, err)
	}
	return nil
}

// Replace swaps the whole collection for rows in one transaction.
func (s *Store) Replace(ctx context.Context, collection string, rows []storage.Row) error {
	if err := checkCollection(collection); err != nil {
		return err
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.clear(ctx, tx, collection); err != nil {
			return err
		}
		for _, r := range rows {
			if err := s.put(ctx, tx, collection, r); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) query(ctx context.Context, query string, args ...any) ([]storage.Row, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select records: %w", err)
	}
	defer rows.Close()

	var result []storage.Row
	for rows.Next() {
		r, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, r)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRow(sc scanner) (storage.Row, error) {
	var (
		r    storage.Row
		data string
	)
	if err := sc.Scan(&r.ID, &r.Email, &r.Phone, &data); err != nil {
		return storage.Row{}, err
	}
	r.Data = []byte(data)
	return r, nil
}
