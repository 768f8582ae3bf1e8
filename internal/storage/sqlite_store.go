package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/denisok6893-rgb/fuzzy-catalog-ranking/internal/domain"
)

type SQLiteStore struct {
	db *sql.DB
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA journal_mode=WAL;`); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA foreign_keys=ON;`); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) EnsureSchema() error {
	const createTable = `
CREATE TABLE IF NOT EXISTS items (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  runtime REAL,
  release_year INTEGER,
  vote_average REAL,
  vote_count INTEGER,
  popularity REAL,
  spoken_languages TEXT NOT NULL DEFAULT '',
  original_language TEXT NOT NULL DEFAULT '',
  adult INTEGER
);
`
	if _, err := s.db.Exec(createTable); err != nil {
		return err
	}

	if _, err := s.db.Exec(`CREATE INDEX IF NOT EXISTS idx_items_release_year ON items(release_year);`); err != nil {
		return err
	}
	if _, err := s.db.Exec(`CREATE INDEX IF NOT EXISTS idx_items_popularity ON items(popularity);`); err != nil {
		return err
	}

	return nil
}

const itemColumns = `id, title, runtime, release_year, vote_average, vote_count, popularity, spoken_languages, original_language, adult`

func (s *SQLiteStore) CountItems(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM items`).Scan(&n)
	return n, err
}

// UpsertMany inserts a dataset without duplicating by id. Items without an id get one.
// It returns how many rows were actually inserted.
func (s *SQLiteStore) UpsertMany(ctx context.Context, items []domain.Item) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO items (`+itemColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	inserted := 0
	for _, it := range items {
		if it.ID == "" {
			it.ID = uuid.NewString()
		}
		res, err := stmt.ExecContext(ctx, itemArgs(it)...)
		if err != nil {
			return 0, fmt.Errorf("insert item %s: %w", it.ID, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return inserted, nil
}

func (s *SQLiteStore) CreateItem(ctx context.Context, it domain.Item) (domain.Item, error) {
	if it.ID == "" {
		it.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO items (`+itemColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, itemArgs(it)...)
	return it, err
}

func (s *SQLiteStore) DeleteItem(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	aff, _ := res.RowsAffected()
	return aff > 0, nil
}

func (s *SQLiteStore) GetItem(ctx context.Context, id string) (domain.Item, bool, error) {
	it, err := scanItem(s.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM items WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Item{}, false, nil
	}
	if err != nil {
		return domain.Item{}, false, err
	}
	return it, true, nil
}

// ListItems returns up to limit rows in id order. It is the ranking source.
func (s *SQLiteStore) ListItems(ctx context.Context, limit int) ([]domain.Item, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+itemColumns+` FROM items ORDER BY id LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanItems(rows)
}

// ListFiltered returns one page of items matching f and the total match count.
func (s *SQLiteStore) ListFiltered(ctx context.Context, f Filter) ([]domain.Item, int, error) {
	f = f.normalized()
	whereSQL, args := f.sqlWhere(func(int) string { return "?" })

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM items "+whereSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rowsSQL := "SELECT " + itemColumns + " FROM items " + whereSQL + "\n" + f.sqlOrder() + "\nLIMIT ? OFFSET ?"
	rowsArgs := append(append([]any{}, args...), f.Limit, f.Offset)

	rows, err := s.db.QueryContext(ctx, rowsSQL, rowsArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out, err := scanItems(rows)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func itemArgs(it domain.Item) []any {
	var adult any
	if it.Adult != nil {
		adult = *it.Adult
	}
	return []any{
		it.ID, it.Title, nullable(it.Runtime), nullable(it.ReleaseYear), nullable(it.VoteAverage),
		nullable(it.VoteCount), nullable(it.Popularity), it.SpokenLanguages, it.OriginalLanguage, adult,
	}
}

func nullable[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(r rowScanner) (domain.Item, error) {
	var (
		it                        domain.Item
		runtime, vote, popularity sql.NullFloat64
		year, votes               sql.NullInt64
		adult                     sql.NullBool
	)
	if err := r.Scan(&it.ID, &it.Title, &runtime, &year, &vote, &votes, &popularity,
		&it.SpokenLanguages, &it.OriginalLanguage, &adult); err != nil {
		return domain.Item{}, err
	}
	if runtime.Valid {
		it.Runtime = &runtime.Float64
	}
	if year.Valid {
		y := int(year.Int64)
		it.ReleaseYear = &y
	}
	if vote.Valid {
		it.VoteAverage = &vote.Float64
	}
	if votes.Valid {
		n := int(votes.Int64)
		it.VoteCount = &n
	}
	if popularity.Valid {
		it.Popularity = &popularity.Float64
	}
	if adult.Valid {
		it.Adult = &adult.Bool
	}
	return it, nil
}

func scanItems(rows *sql.Rows) ([]domain.Item, error) {
	out := []domain.Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
