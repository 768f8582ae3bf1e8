package storage

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/denisok6893-rgb/fuzzy-catalog-ranking/internal/domain"
)

// PostgresStore reads the movies table of an existing catalog database.
// The table is maintained elsewhere, so writes return ErrReadOnly.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func OpenPostgres(ctx context.Context, url string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// Casts keep the scan types fixed whatever numeric types the table uses.
const pgItemColumns = `id::text, title, runtime::float8, release_year::int, vote_average::float8,
  vote_count::int, popularity::float8, COALESCE(spoken_languages, ''), COALESCE(original_language, ''), adult`

// ListItems returns up to limit movies that carry a release year and a runtime.
func (s *PostgresStore) ListItems(ctx context.Context, limit int) ([]domain.Item, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+pgItemColumns+`
FROM movies
WHERE release_year IS NOT NULL AND runtime IS NOT NULL
LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query movies: %w", err)
	}
	return collectItems(rows)
}

func (s *PostgresStore) ListFiltered(ctx context.Context, f Filter) ([]domain.Item, int, error) {
	f = f.normalized()
	whereSQL, args := f.sqlWhere(func(n int) string { return "$" + strconv.Itoa(n) })

	var total int
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM movies "+whereSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count movies: %w", err)
	}

	n := len(args)
	rowsSQL := "SELECT " + pgItemColumns + " FROM movies " + whereSQL + "\n" + f.sqlOrder() +
		"\nLIMIT $" + strconv.Itoa(n+1) + " OFFSET $" + strconv.Itoa(n+2)
	rows, err := s.pool.Query(ctx, rowsSQL, append(args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("query movies: %w", err)
	}
	items, err := collectItems(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *PostgresStore) GetItem(ctx context.Context, id string) (domain.Item, bool, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+pgItemColumns+` FROM movies WHERE id::text = $1`, id)
	if err != nil {
		return domain.Item{}, false, fmt.Errorf("query movie: %w", err)
	}
	items, err := collectItems(rows)
	if err != nil || len(items) == 0 {
		return domain.Item{}, false, err
	}
	return items[0], true, nil
}

func (s *PostgresStore) CreateItem(context.Context, domain.Item) (domain.Item, error) {
	return domain.Item{}, ErrReadOnly
}

func (s *PostgresStore) DeleteItem(context.Context, string) (bool, error) {
	return false, ErrReadOnly
}

func collectItems(rows pgx.Rows) ([]domain.Item, error) {
	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Item, error) {
		var it domain.Item
		err := row.Scan(&it.ID, &it.Title, &it.Runtime, &it.ReleaseYear, &it.VoteAverage,
			&it.VoteCount, &it.Popularity, &it.SpokenLanguages, &it.OriginalLanguage, &it.Adult)
		return it, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan movies: %w", err)
	}
	return items, nil
}
