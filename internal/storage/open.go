package storage

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/denisok6893-rgb/fuzzy-catalog-ranking/internal/config"
	"github.com/denisok6893-rgb/fuzzy-catalog-ranking/internal/domain"
)

// Store is implemented by every catalog backend.
type Store interface {
	ListItems(ctx context.Context, limit int) ([]domain.Item, error)
	ListFiltered(ctx context.Context, f Filter) ([]domain.Item, int, error)
	GetItem(ctx context.Context, id string) (domain.Item, bool, error)
	CreateItem(ctx context.Context, it domain.Item) (domain.Item, error)
	DeleteItem(ctx context.Context, id string) (bool, error)
	Close() error
}

// Open connects the backend selected by cfg.Driver.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func Open(ctx context.Context, cfg config.SourceConfig, logger zerolog.Logger) (Store, error) {
	log := logger.With().Str("component", "storage").Str("driver", cfg.Driver).Logger()

	switch cfg.Driver {
	case config.DriverFile:
		items, err := LoadItemsFromFile(cfg.ItemsPath)
		if err != nil {
			return nil, err
		}
		log.Info().Str("path", cfg.ItemsPath).Int("items", len(items)).Msg("loaded items file")
		return NewMemoryStore(items), nil

	case config.DriverSQLite:
		s, err := OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		if err := s.EnsureSchema(); err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("ensure schema: %w", err)
		}
		if cfg.Seed {
			if err := seed(ctx, s, cfg.ItemsPath, log); err != nil {
				_ = s.Close()
				return nil, err
			}
		}
		log.Info().Str("path", cfg.SQLitePath).Msg("opened sqlite catalog")
		return s, nil

	case config.DriverPostgres:
		s, err := OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		log.Info().Msg("connected to postgres catalog")
		return s, nil

	default:
		return nil, fmt.Errorf("unknown source driver %q", cfg.Driver)
	}
}

// seed fills an empty database from the items file.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func seed(ctx context.Context, s *SQLiteStore, path string, log zerolog.Logger) error {
	n, err := s.CountItems(ctx)
	if err != nil {
		return fmt.Errorf("count items: %w", err)
	}
	if n > 0 {
		return nil
	}
	items, err := LoadItemsFromFile(path)
	if err != nil {
		return err
	}
	inserted, err := s.UpsertMany(ctx, items)
	if err != nil {
		return fmt.Errorf("seed items: %w", err)
	}
	log.Info().Str("path", path).Int("inserted", inserted).Msg("seeded sqlite catalog")
	return nil
}
