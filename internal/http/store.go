package httpapi

import (
	"context"

	"github.com/denisok6893-rgb/fuzzy-catalog-ranking/internal/domain"
	"github.com/denisok6893-rgb/fuzzy-catalog-ranking/internal/matching"
	"github.com/denisok6893-rgb/fuzzy-catalog-ranking/internal/storage"
)

// ItemStore is the catalog behind the API. storage.MemoryStore, storage.SQLiteStore
// and storage.PostgresStore implement it.
type ItemStore interface {
	matching.ItemSource
	ListFiltered(ctx context.Context, f storage.Filter) ([]domain.Item, int, error)
	GetItem(ctx context.Context, id string) (domain.Item, bool, error)
	CreateItem(ctx context.Context, it domain.Item) (domain.Item, error)
	DeleteItem(ctx context.Context, id string) (bool, error)
}

var (
	_ ItemStore = (*storage.MemoryStore)(nil)
	_ ItemStore = (*storage.SQLiteStore)(nil)
	_ ItemStore = (*storage.PostgresStore)(nil)
)

// ItemSummary is the list view of an item.
type ItemSummary struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	ReleaseYear *int     `json:"release_year,omitempty"`
	Runtime     *float64 `json:"runtime,omitempty"`
	VoteAverage *float64 `json:"vote_average,omitempty"`
	Popularity  *float64 `json:"popularity,omitempty"`
	Languages   string   `json:"languages,omitempty"`
}

func summarize(items []domain.Item) []ItemSummary {
	out := make([]ItemSummary, 0, len(items))
	for _, it := range items {
		langs := it.SpokenLanguages
		if langs == "" {
			langs = it.OriginalLanguage
		}
		out = append(out, ItemSummary{
			ID:          it.ID,
			Title:       it.Title,
			ReleaseYear: it.ReleaseYear,
			Runtime:     it.Runtime,
			VoteAverage: it.VoteAverage,
			Popularity:  it.Popularity,
			Languages:   langs,
		})
	}
	return out
}
