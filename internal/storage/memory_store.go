package storage

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/denisok6893-rgb/fuzzy-catalog-ranking/internal/domain"
)

// MemoryStore keeps the catalog in process memory. It backs the file driver.
type MemoryStore struct {
	mu    sync.RWMutex
	items []domain.Item
}

func NewMemoryStore(items []domain.Item) *MemoryStore {
	return &MemoryStore{items: append([]domain.Item(nil), items...)}
}

func (m *MemoryStore) Close() error { return nil }

func (m *MemoryStore) ListItems(_ context.Context, limit int) ([]domain.Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := len(m.items)
	if limit > 0 && limit < n {
		n = limit
	}
	return append([]domain.Item{}, m.items[:n]...), nil
}

func (m *MemoryStore) ListFiltered(_ context.Context, f Filter) ([]domain.Item, int, error) {
	f = f.normalized()
	lang := strings.ToLower(f.Language)

	m.mu.RLock()
	matched := make([]domain.Item, 0, len(m.items))
	for _, it := range m.items {
		if lang != "" && !strings.Contains(strings.ToLower(it.SpokenLanguages+" "+it.OriginalLanguage), lang) {
			continue
		}
		if f.MinYear > 0 && (it.ReleaseYear == nil || *it.ReleaseYear < f.MinYear) {
			continue
		}
		matched = append(matched, it)
	}
	m.mu.RUnlock()

	sortItems(matched, f.Sort)

	total := len(matched)
	if f.Offset > total {
		f.Offset = total
	}
	end := min(f.Offset+f.Limit, total)
	return matched[f.Offset:end], total, nil
}

func (m *MemoryStore) GetItem(_ context.Context, id string) (domain.Item, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, it := range m.items {
		if it.ID == id {
			return it, true, nil
		}
	}
	return domain.Item{}, false, nil
}

func (m *MemoryStore) CreateItem(_ context.Context, it domain.Item) (domain.Item, error) {
	if it.ID == "" {
		it.ID = uuid.NewString()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = append(m.items, it)
	return it, nil
}

func (m *MemoryStore) DeleteItem(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, it := range m.items {
		if it.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// sortItems mirrors the SQL orderings. Missing values sort last.
func sortItems(items []domain.Item, order string) {
	var key func(domain.Item) (float64, bool)
	desc := true
	switch order {
	case SortYearDesc, SortYearAsc:
		desc = order == SortYearDesc
		key = func(it domain.Item) (float64, bool) {
			if it.ReleaseYear == nil {
				return 0, false
			}
			return float64(*it.ReleaseYear), true
		}
	case SortRatingDesc:
		key = func(it domain.Item) (float64, bool) {
			if it.VoteAverage == nil {
				return 0, false
			}
			return *it.VoteAverage, true
		}
	case SortPopularityDesc:
		key = func(it domain.Item) (float64, bool) {
			if it.Popularity == nil {
				return 0, false
			}
			return *it.Popularity, true
		}
	default:
		sort.SliceStable(items, func(i, j int) bool { return items[i].ID < items[j].ID })
		return
	}

	sort.SliceStable(items, func(i, j int) bool {
		a, aok := key(items[i])
		b, bok := key(items[j])
		switch {
		case aok != bok:
			return aok
		case !aok || a == b:
			return items[i].ID < items[j].ID
		case desc:
			return a > b
		default:
			return a < b
		}
	})
}
