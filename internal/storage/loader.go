package storage

import (
	"bytes"
	"fmt"
	"os"

	"github.com/goccy/go-json"

	"github.com/denisok6893-rgb/fuzzy-catalog-ranking/internal/domain"
)

// LoadItemsFromFile reads a JSON array of catalog items. Items may omit an ID, but
// two items must not share one.
func LoadItemsFromFile(path string) ([]domain.Item, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read items file: %w", err)
	}

	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] != '[' {
		return nil, fmt.Errorf("items file %s: want a JSON array of items", path)
	}

	var items []domain.Item
	if err := json.Unmarshal(b, &items); err != nil {
		return nil, fmt.Errorf("unmarshal items: %w", err)
	}

	seen := make(map[string]int, len(items))
	for i, it := range items {
		if it.ID == "" {
			continue
		}
		if first, ok := seen[it.ID]; ok {
			return nil, fmt.Errorf("items file %s: id %q at positions %d and %d", path, it.ID, first, i)
		}
		seen[it.ID] = i
	}
	return items, nil
}
