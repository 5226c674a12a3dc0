package services

import (
	"Folio/internal/config"
	"Folio/internal/repository"
	"context"
	"fmt"
	"slices"
	"strings"
)

// CategoryCatalog is the list of known categories, fixed when the server
// starts. It merges configured categories with those already in use.
type CategoryCatalog struct {
	categories []string
}

func NewCategoryCatalog(configuration *config.Configuration, nodeRepository repository.NodeRepository) (*CategoryCatalog, error) {
	stored, err := nodeRepository.DistinctCategories(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	return NewStaticCategoryCatalog(append(slices.Clone(configuration.Categories), stored...)...), nil
}

// NewStaticCategoryCatalog builds a catalog from a fixed list.
func NewStaticCategoryCatalog(categories ...string) *CategoryCatalog {
	merged := make([]string, 0, len(categories))
	for _, category := range categories {
		if c := strings.TrimSpace(category); c != "" {
			merged = append(merged, c)
		}
	}
	slices.Sort(merged)
	return &CategoryCatalog{categories: slices.Compact(merged)}
}

// All returns a copy; callers may modify it freely.
func (c *CategoryCatalog) All() []string {
	return append([]string{}, c.categories...)
}
