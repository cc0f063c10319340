package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	infra "github.com/lbarbosa/fatura-tracker/internal/infra/bigquery"
	"github.com/lbarbosa/fatura-tracker/internal/logger"
)

// CategoryResolver finds or creates categories by exact name. Resolved names
// are cached for the lifetime of one run, so a category is looked up (and
// never inserted twice) no matter how many transactions share it. The store
// enforces no uniqueness, so concurrent runs can still race; a single
// process cannot.
type CategoryResolver struct {
	store Store
	cache map[string]string // name -> category_id
}

// NewCategoryResolver creates a resolver writing through the given store.
func NewCategoryResolver(store Store) *CategoryResolver {
	return &CategoryResolver{
		store: store,
		cache: make(map[string]string),
	}
}

// Resolve returns the category ID for name, creating the category when no
// row with that exact name exists. A lookup fault degrades to attempting
// creation; only a failed insert is returned as an error.
func (r *CategoryResolver) Resolve(ctx context.Context, name string) (string, error) {
	if id, ok := r.cache[name]; ok {
		return id, nil
	}

	log := logger.FromContext(ctx)

	row, err := r.store.FindCategoryByName(ctx, name)
	if err != nil {
		log.Warn().Err(err).Str("category", name).Msg("category lookup failed; attempting creation")
	} else if row != nil {
		log.Info().Str("category", name).Msg("found existing category")
		r.cache[name] = row.CategoryID
		return row.CategoryID, nil
	}

	newRow := &infra.CategoryRow{
		CategoryID: uuid.NewString(),
		Name:       name,
		CreatedTS:  time.Now().UTC(),
	}
	if err := r.store.InsertCategory(ctx, newRow); err != nil {
		return "", fmt.Errorf("Resolve: creating category %q: %w", name, err)
	}

	log.Info().Str("category", name).Msg("created new category")
	r.cache[name] = newRow.CategoryID
	return newRow.CategoryID, nil
}
