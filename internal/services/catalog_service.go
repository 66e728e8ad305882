package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"grocer/internal/core"
	"grocer/internal/store"
)

// ItemEdit holds the fields to change; nil keeps the current value.
type ItemEdit struct {
	Name  *string
	Price *decimal.Decimal
	Stock *int
}

// CatalogService adds and edits grocery items. Every change is saved
// before it becomes visible in the session state.
type CatalogService struct {
	store store.CatalogStore
}

func NewCatalogService(s store.CatalogStore) *CatalogService {
	return &CatalogService{store: s}
}

// AddItem creates an item with the next free numeric id.
func (s *CatalogService) AddItem(ctx context.Context, st *State, name string, price decimal.Decimal, stock int) (core.GroceryItem, error) {
	updated := st.Catalog.Clone()
	it := core.GroceryItem{
		ID:    updated.NextID(),
		Name:  strings.TrimSpace(name),
		Price: price,
		Stock: stock,
	}
	if err := updated.Add(it); err != nil {
		return core.GroceryItem{}, err
	}
	if err := s.store.SaveCatalog(ctx, updated); err != nil {
		return core.GroceryItem{}, fmt.Errorf("save catalog: %w", err)
	}
	st.Catalog = updated

	slog.InfoContext(ctx, "Grocery item added", "id", it.ID, "name", it.Name, "price", it.Price.String(), "stock", it.Stock)
	return it, nil
}

// EditItem applies edit to an existing item.
func (s *CatalogService) EditItem(ctx context.Context, st *State, id string, edit ItemEdit) (core.GroceryItem, error) {
	it, ok := st.Catalog.Get(id)
	if !ok {
		return core.GroceryItem{}, fmt.Errorf("%w: %q", core.ErrUnknownProduct, id)
	}
	if edit.Name != nil {
		it.Name = strings.TrimSpace(*edit.Name)
	}
	if edit.Price != nil {
		it.Price = *edit.Price
	}
	if edit.Stock != nil {
		it.Stock = *edit.Stock
	}

	updated := st.Catalog.Clone()
	if err := updated.Update(it); err != nil {
		return core.GroceryItem{}, err
	}
	if err := s.store.SaveCatalog(ctx, updated); err != nil {
		return core.GroceryItem{}, fmt.Errorf("save catalog: %w", err)
	}
	st.Catalog = updated

	slog.InfoContext(ctx, "Grocery item updated", "id", it.ID, "name", it.Name, "price", it.Price.String(), "stock", it.Stock)
	return it, nil
}
