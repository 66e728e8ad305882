package csvfile

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"grocer/internal/core"
)

type itemRow struct {
	ID    string `csv:"id"`
	Name  string `csv:"name"`
	Price string `csv:"price"`
	Stock string `csv:"stock"`
}

// CatalogFile stores grocery items as id,name,price,stock.
type CatalogFile struct {
	Path string
}

func NewCatalogFile(path string) *CatalogFile {
	return &CatalogFile{Path: path}
}

// LoadCatalog implements store.CatalogStore
func (s *CatalogFile) LoadCatalog(_ context.Context) (*core.Catalog, []core.RowIssue, error) {
	var rows []*itemRow
	issues, err := readRows(s.Path, &rows)
	if err != nil {
		return nil, nil, err
	}

	catalog := core.NewCatalog()
	for i, r := range rows {
		it, err := r.toItem()
		if err == nil {
			err = catalog.Add(it)
		}
		if err != nil {
			issues = append(issues, malformed(s.Path, i+1, err.Error()))
		}
	}
	return catalog, issues, nil
}

// SaveCatalog implements store.CatalogStore
func (s *CatalogFile) SaveCatalog(ctx context.Context, c *core.Catalog) error {
	items := c.Items()
	rows := make([]*itemRow, 0, len(items))
	for _, it := range items {
		rows = append(rows, &itemRow{
			ID:    it.ID,
			Name:  it.Name,
			Price: it.Price.String(),
			Stock: strconv.Itoa(it.Stock),
		})
	}
	if err := writeAtomic(s.Path, &rows); err != nil {
		return fmt.Errorf("save catalog: %w", err)
	}
	slog.DebugContext(ctx, "Catalog saved", "path", s.Path, "items", len(rows))
	return nil
}

func (r *itemRow) toItem() (core.GroceryItem, error) {
	price, err := core.ParsePrice(r.Price)
	if err != nil {
		return core.GroceryItem{}, err
	}
	stock, err := strconv.Atoi(strings.TrimSpace(r.Stock))
	if err != nil {
		return core.GroceryItem{}, fmt.Errorf("%w: %q", core.ErrInvalidStock, r.Stock)
	}
	it := core.GroceryItem{
		ID:    strings.TrimSpace(r.ID),
		Name:  strings.TrimSpace(r.Name),
		Price: price,
		Stock: stock,
	}
	return it, it.Validate()
}
