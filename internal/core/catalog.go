package core

import (
	"fmt"
	"strconv"
)

// Catalog is the ordered set of grocery items keyed by id. Items keep
// their load/insertion order so that a rewrite does not shuffle the file.
type Catalog struct {
	items []GroceryItem
	index map[string]int
}

func NewCatalog(items ...GroceryItem) *Catalog {
	c := &Catalog{index: make(map[string]int, len(items))}
	for _, it := range items {
		_ = c.Add(it)
	}
	return c
}

// Get returns the item with the given id.
func (c *Catalog) Get(id string) (GroceryItem, bool) {
	i, ok := c.index[id]
	if !ok {
		return GroceryItem{}, false
	}
	return c.items[i], true
}

// Add inserts a new item. The id must not exist yet.
func (c *Catalog) Add(it GroceryItem) error {
	if err := it.Validate(); err != nil {
		return err
	}
	if c.index == nil {
		c.index = make(map[string]int)
	}
	if _, ok := c.index[it.ID]; ok {
		return fmt.Errorf("%w: duplicate id %q", ErrMalformedRow, it.ID)
	}
	c.index[it.ID] = len(c.items)
	c.items = append(c.items, it)
	return nil
}

// Update replaces an existing item in place.
func (c *Catalog) Update(it GroceryItem) error {
	i, ok := c.index[it.ID]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownProduct, it.ID)
	}
	if err := it.Validate(); err != nil {
		return err
	}
	c.items[i] = it
	return nil
}

// Items returns a copy of the items in insertion order.
func (c *Catalog) Items() []GroceryItem {
	return append([]GroceryItem(nil), c.items...)
}

func (c *Catalog) Len() int {
	return len(c.items)
}

// Name returns the item name or "" for an unknown id.
func (c *Catalog) Name(id string) string {
	it, _ := c.Get(id)
	return it.Name
}

// NextID returns one past the highest numeric id. Non-numeric ids are
// ignored; the result is checked against the index so it never collides.
func (c *Catalog) NextID() string {
	next := len(c.items) + 1
	for _, it := range c.items {
		if n, err := strconv.Atoi(it.ID); err == nil && n >= next {
			next = n + 1
		}
	}
	for {
		id := strconv.Itoa(next)
		if _, ok := c.index[id]; !ok {
			return id
		}
		next++
	}
}

// Clone returns an independent copy.
func (c *Catalog) Clone() *Catalog {
	return NewCatalog(c.items...)
}
