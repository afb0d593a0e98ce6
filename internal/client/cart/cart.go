// Package cart implements the line-item rules of the shopping cart.
// A Cart is not safe for concurrent use; the shop serializes access.
package cart

import (
	"errors"
	"math"

	"github.com/shopspring/decimal"

	"fashionhub/internal/client/catalog"
)

// ErrInvalidQuantity is returned for a quantity below one or one that
// would overflow when added to an existing entry.
var ErrInvalidQuantity = errors.New("quantity must be positive")

// sum adds two positive quantities, failing instead of wrapping.
func sum(a, b int) (int, bool) {
	if b > math.MaxInt-a {
		return 0, false
	}
	return a + b, true
}

// Item is a product in a chosen size. (ID, SelectedSize) is unique within a cart.
type Item struct {
	catalog.Product
	Quantity     int    `json:"quantity"`
	SelectedSize string `json:"selectedSize"`
}

// Subtotal is price times quantity.
func (i Item) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart is an insertion-ordered list of items.
type Cart struct {
	items []Item
}

// New builds a cart from persisted items. Entries with a non-positive
// quantity are dropped and duplicate (id, size) entries are merged into
// the first one, saturating at math.MaxInt.
func New(items []Item) *Cart {
	c := &Cart{items: make([]Item, 0, len(items))}
	for _, it := range items {
		if it.Quantity <= 0 {
			continue
		}
		if i := c.index(it.ID, it.SelectedSize); i >= 0 {
			q, ok := sum(c.items[i].Quantity, it.Quantity)
			if !ok {
				q = math.MaxInt
			}
			c.items[i].Quantity = q
			continue
		}
		c.items = append(c.items, it)
	}
	return c
}

func (c *Cart) index(productID, size string) int {
	for i := range c.items {
		if c.items[i].ID == productID && c.items[i].SelectedSize == size {
			return i
		}
	}
	return -1
}

// Add puts quantity units of product in size into the cart, increasing an
// existing entry when there is one.
func (c *Cart) Add(product catalog.Product, size string, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if i := c.index(product.ID, size); i >= 0 {
		q, ok := sum(c.items[i].Quantity, quantity)
		if !ok {
			return ErrInvalidQuantity
		}
		c.items[i].Quantity = q
		return nil
	}
	c.items = append(c.items, Item{Product: product, Quantity: quantity, SelectedSize: size})
	return nil
}

// Remove deletes the entry for (productID, size) if present.
func (c *Cart) Remove(productID, size string) {
	if i := c.index(productID, size); i >= 0 {
		c.items = append(c.items[:i], c.items[i+1:]...)
	}
}

// SetQuantity replaces an entry's quantity. A quantity <= 0 removes it.
// Absent entries are left alone.
func (c *Cart) SetQuantity(productID, size string, quantity int) {
	i := c.index(productID, size)
	if i < 0 {
		return
	}
	if quantity <= 0 {
		c.Remove(productID, size)
		return
	}
	c.items[i].Quantity = quantity
}

// ChangeSize moves an entry to newSize. If the product is already in the
// cart in newSize, that entry absorbs the quantity and the old one goes away.
// A merge that would overflow fails with ErrInvalidQuantity and changes nothing.
func (c *Cart) ChangeSize(productID, oldSize, newSize string) error {
	if oldSize == newSize {
		return nil
	}
	src := c.index(productID, oldSize)
	if src < 0 {
		return nil
	}
	if dst := c.index(productID, newSize); dst >= 0 {
		q, ok := sum(c.items[dst].Quantity, c.items[src].Quantity)
		if !ok {
			return ErrInvalidQuantity
		}
		c.items[dst].Quantity = q
		c.items = append(c.items[:src], c.items[src+1:]...)
		return nil
	}
	c.items[src].SelectedSize = newSize
	return nil
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.items = c.items[:0]
}

// TotalPrice sums price times quantity over all entries.
func (c *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.items {
		total = total.Add(it.Subtotal())
	}
	return total
}

// Items returns a copy of the entries in insertion order.
func (c *Cart) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// Len is the number of distinct entries.
func (c *Cart) Len() int {
	return len(c.items)
}

// Quantity is the total number of units across entries, saturating at math.MaxInt.
func (c *Cart) Quantity() int {
	n := 0
	for _, it := range c.items {
		var ok bool
		if n, ok = sum(n, it.Quantity); !ok {
			return math.MaxInt
		}
	}
	return n
}
