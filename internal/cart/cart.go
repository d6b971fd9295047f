// Package cart holds the customer's in-progress selection of menu items.
// The cart is owned by a single client session and is independent of server
// state until checkout; every mutation recomputes the derived totals from the
// item list and persists the list to local storage best-effort.
package cart

import (
	"github.com/sirupsen/logrus"
)

// Item is one cart line. Price is the client-side numeric price; quantity is
// always at least 1 while the item is in the cart.
type Item struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	Image       string  `json:"image"`
	Category    string  `json:"category"`
	Description string  `json:"description,omitempty"`
}

// State is the cart contents plus derived aggregates. TotalItems and
// TotalAmount are always recomputed from Items, never patched incrementally.
type State struct {
	Items       []Item  `json:"items"`
	TotalItems  int     `json:"total_items"`
	TotalAmount float64 `json:"total_amount"`
}

// Cart is the session-scoped store behind the mutation interface. It is not
// safe for concurrent use; a cart belongs to exactly one session.
type Cart struct {
	items   []Item
	storage Storage
}

// New returns a cart initialized from storage. Unreadable or malformed
// stored data degrades to an empty cart.
func New(storage Storage) *Cart {
	c := &Cart{storage: storage}

	if storage != nil {
		items, err := storage.Load()
		if err != nil {
			logrus.WithError(err).Warn("failed to load cart from storage")
		} else {
			c.items = sanitize(items)
		}
	}

	return c
}

// AddItem puts one unit of the item in the cart. If the id is already
// present its quantity is incremented instead of a duplicate entry being
// appended. The Quantity field of the argument is ignored.
func (c *Cart) AddItem(item Item) State {
	for i := range c.items {
		if c.items[i].ID == item.ID {
			c.items[i].Quantity++
			return c.commit()
		}
	}

	item.Quantity = 1
	c.items = append(c.items, item)
	return c.commit()
}

// RemoveItem drops the entry with the given id. Removing an absent id is a
// no-op, not an error.
func (c *Cart) RemoveItem(id string) State {
	filtered := c.items[:0]
	for _, item := range c.items {
		if item.ID != id {
			filtered = append(filtered, item)
		}
	}
	c.items = filtered
	return c.commit()
}

// UpdateQuantity sets the quantity for an existing entry. A quantity of zero
// or less removes the entry; an absent id is a no-op (an update never creates
// an entry).
func (c *Cart) UpdateQuantity(id string, quantity int) State {
	if quantity <= 0 {
		return c.RemoveItem(id)
	}

	for i := range c.items {
		if c.items[i].ID == id {
			c.items[i].Quantity = quantity
			break
		}
	}
	return c.commit()
}

// Clear resets the cart to the empty state.
func (c *Cart) Clear() State {
	c.items = nil
	return c.commit()
}

// LoadFromStorage replaces the entire item collection. It does not merge
// with the existing state.
func (c *Cart) LoadFromStorage(items []Item) State {
	c.items = sanitize(items)
	return c.commit()
}

// State returns the current contents with freshly computed totals.
func (c *Cart) State() State {
	items := make([]Item, len(c.items))
	copy(items, c.items)

	state := State{Items: items}
	for _, item := range items {
		state.TotalItems += item.Quantity
		state.TotalAmount += item.Price * float64(item.Quantity)
	}
	return state
}

// commit persists the item list and returns the new state. Persistence is
// fire-and-forget: a failed save is logged and never surfaced.
func (c *Cart) commit() State {
	if c.storage != nil {
		if err := c.storage.Save(c.items); err != nil {
			logrus.WithError(err).Warn("failed to save cart to storage")
		}
	}
	return c.State()
}

// sanitize drops entries that could not have been produced by the mutation
// interface, so a tampered storage payload cannot violate cart invariants.
func sanitize(items []Item) []Item {
	var clean []Item
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		if item.ID == "" || item.Quantity < 1 || seen[item.ID] {
			continue
		}
		seen[item.ID] = true
		clean = append(clean, item)
	}
	return clean
}
