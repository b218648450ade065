package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrEntryNotFound  = errors.New("cart entry not found")
	ErrDuplicateEntry = errors.New("cart already holds an entry for this product")
	ErrStockExceeded  = errors.New("requested quantity exceeds stock")
)

// Entry is a product held in the cart together with its quantity.
type Entry struct {
	Product
	Amount int `json:"amount"`
}

// NewEntry validates and constructs a cart entry.
func NewEntry(product Product, amount int) (Entry, error) {
	entry := Entry{Product: product, Amount: amount}
	if err := entry.Validate(); err != nil {
		return Entry{}, err
	}
	return entry, nil
}

// Validate enforces invariants on a single entry.
func (e Entry) Validate() error {
	if err := e.Product.Validate(); err != nil {
		return err
	}
	if e.Amount <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Subtotal is the unit price times the amount held.
func (e Entry) Subtotal() float64 {
	return e.Price * float64(e.Amount)
}

// Cart is an immutable, insertion-ordered snapshot of entries. Every mutator
// returns a new *Cart and leaves the receiver untouched, so a published
// snapshot can be shared freely. A nil *Cart behaves as an empty cart.
type Cart struct {
	entries []Entry
}

// EmptyCart returns a cart with no entries.
func EmptyCart() *Cart {
	return &Cart{}
}

// NewCart builds a snapshot from entries, rejecting invalid amounts and
// duplicate product identifiers.
func NewCart(entries ...Entry) (*Cart, error) {
	seen := make(map[int64]struct{}, len(entries))
	copied := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		if err := entry.Validate(); err != nil {
			return nil, fmt.Errorf("entry %d: %w", entry.ID, err)
		}
		if _, dup := seen[entry.ID]; dup {
			return nil, fmt.Errorf("entry %d: %w", entry.ID, ErrDuplicateEntry)
		}
		seen[entry.ID] = struct{}{}
		copied = append(copied, entry)
	}
	return &Cart{entries: copied}, nil
}

// Entries returns a copy of the entries in insertion order.
func (c *Cart) Entries() []Entry {
	if c == nil {
		return []Entry{}
	}
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Len reports the number of entries.
func (c *Cart) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// Find looks up the entry for productID.
func (c *Cart) Find(productID int64) (Entry, bool) {
	if i := c.indexOf(productID); i >= 0 {
		return c.entries[i], true
	}
	return Entry{}, false
}

// AmountOf returns the quantity held for productID, or 0 when absent.
func (c *Cart) AmountOf(productID int64) int {
	entry, ok := c.Find(productID)
	if !ok {
		return 0
	}
	return entry.Amount
}

// Amounts folds the cart into a product id -> amount mapping.
func (c *Cart) Amounts() map[int64]int {
	amounts := make(map[int64]int, c.Len())
	for _, entry := range c.Entries() {
		amounts[entry.ID] = entry.Amount
	}
	return amounts
}

// Total sums every entry subtotal.
func (c *Cart) Total() float64 {
	var total float64
	for _, entry := range c.Entries() {
		total += entry.Subtotal()
	}
	return total
}

// WithEntry appends a new entry.
func (c *Cart) WithEntry(entry Entry) (*Cart, error) {
	if err := entry.Validate(); err != nil {
		return nil, err
	}
	if c.indexOf(entry.ID) >= 0 {
		return nil, ErrDuplicateEntry
	}
	next := append(c.Entries(), entry)
	return &Cart{entries: next}, nil
}

// WithAmount sets the quantity of an existing entry.
func (c *Cart) WithAmount(productID int64, amount int) (*Cart, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	i := c.indexOf(productID)
	if i < 0 {
		return nil, ErrEntryNotFound
	}
	next := c.Entries()
	next[i].Amount = amount
	return &Cart{entries: next}, nil
}

// Without drops the entry for productID.
func (c *Cart) Without(productID int64) (*Cart, error) {
	i := c.indexOf(productID)
	if i < 0 {
		return nil, ErrEntryNotFound
	}
	current := c.Entries()
	next := make([]Entry, 0, len(current)-1)
	next = append(next, current[:i]...)
	next = append(next, current[i+1:]...)
	return &Cart{entries: next}, nil
}

// MarshalJSON encodes the cart as the persisted array of entries.
func (c *Cart) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Entries())
}

// DecodeCart rebuilds a snapshot from its persisted JSON form. Malformed
// payloads and payloads violating cart invariants are rejected.
func DecodeCart(data []byte) (*Cart, error) {
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	return NewCart(entries...)
}

func (c *Cart) indexOf(productID int64) int {
	if c == nil {
		return -1
	}
	for i, entry := range c.entries {
		if entry.ID == productID {
			return i
		}
	}
	return -1
}
