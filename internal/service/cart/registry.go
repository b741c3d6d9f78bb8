package cart

import (
	"sync"

	"catshop/internal/domain"
)

// Registry holds the live carts: one shared guest cart for all anonymous
// callers, one cart per authenticated user. Carts live in process memory
// only; the registry is the single owner of every line.
type Registry struct {
	mu     sync.Mutex
	guest  []domain.CartItem
	byUser map[string][]domain.CartItem
}

func New() *Registry {
	return &Registry{
		byUser: make(map[string][]domain.CartItem),
	}
}

// AddInput mirrors the incoming cart item payload. Price is a pointer so a
// missing or non-numeric price is distinguishable from zero.
type AddInput struct {
	ID        string              `json:"id"`
	Name      string              `json:"name"`
	BasePrice float64             `json:"basePrice"`
	Price     *float64            `json:"price"`
	Quantity  int                 `json:"quantity"`
	Options   *domain.ItemOptions `json:"options"`
}

// Get returns a copy of the identity's current lines.
func (r *Registry) Get(id domain.Identity) []domain.CartItem {
	r.mu.Lock()
	defer r.mu.Unlock()
	return copyLines(r.lines(id))
}

// Add appends a line or, when a line with the same id and options already
// exists, increments its quantity. Quantity normalizes to 1 when absent or
// not positive.
func (r *Registry) Add(id domain.Identity, in AddInput) ([]domain.CartItem, error) {
	if in.ID == "" || in.Name == "" || in.Price == nil {
		return nil, domain.Validation("cart item requires id, name and a numeric price")
	}
	quantity := in.Quantity
	if quantity <= 0 {
		quantity = 1
	}
	item := domain.CartItem{
		ID:        in.ID,
		Name:      in.Name,
		BasePrice: in.BasePrice,
		Price:     *in.Price,
		Quantity:  quantity,
		Options:   in.Options,
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	items := r.lines(id)
	key := item.LineKey()
	merged := false
	for i := range items {
		if items[i].LineKey() == key {
			items[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		items = append(items, item)
	}
	r.setLines(id, items)
	return copyLines(items), nil
}

// SetQuantity replaces the quantity of every line with the given catalog id.
// Lookup is by id alone, not the compound line key. Lines ending up with a
// quantity of zero or less are dropped.
func (r *Registry) SetQuantity(id domain.Identity, itemID string, quantity *float64) ([]domain.CartItem, error) {
	if quantity == nil {
		return nil, domain.Validation("quantity must be a number")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	items := r.lines(id)
	updated := make([]domain.CartItem, 0, len(items))
	for _, item := range items {
		if item.ID == itemID {
			item.Quantity = int(*quantity)
		}
		if item.Quantity > 0 {
			updated = append(updated, item)
		}
	}
	r.setLines(id, updated)
	return copyLines(updated), nil
}

// Remove drops every line with the given catalog id.
func (r *Registry) Remove(id domain.Identity, itemID string) []domain.CartItem {
	r.mu.Lock()
	defer r.mu.Unlock()

	items := r.lines(id)
	updated := make([]domain.CartItem, 0, len(items))
	for _, item := range items {
		if item.ID != itemID {
			updated = append(updated, item)
		}
	}
	r.setLines(id, updated)
	return copyLines(updated)
}

// Clear empties the identity's cart.
func (r *Registry) Clear(id domain.Identity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.setLines(id, nil)
}

// MergeGuestInto moves the guest cart into the user's cart. Lines are
// appended verbatim, never deduplicated against existing lines, and the guest
// cart is emptied afterwards. A no-op when the guest cart is already empty,
// so repeated logins do not duplicate anything.
func (r *Registry) MergeGuestInto(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.guest) == 0 {
		return
	}
	r.byUser[userID] = append(r.byUser[userID], r.guest...)
	r.guest = nil
}

// Drop discards a user's cart. Used by the cascade delete.
func (r *Registry) Drop(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byUser, userID)
}

// lines and setLines must be called with the mutex held.
func (r *Registry) lines(id domain.Identity) []domain.CartItem {
	if userID, ok := id.UserID(); ok {
		return r.byUser[userID]
	}
	return r.guest
}

func (r *Registry) setLines(id domain.Identity, items []domain.CartItem) {
	if userID, ok := id.UserID(); ok {
		r.byUser[userID] = items
		return
	}
	r.guest = items
}

func copyLines(items []domain.CartItem) []domain.CartItem {
	out := make([]domain.CartItem, len(items))
	copy(out, items)
	return out
}
