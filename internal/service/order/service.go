package order

import (
	"context"
	"fmt"
	"log"
	"time"

	"catshop/internal/domain"
	"catshop/internal/store"
)

type documentStore interface {
	Load() (store.Document, error)
	Update(fn func(*store.Document) error) error
}

type cartRegistry interface {
	Get(id domain.Identity) []domain.CartItem
	Clear(id domain.Identity)
}

// Service is the order ledger: orders are derived from carts at checkout,
// appended to the document and never mutated afterwards.
type Service struct {
	store  documentStore
	carts  cartRegistry
	logger *log.Logger
}

func New(st documentStore, carts cartRegistry, logger *log.Logger) *Service {
	return &Service{store: st, carts: carts, logger: logger}
}

// CreateInput captures the checkout payload. Explicit items, when present,
// win over the caller's cart.
type CreateInput struct {
	Items    []domain.CartItem   `json:"items"`
	Customer *domain.AddressInfo `json:"customer"`
}

// Create finalizes an order for the identity. The total is computed once
// here; a missing price counts as 0 and a missing quantity as 1. The cart is
// cleared only after the order has been persisted.
func (s *Service) Create(ctx context.Context, id domain.Identity, in CreateInput) (*domain.Order, error) {
	items := in.Items
	if len(items) == 0 {
		items = s.carts.Get(id)
	}
	if len(items) == 0 {
		return nil, domain.Validation("cannot create an order from an empty cart")
	}

	var total float64
	for _, item := range items {
		quantity := item.Quantity
		if quantity == 0 {
			quantity = 1
		}
		total += item.Price * float64(quantity)
	}

	var userID *string
	if uid, ok := id.UserID(); ok {
		userID = &uid
	}

	var order domain.Order
	err := s.store.Update(func(doc *store.Document) error {
		order = domain.Order{
			ID:         store.NextOrderID(doc.Orders),
			UserID:     userID,
			Items:      items,
			TotalPrice: total,
			Customer:   in.Customer,
			CreatedAt:  time.Now().UTC(),
		}
		doc.Orders = append(doc.Orders, order)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("persist order: %w", err)
	}

	s.carts.Clear(id)
	return &order, nil
}

// List returns the identity's orders. Anonymous callers share the single
// list of orders without a user id.
func (s *Service) List(ctx context.Context, id domain.Identity) ([]domain.Order, error) {
	doc, err := s.store.Load()
	if err != nil {
		return nil, err
	}

	userID, authenticated := id.UserID()
	orders := make([]domain.Order, 0)
	for _, o := range doc.Orders {
		switch {
		case authenticated:
			if o.UserID != nil && *o.UserID == userID {
				orders = append(orders, o)
			}
		default:
			if o.UserID == nil {
				orders = append(orders, o)
			}
		}
	}
	return orders, nil
}

// DeleteByEmail removes all orders belonging to the user with that email and
// reports how many were dropped.
func (s *Service) DeleteByEmail(ctx context.Context, email string) (int, error) {
	if email == "" {
		return 0, domain.Validation("email is required")
	}

	deleted := 0
	err := s.store.Update(func(doc *store.Document) error {
		var userID string
		for _, u := range doc.Users {
			if u.Email == email {
				userID = u.ID
				break
			}
		}
		if userID == "" {
			return fmt.Errorf("user %s: %w", email, domain.ErrNotFound)
		}

		orders := doc.Orders[:0]
		for _, o := range doc.Orders {
			if o.UserID == nil || *o.UserID != userID {
				orders = append(orders, o)
			}
		}
		deleted = len(doc.Orders) - len(orders)
		doc.Orders = orders
		return nil
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}
