package identity

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"catshop/internal/domain"
	"catshop/internal/store"
)

type documentStore interface {
	Load() (store.Document, error)
	Update(fn func(*store.Document) error) error
}

// CartMerger is the slice of the cart registry the identity flows need:
// the one-shot guest merge at login and the cascade-delete drop.
type CartMerger interface {
	MergeGuestInto(userID string)
	Drop(userID string)
}

// Service owns user records and the in-memory session token table. Tokens
// are opaque, live only for the process lifetime, and several may map to the
// same user.
type Service struct {
	store  documentStore
	carts  CartMerger
	logger *log.Logger

	mu     sync.RWMutex
	tokens map[string]string // token -> user id
}

func New(st documentStore, carts CartMerger, logger *log.Logger) *Service {
	return &Service{
		store:  st,
		carts:  carts,
		logger: logger,
		tokens: make(map[string]string),
	}
}

// RegisterInput captures the fields expected by the register endpoint.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a user. Email uniqueness is case-sensitive equality.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*domain.PublicUser, error) {
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return nil, domain.Validation("name, email and password are required")
	}

	var created domain.User
	err := s.store.Update(func(doc *store.Document) error {
		for _, u := range doc.Users {
			if u.Email == in.Email {
				return fmt.Errorf("user %s: %w", in.Email, domain.ErrAlreadyExists)
			}
		}
		created = domain.User{
			ID:       store.NextUserID(doc.Users),
			Name:     in.Name,
			Email:    in.Email,
			Password: in.Password,
		}
		doc.Users = append(doc.Users, created)
		return nil
	})
	if err != nil {
		return nil, err
	}

	pub := created.Public()
	return &pub, nil
}

// Login validates credentials, performs the guest-cart merge and issues a
// fresh token bound to the user.
func (s *Service) Login(ctx context.Context, email, password string) (string, *domain.PublicUser, error) {
	if email == "" || password == "" {
		return "", nil, domain.Validation("email and password are required")
	}

	doc, err := s.store.Load()
	if err != nil {
		return "", nil, err
	}

	var user *domain.User
	for i := range doc.Users {
		if doc.Users[i].Email == email && doc.Users[i].Password == password {
			user = &doc.Users[i]
			break
		}
	}
	if user == nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	s.carts.MergeGuestInto(user.ID)

	token, err := randomToken()
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	s.mu.Lock()
	s.tokens[token] = user.ID
	s.mu.Unlock()

	pub := user.Public()
	return token, &pub, nil
}

// Resolve maps an Authorization header to an identity. Anything missing,
// malformed or unknown resolves to the anonymous identity; it never fails.
func (s *Service) Resolve(authorization string) domain.Identity {
	const prefix = "Bearer "
	if !strings.HasPrefix(authorization, prefix) {
		return domain.Anonymous
	}
	token := strings.TrimSpace(authorization[len(prefix):])

	s.mu.RLock()
	userID, ok := s.tokens[token]
	s.mu.RUnlock()
	if !ok {
		return domain.Anonymous
	}
	return domain.UserIdentity(userID)
}

// DeleteResult reports what a cascade delete removed.
type DeleteResult struct {
	Users  int `json:"deletedUsersCount"`
	Orders int `json:"deletedOrdersCount"`
}

// DeleteUserByEmail removes the user together with their orders, then
// revokes their tokens and drops their in-memory cart.
func (s *Service) DeleteUserByEmail(ctx context.Context, email string) (DeleteResult, error) {
	if email == "" {
		return DeleteResult{}, domain.Validation("email is required")
	}

	var res DeleteResult
	var userID string
	err := s.store.Update(func(doc *store.Document) error {
		idx := -1
		for i, u := range doc.Users {
			if u.Email == email {
				idx = i
				break
			}
		}
		if idx < 0 {
			return fmt.Errorf("user %s: %w", email, domain.ErrNotFound)
		}
		userID = doc.Users[idx].ID

		users := doc.Users[:0]
		for _, u := range doc.Users {
			if u.ID != userID {
				users = append(users, u)
			}
		}
		res.Users = len(doc.Users) - len(users)
		doc.Users = users

		orders := doc.Orders[:0]
		for _, o := range doc.Orders {
			if o.UserID == nil || *o.UserID != userID {
				orders = append(orders, o)
			}
		}
		res.Orders = len(doc.Orders) - len(orders)
		doc.Orders = orders
		return nil
	})
	if err != nil {
		return DeleteResult{}, err
	}

	s.revokeAll(userID)
	s.carts.Drop(userID)
	return res, nil
}

func (s *Service) revokeAll(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for token, id := range s.tokens {
		if id == userID {
			delete(s.tokens, token)
		}
	}
}
