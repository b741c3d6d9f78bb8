package store

import (
	"fmt"
	"strconv"
	"strings"

	"catshop/internal/domain"
)

// Document is the full persisted state. It is read as a whole before every
// access and rewritten as a whole after every mutation.
type Document struct {
	Cats   []domain.Cat   `json:"cats"`
	Users  []domain.User  `json:"users"`
	Orders []domain.Order `json:"orders"`
}

func (d *Document) normalize() {
	if d.Cats == nil {
		d.Cats = []domain.Cat{}
	}
	if d.Users == nil {
		d.Users = []domain.User{}
	}
	if d.Orders == nil {
		d.Orders = []domain.Order{}
	}
}

// NextUserID allocates the next user id from the surviving records.
func NextUserID(users []domain.User) string {
	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	return nextID("user-", ids)
}

// NextOrderID allocates the next order id from the surviving records.
func NextOrderID(orders []domain.Order) string {
	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	return nextID("order-", ids)
}

// nextID scans for the largest numeric suffix and returns prefix+(max+1).
// There is no persistent counter: deleting the highest-numbered record makes
// its number available again.
func nextID(prefix string, ids []string) string {
	max := 0
	for _, id := range ids {
		n, ok := numericSuffix(prefix, id)
		if ok && n > max {
			max = n
		}
	}
	return fmt.Sprintf("%s%d", prefix, max+1)
}

func numericSuffix(prefix, id string) (int, bool) {
	if !strings.HasPrefix(id, prefix) {
		return 0, false
	}
	n, err := strconv.Atoi(id[len(prefix):])
	if err != nil {
		return 0, false
	}
	return n, true
}
