package domain

// Cat is a purchasable catalog item. Seeded at startup, never mutated.
type Cat struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	ImageURL    string  `json:"imageUrl"`
}
