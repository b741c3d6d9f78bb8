package seed

import "catshop/internal/domain"

// Cats returns the bootstrap catalog. Applied only when the persisted
// document has no cats, so a hand-edited catalog survives restarts.
func Cats() []domain.Cat {
	return []domain.Cat{
		{
			ID:          "cat-1",
			Name:        "Margherita",
			Price:       3500,
			Description: "A classic gentle cat for cozy evenings.",
			ImageURL:    "/static/1.jpg",
		},
		{
			ID:          "cat-2",
			Name:        "Pepperoni",
			Price:       4200,
			Description: "A very active cat, always on the move.",
			ImageURL:    "/static/2.jpg",
		},
		{
			ID:          "cat-3",
			Name:        "Four Cheese",
			Price:       5100,
			Description: "Soft, fluffy and extremely huggable.",
			ImageURL:    "/static/3.jpg",
		},
		{
			ID:          "cat-4",
			Name:        "Ham & Mushrooms",
			Price:       3900,
			Description: "A playful cat that loves games and company.",
			ImageURL:    "/static/4.jpg",
		},
		{
			ID:          "cat-5",
			Name:        "Barbecue",
			Price:       4400,
			Description: "A cat with a strong character, but very loyal.",
			ImageURL:    "/static/5.jpg",
		},
		{
			ID:          "cat-6",
			Name:        "Hawaiian",
			Price:       3800,
			Description: "A sunny, friendly cat that loves attention.",
			ImageURL:    "/static/6.jpg",
		},
		{
			ID:          "cat-7",
			Name:        "Meat Feast",
			Price:       4600,
			Description: "A big cat that loves to eat and sleep in.",
			ImageURL:    "/static/7.jpg",
		},
		{
			ID:          "cat-8",
			Name:        "Diablo",
			Price:       4700,
			Description: "A high-energy cat, ideal for active owners.",
			ImageURL:    "/static/8.jpg",
		},
		{
			ID:          "cat-9",
			Name:        "Four Seasons",
			Price:       4300,
			Description: "A versatile cat that fits any mood.",
			ImageURL:    "/static/9.jpg",
		},
	}
}
