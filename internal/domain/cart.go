package domain

import "encoding/json"

// ItemOptions captures the configurable options of a cart line.
type ItemOptions struct {
	FurType       string   `json:"furType,omitempty"`
	ActivityLevel string   `json:"activityLevel,omitempty"`
	Extras        []string `json:"extras,omitempty"`
}

// CartItem is one line in a cart.
type CartItem struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	BasePrice float64      `json:"basePrice,omitempty"`
	Price     float64      `json:"price"`
	Quantity  int          `json:"quantity"`
	Options   *ItemOptions `json:"options,omitempty"`
}

// LineKey identifies a cart line. Two items with the same catalog id but
// different options are distinct lines; identical keys merge by quantity.
func (i CartItem) LineKey() string {
	return i.ID + "__" + i.Options.canonical()
}

// canonical is the serialized form of the options, empty when absent.
func (o *ItemOptions) canonical() string {
	if o == nil {
		return ""
	}
	raw, err := json.Marshal(o)
	if err != nil {
		return ""
	}
	return string(raw)
}
