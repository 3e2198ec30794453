package model

// Category groups products as returned by the catalog API.
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Product is a catalog entry. A product can be sold by the bag, by the
// kilo, or both; prices that do not apply are nil.
type Product struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	Price        *float64  `json:"price,omitempty"`
	Stock        int       `json:"stock,omitempty"`
	Category     *Category `json:"category,omitempty"`
	Image        string    `json:"image,omitempty"`
	PricePerBag  *float64  `json:"pricePerBag,omitempty"`
	PricePerKilo *float64  `json:"pricePerKilo,omitempty"`
}

// PriceFor returns the unit price for the given mode, or nil when the
// product has no price in that mode. Bag pricing falls back to the plain
// price field when pricePerBag is not set.
func (p Product) PriceFor(mode PriceMode) *float64 {
	switch mode {
	case PerBag:
		if p.PricePerBag != nil {
			return p.PricePerBag
		}
		return p.Price
	case PerKilo:
		return p.PricePerKilo
	}
	return nil
}

// PriceMode selects which of a product's unit prices a line item uses.
type PriceMode string

const (
	PerBag  PriceMode = "bolsa"
	PerKilo PriceMode = "kilo"
)

// Valid reports whether m is one of the known price modes.
func (m PriceMode) Valid() bool {
	return m == PerBag || m == PerKilo
}

// Label returns the display label used in the handoff message.
func (m PriceMode) Label() string {
	if m == PerKilo {
		return "Kilo"
	}
	return "Bolsa"
}

// LineItem is one product at one price mode with a quantity. Two line
// items with the same product but different price modes are distinct.
type LineItem struct {
	Product   Product   `json:"product"`
	Quantity  int       `json:"quantity"`
	PriceMode PriceMode `json:"price_type"`
}

// Subtotal is the line's selected unit price times its quantity. A line
// whose selected price is absent contributes 0.
func (li LineItem) Subtotal() float64 {
	price := li.Product.PriceFor(li.PriceMode)
	if price == nil {
		return 0
	}
	return *price * float64(li.Quantity)
}

// ImportSummary is the result of a bulk product upload.
type ImportSummary struct {
	Created int      `json:"created"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors,omitempty"`
}
