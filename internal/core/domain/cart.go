package domain

// Product is the catalog view a cart line is built from.
type Product struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Author        string   `json:"author"`
	Price         float64  `json:"price"`
	Images        []string `json:"images,omitempty"`
	VendorName    string   `json:"vendor_name,omitempty"`
	StockQuantity int      `json:"stock_quantity"`
}

// CartLine is one product's quantity entry within a cart. The JSON shape is
// shared between durable storage and the cart service wire format.
//
// Invariant: 1 <= Quantity <= StockQuantity after every applied mutation.
// ProductID is unique within a cart's line set.
type CartLine struct {
	LineID        string  `json:"id"`
	ProductID     string  `json:"product_id"`
	Name          string  `json:"name"`
	Author        string  `json:"author"`
	Price         float64 `json:"price"`
	Quantity      int     `json:"quantity"`
	Image         string  `json:"image,omitempty"`
	VendorName    string  `json:"vendor_name"`
	StockQuantity int     `json:"stock_quantity"`
}

// Subtotal returns the line's price multiplied by its quantity.
func (l CartLine) Subtotal() float64 {
	return l.Price * float64(l.Quantity)
}
