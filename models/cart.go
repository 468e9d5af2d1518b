// ABOUTME: Cart models for the session-backed shopping cart
// ABOUTME: The cart is a frontend mockup; checkout never reaches the backend

package models

import "encoding/json"

// CartItem is a product snapshot placed in the cart. Prices are copied
// at add time; the cart does not refetch listings.
type CartItem struct {
	ProductID int    `json:"product_id"`
	Title     string `json:"title"`
	Price     string `json:"price"`
	Image     string `json:"image,omitempty"`
	Quantity  int    `json:"quantity"`
}

// Cart is the ordered list of items in a session's cart.
type Cart struct {
	Items []CartItem `json:"items"`
}

// DecodeCart parses a stored cart, returning an empty cart for missing
// or malformed input so a corrupt entry never breaks the page.
func DecodeCart(raw string) Cart {
	var cart Cart
	if raw == "" || json.Unmarshal([]byte(raw), &cart) != nil {
		return Cart{}
	}
	if cart.Items == nil {
		cart.Items = []CartItem{}
	}
	return cart
}

// Encode serializes the cart for storage.
func (c Cart) Encode() string {
	raw, err := json.Marshal(c)
	if err != nil {
		return "{}"
	}
	return string(raw)
}

// Add inserts a product or bumps its quantity if already present.
func (c *Cart) Add(item CartItem) {
	for i := range c.Items {
		if c.Items[i].ProductID == item.ProductID {
			c.Items[i].Quantity += item.Quantity
			return
		}
	}
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	c.Items = append(c.Items, item)
}

// Remove drops a product from the cart entirely.
func (c *Cart) Remove(productID int) {
	items := c.Items[:0]
	for _, item := range c.Items {
		if item.ProductID != productID {
			items = append(items, item)
		}
	}
	c.Items = items
}

// Count is the total quantity across all items.
func (c Cart) Count() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

// Total sums price times quantity across the cart.
func (c Cart) Total() float64 {
	total := 0.0
	for _, item := range c.Items {
		p := Product{Price: item.Price}
		total += p.PriceValue() * float64(item.Quantity)
	}
	return total
}
