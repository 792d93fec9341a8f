package models

import (
	"strings"

	"github.com/dmitrijs2005/shopkeeper/internal/client/storage"
)

// Product is the catalogue data needed to put something in the cart.
type Product struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	NameTranslation string `json:"nameTranslation,omitempty"`
	Brand           string `json:"brand,omitempty"`
	Price           int64  `json:"price"`
	Image           string `json:"image,omitempty"`
	Slug            string `json:"slug,omitempty"`
}

// Variant is an optional size/colour choice.
type Variant struct {
	Size  string
	Color string
}

// CartItem is one cart entry.
type CartItem struct {
	ID              string `json:"id"`
	ProductID       string `json:"productId"`
	Name            string `json:"name"`
	NameTranslation string `json:"nameTranslation,omitempty"`
	Brand           string `json:"brand,omitempty"`
	Price           int64  `json:"price"`
	Quantity        int    `json:"quantity"`
	SelectedSize    string `json:"selectedSize,omitempty"`
	SelectedColor   string `json:"selectedColor,omitempty"`
	Image           string `json:"image,omitempty"`
	Slug            string `json:"slug,omitempty"`
}

func (c CartItem) RecordID() string { return c.ID }

// Line is the order-facing projection of the item.
func (c CartItem) Line() CartLine {
	return CartLine{
		ProductID:     c.ProductID,
		Name:          c.Name,
		Price:         c.Price,
		Quantity:      c.Quantity,
		SelectedSize:  c.SelectedSize,
		SelectedColor: c.SelectedColor,
	}
}

// Subtotal is price times quantity.
func (c CartItem) Subtotal() int64 {
	return c.Price * int64(c.Quantity)
}

// CartItemID is the product id, suffixed with the variant when one is chosen.
func CartItemID(productID string, v Variant) string {
	if v.Size == "" && v.Color == "" {
		return productID
	}
	return strings.Join([]string{productID, v.Size, v.Color}, ":")
}

// CartLine is an order line.
type CartLine struct {
	ProductID     string `json:"productId"`
	Name          string `json:"name"`
	Price         int64  `json:"price"`
	Quantity      int    `json:"quantity"`
	SelectedSize  string `json:"selectedSize,omitempty"`
	SelectedColor string `json:"selectedColor,omitempty"`
}

// Cart is the whole cart.
type Cart []CartItem

func (c Cart) Records() []storage.Record {
	out := make([]storage.Record, len(c))
	for i := range c {
		out[i] = c[i]
	}
	return out
}

// Total sums every item's subtotal.
func (c Cart) Total() int64 {
	var sum int64
	for _, it := range c {
		sum += it.Subtotal()
	}
	return sum
}

// Lines projects the cart onto order lines.
func (c Cart) Lines() []CartLine {
	out := make([]CartLine, len(c))
	for i, it := range c {
		out[i] = it.Line()
	}
	return out
}
