package models

import "encoding/json"

// Cart est le panier tel que renvoyé par /api/cart/
type Cart struct {
	ID         int         `json:"id"`
	User       int         `json:"user"`
	Items      []CartItem  `json:"items"`
	TotalPrice json.Number `json:"total_price"`
}

type CartItem struct {
	ID          int         `json:"id"`
	ProductItem int         `json:"product_item"`
	ProductName string      `json:"product_name"`
	Image       string      `json:"image"`
	Price       json.Number `json:"price"`
	Stock       int         `json:"stock"`
	Quantity    int         `json:"quantity"`
	Subtotal    json.Number `json:"subtotal"`
}

// TotalQuantity est LA valeur du badge : somme des quantités par ligne,
// jamais un compteur local
func (c Cart) TotalQuantity() int {
	total := 0
	for _, item := range c.Items {
		if item.Quantity > 0 {
			total += item.Quantity
		}
	}
	return total
}
