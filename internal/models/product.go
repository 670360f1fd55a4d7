package models

import "encoding/json"

// Product reflète le payload produit de l'API, SKUs imbriqués compris.
// Les montants restent en json.Number : l'API sérialise ses décimaux en
// chaînes et on ne veut pas perdre de précision à l'affichage.
type Product struct {
	ID           int           `json:"id"`
	Name         string        `json:"name"`
	Description  string        `json:"description"`
	ProductImage string        `json:"product_image"`
	IsPublished  bool          `json:"is_published"`
	Category     int           `json:"category"`
	CategoryName string        `json:"category_name"`
	Seller       int           `json:"seller"`
	SellerName   string        `json:"seller_name"`
	Items        []ProductItem `json:"items"`
}

// ProductItem est un SKU : la déclinaison achetable avec son prix et son stock
type ProductItem struct {
	ID           int               `json:"id"`
	Product      int               `json:"product"`
	SKU          string            `json:"sku"`
	QtyInStock   int               `json:"qty_in_stock"`
	Price        json.Number       `json:"price"`
	ProductImage string            `json:"product_image"`
	Options      []VariationOption `json:"options"`
}

type VariationOption struct {
	ID            int    `json:"id"`
	VariationName string `json:"variation_name"`
	Value         string `json:"value"`
}

type Variation struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Category     int    `json:"category"`
	CategoryName string `json:"category_name"`
}

type Category struct {
	ID           int    `json:"id"`
	CategoryName string `json:"category_name"`
}

// ProductPage est l'enveloppe de pagination DRF renvoyée par /api/products/
type ProductPage struct {
	Count    int       `json:"count"`
	Next     *string   `json:"next"`
	Previous *string   `json:"previous"`
	Results  []Product `json:"results"`
}

// InStock indique si au moins un SKU du produit est disponible
func (p Product) InStock() bool {
	for _, item := range p.Items {
		if item.QtyInStock > 0 {
			return true
		}
	}
	return false
}
