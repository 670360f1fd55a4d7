package models

import "encoding/json"

// Order est le payload de /api/orders/{id}/ et des listes de commandes
type Order struct {
	ID                     int         `json:"id"`
	OrderDate              string      `json:"order_date"`
	OrderTotal             json.Number `json:"order_total"`
	StatusDisplay          string      `json:"status_display"`
	OrderStatusID          int         `json:"order_status_id"`
	PaymentStatus          string      `json:"payment_status"`
	ShippingAddressDetails string      `json:"shipping_address_details"`
	ShippingCarrier        string      `json:"shipping_carrier"`
	TrackingNumber         string      `json:"tracking_number"`
	ShippedAt              *string     `json:"shipped_at"`
	DeliveredAt            *string     `json:"delivered_at"`
	CustomerPhoneNumber    string      `json:"customer_phone_number"`
	CustomerUsername       string      `json:"customer_username"`
	Lines                  []OrderLine `json:"lines"`
	// Présent uniquement pour le vendeur propriétaire : pilote l'affichage
	// du formulaire de changement de statut
	CanUpdateStatus bool `json:"can_update_status"`
}

type OrderLine struct {
	ID                int         `json:"id"`
	ProductName       string      `json:"product_name"`
	SKU               string      `json:"sku"`
	Qty               int         `json:"qty"`
	Price             json.Number `json:"price"`
	LineStatusDisplay string      `json:"line_status_display"`
}

type OrderStatus struct {
	ID     int    `json:"id"`
	Status string `json:"status"`
}

// OrderPage est l'enveloppe de pagination de /api/orders/my-orders/
type OrderPage struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []Order `json:"results"`
}
