package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"velo_front_end/internal/models"
)

// CheckoutInput est le payload unique du POST /api/orders/ : le serveur
// fait tout le reste (lignes depuis le panier, total, paiement)
type CheckoutInput struct {
	ShippingAddressID int `json:"shipping_address_id,omitempty"`
	PaymentMethodID   int `json:"payment_method_id,omitempty"`
}

// Checkout transforme le panier en commande
func (a *API) Checkout(input CheckoutInput) (*models.Order, error) {
	resp, err := a.gw.Do("/api/orders/", gatewayPost(input, false))
	if err != nil || resp == nil {
		return nil, err
	}

	var out models.Order
	if err := decodeInto(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MyOrders liste l'historique du client connecté
func (a *API) MyOrders(page int) (*models.OrderPage, error) {
	endpoint := "/api/orders/my-orders/"
	if page > 1 {
		endpoint += "?page=" + strconv.Itoa(page)
	}
	return a.orderList(endpoint)
}

// OrderFilter reflète les filtres de la page commandes vendeur
type OrderFilter struct {
	Status string
	Search string
	Page   int
}

// SellerOrders liste les commandes contenant les produits du vendeur
func (a *API) SellerOrders(filter OrderFilter) (*models.OrderPage, error) {
	q := url.Values{}
	if filter.Status != "" {
		q.Set("status", filter.Status)
	}
	if filter.Search != "" {
		q.Set("search", filter.Search)
	}
	if filter.Page > 1 {
		q.Set("page", strconv.Itoa(filter.Page))
	}
	endpoint := "/api/orders/seller-orders/"
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}
	return a.orderList(endpoint)
}

func (a *API) orderList(endpoint string) (*models.OrderPage, error) {
	resp, err := a.gw.Do(endpoint, gatewayGet(false))
	if err != nil || resp == nil {
		return nil, err
	}

	var raw json.RawMessage
	if err := decodeInto(resp, &raw); err != nil {
		return nil, err
	}

	var page models.OrderPage
	if err := json.Unmarshal(raw, &page); err == nil && page.Results != nil {
		return &page, nil
	}

	var list []models.Order
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, err
	}
	return &models.OrderPage{Count: len(list), Results: list}, nil
}

// Order charge le détail d'une commande (page de suivi)
func (a *API) Order(id int) (*models.Order, error) {
	resp, err := a.gw.Do(fmt.Sprintf("/api/orders/%d/", id), gatewayGet(false))
	if err != nil || resp == nil {
		return nil, err
	}

	var out models.Order
	if err := decodeInto(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// OrderStatuses alimente le menu déroulant de changement de statut
func (a *API) OrderStatuses() ([]models.OrderStatus, error) {
	resp, err := a.gw.Do("/api/orders/statuses/", gatewayGet(false))
	if err != nil || resp == nil {
		return nil, err
	}

	var out []models.OrderStatus
	if err := decodeInto(resp, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SetOrderStatus change le statut global (vendeur uniquement, le serveur vérifie)
func (a *API) SetOrderStatus(orderID, statusID int) (bool, error) {
	endpoint := fmt.Sprintf("/api/orders/%d/set-status/", orderID)
	resp, err := a.gw.Do(endpoint, gatewayJSON(http.MethodPatch, map[string]int{"order_status": statusID}))
	if err != nil || resp == nil {
		return false, err
	}
	return true, decodeInto(resp, nil)
}

// SetOrderLineStatus change le statut d'UNE ligne (commandes multi-vendeurs)
func (a *API) SetOrderLineStatus(orderID, lineID, statusID int) (bool, error) {
	endpoint := fmt.Sprintf("/api/orders/%d/set-line-status/", orderID)
	resp, err := a.gw.Do(endpoint, gatewayJSON(http.MethodPatch, map[string]int{
		"line_id":     lineID,
		"line_status": statusID,
	}))
	if err != nil || resp == nil {
		return false, err
	}
	return true, decodeInto(resp, nil)
}
