package api

import (
	"fmt"
	"net/http"

	"velo_front_end/internal/models"
)

// Cart lit le panier courant. noRedirect=true pour le rafraîchissement
// du badge : un token périmé ne doit pas éjecter quelqu'un qui consulte
// juste le catalogue.
func (a *API) Cart(noRedirect bool) (*models.Cart, error) {
	resp, err := a.gw.Do("/api/cart/", gatewayGet(noRedirect))
	if err != nil || resp == nil {
		return nil, err
	}

	var out models.Cart
	if err := decodeInto(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddCartItem ajoute un SKU au panier (quantité confirmée par le serveur)
func (a *API) AddCartItem(productItemID, quantity int) (*models.CartItem, error) {
	resp, err := a.gw.Do("/api/cart/cart-items/", gatewayPost(map[string]int{
		"product_item": productItemID,
		"quantity":     quantity,
	}, false))
	if err != nil || resp == nil {
		return nil, err
	}

	var out models.CartItem
	if err := decodeInto(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetCartItemQuantity fixe la quantité d'une ligne (jamais de +1 local)
func (a *API) SetCartItemQuantity(itemID, quantity int) (*models.CartItem, error) {
	endpoint := fmt.Sprintf("/api/cart/cart-items/%d/", itemID)
	resp, err := a.gw.Do(endpoint, gatewayJSON(http.MethodPatch, map[string]int{"quantity": quantity}))
	if err != nil || resp == nil {
		return nil, err
	}

	var out models.CartItem
	if err := decodeInto(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *API) DeleteCartItem(itemID int) (bool, error) {
	endpoint := fmt.Sprintf("/api/cart/cart-items/%d/", itemID)
	resp, err := a.gw.Do(endpoint, gatewayJSON(http.MethodDelete, nil))
	if err != nil || resp == nil {
		return false, err
	}
	return true, decodeInto(resp, nil)
}
