package api

import (
	"fmt"
	"net/http"

	"velo_front_end/internal/models"
)

// --- Adresses de livraison ---

func (a *API) AddAddress(payload map[string]interface{}) (*models.Address, error) {
	resp, err := a.gw.Do("/api/accounts/profile/add-address/", gatewayPost(payload, false))
	if err != nil || resp == nil {
		return nil, err
	}

	var out models.Address
	if err := decodeInto(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *API) UpdateAddress(id int, payload map[string]interface{}) (*models.Address, error) {
	endpoint := fmt.Sprintf("/api/accounts/profile/addresses/%d/", id)
	resp, err := a.gw.Do(endpoint, gatewayJSON(http.MethodPatch, payload))
	if err != nil || resp == nil {
		return nil, err
	}

	var out models.Address
	if err := decodeInto(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteAddress retourne done=false quand la passerelle a redirigé
func (a *API) DeleteAddress(id int) (bool, error) {
	endpoint := fmt.Sprintf("/api/accounts/profile/addresses/%d/", id)
	resp, err := a.gw.Do(endpoint, gatewayJSON(http.MethodDelete, nil))
	if err != nil || resp == nil {
		return false, err
	}
	return true, decodeInto(resp, nil)
}

func (a *API) SetDefaultAddress(id int) (bool, error) {
	endpoint := fmt.Sprintf("/api/accounts/profile/addresses/%d/set-default/", id)
	resp, err := a.gw.Do(endpoint, gatewayPost(nil, false))
	if err != nil || resp == nil {
		return false, err
	}
	return true, decodeInto(resp, nil)
}

// --- Moyens de paiement ---

func (a *API) AddPaymentMethod(payload map[string]interface{}) (*models.PaymentMethod, error) {
	resp, err := a.gw.Do("/api/accounts/profile/payment-methods/", gatewayPost(payload, false))
	if err != nil || resp == nil {
		return nil, err
	}

	var out models.PaymentMethod
	if err := decodeInto(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *API) UpdatePaymentMethod(id int, payload map[string]interface{}) (*models.PaymentMethod, error) {
	endpoint := fmt.Sprintf("/api/accounts/profile/payment-methods/%d/", id)
	resp, err := a.gw.Do(endpoint, gatewayJSON(http.MethodPatch, payload))
	if err != nil || resp == nil {
		return nil, err
	}

	var out models.PaymentMethod
	if err := decodeInto(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *API) DeletePaymentMethod(id int) (bool, error) {
	endpoint := fmt.Sprintf("/api/accounts/profile/payment-methods/%d/", id)
	resp, err := a.gw.Do(endpoint, gatewayJSON(http.MethodDelete, nil))
	if err != nil || resp == nil {
		return false, err
	}
	return true, decodeInto(resp, nil)
}

func (a *API) SetDefaultPaymentMethod(id int) (bool, error) {
	endpoint := fmt.Sprintf("/api/accounts/profile/payment-methods/%d/set-default/", id)
	resp, err := a.gw.Do(endpoint, gatewayPost(nil, false))
	if err != nil || resp == nil {
		return false, err
	}
	return true, decodeInto(resp, nil)
}
