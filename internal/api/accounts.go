package api

import (
	"net/http"

	"velo_front_end/internal/models"
)

// Login obtient la paire de tokens JWT auprès de l'API.
// C'est un des rares appels qui ne redirige pas sur 401 : un mauvais mot
// de passe s'affiche sur la page, il n'éjecte personne.
func (a *API) Login(username, password string) (*models.LoginResponse, error) {
	resp, err := a.gw.Do("/api/accounts/login/", gatewayPost(map[string]string{
		"username": username,
		"password": password,
	}, true))
	if err != nil || resp == nil {
		return nil, err
	}

	var out models.LoginResponse
	if err := decodeInto(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register crée le compte (client ou vendeur)
func (a *API) Register(input models.RegisterInput) error {
	resp, err := a.gw.Do("/api/accounts/register/", gatewayPost(input, true))
	if err != nil || resp == nil {
		return err
	}
	return decodeInto(resp, nil)
}

// Logout clôt la session côté API (le nettoyage local est fait par l'appelant)
func (a *API) Logout() error {
	resp, err := a.gw.Do("/api/accounts/logout/", gatewayPost(nil, true))
	if err != nil || resp == nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// Me récupère le profil courant. noRedirect sert à la détermination
// silencieuse du user type juste après login.
func (a *API) Me(noRedirect bool) (*models.Profile, error) {
	resp, err := a.gw.Do("/api/accounts/profile/me/", gatewayGet(noRedirect))
	if err != nil || resp == nil {
		return nil, err
	}

	var out models.Profile
	if err := decodeInto(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateMe modifie le profil courant
func (a *API) UpdateMe(payload map[string]interface{}) (*models.Profile, error) {
	resp, err := a.gw.Do("/api/accounts/profile/me/", gatewayJSON(http.MethodPut, payload))
	if err != nil || resp == nil {
		return nil, err
	}

	var out models.Profile
	if err := decodeInto(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Countries alimente le formulaire d'adresse
func (a *API) Countries() ([]models.Country, error) {
	resp, err := a.gw.Do("/api/accounts/countries/", gatewayGet(false))
	if err != nil || resp == nil {
		return nil, err
	}

	var out []models.Country
	if err := decodeInto(resp, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PaymentTypes alimente le formulaire de moyen de paiement
func (a *API) PaymentTypes() ([]models.PaymentType, error) {
	resp, err := a.gw.Do("/api/accounts/payment-types/", gatewayGet(false))
	if err != nil || resp == nil {
		return nil, err
	}

	var out []models.PaymentType
	if err := decodeInto(resp, &out); err != nil {
		return nil, err
	}
	return out, nil
}
