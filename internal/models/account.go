package models

// Profile est le payload de /api/accounts/profile/me/
type Profile struct {
	ID             int             `json:"id"`
	Username       string          `json:"username"`
	Email          string          `json:"email"`
	PhoneNumber    string          `json:"phone_number"`
	UserType       string          `json:"user_type"` // "customer" ou "seller"
	StoreName      string          `json:"store_name"`
	TaxNumber      string          `json:"tax_number"`
	Addresses      []Address       `json:"addresses"`
	PaymentMethods []PaymentMethod `json:"payment_methods"`
}

type Address struct {
	ID           int    `json:"id"`
	UnitNumber   string `json:"unit_number"`
	StreetNumber string `json:"street_number"`
	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2"`
	City         string `json:"city"`
	Region       string `json:"region"`
	PostalCode   string `json:"postal_code"`
	Country      int    `json:"country"`
	IsDefault    bool   `json:"is_default"`
}

// Label construit le libellé court affiché dans le checkout
func (a Address) Label() string {
	parts := []string{}
	for _, p := range []string{a.AddressLine1, a.City, a.Region, a.PostalCode} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return "Adresse"
	}
	out := parts[0]
	for _, p := range parts[1:] {
		out += " - " + p
	}
	return out
}

type PaymentMethod struct {
	ID              int    `json:"id"`
	PaymentType     int    `json:"payment_type"`
	PaymentTypeName string `json:"payment_type_name"`
	Provider        string `json:"provider"`
	AccountNumber   string `json:"account_number"`
	ExpiryDate      string `json:"expiry_date"`
	IsDefault       bool   `json:"is_default"`
	PaymentStatus   string `json:"payment_status"`
}

// Label construit le libellé court affiché dans le checkout
func (p PaymentMethod) Label() string {
	switch {
	case p.PaymentTypeName != "" && p.Provider != "":
		return p.PaymentTypeName + " - " + p.Provider
	case p.PaymentTypeName != "":
		return p.PaymentTypeName
	case p.Provider != "":
		return p.Provider
	}
	return "Moyen de paiement"
}

type Country struct {
	ID          int    `json:"id"`
	CountryName string `json:"country_name"`
}

type PaymentType struct {
	ID    int    `json:"id"`
	Value string `json:"value"`
}

// LoginResponse est la réponse de /api/accounts/login/ (paire JWT)
type LoginResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// RegisterInput est le payload de /api/accounts/register/
type RegisterInput struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	Email       string `json:"email"`
	UserType    string `json:"user_type"`
	PhoneNumber string `json:"phone_number,omitempty"`
	StoreName   string `json:"store_name,omitempty"`
	TaxNumber   string `json:"tax_number,omitempty"`
	SellerPhone string `json:"seller_phone,omitempty"`
	Country     int    `json:"country,omitempty"`
}
