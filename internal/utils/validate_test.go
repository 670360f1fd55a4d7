package utils

import (
	"testing"

	"velo_front_end/internal/models"
)

func customerInput() models.RegisterInput {
	return models.RegisterInput{
		Username:    "alice_01",
		Password:    "motdepasse",
		Email:       "alice@example.com",
		UserType:    "customer",
		PhoneNumber: "+32470123456",
	}
}

func sellerInput() models.RegisterInput {
	return models.RegisterInput{
		Username:  "boutique.velo",
		Password:  "motdepasse",
		Email:     "shop@example.com",
		UserType:  "seller",
		StoreName: "Vélo & Co",
		TaxNumber: "123456789",
	}
}

func TestValidateRegisterCustomer(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*models.RegisterInput)
		wantErr bool
	}{
		{"valide", func(in *models.RegisterInput) {}, false},
		{"username trop court", func(in *models.RegisterInput) { in.Username = "ab" }, true},
		{"username caractères interdits", func(in *models.RegisterInput) { in.Username = "alice w!" }, true},
		{"mot de passe trop court", func(in *models.RegisterInput) { in.Password = "court" }, true},
		{"email invalide", func(in *models.RegisterInput) { in.Email = "pas-un-email" }, true},
		{"téléphone manquant", func(in *models.RegisterInput) { in.PhoneNumber = "" }, true},
		{"téléphone invalide", func(in *models.RegisterInput) { in.PhoneNumber = "0470" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := customerInput()
			tt.mutate(&input)
			errs := ValidateRegister(input)
			if tt.wantErr && len(errs) == 0 {
				t.Error("ValidateRegister() = aucun message, want au moins un")
			}
			if !tt.wantErr && len(errs) > 0 {
				t.Errorf("ValidateRegister() = %v, want aucun message", errs)
			}
		})
	}
}

func TestValidateRegisterSeller(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*models.RegisterInput)
		wantErr bool
	}{
		{"valide", func(in *models.RegisterInput) {}, false},
		{"sans numéro fiscal reste valide", func(in *models.RegisterInput) { in.TaxNumber = "" }, false},
		{"nom de boutique manquant", func(in *models.RegisterInput) { in.StoreName = "  " }, true},
		{"numéro fiscal trop court", func(in *models.RegisterInput) { in.TaxNumber = "12345" }, true},
		{"numéro fiscal non numérique", func(in *models.RegisterInput) { in.TaxNumber = "12345678a" }, true},
		{"téléphone boutique invalide", func(in *models.RegisterInput) { in.SellerPhone = "abc" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := sellerInput()
			tt.mutate(&input)
			errs := ValidateRegister(input)
			if tt.wantErr && len(errs) == 0 {
				t.Error("ValidateRegister() = aucun message, want au moins un")
			}
			if !tt.wantErr && len(errs) > 0 {
				t.Errorf("ValidateRegister() = %v, want aucun message", errs)
			}
		})
	}
}

func TestValidPhone(t *testing.T) {
	valid := []string{"+32470123456", "32470123456", "+14155552671"}
	for _, p := range valid {
		if !ValidPhone(p) {
			t.Errorf("ValidPhone(%q) = false, want true", p)
		}
	}

	invalid := []string{"", "0470123456", "+0470", "téléphone", "+1234567890123456"}
	for _, p := range invalid {
		if ValidPhone(p) {
			t.Errorf("ValidPhone(%q) = true, want false", p)
		}
	}
}
