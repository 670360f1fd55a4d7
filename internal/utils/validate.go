package utils

import (
	"regexp"
	"strings"

	"velo_front_end/internal/models"
)

// Miroir best-effort des règles de validation du serveur : on évite un
// aller-retour pour les erreurs évidentes, mais la réponse de l'API
// reste la référence et est toujours réaffichée si elle diverge.
var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9._]+$`)
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phoneRegex    = regexp.MustCompile(`^\+?[1-9]\d{6,14}$`)
	digitsRegex   = regexp.MustCompile(`^\d+$`)
)

func ValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

func ValidPhone(phone string) bool {
	return phoneRegex.MatchString(phone)
}

// ValidateRegister vérifie le formulaire d'inscription côté front.
// Retourne la liste des messages à afficher, vide si tout va bien.
func ValidateRegister(input models.RegisterInput) []string {
	var errs []string

	username := strings.TrimSpace(input.Username)
	if len(username) < 4 {
		errs = append(errs, "Le nom d'utilisateur doit faire au moins 4 caractères.")
	} else if !usernameRegex.MatchString(username) {
		errs = append(errs, "Le nom d'utilisateur n'accepte que lettres, chiffres, point et underscore.")
	}

	if len(input.Password) < 8 {
		errs = append(errs, "Le mot de passe doit faire au moins 8 caractères.")
	}

	if input.Email != "" && !ValidEmail(input.Email) {
		errs = append(errs, "Adresse e-mail invalide.")
	}

	switch input.UserType {
	case "seller":
		if strings.TrimSpace(input.StoreName) == "" {
			errs = append(errs, "Le nom de la boutique est obligatoire pour un vendeur.")
		}
		if input.SellerPhone != "" && !ValidPhone(input.SellerPhone) {
			errs = append(errs, "Le téléphone de la boutique est invalide.")
		}
		if input.TaxNumber != "" && (len(input.TaxNumber) != 9 || !digitsRegex.MatchString(input.TaxNumber)) {
			errs = append(errs, "Le numéro fiscal doit faire exactement 9 chiffres.")
		}
	default:
		if input.PhoneNumber == "" {
			errs = append(errs, "Le numéro de téléphone est obligatoire pour un client.")
		} else if !ValidPhone(input.PhoneNumber) {
			errs = append(errs, "Le numéro de téléphone est invalide.")
		}
	}

	return errs
}
