package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"velo_front_end/internal/utils"
)

// ProfilePage affiche le profil client : infos, adresses, moyens de
// paiement, avec les référentiels pays et types de paiement pour les
// assistants d'ajout
func (h *Handlers) ProfilePage(c *gin.Context) {
	a, sess := h.client(c)

	prof, err := a.Me(false)
	if err != nil {
		h.render(c, http.StatusBadGateway, "profile.html", gin.H{
			"Title": "Mon profil",
			"Toast": toastForError(err), "ToastType": "danger",
		})
		return
	}
	if prof == nil {
		return
	}

	countries, err := a.Countries()
	if err != nil {
		log.Printf("⚠️ Chargement des pays impossible: %v", err)
	}
	paymentTypes, err := a.PaymentTypes()
	if err != nil {
		log.Printf("⚠️ Chargement des types de paiement impossible: %v", err)
	}

	h.refreshBadgeFromCart(a, sess)

	h.render(c, http.StatusOK, "profile.html", gin.H{
		"Title":        "Mon profil",
		"Profile":      prof,
		"Countries":    countries,
		"PaymentTypes": paymentTypes,
		"Next":         c.Query("next"),
	})
}

// ProfileUpdate modifie e-mail / téléphone
func (h *Handlers) ProfileUpdate(c *gin.Context) {
	email := strings.TrimSpace(c.PostForm("email"))
	phone := strings.TrimSpace(c.PostForm("phone_number"))

	if email != "" && !utils.ValidEmail(email) {
		redirectWithToast(c, "/profile/", "Adresse e-mail invalide.", "warning")
		return
	}
	if phone != "" && !utils.ValidPhone(phone) {
		redirectWithToast(c, "/profile/", "Numéro de téléphone invalide.", "warning")
		return
	}

	a, _ := h.client(c)

	payload := map[string]interface{}{}
	if email != "" {
		payload["email"] = email
	}
	if phone != "" {
		payload["phone_number"] = phone
	}

	if _, err := a.UpdateMe(payload); err != nil {
		redirectWithToast(c, "/profile/", toastForError(err), "danger")
		return
	}

	redirectWithToast(c, "/profile/", "Profil mis à jour.", "success")
}

// --- Assistant adresses ---

func addressPayload(c *gin.Context) map[string]interface{} {
	return map[string]interface{}{
		"unit_number":   strings.TrimSpace(c.PostForm("unit_number")),
		"street_number": strings.TrimSpace(c.PostForm("street_number")),
		"address_line1": strings.TrimSpace(c.PostForm("address_line1")),
		"address_line2": strings.TrimSpace(c.PostForm("address_line2")),
		"city":          strings.TrimSpace(c.PostForm("city")),
		"region":        strings.TrimSpace(c.PostForm("region")),
		"postal_code":   strings.TrimSpace(c.PostForm("postal_code")),
		"country":       atoi(c.PostForm("country")),
	}
}

// AddressCreate ajoute une adresse, avec option "définir par défaut"
func (h *Handlers) AddressCreate(c *gin.Context) {
	payload := addressPayload(c)
	if payload["address_line1"] == "" || payload["city"] == "" {
		redirectWithToast(c, "/profile/", "Adresse et ville obligatoires.", "warning")
		return
	}

	a, _ := h.client(c)

	created, err := a.AddAddress(payload)
	if err != nil {
		redirectWithToast(c, "/profile/", toastForError(err), "danger")
		return
	}
	if created == nil {
		return
	}

	if c.PostForm("is_default") != "" {
		if _, err := a.SetDefaultAddress(created.ID); err != nil {
			log.Printf("⚠️ set-default adresse raté: %v", err)
		}
	}

	redirectWithToast(c, backTo(c, "/profile/"), "Adresse ajoutée.", "success")
}

func (h *Handlers) AddressUpdate(c *gin.Context) {
	id := atoi(c.Param("id"))
	if id <= 0 {
		c.Redirect(http.StatusFound, "/profile/")
		return
	}

	a, _ := h.client(c)
	if _, err := a.UpdateAddress(id, addressPayload(c)); err != nil {
		redirectWithToast(c, "/profile/", toastForError(err), "danger")
		return
	}
	redirectWithToast(c, "/profile/", "Adresse modifiée.", "success")
}

func (h *Handlers) AddressDelete(c *gin.Context) {
	id := atoi(c.Param("id"))
	if id <= 0 {
		c.Redirect(http.StatusFound, "/profile/")
		return
	}

	a, _ := h.client(c)
	if _, err := a.DeleteAddress(id); err != nil {
		redirectWithToast(c, "/profile/", toastForError(err), "danger")
		return
	}
	redirectWithToast(c, "/profile/", "Adresse supprimée.", "info")
}

func (h *Handlers) AddressSetDefault(c *gin.Context) {
	id := atoi(c.Param("id"))
	if id <= 0 {
		c.Redirect(http.StatusFound, "/profile/")
		return
	}

	a, _ := h.client(c)
	if _, err := a.SetDefaultAddress(id); err != nil {
		redirectWithToast(c, "/profile/", toastForError(err), "danger")
		return
	}
	redirectWithToast(c, "/profile/", "Adresse par défaut mise à jour.", "success")
}

// --- Assistant moyens de paiement ---

func paymentPayload(c *gin.Context) map[string]interface{} {
	return map[string]interface{}{
		"payment_type":   atoi(c.PostForm("payment_type")),
		"provider":       strings.TrimSpace(c.PostForm("provider")),
		"account_number": strings.TrimSpace(c.PostForm("account_number")),
		"expiry_date":    strings.TrimSpace(c.PostForm("expiry_date")),
	}
}

func (h *Handlers) PaymentMethodCreate(c *gin.Context) {
	payload := paymentPayload(c)
	if payload["payment_type"] == 0 {
		redirectWithToast(c, "/profile/", "Choisissez un type de paiement.", "warning")
		return
	}

	a, _ := h.client(c)

	created, err := a.AddPaymentMethod(payload)
	if err != nil {
		redirectWithToast(c, "/profile/", toastForError(err), "danger")
		return
	}
	if created == nil {
		return
	}

	if c.PostForm("is_default") != "" {
		if _, err := a.SetDefaultPaymentMethod(created.ID); err != nil {
			log.Printf("⚠️ set-default paiement raté: %v", err)
		}
	}

	redirectWithToast(c, backTo(c, "/profile/"), "Moyen de paiement ajouté.", "success")
}

func (h *Handlers) PaymentMethodUpdate(c *gin.Context) {
	id := atoi(c.Param("id"))
	if id <= 0 {
		c.Redirect(http.StatusFound, "/profile/")
		return
	}

	a, _ := h.client(c)
	if _, err := a.UpdatePaymentMethod(id, paymentPayload(c)); err != nil {
		redirectWithToast(c, "/profile/", toastForError(err), "danger")
		return
	}
	redirectWithToast(c, "/profile/", "Moyen de paiement modifié.", "success")
}

func (h *Handlers) PaymentMethodDelete(c *gin.Context) {
	id := atoi(c.Param("id"))
	if id <= 0 {
		c.Redirect(http.StatusFound, "/profile/")
		return
	}

	a, _ := h.client(c)
	if _, err := a.DeletePaymentMethod(id); err != nil {
		redirectWithToast(c, "/profile/", toastForError(err), "danger")
		return
	}
	redirectWithToast(c, "/profile/", "Moyen de paiement supprimé.", "info")
}

func (h *Handlers) PaymentMethodSetDefault(c *gin.Context) {
	id := atoi(c.Param("id"))
	if id <= 0 {
		c.Redirect(http.StatusFound, "/profile/")
		return
	}

	a, _ := h.client(c)
	if _, err := a.SetDefaultPaymentMethod(id); err != nil {
		redirectWithToast(c, "/profile/", toastForError(err), "danger")
		return
	}
	redirectWithToast(c, "/profile/", "Moyen de paiement par défaut mis à jour.", "success")
}

// backTo respecte le ?next= même-site (retour au panier après avoir
// complété le profil pendant un checkout)
func backTo(c *gin.Context, fallback string) string {
	next := c.PostForm("next")
	if next != "" && strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") {
		return next
	}
	return fallback
}
