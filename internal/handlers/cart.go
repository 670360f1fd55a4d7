package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"velo_front_end/internal/api"
)

// CartPage affiche les lignes du panier et alimente l'assistant de
// checkout avec les adresses et moyens de paiement du profil
func (h *Handlers) CartPage(c *gin.Context) {
	a, sess := h.client(c)

	cart, err := a.Cart(false)
	if err != nil {
		h.render(c, http.StatusBadGateway, "cart.html", gin.H{
			"Title": "Mon panier",
			"Toast": toastForError(err), "ToastType": "danger",
		})
		return
	}
	if cart == nil {
		return
	}

	h.badge.Set(sess.ID(), cart.TotalQuantity())

	// Le profil nourrit les étapes adresse + paiement du checkout ;
	// son absence n'empêche pas d'afficher le panier
	prof, _ := a.Me(true)

	data := gin.H{
		"Title":      "Mon panier",
		"Cart":       cart,
		"TotalQty":   cart.TotalQuantity(),
		"TotalPrice": cart.TotalPrice,
	}
	if prof != nil {
		data["Addresses"] = prof.Addresses
		data["PaymentMethods"] = prof.PaymentMethods
	}
	h.render(c, http.StatusOK, "cart.html", data)
}

// UpdateCartItem fixe la quantité d'une ligne (+/- passent par ici) ;
// le badge repart toujours de la somme confirmée par le serveur
func (h *Handlers) UpdateCartItem(c *gin.Context) {
	itemID := atoi(c.Param("id"))
	qty := atoi(c.PostForm("quantity"))
	if itemID <= 0 || qty < 1 {
		redirectWithToast(c, "/cart/", "Quantité invalide.", "warning")
		return
	}

	a, sess := h.client(c)

	if _, err := a.SetCartItemQuantity(itemID, qty); err != nil {
		redirectWithToast(c, "/cart/", toastForError(err), "danger")
		return
	}

	h.refreshBadgeFromCart(a, sess)
	c.Redirect(http.StatusFound, "/cart/")
}

// DeleteCartItem retire une ligne du panier
func (h *Handlers) DeleteCartItem(c *gin.Context) {
	itemID := atoi(c.Param("id"))
	if itemID <= 0 {
		c.Redirect(http.StatusFound, "/cart/")
		return
	}

	a, sess := h.client(c)

	if _, err := a.DeleteCartItem(itemID); err != nil {
		redirectWithToast(c, "/cart/", toastForError(err), "danger")
		return
	}

	h.refreshBadgeFromCart(a, sess)
	redirectWithToast(c, "/cart/", "Article retiré.", "info")
}

// CheckoutSubmit confirme l'assistant : UN seul POST vers /api/orders/,
// le serveur construit la commande depuis le panier
func (h *Handlers) CheckoutSubmit(c *gin.Context) {
	input := api.CheckoutInput{
		ShippingAddressID: atoi(c.PostForm("shipping_address_id")),
		PaymentMethodID:   atoi(c.PostForm("payment_method_id")),
	}

	a, sess := h.client(c)

	order, err := a.Checkout(input)
	if err != nil {
		msg := toastForError(err)

		// Adresse ou moyen de paiement manquant : on aide l'utilisateur
		// à compléter son profil puis à revenir au panier
		hint := strings.ToLower(msg)
		if strings.Contains(hint, "address") || strings.Contains(hint, "payment") ||
			strings.Contains(hint, "adresse") || strings.Contains(hint, "paiement") {
			redirectWithToast(c, "/profile/?next=/cart/", msg, "warning")
			return
		}

		redirectWithToast(c, "/cart/", msg, "danger")
		return
	}
	if order == nil {
		return
	}

	h.refreshBadgeFromCart(a, sess)
	redirectWithToast(c, "/orders/", "Commande créée avec succès !", "success")
}
