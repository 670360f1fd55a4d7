package handlers

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"velo_front_end/internal/utils"
)

// OrderHistoryPage liste les commandes du client avec pagination
func (h *Handlers) OrderHistoryPage(c *gin.Context) {
	a, sess := h.client(c)

	page := atoi(c.DefaultQuery("page", "1"))
	orders, err := a.MyOrders(page)
	if err != nil {
		h.render(c, http.StatusBadGateway, "order_history.html", gin.H{
			"Title": "Mes commandes",
			"Toast": toastForError(err), "ToastType": "danger",
		})
		return
	}
	if orders == nil {
		return
	}

	h.refreshBadgeFromCart(a, sess)

	h.render(c, http.StatusOK, "order_history.html", gin.H{
		"Title":   "Mes commandes",
		"Orders":  orders.Results,
		"Count":   orders.Count,
		"HasNext": orders.Next != nil,
		"HasPrev": orders.Previous != nil,
		"Page":    page,
	})
}

// OrderTrackPage affiche le suivi d'une commande : lignes, statuts,
// QR de partage, et le formulaire de changement de statut quand l'API
// l'autorise (vendeur propriétaire)
func (h *Handlers) OrderTrackPage(c *gin.Context) {
	id := atoi(c.Param("id"))
	if id <= 0 {
		c.Redirect(http.StatusFound, "/orders/")
		return
	}

	a, _ := h.client(c)

	order, err := a.Order(id)
	if err != nil {
		if apiErr, ok := err.(*apiError); ok && apiErr.NotFound() {
			h.render(c, http.StatusNotFound, "order_track.html", gin.H{
				"Title":    "Commande introuvable",
				"NotFound": true,
			})
			return
		}
		h.render(c, http.StatusBadGateway, "order_track.html", gin.H{
			"Title": "Suivi de commande",
			"Toast": toastForError(err), "ToastType": "danger",
		})
		return
	}
	if order == nil {
		return
	}

	data := gin.H{
		"Title": fmt.Sprintf("Commande #%d", order.ID),
		"Order": order,
	}

	// Le menu des statuts n'est chargé que si l'API dit qu'on peut agir
	if order.CanUpdateStatus {
		statuses, err := a.OrderStatuses()
		if err != nil {
			log.Printf("⚠️ Chargement des statuts impossible: %v", err)
		}
		data["Statuses"] = statuses
	}

	h.render(c, http.StatusOK, "order_track.html", data)
}

// OrderStatusSubmit change le statut global d'une commande
func (h *Handlers) OrderStatusSubmit(c *gin.Context) {
	orderID := atoi(c.Param("id"))
	statusID := atoi(c.PostForm("order_status"))
	back := fmt.Sprintf("/orders/track/%d/", orderID)

	if orderID <= 0 || statusID <= 0 {
		redirectWithToast(c, back, "Statut invalide.", "warning")
		return
	}

	a, _ := h.client(c)

	done, err := a.SetOrderStatus(orderID, statusID)
	if err != nil {
		redirectWithToast(c, back, toastForError(err), "danger")
		return
	}
	if !done {
		return
	}

	redirectWithToast(c, back, "Statut mis à jour.", "success")
}

// OrderLineStatusSubmit change le statut d'une seule ligne
func (h *Handlers) OrderLineStatusSubmit(c *gin.Context) {
	orderID := atoi(c.Param("id"))
	lineID := atoi(c.PostForm("line_id"))
	statusID := atoi(c.PostForm("line_status"))
	back := c.DefaultPostForm("back", fmt.Sprintf("/orders/track/%d/", orderID))

	if orderID <= 0 || lineID <= 0 || statusID <= 0 {
		redirectWithToast(c, back, "Statut invalide.", "warning")
		return
	}

	a, _ := h.client(c)

	done, err := a.SetOrderLineStatus(orderID, lineID, statusID)
	if err != nil {
		redirectWithToast(c, back, toastForError(err), "danger")
		return
	}
	if !done {
		return
	}

	redirectWithToast(c, back, "Ligne mise à jour.", "success")
}

// OrderTrackQR sert le QR PNG qui pointe vers la page de suivi
func (h *Handlers) OrderTrackQR(c *gin.Context) {
	id := atoi(c.Param("id"))
	if id <= 0 {
		c.Status(http.StatusNotFound)
		return
	}

	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	trackURL := fmt.Sprintf("%s://%s/orders/track/%d/", scheme, c.Request.Host, id)

	png, err := utils.TrackingQR(trackURL)
	if err != nil {
		log.Printf("❌ Erreur génération QR: %v", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}

// OrderReceiptPrint est la vue imprimable du reçu, celle que Chrome
// headless charge pour produire le PDF
func (h *Handlers) OrderReceiptPrint(c *gin.Context) {
	id := atoi(c.Param("id"))
	if id <= 0 {
		c.Status(http.StatusNotFound)
		return
	}

	a, _ := h.client(c)
	order, err := a.Order(id)
	if err != nil || order == nil {
		c.Status(http.StatusNotFound)
		return
	}

	c.HTML(http.StatusOK, "order_receipt.html", gin.H{
		"Order": order,
	})
}

// OrderReceiptPDF imprime la vue ci-dessus en PDF via Chrome headless
func (h *Handlers) OrderReceiptPDF(c *gin.Context) {
	id := atoi(c.Param("id"))
	if id <= 0 {
		c.Status(http.StatusNotFound)
		return
	}

	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	printURL := fmt.Sprintf("%s://%s/orders/%d/print/", scheme, c.Request.Host, id)

	pdf, err := utils.RenderReceiptPDF(printURL, c.Request.Header.Get("Cookie"))
	if err != nil {
		log.Printf("❌ Erreur génération PDF: %v", err)
		redirectWithToast(c, fmt.Sprintf("/orders/track/%d/", id), "Génération du reçu impossible.", "danger")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="recu-commande-%d.pdf"`, id))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
