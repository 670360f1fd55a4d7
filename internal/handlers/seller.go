package handlers

import (
	"bytes"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"velo_front_end/internal/api"
)

// SellerDashboardPage : les produits du vendeur avec leurs SKUs, plus
// la taxonomie (catégories, variations) pour les formulaires
func (h *Handlers) SellerDashboardPage(c *gin.Context) {
	a, _ := h.client(c)

	page, err := a.Products(api.ProductFilter{
		Mine:   true,
		Search: c.Query("q"),
		Page:   atoi(c.DefaultQuery("page", "1")),
	})
	if err != nil {
		h.render(c, http.StatusBadGateway, "seller_dashboard.html", gin.H{
			"Title": "Tableau de bord",
			"Toast": toastForError(err), "ToastType": "danger",
		})
		return
	}
	if page == nil {
		return
	}

	categories, err := a.Categories()
	if err != nil {
		log.Printf("⚠️ Chargement des catégories impossible: %v", err)
	}
	variations, err := a.Variations()
	if err != nil {
		log.Printf("⚠️ Chargement des variations impossible: %v", err)
	}

	h.render(c, http.StatusOK, "seller_dashboard.html", gin.H{
		"Title":      "Tableau de bord",
		"Products":   page.Results,
		"Count":      page.Count,
		"HasNext":    page.Next != nil,
		"HasPrev":    page.Previous != nil,
		"Page":       atoi(c.DefaultQuery("page", "1")),
		"Search":     c.Query("q"),
		"Categories": categories,
		"Variations": variations,
	})
}

// SellerProductCreate reforge le formulaire produit en multipart et le
// fait suivre tel quel : l'image part vers l'API, qui possède le media
func (h *Handlers) SellerProductCreate(c *gin.Context) {
	body, contentType, err := productMultipart(c)
	if err != nil {
		redirectWithToast(c, "/seller/", "Formulaire produit invalide.", "warning")
		return
	}

	a, _ := h.client(c)
	if _, err := a.CreateProduct(body, contentType); err != nil {
		redirectWithToast(c, "/seller/", toastForError(err), "danger")
		return
	}
	redirectWithToast(c, "/seller/", "Produit créé.", "success")
}

func (h *Handlers) SellerProductUpdate(c *gin.Context) {
	id := atoi(c.Param("id"))
	if id <= 0 {
		c.Redirect(http.StatusFound, "/seller/")
		return
	}

	body, contentType, err := productMultipart(c)
	if err != nil {
		redirectWithToast(c, "/seller/", "Formulaire produit invalide.", "warning")
		return
	}

	a, _ := h.client(c)
	if _, err := a.UpdateProduct(id, body, contentType); err != nil {
		redirectWithToast(c, "/seller/", toastForError(err), "danger")
		return
	}
	redirectWithToast(c, "/seller/", "Produit mis à jour.", "success")
}

func (h *Handlers) SellerProductDelete(c *gin.Context) {
	id := atoi(c.Param("id"))
	if id <= 0 {
		c.Redirect(http.StatusFound, "/seller/")
		return
	}

	a, _ := h.client(c)
	if _, err := a.DeleteProduct(id); err != nil {
		redirectWithToast(c, "/seller/", toastForError(err), "danger")
		return
	}
	redirectWithToast(c, "/seller/", "Produit supprimé.", "info")
}

// --- SKUs ---

func itemPayload(c *gin.Context) map[string]interface{} {
	payload := map[string]interface{}{
		"sku":          strings.TrimSpace(c.PostForm("sku")),
		"qty_in_stock": atoi(c.PostForm("qty_in_stock")),
		"price":        strings.TrimSpace(c.PostForm("price")),
	}
	if product := atoi(c.PostForm("product")); product > 0 {
		payload["product"] = product
	}
	return payload
}

func (h *Handlers) SellerItemCreate(c *gin.Context) {
	payload := itemPayload(c)
	if payload["sku"] == "" || payload["product"] == nil {
		redirectWithToast(c, "/seller/", "SKU et produit obligatoires.", "warning")
		return
	}

	a, _ := h.client(c)

	created, err := a.CreateProductItem(payload)
	if err != nil {
		redirectWithToast(c, "/seller/", toastForError(err), "danger")
		return
	}
	if created == nil {
		return
	}

	// Affectation d'options en même temps que la création du SKU
	if optionIDs := formInts(c, "options"); len(optionIDs) > 0 {
		if _, err := a.SetProductItemOptions(created.ID, optionIDs); err != nil {
			log.Printf("⚠️ Affectation d'options ratée: %v", err)
		}
	}

	redirectWithToast(c, "/seller/", "Variante créée.", "success")
}

func (h *Handlers) SellerItemUpdate(c *gin.Context) {
	id := atoi(c.Param("id"))
	if id <= 0 {
		c.Redirect(http.StatusFound, "/seller/")
		return
	}

	a, _ := h.client(c)

	if _, err := a.UpdateProductItem(id, itemPayload(c)); err != nil {
		redirectWithToast(c, "/seller/", toastForError(err), "danger")
		return
	}

	if c.PostFormArray("options") != nil {
		if _, err := a.SetProductItemOptions(id, formInts(c, "options")); err != nil {
			log.Printf("⚠️ Affectation d'options ratée: %v", err)
		}
	}

	redirectWithToast(c, "/seller/", "Variante mise à jour.", "success")
}

func (h *Handlers) SellerItemDelete(c *gin.Context) {
	id := atoi(c.Param("id"))
	if id <= 0 {
		c.Redirect(http.StatusFound, "/seller/")
		return
	}

	a, _ := h.client(c)
	if _, err := a.DeleteProductItem(id); err != nil {
		redirectWithToast(c, "/seller/", toastForError(err), "danger")
		return
	}
	redirectWithToast(c, "/seller/", "Variante supprimée.", "info")
}

// SellerOrdersPage : les commandes contenant les produits du vendeur,
// avec filtres statut/recherche et mise à jour ligne par ligne
func (h *Handlers) SellerOrdersPage(c *gin.Context) {
	a, _ := h.client(c)

	filter := api.OrderFilter{
		Status: c.Query("status"),
		Search: c.Query("q"),
		Page:   atoi(c.DefaultQuery("page", "1")),
	}

	orders, err := a.SellerOrders(filter)
	if err != nil {
		h.render(c, http.StatusBadGateway, "seller_orders.html", gin.H{
			"Title": "Commandes",
			"Toast": toastForError(err), "ToastType": "danger",
		})
		return
	}
	if orders == nil {
		return
	}

	statuses, err := a.OrderStatuses()
	if err != nil {
		log.Printf("⚠️ Chargement des statuts impossible: %v", err)
	}

	h.render(c, http.StatusOK, "seller_orders.html", gin.H{
		"Title":    "Commandes",
		"Orders":   orders.Results,
		"Count":    orders.Count,
		"HasNext":  orders.Next != nil,
		"HasPrev":  orders.Previous != nil,
		"Page":     filter.Page,
		"Status":   filter.Status,
		"Search":   filter.Search,
		"Statuses": statuses,
	})
}

// SellerProfilePage : profil boutique (nom, numéro fiscal, téléphone)
func (h *Handlers) SellerProfilePage(c *gin.Context) {
	a, _ := h.client(c)

	prof, err := a.Me(false)
	if err != nil {
		h.render(c, http.StatusBadGateway, "seller_profile.html", gin.H{
			"Title": "Ma boutique",
			"Toast": toastForError(err), "ToastType": "danger",
		})
		return
	}
	if prof == nil {
		return
	}

	h.render(c, http.StatusOK, "seller_profile.html", gin.H{
		"Title":   "Ma boutique",
		"Profile": prof,
	})
}

// productMultipart reconstruit le multipart à faire suivre à l'API :
// champs texte + image uploadée (si présente)
func productMultipart(c *gin.Context) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := map[string]string{
		"name":         strings.TrimSpace(c.PostForm("name")),
		"description":  strings.TrimSpace(c.PostForm("description")),
		"category":     c.PostForm("category"),
		"is_published": c.DefaultPostForm("is_published", "false"),
	}
	for name, value := range fields {
		if value == "" {
			continue
		}
		if err := w.WriteField(name, value); err != nil {
			return nil, "", err
		}
	}

	if file, err := c.FormFile("product_image"); err == nil && file != nil {
		src, err := file.Open()
		if err != nil {
			return nil, "", err
		}
		defer src.Close()

		part, err := w.CreateFormFile("product_image", file.Filename)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, src); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

func formInts(c *gin.Context, field string) []int {
	var out []int
	for _, raw := range c.PostFormArray(field) {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			out = append(out, n)
		}
	}
	return out
}
