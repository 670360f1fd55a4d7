package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"velo_front_end/internal/api"
	"velo_front_end/internal/models"
)

// ProductsPage affiche la grille catalogue : recherche, filtre
// catégorie, pagination. Accessible aux invités.
func (h *Handlers) ProductsPage(c *gin.Context) {
	a, sess := h.client(c)

	filter := api.ProductFilter{
		Search:   c.Query("q"),
		Category: atoi(c.Query("category")),
		Page:     atoi(c.DefaultQuery("page", "1")),
	}

	page, err := a.Products(filter)
	if err != nil {
		h.render(c, http.StatusBadGateway, "products.html", gin.H{
			"Title": "Catalogue",
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

	h.refreshBadgeFromCart(a, sess)

	h.render(c, http.StatusOK, "products.html", gin.H{
		"Title":      "Catalogue",
		"Products":   page.Results,
		"Count":      page.Count,
		"HasNext":    page.Next != nil,
		"HasPrev":    page.Previous != nil,
		"Page":       filter.Page,
		"Search":     filter.Search,
		"Category":   filter.Category,
		"Categories": categories,
	})
}

// ProductDetailPage affiche la fiche produit avec le choix des options
// de variation qui résout vers un SKU
func (h *Handlers) ProductDetailPage(c *gin.Context) {
	id := atoi(c.Param("id"))
	if id <= 0 {
		c.Redirect(http.StatusFound, "/products/")
		return
	}

	a, sess := h.client(c)

	product, err := a.Product(id)
	if err != nil {
		if apiErr, ok := err.(*apiError); ok && apiErr.NotFound() {
			// Produit disparu : état vide, pas une erreur
			h.render(c, http.StatusNotFound, "product_detail.html", gin.H{
				"Title":    "Produit introuvable",
				"NotFound": true,
			})
			return
		}
		h.render(c, http.StatusBadGateway, "product_detail.html", gin.H{
			"Title": "Produit",
			"Toast": toastForError(err), "ToastType": "danger",
		})
		return
	}
	if product == nil {
		return
	}

	h.refreshBadgeFromCart(a, sess)

	h.render(c, http.StatusOK, "product_detail.html", gin.H{
		"Title":      product.Name,
		"Product":    product,
		"OptionsMap": buildOptionsMap(product),
	})
}

// AddToCart ajoute un SKU au panier puis rediffuse le badge depuis le
// panier confirmé par le serveur. La route est derrière LoginRequired :
// un invité est redirigé au login AVANT que ce handler ne tourne.
func (h *Handlers) AddToCart(c *gin.Context) {
	productID := atoi(c.PostForm("product_id"))
	itemID := atoi(c.PostForm("product_item"))
	qty := atoi(c.DefaultPostForm("quantity", "1"))
	if qty < 1 {
		qty = 1
	}

	back := "/products/"
	if productID > 0 {
		back = "/products/" + strconv.Itoa(productID) + "/"
	}

	if itemID <= 0 {
		redirectWithToast(c, back, "Choisissez une variante d'abord.", "warning")
		return
	}

	a, sess := h.client(c)

	if _, err := a.AddCartItem(itemID, qty); err != nil {
		redirectWithToast(c, back, toastForError(err), "danger")
		return
	}

	h.refreshBadgeFromCart(a, sess)
	redirectWithToast(c, back, "Ajouté au panier !", "success")
}

// buildOptionsMap regroupe les options des SKUs par nom de variation
// (Couleur -> [Rouge, Bleu], Taille -> [M, L]...) pour les sélecteurs
func buildOptionsMap(p *models.Product) map[string][]string {
	out := map[string][]string{}
	for _, item := range p.Items {
		for _, opt := range item.Options {
			if opt.VariationName == "" || opt.Value == "" {
				continue
			}
			if !containsString(out[opt.VariationName], opt.Value) {
				out[opt.VariationName] = append(out[opt.VariationName], opt.Value)
			}
		}
	}
	return out
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
