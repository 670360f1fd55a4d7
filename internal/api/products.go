package api

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"velo_front_end/internal/cache"
	"velo_front_end/internal/gateway"
	"velo_front_end/internal/models"
)

// ProductFilter reflète les query params de /api/products/
type ProductFilter struct {
	Search   string
	Category int
	Page     int
	Mine     bool // côté vendeur : seulement mes produits
}

func (f ProductFilter) encode() string {
	q := url.Values{}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Category > 0 {
		q.Set("category", strconv.Itoa(f.Category))
	}
	if f.Page > 1 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.Mine {
		q.Set("mine", "1")
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// Products liste le catalogue (recherche / catégorie / pagination).
// L'API renvoie soit une enveloppe paginée soit une liste brute selon
// la vue : on accepte les deux.
func (a *API) Products(filter ProductFilter) (*models.ProductPage, error) {
	resp, err := a.gw.Do("/api/products/"+filter.encode(), gatewayGet(false))
	if err != nil || resp == nil {
		return nil, err
	}

	var raw json.RawMessage
	if err := decodeInto(resp, &raw); err != nil {
		return nil, err
	}

	var page models.ProductPage
	if err := json.Unmarshal(raw, &page); err == nil && page.Results != nil {
		return &page, nil
	}

	var list []models.Product
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, err
	}
	return &models.ProductPage{Count: len(list), Results: list}, nil
}

func (a *API) Product(id int) (*models.Product, error) {
	resp, err := a.gw.Do(fmt.Sprintf("/api/products/%d/", id), gatewayGet(false))
	if err != nil || resp == nil {
		return nil, err
	}

	var out models.Product
	if err := decodeInto(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateProduct envoie le multipart du tableau de bord vendeur
// (l'image part telle quelle vers l'API, qui possède le stockage media)
func (a *API) CreateProduct(body io.Reader, contentType string) (*models.Product, error) {
	resp, err := a.gw.Do("/api/products/", gateway.Opts{
		Method:      http.MethodPost,
		Body:        body,
		ContentType: contentType,
	})
	if err != nil || resp == nil {
		return nil, err
	}

	var out models.Product
	if err := decodeInto(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *API) UpdateProduct(id int, body io.Reader, contentType string) (*models.Product, error) {
	resp, err := a.gw.Do(fmt.Sprintf("/api/products/%d/", id), gateway.Opts{
		Method:      http.MethodPatch,
		Body:        body,
		ContentType: contentType,
	})
	if err != nil || resp == nil {
		return nil, err
	}

	var out models.Product
	if err := decodeInto(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *API) DeleteProduct(id int) (bool, error) {
	resp, err := a.gw.Do(fmt.Sprintf("/api/products/%d/", id), gatewayJSON(http.MethodDelete, nil))
	if err != nil || resp == nil {
		return false, err
	}
	return true, decodeInto(resp, nil)
}

// --- SKUs ---

func (a *API) CreateProductItem(payload map[string]interface{}) (*models.ProductItem, error) {
	resp, err := a.gw.Do("/api/product-items/", gatewayPost(payload, false))
	if err != nil || resp == nil {
		return nil, err
	}

	var out models.ProductItem
	if err := decodeInto(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *API) UpdateProductItem(id int, payload map[string]interface{}) (*models.ProductItem, error) {
	resp, err := a.gw.Do(fmt.Sprintf("/api/product-items/%d/", id), gatewayJSON(http.MethodPatch, payload))
	if err != nil || resp == nil {
		return nil, err
	}

	var out models.ProductItem
	if err := decodeInto(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *API) DeleteProductItem(id int) (bool, error) {
	resp, err := a.gw.Do(fmt.Sprintf("/api/product-items/%d/", id), gatewayJSON(http.MethodDelete, nil))
	if err != nil || resp == nil {
		return false, err
	}
	return true, decodeInto(resp, nil)
}

// SetProductItemOptions remplace l'affectation d'options de variation du SKU
func (a *API) SetProductItemOptions(id int, optionIDs []int) (bool, error) {
	endpoint := fmt.Sprintf("/api/product-items/%d/options/", id)
	resp, err := a.gw.Do(endpoint, gatewayJSON(http.MethodPut, map[string]interface{}{"options": optionIDs}))
	if err != nil || resp == nil {
		return false, err
	}
	return true, decodeInto(resp, nil)
}

// --- Taxonomie (avec cache Redis : ça bouge rarement) ---

func (a *API) Categories() ([]models.Category, error) {
	var out []models.Category
	if a.taxonomyFromCache("categories", &out) {
		return out, nil
	}

	resp, err := a.gw.Do("/api/categories/?page_size=200", gatewayGet(true))
	if err != nil || resp == nil {
		return nil, err
	}
	if err := decodeInto(resp, &out); err != nil {
		return nil, err
	}

	a.taxonomyToCache("categories", out)
	return out, nil
}

func (a *API) Variations() ([]models.Variation, error) {
	var out []models.Variation
	if a.taxonomyFromCache("variations", &out) {
		return out, nil
	}

	resp, err := a.gw.Do("/api/variations/", gatewayGet(true))
	if err != nil || resp == nil {
		return nil, err
	}
	if err := decodeInto(resp, &out); err != nil {
		return nil, err
	}

	a.taxonomyToCache("variations", out)
	return out, nil
}

func (a *API) taxonomyFromCache(name string, dst interface{}) bool {
	if cache.RedisClient == nil {
		return false
	}
	data, err := cache.GetTaxonomy(name)
	if err != nil || len(data) == 0 {
		return false
	}
	return json.Unmarshal(data, dst) == nil
}

func (a *API) taxonomyToCache(name string, src interface{}) {
	if cache.RedisClient == nil {
		return
	}
	data, err := json.Marshal(src)
	if err != nil {
		return
	}
	if err := cache.StoreTaxonomy(name, data); err != nil {
		log.Printf("⚠️ Erreur cache taxonomie %s: %v", name, err)
	}
}
