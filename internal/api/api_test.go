package api

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"velo_front_end/internal/config"
	"velo_front_end/internal/gateway"
	"velo_front_end/internal/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func fakeResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestDecodeIntoSuccess(t *testing.T) {
	var out struct {
		Name string `json:"name"`
	}
	err := decodeInto(fakeResponse(http.StatusOK, `{"name":"Vélo"}`), &out)
	require.NoError(t, err)
	assert.Equal(t, "Vélo", out.Name)
}

func TestDecodeIntoDetailError(t *testing.T) {
	err := decodeInto(fakeResponse(http.StatusBadRequest, `{"detail":"Panier introuvable."}`), nil)
	require.Error(t, err)

	apiErr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Panier introuvable.", apiErr.Detail)
	assert.Equal(t, "Panier introuvable.", apiErr.Error())
}

func TestDecodeIntoFieldErrors(t *testing.T) {
	body := `{"username":["Ce nom est déjà pris."],"email":"Adresse invalide."}`
	err := decodeInto(fakeResponse(http.StatusBadRequest, body), nil)
	require.Error(t, err)

	apiErr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, []string{"Ce nom est déjà pris."}, apiErr.Fields["username"])
	assert.Equal(t, []string{"Adresse invalide."}, apiErr.Fields["email"])

	msgs := apiErr.Messages()
	assert.Len(t, msgs, 2)
}

func TestDecodeIntoUnparseableError(t *testing.T) {
	err := decodeInto(fakeResponse(http.StatusBadGateway, `<html>boom</html>`), nil)
	require.Error(t, err)

	apiErr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, []string{"Opération impossible."}, apiErr.Messages())
}

func TestErrorNotFound(t *testing.T) {
	assert.True(t, (&Error{Status: http.StatusNotFound}).NotFound())
	assert.False(t, (&Error{Status: http.StatusBadRequest}).NotFound())
}

func TestProductFilterEncode(t *testing.T) {
	assert.Equal(t, "", ProductFilter{}.encode())
	assert.Equal(t, "", ProductFilter{Page: 1}.encode())
	assert.Equal(t, "?search=v%C3%A9lo", ProductFilter{Search: "vélo"}.encode())
	assert.Equal(t, "?category=3&page=2", ProductFilter{Category: 3, Page: 2}.encode())
	assert.Equal(t, "?mine=1", ProductFilter{Mine: true}.encode())
}

// newTestAPI branche la surface typée sur une fausse API HTTP
func newTestAPI(t *testing.T, srv *httptest.Server) *API {
	t.Helper()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/products/", nil)

	cfg := &config.Config{APIBase: srv.URL, LoginPath: config.DefaultLoginPath}
	sess := session.NewStore("test-secret").Current(w, c.Request)
	return New(gateway.New(c, cfg, sess))
}

func TestProductsPaginatedEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"count":12,"next":"?page=2","previous":null,"results":[{"id":1,"name":"Vélo de route"}]}`))
	}))
	defer srv.Close()

	page, err := newTestAPI(t, srv).Products(ProductFilter{})
	require.NoError(t, err)
	require.NotNil(t, page)

	assert.Equal(t, 12, page.Count)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "Vélo de route", page.Results[0].Name)
	assert.NotNil(t, page.Next)
}

func TestProductsRawListFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":1,"name":"Vélo"},{"id":2,"name":"Casque"}]`))
	}))
	defer srv.Close()

	page, err := newTestAPI(t, srv).Products(ProductFilter{})
	require.NoError(t, err)
	require.NotNil(t, page)

	assert.Equal(t, 2, page.Count)
	assert.Nil(t, page.Next)
	require.Len(t, page.Results, 2)
	assert.Equal(t, "Casque", page.Results[1].Name)
}

func TestCartDecodesNumbers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":1,"items":[{"id":10,"quantity":2,"price":"19.90","subtotal":"39.80"},{"id":11,"quantity":3,"price":"5.00","subtotal":"15.00"}],"total_price":"54.80"}`))
	}))
	defer srv.Close()

	cart, err := newTestAPI(t, srv).Cart(true)
	require.NoError(t, err)
	require.NotNil(t, cart)

	assert.Equal(t, 5, cart.TotalQuantity())
	assert.Equal(t, "19.90", cart.Items[0].Price.String())
	assert.Equal(t, "54.80", cart.TotalPrice.String())
}
