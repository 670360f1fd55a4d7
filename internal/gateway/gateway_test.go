package gateway

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"velo_front_end/internal/config"
	"velo_front_end/internal/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testCfg(apiBase string) *config.Config {
	return &config.Config{
		APIBase:   apiBase,
		LoginPath: config.DefaultLoginPath,
		MediaURL:  config.DefaultMediaURL,
	}
}

// newTestContext fabrique un contexte gin + session vierge pour une
// requête navigateur vers target
func newTestContext(t *testing.T, target string) (*gin.Context, *httptest.ResponseRecorder, *session.Session) {
	t.Helper()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)

	store := session.NewStore("test-secret")
	sess := store.Current(w, c.Request)
	return c, w, sess
}

// apiCall est la trace d'une requête reçue par la fausse API
type apiCall struct {
	Method string
	Path   string
	CSRF   string
	Auth   string
	Cookie string
}

// fakeAPI enregistre chaque appel et répond selon handle
func fakeAPI(t *testing.T, handle func(w http.ResponseWriter, r *http.Request) bool) (*httptest.Server, func() []apiCall) {
	t.Helper()

	var mu sync.Mutex
	var calls []apiCall

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls = append(calls, apiCall{
			Method: r.Method,
			Path:   r.URL.Path,
			CSRF:   r.Header.Get("X-CSRFToken"),
			Auth:   r.Header.Get("Authorization"),
			Cookie: r.Header.Get("Cookie"),
		})
		mu.Unlock()

		if handle != nil && handle(w, r) {
			return
		}
		if r.URL.Path == "/api/accounts/csrf/" {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"csrfToken":"tok-csrf"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	return srv, func() []apiCall {
		mu.Lock()
		defer mu.Unlock()
		out := make([]apiCall, len(calls))
		copy(out, calls)
		return out
	}
}

func TestDoSafeMethodSkipsCSRF(t *testing.T) {
	srv, calls := fakeAPI(t, nil)
	c, _, sess := newTestContext(t, "/products/")

	gw := New(c, testCfg(srv.URL), sess)
	resp, err := gw.Do("/api/products/", Opts{})
	require.NoError(t, err)
	require.NotNil(t, resp)
	resp.Body.Close()

	got := calls()
	require.Len(t, got, 1, "un GET ne doit pas amorcer le token anti-forgery")
	assert.Equal(t, http.MethodGet, got[0].Method)
	assert.Empty(t, got[0].CSRF)
}

func TestDoMutatingMethodPrimesCSRF(t *testing.T) {
	srv, calls := fakeAPI(t, nil)
	c, _, sess := newTestContext(t, "/cart/")

	gw := New(c, testCfg(srv.URL), sess)
	resp, err := gw.Do("/api/cart/cart-items/", Opts{
		Method: http.MethodPost,
		Body:   strings.NewReader(`{"product_item":1,"quantity":2}`),
	})
	require.NoError(t, err)
	require.NotNil(t, resp)
	resp.Body.Close()

	got := calls()
	require.Len(t, got, 2)
	assert.Equal(t, "/api/accounts/csrf/", got[0].Path)
	assert.Equal(t, http.MethodPost, got[1].Method)
	assert.Equal(t, "tok-csrf", got[1].CSRF)
}

func TestDoMemoizesCSRFWithinRequest(t *testing.T) {
	srv, calls := fakeAPI(t, nil)
	c, _, sess := newTestContext(t, "/cart/")

	gw := New(c, testCfg(srv.URL), sess)
	for i := 0; i < 2; i++ {
		resp, err := gw.Do("/api/cart/cart-items/", Opts{Method: http.MethodPost})
		require.NoError(t, err)
		require.NotNil(t, resp)
		resp.Body.Close()
	}

	var primes int
	for _, call := range calls() {
		if call.Path == "/api/accounts/csrf/" {
			primes++
		}
	}
	assert.Equal(t, 1, primes, "le token doit être amorcé une seule fois par requête navigateur")
}

func TestDoAttachesCredentials(t *testing.T) {
	srv, calls := fakeAPI(t, nil)
	c, _, sess := newTestContext(t, "/cart/")
	sess.SetCredentials(freshToken(t), "refresh", "alice")
	sess.SetAPICookies("sessionid=abc")

	gw := New(c, testCfg(srv.URL), sess)
	resp, err := gw.Do("/api/cart/", Opts{})
	require.NoError(t, err)
	require.NotNil(t, resp)
	resp.Body.Close()

	got := calls()
	require.Len(t, got, 1)
	assert.True(t, strings.HasPrefix(got[0].Auth, "Bearer "))
	assert.Equal(t, "sessionid=abc", got[0].Cookie)
}

func TestDoUnauthorizedClearsSessionAndRedirects(t *testing.T) {
	srv, _ := fakeAPI(t, func(w http.ResponseWriter, r *http.Request) bool {
		if r.URL.Path == "/api/cart/" {
			w.WriteHeader(http.StatusUnauthorized)
			return true
		}
		return false
	})
	c, w, sess := newTestContext(t, "/cart/")
	sess.SetCredentials(freshToken(t), "refresh", "alice")

	gw := New(c, testCfg(srv.URL), sess)
	resp, err := gw.Do("/api/cart/", Opts{})
	require.NoError(t, err)
	assert.Nil(t, resp, "après redirection le handler ne doit rien recevoir")

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login/?next=%2Fcart%2F", w.Header().Get("Location"))
	assert.False(t, sess.IsAuthenticated())
	assert.True(t, c.IsAborted())
}

func TestDoForbiddenRedirectsToo(t *testing.T) {
	srv, _ := fakeAPI(t, func(w http.ResponseWriter, r *http.Request) bool {
		if r.URL.Path == "/api/orders/5/" {
			w.WriteHeader(http.StatusForbidden)
			return true
		}
		return false
	})
	c, w, sess := newTestContext(t, "/orders/track/5/")

	gw := New(c, testCfg(srv.URL), sess)
	resp, err := gw.Do("/api/orders/5/", Opts{})
	require.NoError(t, err)
	assert.Nil(t, resp)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login/?next=%2Forders%2Ftrack%2F5%2F", w.Header().Get("Location"))
}

func TestDoNoAuthRedirectOptOut(t *testing.T) {
	srv, _ := fakeAPI(t, func(w http.ResponseWriter, r *http.Request) bool {
		if r.URL.Path == "/api/cart/" {
			w.WriteHeader(http.StatusUnauthorized)
			return true
		}
		return false
	})
	c, w, sess := newTestContext(t, "/products/")
	sess.SetCredentials(freshToken(t), "refresh", "alice")

	gw := New(c, testCfg(srv.URL), sess)
	resp, err := gw.Do("/api/cart/", Opts{NoAuthRedirect: true})
	require.NoError(t, err)
	require.NotNil(t, resp)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.NotEqual(t, http.StatusFound, w.Code, "pas de redirection quand l'appelant l'a désactivée")
	assert.True(t, sess.IsAuthenticated(), "les credentials restent en place")
}

func TestDoCapturesAPICookies(t *testing.T) {
	step := 0
	srv, _ := fakeAPI(t, func(w http.ResponseWriter, r *http.Request) bool {
		if r.URL.Path != "/api/accounts/me/" {
			return false
		}
		step++
		if step == 1 {
			w.Header().Add("Set-Cookie", "sessionid=abc; Path=/")
			w.Header().Add("Set-Cookie", "csrftoken=xyz; Path=/")
		} else {
			// Suppression du cookie de session par l'API
			w.Header().Add("Set-Cookie", "sessionid=; Max-Age=0")
		}
		w.WriteHeader(http.StatusOK)
		return true
	})
	c, _, sess := newTestContext(t, "/profile/")

	gw := New(c, testCfg(srv.URL), sess)

	resp, err := gw.Do("/api/accounts/me/", Opts{})
	require.NoError(t, err)
	resp.Body.Close()
	assert.Contains(t, sess.APICookies(), "sessionid=abc")
	assert.Contains(t, sess.APICookies(), "csrftoken=xyz")

	// Jar trié : l'en-tête Cookie rejoué est identique d'une requête à l'autre
	assert.Equal(t, "csrftoken=xyz; sessionid=abc", sess.APICookies())

	resp, err = gw.Do("/api/accounts/me/", Opts{})
	require.NoError(t, err)
	resp.Body.Close()
	assert.NotContains(t, sess.APICookies(), "sessionid=")
	assert.Equal(t, "csrftoken=xyz", sess.APICookies())
}

// En mode même-origine (API_BASE vide) la passerelle doit composer une
// URL absolue vers l'hôte du navigateur, sinon le client HTTP ne sait
// pas où se connecter
func TestDoSameOriginDialsBrowserHost(t *testing.T) {
	srv, calls := fakeAPI(t, nil)
	c, _, sess := newTestContext(t, "/products/")
	c.Request.Host = strings.TrimPrefix(srv.URL, "http://")

	gw := New(c, testCfg(""), sess)
	resp, err := gw.Do("/api/products/", Opts{})
	require.NoError(t, err)
	require.NotNil(t, resp)
	resp.Body.Close()

	got := calls()
	require.Len(t, got, 1)
	assert.Equal(t, "/api/products/", got[0].Path)
}

// Après un 401 sur une mutation, le ?next= doit pointer vers la page
// d'origine du formulaire (Referer), pas vers la route POST elle-même
func TestDoUnauthorizedOnPostRedirectsToReferer(t *testing.T) {
	srv, _ := fakeAPI(t, func(w http.ResponseWriter, r *http.Request) bool {
		if r.URL.Path == "/api/cart/cart-items/" {
			w.WriteHeader(http.StatusUnauthorized)
			return true
		}
		return false
	})
	c, w, sess := newTestContext(t, "/cart/add/")
	c.Request.Method = http.MethodPost
	c.Request.Header.Set("Referer", "http://example.com/products/5/")

	gw := New(c, testCfg(srv.URL), sess)
	resp, err := gw.Do("/api/cart/cart-items/", Opts{Method: http.MethodPost})
	require.NoError(t, err)
	assert.Nil(t, resp)
	// Sans corps de réponse (POST), gin ne pousse le statut vers le
	// recorder qu'en fin de chaîne de handlers ; on force l'écriture
	// comme le ferait le moteur
	c.Writer.WriteHeaderNow()
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login/?next=%2Fproducts%2F5%2F", w.Header().Get("Location"))
}

func TestDoRefreshesExpiredToken(t *testing.T) {
	newAccess := freshToken(t)
	srv, calls := fakeAPI(t, func(w http.ResponseWriter, r *http.Request) bool {
		if r.URL.Path == "/api/accounts/token/refresh/" {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"access":"` + newAccess + `"}`))
			return true
		}
		return false
	})
	c, _, sess := newTestContext(t, "/cart/")
	sess.SetCredentials(expiredToken(t), "refresh-tok", "alice")

	gw := New(c, testCfg(srv.URL), sess)
	resp, err := gw.Do("/api/cart/", Opts{})
	require.NoError(t, err)
	require.NotNil(t, resp)
	resp.Body.Close()

	got := calls()
	require.Len(t, got, 2)
	assert.Equal(t, "/api/accounts/token/refresh/", got[0].Path)
	assert.Equal(t, "Bearer "+newAccess, got[1].Auth)
	assert.Equal(t, newAccess, sess.AccessToken())
}

func TestResolveURL(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		endpoint string
		want     string
	}{
		{"same-origin", "", "/api/products/", "http://example.com/api/products/"},
		{"same-origin sans slash", "", "api/products/", "http://example.com/api/products/"},
		{"standalone", "http://api.local", "/api/products/", "http://api.local/api/products/"},
		{"sans slash", "http://api.local", "api/products/", "http://api.local/api/products/"},
		{"base avec slash final", "http://api.local/", "/api/products/", "http://api.local/api/products/"},
		{"absolue inchangée", "http://api.local", "https://cdn.local/img.png", "https://cdn.local/img.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _, sess := newTestContext(t, "/products/")
			gw := New(c, testCfg(tt.base), sess)
			assert.Equal(t, tt.want, gw.ResolveURL(tt.endpoint))
		})
	}
}

func TestSafeNext(t *testing.T) {
	cfg := testCfg("")

	tests := []struct {
		name string
		next string
		want string
	}{
		{"vide", "", "/products/"},
		{"relatif sans slash", "cart/", "/products/"},
		{"protocol-relative interdit", "//evil.example", "/products/"},
		{"absolu interdit", "https://evil.example/", "/products/"},
		{"page de login exclue", "/login/?next=/cart/", "/products/"},
		{"chemin sûr conservé", "/cart/", "/cart/"},
		{"avec query conservée", "/orders/track/5/?tab=lines", "/orders/track/5/?tab=lines"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SafeNext(cfg, tt.next))
		})
	}
}

func TestLoginURL(t *testing.T) {
	cfg := testCfg("")
	assert.Equal(t, "/login/?next=%2Fcart%2F", LoginURL(cfg, "/cart/"))
	assert.Equal(t, "/login/?next=%2Fproducts%2F", LoginURL(cfg, "//evil.example"))
}

func TestCurrentPath(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/products/?q=velo&page=2", nil)
	assert.Equal(t, "/products/?q=velo&page=2", CurrentPath(r))

	r = httptest.NewRequest(http.MethodGet, "/cart/", nil)
	assert.Equal(t, "/cart/", CurrentPath(r))
}

func TestReturnPath(t *testing.T) {
	tests := []struct {
		name    string
		method  string
		target  string
		referer string
		want    string
	}{
		{"navigation", http.MethodGet, "/cart/?tab=items", "", "/cart/?tab=items"},
		{"mutation avec referer même-site", http.MethodPost, "/cart/add/", "http://example.com/products/5/", "/products/5/"},
		{"mutation avec query dans le referer", http.MethodPost, "/cart/add/", "http://example.com/products/?page=2", "/products/?page=2"},
		{"mutation sans referer", http.MethodPost, "/cart/add/", "", ""},
		{"mutation referer autre site", http.MethodPost, "/cart/add/", "http://evil.example/products/", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(tt.method, tt.target, nil)
			if tt.referer != "" {
				r.Header.Set("Referer", tt.referer)
			}
			assert.Equal(t, tt.want, ReturnPath(r))
		})
	}
}

func TestTokenExpired(t *testing.T) {
	assert.True(t, tokenExpired(expiredToken(t)))
	assert.False(t, tokenExpired(freshToken(t)))
	assert.False(t, tokenExpired("pas-un-jwt"), "un token illisible part tel quel, le serveur tranche")
}

// freshTokenRaw est partagé avec le test de refresh pour comparer le
// Bearer renvoyé après renouvellement
var freshTokenRaw string

func freshToken(t *testing.T) string {
	t.Helper()
	if freshTokenRaw == "" {
		freshTokenRaw = signToken(t, time.Now().Add(time.Hour))
	}
	return freshTokenRaw
}

func expiredToken(t *testing.T) string {
	t.Helper()
	return signToken(t, time.Now().Add(-time.Hour))
}

func signToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": exp.Unix()})
	signed, err := token.SignedString([]byte("test-key"))
	require.NoError(t, err)
	return signed
}
