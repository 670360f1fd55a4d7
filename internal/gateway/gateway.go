package gateway

import (
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"

	"velo_front_end/internal/config"
	"velo_front_end/internal/session"
)

// Verbes sûrs : jamais de token anti-forgery pour ceux-là
var safeMethods = map[string]bool{
	http.MethodGet:     true,
	http.MethodHead:    true,
	http.MethodOptions: true,
	http.MethodTrace:   true,
}

// Opts est le sac d'options de Do. Tout est optionnel.
type Opts struct {
	Method      string
	Body        io.Reader
	ContentType string // vide => application/json (sauf multipart : passer le content-type du writer)
	Headers     map[string]string
	// NoAuthRedirect désactive le nettoyage + redirection login sur 401/403
	// (utilisé par le rafraîchissement du badge pour ne pas éjecter un invité)
	NoAuthRedirect bool
}

// Client est la passerelle authentifiée vers l'API commerce. Une instance
// par requête navigateur : l'état credential vient de la session injectée,
// jamais d'une variable de package.
type Client struct {
	c    *gin.Context
	cfg  *config.Config
	sess *session.Session
	http *http.Client

	// Token CSRF déjà obtenu pendant CETTE requête navigateur
	csrfToken string
}

// New construit la passerelle pour la requête en cours
func New(c *gin.Context, cfg *config.Config, sess *session.Session) *Client {
	return &Client{
		c:    c,
		cfg:  cfg,
		sess: sess,
		http: http.DefaultClient,
	}
}

// WithHTTPClient remplace le client HTTP (tests)
func (g *Client) WithHTTPClient(h *http.Client) *Client {
	g.http = h
	return g
}

// ResolveURL résout un endpoint relatif contre la base API configurée.
// Les URLs absolues passent telles quelles ; base vide => same-origin,
// l'endpoint est résolu contre le host de la requête navigateur.
func (g *Client) ResolveURL(endpoint string) string {
	lower := strings.ToLower(endpoint)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return endpoint
	}
	if !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}
	if g.cfg.APIBase == "" {
		scheme := "http"
		if g.c.Request.TLS != nil {
			scheme = "https"
		}
		return scheme + "://" + g.c.Request.Host + endpoint
	}
	return strings.TrimRight(g.cfg.APIBase, "/") + endpoint
}

// Do envoie UNE requête vers l'API : injection CSRF + Authorization +
// cookies de session API, et sur 401/403 purge les credentials puis
// redirige vers le login. Dans ce cas le retour est (nil, nil) : le
// handler appelant doit juste s'arrêter.
//
// Pas de retry, pas de timeout, pas de backoff : un seul essai, c'est
// l'utilisateur qui recommence.
func (g *Client) Do(endpoint string, opts Opts) (*http.Response, error) {
	method := strings.ToUpper(opts.Method)
	if method == "" {
		method = http.MethodGet
	}

	// Verbe mutateur => il faut un token anti-forgery avant d'envoyer.
	// L'échec d'amorçage dégrade en "pas de token" : le serveur tranche.
	csrf := ""
	if !safeMethods[method] {
		csrf = g.ensureCSRFToken()
	}

	req, err := http.NewRequestWithContext(g.c.Request.Context(), method, g.ResolveURL(endpoint), opts.Body)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/json")
	if opts.ContentType != "" {
		req.Header.Set("Content-Type", opts.ContentType)
	} else {
		req.Header.Set("Content-Type", "application/json")
	}
	if csrf != "" {
		req.Header.Set("X-CSRFToken", csrf)
	}
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}

	g.attachAuth(req)

	resp, err := g.http.Do(req)
	if err != nil {
		return nil, err
	}

	g.captureAPICookies(resp)

	if !opts.NoAuthRedirect && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) {
		resp.Body.Close()
		g.clearAuthAndRedirect()
		return nil, nil
	}

	return resp, nil
}

// attachAuth rejoue les deux modes d'auth : cookies de session API et
// Bearer si on détient un access token (le backend a connu les deux)
func (g *Client) attachAuth(req *http.Request) {
	if cookies := g.sess.APICookies(); cookies != "" {
		req.Header.Set("Cookie", cookies)
	}
	if token := g.accessToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// captureAPICookies absorbe les Set-Cookie de l'API dans la session
// navigateur (l'équivalent de credentials: 'include')
func (g *Client) captureAPICookies(resp *http.Response) {
	newCookies := resp.Cookies()
	if len(newCookies) == 0 {
		return
	}

	jar := map[string]string{}
	for _, part := range strings.Split(g.sess.APICookies(), "; ") {
		if name, value, ok := strings.Cut(part, "="); ok {
			jar[name] = value
		}
	}
	for _, ck := range newCookies {
		if ck.MaxAge < 0 {
			delete(jar, ck.Name)
			continue
		}
		jar[ck.Name] = ck.Value
	}

	var parts []string
	for name, value := range jar {
		parts = append(parts, name+"="+value)
	}
	// Ordre stable : l'itération de map changerait l'en-tête à chaque requête
	sort.Strings(parts)
	g.sess.SetAPICookies(strings.Join(parts, "; "))
	g.sess.Save()
}
