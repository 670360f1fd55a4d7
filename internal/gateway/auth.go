package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"velo_front_end/internal/cache"
	"velo_front_end/internal/config"
)

const (
	csrfEndpoint    = "/api/accounts/csrf/"
	logoutEndpoint  = "/api/accounts/logout/"
	refreshEndpoint = "/api/accounts/token/refresh/"

	csrfTTL       = 24 * time.Hour
	logoutTimeout = 2 * time.Second
)

// ensureCSRFToken retourne le token anti-forgery de la session : cache
// mémoire de la requête, puis Redis, puis l'endpoint dédié. Toute erreur
// dégrade en "" — on n'empêche jamais l'appel, le serveur est la référence.
func (g *Client) ensureCSRFToken() string {
	if g.csrfToken != "" {
		return g.csrfToken
	}

	sid := g.sess.ID()
	if cache.RedisClient != nil {
		if token, err := cache.GetCSRFToken(sid); err == nil && token != "" {
			g.csrfToken = token
			return token
		}
	}

	token := g.fetchCSRFToken()
	if token == "" {
		return ""
	}

	g.csrfToken = token
	if cache.RedisClient != nil {
		if err := cache.StoreCSRFToken(sid, token, csrfTTL); err != nil {
			log.Printf("⚠️ Impossible de mettre le token CSRF en cache: %v", err)
		}
	}
	return token
}

func (g *Client) fetchCSRFToken() string {
	req, err := http.NewRequestWithContext(g.c.Request.Context(), http.MethodGet, g.ResolveURL(csrfEndpoint), nil)
	if err != nil {
		return ""
	}
	req.Header.Set("Accept", "application/json")
	g.attachAuth(req)

	resp, err := g.http.Do(req)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()

	g.captureAPICookies(resp)
	if resp.StatusCode != http.StatusOK {
		return ""
	}

	var body struct {
		CSRFToken string `json:"csrfToken"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return ""
	}
	return body.CSRFToken
}

// accessToken retourne le Bearer courant, en tentant UN refresh si le
// token est expiré et qu'on détient un refresh token. Le refresh raté
// n'est pas une erreur : l'appel part quand même et le 401 fera le ménage.
func (g *Client) accessToken() string {
	token := g.sess.AccessToken()
	if token == "" || !tokenExpired(token) {
		return token
	}

	refresh := g.sess.RefreshToken()
	if refresh == "" {
		return token
	}

	payloadJSON, _ := json.Marshal(map[string]string{"refresh": refresh})
	req, err := http.NewRequestWithContext(g.c.Request.Context(), http.MethodPost, g.ResolveURL(refreshEndpoint), bytes.NewReader(payloadJSON))
	if err != nil {
		return token
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.http.Do(req)
	if err != nil {
		return token
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return token
	}

	var payload struct {
		Access string `json:"access"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil || payload.Access == "" {
		return token
	}

	g.sess.SetAccessToken(payload.Access)
	g.sess.Save()
	return payload.Access
}

// tokenExpired lit le claim exp sans vérifier la signature (la clé
// appartient à l'API, pas à nous)
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return time.Now().After(exp.Time)
}

// clearAuthAndRedirect est le traitement uniforme du 401/403 : logout
// best-effort côté API, purge complète des credentials locaux, puis
// redirection vers le login en gardant la page courante dans ?next=
func (g *Client) clearAuthAndRedirect() {
	g.bestEffortLogout()

	if cache.RedisClient != nil {
		if err := cache.DeleteCSRFToken(g.sess.ID()); err != nil {
			log.Printf("⚠️ Erreur suppression token CSRF: %v", err)
		}
	}
	g.sess.Clear()
	g.sess.Save()

	g.c.Redirect(http.StatusFound, LoginURL(g.cfg, ReturnPath(g.c.Request)))
	g.c.Abort()
}

// bestEffortLogout tente de clore la session côté serveur, avec une
// borne courte : si ça rate on redirige quand même
func (g *Client) bestEffortLogout() {
	ctx, cancel := context.WithTimeout(context.Background(), logoutTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.ResolveURL(logoutEndpoint), nil)
	if err != nil {
		return
	}
	if g.csrfToken != "" {
		req.Header.Set("X-CSRFToken", g.csrfToken)
	}
	g.attachAuth(req)

	resp, err := g.http.Do(req)
	if err != nil {
		return
	}
	resp.Body.Close()
}

// CurrentPath reconstruit chemin + query de la requête navigateur
func CurrentPath(r *http.Request) string {
	next := r.URL.Path
	if r.URL.RawQuery != "" {
		next += "?" + r.URL.RawQuery
	}
	return next
}

// ReturnPath choisit le ?next= d'une redirection login. Pour une
// navigation c'est la page courante ; pour une mutation (POST d'un
// formulaire) le chemin courant n'est pas une page affichable, on
// revient à la page d'origine via le Referer même-site. À défaut, ""
// laisse SafeNext replier sur le catalogue.
func ReturnPath(r *http.Request) string {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return CurrentPath(r)
	}

	ref, err := url.Parse(r.Referer())
	if err != nil || ref.Path == "" {
		return ""
	}
	if ref.Host != "" && ref.Host != r.Host {
		return ""
	}

	next := ref.Path
	if ref.RawQuery != "" {
		next += "?" + ref.RawQuery
	}
	return next
}

// SafeNext valide un chemin de retour : même site (commence par "/"),
// et jamais la page de login elle-même, sinon repli sur /products/
func SafeNext(cfg *config.Config, next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return config.DefaultNextPath
	}
	if strings.HasPrefix(next, cfg.LoginPath) {
		return config.DefaultNextPath
	}
	return next
}

// LoginURL construit l'URL de login avec le ?next= sûr
func LoginURL(cfg *config.Config, next string) string {
	join := "?"
	if strings.Contains(cfg.LoginPath, "?") {
		join = "&"
	}
	return cfg.LoginPath + join + "next=" + url.QueryEscape(SafeNext(cfg, next))
}
