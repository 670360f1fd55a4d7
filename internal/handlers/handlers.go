package handlers

import (
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"velo_front_end/internal/api"
	"velo_front_end/internal/config"
	"velo_front_end/internal/gateway"
	"velo_front_end/internal/session"
	"velo_front_end/internal/state"
)

// apiError raccourcit les assertions de type dans les contrôleurs
type apiError = api.Error

// Handlers porte les dépendances partagées de tous les contrôleurs de
// page. Aucun état mutable ici : les credentials vivent dans la session,
// le compteur badge dans le Broadcaster.
type Handlers struct {
	cfg   *config.Config
	store *session.Store
	badge *state.Broadcaster
}

func New(cfg *config.Config, store *session.Store, badge *state.Broadcaster) *Handlers {
	return &Handlers{cfg: cfg, store: store, badge: badge}
}

// Badge expose le broadcaster (endpoint WebSocket)
func (h *Handlers) Badge() *state.Broadcaster {
	return h.badge
}

// client construit la surface API typée pour la requête courante :
// une passerelle neuve branchée sur la session de CE navigateur
func (h *Handlers) client(c *gin.Context) (*api.API, *session.Session) {
	sess := h.store.Current(c.Writer, c.Request)
	return api.New(gateway.New(c, h.cfg, sess)), sess
}

// render ajoute aux données de page tout ce que le layout attend :
// identité, compteur badge, toast éventuel passé en query
func (h *Handlers) render(c *gin.Context, status int, tmpl string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}

	sess := h.store.Current(c.Writer, c.Request)
	data["Username"] = sess.Username()
	data["IsAuthenticated"] = sess.IsAuthenticated()
	data["IsSeller"] = sess.IsSeller()
	data["CartCount"] = h.badge.Count(sess.ID())
	data["LoginHref"] = gateway.LoginURL(h.cfg, gateway.CurrentPath(c.Request))

	if _, ok := data["Toast"]; !ok {
		if toast := c.Query("toast"); toast != "" {
			data["Toast"] = toast
			data["ToastType"] = c.DefaultQuery("toast_type", "info")
		}
	}

	c.HTML(status, tmpl, data)
}

// redirectWithToast renvoie sur target avec un message transitoire
func redirectWithToast(c *gin.Context, target, toast, toastType string) {
	sep := "?"
	if strings.Contains(target, "?") {
		sep = "&"
	}
	c.Redirect(http.StatusFound, target+sep+"toast="+url.QueryEscape(toast)+"&toast_type="+toastType)
}

// refreshBadgeFromCart relit le panier et rediffuse la somme des
// quantités. Best-effort : le badge ne doit jamais casser une page.
// Invités et vendeurs ne déclenchent aucun appel panier.
func (h *Handlers) refreshBadgeFromCart(a *api.API, sess *session.Session) {
	if !sess.IsAuthenticated() || sess.IsSeller() {
		return
	}

	cart, err := a.Cart(true)
	if err != nil || cart == nil {
		if err != nil {
			log.Printf("⚠️ Rafraîchissement badge impossible: %v", err)
		}
		return
	}
	h.badge.Set(sess.ID(), cart.TotalQuantity())
}

// toastForError choisit le message utilisateur d'une erreur d'appel API
func toastForError(err error) string {
	if apiErr, ok := err.(*api.Error); ok {
		msgs := apiErr.Messages()
		return strings.Join(msgs, " ")
	}
	return "Impossible de joindre le serveur."
}
