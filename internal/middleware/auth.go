package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"velo_front_end/internal/config"
	"velo_front_end/internal/gateway"
	"velo_front_end/internal/session"
)

// LoginRequired protège une page : un invité part au login AVANT tout
// appel API (un "ajouter au panier" sans credential ne déclenche jamais
// le POST panier). Le ?next= est toujours une page affichable : la page
// courante pour un GET, la page d'origine du formulaire pour un POST.
func LoginRequired(cfg *config.Config, store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := store.Current(c.Writer, c.Request)
		if !sess.IsAuthenticated() {
			c.Redirect(http.StatusFound, gateway.LoginURL(cfg, gateway.ReturnPath(c.Request)))
			c.Abort()
			return
		}

		c.Set("username", sess.Username())
		c.Set("user_type", sess.UserType())
		c.Next()
	}
}

// SellerRequired réserve l'espace /seller/ aux vendeurs : un client
// connecté est renvoyé sur le catalogue, pas au login
func SellerRequired(cfg *config.Config, store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := store.Current(c.Writer, c.Request)
		if !sess.IsAuthenticated() {
			c.Redirect(http.StatusFound, gateway.LoginURL(cfg, gateway.ReturnPath(c.Request)))
			c.Abort()
			return
		}
		if !sess.IsSeller() {
			c.Redirect(http.StatusFound, config.DefaultNextPath)
			c.Abort()
			return
		}

		c.Set("username", sess.Username())
		c.Set("user_type", sess.UserType())
		c.Next()
	}
}
