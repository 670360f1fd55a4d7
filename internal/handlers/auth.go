package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"velo_front_end/internal/cache"
	"velo_front_end/internal/config"
	"velo_front_end/internal/gateway"
	"velo_front_end/internal/models"
	"velo_front_end/internal/utils"
)

// LoginPage affiche le formulaire de connexion, en conservant le ?next=
func (h *Handlers) LoginPage(c *gin.Context) {
	h.render(c, http.StatusOK, "login.html", gin.H{
		"Title": "Connexion",
		"Next":  c.Query("next"),
	})
}

// LoginSubmit appelle /api/accounts/login/, stocke la paire de tokens,
// détermine le user type via le profil, puis redirige :
// next même-site s'il existe, sinon /seller/ pour un vendeur, /products/ sinon
func (h *Handlers) LoginSubmit(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")

	if username == "" || password == "" {
		h.render(c, http.StatusBadRequest, "login.html", gin.H{
			"Title": "Connexion",
			"Next":  c.PostForm("next"),
			"Error": "Nom d'utilisateur et mot de passe obligatoires.",
		})
		return
	}

	a, sess := h.client(c)

	out, err := a.Login(username, password)
	if err != nil {
		c.Set("login_failed", true)
		status := http.StatusBadGateway
		msg := "Impossible de joindre le serveur."
		if _, ok := err.(*apiError); ok {
			status = http.StatusUnauthorized
			msg = "Identifiants incorrects."
		}
		h.render(c, status, "login.html", gin.H{
			"Title": "Connexion",
			"Next":  c.PostForm("next"),
			"Error": msg,
		})
		return
	}
	if out == nil {
		return
	}

	sess.SetCredentials(out.Access, out.Refresh, username)
	sess.Save()

	// Le user type vient du profil, jamais d'une supposition locale.
	// Appel silencieux : un échec ici ne doit pas casser le login.
	userType := ""
	if prof, err := a.Me(true); err == nil && prof != nil {
		userType = prof.UserType
		sess.SetUserType(userType)
		sess.Save()
	}

	next := c.PostForm("next")
	if next == "" {
		next = c.Query("next")
	}
	// Même-site uniquement, et jamais la page de login elle-même :
	// un next=/login/ renverrait l'utilisateur connecté sur le formulaire
	if next != "" && strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") &&
		!strings.HasPrefix(next, h.cfg.LoginPath) {
		c.Redirect(http.StatusFound, next)
		return
	}

	if userType == "seller" {
		c.Redirect(http.StatusFound, "/seller/")
		return
	}
	c.Redirect(http.StatusFound, config.DefaultNextPath)
}

// RegisterPage affiche le formulaire d'inscription (client ou vendeur)
func (h *Handlers) RegisterPage(c *gin.Context) {
	a, _ := h.client(c)

	countries, err := a.Countries()
	if err != nil {
		log.Printf("⚠️ Chargement des pays impossible: %v", err)
	}

	h.render(c, http.StatusOK, "register.html", gin.H{
		"Title":     "Créer un compte",
		"Countries": countries,
		"Input":     models.RegisterInput{},
	})
}

// RegisterSubmit valide côté front (miroir des règles serveur) puis
// crée le compte. La réponse du serveur reste la référence.
func (h *Handlers) RegisterSubmit(c *gin.Context) {
	input := models.RegisterInput{
		Username:    strings.TrimSpace(c.PostForm("username")),
		Password:    c.PostForm("password"),
		Email:       strings.TrimSpace(c.PostForm("email")),
		UserType:    c.DefaultPostForm("user_type", "customer"),
		PhoneNumber: strings.TrimSpace(c.PostForm("phone_number")),
		StoreName:   strings.TrimSpace(c.PostForm("store_name")),
		TaxNumber:   strings.TrimSpace(c.PostForm("tax_number")),
		SellerPhone: strings.TrimSpace(c.PostForm("seller_phone")),
		Country:     atoi(c.PostForm("country")),
	}

	if errs := utils.ValidateRegister(input); len(errs) > 0 {
		h.render(c, http.StatusBadRequest, "register.html", gin.H{
			"Title":  "Créer un compte",
			"Errors": errs,
			"Input":  input,
		})
		return
	}

	a, _ := h.client(c)
	if err := a.Register(input); err != nil {
		errs := []string{toastForError(err)}
		if apiErr, ok := err.(*apiError); ok {
			errs = apiErr.Messages()
		}
		h.render(c, http.StatusBadRequest, "register.html", gin.H{
			"Title":  "Créer un compte",
			"Errors": errs,
			"Input":  input,
		})
		return
	}

	redirectWithToast(c, h.cfg.LoginPath, "Compte créé, connectez-vous !", "success")
}

// Logout : logout API best-effort, purge locale inconditionnelle,
// retour au login. Deux étapes explicites, jamais une promesse oubliée.
func (h *Handlers) Logout(c *gin.Context) {
	a, sess := h.client(c)

	if err := a.Logout(); err != nil {
		log.Printf("⚠️ Logout API raté (on continue): %v", err)
	}

	if cache.RedisClient != nil {
		if err := cache.DeleteCSRFToken(sess.ID()); err != nil {
			log.Printf("⚠️ Erreur suppression token CSRF: %v", err)
		}
	}
	h.badge.Set(sess.ID(), 0)
	sess.Clear()
	sess.Save()

	c.Redirect(http.StatusFound, gateway.LoginURL(h.cfg, config.DefaultNextPath))
}
