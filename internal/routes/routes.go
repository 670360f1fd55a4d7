package routes

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"velo_front_end/internal/config"
	"velo_front_end/internal/handlers"
	"velo_front_end/internal/middleware"
	"velo_front_end/internal/session"
)

// RegisterRoutes câble toutes les pages du front. Les pages panier /
// commandes / profil sont derrière LoginRequired : un invité part au
// login AVANT le moindre appel API. L'espace /seller/ est réservé aux
// vendeurs.
func RegisterRoutes(r *gin.Engine, h *handlers.Handlers, cfg *config.Config, store *session.Store) {
	// En mode standalone le bundle statique peut vivre ailleurs
	if cfg.Standalone() && len(cfg.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE"},
			AllowHeaders:     []string{"Content-Type", "X-CSRFToken"},
			AllowCredentials: true,
		}))
	}

	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, config.DefaultNextPath)
	})

	// Catalogue : accessible aux invités
	r.GET("/products/", h.ProductsPage)
	r.GET("/products/:id/", h.ProductDetailPage)

	// Authentification
	r.GET(cfg.LoginPath, h.LoginPage)
	r.POST(cfg.LoginPath, middleware.LoginRateLimit(), h.LoginSubmit)
	r.GET("/register/", h.RegisterPage)
	r.POST("/register/", h.RegisterSubmit)
	r.POST("/logout/", h.Logout)

	// Badge panier : jamais de redirection login ici
	r.GET("/api/badge/", h.BadgeCount)
	r.GET("/ws/badge", h.BadgeWS)

	// Espace client
	customer := r.Group("/", middleware.LoginRequired(cfg, store))
	{
		customer.POST("/cart/add/", h.AddToCart)
		customer.GET("/cart/", h.CartPage)
		customer.POST("/cart/items/:id/", h.UpdateCartItem)
		customer.POST("/cart/items/:id/delete/", h.DeleteCartItem)
		customer.POST("/cart/checkout/", h.CheckoutSubmit)

		customer.GET("/orders/", h.OrderHistoryPage)
		customer.GET("/orders/track/:id/", h.OrderTrackPage)
		customer.POST("/orders/:id/status/", h.OrderStatusSubmit)
		customer.POST("/orders/:id/line-status/", h.OrderLineStatusSubmit)
		customer.GET("/orders/:id/qr.png", h.OrderTrackQR)
		customer.GET("/orders/:id/print/", h.OrderReceiptPrint)
		customer.GET("/orders/:id/receipt.pdf", h.OrderReceiptPDF)

		customer.GET("/profile/", h.ProfilePage)
		customer.POST("/profile/", h.ProfileUpdate)
		customer.POST("/profile/addresses/", h.AddressCreate)
		customer.POST("/profile/addresses/:id/", h.AddressUpdate)
		customer.POST("/profile/addresses/:id/delete/", h.AddressDelete)
		customer.POST("/profile/addresses/:id/set-default/", h.AddressSetDefault)
		customer.POST("/profile/payment-methods/", h.PaymentMethodCreate)
		customer.POST("/profile/payment-methods/:id/", h.PaymentMethodUpdate)
		customer.POST("/profile/payment-methods/:id/delete/", h.PaymentMethodDelete)
		customer.POST("/profile/payment-methods/:id/set-default/", h.PaymentMethodSetDefault)
	}

	// Espace vendeur
	seller := r.Group("/seller", middleware.SellerRequired(cfg, store))
	{
		seller.GET("/", h.SellerDashboardPage)
		seller.POST("/products/", h.SellerProductCreate)
		seller.POST("/products/:id/", h.SellerProductUpdate)
		seller.POST("/products/:id/delete/", h.SellerProductDelete)
		seller.POST("/items/", h.SellerItemCreate)
		seller.POST("/items/:id/", h.SellerItemUpdate)
		seller.POST("/items/:id/delete/", h.SellerItemDelete)
		seller.GET("/orders/", h.SellerOrdersPage)
		seller.GET("/profile/", h.SellerProfilePage)
	}
}
