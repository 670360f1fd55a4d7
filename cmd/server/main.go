package main

import (
	"html/template"
	"log"

	"github.com/gin-gonic/gin"

	"velo_front_end/internal/cache"
	"velo_front_end/internal/config"
	"velo_front_end/internal/handlers"
	"velo_front_end/internal/routes"
	"velo_front_end/internal/session"
	"velo_front_end/internal/state"
	"velo_front_end/internal/utils"
)

func main() {
	config.Load()
	cfg := config.FromEnv()

	// Redis : cache CSRF, throttle login, fan-out du badge. Sans lui le
	// front tourne quand même en mode dégradé (diffusion in-process).
	if err := cache.InitRedis(cfg); err != nil {
		log.Printf("⚠️ Redis indisponible (%v) — cache et fan-out désactivés", err)
	} else {
		warmupRedisCache()
	}

	store := session.NewStore(cfg.SessionSecret)
	badge := state.NewBroadcaster()
	h := handlers.New(cfg, store, badge)

	r := gin.Default()
	r.SetFuncMap(template.FuncMap{
		"media": func(path string) string {
			return utils.NormalizeMediaURL(cfg.MediaURL, path)
		},
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
	})
	r.LoadHTMLGlob("web/templates/*.html")
	r.Static("/static", "./web/static")

	routes.RegisterRoutes(r, h, cfg, store)

	log.Println("🚀 Front Velo lancé sur le port", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("❌ Serveur arrêté:", err)
	}
}

// warmupRedisCache pré-chauffe la connexion Redis pour éviter la latence du premier appel
func warmupRedisCache() {
	if err := cache.RedisClient.Ping(cache.Ctx()).Err(); err == nil {
		log.Println("✅ Cache Redis pré-chauffé")
	}
}
