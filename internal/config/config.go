package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config regroupe la surface de configuration runtime du front.
// Les mêmes binaires tournent en mode same-origin (APIBase vide, l'API
// est derrière le même host) ou en mode standalone (APIBase absolu).
type Config struct {
	Port          string
	APIBase       string
	LoginPath     string
	MediaURL      string
	SessionSecret string
	RedisHost     string
	RedisPassword string
	// Origines autorisées pour le CORS en mode standalone
	AllowedOrigins []string
}

const (
	DefaultLoginPath = "/login/"
	DefaultMediaURL  = "/media/"
	// Chemin de repli quand le "next" demandé n'est pas sûr
	DefaultNextPath = "/products/"
)

func Load() {
	err := godotenv.Load(".env")
	if err != nil {
		log.Println("⚠️  Aucun fichier .env trouvé — on continue avec les variables d'environnement du système")
	} else {
		log.Println("✅ Fichier .env chargé avec succès")
	}
}

// FromEnv construit la config depuis l'environnement avec les mêmes
// valeurs par défaut que l'ancien bundle navigateur.
func FromEnv() *Config {
	cfg := &Config{
		Port:          getenv("PORT", "8080"),
		APIBase:       strings.TrimRight(os.Getenv("VELO_API_BASE"), "/"),
		LoginPath:     getenv("VELO_LOGIN_PATH", DefaultLoginPath),
		MediaURL:      getenv("VELO_MEDIA_URL", DefaultMediaURL),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		RedisHost:     os.Getenv("REDIS_HOST"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
	}

	if origins := os.Getenv("VELO_ALLOWED_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	}

	if cfg.APIBase == "" {
		log.Println("ℹ️  VELO_API_BASE vide — mode same-origin")
	} else {
		log.Println("ℹ️  Mode standalone, API:", cfg.APIBase)
	}

	return cfg
}

// Standalone indique si l'API vit sur un host séparé.
func (c *Config) Standalone() bool {
	return c.APIBase != ""
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
