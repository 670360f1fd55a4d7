package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"velo_front_end/internal/cache"
)

const (
	// Limites par endpoint
	LoginMaxAttempts = 5

	// Durées de cooldown
	LoginCooldown = 15 * time.Minute
)

// LoginRateLimit limite les tentatives de connexion par nom d'utilisateur.
// Sans Redis (tests, dev minimal) le middleware laisse passer.
func LoginRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if cache.RedisClient == nil {
			c.Next()
			return
		}

		username := c.PostForm("username")
		if username == "" {
			c.Next()
			return
		}

		ctx := context.Background()
		cooldownKey := "login_cooldown:" + username

		// Vérifier si l'utilisateur est en cooldown
		if cache.RedisClient.Exists(ctx, cooldownKey).Val() > 0 {
			ttl := cache.RedisClient.TTL(ctx, cooldownKey).Val()
			minutes := int(ttl.Minutes())
			msg := fmt.Sprintf("Trop de tentatives échouées. Réessayez dans %d minutes.", minutes)

			// Retour sur la page de login (même chemin, query conservée)
			target := c.Request.URL.Path
			sep := "?"
			if c.Request.URL.RawQuery != "" {
				target += "?" + c.Request.URL.RawQuery
				sep = "&"
			}
			c.Redirect(http.StatusFound, target+sep+"toast="+url.QueryEscape(msg)+"&toast_type=danger")
			c.Abort()
			return
		}

		c.Next()

		// Un login raté incrémente le compteur ; un succès le remet à zéro
		attemptsKey := "login_attempts:" + username
		if c.Writer.Status() == http.StatusUnauthorized || c.GetBool("login_failed") {
			attempts, err := cache.RedisClient.Incr(ctx, attemptsKey).Result()
			if err != nil {
				return
			}
			cache.RedisClient.Expire(ctx, attemptsKey, LoginCooldown)

			if attempts >= LoginMaxAttempts {
				cache.RedisClient.Set(ctx, cooldownKey, "1", LoginCooldown)
				cache.RedisClient.Del(ctx, attemptsKey)
			}
			return
		}

		cache.RedisClient.Del(ctx, attemptsKey)
	}
}
