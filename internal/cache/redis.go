package cache

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"velo_front_end/internal/config"
)

var (
	RedisClient *redis.Client
	ctx         = context.Background()
)

// InitRedis initialise la connexion Redis
func InitRedis(cfg *config.Config) error {
	if cfg.RedisHost == "" {
		return fmt.Errorf("REDIS_HOST non configuré")
	}

	RedisClient = redis.NewClient(&redis.Options{
		Addr:         cfg.RedisHost,
		Password:     cfg.RedisPassword,
		DB:           0, // Base de données par défaut
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	// Test de connexion
	_, err := RedisClient.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("impossible de se connecter à Redis: %v", err)
	}

	log.Println("✅ Redis connecté avec succès")
	return nil
}

// Ctx expose le contexte de fond du package (warmup au démarrage)
func Ctx() context.Context {
	return ctx
}

// CloseRedis ferme la connexion Redis
func CloseRedis() error {
	if RedisClient != nil {
		return RedisClient.Close()
	}
	return nil
}

// --- Tokens CSRF (un par session navigateur) ---

// StoreCSRFToken garde le token anti-forgery pour la durée de la session
func StoreCSRFToken(sessionID, token string, duration time.Duration) error {
	key := fmt.Sprintf("csrf:%s", sessionID)
	return RedisClient.Set(ctx, key, token, duration).Err()
}

// GetCSRFToken récupère le token anti-forgery mis en cache
func GetCSRFToken(sessionID string) (string, error) {
	key := fmt.Sprintf("csrf:%s", sessionID)
	return RedisClient.Get(ctx, key).Result()
}

// DeleteCSRFToken supprime le token (logout ou session expirée côté API)
func DeleteCSRFToken(sessionID string) error {
	key := fmt.Sprintf("csrf:%s", sessionID)
	return RedisClient.Del(ctx, key).Err()
}

// --- Taxonomie (catégories / variations changent rarement) ---

// StoreTaxonomy met en cache la réponse JSON brute d'un endpoint de taxonomie
func StoreTaxonomy(name string, payload []byte) error {
	key := fmt.Sprintf("taxonomy:%s", name)
	return RedisClient.Set(ctx, key, payload, 10*time.Minute).Err()
}

// GetTaxonomy récupère une taxonomie mise en cache, "" si absente
func GetTaxonomy(name string) ([]byte, error) {
	key := fmt.Sprintf("taxonomy:%s", name)
	data, err := RedisClient.Get(ctx, key).Bytes()
	if err != nil {
		return nil, err
	}
	return data, nil
}

// --- Canal badge panier ---

// BadgeChannel retourne le canal pub/sub du badge pour une session
func BadgeChannel(sessionID string) string {
	return "badge:" + sessionID
}

// PublishBadge notifie toutes les connexions WebSocket de la session
func PublishBadge(sessionID string, count int) error {
	return RedisClient.Publish(ctx, BadgeChannel(sessionID), count).Err()
}

// SubscribeBadge s'abonne aux mises à jour du badge d'une session
func SubscribeBadge(c context.Context, sessionID string) *redis.PubSub {
	return RedisClient.Subscribe(c, BadgeChannel(sessionID))
}
