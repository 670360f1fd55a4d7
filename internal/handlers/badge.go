package handlers

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"velo_front_end/internal/cache"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Autoriser toutes les origines (à ajuster en production)
		return true
	},
}

// BadgeCount renvoie le compteur du badge en JSON. Pour un client
// connecté on resynchronise depuis le panier ; pour un invité on rend
// juste l'état courant — jamais de redirection login pour un badge.
func (h *Handlers) BadgeCount(c *gin.Context) {
	a, sess := h.client(c)
	h.refreshBadgeFromCart(a, sess)

	c.JSON(http.StatusOK, gin.H{"count": h.badge.Count(sess.ID())})
}

// BadgeWS pousse chaque nouvelle valeur du badge vers tous les onglets
// ouverts de la session (navbar synchronisée sans rechargement)
func (h *Handlers) BadgeWS(c *gin.Context) {
	sess := h.store.Current(c.Writer, c.Request)
	sid := sess.ID()
	sess.Save()

	// Upgrade vers WebSocket
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("❌ Erreur upgrade WebSocket: %v", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Détecter la fermeture côté navigateur
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	// Envoyer un message de connexion avec l'état courant
	conn.WriteJSON(map[string]interface{}{
		"type":  "connected",
		"count": h.badge.Count(sid),
	})

	updates := make(chan int, 8)

	if cache.RedisClient != nil {
		// Fan-out multi-instances via Redis, comme la synchro panier historique
		pubsub := cache.SubscribeBadge(ctx, sid)
		defer pubsub.Close()

		go func() {
			for msg := range pubsub.Channel() {
				if n, err := strconv.Atoi(msg.Payload); err == nil {
					select {
					case updates <- n:
					case <-ctx.Done():
						return
					}
				}
			}
		}()
	} else {
		// Sans Redis : diffusion in-process uniquement
		unsubscribe := h.badge.Subscribe(sid, func(count int) {
			select {
			case updates <- count:
			default:
			}
		})
		defer unsubscribe()
	}

	// Boucle d'écoute
	for {
		select {
		case count := <-updates:
			if err := conn.WriteJSON(map[string]interface{}{
				"type":  "badge_updated",
				"count": count,
			}); err != nil {
				log.Printf("❌ Erreur envoi WebSocket: %v", err)
				return
			}
		case <-time.After(30 * time.Second):
			// Ping pour garder la connexion active
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
