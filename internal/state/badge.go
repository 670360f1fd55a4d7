package state

import (
	"log"
	"sync"

	"velo_front_end/internal/cache"
)

// Listener reçoit chaque nouvelle valeur du badge
type Listener func(count int)

// Broadcaster découple "quelque chose a changé le panier" de "tous les
// badges affichant le compteur doivent se mettre à jour". Le compteur
// n'est JAMAIS incrémenté localement : il est recalculé comme la somme
// des quantités renvoyées par la dernière lecture réussie du panier.
//
// Contrairement au bundle navigateur d'origine, le front sert plusieurs
// sessions en parallèle : l'état est par session et protégé par mutex.
type Broadcaster struct {
	mu        sync.RWMutex
	counts    map[string]int
	listeners map[string]map[int]Listener
	nextID    int
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		counts:    make(map[string]int),
		listeners: make(map[string]map[int]Listener),
	}
}

// Set enregistre le nouveau compteur d'une session et notifie tout le
// monde. Valeur négative => 0. Diffuser ne peut pas échouer : une
// erreur Redis est loguée et la diffusion locale continue.
func (b *Broadcaster) Set(sessionID string, count int) {
	if count < 0 {
		count = 0
	}

	b.mu.Lock()
	b.counts[sessionID] = count
	var fns []Listener
	for _, fn := range b.listeners[sessionID] {
		fns = append(fns, fn)
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn(count)
	}

	if cache.RedisClient != nil {
		if err := cache.PublishBadge(sessionID, count); err != nil {
			log.Printf("⚠️ Erreur publication badge: %v", err)
		}
	}
}

// Count retourne le dernier compteur connu (0 pour un invité)
func (b *Broadcaster) Count(sessionID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.counts[sessionID]
}

// Subscribe attache un listener aux diffusions d'une session et
// retourne la fonction de désabonnement
func (b *Broadcaster) Subscribe(sessionID string, fn Listener) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.listeners[sessionID] == nil {
		b.listeners[sessionID] = make(map[int]Listener)
	}
	id := b.nextID
	b.nextID++
	b.listeners[sessionID][id] = fn

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.listeners[sessionID], id)
		if len(b.listeners[sessionID]) == 0 {
			delete(b.listeners, sessionID)
		}
	}
}
