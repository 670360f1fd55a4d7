package session

import (
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

const (
	SessionName = "velo_session"

	// Mêmes clés que l'ancien localStorage du bundle navigateur
	keySessionID    = "sid"
	keyAccessToken  = "access_token"
	keyRefreshToken = "refresh_token"
	keyUsername     = "username"
	keyUserType     = "user_type"
	keyAPICookies   = "api_cookies"
)

// Store encapsule le cookie store gorilla partagé par tous les handlers
type Store struct {
	cookies *sessions.CookieStore
}

func NewStore(secret string) *Store {
	if secret == "" {
		log.Println("⚠️ SESSION_SECRET manquant — secret de dev utilisé, à ne JAMAIS faire en prod")
		secret = "velo_dev_secret"
	}

	store := sessions.NewCookieStore([]byte(secret))
	store.MaxAge(86400 * 30)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 30,
		HttpOnly: true,
		Secure:   false, // false en dev, true en prod
		SameSite: http.SameSiteLaxMode,
	}

	return &Store{cookies: store}
}

// Current récupère (ou crée) la session du navigateur courant
func (s *Store) Current(w http.ResponseWriter, r *http.Request) *Session {
	raw, err := s.cookies.Get(r, SessionName)
	if err != nil {
		// Cookie corrompu ou secret changé : on repart sur une session vierge
		raw, _ = s.cookies.New(r, SessionName)
	}
	return &Session{raw: raw, w: w, r: r}
}

// Session porte l'état credential d'UN navigateur : tokens, identité,
// cookies renvoyés par l'API. Tout est vidé d'un bloc au logout ou sur
// échec d'authentification.
type Session struct {
	raw *sessions.Session
	w   http.ResponseWriter
	r   *http.Request
}

// ID retourne l'identifiant stable de la session (clé Redis du CSRF et
// du canal badge). Généré au premier accès.
func (s *Session) ID() string {
	if id := s.getString(keySessionID); id != "" {
		return id
	}
	id := uuid.NewString()
	s.raw.Values[keySessionID] = id
	return id
}

func (s *Session) AccessToken() string  { return s.getString(keyAccessToken) }
func (s *Session) RefreshToken() string { return s.getString(keyRefreshToken) }
func (s *Session) Username() string     { return s.getString(keyUsername) }
func (s *Session) UserType() string     { return s.getString(keyUserType) }

// APICookies retourne l'en-tête Cookie à rejouer vers l'API (auth par
// session cookie, le mode historique du backend)
func (s *Session) APICookies() string { return s.getString(keyAPICookies) }

func (s *Session) IsAuthenticated() bool {
	return s.AccessToken() != "" || s.APICookies() != ""
}

func (s *Session) IsSeller() bool {
	return s.IsAuthenticated() && s.UserType() == "seller"
}

// SetCredentials enregistre le résultat d'un login réussi
func (s *Session) SetCredentials(access, refresh, username string) {
	s.raw.Values[keyAccessToken] = access
	s.raw.Values[keyRefreshToken] = refresh
	s.raw.Values[keyUsername] = username
}

func (s *Session) SetAccessToken(access string) {
	s.raw.Values[keyAccessToken] = access
}

func (s *Session) SetUserType(userType string) {
	s.raw.Values[keyUserType] = userType
}

func (s *Session) SetAPICookies(header string) {
	s.raw.Values[keyAPICookies] = header
}

// Clear vide TOUT l'état credential d'un coup (logout ou 401/403).
// L'identifiant de session est conservé pour que le badge WebSocket
// d'un invité continue de fonctionner.
func (s *Session) Clear() {
	id := s.ID()
	for k := range s.raw.Values {
		delete(s.raw.Values, k)
	}
	s.raw.Values[keySessionID] = id
}

// Save persiste la session dans le cookie de réponse
func (s *Session) Save() error {
	if err := s.raw.Save(s.r, s.w); err != nil {
		log.Printf("⚠️ Erreur sauvegarde session: %v", err)
		return err
	}
	return nil
}

func (s *Session) getString(key string) string {
	if v, ok := s.raw.Values[key].(string); ok {
		return v
	}
	return ""
}
