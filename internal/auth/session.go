package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"fashionhub/pkg/protocol"

	"github.com/gorilla/securecookie"
)

// CookieName is the name of the session cookie shared with the client.
const CookieName = protocol.SessionCookie

const sessionMaxAge = 30 * 24 * 60 * 60 // 30 days

// Errors for session management
var (
	ErrMissingSessionKey = errors.New("session keys not configured")
	ErrInvalidSessionKey = errors.New("invalid session key format")
)

// SessionConfig holds session manager configuration
type SessionConfig struct {
	// IsSecure sets the Secure flag on cookies (true for HTTPS)
	IsSecure bool
	// AllowInsecureKeys allows random key generation in dev mode
	// If false and keys are missing, NewSessionManager returns an error
	AllowInsecureKeys bool
	// HashKey and BlockKey are hex encoded, at least 32 bytes each.
	HashKey  string
	BlockKey string
}

// SessionManager handles secure cookie encoding/decoding
type SessionManager struct {
	sc       *securecookie.SecureCookie
	isSecure bool // Whether to set Secure flag on cookies
}

// SessionData is the signed payload of the session cookie.
// It carries the identity snapshot so /me needs no database round trip.
type SessionData struct {
	User      protocol.User `json:"user"`
	CreatedAt int64         `json:"created_at"`
}

// Track whether we've already warned about missing keys (warn only once)
var keyWarningOnce sync.Once

// NewSessionManager creates a new session manager.
// In production (AllowInsecureKeys=false), returns error if keys are not configured.
// In development (AllowInsecureKeys=true), generates random keys with a warning.
func NewSessionManager(cfg SessionConfig) (*SessionManager, error) {
	hashKey, generatedHash, err := getKey(cfg.HashKey, 32, cfg.AllowInsecureKeys)
	if err != nil {
		return nil, fmt.Errorf("hash key: %w", err)
	}

	blockKey, generatedBlock, err := getKey(cfg.BlockKey, 32, cfg.AllowInsecureKeys)
	if err != nil {
		return nil, fmt.Errorf("block key: %w", err)
	}

	if generatedHash || generatedBlock {
		keyWarningOnce.Do(func() {
			log.Println("WARNING: Session keys not configured. Using random keys - sessions will not persist across server restarts. Set SESSION_HASH_KEY and SESSION_BLOCK_KEY for production.")
		})
	}

	sc := securecookie.New(hashKey, blockKey)
	sc.MaxAge(sessionMaxAge)
	sc.SetSerializer(securecookie.JSONEncoder{})

	return &SessionManager{
		sc:       sc,
		isSecure: cfg.IsSecure,
	}, nil
}

// getKey decodes a configured hex key or generates a random one if allowed.
// The bool result reports whether the key was generated.
func getKey(keyHex string, length int, allowRandom bool) ([]byte, bool, error) {
	if keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) < length {
			return nil, false, ErrInvalidSessionKey
		}
		return key[:length], false, nil
	}

	if !allowRandom {
		return nil, false, ErrMissingSessionKey
	}

	key := make([]byte, length)
	if _, err := rand.Read(key); err != nil {
		return nil, false, err
	}
	return key, true, nil
}

// SetSession creates a signed session cookie holding the user snapshot.
func (sm *SessionManager) SetSession(w http.ResponseWriter, user protocol.User) error {
	data := SessionData{
		User:      user,
		CreatedAt: time.Now().Unix(),
	}

	encoded, err := sm.sc.Encode(CookieName, data)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    encoded,
		Path:     "/",
		MaxAge:   sessionMaxAge,
		Secure:   sm.isSecure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return nil
}

// GetSession reads and validates session cookie
func (sm *SessionManager) GetSession(r *http.Request) (*SessionData, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil, err
	}

	var data SessionData
	if err := sm.sc.Decode(CookieName, cookie.Value, &data); err != nil {
		return nil, err
	}

	return &data, nil
}

// ClearSession removes the session cookie
func (sm *SessionManager) ClearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   sm.isSecure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
