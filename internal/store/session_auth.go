package store

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"time"
)

const (
	authPrefix     = "authsession:"
	authSessionTTL = 24 * time.Hour
)

type authSession struct {
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// CreateAuthSession creates a new admin auth session token.
func (s *Store) CreateAuthSession() (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}
	now := time.Now()
	data, err := json.Marshal(authSession{CreatedAt: now, ExpiresAt: now.Add(authSessionTTL)})
	if err != nil {
		return "", err
	}
	if err := s.Set(authPrefix+token, data); err != nil {
		return "", err
	}
	return token, nil
}

// ValidAuthSession reports whether the token names a live session.
// Expired sessions are deleted on sight.
func (s *Store) ValidAuthSession(token string) (bool, error) {
	if token == "" {
		return false, nil
	}
	data, err := s.Get(authPrefix + token)
	if err != nil || data == nil {
		return false, err
	}
	var sess authSession
	if err := json.Unmarshal(data, &sess); err != nil {
		return false, err
	}
	if time.Now().After(sess.ExpiresAt) {
		_ = s.Delete(authPrefix + token)
		return false, nil
	}
	return true, nil
}

// DeleteAuthSession removes a session token.
func (s *Store) DeleteAuthSession(token string) error {
	return s.Delete(authPrefix + token)
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
