// Package csrf issues and checks the anti-forgery tokens of delete forms.
//
// A token is the HMAC-SHA256 of the session id and an intent such as
// "formation_delete_12", so it is only valid for one action on one record
// within one session.
package csrf

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// FieldName is the form field carrying the token.
const FieldName = "_token"

// Manager signs intents with the application secret.
type Manager struct {
	secret []byte
}

// New returns a Manager using secret.
func New(secret string) *Manager {
	return &Manager{secret: []byte(secret)}
}

// Token returns the token of intent for the session.
func (m *Manager) Token(sessionID, intent string) string {
	mac := hmac.New(sha256.New, m.secret)
	mac.Write([]byte(sessionID))
	mac.Write([]byte{'|'})
	mac.Write([]byte(intent))

	return hex.EncodeToString(mac.Sum(nil))
}

// Valid reports whether token matches intent for the session.
func (m *Manager) Valid(sessionID, intent, token string) bool {
	if sessionID == "" || token == "" {
		return false
	}

	return hmac.Equal([]byte(m.Token(sessionID, intent)), []byte(token))
}

// DeleteIntent names the deletion of record id of kind.
func DeleteIntent(kind string, id uint) string {
	return fmt.Sprintf("%s_delete_%d", kind, id)
}
