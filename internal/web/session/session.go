package session

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/pkg/errors"

	"github.com/mediatekformation/mediatekformation/internal/db/models"
)

// CookieName is the cookie carrying the session id.
const CookieName = "session"

// Flash kinds, used as css classes.
const (
	FlashSuccess = "success"
	FlashError   = "danger"
)

// ErrNoSession is returned when the request carries no session cookie.
var ErrNoSession = errors.New("no session")

var (
	// Store is the global session store instance.
	Store *session.Store

	expiry = 12 * time.Hour //nolint:mnd
)

// Flash is a notice shown once on the next page.
type Flash struct {
	Kind    string
	Message string
}

// Data represents the session data structure.
type Data struct {
	User    models.User
	Flashes []Flash
}

// Write writes the session data for the given session ID.
func (s *Data) Write(sessionID string) error {
	out, err := json.Marshal(s)
	if err != nil {
		return errors.Wrap(err, "failed to encode session")
	}

	return Store.Storage.Set(sessionID, out, expiry) //nolint:wrapcheck
}

// Read reads the session data for the given session ID.
func (s *Data) Read(sessionID string) error {
	if sessionID == "" {
		return ErrNoSession
	}

	byteData, err := Store.Storage.Get(sessionID)
	if err != nil {
		return errors.Wrap(err, "failed to read session")
	}

	if len(byteData) == 0 {
		return ErrNoSession
	}

	return json.Unmarshal(byteData, s) //nolint:wrapcheck
}

// AddFlash queues a notice.
func (s *Data) AddFlash(kind, message string) {
	s.Flashes = append(s.Flashes, Flash{Kind: kind, Message: message})
}

// PopFlashes returns and forgets the queued notices.
func (s *Data) PopFlashes() []Flash {
	out := s.Flashes
	s.Flashes = nil

	return out
}

// FromRequest reads the session of the request.
func FromRequest(c *fiber.Ctx) (*Data, string, error) {
	id := c.Cookies(CookieName)
	data := new(Data)

	if err := data.Read(id); err != nil {
		return nil, id, err
	}

	return data, id, nil
}

// AddFlash queues a notice in the request's session.
func AddFlash(c *fiber.Ctx, kind, message string) error {
	data, id, err := FromRequest(c)
	if err != nil {
		return err
	}

	data.AddFlash(kind, message)

	return data.Write(id)
}

// PopFlashes takes the queued notices of the request's session.
func PopFlashes(c *fiber.Ctx) []Flash {
	data, id, err := FromRequest(c)
	if err != nil || len(data.Flashes) == 0 {
		return nil
	}

	flashes := data.PopFlashes()
	if err := data.Write(id); err != nil {
		return nil
	}

	return flashes
}

// Destroy removes a session.
func Destroy(sessionID string) error {
	if sessionID == "" {
		return nil
	}

	return Store.Storage.Delete(sessionID) //nolint:wrapcheck
}

// Init initializes the session store. A nil storage keeps sessions in memory.
func Init(storage fiber.Storage, exp time.Duration) {
	Store = session.New(session.Config{
		Storage:        storage,
		Expiration:     exp,
		KeyLookup:      "cookie:" + CookieName,
		CookieHTTPOnly: true,
	})

	if exp > 0 {
		expiry = exp
	}
}

// Expiry is the lifetime of a session.
func Expiry() time.Duration {
	return expiry
}

// GenerateSessionID generates a new secure random session ID.
func GenerateSessionID() (string, error) {
	// 32 bytes = 256 bits
	b := make([]byte, 32) //nolint:mnd
	if _, err := rand.Read(b); err != nil {
		return "", errors.Wrap(err, "failed to read random bytes")
	}
	return hex.EncodeToString(b), nil
}
