// file: internals/helpers/token.go
package helper

import (
	"crypto/rand"
	"encoding/hex"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	SessionHeader   = "X-Session-Token"
	LocStudentID    = "student_id"
	LocSessionToken = "session_token"
	sessionTokenLen = 32
)

// GenerateSessionToken: 32 byte acak → 64 karakter hex.
func GenerateSessionToken() (string, error) {
	b := make([]byte, sessionTokenLen)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// GetSessionToken mengambil token sesi dari header X-Session-Token.
// Prefix "Bearer " ditoleransi.
func GetSessionToken(c *fiber.Ctx) string {
	raw := strings.TrimSpace(c.Get(SessionHeader))
	const p = "Bearer "
	if len(raw) > len(p) && strings.EqualFold(raw[:len(p)], p) {
		raw = strings.TrimSpace(raw[len(p):])
	}
	return raw
}
