package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// StateReader cukup untuk gate; implementasinya state machine server.
type StateReader interface {
	IsReady() bool
	StateName() string
}

// RequireReady: semua route siswa ditolak 503 selama server belum "ready"
// (belum setup, atau download sedang berjalan).
func RequireReady(state StateReader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if state.IsReady() {
			return c.Next()
		}
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"message": "Server belum siap. Tunggu guru menyelesaikan download data.",
			"state":   state.StateName(),
		})
	}
}
