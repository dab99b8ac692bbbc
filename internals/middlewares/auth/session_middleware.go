// internals/middlewares/auth/session_middleware.go
package auth

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	sessionService "ujianku_backend/internals/features/exam/sessions/service"
	helper "ujianku_backend/internals/helpers"
)

// SessionResolver: token sesi → student_id.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (uuid.UUID, error)
}

// RequireSession memastikan request membawa token sesi yang valid.
// student_id disimpan di Locals untuk handler berikutnya.
func RequireSession(sessions SessionResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := helper.GetSessionToken(c)
		if token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Token sesi tidak ditemukan, silakan login")
		}

		studentID, err := sessions.Resolve(c.UserContext(), token)
		if errors.Is(err, sessionService.ErrSessionNotFound) {
			return fiber.NewError(fiber.StatusUnauthorized, "Sesi tidak valid, silakan login ulang")
		}
		if err != nil {
			log.Error().Err(err).Msg("[AUTH] gagal memeriksa sesi")
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal memeriksa sesi")
		}

		c.Locals(helper.LocStudentID, studentID.String())
		c.Locals(helper.LocSessionToken, token)
		return c.Next()
	}
}
