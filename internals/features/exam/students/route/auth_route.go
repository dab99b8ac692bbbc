package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	authController "ujianku_backend/internals/features/exam/students/controller"
	rateLimiter "ujianku_backend/internals/middlewares"
)

// AuthStudentRoutes: /api/login hanya lewat gate state; /api/logout butuh sesi.
func AuthStudentRoutes(api fiber.Router, db *gorm.DB, requireReady, requireSession fiber.Handler) {
	ctl := authController.NewAuthController(db)

	api.Post("/login", requireReady, rateLimiter.LoginRateLimiter(), ctl.Login)
	api.Post("/logout", requireReady, requireSession, ctl.Logout)
}
