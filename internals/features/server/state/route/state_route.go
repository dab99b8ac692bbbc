package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	stateController "ujianku_backend/internals/features/server/state/controller"
	stateRepository "ujianku_backend/internals/features/server/state/repository"
	stateService "ujianku_backend/internals/features/server/state/service"
	rateLimiter "ujianku_backend/internals/middlewares"
)

// ServerStateRoutes: /api/server/state (publik, dipoll UI) + /api/teacher/{setup,summary}.
func ServerStateRoutes(api fiber.Router, db *gorm.DB, m *stateService.Machine) {
	ctl := stateController.NewStateController(m, stateRepository.NewSummaryRepository(db))

	api.Get("/server/state", ctl.GetState)

	teacher := api.Group("/teacher")
	teacher.Post("/setup", rateLimiter.TeacherActionRateLimiter(), ctl.Setup)
	teacher.Get("/summary", ctl.GetSummary)
}
