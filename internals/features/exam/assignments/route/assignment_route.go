package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	assignmentController "ujianku_backend/internals/features/exam/assignments/controller"
)

// Base: /api/assignments (gate dipasang oleh pemanggil)
func AssignmentStudentRoutes(r fiber.Router, db *gorm.DB) {
	ctl := assignmentController.NewAssignmentController(db)

	r.Get("/", ctl.List)              // GET  /api/assignments
	r.Post("/:id/submit", ctl.Submit) // POST /api/assignments/:id/submit
}
