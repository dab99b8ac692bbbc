package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	quizController "ujianku_backend/internals/features/exam/quizzes/controller"
)

/*
Catatan:
- Base: /api/quizzes
- Gate (state ready + sesi siswa) dipasang oleh pemanggil.
*/
func QuizStudentRoutes(r fiber.Router, db *gorm.DB) {
	ctl := quizController.NewQuizController(db)

	r.Get("/", ctl.List)              // GET  /api/quizzes
	r.Get("/:id", ctl.Get)            // GET  /api/quizzes/:id
	r.Post("/:id/submit", ctl.Submit) // POST /api/quizzes/:id/submit
}
