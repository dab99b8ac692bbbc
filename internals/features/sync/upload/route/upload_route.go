package route

import (
	"github.com/gofiber/fiber/v2"

	uploadController "ujianku_backend/internals/features/sync/upload/controller"
	uploadService "ujianku_backend/internals/features/sync/upload/service"
	rateLimiter "ujianku_backend/internals/middlewares"
)

// Base: /api/teacher
func UploadTeacherRoutes(r fiber.Router, svc *uploadService.UploadService) {
	ctl := uploadController.NewUploadController(svc)

	r.Get("/upload", ctl.Status)                                          // GET  /api/teacher/upload
	r.Post("/upload", rateLimiter.TeacherActionRateLimiter(), ctl.Upload) // POST /api/teacher/upload
}
