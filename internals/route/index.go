// file: internals/route/index.go
package routes

import (
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	assignmentRoute "ujianku_backend/internals/features/exam/assignments/route"
	quizRoute "ujianku_backend/internals/features/exam/quizzes/route"
	sessionService "ujianku_backend/internals/features/exam/sessions/service"
	studentRoute "ujianku_backend/internals/features/exam/students/route"
	stateRoute "ujianku_backend/internals/features/server/state/route"
	stateService "ujianku_backend/internals/features/server/state/service"
	imageService "ujianku_backend/internals/features/sync/images/service"
	uploadRoute "ujianku_backend/internals/features/sync/upload/route"
	uploadService "ujianku_backend/internals/features/sync/upload/service"
	helper "ujianku_backend/internals/helpers"
	middlewares "ujianku_backend/internals/middlewares"
	authMiddleware "ujianku_backend/internals/middlewares/auth"
	stateMiddleware "ujianku_backend/internals/middlewares/features"
)

var startTime time.Time

type Deps struct {
	DB       *gorm.DB
	Machine  *stateService.Machine
	Upload   *uploadService.UploadService
	ImageDir string
}

// NewApp: fiber + sonic + middleware global.
func NewApp(corsOrigins string) *fiber.App {
	app := fiber.New(fiber.Config{
		// 🚀 JSON super cepat
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		DisableStartupMessage: true,
		ErrorHandler:          helper.ErrorHandler,
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          30 * time.Second,
		IdleTimeout:           90 * time.Second,
	})
	middlewares.SetupMiddlewares(app, corsOrigins)
	return app
}

func SetupRoutes(app *fiber.App, d Deps) {
	startTime = time.Now()

	BaseRoutes(app, d.DB, d.Machine)

	// gambar soal hasil download
	app.Static(imageService.PublicPrefix, d.ImageDir, fiber.Static{
		MaxAge: 3600,
	})

	requireReady := stateMiddleware.RequireReady(d.Machine)
	requireSession := authMiddleware.RequireSession(sessionService.NewSessionService(d.DB))

	api := app.Group("/api")

	// ===================== GURU / SERVER =====================
	log.Debug().Msg("[ROUTE] Mounting server & teacher routes...")
	stateRoute.ServerStateRoutes(api, d.DB, d.Machine)
	uploadRoute.UploadTeacherRoutes(api.Group("/teacher"), d.Upload)

	// ===================== SISWA =====================
	log.Debug().Msg("[ROUTE] Mounting student routes...")
	studentRoute.AuthStudentRoutes(api, d.DB, requireReady, requireSession)
	quizRoute.QuizStudentRoutes(api.Group("/quizzes", requireReady, requireSession), d.DB)
	assignmentRoute.AssignmentStudentRoutes(api.Group("/assignments", requireReady, requireSession), d.DB)
}
