// file: internals/features/exam/quizzes/controller/quiz_controller.go
package controller

import (
	"errors"

	validator "github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	qdto "ujianku_backend/internals/features/exam/quizzes/dto"
	qservice "ujianku_backend/internals/features/exam/quizzes/service"
	helper "ujianku_backend/internals/helpers"
)

type QuizController struct {
	Service   *qservice.QuizService
	validator *validator.Validate
}

func NewQuizController(db *gorm.DB) *QuizController {
	return &QuizController{
		Service:   qservice.NewQuizService(db),
		validator: validator.New(),
	}
}

// GET /api/quizzes
func (ctl *QuizController) List(c *fiber.Ctx) error {
	studentID, err := helper.GetStudentID(c)
	if err != nil {
		return err
	}
	items, err := ctl.Service.ListQuizzes(c.UserContext(), studentID)
	if err != nil {
		log.Error().Err(err).Msg("[QUIZ] list gagal")
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil daftar kuis")
	}
	return c.JSON(items)
}

// GET /api/quizzes/:id
func (ctl *QuizController) Get(c *fiber.Ctx) error {
	studentID, err := helper.GetStudentID(c)
	if err != nil {
		return err
	}
	quizID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, qservice.ErrQuizNotFound.Error())
	}

	detail, err := ctl.Service.GetQuiz(c.UserContext(), studentID, quizID)
	if err != nil {
		return ctl.fail(c, err)
	}
	return c.JSON(detail)
}

// POST /api/quizzes/:id/submit
func (ctl *QuizController) Submit(c *fiber.Ctx) error {
	studentID, err := helper.GetStudentID(c)
	if err != nil {
		return err
	}
	quizID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, qservice.ErrQuizNotFound.Error())
	}

	var req qdto.SubmitQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	if err := ctl.validator.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	res, err := ctl.Service.SubmitQuiz(c.UserContext(), studentID, quizID, req.Answers)
	if err != nil {
		return ctl.fail(c, err)
	}
	return c.JSON(res)
}

func (ctl *QuizController) fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, qservice.ErrQuizNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, qservice.ErrAlreadySubmitted):
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	default:
		log.Error().Err(err).Str("path", c.Path()).Msg("[QUIZ] gagal")
		return helper.JsonError(c, fiber.StatusInternalServerError, "Terjadi kesalahan pada server")
	}
}
