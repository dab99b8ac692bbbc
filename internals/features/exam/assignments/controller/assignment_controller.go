// file: internals/features/exam/assignments/controller/assignment_controller.go
package controller

import (
	"errors"

	validator "github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	adto "ujianku_backend/internals/features/exam/assignments/dto"
	aservice "ujianku_backend/internals/features/exam/assignments/service"
	helper "ujianku_backend/internals/helpers"
)

type AssignmentController struct {
	Service   *aservice.AssignmentService
	validator *validator.Validate
}

func NewAssignmentController(db *gorm.DB) *AssignmentController {
	return &AssignmentController{
		Service:   aservice.NewAssignmentService(db),
		validator: validator.New(),
	}
}

// GET /api/assignments
func (ctl *AssignmentController) List(c *fiber.Ctx) error {
	studentID, err := helper.GetStudentID(c)
	if err != nil {
		return err
	}
	items, err := ctl.Service.ListAssignments(c.UserContext(), studentID)
	if err != nil {
		log.Error().Err(err).Msg("[ASSIGNMENT] list gagal")
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil daftar tugas")
	}
	return c.JSON(items)
}

// POST /api/assignments/:id/submit
func (ctl *AssignmentController) Submit(c *fiber.Ctx) error {
	studentID, err := helper.GetStudentID(c)
	if err != nil {
		return err
	}
	assignmentID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, aservice.ErrAssignmentNotFound.Error())
	}

	var req adto.SubmitAssignmentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	if err := ctl.validator.Struct(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, aservice.ErrEmptyAnswer.Error())
	}

	res, err := ctl.Service.SubmitAssignment(c.UserContext(), studentID, assignmentID, req.Answer)
	switch {
	case err == nil:
		return c.JSON(res)
	case errors.Is(err, aservice.ErrEmptyAnswer), errors.Is(err, aservice.ErrAlreadySubmitted):
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, aservice.ErrAssignmentNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, err.Error())
	default:
		log.Error().Err(err).Msg("[ASSIGNMENT] submit gagal")
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menyimpan tugas")
	}
}
