// file: internals/features/exam/students/controller/auth_controller.go
package controller

import (
	"errors"

	validator "github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	sessionService "ujianku_backend/internals/features/exam/sessions/service"
	sdto "ujianku_backend/internals/features/exam/students/dto"
	sservice "ujianku_backend/internals/features/exam/students/service"
	helper "ujianku_backend/internals/helpers"
)

type AuthController struct {
	Service   *sservice.LoginService
	validator *validator.Validate
}

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{
		Service:   sservice.NewLoginService(db, sessionService.NewSessionService(db)),
		validator: validator.New(),
	}
}

// POST /api/login
func (ctl *AuthController) Login(c *fiber.Ctx) error {
	var req sdto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	if err := ctl.validator.Struct(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "NIS wajib diisi")
	}

	res, err := ctl.Service.Login(c.UserContext(), req.NIS)
	if errors.Is(err, sservice.ErrStudentNotFound) {
		return helper.JsonError(c, fiber.StatusNotFound, err.Error())
	}
	if err != nil {
		log.Error().Err(err).Msg("[LOGIN] gagal")
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal login")
	}
	return c.JSON(res)
}

// POST /api/logout
func (ctl *AuthController) Logout(c *fiber.Ctx) error {
	token, _ := c.Locals(helper.LocSessionToken).(string)
	if err := ctl.Service.Logout(c.UserContext(), token); err != nil {
		log.Error().Err(err).Msg("[LOGOUT] gagal")
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal logout")
	}
	return c.JSON(fiber.Map{"message": "Berhasil keluar"})
}
