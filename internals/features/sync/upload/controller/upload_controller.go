// file: internals/features/sync/upload/controller/upload_controller.go
package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	uploadService "ujianku_backend/internals/features/sync/upload/service"
	helper "ujianku_backend/internals/helpers"
)

type UploadController struct {
	Service *uploadService.UploadService
}

func NewUploadController(svc *uploadService.UploadService) *UploadController {
	return &UploadController{Service: svc}
}

// POST /api/teacher/upload
// ?retry_skipped=true → baris yang pernah ditolak pusat (FK) ikut dikirim ulang.
func (ctl *UploadController) Upload(c *fiber.Ctx) error {
	opts := uploadService.Options{RetrySkipped: c.QueryBool("retry_skipped", false)}
	res, err := ctl.Service.Upload(c.UserContext(), opts)
	switch {
	case err == nil:
		return c.JSON(res)
	case errors.Is(err, uploadService.ErrOffline):
		return helper.JsonError(c, fiber.StatusServiceUnavailable, err.Error())
	case errors.Is(err, uploadService.ErrUploadInProgress):
		return helper.JsonError(c, fiber.StatusConflict, err.Error())
	default:
		log.Error().Err(err).Msg("[UPLOAD] gagal")
		return helper.JsonError(c, fiber.StatusInternalServerError, "Upload gagal")
	}
}

// GET /api/teacher/upload
func (ctl *UploadController) Status(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"running": ctl.Service.Running()})
}
