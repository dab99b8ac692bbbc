// file: internals/features/server/state/controller/state_controller.go
package controller

import (
	"errors"
	"strings"

	validator "github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	dto "ujianku_backend/internals/features/server/state/dto"
	repository "ujianku_backend/internals/features/server/state/repository"
	stateService "ujianku_backend/internals/features/server/state/service"
	helper "ujianku_backend/internals/helpers"
)

type StateController struct {
	Machine   *stateService.Machine
	Summary   *repository.SummaryRepository
	validator *validator.Validate
}

func NewStateController(m *stateService.Machine, summary *repository.SummaryRepository) *StateController {
	return &StateController{
		Machine:   m,
		Summary:   summary,
		validator: validator.New(),
	}
}

// GET /api/server/state
func (ctl *StateController) GetState(c *fiber.Ctx) error {
	return c.JSON(ctl.Machine.Snapshot())
}

// POST /api/teacher/setup
// Download berjalan di background; progres dipantau lewat GET /api/server/state.
func (ctl *StateController) Setup(c *fiber.Ctx) error {
	var req dto.SetupRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	req.NIP = strings.TrimSpace(req.NIP)
	if err := ctl.validator.Struct(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "NIP wajib diisi")
	}

	if _, err := ctl.Machine.StartDownload(req.NIP); err != nil {
		if errors.Is(err, stateService.ErrDownloadInProgress) || errors.Is(err, stateService.ErrAlreadyReady) {
			return helper.JsonError(c, fiber.StatusConflict, err.Error())
		}
		log.Error().Err(err).Msg("[SETUP] gagal memulai download")
		return helper.JsonError(c, fiber.StatusConflict, err.Error())
	}

	return c.Status(fiber.StatusAccepted).JSON(dto.SetupResponse{
		Message: "Download data dimulai",
		State:   string(stateService.StateDownloading),
	})
}

// GET /api/teacher/summary
func (ctl *StateController) GetSummary(c *fiber.Ctx) error {
	snap := ctl.Machine.Snapshot()
	out := dto.LocalSummary{
		State:        string(snap.State),
		TeacherName:  snap.TeacherName,
		DownloadTime: snap.DownloadTime,
		LastDownload: ctl.Machine.LastSummary(),
	}
	if err := ctl.Summary.Fill(c.UserContext(), &out); err != nil {
		log.Error().Err(err).Msg("[SUMMARY] gagal")
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membaca ringkasan data")
	}
	return c.JSON(out)
}
