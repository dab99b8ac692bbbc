package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// GetStudentID membaca student_id yang diset RequireSession.
func GetStudentID(c *fiber.Ctx) (uuid.UUID, error) {
	raw, _ := c.Locals(LocStudentID).(string)
	if strings.TrimSpace(raw) == "" {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Sesi tidak ditemukan")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Sesi tidak valid")
	}
	return id, nil
}

// ParseUUIDParam: path param :id → uuid, 404 kalau bentuknya salah.
func ParseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Params(name)))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusNotFound, "Data tidak ditemukan")
	}
	return id, nil
}
