// file: internals/features/exam/students/dto/login_dto.go
package dto

import (
	"github.com/google/uuid"

	model "ujianku_backend/internals/features/exam/students/model"
)

type LoginRequest struct {
	NIS string `json:"nis" validate:"required,max=50"`
}

type StudentResponse struct {
	ID    uuid.UUID `json:"id"`
	NIS   string    `json:"nis"`
	Nama  string    `json:"nama"`
	Kelas string    `json:"kelas"`
}

type LoginResponse struct {
	Token   string          `json:"token"`
	Student StudentResponse `json:"student"`
}

func FromStudentModel(m *model.StudentModel) StudentResponse {
	return StudentResponse{
		ID:    m.StudentID,
		NIS:   m.StudentNIS,
		Nama:  m.StudentNama,
		Kelas: m.StudentKelas,
	}
}
