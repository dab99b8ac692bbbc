// file: internals/features/exam/assignments/dto/assignment_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	model "ujianku_backend/internals/features/exam/assignments/model"
)

type AssignmentListItem struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Type        string     `json:"assignment_type"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	SubjectName string     `json:"subject_name"`
	ClassName   string     `json:"class_name"`

	Submitted   bool       `json:"submitted"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
}

func FromAssignmentModel(m *model.AssignmentModel) AssignmentListItem {
	return AssignmentListItem{
		ID:          m.AssignmentID,
		Title:       m.AssignmentTitle,
		Description: m.AssignmentDescription,
		Type:        m.AssignmentType,
		DueDate:     m.AssignmentDueDate,
		SubjectName: m.AssignmentSubjectName,
		ClassName:   m.AssignmentClassName,
	}
}

type SubmitAssignmentRequest struct {
	Answer string `json:"answer" validate:"required"`
}

type SubmitAssignmentResponse struct {
	Message     string    `json:"message"`
	SubmittedAt time.Time `json:"submitted_at"`
}
