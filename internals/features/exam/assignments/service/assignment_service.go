// file: internals/features/exam/assignments/service/assignment_service.go
package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	database "ujianku_backend/internals/databases"
	dto "ujianku_backend/internals/features/exam/assignments/dto"
	model "ujianku_backend/internals/features/exam/assignments/model"
)

var (
	ErrAssignmentNotFound = errors.New("Tugas tidak ditemukan")
	ErrAlreadySubmitted   = errors.New("Tugas ini sudah kamu kumpulkan")
	ErrEmptyAnswer        = errors.New("Jawaban wajib diisi")
)

type AssignmentService struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewAssignmentService(db *gorm.DB) *AssignmentService {
	return &AssignmentService{
		DB:  db,
		Now: func() time.Time { return time.Now().UTC() },
	}
}

func (s *AssignmentService) ListAssignments(ctx context.Context, studentID uuid.UUID) ([]dto.AssignmentListItem, error) {
	db := s.DB.WithContext(ctx)

	var rows []model.AssignmentModel
	if err := db.Order("assignment_due_date IS NULL, assignment_due_date ASC, assignment_title ASC").
		Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "gagal mengambil tugas")
	}

	var subs []model.AssignmentSubmissionModel
	if err := db.Where("assignment_submission_student_id = ?", studentID).
		Find(&subs).Error; err != nil {
		return nil, errors.Wrap(err, "gagal mengambil submission tugas")
	}
	submittedAt := make(map[uuid.UUID]time.Time, len(subs))
	for _, sub := range subs {
		submittedAt[sub.AssignmentSubmissionAssignmentID] = sub.AssignmentSubmissionSubmittedAt
	}

	out := make([]dto.AssignmentListItem, 0, len(rows))
	for i := range rows {
		item := dto.FromAssignmentModel(&rows[i])
		if at, ok := submittedAt[rows[i].AssignmentID]; ok {
			item.Submitted = true
			item.SubmittedAt = &at
		}
		out = append(out, item)
	}
	return out, nil
}

func (s *AssignmentService) SubmitAssignment(ctx context.Context, studentID, assignmentID uuid.UUID, answer string) (*dto.SubmitAssignmentResponse, error) {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return nil, ErrEmptyAnswer
	}

	db := s.DB.WithContext(ctx)

	var n int64
	if err := db.Model(&model.AssignmentModel{}).
		Where("assignment_id = ?", assignmentID).
		Count(&n).Error; err != nil {
		return nil, errors.Wrap(err, "gagal mengambil tugas")
	}
	if n == 0 {
		return nil, ErrAssignmentNotFound
	}

	if err := db.Model(&model.AssignmentSubmissionModel{}).
		Where("assignment_submission_assignment_id = ? AND assignment_submission_student_id = ?", assignmentID, studentID).
		Count(&n).Error; err != nil {
		return nil, errors.Wrap(err, "gagal cek submission tugas")
	}
	if n > 0 {
		return nil, ErrAlreadySubmitted
	}

	row := model.AssignmentSubmissionModel{
		AssignmentSubmissionAssignmentID: assignmentID,
		AssignmentSubmissionStudentID:    studentID,
		AssignmentSubmissionAnswer:       answer,
		AssignmentSubmissionSubmittedAt:  s.Now(),
	}
	if err := db.Create(&row).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrAlreadySubmitted
		}
		return nil, errors.Wrap(err, "gagal menyimpan tugas")
	}

	log.Info().
		Str("assignment_id", assignmentID.String()).
		Str("student_id", studentID.String()).
		Msg("[ASSIGNMENT] submit")

	return &dto.SubmitAssignmentResponse{
		Message:     "Tugas berhasil dikumpulkan",
		SubmittedAt: row.AssignmentSubmissionSubmittedAt,
	}, nil
}
