package repository

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	assignmentModel "ujianku_backend/internals/features/exam/assignments/model"
	quizModel "ujianku_backend/internals/features/exam/quizzes/model"
	studentModel "ujianku_backend/internals/features/exam/students/model"
	dto "ujianku_backend/internals/features/server/state/dto"
)

type SummaryRepository struct {
	DB *gorm.DB
}

func NewSummaryRepository(db *gorm.DB) *SummaryRepository {
	return &SummaryRepository{DB: db}
}

// Fill mengisi hitungan baris lokal ke out.
func (r *SummaryRepository) Fill(ctx context.Context, out *dto.LocalSummary) error {
	db := r.DB.WithContext(ctx)

	const (
		quizPending       = "quiz_submission_uploaded = ? AND quiz_submission_skipped_at IS NULL"
		quizSkipped       = "quiz_submission_uploaded = ? AND quiz_submission_skipped_at IS NOT NULL"
		assignmentPending = "assignment_submission_uploaded = ? AND assignment_submission_skipped_at IS NULL"
		assignmentSkipped = "assignment_submission_uploaded = ? AND assignment_submission_skipped_at IS NOT NULL"
	)

	counts := []struct {
		model any
		where string
		dst   *int64
	}{
		{&studentModel.StudentModel{}, "", &out.Students},
		{&quizModel.QuizModel{}, "", &out.Quizzes},
		{&quizModel.QuizQuestionModel{}, "", &out.Questions},
		{&assignmentModel.AssignmentModel{}, "", &out.Assignments},
		{&quizModel.QuizSubmissionModel{}, "", &out.QuizSubmissions.Total},
		{&quizModel.QuizSubmissionModel{}, quizPending, &out.QuizSubmissions.Pending},
		{&quizModel.QuizSubmissionModel{}, quizSkipped, &out.QuizSubmissions.Skipped},
		{&assignmentModel.AssignmentSubmissionModel{}, "", &out.AssignmentSubmissions.Total},
		{&assignmentModel.AssignmentSubmissionModel{}, assignmentPending, &out.AssignmentSubmissions.Pending},
		{&assignmentModel.AssignmentSubmissionModel{}, assignmentSkipped, &out.AssignmentSubmissions.Skipped},
	}
	for _, c := range counts {
		q := db.Model(c.model)
		if c.where != "" {
			q = q.Where(c.where, false)
		}
		if err := q.Count(c.dst).Error; err != nil {
			return errors.Wrap(err, "gagal menghitung data lokal")
		}
	}
	return nil
}
