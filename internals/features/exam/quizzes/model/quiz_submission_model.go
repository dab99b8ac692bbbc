// file: internals/features/exam/quizzes/model/quiz_submission_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// QuizSubmissionModel: maksimal satu baris per (quiz, siswa) lewat unique index.
type QuizSubmissionModel struct {
	QuizSubmissionID          uint           `gorm:"column:quiz_submission_id;primaryKey;autoIncrement" json:"quiz_submission_id"`
	QuizSubmissionQuizID      uuid.UUID      `gorm:"column:quiz_submission_quiz_id;type:uuid;not null;uniqueIndex:uq_quiz_submissions_quiz_student,priority:1" json:"quiz_submission_quiz_id"`
	QuizSubmissionStudentID   uuid.UUID      `gorm:"column:quiz_submission_student_id;type:uuid;not null;uniqueIndex:uq_quiz_submissions_quiz_student,priority:2" json:"quiz_submission_student_id"`
	QuizSubmissionAnswers     datatypes.JSON `gorm:"column:quiz_submission_answers;type:json;not null" json:"quiz_submission_answers"`
	QuizSubmissionTotalScore  float64        `gorm:"column:quiz_submission_total_score;not null;default:0" json:"quiz_submission_total_score"`
	QuizSubmissionMaxScore    float64        `gorm:"column:quiz_submission_max_score;not null;default:0" json:"quiz_submission_max_score"`
	QuizSubmissionSubmittedAt time.Time      `gorm:"column:quiz_submission_submitted_at;not null" json:"quiz_submission_submitted_at"`
	QuizSubmissionUploaded    bool           `gorm:"column:quiz_submission_uploaded;not null;default:false;index:idx_quiz_submissions_uploaded" json:"quiz_submission_uploaded"`

	// Diisi saat remote menolak karena referensi (FK) hilang; baris ini tidak ikut upload otomatis.
	QuizSubmissionSkippedAt  *time.Time `gorm:"column:quiz_submission_skipped_at" json:"quiz_submission_skipped_at,omitempty"`
	QuizSubmissionSkipReason *string    `gorm:"column:quiz_submission_skip_reason;type:text" json:"quiz_submission_skip_reason,omitempty"`
}

func (QuizSubmissionModel) TableName() string { return "quiz_submissions" }

// GradedAnswer adalah satu elemen list jawaban yang sudah dinilai.
// IsCorrect nil untuk essay (dinilai manual di luar server ini).
type GradedAnswer struct {
	QuestionID uuid.UUID        `json:"question_id"`
	Type       QuizQuestionType `json:"type"`
	Answer     string           `json:"answer"`
	IsCorrect  *bool            `json:"is_correct"`
	Score      float64          `json:"score"`
	MaxScore   float64          `json:"max_score"`
}
