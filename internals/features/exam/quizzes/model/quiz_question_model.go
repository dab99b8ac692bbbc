// file: internals/features/exam/quizzes/model/quiz_question_model.go
package model

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type QuizQuestionType string

const (
	QuizQuestionTypeMultipleChoice QuizQuestionType = "MULTIPLE_CHOICE"
	QuizQuestionTypeEssay          QuizQuestionType = "ESSAY"
)

// ParseQuestionType menormalkan label tipe dari remote; selain pilihan ganda dianggap essay.
func ParseQuestionType(s string) QuizQuestionType {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "MULTIPLE_CHOICE", "MULTIPLE-CHOICE", "PILIHAN_GANDA", "SINGLE":
		return QuizQuestionTypeMultipleChoice
	default:
		return QuizQuestionTypeEssay
	}
}

type QuizQuestionModel struct {
	QuizQuestionID     uuid.UUID        `gorm:"column:quiz_question_id;type:uuid;primaryKey" json:"quiz_question_id"`
	QuizQuestionQuizID uuid.UUID        `gorm:"column:quiz_question_quiz_id;type:uuid;not null;index:idx_quiz_questions_quiz" json:"quiz_question_quiz_id"`
	QuizQuestionText   string           `gorm:"column:quiz_question_text;type:text;not null" json:"quiz_question_text"`
	QuizQuestionType   QuizQuestionType `gorm:"column:quiz_question_type;type:varchar(20);not null" json:"quiz_question_type"`

	// hanya untuk MULTIPLE_CHOICE
	QuizQuestionOptions datatypes.JSON `gorm:"column:quiz_question_options;type:json" json:"quiz_question_options,omitempty"`

	// kunci jawaban TIDAK pernah dikirim ke siswa
	QuizQuestionCorrectAnswer *string `gorm:"column:quiz_question_correct_answer;type:varchar(255)" json:"-"`

	QuizQuestionPoints   float64 `gorm:"column:quiz_question_points;not null;default:1" json:"quiz_question_points"`
	QuizQuestionOrder    int     `gorm:"column:quiz_question_order;not null;default:0" json:"quiz_question_order"`
	QuizQuestionImageURL *string `gorm:"column:quiz_question_image_url;type:varchar(255)" json:"quiz_question_image_url,omitempty"`
	QuizQuestionPassage  *string `gorm:"column:quiz_question_passage;type:text" json:"quiz_question_passage,omitempty"`
}

func (QuizQuestionModel) TableName() string { return "quiz_questions" }

func (m *QuizQuestionModel) IsMultipleChoice() bool {
	return m.QuizQuestionType == QuizQuestionTypeMultipleChoice
}

// NormalizeOptions: opsi hanya disimpan untuk pilihan ganda, dan harus JSON valid.
func NormalizeOptions(t QuizQuestionType, raw []byte) datatypes.JSON {
	if t != QuizQuestionTypeMultipleChoice || len(raw) == 0 || !json.Valid(raw) {
		return nil
	}
	s := strings.TrimSpace(string(raw))
	if s == "null" {
		return nil
	}
	return datatypes.JSON(s)
}
