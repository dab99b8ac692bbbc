// file: internals/features/exam/quizzes/dto/quiz_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	model "ujianku_backend/internals/features/exam/quizzes/model"
)

/* =========================================================
   RESPONSE: list kuis (per siswa)
========================================================= */

type QuizResponse struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	Description     *string   `json:"description,omitempty"`
	SubjectName     string    `json:"subject_name"`
	ClassName       string    `json:"class_name"`
	DurationMinutes int       `json:"duration_minutes"`
	Randomize       bool      `json:"randomize_questions"`
}

type QuizListItem struct {
	QuizResponse
	QuestionCount int64 `json:"question_count"`

	// anotasi milik siswa yang login saja
	Submitted   bool       `json:"submitted"`
	Score       *float64   `json:"score,omitempty"`
	MaxScore    *float64   `json:"max_score,omitempty"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
}

func FromQuizModel(m *model.QuizModel) QuizResponse {
	return QuizResponse{
		ID:              m.QuizID,
		Title:           m.QuizTitle,
		Description:     m.QuizDescription,
		SubjectName:     m.QuizSubjectName,
		ClassName:       m.QuizClassName,
		DurationMinutes: m.QuizDurationMinutes,
		Randomize:       m.QuizRandomize,
	}
}

/* =========================================================
   RESPONSE: detail kuis untuk dikerjakan (tanpa kunci jawaban)
========================================================= */

type QuestionResponse struct {
	ID          uuid.UUID              `json:"id"`
	Text        string                 `json:"question_text"`
	Type        model.QuizQuestionType `json:"question_type"`
	Options     datatypes.JSON         `json:"options,omitempty"`
	Points      float64                `json:"points"`
	OrderNumber int                    `json:"order_number"`
	ImageURL    *string                `json:"image_url,omitempty"`
	PassageText *string                `json:"passage_text,omitempty"`
}

type QuizDetailResponse struct {
	Quiz      QuizResponse       `json:"quiz"`
	Questions []QuestionResponse `json:"questions"`
}

func FromQuestionModel(m *model.QuizQuestionModel) QuestionResponse {
	return QuestionResponse{
		ID:          m.QuizQuestionID,
		Text:        m.QuizQuestionText,
		Type:        m.QuizQuestionType,
		Options:     m.QuizQuestionOptions,
		Points:      m.QuizQuestionPoints,
		OrderNumber: m.QuizQuestionOrder,
		ImageURL:    m.QuizQuestionImageURL,
		PassageText: m.QuizQuestionPassage,
	}
}

/* =========================================================
   REQUEST/RESPONSE: submit
========================================================= */

// SubmitQuizRequest: answers = { "<question_id>": "<jawaban>" }
type SubmitQuizRequest struct {
	Answers map[string]string `json:"answers" validate:"required"`
}

type SubmitQuizResponse struct {
	TotalScore float64 `json:"total_score"`
	MaxScore   float64 `json:"max_score"`
	Percentage int     `json:"percentage"`
}
