// file: internals/features/exam/quizzes/model/quiz_model.go
package model

import (
	"github.com/google/uuid"
)

type QuizModel struct {
	QuizID                   uuid.UUID `gorm:"column:quiz_id;type:uuid;primaryKey" json:"quiz_id"`
	QuizTeachingAssignmentID uuid.UUID `gorm:"column:quiz_teaching_assignment_id;type:uuid;not null" json:"quiz_teaching_assignment_id"`
	QuizTitle                string    `gorm:"column:quiz_title;type:varchar(255);not null" json:"quiz_title"`
	QuizDescription          *string   `gorm:"column:quiz_description;type:text" json:"quiz_description,omitempty"`

	// label denormalisasi dari teaching assignment (remote)
	QuizSubjectName string `gorm:"column:quiz_subject_name;type:varchar(160)" json:"quiz_subject_name"`
	QuizClassName   string `gorm:"column:quiz_class_name;type:varchar(80)" json:"quiz_class_name"`

	QuizDurationMinutes int  `gorm:"column:quiz_duration_minutes;not null;default:0" json:"quiz_duration_minutes"`
	QuizRandomize       bool `gorm:"column:quiz_randomize;not null;default:false" json:"quiz_randomize"`

	QuizQuestions []QuizQuestionModel `gorm:"foreignKey:QuizQuestionQuizID;references:QuizID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
}

func (QuizModel) TableName() string { return "quizzes" }
