// file: internals/features/sync/remote/model/remote_model.go
// Bentuk baris tabel di Supabase (remote). Hanya kolom yang dibutuhkan sync.
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type TeacherRow struct {
	ID       uuid.UUID `gorm:"column:id;primaryKey"`
	NIP      string    `gorm:"column:nip"`
	Nama     string    `gorm:"column:nama"`
	IsActive bool      `gorm:"column:is_active"`
}

func (TeacherRow) TableName() string { return "teachers" }

type ClassRow struct {
	ID   uuid.UUID `gorm:"column:id;primaryKey"`
	Nama string    `gorm:"column:nama"`
}

func (ClassRow) TableName() string { return "classes" }

type SubjectRow struct {
	ID   uuid.UUID `gorm:"column:id;primaryKey"`
	Nama string    `gorm:"column:nama"`
}

func (SubjectRow) TableName() string { return "subjects" }

// TeachingAssignmentRow: penugasan mengajar (guru × mapel × kelas).
type TeachingAssignmentRow struct {
	ID        uuid.UUID `gorm:"column:id;primaryKey"`
	TeacherID uuid.UUID `gorm:"column:teacher_id"`
	ClassID   uuid.UUID `gorm:"column:class_id"`
	SubjectID uuid.UUID `gorm:"column:subject_id"`

	Class   *ClassRow   `gorm:"foreignKey:ClassID;references:ID"`
	Subject *SubjectRow `gorm:"foreignKey:SubjectID;references:ID"`
}

func (TeachingAssignmentRow) TableName() string { return "teaching_assignments" }

func (r TeachingAssignmentRow) ClassName() string {
	if r.Class == nil {
		return ""
	}
	return r.Class.Nama
}

func (r TeachingAssignmentRow) SubjectName() string {
	if r.Subject == nil {
		return ""
	}
	return r.Subject.Nama
}

type StudentRow struct {
	ID      uuid.UUID `gorm:"column:id;primaryKey"`
	NIS     string    `gorm:"column:nis"`
	Nama    string    `gorm:"column:nama"`
	ClassID uuid.UUID `gorm:"column:class_id"`

	Class *ClassRow `gorm:"foreignKey:ClassID;references:ID"`
}

func (StudentRow) TableName() string { return "students" }

type QuizRow struct {
	ID                   uuid.UUID `gorm:"column:id;primaryKey"`
	TeachingAssignmentID uuid.UUID `gorm:"column:teaching_assignment_id"`
	Title                string    `gorm:"column:title"`
	Description          *string   `gorm:"column:description"`
	DurationMinutes      int       `gorm:"column:duration_minutes"`
	RandomizeQuestions   bool      `gorm:"column:randomize_questions"`
	IsActive             bool      `gorm:"column:is_active"`
}

func (QuizRow) TableName() string { return "quizzes" }

type QuestionRow struct {
	ID            uuid.UUID      `gorm:"column:id;primaryKey"`
	QuizID        uuid.UUID      `gorm:"column:quiz_id"`
	QuestionText  string         `gorm:"column:question_text"`
	QuestionType  string         `gorm:"column:question_type"`
	Options       datatypes.JSON `gorm:"column:options"`
	CorrectAnswer *string        `gorm:"column:correct_answer"`
	Points        float64        `gorm:"column:points"`
	OrderNumber   int            `gorm:"column:order_number"`
	ImageURL      *string        `gorm:"column:image_url"`
	PassageText   *string        `gorm:"column:passage_text"`
}

func (QuestionRow) TableName() string { return "questions" }

type AssignmentRow struct {
	ID                   uuid.UUID  `gorm:"column:id;primaryKey"`
	TeachingAssignmentID uuid.UUID  `gorm:"column:teaching_assignment_id"`
	Title                string     `gorm:"column:title"`
	Description          *string    `gorm:"column:description"`
	AssignmentType       string     `gorm:"column:assignment_type"`
	DueDate              *time.Time `gorm:"column:due_date"`
}

func (AssignmentRow) TableName() string { return "assignments" }

// QuizSubmissionRow: kunci natural (quiz_id, student_id) → target ON CONFLICT.
type QuizSubmissionRow struct {
	QuizID      uuid.UUID      `gorm:"column:quiz_id"`
	StudentID   uuid.UUID      `gorm:"column:student_id"`
	Answers     datatypes.JSON `gorm:"column:answers"`
	Score       float64        `gorm:"column:score"`
	MaxScore    float64        `gorm:"column:max_score"`
	SubmittedAt time.Time      `gorm:"column:submitted_at"`
}

func (QuizSubmissionRow) TableName() string { return "quiz_submissions" }

// AssignmentSubmissionRow: kunci natural (assignment_id, student_id).
type AssignmentSubmissionRow struct {
	AssignmentID uuid.UUID `gorm:"column:assignment_id"`
	StudentID    uuid.UUID `gorm:"column:student_id"`
	AnswerText   string    `gorm:"column:answer_text"`
	SubmittedAt  time.Time `gorm:"column:submitted_at"`
}

func (AssignmentSubmissionRow) TableName() string { return "assignment_submissions" }
