package testutil

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	database "ujianku_backend/internals/databases"
	assignmentModel "ujianku_backend/internals/features/exam/assignments/model"
	quizModel "ujianku_backend/internals/features/exam/quizzes/model"
	studentModel "ujianku_backend/internals/features/exam/students/model"
)

// OpenDB membuka store sqlite baru di folder sementara milik test.
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenLocal(filepath.Join(t.TempDir(), "ujianku_test.db"), 5000)
	if err != nil {
		t.Fatalf("OpenLocal() failed: %v", err)
	}
	t.Cleanup(func() { database.Close(db) })
	return db
}

func StrPtr(s string) *string { return &s }

func CreateStudent(t *testing.T, db *gorm.DB, nis, nama, kelas string) studentModel.StudentModel {
	t.Helper()
	s := studentModel.StudentModel{
		StudentID:      uuid.New(),
		StudentNIS:     nis,
		StudentNama:    nama,
		StudentKelas:   kelas,
		StudentClassID: uuid.New(),
	}
	if err := db.Create(&s).Error; err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return s
}

// QuestionSpec: bentuk ringkas soal untuk seeding.
type QuestionSpec struct {
	Type    quizModel.QuizQuestionType
	Correct string
	Points  float64
}

func CreateQuiz(t *testing.T, db *gorm.DB, title string, randomize bool, questions ...QuestionSpec) (quizModel.QuizModel, []quizModel.QuizQuestionModel) {
	t.Helper()
	quiz := quizModel.QuizModel{
		QuizID:                   uuid.New(),
		QuizTeachingAssignmentID: uuid.New(),
		QuizTitle:                title,
		QuizSubjectName:          "Matematika",
		QuizClassName:            "X IPA 1",
		QuizDurationMinutes:      30,
		QuizRandomize:            randomize,
	}
	if err := db.Omit("QuizQuestions").Create(&quiz).Error; err != nil {
		t.Fatalf("CreateQuiz() failed: %v", err)
	}

	rows := make([]quizModel.QuizQuestionModel, 0, len(questions))
	for i, q := range questions {
		row := quizModel.QuizQuestionModel{
			QuizQuestionID:     uuid.New(),
			QuizQuestionQuizID: quiz.QuizID,
			QuizQuestionText:   "Soal",
			QuizQuestionType:   q.Type,
			QuizQuestionPoints: q.Points,
			QuizQuestionOrder:  i + 1,
		}
		if q.Type == quizModel.QuizQuestionTypeMultipleChoice {
			row.QuizQuestionOptions = datatypes.JSON(`["A","B","C","D"]`)
			row.QuizQuestionCorrectAnswer = StrPtr(q.Correct)
		}
		rows = append(rows, row)
	}
	if len(rows) > 0 {
		if err := db.Create(&rows).Error; err != nil {
			t.Fatalf("CreateQuiz() questions failed: %v", err)
		}
	}
	return quiz, rows
}

func CreateAssignment(t *testing.T, db *gorm.DB, title string) assignmentModel.AssignmentModel {
	t.Helper()
	a := assignmentModel.AssignmentModel{
		AssignmentID:                   uuid.New(),
		AssignmentTeachingAssignmentID: uuid.New(),
		AssignmentTitle:                title,
		AssignmentType:                 "ESSAY",
	}
	if err := db.Create(&a).Error; err != nil {
		t.Fatalf("CreateAssignment() failed: %v", err)
	}
	return a
}
