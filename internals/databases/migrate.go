package database

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	assignmentModel "ujianku_backend/internals/features/exam/assignments/model"
	quizModel "ujianku_backend/internals/features/exam/quizzes/model"
	sessionModel "ujianku_backend/internals/features/exam/sessions/model"
	studentModel "ujianku_backend/internals/features/exam/students/model"
	metaModel "ujianku_backend/internals/features/server/meta/model"
)

// Migrate membuat/menyesuaikan semua tabel lokal. Urutan: parent sebelum child.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&metaModel.MetaModel{},
		&studentModel.StudentModel{},
		&sessionModel.SessionModel{},
		&quizModel.QuizModel{},
		&quizModel.QuizQuestionModel{},
		&quizModel.QuizSubmissionModel{},
		&assignmentModel.AssignmentModel{},
		&assignmentModel.AssignmentSubmissionModel{},
	); err != nil {
		return errors.Wrap(err, "migrasi store lokal gagal")
	}
	return nil
}
