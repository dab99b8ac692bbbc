package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	assignmentModel "ujianku_backend/internals/features/exam/assignments/model"
	quizModel "ujianku_backend/internals/features/exam/quizzes/model"
	studentModel "ujianku_backend/internals/features/exam/students/model"
	remoteModel "ujianku_backend/internals/features/sync/remote/model"
)

const batchSize = 200

// Replace-all: hapus lalu insert dalam SATU transaksi, supaya pembaca
// tidak pernah melihat tabel setengah lama setengah baru.

func (s *DownloadService) downloadStudents(ctx context.Context, classIDs []uuid.UUID) (int, error) {
	rows, err := s.Gateway.ListStudentsByClasses(ctx, classIDs)
	if err != nil {
		return 0, err
	}

	students := make([]studentModel.StudentModel, 0, len(rows))
	seen := make(map[uuid.UUID]bool, len(rows))
	for _, r := range rows {
		if seen[r.ID] {
			continue
		}
		seen[r.ID] = true
		kelas := ""
		if r.Class != nil {
			kelas = r.Class.Nama
		}
		students = append(students, studentModel.StudentModel{
			StudentID:      r.ID,
			StudentNIS:     strings.TrimSpace(r.NIS),
			StudentNama:    r.Nama,
			StudentKelas:   kelas,
			StudentClassID: r.ClassID,
		})
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&studentModel.StudentModel{}).Error; err != nil {
			return err
		}
		if len(students) == 0 {
			return nil
		}
		return tx.CreateInBatches(&students, batchSize).Error
	})
	if err != nil {
		return 0, errors.Wrap(err, "gagal menyimpan siswa")
	}
	return len(students), nil
}

// downloadQuizzes mengganti tabel kuis; soal (child) dihapus lebih dulu dari kuis (parent).
func (s *DownloadService) downloadQuizzes(
	ctx context.Context,
	taIDs []uuid.UUID,
	labels map[uuid.UUID]remoteModel.TeachingAssignmentRow,
) ([]quizModel.QuizModel, error) {
	rows, err := s.Gateway.ListActiveQuizzes(ctx, taIDs)
	if err != nil {
		return nil, err
	}

	quizzes := make([]quizModel.QuizModel, 0, len(rows))
	for _, r := range rows {
		ta := labels[r.TeachingAssignmentID]
		quizzes = append(quizzes, quizModel.QuizModel{
			QuizID:                   r.ID,
			QuizTeachingAssignmentID: r.TeachingAssignmentID,
			QuizTitle:                r.Title,
			QuizDescription:          r.Description,
			QuizSubjectName:          ta.SubjectName(),
			QuizClassName:            ta.ClassName(),
			QuizDurationMinutes:      r.DurationMinutes,
			QuizRandomize:            r.RandomizeQuestions,
		})
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&quizModel.QuizQuestionModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("1 = 1").Delete(&quizModel.QuizModel{}).Error; err != nil {
			return err
		}
		if len(quizzes) == 0 {
			return nil
		}
		return tx.Omit("QuizQuestions").CreateInBatches(&quizzes, batchSize).Error
	})
	if err != nil {
		return nil, errors.Wrap(err, "gagal menyimpan kuis")
	}
	return quizzes, nil
}

// downloadQuestions: gambar diunduh BERURUTAN (bukan paralel) untuk membatasi beban uplink.
func (s *DownloadService) downloadQuestions(ctx context.Context, quizID uuid.UUID) (int, int, error) {
	rows, err := s.Gateway.ListQuestions(ctx, quizID)
	if err != nil {
		return 0, 0, err
	}

	failedImages := 0
	questions := make([]quizModel.QuizQuestionModel, 0, len(rows))
	for _, r := range rows {
		qType := quizModel.ParseQuestionType(r.QuestionType)

		var image *string
		if r.ImageURL != nil && strings.TrimSpace(*r.ImageURL) != "" {
			image = s.Images.Fetch(ctx, *r.ImageURL, r.ID)
			if image == nil {
				failedImages++
			}
		}

		questions = append(questions, quizModel.QuizQuestionModel{
			QuizQuestionID:            r.ID,
			QuizQuestionQuizID:        quizID,
			QuizQuestionText:          r.QuestionText,
			QuizQuestionType:          qType,
			QuizQuestionOptions:       quizModel.NormalizeOptions(qType, r.Options),
			QuizQuestionCorrectAnswer: r.CorrectAnswer,
			QuizQuestionPoints:        r.Points,
			QuizQuestionOrder:         r.OrderNumber,
			QuizQuestionImageURL:      image,
			QuizQuestionPassage:       r.PassageText,
		})
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quiz_question_quiz_id = ?", quizID).Delete(&quizModel.QuizQuestionModel{}).Error; err != nil {
			return err
		}
		if len(questions) == 0 {
			return nil
		}
		return tx.CreateInBatches(&questions, batchSize).Error
	})
	if err != nil {
		return 0, failedImages, errors.Wrap(err, "gagal menyimpan soal")
	}
	return len(questions), failedImages, nil
}

func (s *DownloadService) downloadAssignments(
	ctx context.Context,
	taIDs []uuid.UUID,
	labels map[uuid.UUID]remoteModel.TeachingAssignmentRow,
) (int, error) {
	rows, err := s.Gateway.ListAssignments(ctx, taIDs)
	if err != nil {
		return 0, err
	}

	items := make([]assignmentModel.AssignmentModel, 0, len(rows))
	for _, r := range rows {
		ta := labels[r.TeachingAssignmentID]
		items = append(items, assignmentModel.AssignmentModel{
			AssignmentID:                   r.ID,
			AssignmentTeachingAssignmentID: r.TeachingAssignmentID,
			AssignmentTitle:                r.Title,
			AssignmentDescription:          r.Description,
			AssignmentType:                 r.AssignmentType,
			AssignmentDueDate:              r.DueDate,
			AssignmentSubjectName:          ta.SubjectName(),
			AssignmentClassName:            ta.ClassName(),
		})
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&assignmentModel.AssignmentModel{}).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		return tx.CreateInBatches(&items, batchSize).Error
	})
	if err != nil {
		return 0, errors.Wrap(err, "gagal menyimpan tugas")
	}
	return len(items), nil
}
