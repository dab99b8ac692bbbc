// file: internals/features/exam/quizzes/service/quiz_service.go
package service

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	database "ujianku_backend/internals/databases"
	dto "ujianku_backend/internals/features/exam/quizzes/dto"
	model "ujianku_backend/internals/features/exam/quizzes/model"
)

var (
	ErrQuizNotFound     = errors.New("Kuis tidak ditemukan")
	ErrAlreadySubmitted = errors.New("Kuis ini sudah kamu kerjakan")
)

type QuizService struct {
	DB *gorm.DB

	// Shuffle = Fisher–Yates (math/rand/v2); bisa diganti di test.
	Shuffle func(n int, swap func(i, j int))
	Now     func() time.Time
}

func NewQuizService(db *gorm.DB) *QuizService {
	return &QuizService{
		DB:      db,
		Shuffle: rand.Shuffle,
		Now:     func() time.Time { return time.Now().UTC() },
	}
}

/* =========================================================
   LIST
========================================================= */

func (s *QuizService) ListQuizzes(ctx context.Context, studentID uuid.UUID) ([]dto.QuizListItem, error) {
	db := s.DB.WithContext(ctx)

	var quizzes []model.QuizModel
	if err := db.Order("quiz_title ASC").Find(&quizzes).Error; err != nil {
		return nil, errors.Wrap(err, "gagal mengambil kuis")
	}

	type countRow struct {
		QuizID uuid.UUID `gorm:"column:quiz_id"`
		Total  int64     `gorm:"column:total"`
	}
	var counts []countRow
	if err := db.Model(&model.QuizQuestionModel{}).
		Select("quiz_question_quiz_id AS quiz_id, COUNT(*) AS total").
		Group("quiz_question_quiz_id").
		Scan(&counts).Error; err != nil {
		return nil, errors.Wrap(err, "gagal menghitung soal")
	}
	countByQuiz := make(map[uuid.UUID]int64, len(counts))
	for _, c := range counts {
		countByQuiz[c.QuizID] = c.Total
	}

	// hanya submission milik siswa ini
	var subs []model.QuizSubmissionModel
	if err := db.Where("quiz_submission_student_id = ?", studentID).
		Find(&subs).Error; err != nil {
		return nil, errors.Wrap(err, "gagal mengambil submission")
	}
	subByQuiz := make(map[uuid.UUID]*model.QuizSubmissionModel, len(subs))
	for i := range subs {
		subByQuiz[subs[i].QuizSubmissionQuizID] = &subs[i]
	}

	out := make([]dto.QuizListItem, 0, len(quizzes))
	for i := range quizzes {
		q := &quizzes[i]
		item := dto.QuizListItem{
			QuizResponse:  dto.FromQuizModel(q),
			QuestionCount: countByQuiz[q.QuizID],
		}
		if sub, ok := subByQuiz[q.QuizID]; ok {
			score, maxScore := sub.QuizSubmissionTotalScore, sub.QuizSubmissionMaxScore
			at := sub.QuizSubmissionSubmittedAt
			item.Submitted = true
			item.Score = &score
			item.MaxScore = &maxScore
			item.SubmittedAt = &at
		}
		out = append(out, item)
	}
	return out, nil
}

/* =========================================================
   GET (untuk dikerjakan)
========================================================= */

func (s *QuizService) GetQuiz(ctx context.Context, studentID, quizID uuid.UUID) (*dto.QuizDetailResponse, error) {
	quiz, err := s.findQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if done, err := s.hasSubmitted(ctx, studentID, quizID); err != nil {
		return nil, err
	} else if done {
		return nil, ErrAlreadySubmitted
	}

	questions, err := s.questionsOf(ctx, quizID)
	if err != nil {
		return nil, err
	}

	items := make([]dto.QuestionResponse, 0, len(questions))
	for i := range questions {
		items = append(items, dto.FromQuestionModel(&questions[i]))
	}
	if quiz.QuizRandomize && len(items) > 1 {
		s.Shuffle(len(items), func(i, j int) { items[i], items[j] = items[j], items[i] })
	}

	return &dto.QuizDetailResponse{
		Quiz:      dto.FromQuizModel(quiz),
		Questions: items,
	}, nil
}

/* =========================================================
   SUBMIT
========================================================= */

func (s *QuizService) SubmitQuiz(ctx context.Context, studentID, quizID uuid.UUID, answers map[string]string) (*dto.SubmitQuizResponse, error) {
	if _, err := s.findQuiz(ctx, quizID); err != nil {
		return nil, err
	}
	// cek awal; unique index tetap penjaga terakhir kalau ada race
	if done, err := s.hasSubmitted(ctx, studentID, quizID); err != nil {
		return nil, err
	} else if done {
		return nil, ErrAlreadySubmitted
	}

	questions, err := s.questionsOf(ctx, quizID)
	if err != nil {
		return nil, err
	}
	graded, total, maxScore := GradeAnswers(questions, answers)

	raw, err := json.Marshal(graded)
	if err != nil {
		return nil, errors.Wrap(err, "gagal serialisasi jawaban")
	}

	row := model.QuizSubmissionModel{
		QuizSubmissionQuizID:      quizID,
		QuizSubmissionStudentID:   studentID,
		QuizSubmissionAnswers:     datatypes.JSON(raw),
		QuizSubmissionTotalScore:  total,
		QuizSubmissionMaxScore:    maxScore,
		QuizSubmissionSubmittedAt: s.Now(),
	}
	if err := s.DB.WithContext(ctx).Create(&row).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrAlreadySubmitted
		}
		return nil, errors.Wrap(err, "gagal menyimpan submission")
	}

	log.Info().
		Str("quiz_id", quizID.String()).
		Str("student_id", studentID.String()).
		Float64("score", total).
		Float64("max_score", maxScore).
		Msg("[QUIZ] submit")

	return &dto.SubmitQuizResponse{
		TotalScore: total,
		MaxScore:   maxScore,
		Percentage: Percentage(total, maxScore),
	}, nil
}

/* =========================================================
   helpers
========================================================= */

func (s *QuizService) findQuiz(ctx context.Context, quizID uuid.UUID) (*model.QuizModel, error) {
	var quiz model.QuizModel
	err := s.DB.WithContext(ctx).Where("quiz_id = ?", quizID).Take(&quiz).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrQuizNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "gagal mengambil kuis")
	}
	return &quiz, nil
}

func (s *QuizService) hasSubmitted(ctx context.Context, studentID, quizID uuid.UUID) (bool, error) {
	var n int64
	err := s.DB.WithContext(ctx).
		Model(&model.QuizSubmissionModel{}).
		Where("quiz_submission_quiz_id = ? AND quiz_submission_student_id = ?", quizID, studentID).
		Count(&n).Error
	if err != nil {
		return false, errors.Wrap(err, "gagal cek submission")
	}
	return n > 0, nil
}

func (s *QuizService) questionsOf(ctx context.Context, quizID uuid.UUID) ([]model.QuizQuestionModel, error) {
	var rows []model.QuizQuestionModel
	err := s.DB.WithContext(ctx).
		Where("quiz_question_quiz_id = ?", quizID).
		Order("quiz_question_order ASC").
		Find(&rows).Error
	return rows, errors.Wrap(err, "gagal mengambil soal")
}
