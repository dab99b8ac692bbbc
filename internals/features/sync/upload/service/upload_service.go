// file: internals/features/sync/upload/service/upload_service.go
package service

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	database "ujianku_backend/internals/databases"
	assignmentModel "ujianku_backend/internals/features/exam/assignments/model"
	quizModel "ujianku_backend/internals/features/exam/quizzes/model"
	remoteModel "ujianku_backend/internals/features/sync/remote/model"
	remote "ujianku_backend/internals/features/sync/remote/repository"
)

var (
	ErrOffline          = errors.New("Tidak ada koneksi ke server pusat")
	ErrUploadInProgress = errors.New("Upload sedang berjalan")
)

// CategoryResult: hitungan per jenis submission.
type CategoryResult struct {
	Total   int `json:"total"`
	Success int `json:"success"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

type Result struct {
	Quizzes     CategoryResult `json:"quizzes"`
	Assignments CategoryResult `json:"assignments"`
}

type UploadService struct {
	DB      *gorm.DB
	Gateway remote.Gateway
	Now     func() time.Time

	running atomic.Bool
}

func NewUploadService(db *gorm.DB, gw remote.Gateway) *UploadService {
	return &UploadService{DB: db, Gateway: gw, Now: time.Now}
}

func (s *UploadService) Running() bool { return s.running.Load() }

// Options untuk satu run upload.
type Options struct {
	// RetrySkipped: ikutkan baris yang sebelumnya ditolak pusat karena FK.
	// Hanya atas permintaan guru; cron selalu false.
	RetrySkipped bool
}

/* =========================================================
   PUBLIC API: Upload
   Per baris: upsert remote (idempoten) → tandai uploaded lokal.
   Satu baris gagal tidak menghentikan batch.
========================================================= */

func (s *UploadService) Upload(ctx context.Context, opts Options) (*Result, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, ErrUploadInProgress
	}
	defer s.running.Store(false)

	if err := s.Gateway.Ping(ctx); err != nil {
		log.Warn().Err(err).Msg("[UPLOAD] remote tidak bisa dihubungi")
		return nil, ErrOffline
	}

	res := &Result{}
	if err := s.uploadQuizSubmissions(ctx, opts, &res.Quizzes); err != nil {
		return nil, err
	}
	if err := s.uploadAssignmentSubmissions(ctx, opts, &res.Assignments); err != nil {
		return nil, err
	}

	log.Info().
		Bool("retry_skipped", opts.RetrySkipped).
		Interface("quizzes", res.Quizzes).
		Interface("assignments", res.Assignments).
		Msg("[UPLOAD] selesai")
	return res, nil
}

func (s *UploadService) uploadQuizSubmissions(ctx context.Context, opts Options, out *CategoryResult) error {
	q := s.DB.WithContext(ctx).Where("quiz_submission_uploaded = ?", false)
	if !opts.RetrySkipped {
		q = q.Where("quiz_submission_skipped_at IS NULL")
	}
	var rows []quizModel.QuizSubmissionModel
	if err := q.Order("quiz_submission_id ASC").Find(&rows).Error; err != nil {
		return errors.Wrap(err, "gagal membaca submission kuis")
	}
	out.Total = len(rows)

	for i := range rows {
		r := &rows[i]
		payload := remoteModel.QuizSubmissionRow{
			QuizID:      r.QuizSubmissionQuizID,
			StudentID:   r.QuizSubmissionStudentID,
			Answers:     r.QuizSubmissionAnswers,
			Score:       r.QuizSubmissionTotalScore,
			MaxScore:    r.QuizSubmissionMaxScore,
			SubmittedAt: r.QuizSubmissionSubmittedAt,
		}
		err := s.Gateway.UpsertQuizSubmission(ctx, payload)
		err = s.mark(ctx, &quizModel.QuizSubmissionModel{}, "quiz_submission", r.QuizSubmissionID, err)
		tally(out, err, "quiz", r.QuizSubmissionID)
	}
	return nil
}

func (s *UploadService) uploadAssignmentSubmissions(ctx context.Context, opts Options, out *CategoryResult) error {
	q := s.DB.WithContext(ctx).Where("assignment_submission_uploaded = ?", false)
	if !opts.RetrySkipped {
		q = q.Where("assignment_submission_skipped_at IS NULL")
	}
	var rows []assignmentModel.AssignmentSubmissionModel
	if err := q.Order("assignment_submission_id ASC").Find(&rows).Error; err != nil {
		return errors.Wrap(err, "gagal membaca submission tugas")
	}
	out.Total = len(rows)

	for i := range rows {
		r := &rows[i]
		payload := remoteModel.AssignmentSubmissionRow{
			AssignmentID: r.AssignmentSubmissionAssignmentID,
			StudentID:    r.AssignmentSubmissionStudentID,
			AnswerText:   r.AssignmentSubmissionAnswer,
			SubmittedAt:  r.AssignmentSubmissionSubmittedAt,
		}
		err := s.Gateway.UpsertAssignmentSubmission(ctx, payload)
		err = s.mark(ctx, &assignmentModel.AssignmentSubmissionModel{}, "assignment_submission", r.AssignmentSubmissionID, err)
		tally(out, err, "assignment", r.AssignmentSubmissionID)
	}
	return nil
}

// mark mencatat hasil upsert di baris lokal (prefix = prefix kolom tabel):
//   - sukses: uploaded = true, tanda skip dibersihkan
//   - FK: skipped_at + skip_reason diisi, baris keluar dari upload otomatis
//
// Error lain dibiarkan apa adanya, baris dicoba lagi di run berikutnya.
func (s *UploadService) mark(ctx context.Context, model any, prefix string, id uint, upsertErr error) error {
	var updates map[string]any
	switch {
	case upsertErr == nil:
		updates = map[string]any{
			prefix + "_uploaded":    true,
			prefix + "_skipped_at":  nil,
			prefix + "_skip_reason": nil,
		}
	case database.IsForeignKeyViolation(upsertErr):
		updates = map[string]any{
			prefix + "_skipped_at":  s.Now().UTC(),
			prefix + "_skip_reason": upsertErr.Error(),
		}
	default:
		return upsertErr
	}

	if err := s.DB.WithContext(ctx).
		Model(model).
		Where(prefix+"_id = ?", id).
		Updates(updates).Error; err != nil {
		return errors.Wrap(err, "gagal menandai submission lokal")
	}
	return upsertErr
}

// tally: FK violation = siswa/kuis sudah dihapus di pusat → skip permanen sampai guru minta retry.
func tally(out *CategoryResult, err error, kind string, id uint) {
	switch {
	case err == nil:
		out.Success++
	case database.IsForeignKeyViolation(err):
		out.Skipped++
		log.Warn().Err(err).Str("kind", kind).Uint("id", id).Msg("[UPLOAD] referensi hilang di pusat, ditandai skip")
	default:
		out.Failed++
		log.Error().Err(err).Str("kind", kind).Uint("id", id).Msg("[UPLOAD] gagal, akan dicoba lagi nanti")
	}
}
