// file: internals/features/sync/remote/repository/gateway.go
package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	database "ujianku_backend/internals/databases"
	model "ujianku_backend/internals/features/sync/remote/model"
)

var (
	ErrTeacherNotFound = errors.New("Guru dengan NIP tersebut tidak ditemukan")
	ErrAccessDenied    = errors.New("Akses ditolak: akun guru tidak aktif atau tidak punya izin")
)

// Gateway adalah kontrak ke backend remote. Hanya dipakai saat download & upload,
// tidak pernah di jalur request siswa.
type Gateway interface {
	Ping(ctx context.Context) error
	FindTeacherByNIP(ctx context.Context, nip string) (*model.TeacherRow, error)
	ListTeachingAssignments(ctx context.Context, teacherID uuid.UUID) ([]model.TeachingAssignmentRow, error)
	ListStudentsByClasses(ctx context.Context, classIDs []uuid.UUID) ([]model.StudentRow, error)
	ListActiveQuizzes(ctx context.Context, teachingAssignmentIDs []uuid.UUID) ([]model.QuizRow, error)
	ListQuestions(ctx context.Context, quizID uuid.UUID) ([]model.QuestionRow, error)
	ListAssignments(ctx context.Context, teachingAssignmentIDs []uuid.UUID) ([]model.AssignmentRow, error)
	UpsertQuizSubmission(ctx context.Context, row model.QuizSubmissionRow) error
	UpsertAssignmentSubmission(ctx context.Context, row model.AssignmentSubmissionRow) error
}

// SupabaseGateway mengakses tabel Supabase langsung lewat Postgres (gorm).
type SupabaseGateway struct {
	DB      *gorm.DB
	Timeout time.Duration
}

func NewSupabaseGateway(db *gorm.DB, timeout time.Duration) *SupabaseGateway {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &SupabaseGateway{DB: db, Timeout: timeout}
}

func (g *SupabaseGateway) ctx(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, g.Timeout)
}

func (g *SupabaseGateway) Ping(ctx context.Context) error {
	ctx, cancel := g.ctx(ctx)
	defer cancel()

	sqlDB, err := g.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (g *SupabaseGateway) FindTeacherByNIP(ctx context.Context, nip string) (*model.TeacherRow, error) {
	ctx, cancel := g.ctx(ctx)
	defer cancel()

	var row model.TeacherRow
	err := g.DB.WithContext(ctx).
		Where("nip = ?", strings.TrimSpace(nip)).
		First(&row).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, ErrTeacherNotFound
	case database.IsPermissionDenied(err):
		return nil, ErrAccessDenied
	case err != nil:
		return nil, errors.Wrap(err, "gagal mencari guru")
	}
	if !row.IsActive {
		return nil, ErrAccessDenied
	}
	return &row, nil
}

func (g *SupabaseGateway) ListTeachingAssignments(ctx context.Context, teacherID uuid.UUID) ([]model.TeachingAssignmentRow, error) {
	ctx, cancel := g.ctx(ctx)
	defer cancel()

	var rows []model.TeachingAssignmentRow
	err := g.DB.WithContext(ctx).
		Preload("Class").
		Preload("Subject").
		Where("teacher_id = ?", teacherID).
		Find(&rows).Error
	return rows, errors.Wrap(err, "gagal mengambil teaching assignments")
}

func (g *SupabaseGateway) ListStudentsByClasses(ctx context.Context, classIDs []uuid.UUID) ([]model.StudentRow, error) {
	if len(classIDs) == 0 {
		return nil, nil
	}
	ctx, cancel := g.ctx(ctx)
	defer cancel()

	var rows []model.StudentRow
	err := g.DB.WithContext(ctx).
		Preload("Class").
		Where("class_id IN ?", classIDs).
		Order("nama ASC").
		Find(&rows).Error
	return rows, errors.Wrap(err, "gagal mengambil siswa")
}

func (g *SupabaseGateway) ListActiveQuizzes(ctx context.Context, teachingAssignmentIDs []uuid.UUID) ([]model.QuizRow, error) {
	if len(teachingAssignmentIDs) == 0 {
		return nil, nil
	}
	ctx, cancel := g.ctx(ctx)
	defer cancel()

	var rows []model.QuizRow
	err := g.DB.WithContext(ctx).
		Where("teaching_assignment_id IN ? AND is_active = ?", teachingAssignmentIDs, true).
		Find(&rows).Error
	return rows, errors.Wrap(err, "gagal mengambil kuis")
}

func (g *SupabaseGateway) ListQuestions(ctx context.Context, quizID uuid.UUID) ([]model.QuestionRow, error) {
	ctx, cancel := g.ctx(ctx)
	defer cancel()

	var rows []model.QuestionRow
	err := g.DB.WithContext(ctx).
		Where("quiz_id = ?", quizID).
		Order("order_number ASC").
		Find(&rows).Error
	return rows, errors.Wrapf(err, "gagal mengambil soal kuis %s", quizID)
}

func (g *SupabaseGateway) ListAssignments(ctx context.Context, teachingAssignmentIDs []uuid.UUID) ([]model.AssignmentRow, error) {
	if len(teachingAssignmentIDs) == 0 {
		return nil, nil
	}
	ctx, cancel := g.ctx(ctx)
	defer cancel()

	var rows []model.AssignmentRow
	err := g.DB.WithContext(ctx).
		Where("teaching_assignment_id IN ?", teachingAssignmentIDs).
		Find(&rows).Error
	return rows, errors.Wrap(err, "gagal mengambil tugas")
}

// UpsertQuizSubmission idempoten: aman diulang karena target konflik = kunci natural.
func (g *SupabaseGateway) UpsertQuizSubmission(ctx context.Context, row model.QuizSubmissionRow) error {
	ctx, cancel := g.ctx(ctx)
	defer cancel()

	return g.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "quiz_id"}, {Name: "student_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"answers", "score", "max_score", "submitted_at"}),
	}).Create(&row).Error
}

func (g *SupabaseGateway) UpsertAssignmentSubmission(ctx context.Context, row model.AssignmentSubmissionRow) error {
	ctx, cancel := g.ctx(ctx)
	defer cancel()

	return g.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "assignment_id"}, {Name: "student_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"answer_text", "submitted_at"}),
	}).Create(&row).Error
}
