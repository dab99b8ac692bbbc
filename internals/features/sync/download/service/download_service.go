// file: internals/features/sync/download/service/download_service.go
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	metaModel "ujianku_backend/internals/features/server/meta/model"
	metaRepo "ujianku_backend/internals/features/server/meta/repository"
	remoteModel "ujianku_backend/internals/features/sync/remote/model"
	remote "ujianku_backend/internals/features/sync/remote/repository"
)

const (
	StageAssignments = "teaching_assignments"
	StageStudents    = "students"
	StageQuizzes     = "quizzes"
	StageQuestions   = "questions"
	StageCoursework  = "assignments"
)

// ImageFetcher: ref → path lokal, atau nil kalau gagal / kosong.
type ImageFetcher interface {
	Fetch(ctx context.Context, ref string, questionID uuid.UUID) *string
}

type ProgressFunc func(progress string)

// Summary hasil satu kali download.
type Summary struct {
	TeacherID      uuid.UUID `json:"teacher_id"`
	TeacherNIP     string    `json:"teacher_nip"`
	TeacherName    string    `json:"teacher_name"`
	DownloadedAt   time.Time `json:"downloaded_at"`
	Students       int       `json:"students"`
	Quizzes        int       `json:"quizzes"`
	Questions      int       `json:"questions"`
	Assignments    int       `json:"assignments"`
	ImagesFailed   int       `json:"images_failed"`
	DegradedStages []string  `json:"degraded_stages,omitempty"`
}

type DownloadService struct {
	DB      *gorm.DB
	Gateway remote.Gateway
	Images  ImageFetcher
	Meta    *metaRepo.MetaRepository
	Now     func() time.Time
}

func NewDownloadService(db *gorm.DB, gw remote.Gateway, images ImageFetcher) *DownloadService {
	return &DownloadService{
		DB:      db,
		Gateway: gw,
		Images:  images,
		Meta:    metaRepo.NewMetaRepository(db),
		Now:     func() time.Time { return time.Now().UTC() },
	}
}

/* =========================================================
   PUBLIC API: Download
   Urutan tahap wajib berurutan: query tiap tahap bergantung hasil tahap sebelumnya.
   Hanya tahap 1 (identitas guru) yang fatal; tahap lain gagal → dicatat, lanjut.
========================================================= */

func (s *DownloadService) Download(ctx context.Context, nip string, progress ProgressFunc) (*Summary, error) {
	if progress == nil {
		progress = func(string) {}
	}
	nip = strings.TrimSpace(nip)
	if nip == "" {
		return nil, errors.New("NIP wajib diisi")
	}

	// 1) Identitas guru: fatal
	progress("Mencari data guru...")
	teacher, err := s.Gateway.FindTeacherByNIP(ctx, nip)
	if err != nil {
		log.Error().Err(err).Str("nip", nip).Msg("[DOWNLOAD] identitas guru gagal")
		return nil, err
	}
	if err := s.Meta.Set(ctx, map[string]string{
		metaModel.MetaKeyTeacherID:   teacher.ID.String(),
		metaModel.MetaKeyTeacherNIP:  teacher.NIP,
		metaModel.MetaKeyTeacherName: teacher.Nama,
	}); err != nil {
		return nil, err
	}

	sum := &Summary{TeacherID: teacher.ID, TeacherNIP: teacher.NIP, TeacherName: teacher.Nama}
	log.Info().Str("nip", nip).Str("teacher", teacher.Nama).Msg("[DOWNLOAD] guru ditemukan")

	if err := s.pull(ctx, teacher, sum, progress); err != nil {
		return nil, err
	}

	sum.DownloadedAt = s.Now()
	if err := s.Meta.Set(ctx, map[string]string{
		metaModel.MetaKeyLastDownloadAt: sum.DownloadedAt.Format(time.RFC3339),
	}); err != nil {
		return nil, err
	}
	progress("Selesai")

	log.Info().
		Int("students", sum.Students).
		Int("quizzes", sum.Quizzes).
		Int("questions", sum.Questions).
		Int("assignments", sum.Assignments).
		Int("images_failed", sum.ImagesFailed).
		Strs("degraded", sum.DegradedStages).
		Msg("[DOWNLOAD] selesai")
	return sum, nil
}

// pull menjalankan tahap 2..6. Error yang dikembalikan hanya error store lokal saat ctx batal.
func (s *DownloadService) pull(ctx context.Context, teacher *remoteModel.TeacherRow, sum *Summary, progress ProgressFunc) error {
	// 2) Teaching assignments
	progress("Mengambil data penugasan mengajar...")
	tas, err := s.Gateway.ListTeachingAssignments(ctx, teacher.ID)
	if err != nil {
		s.degrade(sum, StageAssignments, err)
		return ctx.Err()
	}
	if len(tas) == 0 {
		log.Info().Msg("[DOWNLOAD] guru tidak punya penugasan, tidak ada data lain yang diambil")
		return nil
	}

	taIDs := make([]uuid.UUID, 0, len(tas))
	labels := make(map[uuid.UUID]remoteModel.TeachingAssignmentRow, len(tas))
	classSeen := map[uuid.UUID]bool{}
	classIDs := make([]uuid.UUID, 0, len(tas))
	for _, ta := range tas {
		taIDs = append(taIDs, ta.ID)
		labels[ta.ID] = ta
		if ta.ClassID != uuid.Nil && !classSeen[ta.ClassID] {
			classSeen[ta.ClassID] = true
			classIDs = append(classIDs, ta.ClassID)
		}
	}

	// 3) Siswa
	progress("Mengunduh data siswa...")
	if n, err := s.downloadStudents(ctx, classIDs); err != nil {
		s.degrade(sum, StageStudents, err)
	} else {
		sum.Students = n
	}

	// 4) + 5) Kuis dan soal
	progress("Mengunduh kuis...")
	quizzes, err := s.downloadQuizzes(ctx, taIDs, labels)
	if err != nil {
		s.degrade(sum, StageQuizzes, err)
	} else {
		sum.Quizzes = len(quizzes)
		for i, q := range quizzes {
			progress(fmt.Sprintf("Mengunduh soal kuis %d/%d...", i+1, len(quizzes)))
			n, failedImages, err := s.downloadQuestions(ctx, q.QuizID)
			sum.ImagesFailed += failedImages
			if err != nil {
				s.degrade(sum, StageQuestions, errors.Wrapf(err, "kuis %s", q.QuizID))
				continue
			}
			sum.Questions += n
		}
	}

	// 6) Tugas
	progress("Mengunduh tugas...")
	if n, err := s.downloadAssignments(ctx, taIDs, labels); err != nil {
		s.degrade(sum, StageCoursework, err)
	} else {
		sum.Assignments = n
	}

	return ctx.Err()
}

func (s *DownloadService) degrade(sum *Summary, stage string, err error) {
	log.Warn().Err(err).Str("stage", stage).Msg("[DOWNLOAD] tahap gagal, data tetap kosong/lama")
	for _, st := range sum.DegradedStages {
		if st == stage {
			return
		}
	}
	sum.DegradedStages = append(sum.DegradedStages, stage)
}
