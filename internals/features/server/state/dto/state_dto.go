// file: internals/features/server/state/dto/state_dto.go
package dto

import (
	"time"

	downloadService "ujianku_backend/internals/features/sync/download/service"
)

type SetupRequest struct {
	NIP string `json:"nip" validate:"required,max=50"`
}

type SetupResponse struct {
	Message string `json:"message"`
	State   string `json:"state"`
}

// SubmissionCount: pending = belum ter-upload dan tidak di-skip; skipped = ditolak pusat (FK).
type SubmissionCount struct {
	Total   int64 `json:"total"`
	Pending int64 `json:"pending"`
	Skipped int64 `json:"skipped"`
}

// LocalSummary: isi store lokal saat ini (dashboard guru).
type LocalSummary struct {
	State        string     `json:"state"`
	TeacherName  *string    `json:"teacher_name"`
	DownloadTime *time.Time `json:"download_time"`

	Students    int64 `json:"students"`
	Quizzes     int64 `json:"quizzes"`
	Questions   int64 `json:"questions"`
	Assignments int64 `json:"assignments"`

	QuizSubmissions       SubmissionCount `json:"quiz_submissions"`
	AssignmentSubmissions SubmissionCount `json:"assignment_submissions"`

	LastDownload *downloadService.Summary `json:"last_download,omitempty"`
}
