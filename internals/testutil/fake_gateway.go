package testutil

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	model "ujianku_backend/internals/features/sync/remote/model"
	remote "ujianku_backend/internals/features/sync/remote/repository"
)

// FakeGateway: backend remote in-memory untuk test download & upload.
type FakeGateway struct {
	mu sync.Mutex

	PingErr error

	Teacher             *model.TeacherRow
	TeacherErr          error
	TeachingAssignments []model.TeachingAssignmentRow
	TeachingErr         error
	Students            []model.StudentRow
	StudentsErr         error
	Quizzes             []model.QuizRow
	QuizzesErr          error
	Questions           map[uuid.UUID][]model.QuestionRow
	QuestionsErr        map[uuid.UUID]error
	Assignments         []model.AssignmentRow
	AssignmentsErr      error

	// error per baris upsert (nil = sukses)
	QuizUpsertErr       func(row model.QuizSubmissionRow) error
	AssignmentUpsertErr func(row model.AssignmentSubmissionRow) error

	QuizUpserts       []model.QuizSubmissionRow
	AssignmentUpserts []model.AssignmentSubmissionRow

	// Attempts menghitung semua panggilan upsert, termasuk yang gagal.
	QuizAttempts       int
	AssignmentAttempts int
}

var _ remote.Gateway = (*FakeGateway)(nil)

func (g *FakeGateway) Ping(ctx context.Context) error { return g.PingErr }

func (g *FakeGateway) FindTeacherByNIP(ctx context.Context, nip string) (*model.TeacherRow, error) {
	if g.TeacherErr != nil {
		return nil, g.TeacherErr
	}
	if g.Teacher == nil || g.Teacher.NIP != strings.TrimSpace(nip) {
		return nil, remote.ErrTeacherNotFound
	}
	if !g.Teacher.IsActive {
		return nil, remote.ErrAccessDenied
	}
	t := *g.Teacher
	return &t, nil
}

func (g *FakeGateway) ListTeachingAssignments(ctx context.Context, teacherID uuid.UUID) ([]model.TeachingAssignmentRow, error) {
	if g.TeachingErr != nil {
		return nil, g.TeachingErr
	}
	var out []model.TeachingAssignmentRow
	for _, ta := range g.TeachingAssignments {
		if ta.TeacherID == teacherID {
			out = append(out, ta)
		}
	}
	return out, nil
}

func (g *FakeGateway) ListStudentsByClasses(ctx context.Context, classIDs []uuid.UUID) ([]model.StudentRow, error) {
	if g.StudentsErr != nil {
		return nil, g.StudentsErr
	}
	in := toSet(classIDs)
	var out []model.StudentRow
	for _, s := range g.Students {
		if in[s.ClassID] {
			out = append(out, s)
		}
	}
	return out, nil
}

func (g *FakeGateway) ListActiveQuizzes(ctx context.Context, taIDs []uuid.UUID) ([]model.QuizRow, error) {
	if g.QuizzesErr != nil {
		return nil, g.QuizzesErr
	}
	in := toSet(taIDs)
	var out []model.QuizRow
	for _, q := range g.Quizzes {
		if in[q.TeachingAssignmentID] && q.IsActive {
			out = append(out, q)
		}
	}
	return out, nil
}

func (g *FakeGateway) ListQuestions(ctx context.Context, quizID uuid.UUID) ([]model.QuestionRow, error) {
	if err := g.QuestionsErr[quizID]; err != nil {
		return nil, err
	}
	return g.Questions[quizID], nil
}

func (g *FakeGateway) ListAssignments(ctx context.Context, taIDs []uuid.UUID) ([]model.AssignmentRow, error) {
	if g.AssignmentsErr != nil {
		return nil, g.AssignmentsErr
	}
	in := toSet(taIDs)
	var out []model.AssignmentRow
	for _, a := range g.Assignments {
		if in[a.TeachingAssignmentID] {
			out = append(out, a)
		}
	}
	return out, nil
}

func (g *FakeGateway) UpsertQuizSubmission(ctx context.Context, row model.QuizSubmissionRow) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.QuizAttempts++
	if g.QuizUpsertErr != nil {
		if err := g.QuizUpsertErr(row); err != nil {
			return err
		}
	}
	g.QuizUpserts = append(g.QuizUpserts, row)
	return nil
}

func (g *FakeGateway) UpsertAssignmentSubmission(ctx context.Context, row model.AssignmentSubmissionRow) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.AssignmentAttempts++
	if g.AssignmentUpsertErr != nil {
		if err := g.AssignmentUpsertErr(row); err != nil {
			return err
		}
	}
	g.AssignmentUpserts = append(g.AssignmentUpserts, row)
	return nil
}

// Writes: jumlah upsert yang sukses sampai saat ini.
func (g *FakeGateway) Writes() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.QuizUpserts) + len(g.AssignmentUpserts)
}

func toSet(ids []uuid.UUID) map[uuid.UUID]bool {
	m := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		m[id] = true
	}
	return m
}

// Attempts: jumlah semua panggilan upsert (sukses + gagal).
func (g *FakeGateway) Attempts() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.QuizAttempts + g.AssignmentAttempts
}
