package routes

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	quizModel "ujianku_backend/internals/features/exam/quizzes/model"
	metaModel "ujianku_backend/internals/features/server/meta/model"
	metaRepo "ujianku_backend/internals/features/server/meta/repository"
	stateService "ujianku_backend/internals/features/server/state/service"
	downloadService "ujianku_backend/internals/features/sync/download/service"
	uploadService "ujianku_backend/internals/features/sync/upload/service"
	helper "ujianku_backend/internals/helpers"
	"ujianku_backend/internals/testutil"
)

type failingDownloader struct{}

func (failingDownloader) Download(context.Context, string, downloadService.ProgressFunc) (*downloadService.Summary, error) {
	return nil, errors.New("Guru dengan NIP tersebut tidak ditemukan")
}

func newTestApp(t *testing.T, ready bool) (*fiber.App, *gorm.DB) {
	t.Helper()
	db := testutil.OpenDB(t)
	meta := metaRepo.NewMetaRepository(db)
	ctx := context.Background()

	if ready {
		require.NoError(t, meta.Set(ctx, map[string]string{
			metaModel.MetaKeyTeacherName:    "Bu Sri",
			metaModel.MetaKeyLastDownloadAt: time.Now().UTC().Format(time.RFC3339),
		}))
	}
	m := stateService.NewMachine(failingDownloader{}, meta, time.Minute)
	require.NoError(t, m.Restore(ctx, false))
	t.Cleanup(m.Shutdown)

	gw := &testutil.FakeGateway{PingErr: errors.New("dial tcp: no route to host")}
	app := NewApp("*")
	SetupRoutes(app, Deps{
		DB:       db,
		Machine:  m,
		Upload:   uploadService.NewUploadService(db, gw),
		ImageDir: t.TempDir(),
	})
	return app, db
}

func do(t *testing.T, app *fiber.App, method, path, body, token string) (int, map[string]any) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(helper.SessionHeader, token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func login(t *testing.T, app *fiber.App, nis string) string {
	t.Helper()
	code, body := do(t, app, http.MethodPost, "/api/login", `{"nis":"`+nis+`"}`, "")
	require.Equal(t, http.StatusOK, code, body)
	token, _ := body["token"].(string)
	require.Len(t, token, 64)
	return token
}

func TestStudentRoutesGatedUntilReady(t *testing.T) {
	app, _ := newTestApp(t, false)

	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/api/login"},
		{http.MethodGet, "/api/quizzes"},
		{http.MethodGet, "/api/assignments"},
	} {
		code, body := do(t, app, tc.method, tc.path, "", "")
		assert.Equal(t, http.StatusServiceUnavailable, code, tc.path)
		assert.Equal(t, "setup", body["state"], tc.path)
		assert.NotEmpty(t, body["message"], tc.path)
	}

	// state publik tetap bisa dibaca
	code, body := do(t, app, http.MethodGet, "/api/server/state", "", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "setup", body["state"])
	assert.Nil(t, body["teacher_name"])
}

func TestSetupRequiresNIP(t *testing.T) {
	app, _ := newTestApp(t, false)

	code, body := do(t, app, http.MethodPost, "/api/teacher/setup", `{"nip":"  "}`, "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "BAD_REQUEST", body["error_code"])
}

func TestSetupRejectedWhenReady(t *testing.T) {
	app, _ := newTestApp(t, true)

	code, body := do(t, app, http.MethodPost, "/api/teacher/setup", `{"nip":"198001"}`, "")
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "CONFLICT", body["error_code"])
}

func TestLoginFlow(t *testing.T) {
	app, db := newTestApp(t, true)
	testutil.CreateStudent(t, db, "1234", "Budi", "X IPA 1")

	code, body := do(t, app, http.MethodPost, "/api/login", `{"nis":"99999"}`, "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "NOT_FOUND", body["error_code"])

	code, _ = do(t, app, http.MethodPost, "/api/login", `{}`, "")
	assert.Equal(t, http.StatusBadRequest, code)

	first := login(t, app, "1234")
	second := login(t, app, "1234")
	assert.NotEqual(t, first, second)

	// sesi lama dihapus saat login ulang
	code, _ = do(t, app, http.MethodGet, "/api/quizzes", "", first)
	assert.Equal(t, http.StatusUnauthorized, code)
	code, _ = do(t, app, http.MethodGet, "/api/quizzes", "", second)
	assert.Equal(t, http.StatusOK, code)

	code, _ = do(t, app, http.MethodPost, "/api/logout", "", second)
	assert.Equal(t, http.StatusOK, code)
	code, _ = do(t, app, http.MethodGet, "/api/quizzes", "", second)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestStudentRoutesRequireSession(t *testing.T) {
	app, _ := newTestApp(t, true)

	code, body := do(t, app, http.MethodGet, "/api/quizzes", "", "")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "UNAUTHORIZED", body["error_code"])

	code, _ = do(t, app, http.MethodGet, "/api/assignments", "", "bukan-token")
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestQuizSubmitOnce(t *testing.T) {
	app, db := newTestApp(t, true)
	testutil.CreateStudent(t, db, "1234", "Budi", "X IPA 1")
	quiz, qs := testutil.CreateQuiz(t, db, "UH 1", false,
		testutil.QuestionSpec{Type: quizModel.QuizQuestionTypeMultipleChoice, Correct: "B", Points: 10},
		testutil.QuestionSpec{Type: quizModel.QuizQuestionTypeMultipleChoice, Correct: "C", Points: 10},
	)
	token := login(t, app, "1234")

	code, body := do(t, app, http.MethodGet, "/api/quizzes/"+quiz.QuizID.String(), "", token)
	require.Equal(t, http.StatusOK, code)
	questions, _ := body["questions"].([]any)
	require.Len(t, questions, 2)
	for _, q := range questions {
		assert.NotContains(t, q.(map[string]any), "correct_answer")
	}

	submit := `{"answers":{"` + qs[0].QuizQuestionID.String() + `":"b","` + qs[1].QuizQuestionID.String() + `":"A"}}`
	code, body = do(t, app, http.MethodPost, "/api/quizzes/"+quiz.QuizID.String()+"/submit", submit, token)
	require.Equal(t, http.StatusOK, code, body)
	assert.EqualValues(t, 10, body["total_score"])
	assert.EqualValues(t, 20, body["max_score"])
	assert.EqualValues(t, 50, body["percentage"])

	code, body = do(t, app, http.MethodPost, "/api/quizzes/"+quiz.QuizID.String()+"/submit", submit, token)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, false, body["success"])

	code, _ = do(t, app, http.MethodGet, "/api/quizzes/00000000-0000-0000-0000-000000000000", "", token)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestAssignmentSubmit(t *testing.T) {
	app, db := newTestApp(t, true)
	testutil.CreateStudent(t, db, "1234", "Budi", "X IPA 1")
	a := testutil.CreateAssignment(t, db, "Esai 1")
	token := login(t, app, "1234")

	path := "/api/assignments/" + a.AssignmentID.String() + "/submit"
	code, _ := do(t, app, http.MethodPost, path, `{"answer":"   "}`, token)
	assert.Equal(t, http.StatusBadRequest, code)

	code, body := do(t, app, http.MethodPost, path, `{"answer":"Jawaban saya"}`, token)
	require.Equal(t, http.StatusOK, code, body)
	assert.NotEmpty(t, body["submitted_at"])

	code, _ = do(t, app, http.MethodPost, path, `{"answer":"lagi"}`, token)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestUploadOffline(t *testing.T) {
	app, _ := newTestApp(t, true)

	code, body := do(t, app, http.MethodPost, "/api/teacher/upload", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "SERVICE_UNAVAILABLE", body["error_code"])
}

func TestUploadStatus(t *testing.T) {
	app, _ := newTestApp(t, true)

	code, body := do(t, app, http.MethodGet, "/api/teacher/upload", "", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, body["running"])

	code, _ = do(t, app, http.MethodPost, "/api/teacher/upload?retry_skipped=true", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, code)
}

func TestHealth(t *testing.T) {
	app, _ := newTestApp(t, true)

	code, body := do(t, app, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ready", body["state"])
	assert.Equal(t, "Connected", body["database"])
}

func TestTeacherSummary(t *testing.T) {
	app, db := newTestApp(t, true)
	testutil.CreateStudent(t, db, "1234", "Budi", "X IPA 1")
	a := testutil.CreateAssignment(t, db, "Esai 1")
	token := login(t, app, "1234")

	code, _ := do(t, app, http.MethodPost, "/api/assignments/"+a.AssignmentID.String()+"/submit", `{"answer":"ok"}`, token)
	require.Equal(t, http.StatusOK, code)

	code, body := do(t, app, http.MethodGet, "/api/teacher/summary", "", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ready", body["state"])
	assert.Equal(t, "Bu Sri", body["teacher_name"])
	assert.EqualValues(t, 1, body["students"])
	assert.EqualValues(t, 1, body["assignments"])
	subs, _ := body["assignment_submissions"].(map[string]any)
	assert.EqualValues(t, 1, subs["total"])
	assert.EqualValues(t, 1, subs["pending"])
}
