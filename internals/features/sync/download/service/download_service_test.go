package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	assignmentModel "ujianku_backend/internals/features/exam/assignments/model"
	quizModel "ujianku_backend/internals/features/exam/quizzes/model"
	studentModel "ujianku_backend/internals/features/exam/students/model"
	metaModel "ujianku_backend/internals/features/server/meta/model"
	metaRepo "ujianku_backend/internals/features/server/meta/repository"
	remoteModel "ujianku_backend/internals/features/sync/remote/model"
	remote "ujianku_backend/internals/features/sync/remote/repository"
	"ujianku_backend/internals/testutil"
)

const teacherNIP = "198001012010011001"

// stubImages: ref yang dikenal → path lokal, selain itu gagal (nil).
type stubImages struct {
	ok    map[string]string
	calls []string
}

func (s *stubImages) Fetch(ctx context.Context, ref string, questionID uuid.UUID) *string {
	s.calls = append(s.calls, ref)
	if p, found := s.ok[ref]; found {
		return &p
	}
	return nil
}

type fixture struct {
	gw     *testutil.FakeGateway
	images *stubImages
	quiz1  uuid.UUID
	quiz2  uuid.UUID
	class1 uuid.UUID
}

func newFixture() *fixture {
	teacherID := uuid.New()
	class1, class2, class3 := uuid.New(), uuid.New(), uuid.New()
	ta1, ta2 := uuid.New(), uuid.New()
	quiz1, quiz2, quiz3 := uuid.New(), uuid.New(), uuid.New()

	classRow := func(id uuid.UUID, nama string) *remoteModel.ClassRow {
		return &remoteModel.ClassRow{ID: id, Nama: nama}
	}

	gw := &testutil.FakeGateway{
		Teacher: &remoteModel.TeacherRow{ID: teacherID, NIP: teacherNIP, Nama: "Bu Sri", IsActive: true},
		TeachingAssignments: []remoteModel.TeachingAssignmentRow{
			{ID: ta1, TeacherID: teacherID, ClassID: class1, Class: classRow(class1, "X IPA 1"),
				Subject: &remoteModel.SubjectRow{ID: uuid.New(), Nama: "Matematika"}},
			{ID: ta2, TeacherID: teacherID, ClassID: class2, Class: classRow(class2, "X IPA 2"),
				Subject: &remoteModel.SubjectRow{ID: uuid.New(), Nama: "Fisika"}},
		},
		Students: []remoteModel.StudentRow{
			{ID: uuid.New(), NIS: "1234", Nama: "Budi", ClassID: class1, Class: classRow(class1, "X IPA 1")},
			{ID: uuid.New(), NIS: "1235", Nama: "Ani", ClassID: class1, Class: classRow(class1, "X IPA 1")},
			{ID: uuid.New(), NIS: "2001", Nama: "Citra", ClassID: class2, Class: classRow(class2, "X IPA 2")},
			{ID: uuid.New(), NIS: "3001", Nama: "Dodi", ClassID: class3, Class: classRow(class3, "XI IPS 1")},
		},
		Quizzes: []remoteModel.QuizRow{
			{ID: quiz1, TeachingAssignmentID: ta1, Title: "UH Aljabar", DurationMinutes: 45, RandomizeQuestions: true, IsActive: true},
			{ID: quiz2, TeachingAssignmentID: ta2, Title: "UH Gerak", DurationMinutes: 30, IsActive: true},
			{ID: quiz3, TeachingAssignmentID: ta1, Title: "Draft", IsActive: false},
		},
		Questions: map[uuid.UUID][]remoteModel.QuestionRow{
			quiz1: {
				{ID: uuid.New(), QuizID: quiz1, QuestionText: "2+2?", QuestionType: "MULTIPLE_CHOICE",
					Options: datatypes.JSON(`["3","4","5"]`), CorrectAnswer: testutil.StrPtr("4"), Points: 10, OrderNumber: 1,
					ImageURL: testutil.StrPtr("storage/v1/object/public/soal/a.png")},
				{ID: uuid.New(), QuizID: quiz1, QuestionText: "Jelaskan", QuestionType: "ESSAY",
					Options: datatypes.JSON(`["tidak dipakai"]`), Points: 20, OrderNumber: 2,
					ImageURL: testutil.StrPtr("https://rusak.example/b.png")},
			},
			quiz2: {
				{ID: uuid.New(), QuizID: quiz2, QuestionText: "v = ?", QuestionType: "multiple_choice",
					Options: datatypes.JSON(`["s/t","t/s"]`), CorrectAnswer: testutil.StrPtr("s/t"), Points: 5, OrderNumber: 1},
			},
		},
		Assignments: []remoteModel.AssignmentRow{
			{ID: uuid.New(), TeachingAssignmentID: ta1, Title: "Rangkuman", AssignmentType: "ESSAY"},
			{ID: uuid.New(), TeachingAssignmentID: uuid.New(), Title: "Bukan milik guru ini"},
		},
	}

	return &fixture{
		gw: gw,
		images: &stubImages{ok: map[string]string{
			"storage/v1/object/public/soal/a.png": "/images/question-a.png",
		}},
		quiz1:  quiz1,
		quiz2:  quiz2,
		class1: class1,
	}
}

func count(t *testing.T, db *gorm.DB, m any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(m).Count(&n).Error)
	return n
}

func TestDownload_FullRun(t *testing.T) {
	db := testutil.OpenDB(t)
	fx := newFixture()
	svc := NewDownloadService(db, fx.gw, fx.images)

	var progress []string
	sum, err := svc.Download(context.Background(), teacherNIP, func(p string) { progress = append(progress, p) })
	require.NoError(t, err)

	assert.Equal(t, "Bu Sri", sum.TeacherName)
	assert.Equal(t, 3, sum.Students)
	assert.Equal(t, 2, sum.Quizzes)
	assert.Equal(t, 3, sum.Questions)
	assert.Equal(t, 1, sum.Assignments)
	assert.Equal(t, 1, sum.ImagesFailed)
	assert.Empty(t, sum.DegradedStages)
	assert.False(t, sum.DownloadedAt.IsZero())
	assert.Contains(t, progress, "Mengunduh data siswa...")
	assert.Equal(t, "Selesai", progress[len(progress)-1])

	assert.Equal(t, int64(3), count(t, db, &studentModel.StudentModel{}))
	assert.Equal(t, int64(2), count(t, db, &quizModel.QuizModel{}))
	assert.Equal(t, int64(3), count(t, db, &quizModel.QuizQuestionModel{}))
	assert.Equal(t, int64(1), count(t, db, &assignmentModel.AssignmentModel{}))

	// label mapel/kelas didenormalisasi dari teaching assignment
	var q1 quizModel.QuizModel
	require.NoError(t, db.Where("quiz_id = ?", fx.quiz1).Take(&q1).Error)
	assert.Equal(t, "Matematika", q1.QuizSubjectName)
	assert.Equal(t, "X IPA 1", q1.QuizClassName)
	assert.True(t, q1.QuizRandomize)

	var questions []quizModel.QuizQuestionModel
	require.NoError(t, db.Where("quiz_question_quiz_id = ?", fx.quiz1).
		Order("quiz_question_order ASC").Find(&questions).Error)
	require.Len(t, questions, 2)
	require.NotNil(t, questions[0].QuizQuestionImageURL)
	assert.Equal(t, "/images/question-a.png", *questions[0].QuizQuestionImageURL)
	assert.Nil(t, questions[1].QuizQuestionImageURL, "gambar gagal → null, download tetap sukses")
	assert.Equal(t, quizModel.QuizQuestionTypeEssay, questions[1].QuizQuestionType)
	assert.Empty(t, questions[1].QuizQuestionOptions, "opsi hanya untuk pilihan ganda")

	var q2Questions []quizModel.QuizQuestionModel
	require.NoError(t, db.Where("quiz_question_quiz_id = ?", fx.quiz2).Find(&q2Questions).Error)
	require.Len(t, q2Questions, 1)
	assert.True(t, q2Questions[0].IsMultipleChoice())

	meta, err := metaRepo.NewMetaRepository(db).All(context.Background())
	require.NoError(t, err)
	assert.Equal(t, teacherNIP, meta[metaModel.MetaKeyTeacherNIP])
	assert.Equal(t, "Bu Sri", meta[metaModel.MetaKeyTeacherName])
	assert.NotEmpty(t, meta[metaModel.MetaKeyLastDownloadAt])
}

func TestDownload_Idempotent(t *testing.T) {
	db := testutil.OpenDB(t)
	fx := newFixture()
	svc := NewDownloadService(db, fx.gw, fx.images)

	first, err := svc.Download(context.Background(), teacherNIP, nil)
	require.NoError(t, err)
	second, err := svc.Download(context.Background(), teacherNIP, nil)
	require.NoError(t, err)

	assert.Equal(t, first.Students, second.Students)
	assert.Equal(t, first.Quizzes, second.Quizzes)
	assert.Equal(t, first.Questions, second.Questions)
	assert.Equal(t, first.Assignments, second.Assignments)

	assert.Equal(t, int64(3), count(t, db, &studentModel.StudentModel{}))
	assert.Equal(t, int64(3), count(t, db, &quizModel.QuizQuestionModel{}))
}

func TestDownload_TeacherErrorsAreFatal(t *testing.T) {
	tests := []struct {
		name    string
		nip     string
		mutate  func(gw *testutil.FakeGateway)
		wantErr error
	}{
		{name: "unknown nip", nip: "000", wantErr: remote.ErrTeacherNotFound},
		{name: "inactive teacher", nip: teacherNIP, mutate: func(gw *testutil.FakeGateway) { gw.Teacher.IsActive = false }, wantErr: remote.ErrAccessDenied},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := testutil.OpenDB(t)
			fx := newFixture()
			if tt.mutate != nil {
				tt.mutate(fx.gw)
			}
			testutil.CreateStudent(t, db, "lama", "Siswa Lama", "X")

			_, err := NewDownloadService(db, fx.gw, fx.images).Download(context.Background(), tt.nip, nil)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.wantErr.Error(), err.Error(), "pesan diteruskan apa adanya")
			assert.Equal(t, int64(1), count(t, db, &studentModel.StudentModel{}), "data lama tidak disentuh")
		})
	}
}

func TestDownload_EmptyTeachingAssignments(t *testing.T) {
	db := testutil.OpenDB(t)
	fx := newFixture()
	fx.gw.TeachingAssignments = nil
	testutil.CreateStudent(t, db, "lama", "Siswa Lama", "X")

	sum, err := NewDownloadService(db, fx.gw, fx.images).Download(context.Background(), teacherNIP, nil)
	require.NoError(t, err)
	assert.Zero(t, sum.Students)
	assert.Zero(t, sum.Quizzes)
	assert.Empty(t, sum.DegradedStages)
	assert.Empty(t, fx.images.calls)
	assert.Equal(t, int64(1), count(t, db, &studentModel.StudentModel{}))
}

func TestDownload_StageFailureDegrades(t *testing.T) {
	db := testutil.OpenDB(t)
	fx := newFixture()
	fx.gw.StudentsErr = errors.New("timeout")
	fx.gw.QuestionsErr = map[uuid.UUID]error{fx.quiz2: errors.New("boom")}
	testutil.CreateStudent(t, db, "lama", "Siswa Lama", "X")

	sum, err := NewDownloadService(db, fx.gw, fx.images).Download(context.Background(), teacherNIP, nil)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{StageStudents, StageQuestions}, sum.DegradedStages)
	assert.Equal(t, 2, sum.Quizzes)
	assert.Equal(t, 2, sum.Questions)
	assert.Equal(t, 1, sum.Assignments)

	// siswa tetap data lama (stale), bukan kosong
	assert.Equal(t, int64(1), count(t, db, &studentModel.StudentModel{}))
}
