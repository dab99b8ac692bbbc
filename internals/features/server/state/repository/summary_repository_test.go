package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	assignmentModel "ujianku_backend/internals/features/exam/assignments/model"
	quizModel "ujianku_backend/internals/features/exam/quizzes/model"
	dto "ujianku_backend/internals/features/server/state/dto"
	"ujianku_backend/internals/testutil"
)

func TestFill_SeparatesSkippedFromPending(t *testing.T) {
	db := testutil.OpenDB(t)
	budi := testutil.CreateStudent(t, db, "1234", "Budi", "X IPA 1")
	ani := testutil.CreateStudent(t, db, "5678", "Ani", "X IPA 1")
	citra := testutil.CreateStudent(t, db, "9012", "Citra", "X IPA 1")
	quiz, _ := testutil.CreateQuiz(t, db, "UH 1", false)
	a := testutil.CreateAssignment(t, db, "Tugas")

	now := time.Now().UTC()
	rows := []quizModel.QuizSubmissionModel{
		{QuizSubmissionQuizID: quiz.QuizID, QuizSubmissionStudentID: budi.StudentID, QuizSubmissionAnswers: datatypes.JSON(`[]`), QuizSubmissionSubmittedAt: now},
		{QuizSubmissionQuizID: quiz.QuizID, QuizSubmissionStudentID: ani.StudentID, QuizSubmissionAnswers: datatypes.JSON(`[]`), QuizSubmissionSubmittedAt: now,
			QuizSubmissionSkippedAt: &now, QuizSubmissionSkipReason: testutil.StrPtr("violates foreign key constraint")},
		{QuizSubmissionQuizID: quiz.QuizID, QuizSubmissionStudentID: citra.StudentID, QuizSubmissionAnswers: datatypes.JSON(`[]`), QuizSubmissionSubmittedAt: now,
			QuizSubmissionUploaded: true},
	}
	require.NoError(t, db.Create(&rows).Error)
	require.NoError(t, db.Create(&assignmentModel.AssignmentSubmissionModel{
		AssignmentSubmissionAssignmentID: a.AssignmentID,
		AssignmentSubmissionStudentID:    budi.StudentID,
		AssignmentSubmissionAnswer:       "jawaban",
		AssignmentSubmissionSubmittedAt:  now,
		AssignmentSubmissionSkippedAt:    &now,
	}).Error)

	var out dto.LocalSummary
	require.NoError(t, NewSummaryRepository(db).Fill(context.Background(), &out))

	assert.EqualValues(t, 3, out.Students)
	assert.EqualValues(t, 1, out.Quizzes)
	assert.EqualValues(t, 1, out.Assignments)
	assert.Equal(t, dto.SubmissionCount{Total: 3, Pending: 1, Skipped: 1}, out.QuizSubmissions)
	assert.Equal(t, dto.SubmissionCount{Total: 1, Pending: 0, Skipped: 1}, out.AssignmentSubmissions)
}
