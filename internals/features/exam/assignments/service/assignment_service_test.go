package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	model "ujianku_backend/internals/features/exam/assignments/model"
	"ujianku_backend/internals/testutil"
)

func TestSubmitAssignment(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := NewAssignmentService(db)
	ctx := context.Background()

	student := testutil.CreateStudent(t, db, "1234", "Budi", "X IPA 1")
	a := testutil.CreateAssignment(t, db, "Rangkuman Bab 1")

	tests := []struct {
		name         string
		assignmentID uuid.UUID
		answer       string
		wantErr      error
	}{
		{name: "empty answer", assignmentID: a.AssignmentID, answer: "   ", wantErr: ErrEmptyAnswer},
		{name: "unknown assignment", assignmentID: uuid.New(), answer: "isi", wantErr: ErrAssignmentNotFound},
		{name: "first submit", assignmentID: a.AssignmentID, answer: "  Rangkuman saya  "},
		{name: "duplicate", assignmentID: a.AssignmentID, answer: "lagi", wantErr: ErrAlreadySubmitted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := svc.SubmitAssignment(ctx, student.StudentID, tt.assignmentID, tt.answer)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.False(t, res.SubmittedAt.IsZero())
		})
	}

	var rows []model.AssignmentSubmissionModel
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, "Rangkuman saya", rows[0].AssignmentSubmissionAnswer)
	assert.False(t, rows[0].AssignmentSubmissionUploaded)
}

func TestListAssignments_Annotation(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := NewAssignmentService(db)
	ctx := context.Background()

	budi := testutil.CreateStudent(t, db, "1234", "Budi", "X IPA 1")
	ani := testutil.CreateStudent(t, db, "5678", "Ani", "X IPA 1")
	a := testutil.CreateAssignment(t, db, "Tugas A")
	testutil.CreateAssignment(t, db, "Tugas B")

	_, err := svc.SubmitAssignment(ctx, budi.StudentID, a.AssignmentID, "jawaban")
	require.NoError(t, err)

	items, err := svc.ListAssignments(ctx, budi.StudentID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	submitted := map[string]bool{}
	for _, it := range items {
		submitted[it.Title] = it.Submitted
	}
	assert.True(t, submitted["Tugas A"])
	assert.False(t, submitted["Tugas B"])

	items, err = svc.ListAssignments(ctx, ani.StudentID)
	require.NoError(t, err)
	for _, it := range items {
		assert.False(t, it.Submitted)
		assert.Nil(t, it.SubmittedAt)
	}
}
