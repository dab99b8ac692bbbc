package model

import (
	"time"

	"github.com/google/uuid"
)

// AssignmentModel: tugas non-kuis (cache dari remote).
type AssignmentModel struct {
	AssignmentID                   uuid.UUID  `gorm:"column:assignment_id;type:uuid;primaryKey" json:"assignment_id"`
	AssignmentTeachingAssignmentID uuid.UUID  `gorm:"column:assignment_teaching_assignment_id;type:uuid;not null" json:"assignment_teaching_assignment_id"`
	AssignmentTitle                string     `gorm:"column:assignment_title;type:varchar(255);not null" json:"assignment_title"`
	AssignmentDescription          *string    `gorm:"column:assignment_description;type:text" json:"assignment_description,omitempty"`
	AssignmentType                 string     `gorm:"column:assignment_type;type:varchar(50)" json:"assignment_type"`
	AssignmentDueDate              *time.Time `gorm:"column:assignment_due_date" json:"assignment_due_date,omitempty"`
	AssignmentSubjectName          string     `gorm:"column:assignment_subject_name;type:varchar(160)" json:"assignment_subject_name"`
	AssignmentClassName            string     `gorm:"column:assignment_class_name;type:varchar(80)" json:"assignment_class_name"`
}

func (AssignmentModel) TableName() string { return "assignments" }

type AssignmentSubmissionModel struct {
	AssignmentSubmissionID           uint      `gorm:"column:assignment_submission_id;primaryKey;autoIncrement" json:"assignment_submission_id"`
	AssignmentSubmissionAssignmentID uuid.UUID `gorm:"column:assignment_submission_assignment_id;type:uuid;not null;uniqueIndex:uq_assignment_submissions_assignment_student,priority:1" json:"assignment_submission_assignment_id"`
	AssignmentSubmissionStudentID    uuid.UUID `gorm:"column:assignment_submission_student_id;type:uuid;not null;uniqueIndex:uq_assignment_submissions_assignment_student,priority:2" json:"assignment_submission_student_id"`
	AssignmentSubmissionAnswer       string    `gorm:"column:assignment_submission_answer;type:text;not null" json:"assignment_submission_answer"`
	AssignmentSubmissionSubmittedAt  time.Time `gorm:"column:assignment_submission_submitted_at;not null" json:"assignment_submission_submitted_at"`
	AssignmentSubmissionUploaded     bool      `gorm:"column:assignment_submission_uploaded;not null;default:false;index:idx_assignment_submissions_uploaded" json:"assignment_submission_uploaded"`

	AssignmentSubmissionSkippedAt  *time.Time `gorm:"column:assignment_submission_skipped_at" json:"assignment_submission_skipped_at,omitempty"`
	AssignmentSubmissionSkipReason *string    `gorm:"column:assignment_submission_skip_reason;type:text" json:"assignment_submission_skip_reason,omitempty"`
}

func (AssignmentSubmissionModel) TableName() string { return "assignment_submissions" }
