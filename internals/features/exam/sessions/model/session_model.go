package model

import (
	"time"

	"github.com/google/uuid"
)

// SessionModel: satu sesi aktif per siswa (unique student_id).
type SessionModel struct {
	SessionID        uint      `gorm:"column:session_id;primaryKey;autoIncrement" json:"session_id"`
	SessionStudentID uuid.UUID `gorm:"column:session_student_id;type:uuid;not null;uniqueIndex:uq_sessions_student" json:"session_student_id"`
	SessionToken     string    `gorm:"column:session_token;type:varchar(128);not null;uniqueIndex:uq_sessions_token" json:"-"`
	SessionCreatedAt time.Time `gorm:"column:session_created_at;not null;autoCreateTime" json:"session_created_at"`
}

func (SessionModel) TableName() string { return "sessions" }
