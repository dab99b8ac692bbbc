package model

import "time"

const (
	MetaKeyTeacherID      = "teacher_id"
	MetaKeyTeacherNIP     = "teacher_nip"
	MetaKeyTeacherName    = "teacher_name"
	MetaKeyLastDownloadAt = "last_download_at"
)

// MetaModel menyimpan fakta process-wide (separuh "persisten" dari state machine).
type MetaModel struct {
	MetaKey       string    `gorm:"column:meta_key;type:varchar(64);primaryKey" json:"meta_key"`
	MetaValue     string    `gorm:"column:meta_value;type:text;not null" json:"meta_value"`
	MetaUpdatedAt time.Time `gorm:"column:meta_updated_at;not null;autoUpdateTime" json:"meta_updated_at"`
}

func (MetaModel) TableName() string { return "meta" }
