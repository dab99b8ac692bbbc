// file: internals/features/exam/students/model/student_model.go
package model

import (
	"github.com/google/uuid"
)

// StudentModel adalah cache roster siswa; diganti total setiap download.
type StudentModel struct {
	StudentID      uuid.UUID `gorm:"column:student_id;type:uuid;primaryKey" json:"student_id"`
	StudentNIS     string    `gorm:"column:student_nis;type:varchar(50);not null;index:idx_students_nis" json:"student_nis"`
	StudentNama    string    `gorm:"column:student_nama;type:varchar(160);not null" json:"student_nama"`
	StudentKelas   string    `gorm:"column:student_kelas;type:varchar(80)" json:"student_kelas"`
	StudentClassID uuid.UUID `gorm:"column:student_class_id;type:uuid" json:"student_class_id"`
}

func (StudentModel) TableName() string { return "students" }
