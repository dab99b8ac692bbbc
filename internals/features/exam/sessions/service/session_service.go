// file: internals/features/exam/sessions/service/session_service.go
package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	model "ujianku_backend/internals/features/exam/sessions/model"
	helper "ujianku_backend/internals/helpers"
)

var ErrSessionNotFound = errors.New("Sesi tidak valid, silakan login ulang")

type SessionService struct {
	DB *gorm.DB
}

func NewSessionService(db *gorm.DB) *SessionService {
	return &SessionService{DB: db}
}

// Create menerbitkan token baru; sesi lama siswa ini dihapus di transaksi yang sama.
func (s *SessionService) Create(ctx context.Context, studentID uuid.UUID) (string, error) {
	token, err := helper.GenerateSessionToken()
	if err != nil {
		return "", errors.Wrap(err, "gagal membuat token sesi")
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_student_id = ?", studentID).
			Delete(&model.SessionModel{}).Error; err != nil {
			return err
		}
		return tx.Create(&model.SessionModel{
			SessionStudentID: studentID,
			SessionToken:     token,
		}).Error
	})
	if err != nil {
		return "", errors.Wrap(err, "gagal menyimpan sesi")
	}
	return token, nil
}

// Resolve: token → student_id.
func (s *SessionService) Resolve(ctx context.Context, token string) (uuid.UUID, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return uuid.Nil, ErrSessionNotFound
	}
	var row model.SessionModel
	err := s.DB.WithContext(ctx).
		Where("session_token = ?", token).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return uuid.Nil, ErrSessionNotFound
	}
	if err != nil {
		return uuid.Nil, errors.Wrap(err, "gagal membaca sesi")
	}
	return row.SessionStudentID, nil
}

func (s *SessionService) Delete(ctx context.Context, token string) error {
	err := s.DB.WithContext(ctx).
		Where("session_token = ?", strings.TrimSpace(token)).
		Delete(&model.SessionModel{}).Error
	return errors.Wrap(err, "gagal menghapus sesi")
}
