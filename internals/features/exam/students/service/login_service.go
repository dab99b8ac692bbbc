// file: internals/features/exam/students/service/login_service.go
package service

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	sessionService "ujianku_backend/internals/features/exam/sessions/service"
	dto "ujianku_backend/internals/features/exam/students/dto"
	model "ujianku_backend/internals/features/exam/students/model"
)

var ErrStudentNotFound = errors.New("Siswa dengan NIS tersebut tidak ditemukan")

type LoginService struct {
	DB       *gorm.DB
	Sessions *sessionService.SessionService
}

func NewLoginService(db *gorm.DB, sessions *sessionService.SessionService) *LoginService {
	return &LoginService{DB: db, Sessions: sessions}
}

// Login mencari siswa berdasarkan NIS (exact) lalu menerbitkan sesi baru.
func (s *LoginService) Login(ctx context.Context, nis string) (*dto.LoginResponse, error) {
	nis = strings.TrimSpace(nis)
	if nis == "" {
		return nil, ErrStudentNotFound
	}

	var student model.StudentModel
	err := s.DB.WithContext(ctx).Where("student_nis = ?", nis).Take(&student).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrStudentNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "gagal mencari siswa")
	}

	token, err := s.Sessions.Create(ctx, student.StudentID)
	if err != nil {
		return nil, err
	}

	log.Info().Str("nis", nis).Msg("[LOGIN] siswa masuk")
	return &dto.LoginResponse{
		Token:   token,
		Student: dto.FromStudentModel(&student),
	}, nil
}

func (s *LoginService) Logout(ctx context.Context, token string) error {
	return s.Sessions.Delete(ctx, token)
}
