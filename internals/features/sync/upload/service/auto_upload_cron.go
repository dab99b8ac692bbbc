package service

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

type ReadyChecker interface {
	IsReady() bool
}

// StartAutoUploadCron: upload otomatis berkala selama server "ready".
// schedule kosong = nonaktif (nil, nil).
func StartAutoUploadCron(schedule string, svc *UploadService, state ReadyChecker, timeout time.Duration) (*cron.Cron, error) {
	schedule = strings.TrimSpace(schedule)
	if schedule == "" {
		log.Info().Msg("[AUTO-UPLOAD] nonaktif (AUTO_UPLOAD_CRON kosong)")
		return nil, nil
	}
	if timeout <= 0 {
		timeout = 4 * time.Minute
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	_, err := c.AddFunc(schedule, func() {
		if !state.IsReady() {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		res, err := svc.Upload(ctx, Options{})
		switch {
		case errors.Is(err, ErrOffline), errors.Is(err, ErrUploadInProgress):
			log.Debug().Err(err).Msg("[AUTO-UPLOAD] dilewati")
		case err != nil:
			log.Error().Err(err).Msg("[AUTO-UPLOAD] gagal")
		default:
			log.Info().
				Int("quiz_ok", res.Quizzes.Success).
				Int("assignment_ok", res.Assignments.Success).
				Msg("[AUTO-UPLOAD] selesai")
		}
	})
	if err != nil {
		return nil, errors.Wrapf(err, "jadwal AUTO_UPLOAD_CRON tidak valid: %q", schedule)
	}

	log.Info().Str("schedule", schedule).Msg("[AUTO-UPLOAD] started")
	c.Start()
	return c, nil
}
