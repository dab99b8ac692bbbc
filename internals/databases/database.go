package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"ujianku_backend/internals/configs"
)

// OpenLocal membuka store lokal (sqlite), satu-satunya sumber kebenaran saat offline.
//
// WAL: banyak reader + satu writer. _txlock=immediate membuat transaksi tulis langsung
// mengambil write lock, _busy_timeout membatasi lamanya menunggu lock itu.
func OpenLocal(path string, busyTimeoutMs int) (*gorm.DB, error) {
	log.Info().Str("path", path).Msg("🔌 Membuka store lokal (sqlite)...")

	if busyTimeoutMs <= 0 {
		busyTimeoutMs = 5000
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrap(err, "gagal membuat folder database")
		}
	}

	dsn := fmt.Sprintf(
		"file:%s?_journal_mode=WAL&_busy_timeout=%d&_foreign_keys=on&_txlock=immediate&_synchronous=NORMAL",
		path, busyTimeoutMs,
	)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         configs.NewGormLogger("local"),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, errors.Wrap(err, "gagal membuka sqlite")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(8)
	sqlDB.SetMaxIdleConns(4)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	if err := checkWriteLock(db); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	if err := Migrate(db); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	log.Info().Msg("✅ Store lokal siap.")
	return db, nil
}

// checkWriteLock: file dipegang proses lain harus jadi error startup, bukan crash.
func checkWriteLock(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	conn, err := sqlDB.Conn(ctx)
	if err != nil {
		return errors.Wrap(err, "store lokal tidak bisa dibuka")
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, "BEGIN IMMEDIATE"); err != nil {
		return errors.Wrap(err, "store lokal sedang dipakai proses lain")
	}
	if _, err := conn.ExecContext(ctx, "ROLLBACK"); err != nil {
		return errors.Wrap(err, "store lokal gagal rollback cek lock")
	}
	return nil
}

// OpenRemote membuka koneksi ke Postgres Supabase. Tidak melakukan ping saat open:
// server harus tetap bisa start tanpa internet.
func OpenRemote(dsn string, timeout time.Duration) (*gorm.DB, error) {
	log.Info().Msg("🔌 Menyiapkan koneksi remote (Supabase PostgreSQL)...")

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true, // 👍 cocok untuk PgBouncer (transaction pooling)
	}), &gorm.Config{
		Logger:               configs.NewGormLogger("remote"),
		TranslateError:       true,
		DisableAutomaticPing: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "gagal menyiapkan koneksi remote")
	}
	TunePool(db, timeout)
	return db, nil
}

func TunePool(db *gorm.DB, timeout time.Duration) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Warn().Err(err).Msg("pool tune err")
		return
	}
	// ⚖️ satu guru, satu server lokal: pool kecil cukup
	sqlDB.SetMaxOpenConns(4)
	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	if timeout > 0 {
		sqlDB.SetConnMaxLifetime(10 * timeout)
	}
}

// Close menutup pool *sql.DB di balik gorm.
func Close(db *gorm.DB) {
	if db == nil {
		return
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
