package configs

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Port         int
	PortAttempts int

	DBPath          string
	DBBusyTimeoutMs int

	// Remote (Supabase): Postgres DSN untuk data, base URL + key untuk storage gambar
	SupabaseDBURL string
	SupabaseURL   string
	SupabaseKey   string
	RemoteTimeout time.Duration

	DownloadTimeout time.Duration

	ImageDir      string
	ImageMaxBytes int64
	ImageMaxWidth int

	AutoUploadCron string
	ForceSetup     bool

	LogLevel    string
	LogPretty   bool
	CorsOrigins string
}

// =======================
// ENV LOADER
// =======================
func LoadEnv() *Config {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("⚠️ Tidak menemukan .env file, menggunakan ENV dari sistem")
	} else {
		log.Info().Msg("✅ .env file berhasil dimuat!")
	}
	return Load(viper.New())
}

// Load membaca konfigurasi dari environment lewat viper (default di bawah).
func Load(v *viper.Viper) *Config {
	setDefaults(v)
	v.AutomaticEnv()

	cfg := &Config{
		Port:            v.GetInt("PORT"),
		PortAttempts:    v.GetInt("PORT_ATTEMPTS"),
		DBPath:          v.GetString("DB_PATH"),
		DBBusyTimeoutMs: v.GetInt("DB_BUSY_TIMEOUT_MS"),
		SupabaseDBURL:   v.GetString("SUPABASE_DB_URL"),
		SupabaseURL:     strings.TrimRight(v.GetString("SUPABASE_URL"), "/"),
		SupabaseKey:     v.GetString("SUPABASE_KEY"),
		RemoteTimeout:   v.GetDuration("REMOTE_TIMEOUT"),
		DownloadTimeout: v.GetDuration("DOWNLOAD_TIMEOUT"),
		ImageDir:        v.GetString("IMAGE_DIR"),
		ImageMaxBytes:   v.GetInt64("IMAGE_MAX_BYTES"),
		ImageMaxWidth:   v.GetInt("IMAGE_MAX_WIDTH"),
		AutoUploadCron:  strings.TrimSpace(v.GetString("AUTO_UPLOAD_CRON")),
		ForceSetup:      v.GetBool("FORCE_SETUP"),
		LogLevel:        v.GetString("LOG_LEVEL"),
		LogPretty:       v.GetBool("LOG_PRETTY"),
		CorsOrigins:     v.GetString("CORS_ORIGINS"),
	}

	if cfg.PortAttempts < 1 {
		cfg.PortAttempts = 1
	}
	if cfg.SupabaseDBURL == "" {
		log.Warn().Msg("❌ SUPABASE_DB_URL belum diset! Download & upload akan gagal")
	}
	if cfg.SupabaseURL == "" {
		log.Warn().Msg("❌ SUPABASE_URL belum diset! Gambar relatif tidak bisa diunduh")
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", 3000)
	v.SetDefault("PORT_ATTEMPTS", 10)
	v.SetDefault("DB_PATH", "ujianku.db")
	v.SetDefault("DB_BUSY_TIMEOUT_MS", 5000)
	v.SetDefault("SUPABASE_DB_URL", "")
	v.SetDefault("SUPABASE_URL", "")
	v.SetDefault("SUPABASE_KEY", "")
	v.SetDefault("REMOTE_TIMEOUT", 15*time.Second)
	v.SetDefault("DOWNLOAD_TIMEOUT", 30*time.Minute)
	v.SetDefault("IMAGE_DIR", "images")
	v.SetDefault("IMAGE_MAX_BYTES", 10<<20)
	v.SetDefault("IMAGE_MAX_WIDTH", 0)
	v.SetDefault("AUTO_UPLOAD_CRON", "*/5 * * * *")
	v.SetDefault("FORCE_SETUP", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_PRETTY", true)
	v.SetDefault("CORS_ORIGINS", "*")
}
