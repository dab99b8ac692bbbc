package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"ujianku_backend/internals/configs"
	database "ujianku_backend/internals/databases"
	metaRepo "ujianku_backend/internals/features/server/meta/repository"
	stateService "ujianku_backend/internals/features/server/state/service"
	downloadService "ujianku_backend/internals/features/sync/download/service"
	imageService "ujianku_backend/internals/features/sync/images/service"
	remote "ujianku_backend/internals/features/sync/remote/repository"
	uploadService "ujianku_backend/internals/features/sync/upload/service"
	routes "ujianku_backend/internals/route"
)

func main() {
	cfg := configs.LoadEnv()
	configs.SetupLogger(cfg.LogLevel, cfg.LogPretty)

	// 🔌 store lokal: gagal buka = error startup, keluar dengan log (bukan panic)
	localDB, err := database.OpenLocal(cfg.DBPath, cfg.DBBusyTimeoutMs)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("❌ Store lokal tidak bisa dibuka")
	}

	// 🌐 remote: tidak di-ping saat start, server tetap jalan tanpa internet
	remoteDB, err := database.OpenRemote(cfg.SupabaseDBURL, cfg.RemoteTimeout)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Konfigurasi remote tidak valid")
	}
	gateway := remote.NewSupabaseGateway(remoteDB, cfg.RemoteTimeout)

	images, err := imageService.NewImageFetcher(
		cfg.SupabaseURL, cfg.SupabaseKey, cfg.ImageDir,
		cfg.ImageMaxBytes, cfg.ImageMaxWidth, cfg.RemoteTimeout,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Image fetcher gagal disiapkan")
	}

	downloader := downloadService.NewDownloadService(localDB, gateway, images)
	machine := stateService.NewMachine(downloader, metaRepo.NewMetaRepository(localDB), cfg.DownloadTimeout)
	if err := machine.Restore(context.Background(), cfg.ForceSetup); err != nil {
		log.Fatal().Err(err).Msg("❌ Gagal memulihkan status server")
	}

	uploader := uploadService.NewUploadService(localDB, gateway)
	autoUpload, err := uploadService.StartAutoUploadCron(cfg.AutoUploadCron, uploader, machine, 4*time.Minute)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Scheduler upload gagal")
	}

	app := routes.NewApp(cfg.CorsOrigins)
	routes.SetupRoutes(app, routes.Deps{
		DB:       localDB,
		Machine:  machine,
		Upload:   uploader,
		ImageDir: cfg.ImageDir,
	})

	ln, port, err := listenWithFallback(cfg.Port, cfg.PortAttempts)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Tidak ada port yang bisa dipakai")
	}

	go func() {
		log.Info().Int("port", port).Str("state", string(machine.State())).Msg("✅ Listening")
		if err := app.Listener(ln); err != nil {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// graceful shutdown: stop cron → batalkan download → tutup HTTP → tutup store
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("🛑 Shutting down...")

	if autoUpload != nil {
		<-autoUpload.Stop().Done()
	}
	machine.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)

	database.Close(remoteDB)
	database.Close(localDB)
}

// listenWithFallback mencoba PORT, PORT+1, ... sebanyak attempts.
func listenWithFallback(start, attempts int) (net.Listener, int, error) {
	var lastErr error
	for i := 0; i < attempts; i++ {
		port := start + i
		ln, err := net.Listen("tcp", fmt.Sprintf("0.0.0.0:%d", port))
		if err == nil {
			return ln, port, nil
		}
		log.Warn().Err(err).Int("port", port).Msg("port sedang dipakai, coba port berikutnya")
		lastErr = err
	}
	return nil, 0, errors.Wrapf(lastErr, "port %d..%d tidak tersedia", start, start+attempts-1)
}
