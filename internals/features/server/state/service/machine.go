// file: internals/features/server/state/service/machine.go
package service

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	metaModel "ujianku_backend/internals/features/server/meta/model"
	metaRepo "ujianku_backend/internals/features/server/meta/repository"
	downloadService "ujianku_backend/internals/features/sync/download/service"
)

type State string

const (
	StateSetup       State = "setup"
	StateDownloading State = "downloading"
	StateReady       State = "ready"
)

type Event string

const (
	EventIdentify          Event = "identify"
	EventDownloadSucceeded Event = "download_succeeded"
	EventDownloadFailed    Event = "download_failed"
)

var (
	ErrInvalidTransition  = errors.New("Transisi status server tidak valid")
	ErrDownloadInProgress = errors.New("Download sedang berjalan")
	ErrAlreadyReady       = errors.New("Data sudah tersedia, server sudah siap")
)

// Transition: hanya tiga transisi yang sah.
//
//	setup       --identify-->           downloading
//	downloading --download_succeeded--> ready
//	downloading --download_failed-->    setup
func Transition(from State, ev Event) (State, error) {
	switch {
	case from == StateSetup && ev == EventIdentify:
		return StateDownloading, nil
	case from == StateDownloading && ev == EventDownloadSucceeded:
		return StateReady, nil
	case from == StateDownloading && ev == EventDownloadFailed:
		return StateSetup, nil
	case from == StateDownloading && ev == EventIdentify:
		return from, ErrDownloadInProgress
	case from == StateReady && ev == EventIdentify:
		return from, ErrAlreadyReady
	}
	return from, errors.Wrapf(ErrInvalidTransition, "%s --%s-->", from, ev)
}

type Downloader interface {
	Download(ctx context.Context, nip string, progress downloadService.ProgressFunc) (*downloadService.Summary, error)
}

// Task adalah handle satu download yang berjalan di background.
type Task struct {
	done    chan struct{}
	summary *downloadService.Summary
	err     error
}

func (t *Task) Done() <-chan struct{} { return t.done }

// Wait memblok sampai download selesai.
func (t *Task) Wait() (*downloadService.Summary, error) {
	<-t.done
	return t.summary, t.err
}

type Snapshot struct {
	State        State      `json:"state"`
	TeacherName  *string    `json:"teacher_name"`
	DownloadTime *time.Time `json:"download_time"`
	Progress     *string    `json:"progress"`
	Error        *string    `json:"error"`
}

type Machine struct {
	mu sync.RWMutex

	state        State
	progress     string
	lastErr      string
	teacherName  string
	downloadTime *time.Time
	summary      *downloadService.Summary
	task         *Task

	downloader Downloader
	meta       *metaRepo.MetaRepository
	timeout    time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewMachine(downloader Downloader, meta *metaRepo.MetaRepository, timeout time.Duration) *Machine {
	ctx, cancel := context.WithCancel(context.Background())
	return &Machine{
		state:      StateSetup,
		downloader: downloader,
		meta:       meta,
		timeout:    timeout,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Restore membaca meta saat boot: ada last_download_at → langsung ready.
func (m *Machine) Restore(ctx context.Context, forceSetup bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state = StateSetup
	if forceSetup {
		log.Warn().Msg("[STATE] FORCE_SETUP aktif, data lokal diabaikan sampai download ulang")
		return nil
	}

	kv, err := m.meta.All(ctx)
	if err != nil {
		return errors.Wrap(err, "gagal membaca meta")
	}
	raw, ok := kv[metaModel.MetaKeyLastDownloadAt]
	if !ok || raw == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		log.Warn().Err(err).Str("value", raw).Msg("[STATE] last_download_at tidak valid, mulai dari setup")
		return nil
	}

	m.state = StateReady
	m.teacherName = kv[metaModel.MetaKeyTeacherName]
	m.downloadTime = &t
	log.Info().Str("teacher", m.teacherName).Time("download_time", t).Msg("[STATE] melanjutkan data sebelumnya")
	return nil
}

func (m *Machine) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

func (m *Machine) IsReady() bool { return m.State() == StateReady }

func (m *Machine) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := Snapshot{State: m.state, DownloadTime: m.downloadTime}
	if m.teacherName != "" {
		name := m.teacherName
		s.TeacherName = &name
	}
	if m.progress != "" {
		p := m.progress
		s.Progress = &p
	}
	if m.lastErr != "" {
		e := m.lastErr
		s.Error = &e
	}
	return s
}

// LastSummary: ringkasan download terakhir di proses ini (nil kalau hasil restore).
func (m *Machine) LastSummary() *downloadService.Summary {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.summary
}

// StartDownload menerapkan identify lalu menjalankan download di goroutine.
func (m *Machine) StartDownload(nip string) (*Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next, err := Transition(m.state, EventIdentify)
	if err != nil {
		return nil, err
	}
	if m.ctx.Err() != nil {
		return nil, errors.New("Server sedang berhenti")
	}

	m.state = next
	m.progress = "Memulai download..."
	m.lastErr = ""
	task := &Task{done: make(chan struct{})}
	m.task = task

	m.wg.Add(1)
	go m.run(task, nip)
	return task, nil
}

func (m *Machine) run(task *Task, nip string) {
	defer m.wg.Done()

	ctx := m.ctx
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	summary, err := m.runSafely(ctx, nip)
	m.finish(task, summary, err)
}

// runSafely: panic di downloader tidak boleh meninggalkan state di "downloading".
func (m *Machine) runSafely(ctx context.Context, nip string) (summary *downloadService.Summary, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("[STATE] panic saat download")
			summary, err = nil, errors.Errorf("Download gagal: %v", r)
		}
	}()
	return m.downloader.Download(ctx, nip, m.setProgress)
}

func (m *Machine) setProgress(p string) {
	m.mu.Lock()
	m.progress = p
	m.mu.Unlock()
}

func (m *Machine) finish(task *Task, summary *downloadService.Summary, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ev := EventDownloadSucceeded
	if err != nil {
		ev = EventDownloadFailed
	}
	next, terr := Transition(m.state, ev)
	if terr != nil {
		log.Error().Err(terr).Msg("[STATE] transisi akhir download ditolak")
	} else {
		m.state = next
	}
	m.progress = ""

	if err != nil {
		m.lastErr = err.Error()
		log.Error().Err(err).Msg("[STATE] download gagal, kembali ke setup")
	} else {
		m.lastErr = ""
		m.summary = summary
		m.teacherName = summary.TeacherName
		t := summary.DownloadedAt
		m.downloadTime = &t
		log.Info().Str("teacher", summary.TeacherName).Msg("[STATE] server siap")
	}

	task.summary, task.err = summary, err
	close(task.done)
	if m.task == task {
		m.task = nil
	}
}

// Shutdown membatalkan download yang sedang jalan dan menunggunya selesai.
func (m *Machine) Shutdown() {
	m.cancel()
	m.wg.Wait()
}

func (m *Machine) StateName() string { return string(m.State()) }
