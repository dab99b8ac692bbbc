package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	metaModel "ujianku_backend/internals/features/server/meta/model"
	metaRepo "ujianku_backend/internals/features/server/meta/repository"
	downloadService "ujianku_backend/internals/features/sync/download/service"
	"ujianku_backend/internals/testutil"
)

func TestTransition(t *testing.T) {
	states := []State{StateSetup, StateDownloading, StateReady}
	events := []Event{EventIdentify, EventDownloadSucceeded, EventDownloadFailed}

	allowed := map[State]map[Event]State{
		StateSetup:       {EventIdentify: StateDownloading},
		StateDownloading: {EventDownloadSucceeded: StateReady, EventDownloadFailed: StateSetup},
	}

	for _, from := range states {
		for _, ev := range events {
			t.Run(string(from)+"/"+string(ev), func(t *testing.T) {
				got, err := Transition(from, ev)
				if want, ok := allowed[from][ev]; ok {
					require.NoError(t, err)
					assert.Equal(t, want, got)
					return
				}
				assert.Error(t, err)
				assert.Equal(t, from, got, "state tidak berubah saat transisi ditolak")
			})
		}
	}

	_, err := Transition(StateDownloading, EventIdentify)
	assert.ErrorIs(t, err, ErrDownloadInProgress)
	_, err = Transition(StateReady, EventIdentify)
	assert.ErrorIs(t, err, ErrAlreadyReady)
	_, err = Transition(StateReady, EventDownloadFailed)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

// fakeDownloader menahan download sampai release ditutup.
type fakeDownloader struct {
	release chan struct{}
	err     error
	started chan string
}

func newFakeDownloader(err error) *fakeDownloader {
	return &fakeDownloader{release: make(chan struct{}), err: err, started: make(chan string, 1)}
}

func (f *fakeDownloader) Download(ctx context.Context, nip string, progress downloadService.ProgressFunc) (*downloadService.Summary, error) {
	progress("Mengunduh data siswa...")
	f.started <- nip
	select {
	case <-f.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if f.err != nil {
		return nil, f.err
	}
	return &downloadService.Summary{TeacherName: "Bu Sri", TeacherNIP: nip, DownloadedAt: time.Now().UTC()}, nil
}

func newMachine(t *testing.T, d Downloader) (*Machine, *metaRepo.MetaRepository) {
	t.Helper()
	meta := metaRepo.NewMetaRepository(testutil.OpenDB(t))
	m := NewMachine(d, meta, time.Minute)
	t.Cleanup(m.Shutdown)
	return m, meta
}

func TestMachine_DownloadSuccess(t *testing.T) {
	d := newFakeDownloader(nil)
	m, _ := newMachine(t, d)
	require.NoError(t, m.Restore(context.Background(), false))
	assert.Equal(t, StateSetup, m.State())

	task, err := m.StartDownload("198001")
	require.NoError(t, err)
	assert.Equal(t, "198001", <-d.started)

	snap := m.Snapshot()
	assert.Equal(t, StateDownloading, snap.State)
	require.NotNil(t, snap.Progress)
	assert.Equal(t, "Mengunduh data siswa...", *snap.Progress)
	assert.False(t, m.IsReady())

	// setup kedua selama download → ditolak
	_, err = m.StartDownload("198001")
	assert.ErrorIs(t, err, ErrDownloadInProgress)

	close(d.release)
	sum, err := task.Wait()
	require.NoError(t, err)
	assert.Equal(t, "Bu Sri", sum.TeacherName)

	snap = m.Snapshot()
	assert.Equal(t, StateReady, snap.State)
	require.NotNil(t, snap.TeacherName)
	assert.Equal(t, "Bu Sri", *snap.TeacherName)
	assert.NotNil(t, snap.DownloadTime)
	assert.Nil(t, snap.Progress)
	assert.Nil(t, snap.Error)
	assert.Same(t, sum, m.LastSummary())

	// ready → identify tidak ada
	_, err = m.StartDownload("198001")
	assert.ErrorIs(t, err, ErrAlreadyReady)
}

func TestMachine_DownloadFailureReturnsToSetup(t *testing.T) {
	d := newFakeDownloader(errors.New("Guru dengan NIP tersebut tidak ditemukan"))
	m, _ := newMachine(t, d)

	task, err := m.StartDownload("000")
	require.NoError(t, err)
	<-d.started
	close(d.release)

	_, err = task.Wait()
	require.Error(t, err)

	snap := m.Snapshot()
	assert.Equal(t, StateSetup, snap.State)
	require.NotNil(t, snap.Error)
	assert.Equal(t, "Guru dengan NIP tersebut tidak ditemukan", *snap.Error)

	// boleh mencoba lagi
	d2 := newFakeDownloader(nil)
	m.downloader = d2
	task, err = m.StartDownload("198001")
	require.NoError(t, err)
	<-d2.started
	close(d2.release)
	_, err = task.Wait()
	require.NoError(t, err)
	assert.Equal(t, StateReady, m.State())
	assert.Nil(t, m.Snapshot().Error)
}

func TestMachine_ConcurrentSetupOnlyOneWins(t *testing.T) {
	d := newFakeDownloader(nil)
	m, _ := newMachine(t, d)

	const n = 10
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := m.StartDownload("198001"); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, wins)

	<-d.started
	close(d.release)
}

func TestMachine_PanicInDownloaderFails(t *testing.T) {
	m, _ := newMachine(t, panicDownloader{})

	task, err := m.StartDownload("198001")
	require.NoError(t, err)
	_, err = task.Wait()
	assert.Error(t, err)
	assert.Equal(t, StateSetup, m.State())
}

type panicDownloader struct{}

func (panicDownloader) Download(context.Context, string, downloadService.ProgressFunc) (*downloadService.Summary, error) {
	panic("boom")
}

func TestMachine_ShutdownCancelsDownload(t *testing.T) {
	d := newFakeDownloader(nil)
	m, _ := newMachine(t, d)

	task, err := m.StartDownload("198001")
	require.NoError(t, err)
	<-d.started

	m.Shutdown()
	select {
	case <-task.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("download tidak berhenti setelah shutdown")
	}
	_, err = task.Wait()
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StateSetup, m.State())
}

func TestMachine_Restore(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2026, 3, 1, 7, 30, 0, 0, time.UTC)

	t.Run("auto resume", func(t *testing.T) {
		m, meta := newMachine(t, newFakeDownloader(nil))
		require.NoError(t, meta.Set(ctx, map[string]string{
			metaModel.MetaKeyTeacherName:    "Bu Sri",
			metaModel.MetaKeyLastDownloadAt: at.Format(time.RFC3339),
		}))
		require.NoError(t, m.Restore(ctx, false))

		snap := m.Snapshot()
		assert.Equal(t, StateReady, snap.State)
		require.NotNil(t, snap.DownloadTime)
		assert.True(t, at.Equal(*snap.DownloadTime))
		assert.Equal(t, "Bu Sri", *snap.TeacherName)
		assert.Nil(t, m.LastSummary())
	})

	t.Run("force setup", func(t *testing.T) {
		m, meta := newMachine(t, newFakeDownloader(nil))
		require.NoError(t, meta.Set(ctx, map[string]string{
			metaModel.MetaKeyLastDownloadAt: at.Format(time.RFC3339),
		}))
		require.NoError(t, m.Restore(ctx, true))
		assert.Equal(t, StateSetup, m.State())
	})

	t.Run("no previous download", func(t *testing.T) {
		m, _ := newMachine(t, newFakeDownloader(nil))
		require.NoError(t, m.Restore(ctx, false))
		assert.Equal(t, StateSetup, m.State())
	})
}
