package cronjob

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitrine-projetos/vitrine-backend/internal/projects/ingest"
	"github.com/vitrine-projetos/vitrine-backend/internal/projects/service"
)

type fakeFetcher struct {
	raws    []ingest.RawProject
	err     error
	release chan struct{}
	calls   int
	mu      sync.Mutex
}

func (f *fakeFetcher) FetchProjects(ctx context.Context) ([]ingest.RawProject, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.release != nil {
		<-f.release
	}
	return f.raws, f.err
}

type fakeImporter struct {
	got []ingest.RawProject
}

func (f *fakeImporter) Import(ctx context.Context, raws []ingest.RawProject) (*service.ImportResult, error) {
	f.got = raws
	return &service.ImportResult{Received: len(raws), Imported: len(raws), Total: len(raws)}, nil
}

func TestRunOnce(t *testing.T) {
	raws := []ingest.RawProject{json.RawMessage(`{"uuid":"a"}`)}
	imp := &fakeImporter{}
	s := NewScheduler(&fakeFetcher{raws: raws}, imp, time.Second)

	res, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Imported)
	assert.Equal(t, raws, imp.got)
}

func TestRunOnce_FetchError(t *testing.T) {
	imp := &fakeImporter{}
	s := NewScheduler(&fakeFetcher{err: errors.New("upstream down")}, imp, time.Second)

	_, err := s.RunOnce(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream down")
	assert.Nil(t, imp.got)
}

func TestRunOnce_NoOverlap(t *testing.T) {
	f := &fakeFetcher{release: make(chan struct{})}
	s := NewScheduler(f, &fakeImporter{}, time.Second)

	done := make(chan error, 1)
	go func() {
		_, err := s.RunOnce(context.Background())
		done <- err
	}()

	require.Eventually(t, func() bool {
		f.mu.Lock()
		defer f.mu.Unlock()
		return f.calls == 1
	}, time.Second, 5*time.Millisecond)

	_, err := s.RunOnce(context.Background())
	assert.ErrorIs(t, err, ErrSyncInProgress)

	close(f.release)
	require.NoError(t, <-done)
}

func TestJob_SkipsTickWhileRunning(t *testing.T) {
	f := &fakeFetcher{release: make(chan struct{})}
	s := NewScheduler(f, &fakeImporter{}, time.Second)
	job := s.job()

	done := make(chan struct{})
	go func() {
		job.Run()
		close(done)
	}()

	require.Eventually(t, func() bool {
		f.mu.Lock()
		defer f.mu.Unlock()
		return f.calls == 1
	}, time.Second, 5*time.Millisecond)

	// a second tick returns at once without fetching
	job.Run()

	close(f.release)
	<-done

	f.mu.Lock()
	defer f.mu.Unlock()
	assert.Equal(t, 1, f.calls)
}

func TestStart_RejectsBadSchedule(t *testing.T) {
	s := NewScheduler(&fakeFetcher{}, &fakeImporter{}, time.Second)
	assert.Error(t, s.Start("not a schedule"))
}
