package cronjob

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/vitrine-projetos/vitrine-backend/internal/projects/ingest"
	"github.com/vitrine-projetos/vitrine-backend/internal/projects/service"
)

// Fetcher pulls the raw project collection from the upstream backend.
type Fetcher interface {
	FetchProjects(ctx context.Context) ([]ingest.RawProject, error)
}

// Importer stores a fetched collection.
type Importer interface {
	Import(ctx context.Context, raws []ingest.RawProject) (*service.ImportResult, error)
}

// Scheduler runs the upstream sync on a cron schedule. Runs never overlap.
type Scheduler struct {
	cron     *cron.Cron
	fetcher  Fetcher
	importer Importer
	timeout  time.Duration

	mu      sync.Mutex
	running bool
}

func NewScheduler(fetcher Fetcher, importer Importer, timeout time.Duration) *Scheduler {
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &Scheduler{
		cron:     cron.New(cron.WithSeconds()),
		fetcher:  fetcher,
		importer: importer,
		timeout:  timeout,
	}
}

// job is the scheduled sync. SkipIfStillRunning drops a tick while the previous one runs;
// RunOnce keeps its own guard for direct calls such as the startup sync.
func (s *Scheduler) job() cron.Job {
	return cron.NewChain(cron.SkipIfStillRunning(cron.DefaultLogger)).Then(cron.FuncJob(func() {
		if _, err := s.RunOnce(context.Background()); err != nil {
			log.Printf("[sync] %v", err)
		}
	}))
}

// Start registers the sync job under schedule (six fields, seconds first) and starts the cron.
func (s *Scheduler) Start(schedule string) error {
	if _, err := s.cron.AddJob(schedule, s.job()); err != nil {
		return fmt.Errorf("failed to create cron job: %w", err)
	}

	log.Printf("[sync] cron scheduler started (%s)", schedule)
	s.cron.Start()
	return nil
}

// Stop stops the cron and waits for a running sync to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// ErrSyncInProgress is returned by RunOnce when another sync has not finished yet.
var ErrSyncInProgress = errors.New("sync already in progress")

// RunOnce fetches and imports the upstream collection.
func (s *Scheduler) RunOnce(ctx context.Context) (*service.ImportResult, error) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil, ErrSyncInProgress
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	raws, err := s.fetcher.FetchProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch failed: %w", err)
	}

	res, err := s.importer.Import(ctx, raws)
	if err != nil {
		return nil, fmt.Errorf("import failed: %w", err)
	}

	log.Printf("[sync] imported %d of %d records (%d skipped, %d total) in %s",
		res.Imported, res.Received, len(res.Skipped), res.Total, time.Since(start).Round(time.Millisecond))
	return res, nil
}
