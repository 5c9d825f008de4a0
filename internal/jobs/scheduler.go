package jobs

import (
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"tastebook/api/internal/storage"
)

// staleAfter is how long an in-flight upload may sit in the temp folder
// before the sweeper treats it as abandoned.
const staleAfter = time.Hour

type Scheduler struct {
	cron      *cron.Cron
	uploadDir string
	log       zerolog.Logger
}

// NewScheduler sweeps the local temp-upload folder. Pass an empty
// uploadDir (object-storage method) to make it a no-op.
func NewScheduler(uploadDir string, log zerolog.Logger) *Scheduler {
	c := cron.New(cron.WithSeconds())
	return &Scheduler{
		cron:      c,
		uploadDir: uploadDir,
		log:       log,
	}
}

func (s *Scheduler) Start() error {
	if s.uploadDir == "" {
		return nil
	}

	if _, err := s.cron.AddFunc("0 */15 * * * *", s.sweepTemp); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

// Stop waits for running jobs to finish, up to a short deadline.
func (s *Scheduler) Stop() {
	done := s.cron.Stop().Done()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		s.log.Warn().Msg("scheduler stop timed out")
	}
}

func (s *Scheduler) sweepTemp() {
	removed, err := SweepTempUploads(s.uploadDir, staleAfter)
	if err != nil {
		s.log.Error().Err(err).Msg("temp upload sweep failed")
		return
	}
	if removed > 0 {
		s.log.Info().Int("removed", removed).Msg("stale temp uploads removed")
	}
}

// SweepTempUploads removes files older than maxAge from the upload
// temp folder and reports how many went.
func SweepTempUploads(uploadDir string, maxAge time.Duration) (int, error) {
	tempDir := filepath.Join(uploadDir, storage.TempDirName)

	entries, err := os.ReadDir(tempDir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(tempDir, entry.Name())); err == nil {
			removed++
		}
	}
	return removed, nil
}
