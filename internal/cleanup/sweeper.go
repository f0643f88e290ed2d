// Package cleanup reclaims finished GIF outputs after their retention window
// expires. The sweeper has exclusive responsibility for deletions in the
// output directory; request-handling code treats it as append-only.
package cleanup

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
)

// Sweeper deletes files in Dir whose last-modified time is older than
// Retention. The sweep interval equals the retention window.
type Sweeper struct {
	Dir       string
	Retention time.Duration

	cron *cron.Cron
}

func NewSweeper(dir string, retention time.Duration) *Sweeper {
	return &Sweeper{Dir: dir, Retention: retention}
}

// Start schedules the sweep and runs it for the life of the process.
func (s *Sweeper) Start() error {
	s.cron = cron.New()
	if _, err := s.cron.AddFunc(fmt.Sprintf("@every %s", s.Retention), s.Sweep); err != nil {
		return fmt.Errorf("schedule sweep: %w", err)
	}
	s.cron.Start()
	log.Printf("[sweep] started: %s every %s", s.Dir, s.Retention)
	return nil
}

// Stop halts the schedule. A sweep already in flight finishes.
func (s *Sweeper) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// Sweep scans the output directory once. A missing directory means nothing
// to do; per-file failures are logged and skipped, never escalated. The
// sweep does not coordinate with readers: a GIF crossing the age threshold
// mid-download is deleted anyway, an accepted trade-off favoring reclaimed
// disk over a rare download race.
func (s *Sweeper) Sweep() {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("[sweep] read dir %s: %v", s.Dir, err)
		}
		return
	}

	cutoff := time.Now().Add(-s.Retention)
	deleted := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			log.Printf("[sweep] stat %s: %v", entry.Name(), err)
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(s.Dir, entry.Name())
		if err := os.Remove(path); err != nil {
			log.Printf("[sweep] delete %s: %v", path, err)
			continue
		}
		deleted++
	}

	if deleted > 0 {
		log.Printf("[sweep] deleted %d expired files from %s", deleted, s.Dir)
	}
}
