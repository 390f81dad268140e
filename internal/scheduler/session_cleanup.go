package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// purgeTimeout bounds a single purge run.
const purgeTimeout = time.Minute

// Purger removes expired sessions from a backing store.
type Purger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// SessionCleanupScheduler periodically purges expired sessions from
// database-backed session stores.
type SessionCleanupScheduler struct {
	purger   Purger
	schedule string

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewSessionCleanupScheduler creates a new scheduler instance.
func NewSessionCleanupScheduler(purger Purger, schedule string) *SessionCleanupScheduler {
	return &SessionCleanupScheduler{
		purger:   purger,
		schedule: schedule,
		cron:     cron.New(cron.WithParser(parser)),
	}
}

// Start schedules the purge job. It stops on its own when ctx is cancelled.
func (s *SessionCleanupScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if err := ValidateCronSchedule(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		s.runPurge()
	})
	if err != nil {
		return fmt.Errorf("failed to schedule session cleanup: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	nextRun, _ := NextRunTime(s.schedule, time.Now())
	log.Infof("Session cleanup scheduler: started with schedule '%s' (%s). Next run: %v",
		s.schedule, CronDescription(s.schedule), nextRun)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop waits for a running purge to finish and stops the scheduler.
func (s *SessionCleanupScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.cron.Remove(s.entryID)
	s.isRunning = false
	if s.cancelFunc != nil {
		s.cancelFunc()
		s.cancelFunc = nil
	}

	log.Info("Session cleanup scheduler: stopped")
}

// IsRunning returns whether the scheduler is active.
func (s *SessionCleanupScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRun returns when the next purge will occur, or nil when stopped.
func (s *SessionCleanupScheduler) NextRun() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

// RunNow purges immediately and returns the number of removed sessions.
func (s *SessionCleanupScheduler) RunNow(ctx context.Context) (int64, error) {
	return s.purger.PurgeExpired(ctx)
}

func (s *SessionCleanupScheduler) runPurge() {
	ctx, cancel := context.WithTimeout(context.Background(), purgeTimeout)
	defer cancel()

	start := time.Now()
	removed, err := s.purger.PurgeExpired(ctx)
	if err != nil {
		log.WithError(err).Error("Session cleanup: purge failed")
		return
	}
	if removed > 0 {
		log.Infof("Session cleanup: removed %d expired sessions in %v", removed, time.Since(start).Round(time.Millisecond))
	}
}
