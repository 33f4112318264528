package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/archivist-cli/internal/core/domain"
	"github.com/custodia-labs/archivist-cli/internal/core/ports/driving"
	"github.com/custodia-labs/archivist-cli/internal/logger"
)

// defaultSettleDelay is how long a file must stay quiet after its last write
// before it is processed. Downloads and copies arrive in bursts of writes.
const defaultSettleDelay = 2 * time.Second

// Ensure WatchService implements the interface.
var _ driving.Watcher = (*WatchService)(nil)

// WatchService processes new documents in a directory as they appear.
type WatchService struct {
	organizer *OrganizerService
	registry  *ExtractorRegistry
	settle    time.Duration

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// NewWatchService creates a watcher. settle <= 0 selects the default delay.
func NewWatchService(organizer *OrganizerService, registry *ExtractorRegistry, settle time.Duration) *WatchService {
	if settle <= 0 {
		settle = defaultSettleDelay
	}
	return &WatchService{
		organizer: organizer,
		registry:  registry,
		settle:    settle,
		timers:    make(map[string]*time.Timer),
	}
}

// Watch blocks until ctx is cancelled, running the pipeline for each
// supported file created or modified under dir.
func (s *WatchService) Watch(ctx context.Context, dir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("%w: create watcher: %v", domain.ErrFilesystem, err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("%w: watch %s: %v", domain.ErrFilesystem, dir, err)
	}
	logger.Info("watching %s for new documents", dir)

	for {
		select {
		case <-ctx.Done():
			s.cancelPending()
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !s.registry.Supports(event.Name) {
				continue
			}
			s.schedule(ctx, event.Name)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watch error: %v", err)
		}
	}
}

// schedule arms (or re-arms) the settle timer for path. The pipeline runs
// only after the file has been quiet for the settle delay.
func (s *WatchService) schedule(ctx context.Context, path string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if timer, ok := s.timers[path]; ok {
		timer.Reset(s.settle)
		return
	}
	s.timers[path] = time.AfterFunc(s.settle, func() {
		s.mu.Lock()
		delete(s.timers, path)
		s.mu.Unlock()

		if ctx.Err() != nil {
			return
		}
		if _, err := s.organizer.ProcessFile(ctx, path, driving.ProcessOptions{}); err != nil {
			logger.Error("processing %s failed: %v", path, err)
			return
		}
		logger.Info("processed %s", path)
	})
}

// cancelPending stops all armed settle timers.
func (s *WatchService) cancelPending() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for path, timer := range s.timers {
		timer.Stop()
		delete(s.timers, path)
	}
}
