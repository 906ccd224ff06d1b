package dataset

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/lamdec/cda-insights-go/internal/domain"
	"github.com/lamdec/cda-insights-go/internal/infra/resilience"
)

// debounceDelay coalesces the burst of file events a single snapshot
// refresh produces into one reload.
const debounceDelay = 250 * time.Millisecond

// Watcher hot-reloads the snapshot when cdas.json changes. A reload either
// publishes a complete new snapshot or leaves the previous one serving;
// retries absorb half-written files and the breaker stops reload attempts
// while the feed stays broken.
type Watcher struct {
	dir      string
	loader   *Loader
	store    *Store
	breaker  *gobreaker.CircuitBreaker
	retry    resilience.Config
	logger   *zap.Logger
	onReload func(*domain.RecordSnapshot)
	onError  func()
}

// NewWatcher creates a watcher over the loader's data directory.
// onReload runs after every successful publish (nil to skip); onError runs
// after every failed reload (nil to skip).
func NewWatcher(
	dir string,
	loader *Loader,
	store *Store,
	retry resilience.Config,
	logger *zap.Logger,
	onReload func(*domain.RecordSnapshot),
	onError func(),
) *Watcher {
	return &Watcher{
		dir:      dir,
		loader:   loader,
		store:    store,
		breaker:  resilience.NewReloadBreaker("dataset-reload"),
		retry:    retry,
		logger:   logger,
		onReload: onReload,
		onError:  onError,
	}
}

// Run watches the data directory until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	w.logger.Info("watching data directory", zap.String("dir", w.dir))

	debounce := time.NewTimer(time.Hour)
	if !debounce.Stop() {
		<-debounce.C
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != CDAFileName {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			debounce.Reset(debounceDelay)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("dataset watcher error", zap.Error(err))

		case <-debounce.C:
			w.reload(ctx)
		}
	}
}

// reload builds and publishes a new snapshot. The previous snapshot keeps
// serving on any failure.
func (w *Watcher) reload(ctx context.Context) {
	result, err := w.breaker.Execute(func() (interface{}, error) {
		var snap *domain.RecordSnapshot
		err := resilience.RetryWithBackoff(ctx, w.retry, func() error {
			s, err := w.loader.Load()
			if err != nil {
				return err
			}
			snap = s
			return nil
		})
		if err != nil {
			return nil, err
		}
		return snap, nil
	})
	if err != nil {
		w.logger.Error("snapshot reload failed, keeping previous snapshot", zap.Error(err))
		if w.onError != nil {
			w.onError()
		}
		return
	}

	snap := result.(*domain.RecordSnapshot)
	w.store.Publish(snap)
	w.logger.Info("snapshot reloaded",
		zap.String("snapshot_id", snap.ID),
		zap.Int("records", len(snap.Records)),
	)
	if w.onReload != nil {
		w.onReload(snap)
	}
}
