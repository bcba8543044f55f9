package filesystem

import (
	"sort"
	"sync"
	"time"

	"github.com/GriffinCanCode/sidenote/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/sidenote/backend/internal/shared/id"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// ChangeFunc is invoked with the watched path for every modify notification.
type ChangeFunc func(path string)

// Registration is one live watch on one path. It runs until Stop is called
// or its ChangeWatcher is closed.
type Registration struct {
	ID        id.WatchID `json:"watch_id"`
	Path      string     `json:"path"`
	CreatedAt time.Time  `json:"created_at"`

	watcher    *fsnotify.Watcher
	onModified ChangeFunc
	logger     *zap.Logger
	metrics    *monitoring.Metrics
	stopOnce   sync.Once
	done       chan struct{}
}

// Stop closes the underlying OS watch and ends the listener. It is safe to
// call more than once and from within the change callback.
func (r *Registration) Stop() {
	r.stopOnce.Do(func() {
		if err := r.watcher.Close(); err != nil {
			r.logger.Debug("closing watcher", zap.String("path", r.Path), zap.Error(err))
		}
	})
}

// Done is closed once the listener goroutine has exited.
func (r *Registration) Done() <-chan struct{} {
	return r.done
}

// listen delivers notifications in arrival order, one at a time.
func (r *Registration) listen(onExit func()) {
	defer close(r.done)
	defer onExit()

	for {
		select {
		case event, ok := <-r.watcher.Events:
			if !ok {
				return
			}
			r.forward(event)
		case err, ok := <-r.watcher.Errors:
			if !ok {
				return
			}
			r.logger.Debug("watch error", zap.String("path", r.Path), zap.Error(err))
		}
	}
}

// forward invokes the change callback for modify notifications only.
// Create, remove, rename and chmod are dropped.
func (r *Registration) forward(event fsnotify.Event) {
	modified := event.Has(fsnotify.Write)
	r.metrics.RecordWatchEvent(event.Op.String(), modified)
	if !modified {
		return
	}
	r.onModified(r.Path)
}

// ChangeWatcher creates and tracks watch registrations. Watching the same
// path twice yields two independent registrations.
type ChangeWatcher struct {
	mu            sync.Mutex
	registrations map[id.WatchID]*Registration
	closed        bool
	logger        *zap.Logger
	metrics       *monitoring.Metrics
}

// NewChangeWatcher creates a change watcher.
func NewChangeWatcher(logger *zap.Logger, metrics *monitoring.Metrics) *ChangeWatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChangeWatcher{
		registrations: make(map[id.WatchID]*Registration),
		logger:        logger,
		metrics:       metrics,
	}
}

// Watch starts a non-recursive OS watch on exactly path. Setup failures
// are returned as KindWatchSetupFailed; failures after setup are only logged.
func (c *ChangeWatcher) Watch(path string, onModified ChangeFunc) (*Registration, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, newError(KindWatchSetupFailed, path, "failed to create watcher", fsnotify.ErrClosed)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, newError(KindWatchSetupFailed, path, "failed to create watcher", err)
	}
	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return nil, newError(KindWatchSetupFailed, path, "failed to watch file", err)
	}

	reg := &Registration{
		ID:         id.NewWatchID(),
		Path:       path,
		CreatedAt:  time.Now(),
		watcher:    watcher,
		onModified: onModified,
		logger:     c.logger,
		metrics:    c.metrics,
		done:       make(chan struct{}),
	}
	c.registrations[reg.ID] = reg
	c.metrics.IncWatches()

	go reg.listen(func() { c.release(reg) })

	c.logger.Info("watch started", zap.String("watch_id", reg.ID.String()), zap.String("path", path))
	return reg, nil
}

// release forgets a registration whose listener has exited.
func (c *ChangeWatcher) release(reg *Registration) {
	c.mu.Lock()
	if _, ok := c.registrations[reg.ID]; ok {
		delete(c.registrations, reg.ID)
		c.metrics.DecWatches()
	}
	c.mu.Unlock()

	c.logger.Info("watch stopped", zap.String("watch_id", reg.ID.String()), zap.String("path", reg.Path))
}

// Unwatch stops the registration with the given ID.
func (c *ChangeWatcher) Unwatch(watchID id.WatchID) error {
	c.mu.Lock()
	reg, ok := c.registrations[watchID]
	c.mu.Unlock()

	if !ok {
		return newError(KindNotFound, "", "watch not found: "+watchID.String(), nil)
	}
	reg.Stop()
	return nil
}

// Get returns the live registration with the given ID.
func (c *ChangeWatcher) Get(watchID id.WatchID) (*Registration, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	reg, ok := c.registrations[watchID]
	return reg, ok
}

// Registrations lists live registrations, oldest first.
func (c *ChangeWatcher) Registrations() []*Registration {
	c.mu.Lock()
	regs := make([]*Registration, 0, len(c.registrations))
	for _, reg := range c.registrations {
		regs = append(regs, reg)
	}
	c.mu.Unlock()

	sort.Slice(regs, func(i, j int) bool { return regs[i].ID < regs[j].ID })
	return regs
}

// Close stops every registration and rejects new ones. It waits for all
// listeners to exit.
func (c *ChangeWatcher) Close() {
	c.mu.Lock()
	c.closed = true
	regs := make([]*Registration, 0, len(c.registrations))
	for _, reg := range c.registrations {
		regs = append(regs, reg)
	}
	c.mu.Unlock()

	for _, reg := range regs {
		reg.Stop()
		<-reg.Done()
	}
}
