package workflow

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/GabrielMBatista/shortsai-studio-sub000/internal/client"
	"github.com/GabrielMBatista/shortsai-studio-sub000/internal/logging"
	"github.com/GabrielMBatista/shortsai-studio-sub000/internal/types"
)

const defaultPollInterval = 2 * time.Second

var (
	ErrNotConnected  = errors.New("engine is not observing a project")
	ErrSceneNotFound = errors.New("scene not found")
	ErrForceRequired = errors.New("asset already completed; force required to regenerate")
)

// StateFunc receives a fresh clone of the project aggregate after every
// change. Consumers must not mutate it; all changes go through the engine.
type StateFunc func(*types.Project)

// StudioAPI is the slice of the studio client the engine depends on.
type StudioAPI interface {
	FetchWorkflow(ctx context.Context, projectID string) (*types.WorkflowSnapshot, error)
	SendCommand(ctx context.Context, req client.CommandRequest) error
	UpsertProject(ctx context.Context, project *types.Project) (*types.Project, error)
	PatchScene(ctx context.Context, projectID, sceneID string, patch client.ScenePatch) (*types.Scene, error)
	DeleteScene(ctx context.Context, projectID, sceneID string) error
}

// ProjectCache parks optimistic state while the studio is unreachable.
type ProjectCache interface {
	SaveProject(ctx context.Context, project *types.Project) error
	LoadProject(ctx context.Context, id string) (*types.Project, bool, error)
}

type Options struct {
	// PollInterval overrides the fixed polling interval (default 2s).
	PollInterval time.Duration
	// APIKeys are caller-supplied provider credentials attached to commands.
	APIKeys map[string]string
	// OnWorkflowError receives fatal generation errors reported in snapshots.
	OnWorkflowError func(message string)
	Logger          logging.Logger
}

// Engine owns the local project aggregate for one open project view. It
// reconciles remote snapshots into local state, dispatches commands, and
// applies optimistic mutations. One engine observes at most one project at a
// time; Connect tears down any previous subscription.
type Engine struct {
	api    StudioAPI
	cache  ProjectCache
	logger logging.Logger

	interval time.Duration
	apiKeys  map[string]string

	mu              sync.Mutex
	onWorkflowError func(string)
	projectID       string
	project         *types.Project
	tombstones      *tombstoneSet
	onState         StateFunc
	generation      int
	pollTicker      *time.Ticker
	pollStop        chan struct{}
}

func NewEngine(api StudioAPI, cache ProjectCache, opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	interval := opts.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return &Engine{
		api:             api,
		cache:           cache,
		logger:          logger,
		interval:        interval,
		apiKeys:         opts.APIKeys,
		onWorkflowError: opts.OnWorkflowError,
	}
}

// Connect begins observing a project. Any previous subscription is fully torn
// down first. One immediate fetch-and-notify happens regardless of whether
// the project is active; the recurring timer only runs while it is.
func (e *Engine) Connect(ctx context.Context, projectID string, onState StateFunc) error {
	projectID = strings.TrimSpace(projectID)
	if projectID == "" {
		return errors.New("project id is required")
	}

	e.mu.Lock()
	e.teardownLocked()
	e.generation++
	gen := e.generation
	e.projectID = projectID
	e.onState = onState
	e.tombstones = newTombstoneSet()
	e.project = nil
	if e.cache != nil {
		if cached, ok, err := e.cache.LoadProject(ctx, projectID); err == nil && ok {
			e.project = cached
		}
	}
	e.mu.Unlock()

	e.fetchAndNotify(ctx, gen)
	return nil
}

// Disconnect stops polling and drops the subscriber. In-flight fetches that
// complete afterwards are discarded.
func (e *Engine) Disconnect() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.teardownLocked()
	e.generation++
}

// Refresh forces one fetch-and-notify outside the timer, e.g. right after a
// command was accepted.
func (e *Engine) Refresh(ctx context.Context) error {
	e.mu.Lock()
	if e.projectID == "" {
		e.mu.Unlock()
		return ErrNotConnected
	}
	gen := e.generation
	e.mu.Unlock()
	e.fetchAndNotify(ctx, gen)
	return nil
}

// SetWorkflowErrorHandler replaces the callback for fatal generation errors
// reported in snapshots. A UI attaching after construction uses this to route
// them into its own event loop.
func (e *Engine) SetWorkflowErrorHandler(fn func(message string)) {
	e.mu.Lock()
	e.onWorkflowError = fn
	e.mu.Unlock()
}

// Project returns a clone of the current aggregate, or nil before the first
// snapshot (and absent a cached copy).
func (e *Engine) Project() *types.Project {
	e.mu.Lock()
	defer e.mu.Unlock()
	return types.CloneProject(e.project)
}

func (e *Engine) teardownLocked() {
	e.stopPollingLocked()
	e.onState = nil
	e.projectID = ""
}

func (e *Engine) fetchAndNotify(ctx context.Context, gen int) {
	e.mu.Lock()
	projectID := e.projectID
	current := gen == e.generation
	e.mu.Unlock()
	if !current || projectID == "" {
		return
	}

	snap, err := e.api.FetchWorkflow(ctx, projectID)
	if err != nil {
		// Polling is the retry mechanism: keep local state, let the next
		// tick try again.
		e.logger.Warn("workflow_poll_failed",
			logging.F("project_id", projectID),
			logging.F("error", err),
		)
		return
	}

	e.mu.Lock()
	if gen != e.generation {
		e.mu.Unlock()
		return
	}
	e.project = applySnapshot(e.project, projectID, snap, e.tombstones)
	if e.project.Status.Active() || e.project.MusicStatus.Active() {
		e.ensurePollingLocked(gen)
	} else {
		e.stopPollingLocked()
	}
	onState := e.onState
	onWorkflowError := e.onWorkflowError
	notify := types.CloneProject(e.project)
	e.mu.Unlock()

	if snap.Error != "" && onWorkflowError != nil {
		onWorkflowError(snap.Error)
	}
	if onState != nil {
		onState(notify)
	}
}

func (e *Engine) ensurePollingLocked(gen int) {
	if e.pollTicker != nil {
		return
	}
	ticker := time.NewTicker(e.interval)
	stop := make(chan struct{})
	e.pollTicker = ticker
	e.pollStop = stop
	go func() {
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				// A tick can be buffered when the previous fetch stopped
				// polling; don't act on it.
				select {
				case <-stop:
					return
				default:
				}
				e.fetchAndNotify(context.Background(), gen)
			}
		}
	}()
}

func (e *Engine) stopPollingLocked() {
	if e.pollTicker == nil {
		return
	}
	e.pollTicker.Stop()
	close(e.pollStop)
	e.pollTicker = nil
	e.pollStop = nil
}

// polling reports whether the recurring timer is running.
func (e *Engine) polling() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pollTicker != nil
}

// notifyLocked publishes the current aggregate to the subscriber. Callers
// hold e.mu; the callback runs outside the lock.
func (e *Engine) notifyLocked() func() {
	onState := e.onState
	if onState == nil {
		return func() {}
	}
	notify := types.CloneProject(e.project)
	return func() { onState(notify) }
}

// saveToCache parks the current optimistic state locally; failures are logged
// and otherwise ignored, since the cache itself is the fallback path.
func (e *Engine) saveToCache(ctx context.Context, project *types.Project) {
	if e.cache == nil || project == nil {
		return
	}
	if err := e.cache.SaveProject(ctx, project); err != nil {
		e.logger.Warn("project_cache_write_failed",
			logging.F("project_id", project.ID),
			logging.F("error", err),
		)
	}
}
