package workflow

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/GabrielMBatista/shortsai-studio-sub000/internal/client"
	"github.com/GabrielMBatista/shortsai-studio-sub000/internal/types"
)

type fakeStudio struct {
	mu        sync.Mutex
	snapshots []*types.WorkflowSnapshot
	fetches   int
	fetchGate chan struct{}

	commands   []client.CommandRequest
	commandErr error

	upserts   []*types.Project
	upsertFn  func(project *types.Project) (*types.Project, error)
	upsertErr error

	patches  []client.ScenePatch
	patchErr error

	deletedScenes []string
	deleteErr     error
}

func (f *fakeStudio) FetchWorkflow(ctx context.Context, projectID string) (*types.WorkflowSnapshot, error) {
	f.mu.Lock()
	gate := f.fetchGate
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	if len(f.snapshots) == 0 {
		return nil, errors.New("no snapshot configured")
	}
	snap := f.snapshots[0]
	if len(f.snapshots) > 1 {
		f.snapshots = f.snapshots[1:]
	}
	return snap, nil
}

func (f *fakeStudio) SendCommand(ctx context.Context, req client.CommandRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.commandErr != nil {
		return f.commandErr
	}
	f.commands = append(f.commands, req)
	return nil
}

func (f *fakeStudio) UpsertProject(ctx context.Context, project *types.Project) (*types.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upsertErr != nil {
		return nil, f.upsertErr
	}
	f.upserts = append(f.upserts, types.CloneProject(project))
	if f.upsertFn != nil {
		return f.upsertFn(project)
	}
	return types.CloneProject(project), nil
}

func (f *fakeStudio) PatchScene(ctx context.Context, projectID, sceneID string, patch client.ScenePatch) (*types.Scene, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.patchErr != nil {
		return nil, f.patchErr
	}
	f.patches = append(f.patches, patch)
	return &types.Scene{ID: sceneID}, nil
}

func (f *fakeStudio) DeleteScene(ctx context.Context, projectID, sceneID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deletedScenes = append(f.deletedScenes, sceneID)
	return nil
}

func (f *fakeStudio) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetches
}

func (f *fakeStudio) sentCommands() []client.CommandRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]client.CommandRequest{}, f.commands...)
}

type fakeCache struct {
	mu       sync.Mutex
	projects map[string]*types.Project
	saves    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{projects: map[string]*types.Project{}}
}

func (c *fakeCache) SaveProject(ctx context.Context, project *types.Project) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.projects[project.ID] = types.CloneProject(project)
	c.saves++
	return nil
}

func (c *fakeCache) LoadProject(ctx context.Context, id string) (*types.Project, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	project, ok := c.projects[id]
	return types.CloneProject(project), ok, nil
}

func (c *fakeCache) saveCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.saves
}

type stateRecorder struct {
	mu     sync.Mutex
	states []*types.Project
}

func (r *stateRecorder) record(p *types.Project) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, p)
}

func (r *stateRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.states)
}

func (r *stateRecorder) last() *types.Project {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.states) == 0 {
		return nil
	}
	return r.states[len(r.states)-1]
}

func snapshotWithScenes(status types.ProjectStatus, scenes ...*types.Scene) *types.WorkflowSnapshot {
	return &types.WorkflowSnapshot{ProjectStatus: status, Scenes: scenes}
}

func TestConnectFetchesImmediately(t *testing.T) {
	studio := &fakeStudio{snapshots: []*types.WorkflowSnapshot{
		snapshotWithScenes(types.ProjectStatusCompleted, &types.Scene{ID: "s1", SceneNumber: 1}),
	}}
	recorder := &stateRecorder{}
	engine := NewEngine(studio, newFakeCache(), Options{PollInterval: time.Hour})

	if err := engine.Connect(context.Background(), "p1", recorder.record); err != nil {
		t.Fatalf("Connect error: %v", err)
	}
	defer engine.Disconnect()

	if studio.fetchCount() != 1 {
		t.Fatalf("expected one immediate fetch, got %d", studio.fetchCount())
	}
	project := recorder.last()
	if project == nil || project.Status != types.ProjectStatusCompleted {
		t.Fatalf("expected completed project notification, got %+v", project)
	}
	if engine.polling() {
		t.Fatalf("idle project must not keep a timer running")
	}
}

func TestPollingSelfTerminates(t *testing.T) {
	studio := &fakeStudio{snapshots: []*types.WorkflowSnapshot{
		snapshotWithScenes(types.ProjectStatusGenerating),
		snapshotWithScenes(types.ProjectStatusGenerating),
		snapshotWithScenes(types.ProjectStatusCompleted),
	}}
	recorder := &stateRecorder{}
	engine := NewEngine(studio, newFakeCache(), Options{PollInterval: 10 * time.Millisecond})

	if err := engine.Connect(context.Background(), "p1", recorder.record); err != nil {
		t.Fatalf("Connect error: %v", err)
	}
	defer engine.Disconnect()

	if !engine.polling() {
		t.Fatalf("active project should start the timer")
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if !engine.polling() {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	if engine.polling() {
		t.Fatalf("timer should be cleared after observing completed")
	}

	settled := studio.fetchCount()
	time.Sleep(60 * time.Millisecond)
	if studio.fetchCount() != settled {
		t.Fatalf("poller kept fetching after completion: %d -> %d", settled, studio.fetchCount())
	}
	if project := recorder.last(); project.Status != types.ProjectStatusCompleted {
		t.Fatalf("expected final status completed, got %q", project.Status)
	}
}

func TestLateFetchAfterDisconnectIsNoOp(t *testing.T) {
	studio := &fakeStudio{snapshots: []*types.WorkflowSnapshot{
		snapshotWithScenes(types.ProjectStatusCompleted),
	}}
	recorder := &stateRecorder{}
	engine := NewEngine(studio, newFakeCache(), Options{PollInterval: time.Hour})
	if err := engine.Connect(context.Background(), "p1", recorder.record); err != nil {
		t.Fatalf("Connect error: %v", err)
	}

	gate := make(chan struct{})
	studio.mu.Lock()
	studio.fetchGate = gate
	studio.mu.Unlock()

	done := make(chan struct{})
	go func() {
		_ = engine.Refresh(context.Background())
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	engine.Disconnect()
	before := recorder.count()
	close(gate)
	<-done

	if got := recorder.count(); got != before {
		t.Fatalf("fetch completing after disconnect must not notify: %d -> %d", before, got)
	}
}

func TestPollFailureRetainsState(t *testing.T) {
	studio := &fakeStudio{snapshots: []*types.WorkflowSnapshot{
		snapshotWithScenes(types.ProjectStatusCompleted, &types.Scene{ID: "s1", SceneNumber: 1, Narration: "keep"}),
	}}
	recorder := &stateRecorder{}
	engine := NewEngine(studio, newFakeCache(), Options{PollInterval: time.Hour})
	if err := engine.Connect(context.Background(), "p1", recorder.record); err != nil {
		t.Fatalf("Connect error: %v", err)
	}
	defer engine.Disconnect()

	studio.mu.Lock()
	studio.snapshots = nil // every further fetch fails
	studio.mu.Unlock()

	_ = engine.Refresh(context.Background())
	project := engine.Project()
	if project == nil || len(project.Scenes) != 1 || project.Scenes[0].Narration != "keep" {
		t.Fatalf("failed poll must retain previous state, got %+v", project)
	}
}

func TestCommandRejectionSetsFailedStatus(t *testing.T) {
	studio := &fakeStudio{
		snapshots: []*types.WorkflowSnapshot{
			snapshotWithScenes(types.ProjectStatusDraft, &types.Scene{ID: "s1", SceneNumber: 1}),
		},
		commandErr: &client.APIError{StatusCode: http.StatusTooManyRequests, Message: "quota exceeded"},
	}
	recorder := &stateRecorder{}
	engine := NewEngine(studio, newFakeCache(), Options{PollInterval: time.Hour})
	if err := engine.Connect(context.Background(), "p1", recorder.record); err != nil {
		t.Fatalf("Connect error: %v", err)
	}
	defer engine.Disconnect()

	err := engine.SendCommand(context.Background(), types.CommandGenerateAll, "", false)
	if err == nil {
		t.Fatalf("expected command rejection")
	}
	apiErr := client.AsAPIError(err)
	if apiErr == nil || apiErr.Kind() != client.ErrorKindQuota {
		t.Fatalf("expected quota-classified api error, got %v", err)
	}
	if project := recorder.last(); project.Status != types.ProjectStatusFailed {
		t.Fatalf("rejected command should mark project failed, got %q", project.Status)
	}
}

func TestCommandSuccessTriggersImmediateRefresh(t *testing.T) {
	studio := &fakeStudio{snapshots: []*types.WorkflowSnapshot{
		snapshotWithScenes(types.ProjectStatusCompleted),
	}}
	engine := NewEngine(studio, newFakeCache(), Options{
		PollInterval: time.Hour,
		APIKeys:      map[string]string{"image": "k"},
	})
	if err := engine.Connect(context.Background(), "p1", func(*types.Project) {}); err != nil {
		t.Fatalf("Connect error: %v", err)
	}
	defer engine.Disconnect()

	if err := engine.SendCommand(context.Background(), types.CommandGenerateAllImages, "", true); err != nil {
		t.Fatalf("SendCommand error: %v", err)
	}
	if studio.fetchCount() != 2 {
		t.Fatalf("command success should force a refresh, fetches=%d", studio.fetchCount())
	}
	commands := studio.sentCommands()
	if len(commands) != 1 {
		t.Fatalf("expected one command, got %d", len(commands))
	}
	if commands[0].APIKeys["image"] != "k" {
		t.Fatalf("configured api keys should ride along, got %+v", commands[0].APIKeys)
	}
	if !commands[0].Force {
		t.Fatalf("force flag lost in transit")
	}
}

func TestWorkflowErrorPropagates(t *testing.T) {
	studio := &fakeStudio{snapshots: []*types.WorkflowSnapshot{
		{ProjectStatus: types.ProjectStatusPaused, Error: "image provider rejected prompt"},
	}}
	var gotError string
	engine := NewEngine(studio, newFakeCache(), Options{
		PollInterval:    time.Hour,
		OnWorkflowError: func(msg string) { gotError = msg },
	})
	if err := engine.Connect(context.Background(), "p1", func(*types.Project) {}); err != nil {
		t.Fatalf("Connect error: %v", err)
	}
	defer engine.Disconnect()

	if gotError != "image provider rejected prompt" {
		t.Fatalf("fatal generation error not propagated, got %q", gotError)
	}
}

func TestConnectReplacesPreviousSubscription(t *testing.T) {
	studio := &fakeStudio{snapshots: []*types.WorkflowSnapshot{
		snapshotWithScenes(types.ProjectStatusGenerating),
	}}
	first := &stateRecorder{}
	second := &stateRecorder{}
	engine := NewEngine(studio, newFakeCache(), Options{PollInterval: time.Hour})

	if err := engine.Connect(context.Background(), "p1", first.record); err != nil {
		t.Fatalf("Connect error: %v", err)
	}
	firstCount := first.count()
	if err := engine.Connect(context.Background(), "p2", second.record); err != nil {
		t.Fatalf("second Connect error: %v", err)
	}
	defer engine.Disconnect()

	if first.count() != firstCount {
		t.Fatalf("old subscriber notified after reconnect")
	}
	if second.count() == 0 {
		t.Fatalf("new subscriber not notified")
	}
}
