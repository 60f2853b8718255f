package workflow

import (
	"context"
	"fmt"

	"github.com/GabrielMBatista/shortsai-studio-sub000/internal/client"
	"github.com/GabrielMBatista/shortsai-studio-sub000/internal/logging"
	"github.com/GabrielMBatista/shortsai-studio-sub000/internal/types"
)

// SendCommand posts a named action against the observed project and, on
// success, immediately refreshes so the UI does not wait for the next tick.
// It never mutates local state; optimistic feedback belongs to the callers
// in mutations.go and the typed operations below.
func (e *Engine) SendCommand(ctx context.Context, action types.CommandAction, sceneID string, force bool) error {
	e.mu.Lock()
	projectID := e.projectID
	e.mu.Unlock()
	if projectID == "" {
		return ErrNotConnected
	}
	if !action.Valid() {
		return fmt.Errorf("unknown command action: %s", action)
	}

	err := e.api.SendCommand(ctx, client.CommandRequest{
		ProjectID: projectID,
		SceneID:   sceneID,
		Action:    action,
		Force:     force,
		APIKeys:   e.apiKeys,
	})
	if err != nil {
		// A rejected command leaves the workflow in a terminal,
		// user-actionable state locally.
		e.mu.Lock()
		var notify func()
		if e.project != nil {
			e.project.Status = types.ProjectStatusFailed
			notify = e.notifyLocked()
		}
		e.mu.Unlock()
		if notify != nil {
			notify()
		}
		e.logger.Warn("command_rejected",
			logging.F("project_id", projectID),
			logging.F("action", string(action)),
			logging.F("error", err),
		)
		return err
	}

	e.logger.Info("command_sent",
		logging.F("project_id", projectID),
		logging.F("action", string(action)),
		logging.F("scene_id", sceneID),
		logging.F("force", force),
	)
	return e.Refresh(ctx)
}

// RegenerateAsset regenerates one asset of one scene. A completed asset is
// never silently overwritten: the caller must pass force after explicit
// confirmation, and the request then carries force=true.
func (e *Engine) RegenerateAsset(ctx context.Context, key string, kind types.AssetKind, force bool) error {
	action, ok := types.RegenerateAction(kind)
	if !ok {
		return fmt.Errorf("no regeneration action for asset kind %q", kind)
	}

	e.mu.Lock()
	if e.project == nil {
		e.mu.Unlock()
		return ErrNotConnected
	}
	scene := e.project.SceneByKey(key)
	if scene == nil {
		e.mu.Unlock()
		return ErrSceneNotFound
	}
	completed := scene.AssetStatus(kind) == types.AssetStatusCompleted
	if completed && !force {
		e.mu.Unlock()
		return ErrForceRequired
	}
	scene.SetAssetStatus(kind, types.AssetStatusLoading)
	sceneID := scene.ID
	notify := e.notifyLocked()
	e.mu.Unlock()
	notify()

	return e.SendCommand(ctx, action, sceneID, completed)
}

// RegenerateAll regenerates one asset kind across every scene. Force is
// required when any scene's asset is already completed.
func (e *Engine) RegenerateAll(ctx context.Context, kind types.AssetKind, force bool) error {
	action, ok := types.BulkGenerateAction(kind)
	if !ok {
		return fmt.Errorf("no bulk generation action for asset kind %q", kind)
	}

	e.mu.Lock()
	if e.project == nil {
		e.mu.Unlock()
		return ErrNotConnected
	}
	anyCompleted := false
	for _, scene := range e.project.Scenes {
		if scene.AssetStatus(kind) == types.AssetStatusCompleted {
			anyCompleted = true
			break
		}
	}
	if anyCompleted && !force {
		e.mu.Unlock()
		return ErrForceRequired
	}
	for _, scene := range e.project.Scenes {
		scene.SetAssetStatus(kind, types.AssetStatusLoading)
	}
	notify := e.notifyLocked()
	e.mu.Unlock()
	notify()

	return e.SendCommand(ctx, action, "", anyCompleted)
}

// GenerateAll kicks off the full pipeline for the project.
func (e *Engine) GenerateAll(ctx context.Context) error {
	e.mu.Lock()
	var notify func()
	if e.project != nil {
		e.project.Status = types.ProjectStatusGenerating
		for _, scene := range e.project.Scenes {
			scene.SetAssetStatus(types.AssetImage, types.AssetStatusLoading)
			scene.SetAssetStatus(types.AssetAudio, types.AssetStatusLoading)
		}
		notify = e.notifyLocked()
	}
	e.mu.Unlock()
	if notify != nil {
		notify()
	}
	return e.SendCommand(ctx, types.CommandGenerateAll, "", false)
}

// GenerateMusic requests background music for the project, optionally
// updating the prompt first.
func (e *Engine) GenerateMusic(ctx context.Context, prompt string) error {
	e.mu.Lock()
	var notify func()
	if e.project != nil {
		if prompt != "" {
			e.project.MusicPrompt = prompt
		}
		e.project.MusicStatus = types.MusicStatusLoading
		notify = e.notifyLocked()
	}
	e.mu.Unlock()
	if notify != nil {
		notify()
	}
	return e.SendCommand(ctx, types.CommandGenerateMusic, "", false)
}

// Cancel stops in-flight generation. Cancellation is a command through the
// normal channel, not an abort of any outstanding request.
func (e *Engine) Cancel(ctx context.Context) error {
	return e.SendCommand(ctx, types.CommandCancel, "", false)
}

// Resume continues a paused workflow.
func (e *Engine) Resume(ctx context.Context) error {
	return e.SendCommand(ctx, types.CommandResume, "", false)
}

// SkipScene tells the pipeline to move past a scene blocking a paused
// workflow.
func (e *Engine) SkipScene(ctx context.Context, sceneID string) error {
	return e.SendCommand(ctx, types.CommandSkipScene, sceneID, false)
}
