package workflow

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/GabrielMBatista/shortsai-studio-sub000/internal/client"
	"github.com/GabrielMBatista/shortsai-studio-sub000/internal/logging"
	"github.com/GabrielMBatista/shortsai-studio-sub000/internal/types"
)

// Every mutation follows the same shape: apply the new local value
// synchronously and publish it, then persist. Content edits tolerate a
// persistence failure by parking the optimistic value in the local cache;
// structural operations (add/remove/reorder) surface the failure so the
// caller can offer a retry.

// UpdateScene edits content fields of one scene, identified by server id or
// local key. No status change, no command dispatch.
func (e *Engine) UpdateScene(ctx context.Context, key string, patch client.ScenePatch) error {
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
	applyScenePatch(scene, patch)
	persisted := scene.Persisted()
	sceneID := scene.ID
	projectID := e.project.ID
	snapshot := types.CloneProject(e.project)
	notify := e.notifyLocked()
	e.mu.Unlock()
	notify()

	if !persisted {
		e.saveToCache(ctx, snapshot)
		return nil
	}
	if _, err := e.api.PatchScene(ctx, projectID, sceneID, patch); err != nil {
		e.logger.Warn("scene_patch_deferred",
			logging.F("project_id", projectID),
			logging.F("scene_id", sceneID),
			logging.F("error", err),
		)
		e.saveToCache(ctx, snapshot)
	}
	return nil
}

// RemoveScene deletes a scene and renumbers the remainder contiguously. The
// identifier is tombstoned before local state changes, closing the race
// against an in-flight poll.
func (e *Engine) RemoveScene(ctx context.Context, key string) error {
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
	persisted := scene.Persisted()
	sceneID := scene.ID
	if persisted {
		e.tombstones.Add(sceneID)
	}
	scenes := e.project.Scenes[:0]
	for _, s := range e.project.Scenes {
		if s != scene {
			scenes = append(scenes, s)
		}
	}
	e.project.Scenes = scenes
	renumberScenes(e.project.Scenes)
	projectID := e.project.ID
	snapshot := types.CloneProject(e.project)
	notify := e.notifyLocked()
	e.mu.Unlock()
	notify()

	e.saveToCache(ctx, snapshot)
	e.logger.Info("scene_removed",
		logging.F("project_id", projectID),
		logging.F("scene_id", sceneID),
		logging.F("persisted", persisted),
	)
	if !persisted {
		// Never had an identifier; there is nothing to delete remotely.
		return nil
	}
	if err := e.api.DeleteScene(ctx, projectID, sceneID); err != nil {
		return fmt.Errorf("delete scene: %w", err)
	}
	if _, err := e.api.UpsertProject(ctx, snapshot); err != nil {
		return fmt.Errorf("persist renumbering: %w", err)
	}
	return nil
}

// AddScene appends an empty placeholder scene. All asset statuses start as
// completed: the scene has no generated assets and needs none until the user
// fills it in and asks for generation.
func (e *Engine) AddScene(ctx context.Context) (*types.Scene, error) {
	e.mu.Lock()
	if e.project == nil {
		e.mu.Unlock()
		return nil, ErrNotConnected
	}
	scene := &types.Scene{
		LocalKey:    uuid.NewString(),
		SceneNumber: len(e.project.Scenes) + 1,
		MediaType:   types.MediaTypeImage,
		ImageStatus: types.AssetStatusCompleted,
		AudioStatus: types.AssetStatusCompleted,
		VideoStatus: types.AssetStatusCompleted,
	}
	e.project.Scenes = append(e.project.Scenes, scene)
	snapshot := types.CloneProject(e.project)
	notify := e.notifyLocked()
	e.mu.Unlock()
	notify()

	// The whole project is upserted so the studio can assign the new scene a
	// durable identifier.
	saved, err := e.api.UpsertProject(ctx, snapshot)
	if err != nil {
		e.saveToCache(ctx, snapshot)
		return types.CloneScene(scene), fmt.Errorf("persist project: %w", err)
	}
	e.adoptPersisted(saved)
	return types.CloneScene(scene), nil
}

// MoveScene moves a scene to a new 1-based position and renumbers everything
// by list order.
func (e *Engine) MoveScene(ctx context.Context, key string, position int) error {
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
	scenes := make([]*types.Scene, 0, len(e.project.Scenes))
	for _, s := range e.project.Scenes {
		if s != scene {
			scenes = append(scenes, s)
		}
	}
	index := position - 1
	if index < 0 {
		index = 0
	}
	if index > len(scenes) {
		index = len(scenes)
	}
	scenes = append(scenes[:index], append([]*types.Scene{scene}, scenes[index:]...)...)
	e.project.Scenes = scenes
	renumberScenes(e.project.Scenes)
	snapshot := types.CloneProject(e.project)
	notify := e.notifyLocked()
	e.mu.Unlock()
	notify()

	e.saveToCache(ctx, snapshot)
	if _, err := e.api.UpsertProject(ctx, snapshot); err != nil {
		return fmt.Errorf("persist order: %w", err)
	}
	return nil
}

// UpdateSettings merges project-level fields and persists immediately. Scene
// statuses are untouched.
func (e *Engine) UpdateSettings(ctx context.Context, settings types.ProjectSettings) error {
	e.mu.Lock()
	if e.project == nil {
		e.mu.Unlock()
		return ErrNotConnected
	}
	applySettings(e.project, settings)
	snapshot := types.CloneProject(e.project)
	notify := e.notifyLocked()
	e.mu.Unlock()
	notify()

	if _, err := e.api.UpsertProject(ctx, snapshot); err != nil {
		e.logger.Warn("settings_persist_deferred",
			logging.F("project_id", snapshot.ID),
			logging.F("error", err),
		)
		e.saveToCache(ctx, snapshot)
		return nil
	}
	e.adoptPersisted(nil)
	return nil
}

// adoptPersisted copies server-assigned identifiers from an upsert response
// into the local aggregate and clears the local-only marker.
func (e *Engine) adoptPersisted(saved *types.Project) {
	e.mu.Lock()
	if e.project == nil {
		e.mu.Unlock()
		return
	}
	e.project.LocalOnly = false
	changed := false
	if saved != nil {
		for _, remote := range saved.Scenes {
			if remote == nil || remote.ID == "" {
				continue
			}
			for _, local := range e.project.Scenes {
				if local == nil || local.Persisted() {
					continue
				}
				if (remote.LocalKey != "" && remote.LocalKey == local.LocalKey) ||
					(remote.LocalKey == "" && remote.SceneNumber == local.SceneNumber) {
					local.ID = remote.ID
					changed = true
					break
				}
			}
		}
	}
	var notify func()
	if changed {
		notify = e.notifyLocked()
	}
	e.mu.Unlock()
	if notify != nil {
		notify()
	}
}

func applyScenePatch(scene *types.Scene, patch client.ScenePatch) {
	if patch.SceneNumber != nil {
		scene.SceneNumber = *patch.SceneNumber
	}
	if patch.VisualDescription != nil {
		scene.VisualDescription = *patch.VisualDescription
	}
	if patch.Narration != nil {
		scene.Narration = *patch.Narration
	}
	if patch.Duration != nil {
		scene.Duration = *patch.Duration
	}
	if patch.Characters != nil {
		scene.Characters = append([]string{}, patch.Characters...)
	}
	if patch.MediaType != nil {
		scene.MediaType = *patch.MediaType
	}
}

func applySettings(project *types.Project, settings types.ProjectSettings) {
	if settings.Title != nil {
		project.Title = *settings.Title
	}
	if settings.Description != nil {
		project.Description = *settings.Description
	}
	if settings.Style != nil {
		project.Style = *settings.Style
	}
	if settings.Language != nil {
		project.Language = *settings.Language
	}
	if settings.Voice != nil {
		project.Voice = *settings.Voice
	}
	if settings.Provider != nil {
		project.Provider = *settings.Provider
	}
	if settings.ImageModel != nil {
		project.ImageModel = *settings.ImageModel
	}
	if settings.VideoModel != nil {
		project.VideoModel = *settings.VideoModel
	}
	if settings.Characters != nil {
		project.Characters = append([]string{}, settings.Characters...)
	}
	if settings.MusicPrompt != nil {
		project.MusicPrompt = *settings.MusicPrompt
	}
}
