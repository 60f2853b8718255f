package workflow

import (
	"sort"

	"github.com/GabrielMBatista/shortsai-studio-sub000/internal/types"
)

// mergeScenes reconciles the authoritative remote scene list with local state.
// Local is authoritative for content (narration, visual description, scene
// number, media type, characters when set); remote is authoritative for
// statuses and URLs, except that a URL known locally is never regressed to
// empty. Tombstoned identifiers are suppressed and identifier-less local
// scenes are appended. The result is sorted by scene number and the function
// is idempotent and total on empty input.
func mergeScenes(local, remote []*types.Scene, tombstones *tombstoneSet) []*types.Scene {
	localByID := make(map[string]*types.Scene, len(local))
	for _, scene := range local {
		if scene.Persisted() {
			localByID[scene.ID] = scene
		}
	}

	out := make([]*types.Scene, 0, len(remote)+len(local))
	for _, r := range remote {
		if r == nil || tombstones.Contains(r.ID) {
			continue
		}
		l, ok := localByID[r.ID]
		if !ok {
			out = append(out, types.CloneScene(r))
			continue
		}
		out = append(out, mergeScene(l, r))
	}
	for _, l := range local {
		if l == nil || l.Persisted() {
			continue
		}
		out = append(out, types.CloneScene(l))
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SceneNumber < out[j].SceneNumber
	})
	return out
}

func mergeScene(local, remote *types.Scene) *types.Scene {
	merged := types.CloneScene(remote)
	merged.LocalKey = local.LocalKey

	merged.Narration = local.Narration
	merged.VisualDescription = local.VisualDescription
	merged.SceneNumber = local.SceneNumber
	if local.MediaType != "" {
		merged.MediaType = local.MediaType
	}
	if len(local.Characters) > 0 {
		merged.Characters = append([]string{}, local.Characters...)
	}

	// URLs are gained, never regressed: a snapshot racing a just-written
	// asset may omit the field.
	if merged.ImageURL == "" {
		merged.ImageURL = local.ImageURL
	}
	if merged.AudioURL == "" {
		merged.AudioURL = local.AudioURL
	}
	if merged.VideoURL == "" {
		merged.VideoURL = local.VideoURL
	}
	if merged.Duration == 0 {
		merged.Duration = local.Duration
	}
	return merged
}

// applySnapshot layers a poll result onto the current project aggregate and
// returns the new aggregate. A missing field in the snapshot means "nothing
// new for that field"; the function never fails.
func applySnapshot(local *types.Project, projectID string, snap *types.WorkflowSnapshot, tombstones *tombstoneSet) *types.Project {
	var merged *types.Project
	if local != nil {
		merged = types.CloneProject(local)
	} else {
		merged = &types.Project{ID: projectID}
	}
	if snap == nil {
		return merged
	}

	if snap.ProjectStatus != "" && !merged.LocalOnly {
		merged.Status = snap.ProjectStatus
	}
	if snap.MusicStatus != "" {
		merged.MusicStatus = snap.MusicStatus
	}
	if snap.MusicURL != "" {
		merged.MusicURL = snap.MusicURL
	}

	// A snapshot without a scenes field carries no scene information; local
	// scenes stay untouched, like the empty status fields above. An empty
	// (non-nil) list is authoritative: the project has no persisted scenes.
	if snap.Scenes != nil {
		var localScenes []*types.Scene
		if local != nil {
			localScenes = local.Scenes
		}
		merged.Scenes = mergeScenes(localScenes, snap.Scenes, tombstones)
	}
	return merged
}

// renumberScenes rewrites scene numbers as a contiguous 1..N permutation in
// list order.
func renumberScenes(scenes []*types.Scene) {
	for i, scene := range scenes {
		if scene == nil {
			continue
		}
		scene.SceneNumber = i + 1
	}
}
