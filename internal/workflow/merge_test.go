package workflow

import (
	"reflect"
	"testing"

	"github.com/GabrielMBatista/shortsai-studio-sub000/internal/types"
)

func TestMergeKeepsLocalContent(t *testing.T) {
	local := []*types.Scene{{
		ID:                "s1",
		SceneNumber:       1,
		Narration:         "A",
		VisualDescription: "a castle at dawn",
	}}
	remote := []*types.Scene{{
		ID:                "s1",
		SceneNumber:       1,
		Narration:         "B",
		VisualDescription: "stale description",
		ImageStatus:       types.AssetStatusCompleted,
		ImageURL:          "http://cdn/img1.png",
	}}

	merged := mergeScenes(local, remote, newTombstoneSet())
	if len(merged) != 1 {
		t.Fatalf("expected 1 scene, got %d", len(merged))
	}
	if merged[0].Narration != "A" {
		t.Fatalf("local narration should win, got %q", merged[0].Narration)
	}
	if merged[0].VisualDescription != "a castle at dawn" {
		t.Fatalf("local visual description should win, got %q", merged[0].VisualDescription)
	}
	if merged[0].ImageStatus != types.AssetStatusCompleted {
		t.Fatalf("remote status should win, got %q", merged[0].ImageStatus)
	}
	if merged[0].ImageURL != "http://cdn/img1.png" {
		t.Fatalf("remote url should be adopted, got %q", merged[0].ImageURL)
	}
}

func TestMergeURLNeverRegresses(t *testing.T) {
	local := []*types.Scene{{ID: "s1", SceneNumber: 1, ImageURL: "x", AudioURL: "y"}}
	remote := []*types.Scene{{ID: "s1", SceneNumber: 1, AudioURL: "y2"}}

	merged := mergeScenes(local, remote, newTombstoneSet())
	if merged[0].ImageURL != "x" {
		t.Fatalf("missing remote url must not clear local, got %q", merged[0].ImageURL)
	}
	if merged[0].AudioURL != "y2" {
		t.Fatalf("present remote url should replace local, got %q", merged[0].AudioURL)
	}
}

func TestMergeSuppressesTombstonedScenes(t *testing.T) {
	tombstones := newTombstoneSet()
	tombstones.Add("s2")
	remote := []*types.Scene{
		{ID: "s1", SceneNumber: 1},
		{ID: "s2", SceneNumber: 2},
	}

	merged := mergeScenes(nil, remote, tombstones)
	if len(merged) != 1 {
		t.Fatalf("expected tombstoned scene suppressed, got %d scenes", len(merged))
	}
	if merged[0].ID != "s1" {
		t.Fatalf("expected s1 to survive, got %q", merged[0].ID)
	}
}

func TestMergeAppendsPendingScenesLast(t *testing.T) {
	local := []*types.Scene{
		{ID: "s1", SceneNumber: 1},
		{ID: "s2", SceneNumber: 2},
		{ID: "s3", SceneNumber: 3},
		{LocalKey: "p1", SceneNumber: 4},
		{LocalKey: "p2", SceneNumber: 5},
	}
	remote := []*types.Scene{
		{ID: "s1", SceneNumber: 1},
		{ID: "s2", SceneNumber: 2},
		{ID: "s3", SceneNumber: 3},
	}

	merged := mergeScenes(local, remote, newTombstoneSet())
	if len(merged) != 5 {
		t.Fatalf("expected 5 scenes, got %d", len(merged))
	}
	if merged[3].LocalKey != "p1" || merged[4].LocalKey != "p2" {
		t.Fatalf("pending scenes should keep positions 4 and 5, got %q and %q", merged[3].LocalKey, merged[4].LocalKey)
	}
	for i, scene := range merged {
		if scene.SceneNumber != i+1 {
			t.Fatalf("scene %d has number %d", i, scene.SceneNumber)
		}
	}
}

func TestMergeIsIdempotent(t *testing.T) {
	remote := []*types.Scene{
		{ID: "s1", SceneNumber: 1, Narration: "one", ImageURL: "u1", ImageStatus: types.AssetStatusCompleted},
		{ID: "s2", SceneNumber: 2, Narration: "two", AudioStatus: types.AssetStatusProcessing},
	}
	local := []*types.Scene{
		{ID: "s1", SceneNumber: 1, Narration: "edited one"},
		{ID: "s2", SceneNumber: 2, Narration: "two"},
	}
	tombstones := newTombstoneSet()

	once := mergeScenes(local, remote, tombstones)
	twice := mergeScenes(once, remote, tombstones)
	if len(once) != len(twice) {
		t.Fatalf("length changed across merges: %d vs %d", len(once), len(twice))
	}
	for i := range once {
		if !reflect.DeepEqual(once[i], twice[i]) {
			t.Fatalf("scene %d changed across merges: %+v vs %+v", i, once[i], twice[i])
		}
	}
}

func TestMergeEmptyInputs(t *testing.T) {
	if got := mergeScenes(nil, nil, newTombstoneSet()); len(got) != 0 {
		t.Fatalf("expected empty merge, got %d scenes", len(got))
	}
	if got := mergeScenes(nil, nil, nil); len(got) != 0 {
		t.Fatalf("expected empty merge with nil tombstones, got %d scenes", len(got))
	}
}

func TestApplySnapshotProjectFields(t *testing.T) {
	local := &types.Project{
		ID:       "p1",
		Status:   types.ProjectStatusDraft,
		MusicURL: "m1",
	}
	snap := &types.WorkflowSnapshot{
		ProjectStatus: types.ProjectStatusGenerating,
		MusicStatus:   types.MusicStatusLoading,
	}

	merged := applySnapshot(local, "p1", snap, newTombstoneSet())
	if merged.Status != types.ProjectStatusGenerating {
		t.Fatalf("remote status should win, got %q", merged.Status)
	}
	if merged.MusicStatus != types.MusicStatusLoading {
		t.Fatalf("music status not applied, got %q", merged.MusicStatus)
	}
	if merged.MusicURL != "m1" {
		t.Fatalf("absent music url must not clear local, got %q", merged.MusicURL)
	}
}

func TestApplySnapshotWithoutScenesKeepsLocalScenes(t *testing.T) {
	local := &types.Project{
		ID:     "p1",
		Status: types.ProjectStatusDraft,
		Scenes: []*types.Scene{
			{ID: "s1", SceneNumber: 1, Narration: "edited"},
			{ID: "s2", SceneNumber: 2},
		},
	}
	snap := &types.WorkflowSnapshot{ProjectStatus: types.ProjectStatusGenerating}

	merged := applySnapshot(local, "p1", snap, newTombstoneSet())
	if merged.Status != types.ProjectStatusGenerating {
		t.Fatalf("status should still apply, got %q", merged.Status)
	}
	if len(merged.Scenes) != 2 {
		t.Fatalf("snapshot without a scene list must keep local scenes, got %d", len(merged.Scenes))
	}
	if merged.Scenes[0].Narration != "edited" {
		t.Fatalf("unsaved edit lost, got %q", merged.Scenes[0].Narration)
	}
}

func TestApplySnapshotEmptySceneListIsAuthoritative(t *testing.T) {
	local := &types.Project{
		ID: "p1",
		Scenes: []*types.Scene{
			{ID: "s1", SceneNumber: 1},
			{LocalKey: "pending", SceneNumber: 2},
		},
	}
	snap := &types.WorkflowSnapshot{
		ProjectStatus: types.ProjectStatusDraft,
		Scenes:        []*types.Scene{},
	}

	merged := applySnapshot(local, "p1", snap, newTombstoneSet())
	if len(merged.Scenes) != 1 {
		t.Fatalf("explicit empty list should drop persisted scenes but keep pending ones, got %d", len(merged.Scenes))
	}
	if merged.Scenes[0].LocalKey != "pending" {
		t.Fatalf("pending scene should survive, got %+v", merged.Scenes[0])
	}
}

func TestApplySnapshotKeepsLocalOnlyStatus(t *testing.T) {
	local := &types.Project{ID: "p1", Status: types.ProjectStatusDraft, LocalOnly: true}
	snap := &types.WorkflowSnapshot{ProjectStatus: types.ProjectStatusFailed}

	merged := applySnapshot(local, "p1", snap, newTombstoneSet())
	if merged.Status != types.ProjectStatusDraft {
		t.Fatalf("never-saved project keeps local status, got %q", merged.Status)
	}
}

func TestApplySnapshotNilLocal(t *testing.T) {
	snap := &types.WorkflowSnapshot{
		ProjectStatus: types.ProjectStatusCompleted,
		Scenes:        []*types.Scene{{ID: "s1", SceneNumber: 1}},
	}
	merged := applySnapshot(nil, "p1", snap, newTombstoneSet())
	if merged.ID != "p1" {
		t.Fatalf("expected project id adopted, got %q", merged.ID)
	}
	if len(merged.Scenes) != 1 {
		t.Fatalf("expected 1 scene, got %d", len(merged.Scenes))
	}
}
