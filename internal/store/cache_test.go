package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/GabrielMBatista/shortsai-studio-sub000/internal/types"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	cache, err := OpenCache(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("OpenCache error: %v", err)
	}
	t.Cleanup(func() { _ = cache.Close() })
	return cache
}

func TestCacheRoundTrip(t *testing.T) {
	cache := openTestCache(t)
	ctx := context.Background()

	project := &types.Project{
		ID:     "p1",
		Title:  "Harbor Story",
		Status: types.ProjectStatusDraft,
		Scenes: []*types.Scene{
			{ID: "s1", SceneNumber: 1, Narration: "once upon a tide"},
		},
	}
	if err := cache.SaveProject(ctx, project); err != nil {
		t.Fatalf("SaveProject error: %v", err)
	}

	loaded, ok, err := cache.LoadProject(ctx, "p1")
	if err != nil {
		t.Fatalf("LoadProject error: %v", err)
	}
	if !ok {
		t.Fatalf("saved project not found")
	}
	if loaded.Title != "Harbor Story" || len(loaded.Scenes) != 1 {
		t.Fatalf("roundtrip lost data: %+v", loaded)
	}
	if loaded.Scenes[0].Narration != "once upon a tide" {
		t.Fatalf("scene content lost: %+v", loaded.Scenes[0])
	}
	if loaded.UpdatedAt.IsZero() {
		t.Fatalf("save should stamp UpdatedAt")
	}

	// Mutating the loaded copy must not leak back into the store.
	loaded.Title = "mutated"
	again, _, _ := cache.LoadProject(ctx, "p1")
	if again.Title != "Harbor Story" {
		t.Fatalf("store returned shared state")
	}
}

func TestCacheLoadMissing(t *testing.T) {
	cache := openTestCache(t)

	project, ok, err := cache.LoadProject(context.Background(), "nope")
	if err != nil {
		t.Fatalf("LoadProject error: %v", err)
	}
	if ok || project != nil {
		t.Fatalf("missing project should report not found, got %+v", project)
	}
}

func TestCacheListSortedByCreation(t *testing.T) {
	cache := openTestCache(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"b", "a", "c"} {
		err := cache.SaveProject(ctx, &types.Project{
			ID:        id,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("SaveProject(%s) error: %v", id, err)
		}
	}

	projects, err := cache.ListProjects(ctx)
	if err != nil {
		t.Fatalf("ListProjects error: %v", err)
	}
	if len(projects) != 3 {
		t.Fatalf("expected 3 projects, got %d", len(projects))
	}
	want := []string{"b", "a", "c"}
	for i, project := range projects {
		if project.ID != want[i] {
			t.Fatalf("position %d: want %s, got %s", i, want[i], project.ID)
		}
	}
}

func TestCacheDelete(t *testing.T) {
	cache := openTestCache(t)
	ctx := context.Background()

	if err := cache.SaveProject(ctx, &types.Project{ID: "p1"}); err != nil {
		t.Fatalf("SaveProject error: %v", err)
	}
	if err := cache.DeleteProject(ctx, "p1"); err != nil {
		t.Fatalf("DeleteProject error: %v", err)
	}
	if _, ok, _ := cache.LoadProject(ctx, "p1"); ok {
		t.Fatalf("deleted project still present")
	}
}

func TestCacheRejectsEmptyID(t *testing.T) {
	cache := openTestCache(t)
	ctx := context.Background()

	if err := cache.SaveProject(ctx, &types.Project{}); err == nil {
		t.Fatalf("save without id should fail")
	}
	if _, _, err := cache.LoadProject(ctx, "  "); err == nil {
		t.Fatalf("load with blank id should fail")
	}
}
