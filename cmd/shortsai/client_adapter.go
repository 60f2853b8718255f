package main

import (
	"context"

	"github.com/GabrielMBatista/shortsai-studio-sub000/internal/client"
	"github.com/GabrielMBatista/shortsai-studio-sub000/internal/config"
	"github.com/GabrielMBatista/shortsai-studio-sub000/internal/store"
	"github.com/GabrielMBatista/shortsai-studio-sub000/internal/types"
)

type clientFactory func() (studioClient, error)

// studioClient is the slice of the HTTP client the CLI commands use. It is a
// superset of workflow.StudioAPI, so a connected engine can be built straight
// from it.
type studioClient interface {
	Health(ctx context.Context) (*client.HealthResponse, error)
	ListProjects(ctx context.Context) ([]*types.Project, error)
	GetProject(ctx context.Context, id string) (*types.Project, error)
	UpsertProject(ctx context.Context, project *types.Project) (*types.Project, error)
	DeleteProject(ctx context.Context, id string) error
	PatchScene(ctx context.Context, projectID, sceneID string, patch client.ScenePatch) (*types.Scene, error)
	DeleteScene(ctx context.Context, projectID, sceneID string) error
	FetchWorkflow(ctx context.Context, projectID string) (*types.WorkflowSnapshot, error)
	SendCommand(ctx context.Context, req client.CommandRequest) error
}

func newStudioClient() (studioClient, error) {
	return client.New()
}

type cacheFactory func() (projectCache, error)

type projectCache interface {
	SaveProject(ctx context.Context, project *types.Project) error
	LoadProject(ctx context.Context, id string) (*types.Project, bool, error)
	ListProjects(ctx context.Context) ([]*types.Project, error)
	DeleteProject(ctx context.Context, id string) error
	Close() error
}

func openProjectCache() (projectCache, error) {
	path, err := config.CachePath()
	if err != nil {
		return nil, err
	}
	return store.OpenCache(path)
}
