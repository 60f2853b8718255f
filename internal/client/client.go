package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/GabrielMBatista/shortsai-studio-sub000/internal/config"
	"github.com/GabrielMBatista/shortsai-studio-sub000/internal/types"
)

type Client struct {
	baseURL string
	http    *http.Client
}

func New() (*Client, error) {
	cfg, err := config.LoadSettings()
	if err != nil {
		return nil, err
	}
	return NewWithBaseURL(cfg.StudioBaseURL()), nil
}

func NewWithBaseURL(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var resp HealthResponse
	if err := c.doJSON(ctx, http.MethodGet, "/health", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ListProjects(ctx context.Context) ([]*types.Project, error) {
	var resp ProjectsResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/projects", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Projects, nil
}

func (c *Client) GetProject(ctx context.Context, id string) (*types.Project, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errors.New("project id is required")
	}
	var project types.Project
	if err := c.doJSON(ctx, http.MethodGet, "/v1/projects/"+id, nil, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// UpsertProject creates or replaces the whole project, letting the studio
// assign durable identifiers to any scenes that lack one.
func (c *Client) UpsertProject(ctx context.Context, project *types.Project) (*types.Project, error) {
	if project == nil {
		return nil, errors.New("project is required")
	}
	var resp types.Project
	if err := c.doJSON(ctx, http.MethodPost, "/v1/projects", project, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) DeleteProject(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return errors.New("project id is required")
	}
	return c.doJSON(ctx, http.MethodDelete, "/v1/projects/"+id, nil, nil)
}

func (c *Client) PatchScene(ctx context.Context, projectID, sceneID string, patch ScenePatch) (*types.Scene, error) {
	if strings.TrimSpace(projectID) == "" || strings.TrimSpace(sceneID) == "" {
		return nil, errors.New("project and scene ids are required")
	}
	path := fmt.Sprintf("/v1/projects/%s/scenes/%s", projectID, sceneID)
	var scene types.Scene
	if err := c.doJSON(ctx, http.MethodPatch, path, patch, &scene); err != nil {
		return nil, err
	}
	return &scene, nil
}

func (c *Client) DeleteScene(ctx context.Context, projectID, sceneID string) error {
	if strings.TrimSpace(projectID) == "" || strings.TrimSpace(sceneID) == "" {
		return errors.New("project and scene ids are required")
	}
	path := fmt.Sprintf("/v1/projects/%s/scenes/%s", projectID, sceneID)
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil)
}

// FetchWorkflow polls the workflow state for a project and returns the
// normalized snapshot.
func (c *Client) FetchWorkflow(ctx context.Context, projectID string) (*types.WorkflowSnapshot, error) {
	if strings.TrimSpace(projectID) == "" {
		return nil, errors.New("project id is required")
	}
	var wire wireSnapshot
	if err := c.doJSON(ctx, http.MethodGet, "/v1/projects/"+projectID+"/workflow", nil, &wire); err != nil {
		return nil, err
	}
	return decodeSnapshot(&wire), nil
}

func (c *Client) SendCommand(ctx context.Context, req CommandRequest) error {
	if strings.TrimSpace(req.ProjectID) == "" {
		return errors.New("project id is required")
	}
	if !req.Action.Valid() {
		return fmt.Errorf("unknown command action: %s", req.Action)
	}
	path := "/v1/projects/" + req.ProjectID + "/commands"
	return c.doJSON(ctx, http.MethodPost, path, req, nil)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func decodeAPIError(resp *http.Response) error {
	type errorPayload struct {
		Error string `json:"error"`
	}
	var payload errorPayload
	_ = json.NewDecoder(resp.Body).Decode(&payload)
	if payload.Error != "" {
		return &APIError{StatusCode: resp.StatusCode, Message: payload.Error}
	}
	return &APIError{StatusCode: resp.StatusCode, Message: resp.Status}
}

type ErrorKind int

const (
	ErrorKindGeneric ErrorKind = iota
	ErrorKindQuota
	ErrorKindCredential
)

type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("studio error (%d): %s", e.StatusCode, e.Message)
}

// Kind classifies the failure so callers can suggest a specific remedy
// instead of a generic retry.
func (e *APIError) Kind() ErrorKind {
	if e == nil {
		return ErrorKindGeneric
	}
	switch e.StatusCode {
	case http.StatusPaymentRequired, http.StatusTooManyRequests:
		return ErrorKindQuota
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrorKindCredential
	default:
		return ErrorKindGeneric
	}
}

func AsAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return nil
}
