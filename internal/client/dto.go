package client

import (
	"strings"

	"github.com/GabrielMBatista/shortsai-studio-sub000/internal/types"
)

type HealthResponse struct {
	OK      bool   `json:"ok"`
	Version string `json:"version"`
}

type ProjectsResponse struct {
	Projects []*types.Project `json:"projects"`
}

type CommandRequest struct {
	ProjectID string              `json:"projectId"`
	SceneID   string              `json:"sceneId,omitempty"`
	Action    types.CommandAction `json:"action"`
	Force     bool                `json:"force,omitempty"`
	APIKeys   map[string]string   `json:"apiKeys,omitempty"`
}

// ScenePatch is a partial scene update keyed by scene identifier. Nil fields
// are left untouched by the studio.
type ScenePatch struct {
	SceneNumber       *int             `json:"sceneNumber,omitempty"`
	VisualDescription *string          `json:"visualDescription,omitempty"`
	Narration         *string          `json:"narration,omitempty"`
	Duration          *float64         `json:"duration,omitempty"`
	Characters        []string         `json:"characters,omitempty"`
	MediaType         *types.MediaType `json:"mediaType,omitempty"`
}

// The workflow endpoint emits scene fields in snake_case or camelCase
// depending on which pipeline stage wrote them. The wire types accept both and
// decodeSnapshot collapses them once, at this boundary.

type wireSnapshot struct {
	ProjectStatus      string      `json:"projectStatus"`
	ProjectStatusSnake string      `json:"project_status"`
	Scenes             []wireScene `json:"scenes"`
	MusicStatus        string      `json:"musicStatus"`
	MusicStatusSnake   string      `json:"music_status"`
	MusicURL           string      `json:"musicUrl"`
	MusicURLSnake      string      `json:"music_url"`
	Error              string      `json:"error"`
	ErrorSnake         string      `json:"error_message"`
}

type wireScene struct {
	ID                     string   `json:"id"`
	SceneNumber            int      `json:"sceneNumber"`
	SceneNumberSnake       int      `json:"scene_number"`
	VisualDescription      string   `json:"visualDescription"`
	VisualDescriptionSnake string   `json:"visual_description"`
	Narration              string   `json:"narration"`
	Duration               float64  `json:"duration"`
	DurationSnake          float64  `json:"duration_seconds"`
	Characters             []string `json:"characters"`
	MediaType              string   `json:"mediaType"`
	MediaTypeSnake         string   `json:"media_type"`
	ImageStatus            string   `json:"imageStatus"`
	ImageStatusSnake       string   `json:"image_status"`
	AudioStatus            string   `json:"audioStatus"`
	AudioStatusSnake       string   `json:"audio_status"`
	VideoStatus            string   `json:"videoStatus"`
	VideoStatusSnake       string   `json:"video_status"`
	ImageURL               string   `json:"imageUrl"`
	ImageURLSnake          string   `json:"image_url"`
	AudioURL               string   `json:"audioUrl"`
	AudioURLSnake          string   `json:"audio_url"`
	VideoURL               string   `json:"videoUrl"`
	VideoURLSnake          string   `json:"video_url"`
	Error                  string   `json:"error"`
	ErrorSnake             string   `json:"error_message"`
}

func decodeSnapshot(wire *wireSnapshot) *types.WorkflowSnapshot {
	if wire == nil {
		return &types.WorkflowSnapshot{}
	}
	snap := &types.WorkflowSnapshot{
		ProjectStatus: types.ProjectStatus(firstNonEmpty(wire.ProjectStatus, wire.ProjectStatusSnake)),
		MusicStatus:   types.MusicStatus(firstNonEmpty(wire.MusicStatus, wire.MusicStatusSnake)),
		MusicURL:      firstNonEmpty(wire.MusicURL, wire.MusicURLSnake),
		Error:         firstNonEmpty(wire.Error, wire.ErrorSnake),
	}
	// A nil scene list means the field was absent from the payload; an empty
	// one means the project truly has no scenes. The merge relies on the
	// distinction, so it must survive decoding.
	if wire.Scenes != nil {
		snap.Scenes = make([]*types.Scene, 0, len(wire.Scenes))
		for i := range wire.Scenes {
			snap.Scenes = append(snap.Scenes, decodeScene(&wire.Scenes[i]))
		}
	}
	return snap
}

func decodeScene(wire *wireScene) *types.Scene {
	scene := &types.Scene{
		ID:                strings.TrimSpace(wire.ID),
		SceneNumber:       firstPositive(wire.SceneNumber, wire.SceneNumberSnake),
		VisualDescription: firstNonEmpty(wire.VisualDescription, wire.VisualDescriptionSnake),
		Narration:         wire.Narration,
		Characters:        wire.Characters,
		MediaType:         types.MediaType(firstNonEmpty(wire.MediaType, wire.MediaTypeSnake)),
		ImageURL:          firstNonEmpty(wire.ImageURL, wire.ImageURLSnake),
		AudioURL:          firstNonEmpty(wire.AudioURL, wire.AudioURLSnake),
		VideoURL:          firstNonEmpty(wire.VideoURL, wire.VideoURLSnake),
		Error:             firstNonEmpty(wire.Error, wire.ErrorSnake),
	}
	if wire.Duration > 0 {
		scene.Duration = wire.Duration
	} else {
		scene.Duration = wire.DurationSnake
	}
	scene.ImageStatus = decodeAssetStatus(firstNonEmpty(wire.ImageStatus, wire.ImageStatusSnake), scene.ImageURL)
	scene.AudioStatus = decodeAssetStatus(firstNonEmpty(wire.AudioStatus, wire.AudioStatusSnake), scene.AudioURL)
	scene.VideoStatus = decodeAssetStatus(firstNonEmpty(wire.VideoStatus, wire.VideoStatusSnake), scene.VideoURL)
	return scene
}

// decodeAssetStatus synthesizes a status when the snapshot omits one:
// completed if the asset URL is already known, pending otherwise.
func decodeAssetStatus(raw, url string) types.AssetStatus {
	status := strings.TrimSpace(raw)
	if status != "" {
		return types.AssetStatus(status)
	}
	if strings.TrimSpace(url) != "" {
		return types.AssetStatusCompleted
	}
	return types.AssetStatusPending
}

func firstNonEmpty(a, b string) string {
	if strings.TrimSpace(a) != "" {
		return a
	}
	return b
}

func firstPositive(a, b int) int {
	if a > 0 {
		return a
	}
	return b
}
