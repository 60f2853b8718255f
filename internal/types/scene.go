package types

import "strings"

type AssetStatus string

const (
	AssetStatusPending    AssetStatus = "pending"
	AssetStatusQueued     AssetStatus = "queued"
	AssetStatusProcessing AssetStatus = "processing"
	AssetStatusLoading    AssetStatus = "loading"
	AssetStatusCompleted  AssetStatus = "completed"
	AssetStatusFailed     AssetStatus = "failed"
	AssetStatusError      AssetStatus = "error"
)

func (s AssetStatus) InFlight() bool {
	switch s {
	case AssetStatusQueued, AssetStatusProcessing, AssetStatusLoading:
		return true
	default:
		return false
	}
}

type AssetKind string

const (
	AssetImage AssetKind = "image"
	AssetAudio AssetKind = "audio"
	AssetVideo AssetKind = "video"
)

type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
)

// Scene belongs to exactly one project. ID is issued by the studio on first
// persist; until then the scene is identified by LocalKey only.
type Scene struct {
	ID       string `json:"id,omitempty"`
	LocalKey string `json:"localKey,omitempty"`

	SceneNumber       int       `json:"sceneNumber"`
	VisualDescription string    `json:"visualDescription,omitempty"`
	Narration         string    `json:"narration,omitempty"`
	Duration          float64   `json:"duration,omitempty"`
	Characters        []string  `json:"characters,omitempty"`
	MediaType         MediaType `json:"mediaType,omitempty"`

	ImageStatus AssetStatus `json:"imageStatus,omitempty"`
	AudioStatus AssetStatus `json:"audioStatus,omitempty"`
	VideoStatus AssetStatus `json:"videoStatus,omitempty"`
	ImageURL    string      `json:"imageUrl,omitempty"`
	AudioURL    string      `json:"audioUrl,omitempty"`
	VideoURL    string      `json:"videoUrl,omitempty"`

	Error string `json:"error,omitempty"`
}

// Persisted reports whether the studio has assigned this scene an identifier.
func (s *Scene) Persisted() bool {
	return s != nil && strings.TrimSpace(s.ID) != ""
}

// Key returns the stable lookup key for the scene: the server id once
// persisted, the local key before that.
func (s *Scene) Key() string {
	if s == nil {
		return ""
	}
	if s.Persisted() {
		return s.ID
	}
	return s.LocalKey
}

func (s *Scene) AssetStatus(kind AssetKind) AssetStatus {
	if s == nil {
		return ""
	}
	switch kind {
	case AssetImage:
		return s.ImageStatus
	case AssetAudio:
		return s.AudioStatus
	case AssetVideo:
		return s.VideoStatus
	default:
		return ""
	}
}

func (s *Scene) SetAssetStatus(kind AssetKind, status AssetStatus) {
	if s == nil {
		return
	}
	switch kind {
	case AssetImage:
		s.ImageStatus = status
	case AssetAudio:
		s.AudioStatus = status
	case AssetVideo:
		s.VideoStatus = status
	}
}

func (s *Scene) AssetURL(kind AssetKind) string {
	if s == nil {
		return ""
	}
	switch kind {
	case AssetImage:
		return s.ImageURL
	case AssetAudio:
		return s.AudioURL
	case AssetVideo:
		return s.VideoURL
	default:
		return ""
	}
}

func CloneScene(s *Scene) *Scene {
	if s == nil {
		return nil
	}
	out := *s
	if len(s.Characters) > 0 {
		out.Characters = append([]string{}, s.Characters...)
	}
	return &out
}
