package types

import (
	"strings"
	"time"
)

type ProjectStatus string

const (
	ProjectStatusDraft      ProjectStatus = "draft"
	ProjectStatusGenerating ProjectStatus = "generating"
	ProjectStatusProcessing ProjectStatus = "processing"
	ProjectStatusPending    ProjectStatus = "pending"
	ProjectStatusCompleted  ProjectStatus = "completed"
	ProjectStatusFailed     ProjectStatus = "failed"
	ProjectStatusPaused     ProjectStatus = "paused"
)

// Active reports whether the status indicates server-side work in flight.
func (s ProjectStatus) Active() bool {
	switch s {
	case ProjectStatusGenerating, ProjectStatusProcessing, ProjectStatusPending:
		return true
	default:
		return false
	}
}

type MusicStatus string

const (
	MusicStatusPending    MusicStatus = "pending"
	MusicStatusQueued     MusicStatus = "queued"
	MusicStatusLoading    MusicStatus = "loading"
	MusicStatusProcessing MusicStatus = "processing"
	MusicStatusCompleted  MusicStatus = "completed"
	MusicStatusFailed     MusicStatus = "failed"
	MusicStatusError      MusicStatus = "error"
)

func (s MusicStatus) Active() bool {
	switch s {
	case MusicStatusPending, MusicStatusLoading:
		return true
	default:
		return false
	}
}

type Project struct {
	ID          string        `json:"id"`
	Title       string        `json:"title,omitempty"`
	Description string        `json:"description,omitempty"`
	Topic       string        `json:"topic,omitempty"`
	Style       string        `json:"style,omitempty"`
	Language    string        `json:"language,omitempty"`
	Voice       string        `json:"voice,omitempty"`
	Provider    string        `json:"provider,omitempty"`
	ImageModel  string        `json:"imageModel,omitempty"`
	VideoModel  string        `json:"videoModel,omitempty"`
	Characters  []string      `json:"characters,omitempty"`
	Status      ProjectStatus `json:"status"`
	Scenes      []*Scene      `json:"scenes,omitempty"`
	MusicPrompt string        `json:"musicPrompt,omitempty"`
	MusicURL    string        `json:"musicUrl,omitempty"`
	MusicStatus MusicStatus   `json:"musicStatus,omitempty"`

	// LocalOnly marks a project that has never been accepted by the studio;
	// its status stays under local authority until the first successful upsert.
	LocalOnly bool `json:"localOnly,omitempty"`

	CreatedAt time.Time `json:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// ProjectSettings is a partial update for project-level fields. Nil pointers
// leave the current value untouched.
type ProjectSettings struct {
	Title       *string
	Description *string
	Style       *string
	Language    *string
	Voice       *string
	Provider    *string
	ImageModel  *string
	VideoModel  *string
	Characters  []string
	MusicPrompt *string
}

func CloneProject(p *Project) *Project {
	if p == nil {
		return nil
	}
	out := *p
	if len(p.Characters) > 0 {
		out.Characters = append([]string{}, p.Characters...)
	}
	if len(p.Scenes) > 0 {
		out.Scenes = make([]*Scene, 0, len(p.Scenes))
		for _, scene := range p.Scenes {
			out.Scenes = append(out.Scenes, CloneScene(scene))
		}
	}
	return &out
}

// SceneByKey finds a scene by server id or local key.
func (p *Project) SceneByKey(key string) *Scene {
	if p == nil || strings.TrimSpace(key) == "" {
		return nil
	}
	for _, scene := range p.Scenes {
		if scene == nil {
			continue
		}
		if scene.ID == key || scene.LocalKey == key {
			return scene
		}
	}
	return nil
}
