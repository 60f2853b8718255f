package types

// WorkflowSnapshot is one point-in-time view of remote workflow state returned
// by a poll. It is never stored; it is merged into the project aggregate.
type WorkflowSnapshot struct {
	ProjectStatus ProjectStatus
	Scenes        []*Scene
	MusicStatus   MusicStatus
	MusicURL      string

	// Error carries a fatal generation error reported by the pipeline, if any.
	Error string
}
