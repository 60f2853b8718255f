package types

type CommandAction string

const (
	CommandGenerateAll       CommandAction = "generate_all"
	CommandGenerateAllImages CommandAction = "generate_all_images"
	CommandGenerateAllAudio  CommandAction = "generate_all_audio"
	CommandRegenerateImage   CommandAction = "regenerate_image"
	CommandRegenerateAudio   CommandAction = "regenerate_audio"
	CommandRegenerateVideo   CommandAction = "regenerate_video"
	CommandGenerateMusic     CommandAction = "generate_music"
	CommandCancel            CommandAction = "cancel"
	CommandResume            CommandAction = "resume"
	CommandSkipScene         CommandAction = "skip_scene"
)

var commandActions = map[CommandAction]struct{}{
	CommandGenerateAll:       {},
	CommandGenerateAllImages: {},
	CommandGenerateAllAudio:  {},
	CommandRegenerateImage:   {},
	CommandRegenerateAudio:   {},
	CommandRegenerateVideo:   {},
	CommandGenerateMusic:     {},
	CommandCancel:            {},
	CommandResume:            {},
	CommandSkipScene:         {},
}

func (a CommandAction) Valid() bool {
	_, ok := commandActions[a]
	return ok
}

// RegenerateAction maps an asset kind to its single-scene regeneration action.
func RegenerateAction(kind AssetKind) (CommandAction, bool) {
	switch kind {
	case AssetImage:
		return CommandRegenerateImage, true
	case AssetAudio:
		return CommandRegenerateAudio, true
	case AssetVideo:
		return CommandRegenerateVideo, true
	default:
		return "", false
	}
}

// BulkGenerateAction maps an asset kind to its whole-project generation
// action. Video has no bulk action; the pipeline derives clips per scene.
func BulkGenerateAction(kind AssetKind) (CommandAction, bool) {
	switch kind {
	case AssetImage:
		return CommandGenerateAllImages, true
	case AssetAudio:
		return CommandGenerateAllAudio, true
	default:
		return "", false
	}
}
