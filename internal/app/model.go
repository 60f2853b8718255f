package app

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/GabrielMBatista/shortsai-studio-sub000/internal/types"
	"github.com/GabrielMBatista/shortsai-studio-sub000/internal/workflow"
)

// WorkflowEngine is the slice of the sync engine the watch view drives.
type WorkflowEngine interface {
	Connect(ctx context.Context, projectID string, onState workflow.StateFunc) error
	Disconnect()
	Refresh(ctx context.Context) error
	GenerateAll(ctx context.Context) error
	Resume(ctx context.Context) error
	Cancel(ctx context.Context) error
	SkipScene(ctx context.Context, sceneID string) error
	RegenerateAsset(ctx context.Context, key string, kind types.AssetKind, force bool) error
	SetWorkflowErrorHandler(fn func(message string))
}

type stateMsg struct {
	project *types.Project
}

type actionResultMsg struct {
	label string
	err   error
}

type connectedMsg struct {
	err error
}

type workflowErrMsg struct {
	message string
}

type Model struct {
	engine    WorkflowEngine
	projectID string
	send      func(tea.Msg)

	project     *types.Project
	selected    int
	loader      spinner.Model
	status      string
	statusIsErr bool
	width       int
	height      int
	quitting    bool
}

func NewModel(engine WorkflowEngine, projectID string) Model {
	loader := spinner.New()
	loader.Spinner = spinner.Line
	loader.Style = lipgloss.NewStyle()
	return Model{
		engine:    engine,
		projectID: projectID,
		loader:    loader,
	}
}

// Run blocks until the user quits the watch view.
func Run(engine WorkflowEngine, projectID string) error {
	model := NewModel(engine, projectID)
	p := tea.NewProgram(&model, tea.WithAltScreen())
	model.send = p.Send
	_, err := p.Run()
	engine.Disconnect()
	return err
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.connectCmd(), m.loader.Tick)
}

func (m *Model) connectCmd() tea.Cmd {
	return func() tea.Msg {
		m.engine.SetWorkflowErrorHandler(func(message string) {
			if m.send != nil {
				m.send(workflowErrMsg{message: message})
			}
		})
		err := m.engine.Connect(context.Background(), m.projectID, func(project *types.Project) {
			if m.send != nil {
				m.send(stateMsg{project: project})
			}
		})
		return connectedMsg{err: err}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case connectedMsg:
		if msg.err != nil {
			m.setStatusError("connect failed: " + msg.err.Error())
		}
		return m, nil
	case stateMsg:
		m.project = msg.project
		m.clampSelection()
		return m, nil
	case workflowErrMsg:
		m.setStatusError(msg.message)
		return m, nil
	case actionResultMsg:
		if msg.err != nil {
			m.setStatusError(msg.label + " failed: " + humanizeActionError(msg.err))
		} else {
			m.setStatusInfo(msg.label + " sent")
		}
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.loader, cmd = m.loader.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
		return m, nil
	case "down", "j":
		m.selected++
		m.clampSelection()
		return m, nil
	case "g":
		return m, m.actionCmd("generate", m.engine.GenerateAll)
	case "r":
		return m, m.actionCmd("resume", m.engine.Resume)
	case "x":
		return m, m.actionCmd("cancel", m.engine.Cancel)
	case "R":
		return m, m.actionCmd("refresh", m.engine.Refresh)
	case "s":
		scene := m.selectedScene()
		if scene == nil || scene.ID == "" {
			m.setStatusError("no persisted scene selected")
			return m, nil
		}
		sceneID := scene.ID
		return m, m.actionCmd("skip", func(ctx context.Context) error {
			return m.engine.SkipScene(ctx, sceneID)
		})
	case "i":
		return m, m.regenerateCmd(types.AssetImage, false)
	case "I":
		return m, m.regenerateCmd(types.AssetImage, true)
	case "a":
		return m, m.regenerateCmd(types.AssetAudio, false)
	case "A":
		return m, m.regenerateCmd(types.AssetAudio, true)
	case "v":
		return m, m.regenerateCmd(types.AssetVideo, false)
	case "V":
		return m, m.regenerateCmd(types.AssetVideo, true)
	case "c":
		m.copySelectedURL()
		return m, nil
	}
	return m, nil
}

func (m *Model) actionCmd(label string, action func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return actionResultMsg{label: label, err: action(context.Background())}
	}
}

func (m *Model) regenerateCmd(kind types.AssetKind, force bool) tea.Cmd {
	scene := m.selectedScene()
	if scene == nil {
		m.setStatusError("no scene selected")
		return nil
	}
	key := scene.Key()
	label := "regenerate " + string(kind)
	return func() tea.Msg {
		return actionResultMsg{label: label, err: m.engine.RegenerateAsset(context.Background(), key, kind, force)}
	}
}

func (m *Model) copySelectedURL() {
	scene := m.selectedScene()
	if scene == nil {
		m.setStatusError("no scene selected")
		return
	}
	url := scene.VideoURL
	if url == "" {
		url = scene.ImageURL
	}
	if url == "" {
		url = scene.AudioURL
	}
	if url == "" {
		m.setStatusError("selected scene has no asset URL yet")
		return
	}
	m.copyWithStatus(url, "asset URL copied")
}

func (m *Model) selectedScene() *types.Scene {
	if m.project == nil || m.selected < 0 || m.selected >= len(m.project.Scenes) {
		return nil
	}
	return m.project.Scenes[m.selected]
}

func (m *Model) clampSelection() {
	if m.project == nil || len(m.project.Scenes) == 0 {
		m.selected = 0
		return
	}
	if m.selected >= len(m.project.Scenes) {
		m.selected = len(m.project.Scenes) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

func (m *Model) setStatusInfo(message string) {
	m.status = message
	m.statusIsErr = false
}

func (m *Model) setStatusError(message string) {
	m.status = message
	m.statusIsErr = true
}

func (m *Model) setCopyStatusInfo(message string)  { m.setStatusInfo(message) }
func (m *Model) setCopyStatusError(message string) { m.setStatusError(message) }

func humanizeActionError(err error) string {
	switch err {
	case nil:
		return ""
	case workflow.ErrForceRequired:
		return "asset already completed (use the shifted key to force)"
	case workflow.ErrNotConnected:
		return "not connected to a project"
	}
	return err.Error()
}

func (m *Model) busy() bool {
	if m.project == nil {
		return false
	}
	return m.project.Status.Active() || m.project.MusicStatus.Active()
}
