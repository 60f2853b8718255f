package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"

	"github.com/GabrielMBatista/shortsai-studio-sub000/internal/types"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	headerStyle   = lipgloss.NewStyle().Faint(true)
	selectedStyle = lipgloss.NewStyle().Reverse(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	infoStyle     = lipgloss.NewStyle().Faint(true)
	hotkeyStyle   = lipgloss.NewStyle().Faint(true)
)

const minViewWidth = 40

func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	width := m.width
	if width < minViewWidth {
		width = minViewWidth
	}

	var b strings.Builder
	b.WriteString(m.renderHeader(width))
	b.WriteString("\n")
	b.WriteString(m.renderScenes(width))
	b.WriteString("\n")
	b.WriteString(m.renderStatusLine(width))
	b.WriteString("\n")
	b.WriteString(hotkeyStyle.Render(hotkeyLine))
	return b.String()
}

const hotkeyLine = "↑/↓ select  g generate  r resume  x cancel  s skip  i/a/v regen (shift forces)  c copy url  R refresh  q quit"

func (m *Model) renderHeader(width int) string {
	if m.project == nil {
		return titleStyle.Render("connecting to " + m.projectID + "…")
	}
	title := m.project.Title
	if title == "" {
		title = m.project.ID
	}
	status := string(m.project.Status)
	if m.busy() {
		status = m.loader.View() + " " + status
	}
	line := titleStyle.Render(title) + "  " + headerStyle.Render(status)
	if m.project.MusicStatus != "" {
		line += "  " + headerStyle.Render("music:"+string(m.project.MusicStatus))
	}
	return xansi.Truncate(line, width, "…")
}

func (m *Model) renderScenes(width int) string {
	if m.project == nil || len(m.project.Scenes) == 0 {
		return infoStyle.Render("No scenes yet.")
	}
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf(" %2s %-5s %s %s %s  %s", "#", "MEDIA", "IMG", "AUD", "VID", "NARRATION")))
	b.WriteString("\n")
	for i, scene := range m.project.Scenes {
		line := fmt.Sprintf(" %2d %-5s  %s   %s   %s  %s",
			scene.SceneNumber,
			string(scene.MediaType),
			m.assetGlyph(scene.ImageStatus),
			m.assetGlyph(scene.AudioStatus),
			m.assetGlyph(scene.VideoStatus),
			sceneSummary(scene),
		)
		line = xansi.Truncate(line, width, "…")
		if i == m.selected {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line)
		if i < len(m.project.Scenes)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m *Model) renderStatusLine(width int) string {
	if m.status == "" {
		return ""
	}
	style := infoStyle
	if m.statusIsErr {
		style = errorStyle
	}
	return style.Render(xansi.Truncate(m.status, width, "…"))
}

func (m *Model) assetGlyph(status types.AssetStatus) string {
	switch status {
	case types.AssetStatusCompleted:
		return "✓"
	case types.AssetStatusFailed, types.AssetStatusError:
		return errorStyle.Render("✗")
	case "":
		return "·"
	}
	if status.InFlight() {
		return m.loader.View()
	}
	return "·"
}

func sceneSummary(scene *types.Scene) string {
	if scene.Error != "" {
		return errorStyle.Render(scene.Error)
	}
	text := strings.TrimSpace(scene.Narration)
	if text == "" {
		text = strings.TrimSpace(scene.VisualDescription)
	}
	if text == "" {
		return infoStyle.Render("(empty)")
	}
	return text
}
