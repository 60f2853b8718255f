package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	runewidth "github.com/mattn/go-runewidth"

	"github.com/GabrielMBatista/shortsai-studio-sub000/internal/types"
)

func printProjects(output io.Writer, projects []*types.Project, cached bool) {
	writer := tabwriter.NewWriter(output, 0, 8, 2, ' ', 0)
	fmt.Fprintln(writer, "ID\tSTATUS\tSCENES\tTITLE")
	for _, project := range projects {
		status := string(project.Status)
		if status == "" {
			status = "-"
		}
		if cached || project.LocalOnly {
			status += " (local)"
		}
		fmt.Fprintf(writer, "%s\t%s\t%d\t%s\n", project.ID, status, len(project.Scenes), clipCell(project.Title, 48))
	}
	_ = writer.Flush()
}

func printScenes(output io.Writer, scenes []*types.Scene) {
	writer := tabwriter.NewWriter(output, 0, 8, 2, ' ', 0)
	fmt.Fprintln(writer, "#\tMEDIA\tIMAGE\tAUDIO\tVIDEO\tNARRATION")
	for _, scene := range scenes {
		fmt.Fprintf(writer, "%d\t%s\t%s\t%s\t%s\t%s\n",
			scene.SceneNumber,
			orDash(string(scene.MediaType)),
			orDash(string(scene.ImageStatus)),
			orDash(string(scene.AudioStatus)),
			orDash(string(scene.VideoStatus)),
			clipCell(scene.Narration, 60),
		)
	}
	_ = writer.Flush()
}

// clipCell keeps table cells to a display width, not a byte count, so CJK
// narration does not blow up column alignment.
func clipCell(text string, width int) string {
	text = strings.ReplaceAll(strings.TrimSpace(text), "\n", " ")
	if runewidth.StringWidth(text) <= width {
		return text
	}
	return runewidth.Truncate(text, width, "…")
}

func orDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}

// describeStudioFailure explains a failed studio request, probing the health
// endpoint to tell an unreachable studio apart from a request-specific
// rejection.
func describeStudioFailure(ctx context.Context, client studioClient, err error) string {
	if _, healthErr := client.Health(ctx); healthErr != nil {
		return fmt.Sprintf("studio unreachable (%v)", err)
	}
	return fmt.Sprintf("studio request failed (%v)", err)
}

func exitOnErr(label string, err error, stderr io.Writer) {
	if err == nil {
		return
	}
	fmt.Fprintf(stderr, "%s error: %v\n", label, err)
	os.Exit(1)
}
