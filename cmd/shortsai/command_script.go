package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/GabrielMBatista/shortsai-studio-sub000/internal/types"
)

type ScriptCommand struct {
	stdout    io.Writer
	stderr    io.Writer
	newClient clientFactory
	openCache cacheFactory
}

func NewScriptCommand(stdout, stderr io.Writer, newClient clientFactory, openCache cacheFactory) *ScriptCommand {
	return &ScriptCommand{
		stdout:    stdout,
		stderr:    stderr,
		newClient: newClient,
		openCache: openCache,
	}
}

func (c *ScriptCommand) Run(args []string) error {
	fs := flag.NewFlagSet("script", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	plain := fs.Bool("plain", false, "print raw markdown without terminal styling")
	width := fs.Int("width", 80, "wrap width for styled output")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: script <projectId> [--plain] [--width n]")
	}
	id := fs.Arg(0)

	ctx := context.Background()
	project, err := c.loadProject(ctx, id)
	if err != nil {
		return err
	}

	markdown := buildScriptMarkdown(project)
	if *plain {
		fmt.Fprint(c.stdout, markdown)
		return nil
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(*width),
	)
	if err != nil {
		return err
	}
	rendered, err := renderer.Render(markdown)
	if err != nil {
		return err
	}
	fmt.Fprint(c.stdout, rendered)
	return nil
}

func (c *ScriptCommand) loadProject(ctx context.Context, id string) (*types.Project, error) {
	client, err := c.newClient()
	if err != nil {
		return nil, err
	}
	project, err := client.GetProject(ctx, id)
	if err == nil {
		return project, nil
	}
	cache, cacheErr := c.openCache()
	if cacheErr != nil {
		return nil, err
	}
	defer cache.Close()
	cached, ok, cacheErr := cache.LoadProject(ctx, id)
	if cacheErr != nil || !ok {
		return nil, err
	}
	return cached, nil
}

func buildScriptMarkdown(project *types.Project) string {
	var b strings.Builder
	title := project.Title
	if title == "" {
		title = project.ID
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	if project.Topic != "" {
		fmt.Fprintf(&b, "_%s_\n\n", project.Topic)
	}
	for _, scene := range project.Scenes {
		fmt.Fprintf(&b, "## Scene %d\n\n", scene.SceneNumber)
		if scene.VisualDescription != "" {
			fmt.Fprintf(&b, "> %s\n\n", scene.VisualDescription)
		}
		if scene.Narration != "" {
			fmt.Fprintf(&b, "%s\n\n", scene.Narration)
		}
	}
	if project.MusicPrompt != "" {
		fmt.Fprintf(&b, "---\n\nMusic: %s\n", project.MusicPrompt)
	}
	return b.String()
}
