package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/GabrielMBatista/shortsai-studio-sub000/internal/types"
)

type ShowCommand struct {
	stdout    io.Writer
	stderr    io.Writer
	newClient clientFactory
	openCache cacheFactory
}

func NewShowCommand(stdout, stderr io.Writer, newClient clientFactory, openCache cacheFactory) *ShowCommand {
	return &ShowCommand{
		stdout:    stdout,
		stderr:    stderr,
		newClient: newClient,
		openCache: openCache,
	}
}

func (c *ShowCommand) Run(args []string) error {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: show <projectId>")
	}
	id := fs.Arg(0)

	ctx := context.Background()
	project, cached, err := c.loadProject(ctx, id)
	if err != nil {
		return err
	}

	title := project.Title
	if title == "" {
		title = "(untitled)"
	}
	source := ""
	if cached {
		source = "  [local cache]"
	}
	fmt.Fprintf(c.stdout, "%s  %s%s\n", project.ID, title, source)
	fmt.Fprintf(c.stdout, "status: %s", orDash(string(project.Status)))
	if project.MusicStatus != "" {
		fmt.Fprintf(c.stdout, "  music: %s", project.MusicStatus)
	}
	if project.MusicURL != "" {
		fmt.Fprintf(c.stdout, "  music-url: %s", project.MusicURL)
	}
	fmt.Fprintln(c.stdout)
	if project.Topic != "" {
		fmt.Fprintf(c.stdout, "topic: %s\n", project.Topic)
	}
	fmt.Fprintln(c.stdout)
	printScenes(c.stdout, project.Scenes)
	return nil
}

func (c *ShowCommand) loadProject(ctx context.Context, id string) (*types.Project, bool, error) {
	client, err := c.newClient()
	if err != nil {
		return nil, false, err
	}
	project, err := client.GetProject(ctx, id)
	if err == nil {
		return project, false, nil
	}

	cache, cacheErr := c.openCache()
	if cacheErr != nil {
		return nil, false, err
	}
	defer cache.Close()
	cached, ok, cacheErr := cache.LoadProject(ctx, id)
	if cacheErr != nil || !ok {
		return nil, false, err
	}
	fmt.Fprintf(c.stderr, "%s, showing local cache\n", describeStudioFailure(ctx, client, err))
	return cached, true, nil
}
