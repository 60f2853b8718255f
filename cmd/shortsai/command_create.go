package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/GabrielMBatista/shortsai-studio-sub000/internal/types"
)

type CreateCommand struct {
	stdout    io.Writer
	stderr    io.Writer
	newClient clientFactory
	openCache cacheFactory
}

func NewCreateCommand(stdout, stderr io.Writer, newClient clientFactory, openCache cacheFactory) *CreateCommand {
	return &CreateCommand{
		stdout:    stdout,
		stderr:    stderr,
		newClient: newClient,
		openCache: openCache,
	}
}

func (c *CreateCommand) Run(args []string) error {
	fs := flag.NewFlagSet("create", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	title := fs.String("title", "", "project title")
	topic := fs.String("topic", "", "what the video is about")
	style := fs.String("style", "", "visual style")
	language := fs.String("language", "", "narration language")
	voice := fs.String("voice", "", "narration voice")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *title == "" && *topic == "" {
		return errors.New("at least one of --title or --topic is required")
	}

	project := &types.Project{
		ID:        uuid.NewString(),
		Title:     *title,
		Topic:     *topic,
		Style:     *style,
		Language:  *language,
		Voice:     *voice,
		Status:    types.ProjectStatusDraft,
		CreatedAt: time.Now().UTC(),
	}

	ctx := context.Background()
	client, err := c.newClient()
	if err != nil {
		return err
	}
	saved, err := client.UpsertProject(ctx, project)
	if err != nil {
		// The studio is unreachable; keep the draft locally and sync later.
		project.LocalOnly = true
		cache, cacheErr := c.openCache()
		if cacheErr != nil {
			return fmt.Errorf("studio unreachable (%v) and cache unavailable: %w", err, cacheErr)
		}
		defer cache.Close()
		if cacheErr := cache.SaveProject(ctx, project); cacheErr != nil {
			return fmt.Errorf("studio unreachable (%v) and cache write failed: %w", err, cacheErr)
		}
		fmt.Fprintf(c.stdout, "%s (saved locally, studio unreachable)\n", project.ID)
		return nil
	}

	fmt.Fprintln(c.stdout, saved.ID)
	return nil
}
