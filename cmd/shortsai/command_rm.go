package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
)

type RMCommand struct {
	stdout    io.Writer
	stderr    io.Writer
	newClient clientFactory
	openCache cacheFactory
}

func NewRMCommand(stdout, stderr io.Writer, newClient clientFactory, openCache cacheFactory) *RMCommand {
	return &RMCommand{
		stdout:    stdout,
		stderr:    stderr,
		newClient: newClient,
		openCache: openCache,
	}
}

func (c *RMCommand) Run(args []string) error {
	fs := flag.NewFlagSet("rm", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	sceneID := fs.String("scene", "", "delete a single scene instead of the project")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: rm <projectId> [--scene <sceneId>]")
	}
	projectID := fs.Arg(0)

	ctx := context.Background()
	client, err := c.newClient()
	if err != nil {
		return err
	}

	if *sceneID != "" {
		if err := client.DeleteScene(ctx, projectID, *sceneID); err != nil {
			return err
		}
		fmt.Fprintf(c.stdout, "scene %s removed from %s\n", *sceneID, projectID)
		return nil
	}

	if err := client.DeleteProject(ctx, projectID); err != nil {
		return err
	}
	// Drop any parked local copy as well so ps --local stays honest.
	if cache, cacheErr := c.openCache(); cacheErr == nil {
		_ = cache.DeleteProject(ctx, projectID)
		_ = cache.Close()
	}
	fmt.Fprintf(c.stdout, "project %s removed\n", projectID)
	return nil
}
