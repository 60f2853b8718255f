package main

import (
	"context"
	"flag"
	"fmt"
	"io"
)

type PSCommand struct {
	stdout    io.Writer
	stderr    io.Writer
	newClient clientFactory
	openCache cacheFactory
}

func NewPSCommand(stdout, stderr io.Writer, newClient clientFactory, openCache cacheFactory) *PSCommand {
	return &PSCommand{
		stdout:    stdout,
		stderr:    stderr,
		newClient: newClient,
		openCache: openCache,
	}
}

func (c *PSCommand) Run(args []string) error {
	fs := flag.NewFlagSet("ps", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	local := fs.Bool("local", false, "list the local cache instead of the studio")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx := context.Background()
	if *local {
		return c.listLocal(ctx)
	}

	client, err := c.newClient()
	if err != nil {
		return err
	}
	projects, err := client.ListProjects(ctx)
	if err != nil {
		fmt.Fprintf(c.stderr, "%s, showing local cache\n", describeStudioFailure(ctx, client, err))
		return c.listLocal(ctx)
	}
	printProjects(c.stdout, projects, false)
	return nil
}

func (c *PSCommand) listLocal(ctx context.Context) error {
	cache, err := c.openCache()
	if err != nil {
		return err
	}
	defer cache.Close()
	projects, err := cache.ListProjects(ctx)
	if err != nil {
		return err
	}
	printProjects(c.stdout, projects, true)
	return nil
}
