package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/GabrielMBatista/shortsai-studio-sub000/internal/client"
	"github.com/GabrielMBatista/shortsai-studio-sub000/internal/config"
	"github.com/GabrielMBatista/shortsai-studio-sub000/internal/types"
)

type GenerateCommand struct {
	stdout       io.Writer
	stderr       io.Writer
	newClient    clientFactory
	loadSettings func() (config.Settings, error)
}

func NewGenerateCommand(stdout, stderr io.Writer, newClient clientFactory, loadSettings func() (config.Settings, error)) *GenerateCommand {
	return &GenerateCommand{
		stdout:       stdout,
		stderr:       stderr,
		newClient:    newClient,
		loadSettings: loadSettings,
	}
}

func (c *GenerateCommand) Run(args []string) error {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	action := fs.String("action", string(types.CommandGenerateAll), "command action to dispatch")
	sceneID := fs.String("scene", "", "scene id for per-scene actions")
	force := fs.Bool("force", false, "regenerate even if the asset is already completed")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: generate <projectId> [--action <action>] [--scene <sceneId>] [--force]")
	}
	projectID := fs.Arg(0)

	cmdAction := types.CommandAction(*action)
	if !cmdAction.Valid() {
		return fmt.Errorf("unknown action: %s", *action)
	}

	settings, err := c.loadSettings()
	if err != nil {
		return err
	}
	studio, err := c.newClient()
	if err != nil {
		return err
	}

	ctx := context.Background()
	err = studio.SendCommand(ctx, client.CommandRequest{
		ProjectID: projectID,
		SceneID:   *sceneID,
		Action:    cmdAction,
		Force:     *force,
		APIKeys:   settings.APIKeys(),
	})
	if err != nil {
		if apiErr := client.AsAPIError(err); apiErr != nil {
			switch apiErr.Kind() {
			case client.ErrorKindQuota:
				return fmt.Errorf("%w (provider quota exhausted; check your plan or try later)", err)
			case client.ErrorKindCredential:
				return fmt.Errorf("%w (check the api keys in your config)", err)
			}
		}
		return err
	}

	fmt.Fprintf(c.stdout, "%s dispatched for %s\n", cmdAction, projectID)
	return nil
}
