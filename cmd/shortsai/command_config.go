package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/GabrielMBatista/shortsai-studio-sub000/internal/config"
)

type ConfigCommand struct {
	stdout       io.Writer
	stderr       io.Writer
	loadSettings func() (config.Settings, error)
}

func NewConfigCommand(stdout, stderr io.Writer, loadSettings func() (config.Settings, error)) *ConfigCommand {
	return &ConfigCommand{
		stdout:       stdout,
		stderr:       stderr,
		loadSettings: loadSettings,
	}
}

func (c *ConfigCommand) Run(args []string) error {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	format := fs.String("format", "toml", "output format: toml or json")
	defaults := fs.Bool("defaults", false, "print built-in defaults instead of the effective config")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var settings config.Settings
	if *defaults {
		settings = config.DefaultSettings()
	} else {
		loaded, err := c.loadSettings()
		if err != nil {
			return err
		}
		settings = loaded
	}

	switch strings.ToLower(*format) {
	case "json":
		encoder := json.NewEncoder(c.stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(settings)
	case "toml":
		data, err := toml.Marshal(settings)
		if err != nil {
			return err
		}
		if len(data) == 0 || data[len(data)-1] != '\n' {
			data = append(data, '\n')
		}
		_, err = c.stdout.Write(data)
		return err
	default:
		return fmt.Errorf("unknown format: %s", *format)
	}
}
