package main

import (
	"io"
	"os"

	"github.com/GabrielMBatista/shortsai-studio-sub000/internal/config"
)

type commandRunner interface {
	Run(args []string) error
}

type commandWiring struct {
	stdout             io.Writer
	stderr             io.Writer
	newClient          clientFactory
	openCache          cacheFactory
	loadSettings       func() (config.Settings, error)
	configureUILogging func()
	runWatch           runWatchFunc
}

func defaultCommandWiring(stdout, stderr io.Writer) commandWiring {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return commandWiring{
		stdout:             stdout,
		stderr:             stderr,
		newClient:          newStudioClient,
		openCache:          openProjectCache,
		loadSettings:       config.LoadSettings,
		configureUILogging: configureUILogging,
		runWatch:           runWatchUI,
	}
}

func buildCommands(wiring commandWiring) map[string]commandRunner {
	return map[string]commandRunner{
		"create":   NewCreateCommand(wiring.stdout, wiring.stderr, wiring.newClient, wiring.openCache),
		"ps":       NewPSCommand(wiring.stdout, wiring.stderr, wiring.newClient, wiring.openCache),
		"show":     NewShowCommand(wiring.stdout, wiring.stderr, wiring.newClient, wiring.openCache),
		"generate": NewGenerateCommand(wiring.stdout, wiring.stderr, wiring.newClient, wiring.loadSettings),
		"watch":    NewWatchCommand(wiring.stderr, wiring.newClient, wiring.openCache, wiring.loadSettings, wiring.configureUILogging, wiring.runWatch),
		"script":   NewScriptCommand(wiring.stdout, wiring.stderr, wiring.newClient, wiring.openCache),
		"rm":       NewRMCommand(wiring.stdout, wiring.stderr, wiring.newClient, wiring.openCache),
		"config":   NewConfigCommand(wiring.stdout, wiring.stderr, wiring.loadSettings),
	}
}
