package main

import (
	"errors"
	"flag"
	"io"
	"log"
	"os"

	"github.com/GabrielMBatista/shortsai-studio-sub000/internal/app"
	"github.com/GabrielMBatista/shortsai-studio-sub000/internal/config"
	"github.com/GabrielMBatista/shortsai-studio-sub000/internal/logging"
	"github.com/GabrielMBatista/shortsai-studio-sub000/internal/workflow"
)

type runWatchFunc func(engine app.WorkflowEngine, projectID string) error

type WatchCommand struct {
	stderr             io.Writer
	newClient          clientFactory
	openCache          cacheFactory
	loadSettings       func() (config.Settings, error)
	configureUILogging func()
	runWatch           runWatchFunc
}

func NewWatchCommand(stderr io.Writer, newClient clientFactory, openCache cacheFactory, loadSettings func() (config.Settings, error), configureUILogging func(), runWatch runWatchFunc) *WatchCommand {
	return &WatchCommand{
		stderr:             stderr,
		newClient:          newClient,
		openCache:          openCache,
		loadSettings:       loadSettings,
		configureUILogging: configureUILogging,
		runWatch:           runWatch,
	}
}

func (c *WatchCommand) Run(args []string) error {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: watch <projectId>")
	}
	projectID := fs.Arg(0)

	if c.configureUILogging != nil {
		c.configureUILogging()
	}

	settings, err := c.loadSettings()
	if err != nil {
		return err
	}
	studio, err := c.newClient()
	if err != nil {
		return err
	}
	cache, err := c.openCache()
	if err != nil {
		return err
	}
	defer cache.Close()

	logger := logging.Nop()
	if logPath, pathErr := config.UILogPath(); pathErr == nil {
		if file, openErr := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600); openErr == nil {
			defer file.Close()
			logger = logging.New(file, logging.ParseLevel(settings.LogLevel()))
		}
	}

	engine := workflow.NewEngine(studio, cache, workflow.Options{
		PollInterval: settings.PollInterval(),
		APIKeys:      settings.APIKeys(),
		Logger:       logger,
	})
	return c.runWatch(engine, projectID)
}

func runWatchUI(engine app.WorkflowEngine, projectID string) error {
	return app.Run(engine, projectID)
}

// configureUILogging redirects the stdlib logger away from the terminal so
// stray log output cannot corrupt the alternate screen.
func configureUILogging() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	dataDir, err := config.DataDir()
	if err != nil {
		return
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return
	}
	logPath, err := config.UILogPath()
	if err != nil {
		return
	}
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return
	}
	log.SetOutput(file)
}
