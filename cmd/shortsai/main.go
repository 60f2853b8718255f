package main

import (
	"fmt"
	"os"
)

const usageText = `shortsai drives an AI short-video studio from the terminal.

Usage:
  shortsai <command> [flags]

Commands:
  create     create a project
  ps         list projects
  show       show a project and its scenes
  generate   dispatch a generation command
  watch      follow a project's workflow live
  script     render the narration script
  rm         delete a project or a scene
  config     print configuration (effective or defaults)
  help       show help

Flags:
  -h, --help   show help

Examples:
  shortsai create --title "Harbor Story" --topic "lighthouses"
  shortsai generate <id>
  shortsai generate <id> --action regenerate_image --scene <sceneId> --force
  shortsai watch <id>
  shortsai script <id>
`

func printUsage() {
	fmt.Fprint(os.Stderr, usageText)
}

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		printUsage()
		return
	}

	wiring := defaultCommandWiring(os.Stdout, os.Stderr)
	commands := buildCommands(wiring)

	switch args[0] {
	case "-h", "--help", "help":
		printUsage()
		return
	}

	runner, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", args[0])
		printUsage()
		os.Exit(2)
	}
	exitOnErr(args[0], runner.Run(args[1:]), wiring.stderr)
}
