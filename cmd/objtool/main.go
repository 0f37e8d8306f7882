// objtool is a CLI utility for inspecting X-Plane .obj files.
package main

import (
	"fmt"
	"os"

	"github.com/Faultbox/xpobj/internal/config"
	"github.com/Faultbox/xpobj/internal/export"
	"github.com/Faultbox/xpobj/internal/logger"
	"github.com/Faultbox/xpobj/pkg/xpobj"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "info":
		cmdInfo(args)
	case "tree":
		cmdTree(args)
	case "dump":
		cmdDump(args)
	case "check":
		cmdCheck(args)
	case "watch":
		cmdWatch(args)
	case "init-config":
		cmdInitConfig(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`objtool - X-Plane .obj inspection utility

Usage:
  objtool <command> [options] <file.obj>...

Commands:
  info <file.obj>           Show header, material, point counts and diagnostics
  tree <file.obj>           Print the scene graph
  dump <file.obj>           Write the materialized scene as YAML or JSON
  check <file.obj>...       Parse files in parallel and report problems
  watch <file.obj>          Re-parse and summarize whenever the file changes
  init-config [path]        Write the effective config (default: user config dir)

Options:
  -config <path>            Config file (default ./objtool.yaml or ./objtool.toml)
  -debug                    Enable debug logging
  -strict                   Treat point count mismatches as errors
  -encoding <name>          Input charset: utf-8, latin1, windows-1252
  -format <yaml|json>       Dump format
  -no-color                 Disable colored output
  -workers <n>              Files parsed concurrently by check
  -log-file <path>          Also write logs to a rotating file

Examples:
  objtool info cockpit.obj
  objtool tree -no-color cockpit.obj
  objtool dump -format json cockpit.obj > cockpit.json
  objtool check -strict -workers 8 objects/*.obj
  objtool init-config -encoding latin1 ./objtool.toml`)
}

// setup parses flags, loads config and starts logging. It returns the
// positional arguments.
func setup(args []string, usage string, minArgs int) (*config.Config, []string) {
	if err := config.ParseFlags(args); err != nil {
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	rest := config.Args()
	if len(rest) < minArgs {
		fmt.Fprintln(os.Stderr, "Usage: "+usage)
		os.Exit(1)
	}
	return cfg, rest
}

func parseOptions(cfg *config.Config) xpobj.Options {
	return xpobj.Options{
		Logger:   logger.Named("xpobj"),
		Encoding: cfg.Parse.Encoding,
		Strict:   cfg.Parse.Strict,
	}
}

// mustParse parses one file or exits. In strict mode a scene is still
// returned alongside the integrity error; it is printed before exiting.
func mustParse(cfg *config.Config, path string) *xpobj.Scene {
	scene, err := xpobj.ParseFile(path, parseOptions(cfg))
	if err != nil && scene == nil {
		logger.Sync()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return scene
}

func cmdInfo(args []string) {
	cfg, files := setup(args, "objtool info <file.obj>", 1)
	defer logger.Sync()

	scene := mustParse(cfg, files[0])
	if err := export.WriteSummary(os.Stdout, scene); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func cmdTree(args []string) {
	cfg, files := setup(args, "objtool tree <file.obj>", 1)
	defer logger.Sync()

	scene := mustParse(cfg, files[0])
	opts := export.TreeOptions{Color: cfg.Output.Color, KeyFrames: cfg.Output.ShowKeyFrames}
	if err := export.WriteTree(os.Stdout, scene, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func cmdDump(args []string) {
	cfg, files := setup(args, "objtool dump [-format yaml|json] <file.obj>", 1)
	defer logger.Sync()

	scene := mustParse(cfg, files[0])
	if err := export.Encode(os.Stdout, export.Build(scene), cfg.Output.Format); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func cmdInitConfig(args []string) {
	cfg, rest := setup(args, "objtool init-config [path]", 0)
	defer logger.Sync()

	var err error
	path := config.DefaultPath()
	if len(rest) > 0 {
		path = rest[0]
		err = cfg.SaveTo(path)
	} else {
		err = cfg.Save()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Config written to %s\n", path)
}
