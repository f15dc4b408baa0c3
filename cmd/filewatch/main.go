// Package main provides the filewatch CLI application.
//
// filewatch watches files matched by glob patterns and reports each change
// once the file's size has settled, recording changes in a local journal.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"
)

// version is set during build time.
var version = "dev"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run executes the main application logic.
func run(argv []string) error {
	global := flag.NewFlagSet("filewatch", flag.ExitOnError)
	configPath := global.String("config", "", "path to configuration file")
	showVersion := global.Bool("version", false, "show version information")

	if err := global.Parse(argv); err != nil {
		return err
	}

	if *showVersion {
		fmt.Printf("filewatch %s\n", version)
		return nil
	}

	args := global.Args()
	if len(args) == 0 {
		return showUsage()
	}

	command := args[0]

	switch command {
	case "watch":
		cmd, err := parseWatchCommand(*configPath, args[1:])
		if err != nil {
			return err
		}
		return cmd.Execute()
	case "ls":
		cmd, err := parseListCommand(*configPath, args[1:])
		if err != nil {
			return err
		}
		return cmd.Execute()
	case "history":
		cmd, err := parseHistoryCommand(*configPath, args[1:])
		if err != nil {
			return err
		}
		return cmd.Execute()
	case "config":
		cmd := &configCommand{configPath: *configPath, out: os.Stdout, in: os.Stdin}
		return cmd.Execute(args[1:])
	case "help":
		return showUsage()
	default:
		return fmt.Errorf("unknown command: %s", command)
	}
}

// parseWatchCommand parses watch flags. An unset -timeout defers to config.
func parseWatchCommand(configPath string, args []string) (*watchCommand, error) {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	timeout := fs.Duration("timeout", 0, "settle window (e.g., 300ms, 0 to emit on every write)")
	root := fs.String("root", "", "directory relative patterns resolve against")
	noJournal := fs.Bool("no-journal", false, "do not record changes in the journal")
	quiet := fs.Bool("quiet", false, "only print changed paths")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cmd := &watchCommand{
		patterns:   fs.Args(),
		root:       *root,
		noJournal:  *noJournal,
		quiet:      *quiet,
		configPath: configPath,
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "timeout" {
			cmd.timeout = timeout
		}
	})
	if cmd.timeout != nil && *cmd.timeout < 0 {
		return nil, fmt.Errorf("timeout must be >= 0, got %s", *cmd.timeout)
	}

	return cmd, nil
}

// parseListCommand parses ls flags.
func parseListCommand(configPath string, args []string) (*listCommand, error) {
	fs := flag.NewFlagSet("ls", flag.ContinueOnError)
	root := fs.String("root", "", "directory relative patterns resolve against")
	format := fs.String("format", "simple", "output format (table, json, simple)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return &listCommand{
		patterns:   fs.Args(),
		root:       *root,
		format:     strings.ToLower(*format),
		configPath: configPath,
	}, nil
}

// parseHistoryCommand parses history flags.
func parseHistoryCommand(configPath string, args []string) (*historyCommand, error) {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	format := fs.String("format", "table", "output format (table, json, simple)")
	since := fs.Duration("since", 0, "only show paths changed within this duration (e.g., 1h)")
	compact := fs.Bool("compact", false, "compact output")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if *since < 0 {
		return nil, fmt.Errorf("since must be >= 0, got %s", *since)
	}

	return &historyCommand{
		format:     strings.ToLower(*format),
		since:      *since,
		compact:    *compact,
		configPath: configPath,
		now:        time.Now,
	}, nil
}

// showUsage displays usage information.
func showUsage() error {
	usage := `filewatch - report settled file changes

Usage:
  filewatch [flags] <command> [command flags] [patterns...]

Commands:
  watch       Watch files and print each settled change
  ls          List the files the patterns currently match
  history     Show changes recorded in the journal
  config      Configuration management (show, path, reset)
  help        Show this help message

Global Flags:
  -config     Path to configuration file
  -version    Show version information

Watch Command Flags:
  -timeout    Settle window (default from config: 300ms; 0 emits on every write)
  -root       Directory relative patterns resolve against
  -no-journal Do not record changes in the journal
  -quiet      Only print changed paths

Ls Command Flags:
  -root       Directory relative patterns resolve against
  -format     Output format (table, json, simple)

History Command Flags:
  -format     Output format (table, json, simple)
  -since      Only show paths changed within this duration
  -compact    Compact output

Examples:
  # Watch stylesheets and templates
  filewatch watch 'public/**/*.css' '*.html'

  # Emit on every non-empty write
  filewatch watch -timeout 0 'test/fixtures/*.txt'

  # Check what a pattern matches
  filewatch ls -format table 'src/**/*.go'

  # Show changes from the last hour
  filewatch history -since 1h
`
	fmt.Print(usage)
	return nil
}
