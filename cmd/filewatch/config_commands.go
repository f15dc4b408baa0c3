package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/0xmhha/filewatch/pkg/config"
)

// configCommand handles the config subcommands.
type configCommand struct {
	configPath string
	out        io.Writer
	in         io.Reader
}

// Execute runs the config command with given arguments.
func (c *configCommand) Execute(args []string) error {
	if len(args) == 0 {
		return c.showHelp()
	}

	switch sub, rest := args[0], args[1:]; sub {
	case "show":
		return c.runShow(rest)
	case "path":
		return c.runPath()
	case "reset":
		return c.runReset(rest)
	case "help":
		return c.showHelp()
	default:
		return fmt.Errorf("unknown config subcommand: %s", sub)
	}
}

// runShow prints the merged defaults, file and FILEWATCH_* overrides.
func (c *configCommand) runShow(args []string) error {
	fs := flag.NewFlagSet("config show", flag.ContinueOnError)
	format := fs.String("format", "yaml", "output format (yaml, json)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.NewLoader(c.configPath).Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	data, err := encodeConfig(cfg, *format)
	if err != nil {
		return err
	}

	if *format == "yaml" {
		fmt.Fprintf(c.out, "# Effective filewatch configuration\n# Source: %s\n\n", c.configSource())
	}
	_, err = c.out.Write(data)
	return err
}

// encodeConfig renders cfg as yaml or json.
func encodeConfig(cfg *config.Config, format string) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	switch format {
	case "yaml":
		data, err = yaml.Marshal(cfg)
	case "json":
		data, err = json.MarshalIndent(cfg, "", "  ")
		data = append(data, '\n')
	default:
		return nil, fmt.Errorf("unknown format %q (want yaml or json)", format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// runPath lists where the loader looks for a config file.
func (c *configCommand) runPath() error {
	paths := []string{"./filewatch.yaml", config.DefaultConfigPath()}
	if c.configPath != "" {
		paths = []string{c.configPath}
	}

	fmt.Fprintln(c.out, "Config files, first found wins:")
	for i, p := range paths {
		state := "missing"
		if _, err := os.Stat(p); err == nil {
			state = "present"
		}
		fmt.Fprintf(c.out, "  %d. %s (%s)\n", i+1, p, state)
	}

	fmt.Fprintf(c.out, "\nIn use: %s\n", c.configSource())
	fmt.Fprintf(c.out, "Overridden by: %s, %s, %s\n",
		config.EnvTimeout, config.EnvJournal, config.EnvLogLevel)
	return nil
}

// runReset writes config.Default to the target file.
func (c *configCommand) runReset(args []string) error {
	fs := flag.NewFlagSet("config reset", flag.ContinueOnError)
	force := fs.Bool("force", false, "overwrite without asking")
	output := fs.String("output", "", "file to write (default: ~/.config/filewatch/config.yaml)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	target := *output
	if target == "" {
		target = config.DefaultConfigPath()
	}

	if _, err := os.Stat(target); err == nil && !*force && !c.confirm(target+" exists, overwrite?") {
		fmt.Fprintln(c.out, "Left unchanged.")
		return nil
	}

	if err := config.Save(config.Default(), target); err != nil {
		return err
	}

	fmt.Fprintf(c.out, "Wrote default configuration to %s\n", target)
	return nil
}

// confirm asks a yes/no question; anything but y or yes is a no.
func (c *configCommand) confirm(question string) bool {
	fmt.Fprintf(c.out, "%s [y/N]: ", question)

	scanner := bufio.NewScanner(c.in)
	if !scanner.Scan() {
		fmt.Fprintln(c.out)
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes"
}

// configSource returns the path of the active configuration file.
func (c *configCommand) configSource() string {
	if p := config.NewLoader(c.configPath).Path(); p != "" {
		return p
	}
	return "built-in defaults"
}

func (c *configCommand) showHelp() error {
	help := `Usage:
  filewatch config <subcommand> [flags]

Subcommands:
  show      Print the effective configuration
  path      List config file locations
  reset     Write the default configuration

Show Flags:
  -format   yaml or json (default: yaml)

Reset Flags:
  -force    Overwrite without asking
  -output   File to write

Examples:
  filewatch config show -format json
  filewatch -config ./filewatch.yaml config reset -force -output ./filewatch.yaml
`
	fmt.Fprint(c.out, help)
	return nil
}
