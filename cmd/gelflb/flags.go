package main

import (
	"flag"
	"os"
)

// version is injected at build time with -ldflags "-X main.version=...". Defaults to dev.
var version = "dev"

type cliConfig struct {
	configPath          string
	showHelp            bool
	showVersion         bool
	assumeWindowsServer bool
}

const defaultConfigPath = "gelflb.toml"

func parseFlags(args []string) (*cliConfig, error) {
	fs := flag.NewFlagSet("gelflb", flag.ContinueOnError)
	fs.SetOutput(os.Stdout)

	cfg := &cliConfig{}
	fs.BoolVar(&cfg.showHelp, "help", false, "Print usage and exit")
	fs.BoolVar(&cfg.showVersion, "version", false, "Print version and exit")
	fs.BoolVar(&cfg.assumeWindowsServer, "assume-windows-server", false,
		"Skip the Windows-edition check that otherwise blocks transparent mode on non-Server editions")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg.configPath = defaultConfigPath
	if rest := fs.Args(); len(rest) > 0 {
		cfg.configPath = rest[0]
	}

	return cfg, nil
}

func printUsage() {
	os.Stdout.WriteString(`gelflb - a UDP load balancer for GELF

Usage:
  gelflb [flags] [config_path]

config_path defaults to "gelflb.toml" in the current directory.

Flags:
  -help                     print this message and exit
  -version                  print the version and exit
  -assume-windows-server    allow transparent mode on a non-Server Windows edition

Documentation: see the project README.
`)
}
