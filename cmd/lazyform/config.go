package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// config holds CLI settings. Environment variables seed the flag defaults so
// explicit flags always win.
type config struct {
	Definition string `env:"LAZYFORM_DEFINITION"`
	Operation  string `env:"LAZYFORM_OPERATION"`
	Model      string `env:"LAZYFORM_MODEL"`
	Renderer   string `env:"LAZYFORM_RENDERER" envDefault:"tui"`
	Output     string `env:"LAZYFORM_OUTPUT"`
	Hook       string `env:"LAZYFORM_HOOK" envDefault:"print"`
	HookFormat string `env:"LAZYFORM_HOOK_FORMAT" envDefault:"yaml"`
	WritePath  string `env:"LAZYFORM_WRITE_PATH"`
	Action     string `env:"LAZYFORM_ACTION"`
	LogLevel   string `env:"LAZYFORM_LOG_LEVEL" envDefault:"warn"`
	LogFormat  string `env:"LAZYFORM_LOG_FORMAT" envDefault:"text"`
}

func loadConfig(args []string) (config, error) {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}

	fs := flag.NewFlagSet("lazyform", flag.ContinueOnError)
	fs.StringVar(&cfg.Definition, "definition", cfg.Definition, "definition file (YAML, or OpenAPI with -operation)")
	fs.StringVar(&cfg.Operation, "operation", cfg.Operation, "OpenAPI operation ID to build the definition from")
	fs.StringVar(&cfg.Model, "model", cfg.Model, "model document (YAML or JSON)")
	fs.StringVar(&cfg.Renderer, "renderer", cfg.Renderer, "renderer to use: tui or html")
	fs.StringVar(&cfg.Output, "output", cfg.Output, "html output file (stdout if empty)")
	fs.StringVar(&cfg.Hook, "hook", cfg.Hook, "final hook for the form: print, write or none")
	fs.StringVar(&cfg.HookFormat, "hook-format", cfg.HookFormat, "print hook encoding: yaml or json")
	fs.StringVar(&cfg.WritePath, "write-path", cfg.WritePath, "file the write hook persists to (defaults to -model)")
	fs.StringVar(&cfg.Action, "action", cfg.Action, "html form action URL")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format: text or json")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	cfg.Renderer = strings.ToLower(strings.TrimSpace(cfg.Renderer))
	if cfg.Definition == "" {
		return cfg, fmt.Errorf("a definition file is required (-definition or LAZYFORM_DEFINITION)")
	}
	switch cfg.Renderer {
	case "tui", "html":
	default:
		return cfg, fmt.Errorf("unknown renderer %q", cfg.Renderer)
	}
	if cfg.WritePath == "" {
		cfg.WritePath = cfg.Model
	}
	return cfg, nil
}
