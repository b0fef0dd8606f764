package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"

	lazyform "github.com/goliatone/go-lazyform"
	"github.com/goliatone/go-lazyform/pkg/form"
	"github.com/goliatone/go-lazyform/pkg/hooks"
	"github.com/goliatone/go-lazyform/pkg/lazy"
	"github.com/goliatone/go-lazyform/pkg/loop"
	"github.com/goliatone/go-lazyform/pkg/renderers/html"
	"github.com/goliatone/go-lazyform/pkg/renderers/tui"
	"github.com/goliatone/go-lazyform/pkg/session"
	"github.com/goliatone/go-lazyform/pkg/store"
)

func main() {
	cfg, err := loadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		log.Fatalf("lazyform: %v", err)
	}
}

func run(ctx context.Context, cfg config, logger *slog.Logger) error {
	def, err := lazyform.LoadDefinitionFile(ctx, cfg.Definition, cfg.Operation)
	if err != nil {
		return err
	}
	root, err := lazyform.LoadModelFile(cfg.Model)
	if err != nil {
		return err
	}

	l := loop.New(loop.WithLogger(logger))
	model := store.New(root, store.WithLogger(logger))
	el, err := form.NewElement(def.Name, l, form.WithLogger(logger))
	if err != nil {
		return err
	}
	defer el.Destroy()

	reg := newHookRegistry(cfg)
	opts := []session.Option{session.WithHooks(reg), session.WithLogger(logger)}
	if cfg.Hook != "" && cfg.Hook != "none" {
		hook, err := reg.Get(cfg.Hook)
		if err != nil {
			return err
		}
		opts = append(opts, session.WithFormHook(hook))
	}

	switch cfg.Renderer {
	case "html":
		s, err := session.Mount(def, model, el, opts...)
		if err != nil {
			return err
		}
		defer s.Close()
		return renderHTML(ctx, cfg, logger, s)
	default:
		r, err := tui.New(tui.WithLogger(logger))
		if err != nil {
			return err
		}
		s, err := session.Mount(def, model, el, append(opts, session.WithObserver(r.Observe))...)
		if err != nil {
			return err
		}
		defer s.Close()
		report, err := r.Run(ctx, s)
		if err != nil {
			return err
		}
		logger.Info("session finished", "rounds", report.Rounds, "submitted", report.Submitted, "quit", report.Quit)
		return nil
	}
}

func newHookRegistry(cfg config) *hooks.Registry {
	reg := hooks.NewRegistry()
	reg.MustRegister("print", hooks.Print(os.Stdout, hooks.Format(cfg.HookFormat)))
	if cfg.WritePath != "" {
		reg.MustRegister("write", hooks.Write(cfg.WritePath))
	} else {
		reg.MustRegister("write", func(sub lazy.Submission) error {
			return fmt.Errorf("write hook for %q needs -write-path or -model", sub.Form)
		})
	}
	return reg
}

func renderHTML(ctx context.Context, cfg config, logger *slog.Logger, s *session.Session) error {
	r, err := html.New(html.WithAction("post", cfg.Action), html.WithLogger(logger))
	if err != nil {
		return err
	}
	out, err := r.Render(ctx, s)
	if err != nil {
		return err
	}
	if cfg.Output != "" {
		if err := os.WriteFile(cfg.Output, out, 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		fmt.Printf("Form written to %s\n", cfg.Output)
		return nil
	}
	_, err = os.Stdout.Write(out)
	return err
}
