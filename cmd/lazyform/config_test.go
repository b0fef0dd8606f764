package main

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoadConfig_EnvSeedsFlags(t *testing.T) {
	t.Setenv("LAZYFORM_DEFINITION", "profile.yaml")
	t.Setenv("LAZYFORM_RENDERER", "HTML")
	t.Setenv("LAZYFORM_MODEL", "model.yaml")

	cfg, err := loadConfig([]string{"-log-level", "debug"})
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	want := config{
		Definition: "profile.yaml",
		Model:      "model.yaml",
		Renderer:   "html",
		Hook:       "print",
		HookFormat: "yaml",
		WritePath:  "model.yaml",
		LogLevel:   "debug",
		LogFormat:  "text",
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfig_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("LAZYFORM_DEFINITION", "env.yaml")
	cfg, err := loadConfig([]string{"-definition", "flag.yaml", "-renderer", "tui"})
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Definition != "flag.yaml" {
		t.Fatalf("flag did not override env: %q", cfg.Definition)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Setenv("LAZYFORM_DEFINITION", "")
	if _, err := loadConfig(nil); err == nil {
		t.Fatalf("expected missing definition error")
	}
	if _, err := loadConfig([]string{"-definition", "x.yaml", "-renderer", "gui"}); err == nil {
		t.Fatalf("expected unknown renderer error")
	}
}
