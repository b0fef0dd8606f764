package hooks

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-lazyform/pkg/lazy"
)

// Format selects how built-in hooks encode the committed model.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Print returns a hook that writes the committed model to w.
func Print(w io.Writer, format Format) lazy.FinalHook {
	return func(sub lazy.Submission) error {
		payload, err := encode(sub, format)
		if err != nil {
			return err
		}
		_, err = w.Write(payload)
		return err
	}
}

// Write returns a hook that persists the committed model to path. The format
// follows the file extension; anything other than .yaml/.yml is JSON.
func Write(path string) lazy.FinalHook {
	format := FormatJSON
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		format = FormatYAML
	}
	return func(sub lazy.Submission) error {
		payload, err := encode(sub, format)
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, payload, 0o644); err != nil {
			return fmt.Errorf("hooks: write %s: %w", path, err)
		}
		return nil
	}
}

func encode(sub lazy.Submission, format Format) ([]byte, error) {
	if sub.Model == nil {
		return nil, fmt.Errorf("hooks: submission for %q carries no model", sub.Form)
	}
	snapshot := sub.Model.Snapshot()
	switch format {
	case FormatYAML:
		out, err := yaml.Marshal(snapshot)
		if err != nil {
			return nil, fmt.Errorf("hooks: encode yaml: %w", err)
		}
		return out, nil
	default:
		out, err := json.MarshalIndent(snapshot, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("hooks: encode json: %w", err)
		}
		return append(out, '\n'), nil
	}
}
