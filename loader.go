package lazyform

import (
	"context"
	"fmt"
	"os"

	"github.com/goliatone/go-lazyform/pkg/definition"
)

// LoadDefinitionFile reads a definition from disk. With a non-empty
// operationID the file is treated as an OpenAPI document and the definition
// is built from that operation's request body; otherwise it is YAML.
func LoadDefinitionFile(ctx context.Context, path, operationID string) (Definition, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Definition{}, fmt.Errorf("lazyform: read definition: %w", err)
	}
	if operationID != "" {
		return definition.FromOpenAPI(ctx, raw, operationID)
	}
	return definition.FromYAML(raw)
}

// LoadModelFile reads a YAML or JSON model document. A missing file yields an
// empty model so a first run can create it through the write hook.
func LoadModelFile(path string) (map[string]any, error) {
	if path == "" {
		return map[string]any{}, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]any{}, nil
		}
		return nil, fmt.Errorf("lazyform: read model: %w", err)
	}
	return definition.LoadModel(raw)
}
