package definition

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// FromYAML decodes and validates a YAML (or JSON) definition document.
func FromYAML(raw []byte) (Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(raw, &def); err != nil {
		return Definition{}, fmt.Errorf("definition: decode yaml: %w", err)
	}
	if err := def.Validate(); err != nil {
		return Definition{}, err
	}
	return def, nil
}

// LoadModel decodes a YAML or JSON model document into a model tree. An
// empty document yields an empty model.
func LoadModel(raw []byte) (map[string]any, error) {
	var root map[string]any
	if err := yaml.Unmarshal(raw, &root); err != nil {
		return nil, fmt.Errorf("definition: decode model: %w", err)
	}
	if root == nil {
		root = make(map[string]any)
	}
	return root, nil
}
