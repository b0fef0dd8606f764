package definition

// FieldType is the simplified enum for form-friendly field kinds.
type FieldType string

const (
	FieldTypeString  FieldType = "string"
	FieldTypeInteger FieldType = "integer"
	FieldTypeNumber  FieldType = "number"
	FieldTypeBoolean FieldType = "boolean"
	FieldTypeArray   FieldType = "array"
)

const (
	ValidationRuleMin       = "min"
	ValidationRuleMax       = "max"
	ValidationRuleMinLength = "minLength"
	ValidationRuleMaxLength = "maxLength"
	ValidationRulePattern   = "pattern"
)

// ValidationRule represents a single validation constraint applied to a field.
// Numeric bounds and length limits encode their threshold in Params["value"];
// pattern rules keep the expression in Params["pattern"].
type ValidationRule struct {
	Kind   string            `json:"kind" yaml:"kind"`
	Params map[string]string `json:"params,omitempty" yaml:"params,omitempty"`
}

// Field describes one lazily bound input. Path is the model expression the
// field stages edits for; it defaults to Name.
type Field struct {
	Name        string            `json:"name" yaml:"name"`
	Path        string            `json:"path,omitempty" yaml:"path,omitempty"`
	Type        FieldType         `json:"type,omitempty" yaml:"type,omitempty"`
	Format      string            `json:"format,omitempty" yaml:"format,omitempty"`
	Label       string            `json:"label,omitempty" yaml:"label,omitempty"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	Placeholder string            `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Required    bool              `json:"required,omitempty" yaml:"required,omitempty"`
	Enum        []any             `json:"enum,omitempty" yaml:"enum,omitempty"`
	Group       string            `json:"group,omitempty" yaml:"group,omitempty"`
	Validations []ValidationRule  `json:"validations,omitempty" yaml:"validations,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Group declares an explicit submit group. Hook names a final hook resolved
// from a hooks.Registry. InvalidSubmit is "retain" (default) or "rollback";
// fields outside any group always roll back on an invalid submit.
type Group struct {
	Name          string `json:"name" yaml:"name"`
	Label         string `json:"label,omitempty" yaml:"label,omitempty"`
	Hook          string `json:"hook,omitempty" yaml:"hook,omitempty"`
	InvalidSubmit string `json:"invalidSubmit,omitempty" yaml:"invalidSubmit,omitempty"`
}

// Definition is the top-level description of a lazily edited form.
// Reentrancy is one of "coalesce" (default), "queue" or "reject".
type Definition struct {
	Name        string  `json:"name" yaml:"name"`
	Title       string  `json:"title,omitempty" yaml:"title,omitempty"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Reentrancy  string  `json:"reentrancy,omitempty" yaml:"reentrancy,omitempty"`
	Groups      []Group `json:"groups,omitempty" yaml:"groups,omitempty"`
	Fields      []Field `json:"fields" yaml:"fields"`
}

// ModelPath returns the field's model expression.
func (f Field) ModelPath() string {
	if f.Path != "" {
		return f.Path
	}
	return f.Name
}

// DisplayLabel returns the label, falling back to the name.
func (f Field) DisplayLabel() string {
	if f.Label != "" {
		return f.Label
	}
	return f.Name
}

// Group looks up a group by name.
func (d Definition) Group(name string) (Group, bool) {
	for _, g := range d.Groups {
		if g.Name == name {
			return g, true
		}
	}
	return Group{}, false
}
