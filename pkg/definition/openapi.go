package definition

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

const (
	// property extension assigning the field to an explicit submit group
	groupExtensionKey = "x-lazyform-group"
	// operation extension naming the final hook; fields without an explicit
	// group are gathered into a group named after the operation
	hookExtensionKey = "x-lazyform-hook"
)

// FromOpenAPI builds a definition from the request body of operationID.
// Nested object properties flatten into dotted model paths; numeric bounds,
// length limits and patterns become validation rules.
func FromOpenAPI(ctx context.Context, raw []byte, operationID string) (Definition, error) {
	if err := ctx.Err(); err != nil {
		return Definition{}, err
	}
	if len(raw) == 0 {
		return Definition{}, errors.New("definition: openapi document is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return Definition{}, fmt.Errorf("definition: load openapi document: %w", err)
	}

	op := findOperation(doc, operationID)
	if op == nil {
		return Definition{}, fmt.Errorf("definition: operation %q not found", operationID)
	}
	schema := requestSchema(op.RequestBody)
	if schema == nil {
		return Definition{}, fmt.Errorf("definition: operation %q has no request body schema", operationID)
	}

	def := Definition{
		Name:        operationID,
		Title:       op.Summary,
		Description: op.Description,
	}
	defaultGroup := ""
	if hook := stringExtension(op.Extensions, hookExtensionKey); hook != "" {
		defaultGroup = operationID
		def.Groups = append(def.Groups, Group{Name: operationID, Hook: hook})
	}

	def.Fields = collectFields(schema, "", defaultGroup)
	for _, f := range def.Fields {
		if f.Group == "" || f.Group == defaultGroup {
			continue
		}
		if _, ok := def.Group(f.Group); !ok {
			def.Groups = append(def.Groups, Group{Name: f.Group})
		}
	}
	if err := def.Validate(); err != nil {
		return Definition{}, err
	}
	return def, nil
}

func findOperation(doc *openapi3.T, operationID string) *openapi3.Operation {
	if doc.Paths == nil {
		return nil
	}
	paths := doc.Paths.Map()
	keys := make([]string, 0, len(paths))
	for key := range paths {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		item := paths[key]
		if item == nil {
			continue
		}
		for _, op := range []*openapi3.Operation{item.Post, item.Put, item.Patch, item.Get, item.Delete} {
			if op != nil && op.OperationID == operationID {
				return op
			}
		}
	}
	return nil
}

func requestSchema(body *openapi3.RequestBodyRef) *openapi3.Schema {
	if body == nil || body.Value == nil {
		return nil
	}
	content := body.Value.Content
	for _, mediaType := range []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"} {
		if mt, ok := content[mediaType]; ok && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	for _, mt := range content {
		if mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

func collectFields(schema *openapi3.Schema, prefix, group string) []Field {
	if schema == nil {
		return nil
	}
	required := make(map[string]bool, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = true
	}
	names := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	var fields []Field
	for _, name := range names {
		ref := schema.Properties[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		prop := ref.Value
		path := name
		if prefix != "" {
			path = prefix + "." + name
		}
		propGroup := group
		if explicit := stringExtension(prop.Extensions, groupExtensionKey); explicit != "" {
			propGroup = explicit
		}
		if schemaType(prop) == "object" {
			fields = append(fields, collectFields(prop, path, propGroup)...)
			continue
		}
		fields = append(fields, convertProperty(path, prop, required[name], propGroup))
	}
	return fields
}

func convertProperty(path string, prop *openapi3.Schema, required bool, group string) Field {
	field := Field{
		Name:        path,
		Path:        path,
		Type:        FieldType(schemaType(prop)),
		Format:      prop.Format,
		Label:       prop.Title,
		Description: prop.Description,
		Required:    required,
		Group:       group,
	}
	if field.Type == "" {
		field.Type = FieldTypeString
	}
	if len(prop.Enum) > 0 {
		field.Enum = append([]any(nil), prop.Enum...)
	}
	if prop.Min != nil {
		field.Validations = append(field.Validations, valueRule(ValidationRuleMin, formatFloat(*prop.Min)))
	}
	if prop.Max != nil {
		field.Validations = append(field.Validations, valueRule(ValidationRuleMax, formatFloat(*prop.Max)))
	}
	if prop.MinLength != 0 {
		field.Validations = append(field.Validations, valueRule(ValidationRuleMinLength, strconv.FormatUint(prop.MinLength, 10)))
	}
	if prop.MaxLength != nil {
		field.Validations = append(field.Validations, valueRule(ValidationRuleMaxLength, strconv.FormatUint(*prop.MaxLength, 10)))
	}
	if prop.Pattern != "" {
		field.Validations = append(field.Validations, ValidationRule{
			Kind:   ValidationRulePattern,
			Params: map[string]string{"pattern": prop.Pattern},
		})
	}
	return field
}

func valueRule(kind, value string) ValidationRule {
	return ValidationRule{Kind: kind, Params: map[string]string{"value": value}}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func schemaType(schema *openapi3.Schema) string {
	if schema.Type == nil {
		if len(schema.Properties) > 0 {
			return "object"
		}
		return ""
	}
	values := schema.Type.Slice()
	for _, v := range values {
		if v != "null" {
			return v
		}
	}
	return ""
}

func stringExtension(extensions map[string]any, key string) string {
	value, ok := extensions[key]
	if !ok {
		return ""
	}
	str, ok := value.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(str)
}
