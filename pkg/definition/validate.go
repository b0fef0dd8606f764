package definition

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goliatone/go-lazyform/pkg/modelref"
)

// Validate checks the definition for configuration errors: missing or
// duplicate names, unparsable model paths, unknown groups and malformed
// validation rules. All problems are reported together.
func (d Definition) Validate() error {
	var errs []error
	if strings.TrimSpace(d.Name) == "" {
		errs = append(errs, errors.New("definition: name is required"))
	}
	switch d.Reentrancy {
	case "", "coalesce", "queue", "reject":
	default:
		errs = append(errs, fmt.Errorf("definition: unknown reentrancy policy %q", d.Reentrancy))
	}

	groups := make(map[string]struct{}, len(d.Groups))
	for _, g := range d.Groups {
		name := strings.TrimSpace(g.Name)
		if name == "" {
			errs = append(errs, errors.New("definition: group name is required"))
			continue
		}
		if _, dup := groups[name]; dup {
			errs = append(errs, fmt.Errorf("definition: duplicate group %q", name))
		}
		groups[name] = struct{}{}
		switch g.InvalidSubmit {
		case "", "rollback", "retain":
		default:
			errs = append(errs, fmt.Errorf("definition: group %q: unknown invalidSubmit %q", name, g.InvalidSubmit))
		}
	}

	if len(d.Fields) == 0 {
		errs = append(errs, errors.New("definition: at least one field is required"))
	}
	names := make(map[string]struct{}, len(d.Fields))
	for idx, f := range d.Fields {
		name := strings.TrimSpace(f.Name)
		if name == "" {
			errs = append(errs, fmt.Errorf("definition: field %d: name is required", idx))
			continue
		}
		if _, dup := names[name]; dup {
			errs = append(errs, fmt.Errorf("definition: duplicate field %q", name))
		}
		names[name] = struct{}{}
		if _, err := modelref.Compile(f.ModelPath()); err != nil {
			errs = append(errs, fmt.Errorf("definition: field %q: %w", name, err))
		}
		if f.Group != "" {
			if _, ok := groups[f.Group]; !ok {
				errs = append(errs, fmt.Errorf("definition: field %q: unknown group %q", name, f.Group))
			}
		}
		switch f.Type {
		case "", FieldTypeString, FieldTypeInteger, FieldTypeNumber, FieldTypeBoolean, FieldTypeArray:
		default:
			errs = append(errs, fmt.Errorf("definition: field %q: unsupported type %q", name, f.Type))
		}
		for _, rule := range f.Validations {
			if err := validateRule(rule); err != nil {
				errs = append(errs, fmt.Errorf("definition: field %q: %w", name, err))
			}
		}
	}
	return errors.Join(errs...)
}

func validateRule(rule ValidationRule) error {
	switch rule.Kind {
	case ValidationRuleMin, ValidationRuleMax:
		if _, err := strconv.ParseFloat(rule.Params["value"], 64); err != nil {
			return fmt.Errorf("%s rule: invalid value %q", rule.Kind, rule.Params["value"])
		}
	case ValidationRuleMinLength, ValidationRuleMaxLength:
		if _, err := strconv.Atoi(rule.Params["value"]); err != nil {
			return fmt.Errorf("%s rule: invalid value %q", rule.Kind, rule.Params["value"])
		}
	case ValidationRulePattern:
		if _, err := regexp.Compile(rule.Params["pattern"]); err != nil {
			return fmt.Errorf("pattern rule: %w", err)
		}
	default:
		return fmt.Errorf("unknown validation rule %q", rule.Kind)
	}
	return nil
}
