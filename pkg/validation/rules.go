package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goliatone/go-lazyform/pkg/definition"
)

// Rules is the compiled set of constraints for one field.
type Rules struct {
	kind     definition.FieldType
	required bool
	min      *float64
	max      *float64
	minLen   *int
	maxLen   *int
	pattern  *regexp.Regexp
	enum     []string
}

// RulesFor compiles the constraints declared on field. Malformed rules are
// skipped; definition.Validate reports them.
func RulesFor(field definition.Field) Rules {
	rules := Rules{kind: field.Type, required: field.Required}
	for _, v := range field.Validations {
		switch v.Kind {
		case definition.ValidationRuleMin:
			if val, ok := parseFloat(v.Params["value"]); ok {
				rules.min = &val
			}
		case definition.ValidationRuleMax:
			if val, ok := parseFloat(v.Params["value"]); ok {
				rules.max = &val
			}
		case definition.ValidationRuleMinLength:
			if val, ok := parseInt(v.Params["value"]); ok {
				rules.minLen = &val
			}
		case definition.ValidationRuleMaxLength:
			if val, ok := parseInt(v.Params["value"]); ok {
				rules.maxLen = &val
			}
		case definition.ValidationRulePattern:
			if expr := v.Params["pattern"]; expr != "" {
				if re, err := regexp.Compile(expr); err == nil {
					rules.pattern = re
				}
			}
		}
	}
	for _, option := range field.Enum {
		rules.enum = append(rules.enum, fmt.Sprint(option))
	}
	return rules
}

// Required reports whether an empty value fails the rules.
func (r Rules) Required() bool {
	return r.required
}

// Check validates value against the rules. Strings destined for numeric
// fields are parsed before the bounds are applied.
func (r Rules) Check(value any) error {
	switch v := value.(type) {
	case nil:
		if r.required {
			return errors.New("required")
		}
		return nil
	case string:
		if r.kind == definition.FieldTypeInteger || r.kind == definition.FieldTypeNumber {
			return r.checkNumericString(v)
		}
		return r.checkString(v)
	case bool:
		return nil
	case int, int64, float64:
		return r.checkNumber(v)
	case []any:
		return r.checkArray(v)
	case []string:
		items := make([]any, len(v))
		for i, s := range v {
			items[i] = s
		}
		return r.checkArray(items)
	default:
		return nil
	}
}

func (r Rules) checkString(value string) error {
	if strings.TrimSpace(value) == "" {
		if r.required {
			return errors.New("required")
		}
		return nil
	}
	if r.minLen != nil && len(value) < *r.minLen {
		return fmt.Errorf("min length %d", *r.minLen)
	}
	if r.maxLen != nil && len(value) > *r.maxLen {
		return fmt.Errorf("max length %d", *r.maxLen)
	}
	if r.pattern != nil && !r.pattern.MatchString(value) {
		return errors.New("does not match required pattern")
	}
	if len(r.enum) > 0 && !contains(r.enum, value) {
		return fmt.Errorf("must be one of %s", strings.Join(r.enum, ", "))
	}
	return nil
}

func (r Rules) checkNumericString(value string) error {
	raw := strings.TrimSpace(value)
	if raw == "" {
		if r.required {
			return errors.New("required")
		}
		return nil
	}
	if r.kind == definition.FieldTypeInteger {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return errors.New("expected integer")
		}
		return r.checkNumber(n)
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return errors.New("expected number")
	}
	return r.checkNumber(n)
}

func (r Rules) checkNumber(value any) error {
	var v float64
	switch n := value.(type) {
	case int:
		v = float64(n)
	case int64:
		v = float64(n)
	case float64:
		v = n
	default:
		return fmt.Errorf("expected number, got %T", value)
	}
	if r.min != nil && v < *r.min {
		return fmt.Errorf("min %v", *r.min)
	}
	if r.max != nil && v > *r.max {
		return fmt.Errorf("max %v", *r.max)
	}
	return nil
}

func (r Rules) checkArray(value []any) error {
	if r.required && len(value) == 0 {
		return errors.New("required")
	}
	if r.minLen != nil && len(value) < *r.minLen {
		return fmt.Errorf("min length %d", *r.minLen)
	}
	if r.maxLen != nil && len(value) > *r.maxLen {
		return fmt.Errorf("max length %d", *r.maxLen)
	}
	return nil
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

func parseFloat(raw string) (float64, bool) {
	if raw == "" {
		return 0, false
	}
	val, err := strconv.ParseFloat(raw, 64)
	return val, err == nil
}

func parseInt(raw string) (int, bool) {
	if raw == "" {
		return 0, false
	}
	val, err := strconv.Atoi(raw)
	return val, err == nil
}
