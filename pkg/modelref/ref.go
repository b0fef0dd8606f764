package modelref

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxIndex is the largest slice index a path may address. Set grows slices up
// to the index, so unbounded indexes would allocate without limit.
const MaxIndex = 1 << 16

// Ref is a compiled accessor for one location inside a shared model. The
// model is a tree of map[string]any and []any values addressed by dotted
// paths such as "profile.name" or "tags.0". Bracket indexes ("items[2].label")
// are accepted and normalised to dotted numeric segments.
type Ref struct {
	expr     string
	segments []string
}

// Compile parses expr into a Ref. Invalid expressions fail here so callers
// never discover a bad path at first use.
func Compile(expr string) (*Ref, error) {
	trimmed := strings.TrimSpace(expr)
	if trimmed == "" {
		return nil, ErrEmptyExpression
	}
	segments, err := parseSegments(trimmed)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidExpression, expr, err)
	}
	return &Ref{
		expr:     strings.Join(segments, "."),
		segments: segments,
	}, nil
}

// MustCompile panics when expr cannot be compiled. Useful for init-time
// wiring and tests.
func MustCompile(expr string) *Ref {
	ref, err := Compile(expr)
	if err != nil {
		panic(err)
	}
	return ref
}

// String returns the normalised dotted expression.
func (r *Ref) String() string {
	if r == nil {
		return ""
	}
	return r.expr
}

// Segments returns a copy of the parsed path segments.
func (r *Ref) Segments() []string {
	if r == nil {
		return nil
	}
	return append([]string(nil), r.segments...)
}

// Get resolves the ref against root.
func (r *Ref) Get(root map[string]any) (any, bool) {
	if r == nil || root == nil {
		return nil, false
	}
	current := any(root)
	for _, segment := range r.segments {
		switch node := current.(type) {
		case map[string]any:
			next, ok := node[segment]
			if !ok {
				return nil, false
			}
			current = next
		case []any:
			idx, err := strconv.Atoi(segment)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, false
			}
			current = node[idx]
		default:
			return nil, false
		}
	}
	return current, true
}

// Set assigns value at the ref, creating intermediate maps and slices as
// needed. Assigning through an existing scalar returns ErrNotAssignable.
func (r *Ref) Set(root map[string]any, value any) error {
	if r == nil {
		return ErrEmptyExpression
	}
	if root == nil {
		return fmt.Errorf("modelref: root is nil")
	}
	_, err := assign(root, r.segments, value)
	if err != nil {
		return fmt.Errorf("modelref: set %q: %w", r.expr, err)
	}
	return nil
}

// assign writes value below node and returns the (possibly grown) node so
// slice parents can store the reallocated backing array.
func assign(node any, segments []string, value any) (any, error) {
	segment := segments[0]
	last := len(segments) == 1

	switch typed := node.(type) {
	case map[string]any:
		if last {
			typed[segment] = value
			return typed, nil
		}
		child, ok := typed[segment]
		if !ok || child == nil {
			child = emptyContainer(segments[1])
		}
		updated, err := assign(child, segments[1:], value)
		if err != nil {
			return nil, err
		}
		typed[segment] = updated
		return typed, nil

	case []any:
		idx, err := strconv.Atoi(segment)
		if err != nil {
			return nil, fmt.Errorf("%w: expected numeric segment, got %q", ErrNotAssignable, segment)
		}
		if len(typed) <= idx {
			typed = append(typed, make([]any, idx+1-len(typed))...)
		}
		if last {
			typed[idx] = value
			return typed, nil
		}
		child := typed[idx]
		if child == nil {
			child = emptyContainer(segments[1])
		}
		updated, err := assign(child, segments[1:], value)
		if err != nil {
			return nil, err
		}
		typed[idx] = updated
		return typed, nil

	default:
		return nil, fmt.Errorf("%w: segment %q crosses a %T", ErrNotAssignable, segment, node)
	}
}

func emptyContainer(next string) any {
	if isIndex(next) {
		return []any{}
	}
	return make(map[string]any)
}

func parseSegments(expr string) ([]string, error) {
	var (
		segments []string
		current  strings.Builder
	)
	flush := func() error {
		if current.Len() == 0 {
			return fmt.Errorf("empty segment")
		}
		segments = append(segments, current.String())
		current.Reset()
		return nil
	}

	for i := 0; i < len(expr); i++ {
		ch := expr[i]
		switch ch {
		case '.':
			if err := flush(); err != nil {
				return nil, err
			}
		case '[':
			if current.Len() > 0 {
				if err := flush(); err != nil {
					return nil, err
				}
			} else if len(segments) == 0 {
				return nil, fmt.Errorf("index without a parent")
			}
			end := strings.IndexByte(expr[i:], ']')
			if end < 0 {
				return nil, fmt.Errorf("unbalanced '['")
			}
			index := strings.TrimSpace(expr[i+1 : i+end])
			if !isIndex(index) {
				return nil, fmt.Errorf("invalid index %q", index)
			}
			segments = append(segments, index)
			i += end
			if i+1 < len(expr) {
				if expr[i+1] != '.' && expr[i+1] != '[' {
					return nil, fmt.Errorf("unexpected %q after index", expr[i+1])
				}
				if expr[i+1] == '.' {
					i++
					if i+1 >= len(expr) {
						return nil, fmt.Errorf("trailing '.'")
					}
				}
			}
		case ']':
			return nil, fmt.Errorf("unbalanced ']'")
		case ' ', '\t', '\n', '\r':
			return nil, fmt.Errorf("whitespace inside path")
		default:
			current.WriteByte(ch)
		}
	}
	if current.Len() > 0 {
		segments = append(segments, current.String())
	} else if len(expr) > 0 && expr[len(expr)-1] == '.' {
		return nil, fmt.Errorf("trailing '.'")
	}
	if len(segments) == 0 {
		return nil, fmt.Errorf("no segments")
	}
	for _, segment := range segments {
		if !isIndex(segment) {
			continue
		}
		if idx, err := strconv.Atoi(segment); err != nil || idx > MaxIndex {
			return nil, fmt.Errorf("index %s exceeds %d", segment, MaxIndex)
		}
	}
	return segments, nil
}

func isIndex(segment string) bool {
	if segment == "" {
		return false
	}
	for _, r := range segment {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
