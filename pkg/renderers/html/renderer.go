package html

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"sort"
	"strings"

	"github.com/flosch/pongo2/v6"
	theme "github.com/goliatone/go-theme"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-lazyform/pkg/definition"
	"github.com/goliatone/go-lazyform/pkg/lazy"
	"github.com/goliatone/go-lazyform/pkg/session"
)

// Option configures the HTML renderer.
type Option func(*Renderer)

// WithTemplatesFS replaces the embedded templates. The FS must provide
// form.tpl and field.tpl at its root.
func WithTemplatesFS(files fs.FS) Option {
	return func(r *Renderer) {
		if files != nil {
			r.templates = files
		}
	}
}

// WithTheme applies go-theme tokens, CSS variables and asset resolution.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(r *Renderer) {
		r.theme = cfg
	}
}

// WithAction sets the form's action URL and method.
func WithAction(method, action string) Option {
	return func(r *Renderer) {
		if m := strings.ToLower(strings.TrimSpace(method)); m != "" {
			r.method = m
		}
		r.action = strings.TrimSpace(action)
	}
}

// WithSanitizer overrides the policy applied to help text.
func WithSanitizer(policy *bluemonday.Policy) Option {
	return func(r *Renderer) {
		if policy != nil {
			r.policy = policy
		}
	}
}

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Renderer produces an HTML form for a mounted session. Inputs carry buffer
// values, never model values, so pending edits survive a re-render.
type Renderer struct {
	templates fs.FS
	engine    *engine
	theme     *theme.RendererConfig
	method    string
	action    string
	policy    *bluemonday.Policy
	logger    *slog.Logger
}

// New constructs an HTML renderer backed by the embedded templates.
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		templates: TemplatesFS(),
		method:    "post",
		policy:    bluemonday.UGCPolicy(),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	eng, err := newEngine(r.templates)
	if err != nil {
		return nil, err
	}
	r.engine = eng
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "html"
}

// ContentType reports the media type produced by Render.
func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render writes the session's current buffers and validation errors as an
// HTML form.
func (r *Renderer) Render(ctx context.Context, s *session.Session) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("html: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil {
		return nil, errors.New("html: session is required")
	}

	def := s.Definition()
	fields := make([]map[string]any, 0, len(s.Fields()))
	for _, f := range s.Fields() {
		spec, _ := s.FieldDefinition(f.Name())
		fields = append(fields, r.fieldContext(def.Name, spec, f, s.Tracker().ErrorsFor(f.Name())))
	}

	data := pongo2.Context{
		"form": map[string]any{
			"id":          htmlID(def.Name),
			"title":       def.Title,
			"description": def.Description,
			"method":      r.method,
			"action":      r.action,
		},
		"fields": fields,
		"theme":  themeContext(r.theme),
	}
	out, err := r.engine.render("form", data)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("form rendered", "definition", def.Name, "fields", len(fields), "bytes", len(out))
	return out, nil
}

func (r *Renderer) fieldContext(form string, spec definition.Field, f *lazy.Field, errs []string) map[string]any {
	buffer := f.Buffer()
	ctx := map[string]any{
		"id":          htmlID(form + "-" + f.Name()),
		"name":        f.Name(),
		"path":        f.Path(),
		"label":       spec.DisplayLabel(),
		"placeholder": spec.Placeholder,
		"required":    spec.Required,
		"group":       spec.Group,
		"pending":     f.Pending(),
		"errors":      errs,
		"control":     controlFor(spec),
		"value":       formatValue(buffer),
	}
	if spec.Description != "" {
		ctx["help"] = r.policy.Sanitize(spec.Description)
	}
	if checked, ok := buffer.(bool); ok {
		ctx["checked"] = checked
	}
	if len(spec.Enum) > 0 {
		current := formatValue(buffer)
		options := make([]map[string]any, 0, len(spec.Enum))
		for _, option := range spec.Enum {
			value := fmt.Sprint(option)
			options = append(options, map[string]any{"value": value, "selected": value == current})
		}
		ctx["options"] = options
	}
	return ctx
}

func controlFor(spec definition.Field) string {
	switch {
	case len(spec.Enum) > 0 && spec.Type != definition.FieldTypeArray:
		return "select"
	case spec.Type == definition.FieldTypeBoolean:
		return "checkbox"
	case spec.Type == definition.FieldTypeInteger, spec.Type == definition.FieldTypeNumber:
		return "number"
	}
	switch spec.Format {
	case "email", "password", "date", "url":
		return spec.Format
	case "textarea":
		return "textarea"
	}
	return "text"
}

func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []any:
		parts := make([]string, len(t))
		for i, item := range t {
			parts[i] = fmt.Sprint(item)
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(t)
	}
}

func htmlID(raw string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(raw) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	return b.String()
}

func themeContext(cfg *theme.RendererConfig) map[string]any {
	if cfg == nil {
		return map[string]any{}
	}
	ctx := map[string]any{
		"name":           cfg.Theme,
		"variant":        cfg.Variant,
		"css_vars_style": cssVarsStyle(cfg.CSSVars),
	}
	if cfg.AssetURL != nil {
		ctx["stylesheet"] = cfg.AssetURL("lazyform.css")
	}
	return ctx
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+": "+vars[key])
	}
	return strings.Join(parts, "; ")
}
