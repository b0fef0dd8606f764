package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/goliatone/go-lazyform/pkg/definition"
	"github.com/goliatone/go-lazyform/pkg/form"
	"github.com/goliatone/go-lazyform/pkg/lazy"
	"github.com/goliatone/go-lazyform/pkg/session"
)

// Action is the choice offered after every edit round.
type Action int

const (
	ActionSubmit Action = iota
	ActionReset
	ActionQuit
)

var actionLabels = []string{"Submit", "Reset", "Quit"}

// Report summarises a terminal session.
type Report struct {
	Rounds    int
	Submitted bool
	Quit      bool
	Outcomes  []lazy.Outcome
}

// Renderer drives a mounted session from the terminal. Answers only ever
// reach field buffers; the model changes when the submit it dispatches
// commits.
type Renderer struct {
	driver    PromptDriver
	out       io.Writer
	theme     Theme
	maxRounds int
	logger    *slog.Logger

	outcomes []lazy.Outcome
}

// New constructs a TUI renderer with defaults (survey driver, stdout).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		out:    os.Stdout,
		theme:  defaultTheme,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = newSurveyDriver(r.out)
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// Observe records coordinator outcomes. Pass it to session.WithObserver so
// Run can report what each submit did.
func (r *Renderer) Observe(outcome lazy.Outcome) {
	r.outcomes = append(r.outcomes, outcome)
}

// Run prompts every field, then asks whether to submit, reset or quit. The
// chosen event is dispatched on the session's element and the loop drained
// before the outcome is reported. Run returns after a valid submit commits,
// when the user quits, or after WithMaxRounds rounds.
func (r *Renderer) Run(ctx context.Context, s *session.Session) (Report, error) {
	var report Report
	if ctx == nil {
		return report, errors.New("tui: context is required")
	}
	if s == nil {
		return report, errors.New("tui: session is required")
	}
	if len(s.Fields()) == 0 {
		return report, ErrNoFields
	}

	for r.maxRounds == 0 || report.Rounds < r.maxRounds {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.Rounds++

		for _, field := range s.Fields() {
			spec, _ := s.FieldDefinition(field.Name())
			if err := r.promptField(ctx, spec, field, s.Tracker().ErrorsFor(field.Name())); err != nil {
				return report, err
			}
		}

		picked, err := r.driver.Choose(ctx, Choice{
			Label:    r.theme.PromptPrefix + "Action",
			Options:  actionLabels,
			Selected: []int{int(ActionSubmit)},
		})
		if err != nil {
			return report, err
		}
		action := ActionQuit
		if len(picked) > 0 {
			action = Action(picked[0])
		}

		mark := len(r.outcomes)
		switch action {
		case ActionSubmit:
			if err := r.dispatch(s, form.EventSubmit); err != nil {
				return report, err
			}
			settled := r.outcomes[mark:]
			report.Outcomes = append(report.Outcomes, settled...)
			if r.reportSubmit(ctx, s, settled) {
				report.Submitted = true
				return report, nil
			}
		case ActionReset:
			if err := r.dispatch(s, form.EventReset); err != nil {
				return report, err
			}
			report.Outcomes = append(report.Outcomes, r.outcomes[mark:]...)
			r.info(ctx, "Edits discarded")
		default:
			report.Quit = true
			return report, nil
		}
	}
	r.logger.Warn("round limit reached", "rounds", report.Rounds)
	return report, nil
}

func (r *Renderer) dispatch(s *session.Session, kind form.EventKind) error {
	var err error
	if kind == form.EventSubmit {
		err = s.Element().Submit()
	} else {
		err = s.Element().Reset()
	}
	if err != nil {
		return err
	}
	ran := s.Element().Loop().RunUntilIdle()
	r.logger.Debug("dispatch settled", "event", string(kind), "tasks", ran)
	return nil
}

// reportSubmit prints the result of a submit and reports whether it
// committed cleanly.
func (r *Renderer) reportSubmit(ctx context.Context, s *session.Session, settled []lazy.Outcome) bool {
	if !s.Tracker().Valid() {
		for _, name := range s.Tracker().Invalid() {
			for _, msg := range s.Tracker().ErrorsFor(name) {
				r.errorf(ctx, "Invalid %s: %s", name, msg)
			}
		}
		return false
	}
	clean := true
	for _, outcome := range settled {
		if outcome.Err != nil {
			clean = false
			r.errorf(ctx, "%s: %v", outcomeLabel(outcome), outcome.Err)
		}
	}
	if clean {
		r.info(ctx, "Submitted")
	}
	return clean
}

func (r *Renderer) promptField(ctx context.Context, spec definition.Field, field *lazy.Field, errs []string) error {
	label := r.theme.PromptPrefix + spec.DisplayLabel()
	if field.Pending() {
		label += r.theme.PendingSuffix
	}
	q := Question{
		Field:   spec.Name,
		Label:   label,
		Help:    displayHelp(spec, errs),
		Default: stringValue(field.Buffer()),
	}

	switch {
	case spec.Type == definition.FieldTypeBoolean:
		current, _ := field.Buffer().(bool)
		answer, err := r.driver.Confirm(ctx, q, current)
		if err != nil {
			return err
		}
		field.SetBuffer(answer)
	case len(spec.Enum) > 0:
		options := stringifySlice(spec.Enum)
		multiple := spec.Type == definition.FieldTypeArray
		current := []string{q.Default}
		if multiple {
			current = stringifySlice(coerceAnySlice(field.Buffer()))
		}
		picked, err := r.driver.Choose(ctx, Choice{
			Field:    spec.Name,
			Label:    q.Label,
			Help:     q.Help,
			Options:  options,
			Selected: positionsOf(options, current),
			Multiple: multiple,
		})
		if err != nil {
			return err
		}
		values := optionsAt(options, picked)
		if multiple {
			field.SetBuffer(toAnySlice(values))
		} else if len(values) > 0 {
			field.SetBuffer(values[0])
		}
	case spec.Type == definition.FieldTypeArray:
		q.Default = strings.Join(stringifySlice(coerceAnySlice(field.Buffer())), ", ")
		answer, err := r.driver.Ask(ctx, q)
		if err != nil {
			return err
		}
		field.SetBuffer(splitList(answer))
	case spec.Type == definition.FieldTypeInteger || spec.Type == definition.FieldTypeNumber:
		return r.promptNumber(ctx, spec, field, q)
	default:
		switch spec.Format {
		case "password":
			q.Entry = EntrySecret
		case "textarea":
			q.Entry = EntryLines
		}
		answer, err := r.driver.Ask(ctx, q)
		if err != nil {
			return err
		}
		field.SetBuffer(answer)
	}
	return nil
}

// promptNumber re-asks until the answer parses; range checks are left to the
// submit-time validation.
func (r *Renderer) promptNumber(ctx context.Context, spec definition.Field, field *lazy.Field, q Question) error {
	for {
		answer, err := r.driver.Ask(ctx, q)
		if err != nil {
			return err
		}
		answer = strings.TrimSpace(answer)
		if answer == "" {
			field.SetBuffer(nil)
			return nil
		}
		if spec.Type == definition.FieldTypeInteger {
			n, err := strconv.Atoi(answer)
			if err != nil {
				r.errorf(ctx, "Invalid %s: expected integer", spec.Name)
				continue
			}
			field.SetBuffer(n)
			return nil
		}
		f, err := strconv.ParseFloat(answer, 64)
		if err != nil {
			r.errorf(ctx, "Invalid %s: expected number", spec.Name)
			continue
		}
		field.SetBuffer(f)
		return nil
	}
}

func (r *Renderer) info(ctx context.Context, msg string) {
	_ = r.driver.Notify(ctx, r.theme.InfoPrefix+msg)
}

func (r *Renderer) errorf(ctx context.Context, format string, args ...any) {
	_ = r.driver.Notify(ctx, r.theme.ErrorPrefix+fmt.Sprintf(format, args...))
}

func outcomeLabel(o lazy.Outcome) string {
	if o.Group != "" {
		return o.Form + "/" + o.Group
	}
	return o.Form
}

func displayHelp(spec definition.Field, errs []string) string {
	help := spec.Description
	if spec.Placeholder != "" && help == "" {
		help = spec.Placeholder
	}
	if len(errs) > 0 {
		if help != "" {
			help += "\n"
		}
		help += "last submit: " + strings.Join(errs, "; ")
	}
	return help
}

func stringValue(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func stringifySlice(values []any) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, fmt.Sprint(v))
	}
	return out
}

func toAnySlice(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func coerceAnySlice(value any) []any {
	switch v := value.(type) {
	case []any:
		return v
	case []string:
		return toAnySlice(v)
	default:
		return nil
	}
}

func splitList(raw string) []any {
	out := []any{}
	for _, part := range strings.Split(raw, ",") {
		if item := strings.TrimSpace(part); item != "" {
			out = append(out, item)
		}
	}
	return out
}
