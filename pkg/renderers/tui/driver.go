package tui

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// Entry selects how a free-text answer is typed.
type Entry int

const (
	EntryLine Entry = iota
	EntrySecret
	EntryLines
)

// Question asks for a new buffer value. Default is the field's current
// buffer rendered as text, so accepting it leaves the staged edit untouched.
type Question struct {
	Field   string
	Label   string
	Help    string
	Default string
	Entry   Entry
}

// Choice offers a fixed option list: enum fields, multi-value enum fields and
// the submit/reset/quit menu. Selected holds indexes into Options.
type Choice struct {
	Field    string
	Label    string
	Help     string
	Options  []string
	Selected []int
	Multiple bool
}

// PromptDriver is the terminal seam. The survey-backed default talks to a
// real terminal; tests script answers instead.
type PromptDriver interface {
	Ask(ctx context.Context, q Question) (string, error)
	Confirm(ctx context.Context, q Question, current bool) (bool, error)
	Choose(ctx context.Context, c Choice) ([]int, error)
	Notify(ctx context.Context, msg string) error
}

type surveyDriver struct {
	out io.Writer
}

func newSurveyDriver(out io.Writer) PromptDriver {
	return &surveyDriver{out: out}
}

func (d *surveyDriver) Ask(ctx context.Context, q Question) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var prompt survey.Prompt
	switch q.Entry {
	case EntrySecret:
		// survey never echoes a default for secrets; an empty answer keeps it
		prompt = &survey.Password{Message: q.Label, Help: q.Help}
	case EntryLines:
		prompt = &survey.Multiline{Message: q.Label, Help: q.Help, Default: q.Default}
	default:
		prompt = &survey.Input{Message: q.Label, Help: q.Help, Default: q.Default}
	}
	var answer string
	if err := survey.AskOne(prompt, &answer); err != nil {
		return "", interrupted(err)
	}
	if q.Entry == EntrySecret && answer == "" {
		return q.Default, nil
	}
	return answer, nil
}

func (d *surveyDriver) Confirm(ctx context.Context, q Question, current bool) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	var answer bool
	prompt := &survey.Confirm{Message: q.Label, Help: q.Help, Default: current}
	if err := survey.AskOne(prompt, &answer); err != nil {
		return false, interrupted(err)
	}
	return answer, nil
}

func (d *surveyDriver) Choose(ctx context.Context, c Choice) ([]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	selected := optionsAt(c.Options, c.Selected)
	if c.Multiple {
		prompt := &survey.MultiSelect{Message: c.Label, Help: c.Help, Options: c.Options}
		if len(selected) > 0 {
			prompt.Default = selected
		}
		var answers []string
		if err := survey.AskOne(prompt, &answers); err != nil {
			return nil, interrupted(err)
		}
		return positionsOf(c.Options, answers), nil
	}

	prompt := &survey.Select{Message: c.Label, Help: c.Help, Options: c.Options}
	if len(selected) > 0 {
		prompt.Default = selected[0]
	}
	var answer string
	if err := survey.AskOne(prompt, &answer); err != nil {
		return nil, interrupted(err)
	}
	return positionsOf(c.Options, []string{answer}), nil
}

func (d *surveyDriver) Notify(ctx context.Context, msg string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(d.out, msg)
	return err
}

func interrupted(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return ErrAborted
	}
	return err
}

// positionsOf maps answers back to option indexes in option order.
func positionsOf(options, answers []string) []int {
	picked := make(map[string]struct{}, len(answers))
	for _, a := range answers {
		picked[a] = struct{}{}
	}
	var out []int
	for i, option := range options {
		if _, ok := picked[option]; ok {
			out = append(out, i)
		}
	}
	return out
}

func optionsAt(options []string, indexes []int) []string {
	var out []string
	for _, idx := range indexes {
		if idx >= 0 && idx < len(options) {
			out = append(out, options[idx])
		}
	}
	return out
}
