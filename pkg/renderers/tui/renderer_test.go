package tui

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-lazyform/pkg/definition"
	"github.com/goliatone/go-lazyform/pkg/form"
	"github.com/goliatone/go-lazyform/pkg/loop"
	"github.com/goliatone/go-lazyform/pkg/session"
	"github.com/goliatone/go-lazyform/pkg/store"
)

type stubDriver struct {
	answers       []string
	choices       [][]int
	confirms      []bool
	askDefaults   []string
	notifications []string
	questions     []Question
	answerPos     int
	choicePos     int
	confirmPos    int
}

func (s *stubDriver) Ask(_ context.Context, q Question) (string, error) {
	if s.answerPos >= len(s.answers) {
		return "", errors.New("no answer scripted")
	}
	s.questions = append(s.questions, q)
	s.askDefaults = append(s.askDefaults, q.Default)
	val := s.answers[s.answerPos]
	s.answerPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ Question, _ bool) (bool, error) {
	if s.confirmPos >= len(s.confirms) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirms[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Choose(_ context.Context, _ Choice) ([]int, error) {
	if s.choicePos >= len(s.choices) {
		return nil, errors.New("no choice scripted")
	}
	val := s.choices[s.choicePos]
	s.choicePos++
	return val, nil
}

func (s *stubDriver) Notify(_ context.Context, msg string) error {
	s.notifications = append(s.notifications, msg)
	return nil
}

func pick(actions ...Action) [][]int {
	out := make([][]int, len(actions))
	for i, a := range actions {
		out[i] = []int{int(a)}
	}
	return out
}

func mountProfile(t *testing.T, r *Renderer, root map[string]any) *session.Session {
	t.Helper()
	def := definition.Definition{
		Name: "profile",
		Fields: []definition.Field{
			{Name: "name", Label: "Name", Required: true},
			{Name: "age", Type: definition.FieldTypeInteger},
		},
	}
	el, err := form.NewElement(def.Name, loop.New())
	if err != nil {
		t.Fatalf("new element: %v", err)
	}
	s, err := session.Mount(def, store.New(root), el, session.WithObserver(r.Observe))
	if err != nil {
		t.Fatalf("mount: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func TestRun_InvalidSubmitRollsBackThenCommits(t *testing.T) {
	driver := &stubDriver{
		answers: []string{"", "abc", "42", "Grace", "42"},
		choices: pick(ActionSubmit, ActionSubmit),
	}
	r, err := New(WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	s := mountProfile(t, r, map[string]any{"name": "Ada"})

	report, err := r.Run(context.Background(), s)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !report.Submitted || report.Rounds != 2 {
		t.Fatalf("unexpected report %+v", report)
	}
	if diff := cmp.Diff(map[string]any{"name": "Grace", "age": 42}, s.Model().Root()); diff != "" {
		t.Fatalf("model mismatch (-want +got):\n%s", diff)
	}
	// second round starts from the rolled back buffers
	if diff := cmp.Diff([]string{"Ada", "", "", "Ada", ""}, driver.askDefaults); diff != "" {
		t.Fatalf("prompt defaults mismatch (-want +got):\n%s", diff)
	}
	want := []string{"! Invalid age: expected integer", "! Invalid name: required", "Submitted"}
	if diff := cmp.Diff(want, driver.notifications); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_ResetThenQuitLeavesModelUntouched(t *testing.T) {
	driver := &stubDriver{
		answers: []string{"draft", "", "again", ""},
		choices: pick(ActionReset, ActionQuit),
	}
	r, err := New(WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	s := mountProfile(t, r, map[string]any{"name": "Ada"})

	report, err := r.Run(context.Background(), s)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !report.Quit || report.Submitted || len(report.Outcomes) != 1 || !report.Outcomes[0].RolledBack {
		t.Fatalf("unexpected report %+v", report)
	}
	if diff := cmp.Diff(map[string]any{"name": "Ada"}, s.Model().Root()); diff != "" {
		t.Fatalf("model changed (-want +got):\n%s", diff)
	}
	name, _ := s.Field("name")
	if name.Buffer() != "again" {
		t.Fatalf("quit should keep the pending buffer, got %v", name.Buffer())
	}
	if driver.askDefaults[2] != "Ada" {
		t.Fatalf("reset did not resync the buffer, default was %q", driver.askDefaults[2])
	}
}

func TestRun_PropagatesDriverErrors(t *testing.T) {
	r, _ := New(WithPromptDriver(&stubDriver{}))
	s := mountProfile(t, r, nil)
	if _, err := r.Run(context.Background(), s); err == nil {
		t.Fatalf("expected scripted driver error")
	}
}

func TestRun_MaxRounds(t *testing.T) {
	driver := &stubDriver{
		answers: []string{"", ""},
		choices: pick(ActionSubmit),
	}
	r, _ := New(WithPromptDriver(driver), WithMaxRounds(1))
	s := mountProfile(t, r, nil)
	report, err := r.Run(context.Background(), s)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.Submitted || report.Rounds != 1 {
		t.Fatalf("unexpected report %+v", report)
	}
}

func TestRun_FieldKindsStageTypedBuffers(t *testing.T) {
	driver := &stubDriver{
		answers:  []string{"s3cret"},
		choices:  [][]int{{1}, {0, 2}, {int(ActionQuit)}},
		confirms: []bool{true},
	}
	r, _ := New(WithPromptDriver(driver))
	def := definition.Definition{
		Name: "account",
		Fields: []definition.Field{
			{Name: "role", Enum: []any{"admin", "member"}},
			{Name: "tags", Type: definition.FieldTypeArray, Enum: []any{"a", "b", "c"}},
			{Name: "active", Type: definition.FieldTypeBoolean},
			{Name: "secret", Format: "password"},
		},
	}
	el, _ := form.NewElement(def.Name, loop.New())
	s, err := session.Mount(def, store.New(map[string]any{"secret": "old"}), el)
	if err != nil {
		t.Fatalf("mount: %v", err)
	}
	t.Cleanup(s.Close)

	if _, err := r.Run(context.Background(), s); err != nil {
		t.Fatalf("run: %v", err)
	}
	got := map[string]any{}
	for _, f := range s.Fields() {
		got[f.Name()] = f.Buffer()
	}
	want := map[string]any{"role": "member", "tags": []any{"a", "c"}, "active": true, "secret": "s3cret"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("buffers mismatch (-want +got):\n%s", diff)
	}
	if len(driver.questions) != 1 || driver.questions[0].Entry != EntrySecret || driver.questions[0].Default != "old" {
		t.Fatalf("unexpected secret question %+v", driver.questions)
	}
	if diff := cmp.Diff(map[string]any{"secret": "old"}, s.Model().Root()); diff != "" {
		t.Fatalf("quit must not touch the model (-want +got):\n%s", diff)
	}
}
