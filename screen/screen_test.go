// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package screen

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/prototui/layertable"
	"github.com/jeranaias/prototui/panel"
)

var serviceColumns = []string{"Name", "Status"}

func serviceRows() []layertable.Row {
	return []layertable.Row{
		{Key: "web-1", Layer: "production", Values: map[string]string{"Name": "web-1", "Status": "running"}},
		{Key: "db-1", Layer: "production", Values: map[string]string{"Name": "db-1", "Status": "running"}},
		{Key: "web-2", Layer: "staging", Values: map[string]string{"Name": "web-2", "Status": "stopped"}},
	}
}

// runCmd executes a command and returns its message, failing on nil.
func runCmd(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command, got nil")
	}
	return cmd()
}

func pressKey(m Model, keyType tea.KeyType) (Model, tea.Cmd) {
	return m.Update(tea.KeyMsg{Type: keyType})
}

func pressRune(m Model, r rune) (Model, tea.Cmd) {
	return m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
}

func pressSpace(m Model) (Model, tea.Cmd) {
	return m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
}

func typeText(m Model, s string) Model {
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return m
}

// ===== CONSTRUCTION =====

func TestNew_FocusesFirstFocusableField(t *testing.T) {
	m := New("Deploy",
		WithFields(
			MessageField("note", "Read carefully."),
			TextField("name", "Name"),
			BoolField("force", "Force", false),
		),
	)

	if got := m.Title(); got != "Deploy" {
		t.Errorf("Title() = %q, want %q", got, "Deploy")
	}
	if got := m.FocusedID(); got != "name" {
		t.Errorf("FocusedID() = %q, want %q", got, "name")
	}
}

func TestNew_NoFocusableFields(t *testing.T) {
	m := New("Info", WithFields(MessageField("m1", "hello")))

	if got := m.FocusedID(); got != "" {
		t.Errorf("FocusedID() = %q, want empty", got)
	}

	m, cmd := pressKey(m, tea.KeyTab)
	if cmd != nil {
		t.Error("tab with no focusable fields should be a no-op")
	}
	if got := m.FocusedID(); got != "" {
		t.Errorf("FocusedID() after tab = %q, want empty", got)
	}
}

// ===== FOCUS CYCLING =====

func TestTab_CyclesAndWraps(t *testing.T) {
	m := New("Form",
		WithFields(
			TextField("a", "A"),
			MessageField("note", "static"),
			BoolField("b", "B", false),
			TextField("c", "C"),
		),
	)

	for _, want := range []string{"b", "c", "a"} {
		m, _ = pressKey(m, tea.KeyTab)
		if got := m.FocusedID(); got != want {
			t.Fatalf("FocusedID() after tab = %q, want %q", got, want)
		}
	}

	m, _ = pressKey(m, tea.KeyShiftTab)
	if got := m.FocusedID(); got != "c" {
		t.Errorf("FocusedID() after shift+tab = %q, want %q", got, "c")
	}
}

func TestTab_NothingFocusedPicksFirstOrLast(t *testing.T) {
	m := New("Form", WithFields(TextField("a", "A"), TextField("b", "B")))

	m, _ = pressKey(m, tea.KeyEsc)
	if got := m.FocusedID(); got != "" {
		t.Fatalf("FocusedID() after esc = %q, want empty", got)
	}

	m, _ = pressKey(m, tea.KeyTab)
	if got := m.FocusedID(); got != "a" {
		t.Errorf("tab from nothing focused = %q, want %q", got, "a")
	}

	m, _ = pressKey(m, tea.KeyEsc)
	m, _ = pressKey(m, tea.KeyShiftTab)
	if got := m.FocusedID(); got != "b" {
		t.Errorf("shift+tab from nothing focused = %q, want %q", got, "b")
	}
}

// ===== CANCEL =====

func TestEsc_UnfocusesThenCancels(t *testing.T) {
	m := New("Form", WithFields(TextField("a", "A")))

	m, cmd := pressKey(m, tea.KeyEsc)
	if cmd != nil {
		t.Fatal("unfocusing should not emit a command")
	}
	if m.Finished() {
		t.Fatal("unfocusing should not finish the screen")
	}

	m, cmd = pressKey(m, tea.KeyEsc)
	out := runCmd(t, cmd)
	msg, ok := out.(CancelMsg)
	if !ok {
		t.Fatalf("expected CancelMsg, got %T", out)
	}
	if msg.Result.Confirmed {
		t.Error("cancel should not be confirmed")
	}
	if len(msg.Result.Values) != 0 {
		t.Errorf("cancel values = %v, want empty", msg.Result.Values)
	}
	if !m.Finished() {
		t.Error("Finished() = false after cancel")
	}
	if m.Result().Confirmed {
		t.Error("Result().Confirmed = true after cancel")
	}
}

// ===== SUBMIT =====

func TestSubmit_CollectsValues(t *testing.T) {
	name := TextField("name", "Name")
	name.DefaultValue = "api"
	m := New("Create",
		WithFields(
			name,
			BoolField("migrate", "Run migrations", true),
			TableField("svc", serviceColumns, serviceRows()),
		),
	)

	_, cmd := pressKey(m, tea.KeyEnter)
	out := runCmd(t, cmd)
	msg, ok := out.(SubmitMsg)
	if !ok {
		t.Fatalf("expected SubmitMsg, got %T", out)
	}
	if !msg.Result.Confirmed {
		t.Error("submit should be confirmed")
	}
	if got, _ := msg.Result.Values["name"].(string); got != "api" {
		t.Errorf("name = %q, want %q", got, "api")
	}
	if got, _ := msg.Result.Values["migrate"].(bool); !got {
		t.Error("migrate = false, want true")
	}
	rows, ok := msg.Result.Values["svc"].([]layertable.Row)
	if !ok {
		t.Fatalf("svc value is %T, want []layertable.Row", msg.Result.Values["svc"])
	}
	if len(rows) != 0 {
		t.Errorf("radio table without a pick selected %d rows, want 0", len(rows))
	}
}

func TestSubmit_TypedTextIsCollected(t *testing.T) {
	m := New("Create", WithFields(TextField("name", "Name")))

	m = typeText(m, "hello")
	m, _ = pressSpace(m)
	m = typeText(m, "world")

	_, cmd := pressKey(m, tea.KeyEnter)
	msg := runCmd(t, cmd).(SubmitMsg)
	if got, _ := msg.Result.Values["name"].(string); got != "hello world" {
		t.Errorf("name = %q, want %q", got, "hello world")
	}
}

// ===== VALIDATION =====

func TestValidation_ShowsAndClearsErrors(t *testing.T) {
	name := TextField("name", "Name")
	name.Required = true
	svc := TableField("svc", serviceColumns, serviceRows())
	svc.Required = true
	m := New("Create",
		WithFields(name, svc),
		WithExplanation("Help", "Pick a service.", "Tab moves"),
	)

	m, cmd := pressKey(m, tea.KeyEnter)
	if cmd != nil {
		t.Fatal("failed validation should not emit a command")
	}
	if m.Finished() {
		t.Fatal("failed validation should not finish the screen")
	}
	if got := m.explanation.Title(); got != "Validation Error" {
		t.Errorf("panel title = %q, want %q", got, "Validation Error")
	}
	content := m.explanation.Content()
	if !strings.Contains(content, "Please fix the following errors:") {
		t.Errorf("panel content missing preamble: %q", content)
	}
	if !strings.Contains(content, "• Name is required") {
		t.Errorf("panel content missing labeled error: %q", content)
	}
	if !strings.Contains(content, "• svc is required") {
		t.Errorf("panel content should fall back to the field ID: %q", content)
	}
	if got := m.explanation.Hint(); got != "Fix errors and try again" {
		t.Errorf("panel hint = %q, want %q", got, "Fix errors and try again")
	}
	if !m.fields[0].invalid || !m.fields[1].invalid {
		t.Error("failing fields should be marked invalid")
	}

	// Fix both and resubmit.
	m = typeText(m, "api")
	m.Table("svc").SelectRowsByLayer("production")

	m, cmd = pressKey(m, tea.KeyEnter)
	msg := runCmd(t, cmd).(SubmitMsg)
	if got := m.explanation.Title(); got != "Help" {
		t.Errorf("panel title after success = %q, want %q", got, "Help")
	}
	if got := m.explanation.Content(); got != "Pick a service." {
		t.Errorf("panel content after success = %q, want %q", got, "Pick a service.")
	}
	if m.fields[0].invalid || m.fields[1].invalid {
		t.Error("invalid marks should clear on success")
	}
	rows := msg.Result.Values["svc"].([]layertable.Row)
	if len(rows) != 1 || rows[0].Key != "db-1" {
		t.Errorf("svc rows = %v, want the first production row", rows)
	}
}

// ===== BOOLEAN FIELDS =====

func TestBoolField_SpaceToggles(t *testing.T) {
	m := New("Options", WithFields(BoolField("force", "Force", false)))

	m, cmd := pressSpace(m)
	if cmd != nil {
		t.Error("toggling should not emit a command")
	}
	if got, _ := m.Values()["force"].(bool); !got {
		t.Error("force = false after toggle, want true")
	}

	m, _ = pressSpace(m)
	if got, _ := m.Values()["force"].(bool); got {
		t.Error("force = true after second toggle, want false")
	}
}

// ===== TABLE AUTO-SUBMIT =====

func TestRowSelected_SingleSelectAutoSubmits(t *testing.T) {
	svc := TableField("svc", serviceColumns, serviceRows())
	svc.SelectMode = layertable.SelectSingle
	m := New("Pick", WithFields(svc))

	// The program loop would deliver this after the table reports a
	// selection.
	m, cmd := m.Update(layertable.RowSelectedMsg{Key: "db-1"})
	msg := runCmd(t, cmd).(SubmitMsg)
	if !msg.Result.Confirmed {
		t.Error("row selection should confirm the screen")
	}
	rows := msg.Result.Values["svc"].([]layertable.Row)
	if len(rows) != 1 || rows[0].Key != "db-1" {
		t.Errorf("svc rows = %v, want the highlighted row", rows)
	}
	if !m.Finished() {
		t.Error("Finished() = false after auto-submit")
	}
}

func TestRowSelected_RadioDoesNotAutoSubmit(t *testing.T) {
	m := New("Pick", WithFields(TableField("svc", serviceColumns, serviceRows())))

	m, cmd := m.Update(layertable.RowSelectedMsg{Key: "db-1"})
	if cmd != nil {
		t.Error("radio selection should not submit the screen")
	}
	if m.Finished() {
		t.Error("Finished() = true, want false")
	}
}

// ===== FIELD VISIBILITY =====

func TestSetFieldVisibility(t *testing.T) {
	adv := TextField("advanced", "Advanced options")
	adv.Required = true
	adv.InitiallyHidden = true
	m := New("Deploy", WithFields(TextField("name", "Name"), adv))

	if got := m.FocusedID(); got != "name" {
		t.Fatalf("FocusedID() = %q, want %q", got, "name")
	}

	// Hidden fields do not block submission but are still collected.
	_, cmd := pressKey(m, tea.KeyEnter)
	msg := runCmd(t, cmd).(SubmitMsg)
	if !msg.Result.Confirmed {
		t.Error("hidden required field should not block submission")
	}
	if _, ok := msg.Result.Values["advanced"]; !ok {
		t.Error("hidden fields should still be collected")
	}

	// Revealing with toggleRequired restores the required flag.
	if !m.SetFieldVisibility("advanced", true, true) {
		t.Fatal("SetFieldVisibility returned false for a known ID")
	}
	m, cmd = pressKey(m, tea.KeyEnter)
	if cmd != nil {
		t.Fatal("revealed required field should fail validation")
	}
	if got := m.explanation.Title(); got != "Validation Error" {
		t.Errorf("panel title = %q, want %q", got, "Validation Error")
	}
	if !strings.Contains(m.explanation.Content(), "• Advanced options is required") {
		t.Errorf("panel content = %q, missing revealed field error", m.explanation.Content())
	}

	if m.SetFieldVisibility("missing", true, true) {
		t.Error("SetFieldVisibility returned true for an unknown ID")
	}

	// Hiding the focused field blurs it.
	m.SetFieldVisibility("name", false, false)
	if got := m.FocusedID(); got != "" {
		t.Errorf("FocusedID() after hiding the focused field = %q, want empty", got)
	}
	m, _ = pressKey(m, tea.KeyTab)
	if got := m.FocusedID(); got != "advanced" {
		t.Errorf("FocusedID() after tab = %q, want %q", got, "advanced")
	}
}

// ===== CONFIRMATION =====

func TestConfirmation_YesAndNo(t *testing.T) {
	m := NewConfirmation("Delete service?", "This cannot be undone.")

	if got := m.explanation.Title(); got != "Confirmation" {
		t.Errorf("panel title = %q, want %q", got, "Confirmation")
	}
	if got := m.explanation.Content(); got != "Please confirm your choice." {
		t.Errorf("panel content = %q", got)
	}
	if got := m.explanation.Hint(); got != "Press Y for Yes or N for No" {
		t.Errorf("panel hint = %q", got)
	}

	// Enter must not confirm.
	pressed, cmd := pressKey(m, tea.KeyEnter)
	if cmd != nil {
		t.Fatal("enter should be disabled on confirmations")
	}
	if pressed.Finished() {
		t.Fatal("enter should not finish a confirmation")
	}

	yes, cmd := pressRune(m, 'y')
	msg := runCmd(t, cmd).(SubmitMsg)
	if !msg.Result.Confirmed {
		t.Error("Y should confirm")
	}
	if !yes.Finished() {
		t.Error("Finished() = false after Y")
	}

	no, cmd := pressRune(m, 'N')
	cancel := runCmd(t, cmd).(CancelMsg)
	if cancel.Result.Confirmed {
		t.Error("N should not confirm")
	}
	if !no.Finished() {
		t.Error("Finished() = false after N")
	}
}

func TestConfirmation_EscCancels(t *testing.T) {
	m := NewConfirmation("Delete?", "Gone forever.")

	_, cmd := pressKey(m, tea.KeyEsc)
	out := runCmd(t, cmd)
	msg, ok := out.(CancelMsg)
	if !ok {
		t.Fatalf("expected CancelMsg, got %T", out)
	}
	if msg.Result.Confirmed {
		t.Error("esc should not confirm")
	}
}

// ===== FILTERABLE TABLES =====

func TestFilteringTable_OwnsTabAndEsc(t *testing.T) {
	svc := TableField("svc", serviceColumns, serviceRows())
	svc.Filterable = true
	m := New("Pick", WithFields(svc, TextField("note", "Note")))

	m, _ = pressRune(m, '/')
	m, _ = pressKey(m, tea.KeyTab)
	if got := m.FocusedID(); got != "svc" {
		t.Fatalf("tab while filtering moved focus to %q, want it kept on the table", got)
	}

	// The filter closed, so tab cycles fields again.
	m, _ = pressKey(m, tea.KeyTab)
	if got := m.FocusedID(); got != "note" {
		t.Fatalf("FocusedID() = %q, want %q", got, "note")
	}

	m, _ = pressKey(m, tea.KeyShiftTab)
	m, _ = pressRune(m, '/')
	m = typeText(m, "web")
	m, _ = pressKey(m, tea.KeyEsc)
	if got := m.FocusedID(); got != "svc" {
		t.Fatalf("esc while filtering should clear the filter, not blur the field (focused %q)", got)
	}

	m, _ = pressKey(m, tea.KeyEsc)
	if got := m.FocusedID(); got != "" {
		t.Errorf("second esc should blur the field, focused %q", got)
	}
}

// ===== VIEW =====

func TestView_ShowsAllSections(t *testing.T) {
	m := New("Deploy Service",
		WithMessage("Pick a target."),
		WithFields(
			TextField("tag", "Image tag"),
			BoolField("migrate", "Run migrations", false),
			TableField("svc", serviceColumns, serviceRows()),
		),
		WithExplanation("Deploy", "Deploys the selected target.", "Enter submits"),
		WithSize(120, 40),
	)

	view := m.View()
	for _, want := range []string{
		"Deploy Service",
		"Pick a target.",
		"Image tag",
		"Run migrations",
		"[No] (Press Space to toggle)",
		"── production ──",
		"web-1",
		"Deploys the selected target.",
		"Enter", "Submit", "Cancel",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestView_HiddenFieldOmitted(t *testing.T) {
	secret := TextField("secret", "Secret token")
	secret.InitiallyHidden = true
	m := New("Form",
		WithFields(TextField("name", "Name"), secret),
		WithSize(100, 30),
	)

	if strings.Contains(m.View(), "Secret token") {
		t.Error("hidden field label rendered")
	}

	m.SetFieldVisibility("secret", true, false)
	if !strings.Contains(m.View(), "Secret token") {
		t.Error("revealed field label not rendered")
	}
}

func TestView_ConfirmationFooter(t *testing.T) {
	m := NewConfirmation("Delete?", "Gone forever.")

	view := m.View()
	for _, want := range []string{"Delete?", "Gone forever.", "yes", "no"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if strings.Contains(view, "Submit") {
		t.Error("confirmation footer should not offer Submit")
	}
}

func TestView_CustomLabels(t *testing.T) {
	m := New("Form",
		WithFields(TextField("a", "A"), TextField("b", "B")),
		WithSubmitLabel("Deploy"),
		WithCancelLabel("Abort"),
	)

	view := m.View()
	for _, want := range []string{"Deploy", "Abort", "next field"} {
		if !strings.Contains(view, want) {
			t.Errorf("footer missing %q", want)
		}
	}
}

// ===== SIZING =====

func TestSetSize_ResizesPanel(t *testing.T) {
	m := New("Form", WithFields(TextField("a", "A")), WithSize(100, 30))

	m.SetSize(150, 45)
	if got := m.explanation.Width(); got != 60 {
		t.Errorf("panel width = %d, want 60", got)
	}
	if got := m.explanation.Height(); got != 43 {
		t.Errorf("panel height = %d, want 43", got)
	}

	m, _ = m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	if got := m.explanation.Width(); got != 48 {
		t.Errorf("panel width after WindowSizeMsg = %d, want 48", got)
	}
}

func TestSetSize_NarrowDropsPanel(t *testing.T) {
	m := New("Form",
		WithFields(TextField("a", "A")),
		WithExplanation("Guidance", "Everything you need to know.", "Tab moves"),
		WithSize(50, 20),
	)

	view := m.View()
	if strings.Contains(view, "Guidance") {
		t.Error("narrow view still renders the explanation panel")
	}
	if !strings.Contains(view, "Form") {
		t.Error("narrow view missing the main column")
	}

	// Widening past the narrow cutoff brings the panel back.
	m, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	view = m.View()
	if !strings.Contains(view, "Guidance") {
		t.Error("medium view missing the explanation panel")
	}
	if got := m.explanation.Width(); got != 32 {
		t.Errorf("panel width = %d, want 32", got)
	}
}

// ===== EXPLANATION UPDATES =====

func TestUpdateExplanation_PartialUpdate(t *testing.T) {
	m := New("Form", WithExplanation("T", "C", "H"))

	m.UpdateExplanation(panel.WithContent("new content"))
	if got := m.explanation.Content(); got != "new content" {
		t.Errorf("panel content = %q, want %q", got, "new content")
	}
	if got := m.explanation.Title(); got != "T" {
		t.Errorf("panel title = %q, want it untouched", got)
	}
}

// ===== RUNNER =====

func TestRun_NotTerminal(t *testing.T) {
	_, err := Run(context.Background(), New("Form"))
	if !errors.Is(err, ErrNotTerminal) {
		t.Fatalf("err = %v, want ErrNotTerminal", err)
	}
}
