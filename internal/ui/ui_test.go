package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestNew_ModeDetection(t *testing.T) {
	var buf bytes.Buffer

	if u := New(&buf, &buf, "json"); !u.IsJSON() {
		t.Errorf("format json: mode = %v, want OutputModeJSON", u.Mode)
	}

	u := New(&buf, &buf, "terminal")
	if u.Mode != OutputModePlain {
		t.Errorf("non-TTY writer: mode = %v, want OutputModePlain", u.Mode)
	}
	if u.Styles.Enabled() {
		t.Error("styles enabled for non-TTY output")
	}
	if u.Styles.IconSuccess != "OK:" {
		t.Errorf("IconSuccess = %q, want ASCII fallback", u.Styles.IconSuccess)
	}
}

func TestUI_Warn(t *testing.T) {
	var out, errOut bytes.Buffer
	u := New(&out, &errOut, "terminal")

	u.Warn("hints reference level %d", 9)
	if out.Len() != 0 {
		t.Errorf("warning written to stdout: %q", out.String())
	}
	if got := errOut.String(); got != "WARN: hints reference level 9\n" {
		t.Errorf("stderr = %q", got)
	}
}

func TestParseStoriesInput(t *testing.T) {
	tests := []struct {
		in      string
		want    int // -1 for nil
		wantErr bool
	}{
		{"", -1, false},
		{"   ", -1, false},
		{"12", 12, false},
		{" 0 ", 0, false},
		{"-3", -1, true},
		{"ten", -1, true},
		{"1.5", -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStoriesInput(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseStoriesInput(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			switch {
			case tt.want < 0 && got != nil:
				t.Errorf("ParseStoriesInput(%q) = %d, want nil", tt.in, *got)
			case tt.want >= 0 && (got == nil || *got != tt.want):
				t.Errorf("ParseStoriesInput(%q) = %v, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func typeText(m tea.Model, s string) tea.Model {
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return m
}

func pressEnter(m tea.Model) (tea.Model, tea.Cmd) {
	return m.Update(tea.KeyMsg{Type: tea.KeyEnter})
}

func TestPromptModel_Flow(t *testing.T) {
	var gotDesc string
	var gotStories *int
	calls := 0
	detect := func(description string, stories *int) (string, error) {
		calls++
		gotDesc, gotStories = description, stories
		return "Level 0", nil
	}

	var m tea.Model = NewPromptModel(detect, NewStyles(false))

	m = typeText(m, "fix login bug")
	m, _ = pressEnter(m)
	if pm := m.(PromptModel); pm.step != stepStories || pm.pending != "fix login bug" {
		t.Fatalf("after description: step = %v, pending = %q", pm.step, pm.pending)
	}
	if !strings.Contains(m.View(), "Estimated stories") {
		t.Errorf("View() = %q, want stories prompt", m.View())
	}

	m = typeText(m, "3")
	m, cmd := pressEnter(m)
	if calls != 1 {
		t.Fatalf("detect called %d times, want 1", calls)
	}
	if gotDesc != "fix login bug" || gotStories == nil || *gotStories != 3 {
		t.Errorf("detect(%q, %v), want (fix login bug, 3)", gotDesc, gotStories)
	}
	if cmd == nil {
		t.Error("submit returned no command to print the result")
	}
	if pm := m.(PromptModel); pm.step != stepDescription || pm.description.Value() != "" {
		t.Errorf("prompt not reset: step = %v, value = %q", pm.step, pm.description.Value())
	}
}

func TestPromptModel_InvalidStories(t *testing.T) {
	calls := 0
	detect := func(string, *int) (string, error) {
		calls++
		return "", errors.New("unused")
	}

	var m tea.Model = NewPromptModel(detect, NewStyles(false))
	m = typeText(m, "add a module")
	m, _ = pressEnter(m)
	m = typeText(m, "lots")
	m, _ = pressEnter(m)

	if calls != 0 {
		t.Errorf("detect called with invalid stories")
	}
	pm := m.(PromptModel)
	if pm.step != stepStories || pm.errMsg == "" {
		t.Errorf("step = %v, errMsg = %q; want to stay on stories with an error", pm.step, pm.errMsg)
	}
}

func TestPromptModel_Exit(t *testing.T) {
	detect := func(string, *int) (string, error) { return "", nil }

	var m tea.Model = NewPromptModel(detect, NewStyles(false))
	m = typeText(m, "EXIT")
	m, cmd := pressEnter(m)

	if !m.(PromptModel).quitting {
		t.Error("quitting = false after exit")
	}
	if cmd == nil {
		t.Fatal("exit returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("exit command is not tea.Quit")
	}
	if m.View() != "" {
		t.Errorf("View() = %q after quit, want empty", m.View())
	}
}

func TestPromptModel_EmptyDescriptionIgnored(t *testing.T) {
	detect := func(string, *int) (string, error) { return "", nil }

	var m tea.Model = NewPromptModel(detect, NewStyles(false))
	m, _ = pressEnter(m)
	if m.(PromptModel).step != stepDescription {
		t.Error("empty description advanced the prompt")
	}
}

func TestScanModel_Tally(t *testing.T) {
	var m tea.Model = newScanModel(NewStyles(false))

	msgs := []tea.Msg{
		stageMsg(StageClassify),
		totalMsg(4),
		classifiedMsg{level: 2},
		classifiedMsg{level: 0},
		classifiedMsg{level: 2},
		classifiedMsg{level: -1, failed: true},
	}
	for _, msg := range msgs {
		m, _ = m.Update(msg)
	}

	sm := m.(scanModel)
	if sm.done != 4 || sm.failed != 1 {
		t.Errorf("done = %d, failed = %d, want 4 and 1", sm.done, sm.failed)
	}
	if got, want := sm.tally(), "L0 1  L2 2  failed 1"; got != want {
		t.Errorf("tally() = %q, want %q", got, want)
	}
	if view := sm.View(); !strings.Contains(view, "4/4") {
		t.Errorf("View() = %q, want a 4/4 counter", view)
	}

	m, cmd := m.Update(finishMsg{})
	if cmd == nil || m.View() != "" {
		t.Error("finish should quit and clear the view")
	}
}

func TestProgressController_NilSafe(t *testing.T) {
	var buf bytes.Buffer
	u := New(&buf, &buf, "terminal")

	pc := u.StartProgress()
	if pc != nil {
		t.Fatal("StartProgress() outside a terminal should return nil")
	}
	pc.SetStage(StageClassify)
	pc.SetFileCount(1)
	pc.FileStart("brief.md")
	pc.FileDone(1, false)
	pc.Done()

	s := u.StartSpinner("Estimating...")
	s.Stop()
	if !strings.Contains(buf.String(), "Estimating...") {
		t.Errorf("plain spinner output = %q", buf.String())
	}
}
