package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// DetectFunc classifies one description and returns the rendered report
type DetectFunc func(description string, stories *int) (string, error)

type promptStep int

const (
	stepDescription promptStep = iota
	stepStories
)

// PromptModel is the Bubbletea model for interactive detection. It asks for
// a description, then an optional story count, prints the rendered result
// above the prompt and starts over until the user types "exit".
type PromptModel struct {
	detect      DetectFunc
	styles      *Styles
	step        promptStep
	description textinput.Model
	stories     textinput.Model
	pending     string
	errMsg      string
	quitting    bool
}

// NewPromptModel creates a prompt that calls detect for every entry
func NewPromptModel(detect DetectFunc, styles *Styles) PromptModel {
	desc := textinput.New()
	desc.Placeholder = `project description (type "exit" to quit)`
	desc.Prompt = "Description: "
	desc.CharLimit = 2000
	desc.Width = 72
	desc.Focus()

	stories := textinput.New()
	stories.Placeholder = "optional, press enter to skip"
	stories.Prompt = "Estimated stories: "
	stories.CharLimit = 9
	stories.Width = 32

	return PromptModel{
		detect:      detect,
		styles:      styles,
		description: desc,
		stories:     stories,
	}
}

// Init initializes the model
func (m PromptModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages and updates the model
func (m PromptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.quitting = true
			return m, tea.Quit
		case tea.KeyEnter:
			return m.submit()
		}
	}

	var cmd tea.Cmd
	if m.step == stepDescription {
		m.description, cmd = m.description.Update(msg)
	} else {
		m.stories, cmd = m.stories.Update(msg)
	}
	return m, cmd
}

func (m PromptModel) submit() (tea.Model, tea.Cmd) {
	m.errMsg = ""

	if m.step == stepDescription {
		value := strings.TrimSpace(m.description.Value())
		if strings.EqualFold(value, "exit") {
			m.quitting = true
			return m, tea.Quit
		}
		if value == "" {
			return m, nil
		}
		m.pending = value
		m.step = stepStories
		m.description.Blur()
		return m, m.stories.Focus()
	}

	stories, err := ParseStoriesInput(m.stories.Value())
	if err != nil {
		m.errMsg = err.Error()
		return m, nil
	}

	out, err := m.detect(m.pending, stories)
	if err != nil {
		out = m.styles.Error.Render(fmt.Sprintf("%s %v", m.styles.IconError, err))
	}
	separator := m.styles.Separator.Render(strings.Repeat("─", 60))

	m.pending = ""
	m.step = stepDescription
	m.description.SetValue("")
	m.stories.SetValue("")
	m.stories.Blur()

	return m, tea.Sequence(
		tea.Println(out+"\n"+separator),
		m.description.Focus(),
	)
}

// View renders the model
func (m PromptModel) View() string {
	if m.quitting {
		return ""
	}

	var sb strings.Builder
	if m.step == stepDescription {
		sb.WriteString(m.description.View())
	} else {
		sb.WriteString(m.styles.Label.Render("Description: " + m.pending))
		sb.WriteString("\n")
		sb.WriteString(m.stories.View())
	}
	if m.errMsg != "" {
		sb.WriteString("\n")
		sb.WriteString(m.styles.Error.Render(m.errMsg))
	}
	sb.WriteString("\n")
	sb.WriteString(lipgloss.NewStyle().Faint(true).Render("enter to submit • esc to quit"))
	return sb.String()
}

// ParseStoriesInput parses an optional story count typed by the user.
// Empty input means no estimate.
func ParseStoriesInput(s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return nil, fmt.Errorf("estimated stories must be a non-negative whole number, got %q", s)
	}
	return &n, nil
}

// RunPrompt runs the interactive prompt until the user quits
func (ui *UI) RunPrompt(detect DetectFunc) error {
	p := tea.NewProgram(NewPromptModel(detect, ui.Styles), tea.WithOutput(ui.Writer))
	_, err := p.Run()
	return err
}
