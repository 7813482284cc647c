package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// ProgressController drives the scan progress display. Every method is a
// no-op on a nil controller, which is what StartProgress returns when the
// output is not a terminal.
type ProgressController struct {
	program *tea.Program
	done    chan struct{}
}

// StartProgress starts the progress display on stderr in interactive mode
func (ui *UI) StartProgress() *ProgressController {
	if ui.Mode != OutputModeInteractive {
		return nil
	}
	p := tea.NewProgram(newScanModel(ui.Styles), tea.WithOutput(ui.ErrWriter), tea.WithInput(nil))
	return &ProgressController{program: p, done: runProgram(p)}
}

func (pc *ProgressController) send(msg tea.Msg) {
	if pc != nil {
		pc.program.Send(msg)
	}
}

// SetStage moves the display to the next stage
func (pc *ProgressController) SetStage(stage Stage) { pc.send(stageMsg(stage)) }

// SetOperation describes the work in progress
func (pc *ProgressController) SetOperation(op string) { pc.send(operationMsg(op)) }

// SetFileCount sets the number of documents to classify
func (pc *ProgressController) SetFileCount(count int) { pc.send(totalMsg(count)) }

// FileStart reports that a document is being classified
func (pc *ProgressController) FileStart(name string) {
	pc.send(operationMsg(fmt.Sprintf("Classifying %s...", name)))
}

// FileDone counts a finished document. Pass level -1 for documents that
// were skipped without a recommendation.
func (pc *ProgressController) FileDone(level int, failed bool) {
	pc.send(classifiedMsg{level: level, failed: failed})
}

// Done clears the display and waits for it to exit
func (pc *ProgressController) Done() {
	if pc != nil {
		pc.program.Send(finishMsg{})
		<-pc.done
	}
}

// Spinner shows a single message while a short operation runs
type Spinner struct {
	program *tea.Program
	done    chan struct{}
}

type spinnerModel struct {
	spinner  spinner.Model
	message  string
	quitting bool
}

func (m spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case finishMsg:
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m spinnerModel) View() string {
	if m.quitting {
		return ""
	}
	return m.spinner.View() + " " + m.message
}

// StartSpinner shows message with a spinner on stderr. Outside a terminal
// the message is printed once and nil is returned.
func (ui *UI) StartSpinner(message string) *Spinner {
	if ui.Mode != OutputModeInteractive {
		if ui.Mode == OutputModePlain {
			fmt.Fprintln(ui.ErrWriter, message)
		}
		return nil
	}

	s := spinner.New()
	s.Spinner = spinner.MiniDot
	s.Style = ui.Styles.Info

	p := tea.NewProgram(spinnerModel{spinner: s, message: message}, tea.WithOutput(ui.ErrWriter), tea.WithInput(nil))
	return &Spinner{program: p, done: runProgram(p)}
}

// Stop clears the spinner
func (s *Spinner) Stop() {
	if s != nil {
		s.program.Send(finishMsg{})
		<-s.done
	}
}

// runProgram runs p in the background and closes the returned channel when it exits
func runProgram(p *tea.Program) chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = p.Run()
	}()
	return done
}
