package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Stage represents the current stage of a scan
type Stage int

const (
	StageLoadConfig Stage = iota
	StageDiscover
	StageClassify
	StageDone
)

// Messages sent by ProgressController
type (
	stageMsg     Stage
	operationMsg string
	totalMsg     int
	classifiedMsg struct {
		level  int
		failed bool
	}
	finishMsg struct{}
)

// scanModel renders scan progress: a spinner while the catalog loads and
// documents are found, then a bar with a running tally per level.
type scanModel struct {
	stage    Stage
	spinner  spinner.Model
	bar      progress.Model
	muted    lipgloss.Style
	op       string
	total    int
	done     int
	failed   int
	byLevel  map[int]int
	quitting bool
}

func newScanModel(styles *Styles) scanModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Info

	return scanModel{
		stage:   StageLoadConfig,
		spinner: s,
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		muted:   styles.Subheader,
		byLevel: make(map[int]int),
	}
}

func (m scanModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m scanModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.bar.Width = min(msg.Width-4, 60)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case stageMsg:
		m.stage = Stage(msg)
		m.op = ""

	case operationMsg:
		m.op = string(msg)

	case totalMsg:
		m.total = int(msg)

	case classifiedMsg:
		m.done++
		if msg.failed {
			m.failed++
		} else if msg.level >= 0 {
			m.byLevel[msg.level]++
		}

	case finishMsg:
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

func (m scanModel) View() string {
	if m.quitting {
		return ""
	}

	var sb strings.Builder
	switch m.stage {
	case StageLoadConfig:
		sb.WriteString(m.spinner.View() + " Loading level catalog...")

	case StageDiscover:
		sb.WriteString(m.spinner.View() + " Finding briefs")
		if m.op != "" {
			sb.WriteString(" " + m.muted.Render(m.op))
		}

	case StageClassify:
		if m.total > 0 {
			sb.WriteString(m.bar.ViewAs(float64(m.done) / float64(m.total)))
			sb.WriteString(fmt.Sprintf(" %d/%d\n", m.done, m.total))
		}
		sb.WriteString(m.spinner.View() + " ")
		if m.op != "" {
			sb.WriteString(m.op)
		} else {
			sb.WriteString("Classifying...")
		}
		if tally := m.tally(); tally != "" {
			sb.WriteString("\n  " + m.muted.Render(tally))
		}
	}
	return sb.String()
}

// tally formats the running per-level counts, e.g. "L0 1  L2 3  failed 1"
func (m scanModel) tally() string {
	ids := make([]int, 0, len(m.byLevel))
	for id := range m.byLevel {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	parts := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		parts = append(parts, fmt.Sprintf("L%d %d", id, m.byLevel[id]))
	}
	if m.failed > 0 {
		parts = append(parts, fmt.Sprintf("failed %d", m.failed))
	}
	return strings.Join(parts, "  ")
}
