package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/bnema/cursor-spend-cli/internal/application"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type refreshDoneMsg struct {
	err error
}

// refreshStageMsg carries the step the refresh cycle just entered.
type refreshStageMsg struct {
	stage string
}

var stageStyle = lipgloss.NewStyle().Faint(true)

type refreshSpinnerModel struct {
	spinner spinner.Model
	label   string
	stage   string
	work    tea.Cmd
	err     error
	done    bool
}

func newRefreshSpinnerModel(label string, work tea.Cmd) refreshSpinnerModel {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
	)

	return refreshSpinnerModel{
		spinner: s,
		label:   label,
		work:    work,
	}
}

func (m refreshSpinnerModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.work)
}

func (m refreshSpinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case refreshStageMsg:
		m.stage = msg.stage
		return m, nil
	case refreshDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m refreshSpinnerModel) View() string {
	if m.done {
		return ""
	}

	if m.stage == "" {
		return fmt.Sprintf("%s %s", m.spinner.View(), m.label)
	}
	return fmt.Sprintf("%s %s %s", m.spinner.View(), m.label, stageStyle.Render("("+m.stage+")"))
}

// stageLabel is the spinner text for a refresh stage.
func stageLabel(stage application.RefreshStage) string {
	switch stage {
	case application.StageSession:
		return "reading session"
	case application.StageAccount:
		return "fetching account"
	case application.StageTeam:
		return "resolving team"
	case application.StageInvoice:
		return "fetching invoice"
	case application.StageRates:
		return "converting currency"
	default:
		return string(stage)
	}
}

// runWithSpinner shows label on output while work runs. work may call report
// to show the step it is on next to the label.
func runWithSpinner(ctx context.Context, output io.Writer, label string, work func(ctx context.Context, report func(stage string)) error) error {
	var p *tea.Program

	report := func(stage string) {
		p.Send(refreshStageMsg{stage: stage})
	}
	workCmd := func() tea.Msg {
		return refreshDoneMsg{err: work(ctx, report)}
	}

	p = tea.NewProgram(
		newRefreshSpinnerModel(label, workCmd),
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	)

	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	result, ok := finalModel.(refreshSpinnerModel)
	if !ok {
		return fmt.Errorf("unexpected final spinner model type %T", finalModel)
	}

	return result.err
}
