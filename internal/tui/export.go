package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gerunddev/notion2md/internal/export"
	"github.com/gerunddev/notion2md/internal/styles"
)

// exportModel is the Bubble Tea model for the export progress display
type exportModel struct {
	spinner  spinner.Model
	status   string
	current  int
	total    int
	complete bool
	result   *export.Result
	err      error
	cancel   context.CancelFunc
}

// ExportDoneMsg is sent when the export completes
type ExportDoneMsg struct {
	Result *export.Result
	Err    error
}

// ProgressMsg reports the page being processed
type ProgressMsg export.Progress

// newExportModel creates a new export progress model
func newExportModel(cancel context.CancelFunc) exportModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.SpinnerStyle

	return exportModel{
		spinner: s,
		status:  "Querying database...",
		cancel:  cancel,
	}
}

func (m exportModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m exportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.cancel != nil {
				m.cancel()
			}
			m.status = "Cancelling..."
			return m, nil
		}

	case ProgressMsg:
		m.current = msg.Index + 1
		m.total = msg.Total
		m.status = msg.Title
		return m, nil

	case ExportDoneMsg:
		m.complete = true
		m.result = msg.Result
		m.err = msg.Err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m exportModel) View() string {
	if m.complete {
		return Summary(m.result, m.err)
	}

	counter := ""
	if m.total > 0 {
		counter = styles.DimStyle.Render(fmt.Sprintf("[%d/%d] ", m.current, m.total))
	}
	return fmt.Sprintf("\n%s %s%s\n\n", m.spinner.View(), counter, m.status)
}

// Summary renders the outcome of an export run
func Summary(result *export.Result, err error) string {
	if err != nil {
		return styles.Failure("Export failed: "+err.Error()) + "\n"
	}

	took := styles.HelpStyle.Render(fmt.Sprintf("Completed in %v", result.EndTime.Sub(result.StartTime).Round(time.Millisecond)))

	verb := "Exported"
	if result.DryRun {
		verb = "Would export"
	}

	if result.Exported == 0 && len(result.Errors) == 0 {
		msg := styles.Success("Nothing to export")
		if result.Unchanged > 0 {
			msg += styles.DimStyle.Render(fmt.Sprintf(" (%d unchanged)", result.Unchanged))
		}
		return msg + "\n" + took + "\n"
	}

	msg := styles.Success(fmt.Sprintf("%s %d page(s)", verb, result.Exported))
	if result.Skipped > 0 {
		msg += ", " + styles.DimStyle.Render(fmt.Sprintf("%d skipped", result.Skipped))
	}
	if len(result.Errors) > 0 {
		msg += ", " + styles.ErrorStyle.Render(fmt.Sprintf("%d error(s)", len(result.Errors)))
	}
	msg += "\n"
	for _, path := range result.Written {
		msg += styles.DimStyle.Render("  "+path) + "\n"
	}
	for _, e := range result.Errors {
		msg += styles.ErrorStyle.Render("  "+e.Error()) + "\n"
	}
	return msg + took + "\n"
}

// RunExport runs fn under a spinner. fn receives a context cancelled when
// the user quits and a progress callback to pass to the exporter.
func RunExport(ctx context.Context, fn func(ctx context.Context, progress func(export.Progress)) (*export.Result, error)) (*export.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newExportModel(cancel))

	var result *export.Result
	var runErr error
	go func() {
		result, runErr = fn(ctx, func(pr export.Progress) {
			p.Send(ProgressMsg(pr))
		})
		p.Send(ExportDoneMsg{Result: result, Err: runErr})
	}()

	if _, err := p.Run(); err != nil {
		return nil, fmt.Errorf("failed to run progress display: %w", err)
	}
	return result, runErr
}
