package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gerunddev/notion2md/internal/export"
	"github.com/gerunddev/notion2md/internal/styles"
)

// ViewKind selects what the detail pane shows for a page
type ViewKind int

const (
	ViewPreview ViewKind = iota
	ViewDiff
)

// PageViewFunc produces the detail pane content for a page
type PageViewFunc func(ctx context.Context, page export.PlannedPage, kind ViewKind) (string, error)

// PageViewMsg is sent when detail content is ready
type PageViewMsg struct {
	Content string
	Err     error
}

type pagesModel struct {
	ctx      context.Context
	table    table.Model
	viewport viewport.Model
	pages    []export.PlannedPage
	view     PageViewFunc

	selected *export.PlannedPage
	kind     ViewKind
	showing  bool
	loading  bool
	err      error
}

// statusText describes what an export would do with the page
func statusText(p export.PlannedPage) string {
	if p.Due {
		return "✓ due"
	}
	return "· " + p.Reason
}

func publishText(p export.PlannedPage) string {
	if p.Data.PublishedAt == nil {
		return "-"
	}
	return p.Data.PublishedAt.Format("2006-01-02")
}

func pageRows(pages []export.PlannedPage) []table.Row {
	rows := make([]table.Row, 0, len(pages))
	for _, p := range pages {
		rows = append(rows, table.Row{p.Data.Title, publishText(p), statusText(p), p.Dir})
	}
	return rows
}

func newPagesModel(ctx context.Context, pages []export.PlannedPage, view PageViewFunc) pagesModel {
	columns := []table.Column{
		{Title: "Title", Width: 40},
		{Title: "Publish", Width: 12},
		{Title: "Status", Width: 30},
		{Title: "Output", Width: 40},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(pageRows(pages)),
		table.WithFocused(true),
		table.WithHeight(20),
	)

	ts := table.DefaultStyles()
	ts.Header = ts.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	ts.Selected = ts.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(ts)

	vp := viewport.New(100, 20)
	vp.Style = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(1)

	return pagesModel{
		ctx:      ctx,
		table:    t,
		viewport: vp,
		pages:    pages,
		view:     view,
	}
}

func (m pagesModel) Init() tea.Cmd {
	return nil
}

func (m pagesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 8)
		m.viewport.Width = msg.Width - 4
		m.viewport.Height = msg.Height - 6

	case tea.KeyMsg:
		if m.showing {
			switch msg.String() {
			case "ctrl+c":
				return m, tea.Quit
			case "q", "esc":
				m.showing = false
				return m, nil
			default:
				m.viewport, cmd = m.viewport.Update(msg)
				return m, cmd
			}
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "enter", "p":
			return m.open(ViewPreview)
		case "d":
			return m.open(ViewDiff)
		default:
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case PageViewMsg:
		m.loading = false
		m.err = msg.Err
		m.viewport.SetContent(msg.Content)
		m.viewport.GotoTop()
		return m, nil
	}

	return m, nil
}

// open switches to the detail pane for the page under the cursor
func (m pagesModel) open(kind ViewKind) (tea.Model, tea.Cmd) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.pages) || m.view == nil {
		return m, nil
	}
	page := m.pages[idx]
	if kind == ViewDiff && !page.Due {
		return m, nil
	}

	m.selected = &page
	m.kind = kind
	m.showing = true
	m.loading = true
	m.err = nil
	m.viewport.SetContent("")

	ctx, view := m.ctx, m.view
	return m, func() tea.Msg {
		content, err := view(ctx, page, kind)
		return PageViewMsg{Content: content, Err: err}
	}
}

func (m pagesModel) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("notion2md pages"))
	b.WriteString("\n\n")

	if !m.showing {
		due := 0
		for _, p := range m.pages {
			if p.Due {
				due++
			}
		}
		b.WriteString(styles.InfoStyle.Render(fmt.Sprintf("Requested: %d, due: %d", len(m.pages), due)))
		b.WriteString("\n\n")
		b.WriteString(m.table.View())
		b.WriteString("\n\n")
		b.WriteString(styles.HelpStyle.Render("↑/k up • ↓/j down • enter/p preview • d diff • q quit"))
		b.WriteString("\n")
		return b.String()
	}

	label := "Preview"
	if m.kind == ViewDiff {
		label = "Diff"
	}
	b.WriteString(styles.HighlightStyle.Render(fmt.Sprintf("%s: %s", label, m.selected.Data.Title)))
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString(styles.DimStyle.Render("Rendering..."))
	case m.err != nil:
		b.WriteString(styles.Failure(m.err.Error()))
	default:
		b.WriteString(m.viewport.View())
	}
	b.WriteString("\n\n")
	b.WriteString(styles.HelpStyle.Render("↑/k up • ↓/j down • esc/q back"))
	b.WriteString("\n")
	return b.String()
}

// RunPages shows the page table until the user quits
func RunPages(ctx context.Context, pages []export.PlannedPage, view PageViewFunc) error {
	p := tea.NewProgram(newPagesModel(ctx, pages, view), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run page browser: %w", err)
	}
	return nil
}
