package main

import (
	"context"
	"time"

	"helix/pkg/eventlog"
	"helix/pkg/tamarind"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// tickMsg drives the periodic refresh cycle.
type tickMsg time.Time

// jobsMsg carries the fetched Tamarind job listing.
type jobsMsg struct {
	jobs []tamarind.JobRecord
	err  error
}

// runsMsg carries recent agent runs from the event log.
type runsMsg struct {
	runs []eventlog.RunSummary
	err  error
}

// tickCmd returns a command that sends a tickMsg after the refresh interval.
func tickCmd() tea.Cmd {
	return tea.Tick(5*time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// fetchJobsCmd returns a tea.Cmd that fetches the Tamarind job listing.
func fetchJobsCmd() tea.Cmd {
	return func() tea.Msg {
		jobs, err := fetchJobs(context.Background())
		return jobsMsg{jobs: jobs, err: err}
	}
}

// fetchRunsCmd returns a tea.Cmd that fetches recent runs.
func fetchRunsCmd() tea.Cmd {
	return func() tea.Msg {
		runs, err := fetchRuns(context.Background())
		return runsMsg{runs: runs, err: err}
	}
}

// Model is the Bubble Tea model for the helix dashboard.
type Model struct {
	theme  Theme
	styles Styles

	jobs    []tamarind.JobRecord
	jobsErr error
	runs    []eventlog.RunSummary
	runsErr error

	loaded      bool
	lastRefresh time.Time
	spin        spinner.Model

	width  int
	height int
}

// newModel creates a Model with the default theme.
func newModel() Model {
	theme := DefaultTheme()
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(theme.Primary)
	return Model{
		theme:  theme,
		styles: NewStyles(theme),
		spin:   s,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, fetchJobsCmd(), fetchRunsCmd(), tickCmd(), watchEventsDB())
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "r":
			return m, tea.Batch(fetchJobsCmd(), fetchRunsCmd())
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case jobsMsg:
		m.jobs = msg.jobs
		m.jobsErr = msg.err
		m.loaded = true
		m.lastRefresh = time.Now()

	case runsMsg:
		m.runs = msg.runs
		m.runsErr = msg.err

	case tickMsg:
		return m, tea.Batch(fetchJobsCmd(), fetchRunsCmd(), tickCmd())

	case fsChangeMsg:
		// The event database changed under us; refresh runs and re-arm
		// the watcher.
		return m, tea.Batch(fetchRunsCmd(), watchEventsDB())

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	var sections []string

	header := m.styles.Title.Render("helix dashboard")
	if !m.loaded {
		header += "  " + m.spin.View() + m.styles.Muted.Render("loading...")
	} else {
		header += "  " + m.styles.Muted.Render("refreshed "+m.lastRefresh.Format("15:04:05")+"  (r: refresh, q: quit)")
	}
	sections = append(sections, header, "")

	sections = append(sections, m.styles.Header.Render("Tamarind jobs"))
	sections = append(sections, renderJobsTable(m.jobs, m.jobsErr, m.styles))
	sections = append(sections, "")

	sections = append(sections, m.styles.Header.Render("Recent runs"))
	sections = append(sections, renderRunsTable(m.runs, m.runsErr, m.styles))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
