package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/boardwatch/internal/poller"
)

type scanDoneMsg struct {
	scan poller.Scan
	err  error
}

type loaderModel struct {
	boardName string
	scanFn    func(ctx context.Context) (poller.Scan, error)
	spinner   spinner.Model
	result    poller.Scan
	err       error
	done      bool
}

func (m loaderModel) Init() tea.Cmd {
	return tea.Batch(m.doScan(), m.spinner.Tick)
}

func (m loaderModel) doScan() tea.Cmd {
	scanFn := m.scanFn
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		scan, err := scanFn(ctx)
		return scanDoneMsg{scan: scan, err: err}
	}
}

func (m loaderModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case scanDoneMsg:
		m.result = msg.scan
		m.err = msg.err
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.done = true
			m.err = fmt.Errorf("cancelled")
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m loaderModel) View() string {
	if m.done {
		return ""
	}
	return fmt.Sprintf("%s Fetching postings from %s...\n", m.spinner.View(), m.boardName)
}

// RunLoader shows a spinner while the listing is fetched and compared with
// history. It renders inline (no alt screen).
func RunLoader(boardName string, scanFn func(ctx context.Context) (poller.Scan, error)) (poller.Scan, error) {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))

	m := loaderModel{
		boardName: boardName,
		scanFn:    scanFn,
		spinner:   sp,
	}
	p := tea.NewProgram(m)
	result, err := p.Run()
	if err != nil {
		return poller.Scan{}, err
	}
	final := result.(loaderModel)
	return final.result, final.err
}
