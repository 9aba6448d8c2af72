package commands

import (
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

type doneMsg struct{}

type spinnerModel struct {
	spinner spinner.Model
	title   string
	done    bool
}

func (m spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case doneMsg:
		m.done = true
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m spinnerModel) View() string {
	if m.done {
		return ""
	}
	return m.spinner.View() + " " + m.title + "\n"
}

// withSpinner runs fn while drawing a spinner on stderr. Without a
// terminal fn simply runs.
func withSpinner(title string, fn func() error) error {
	if !isTerminal(os.Stderr) {
		return fn()
	}

	s := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(labelStyle))
	p := tea.NewProgram(spinnerModel{spinner: s, title: title},
		tea.WithOutput(os.Stderr),
		tea.WithInput(nil),
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- fn()
		p.Send(doneMsg{})
	}()

	// A failed render is cosmetic; fn's result is what matters.
	_, _ = p.Run()
	return <-errCh
}
