package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/mapposter/pkg/pipeline"
)

// Progress view styles
var (
	barFilledStyle = lipgloss.NewStyle().Foreground(colorCyan)
	barEmptyStyle  = lipgloss.NewStyle().Foreground(colorDim)
	stageStyle     = lipgloss.NewStyle().Foreground(colorGray).Width(10)
)

const (
	barWidth      = 30
	frameInterval = 80 * time.Millisecond
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// =============================================================================
// ProgressModel - Live pipeline progress
// =============================================================================

// progressMsg carries a pipeline report into the bubbletea program.
type progressMsg pipeline.Progress

// doneMsg ends the program once the pipeline returns.
type doneMsg struct{ err error }

type tickMsg time.Time

// ProgressModel is the bubbletea model showing pipeline progress.
type ProgressModel struct {
	Title     string
	Current   pipeline.Progress
	Frame     int
	Done      bool
	Err       error
	Cancelled bool

	cancel context.CancelFunc
}

// NewProgressModel creates a progress model. cancel is called when the user
// interrupts the view.
func NewProgressModel(title string, cancel context.CancelFunc) ProgressModel {
	return ProgressModel{Title: title, cancel: cancel}
}

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m ProgressModel) Init() tea.Cmd {
	return tick()
}

func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.Cancelled = true
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}
	case progressMsg:
		m.Current = pipeline.Progress(msg)
	case doneMsg:
		m.Done, m.Err = true, msg.err
		if msg.err == nil {
			m.Current.Percent = 100
		}
		return m, tea.Quit
	case tickMsg:
		m.Frame++
		return m, tick()
	}
	return m, nil
}

func (m ProgressModel) View() string {
	if m.Done || m.Cancelled {
		return ""
	}
	var b strings.Builder
	frame := spinnerFrames[m.Frame%len(spinnerFrames)]
	b.WriteString(styleIconSpinner.Render(frame) + " " + StyleTitle.Render(m.Title) + "\n")
	b.WriteString("  " + progressBar(m.Current.Percent, barWidth) + " ")
	b.WriteString(StyleNumber.Render(fmt.Sprintf("%3d%%", m.Current.Percent)) + "  ")
	b.WriteString(stageStyle.Render(string(m.Current.Stage)))
	b.WriteString(StyleDim.Render(m.Current.Message) + "\n")
	return b.String()
}

// progressBar renders a bar width cells wide, percent full.
func progressBar(percent, width int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := percent * width / 100
	return barFilledStyle.Render(strings.Repeat("█", filled)) +
		barEmptyStyle.Render(strings.Repeat("░", width-filled))
}

// teaSink forwards pipeline progress to a running program.
type teaSink struct{ p *tea.Program }

func (s teaSink) Report(p pipeline.Progress) { s.p.Send(progressMsg(p)) }

// logSink reports progress as log lines when stderr is not a terminal.
func logSink(logger *log.Logger) pipeline.ProgressSink {
	return pipeline.ProgressFunc(func(p pipeline.Progress) {
		logger.Info(p.Message, "stage", p.Stage, "percent", p.Percent)
	})
}

// withProgress runs fn with a progress sink. On a terminal it shows the
// bubbletea view and holds back log output until the view closes;
// otherwise progress is logged.
func (c *CLI) withProgress(ctx context.Context, title string, fn func(context.Context, pipeline.ProgressSink) error) error {
	if !isTerminal(os.Stderr) {
		return fn(ctx, logSink(c.Logger))
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var held bytes.Buffer
	c.Logger.SetOutput(&held)
	defer func() {
		c.Logger.SetOutput(c.logOut)
		c.logOut.Write(held.Bytes())
	}()

	prog := tea.NewProgram(NewProgressModel(title, cancel),
		tea.WithOutput(os.Stderr), tea.WithContext(ctx))
	errc := make(chan error, 1)
	go func() {
		err := fn(ctx, teaSink{prog})
		prog.Send(doneMsg{err})
		errc <- err
	}()

	if _, err := prog.Run(); err != nil && ctx.Err() == nil {
		cancel()
		<-errc
		return err
	}
	return <-errc
}

// =============================================================================
// Tables
// =============================================================================

// renderTable draws rows under headers with the CLI's table styling.
// highlight, when non-negative, marks one row in the primary color.
func renderTable(headers []string, rows [][]string, highlight int) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case row == -1:
				return headerStyle.Padding(0, 1)
			case row == highlight:
				return base.Foreground(colorGreen).Bold(true)
			case col == 0:
				return base.Foreground(colorCyan)
			default:
				return base.Foreground(colorWhite)
			}
		})
	return t.Render()
}
