package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ib-77/relay/pkg/relay/channel"
)

const maxVisibleLines = 10

type lineMsg string

type progressMsg struct {
	done, total int
}

type finishedMsg struct {
	summary string
	err     error
}

// tuiReporter forwards scenario events to the bubbletea program through a
// relay channel; the model is its single consumer.
type tuiReporter struct {
	tx *channel.Sender[tea.Msg]
}

func (r *tuiReporter) Line(s string) {
	_ = r.tx.TrySend(lineMsg(s))
}

func (r *tuiReporter) Progress(done, total int) {
	_ = r.tx.TrySend(progressMsg{done: done, total: total})
}

func (r *tuiReporter) finish(summary string, err error) {
	_ = r.tx.TrySend(finishedMsg{summary: summary, err: err})
}

type model struct {
	title    string
	events   *channel.Receiver[tea.Msg]
	styles   styles
	bar      progress.Model
	lines    []string
	done     int
	total    int
	finished *finishedMsg
}

func newModel(title string, events *channel.Receiver[tea.Msg], s styles) model {
	return model{
		title:  title,
		events: events,
		styles: s,
		bar:    progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
	}
}

// waitForEvent blocks on the next scenario event. It is re-armed after each
// event, so at most one receive is in flight.
func waitForEvent(events *channel.Receiver[tea.Msg]) tea.Cmd {
	return func() tea.Msg {
		msg, err := events.Recv(context.Background())
		if err != nil {
			return nil
		}
		return msg
	}
}

func (m model) Init() tea.Cmd {
	return waitForEvent(m.events)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		}
		return m, nil
	case lineMsg:
		m.lines = append(m.lines, string(msg))
		if len(m.lines) > maxVisibleLines {
			m.lines = m.lines[len(m.lines)-maxVisibleLines:]
		}
		return m, waitForEvent(m.events)
	case progressMsg:
		m.done, m.total = msg.done, msg.total
		return m, waitForEvent(m.events)
	case finishedMsg:
		m.finished = &msg
		return m, tea.Quit
	}
	return m, nil
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(m.styles.title.Render(m.title))
	b.WriteString("\n\n")
	for _, l := range m.lines {
		b.WriteString(m.styles.line.Render(l))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	percent := 0.0
	if m.total > 0 {
		percent = float64(m.done) / float64(m.total)
	}
	b.WriteString(m.bar.ViewAs(percent))
	b.WriteString(m.styles.faint.Render(fmt.Sprintf("  %d/%d", m.done, m.total)))
	b.WriteString("\n")

	switch {
	case m.finished == nil:
		b.WriteString(m.styles.faint.Render("q to quit"))
	case m.finished.err != nil:
		b.WriteString(m.styles.fail.Render("failed: " + m.finished.summary))
	default:
		b.WriteString(m.styles.ok.Render(m.finished.summary))
	}
	b.WriteString("\n")
	return b.String()
}

func runTUI(ctx context.Context, cfg Config, w io.Writer, s styles) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	tx, rx := channel.Unbounded[tea.Msg]()
	rep := &tuiReporter{tx: tx}

	errCh := make(chan error, 1)
	go func() {
		defer tx.Close()
		summary, err := runScenario(ctx, cfg, rep)
		rep.finish(summary, err)
		errCh <- err
	}()

	prog := tea.NewProgram(newModel(fmt.Sprintf("relay %s", cfg.Scenario), rx, s), tea.WithOutput(w))
	_, runErr := prog.Run()

	// quitting early: stop the scenario and drop pending events
	cancel()
	rx.Close()

	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return runErr
}
