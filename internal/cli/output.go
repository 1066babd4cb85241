package cli

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

type styles struct {
	title lipgloss.Style
	line  lipgloss.Style
	ok    lipgloss.Style
	fail  lipgloss.Style
	faint lipgloss.Style
}

// newStyles binds the palette to w. Colors are dropped with noColor, on a
// dumb terminal, or when NO_COLOR is set.
func newStyles(w io.Writer, noColor bool) styles {
	r := lipgloss.NewRenderer(w)
	if noColor || os.Getenv("TERM") == "dumb" || os.Getenv("NO_COLOR") != "" {
		r.SetColorProfile(termenv.Ascii)
	}

	return styles{
		title: r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		line:  r.NewStyle().Foreground(lipgloss.Color("7")),
		ok:    r.NewStyle().Foreground(lipgloss.Color("10")),
		fail:  r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		faint: r.NewStyle().Faint(true),
	}
}

// plainReporter writes one styled line per event.
type plainReporter struct {
	mu     sync.Mutex
	w      io.Writer
	styles styles
}

func newPlainReporter(w io.Writer, s styles) *plainReporter {
	return &plainReporter{w: w, styles: s}
}

func (r *plainReporter) Title(s string) {
	r.println(r.styles.title.Render(s))
}

func (r *plainReporter) Line(s string) {
	r.println(r.styles.line.Render(s))
}

// Progress is not rendered in plain mode; every line already marks a step.
func (r *plainReporter) Progress(int, int) {}

func (r *plainReporter) Finish(summary string, err error) {
	r.println(r.styles.faint.Render("--------------------------------------------------"))
	if err != nil {
		r.println(r.styles.fail.Render("failed: " + summary))
		r.println(r.styles.fail.Render(err.Error()))
		return
	}
	r.println(r.styles.ok.Render(summary))
}

func (r *plainReporter) println(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.w, s)
}
