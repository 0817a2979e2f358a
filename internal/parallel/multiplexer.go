package parallel

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/sup/internal/exec"
	"github.com/rileyhilliard/sup/internal/ui"
)

// ChannelCapacity bounds the lines waiting to be printed. Sessions block
// on send while the channel is full.
const ChannelCapacity = 32

// Multiplexer prints lines from many concurrent sessions in arrival order,
// optionally prefixed with the host they came from. There is no reordering
// across hosts.
type Multiplexer struct {
	w             io.Writer
	disablePrefix bool

	hostStyle   lipgloss.Style
	stderrStyle lipgloss.Style
}

// NewMultiplexer creates a multiplexer writing to w.
func NewMultiplexer(w io.Writer, disablePrefix bool) *Multiplexer {
	return &Multiplexer{
		w:             w,
		disablePrefix: disablePrefix,
		hostStyle:     lipgloss.NewStyle().Foreground(ui.ColorSecondary),
		stderrStyle:   lipgloss.NewStyle().Foreground(ui.ColorWarning),
	}
}

// NewChannel returns a fresh bounded channel for one batch of sessions.
func NewChannel() chan exec.Line {
	return make(chan exec.Line, ChannelCapacity)
}

// Format renders one line as it will be printed.
func (m *Multiplexer) Format(l exec.Line) string {
	text := l.Text
	if l.Stderr {
		text = m.stderrStyle.Render("stderr:") + " " + l.Text
	}
	if m.disablePrefix {
		return text
	}
	return m.hostStyle.Render(l.Host) + " " + text
}

// Drain prints every line received until lines is closed and returns how
// many lines were printed.
func (m *Multiplexer) Drain(lines <-chan exec.Line) int {
	n := 0
	for l := range lines {
		fmt.Fprintln(m.w, m.Format(l))
		n++
	}
	return n
}
