package console

import (
	"fmt"
	"io"
	"os"

	"github.com/gookit/color"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

var (
	//nolint:gochecknoglobals // Styles are immutable values.
	arrowStyle = color.New(color.FgYellow, color.OpBold)
	//nolint:gochecknoglobals // Styles are immutable values.
	stepStyle = color.New(color.FgBlue, color.OpBold)
	//nolint:gochecknoglobals // Styles are immutable values.
	doneStyle = color.New(color.FgGreen, color.OpBold)
)

// Printer writes step banners and owns the progress bar settings.
// The zero value prints nothing.
type Printer struct {
	out      io.Writer
	colored  bool
	progress bool
}

// New creates a printer writing to out.
func New(out io.Writer, colored, progress bool) *Printer {
	return &Printer{out: out, colored: colored, progress: progress}
}

// NewStdout creates a stdout printer that colors and shows progress only on a terminal.
// A non-nil progress overrides terminal detection for progress bars.
func NewStdout(progress *bool) *Printer {
	tty := IsTerminal(os.Stdout)

	show := tty
	if progress != nil {
		show = *progress
	}

	return New(os.Stdout, tty, show)
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Step prints a "==> message" banner.
func (p *Printer) Step(format string, args ...any) {
	p.banner(stepStyle, format, args...)
}

// Done prints a final "==> message" banner in the success color.
func (p *Printer) Done(format string, args ...any) {
	p.banner(doneStyle, format, args...)
}

func (p *Printer) banner(style color.Style, format string, args ...any) {
	if p == nil || p.out == nil {
		return
	}

	arrow, msg := "==>", fmt.Sprintf(format, args...)
	if p.colored {
		arrow, msg = arrowStyle.Sprint(arrow), style.Sprint(msg)
	}

	_, _ = fmt.Fprintf(p.out, "\n%s %s\n", arrow, msg)
}

// Progress tracks completion of a fixed number of items.
type Progress interface {
	Add(n int) error
	Finish() error
}

// Progress returns a bar of total items, or a no-op when progress is disabled.
func (p *Printer) Progress(total int, description string) Progress {
	if p == nil || p.out == nil || !p.progress || total <= 0 {
		return nopProgress{}
	}

	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(p.out),
		progressbar.OptionSetDescription(description),
		progressbar.OptionEnableColorCodes(p.colored),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

type nopProgress struct{}

func (nopProgress) Add(int) error { return nil }

func (nopProgress) Finish() error { return nil }
