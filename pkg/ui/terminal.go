package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Logo printed by the CLI banner
const Logo = `
 ╦  ╦╦╔═  ╔═╗╔═╗╦  ╦  ╔═╗╦═╗╦ ╦
 ╚╗╔╝╠╩╗  ║ ╦╠═╣║  ║  ║╣ ╠╦╝╚╦╝
  ╚╝ ╩ ╩  ╚═╝╩ ╩╩═╝╩═╝╚═╝╩╚═ ╩
`

var (
	cyan    = lipgloss.Color("#00FFFF")
	magenta = lipgloss.Color("#FF00FF")
	green   = lipgloss.Color("#39FF14")
	yellow  = lipgloss.Color("#FFFF00")
	red     = lipgloss.Color("#FF3131")
	dim     = lipgloss.Color("#B0B0B0")
)

// Printer writes styled status messages. Quiet printers only write errors.
type Printer struct {
	out   io.Writer
	quiet bool
	plain bool

	logo      lipgloss.Style
	errStyle  lipgloss.Style
	okStyle   lipgloss.Style
	label     lipgloss.Style
	value     lipgloss.Style
	warnStyle lipgloss.Style
	highlight lipgloss.Style
	faint     lipgloss.Style
	panel     lipgloss.Style
}

// NewPrinter creates a printer for out. noColor disables all styling.
func NewPrinter(out io.Writer, quiet, noColor bool) *Printer {
	r := lipgloss.NewRenderer(out)
	return &Printer{
		out:       out,
		quiet:     quiet,
		plain:     noColor,
		logo:      r.NewStyle().Foreground(cyan).Bold(true),
		errStyle:  r.NewStyle().Foreground(red).Bold(true),
		okStyle:   r.NewStyle().Foreground(green).Bold(true),
		label:     r.NewStyle().Foreground(cyan).Bold(true),
		value:     r.NewStyle().Foreground(yellow),
		warnStyle: r.NewStyle().Foreground(yellow),
		highlight: r.NewStyle().Foreground(magenta),
		faint:     r.NewStyle().Foreground(dim),
		panel: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(magenta).
			Padding(0, 2),
	}
}

var std = NewPrinter(os.Stdout, false, false)

// SetDefault replaces the printer behind the package level functions
func SetDefault(p *Printer) {
	std = p
}

func (p *Printer) render(style lipgloss.Style, text string) string {
	if p.plain {
		return text
	}
	return style.Render(text)
}

func withArg(msg string, args []interface{}) string {
	if len(args) > 0 {
		return msg + ": " + fmt.Sprintf("%v", args[0])
	}
	return msg
}

// Logo prints the banner
func (p *Printer) Logo() {
	if p.quiet {
		return
	}
	fmt.Fprintln(p.out, p.render(p.logo, Logo))
}

// Error prints an error message. The first arg, if any, is appended.
func (p *Printer) Error(msg string, args ...interface{}) {
	fmt.Fprintln(p.out, p.render(p.errStyle, withArg(msg, args)))
}

// Success prints a success message
func (p *Printer) Success(msg string) {
	if p.quiet {
		return
	}
	fmt.Fprintln(p.out, p.render(p.okStyle, msg))
}

// Info prints a label and value pair
func (p *Printer) Info(label, value string) {
	if p.quiet {
		return
	}
	fmt.Fprintf(p.out, "%s: %s\n", p.render(p.label, label), p.render(p.value, value))
}

// Warning prints a warning message
func (p *Printer) Warning(msg string, args ...interface{}) {
	if p.quiet {
		return
	}
	fmt.Fprintln(p.out, p.render(p.warnStyle, withArg(msg, args)))
}

// Highlight prints a highlighted message
func (p *Printer) Highlight(msg string) {
	if p.quiet {
		return
	}
	fmt.Fprintln(p.out, p.render(p.highlight, msg))
}

// Dim prints secondary output
func (p *Printer) Dim(msg string) {
	if p.quiet {
		return
	}
	fmt.Fprintln(p.out, p.render(p.faint, msg))
}

// Summary holds the totals of a batch run
type Summary struct {
	Total    int
	Rendered int
	Skipped  int
	Failed   int
	Images   int
	Dropped  int
	Duration time.Duration
}

// Summary prints batch totals in a panel
func (p *Printer) Summary(s Summary) {
	if p.quiet {
		return
	}

	rows := [][2]string{
		{"Documents", fmt.Sprintf("%d", s.Total)},
		{"Rendered", fmt.Sprintf("%d", s.Rendered)},
		{"Skipped", fmt.Sprintf("%d", s.Skipped)},
		{"Failed", fmt.Sprintf("%d", s.Failed)},
		{"Images", fmt.Sprintf("%d", s.Images)},
		{"Dropped", fmt.Sprintf("%d", s.Dropped)},
		{"Elapsed", s.Duration.Round(time.Millisecond).String()},
	}

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, fmt.Sprintf("%-10s %s", p.render(p.label, row[0]), p.render(p.value, row[1])))
	}
	body := strings.Join(lines, "\n")

	if p.plain {
		fmt.Fprintln(p.out, body)
		return
	}
	fmt.Fprintln(p.out, p.panel.Render(body))
}

// PrintLogo prints the banner with the default printer
func PrintLogo() { std.Logo() }

// PrintError prints an error message with the default printer
func PrintError(msg string, args ...interface{}) { std.Error(msg, args...) }

// PrintSuccess prints a success message with the default printer
func PrintSuccess(msg string) { std.Success(msg) }

// PrintInfo prints a label and value with the default printer
func PrintInfo(label, value string) { std.Info(label, value) }

// PrintWarning prints a warning with the default printer
func PrintWarning(msg string, args ...interface{}) { std.Warning(msg, args...) }

// PrintHighlight prints a highlighted message with the default printer
func PrintHighlight(msg string) { std.Highlight(msg) }

// PrintSummary prints batch totals with the default printer
func PrintSummary(s Summary) { std.Summary(s) }
