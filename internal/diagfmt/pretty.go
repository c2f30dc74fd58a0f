package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"bigcalc/internal/diag"
	"bigcalc/internal/source"
)

type palette struct {
	err, warn, info, note, loc, gutter, caret *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan),
		note:   color.New(color.FgBlue, color.Bold),
		loc:    color.New(color.Bold),
		gutter: color.New(color.FgHiBlack),
		caret:  color.New(color.FgGreen, color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.note, p.loc, p.gutter, p.caret} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil {
		return
	}
	p := newPalette(opts.Color)
	for _, d := range bag.Items() {
		prettyOne(w, d, fs, opts, p)
	}
}

func prettyOne(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, p palette) {
	sev := p.severity(d.Severity).Sprintf("%s %s", d.Severity, d.Code.ID())

	if !d.HasSpan() || !inFileSet(fs, d.Primary) {
		path := d.Path
		if path != "" {
			path = formatBarePath(path, fs, opts.PathMode)
		} else {
			path = "<unknown>"
		}
		fmt.Fprintf(w, "%s: %s: %s\n", p.loc.Sprint(path), sev, d.Message)
		return
	}

	f := fs.Get(d.Primary.File)
	start, _ := fs.Resolve(d.Primary)
	fmt.Fprintf(w, "%s: %s: %s\n",
		p.loc.Sprintf("%s:%d:%d", formatPath(f, fs, opts.PathMode), start.Line, start.Col),
		sev, d.Message)
	writeSnippet(w, f, fs, d.Primary, opts, p)

	if !opts.ShowNotes {
		return
	}
	for _, n := range d.Notes {
		if !inFileSet(fs, n.Span) {
			fmt.Fprintf(w, "  %s %s\n", p.note.Sprint("note:"), n.Msg)
			continue
		}
		nf := fs.Get(n.Span.File)
		pos, _ := fs.Resolve(n.Span)
		fmt.Fprintf(w, "  %s %s:%d:%d: %s\n", p.note.Sprint("note:"),
			formatPath(nf, fs, opts.PathMode), pos.Line, pos.Col, n.Msg)
	}
}

func writeSnippet(w io.Writer, f *source.File, fs *source.FileSet, span source.Span, opts PrettyOpts, p palette) {
	start, end := fs.Resolve(span)
	first := start.Line
	if opts.Context > 0 {
		first -= min(start.Line-1, uint32(opts.Context)) //nolint:gosec // G115: checked > 0
	}
	gutterWidth := len(fmt.Sprint(start.Line))

	for ln := first; ln <= start.Line; ln++ {
		text := clip(f.GetLine(ln), opts.Width)
		fmt.Fprintf(w, "%s %s\n", p.gutter.Sprintf("%*d |", gutterWidth, ln), text)
	}

	line := f.GetLine(start.Line)
	col := int(start.Col) - 1
	col = min(col, len(line))
	prefix := runewidth.StringWidth(line[:col])

	var marked string
	if end.Line == start.Line {
		endCol := min(int(end.Col)-1, len(line))
		marked = line[col:max(col, endCol)]
	} else {
		marked = line[col:]
	}
	width := max(1, runewidth.StringWidth(marked))
	if opts.Width > 0 {
		limit := int(opts.Width)
		if prefix >= limit {
			return
		}
		width = min(width, limit-prefix)
	}

	underline := "^" + strings.Repeat("~", width-1)
	fmt.Fprintf(w, "%s %s%s\n", p.gutter.Sprintf("%*s |", gutterWidth, ""),
		strings.Repeat(" ", prefix), p.caret.Sprint(underline))
}

func clip(s string, width uint8) string {
	if width == 0 || runewidth.StringWidth(s) <= int(width) {
		return s
	}
	return runewidth.Truncate(s, int(width), "…")
}
