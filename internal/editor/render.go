package editor

import (
	"fmt"
	"strings"
	"time"

	"github.com/barun-bash/tte/internal/version"
)

// ANSI escape helpers.
const (
	escClearLine  = "\033[K"
	escCursorHome = "\033[H"
	escHideCursor = "\033[?25l"
	escShowCursor = "\033[?25h"
	escReverse    = "\033[7m"
	escReset      = "\033[m"
)

func moveTo(row, col int) string {
	return fmt.Sprintf("\033[%d;%dH", row, col)
}

// Renderer composes one complete terminal frame per keystroke into a
// single buffer, so the update reaches the terminal in one write and the
// screen never shows a half-drawn state.
type Renderer struct {
	screenRows int // rows available for text (two reserved for the bars)
	screenCols int
}

// NewRenderer creates a renderer for the given terminal dimensions.
func NewRenderer(rows, cols int) *Renderer {
	r := &Renderer{}
	r.Resize(rows, cols)
	return r
}

// Resize updates dimensions. Two rows stay reserved for the status bar
// and the message bar.
func (r *Renderer) Resize(rows, cols int) {
	r.screenRows = rows - 2
	if r.screenRows < 1 {
		r.screenRows = 1
	}
	r.screenCols = cols
	if r.screenCols < 1 {
		r.screenCols = 1
	}
}

// Frame builds the escape-sequence frame for the current editor state.
// The caller flushes the returned bytes with a single write.
func (r *Renderer) Frame(e *Editor) []byte {
	var b strings.Builder

	b.WriteString(escHideCursor)
	b.WriteString(escCursorHome)

	r.drawRows(&b, e)
	r.drawStatusBar(&b, e)
	r.drawMessageBar(&b, e)

	b.WriteString(moveTo(e.cy-e.rowOffset+1, e.rx-e.colOffset+1))
	b.WriteString(escShowCursor)

	return []byte(b.String())
}

// drawRows emits every visible text row: a clamped slice of the rendered
// line, or a tilde filler past the end of the document. The welcome
// banner replaces the filler at one third of the screen height while the
// document is still empty.
func (r *Renderer) drawRows(b *strings.Builder, e *Editor) {
	for y := 0; y < r.screenRows; y++ {
		fileRow := y + e.rowOffset
		if fileRow >= e.doc.NumRows() {
			if e.doc.NumRows() == 0 && y == r.screenRows/3 {
				r.drawWelcome(b)
			} else {
				b.WriteString("~")
			}
		} else {
			line := e.doc.Row(fileRow).Render()
			start := e.colOffset
			if start > len(line) {
				start = len(line)
			}
			end := start + r.screenCols
			if end > len(line) {
				end = len(line)
			}
			b.Write(line[start:end])
		}
		b.WriteString(escClearLine)
		b.WriteString("\r\n")
	}
}

// drawWelcome centers the version banner, keeping the leading tilde.
func (r *Renderer) drawWelcome(b *strings.Builder) {
	welcome := fmt.Sprintf("tte -- version %s", version.Info())
	if len(welcome) > r.screenCols {
		welcome = welcome[:r.screenCols]
	}
	padding := (r.screenCols - len(welcome)) / 2
	if padding > 0 {
		b.WriteString("~")
		padding--
	}
	for ; padding > 0; padding-- {
		b.WriteString(" ")
	}
	b.WriteString(welcome)
}

// drawStatusBar emits the inverted status line: file name and modified
// marker on the left, cursor position on the right when it fits.
func (r *Renderer) drawStatusBar(b *strings.Builder, e *Editor) {
	b.WriteString(escReverse)

	name := e.doc.Filename()
	if name == "" {
		name = "[No Name]"
	}
	marker := ""
	if e.doc.Modified() {
		marker = "(modified)"
	}
	left := fmt.Sprintf("%.20s %s", name, marker)
	if len(left) > r.screenCols {
		left = left[:r.screenCols]
	}

	lineWidth := 0
	if row := e.doc.Row(e.cy); row != nil {
		lineWidth = row.RenderLen()
	}
	right := fmt.Sprintf("%d/%d %d/%d", e.cy+1, e.doc.NumRows(), e.rx+1, lineWidth)

	b.WriteString(left)
	for n := len(left); n < r.screenCols; n++ {
		if r.screenCols-n == len(right) {
			b.WriteString(right)
			break
		}
		b.WriteString(" ")
	}

	b.WriteString(escReset)
	b.WriteString("\r\n")
}

// drawMessageBar emits the transient status message while it is younger
// than the expiry window.
func (r *Renderer) drawMessageBar(b *strings.Builder, e *Editor) {
	b.WriteString(escClearLine)
	if e.statusMsg == "" || time.Since(e.statusTime) >= statusTimeout {
		return
	}
	msg := e.statusMsg
	if len(msg) > r.screenCols {
		msg = msg[:r.screenCols]
	}
	b.WriteString(msg)
}
