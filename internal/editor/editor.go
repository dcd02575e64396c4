// Package editor implements the tte editing session: a line-based text
// buffer, a key decoder, a frame compositor, and the turn-based state
// machine that ties them together over a raw-mode terminal.
package editor

import (
	"fmt"
	"strconv"
	"time"

	"github.com/barun-bash/tte/internal/storage"
	"github.com/barun-bash/tte/internal/term"
)

// mode is the session's top-level state.
type mode int

const (
	modeNormal mode = iota
	modePrompt
	modeQuitConfirm
)

const (
	// quitConfirmPresses is how many Ctrl-Q presses discard a modified
	// buffer; the last press exits, the earlier ones warn.
	quitConfirmPresses = 3

	// statusTimeout is how long a status message stays visible.
	statusTimeout = 5 * time.Second
)

// frameWriter flushes one composed frame in a single write call.
type frameWriter interface {
	WriteAll([]byte) error
}

// Editor is the top-level editing session. It owns the document, the
// cursor and viewport state, and the mode machine, and is driven strictly
// one key event per turn.
type Editor struct {
	doc      *Document
	renderer *Renderer

	cx, cy int // cursor in raw space; cy may sit one past the last row
	rx     int // cursor in render space, recomputed by scroll

	rowOffset int // first visible row
	colOffset int // first visible rendered column

	mode       mode
	quitLeft   int // remaining Ctrl-Q presses while modified
	statusMsg  string
	statusTime time.Time

	out      frameWriter
	keyCh    chan KeyEvent
	redrawCh chan struct{}
	running  bool
}

// New creates a session over doc with a default 80x24 viewport; Run
// replaces the dimensions with the real terminal size.
func New(doc *Document) *Editor {
	e := &Editor{
		doc:      doc,
		renderer: NewRenderer(24, 80),
		quitLeft: quitConfirmPresses,
		redrawCh: make(chan struct{}, 1),
		running:  true,
	}
	e.setStatusMessage("HELP: Ctrl-S = save | Ctrl-Q = quit | Ctrl-F = find | Ctrl-G = goto line")
	return e
}

// Run takes over the terminal and blocks until the session ends. Raw mode
// is released and the screen cleared on every exit path.
func (e *Editor) Run(tty *term.Terminal) error {
	if err := tty.EnterRaw(); err != nil {
		return err
	}
	defer tty.Restore()
	defer tty.ClearScreen()

	rows, cols := tty.Size()
	e.renderer.Resize(rows, cols)
	e.out = tty

	// Fold raw bytes into key events on a single channel. All key reads,
	// including the nested prompt loops, go through e.keyCh.
	e.keyCh = make(chan KeyEvent, 16)
	go func() {
		for {
			ev, ok := ReadKey(tty)
			if !ok {
				close(e.keyCh)
				return
			}
			e.keyCh <- ev
		}
	}()

	e.refresh()

	for e.running {
		select {
		case <-tty.Resize():
			rows, cols := tty.Size()
			e.renderer.Resize(rows, cols)
			e.refresh()

		case <-e.redrawCh:
			e.refresh()

		case ev, ok := <-e.keyCh:
			if !ok {
				return fmt.Errorf("error reading input")
			}
			e.processKey(ev)
			e.refresh()
		}
	}
	return nil
}

// nextKey reads the next key event from the session's single key channel.
func (e *Editor) nextKey() (KeyEvent, bool) {
	ev, ok := <-e.keyCh
	return ev, ok
}

// refresh scrolls the viewport to the cursor and flushes one frame.
func (e *Editor) refresh() {
	e.scroll()
	frame := e.renderer.Frame(e)
	if e.out != nil {
		e.out.WriteAll(frame)
	}
}

// scroll recomputes the render column and drags the viewport just far
// enough that the cursor stays visible. It never recenters.
func (e *Editor) scroll() {
	e.rx = 0
	if row := e.doc.Row(e.cy); row != nil {
		e.rx = row.CursorToRender(e.cx)
	}

	if e.cy < e.rowOffset {
		e.rowOffset = e.cy
	}
	if e.cy >= e.rowOffset+e.renderer.screenRows {
		e.rowOffset = e.cy - e.renderer.screenRows + 1
	}
	if e.rx < e.colOffset {
		e.colOffset = e.rx
	}
	if e.rx >= e.colOffset+e.renderer.screenCols {
		e.colOffset = e.rx - e.renderer.screenCols + 1
	}
}

// processKey dispatches one key event in Normal mode.
func (e *Editor) processKey(ev KeyEvent) {
	switch ev.Key {
	case KeyCtrlQ:
		if e.doc.Modified() {
			e.quitLeft--
			if e.quitLeft > 0 {
				e.mode = modeQuitConfirm
				e.setStatusMessage("WARNING! File has unsaved changes. Press Ctrl-Q %d more times to quit.", e.quitLeft)
				return
			}
		}
		e.running = false
		return

	case KeyCtrlS:
		e.save()

	case KeyCtrlF:
		e.find()

	case KeyCtrlG:
		e.gotoLine()

	case KeyUp, KeyDown, KeyLeft, KeyRight:
		e.moveCursor(ev.Key)

	case KeyPageUp, KeyPageDown:
		e.page(ev.Key)

	case KeyHome, KeyCtrlA:
		e.cx = 0

	case KeyEnd, KeyCtrlE:
		e.cx = e.doc.RowLen(e.cy)

	case KeyEnter:
		e.insertNewline()

	case KeyBackspace:
		e.deleteChar()

	case KeyDelete:
		// Delete removes the byte under the cursor: step right, then
		// reuse the backspace/join logic.
		e.moveCursor(KeyRight)
		e.deleteChar()

	case KeyTab:
		e.insertChar('\t')

	case KeyChar:
		e.insertChar(ev.Ch)

	case KeyEscape:
		// Ignored in Normal mode.
	}

	// Any key other than the quit command rearms the confirmation.
	e.quitLeft = quitConfirmPresses
	if e.mode == modeQuitConfirm {
		e.mode = modeNormal
	}
}

// moveCursor applies a single-step cursor move with row-aware clamping:
// left wraps to the previous row end, right wraps to the next row start,
// vertical motion stays within [0, numRows].
func (e *Editor) moveCursor(k Key) {
	switch k {
	case KeyLeft:
		if e.cx != 0 {
			e.cx--
		} else if e.cy > 0 {
			e.cy--
			e.cx = e.doc.RowLen(e.cy)
		}
	case KeyRight:
		if e.cy < e.doc.NumRows() {
			if e.cx < e.doc.RowLen(e.cy) {
				e.cx++
			} else {
				e.cy++
				e.cx = 0
			}
		}
	case KeyUp:
		if e.cy != 0 {
			e.cy--
		}
	case KeyDown:
		if e.cy < e.doc.NumRows() {
			e.cy++
		}
	}

	// Snap the column when the new row is shorter.
	if e.cx > e.doc.RowLen(e.cy) {
		e.cx = e.doc.RowLen(e.cy)
	}
}

// page snaps the cursor to the viewport edge, then repeats the
// single-step move a screenful of times so it reuses the same clamping.
func (e *Editor) page(k Key) {
	if k == KeyPageUp {
		e.cy = e.rowOffset
	} else {
		e.cy = e.rowOffset + e.renderer.screenRows - 1
		if e.cy > e.doc.NumRows() {
			e.cy = e.doc.NumRows()
		}
	}

	step := KeyUp
	if k == KeyPageDown {
		step = KeyDown
	}
	for n := e.renderer.screenRows; n > 0; n-- {
		e.moveCursor(step)
	}
}

func (e *Editor) insertChar(ch byte) {
	e.doc.InsertChar(e.cy, e.cx, ch)
	e.cx++
}

func (e *Editor) insertNewline() {
	if e.cx == 0 {
		e.doc.InsertRow(e.cy, nil)
	} else {
		e.doc.SplitRow(e.cy, e.cx)
	}
	e.cy++
	e.cx = 0
}

func (e *Editor) deleteChar() {
	if e.cy == e.doc.NumRows() {
		return
	}
	if e.cx == 0 && e.cy == 0 {
		return
	}
	if e.cx > 0 {
		e.doc.DeleteChar(e.cy, e.cx)
		e.cx--
		return
	}
	newX := e.doc.RowLen(e.cy - 1)
	e.doc.DeleteChar(e.cy, e.cx)
	e.cy--
	e.cx = newX
}

// save serializes the document to its bound file, prompting for a name
// first on a new buffer. Write failures surface in the status bar and
// leave the modified flag set.
func (e *Editor) save() {
	if e.doc.Filename() == "" {
		name, ok := e.prompt("Save as: %s (ESC to cancel)", promptSaveAs)
		if !ok || name == "" {
			e.setStatusMessage("Save aborted")
			return
		}
		e.doc.SetFilename(name)
	}

	n, err := storage.WriteAtomic(e.doc.Filename(), e.doc.Serialize())
	if err != nil {
		e.setStatusMessage("Can't save! I/O error: %s", err)
		return
	}
	e.doc.ClearModified()
	e.setStatusMessage("%d bytes written to disk", n)
}

// gotoLine prompts for a 1-based line number and jumps there.
func (e *Editor) gotoLine() {
	input, ok := e.prompt("Go to line: %s (ESC to cancel)", promptGoto)
	if !ok || input == "" {
		return
	}
	n, err := strconv.Atoi(input)
	if err != nil || n < 1 {
		e.setStatusMessage("Invalid line number")
		return
	}
	if n > e.doc.NumRows() {
		n = e.doc.NumRows()
	}
	e.cy = n - 1
	if e.cy < 0 {
		e.cy = 0
	}
	e.cx = 0
}

// setStatusMessage formats a transient message for the message bar. A
// timer pokes the redraw channel at expiry; the render path compares
// timestamps, so nothing outside the turn loop mutates session state.
func (e *Editor) setStatusMessage(format string, args ...any) {
	e.statusMsg = fmt.Sprintf(format, args...)
	e.statusTime = time.Now()
	if e.statusMsg == "" {
		return
	}
	time.AfterFunc(statusTimeout+50*time.Millisecond, func() {
		select {
		case e.redrawCh <- struct{}{}:
		default:
		}
	})
}
