package editor

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

// frameSink captures composed frames instead of writing to a terminal.
type frameSink struct {
	last []byte
}

func (f *frameSink) WriteAll(b []byte) error {
	f.last = b
	return nil
}

// newTestEditor builds a session with a fixed viewport and a captured
// output, with the startup help message cleared for frame assertions.
func newTestEditor(rows, cols int, lines ...string) *Editor {
	var doc *Document
	if len(lines) == 0 {
		doc = NewDocument()
	} else {
		doc = docFromStrings(lines...)
	}
	e := New(doc)
	e.renderer = NewRenderer(rows, cols)
	e.out = &frameSink{}
	e.keyCh = make(chan KeyEvent, 256)
	e.statusMsg = ""
	return e
}

func frameOf(e *Editor) string {
	e.scroll()
	return string(e.renderer.Frame(e))
}

func TestFrameByteExact(t *testing.T) {
	doc := NewDocumentFromLines("hi.txt", [][]byte{[]byte("hi")})
	e := New(doc)
	e.renderer = NewRenderer(3, 10) // one text row + the two bars
	e.statusMsg = ""

	want := "\033[?25l\033[H" +
		"hi\033[K\r\n" +
		"\033[7mhi.txt    \033[m\r\n" +
		"\033[K" +
		"\033[1;1H\033[?25h"
	if got := frameOf(e); got != want {
		t.Errorf("frame mismatch:\nexpected %q\ngot      %q", want, got)
	}
}

func TestFrameFillerCount(t *testing.T) {
	// 10 text rows showing a 3-line document: exactly 7 tilde fillers.
	e := newTestEditor(12, 80, "ab\tc", "", "last")
	frame := frameOf(e)
	if n := strings.Count(frame, "~"); n != 7 {
		t.Errorf("expected 7 filler rows, got %d", n)
	}
}

func TestFrameWelcomeBanner(t *testing.T) {
	e := newTestEditor(12, 40)
	frame := frameOf(e)
	if !strings.Contains(frame, "tte -- version") {
		t.Fatal("expected welcome banner on empty document")
	}

	// The banner sits at one third of the screen height.
	lines := strings.Split(frame, "\r\n")
	if !strings.Contains(lines[10/3], "tte -- version") {
		t.Errorf("expected banner on row %d, frame rows: %q", 10/3, lines)
	}

	// Centered behind the leading tilde.
	bannerIdx := strings.Index(frame, "tte -- version")
	padded := frame[:bannerIdx]
	if !strings.HasSuffix(padded, strings.Repeat(" ", 9)) {
		t.Error("expected centering padding before the banner")
	}
}

func TestFrameNoBannerWithContent(t *testing.T) {
	e := newTestEditor(12, 40, "x")
	if strings.Contains(frameOf(e), "tte -- version") {
		t.Error("banner must only show on an empty document")
	}
}

func TestFrameTabExpansionVisible(t *testing.T) {
	e := newTestEditor(12, 80, "ab\tc")
	if !strings.Contains(frameOf(e), "ab      c") {
		t.Error("expected tab-expanded row in frame")
	}
}

func TestStatusBarRightAligned(t *testing.T) {
	e := newTestEditor(12, 20, "abc")
	frame := frameOf(e)
	want := "\033[7m" + "test.txt " + strings.Repeat(" ", 4) + "1/1 1/3" + "\033[m"
	if !strings.Contains(frame, want) {
		t.Errorf("expected status bar %q in frame %q", want, frame)
	}
}

func TestStatusBarModifiedMarker(t *testing.T) {
	e := newTestEditor(12, 80, "abc")
	if strings.Contains(frameOf(e), "(modified)") {
		t.Error("unexpected modified marker on clean buffer")
	}
	e.processKey(KeyEvent{Key: KeyChar, Ch: 'x'})
	if !strings.Contains(frameOf(e), "(modified)") {
		t.Error("expected modified marker after edit")
	}
}

func TestStatusBarTruncatedToWidth(t *testing.T) {
	e := newTestEditor(12, 5, "abc")
	frame := frameOf(e)
	if !strings.Contains(frame, "\033[7mtest.\033[m") {
		t.Errorf("expected left side truncated to width, got %q", frame)
	}
}

func TestStatusBarNoNamePlaceholder(t *testing.T) {
	e := newTestEditor(12, 80)
	if !strings.Contains(frameOf(e), "[No Name]") {
		t.Error("expected [No Name] placeholder for unnamed buffer")
	}
}

func TestMessageBarExpiry(t *testing.T) {
	e := newTestEditor(12, 80, "abc")
	e.statusMsg = "hello there"
	e.statusTime = time.Now()
	if !strings.Contains(frameOf(e), "hello there") {
		t.Error("expected fresh status message in frame")
	}

	e.statusTime = time.Now().Add(-statusTimeout - time.Second)
	if strings.Contains(frameOf(e), "hello there") {
		t.Error("expected expired status message to vanish")
	}
}

func TestScrollVerticalClamps(t *testing.T) {
	lines := make([]string, 30)
	for i := range lines {
		lines[i] = "line"
	}
	e := newTestEditor(12, 80, lines...)

	e.cy = 15
	e.scroll()
	if e.rowOffset != 6 {
		t.Errorf("expected rowOffset 6, got %d", e.rowOffset)
	}

	// Moving back up only scrolls as far as needed.
	e.cy = 3
	e.scroll()
	if e.rowOffset != 3 {
		t.Errorf("expected rowOffset 3, got %d", e.rowOffset)
	}
}

func TestScrollHorizontalClamps(t *testing.T) {
	e := newTestEditor(12, 20, strings.Repeat("x", 100))

	e.cx = 50
	e.scroll()
	if e.colOffset != 31 {
		t.Errorf("expected colOffset 31, got %d", e.colOffset)
	}

	e.cx = 5
	e.scroll()
	if e.colOffset != 5 {
		t.Errorf("expected colOffset 5, got %d", e.colOffset)
	}
}

func TestFrameScrolledPastShortLines(t *testing.T) {
	// A viewport scrolled far right over rows shorter than the offset
	// must render those rows empty, not slice out of bounds.
	e := newTestEditor(12, 20, strings.Repeat("x", 100), "short", "")
	e.cx = 90
	frame := frameOf(e)
	if !bytes.Contains([]byte(frame), []byte("x")) {
		t.Error("expected long row content in frame")
	}
	if strings.Contains(frame, "short") {
		t.Error("expected short row scrolled out of view")
	}
}

func TestFrameCursorPosition(t *testing.T) {
	e := newTestEditor(12, 80, "hello", "world")
	e.cy = 1
	e.cx = 3
	frame := frameOf(e)
	if !strings.Contains(frame, "\033[2;4H") {
		t.Errorf("expected cursor sequence \\033[2;4H, got %q", frame)
	}
}

func TestFrameSingleWrite(t *testing.T) {
	e := newTestEditor(12, 80, "abc")
	sink := e.out.(*frameSink)
	e.refresh()
	if len(sink.last) == 0 {
		t.Fatal("expected a frame to be flushed")
	}
	if !bytes.HasPrefix(sink.last, []byte("\033[?25l\033[H")) {
		t.Error("frame must start with hide-cursor and home")
	}
	if !bytes.HasSuffix(sink.last, []byte("\033[?25h")) {
		t.Error("frame must end with show-cursor")
	}
}

func TestResizeReservesBarRows(t *testing.T) {
	r := NewRenderer(24, 80)
	if r.screenRows != 22 {
		t.Errorf("expected 22 text rows, got %d", r.screenRows)
	}
	r.Resize(2, 10)
	if r.screenRows < 1 {
		t.Errorf("expected at least one text row, got %d", r.screenRows)
	}
}
