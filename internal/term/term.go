// Package term owns raw-mode access to the controlling terminal. It is the
// editor's only path to the terminal device: byte input via a background
// reader, size queries, resize notifications, and batched writes.
package term

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// Terminal wraps stdin/stdout with raw-mode state. Restore must run on
// every exit path so the shell gets a sane terminal back.
type Terminal struct {
	in  *os.File
	out *os.File
	fd  int

	oldState *term.State
	byteCh   chan byte
	resizeCh chan os.Signal
}

// New returns a Terminal over the process stdin/stdout. Raw mode is not
// entered until EnterRaw.
func New() *Terminal {
	return &Terminal{
		in:  os.Stdin,
		out: os.Stdout,
		fd:  int(os.Stdin.Fd()),
	}
}

// EnterRaw switches the terminal into raw mode, starts the background byte
// reader, and subscribes to window-size changes.
func (t *Terminal) EnterRaw() error {
	if !term.IsTerminal(t.fd) {
		return fmt.Errorf("tte requires an interactive terminal")
	}

	old, err := term.MakeRaw(t.fd)
	if err != nil {
		return fmt.Errorf("cannot enter raw mode: %w", err)
	}
	t.oldState = old

	t.byteCh = make(chan byte, 128)
	go t.readLoop()

	t.resizeCh = make(chan os.Signal, 1)
	signal.Notify(t.resizeCh, unix.SIGWINCH)

	return nil
}

// Restore puts the terminal back into its original mode. Safe to call
// more than once.
func (t *Terminal) Restore() {
	if t.resizeCh != nil {
		signal.Stop(t.resizeCh)
	}
	if t.oldState != nil {
		term.Restore(t.fd, t.oldState)
		t.oldState = nil
	}
}

// readLoop feeds stdin bytes into the byte channel. The channel is closed
// on any read error, including EOF, which the editor treats as fatal.
func (t *Terminal) readLoop() {
	buf := make([]byte, 64)
	for {
		n, err := t.in.Read(buf)
		if err != nil {
			close(t.byteCh)
			return
		}
		for i := 0; i < n; i++ {
			t.byteCh <- buf[i]
		}
	}
}

// ReadByte blocks until the next input byte. ok is false once the input
// stream has closed.
func (t *Terminal) ReadByte() (byte, bool) {
	b, ok := <-t.byteCh
	return b, ok
}

// ReadByteTimeout waits up to d for a byte. Returns (0, false) on timeout.
func (t *Terminal) ReadByteTimeout(d time.Duration) (byte, bool) {
	select {
	case b, ok := <-t.byteCh:
		return b, ok
	case <-time.After(d):
		return 0, false
	}
}

// Size reports the terminal dimensions as (rows, cols). When the kernel
// cannot be queried it falls back to 80x24 rather than failing, matching
// the behavior of the ioctl-less environments the editor may run under.
func (t *Terminal) Size() (int, int) {
	ws, err := unix.IoctlGetWinsize(t.fd, unix.TIOCGWINSZ)
	if err == nil && ws.Col > 0 && ws.Row > 0 {
		return int(ws.Row), int(ws.Col)
	}
	if w, h, err := term.GetSize(t.fd); err == nil && w > 0 && h > 0 {
		return h, w
	}
	return 24, 80
}

// Resize returns the channel that receives a signal after every window
// size change. It is nil before EnterRaw.
func (t *Terminal) Resize() <-chan os.Signal {
	return t.resizeCh
}

// WriteAll writes buf to the terminal in a single write call so a frame
// reaches the screen atomically.
func (t *Terminal) WriteAll(buf []byte) error {
	_, err := t.out.Write(buf)
	return err
}

// ClearScreen erases the display and homes the cursor. Used on exit and
// before fatal diagnostics so they print on a clean screen.
func (t *Terminal) ClearScreen() {
	t.out.WriteString("\033[2J\033[H")
}
