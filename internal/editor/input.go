package editor

import "time"

// Key identifies a decoded keyboard event.
type Key int

const (
	KeyNone Key = iota
	KeyChar     // printable byte (value in KeyEvent.Ch)
	KeyEnter
	KeyBackspace
	KeyDelete
	KeyTab
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyEscape
	KeyCtrlA // home
	KeyCtrlE // end
	KeyCtrlF // find
	KeyCtrlG // goto line
	KeyCtrlQ // quit
	KeyCtrlS // save
)

// KeyEvent holds a parsed key press.
type KeyEvent struct {
	Key Key
	Ch  byte // valid when Key == KeyChar
}

// ByteSource yields raw input bytes. ReadByte blocks until a byte arrives
// and reports ok=false once the stream closes; ReadByteTimeout gives up
// after d, which is how an escape byte is told apart from a sequence.
type ByteSource interface {
	ReadByte() (byte, bool)
	ReadByteTimeout(d time.Duration) (byte, bool)
}

// escTimeout bounds the wait for escape sequence continuation bytes.
const escTimeout = 50 * time.Millisecond

// ReadKey decodes exactly one key event from src. The decoder keeps no
// state between calls; every call starts a fresh decode. ok is false once
// the byte source has closed. Bytes that decode to nothing (stray control
// codes) are skipped rather than surfaced.
func ReadKey(src ByteSource) (KeyEvent, bool) {
	for {
		b, ok := src.ReadByte()
		if !ok {
			return KeyEvent{}, false
		}
		if ev := decodeByte(src, b); ev.Key != KeyNone {
			return ev, true
		}
	}
}

func decodeByte(src ByteSource, b byte) KeyEvent {
	switch b {
	case 1: // Ctrl-A
		return KeyEvent{Key: KeyCtrlA}
	case 5: // Ctrl-E
		return KeyEvent{Key: KeyCtrlE}
	case 6: // Ctrl-F
		return KeyEvent{Key: KeyCtrlF}
	case 7: // Ctrl-G
		return KeyEvent{Key: KeyCtrlG}
	case 8: // Ctrl-H
		return KeyEvent{Key: KeyBackspace}
	case 9:
		return KeyEvent{Key: KeyTab}
	case 10, 13: // LF / CR
		return KeyEvent{Key: KeyEnter}
	case 17: // Ctrl-Q
		return KeyEvent{Key: KeyCtrlQ}
	case 19: // Ctrl-S
		return KeyEvent{Key: KeyCtrlS}
	case 27:
		return readEscapeSeq(src)
	case 127:
		return KeyEvent{Key: KeyBackspace}
	}
	if b >= 32 && b < 127 {
		return KeyEvent{Key: KeyChar, Ch: b}
	}
	return KeyEvent{Key: KeyNone}
}

// readEscapeSeq disambiguates a bare ESC press from the CSI and SS3
// sequence families. Anything unrecognized, including a timeout mid
// sequence, collapses to a bare KeyEscape.
func readEscapeSeq(src ByteSource) KeyEvent {
	b0, ok := src.ReadByteTimeout(escTimeout)
	if !ok {
		return KeyEvent{Key: KeyEscape}
	}

	switch b0 {
	case '[':
		b1, ok := src.ReadByteTimeout(escTimeout)
		if !ok {
			return KeyEvent{Key: KeyEscape}
		}
		if b1 >= '0' && b1 <= '9' {
			// ESC [ <digit> ~ — terminals disagree on which digit
			// encodes Home and End, so several are accepted.
			b2, ok := src.ReadByteTimeout(escTimeout)
			if !ok || b2 != '~' {
				return KeyEvent{Key: KeyEscape}
			}
			switch b1 {
			case '1', '7':
				return KeyEvent{Key: KeyHome}
			case '4', '8':
				return KeyEvent{Key: KeyEnd}
			case '3':
				return KeyEvent{Key: KeyDelete}
			case '5':
				return KeyEvent{Key: KeyPageUp}
			case '6':
				return KeyEvent{Key: KeyPageDown}
			}
			return KeyEvent{Key: KeyEscape}
		}
		switch b1 {
		case 'A':
			return KeyEvent{Key: KeyUp}
		case 'B':
			return KeyEvent{Key: KeyDown}
		case 'C':
			return KeyEvent{Key: KeyRight}
		case 'D':
			return KeyEvent{Key: KeyLeft}
		case 'H':
			return KeyEvent{Key: KeyHome}
		case 'F':
			return KeyEvent{Key: KeyEnd}
		}
		return KeyEvent{Key: KeyEscape}

	case 'O':
		b1, ok := src.ReadByteTimeout(escTimeout)
		if !ok {
			return KeyEvent{Key: KeyEscape}
		}
		switch b1 {
		case 'H':
			return KeyEvent{Key: KeyHome}
		case 'F':
			return KeyEvent{Key: KeyEnd}
		}
		return KeyEvent{Key: KeyEscape}
	}

	return KeyEvent{Key: KeyEscape}
}
