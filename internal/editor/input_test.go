package editor

import (
	"testing"
	"time"
)

// scriptSource feeds a fixed byte sequence to the decoder. An exhausted
// script behaves like a closed stream for ReadByte and like a timeout for
// ReadByteTimeout, which is exactly how a bare ESC press looks.
type scriptSource struct {
	data []byte
}

func (s *scriptSource) ReadByte() (byte, bool) {
	if len(s.data) == 0 {
		return 0, false
	}
	b := s.data[0]
	s.data = s.data[1:]
	return b, true
}

func (s *scriptSource) ReadByteTimeout(d time.Duration) (byte, bool) {
	return s.ReadByte()
}

func decodeOne(t *testing.T, input string) KeyEvent {
	t.Helper()
	ev, ok := ReadKey(&scriptSource{data: []byte(input)})
	if !ok {
		t.Fatalf("decoder reported closed stream for %q", input)
	}
	return ev
}

func TestDecodePlainChars(t *testing.T) {
	src := &scriptSource{data: []byte("ab ")}
	for _, want := range []byte{'a', 'b', ' '} {
		ev, ok := ReadKey(src)
		if !ok {
			t.Fatal("unexpected closed stream")
		}
		if ev.Key != KeyChar || ev.Ch != want {
			t.Errorf("expected char %q, got key=%d ch=%q", want, ev.Key, ev.Ch)
		}
	}
}

func TestDecodeControlKeys(t *testing.T) {
	tests := []struct {
		input string
		want  Key
	}{
		{"\x11", KeyCtrlQ},
		{"\x13", KeyCtrlS},
		{"\x06", KeyCtrlF},
		{"\x07", KeyCtrlG},
		{"\x01", KeyCtrlA},
		{"\x05", KeyCtrlE},
		{"\x08", KeyBackspace},
		{"\x7f", KeyBackspace},
		{"\t", KeyTab},
		{"\r", KeyEnter},
		{"\n", KeyEnter},
	}
	for _, tt := range tests {
		if ev := decodeOne(t, tt.input); ev.Key != tt.want {
			t.Errorf("input %q: expected key %d, got %d", tt.input, tt.want, ev.Key)
		}
	}
}

func TestDecodeEscapeSequences(t *testing.T) {
	tests := []struct {
		input string
		want  Key
	}{
		{"\x1b[A", KeyUp},
		{"\x1b[B", KeyDown},
		{"\x1b[C", KeyRight},
		{"\x1b[D", KeyLeft},
		{"\x1b[H", KeyHome},
		{"\x1b[F", KeyEnd},
		{"\x1b[1~", KeyHome},
		{"\x1b[7~", KeyHome},
		{"\x1b[4~", KeyEnd},
		{"\x1b[8~", KeyEnd},
		{"\x1b[3~", KeyDelete},
		{"\x1b[5~", KeyPageUp},
		{"\x1b[6~", KeyPageDown},
		{"\x1bOH", KeyHome},
		{"\x1bOF", KeyEnd},
	}
	for _, tt := range tests {
		if ev := decodeOne(t, tt.input); ev.Key != tt.want {
			t.Errorf("sequence %q: expected key %d, got %d", tt.input, tt.want, ev.Key)
		}
	}
}

func TestDecodeBareEscape(t *testing.T) {
	// Timeout after ESC (exhausted script) must yield a bare escape.
	if ev := decodeOne(t, "\x1b"); ev.Key != KeyEscape {
		t.Errorf("expected bare escape, got key %d", ev.Key)
	}
	// Same for a lone CSI introducer.
	if ev := decodeOne(t, "\x1b["); ev.Key != KeyEscape {
		t.Errorf("expected escape for lone CSI, got key %d", ev.Key)
	}
}

func TestDecodeUnrecognizedSequenceCollapsesToEscape(t *testing.T) {
	tests := []string{
		"\x1b[Z",  // unknown CSI letter
		"\x1b[2~", // digit with no mapping
		"\x1b[5x", // digit family without the tilde
		"\x1bOZ",  // unknown SS3 letter
		"\x1bx",   // neither family
	}
	for _, input := range tests {
		if ev := decodeOne(t, input); ev.Key != KeyEscape {
			t.Errorf("sequence %q: expected escape, got key %d", input, ev.Key)
		}
	}
}

func TestDecodeIsStatelessAcrossCalls(t *testing.T) {
	src := &scriptSource{data: []byte("\x1b[Aq\x1b[3~")}
	want := []Key{KeyUp, KeyChar, KeyDelete}
	for i, w := range want {
		ev, ok := ReadKey(src)
		if !ok {
			t.Fatalf("event %d: unexpected closed stream", i)
		}
		if ev.Key != w {
			t.Errorf("event %d: expected key %d, got %d", i, w, ev.Key)
		}
	}
}

func TestDecodeSkipsStrayControlBytes(t *testing.T) {
	ev, ok := ReadKey(&scriptSource{data: []byte{0x00, 0x02, 'x'}})
	if !ok {
		t.Fatal("unexpected closed stream")
	}
	if ev.Key != KeyChar || ev.Ch != 'x' {
		t.Errorf("expected 'x' after stray bytes, got key=%d ch=%q", ev.Key, ev.Ch)
	}
}

func TestDecodeClosedStream(t *testing.T) {
	if _, ok := ReadKey(&scriptSource{}); ok {
		t.Error("expected ok=false on closed stream")
	}
}
