package editor

import "bytes"

// tabStop is the rendered width of a tab stop.
const tabStop = 8

// Row is one logical line of the document: the raw bytes as stored on
// disk and the rendered form with tabs expanded to tabStop columns. The
// rendered form is derived and recomputed on every raw mutation.
type Row struct {
	raw    []byte
	render []byte
}

func newRow(raw []byte) *Row {
	r := &Row{raw: raw}
	r.update()
	return r
}

// update recomputes the rendered form. Each tab advances to the next
// multiple-of-tabStop column, emitting at least one space.
func (r *Row) update() {
	out := make([]byte, 0, len(r.raw))
	col := 0
	for _, b := range r.raw {
		if b == '\t' {
			out = append(out, ' ')
			col++
			for col%tabStop != 0 {
				out = append(out, ' ')
				col++
			}
		} else {
			out = append(out, b)
			col++
		}
	}
	r.render = out
}

// Raw returns the unexpanded line content.
func (r *Row) Raw() []byte { return r.raw }

// Render returns the tab-expanded line content.
func (r *Row) Render() []byte { return r.render }

// Len returns the raw length of the row.
func (r *Row) Len() int { return len(r.raw) }

// RenderLen returns the rendered width of the row.
func (r *Row) RenderLen() int { return len(r.render) }

// CursorToRender maps a raw index to its rendered column by walking the
// raw bytes before it with the same tab arithmetic as update.
func (r *Row) CursorToRender(cx int) int {
	if cx > len(r.raw) {
		cx = len(r.raw)
	}
	rx := 0
	for j := 0; j < cx; j++ {
		if r.raw[j] == '\t' {
			rx += (tabStop - 1) - rx%tabStop
		}
		rx++
	}
	return rx
}

// RenderToCursor is the inverse of CursorToRender: the raw index whose
// rendered column covers rx. Columns past the end map to the row length.
func (r *Row) RenderToCursor(rx int) int {
	cur := 0
	for cx := 0; cx < len(r.raw); cx++ {
		if r.raw[cx] == '\t' {
			cur += (tabStop - 1) - cur%tabStop
		}
		cur++
		if cur > rx {
			return cx
		}
	}
	return len(r.raw)
}

// Document is the ordered sequence of rows being edited, plus the dirty
// flag and the bound file name (empty for a new buffer). Index numRows is
// a valid virtual cursor position one past the last line.
type Document struct {
	rows     []*Row
	modified bool
	filename string
}

// NewDocument creates an empty, unnamed document.
func NewDocument() *Document {
	return &Document{}
}

// NewDocumentFromLines creates a document from raw lines, typically the
// output of storage.ReadLines. The document starts unmodified.
func NewDocumentFromLines(filename string, lines [][]byte) *Document {
	d := &Document{filename: filename}
	d.rows = make([]*Row, len(lines))
	for i, line := range lines {
		d.rows[i] = newRow(append([]byte(nil), line...))
	}
	return d
}

// NumRows returns the number of rows.
func (d *Document) NumRows() int { return len(d.rows) }

// Row returns row y, or nil when y is out of range.
func (d *Document) Row(y int) *Row {
	if y < 0 || y >= len(d.rows) {
		return nil
	}
	return d.rows[y]
}

// RowLen returns the raw length of row y, or 0 when y is out of range.
func (d *Document) RowLen(y int) int {
	if y < 0 || y >= len(d.rows) {
		return 0
	}
	return len(d.rows[y].raw)
}

// Modified reports whether the document has unsaved changes.
func (d *Document) Modified() bool { return d.modified }

// ClearModified marks the document as saved.
func (d *Document) ClearModified() { d.modified = false }

// Filename returns the bound file name, empty for a new buffer.
func (d *Document) Filename() string { return d.filename }

// SetFilename binds the document to a file name.
func (d *Document) SetFilename(name string) { d.filename = name }

// InsertRow inserts text as a new row at position at. Positions outside
// [0, numRows] are ignored.
func (d *Document) InsertRow(at int, text []byte) {
	if at < 0 || at > len(d.rows) {
		return
	}
	row := newRow(append([]byte(nil), text...))
	d.rows = append(d.rows, nil)
	copy(d.rows[at+1:], d.rows[at:])
	d.rows[at] = row
	d.modified = true
}

// DeleteRow removes row at. Out-of-range positions are ignored.
func (d *Document) DeleteRow(at int) {
	if at < 0 || at >= len(d.rows) {
		return
	}
	d.rows = append(d.rows[:at], d.rows[at+1:]...)
	d.modified = true
}

// InsertChar inserts ch at raw index x of row y, shifting the rest of the
// row right. When the cursor sits on the virtual row past the last line a
// fresh empty row is appended first. x is clamped to the row size.
func (d *Document) InsertChar(y, x int, ch byte) {
	if y == len(d.rows) {
		d.InsertRow(len(d.rows), nil)
	}
	if y < 0 || y >= len(d.rows) {
		return
	}
	r := d.rows[y]
	if x < 0 {
		x = 0
	}
	if x > len(r.raw) {
		x = len(r.raw)
	}
	r.raw = append(r.raw, 0)
	copy(r.raw[x+1:], r.raw[x:])
	r.raw[x] = ch
	r.update()
	d.modified = true
}

// DeleteChar removes the byte before (y, x). At column 0 it joins row y
// onto the end of row y-1 and deletes row y. The true buffer start
// (y==0, x==0) and out-of-range rows are no-ops.
func (d *Document) DeleteChar(y, x int) {
	if y < 0 || y >= len(d.rows) {
		return
	}
	r := d.rows[y]
	if x > len(r.raw) {
		x = len(r.raw)
	}
	if x > 0 {
		r.raw = append(r.raw[:x-1], r.raw[x:]...)
		r.update()
		d.modified = true
		return
	}
	if y == 0 {
		return
	}
	prev := d.rows[y-1]
	prev.raw = append(prev.raw, r.raw...)
	prev.update()
	d.rows = append(d.rows[:y], d.rows[y+1:]...)
	d.modified = true
}

// SplitRow splits row y at raw index x; the tail becomes a new row y+1.
// Out-of-range rows are ignored.
func (d *Document) SplitRow(y, x int) {
	if y < 0 || y >= len(d.rows) {
		return
	}
	r := d.rows[y]
	if x < 0 {
		x = 0
	}
	if x > len(r.raw) {
		x = len(r.raw)
	}
	tail := append([]byte(nil), r.raw[x:]...)
	r.raw = r.raw[:x]
	r.update()
	d.InsertRow(y+1, tail)
}

// Serialize returns the whole document as raw bytes with a line
// terminator after every row, ready for persistence.
func (d *Document) Serialize() []byte {
	var buf bytes.Buffer
	for _, r := range d.rows {
		buf.Write(r.raw)
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}
