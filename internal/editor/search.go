package editor

import "bytes"

// find runs the incremental search sub-mode. Every keystroke in the
// prompt re-scans the document; ESC restores the cursor and viewport
// captured before the search began, Enter keeps the last match.
func (e *Editor) find() {
	savedCx, savedCy := e.cx, e.cy
	savedRowOff, savedColOff := e.rowOffset, e.colOffset

	if _, ok := e.prompt("Search: %s (ESC to cancel)", promptSearch); !ok {
		e.cx, e.cy = savedCx, savedCy
		e.rowOffset, e.colOffset = savedRowOff, savedColOff
	}
}

// searchStep scans the rendered rows from the top for the first
// occurrence of query and moves the cursor there, mapping the match
// offset back into raw space.
func (e *Editor) searchStep(query string) {
	if query == "" {
		return
	}
	needle := []byte(query)
	for y := 0; y < e.doc.NumRows(); y++ {
		row := e.doc.Row(y)
		idx := bytes.Index(row.Render(), needle)
		if idx < 0 {
			continue
		}
		e.cy = y
		e.cx = row.RenderToCursor(idx)
		// Pushing the offset past the end makes the next scroll clamp
		// backwards, landing the matched line at the top of the viewport.
		e.rowOffset = e.doc.NumRows()
		return
	}
}
