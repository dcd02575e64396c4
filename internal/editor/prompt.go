package editor

// promptKind tags the line-prompt sub-mode with its per-keystroke
// behavior; search re-runs on every edit of the query.
type promptKind int

const (
	promptSaveAs promptKind = iota
	promptSearch
	promptGoto
)

// prompt captures one line of free-text input in the message bar. It
// returns the entered text, with ok=false when the user cancelled with
// ESC (or the input stream closed). The label must contain a single %s
// placeholder for the accumulated input.
func (e *Editor) prompt(label string, kind promptKind) (string, bool) {
	e.mode = modePrompt
	defer func() { e.mode = modeNormal }()

	var input []byte
	for {
		e.setStatusMessage(label, input)
		e.refresh()

		ev, ok := e.nextKey()
		if !ok {
			return "", false
		}

		switch ev.Key {
		case KeyEnter:
			e.setStatusMessage("")
			return string(input), true
		case KeyEscape:
			e.setStatusMessage("")
			return "", false
		case KeyBackspace:
			if len(input) > 0 {
				input = input[:len(input)-1]
			}
		case KeyChar:
			input = append(input, ev.Ch)
		default:
			// Navigation keys have no meaning inside the prompt.
			continue
		}

		if kind == promptSearch {
			e.searchStep(string(input))
		}
	}
}
