package richtext

import (
	"fmt"
)

// Prompter supplies the URL for link and image insertion. It is consulted
// synchronously when Exec receives a createLink or insertImage command with
// no value; an empty answer aborts the insertion as a no-op.
type Prompter func(message string) string

// Editor drives a Document through the same command set the dashboard
// toolbar exposes. Every formatting operation goes through Exec, so adding
// a command never adds a new code path on the caller's side.
//
// After every command and every raw edit the editor re-serializes the
// document and emits the canonical HTML through the change listener, then
// recomputes the active block style and character styles from the current
// selection so toolbar indicator state can never go stale.
type Editor struct {
	doc Document
	sel Selection

	// pending carries style toggled at a collapsed caret, applied to the
	// next insertion, the way a browser applies bold-at-caret.
	pending *Style

	undoStack []snapshot
	redoStack []snapshot

	onChange    func(html string)
	onSelection func()
	prompter    Prompter

	activeBlock  BlockType
	activeStyles map[string]bool
}

type snapshot struct {
	html string
	sel  Selection
}

const maxUndoDepth = 100

// EditorOption configures an Editor.
type EditorOption func(*Editor)

// WithPrompter sets the URL prompter for link and image insertion.
func WithPrompter(p Prompter) EditorOption {
	return func(e *Editor) { e.prompter = p }
}

// WithChangeListener registers the canonical-value listener. It receives
// the serialized document after every edit.
func WithChangeListener(fn func(html string)) EditorOption {
	return func(e *Editor) { e.onChange = fn }
}

// WithSelectionListener registers a listener fired on every selection
// recomputation, including pure selection moves that are not edits.
func WithSelectionListener(fn func()) EditorOption {
	return func(e *Editor) { e.onSelection = fn }
}

// NewEditor creates an editor over the given initial markup. Invalid or
// empty markup yields an empty document rather than an error: the editable
// surface must always come up.
func NewEditor(initial string, opts ...EditorOption) *Editor {
	e := &Editor{
		activeStyles: map[string]bool{},
	}
	for _, opt := range opts {
		opt(e)
	}
	e.doc = parseHTML(initial)
	e.sel = Selection{}
	e.recomputeActive()
	return e
}

// LoadHTML replaces the document with the parsed markup and collapses the
// selection to the start. The replacement is undoable.
func (e *Editor) LoadHTML(markup string) {
	e.pushUndo()
	e.doc = parseHTML(markup)
	e.sel = Selection{}
	e.pending = nil
	e.emitChange()
}

// HTML returns the canonical serialized form of the document.
func (e *Editor) HTML() string { return serializeHTML(e.doc) }

// Text returns the flattened plain text.
func (e *Editor) Text() string { return e.doc.Text() }

// Selection returns the current selection.
func (e *Editor) Selection() Selection { return e.sel }

// Select moves the selection without editing. Active styles are recomputed
// immediately: selection observation is independent of edit observation.
func (e *Editor) Select(start, end int) {
	e.sel = e.doc.clamp(Selection{Start: start, End: end})
	e.pending = nil
	e.recomputeActive()
	if e.onSelection != nil {
		e.onSelection()
	}
}

// SelectAll selects the whole document.
func (e *Editor) SelectAll() {
	e.Select(0, e.doc.length())
}

// ActiveBlockStyle returns the block style at the selection start: one of
// the heading types, or Paragraph for everything that is not a heading.
func (e *Editor) ActiveBlockStyle() BlockType { return e.activeBlock }

// ActiveStyles returns the set of active character styles and block flags
// at the current selection, keyed by command name.
func (e *Editor) ActiveStyles() map[string]bool {
	out := make(map[string]bool, len(e.activeStyles))
	for k, v := range e.activeStyles {
		out[k] = v
	}
	return out
}

// Exec applies one named command with an optional value. Unknown commands
// are an error; a command whose prompt is cancelled is a silent no-op.
func (e *Editor) Exec(command, value string) error {
	switch command {
	case "bold":
		e.toggleStyle(func(s *Style, on bool) { s.Bold = on }, func(s Style) bool { return s.Bold })
	case "italic":
		e.toggleStyle(func(s *Style, on bool) { s.Italic = on }, func(s Style) bool { return s.Italic })
	case "underline":
		e.toggleStyle(func(s *Style, on bool) { s.Underline = on }, func(s Style) bool { return s.Underline })
	case "strikethrough":
		e.toggleStyle(func(s *Style, on bool) { s.Strike = on }, func(s Style) bool { return s.Strike })
	case "formatBlock":
		t, err := blockTypeFromValue(value)
		if err != nil {
			return err
		}
		e.withUndo(func() { e.setBlockType(t) })
	case "insertUnorderedList":
		e.withUndo(func() { e.toggleListType(BulletItem) })
	case "insertOrderedList":
		e.withUndo(func() { e.toggleListType(OrderedItem) })
	case "justifyLeft":
		e.withUndo(func() { e.setAlignment(AlignLeft) })
	case "justifyCenter":
		e.withUndo(func() { e.setAlignment(AlignCenter) })
	case "justifyRight":
		e.withUndo(func() { e.setAlignment(AlignRight) })
	case "foreColor":
		e.withUndo(func() {
			e.doc.eachSelectedSpan(e.sel, func(s *Style) { s.Color = value })
		})
	case "hiliteColor":
		e.withUndo(func() {
			e.doc.eachSelectedSpan(e.sel, func(s *Style) { s.Highlight = value })
		})
	case "createLink":
		url := e.resolveURL(value, "Enter URL:")
		if url == "" {
			return nil
		}
		e.withUndo(func() {
			e.doc.eachSelectedSpan(e.sel, func(s *Style) { s.Link = url })
		})
	case "insertImage":
		url := e.resolveURL(value, "Enter image URL:")
		if url == "" {
			return nil
		}
		e.withUndo(func() {
			e.doc.deleteRange(e.sel)
			pos := e.doc.insertImageAt(e.sel.Start, url)
			e.sel = Selection{Start: pos, End: pos}
		})
	case "insertText":
		e.InsertText(value)
	case "undo":
		e.undo()
	case "redo":
		e.redo()
	default:
		return fmt.Errorf("richtext: unknown command %q", command)
	}
	return nil
}

// InsertText replaces the selection with plain text. The inserted text
// adopts the caret's pending style when one is set, otherwise the style of
// the run the caret sits in. A newline splits the block.
func (e *Editor) InsertText(text string) {
	if text == "" {
		return
	}
	e.withUndo(func() {
		style := e.doc.styleAt(e.sel.Start)
		if e.pending != nil {
			style = *e.pending
			e.pending = nil
		}
		e.doc.deleteRange(e.sel)
		pos := e.sel.Start
		for i, part := range splitLines(text) {
			if i > 0 {
				pos = e.doc.splitBlockAt(pos)
			}
			if part != "" {
				pos = e.doc.insertTextAt(pos, part, style)
			}
		}
		e.sel = Selection{Start: pos, End: pos}
	})
}

// DeleteSelection removes the selected range. A collapsed selection is a
// no-op.
func (e *Editor) DeleteSelection() {
	if e.sel.Collapsed() {
		return
	}
	e.withUndo(func() {
		e.doc.deleteRange(e.sel)
		e.sel = Selection{Start: e.sel.Start, End: e.sel.Start}
	})
}

func splitLines(s string) []string {
	var out []string
	start := 0
	for i, r := range s {
		if r == '\n' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	return append(out, s[start:])
}

func blockTypeFromValue(value string) (BlockType, error) {
	switch BlockType(value) {
	case Paragraph, Heading1, Heading2, Heading3, Heading4, Heading5, Heading6, Blockquote, CodeBlock:
		return BlockType(value), nil
	}
	return "", fmt.Errorf("richtext: unknown block style %q", value)
}

func (e *Editor) resolveURL(value, prompt string) string {
	if value != "" {
		return value
	}
	if e.prompter == nil {
		return ""
	}
	return e.prompter(prompt)
}

// toggleStyle applies browser toggle semantics: if every selected character
// already carries the style it is removed, otherwise it is applied. At a
// collapsed caret the toggle is held as pending style for the next insert.
func (e *Editor) toggleStyle(set func(*Style, bool), has func(Style) bool) {
	if e.sel.Collapsed() {
		style := e.doc.styleAt(e.sel.Start)
		if e.pending != nil {
			style = *e.pending
		}
		set(&style, !has(style))
		e.pending = &style
		e.recomputeActive()
		return
	}
	on := !e.doc.selectedStylesAllSet(e.sel, has)
	e.withUndo(func() {
		e.doc.eachSelectedSpan(e.sel, func(s *Style) { set(s, on) })
	})
}

func (e *Editor) setBlockType(t BlockType) {
	first, last := e.doc.blockRange(e.sel)
	for i := first; i <= last; i++ {
		e.doc.Blocks[i].Type = t
	}
}

// toggleListType converts the selected blocks into list items, or back to
// paragraphs when they already are items of that kind.
func (e *Editor) toggleListType(t BlockType) {
	first, last := e.doc.blockRange(e.sel)
	all := true
	for i := first; i <= last; i++ {
		if e.doc.Blocks[i].Type != t {
			all = false
			break
		}
	}
	target := t
	if all {
		target = Paragraph
	}
	for i := first; i <= last; i++ {
		e.doc.Blocks[i].Type = target
	}
}

func (e *Editor) setAlignment(a Alignment) {
	first, last := e.doc.blockRange(e.sel)
	for i := first; i <= last; i++ {
		if a == AlignLeft {
			// left is the default; normalize so serialization stays canonical
			e.doc.Blocks[i].Align = AlignDefault
		} else {
			e.doc.Blocks[i].Align = a
		}
	}
}

// withUndo snapshots the document, runs the mutation, then emits the new
// canonical value and recomputes selection-derived state.
func (e *Editor) withUndo(mutate func()) {
	e.pushUndo()
	mutate()
	e.sel = e.doc.clamp(e.sel)
	e.emitChange()
}

func (e *Editor) pushUndo() {
	e.undoStack = append(e.undoStack, snapshot{html: serializeHTML(e.doc), sel: e.sel})
	if len(e.undoStack) > maxUndoDepth {
		e.undoStack = e.undoStack[1:]
	}
	e.redoStack = nil
}

func (e *Editor) undo() {
	if len(e.undoStack) == 0 {
		return
	}
	top := e.undoStack[len(e.undoStack)-1]
	e.undoStack = e.undoStack[:len(e.undoStack)-1]
	e.redoStack = append(e.redoStack, snapshot{html: serializeHTML(e.doc), sel: e.sel})
	e.restore(top)
}

func (e *Editor) redo() {
	if len(e.redoStack) == 0 {
		return
	}
	top := e.redoStack[len(e.redoStack)-1]
	e.redoStack = e.redoStack[:len(e.redoStack)-1]
	e.undoStack = append(e.undoStack, snapshot{html: serializeHTML(e.doc), sel: e.sel})
	e.restore(top)
}

func (e *Editor) restore(s snapshot) {
	e.doc = parseHTML(s.html)
	e.sel = e.doc.clamp(s.sel)
	e.emitChange()
}

func (e *Editor) emitChange() {
	if e.onChange != nil {
		e.onChange(e.HTML())
	}
	e.recomputeActive()
}

// recomputeActive derives the toolbar indicator state from the current
// caret or selection.
func (e *Editor) recomputeActive() {
	bi, _ := e.doc.locate(e.sel.Start)
	b := e.doc.Blocks[bi]

	switch b.Type {
	case Heading1, Heading2, Heading3, Heading4, Heading5, Heading6:
		e.activeBlock = b.Type
	default:
		e.activeBlock = Paragraph
	}

	probe := func(has func(Style) bool) bool {
		if e.sel.Collapsed() {
			if e.pending != nil {
				return has(*e.pending)
			}
			return has(e.doc.styleAt(e.sel.Start))
		}
		return e.doc.selectedStylesAllSet(e.sel, has)
	}

	e.activeStyles = map[string]bool{
		"bold":                probe(func(s Style) bool { return s.Bold }),
		"italic":              probe(func(s Style) bool { return s.Italic }),
		"underline":           probe(func(s Style) bool { return s.Underline }),
		"strikethrough":       probe(func(s Style) bool { return s.Strike }),
		"insertUnorderedList": b.Type == BulletItem,
		"insertOrderedList":   b.Type == OrderedItem,
		"justifyLeft":         b.Align == AlignDefault || b.Align == AlignLeft,
		"justifyCenter":       b.Align == AlignCenter,
		"justifyRight":        b.Align == AlignRight,
	}
}
