package richtext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEditorEmpty(t *testing.T) {
	e := NewEditor("")
	assert.Equal(t, "", e.HTML())
	assert.Equal(t, "", e.Text())
	assert.Equal(t, Paragraph, e.ActiveBlockStyle())
}

func TestInsertText(t *testing.T) {
	e := NewEditor("")
	e.InsertText("Hello")
	assert.Equal(t, "<p>Hello</p>", e.HTML())
	assert.Equal(t, Selection{Start: 5, End: 5}, e.Selection())
}

func TestInsertTextNewlineSplitsBlock(t *testing.T) {
	e := NewEditor("")
	e.InsertText("first\nsecond")
	assert.Equal(t, "<p>first</p><p>second</p>", e.HTML())
	assert.Equal(t, "first\nsecond", e.Text())
}

func TestBoldToggle(t *testing.T) {
	e := NewEditor("<p>Hello</p>")
	e.Select(0, 5)

	require.NoError(t, e.Exec("bold", ""))
	assert.Equal(t, "<p><b>Hello</b></p>", e.HTML())
	assert.True(t, e.ActiveStyles()["bold"])

	// toggling again removes it
	require.NoError(t, e.Exec("bold", ""))
	assert.Equal(t, "<p>Hello</p>", e.HTML())
	assert.False(t, e.ActiveStyles()["bold"])
}

func TestBoldPartialSelection(t *testing.T) {
	e := NewEditor("<p>Hello</p>")
	e.Select(0, 2)
	require.NoError(t, e.Exec("bold", ""))
	assert.Equal(t, "<p><b>He</b>llo</p>", e.HTML())
}

func TestMixedSelectionTogglesOn(t *testing.T) {
	// part of the selection is bold: the toggle applies, not removes
	e := NewEditor("<p><b>He</b>llo</p>")
	e.SelectAll()
	require.NoError(t, e.Exec("bold", ""))
	assert.Equal(t, "<p><b>Hello</b></p>", e.HTML())
}

func TestPendingStyleAtCaret(t *testing.T) {
	e := NewEditor("<p>ab</p>")
	e.Select(2, 2)

	require.NoError(t, e.Exec("bold", ""))
	assert.True(t, e.ActiveStyles()["bold"], "pending style reflects in the indicators")
	e.InsertText("c")
	assert.Equal(t, "<p>ab<b>c</b></p>", e.HTML())

	// moving the caret discards an unused pending style
	e.Select(0, 0)
	require.NoError(t, e.Exec("italic", ""))
	e.Select(1, 1)
	e.InsertText("x")
	assert.Equal(t, "<p>axb<b>c</b></p>", e.HTML())
}

func TestFormatBlock(t *testing.T) {
	e := NewEditor("<p>Title</p>")
	require.NoError(t, e.Exec("formatBlock", "h2"))
	assert.Equal(t, "<h2>Title</h2>", e.HTML())
	assert.Equal(t, Heading2, e.ActiveBlockStyle())

	require.NoError(t, e.Exec("formatBlock", "blockquote"))
	assert.Equal(t, "<blockquote>Title</blockquote>", e.HTML())
	assert.Equal(t, Paragraph, e.ActiveBlockStyle(), "non-headings report paragraph")

	require.Error(t, e.Exec("formatBlock", "h7"))
}

func TestUnknownCommand(t *testing.T) {
	e := NewEditor("")
	require.Error(t, e.Exec("transmogrify", ""))
}

func TestListToggle(t *testing.T) {
	e := NewEditor("<p>a</p><p>b</p>")
	e.SelectAll()

	require.NoError(t, e.Exec("insertUnorderedList", ""))
	assert.Equal(t, "<ul><li>a</li><li>b</li></ul>", e.HTML())
	assert.True(t, e.ActiveStyles()["insertUnorderedList"])

	// toggling the same list kind converts back to paragraphs
	require.NoError(t, e.Exec("insertUnorderedList", ""))
	assert.Equal(t, "<p>a</p><p>b</p>", e.HTML())

	require.NoError(t, e.Exec("insertOrderedList", ""))
	assert.Equal(t, "<ol><li>a</li><li>b</li></ol>", e.HTML())
}

func TestAlignment(t *testing.T) {
	e := NewEditor("<p>Hello</p>")
	require.NoError(t, e.Exec("justifyCenter", ""))
	assert.Equal(t, `<p style="text-align: center">Hello</p>`, e.HTML())
	assert.True(t, e.ActiveStyles()["justifyCenter"])

	// left is the default and is not serialized
	require.NoError(t, e.Exec("justifyLeft", ""))
	assert.Equal(t, "<p>Hello</p>", e.HTML())
	assert.True(t, e.ActiveStyles()["justifyLeft"])
}

func TestColors(t *testing.T) {
	e := NewEditor("<p>Hello</p>")
	e.Select(0, 5)
	require.NoError(t, e.Exec("foreColor", "#ef4444"))
	assert.Equal(t, `<p><span style="color: #ef4444">Hello</span></p>`, e.HTML())

	require.NoError(t, e.Exec("hiliteColor", "#fef08a"))
	assert.Equal(t, `<p><span style="color: #ef4444; background-color: #fef08a">Hello</span></p>`, e.HTML())
}

func TestCreateLinkViaPrompter(t *testing.T) {
	var prompt string
	e := NewEditor("<p>Hello</p>", WithPrompter(func(msg string) string {
		prompt = msg
		return "https://quizdesk.io"
	}))
	e.Select(0, 5)

	require.NoError(t, e.Exec("createLink", ""))
	assert.Equal(t, "Enter URL:", prompt)
	assert.Equal(t, `<p><a href="https://quizdesk.io">Hello</a></p>`, e.HTML())
}

func TestCancelledPromptIsNoOp(t *testing.T) {
	e := NewEditor("<p>Hello</p>", WithPrompter(func(string) string { return "" }))
	e.Select(0, 5)
	require.NoError(t, e.Exec("createLink", ""))
	assert.Equal(t, "<p>Hello</p>", e.HTML())

	// no prompter wired at all behaves the same
	e2 := NewEditor("<p>Hello</p>")
	e2.Select(0, 5)
	require.NoError(t, e2.Exec("insertImage", ""))
	assert.Equal(t, "<p>Hello</p>", e2.HTML())
}

func TestInsertImage(t *testing.T) {
	e := NewEditor("<p>Hello</p>")
	e.Select(5, 5)
	require.NoError(t, e.Exec("insertImage", "https://cdn.quizdesk.io/x.png"))
	assert.Equal(t, `<p>Hello<img src="https://cdn.quizdesk.io/x.png"></p>`, e.HTML())
}

func TestCanonicalInlineNesting(t *testing.T) {
	e := NewEditor("<p>Hello</p>", WithPrompter(func(string) string { return "https://x" }))
	e.Select(0, 5)
	require.NoError(t, e.Exec("bold", ""))
	e.Select(0, 5)
	require.NoError(t, e.Exec("foreColor", "#111111"))
	e.Select(0, 5)
	require.NoError(t, e.Exec("createLink", ""))

	assert.Equal(t,
		`<p><a href="https://x"><span style="color: #111111"><b>Hello</b></span></a></p>`,
		e.HTML())
}

func TestDeleteSelectionAcrossBlocks(t *testing.T) {
	e := NewEditor("<p>ab</p><p>cd</p>")
	e.Select(1, 4)
	e.DeleteSelection()
	assert.Equal(t, "<p>ad</p>", e.HTML())
}

func TestUndoRedo(t *testing.T) {
	e := NewEditor("")
	e.InsertText("one")
	e.InsertText(" two")
	require.Equal(t, "<p>one two</p>", e.HTML())

	require.NoError(t, e.Exec("undo", ""))
	assert.Equal(t, "<p>one</p>", e.HTML())
	require.NoError(t, e.Exec("undo", ""))
	assert.Equal(t, "", e.HTML())
	// undo past the beginning is a no-op
	require.NoError(t, e.Exec("undo", ""))
	assert.Equal(t, "", e.HTML())

	require.NoError(t, e.Exec("redo", ""))
	assert.Equal(t, "<p>one</p>", e.HTML())
	require.NoError(t, e.Exec("redo", ""))
	assert.Equal(t, "<p>one two</p>", e.HTML())

	// a new edit clears the redo branch
	require.NoError(t, e.Exec("undo", ""))
	e.InsertText("!")
	require.NoError(t, e.Exec("redo", ""))
	assert.Equal(t, "<p>one!</p>", e.HTML())
}

func TestChangeListener(t *testing.T) {
	var got []string
	e := NewEditor("", WithChangeListener(func(html string) { got = append(got, html) }))

	e.InsertText("a")
	require.NoError(t, e.Exec("formatBlock", "h1"))
	require.Equal(t, []string{"<p>a</p>", "<h1>a</h1>"}, got)
}

func TestSelectionListenerIndependentOfEdits(t *testing.T) {
	var selections, changes int
	e := NewEditor("<p>Hello</p>",
		WithChangeListener(func(string) { changes++ }),
		WithSelectionListener(func() { selections++ }),
	)

	e.Select(0, 3)
	assert.Equal(t, 1, selections)
	assert.Zero(t, changes, "a pure selection move is not an edit")
}

func TestLoadHTML(t *testing.T) {
	e := NewEditor("<p>old</p>")
	e.LoadHTML("<h1>new</h1>")
	assert.Equal(t, "<h1>new</h1>", e.HTML())
	assert.Equal(t, Selection{}, e.Selection())

	require.NoError(t, e.Exec("undo", ""))
	assert.Equal(t, "<p>old</p>", e.HTML())
}
