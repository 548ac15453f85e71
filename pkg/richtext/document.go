// Package richtext maintains the editable rich-text document used by the
// privacy-policy editor. The canonical form of a document is an HTML
// string; it is the only value persisted to the backend or handed to
// change listeners.
//
// Unlike the browser editor it models, the document here is explicit: a
// sequence of blocks of styled text spans plus a selection expressed as
// rune offsets. There is no ambient platform selection to query, which
// keeps every command deterministic and testable.
package richtext

import "strings"

// BlockType identifies the block-level style of one block.
type BlockType string

const (
	Paragraph  BlockType = "p"
	Heading1   BlockType = "h1"
	Heading2   BlockType = "h2"
	Heading3   BlockType = "h3"
	Heading4   BlockType = "h4"
	Heading5   BlockType = "h5"
	Heading6   BlockType = "h6"
	Blockquote BlockType = "blockquote"
	CodeBlock  BlockType = "pre"

	// List items are modeled as individual blocks; serialization groups
	// consecutive runs into a single <ul> or <ol>.
	BulletItem  BlockType = "uli"
	OrderedItem BlockType = "oli"
)

func (t BlockType) isListItem() bool { return t == BulletItem || t == OrderedItem }

// Alignment is the block text alignment. The zero value is the default
// (left, not serialized).
type Alignment string

const (
	AlignDefault Alignment = ""
	AlignLeft    Alignment = "left"
	AlignCenter  Alignment = "center"
	AlignRight   Alignment = "right"
)

// Style is the character-style set carried by a span.
type Style struct {
	Bold      bool
	Italic    bool
	Underline bool
	Strike    bool
	Color     string // text color, e.g. "#ef4444"
	Highlight string // background color
	Link      string // href; empty means no link
}

// Inline is one run of identically-styled text, or a single image.
type Inline struct {
	Text  string
	Image string // image URL; when set the inline is atomic with length 1
	Style Style
}

func (in Inline) length() int {
	if in.Image != "" {
		return 1
	}
	return len([]rune(in.Text))
}

// Block is one block-level element.
type Block struct {
	Type    BlockType
	Align   Alignment
	Inlines []Inline
}

func (b Block) length() int {
	n := 0
	for _, in := range b.Inlines {
		n += in.length()
	}
	return n
}

func (b Block) text() string {
	var sb strings.Builder
	for _, in := range b.Inlines {
		if in.Image != "" {
			sb.WriteRune('￼')
			continue
		}
		sb.WriteString(in.Text)
	}
	return sb.String()
}

// Selection is a half-open rune range [Start, End) over the document's
// flattened text, where each block boundary counts as one position. A
// collapsed selection is a caret.
type Selection struct {
	Start int
	End   int
}

// Collapsed reports whether the selection is a caret.
func (s Selection) Collapsed() bool { return s.Start == s.End }

// Document is a sequence of blocks. An empty document holds one empty
// paragraph so there is always a block to type into.
type Document struct {
	Blocks []Block
}

func newDocument() Document {
	return Document{Blocks: []Block{{Type: Paragraph}}}
}

func (d Document) length() int {
	n := 0
	for i, b := range d.Blocks {
		if i > 0 {
			n++ // block boundary
		}
		n += b.length()
	}
	return n
}

// Text returns the flattened plain text with blocks joined by newlines.
// Images flatten to the object replacement character.
func (d Document) Text() string {
	parts := make([]string, len(d.Blocks))
	for i, b := range d.Blocks {
		parts[i] = b.text()
	}
	return strings.Join(parts, "\n")
}

// locate maps a document offset to (block index, offset within block).
// An offset sitting exactly on a block boundary resolves to the end of the
// preceding block.
func (d Document) locate(pos int) (int, int) {
	for i, b := range d.Blocks {
		n := b.length()
		if pos <= n {
			return i, pos
		}
		pos -= n + 1
	}
	last := len(d.Blocks) - 1
	return last, d.Blocks[last].length()
}

// clamp bounds a selection to the document.
func (d Document) clamp(sel Selection) Selection {
	n := d.length()
	if sel.Start < 0 {
		sel.Start = 0
	}
	if sel.End < sel.Start {
		sel.End = sel.Start
	}
	if sel.Start > n {
		sel.Start = n
	}
	if sel.End > n {
		sel.End = n
	}
	return sel
}

// splitAt splits the block's inline list at a block-local offset and
// returns the index at which new inlines may be inserted. Existing inlines
// are split in place when the offset falls inside one.
func (b *Block) splitAt(off int) int {
	at := 0
	for i := range b.Inlines {
		n := b.Inlines[i].length()
		if off == at {
			return i
		}
		if off < at+n {
			// inside a text inline; images are atomic and can only be
			// split before or after
			runes := []rune(b.Inlines[i].Text)
			head := Inline{Text: string(runes[:off-at]), Style: b.Inlines[i].Style}
			tail := Inline{Text: string(runes[off-at:]), Style: b.Inlines[i].Style}
			rest := append([]Inline{head, tail}, b.Inlines[i+1:]...)
			b.Inlines = append(b.Inlines[:i], rest...)
			return i + 1
		}
		at += n
	}
	return len(b.Inlines)
}

// mergeInlines joins adjacent text inlines with identical styles and drops
// empty ones, keeping the canonical form minimal so serialization is
// stable.
func mergeInlines(inlines []Inline) []Inline {
	out := inlines[:0:0]
	for _, in := range inlines {
		if in.Image == "" && in.Text == "" {
			continue
		}
		if len(out) > 0 {
			last := &out[len(out)-1]
			if last.Image == "" && in.Image == "" && last.Style == in.Style {
				last.Text += in.Text
				continue
			}
		}
		out = append(out, in)
	}
	return out
}

// blockRange returns the indices of the blocks the selection touches.
func (d Document) blockRange(sel Selection) (int, int) {
	first, _ := d.locate(sel.Start)
	last, _ := d.locate(sel.End)
	return first, last
}

// eachSelectedSpan splits inlines at the selection boundaries and applies
// fn to every span fully inside the selection. Images are skipped: they
// carry no character styles.
func (d *Document) eachSelectedSpan(sel Selection, fn func(*Style)) {
	if sel.Collapsed() {
		return
	}
	first, last := d.blockRange(sel)
	_, startOff := d.locate(sel.Start)
	_, endOff := d.locate(sel.End)

	for bi := first; bi <= last; bi++ {
		b := &d.Blocks[bi]
		from := 0
		to := b.length()
		if bi == first {
			from = startOff
		}
		if bi == last {
			to = endOff
		}
		if from >= to {
			continue
		}
		lo := b.splitAt(from)
		hi := b.splitAt(to)
		for i := lo; i < hi; i++ {
			if b.Inlines[i].Image != "" {
				continue
			}
			fn(&b.Inlines[i].Style)
		}
		b.Inlines = mergeInlines(b.Inlines)
	}
}

// selectedStylesAllSet reports whether every selected character carries the
// style property probed by has. An empty or collapsed selection reports
// false.
func (d *Document) selectedStylesAllSet(sel Selection, has func(Style) bool) bool {
	if sel.Collapsed() {
		return false
	}
	all := true
	any := false
	first, last := d.blockRange(sel)
	_, startOff := d.locate(sel.Start)
	_, endOff := d.locate(sel.End)
	for bi := first; bi <= last; bi++ {
		b := d.Blocks[bi]
		at := 0
		for _, in := range b.Inlines {
			n := in.length()
			from := 0
			to := n
			if bi == first && at+n <= startOff {
				at += n
				continue
			}
			if bi == first && at < startOff {
				from = startOff - at
			}
			if bi == last && at >= endOff {
				break
			}
			if bi == last && at+n > endOff {
				to = endOff - at
			}
			if from < to && in.Image == "" {
				any = true
				if !has(in.Style) {
					all = false
				}
			}
			at += n
		}
	}
	return any && all
}

// styleAt returns the style governing the caret position: the style of the
// character before the caret, falling back to the one after, so typing
// continues the run the caret sits in.
func (d *Document) styleAt(pos int) Style {
	bi, off := d.locate(pos)
	b := d.Blocks[bi]
	at := 0
	var prev *Style
	for i := range b.Inlines {
		n := b.Inlines[i].length()
		if off > at && off <= at+n && b.Inlines[i].Image == "" {
			return b.Inlines[i].Style
		}
		if b.Inlines[i].Image == "" {
			prev = &b.Inlines[i].Style
		}
		at += n
	}
	if off == 0 && len(b.Inlines) > 0 && b.Inlines[0].Image == "" {
		return b.Inlines[0].Style
	}
	if prev != nil {
		return *prev
	}
	return Style{}
}

// deleteRange removes the selected content, merging the boundary blocks
// when the range spans block boundaries.
func (d *Document) deleteRange(sel Selection) {
	if sel.Collapsed() {
		return
	}
	first, last := d.blockRange(sel)
	_, startOff := d.locate(sel.Start)
	_, endOff := d.locate(sel.End)

	if first == last {
		b := &d.Blocks[first]
		lo := b.splitAt(startOff)
		hi := b.splitAt(endOff)
		b.Inlines = mergeInlines(append(b.Inlines[:lo:lo], b.Inlines[hi:]...))
		return
	}

	head := &d.Blocks[first]
	lo := head.splitAt(startOff)
	head.Inlines = head.Inlines[:lo:lo]

	tailBlock := d.Blocks[last]
	hi := tailBlock.splitAt(endOff)
	head.Inlines = mergeInlines(append(head.Inlines, tailBlock.Inlines[hi:]...))

	d.Blocks = append(d.Blocks[:first+1], d.Blocks[last+1:]...)
}

// insertTextAt inserts styled text at a caret position and returns the new
// caret offset.
func (d *Document) insertTextAt(pos int, text string, style Style) int {
	bi, off := d.locate(pos)
	b := &d.Blocks[bi]
	i := b.splitAt(off)
	rest := append([]Inline{{Text: text, Style: style}}, b.Inlines[i:]...)
	b.Inlines = mergeInlines(append(b.Inlines[:i:i], rest...))
	return pos + len([]rune(text))
}

// insertImageAt inserts an image inline at a caret position.
func (d *Document) insertImageAt(pos int, url string) int {
	bi, off := d.locate(pos)
	b := &d.Blocks[bi]
	i := b.splitAt(off)
	rest := append([]Inline{{Image: url}}, b.Inlines[i:]...)
	b.Inlines = mergeInlines(append(b.Inlines[:i:i], rest...))
	return pos + 1
}

// splitBlockAt breaks the block containing pos in two at pos, giving the
// new block the same type and alignment. Returns the caret position at the
// start of the new block.
func (d *Document) splitBlockAt(pos int) int {
	bi, off := d.locate(pos)
	b := d.Blocks[bi]
	i := (&d.Blocks[bi]).splitAt(off)
	b = d.Blocks[bi]

	tail := Block{Type: b.Type, Align: b.Align, Inlines: append([]Inline{}, b.Inlines[i:]...)}
	d.Blocks[bi].Inlines = mergeInlines(b.Inlines[:i:i])
	tail.Inlines = mergeInlines(tail.Inlines)

	d.Blocks = append(d.Blocks[:bi+1], append([]Block{tail}, d.Blocks[bi+1:]...)...)
	return pos + 1
}
