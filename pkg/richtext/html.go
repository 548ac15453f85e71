package richtext

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// serializeHTML renders the document to its canonical markup. Canonical
// means: minimal merged spans, a fixed nesting order for inline tags
// (<a> outside <span> outside <b><i><u><s>), left alignment omitted, and
// consecutive list items grouped under one <ul>/<ol>. Feeding the output
// back through parseHTML reproduces the same document, and serializing
// again yields the identical string.
func serializeHTML(d Document) string {
	if len(d.Blocks) == 1 && d.Blocks[0].Type == Paragraph &&
		d.Blocks[0].Align == AlignDefault && len(d.Blocks[0].Inlines) == 0 {
		return ""
	}

	var sb strings.Builder
	i := 0
	for i < len(d.Blocks) {
		b := d.Blocks[i]
		if b.Type.isListItem() {
			wrapper := "ul"
			if b.Type == OrderedItem {
				wrapper = "ol"
			}
			sb.WriteString("<" + wrapper + ">")
			for i < len(d.Blocks) && d.Blocks[i].Type == b.Type {
				writeBlock(&sb, "li", d.Blocks[i])
				i++
			}
			sb.WriteString("</" + wrapper + ">")
			continue
		}
		writeBlock(&sb, string(b.Type), b)
		i++
	}
	return sb.String()
}

func writeBlock(sb *strings.Builder, tag string, b Block) {
	sb.WriteString("<" + tag)
	if b.Align != AlignDefault && b.Align != AlignLeft {
		sb.WriteString(` style="text-align: ` + string(b.Align) + `"`)
	}
	sb.WriteString(">")
	for _, in := range b.Inlines {
		writeInline(sb, in)
	}
	sb.WriteString("</" + tag + ">")
}

func writeInline(sb *strings.Builder, in Inline) {
	if in.Image != "" {
		sb.WriteString(`<img src="` + html.EscapeString(in.Image) + `">`)
		return
	}

	var open, closers []string
	if in.Style.Link != "" {
		open = append(open, `<a href="`+html.EscapeString(in.Style.Link)+`">`)
		closers = append(closers, "</a>")
	}
	if in.Style.Color != "" || in.Style.Highlight != "" {
		var props []string
		if in.Style.Color != "" {
			props = append(props, "color: "+in.Style.Color)
		}
		if in.Style.Highlight != "" {
			props = append(props, "background-color: "+in.Style.Highlight)
		}
		open = append(open, `<span style="`+html.EscapeString(strings.Join(props, "; "))+`">`)
		closers = append(closers, "</span>")
	}
	for _, t := range []struct {
		on  bool
		tag string
	}{
		{in.Style.Bold, "b"},
		{in.Style.Italic, "i"},
		{in.Style.Underline, "u"},
		{in.Style.Strike, "s"},
	} {
		if t.on {
			open = append(open, "<"+t.tag+">")
			closers = append(closers, "</"+t.tag+">")
		}
	}

	for _, o := range open {
		sb.WriteString(o)
	}
	sb.WriteString(html.EscapeString(in.Text))
	for i := len(closers) - 1; i >= 0; i-- {
		sb.WriteString(closers[i])
	}
}

// parseHTML builds a document from markup. It accepts everything
// serializeHTML emits plus the common aliases a pasted fragment may carry
// (<strong>, <em>, <div>, <font color>). Unknown markup degrades to plain
// text; parseHTML never fails.
func parseHTML(s string) Document {
	if strings.TrimSpace(s) == "" {
		return newDocument()
	}
	root, err := html.Parse(strings.NewReader(s))
	if err != nil {
		d := newDocument()
		d.Blocks[0].Inlines = []Inline{{Text: s}}
		return d
	}

	body := findBody(root)
	if body == nil {
		return newDocument()
	}

	var d Document
	for n := body.FirstChild; n != nil; n = n.NextSibling {
		parseBlockNode(&d, n)
	}
	for i := range d.Blocks {
		d.Blocks[i].Inlines = mergeInlines(d.Blocks[i].Inlines)
	}
	if len(d.Blocks) == 0 {
		return newDocument()
	}
	return d
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Body {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findBody(c); found != nil {
			return found
		}
	}
	return nil
}

func parseBlockNode(d *Document, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		// bare text between blocks becomes its own paragraph
		if strings.TrimSpace(n.Data) == "" {
			return
		}
		d.Blocks = append(d.Blocks, Block{Type: Paragraph, Inlines: []Inline{{Text: n.Data}}})
	case html.ElementNode:
		switch n.DataAtom {
		case atom.P, atom.Div:
			d.Blocks = append(d.Blocks, elementToBlock(n, Paragraph))
		case atom.H1:
			d.Blocks = append(d.Blocks, elementToBlock(n, Heading1))
		case atom.H2:
			d.Blocks = append(d.Blocks, elementToBlock(n, Heading2))
		case atom.H3:
			d.Blocks = append(d.Blocks, elementToBlock(n, Heading3))
		case atom.H4:
			d.Blocks = append(d.Blocks, elementToBlock(n, Heading4))
		case atom.H5:
			d.Blocks = append(d.Blocks, elementToBlock(n, Heading5))
		case atom.H6:
			d.Blocks = append(d.Blocks, elementToBlock(n, Heading6))
		case atom.Blockquote:
			d.Blocks = append(d.Blocks, elementToBlock(n, Blockquote))
		case atom.Pre:
			d.Blocks = append(d.Blocks, elementToBlock(n, CodeBlock))
		case atom.Ul:
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.ElementNode && c.DataAtom == atom.Li {
					d.Blocks = append(d.Blocks, elementToBlock(c, BulletItem))
				}
			}
		case atom.Ol:
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.ElementNode && c.DataAtom == atom.Li {
					d.Blocks = append(d.Blocks, elementToBlock(c, OrderedItem))
				}
			}
		default:
			// inline content at the top level is wrapped in a paragraph
			b := Block{Type: Paragraph}
			parseInlineNode(&b, n, Style{})
			d.Blocks = append(d.Blocks, b)
		}
	}
}

func elementToBlock(n *html.Node, t BlockType) Block {
	b := Block{Type: t, Align: alignFromStyle(attr(n, "style"))}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		parseInlineNode(&b, c, Style{})
	}
	b.Inlines = mergeInlines(b.Inlines)
	return b
}

func parseInlineNode(b *Block, n *html.Node, style Style) {
	switch n.Type {
	case html.TextNode:
		b.Inlines = append(b.Inlines, Inline{Text: n.Data, Style: style})
		return
	case html.ElementNode:
	default:
		return
	}

	switch n.DataAtom {
	case atom.B, atom.Strong:
		style.Bold = true
	case atom.I, atom.Em:
		style.Italic = true
	case atom.U:
		style.Underline = true
	case atom.S, atom.Strike, atom.Del:
		style.Strike = true
	case atom.A:
		style.Link = attr(n, "href")
	case atom.Span:
		color, highlight := colorsFromStyle(attr(n, "style"))
		if color != "" {
			style.Color = color
		}
		if highlight != "" {
			style.Highlight = highlight
		}
	case atom.Font:
		if c := attr(n, "color"); c != "" {
			style.Color = c
		}
	case atom.Img:
		if src := attr(n, "src"); src != "" {
			b.Inlines = append(b.Inlines, Inline{Image: src})
		}
		return
	case atom.Br:
		b.Inlines = append(b.Inlines, Inline{Text: " ", Style: style})
		return
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		parseInlineNode(b, c, style)
	}
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

func alignFromStyle(style string) Alignment {
	for k, v := range styleProps(style) {
		if k == "text-align" {
			switch v {
			case "center":
				return AlignCenter
			case "right":
				return AlignRight
			case "left":
				return AlignDefault
			}
		}
	}
	return AlignDefault
}

func colorsFromStyle(style string) (color, highlight string) {
	props := styleProps(style)
	return props["color"], props["background-color"]
}

func styleProps(style string) map[string]string {
	props := make(map[string]string)
	for _, part := range strings.Split(style, ";") {
		k, v, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		props[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return props
}
