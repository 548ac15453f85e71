package richtext

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSerializeEmptyDocument(t *testing.T) {
	assert.Equal(t, "", serializeHTML(newDocument()))
	assert.Equal(t, "", serializeHTML(parseHTML("")))
	assert.Equal(t, "", serializeHTML(parseHTML("   \n  ")))
}

// Canonical markup must survive a parse/serialize round trip unchanged.
func TestCanonicalRoundTrip(t *testing.T) {
	cases := []string{
		"<p>Hello</p>",
		"<h1>Title</h1><p>Body</p>",
		"<blockquote>quoted</blockquote>",
		"<pre>code here</pre>",
		`<p style="text-align: center">centered</p>`,
		`<h2 style="text-align: right">pushed</h2>`,
		"<p><b>bold</b> and <i>italic</i> and <u>under</u> and <s>gone</s></p>",
		"<p><b><i>both</i></b></p>",
		`<p><span style="color: #ef4444">red</span></p>`,
		`<p><span style="background-color: #fef08a">marked</span></p>`,
		`<p><span style="color: #111111; background-color: #fef08a">both</span></p>`,
		`<p><a href="https://quizdesk.io">link</a></p>`,
		`<p><a href="https://x"><span style="color: #ef4444"><b>all</b></span></a></p>`,
		"<ul><li>one</li><li>two</li></ul>",
		"<ol><li>first</li><li>second</li></ol>",
		"<ul><li>a</li></ul><p>between</p><ul><li>b</li></ul>",
		`<p><img src="https://cdn.quizdesk.io/x.png"></p>`,
		`<p>before<img src="https://i/p.png">after</p>`,
		"<p>a &lt; b &amp; c</p>",
	}
	for _, markup := range cases {
		assert.Equal(t, markup, serializeHTML(parseHTML(markup)), "round trip of %s", markup)
	}
}

// Pasted markup is normalized: aliases map to canonical tags, the inline
// nesting order is fixed, and adjacent same-style runs merge.
func TestParseNormalizes(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"strong to b", "<p><strong>x</strong></p>", "<p><b>x</b></p>"},
		{"em to i", "<p><em>x</em></p>", "<p><i>x</i></p>"},
		{"del to s", "<p><del>x</del></p>", "<p><s>x</s></p>"},
		{"div to p", "<div>x</div>", "<p>x</p>"},
		{"font color to span", `<p><font color="#ff0000">x</font></p>`, `<p><span style="color: #ff0000">x</span></p>`},
		{"left align dropped", `<p style="text-align: left">x</p>`, "<p>x</p>"},
		{"nesting order fixed", `<p><b><a href="u">x</a></b></p>`, `<p><a href="u"><b>x</b></a></p>`},
		{"adjacent runs merge", "<p><b>a</b><b>b</b>cd</p>", "<p><b>ab</b>cd</p>"},
		{"br becomes space", "<p>a<br>b</p>", "<p>a b</p>"},
		{"bare text wrapped", "hello", "<p>hello</p>"},
		{"bare inline wrapped", "<b>x</b>", "<p><b>x</b></p>"},
		{"empty list dropped", "<ul></ul><p>x</p>", "<p>x</p>"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, serializeHTML(parseHTML(tc.in)))
		})
	}
}

func TestSerializeGroupsListRuns(t *testing.T) {
	d := Document{Blocks: []Block{
		{Type: BulletItem, Inlines: []Inline{{Text: "a"}}},
		{Type: BulletItem, Inlines: []Inline{{Text: "b"}}},
		{Type: OrderedItem, Inlines: []Inline{{Text: "c"}}},
	}}
	assert.Equal(t, "<ul><li>a</li><li>b</li></ul><ol><li>c</li></ol>", serializeHTML(d))
}

func TestSerializeEscapesText(t *testing.T) {
	d := Document{Blocks: []Block{
		{Type: Paragraph, Inlines: []Inline{{Text: `<script>&"`}}},
	}}
	assert.Equal(t, "<p>&lt;script&gt;&amp;&#34;</p>", serializeHTML(d))
}

func TestParseNeverFails(t *testing.T) {
	// truncated and nonsense markup degrades instead of erroring
	for _, in := range []string{"<p>unclosed", "<<<", "<ul><p>stray</p></ul>"} {
		d := parseHTML(in)
		assert.NotEmpty(t, d.Blocks, "input %q", in)
	}
}

func TestParseIgnoresUnknownStyleProps(t *testing.T) {
	d := parseHTML(`<p style="font-size: 12px; text-align: center">x</p>`)
	assert.Equal(t, AlignCenter, d.Blocks[0].Align)
	assert.Equal(t, `<p style="text-align: center">x</p>`, serializeHTML(d))
}
