// Package ticket renders orders into printer-independent layouts.
//
// Rendering is pure: Render never touches a device or the store, so the three ticket
// layouts can be tested on their own and sent by any connector.
package ticket

// Align is the horizontal alignment of a line.
type Align int

const (
	Left Align = iota
	Center
	Right
)

// Line is one printed line.
type Line struct {
	Text  string
	Align Align
	Bold  bool
}

// Layout is a complete ticket. Connectors print the lines in order and cut the paper
// when Cut is set.
type Layout struct {
	Lines []Line
	Cut   bool
}

// Text returns the layout as plain text, one line per row. Used for logs and tests.
func (l Layout) Text() string {
	n := 0
	for _, line := range l.Lines {
		n += len(line.Text) + 1
	}
	b := make([]byte, 0, n)
	for _, line := range l.Lines {
		b = append(b, line.Text...)
		b = append(b, '\n')
	}
	return string(b)
}

type builder struct {
	align Align
	lines []Line
}

func (b *builder) setAlign(a Align) *builder {
	b.align = a
	return b
}

func (b *builder) text(s string) *builder {
	b.lines = append(b.lines, Line{Text: s, Align: b.align})
	return b
}

func (b *builder) bold(s string) *builder {
	b.lines = append(b.lines, Line{Text: s, Align: b.align, Bold: true})
	return b
}

func (b *builder) blank() *builder {
	return b.text("")
}

func (b *builder) layout() Layout {
	return Layout{Lines: b.lines, Cut: true}
}
