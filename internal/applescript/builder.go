package applescript

import "strings"

// indentUnit is the indentation used for every nesting level.
const indentUnit = "  "

// Statement is a fragment of script source rendered as one or more lines.
type Statement interface {
	Lines() []string
}

// Line is a single-line statement. Embedded newlines are split into
// separate lines when appended to a Document or Block.
type Line string

// Lines implements Statement
func (l Line) Lines() []string {
	if l == "" {
		return nil
	}
	return strings.Split(string(l), "\n")
}

// Block is a nestable sequence of lines used to compose control flow
// (repeat loops, if branches, inner try regions) as a single statement.
type Block struct {
	lines []string
}

// NewBlock creates an empty block.
func NewBlock() *Block {
	return &Block{}
}

// Line appends a statement at the block's current level.
func (b *Block) Line(s string) *Block {
	b.lines = append(b.lines, Line(s).Lines()...)
	return b
}

// Append appends every line of stmt at the block's current level.
func (b *Block) Append(stmt Statement) *Block {
	if stmt == nil {
		return b
	}
	b.lines = append(b.lines, stmt.Lines()...)
	return b
}

// Nest appends the lines written by fn one level deeper than the block.
func (b *Block) Nest(fn func(inner *Block)) *Block {
	inner := NewBlock()
	fn(inner)
	for _, l := range inner.lines {
		b.lines = append(b.lines, indentUnit+l)
	}
	return b
}

// Lines implements Statement. A nil block has no lines.
func (b *Block) Lines() []string {
	if b == nil {
		return nil
	}
	return b.lines
}

// Document is a script scoped to one application: a tell block holding
// unconditional statements followed by an optional guarded region.
type Document struct {
	scope   string
	do      []string
	try     []string
	onError []string
}

// NewDocument creates an empty document targeting the named application.
func NewDocument(scope string) *Document {
	return &Document{scope: scope}
}

// Do appends an unconditional statement. Nil or empty statements are ignored.
func (d *Document) Do(stmt Statement) *Document {
	d.do = appendStatement(d.do, stmt)
	return d
}

// Try appends a statement to the guarded region.
func (d *Document) Try(stmt Statement) *Document {
	d.try = appendStatement(d.try, stmt)
	return d
}

// OnError appends a statement to the error handler of the guarded region.
// The handler is only rendered when the guarded region is non-empty.
func (d *Document) OnError(stmt Statement) *Document {
	d.onError = appendStatement(d.onError, stmt)
	return d
}

// Render produces the script source. It does not modify the document.
func (d *Document) Render() string {
	out := make([]string, 0, len(d.do)+len(d.try)+len(d.onError)+6)
	out = append(out, `tell application "`+d.scope+`"`)
	out = appendIndented(out, d.do, 1)

	if len(d.try) > 0 {
		out = append(out, indentUnit+"try")
		out = appendIndented(out, d.try, 2)
		if len(d.onError) > 0 {
			out = append(out, indentUnit+"on error errorMsg")
			out = appendIndented(out, d.onError, 2)
		}
		out = append(out, indentUnit+"end try")
	}

	out = append(out, "end tell")
	return strings.Join(out, "\n")
}

func appendStatement(dst []string, stmt Statement) []string {
	if stmt == nil {
		return dst
	}
	return append(dst, stmt.Lines()...)
}

func appendIndented(dst, lines []string, depth int) []string {
	prefix := strings.Repeat(indentUnit, depth)
	for _, l := range lines {
		dst = append(dst, prefix+l)
	}
	return dst
}
