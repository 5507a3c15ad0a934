package emit

import (
	"fmt"
	"io"
	"strings"

	"fortio.org/safecast"
)

// DefaultIndent is the indentation unit used when none is configured.
const DefaultIndent = "    "

type frame struct {
	id          WriterID
	w           io.Writer
	atLineStart bool
	lists       []bool
}

// Cursor tracks where the next piece of output goes and how it is indented.
// The level never drops below the initial level: relative adjustments and
// explicit resets are clamped to it.
type Cursor struct {
	unit    string
	level   int
	initial int
	frames  []*frame
	pushed  int
	err     error
}

// NewCursor installs w as the base writer. The base writer stays on the
// stack for the cursor's lifetime.
func NewCursor(w io.Writer, indent string) *Cursor {
	if indent == "" {
		indent = DefaultIndent
	}
	c := &Cursor{unit: indent}
	c.frames = append(c.frames, &frame{id: c.nextID(), w: w, atLineStart: true})
	return c
}

func (c *Cursor) nextID() WriterID {
	c.pushed++
	raw, err := safecast.Conv[uint32](c.pushed)
	if err != nil {
		panic(fmt.Errorf("writer id overflow: %w", err))
	}
	return WriterID(raw)
}

func (c *Cursor) top() *frame { return c.frames[len(c.frames)-1] }

func (c *Cursor) Level() int        { return c.level }
func (c *Cursor) InitialLevel() int { return c.initial }

// SetInitialLevel moves the floor. The current level is raised to it when
// needed.
func (c *Cursor) SetInitialLevel(n int) {
	c.initial = max(n, 0)
	c.level = max(c.level, c.initial)
}

func (c *Cursor) Indent() { c.level++ }

func (c *Cursor) Dedent() { c.AdjustLevel(-1) }

// AdjustLevel applies a relative change, clamped to the floor.
func (c *Cursor) AdjustLevel(delta int) {
	c.level = max(c.level+delta, c.initial)
}

// ResetLevel returns to the floor.
func (c *Cursor) ResetLevel() int {
	c.level = c.initial
	return c.level
}

// ResetLevelTo sets an absolute level, clamped to the floor, and returns the
// resulting level.
func (c *Cursor) ResetLevelTo(n int) int {
	c.level = max(n, c.initial)
	return c.level
}

// Depth is the number of writers above the base writer.
func (c *Cursor) Depth() int { return len(c.frames) - 1 }

// PushWriter redirects output to w until the matching PopWriter.
func (c *Cursor) PushWriter(w io.Writer) WriterID {
	f := &frame{id: c.nextID(), w: w, atLineStart: true}
	c.frames = append(c.frames, f)
	return f.id
}

// PopWriter removes the writer pushed as expected. The base writer cannot be
// popped.
func (c *Cursor) PopWriter(expected WriterID) {
	if len(c.frames) == 1 {
		panic(&ContractViolation{Op: "pop writer", Expected: expected})
	}
	if top := c.top(); top.id != expected {
		panic(&ContractViolation{Op: "pop writer", Expected: expected, Actual: top.id})
	}
	c.frames[len(c.frames)-1] = nil
	c.frames = c.frames[:len(c.frames)-1]
}

// Capture runs fn with output redirected into a buffer and returns what fn
// wrote. The writer is popped on every exit path; on error the partial
// output is discarded.
func (c *Cursor) Capture(fn func() error) (string, error) {
	var sb strings.Builder
	id := c.PushWriter(&sb)
	err := func() error {
		defer c.PopWriter(id)
		return fn()
	}()
	if err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Err returns the first write error of any writer.
func (c *Cursor) Err() error { return c.err }

func (c *Cursor) raw(s string) {
	if c.err != nil || s == "" {
		return
	}
	if _, err := io.WriteString(c.top().w, s); err != nil {
		c.err = err
	}
}

// Write emits text, indenting every line that starts with it.
func (c *Cursor) Write(text string) {
	f := c.top()
	for text != "" {
		line, rest, nl := strings.Cut(text, "\n")
		if line != "" {
			if f.atLineStart {
				c.raw(strings.Repeat(c.unit, c.level))
				f.atLineStart = false
			}
			c.raw(line)
		}
		if !nl {
			break
		}
		c.raw("\n")
		f.atLineStart = true
		text = rest
	}
}

// Writef is Write with formatting.
func (c *Cursor) Writef(format string, args ...any) {
	c.Write(fmt.Sprintf(format, args...))
}

// Merge writes previously captured text verbatim. Captured text already
// carries its indentation.
func (c *Cursor) Merge(text string) {
	if text == "" {
		return
	}
	c.raw(text)
	c.top().atLineStart = strings.HasSuffix(text, "\n")
}

func (c *Cursor) WriteNewLine() {
	c.raw("\n")
	c.top().atLineStart = true
}

// WriteLine writes text followed by a newline.
func (c *Cursor) WriteLine(text string) {
	c.Write(text)
	c.WriteNewLine()
}

func (c *Cursor) WriteSemicolon()  { c.Write(";") }
func (c *Cursor) WriteColon()      { c.Write(": ") }
func (c *Cursor) WriteSpace()      { c.Write(" ") }
func (c *Cursor) WriteOpenParen()  { c.Write("(") }
func (c *Cursor) WriteCloseParen() { c.Write(")") }

// WriteOpenBrace writes " {", ends the line and indents.
func (c *Cursor) WriteOpenBrace() {
	c.Write(" {")
	c.WriteNewLine()
	c.Indent()
}

// WriteCloseBrace dedents and writes "}".
func (c *Cursor) WriteCloseBrace() {
	c.Dedent()
	c.Write("}")
}

// BeginList starts a separated list on the current writer.
func (c *Cursor) BeginList() {
	f := c.top()
	f.lists = append(f.lists, false)
}

// EndList closes the innermost list.
func (c *Cursor) EndList() {
	f := c.top()
	if len(f.lists) == 0 {
		panic(&ContractViolation{Op: "end list", Expected: f.id, Actual: f.id})
	}
	f.lists = f.lists[:len(f.lists)-1]
}

// WriteComma separates list items: it writes ", " before every item but the
// first of the innermost list. Outside a list it always writes.
func (c *Cursor) WriteComma() {
	f := c.top()
	if n := len(f.lists); n > 0 {
		if !f.lists[n-1] {
			f.lists[n-1] = true
			return
		}
	}
	c.Write(", ")
}
