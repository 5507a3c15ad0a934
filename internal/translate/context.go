package translate

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"prism/internal/config"
	"prism/internal/diag"
	"prism/internal/emit"
	"prism/internal/model"
	"prism/internal/resolve"
	"prism/internal/symbols"
	"prism/internal/trace"
	"prism/internal/types"
)

// Options carries the collaborators of a Context. Zero values select
// defaults: config.Default(), a NopReporter and the nop tracer.
type Options struct {
	Config   *config.Config
	Reporter diag.Reporter
	Tracer   trace.Tracer
	// Span is the parent trace span of everything the context emits.
	Span uint64
}

// Context is the translation context of one compilation. It is not safe for
// concurrent use.
type Context struct {
	Program  *model.Program
	Types    *types.Interner
	Cache    *resolve.Cache
	Scopes   *symbols.Scopes
	Cursor   *emit.Cursor
	Config   config.Config
	Reporter diag.Reporter
	Tracer   trace.Tracer

	span    uint64
	current *model.Type
	async   *AsyncState
	names   map[model.MemberID]string
}

// New creates a context writing to out.
func New(prog *model.Program, r resolve.Resolver, out io.Writer, opts Options) *Context {
	cfg := config.Default()
	if opts.Config != nil {
		cfg = *opts.Config
	}
	c := &Context{
		Program:  prog,
		Types:    prog.Types,
		Cache:    resolve.NewCache(r),
		Scopes:   symbols.NewScopes(),
		Cursor:   emit.NewCursor(out, cfg.Output.Indent),
		Config:   cfg,
		Reporter: opts.Reporter,
		Tracer:   opts.Tracer,
		span:     opts.Span,
		names:    make(map[model.MemberID]string),
	}
	if c.Reporter == nil {
		c.Reporter = diag.NopReporter{}
	}
	if c.Tracer == nil {
		c.Tracer = trace.Nop
	}
	return c
}

// Span is the trace span new spans should nest under.
func (c *Context) Span() uint64 { return c.span }

// CurrentType is the type being emitted, nil outside EnterType.
func (c *Context) CurrentType() *model.Type { return c.current }

// EnterType makes t the current type until the returned func runs.
func (c *Context) EnterType(t *model.Type) (leave func()) {
	prev, prevSpan := c.current, c.span
	span := trace.Begin(c.Tracer, trace.ScopeType, t.Qualified, c.span)
	c.current = t
	c.span = span.ID()
	return func() {
		c.current, c.span = prev, prevSpan
		span.End("")
	}
}

// Redirect swaps the base output of the context. Passes that render to
// separate streams share one context this way.
func (c *Context) Redirect(out io.Writer) {
	c.Cursor = emit.NewCursor(out, c.Config.Output.Indent)
}

// MemberName returns the emitted name of m. Methods that share a name with
// earlier overloads (base types first) get a "$N" suffix; the name is
// computed once and reused by every later pass.
func (c *Context) MemberName(m *model.Member) (string, error) {
	if name, ok := c.names[m.ID]; ok {
		return name, nil
	}
	name := m.Name
	if m.Kind == model.MemberMethod {
		set, err := c.Cache.Member(m.ID, m.Static, true)
		if err != nil {
			return "", fmt.Errorf("%s: naming %s: %w", c.ownerName(m), m.Name, err)
		}
		if idx := set.Index(m.ID); idx > 0 {
			name += "$" + strconv.Itoa(idx)
		}
	}
	c.names[m.ID] = name
	return name, nil
}

func (c *Context) ownerName(m *model.Member) string {
	if t, ok := c.Program.Type(m.Owner); ok {
		return t.Qualified
	}
	return c.Types.Describe(m.Owner)
}

// AccessorKind selects one half of a property or event.
type AccessorKind uint8

const (
	Getter AccessorKind = iota
	Setter
	Adder
	Remover
)

// AccessorName derives the emitted accessor name from a member name: the
// configured marker is stripped, then the accessor prefix prepended.
func (c *Context) AccessorName(kind AccessorKind, name string) string {
	n := c.Config.Naming
	if n.StripMarker != "" {
		name = strings.TrimPrefix(name, n.StripMarker)
	}
	var prefix string
	switch kind {
	case Getter:
		prefix = n.GetterPrefix
	case Setter:
		prefix = n.SetterPrefix
	case Adder:
		prefix = n.AdderPrefix
	case Remover:
		prefix = n.RemoverPrefix
	}
	return prefix + name
}

// ReportMember reports a diagnostic about member m of owner.
func (c *Context) ReportMember(sev diag.Severity, code diag.Code, owner *model.Type, m *model.Member, format string, args ...any) {
	b := diag.NewReportBuilder(c.Reporter, sev, code, m.Loc, fmt.Sprintf(format, args...))
	ownerName := ""
	if owner != nil {
		ownerName = owner.Qualified
	}
	b.WithSubject(ownerName, m.Name).Emit()
}
