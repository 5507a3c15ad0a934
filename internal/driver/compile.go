// Package driver runs the emission passes over program models.
package driver

import (
	"context"
	"fmt"
	"strings"

	"prism/internal/config"
	"prism/internal/decl"
	"prism/internal/diag"
	"prism/internal/jsgen"
	"prism/internal/model"
	"prism/internal/observ"
	"prism/internal/resolve"
	"prism/internal/trace"
	"prism/internal/translate"
)

// Options configure a compilation. Zero values select defaults.
type Options struct {
	Config *config.Config
	// Resolver builds the resolver for a program; nil uses resolve.NewStatic.
	Resolver func(*model.Program) resolve.Resolver
	Bodies   jsgen.BodyEmitter
	Async    jsgen.AsyncLowerer
	// Cache, when set, stores results of CompileFile by input digest.
	Cache *OutputCache
	// Progress, when set, receives per-file stage events.
	Progress ProgressSink
}

func (o *Options) config() config.Config {
	if o.Config != nil {
		return *o.Config
	}
	return config.Default()
}

// Result holds the outputs of one program.
type Result struct {
	Name         string
	Runtime      string
	Declarations string
	Bag          *diag.Bag
	Stats        resolve.Stats
	Timer        *observ.Timer
	Cached       bool
}

// Compile runs the declaration pass (when enabled) and the runtime pass over
// prog with a single translation context, so both passes share the
// resolution cache, the member names and the anonymous shape registry.
func Compile(ctx context.Context, prog *model.Program, opts Options) (*Result, error) {
	return compile(ctx, prog, opts, "")
}

func compile(ctx context.Context, prog *model.Program, opts Options, file string) (*Result, error) {
	cfg := opts.config()
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeDriver, "compile "+prog.Name, 0)
	defer span.End("")

	res := &Result{
		Name:  prog.Name,
		Bag:   diag.NewBag(cfg.Diagnostics.Max),
		Timer: observ.NewTimer(),
	}
	resolver := resolve.Resolver(resolve.NewStatic(prog))
	if opts.Resolver != nil {
		resolver = opts.Resolver(prog)
	}

	var out strings.Builder
	tctx := translate.New(prog, resolver, &out, translate.Options{
		Config:   &cfg,
		Reporter: diag.NewDedupReporter(diag.BagReporter{Bag: res.Bag}),
		Tracer:   tracer,
		Span:     span.ID(),
	})
	proj := decl.NewProjector(prog.Types)

	if cfg.Output.Declarations {
		opts.report(file, StageDeclarations, StatusWorking)
		err := res.Timer.Measure("declarations", func() error {
			pass := trace.Begin(tracer, trace.ScopePass, "declarations", span.ID())
			defer pass.End("")
			return decl.NewEmitter(tctx, proj).EmitProgram()
		})
		if err != nil {
			return res, fmt.Errorf("%s: declarations: %w", prog.Name, err)
		}
		res.Declarations = out.String()
	}
	if err := ctx.Err(); err != nil {
		return res, err
	}

	out.Reset()
	tctx.Redirect(&out)
	opts.report(file, StageRuntime, StatusWorking)
	err := res.Timer.Measure("runtime", func() error {
		pass := trace.Begin(tracer, trace.ScopePass, "runtime", span.ID())
		defer pass.End("")
		return jsgen.NewEmitter(tctx, jsgen.Options{Bodies: opts.Bodies, Async: opts.Async}).EmitProgram()
	})
	if err != nil {
		return res, fmt.Errorf("%s: runtime: %w", prog.Name, err)
	}
	res.Runtime = out.String()
	res.Stats = tctx.Cache.Stats()
	span.WithExtra("hits", fmt.Sprint(res.Stats.Hits)).WithExtra("misses", fmt.Sprint(res.Stats.Misses))
	res.Bag.Sort()
	return res, nil
}

// CompileFile loads a program model file, builds it and compiles it. Build
// diagnostics are part of the result.
func CompileFile(ctx context.Context, path string, opts Options) (*Result, error) {
	res, err := compileFile(ctx, path, opts)
	switch {
	case err != nil || res == nil || res.Bag.HasErrors():
		opts.report(path, "", StatusError)
	case res.Cached:
		opts.report(path, "", StatusCached)
	default:
		opts.report(path, "", StatusDone)
	}
	return res, err
}

func compileFile(ctx context.Context, path string, opts Options) (*Result, error) {
	cfg := opts.config()
	var key Digest
	if opts.Cache != nil {
		var err error
		if key, err = InputDigest(path, &cfg); err != nil {
			return nil, err
		}
		if res, ok, err := opts.Cache.Get(key); err != nil {
			return nil, err
		} else if ok {
			return res, nil
		}
	}

	opts.report(path, StageLoad, StatusWorking)
	timer := observ.NewTimer()
	var f *model.File
	err := timer.Measure("load", func() error {
		var err error
		f, err = model.ReadFile(path)
		return err
	})
	if err != nil {
		return nil, err
	}

	bag := diag.NewBag(cfg.Diagnostics.Max)
	prog, err := model.Build(f, diag.BagReporter{Bag: bag})
	if err != nil {
		return &Result{Name: f.Name, Bag: bag, Timer: timer}, fmt.Errorf("%s: %w", path, err)
	}
	res, err := compile(ctx, prog, opts, path)
	if res != nil {
		bag.Merge(res.Bag)
		bag.Sort()
		res.Bag = bag
		res.Timer = mergeTimers(timer, res.Timer)
	}
	if err != nil {
		return res, err
	}
	if opts.Cache != nil && !res.Bag.HasErrors() {
		if err := opts.Cache.Put(key, res); err != nil {
			return res, err
		}
	}
	return res, nil
}

func mergeTimers(first, second *observ.Timer) *observ.Timer {
	first.Append(second)
	return first
}
