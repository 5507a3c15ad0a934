package driver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"prism/internal/config"
	"prism/internal/model"
	"prism/internal/testkit"
	"prism/internal/trace"
)

func TestCompileIsDeterministic(t *testing.T) {
	first, err := Compile(context.Background(), testkit.MustBuild(t, testkit.Demo()), Options{})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	second, err := Compile(context.Background(), testkit.MustBuild(t, testkit.Demo()), Options{})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if first.Runtime != second.Runtime || first.Declarations != second.Declarations {
		t.Fatalf("outputs differ between runs")
	}
	if !strings.Contains(first.Declarations, "Draw$1(size: number): void;") ||
		!strings.Contains(first.Runtime, "Widget.prototype.Draw$1 = function (size)") {
		t.Fatalf("overload names disagree between passes")
	}
	if first.Stats != second.Stats || first.Stats.Misses == 0 {
		t.Fatalf("unexpected resolution stats %+v / %+v", first.Stats, second.Stats)
	}
	phases := first.Timer.Report().Phases
	if len(phases) != 2 || phases[0].Name != "declarations" || phases[1].Name != "runtime" {
		t.Fatalf("unexpected phases %+v", phases)
	}
}

func TestCompileWithoutDeclarations(t *testing.T) {
	cfg := config.Default()
	cfg.Output.Declarations = false
	res, err := Compile(context.Background(), testkit.MustBuild(t, testkit.Demo()), Options{Config: &cfg})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if res.Declarations != "" || res.Runtime == "" {
		t.Fatalf("unexpected outputs: %d/%d bytes", len(res.Declarations), len(res.Runtime))
	}
}

func TestCompileTraces(t *testing.T) {
	rec := trace.NewRecorder(trace.LevelPhase)
	ctx := trace.WithTracer(context.Background(), rec)
	if _, err := Compile(ctx, testkit.MustBuild(t, testkit.Demo()), Options{}); err != nil {
		t.Fatalf("compile: %v", err)
	}
	var names []string
	for _, ev := range rec.Events() {
		if ev.Kind == trace.KindSpanBegin {
			names = append(names, ev.Name)
		}
	}
	want := []string{"compile demo", "declarations", "runtime"}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Fatalf("spans = %v, want %v", names, want)
	}
}

func writeModels(t *testing.T, n int) []string {
	t.Helper()
	dir := t.TempDir()
	paths := make([]string, n)
	for i := range paths {
		f := testkit.Demo()
		f.Name = fmt.Sprintf("demo%d", i)
		paths[i] = filepath.Join(dir, f.Name+".pm")
		if err := model.WriteFile(paths[i], f); err != nil {
			t.Fatalf("write model: %v", err)
		}
	}
	return paths
}

func TestCompileAllMatchesSequential(t *testing.T) {
	paths := writeModels(t, 4)
	parallel, err := CompileAll(context.Background(), paths, 3, Options{})
	if err != nil {
		t.Fatalf("compile all: %v", err)
	}
	for i, path := range paths {
		seq, err := CompileFile(context.Background(), path, Options{})
		if err != nil {
			t.Fatalf("compile %s: %v", path, err)
		}
		if parallel[i].Name != seq.Name || parallel[i].Runtime != seq.Runtime || parallel[i].Declarations != seq.Declarations {
			t.Fatalf("result %d differs from sequential compilation", i)
		}
	}
}

func TestCompileFileReportsBuildErrors(t *testing.T) {
	f := &model.File{Name: "broken", Types: []model.TypeDecl{{
		Name: "A", Namespace: "X", Category: "class",
		Fields: []model.FieldDecl{{MemberDecl: model.MemberDecl{Name: "b", Type: model.Named("X.Missing")}}},
	}}}
	path := filepath.Join(t.TempDir(), "broken.pm")
	if err := model.WriteFile(path, f); err != nil {
		t.Fatalf("write: %v", err)
	}
	res, err := CompileFile(context.Background(), path, Options{})
	if !errors.Is(err, model.ErrInvalidModel) {
		t.Fatalf("expected ErrInvalidModel, got %v", err)
	}
	if res == nil || !res.Bag.HasErrors() {
		t.Fatalf("build diagnostics missing")
	}
}

func TestOutputCache(t *testing.T) {
	cache, err := OpenOutputCache(t.TempDir())
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	path := writeModels(t, 1)[0]
	opts := Options{Cache: cache}

	first, err := CompileFile(context.Background(), path, opts)
	if err != nil || first.Cached {
		t.Fatalf("first compile: cached=%v err=%v", first != nil && first.Cached, err)
	}
	second, err := CompileFile(context.Background(), path, opts)
	if err != nil {
		t.Fatalf("second compile: %v", err)
	}
	if !second.Cached || second.Runtime != first.Runtime || second.Declarations != first.Declarations {
		t.Fatalf("cache miss or stale entry")
	}
	if second.Bag.Len() != first.Bag.Len() {
		t.Fatalf("diagnostics not restored: %d vs %d", second.Bag.Len(), first.Bag.Len())
	}

	// a different configuration is a different input
	cfg := config.Default()
	cfg.Output.Indent = "\t"
	third, err := CompileFile(context.Background(), path, Options{Cache: cache, Config: &cfg})
	if err != nil || third.Cached {
		t.Fatalf("config change must miss the cache: %v", err)
	}

	if err := cache.Drop(); err != nil {
		t.Fatalf("drop: %v", err)
	}
	again, err := CompileFile(context.Background(), path, opts)
	if err != nil || again.Cached {
		t.Fatalf("dropped cache still hit: %v", err)
	}
}

func TestWriteOutputs(t *testing.T) {
	res, err := Compile(context.Background(), testkit.MustBuild(t, testkit.Demo()), Options{})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	dir := filepath.Join(t.TempDir(), "out")
	written, err := WriteOutputs(res, dir)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if len(written) != 2 {
		t.Fatalf("written = %v", written)
	}
	data, err := os.ReadFile(filepath.Join(dir, "demo.d.ts"))
	if err != nil || string(data) != res.Declarations {
		t.Fatalf("declaration file not written: %v", err)
	}
}

type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *recordingSink) OnEvent(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

func TestCompileAllReportsProgress(t *testing.T) {
	paths := writeModels(t, 2)
	sink := &recordingSink{}
	if _, err := CompileAll(context.Background(), paths, 2, Options{Progress: sink}); err != nil {
		t.Fatalf("compile all: %v", err)
	}
	for _, path := range paths {
		var got []string
		for _, ev := range sink.events {
			if ev.File == path {
				got = append(got, string(ev.Stage)+":"+string(ev.Status))
			}
		}
		want := []string{":queued", "load:working", "declarations:working", "runtime:working", ":done"}
		if strings.Join(got, ",") != strings.Join(want, ",") {
			t.Fatalf("%s events = %v, want %v", path, got, want)
		}
	}
}
