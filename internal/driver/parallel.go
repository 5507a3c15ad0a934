package driver

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// CompileAll compiles independent model files in parallel. Each file gets
// its own translation context; results keep the order of paths. The first
// failure cancels files that have not started yet.
func CompileAll(ctx context.Context, paths []string, jobs int, opts Options) ([]*Result, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// each goroutine owns its index, no lock needed
	results := make([]*Result, len(paths))

	for _, path := range paths {
		opts.report(path, "", StatusQueued)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))
	for i, path := range paths {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			res, err := CompileFile(gctx, path, opts)
			results[i] = res
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
