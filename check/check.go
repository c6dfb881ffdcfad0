// Package check drives a whole code base through the reconciliation engine.
//
// A Checker folds declarations into a recon.Diagnostics accumulator. Declarations without
// a native type never reach the engine; the checker reports them itself. Run spreads a
// batch over workers, each folding a contiguous chunk into a private accumulator, and
// merges the chunks in input order so the result matches a sequential fold.
package check

import (
	"context"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/teranos/doctor/decl"
	"github.com/teranos/doctor/errors"
	"github.com/teranos/doctor/logger"
	"github.com/teranos/doctor/recon"
)

// cancelCheckEvery is how many declarations a worker folds between context checks.
const cancelCheckEvery = 256

// Reconciler is the engine as seen by the checker. *recon.Engine implements it.
type Reconciler interface {
	Reconcile(acc recon.Diagnostics, d recon.Declaration) recon.Diagnostics
}

// Options tune a Checker.
type Options struct {
	// Workers bounds Run's parallelism. Zero means GOMAXPROCS.
	Workers int
	// SkipAmbiguous suppresses untyped reports for declarations that carry a doc type.
	SkipAmbiguous bool
	// Verbosity selects which output categories Run logs, see logger.ShouldOutput.
	Verbosity int
}

// Summary describes one Run.
type Summary struct {
	Declarations int
	Untyped      int
	Files        int
	Messages     int
	Duration     time.Duration
}

// Checker applies the untyped rule and the engine to declarations.
type Checker struct {
	engine Reconciler
	opts   Options
	logger *zap.SugaredLogger
}

// New creates a checker. log may be nil.
func New(engine Reconciler, opts Options, log *zap.SugaredLogger) *Checker {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	return &Checker{engine: engine, opts: opts, logger: log}
}

// Check returns acc with d's messages appended.
func (c *Checker) Check(acc recon.Diagnostics, d decl.Declaration) recon.Diagnostics {
	if !d.Typed() {
		if msg, ok := c.untyped(d); ok {
			return acc.Append(d.File, msg)
		}
		return acc
	}
	return c.engine.Reconcile(acc, d.Recon())
}

// Fold checks decls sequentially.
func (c *Checker) Fold(acc recon.Diagnostics, decls []decl.Declaration) recon.Diagnostics {
	for _, d := range decls {
		acc = c.Check(acc, d)
	}
	return acc
}

// Run checks decls in parallel. The result is the same as Fold over an empty
// accumulator. It stops early when ctx is cancelled.
func (c *Checker) Run(ctx context.Context, decls []decl.Declaration) (recon.Diagnostics, Summary, error) {
	start := time.Now()
	chunks := split(decls, c.opts.Workers)
	results := make([]recon.Diagnostics, len(chunks))
	untyped := make([]int, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.Workers)
	for i, chunk := range chunks {
		g.Go(func() error {
			var acc recon.Diagnostics
			for j, d := range chunk {
				if j%cancelCheckEvery == 0 {
					if err := gctx.Err(); err != nil {
						return err
					}
				}
				if !d.Typed() {
					untyped[i]++
				}
				acc = c.Check(acc, d)
			}
			results[i] = acc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return recon.Diagnostics{}, Summary{}, errors.Wrap(err, "check cancelled")
	}

	var merged recon.Diagnostics
	summary := Summary{Declarations: len(decls)}
	for i, r := range results {
		merged = merged.Merge(r)
		summary.Untyped += untyped[i]
	}
	summary.Files = len(merged.Files())
	summary.Messages = merged.Len()
	summary.Duration = time.Since(start)

	c.logSummary(summary, len(chunks))
	return merged, summary, nil
}

// logSummary logs the run counts from -v on and adds timing from -vv on.
func (c *Checker) logSummary(summary Summary, workers int) {
	if !logger.ShouldOutput(c.opts.Verbosity, logger.OutputSummary) {
		return
	}
	fields := []interface{}{
		logger.FieldDeclarations, summary.Declarations,
		logger.FieldUntyped, summary.Untyped,
		logger.FieldFiles, summary.Files,
		logger.FieldMessages, summary.Messages,
	}
	if logger.ShouldOutput(c.opts.Verbosity, logger.OutputTiming) {
		fields = append(fields, logger.FieldWorkers, workers, logger.FieldDuration, summary.Duration)
	}
	c.logger.Infow("Check finished", fields...)
}

// split cuts decls into at most n contiguous chunks of near-equal size.
func split(decls []decl.Declaration, n int) [][]decl.Declaration {
	if len(decls) == 0 {
		return nil
	}
	if n > len(decls) {
		n = len(decls)
	}
	chunks := make([][]decl.Declaration, 0, n)
	size, extra := len(decls)/n, len(decls)%n
	for i, lo := 0, 0; i < n; i++ {
		hi := lo + size
		if i < extra {
			hi++
		}
		chunks = append(chunks, decls[lo:hi])
		lo = hi
	}
	return chunks
}
