// Package solver implements the Import Solver Loop of spec.md §4.6: a
// bounded work queue that compiles a set of schema.Document values in an
// order that guarantees every protocol's imports are already compiled by
// the time internal/compiler reaches it.
//
// Grounded on internal/imports/imports.go's ImportFlow, specifically its
// arrow-joined String() rendering used to report a cyclic import — reused
// here to render the stuck-queue diagnostic when the loop exhausts its
// iteration budget. The teacher resolves imports with a recursive
// depth-first walk carrying the flow in a context.Value; spec.md §4.6 asks
// for an explicit bounded queue instead, so the walk itself is rebuilt as
// an iterative FIFO queue, in which a blocked protocol goes to the back,
// rather than adapted from the teacher's recursion.
package solver

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/bearlytools/wiregen/internal/compiler"
	"github.com/bearlytools/wiregen/internal/errs"
	"github.com/bearlytools/wiregen/internal/ir"
	"github.com/bearlytools/wiregen/internal/schema"
)

// Options configures a Run call.
type Options struct {
	// MaxIterations bounds the number of times a protocol whose imports are
	// not compiled yet is put back on the queue before the loop gives up
	// and reports SolverMaxIterations. Zero means DefaultMaxIterations.
	// SPEC_FULL.md §5 decision 3: unlike the teacher's unconditional
	// behavior, this is caller-configurable rather than a hard-coded
	// constant.
	MaxIterations int

	Compiler compiler.Options
}

// DefaultMaxIterations is used when Options.MaxIterations is zero.
const DefaultMaxIterations = 16

// Run compiles every doc in docs into store. Protocols are taken from the
// front of the queue, which starts in the order docs are given (there is no
// reordering by import count); a protocol whose imports are not all
// compiled yet goes to the back of the queue, and a ready one is compiled
// and inserted into store.
func Run(ctx context.Context, docs []*schema.Document, store *ir.ProtocolStore, opts Options) error {
	maxIter := opts.MaxIterations
	if maxIter == 0 {
		maxIter = DefaultMaxIterations
	}

	byName := make(map[string]*schema.Document, len(docs))
	for _, d := range docs {
		byName[d.Name] = d
	}

	queue := make([]*schema.Document, len(docs))
	copy(queue, docs)

	iterations := 0
	var stuck []string

	for len(queue) > 0 {
		doc := queue[0]
		queue = queue[1:]

		ready, missing := importsSatisfied(doc, store, byName)
		if !ready {
			if iterations >= maxIter {
				return errs.New(errs.SolverMaxIterations,
					"import solver exhausted %d iterations with protocols still unresolved: %s",
					maxIter, renderStuck(stuck))
			}
			iterations++
			// Requeue at the front: this protocol is still waiting on an
			// import that has not been compiled yet.
			queue = append([]*schema.Document{doc}, queue...)
			stuck = append(stuck, doc.Name+" (needs "+strings.Join(missing, ", ")+")")
			// Rotate the rest of the queue forward so the blocked entry
			// doesn't spin at the front forever starving its dependency.
			if len(queue) > 1 {
				queue = append(queue[1:], queue[0])
			}
			continue
		}

		proto, err := compiler.Compile(ctx, doc, store, opts.Compiler)
		if err != nil {
			return errors.Wrapf(err, "import solver compiling %q", doc.Name)
		}
		store.Insert(doc.Name, proto)
		stuck = nil
	}
	return nil
}

// importsSatisfied reports whether every protocol doc imports from is
// already present in store, distinguishing "not compiled yet" from
// "does not exist at all" (the latter is a hard UndefinedReference the
// compile step itself will raise, not a reason to keep requeuing).
func importsSatisfied(doc *schema.Document, store *ir.ProtocolStore, known map[string]*schema.Document) (bool, []string) {
	var missing []string
	for _, imp := range doc.Imports {
		if store.Has(imp.Protocol) {
			continue
		}
		if _, ok := known[imp.Protocol]; !ok {
			// Unknown protocol entirely: let compiler.Compile raise
			// UndefinedReference rather than looping forever.
			continue
		}
		missing = append(missing, imp.Protocol)
	}
	return len(missing) == 0, missing
}

func renderStuck(stuck []string) string {
	b := strings.Builder{}
	for i, s := range stuck {
		if i > 0 {
			b.WriteString(" --> ")
		}
		b.WriteString(s)
	}
	return b.String()
}
