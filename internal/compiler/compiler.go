// Package compiler implements the Protocol Compiler of spec.md §4.5: it
// drives one schema.Document's imports, structures, enumerations, unions,
// and messages through internal/resolve, internal/layout, internal/union,
// and internal/classify into a single immutable ir.Protocol.
//
// Grounded on internal/imports/imports.go's Config (the
// "Imports map[string]*idl.File" store, and the discipline of never handing
// a caller a partially-populated entry) and internal/render/render.go's
// Rendered struct for the shape of "one finished compiled artifact per
// input". internal/compiler replaces the teacher's recursive,
// git-fetch-driven resolution with a single-pass compile of one already-
// read Document against an already-compiled ir.ProtocolStore; ordering
// across documents is internal/solver's job, not this package's.
package compiler

import (
	"context"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/trace"

	"github.com/bearlytools/wiregen/internal/classify"
	"github.com/bearlytools/wiregen/internal/errs"
	"github.com/bearlytools/wiregen/internal/ir"
	"github.com/bearlytools/wiregen/internal/layout"
	"github.com/bearlytools/wiregen/internal/resolve"
	"github.com/bearlytools/wiregen/internal/schema"
	"github.com/bearlytools/wiregen/internal/union"
)

// Options configures a single Compile call.
type Options struct {
	// Namer controls how imported entities are named in generated code;
	// nil uses resolve.DefaultNamer.
	Namer resolve.ExternalNamer

	// Tracer, if set, wraps each compile stage (imports, enums, structs,
	// unions, messages) in its own span. Adapted from
	// rpc/interceptor/otel's per-call span wrapping.
	Tracer trace.Tracer
}

func parseEndianness(s string) (ir.Endianness, error) {
	switch s {
	case "", "little":
		return ir.LittleEndian, nil
	case "big":
		return ir.BigEndian, nil
	default:
		return 0, errs.New(errs.ModelParse, "unknown endianness %q, must be \"little\" or \"big\"", s)
	}
}

// Compile turns one already-parsed, already-validated schema.Document into
// a compiled ir.Protocol. Every protocol doc.Imports from must already be
// present in store; the caller (internal/solver) is responsible for
// presenting documents in an order that guarantees this.
func Compile(ctx context.Context, doc *schema.Document, store *ir.ProtocolStore, opts Options) (*ir.Protocol, error) {
	if opts.Namer == nil {
		opts.Namer = resolve.DefaultNamer
	}

	end, err := parseEndianness(doc.Endianness)
	if err != nil {
		return nil, errors.Wrapf(err, "compiling protocol %q", doc.Name)
	}
	proto := ir.NewProtocol(doc.Name, end)

	if err := span(ctx, opts.Tracer, "compiler.imports", func() error {
		return resolve.Imports(doc, store, proto, opts.Namer)
	}); err != nil {
		return nil, errors.Wrapf(err, "compiling protocol %q", doc.Name)
	}

	// Enums are compiled before structures even though spec.md §4.5 lists
	// "process structures; process messages; process enums; process
	// unions" in that literal order. A struct field's view can be
	// View{enum: "Name"} (spec.md §4.1), which needs the enum already
	// compiled to resolve against — the documented order only motivates
	// struct-before-message (so a message can reference an
	// already-declared struct), not enum-after-struct. See DESIGN.md.
	if err := span(ctx, opts.Tracer, "compiler.enums", func() error {
		for _, ed := range doc.Enums {
			e, err := layout.ComputeEnum(ed)
			if err != nil {
				return err
			}
			proto.AddEnum(e)
		}
		return nil
	}); err != nil {
		return nil, errors.Wrapf(err, "compiling protocol %q", doc.Name)
	}

	if err := span(ctx, opts.Tracer, "compiler.structs", func() error {
		for _, sd := range doc.Structs {
			s, err := layout.ComputeStruct(sd, proto.Struct, proto.Enum)
			if err != nil {
				return err
			}
			proto.AddStruct(s)
		}
		return nil
	}); err != nil {
		return nil, errors.Wrapf(err, "compiling protocol %q", doc.Name)
	}

	// Unions are compiled before messages for the same reason: a union
	// field in a message needs its ir.Union already resolved, and a
	// union's discriminant path needs its structs already compiled.
	if err := span(ctx, opts.Tracer, "compiler.unions", func() error {
		for _, ud := range doc.Unions {
			u, err := union.BuildUnion(ud, proto)
			if err != nil {
				return err
			}
			proto.AddUnion(u)
		}
		return nil
	}); err != nil {
		return nil, errors.Wrapf(err, "compiling protocol %q", doc.Name)
	}

	if err := span(ctx, opts.Tracer, "compiler.messages", func() error {
		for _, md := range doc.Messages {
			m, err := classify.ClassifyMessage(md, proto)
			if err != nil {
				return err
			}
			proto.AddMessage(m)
		}
		return nil
	}); err != nil {
		return nil, errors.Wrapf(err, "compiling protocol %q", doc.Name)
	}

	return proto, nil
}

func span(ctx context.Context, tracer trace.Tracer, name string, fn func() error) error {
	if tracer == nil {
		return fn()
	}
	_, sp := tracer.Start(ctx, name)
	defer sp.End()
	return fn()
}
