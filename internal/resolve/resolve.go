// Package resolve implements the Type Resolver of spec.md §4.2: per-
// protocol local name tables and cross-protocol import resolution into an
// identity-keyed TypePathMap.
//
// Grounded on internal/imports/imports.go's populateExternals/
// populateIDLExternals (resolving "[package].[type]" identifiers against a
// store of already-parsed files) and idl.go's Identifers/External
// bookkeeping, adapted from the teacher's git-fetched package registry to
// an in-memory ir.ProtocolStore (spec.md §4.6 replaces remote fetch with a
// caller-supplied file list).
package resolve

import (
	"github.com/pkg/errors"

	"github.com/bearlytools/wiregen/internal/errs"
	"github.com/bearlytools/wiregen/internal/ir"
	"github.com/bearlytools/wiregen/internal/schema"
)

// ExternalNamer produces the fully-qualified external name an imported
// entity should be rendered under in the importing protocol's generated
// code. This is the "policy object" spec.md §4.2 calls out; the default
// implementation joins the source protocol name and the type name.
type ExternalNamer func(sourceProtocol, typeName string) string

// DefaultNamer is the ExternalNamer used when the caller has no preference:
// "<protocol>.<TypeName>".
func DefaultNamer(sourceProtocol, typeName string) string {
	return sourceProtocol + "." + typeName
}

// Imports processes one protocol's import list against an already-compiled
// ProtocolStore, aliasing each imported type into proto's local tables and
// recording its identity in proto.TypePathMap (spec.md §4.2).
func Imports(doc *schema.Document, store *ir.ProtocolStore, proto *ir.Protocol, namer ExternalNamer) error {
	if namer == nil {
		namer = DefaultNamer
	}

	for _, imp := range doc.Imports {
		src, ok := store.Get(imp.Protocol)
		if !ok {
			return errors.Wrapf(
				errs.New(errs.UndefinedReference, "import of %q from undefined protocol %q", imp.TypeName, imp.Protocol),
				"resolving imports for protocol %q", doc.Name,
			)
		}

		entity, found := lookupInOrder(src, imp.TypeName)
		if !found {
			return errors.Wrapf(
				errs.New(errs.UndefinedReference, "protocol %q has no struct, enum, union, or message named %q", imp.Protocol, imp.TypeName),
				"resolving imports for protocol %q", doc.Name,
			)
		}

		proto.TypePathMap[entity] = namer(imp.Protocol, imp.TypeName)
		proto.ImportAlias(imp.TypeName, entity)
	}
	return nil
}

// lookupInOrder implements spec.md §4.2's "Look up type_name in that
// protocol's struct/enum/union/message tables in that order," returning
// the shared entity pointer itself (used as the TypePathMap identity key).
func lookupInOrder(src *ir.Protocol, typeName string) (any, bool) {
	if s, ok := src.Struct(typeName); ok {
		return s, true
	}
	if e, ok := src.Enum(typeName); ok {
		return e, true
	}
	if u, ok := src.Union(typeName); ok {
		return u, true
	}
	if m, ok := src.Message(typeName); ok {
		return m, true
	}
	return nil, false
}
