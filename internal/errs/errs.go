// Package errs defines the fatal, reportable error taxonomy of spec.md §7.
// Every failure that aborts a protocol compile carries a Kind so a caller
// can errors.As into a *CompileError and branch on it, the way the
// teacher's callers check errors.Is(err, fs.ErrNotExist).
package errs

import "fmt"

// Kind is one of the named compiler-level error kinds from spec.md §7.
type Kind string

const (
	IO                       Kind = "IO"
	ModelParse               Kind = "ModelParse"
	ConfigParse              Kind = "ConfigParse"
	MultiPayload             Kind = "MultiPayload"
	VarsizeAfterPayload      Kind = "VarsizeAfterPayload"
	UnsupportedBitSize       Kind = "UnsupportedBitSize"
	UnsupportedType          Kind = "UnsupportedType"
	UnsupportedViewType      Kind = "UnsupportedViewType"
	UnalignedArrayCodec      Kind = "UnalignedArrayCodec"
	ZeroStruct               Kind = "ZeroStruct"
	ZeroEnum                 Kind = "ZeroEnum"
	ZeroArray                Kind = "ZeroArray"
	UndefinedReference       Kind = "UndefinedReference"
	UnresolvedImport         Kind = "UnresolvedImport"
	InvalidUnionDiscriminant Kind = "InvalidUnionDiscriminant"
	FloatInUnionDiscriminant Kind = "FloatInUnionDiscriminant"
	InvalidUnionCase         Kind = "InvalidUnionCase"
	UnionTypeMismatch        Kind = "UnionTypeMismatch"
	MissingNestedList        Kind = "MissingNestedList"
	SolverError              Kind = "SolverError"
	SolverMaxIterations      Kind = "SolverMaxIterations"
	Generator                Kind = "Generator"
	ProtocolNotFound         Kind = "ProtocolNotFound"
)

// CompileError is a single fatal, reportable compile-time failure.
type CompileError struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *CompileError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *CompileError) Unwrap() error { return e.Cause }

// New builds a CompileError with a formatted message.
func New(kind Kind, format string, args ...any) *CompileError {
	return &CompileError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds a CompileError around an existing cause.
func Wrap(kind Kind, cause error, format string, args ...any) *CompileError {
	return &CompileError{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}
