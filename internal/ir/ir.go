// Package ir defines the compiled, immutable intermediate representation
// every pass (layout, resolve, union, classify, compiler, codegen) shares.
// A Protocol and everything it owns is constructed once by
// internal/compiler and never mutated afterward (spec.md §3: "thereafter
// immutable and shareable").
package ir

import "github.com/bearlytools/wiregen/internal/field"

// Endianness mirrors internal/binary.Order without importing it, so ir has
// no dependency on the codec packages. Code generation does not read it:
// generated accessors take the byte order as a wire.Order argument.
type Endianness uint8

const (
	LittleEndian Endianness = iota
	BigEndian
)

// Location is the physical placement of a Fixed field: the byte window
// [ByteOffset, ByteOffset+ByteSize) inside the owning Struct, and the bit
// sub-range [BitOffset, BitOffset+BitSize) inside that window (spec.md §3).
type Location struct {
	ByteOffset int
	BitOffset  int
	BitSize    int
	ByteSize   int
}

// Aligned reports whether the field's byte window exactly matches the raw
// scalar size for its Type and starts at bit 0 (spec.md §6). The aligned
// fast path moves the whole window unmasked, so internal/codegen/golang
// takes it only when the field also fills its window.
func (l Location) Aligned(t field.Type) bool {
	return l.ByteSize == field.ByteSize(t) && l.BitOffset == 0
}

// ViewKind is the kind of reversible transform layered on a Fixed field.
type ViewKind uint8

const (
	ViewTransmute ViewKind = iota
	ViewSignedCast
	ViewEnum
	ViewFloatRange
	ViewFloatMultiplier
)

// View describes the transform applied on top of a Fixed field's raw bits.
type View struct {
	Kind ViewKind

	// Enum is set when Kind == ViewEnum.
	Enum *Enum

	// SignedCastMaxPositive is the max-positive threshold used by the
	// signed-cast view (spec.md §3).
	SignedCastMaxPositive uint64

	// A, B and their inverses, per spec.md §4.1: FloatRange precomputes
	// a = max/((1<<bits)-1), b = min; FloatMultiplier stores a=m, b=0.
	A, B       float64
	AInv, BInv float64
}

// Fixed is a scalar field with a location and a view.
type Fixed struct {
	Name     string
	Type     field.Type
	Location Location
	View     View
}

// ArrayField is a fixed-length run of N fixed scalars (spec.md §3).
type ArrayField struct {
	Name     string
	ElemType field.Type
	N        int
	Location Location
	View     View
}

// StructField is an embedded substructure.
type StructField struct {
	Name     string
	Target   *Struct
	Location Location
}

// FieldKind distinguishes which of Fixed/ArrayField/StructField a Struct
// slot holds.
type FieldKind uint8

const (
	KindFixed FieldKind = iota
	KindArray
	KindStruct
)

// StructSlot is one entry in Struct.Fields; exactly one of Fixed/Array/Struct
// is populated depending on Kind.
type StructSlot struct {
	Kind   FieldKind
	Fixed  *Fixed
	Array  *ArrayField
	Struct *StructField
}

// Struct is a fixed-width bit-packed record (spec.md §3).
type Struct struct {
	Name     string
	Fields   []StructSlot
	BitSize  int
	ByteSize int

	// Owner is the Protocol this Struct was declared in (needed for
	// identity-keyed cross-protocol resolution, spec.md §4.2).
	Owner *Protocol
}

// Enum is a set of name/value pairs sorted by value ascending (spec.md §3).
type Enum struct {
	Name     string
	Variants []EnumVariant
	Largest  int
	ReprType field.Type // smallest unsigned scalar holding Largest
	Owner    *Protocol
}

// EnumVariant is one (name, value) pair.
type EnumVariant struct {
	Name  string
	Value int
}

// DiscriminantPath is the resolved result of walking a union's dotted
// discriminant path (spec.md §4.3).
type DiscriminantPath struct {
	Raw       string
	Root      *Struct
	LeafOwner *Struct
	LeafIndex int
	LeafField *Fixed
	IndexPath []int
}

// UnionCase is one entry of Union.Cases.
type UnionCase struct {
	Name            string
	DiscriminantVal int64
	// ItemStruct/ItemMessage: at most one is set; neither is set for an
	// empty-payload case.
	ItemStruct  *Struct
	ItemMessage *Message
}

// UnionSize summarizes whether any arm is dynamically sized (spec.md §3).
type UnionSize struct {
	Dynamic bool
}

// Union is a sum type tagged by a discriminant leaf (spec.md §3).
type Union struct {
	Name         string
	Discriminant DiscriminantPath
	Cases        []UnionCase
	Size         UnionSize
	Owner        *Protocol
}

// MessageFieldKind classifies a message field per spec.md §4.4.
type MessageFieldKind uint8

const (
	MFFixed MessageFieldKind = iota
	MFStructRef
	MFMessageRef
	MFStringNullTerm
	MFStringLenPrefixed
	MFFixedArray
	MFPayloadList
	MFUnionArm
	MFPayload
)

func (k MessageFieldKind) String() string {
	switch k {
	case MFFixed:
		return "fixed"
	case MFStructRef:
		return "struct-ref"
	case MFMessageRef:
		return "message-ref"
	case MFStringNullTerm:
		return "string(null-term)"
	case MFStringLenPrefixed:
		return "string(len-prefixed)"
	case MFFixedArray:
		return "fixed-array"
	case MFPayloadList:
		return "payload-list"
	case MFUnionArm:
		return "union-arm"
	case MFPayload:
		return "payload"
	}
	return "unknown"
}

// MessageField is one classified field of a Message.
type MessageField struct {
	Name string
	Kind MessageFieldKind

	// Populated depending on Kind:
	Fixed          *Fixed           // MFFixed
	StructRef      *Struct          // MFStructRef, MFFixedArray (element type)
	MessageRef     *Message         // MFMessageRef, MFPayloadList (element type)
	MaxLen         int              // MFStringLenPrefixed, MFFixedArray, MFPayloadList (0 = unsized)
	LenPrefixType  field.Type       // MFStringLenPrefixed: smallest unsigned holding MaxLen
	Union          *Union           // MFUnionArm
	OnFieldName    string           // MFUnionArm: name of the field holding the discriminant root (a struct-ref, or its elided single fixed field)
}

// Message is a variable-width record with ordered fields and an optional
// trailing payload (spec.md §3).
type Message struct {
	Name    string
	Fields  []MessageField
	Payload *MessageField // nil if no payload
	Owner   *Protocol

	// DynamicallySized is true if any field after the fixed head can
	// vary in length (string, list, union-with-dynamic-arm, or payload).
	// Used by Union.Size computation (spec.md §4.3).
	DynamicallySized bool
}

// Protocol is a compiled, immutable, named collection (spec.md §3).
type Protocol struct {
	Name       string
	Endianness Endianness

	Structs  []*Struct
	Enums    []*Enum
	Unions   []*Union
	Messages []*Message

	structByName  map[string]*Struct
	enumByName    map[string]*Enum
	unionByName   map[string]*Union
	messageByName map[string]*Message

	// TypePathMap associates an imported entity's identity (its pointer
	// address, boxed) with the fully-qualified external name it should
	// be rendered under (spec.md §3, §4.2).
	TypePathMap map[any]string

	// Warnings are non-fatal diagnoses recorded during compilation, e.g.
	// duplicate union case values (SPEC_FULL.md §5 decision 1).
	Warnings []string
}

// NewProtocol creates an empty Protocol ready to be populated by
// internal/compiler.
func NewProtocol(name string, end Endianness) *Protocol {
	return &Protocol{
		Name:          name,
		Endianness:    end,
		structByName:  map[string]*Struct{},
		enumByName:    map[string]*Enum{},
		unionByName:   map[string]*Union{},
		messageByName: map[string]*Message{},
		TypePathMap:   map[any]string{},
	}
}

// AddStruct registers a compiled Struct under its name.
func (p *Protocol) AddStruct(s *Struct) {
	s.Owner = p
	p.Structs = append(p.Structs, s)
	p.structByName[s.Name] = s
}

// AddEnum registers a compiled Enum under its name.
func (p *Protocol) AddEnum(e *Enum) {
	e.Owner = p
	p.Enums = append(p.Enums, e)
	p.enumByName[e.Name] = e
}

// AddUnion registers a compiled Union under its name.
func (p *Protocol) AddUnion(u *Union) {
	u.Owner = p
	p.Unions = append(p.Unions, u)
	p.unionByName[u.Name] = u
}

// AddMessage registers a compiled Message under its name.
func (p *Protocol) AddMessage(m *Message) {
	m.Owner = p
	p.Messages = append(p.Messages, m)
	p.messageByName[m.Name] = m
}

// Struct looks up a locally- or import-registered struct by its local name.
func (p *Protocol) Struct(name string) (*Struct, bool) {
	s, ok := p.structByName[name]
	return s, ok
}

// Enum looks up a locally- or import-registered enum by its local name.
func (p *Protocol) Enum(name string) (*Enum, bool) {
	e, ok := p.enumByName[name]
	return e, ok
}

// Union looks up a locally- or import-registered union by its local name.
func (p *Protocol) Union(name string) (*Union, bool) {
	u, ok := p.unionByName[name]
	return u, ok
}

// Message looks up a locally- or import-registered message by its local
// name.
func (p *Protocol) Message(name string) (*Message, bool) {
	m, ok := p.messageByName[name]
	return m, ok
}

// ImportAlias binds name to an entity shared from another protocol
// (spec.md §4.2: "insert a shared reference into the local table under
// type_name").
func (p *Protocol) ImportAlias(name string, entity any) {
	switch v := entity.(type) {
	case *Struct:
		p.structByName[name] = v
	case *Enum:
		p.enumByName[name] = v
	case *Union:
		p.unionByName[name] = v
	case *Message:
		p.messageByName[name] = v
	}
}

// ProtocolStore is an insertion-ordered map of fully-qualified protocol
// name to compiled Protocol (spec.md §3).
type ProtocolStore struct {
	order []string
	byName map[string]*Protocol
}

// NewProtocolStore creates an empty store.
func NewProtocolStore() *ProtocolStore {
	return &ProtocolStore{byName: map[string]*Protocol{}}
}

// Insert adds a fully-compiled Protocol. Panics if name is already present;
// the solver/compiler are responsible for only calling this once per
// protocol name.
func (s *ProtocolStore) Insert(name string, p *Protocol) {
	if _, ok := s.byName[name]; ok {
		panic("ir: ProtocolStore already has a protocol named " + name)
	}
	s.order = append(s.order, name)
	s.byName[name] = p
}

// Get looks up a compiled Protocol by its fully-qualified name.
func (s *ProtocolStore) Get(name string) (*Protocol, bool) {
	p, ok := s.byName[name]
	return p, ok
}

// Has reports whether name has already been compiled and inserted.
func (s *ProtocolStore) Has(name string) bool {
	_, ok := s.byName[name]
	return ok
}

// Ordered returns all protocols in insertion order.
func (s *ProtocolStore) Ordered() []*Protocol {
	out := make([]*Protocol, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.byName[name])
	}
	return out
}
