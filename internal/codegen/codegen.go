// Package codegen implements the Code Generator Framework of spec.md §4.7:
// it drives a target-language Utilities implementation across one compiled
// ir.Protocol's structures, enumerations, unions, and messages, and
// assembles the trailing umbrella file spec.md §4.7 requires.
//
// Grounded on internal/render/render.go's Renderer interface and
// Render()/Rendered fan-out shape, and its cleanImports umbrella-file post
// pass — reused here as Utilities.Umbrella, since both exist to produce one
// aggregating artifact across a set of independently-rendered files.
package codegen

import (
	"github.com/bearlytools/wiregen/internal/errs"
	"github.com/bearlytools/wiregen/internal/ir"
)

// FileType is the kind of generated file, per spec.md §4.7's enumeration.
type FileType uint8

const (
	FileStructure FileType = iota
	FileEnum
	FileUnion
	FileMessage
	FileMessageReading
	FileMessageWriting
	FileUmbrella
)

func (t FileType) String() string {
	switch t {
	case FileStructure:
		return "Structure"
	case FileEnum:
		return "Enum"
	case FileUnion:
		return "Union"
	case FileMessage:
		return "Message"
	case FileMessageReading:
		return "MessageReading"
	case FileMessageWriting:
		return "MessageWriting"
	case FileUmbrella:
		return "Umbrella"
	}
	return "Unknown"
}

// File is one generated output file.
type File struct {
	Name    string
	Type    FileType
	Content []byte
}

// Utilities is implemented once per target language. Everything this
// package needs to know about how a language spells its types, accessors,
// and codec calls lives behind this interface; Generate itself only knows
// the shape of a Protocol, not any language's syntax.
type Utilities interface {
	// Lang names the target, e.g. "go".
	Lang() string

	// FileName produces the output file name for one generated entity.
	FileName(protocol string, ft FileType, entity string) string

	RenderStructure(proto *ir.Protocol, s *ir.Struct) ([]byte, error)
	RenderEnum(proto *ir.Protocol, e *ir.Enum) ([]byte, error)
	RenderUnion(proto *ir.Protocol, u *ir.Union) ([]byte, error)

	// RenderMessage produces the three files spec.md §4.7 splits a message
	// into: the container type, its reader, and its writer.
	RenderMessage(proto *ir.Protocol, m *ir.Message) (structFile, readingFile, writingFile []byte, err error)

	// Umbrella aggregates the already-rendered files of one protocol into
	// a single top-level file (e.g. a manifest or re-export file).
	Umbrella(proto *ir.Protocol, files []File) ([]byte, error)
}

// Generate drives util across every entity of proto and returns the full
// set of generated files, the umbrella file last.
func Generate(proto *ir.Protocol, util Utilities) ([]File, error) {
	var files []File

	for _, s := range proto.Structs {
		b, err := util.RenderStructure(proto, s)
		if err != nil {
			return nil, errs.Wrap(errs.Generator, err, "rendering structure %q", s.Name)
		}
		files = append(files, File{Name: util.FileName(proto.Name, FileStructure, s.Name), Type: FileStructure, Content: b})
	}

	for _, e := range proto.Enums {
		b, err := util.RenderEnum(proto, e)
		if err != nil {
			return nil, errs.Wrap(errs.Generator, err, "rendering enum %q", e.Name)
		}
		files = append(files, File{Name: util.FileName(proto.Name, FileEnum, e.Name), Type: FileEnum, Content: b})
	}

	for _, u := range proto.Unions {
		b, err := util.RenderUnion(proto, u)
		if err != nil {
			return nil, errs.Wrap(errs.Generator, err, "rendering union %q", u.Name)
		}
		files = append(files, File{Name: util.FileName(proto.Name, FileUnion, u.Name), Type: FileUnion, Content: b})
	}

	for _, m := range proto.Messages {
		structB, readB, writeB, err := util.RenderMessage(proto, m)
		if err != nil {
			return nil, errs.Wrap(errs.Generator, err, "rendering message %q", m.Name)
		}
		files = append(files,
			File{Name: util.FileName(proto.Name, FileMessage, m.Name), Type: FileMessage, Content: structB},
			File{Name: util.FileName(proto.Name, FileMessageReading, m.Name), Type: FileMessageReading, Content: readB},
			File{Name: util.FileName(proto.Name, FileMessageWriting, m.Name), Type: FileMessageWriting, Content: writeB},
		)
	}

	umbrella, err := util.Umbrella(proto, files)
	if err != nil {
		return nil, errs.Wrap(errs.Generator, err, "rendering umbrella file for protocol %q", proto.Name)
	}
	files = append(files, File{Name: util.FileName(proto.Name, FileUmbrella, ""), Type: FileUmbrella, Content: umbrella})

	return files, nil
}
