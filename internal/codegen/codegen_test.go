package codegen

import (
	"errors"
	"testing"

	"github.com/bearlytools/wiregen/internal/ir"
)

// fakeUtilities is a minimal Utilities implementation used to exercise
// Generate's fan-out and umbrella-assembly without depending on any real
// target language.
type fakeUtilities struct {
	failStructure bool
}

func (fakeUtilities) Lang() string { return "fake" }

func (fakeUtilities) FileName(protocol string, ft FileType, entity string) string {
	return protocol + "_" + entity + "_" + ft.String()
}

func (f fakeUtilities) RenderStructure(proto *ir.Protocol, s *ir.Struct) ([]byte, error) {
	if f.failStructure {
		return nil, errors.New("boom")
	}
	return []byte("structure:" + s.Name), nil
}

func (fakeUtilities) RenderEnum(proto *ir.Protocol, e *ir.Enum) ([]byte, error) {
	return []byte("enum:" + e.Name), nil
}

func (fakeUtilities) RenderUnion(proto *ir.Protocol, u *ir.Union) ([]byte, error) {
	return []byte("union:" + u.Name), nil
}

func (fakeUtilities) RenderMessage(proto *ir.Protocol, m *ir.Message) (structFile, readingFile, writingFile []byte, err error) {
	return []byte("message:" + m.Name), []byte("read:" + m.Name), []byte("write:" + m.Name), nil
}

func (fakeUtilities) Umbrella(proto *ir.Protocol, files []File) ([]byte, error) {
	return []byte("umbrella:" + proto.Name + ":" + string(rune('0'+len(files)))), nil
}

func buildProtocol() *ir.Protocol {
	p := ir.NewProtocol("demo", ir.LittleEndian)
	p.AddStruct(&ir.Struct{Name: "Header"})
	p.AddEnum(&ir.Enum{Name: "Maker"})
	p.AddUnion(&ir.Union{Name: "Body"})
	p.AddMessage(&ir.Message{Name: "Envelope"})
	return p
}

func TestGenerateProducesOneFilePerEntityPlusUmbrella(t *testing.T) {
	files, err := Generate(buildProtocol(), fakeUtilities{})
	if err != nil {
		t.Fatalf("Generate: %s", err)
	}
	// 1 structure + 1 enum + 1 union + 3 message files + 1 umbrella.
	if len(files) != 7 {
		t.Fatalf("got %d files, want 7", len(files))
	}
	last := files[len(files)-1]
	if last.Type != FileUmbrella {
		t.Fatalf("last file Type = %s, want Umbrella", last.Type)
	}
}

func TestGenerateWrapsRenderErrors(t *testing.T) {
	_, err := Generate(buildProtocol(), fakeUtilities{failStructure: true})
	if err == nil {
		t.Fatal("Generate() = nil error, want a wrapped Generator error")
	}
}

func TestFileTypeString(t *testing.T) {
	if FileStructure.String() != "Structure" {
		t.Fatalf("FileStructure.String() = %q, want Structure", FileStructure.String())
	}
	if FileType(99).String() != "Unknown" {
		t.Fatalf("FileType(99).String() = %q, want Unknown", FileType(99).String())
	}
}
