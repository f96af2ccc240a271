package tmplengine

import "testing"

func TestParseNestedFragments(t *testing.T) {
	src := `header
#fragment push Structure
body line
#fragment push Accessors
getter
#fragment pop
trailer
#fragment pop
footer
`
	tpl, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse: %s", err)
	}
	if !tpl.Has("Structure") {
		t.Fatal(`Has("Structure") = false, want true`)
	}
	if !tpl.Has("Structure.Accessors") {
		t.Fatal(`Has("Structure.Accessors") = false, want true (dot-joined nested name)`)
	}
	if !tpl.Has("") {
		t.Fatal(`Has("") = false, want true (root fragment)`)
	}

	got, err := tpl.Render("Structure.Accessors", nil, nil)
	if err != nil {
		t.Fatalf("Render: %s", err)
	}
	if got != "getter\n" {
		t.Fatalf("Render(Structure.Accessors) = %q, want %q", got, "getter\n")
	}
}

func TestParseRejectsUnclosedPush(t *testing.T) {
	if _, err := Parse("#fragment push X\nbody\n"); err == nil {
		t.Fatal("Parse(unclosed push) = nil error, want a missing-pop error")
	}
}

func TestParseRejectsUnmatchedPop(t *testing.T) {
	if _, err := Parse("#fragment pop\n"); err == nil {
		t.Fatal("Parse(unmatched pop) = nil error, want an error")
	}
}

func TestRenderSubstitution(t *testing.T) {
	tpl, err := Parse("Hello {Name}, you are {Age:upper}!\n")
	if err != nil {
		t.Fatalf("Parse: %s", err)
	}
	got, err := tpl.Render("", map[string]string{"Name": "ada", "Age": "old"}, Builtins())
	if err != nil {
		t.Fatalf("Render: %s", err)
	}
	want := "Hello ada, you are OLD!\n"
	if got != want {
		t.Fatalf("Render() = %q, want %q", got, want)
	}
}

func TestRenderLiteralBraceEscape(t *testing.T) {
	tpl, err := Parse("struct {{ {Name} }}\n")
	if err != nil {
		t.Fatalf("Parse: %s", err)
	}
	got, err := tpl.Render("", map[string]string{"Name": "Foo"}, nil)
	if err != nil {
		t.Fatalf("Render: %s", err)
	}
	want := "struct { Foo }\n"
	if got != want {
		t.Fatalf("Render() = %q, want %q", got, want)
	}
}

func TestRenderUndefinedVariable(t *testing.T) {
	tpl, err := Parse("{Missing}\n")
	if err != nil {
		t.Fatalf("Parse: %s", err)
	}
	if _, err := tpl.Render("", map[string]string{}, nil); err == nil {
		t.Fatal("Render(undefined var) = nil error, want an error")
	}
}

func TestRenderUndefinedFunction(t *testing.T) {
	tpl, err := Parse("{Name:nope}\n")
	if err != nil {
		t.Fatalf("Parse: %s", err)
	}
	if _, err := tpl.Render("", map[string]string{"Name": "x"}, Builtins()); err == nil {
		t.Fatal("Render(undefined function) = nil error, want an error")
	}
}

func TestBuiltinsCapitalize(t *testing.T) {
	fns := Builtins()
	if got := fns["capitalize"]("toyota"); got != "Toyota" {
		t.Fatalf("capitalize(toyota) = %q, want Toyota", got)
	}
	if got := fns["capitalize"](""); got != "" {
		t.Fatalf("capitalize(\"\") = %q, want empty", got)
	}
}
