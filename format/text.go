package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/gdoc/doc"
)

// TextEncoder writes an indented, declaration-like listing of each class
// followed by its members. Comments are reduced to their first sentence.
type TextEncoder struct {
	w     io.Writer
	model *doc.Model
}

func NewTextEncoder(w io.Writer) *TextEncoder {
	return &TextEncoder{w: w}
}

func (e *TextEncoder) Encode(model *doc.Model) error {
	e.model = model
	return encode(e.w, e)
}

func (e *TextEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	for i, c := range classesOf(e.model) {
		if i > 0 {
			sb.WriteString("\n")
		}
		writeComment(&sb, "", c.RawComment)
		sb.WriteString(declaration(c.Modifiers, string(c.Kind), c.FullPath))
		if c.SuperClass != "" {
			sb.WriteString(" extends " + c.SuperClass)
		}
		if len(c.Interfaces) > 0 {
			sb.WriteString(" implements " + strings.Join(c.Interfaces, ", "))
		}
		sb.WriteString("\n")

		for _, f := range c.Fields {
			writeComment(&sb, "    ", f.RawComment)
			fmt.Fprintf(&sb, "    %s\n", declaration(f.Modifiers, f.Type, f.Name))
		}
		for _, p := range c.Properties {
			writeComment(&sb, "    ", p.RawComment)
			fmt.Fprintf(&sb, "    %s  // property\n", declaration(p.Modifiers, p.Type, p.Name))
		}
		for _, ctor := range c.Constructors {
			writeComment(&sb, "    ", ctor.RawComment)
			fmt.Fprintf(&sb, "    %s(%s)\n", declaration(ctor.Modifiers, ctor.Name), signature(ctor.Parameters))
		}
		for _, m := range c.Methods {
			writeComment(&sb, "    ", m.RawComment)
			fmt.Fprintf(&sb, "    %s(%s)\n", declaration(m.Modifiers, m.ReturnType, m.Name), signature(m.Parameters))
		}
	}
	return []byte(sb.String()), nil
}

func declaration(mods doc.Modifiers, words ...string) string {
	return strings.Join(append(mods.List(), words...), " ")
}

func signature(params []doc.ParameterDoc) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.Type + " " + p.Name
	}
	return strings.Join(parts, ", ")
}

func writeComment(sb *strings.Builder, indent, raw string) {
	if summary := Summary(raw); summary != "" {
		sb.WriteString(indent + "// " + summary + "\n")
	}
}

// Summary returns the first sentence of a raw doc comment with comment
// delimiters and leading asterisks removed.
func Summary(raw string) string {
	raw = strings.TrimPrefix(strings.TrimSpace(raw), "/**")
	raw = strings.TrimSuffix(raw, "*/")

	var words []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimSpace(strings.TrimLeft(line, "*"))
		if strings.HasPrefix(line, "@") {
			break
		}
		words = append(words, strings.Fields(line)...)
	}
	text := strings.Join(words, " ")
	if i := strings.Index(text, ". "); i >= 0 {
		return text[:i+1]
	}
	return text
}
