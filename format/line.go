package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/gdoc/doc"
)

// LineEncoder writes one tab separated record per class and member, for
// grep and awk. Empty columns are written as "-".
type LineEncoder struct {
	w     io.Writer
	model *doc.Model
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

func (e *LineEncoder) Encode(model *doc.Model) error {
	e.model = model
	return encode(e.w, e)
}

func (e *LineEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	for _, c := range classesOf(e.model) {
		fmt.Fprintf(&sb, "%s\t%s\t%s\t%s\n", c.Kind, c.FullPath, modifiersStr(c.Modifiers), orDash(c.SuperClass))

		for _, f := range c.Fields {
			fmt.Fprintf(&sb, "field\t%s\t%s\t%s\t%s\n", c.FullPath, f.Name, f.Type, modifiersStr(f.Modifiers))
		}
		for _, p := range c.Properties {
			fmt.Fprintf(&sb, "property\t%s\t%s\t%s\t%s\n", c.FullPath, p.Name, p.Type, modifiersStr(p.Modifiers))
		}
		for _, ctor := range c.Constructors {
			fmt.Fprintf(&sb, "constructor\t%s\t%s\t%s\t%s\n", c.FullPath, ctor.Name, parametersStr(ctor.Parameters), modifiersStr(ctor.Modifiers))
		}
		for _, m := range c.Methods {
			fmt.Fprintf(&sb, "method\t%s\t%s\t%s\t%s\t%s\n", c.FullPath, m.Name, m.ReturnType, parametersStr(m.Parameters), modifiersStr(m.Modifiers))
		}
	}
	return []byte(sb.String()), nil
}

func modifiersStr(m doc.Modifiers) string {
	return orDash(strings.Join(m.List(), ","))
}

func parametersStr(params []doc.ParameterDoc) string {
	if len(params) == 0 {
		return "()"
	}
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.Type + " " + p.Name
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
