// Package format renders a doc.Model for people and tools.
package format

import (
	"encoding"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/dhamidi/gdoc/doc"
)

type Encoder interface {
	encoding.TextMarshaler
	Encode(model *doc.Model) error
}

var encoders = map[string]func(io.Writer) Encoder{
	"json": func(w io.Writer) Encoder { return NewJSONEncoder(w) },
	"yaml": func(w io.Writer) Encoder { return NewYAMLEncoder(w) },
	"line": func(w io.Writer) Encoder { return NewLineEncoder(w) },
	"text": func(w io.Writer) Encoder { return NewTextEncoder(w) },
}

// Names lists the formats ForName accepts.
func Names() []string {
	names := make([]string, 0, len(encoders))
	for name := range encoders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func ForName(name string, w io.Writer) (Encoder, error) {
	newEncoder, ok := encoders[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown format %q, want one of %s", name, strings.Join(Names(), ", "))
	}
	return newEncoder(w), nil
}

// encode is the Encode half shared by all encoders.
func encode(w io.Writer, m encoding.TextMarshaler) error {
	text, err := m.MarshalText()
	if err != nil {
		return err
	}
	_, err = w.Write(text)
	return err
}
