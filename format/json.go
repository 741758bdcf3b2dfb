package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/gdoc/doc"
)

// JSONEncoder writes the model as an array of classes ordered by path.
type JSONEncoder struct {
	w     io.Writer
	model *doc.Model
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

func (e *JSONEncoder) Encode(model *doc.Model) error {
	e.model = model
	return encode(e.w, e)
}

func (e *JSONEncoder) MarshalText() ([]byte, error) {
	classes := classesOf(e.model)
	text, err := json.MarshalIndent(classes, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(text, '\n'), nil
}

// classesOf never returns nil so that an empty model encodes as [].
func classesOf(model *doc.Model) []*doc.ClassDoc {
	if model == nil {
		return []*doc.ClassDoc{}
	}
	return model.Classes()
}
