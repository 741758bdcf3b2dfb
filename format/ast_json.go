package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/gdoc/java/parser"
)

// ASTJSONEncoder dumps a Java parse tree.
type ASTJSONEncoder struct {
	w    io.Writer
	node *parser.Node
}

func NewASTJSONEncoder(w io.Writer) *ASTJSONEncoder {
	return &ASTJSONEncoder{w: w}
}

func (e *ASTJSONEncoder) Encode(node *parser.Node) error {
	e.node = node
	return encode(e.w, e)
}

func (e *ASTJSONEncoder) MarshalText() ([]byte, error) {
	if e.node == nil {
		return []byte("null\n"), nil
	}
	text, err := json.MarshalIndent(e.node, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(text, '\n'), nil
}
