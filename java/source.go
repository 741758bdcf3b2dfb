package java

import (
	"bytes"
	"fmt"

	"github.com/dhamidi/gdoc/doc"
	"github.com/dhamidi/gdoc/java/parser"
)

// SyntaxError reports the error nodes of a compilation unit. The unit is
// still traversed; whatever could be recognized is in the model.
type SyntaxError struct {
	File    string
	Pos     parser.Position
	Message string
	Count   int
}

func (e *SyntaxError) Error() string {
	where := e.Pos.String()
	if e.File != "" {
		where = e.File + ":" + where
	}
	if e.Count > 1 {
		return fmt.Sprintf("%s: %s (and %d more syntax errors)", where, e.Message, e.Count-1)
	}
	return fmt.Sprintf("%s: %s", where, e.Message)
}

// FromSource parses source and records its types in model under
// packagePath. Empty input is not an error. A *SyntaxError is returned when
// the source is malformed.
func FromSource(source []byte, packagePath string, model *doc.Model, opts ...parser.Option) error {
	opts = append(opts, parser.WithComments())
	p := parser.ParseCompilationUnit(bytes.NewReader(source), opts...)
	cu := p.Finish()
	if cu == nil {
		return nil
	}

	NewVisitor(packagePath, model).VisitCompilationUnit(cu, p.Comments())

	errs := errorNodes(cu, nil)
	if len(errs) == 0 {
		return nil
	}
	return &SyntaxError{
		File:    p.File(),
		Pos:     errs[0].Span.Start,
		Message: errs[0].Error.Message,
		Count:   len(errs),
	}
}

func errorNodes(node *parser.Node, acc []*parser.Node) []*parser.Node {
	if node.IsError() && node.Error != nil {
		acc = append(acc, node)
	}
	for _, child := range node.Children {
		acc = errorNodes(child, acc)
	}
	return acc
}
