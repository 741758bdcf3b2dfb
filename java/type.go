package java

import (
	"strings"

	"github.com/dhamidi/gdoc/doc"
	"github.com/dhamidi/gdoc/java/parser"
)

// typeString renders a Type, ArrayType or Wildcard node the way it reads in
// source, with single spaces after commas in argument lists. Annotations on
// type uses are dropped.
func typeString(node *parser.Node) string {
	var sb strings.Builder
	writeType(&sb, node)
	return sb.String()
}

func writeType(sb *strings.Builder, node *parser.Node) {
	if node == nil {
		return
	}
	switch node.Kind {
	case parser.KindArrayType:
		for _, child := range node.Children {
			writeType(sb, child)
		}
		sb.WriteString("[]")

	case parser.KindWildcard:
		sb.WriteString("?")
		for _, child := range node.Children {
			switch child.Kind {
			case parser.KindIdentifier:
				sb.WriteString(" " + child.TokenLiteral() + " ")
			case parser.KindType, parser.KindArrayType:
				writeType(sb, child)
			}
		}

	case parser.KindType:
		named := false
		for _, child := range node.Children {
			switch child.Kind {
			case parser.KindIdentifier:
				sb.WriteString(child.TokenLiteral())
				named = true
			case parser.KindQualifiedName:
				if named {
					sb.WriteString(".")
				}
				sb.WriteString(child.QualifiedName())
				named = true
			case parser.KindTypeArguments:
				writeTypeArguments(sb, child)
			}
		}
	}
}

func writeTypeArguments(sb *strings.Builder, node *parser.Node) {
	sb.WriteString("<")
	first := true
	for _, arg := range node.Children {
		if arg.IsError() {
			continue
		}
		if !first {
			sb.WriteString(", ")
		}
		writeType(sb, arg)
		first = false
	}
	sb.WriteString(">")
}

// rawTypeName returns the dotted name of a type without its type arguments.
func rawTypeName(node *parser.Node) string {
	if node == nil {
		return ""
	}
	if node.Kind == parser.KindArrayType {
		if inner := firstType(node); inner != nil {
			return rawTypeName(inner) + "[]"
		}
		return ""
	}
	var parts []string
	for _, child := range node.Children {
		switch child.Kind {
		case parser.KindIdentifier:
			parts = append(parts, child.TokenLiteral())
		case parser.KindQualifiedName:
			parts = append(parts, child.QualifiedName())
		}
	}
	return strings.Join(parts, ".")
}

// firstType returns the first direct Type or ArrayType child of node.
func firstType(node *parser.Node) *parser.Node {
	if node == nil {
		return nil
	}
	for _, child := range node.Children {
		if child.Kind == parser.KindType || child.Kind == parser.KindArrayType {
			return child
		}
	}
	return nil
}

// declaredType renders the type of node with extra trailing dimensions, as in
// `int a[]` or `String m()[]`, and canonicalizes it.
func declaredType(node *parser.Node, dims int) string {
	t := typeString(node)
	if t == "" {
		return ""
	}
	return doc.Canonical(t + strings.Repeat("[]", dims))
}
