package java

import (
	"sort"
	"strings"

	"github.com/dhamidi/gdoc/java/parser"
)

// maxJavadocDistance bounds how many lines may separate a comment from the
// declaration it documents.
const maxJavadocDistance = 100

// javadocFinder pairs /** comments with the declarations that follow them.
type javadocFinder struct {
	comments []parser.Token // /** comments only, by start line
	used     map[int]bool
	// end of the last finished declaration; comments starting before it
	// lie inside or ahead of that declaration
	barrier parser.Position
}

func newJavadocFinder(comments []parser.Token) *javadocFinder {
	var javadocs []parser.Token
	for _, c := range comments {
		if c.Kind == parser.TokenComment && strings.HasPrefix(c.Literal, "/**") && c.Literal != "/**/" {
			javadocs = append(javadocs, c)
		}
	}
	sort.SliceStable(javadocs, func(i, j int) bool {
		return javadocs[i].Span.Start.Line < javadocs[j].Span.Start.Line
	})
	return &javadocFinder{comments: javadocs, used: make(map[int]bool)}
}

// find returns the body of the closest unused /** comment that ends before
// node starts, or the empty string. A returned comment is never handed out
// again.
func (jf *javadocFinder) find(node *parser.Node) string {
	if jf == nil || node == nil || len(jf.comments) == 0 {
		return ""
	}
	start := node.Span.Start

	best := -1
	bestDistance := maxJavadocDistance
	for i, c := range jf.comments {
		if jf.used[i] || before(c.Span.Start, jf.barrier) {
			continue
		}
		end := c.Span.End
		if end.Line > start.Line {
			continue
		}
		// same line: only a comment that closes before the node counts
		if end.Line == start.Line && end.Column >= start.Column {
			continue
		}
		if distance := start.Line - end.Line; distance < bestDistance {
			best = i
			bestDistance = distance
		}
	}

	if best < 0 {
		return ""
	}
	jf.used[best] = true
	return javadocBody(jf.comments[best].Literal)
}

// passed records that node has been visited completely.
func (jf *javadocFinder) passed(node *parser.Node) {
	if jf == nil || node == nil {
		return
	}
	if before(jf.barrier, node.Span.End) {
		jf.barrier = node.Span.End
	}
}

func before(a, b parser.Position) bool {
	return a.Line < b.Line || (a.Line == b.Line && a.Column < b.Column)
}

// javadocBody strips the comment delimiters and keeps everything in between
// verbatim, leading asterisks included.
func javadocBody(literal string) string {
	body := strings.TrimPrefix(literal, "/**")
	return strings.TrimSuffix(body, "*/")
}
