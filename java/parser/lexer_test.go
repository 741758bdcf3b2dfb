package parser

import (
	"testing"
)

func lexKinds(input string) []TokenKind {
	lexer := NewLexer([]byte(input), "test.java")
	var got []TokenKind
	for {
		tok := lexer.NextToken()
		if tok.Kind != TokenWhitespace && tok.Kind != TokenComment && tok.Kind != TokenLineComment {
			got = append(got, tok.Kind)
		}
		if tok.Kind == TokenEOF {
			return got
		}
	}
}

func TestLexer(t *testing.T) {
	tests := []struct {
		input    string
		expected []TokenKind
	}{
		{"", []TokenKind{TokenEOF}},
		{"class", []TokenKind{TokenClass, TokenEOF}},
		{"public class Main {}", []TokenKind{TokenPublic, TokenClass, TokenIdent, TokenLBrace, TokenRBrace, TokenEOF}},
		{"List<List<String>>", []TokenKind{TokenIdent, TokenLT, TokenIdent, TokenLT, TokenIdent, TokenGT, TokenGT, TokenEOF}},
		{"x >>= 1", []TokenKind{TokenIdent, TokenGT, TokenGT, TokenAssign, TokenNumber, TokenEOF}},
		{"String... args", []TokenKind{TokenIdent, TokenEllipsis, TokenIdent, TokenEOF}},
		{"a::b", []TokenKind{TokenIdent, TokenColonColon, TokenIdent, TokenEOF}},
		{"a.b", []TokenKind{TokenIdent, TokenDot, TokenIdent, TokenEOF}},
		{"3.14f 0x1F 1e-3 .5 1_000L", []TokenKind{TokenNumber, TokenNumber, TokenNumber, TokenNumber, TokenNumber, TokenEOF}},
		{`"a { b"`, []TokenKind{TokenStringLiteral, TokenEOF}},
		{`'}'`, []TokenKind{TokenCharLiteral, TokenEOF}},
		{`"\"}"`, []TokenKind{TokenStringLiteral, TokenEOF}},
		{"\"\"\"\n{ \"nested\" }\n\"\"\"", []TokenKind{TokenTextBlock, TokenEOF}},
		{"non-sealed", []TokenKind{TokenNonSealed, TokenEOF}},
		{"non - x", []TokenKind{TokenIdent, TokenOperator, TokenIdent, TokenEOF}},
		{"naïve", []TokenKind{TokenIdent, TokenEOF}},
		{"日本語", []TokenKind{TokenIdent, TokenEOF}},
		{"record sealed permits", []TokenKind{TokenRecord, TokenSealed, TokenPermits, TokenEOF}},
		{"if return", []TokenKind{TokenKeyword, TokenKeyword, TokenEOF}},
		{"@interface", []TokenKind{TokenAt, TokenInterface, TokenEOF}},
		{"// comment\nclass", []TokenKind{TokenClass, TokenEOF}},
		{"/* { */ class", []TokenKind{TokenClass, TokenEOF}},
		{"a -> b", []TokenKind{TokenIdent, TokenOperator, TokenGT, TokenIdent, TokenEOF}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := lexKinds(tt.input)
			if len(got) != len(tt.expected) {
				t.Fatalf("got %v, want %v", got, tt.expected)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("token %d: got %v, want %v", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestLexerPositions(t *testing.T) {
	lexer := NewLexer([]byte("class Foo\n  {}"), "Test.java")

	want := []struct {
		literal string
		line    int
		column  int
		offset  int
	}{
		{"class", 1, 1, 0},
		{"Foo", 1, 7, 6},
		{"{", 2, 3, 12},
		{"}", 2, 4, 13},
	}

	var got []Token
	for {
		tok := lexer.NextToken()
		if tok.Kind == TokenEOF {
			break
		}
		if tok.Kind != TokenWhitespace {
			got = append(got, tok)
		}
	}
	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(got), len(want))
	}
	for i, w := range want {
		tok := got[i]
		if tok.Literal != w.literal {
			t.Errorf("token %d: literal = %q, want %q", i, tok.Literal, w.literal)
		}
		if tok.Span.Start.Line != w.line || tok.Span.Start.Column != w.column {
			t.Errorf("token %q: position = %s, want %d:%d", tok.Literal, tok.Span.Start, w.line, w.column)
		}
		if tok.Span.Start.Offset != w.offset {
			t.Errorf("token %q: offset = %d, want %d", tok.Literal, tok.Span.Start.Offset, w.offset)
		}
		if tok.Span.Start.File != "Test.java" {
			t.Errorf("token %q: file = %q", tok.Literal, tok.Span.Start.File)
		}
	}
}

func TestLexerComments(t *testing.T) {
	lexer := NewLexer([]byte("/** Doc. */\n// line\nclass"), "")

	tok := lexer.NextToken()
	if tok.Kind != TokenComment || tok.Literal != "/** Doc. */" {
		t.Fatalf("first token = %v %q, want block comment", tok.Kind, tok.Literal)
	}
	if tok.Span.End.Line != 1 || tok.Span.End.Column != 12 {
		t.Errorf("comment end = %s, want 1:12", tok.Span.End)
	}

	lexer.NextToken() // newline
	tok = lexer.NextToken()
	if tok.Kind != TokenLineComment || tok.Literal != "// line" {
		t.Errorf("second token = %v %q, want line comment", tok.Kind, tok.Literal)
	}
}

func TestLexerUnterminated(t *testing.T) {
	inputs := []string{`"abc`, "/* open", `'x`, "\"\"\"\nopen", "\xff"}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			kinds := lexKinds(input)
			if kinds[len(kinds)-1] != TokenEOF {
				t.Errorf("expected lexing to end with EOF, got %v", kinds)
			}
		})
	}
}

func TestTokenKindString(t *testing.T) {
	tests := []struct {
		kind TokenKind
		want string
	}{
		{TokenEOF, "EOF"},
		{TokenIdent, "Identifier"},
		{TokenClass, "class"},
		{TokenNonSealed, "non-sealed"},
		{TokenEllipsis, "..."},
		{TokenLT, "<"},
		{TokenKind(9999), "Unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.want {
				t.Errorf("TokenKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
			}
		})
	}
}
