package parser

import "io"

type Option func(*Parser)

func WithFile(path string) Option {
	return func(p *Parser) {
		p.file = path
	}
}

// WithComments keeps comment tokens so that they can be paired with
// declarations after parsing.
func WithComments() Option {
	return func(p *Parser) {
		p.includeComments = true
	}
}

// Parser builds a declaration-level tree: bodies, initializers and
// annotation arguments are consumed by bracket matching and never parsed.
type Parser struct {
	file            string
	includeComments bool
	reader          io.Reader
	input           []byte
	tokens          []Token
	comments        []Token
	pos             int
}

func ParseCompilationUnit(r io.Reader, opts ...Option) *Parser {
	p := &Parser{reader: r}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Parser) File() string {
	return p.file
}

func (p *Parser) Comments() []Token {
	return p.comments
}

func (p *Parser) readAll() error {
	if p.input != nil {
		return nil
	}
	data, err := io.ReadAll(p.reader)
	if err != nil {
		return err
	}
	p.input = data
	return nil
}

// Finish parses the whole input. It returns nil when the input cannot be
// read or is empty; malformed input yields Error nodes instead.
func (p *Parser) Finish() *Node {
	if err := p.readAll(); err != nil {
		return nil
	}
	if len(p.input) == 0 {
		return nil
	}
	p.tokens = nil
	p.comments = nil
	p.pos = 0
	p.tokenize(NewLexer(p.input, p.file))
	return p.parseCompilationUnit()
}

func (p *Parser) tokenize(lexer *Lexer) {
	for {
		tok := lexer.NextToken()
		switch tok.Kind {
		case TokenWhitespace:
			continue
		case TokenComment, TokenLineComment:
			if p.includeComments {
				p.comments = append(p.comments, tok)
			}
			continue
		}
		p.tokens = append(p.tokens, tok)
		if tok.Kind == TokenEOF {
			break
		}
	}
}

func (p *Parser) peek() Token {
	return p.peekN(0)
}

func (p *Parser) peekN(n int) Token {
	if p.pos+n >= len(p.tokens) {
		return Token{Kind: TokenEOF}
	}
	return p.tokens[p.pos+n]
}

func (p *Parser) advance() Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *Parser) expect(kind TokenKind) *Token {
	tok := p.peek()
	if tok.Kind == kind {
		p.advance()
		return &tok
	}
	return nil
}

func (p *Parser) check(kind TokenKind) bool {
	return p.peek().Kind == kind
}

func (p *Parser) checkLiteral(literal string) bool {
	return p.peek().Kind == TokenIdent && p.peek().Literal == literal
}

func isIdentifierLike(kind TokenKind) bool {
	switch kind {
	case TokenIdent, TokenRecord, TokenSealed, TokenPermits, TokenVar:
		return true
	}
	return false
}

func (p *Parser) isIdentifierLike() bool {
	return isIdentifierLike(p.peek().Kind)
}

func (p *Parser) identifier() *Node {
	if !p.isIdentifierLike() {
		return nil
	}
	tok := p.advance()
	return leaf(KindIdentifier, tok)
}

func leaf(kind NodeKind, tok Token) *Node {
	return &Node{Kind: kind, Token: &tok, Span: tok.Span}
}

func (p *Parser) startNode(kind NodeKind) *Node {
	return &Node{
		Kind: kind,
		Span: Span{Start: p.peek().Span.Start},
	}
}

// startDecl begins a declaration at its first modifier or annotation so
// that comment pairing sees the whole declaration.
func (p *Parser) startDecl(kind NodeKind, modifiers *Node) *Node {
	node := p.startNode(kind)
	if modifiers != nil && len(modifiers.Children) > 0 {
		node.Span.Start = modifiers.Span.Start
	}
	node.AddChild(modifiers)
	return node
}

func (p *Parser) finishNode(n *Node) *Node {
	if p.pos > 0 && p.pos <= len(p.tokens) {
		n.Span.End = p.tokens[p.pos-1].Span.End
	} else if len(p.tokens) > 0 {
		n.Span.End = p.tokens[len(p.tokens)-1].Span.End
	}
	return n
}

func (p *Parser) errorNode(msg string, recoverTo []TokenKind, expected ...TokenKind) *Node {
	tok := p.peek()
	node := &Node{
		Kind: KindError,
		Span: Span{Start: tok.Span.Start, End: tok.Span.End},
		Error: &Error{
			Message:  msg,
			Expected: expected,
			Got:      &tok,
		},
	}
	p.recoverTo(recoverTo)
	return node
}

// missing reports an error at the current token without consuming it.
func (p *Parser) missing(msg string) *Node {
	tok := p.peek()
	return &Node{
		Kind:  KindError,
		Span:  Span{Start: tok.Span.Start, End: tok.Span.Start},
		Error: &Error{Message: msg, Got: &tok},
	}
}

// recoverTo always consumes at least one token, then skips balanced
// brackets until one of kinds is next.
func (p *Parser) recoverTo(kinds []TokenKind) {
	if p.check(TokenEOF) {
		return
	}
	if isOpener(p.peek().Kind) {
		p.skipBalanced()
	} else {
		p.advance()
	}
	if len(kinds) == 0 {
		return
	}
	for !p.check(TokenEOF) {
		for _, kind := range kinds {
			if p.check(kind) {
				return
			}
		}
		if isOpener(p.peek().Kind) {
			p.skipBalanced()
			continue
		}
		p.advance()
	}
}

var memberRecovery = []TokenKind{TokenSemicolon, TokenRBrace}

func isOpener(kind TokenKind) bool {
	return kind == TokenLParen || kind == TokenLBrace || kind == TokenLBracket
}

func isCloser(kind TokenKind) bool {
	return kind == TokenRParen || kind == TokenRBrace || kind == TokenRBracket
}

// skipBalanced consumes an opening bracket and everything up to and
// including its matching closer.
func (p *Parser) skipBalanced() {
	depth := 0
	for !p.check(TokenEOF) {
		tok := p.advance()
		switch {
		case isOpener(tok.Kind):
			depth++
		case isCloser(tok.Kind):
			depth--
		}
		if depth <= 0 {
			return
		}
	}
}

// skippedBlock records a skipped body as an empty block spanning it.
func (p *Parser) skippedBlock() *Node {
	node := p.startNode(KindBlock)
	p.skipBalanced()
	return p.finishNode(node)
}

func (p *Parser) parseCompilationUnit() *Node {
	node := p.startNode(KindCompilationUnit)

	for !p.check(TokenEOF) {
		switch {
		case p.check(TokenSemicolon):
			p.advance()
			continue
		case p.check(TokenImport):
			node.AddChild(p.parseImportDecl())
			continue
		case p.check(TokenRBrace):
			node.AddChild(p.errorNode("unexpected '}'", nil))
			continue
		}

		modifiers := p.parseModifiers()
		switch {
		case p.check(TokenPackage):
			node.AddChild(p.parsePackageDecl(modifiers))
		case p.isModuleDecl():
			node.AddChild(p.parseModuleDecl(modifiers))
		default:
			// Members outside a type only occur in compact source files.
			node.AddChild(p.parseDeclaration(modifiers))
		}
	}

	return p.finishNode(node)
}

func (p *Parser) parsePackageDecl(modifiers *Node) *Node {
	node := p.startDecl(KindPackageDecl, modifiers)
	p.expect(TokenPackage)
	node.AddChild(p.parseQualifiedName())
	p.expect(TokenSemicolon)
	return p.finishNode(node)
}

func (p *Parser) parseImportDecl() *Node {
	node := p.startNode(KindImportDecl)
	p.expect(TokenImport)
	if p.check(TokenStatic) {
		node.AddChild(leaf(KindIdentifier, p.advance()))
	}
	if p.checkLiteral("module") && isIdentifierLike(p.peekN(1).Kind) {
		node.AddChild(leaf(KindIdentifier, p.advance()))
	}

	qn := p.parseQualifiedName()
	if p.check(TokenDot) && p.peekN(1).Literal == "*" {
		p.advance()
		qn.AddChild(leaf(KindIdentifier, p.advance()))
		p.finishNode(qn)
	}
	node.AddChild(qn)

	if !p.check(TokenSemicolon) {
		node.AddChild(p.errorNode("expected ';' after import", []TokenKind{TokenSemicolon}, TokenSemicolon))
	}
	p.expect(TokenSemicolon)
	return p.finishNode(node)
}

func (p *Parser) isModuleDecl() bool {
	if p.checkLiteral("open") {
		return p.peekN(1).Kind == TokenIdent && p.peekN(1).Literal == "module"
	}
	return p.checkLiteral("module") && isIdentifierLike(p.peekN(1).Kind)
}

func (p *Parser) parseModuleDecl(modifiers *Node) *Node {
	node := p.startDecl(KindModuleDecl, modifiers)
	if p.checkLiteral("open") {
		node.AddChild(leaf(KindIdentifier, p.advance()))
	}
	p.advance()
	node.AddChild(p.parseQualifiedName())
	if p.check(TokenLBrace) {
		node.AddChild(p.skippedBlock())
	}
	return p.finishNode(node)
}

func (p *Parser) parseQualifiedName() *Node {
	node := p.startNode(KindQualifiedName)
	node.AddChild(p.identifier())
	for p.check(TokenDot) && isIdentifierLike(p.peekN(1).Kind) {
		p.advance()
		node.AddChild(p.identifier())
	}
	return p.finishNode(node)
}

func (p *Parser) parseModifiers() *Node {
	node := p.startNode(KindModifiers)

	for {
		switch p.peek().Kind {
		case TokenAt:
			if p.peekN(1).Kind == TokenInterface {
				return p.finishModifiers(node)
			}
			node.AddChild(p.parseAnnotation())
		case TokenPublic, TokenProtected, TokenPrivate,
			TokenAbstract, TokenStatic, TokenFinal,
			TokenStrictfp, TokenNative, TokenSynchronized,
			TokenTransient, TokenVolatile, TokenDefault,
			TokenNonSealed:
			node.AddChild(leaf(KindIdentifier, p.advance()))
		case TokenSealed:
			// sealed is also a legal type or member name.
			if next := p.peekN(1).Kind; next == TokenLParen || next == TokenSemicolon || next == TokenAssign || next == TokenDot {
				return p.finishModifiers(node)
			}
			node.AddChild(leaf(KindIdentifier, p.advance()))
		default:
			return p.finishModifiers(node)
		}
	}
}

func (p *Parser) finishModifiers(node *Node) *Node {
	if len(node.Children) == 0 {
		node.Span.End = node.Span.Start
		return node
	}
	return p.finishNode(node)
}

func (p *Parser) parseAnnotation() *Node {
	node := p.startNode(KindAnnotation)
	p.expect(TokenAt)
	node.AddChild(p.parseQualifiedName())
	if p.check(TokenLParen) {
		p.skipBalanced()
	}
	return p.finishNode(node)
}

// parseDeclaration parses a type or member declaration whose modifiers
// have already been consumed.
func (p *Parser) parseDeclaration(modifiers *Node) *Node {
	switch p.peek().Kind {
	case TokenClass:
		return p.parseClassDecl(modifiers)
	case TokenInterface:
		return p.parseInterfaceDecl(modifiers)
	case TokenEnum:
		return p.parseEnumDecl(modifiers)
	case TokenAt:
		if p.peekN(1).Kind == TokenInterface {
			return p.parseAnnotationDecl(modifiers)
		}
	case TokenRecord:
		if isIdentifierLike(p.peekN(1).Kind) {
			if next := p.peekN(2).Kind; next == TokenLParen || next == TokenLT {
				return p.parseRecordDecl(modifiers)
			}
		}
	}

	var typeParams *Node
	if p.check(TokenLT) {
		typeParams = p.parseTypeParameters()
	}

	if p.isIdentifierLike() {
		switch p.peekN(1).Kind {
		case TokenLParen:
			return p.parseConstructor(modifiers, typeParams)
		case TokenLBrace:
			if typeParams == nil {
				return p.parseConstructor(modifiers, nil)
			}
		}
	}

	typ := p.parseType()
	if typ == nil {
		return p.recoverMember("expected member declaration")
	}

	if p.isIdentifierLike() {
		if p.peekN(1).Kind == TokenLParen {
			return p.parseMethod(modifiers, typeParams, typ)
		}
		if typeParams == nil {
			return p.parseField(modifiers, typ)
		}
	}

	return p.recoverMember("expected method or field name")
}

// recoverMember reports a broken member. A ';' or '}' at the current
// token already ends the member, so only then is nothing skipped.
func (p *Parser) recoverMember(msg string) *Node {
	switch {
	case p.check(TokenSemicolon):
		node := p.missing(msg)
		p.advance()
		return node
	case p.check(TokenRBrace), p.check(TokenEOF):
		return p.missing(msg)
	}
	return p.errorNode(msg, memberRecovery)
}

func (p *Parser) parseClassDecl(modifiers *Node) *Node {
	node := p.startDecl(KindClassDecl, modifiers)
	p.expect(TokenClass)
	node.AddChild(p.identifier())

	if p.check(TokenLT) {
		node.AddChild(p.parseTypeParameters())
	}
	if p.check(TokenExtends) {
		node.AddChild(p.parseTypeClause(KindExtendsClause))
	}
	if p.check(TokenImplements) {
		node.AddChild(p.parseTypeClause(KindImplementsClause))
	}
	if p.check(TokenPermits) {
		node.AddChild(p.parseTypeClause(KindPermitsClause))
	}

	node.AddChild(p.parseClassBody())
	return p.finishNode(node)
}

func (p *Parser) parseInterfaceDecl(modifiers *Node) *Node {
	node := p.startDecl(KindInterfaceDecl, modifiers)
	p.expect(TokenInterface)
	node.AddChild(p.identifier())

	if p.check(TokenLT) {
		node.AddChild(p.parseTypeParameters())
	}
	if p.check(TokenExtends) {
		node.AddChild(p.parseTypeClause(KindExtendsClause))
	}
	if p.check(TokenPermits) {
		node.AddChild(p.parseTypeClause(KindPermitsClause))
	}

	node.AddChild(p.parseClassBody())
	return p.finishNode(node)
}

func (p *Parser) parseEnumDecl(modifiers *Node) *Node {
	node := p.startDecl(KindEnumDecl, modifiers)
	p.expect(TokenEnum)
	node.AddChild(p.identifier())

	if p.check(TokenImplements) {
		node.AddChild(p.parseTypeClause(KindImplementsClause))
	}

	body := p.startNode(KindBlock)
	if p.expect(TokenLBrace) == nil {
		node.AddChild(p.errorNode("expected enum body", memberRecovery, TokenLBrace))
		return p.finishNode(node)
	}

	for p.isIdentifierLike() || p.check(TokenAt) {
		body.AddChild(p.parseEnumConstant())
		if !p.check(TokenComma) {
			break
		}
		p.advance()
	}

	if p.check(TokenSemicolon) {
		p.advance()
	}
	p.parseMembers(body)
	p.expect(TokenRBrace)
	node.AddChild(p.finishNode(body))
	return p.finishNode(node)
}

func (p *Parser) parseEnumConstant() *Node {
	node := p.startNode(KindEnumConstant)
	for p.check(TokenAt) {
		node.AddChild(p.parseAnnotation())
	}
	node.AddChild(p.identifier())
	if p.check(TokenLParen) {
		p.skipBalanced()
	}
	if p.check(TokenLBrace) {
		node.AddChild(p.skippedBlock())
	}
	return p.finishNode(node)
}

func (p *Parser) parseRecordDecl(modifiers *Node) *Node {
	node := p.startDecl(KindRecordDecl, modifiers)
	p.expect(TokenRecord)
	node.AddChild(p.identifier())

	if p.check(TokenLT) {
		node.AddChild(p.parseTypeParameters())
	}
	node.AddChild(p.parseParameters())
	if p.check(TokenImplements) {
		node.AddChild(p.parseTypeClause(KindImplementsClause))
	}

	node.AddChild(p.parseClassBody())
	return p.finishNode(node)
}

func (p *Parser) parseAnnotationDecl(modifiers *Node) *Node {
	node := p.startDecl(KindAnnotationDecl, modifiers)
	p.expect(TokenAt)
	p.expect(TokenInterface)
	node.AddChild(p.identifier())
	node.AddChild(p.parseClassBody())
	return p.finishNode(node)
}

func (p *Parser) parseTypeClause(kind NodeKind) *Node {
	node := p.startNode(kind)
	p.advance()
	for {
		typ := p.parseType()
		if typ == nil {
			node.AddChild(p.errorNode("expected type", []TokenKind{TokenLBrace, TokenImplements, TokenPermits}))
			break
		}
		node.AddChild(typ)
		if !p.check(TokenComma) {
			break
		}
		p.advance()
	}
	return p.finishNode(node)
}

func (p *Parser) parseClassBody() *Node {
	node := p.startNode(KindBlock)
	if p.expect(TokenLBrace) == nil {
		return p.errorNode("expected class body", memberRecovery, TokenLBrace)
	}
	p.parseMembers(node)
	p.expect(TokenRBrace)
	return p.finishNode(node)
}

func (p *Parser) parseMembers(body *Node) {
	for !p.check(TokenRBrace) && !p.check(TokenEOF) {
		body.AddChild(p.parseMember())
	}
}

func (p *Parser) parseMember() *Node {
	switch {
	case p.check(TokenSemicolon):
		p.advance()
		return nil
	case p.check(TokenLBrace):
		node := p.startNode(KindInitializer)
		node.AddChild(p.skippedBlock())
		return p.finishNode(node)
	case p.check(TokenStatic) && p.peekN(1).Kind == TokenLBrace:
		node := p.startNode(KindInitializer)
		node.AddChild(leaf(KindIdentifier, p.advance()))
		node.AddChild(p.skippedBlock())
		return p.finishNode(node)
	}

	return p.parseDeclaration(p.parseModifiers())
}

func (p *Parser) parseTypeParameters() *Node {
	node := p.startNode(KindTypeParameters)
	p.expect(TokenLT)

	for !p.check(TokenGT) && !p.check(TokenEOF) {
		param := p.startNode(KindTypeParameter)
		for p.check(TokenAt) {
			param.AddChild(p.parseAnnotation())
		}
		id := p.identifier()
		if id == nil {
			node.AddChild(p.errorNode("expected type parameter", []TokenKind{TokenGT, TokenLBrace}, TokenIdent))
			break
		}
		param.AddChild(id)
		if p.check(TokenExtends) {
			p.advance()
			for {
				param.AddChild(p.parseType())
				if !p.check(TokenBitAnd) {
					break
				}
				p.advance()
			}
		}
		node.AddChild(p.finishNode(param))
		if !p.check(TokenComma) {
			break
		}
		p.advance()
	}

	p.expect(TokenGT)
	return p.finishNode(node)
}

func (p *Parser) isTypeStart() bool {
	kind := p.peek().Kind
	return kind.IsPrimitive() || isIdentifierLike(kind) || kind == TokenAt
}

// parseType returns nil without consuming anything when no type starts
// at the current token.
func (p *Parser) parseType() *Node {
	if !p.isTypeStart() {
		return nil
	}
	node := p.startNode(KindType)

	for p.check(TokenAt) {
		node.AddChild(p.parseAnnotation())
	}

	switch {
	case p.peek().Kind.IsPrimitive():
		node.AddChild(leaf(KindIdentifier, p.advance()))
	case p.isIdentifierLike():
		node.AddChild(p.parseQualifiedName())
		if p.check(TokenLT) {
			node.AddChild(p.parseTypeArguments())
		}
		// Outer<T>.Inner
		for p.check(TokenDot) && isIdentifierLike(p.peekN(1).Kind) {
			p.advance()
			node.AddChild(p.parseQualifiedName())
			if p.check(TokenLT) {
				node.AddChild(p.parseTypeArguments())
			}
		}
	default:
		return p.errorNode("expected type", memberRecovery)
	}
	p.finishNode(node)

	return p.parseDims(node)
}

// parseDims wraps typ in one ArrayType per trailing [] pair.
func (p *Parser) parseDims(typ *Node) *Node {
	for p.check(TokenLBracket) && p.peekN(1).Kind == TokenRBracket {
		wrapper := &Node{Kind: KindArrayType, Span: Span{Start: typ.Span.Start}}
		p.advance()
		p.advance()
		wrapper.AddChild(typ)
		typ = p.finishNode(wrapper)
	}
	return typ
}

func (p *Parser) parseTypeArguments() *Node {
	node := p.startNode(KindTypeArguments)
	p.expect(TokenLT)

	for !p.check(TokenGT) && !p.check(TokenEOF) {
		if p.check(TokenQuestion) {
			node.AddChild(p.parseWildcard())
		} else if typ := p.parseType(); typ != nil {
			node.AddChild(typ)
		} else {
			node.AddChild(p.errorNode("expected type argument", []TokenKind{TokenGT, TokenComma}))
		}
		if !p.check(TokenComma) {
			break
		}
		p.advance()
	}

	p.expect(TokenGT)
	return p.finishNode(node)
}

func (p *Parser) parseWildcard() *Node {
	node := p.startNode(KindWildcard)
	p.expect(TokenQuestion)
	if p.check(TokenExtends) || p.check(TokenSuper) {
		node.AddChild(leaf(KindIdentifier, p.advance()))
		node.AddChild(p.parseType())
	}
	return p.finishNode(node)
}

func (p *Parser) parseConstructor(modifiers *Node, typeParams *Node) *Node {
	node := p.startDecl(KindConstructorDecl, modifiers)
	node.AddChild(typeParams)
	node.AddChild(p.identifier())

	// Compact record constructors have no parameter list.
	if p.check(TokenLParen) {
		node.AddChild(p.parseParameters())
	}
	if p.check(TokenThrows) {
		node.AddChild(p.parseThrowsList())
	}
	if p.check(TokenLBrace) {
		node.AddChild(p.skippedBlock())
	} else {
		node.AddChild(p.errorNode("expected constructor body", memberRecovery, TokenLBrace))
	}
	return p.finishNode(node)
}

func (p *Parser) parseMethod(modifiers, typeParams, returnType *Node) *Node {
	node := p.startDecl(KindMethodDecl, modifiers)
	node.AddChild(typeParams)
	node.AddChild(returnType)
	node.AddChild(p.identifier())
	node.AddChild(p.parseParameters())

	for p.check(TokenLBracket) && p.peekN(1).Kind == TokenRBracket {
		dim := p.startNode(KindDim)
		p.advance()
		p.advance()
		node.AddChild(p.finishNode(dim))
	}

	if p.check(TokenThrows) {
		node.AddChild(p.parseThrowsList())
	}

	switch {
	case p.check(TokenLBrace):
		node.AddChild(p.skippedBlock())
	case p.check(TokenDefault):
		// Annotation element default value.
		p.skipUntil(TokenSemicolon)
		p.expect(TokenSemicolon)
	case p.check(TokenSemicolon):
		p.advance()
	default:
		node.AddChild(p.errorNode("expected method body or ';'", memberRecovery, TokenLBrace, TokenSemicolon))
	}

	return p.finishNode(node)
}

func (p *Parser) parseField(modifiers, typ *Node) *Node {
	node := p.startDecl(KindFieldDecl, modifiers)
	node.AddChild(typ)

	for {
		declarator := p.startNode(KindVariableDeclarator)
		id := p.identifier()
		if id == nil {
			node.AddChild(p.errorNode("expected variable name", memberRecovery, TokenIdent))
			return p.finishNode(node)
		}
		declarator.AddChild(id)
		for p.check(TokenLBracket) && p.peekN(1).Kind == TokenRBracket {
			dim := p.startNode(KindDim)
			p.advance()
			p.advance()
			declarator.AddChild(p.finishNode(dim))
		}
		if p.check(TokenAssign) {
			p.advance()
			p.skipInitializer()
		}
		node.AddChild(p.finishNode(declarator))

		if !p.check(TokenComma) {
			break
		}
		p.advance()
	}

	if p.expect(TokenSemicolon) == nil {
		node.AddChild(p.errorNode("expected ';' after field", memberRecovery, TokenSemicolon))
	}
	return p.finishNode(node)
}

// skipInitializer consumes a variable initializer. A comma ends it only
// when another declarator follows, so commas inside generic expressions
// such as new HashMap<K, V>() stay part of the initializer.
func (p *Parser) skipInitializer() {
	for !p.check(TokenEOF) {
		switch kind := p.peek().Kind; {
		case kind == TokenSemicolon, isCloser(kind):
			return
		case kind == TokenComma && p.startsDeclarator(1):
			return
		case isOpener(kind):
			p.skipBalanced()
		default:
			p.advance()
		}
	}
}

func (p *Parser) startsDeclarator(offset int) bool {
	if !isIdentifierLike(p.peekN(offset).Kind) {
		return false
	}
	switch p.peekN(offset + 1).Kind {
	case TokenAssign, TokenComma, TokenSemicolon, TokenLBracket:
		return true
	}
	return false
}

// skipUntil consumes tokens, skipping balanced brackets, until kind is next.
func (p *Parser) skipUntil(kind TokenKind) {
	for !p.check(TokenEOF) && !p.check(kind) && !p.check(TokenRBrace) {
		if isOpener(p.peek().Kind) {
			p.skipBalanced()
			continue
		}
		p.advance()
	}
}

func (p *Parser) parseParameters() *Node {
	node := p.startNode(KindParameters)
	if p.expect(TokenLParen) == nil {
		return p.errorNode("expected '('", memberRecovery, TokenLParen)
	}

	for !p.check(TokenRParen) && !p.check(TokenEOF) {
		param, receiver := p.parseParameter()
		switch {
		case param == nil && (p.check(TokenComma) || p.check(TokenRParen)):
			node.AddChild(p.missing("expected parameter name"))
		case param == nil:
			node.AddChild(p.errorNode("expected parameter", []TokenKind{TokenComma, TokenRParen}))
		case !receiver:
			node.AddChild(param)
		}
		if !p.check(TokenComma) {
			break
		}
		p.advance()
	}

	p.expect(TokenRParen)
	return p.finishNode(node)
}

// parseParameter parses one formal parameter. A varargs parameter carries
// the ellipsis as its Token. Receiver parameters (Foo this, Outer.this)
// are reported so the caller can drop them.
func (p *Parser) parseParameter() (*Node, bool) {
	node := p.startNode(KindParameter)
	node.AddChild(p.parseModifiers())

	typ := p.parseType()
	if typ == nil {
		return nil, false
	}
	node.AddChild(typ)

	for p.check(TokenAt) {
		p.parseAnnotation()
	}
	if p.check(TokenEllipsis) {
		tok := p.advance()
		node.Token = &tok
	}

	if p.isIdentifierLike() && p.peekN(1).Kind == TokenDot && p.peekN(2).Kind == TokenThis {
		p.advance()
		p.advance()
	}
	if p.expect(TokenThis) != nil {
		return p.finishNode(node), true
	}

	id := p.identifier()
	if id == nil {
		return nil, false
	}
	node.AddChild(id)
	for p.check(TokenLBracket) && p.peekN(1).Kind == TokenRBracket {
		dim := p.startNode(KindDim)
		p.advance()
		p.advance()
		node.AddChild(p.finishNode(dim))
	}
	return p.finishNode(node), false
}

func (p *Parser) parseThrowsList() *Node {
	node := p.startNode(KindThrowsList)
	p.expect(TokenThrows)
	for {
		typ := p.parseType()
		if typ == nil {
			break
		}
		node.AddChild(typ)
		if !p.check(TokenComma) {
			break
		}
		p.advance()
	}
	return p.finishNode(node)
}
