// Package java turns Java parse trees into entries of a doc.Model.
//
// Each compilation unit is walked once. Types are registered in the model as
// soon as they are created, then filled in while their bodies are visited,
// so lookups made during a traversal may observe partially populated
// descriptors.
package java

import (
	"github.com/tliron/commonlog"

	"github.com/dhamidi/gdoc/doc"
	"github.com/dhamidi/gdoc/java/parser"
)

type Visitor struct {
	packagePath string
	model       *doc.Model
	log         commonlog.Logger
}

type VisitorOption func(*Visitor)

// WithLogger replaces the package logger.
func WithLogger(log commonlog.Logger) VisitorOption {
	return func(v *Visitor) {
		v.log = log
	}
}

// NewVisitor returns a visitor that registers types under packagePath in
// model. An empty packagePath defers to each unit's package declaration. A
// nil model is replaced by a fresh one.
func NewVisitor(packagePath string, model *doc.Model, opts ...VisitorOption) *Visitor {
	if model == nil {
		model = doc.NewModel()
	}
	v := &Visitor{
		packagePath: packagePath,
		model:       model,
		log:         commonlog.GetLogger("gdoc.java"),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

func (v *Visitor) Model() *doc.Model {
	return v.model
}

// unit carries the state scoped to one compilation unit.
type unit struct {
	*Visitor
	pkg     string
	javadoc *javadocFinder
}

// VisitCompilationUnit records every type declared in cu. comments are the
// comment tokens collected by the parser; they are only used to attach
// javadoc.
func (v *Visitor) VisitCompilationUnit(cu *parser.Node, comments []parser.Token) {
	if cu == nil {
		return
	}
	u := &unit{
		Visitor: v,
		pkg:     v.packagePathOf(cu),
		javadoc: newJavadocFinder(comments),
	}
	for _, child := range cu.Children {
		u.visitDecl(nil, child)
	}
}

func (v *Visitor) packagePathOf(cu *parser.Node) string {
	if v.packagePath != "" {
		return v.packagePath
	}
	if pkg := cu.FirstChildOfKind(parser.KindPackageDecl); pkg != nil {
		if qn := pkg.FirstChildOfKind(parser.KindQualifiedName); qn != nil {
			return qn.QualifiedName()
		}
	}
	return ""
}

func (u *unit) visitDecl(cls *doc.ClassDoc, node *parser.Node) {
	defer u.javadoc.passed(node)
	switch node.Kind {
	case parser.KindClassDecl, parser.KindInterfaceDecl, parser.KindEnumDecl,
		parser.KindRecordDecl, parser.KindAnnotationDecl:
		u.visitType(node)
	case parser.KindMethodDecl:
		u.visitMethod(cls, node)
	case parser.KindConstructorDecl:
		u.visitConstructor(cls, node)
	case parser.KindFieldDecl:
		u.visitField(cls, node)
	case parser.KindEnumConstant, parser.KindInitializer:
		// not documented, but their javadoc must not drift to a later member
		u.javadoc.find(node)
	}
}

var declKinds = map[parser.NodeKind]doc.Kind{
	parser.KindClassDecl:      doc.KindClass,
	parser.KindRecordDecl:     doc.KindClass,
	parser.KindInterfaceDecl:  doc.KindInterface,
	parser.KindEnumDecl:       doc.KindEnum,
	parser.KindAnnotationDecl: doc.KindAnnotation,
}

// visitType registers a type and walks its body. A nested type gets a
// context of its own; the enclosing type is untouched by it.
func (u *unit) visitType(node *parser.Node) *doc.ClassDoc {
	name := node.Name()
	if name == "" {
		u.log.Debugf("skipping unnamed %s at %s", node.Kind, node.Span.Start)
		return nil
	}

	cls := doc.NewClassDoc(name, declKinds[node.Kind])
	cls.FullPath = doc.JoinPath(u.pkg, name)
	cls.Modifiers = modifiersOf(node)
	cls.RawComment = u.javadoc.find(node)

	if ext := node.FirstChildOfKind(parser.KindExtendsClause); ext != nil {
		if node.Kind == parser.KindInterfaceDecl {
			for _, t := range ext.Children {
				addInterface(cls, t)
			}
		} else if t := firstType(ext); t != nil {
			cls.SuperClass = rawTypeName(t)
		}
	}
	if impl := node.FirstChildOfKind(parser.KindImplementsClause); impl != nil {
		for _, t := range impl.Children {
			addInterface(cls, t)
		}
	}

	u.model.Put(cls)
	u.visitBody(cls, node.FirstChildOfKind(parser.KindBlock))
	return cls
}

func addInterface(cls *doc.ClassDoc, t *parser.Node) {
	if name := rawTypeName(t); name != "" {
		cls.AddInterface(name)
	}
}

func (u *unit) visitBody(cls *doc.ClassDoc, body *parser.Node) {
	if body == nil {
		return
	}
	for _, member := range body.Children {
		u.visitDecl(cls, member)
	}
}

func (u *unit) visitMethod(cls *doc.ClassDoc, node *parser.Node) {
	if cls == nil {
		u.log.Debugf("ignoring method %s outside of any type", node.Name())
		return
	}

	m := &doc.MethodDoc{
		Member: doc.Member{
			Name:       node.Name(),
			Modifiers:  modifiersOf(node),
			RawComment: u.javadoc.find(node),
		},
		ReturnType: declaredType(firstType(node), len(node.ChildrenOfKind(parser.KindDim))),
		Parameters: parametersOf(node),
	}
	cls.AddMethod(m)

	if prop, ok := doc.SynthesizeProperty(cls, m); ok {
		u.log.Debugf("%s: property %s %s from %s", cls.FullPath, prop.Type, prop.Name, m.Name)
	}
}

func (u *unit) visitConstructor(cls *doc.ClassDoc, node *parser.Node) {
	if cls == nil {
		u.log.Debugf("ignoring constructor %s outside of any type", node.Name())
		return
	}
	cls.AddConstructor(&doc.ConstructorDoc{
		Member: doc.Member{
			Name:       node.Name(),
			Modifiers:  modifiersOf(node),
			RawComment: u.javadoc.find(node),
		},
		Parameters: parametersOf(node),
	})
}

// visitField adds one field per declarator. All declarators share the
// modifiers and javadoc of the declaration.
func (u *unit) visitField(cls *doc.ClassDoc, node *parser.Node) {
	if cls == nil {
		u.log.Debug("ignoring field outside of any type")
		return
	}
	mods := modifiersOf(node)
	comment := u.javadoc.find(node)
	typ := firstType(node)

	for _, declarator := range node.ChildrenOfKind(parser.KindVariableDeclarator) {
		cls.AddField(&doc.FieldDoc{
			Member: doc.Member{
				Name:       declarator.Name(),
				Modifiers:  mods,
				RawComment: comment,
			},
			Type: declaredType(typ, len(declarator.ChildrenOfKind(parser.KindDim))),
		})
	}
}

func parametersOf(node *parser.Node) []doc.ParameterDoc {
	params := node.FirstChildOfKind(parser.KindParameters)
	if params == nil {
		return nil
	}
	var out []doc.ParameterDoc
	for _, p := range params.ChildrenOfKind(parser.KindParameter) {
		out = append(out, parameterOf(p))
	}
	return out
}

func parameterOf(node *parser.Node) doc.ParameterDoc {
	typ := declaredType(firstType(node), len(node.ChildrenOfKind(parser.KindDim)))
	if node.TokenLiteral() == "..." {
		typ += "..."
	}
	return doc.ParameterDoc{Name: node.Name(), Type: typ}
}

// modifiersOf reads the six tracked keywords from the Modifiers child of a
// declaration. Annotations and other keywords are ignored.
func modifiersOf(node *parser.Node) doc.Modifiers {
	var mods doc.Modifiers
	modifiers := node.FirstChildOfKind(parser.KindModifiers)
	if modifiers == nil {
		return mods
	}
	for _, child := range modifiers.Children {
		if child.Token == nil {
			continue
		}
		switch child.Token.Literal {
		case "public":
			mods.Public = true
		case "protected":
			mods.Protected = true
		case "private":
			mods.Private = true
		case "abstract":
			mods.Abstract = true
		case "static":
			mods.Static = true
		case "final":
			mods.Final = true
		}
	}
	return mods
}
