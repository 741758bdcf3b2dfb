// Package groovy turns Groovy module trees into entries of a doc.Model.
package groovy

import (
	"github.com/tliron/commonlog"

	"github.com/dhamidi/gdoc/doc"
	"github.com/dhamidi/gdoc/groovy/ast"
)

type Visitor struct {
	packagePath string
	model       *doc.Model
	log         commonlog.Logger
}

// NewVisitor returns a visitor that registers classes under packagePath in
// model. An empty packagePath defers to the module's package.
func NewVisitor(packagePath string, model *doc.Model) *Visitor {
	if model == nil {
		model = doc.NewModel()
	}
	return &Visitor{
		packagePath: packagePath,
		model:       model,
		log:         commonlog.GetLogger("gdoc.groovy"),
	}
}

func (v *Visitor) Model() *doc.Model {
	return v.model
}

// VisitModule records every class of module. Classes are registered before
// their members are visited.
func (v *Visitor) VisitModule(module *ast.ModuleNode) {
	if module == nil {
		return
	}
	pkg := v.packagePath
	if pkg == "" {
		pkg = module.Package
	}

	for _, m := range module.Members {
		v.visitMember(nil, nil, m)
	}
	for _, c := range module.Classes {
		v.visitClass(pkg, c)
	}
}

func (v *Visitor) visitClass(pkg string, node *ast.ClassNode) {
	name := node.NameWithoutPackage()
	cls := doc.NewClassDoc(name, kindOf(node))
	cls.FullPath = doc.JoinPath(pkg, name)
	cls.Modifiers = doc.Modifiers{
		Public:    node.IsPublic(),
		Protected: node.IsProtected(),
		Private:   node.IsPrivate(),
		Static:    node.IsStatic(),
		Final:     node.IsFinal(),
		Abstract:  node.IsAbstract(),
	}
	cls.Interfaces = append(cls.Interfaces, node.Interfaces...)
	cls.Imports = importsOf(node)
	cls.RawComment = ast.ContentOf(node.Doc)

	v.model.Put(cls)
	for _, m := range node.Members {
		v.visitMember(cls, node, m)
	}
}

// kindOf checks the annotation flag first since annotation definitions are
// also interfaces.
func kindOf(node *ast.ClassNode) doc.Kind {
	switch {
	case node.IsAnnotationDefinition():
		return doc.KindAnnotation
	case node.IsEnum():
		return doc.KindEnum
	case node.IsInterface():
		return doc.KindInterface
	default:
		return doc.KindClass
	}
}

func importsOf(node *ast.ClassNode) []string {
	if node.Module == nil {
		return nil
	}
	var imports []string
	for _, imp := range node.Module.Imports {
		imports = append(imports, imp.ClassName)
	}
	return imports
}

func (v *Visitor) visitMember(cls *doc.ClassDoc, owner *ast.ClassNode, member ast.Member) {
	if cls == nil {
		v.log.Debugf("ignoring script-level %s", member.MemberKind())
		return
	}
	switch m := member.(type) {
	case *ast.PropertyNode:
		v.visitProperty(cls, m)
	case *ast.FieldNode:
		v.visitField(cls, owner, m)
	case *ast.MethodNode:
		v.visitMethod(cls, m)
	case *ast.ConstructorNode:
		v.visitConstructor(cls, m)
	}
}

// visitProperty records a declared property as is. Declared properties
// never go through accessor pairing.
func (v *Visitor) visitProperty(cls *doc.ClassDoc, node *ast.PropertyNode) {
	cls.AddProperty(&doc.PropertyDoc{
		Member: doc.Member{
			Name:       node.Name,
			Modifiers:  doc.Modifiers{Private: true},
			RawComment: ast.ContentOf(node.Doc),
		},
		Type: doc.Canonical(node.Type),
	})
}

// visitField records a field. A field backing a property of the same name
// is not public; every other field is.
func (v *Visitor) visitField(cls *doc.ClassDoc, owner *ast.ClassNode, node *ast.FieldNode) {
	backing := owner != nil && owner.Property(node.Name) != nil
	cls.AddField(&doc.FieldDoc{
		Member: doc.Member{
			Name: node.Name,
			Modifiers: doc.Modifiers{
				Public: !backing,
				Static: node.Flags.IsStatic(),
				Final:  node.Flags.IsFinal(),
			},
			RawComment: ast.ContentOf(node.Doc),
		},
		Type: doc.Canonical(node.Type),
	})
}

func (v *Visitor) visitMethod(cls *doc.ClassDoc, node *ast.MethodNode) {
	m := &doc.MethodDoc{
		Member: doc.Member{
			Name:       node.Name,
			Modifiers:  modifiersOf(node.Flags),
			RawComment: ast.ContentOf(node.Doc),
		},
		ReturnType: doc.Canonical(node.ReturnType),
		Parameters: parametersOf(node.Parameters),
	}
	cls.AddMethod(m)

	if prop, ok := doc.SynthesizeProperty(cls, m); ok {
		v.log.Debugf("%s: property %s %s from %s", cls.FullPath, prop.Type, prop.Name, m.Name)
	}
}

// visitConstructor names the constructor after its class.
func (v *Visitor) visitConstructor(cls *doc.ClassDoc, node *ast.ConstructorNode) {
	cls.AddConstructor(&doc.ConstructorDoc{
		Member: doc.Member{
			Name:       cls.Name,
			Modifiers:  modifiersOf(node.Flags),
			RawComment: ast.ContentOf(node.Doc),
		},
		Parameters: parametersOf(node.Parameters),
	})
}

func modifiersOf(f ast.Flags) doc.Modifiers {
	return doc.Modifiers{
		Public:    f.IsPublic(),
		Protected: f.IsProtected(),
		Private:   f.IsPrivate(),
		Static:    f.IsStatic(),
		Final:     f.IsFinal(),
		Abstract:  f.IsAbstract(),
	}
}

func parametersOf(params []*ast.Parameter) []doc.ParameterDoc {
	var out []doc.ParameterDoc
	for _, p := range params {
		if p == nil {
			continue
		}
		out = append(out, doc.ParameterDoc{Name: p.Name, Type: doc.Canonical(p.Type)})
	}
	return out
}
