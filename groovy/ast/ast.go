// Package ast is the tree a Groovy compiler front end hands to the
// documentation walker: one ModuleNode per source file, holding classes with
// their fields, properties, methods and constructors in source order.
//
// Trees are usually produced out of process and exchanged as JSON, see
// DecodeModule.
package ast

import "strings"

type ModuleNode struct {
	Package string        `json:"package,omitempty"`
	Imports []*ImportNode `json:"imports,omitempty"`
	Classes []*ClassNode  `json:"classes,omitempty"`
	// Members are script-level declarations outside of any class.
	Members []Member `json:"-"`
}

type ImportNode struct {
	ClassName string `json:"className"`
	Alias     string `json:"alias,omitempty"`
	Static    bool   `json:"static,omitempty"`
	Star      bool   `json:"star,omitempty"`
}

// Groovydoc is the comment attached to a declaration. Content is kept as
// the compiler recorded it.
type Groovydoc struct {
	Content string `json:"content"`
}

// ContentOf returns the comment text, or the empty string for a nil doc.
func ContentOf(doc *Groovydoc) string {
	if doc == nil {
		return ""
	}
	return doc.Content
}

type ClassNode struct {
	// Name is the fully qualified, dotted name.
	Name       string     `json:"name"`
	Flags      Flags      `json:"modifiers"`
	Interface  bool       `json:"interface,omitempty"`
	Enum       bool       `json:"enum,omitempty"`
	Annotation bool       `json:"annotation,omitempty"`
	SuperClass string     `json:"superClass,omitempty"`
	Interfaces []string   `json:"interfaces,omitempty"`
	Doc        *Groovydoc `json:"groovydoc,omitempty"`
	Line       int        `json:"line,omitempty"`
	Members    []Member   `json:"-"`

	Module *ModuleNode `json:"-"`
}

// NameWithoutPackage strips the package prefix. Inner classes keep their
// binary name, as in Outer$Inner.
func (c *ClassNode) NameWithoutPackage() string {
	if i := strings.LastIndexByte(c.Name, '.'); i >= 0 {
		return c.Name[i+1:]
	}
	return c.Name
}

func (c *ClassNode) IsInterface() bool            { return c.Interface }
func (c *ClassNode) IsEnum() bool                 { return c.Enum }
func (c *ClassNode) IsAnnotationDefinition() bool { return c.Annotation }

func (c *ClassNode) IsPublic() bool    { return c.Flags.IsPublic() }
func (c *ClassNode) IsProtected() bool { return c.Flags.IsProtected() }
func (c *ClassNode) IsPrivate() bool   { return c.Flags.IsPrivate() }
func (c *ClassNode) IsStatic() bool    { return c.Flags.IsStatic() }
func (c *ClassNode) IsFinal() bool     { return c.Flags.IsFinal() }
func (c *ClassNode) IsAbstract() bool  { return c.Flags.IsAbstract() }

// Property returns the property declared with name, or nil.
func (c *ClassNode) Property(name string) *PropertyNode {
	for _, m := range c.Members {
		if p, ok := m.(*PropertyNode); ok && p.Name == name {
			return p
		}
	}
	return nil
}

// Member is one of *FieldNode, *PropertyNode, *MethodNode or
// *ConstructorNode.
type Member interface {
	MemberKind() string
}

type FieldNode struct {
	Name  string     `json:"name"`
	Type  string     `json:"type"`
	Flags Flags      `json:"modifiers"`
	Doc   *Groovydoc `json:"groovydoc,omitempty"`
	Line  int        `json:"line,omitempty"`
}

// PropertyNode is a Groovy property: a declaration without visibility
// modifier that the compiler backs with a private field and accessors.
type PropertyNode struct {
	Name  string     `json:"name"`
	Type  string     `json:"type"`
	Flags Flags      `json:"modifiers"`
	Doc   *Groovydoc `json:"groovydoc,omitempty"`
	Line  int        `json:"line,omitempty"`
}

type Parameter struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type MethodNode struct {
	Name       string       `json:"name"`
	ReturnType string       `json:"returnType"`
	Parameters []*Parameter `json:"parameters,omitempty"`
	Flags      Flags        `json:"modifiers"`
	Doc        *Groovydoc   `json:"groovydoc,omitempty"`
	Line       int          `json:"line,omitempty"`
}

func (m *MethodNode) IsPublic() bool    { return m.Flags.IsPublic() }
func (m *MethodNode) IsProtected() bool { return m.Flags.IsProtected() }
func (m *MethodNode) IsPrivate() bool   { return m.Flags.IsPrivate() }
func (m *MethodNode) IsStatic() bool    { return m.Flags.IsStatic() }
func (m *MethodNode) IsFinal() bool     { return m.Flags.IsFinal() }
func (m *MethodNode) IsAbstract() bool  { return m.Flags.IsAbstract() }

type ConstructorNode struct {
	Parameters []*Parameter `json:"parameters,omitempty"`
	Flags      Flags        `json:"modifiers"`
	Doc        *Groovydoc   `json:"groovydoc,omitempty"`
	Line       int          `json:"line,omitempty"`
}

const (
	MemberField       = "field"
	MemberProperty    = "property"
	MemberMethod      = "method"
	MemberConstructor = "constructor"
)

func (*FieldNode) MemberKind() string       { return MemberField }
func (*PropertyNode) MemberKind() string    { return MemberProperty }
func (*MethodNode) MemberKind() string      { return MemberMethod }
func (*ConstructorNode) MemberKind() string { return MemberConstructor }
