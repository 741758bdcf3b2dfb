// Package doc holds the language-neutral documentation model that both source
// dialects are normalized into.
package doc

import (
	"sort"
	"strings"
	"sync"
)

type Kind string

const (
	KindClass      Kind = "class"
	KindInterface  Kind = "interface"
	KindEnum       Kind = "enum"
	KindAnnotation Kind = "annotation"
)

// Modifiers is a set of independently recorded modifier flags. Mutual
// exclusion of the visibility flags is left to the source language.
type Modifiers struct {
	Public    bool `json:"public,omitempty" yaml:"public,omitempty"`
	Protected bool `json:"protected,omitempty" yaml:"protected,omitempty"`
	Private   bool `json:"private,omitempty" yaml:"private,omitempty"`
	Static    bool `json:"static,omitempty" yaml:"static,omitempty"`
	Final     bool `json:"final,omitempty" yaml:"final,omitempty"`
	Abstract  bool `json:"abstract,omitempty" yaml:"abstract,omitempty"`
}

// List returns the names of the set modifiers in declaration-keyword order.
func (m Modifiers) List() []string {
	var out []string
	if m.Public {
		out = append(out, "public")
	}
	if m.Protected {
		out = append(out, "protected")
	}
	if m.Private {
		out = append(out, "private")
	}
	if m.Abstract {
		out = append(out, "abstract")
	}
	if m.Static {
		out = append(out, "static")
	}
	if m.Final {
		out = append(out, "final")
	}
	return out
}

func (m Modifiers) String() string {
	return strings.Join(m.List(), " ")
}

type Member struct {
	Name       string    `json:"name" yaml:"name"`
	Modifiers  Modifiers `json:"modifiers" yaml:"modifiers"`
	RawComment string    `json:"rawComment,omitempty" yaml:"rawComment,omitempty"`
}

type FieldDoc struct {
	Member `yaml:",inline"`
	Type   string `json:"type" yaml:"type"`
}

// PropertyDoc has the shape of a field but is only ever produced by an
// explicit property declaration or by accessor pairing.
type PropertyDoc struct {
	Member `yaml:",inline"`
	Type   string `json:"type" yaml:"type"`
}

type ParameterDoc struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`
}

type MethodDoc struct {
	Member     `yaml:",inline"`
	ReturnType string         `json:"returnType" yaml:"returnType"`
	Parameters []ParameterDoc `json:"parameters,omitempty" yaml:"parameters,omitempty"`
}

// FirstParameter returns the first parameter, if any.
func (m *MethodDoc) FirstParameter() (ParameterDoc, bool) {
	if m == nil || len(m.Parameters) == 0 {
		return ParameterDoc{}, false
	}
	return m.Parameters[0], true
}

type ConstructorDoc struct {
	Member     `yaml:",inline"`
	Parameters []ParameterDoc `json:"parameters,omitempty" yaml:"parameters,omitempty"`
}

type ClassDoc struct {
	Name         string            `json:"name" yaml:"name"`
	FullPath     string            `json:"fullPath" yaml:"fullPath"`
	Kind         Kind              `json:"kind" yaml:"kind"`
	Modifiers    Modifiers         `json:"modifiers" yaml:"modifiers"`
	SuperClass   string            `json:"superClass,omitempty" yaml:"superClass,omitempty"`
	Interfaces   []string          `json:"interfaces,omitempty" yaml:"interfaces,omitempty"`
	Imports      []string          `json:"imports,omitempty" yaml:"imports,omitempty"`
	RawComment   string            `json:"rawComment,omitempty" yaml:"rawComment,omitempty"`
	Fields       []*FieldDoc       `json:"fields,omitempty" yaml:"fields,omitempty"`
	Properties   []*PropertyDoc    `json:"properties,omitempty" yaml:"properties,omitempty"`
	Methods      []*MethodDoc      `json:"methods,omitempty" yaml:"methods,omitempty"`
	Constructors []*ConstructorDoc `json:"constructors,omitempty" yaml:"constructors,omitempty"`
}

func NewClassDoc(name string, kind Kind) *ClassDoc {
	return &ClassDoc{Name: name, Kind: kind}
}

func (c *ClassDoc) AddInterface(name string) {
	c.Interfaces = append(c.Interfaces, name)
}

func (c *ClassDoc) AddField(f *FieldDoc) {
	c.Fields = append(c.Fields, f)
}

func (c *ClassDoc) AddProperty(p *PropertyDoc) {
	c.Properties = append(c.Properties, p)
}

func (c *ClassDoc) AddMethod(m *MethodDoc) {
	c.Methods = append(c.Methods, m)
}

func (c *ClassDoc) AddConstructor(ctor *ConstructorDoc) {
	c.Constructors = append(c.Constructors, ctor)
}

// Model maps canonical full paths to class descriptors. Insertion and lookup
// are safe for concurrent use; the descriptors themselves are not.
type Model struct {
	mu      sync.RWMutex
	classes map[string]*ClassDoc
}

func NewModel() *Model {
	return &Model{classes: make(map[string]*ClassDoc)}
}

// Put registers c under its full path, replacing any earlier entry.
func (m *Model) Put(c *ClassDoc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.classes[c.FullPath] = c
}

func (m *Model) Get(path string) (*ClassDoc, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.classes[path]
	return c, ok
}

func (m *Model) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.classes)
}

// Paths returns all registered full paths in ascending order.
func (m *Model) Paths() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	paths := make([]string, 0, len(m.classes))
	for p := range m.classes {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Classes returns the descriptors ordered by full path.
func (m *Model) Classes() []*ClassDoc {
	paths := m.Paths()
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*ClassDoc, 0, len(paths))
	for _, p := range paths {
		out = append(out, m.classes[p])
	}
	return out
}

// Merge copies every entry of other into m. Entries of other win.
func (m *Model) Merge(other *Model) {
	if other == nil || other == m {
		return
	}
	other.mu.RLock()
	defer other.mu.RUnlock()
	m.mu.Lock()
	defer m.mu.Unlock()
	for p, c := range other.classes {
		m.classes[p] = c
	}
}

// Canonical converts a dotted type name into the slash-separated form used
// for paths and type references. Names without dots pass through unchanged.
func Canonical(name string) string {
	return strings.ReplaceAll(name, ".", "/")
}

// JoinPath builds the canonical full path of a type declared in packagePath.
func JoinPath(packagePath, simpleName string) string {
	if packagePath == "" {
		return Canonical(simpleName)
	}
	return Canonical(packagePath + "/" + simpleName)
}
