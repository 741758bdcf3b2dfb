package doc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func method(name, returnType string, public bool, params ...ParameterDoc) *MethodDoc {
	return &MethodDoc{
		Member:     Member{Name: name, Modifiers: Modifiers{Public: public}},
		ReturnType: returnType,
		Parameters: params,
	}
}

func param(typ string) ParameterDoc {
	return ParameterDoc{Name: "value", Type: typ}
}

// visit mimics a traversal: append, then synthesize.
func visit(c *ClassDoc, methods ...*MethodDoc) int {
	n := 0
	for _, m := range methods {
		c.AddMethod(m)
		if _, ok := SynthesizeProperty(c, m); ok {
			n++
		}
	}
	return n
}

func TestClassifyAccessor(t *testing.T) {
	tests := []struct {
		name    string
		prefix  string
		rawName string
		ok      bool
	}{
		{"getName", "get", "Name", true},
		{"setName", "set", "Name", true},
		{"isActive", "is", "Active", true},
		{"getX", "get", "X", true},
		{"get", "", "", false},
		{"set", "", "", false},
		{"is", "", "", false},
		{"iS", "", "", false},
		{"toString", "", "", false},
		{"getter", "get", "ter", true},
		{"issue", "is", "sue", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc, ok := ClassifyAccessor(tt.name)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.prefix, acc.Prefix)
			assert.Equal(t, tt.rawName, acc.RawName)
		})
	}
}

func TestExpectedPartner(t *testing.T) {
	tests := []struct {
		desc   string
		m      *MethodDoc
		expect string
	}{
		{"setter with object param", method("setName", "void", true, param("String")), "getName"},
		{"setter with boolean param", method("setActive", "void", true, param("boolean")), "isActive"},
		{"setter without params", method("setFoo", "void", true), "isFoo"},
		{"getter with object return", method("getName", "String", true), "setName"},
		{"getter with boolean return", method("getActive", "boolean", true), "isActive"},
		{"is getter", method("isActive", "boolean", true), "setActive"},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			acc, ok := ClassifyAccessor(tt.m.Name)
			require.True(t, ok)
			assert.Equal(t, tt.expect, ExpectedPartner(acc, tt.m))
		})
	}
}

func TestSynthesizeProperty(t *testing.T) {
	t.Run("getter before setter", func(t *testing.T) {
		c := NewClassDoc("Person", KindClass)
		n := visit(c,
			method("getName", "String", true),
			method("setName", "void", true, param("String")),
		)
		assert.Equal(t, 1, n)
		require.Len(t, c.Properties, 1)
		assert.Equal(t, "name", c.Properties[0].Name)
		assert.Equal(t, "String", c.Properties[0].Type)
	})

	t.Run("non-public getter", func(t *testing.T) {
		c := NewClassDoc("Person", KindClass)
		visit(c,
			method("getName", "String", false),
			method("setName", "void", true, param("String")),
		)
		assert.Empty(t, c.Properties)
	})

	t.Run("non-public setter", func(t *testing.T) {
		c := NewClassDoc("Person", KindClass)
		visit(c,
			method("getName", "String", true),
			method("setName", "void", false, param("String")),
		)
		assert.Empty(t, c.Properties)
	})

	t.Run("is getter with boolean setter", func(t *testing.T) {
		c := NewClassDoc("Switch", KindClass)
		visit(c,
			method("isActive", "boolean", true),
			method("setActive", "void", true, param("boolean")),
		)
		require.Len(t, c.Properties, 1)
		assert.Equal(t, "active", c.Properties[0].Name)
		assert.Equal(t, "boolean", c.Properties[0].Type)
	})

	t.Run("get prefix with boolean return expects is partner", func(t *testing.T) {
		c := NewClassDoc("Switch", KindClass)
		visit(c,
			method("getActive", "boolean", true),
			method("setActive", "void", true, param("boolean")),
		)
		assert.Empty(t, c.Properties)
	})

	t.Run("getter only", func(t *testing.T) {
		c := NewClassDoc("Person", KindClass)
		visit(c, method("getName", "String", true))
		assert.Empty(t, c.Properties)
	})

	t.Run("setter before getter synthesizes once on the getter", func(t *testing.T) {
		c := NewClassDoc("Point", KindClass)
		setX := method("setX", "void", true, param("int"))
		c.AddMethod(setX)
		_, ok := SynthesizeProperty(c, setX)
		assert.False(t, ok, "partner not recorded yet")

		getX := method("getX", "int", true)
		c.AddMethod(getX)
		prop, ok := SynthesizeProperty(c, getX)
		require.True(t, ok)
		assert.Equal(t, "x", prop.Name)
		assert.Equal(t, "int", prop.Type, "type comes from the setter parameter")
		assert.Len(t, c.Properties, 1)
	})

	t.Run("first match short-circuits", func(t *testing.T) {
		c := NewClassDoc("Overloads", KindClass)
		visit(c,
			method("setName", "void", false, param("String")),
			method("setName", "void", true, param("CharSequence")),
			method("getName", "String", true),
		)
		assert.Empty(t, c.Properties)
	})

	t.Run("setter without params matched by is getter", func(t *testing.T) {
		c := NewClassDoc("Odd", KindClass)
		visit(c,
			method("setFoo", "void", true),
			method("isFoo", "boolean", true),
		)
		require.Len(t, c.Properties, 1)
		assert.Equal(t, "void", c.Properties[0].Type, "falls back to the return type")
	})

	t.Run("no class", func(t *testing.T) {
		prop, ok := SynthesizeProperty(nil, method("getName", "String", true))
		assert.False(t, ok)
		assert.Nil(t, prop)
	})

	t.Run("non candidate", func(t *testing.T) {
		c := NewClassDoc("Thing", KindClass)
		visit(c, method("run", "void", true), method("get", "Object", true))
		assert.Empty(t, c.Properties)
	})

	t.Run("property name keeps the rest of the case", func(t *testing.T) {
		c := NewClassDoc("Page", KindClass)
		visit(c,
			method("getURLPath", "String", true),
			method("setURLPath", "void", true, param("String")),
		)
		require.Len(t, c.Properties, 1)
		assert.Equal(t, "uRLPath", c.Properties[0].Name)
	})
}
