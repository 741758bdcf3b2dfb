package doc

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Accessor is a method name split into its bean prefix and the property
// name that follows it.
type Accessor struct {
	Prefix  string
	RawName string
}

type accessorRule struct {
	prefix string
	minLen int
}

// Order matters: "is" must not shadow a longer prefix.
var accessorRules = []accessorRule{
	{prefix: "get", minLen: 4},
	{prefix: "set", minLen: 4},
	{prefix: "is", minLen: 3},
}

// ClassifyAccessor reports whether name looks like a getter, setter or
// boolean getter that leaves at least one character for the property name.
func ClassifyAccessor(name string) (Accessor, bool) {
	for _, r := range accessorRules {
		if len(name) >= r.minLen && strings.HasPrefix(name, r.prefix) {
			return Accessor{Prefix: r.prefix, RawName: name[len(r.prefix):]}, true
		}
	}
	return Accessor{}, false
}

// ExpectedPartner returns the name of the method that would complete the
// accessor pair m belongs to.
func ExpectedPartner(acc Accessor, m *MethodDoc) string {
	switch {
	case acc.Prefix == "set" && firstParamIsNonBoolean(m):
		return "get" + acc.RawName
	case acc.Prefix == "get" && m.ReturnType != "boolean":
		return "set" + acc.RawName
	case acc.Prefix == "is":
		return "set" + acc.RawName
	default:
		return "is" + acc.RawName
	}
}

func firstParamIsNonBoolean(m *MethodDoc) bool {
	p, ok := m.FirstParameter()
	return ok && p.Type != "boolean"
}

// SynthesizeProperty checks whether m, just appended to class, completes an
// accessor pair with a method recorded earlier in the same class. When it
// does and both methods are public, a property is appended to the class and
// returned. Only methods already recorded are considered, so the second
// method of a pair is the one that triggers synthesis.
func SynthesizeProperty(class *ClassDoc, m *MethodDoc) (*PropertyDoc, bool) {
	if m == nil {
		return nil, false
	}
	acc, ok := ClassifyAccessor(m.Name)
	if !ok {
		return nil, false
	}
	if class == nil {
		return nil, false
	}

	expected := ExpectedPartner(acc, m)
	for _, partner := range class.Methods {
		if partner.Name != expected {
			continue
		}
		// First match decides, whether or not it qualifies.
		if !partner.Modifiers.Public || !m.Modifiers.Public {
			return nil, false
		}
		prop := &PropertyDoc{
			Member: Member{
				Name:      decapitalize(acc.RawName),
				Modifiers: Modifiers{Public: true},
			},
			Type: propertyType(expected, partner),
		}
		class.AddProperty(prop)
		return prop, true
	}
	return nil, false
}

func propertyType(expected string, partner *MethodDoc) string {
	if strings.HasPrefix(expected, "set") {
		if p, ok := partner.FirstParameter(); ok {
			return p.Type
		}
	}
	return partner.ReturnType
}

func decapitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}
