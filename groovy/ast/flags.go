package ast

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Flags is the modifier set of a declaration.
type Flags uint16

const (
	FlagPublic Flags = 1 << iota
	FlagProtected
	FlagPrivate
	FlagStatic
	FlagFinal
	FlagAbstract
	FlagSynchronized
	FlagTransient
	FlagVolatile
	FlagNative
	FlagStrict
	FlagDefault
)

var flagNames = []struct {
	flag Flags
	name string
}{
	{FlagPublic, "public"},
	{FlagProtected, "protected"},
	{FlagPrivate, "private"},
	{FlagAbstract, "abstract"},
	{FlagStatic, "static"},
	{FlagFinal, "final"},
	{FlagSynchronized, "synchronized"},
	{FlagTransient, "transient"},
	{FlagVolatile, "volatile"},
	{FlagNative, "native"},
	{FlagStrict, "strictfp"},
	{FlagDefault, "default"},
}

// ParseFlags converts modifier keywords into a Flags set.
func ParseFlags(names ...string) (Flags, error) {
	var f Flags
outer:
	for _, name := range names {
		for _, fn := range flagNames {
			if fn.name == name {
				f |= fn.flag
				continue outer
			}
		}
		return f, fmt.Errorf("unknown modifier %q", name)
	}
	return f, nil
}

func (f Flags) Has(flag Flags) bool { return f&flag != 0 }

func (f Flags) IsPublic() bool    { return f.Has(FlagPublic) }
func (f Flags) IsProtected() bool { return f.Has(FlagProtected) }
func (f Flags) IsPrivate() bool   { return f.Has(FlagPrivate) }
func (f Flags) IsStatic() bool    { return f.Has(FlagStatic) }
func (f Flags) IsFinal() bool     { return f.Has(FlagFinal) }
func (f Flags) IsAbstract() bool  { return f.Has(FlagAbstract) }

// Names lists the set modifiers in keyword order.
func (f Flags) Names() []string {
	var out []string
	for _, fn := range flagNames {
		if f.Has(fn.flag) {
			out = append(out, fn.name)
		}
	}
	return out
}

func (f Flags) String() string {
	return strings.Join(f.Names(), " ")
}

func (f Flags) MarshalJSON() ([]byte, error) {
	names := f.Names()
	if names == nil {
		names = []string{}
	}
	return json.Marshal(names)
}

// UnmarshalJSON accepts a list of modifier keywords.
func (f *Flags) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return fmt.Errorf("modifiers: %w", err)
	}
	parsed, err := ParseFlags(names...)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}
