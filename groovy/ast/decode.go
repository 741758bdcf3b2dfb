package ast

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// DecodeModule reads one JSON encoded module. Members are objects tagged with
// a "kind" of field, property, method or constructor; modifiers are lists of
// keywords. Every class is linked back to the returned module.
func DecodeModule(r io.Reader) (*ModuleNode, error) {
	var m ModuleNode
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("decode module: %w", err)
	}
	for i, c := range m.Classes {
		if c == nil || c.Name == "" {
			return nil, fmt.Errorf("decode module: class %d has no name", i)
		}
		c.Module = &m
	}
	return &m, nil
}

// EncodeModule writes m in the form DecodeModule reads.
func EncodeModule(w io.Writer, m *ModuleNode) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(m)
}

func (m *ModuleNode) UnmarshalJSON(data []byte) error {
	type plain ModuleNode
	wire := struct {
		*plain
		Members []json.RawMessage `json:"members"`
	}{plain: (*plain)(m)}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	members, err := decodeMembers(wire.Members)
	if err != nil {
		return err
	}
	m.Members = members
	return nil
}

func (m *ModuleNode) MarshalJSON() ([]byte, error) {
	type plain ModuleNode
	members, err := encodeMembers(m.Members)
	if err != nil {
		return nil, err
	}
	return json.Marshal(struct {
		*plain
		Members []json.RawMessage `json:"members,omitempty"`
	}{plain: (*plain)(m), Members: members})
}

func (c *ClassNode) UnmarshalJSON(data []byte) error {
	type plain ClassNode
	wire := struct {
		*plain
		Members []json.RawMessage `json:"members"`
	}{plain: (*plain)(c)}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	members, err := decodeMembers(wire.Members)
	if err != nil {
		return fmt.Errorf("class %s: %w", c.Name, err)
	}
	c.Members = members
	return nil
}

func (c *ClassNode) MarshalJSON() ([]byte, error) {
	type plain ClassNode
	members, err := encodeMembers(c.Members)
	if err != nil {
		return nil, err
	}
	return json.Marshal(struct {
		*plain
		Members []json.RawMessage `json:"members,omitempty"`
	}{plain: (*plain)(c), Members: members})
}

var errMissingKind = errors.New("member has no kind")

func decodeMembers(raw []json.RawMessage) ([]Member, error) {
	var members []Member
	for i, data := range raw {
		var tag struct {
			Kind string `json:"kind"`
		}
		if err := json.Unmarshal(data, &tag); err != nil {
			return nil, fmt.Errorf("member %d: %w", i, err)
		}

		var member Member
		switch tag.Kind {
		case MemberField:
			member = &FieldNode{}
		case MemberProperty:
			member = &PropertyNode{}
		case MemberMethod:
			member = &MethodNode{}
		case MemberConstructor:
			member = &ConstructorNode{}
		case "":
			return nil, fmt.Errorf("member %d: %w", i, errMissingKind)
		default:
			return nil, fmt.Errorf("member %d: unknown kind %q", i, tag.Kind)
		}
		if err := json.Unmarshal(data, member); err != nil {
			return nil, fmt.Errorf("member %d (%s): %w", i, tag.Kind, err)
		}
		members = append(members, member)
	}
	return members, nil
}

func encodeMembers(members []Member) ([]json.RawMessage, error) {
	var out []json.RawMessage
	for _, member := range members {
		body, err := json.Marshal(member)
		if err != nil {
			return nil, err
		}
		kind, _ := json.Marshal(member.MemberKind())
		tagged := append([]byte(`{"kind":`), kind...)
		if len(body) > 2 {
			tagged = append(tagged, ',')
		}
		tagged = append(tagged, body[1:]...)
		out = append(out, tagged)
	}
	return out, nil
}
