package property

import (
	"bytes"
	"encoding/json"
	"fmt"

	"print-exporter/core/utils"
)

// Kind tags the shape held by a Value.
type Kind int

const (
	KindNull   Kind = iota // absent or JSON null
	KindScalar             // string, number or bool
	KindList               // ordered sequence
	KindKeyed              // named fields
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindScalar:
		return "scalar"
	case KindList:
		return "list"
	case KindKeyed:
		return "keyed"
	default:
		return "unknown"
	}
}

// TypeKey is the JSON field carrying a structure's type name in record dumps.
const TypeKey = "__type"

// Value is one node of a record's property tree.
//
// Record components arrive either as an ordered list of typed structures or as
// a structure keyed by component name; both shapes are held here so callers
// never probe the concrete type.
type Value struct {
	Kind Kind
	// Name is the structure type name, empty for scalars and untyped containers.
	Name   string
	Scalar any
	List   []Value
	Keyed  map[string]Value
	// Keys preserves the source order of Keyed.
	Keys []string
}

// Scalar wraps a plain value.
func Scalar(v any) Value {
	return Value{Kind: KindScalar, Scalar: v}
}

// List builds a list value.
func List(items ...Value) Value {
	return Value{Kind: KindList, List: items}
}

// Keyed builds a keyed value with the given type name from alternating
// key/value pairs.
func Keyed(name string, pairs ...any) Value {
	v := Value{Kind: KindKeyed, Name: name, Keyed: make(map[string]Value)}
	for i := 0; i+1 < len(pairs); i += 2 {
		key := utils.ToString(pairs[i])
		val, ok := pairs[i+1].(Value)
		if !ok {
			val = Scalar(pairs[i+1])
		}
		v.Set(key, val)
	}
	return v
}

// Set assigns a field on a keyed value, keeping first-insertion order.
func (v *Value) Set(key string, val Value) {
	if v.Keyed == nil {
		v.Kind = KindKeyed
		v.Keyed = make(map[string]Value)
	}
	if _, exists := v.Keyed[key]; !exists {
		v.Keys = append(v.Keys, key)
	}
	v.Keyed[key] = val
}

// IsNull reports whether the value is absent.
func (v Value) IsNull() bool {
	return v.Kind == KindNull
}

// Get returns the field named key of a keyed value.
func (v Value) Get(key string) (Value, bool) {
	if v.Kind != KindKeyed {
		return Value{}, false
	}
	val, ok := v.Keyed[key]
	return val, ok
}

// Path follows a chain of keys, returning a null Value when any step is missing.
func (v Value) Path(keys ...string) Value {
	cur := v
	for _, k := range keys {
		next, ok := cur.Get(k)
		if !ok {
			return Value{}
		}
		cur = next
	}
	return cur
}

// String returns the scalar rendered as text, or "" for non-scalars.
func (v Value) String() string {
	if v.Kind != KindScalar || v.Scalar == nil {
		return ""
	}
	return utils.ToString(v.Scalar)
}

// Int returns the scalar as an int, 0 for non-scalars.
func (v Value) Int() int {
	if v.Kind != KindScalar {
		return 0
	}
	return utils.ToInt(v.Scalar)
}

// Float returns the scalar as a float64, 0 for non-scalars.
func (v Value) Float() float64 {
	if v.Kind != KindScalar {
		return 0
	}
	return utils.ToFloat(v.Scalar)
}

// Bool returns the scalar as a flag, false for non-scalars.
func (v Value) Bool() bool {
	if v.Kind != KindScalar {
		return false
	}
	return utils.ToBool(v.Scalar)
}

// Items returns the children of a container in source order.
// Scalars and nulls have no items.
func (v Value) Items() []Value {
	switch v.Kind {
	case KindList:
		return v.List
	case KindKeyed:
		out := make([]Value, 0, len(v.Keys))
		for _, k := range v.Keys {
			out = append(out, v.Keyed[k])
		}
		return out
	default:
		return nil
	}
}

// FindByName returns every child structure matching name, in source order.
//
// For a keyed container a field whose key equals name matches first; every
// child whose type name equals name matches as well. The same field is never
// returned twice.
func (v Value) FindByName(name string) []Value {
	var out []Value
	switch v.Kind {
	case KindList:
		for _, item := range v.List {
			if item.Name == name {
				out = append(out, item)
			}
		}
	case KindKeyed:
		if direct, ok := v.Keyed[name]; ok {
			out = append(out, direct)
		}
		for _, k := range v.Keys {
			if k == name {
				continue
			}
			if item := v.Keyed[k]; item.Name == name {
				out = append(out, item)
			}
		}
	}
	return out
}

// UnmarshalJSON decodes objects into keyed values, arrays into lists and
// everything else into scalars. Object key order is preserved.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	val, err := decodeValue(dec)
	if err != nil {
		return err
	}
	*v = val
	return nil
}

// MarshalJSON encodes the value back into the dump layout.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindNull:
		return []byte("null"), nil
	case KindScalar:
		return json.Marshal(v.Scalar)
	case KindList:
		if v.List == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.List)
	case KindKeyed:
		var buf bytes.Buffer
		buf.WriteByte('{')
		first := true
		write := func(key string, raw []byte) {
			if !first {
				buf.WriteByte(',')
			}
			first = false
			k, _ := json.Marshal(key)
			buf.Write(k)
			buf.WriteByte(':')
			buf.Write(raw)
		}
		if v.Name != "" {
			raw, _ := json.Marshal(v.Name)
			write(TypeKey, raw)
		}
		for _, key := range v.Keys {
			raw, err := json.Marshal(v.Keyed[key])
			if err != nil {
				return nil, err
			}
			write(key, raw)
		}
		buf.WriteByte('}')
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("property: unknown kind %d", v.Kind)
	}
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			out := Value{Kind: KindKeyed, Keyed: make(map[string]Value)}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Value{}, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return Value{}, fmt.Errorf("property: object key is %T", keyTok)
				}
				child, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				if key == TypeKey {
					out.Name = child.String()
					continue
				}
				out.Set(key, child)
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return out, nil
		case '[':
			out := Value{Kind: KindList, List: []Value{}}
			for dec.More() {
				child, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				out.List = append(out.List, child)
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return out, nil
		default:
			return Value{}, fmt.Errorf("property: unexpected delimiter %q", t)
		}
	case nil:
		return Value{}, nil
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return Scalar(i), nil
		}
		f, err := t.Float64()
		if err != nil {
			return Value{}, err
		}
		return Scalar(f), nil
	default:
		return Scalar(t), nil
	}
}
