// Package document converts record files between their wire text and an
// in-memory tree of scalars, sequences and mappings.
package document

import (
	"fmt"
	"math"
	"strconv"
)

type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindSequence
	KindMapping
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Entry is one key of a mapping. Mappings keep their keys in document order.
type Entry struct {
	Key   string
	Value Value
}

// Value is a node of a record's data tree. The zero Value is null.
type Value struct {
	kind    Kind
	b       bool
	i       int64
	f       float64
	s       string
	items   []Value
	entries []Entry
}

func Null() Value                  { return Value{} }
func Bool(b bool) Value            { return Value{kind: KindBool, b: b} }
func Int(i int64) Value            { return Value{kind: KindInt, i: i} }
func Float(f float64) Value        { return Value{kind: KindFloat, f: f} }
func String(s string) Value        { return Value{kind: KindString, s: s} }
func Pair(k string, v Value) Entry { return Entry{Key: k, Value: v} }

func Sequence(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindSequence, items: items}
}

// Mapping builds a mapping. A repeated key keeps its first position and last value.
func Mapping(entries ...Entry) Value {
	m := Value{kind: KindMapping, entries: make([]Entry, 0, len(entries))}
	for _, e := range entries {
		m.Set(e.Key, e.Value)
	}
	return m
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) IsScalar() bool { return v.kind != KindSequence && v.kind != KindMapping }

// Text renders a scalar the way it would appear in a form field. Containers render as "".
func (v Value) Text() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindString:
		return v.s
	default:
		return ""
	}
}

func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }
func (v Value) AsBool() (bool, bool)     { return v.b, v.kind == KindBool }
func (v Value) AsInt() (int64, bool)     { return v.i, v.kind == KindInt }
func (v Value) AsFloat() (float64, bool) { return v.f, v.kind == KindFloat }

// Len is the number of items of a sequence or keys of a mapping, 0 otherwise.
func (v Value) Len() int {
	switch v.kind {
	case KindSequence:
		return len(v.items)
	case KindMapping:
		return len(v.entries)
	default:
		return 0
	}
}

// Items returns the elements of a sequence. The slice must not be modified.
func (v Value) Items() []Value {
	if v.kind != KindSequence {
		return nil
	}
	return v.items
}

// Entries returns the keys of a mapping in order. The slice must not be modified.
func (v Value) Entries() []Entry {
	if v.kind != KindMapping {
		return nil
	}
	return v.entries
}

func (v Value) Keys() []string {
	if v.kind != KindMapping {
		return nil
	}
	keys := make([]string, len(v.entries))
	for i, e := range v.entries {
		keys[i] = e.Key
	}
	return keys
}

func (v Value) Get(key string) (Value, bool) {
	if p := v.lookup(key); p >= 0 {
		return v.entries[p].Value, true
	}
	return Value{}, false
}

func (v Value) lookup(key string) int {
	if v.kind != KindMapping {
		return -1
	}
	for i := range v.entries {
		if v.entries[i].Key == key {
			return i
		}
	}
	return -1
}

// Field returns a pointer to the value stored under key so it can be replaced in
// place. It is nil when v is not a mapping or has no such key.
func (v *Value) Field(key string) *Value {
	if p := v.lookup(key); p >= 0 {
		return &v.entries[p].Value
	}
	return nil
}

// Elem returns a pointer to the i-th element of a sequence, nil when out of range.
func (v *Value) Elem(i int) *Value {
	if v.kind != KindSequence || i < 0 || i >= len(v.items) {
		return nil
	}
	return &v.items[i]
}

// Set stores val under key, keeping the key's position if it already exists.
// It reports false when v is not a mapping.
func (v *Value) Set(key string, val Value) bool {
	if v.kind != KindMapping {
		return false
	}
	if p := v.lookup(key); p >= 0 {
		v.entries[p].Value = val
		return true
	}
	v.entries = append(v.entries, Entry{Key: key, Value: val})
	return true
}

// Append adds val to the end of a sequence. It reports false when v is not a sequence.
func (v *Value) Append(val Value) bool {
	if v.kind != KindSequence {
		return false
	}
	v.items = append(v.items, val)
	return true
}

// Clone returns a deep copy that shares no backing arrays with v.
func (v Value) Clone() Value {
	out := v
	switch v.kind {
	case KindSequence:
		out.items = make([]Value, len(v.items))
		for i := range v.items {
			out.items[i] = v.items[i].Clone()
		}
	case KindMapping:
		out.entries = make([]Entry, len(v.entries))
		for i, e := range v.entries {
			out.entries[i] = Entry{Key: e.Key, Value: e.Value.Clone()}
		}
	}
	return out
}

// Equal compares structurally. Mapping key order is not significant; sequence order is.
// Int and Float never compare equal to each other.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindInt:
		return v.i == o.i
	case KindFloat:
		if math.IsNaN(v.f) && math.IsNaN(o.f) {
			return true
		}
		return v.f == o.f
	case KindString:
		return v.s == o.s
	case KindSequence:
		if len(v.items) != len(o.items) {
			return false
		}
		for i := range v.items {
			if !v.items[i].Equal(o.items[i]) {
				return false
			}
		}
		return true
	case KindMapping:
		if len(v.entries) != len(o.entries) {
			return false
		}
		for _, e := range v.entries {
			other, ok := o.Get(e.Key)
			if !ok || !e.Value.Equal(other) {
				return false
			}
		}
		return true
	}
	return false
}

func (v Value) String() string {
	raw, err := Encode(v, FormatJSON)
	if err != nil {
		return fmt.Sprintf("<%s>", v.kind)
	}
	return string(trimNewline(raw))
}

func trimNewline(b []byte) []byte {
	for len(b) > 0 && b[len(b)-1] == '\n' {
		b = b[:len(b)-1]
	}
	return b
}
