// Package params holds typed element parameters carried as node metadata.
//
// A Value is a tagged variant: exactly one of string, double or integer,
// selected by its Kind. Consumers dispatch with a switch on Kind instead of
// inspecting dynamic Go types.
package params

import (
	"errors"
	"fmt"
	"strconv"
)

// Parameter errors.
var (
	ErrUnknownKind   = errors.New("unknown parameter kind")
	ErrDuplicateName = errors.New("duplicate parameter name")
)

// Kind selects which payload of a Value is valid.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindString
	KindDouble
	KindInt
)

// String returns a readable kind name.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindDouble:
		return "double"
	case KindInt:
		return "int"
	default:
		return fmt.Sprintf("invalid(%d)", uint8(k))
	}
}

// Value is a single parameter value.
type Value struct {
	kind Kind
	s    string
	f    float64
	i    int64
}

// String creates a string value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Double creates a floating point value.
func Double(f float64) Value { return Value{kind: KindDouble, f: f} }

// Int creates an integer value.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Kind returns the variant tag.
func (v Value) Kind() Kind { return v.kind }

// Str returns the string payload and whether v is a string.
func (v Value) Str() (string, bool) { return v.s, v.kind == KindString }

// Float returns the double payload and whether v is a double.
func (v Value) Float() (float64, bool) { return v.f, v.kind == KindDouble }

// Integer returns the integer payload and whether v is an integer.
func (v Value) Integer() (int64, bool) { return v.i, v.kind == KindInt }

// Interface returns the payload as a plain Go value for JSON-like encoders.
func (v Value) Interface() any {
	switch v.kind {
	case KindString:
		return v.s
	case KindDouble:
		return v.f
	case KindInt:
		return v.i
	default:
		return nil
	}
}

// Format renders the value for logs and debug output.
func (v Value) Format() string {
	switch v.kind {
	case KindString:
		return strconv.Quote(v.s)
	case KindDouble:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	default:
		return "<invalid>"
	}
}

// Param is a named value.
type Param struct {
	Name  string
	Value Value
}

// Set is an ordered list of uniquely named parameters.
// Order is preserved so exported metadata stays deterministic.
type Set struct {
	params []Param
	index  map[string]int
}

// Put adds or replaces a parameter. Replacing keeps the original position.
func (s *Set) Put(name string, v Value) {
	if s.index == nil {
		s.index = make(map[string]int)
	}
	if i, ok := s.index[name]; ok {
		s.params[i].Value = v
		return
	}
	s.index[name] = len(s.params)
	s.params = append(s.params, Param{Name: name, Value: v})
}

// Get returns the named value.
func (s *Set) Get(name string) (Value, bool) {
	if s == nil {
		return Value{}, false
	}
	i, ok := s.index[name]
	if !ok {
		return Value{}, false
	}
	return s.params[i].Value, true
}

// Len returns the number of parameters.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.params)
}

// Params returns a copy of the parameters in insertion order.
func (s *Set) Params() []Param {
	if s == nil {
		return nil
	}
	out := make([]Param, len(s.params))
	copy(out, s.params)
	return out
}

// Clone returns an independent copy of s.
func (s *Set) Clone() *Set {
	if s == nil {
		return nil
	}
	c := &Set{}
	for _, p := range s.params {
		c.Put(p.Name, p.Value)
	}
	return c
}
