package params

import "fmt"

// Setter receives parameters one variant at a time.
type Setter interface {
	SetString(name, value string) error
	SetDouble(name string, value float64) error
	SetInt(name string, value int64) error
}

// Apply feeds every parameter of s to dst in order. It stops at the first
// error, which is returned wrapped with the parameter name.
func (s *Set) Apply(dst Setter) error {
	if s == nil {
		return nil
	}
	for _, p := range s.params {
		var err error
		switch p.Value.kind {
		case KindString:
			err = dst.SetString(p.Name, p.Value.s)
		case KindDouble:
			err = dst.SetDouble(p.Name, p.Value.f)
		case KindInt:
			err = dst.SetInt(p.Name, p.Value.i)
		default:
			err = fmt.Errorf("%w: %s", ErrUnknownKind, p.Value.kind)
		}
		if err != nil {
			return fmt.Errorf("parameter %q: %w", p.Name, err)
		}
	}
	return nil
}

// Map collects parameters into a map of plain values.
type Map map[string]any

// SetString implements Setter.
func (m Map) SetString(name, value string) error {
	m[name] = value
	return nil
}

// SetDouble implements Setter.
func (m Map) SetDouble(name string, value float64) error {
	m[name] = value
	return nil
}

// SetInt implements Setter.
func (m Map) SetInt(name string, value int64) error {
	m[name] = value
	return nil
}
