// Package param models the ordered name/value pairs sent with every API call.
package param

import (
	"net/url"
	"slices"
	"strconv"
	"strings"
)

// Kind is the value type a Parameter was built from.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindInt64
	KindBool
	KindFloat
	KindFile
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindInt64:
		return "int64"
	case KindBool:
		return "bool"
	case KindFloat:
		return "float"
	case KindFile:
		return "file"
	default:
		return "unknown"
	}
}

// File is a binary payload sent as a multipart part.
type File struct {
	Name        string
	Content     []byte
	ContentType string
}

// Parameter is a single name/value pair. Values are stored in their wire form.
type Parameter struct {
	Name  string
	Kind  Kind
	value string
	file  *File
}

// Value returns the wire form of the parameter. File parameters return the file name.
func (p Parameter) Value() string {
	if p.file != nil {
		return p.file.Name
	}
	return p.value
}

// File returns the payload of a file parameter.
func (p Parameter) File() (File, bool) {
	if p.file == nil {
		return File{}, false
	}
	return *p.file, true
}

// IsFile reports whether the parameter carries a binary payload.
func (p Parameter) IsFile() bool {
	return p.file != nil
}

// Equal compares name, kind and wire value.
func (p Parameter) Equal(o Parameter) bool {
	if p.Name != o.Name || p.Kind != o.Kind || p.Value() != o.Value() {
		return false
	}
	if p.file != nil && o.file != nil {
		return p.file.ContentType == o.file.ContentType && slices.Equal(p.file.Content, o.file.Content)
	}
	return p.file == nil && o.file == nil
}

func (p Parameter) String() string {
	return p.Name + "=" + p.Value()
}

func String(name, v string) Parameter {
	return Parameter{Name: name, Kind: KindString, value: v}
}

func Int(name string, v int) Parameter {
	return Parameter{Name: name, Kind: KindInt, value: strconv.Itoa(v)}
}

func Int64(name string, v int64) Parameter {
	return Parameter{Name: name, Kind: KindInt64, value: strconv.FormatInt(v, 10)}
}

func Bool(name string, v bool) Parameter {
	return Parameter{Name: name, Kind: KindBool, value: strconv.FormatBool(v)}
}

func Float(name string, v float64) Parameter {
	return Parameter{Name: name, Kind: KindFloat, value: strconv.FormatFloat(v, 'f', -1, 64)}
}

// FileParam wraps a payload so it is sent as a multipart file part.
func FileParam(name string, f File) Parameter {
	return Parameter{Name: name, Kind: KindFile, file: &f}
}

// Set is an ordered parameter sequence. Duplicate names are allowed and all are sent.
type Set []Parameter

// Of builds a Set from the given parameters in order.
func Of(ps ...Parameter) Set {
	if len(ps) == 0 {
		return Set{}
	}
	return slices.Clone(Set(ps))
}

// Merge concatenates primary then secondary without de-duplication.
// Two nil sets produce an empty set. When one side is nil the other is
// returned as a copy so later changes to the result never reach the input.
func Merge(primary, secondary Set) Set {
	switch {
	case primary == nil && secondary == nil:
		return Set{}
	case primary == nil:
		return slices.Clone(secondary)
	case secondary == nil:
		return slices.Clone(primary)
	}
	out := make(Set, 0, len(primary)+len(secondary))
	out = append(out, primary...)
	return append(out, secondary...)
}

// MergeOne is Merge with a one-element secondary set.
func MergeOne(primary Set, p Parameter) Set {
	return Merge(primary, Set{p})
}

// Get returns the first value for name.
func (s Set) Get(name string) (string, bool) {
	for _, p := range s {
		if p.Name == name {
			return p.Value(), true
		}
	}
	return "", false
}

// Values returns every value sent under name, in order.
func (s Set) Values(name string) []string {
	var out []string
	for _, p := range s {
		if p.Name == name {
			out = append(out, p.Value())
		}
	}
	return out
}

// Names returns parameter names in transmission order.
func (s Set) Names() []string {
	out := make([]string, len(s))
	for i, p := range s {
		out[i] = p.Name
	}
	return out
}

// HasFile reports whether any parameter needs a multipart body.
func (s Set) HasFile() bool {
	return slices.ContainsFunc(s, Parameter.IsFile)
}

// Equal compares two sets element by element.
func (s Set) Equal(o Set) bool {
	return slices.EqualFunc(s, o, Parameter.Equal)
}

// Encode renders the non-file parameters as an application/x-www-form-urlencoded
// string, keeping the set's order.
func (s Set) Encode() string {
	var b strings.Builder
	for _, p := range s {
		if p.IsFile() {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Name))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.value))
	}
	return b.String()
}

func (s Set) String() string {
	parts := make([]string, len(s))
	for i, p := range s {
		parts[i] = p.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
