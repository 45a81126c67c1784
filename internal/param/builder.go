package param

import (
	"fmt"
	"sort"

	"github.com/gorilla/schema"
)

var encoder = func() *schema.Encoder {
	enc := schema.NewEncoder()
	enc.SetAliasTag("param")
	return enc
}()

// Builder accumulates an ordered Set. Optional values that are absent are
// skipped, so call sites never branch on presence.
type Builder struct {
	set Set
	err error
}

func NewBuilder() *Builder {
	return &Builder{set: Set{}}
}

func (b *Builder) Add(ps ...Parameter) *Builder {
	b.set = append(b.set, ps...)
	return b
}

func (b *Builder) String(name, v string) *Builder {
	return b.Add(String(name, v))
}

func (b *Builder) Int(name string, v int) *Builder {
	return b.Add(Int(name, v))
}

func (b *Builder) Int64(name string, v int64) *Builder {
	return b.Add(Int64(name, v))
}

func (b *Builder) Bool(name string, v bool) *Builder {
	return b.Add(Bool(name, v))
}

func (b *Builder) Float(name string, v float64) *Builder {
	return b.Add(Float(name, v))
}

func (b *Builder) File(name string, f File) *Builder {
	return b.Add(FileParam(name, f))
}

func (b *Builder) OptString(name string, v Optional[string]) *Builder {
	if s, ok := v.Get(); ok {
		b.String(name, s)
	}
	return b
}

func (b *Builder) OptInt(name string, v Optional[int]) *Builder {
	if n, ok := v.Get(); ok {
		b.Int(name, n)
	}
	return b
}

func (b *Builder) OptInt64(name string, v Optional[int64]) *Builder {
	if n, ok := v.Get(); ok {
		b.Int64(name, n)
	}
	return b
}

func (b *Builder) OptBool(name string, v Optional[bool]) *Builder {
	if x, ok := v.Get(); ok {
		b.Bool(name, x)
	}
	return b
}

func (b *Builder) OptFloat(name string, v Optional[float64]) *Builder {
	if x, ok := v.Get(); ok {
		b.Float(name, x)
	}
	return b
}

// Struct appends the fields of a flat options struct tagged with `param:"name,omitempty"`.
// Fields are appended sorted by name so the output order is stable.
func (b *Builder) Struct(v any) *Builder {
	if b.err != nil || v == nil {
		return b
	}
	values := map[string][]string{}
	if err := encoder.Encode(v, values); err != nil {
		b.err = fmt.Errorf("encode %T: %w", v, err)
		return b
	}
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		for _, value := range values[name] {
			b.set = append(b.set, String(name, value))
		}
	}
	return b
}

// Merge appends another set after the parameters added so far.
func (b *Builder) Merge(s Set) *Builder {
	b.set = Merge(b.set, s)
	return b
}

// Build returns the accumulated set and the first encoding error, if any.
func (b *Builder) Build() (Set, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.set, nil
}

// MustBuild is Build for call sites that only use typed adders.
func (b *Builder) MustBuild() Set {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}
