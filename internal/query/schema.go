package query

// IDField is the public name of every collection's identifier.
const IDField = "_id"

// Kind is the value type a field holds, used to coerce filter operands.
type Kind int

const (
	KindString Kind = iota
	KindBool
	KindTime
	// KindStringSet is a list of strings with set semantics; comparisons mean "contains".
	KindStringSet
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "boolean"
	case KindTime:
		return "date"
	case KindStringSet:
		return "string list"
	default:
		return "string"
	}
}

// Field describes one queryable attribute of a collection.
type Field struct {
	Name   string // name used in where/sort/select and in JSON output
	Column string // relational column name
	Kind   Kind
}

// Schema is the closed set of fields a collection exposes to queries.
type Schema struct {
	fields []Field
	byName map[string]Field
}

func NewSchema(fields ...Field) *Schema {
	s := &Schema{fields: fields, byName: make(map[string]Field, len(fields))}
	for _, f := range fields {
		s.byName[f.Name] = f
	}
	return s
}

func (s *Schema) Lookup(name string) (Field, bool) {
	f, ok := s.byName[name]
	return f, ok
}

// Fields returns the fields in declaration order.
func (s *Schema) Fields() []Field {
	return s.fields
}
