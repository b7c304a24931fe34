package query

import (
	"fmt"
	"sort"
	"strings"

	"github.com/goccy/go-json"
)

// Op is a field comparison operator.
type Op string

const (
	OpEq  Op = "$eq"
	OpNe  Op = "$ne"
	OpGt  Op = "$gt"
	OpGte Op = "$gte"
	OpLt  Op = "$lt"
	OpLte Op = "$lte"
	OpIn  Op = "$in"
	OpNin Op = "$nin"
)

// LogicalOp combines sub-expressions.
type LogicalOp string

const (
	OpAnd LogicalOp = "$and"
	OpOr  LogicalOp = "$or"
	OpNor LogicalOp = "$nor"
)

// Expr is a node of a compiled filter: either *Comparison or *Logical.
type Expr interface {
	expr()
}

// Comparison tests one field. Value holds the operand for scalar operators,
// Values the list for $in and $nin. Operands are already coerced to the field's kind.
type Comparison struct {
	Field  Field
	Op     Op
	Value  any
	Values []any
}

type Logical struct {
	Op    LogicalOp
	Exprs []Expr
}

func (*Comparison) expr() {}
func (*Logical) expr()    {}

// Filter is a compiled where clause. A nil Root matches every document.
type Filter struct {
	Root Expr
}

func (f Filter) IsEmpty() bool {
	return f.Root == nil
}

// Eq is shorthand for a single equality filter.
func Eq(field Field, value any) Filter {
	return Filter{Root: &Comparison{Field: field, Op: OpEq, Value: value}}
}

// In matches documents whose field equals any of values.
func In(field Field, values ...any) Filter {
	return Filter{Root: &Comparison{Field: field, Op: OpIn, Values: values}}
}

// And combines filters; empty filters are dropped.
func And(filters ...Filter) Filter {
	var parts []Expr
	for _, f := range filters {
		if f.Root != nil {
			parts = append(parts, f.Root)
		}
	}
	return Filter{Root: and(parts)}
}

// ParseFilter compiles where-clause JSON text against schema.
func ParseFilter(text string, schema *Schema) (Filter, error) {
	v, err := decode(text)
	if err != nil {
		return Filter{}, err
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return Filter{}, &compileError{"must be an object"}
	}
	root, err := compileObject(obj, schema)
	if err != nil {
		return Filter{}, err
	}
	return Filter{Root: root}, nil
}

type compileError struct {
	msg string
}

func (e *compileError) Error() string { return e.msg }

func compileErrorf(format string, args ...any) error {
	return &compileError{fmt.Sprintf(format, args...)}
}

func compileObject(obj map[string]any, schema *Schema) (Expr, error) {
	var parts []Expr
	for _, key := range sortedKeys(obj) {
		var (
			e   Expr
			err error
		)
		if strings.HasPrefix(key, "$") {
			e, err = compileLogical(LogicalOp(key), obj[key], schema)
		} else {
			e, err = compileField(key, obj[key], schema)
		}
		if err != nil {
			return nil, err
		}
		if e != nil {
			parts = append(parts, e)
		}
	}
	return and(parts), nil
}

func compileLogical(op LogicalOp, v any, schema *Schema) (Expr, error) {
	switch op {
	case OpAnd, OpOr, OpNor:
	default:
		return nil, compileErrorf("unknown operator %s", op)
	}
	items, ok := v.([]any)
	if !ok || len(items) == 0 {
		return nil, compileErrorf("%s must be a non-empty array", op)
	}
	exprs := make([]Expr, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, compileErrorf("%s entries must be objects", op)
		}
		e, err := compileObject(obj, schema)
		if err != nil {
			return nil, err
		}
		if e == nil {
			// {} matches everything
			e = &Logical{Op: OpAnd}
		}
		exprs = append(exprs, e)
	}
	return &Logical{Op: op, Exprs: exprs}, nil
}

func compileField(name string, v any, schema *Schema) (Expr, error) {
	field, ok := schema.Lookup(name)
	if !ok {
		return nil, compileErrorf("unknown field %q", name)
	}

	ops, isObj := v.(map[string]any)
	if !isObj {
		return comparison(field, OpEq, v)
	}
	if len(ops) == 0 {
		return nil, compileErrorf("field %q: empty operator object", name)
	}

	var parts []Expr
	for _, key := range sortedKeys(ops) {
		if !strings.HasPrefix(key, "$") {
			return nil, compileErrorf("field %q: nested documents are not supported", name)
		}
		e, err := comparison(field, Op(key), ops[key])
		if err != nil {
			return nil, err
		}
		parts = append(parts, e)
	}
	return and(parts), nil
}

func comparison(field Field, op Op, v any) (Expr, error) {
	switch op {
	case OpEq, OpNe:
	case OpGt, OpGte, OpLt, OpLte:
		if field.Kind == KindStringSet {
			return nil, compileErrorf("field %q does not support %s", field.Name, op)
		}
	case OpIn, OpNin:
		items, ok := v.([]any)
		if !ok {
			return nil, compileErrorf("field %q: %s needs an array", field.Name, op)
		}
		values := make([]any, 0, len(items))
		for _, item := range items {
			cv, err := coerce(field, item)
			if err != nil {
				return nil, err
			}
			values = append(values, cv)
		}
		return &Comparison{Field: field, Op: op, Values: values}, nil
	default:
		return nil, compileErrorf("unknown operator %s", op)
	}

	cv, err := coerce(field, v)
	if err != nil {
		return nil, err
	}
	return &Comparison{Field: field, Op: op, Value: cv}, nil
}

func coerce(field Field, v any) (any, error) {
	switch field.Kind {
	case KindString, KindStringSet:
		switch s := v.(type) {
		case string:
			return s, nil
		case json.Number:
			return s.String(), nil
		}
	case KindBool:
		switch b := v.(type) {
		case bool:
			return b, nil
		case string:
			// query strings often carry booleans as text
			if strings.EqualFold(b, "true") {
				return true, nil
			}
			if strings.EqualFold(b, "false") {
				return false, nil
			}
		}
	case KindTime:
		t, err := ParseTime(v)
		if err == nil {
			return t, nil
		}
	}
	return nil, compileErrorf("field %q expects a %s value", field.Name, field.Kind)
}

func and(parts []Expr) Expr {
	switch len(parts) {
	case 0:
		return nil
	case 1:
		return parts[0]
	}
	return &Logical{Op: OpAnd, Exprs: parts}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// decode parses a whole JSON document, keeping numbers as json.Number.
func decode(text string) (any, error) {
	if !json.Valid([]byte(text)) {
		return nil, errSyntax
	}
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, errSyntax
	}
	return v, nil
}

