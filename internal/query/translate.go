// Package query turns textual list parameters (where, sort, select, skip, limit,
// count) into a validated read specification shared by every collection.
package query

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
)

const (
	ParamWhere  = "where"
	ParamSort   = "sort"
	ParamSelect = "select"
	ParamFilter = "filter" // legacy alias of select
	ParamSkip   = "skip"
	ParamLimit  = "limit"
	ParamCount  = "count"
)

var errSyntax = errors.New("malformed JSON")

// ParamError reports the first query parameter that could not be translated.
type ParamError struct {
	Param string
	Err   error
}

func (e *ParamError) Error() string {
	if errors.Is(e.Err, errSyntax) {
		return "Invalid JSON for " + e.Param
	}
	return fmt.Sprintf("Invalid %s: %v", e.Param, e.Err)
}

func (e *ParamError) Unwrap() error { return e.Err }

// Spec is the normalized read specification handed to a store.
type Spec struct {
	Filter     Filter
	Sort       Sort
	Projection Projection
	Skip       int
	Limit      int // 0 means unlimited
	Count      bool
}

type Options struct {
	// DefaultLimit applies when the request carries no limit. 0 means unlimited.
	DefaultLimit int
}

// Translate parses list parameters in a fixed order and stops at the first bad one.
func Translate(values url.Values, schema *Schema, opts Options) (Spec, error) {
	spec := Spec{Limit: opts.DefaultLimit}

	if raw, ok := lookup(values, ParamWhere); ok {
		f, err := ParseFilter(raw, schema)
		if err != nil {
			return Spec{}, &ParamError{Param: ParamWhere, Err: err}
		}
		spec.Filter = f
	}

	if raw, ok := lookup(values, ParamSort); ok {
		s, err := ParseSort(raw, schema)
		if err != nil {
			return Spec{}, &ParamError{Param: ParamSort, Err: err}
		}
		spec.Sort = s
	}

	p, err := TranslateProjection(values, schema)
	if err != nil {
		return Spec{}, err
	}
	spec.Projection = p

	if raw, ok := lookup(values, ParamSkip); ok {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return Spec{}, &ParamError{Param: ParamSkip, Err: errors.New("must be a non-negative integer")}
		}
		spec.Skip = n
	}

	if raw, ok := lookup(values, ParamLimit); ok {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return Spec{}, &ParamError{Param: ParamLimit, Err: errors.New("must be a non-negative integer")}
		}
		spec.Limit = n
	}

	spec.Count = values.Get(ParamCount) == "true"
	return spec, nil
}

// TranslateProjection reads select, falling back to the legacy filter parameter.
func TranslateProjection(values url.Values, schema *Schema) (Projection, error) {
	raw, ok := lookup(values, ParamSelect)
	if !ok {
		raw, ok = lookup(values, ParamFilter)
	}
	if !ok {
		return Projection{}, nil
	}
	p, err := ParseProjection(raw, schema)
	if err != nil {
		return Projection{}, &ParamError{Param: ParamSelect, Err: err}
	}
	return p, nil
}

func lookup(values url.Values, key string) (string, bool) {
	if !values.Has(key) {
		return "", false
	}
	return values.Get(key), true
}
