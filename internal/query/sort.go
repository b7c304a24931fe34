package query

import (
	"strings"

	"github.com/goccy/go-json"
)

type Direction int

const (
	Ascending  Direction = 1
	Descending Direction = -1
)

type SortKey struct {
	Field     Field
	Direction Direction
}

// Sort is an ordered list of sort keys; earlier keys take precedence.
type Sort []SortKey

// ParseSort compiles a sort object, keeping the key order of the text.
func ParseSort(text string, schema *Schema) (Sort, error) {
	if !json.Valid([]byte(text)) {
		return nil, errSyntax
	}
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, errSyntax
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, compileErrorf("must be an object")
	}

	var keys Sort
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, errSyntax
		}
		name, _ := tok.(string)
		field, ok := schema.Lookup(name)
		if !ok {
			return nil, compileErrorf("unknown field %q", name)
		}

		var raw any
		if err := dec.Decode(&raw); err != nil {
			return nil, errSyntax
		}
		dir, err := direction(raw)
		if err != nil {
			return nil, compileErrorf("field %q: %v", name, err)
		}
		keys = append(keys, SortKey{Field: field, Direction: dir})
	}
	return keys, nil
}

func direction(v any) (Direction, error) {
	switch t := v.(type) {
	case json.Number:
		switch t.String() {
		case "1":
			return Ascending, nil
		case "-1":
			return Descending, nil
		}
	case float64:
		switch t {
		case 1:
			return Ascending, nil
		case -1:
			return Descending, nil
		}
	case string:
		switch strings.ToLower(t) {
		case "asc", "ascending":
			return Ascending, nil
		case "desc", "descending":
			return Descending, nil
		}
	}
	return 0, compileErrorf("sort direction must be 1, -1, \"asc\" or \"desc\"")
}
