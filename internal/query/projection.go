package query

import (
	"github.com/goccy/go-json"
)

// Projection selects which fields of a document are returned.
// The zero value selects everything.
type Projection struct {
	set     bool
	exclude bool
	hideID  bool
	listed  []Field // fields named in the projection, _id excluded
	visible []Field
}

func (p Projection) IsZero() bool {
	return !p.set
}

// Exclusive reports whether listed fields are removed rather than kept.
func (p Projection) Exclusive() bool {
	return p.exclude
}

func (p Projection) HidesID() bool {
	return p.hideID
}

// Listed returns the non-id fields named by the projection.
func (p Projection) Listed() []Field {
	return p.listed
}

// Visible returns the fields that survive the projection, in schema order.
func (p Projection) Visible() []Field {
	return p.visible
}

// Include builds an inclusion projection over the named fields of schema.
func Include(schema *Schema, names ...string) Projection {
	listed := make(map[string]bool, len(names))
	for _, n := range names {
		listed[n] = true
	}
	p := Projection{set: true, hideID: !listed[IDField]}
	for _, f := range schema.Fields() {
		if f.Name != IDField && listed[f.Name] {
			p.listed = append(p.listed, f)
		}
		if p.keeps(f, listed) {
			p.visible = append(p.visible, f)
		}
	}
	return p
}

// ParseProjection compiles a select object of field -> 1|0|true|false.
func ParseProjection(text string, schema *Schema) (Projection, error) {
	v, err := decode(text)
	if err != nil {
		return Projection{}, err
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return Projection{}, compileErrorf("must be an object")
	}
	if len(obj) == 0 {
		return Projection{}, nil
	}

	p := Projection{set: true}
	included := map[string]bool{}
	var idFlag *bool
	var sawInclude, sawExclude bool

	for _, name := range sortedKeys(obj) {
		if _, ok := schema.Lookup(name); !ok {
			return Projection{}, compileErrorf("unknown field %q", name)
		}
		keep, err := flag(obj[name])
		if err != nil {
			return Projection{}, compileErrorf("field %q: %v", name, err)
		}
		if name == IDField {
			idFlag = &keep
			continue
		}
		included[name] = true
		if keep {
			sawInclude = true
		} else {
			sawExclude = true
		}
	}
	if sawInclude && sawExclude {
		return Projection{}, compileErrorf("cannot mix inclusion and exclusion")
	}

	switch {
	case sawExclude:
		p.exclude = true
	case sawInclude:
	default:
		// only _id was named
		p.exclude = !*idFlag
	}
	p.hideID = idFlag != nil && !*idFlag

	for _, f := range schema.Fields() {
		if included[f.Name] {
			p.listed = append(p.listed, f)
		}
		if p.keeps(f, included) {
			p.visible = append(p.visible, f)
		}
	}
	return p, nil
}

func (p Projection) keeps(f Field, listed map[string]bool) bool {
	if f.Name == IDField {
		return !p.hideID
	}
	if p.exclude {
		return !listed[f.Name]
	}
	return listed[f.Name]
}

func flag(v any) (bool, error) {
	switch t := v.(type) {
	case bool:
		return t, nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return false, err
		}
		return f != 0, nil
	case float64:
		return t != 0, nil
	}
	return false, compileErrorf("projection value must be 0, 1, true or false")
}

// Apply renders doc as a JSON object holding only the visible fields.
func (p Projection) Apply(doc any) (map[string]any, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var full map[string]any
	if err := json.Unmarshal(raw, &full); err != nil {
		return nil, err
	}
	if p.IsZero() {
		return full, nil
	}
	out := make(map[string]any, len(p.visible))
	for _, f := range p.visible {
		if v, ok := full[f.Name]; ok {
			out[f.Name] = v
		}
	}
	return out, nil
}
