package repository

import (
	"fmt"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"taskapi/internal/query"
)

var sqlOps = map[query.Op]string{
	query.OpEq:  "=",
	query.OpNe:  "<>",
	query.OpGt:  ">",
	query.OpGte: ">=",
	query.OpLt:  "<",
	query.OpLte: "<=",
}

// whereClause renders a compiled filter as a SQL condition with ? placeholders.
func whereClause(e query.Expr) (string, []any) {
	switch n := e.(type) {
	case nil:
		return "TRUE", nil
	case *query.Comparison:
		return comparisonClause(n)
	case *query.Logical:
		if len(n.Exprs) == 0 {
			if n.Op == query.OpAnd || n.Op == query.OpNor {
				return "TRUE", nil
			}
			return "FALSE", nil
		}
		parts := make([]string, 0, len(n.Exprs))
		var args []any
		for _, sub := range n.Exprs {
			sql, subArgs := whereClause(sub)
			parts = append(parts, "("+sql+")")
			args = append(args, subArgs...)
		}
		switch n.Op {
		case query.OpOr:
			return strings.Join(parts, " OR "), args
		case query.OpNor:
			return "NOT (" + strings.Join(parts, " OR ") + ")", args
		default:
			return strings.Join(parts, " AND "), args
		}
	}
	panic(fmt.Sprintf("repository: unexpected filter node %T", e))
}

func comparisonClause(c *query.Comparison) (string, []any) {
	col := c.Field.Column

	if c.Field.Kind == query.KindStringSet {
		switch c.Op {
		case query.OpEq:
			return "? = ANY(" + col + ")", []any{c.Value}
		case query.OpNe:
			return "NOT (? = ANY(" + col + "))", []any{c.Value}
		case query.OpIn:
			return col + " && ?", []any{stringArray(c.Values)}
		case query.OpNin:
			return "NOT (" + col + " && ?)", []any{stringArray(c.Values)}
		}
		panic("repository: unsupported operator on list field " + string(c.Op))
	}

	switch c.Op {
	case query.OpIn:
		if len(c.Values) == 0 {
			return "FALSE", nil
		}
		return col + " IN ?", []any{c.Values}
	case query.OpNin:
		if len(c.Values) == 0 {
			return "TRUE", nil
		}
		return col + " NOT IN ?", []any{c.Values}
	}
	return col + " " + sqlOps[c.Op] + " ?", []any{c.Value}
}

func stringArray(values []any) pq.StringArray {
	out := make(pq.StringArray, 0, len(values))
	for _, v := range values {
		out = append(out, v.(string))
	}
	return out
}

// applyFilter adds the filter's condition to db; an empty filter leaves it untouched.
func applyFilter(db *gorm.DB, f query.Filter) *gorm.DB {
	if f.IsEmpty() {
		return db
	}
	sql, args := whereClause(f.Root)
	return db.Where(sql, args...)
}

func applySort(db *gorm.DB, s query.Sort) *gorm.DB {
	for _, key := range s {
		dir := "ASC"
		if key.Direction == query.Descending {
			dir = "DESC"
		}
		db = db.Order(key.Field.Column + " " + dir)
	}
	return db
}

// applyProjection restricts the selected columns. The id column is always read
// so rows can be matched back to documents; Projection.Apply hides it later.
func applyProjection(db *gorm.DB, p query.Projection) *gorm.DB {
	if p.IsZero() {
		return db
	}
	cols := []string{"id"}
	for _, f := range p.Visible() {
		if f.Name != query.IDField {
			cols = append(cols, f.Column)
		}
	}
	return db.Select(cols)
}

func applyPage(db *gorm.DB, skip, limit int) *gorm.DB {
	if skip > 0 {
		db = db.Offset(skip)
	}
	if limit > 0 {
		db = db.Limit(limit)
	}
	return db
}

// columns maps public field names to column names for bulk updates.
func columns(schema *query.Schema, set map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(set))
	for name, v := range set {
		f, ok := schema.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("repository: unknown field %q", name)
		}
		out[f.Column] = v
	}
	return out, nil
}
