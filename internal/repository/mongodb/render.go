package mongodb

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"taskapi/internal/query"
)

// filterDoc renders a compiled filter as a MongoDB query document. Field names
// are the public names, which are also the stored BSON keys.
func filterDoc(f query.Filter) bson.D {
	if f.IsEmpty() {
		return bson.D{}
	}
	return exprDoc(f.Root)
}

func exprDoc(e query.Expr) bson.D {
	switch n := e.(type) {
	case *query.Comparison:
		operand := n.Value
		if n.Op == query.OpIn || n.Op == query.OpNin {
			operand = bson.A(n.Values)
		}
		return bson.D{{Key: n.Field.Name, Value: bson.D{{Key: string(n.Op), Value: operand}}}}
	case *query.Logical:
		if len(n.Exprs) == 0 {
			if n.Op == query.OpOr {
				// matches nothing
				return bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: bson.A{}}}}}
			}
			return bson.D{}
		}
		subs := make(bson.A, 0, len(n.Exprs))
		for _, sub := range n.Exprs {
			subs = append(subs, exprDoc(sub))
		}
		return bson.D{{Key: string(n.Op), Value: subs}}
	}
	panic(fmt.Sprintf("mongodb: unexpected filter node %T", e))
}

func sortDoc(s query.Sort) bson.D {
	doc := make(bson.D, 0, len(s))
	for _, key := range s {
		doc = append(doc, bson.E{Key: key.Field.Name, Value: int(key.Direction)})
	}
	return doc
}

// projectionDoc keeps the visible fields plus _id; hiding _id is left to
// Projection.Apply so documents can still be identified.
func projectionDoc(p query.Projection) bson.D {
	doc := bson.D{{Key: query.IDField, Value: 1}}
	for _, f := range p.Visible() {
		if f.Name != query.IDField {
			doc = append(doc, bson.E{Key: f.Name, Value: 1})
		}
	}
	return doc
}

// setDoc validates field names against schema and builds a $set update.
func setDoc(schema *query.Schema, set map[string]any) (bson.D, error) {
	fields := make(bson.D, 0, len(set))
	for _, f := range schema.Fields() {
		if v, ok := set[f.Name]; ok {
			fields = append(fields, bson.E{Key: f.Name, Value: v})
		}
	}
	if len(fields) != len(set) {
		return nil, fmt.Errorf("mongodb: unknown field in update %v", set)
	}
	return bson.D{{Key: "$set", Value: fields}}, nil
}

func byID(id string) bson.D {
	return bson.D{{Key: query.IDField, Value: id}}
}
