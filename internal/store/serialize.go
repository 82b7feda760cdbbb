package store

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Identifier codec: documents leaving the store layer carry string ids
// everywhere (top-level _id, nested documents, arrays), and inbound filter
// ids are parsed back to ObjectIDs when the mongo backend is active. The
// memory backend already stores string ids, so both directions are no-ops
// there.

// idString canonicalizes a backend-native identifier to its string form.
func idString(v interface{}) string {
	switch id := v.(type) {
	case primitive.ObjectID:
		return id.Hex()
	case string:
		return id
	default:
		return ""
	}
}

// serializeDocument rewrites a document for callers: ObjectIDs become hex
// strings, driver-typed timestamps become time.Time, nested documents and
// arrays are rewritten recursively, everything else passes through.
func serializeDocument(doc Document) Document {
	if doc == nil {
		return nil
	}
	out := make(Document, len(doc))
	for k, v := range doc {
		out[k] = serializeValue(v)
	}
	return out
}

func serializeValue(v interface{}) interface{} {
	switch t := v.(type) {
	case primitive.ObjectID:
		return t.Hex()
	case primitive.DateTime:
		return t.Time().UTC()
	case Document:
		return serializeDocument(t)
	case map[string]interface{}:
		return serializeDocument(Document(t))
	case primitive.D:
		return serializeDocument(t.Map())
	case primitive.A:
		return serializeSlice(t)
	case []interface{}:
		return serializeSlice(t)
	default:
		return v
	}
}

func serializeSlice(vs []interface{}) []interface{} {
	out := make([]interface{}, len(vs))
	for i, v := range vs {
		out[i] = serializeValue(v)
	}
	return out
}

// TranslateFilter copies the filter and, when the backend is mongo, converts
// a string _id (or each member of an {"$in": [...]} list) to an ObjectID. A
// string that does not parse is left as-is: the query then matches nothing,
// which callers observe as not-found rather than a distinct invalid-id error.
func TranslateFilter(s Store, filter Document) Document {
	out := make(Document, len(filter))
	for k, v := range filter {
		out[k] = v
	}
	if s.InMemory() {
		return out
	}
	idVal, ok := out["_id"]
	if !ok {
		return out
	}
	switch v := idVal.(type) {
	case string:
		if oid, err := primitive.ObjectIDFromHex(v); err == nil {
			out["_id"] = oid
		}
	case Document:
		out["_id"] = translateIn(v)
	case map[string]interface{}:
		out["_id"] = translateIn(Document(v))
	}
	return out
}

func translateIn(pred Document) Document {
	ids, ok := inList(pred)
	if !ok {
		return pred
	}
	native := make([]interface{}, 0, len(ids))
	for _, s := range ids {
		if oid, err := primitive.ObjectIDFromHex(s); err == nil {
			native = append(native, oid)
		} else {
			native = append(native, s)
		}
	}
	return Document{"$in": native}
}
