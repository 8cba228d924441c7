// Package thingtype derives a scheme name for an uploaded Thing Description
// when the generation backend cannot classify it.
package thingtype

import (
	"fmt"
	"strings"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
)

// Unknown is used when an id is present but yields no usable name.
const Unknown = "unknown"

var idPath = jp.MustParseString("$.id")

// ParseDocument parses the raw text of an uploaded document. The root must be
// a JSON object.
func ParseDocument(text string) (map[string]any, error) {
	v, err := oj.ParseString(text)
	if err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	doc, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("document root must be an object, got %T", v)
	}
	return doc, nil
}

// InferType reads the document id and derives a scheme name from it.
// ok is false when the document has no string id.
func InferType(doc any) (string, bool) {
	for _, v := range idPath.Get(doc) {
		id, isString := v.(string)
		if !isString {
			return "", false
		}
		return InferFromID(id), true
	}
	return "", false
}

// InferFromID takes the last ':' segment of id and strips its trailing
// digits, e.g. "acg:home:blind13" -> "blind".
func InferFromID(id string) string {
	parts := strings.Split(id, ":")
	last := parts[len(parts)-1]
	name := strings.TrimRight(last, "0123456789")
	if name == "" {
		return Unknown
	}
	return name
}
