package products

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Product is a schemaless JSON document. Beyond the validated fields
// (name, description, price, category, inStock) clients may attach any
// extra keys, and the store keeps them verbatim.
type Product map[string]any

func NewID() string {
	return "p_" + uuid.NewString()
}

// ID returns the document id when it is a string, otherwise "".
func (p Product) ID() string {
	s, _ := p["id"].(string)
	return s
}

// Clone deep-copies the document through a JSON round trip so callers
// can mutate the result without touching stored state.
func (p Product) Clone() Product {
	if p == nil {
		return nil
	}

	b, err := json.Marshal(p)
	if err != nil {
		return Product{}
	}

	var out Product
	if err := json.Unmarshal(b, &out); err != nil {
		return Product{}
	}
	return out
}

// categoryKey coerces a category value into a map key. Strings pass
// through untouched; anything else takes its printed form.
func categoryKey(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
