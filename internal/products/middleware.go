package products

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"ProductAPI/pkg/kit"
)

const maxBodyBytes = 1 << 20

type ctxKey string

const bodyKey ctxKey = "body"

// BodyFromContext returns the parsed request document. Requests without
// a JSON body carry an empty document.
func BodyFromContext(ctx context.Context) Product {
	if doc, ok := ctx.Value(bodyKey).(Product); ok {
		return doc
	}
	return Product{}
}

// ParseBody decodes a JSON request body into a document before any
// other stage runs. Decode failures panic so the terminal error stage
// answers them, mirroring how every other internal fault is reported.
func ParseBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		doc := Product{}

		ct := r.Header.Get("Content-Type")
		if strings.HasPrefix(ct, "application/json") {
			data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
			if err != nil {
				panic(err)
			}

			if len(data) > 0 {
				var v any
				if err := json.Unmarshal(data, &v); err != nil {
					panic(err)
				}

				switch body := v.(type) {
				case map[string]any:
					doc = Product(body)
				case []any:
					// Arrays parse fine but carry no fields, so
					// downstream validation rejects them.
				default:
					panic("request body must be a JSON object")
				}
			}
		}

		ctx := context.WithValue(r.Context(), bodyKey, doc)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// APIKeyAuth rejects any request whose x-api-key header does not match
// the configured key.
func APIKeyAuth(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get("x-api-key")
			if subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
				kit.WriteError(w, http.StatusUnauthorized, msgInvalidAPIKey)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireProductFields guards create and replace. name, description and
// category must be truthy; price and inStock only have to be present,
// so 0 and false pass. Presence is checked for all five before types.
func RequireProductFields(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := BodyFromContext(r.Context())

		_, hasPrice := body["price"]
		_, hasInStock := body["inStock"]
		if !truthy(body["name"]) || !truthy(body["description"]) || !truthy(body["category"]) ||
			!hasPrice || !hasInStock {
			kit.WriteError(w, http.StatusBadRequest, msgFieldsRequired)
			return
		}

		_, priceOK := body["price"].(float64)
		_, inStockOK := body["inStock"].(bool)
		if !priceOK || !inStockOK {
			kit.WriteError(w, http.StatusBadRequest, msgInvalidTypes)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// truthy treats nil, false, zero and the empty string as absent.
// Objects and arrays always count.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0
	default:
		return true
	}
}
