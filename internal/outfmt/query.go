package outfmt

import (
	"context"
	"reflect"

	"github.com/chirpkit/chirp/internal/filter"
)

type queryKey struct{}

// WithQuery adds a jq query to the context
func WithQuery(ctx context.Context, query string) context.Context {
	return context.WithValue(ctx, queryKey{}, query)
}

// GetQuery retrieves the jq query from context
func GetQuery(ctx context.Context) string {
	if q, ok := ctx.Value(queryKey{}).(string); ok {
		return q
	}
	return ""
}

// ApplyQuery converts v to its JSON shape and applies query. An empty query
// still converts, so templates and JSONL see wire field names.
func ApplyQuery(v any, query string) (any, error) {
	if query == "" {
		query = "."
	}
	return filter.Value(emptyIfNil(v), query)
}

// emptyIfNil turns nil slices into empty ones so they render as [] rather
// than null.
func emptyIfNil(v any) any {
	if v == nil {
		return v
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice && rv.IsNil() {
		return []any{}
	}
	return v
}
