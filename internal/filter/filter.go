// Package filter runs jq expressions (via gojq) over command output.
package filter

import (
	"fmt"
	"strings"

	"github.com/itchyny/gojq"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// envelopeKeys are the array-valued fields a cursor or search page wraps
// its items in. A root-array query that fails on the envelope is retried
// against the first one present.
var envelopeKeys = []string{"users", "lists", "ids", "results", "statuses", "items"}

// NormalizeExpression fixes shell-escaped operators in jq expressions.
// Zsh escapes ! to \! even in single quotes, breaking operators like !=.
func NormalizeExpression(expr string) string {
	return strings.ReplaceAll(expr, `\!`, `!`)
}

// Apply applies a jq filter expression to the input data.
func Apply(data any, expression string) (any, error) {
	if expression == "" {
		return data, nil
	}

	expression = NormalizeExpression(expression)
	query, err := gojq.Parse(expression)
	if err != nil {
		return nil, fmt.Errorf("invalid filter expression: %w", err)
	}

	results, err := runQuery(query, data)
	if err != nil {
		if items, ok := envelopeFallback(data, expression); ok {
			if retry, retryErr := runQuery(query, items); retryErr == nil {
				results, err = retry, nil
			}
		}
	}
	if err != nil {
		return nil, err
	}

	if len(results) == 1 {
		return results[0], nil
	}
	return results, nil
}

func runQuery(query *gojq.Query, data any) ([]any, error) {
	iter := query.Run(data)

	var results []any
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, ok := v.(error); ok {
			return nil, fmt.Errorf("filter error: %w", err)
		}
		results = append(results, v)
	}
	return results, nil
}

func envelopeFallback(data any, expression string) (any, bool) {
	if !looksLikeRootArrayQuery(expression) {
		return nil, false
	}

	m, ok := data.(map[string]any)
	if !ok {
		return nil, false
	}
	for _, key := range envelopeKeys {
		if items, ok := m[key].([]any); ok {
			return items, true
		}
	}
	return nil, false
}

func looksLikeRootArrayQuery(expression string) bool {
	expr := strings.TrimSpace(expression)
	return strings.HasPrefix(expr, ".[]") || strings.HasPrefix(expr, "[.[]") || strings.HasPrefix(expr, "(.[]")
}

// FromJSON applies a jq filter to JSON bytes and returns the result as a Go value.
func FromJSON(data []byte, expression string) (any, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return Apply(v, expression)
}

// ToJSON applies a filter to JSON bytes and returns pretty-printed JSON.
func ToJSON(data []byte, expression string) ([]byte, error) {
	if expression == "" {
		return data, nil
	}
	result, err := FromJSON(data, expression)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(result, "", "  ")
}

// Value round-trips v through JSON so struct values can be queried by their
// wire field names, then applies expression.
func Value(v any, expression string) (any, error) {
	if expression == "" {
		return v, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode for filter: %w", err)
	}
	return FromJSON(raw, expression)
}
