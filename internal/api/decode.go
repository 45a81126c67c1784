package api

import (
	"bytes"
	"errors"
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
	"github.com/tidwall/gjson"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var validate = validator.New(validator.WithRequiredStructEnabled())

func (r *result) fail(err error) error {
	return deserializationError(r.method, r.path, err)
}

func (r *result) decode(body []byte, out any) error {
	if err := json.Unmarshal(body, out); err != nil {
		return r.fail(fmt.Errorf("JSON decode failed: %w", err))
	}
	return nil
}

// check enforces `validate` tags on decoded structs; other values pass.
func (r *result) check(v any) error {
	rv := reflect.Indirect(reflect.ValueOf(v))
	if rv.Kind() != reflect.Struct {
		return nil
	}
	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return r.fail(fmt.Errorf("field %s failed %q check", verrs[0].Namespace(), verrs[0].Tag()))
		}
		return r.fail(err)
	}
	return nil
}

func (r *result) root() (gjson.Result, error) {
	body := bytes.TrimSpace(r.resp.Body)
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, r.fail(errors.New("body is not valid JSON"))
	}
	return gjson.ParseBytes(body), nil
}

// one maps a single-object body.
func one[T any](r *result, err error) (*T, error) {
	if err != nil {
		return nil, err
	}
	var v T
	if err := r.decode(r.resp.Body, &v); err != nil {
		return nil, err
	}
	if err := r.check(&v); err != nil {
		return nil, err
	}
	return &v, nil
}

// list maps a top-level array body.
func list[T any](r *result, err error) ([]T, error) {
	if err != nil {
		return nil, err
	}
	return decodeItems[T](r, r.resp.Body)
}

func decodeItems[T any](r *result, raw []byte) ([]T, error) {
	items := []T{}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, r.fail(errors.New("empty body where a list was expected"))
	}
	if err := r.decode(raw, &items); err != nil {
		return nil, err
	}
	for i := range items {
		if err := r.check(&items[i]); err != nil {
			return nil, err
		}
	}
	return items, nil
}

// field extracts one member of an envelope object.
func field[T any](r *result, name string) (*T, error) {
	root, err := r.root()
	if err != nil {
		return nil, err
	}
	sub := root.Get(name)
	if !sub.Exists() {
		return nil, r.fail(fmt.Errorf("missing field %q", name))
	}
	var v T
	if err := r.decode([]byte(sub.Raw), &v); err != nil {
		return nil, err
	}
	if err := r.check(&v); err != nil {
		return nil, err
	}
	return &v, nil
}

// fieldList extracts an array member of an envelope object.
func fieldList[T any](r *result, name string) ([]T, error) {
	root, err := r.root()
	if err != nil {
		return nil, err
	}
	sub := root.Get(name)
	if !sub.IsArray() {
		return nil, r.fail(fmt.Errorf("missing array %q", name))
	}
	return decodeItems[T](r, []byte(sub.Raw))
}

// CursorPage is one page of a cursor-paginated list. A zero NextCursor marks the last page.
type CursorPage[T any] struct {
	Items          []T   `json:"items"`
	PreviousCursor int64 `json:"previous_cursor"`
	NextCursor     int64 `json:"next_cursor"`
}

func (p *CursorPage[T]) HasNext() bool {
	return p.NextCursor != 0
}

func (p *CursorPage[T]) HasPrevious() bool {
	return p.PreviousCursor != 0
}

func cursor[T any](r *result, name string) (*CursorPage[T], error) {
	root, err := r.root()
	if err != nil {
		return nil, err
	}
	items, err := fieldList[T](r, name)
	if err != nil {
		return nil, err
	}
	return &CursorPage[T]{
		Items:          items,
		PreviousCursor: root.Get("previous_cursor").Int(),
		NextCursor:     root.Get("next_cursor").Int(),
	}, nil
}

// IDs is a list of numeric ids, optionally cursor paginated.
type IDs struct {
	IDs            []int64 `json:"ids"`
	PreviousCursor int64   `json:"previous_cursor,omitempty"`
	NextCursor     int64   `json:"next_cursor,omitempty"`
}

func (i *IDs) HasNext() bool {
	return i.NextCursor != 0
}

// ids accepts a bare array or an {"ids": [...]} envelope with cursors.
func ids(r *result, err error) (*IDs, error) {
	if err != nil {
		return nil, err
	}
	root, err := r.root()
	if err != nil {
		return nil, err
	}
	if root.IsArray() {
		out := &IDs{IDs: []int64{}}
		if err := r.decode([]byte(root.Raw), &out.IDs); err != nil {
			return nil, err
		}
		return out, nil
	}
	if !root.Get("ids").IsArray() {
		return nil, r.fail(errors.New(`missing array "ids"`))
	}
	out := &IDs{IDs: []int64{}}
	if err := r.decode([]byte(root.Get("ids").Raw), &out.IDs); err != nil {
		return nil, err
	}
	out.PreviousCursor = root.Get("previous_cursor").Int()
	out.NextCursor = root.Get("next_cursor").Int()
	return out, nil
}

// literal reports whether the body, read as a JSON scalar or raw text, equals want.
func literal(r *result, err error, want string) (bool, error) {
	if err != nil {
		return false, err
	}
	body := bytes.TrimSpace(r.resp.Body)
	if gjson.ValidBytes(body) {
		v := gjson.ParseBytes(body)
		switch v.Type {
		case gjson.True, gjson.False, gjson.String:
			return v.String() == want, nil
		}
	}
	return bytes.Contains(body, []byte(want)), nil
}
