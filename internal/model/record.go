// Package model holds the shapes mkt reads from the marketplace backend.
//
// Backend records are opaque: mkt keeps the raw JSON and only looks inside
// for display fields and image paths.
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// ImageFields are the record fields that may carry a media path.
// String fields are resolved directly; array fields have each string element resolved.
var ImageFields = []string{"image", "imageUrl", "image_url", "thumbnail", "logo", "avatar", "banner", "images"}

// listKeys are the envelope keys checked, in order, for a record array.
var listKeys = []string{"data", "items", "results", "data.items", "data.results"}

// Record is a single backend object (product, order, customer, ...).
type Record struct {
	raw json.RawMessage
}

// NewRecord wraps raw JSON.
func NewRecord(raw []byte) Record {
	return Record{raw: json.RawMessage(raw)}
}

// Raw returns the record's JSON.
func (r Record) Raw() json.RawMessage {
	return r.raw
}

// Get returns the value at a gjson path.
func (r Record) Get(path string) gjson.Result {
	return gjson.GetBytes(r.raw, path)
}

// ID returns the record identifier as a string.
func (r Record) ID() string {
	return r.first("id", "_id", "uuid")
}

// Title returns the best human-readable label for the record.
func (r Record) Title() string {
	return r.first("name", "title", "label", "orderNumber", "order_number", "email")
}

// Status returns the record's status field, if any.
func (r Record) Status() string {
	return r.first("status", "state")
}

// ImagePath returns the first media path found on the record.
func (r Record) ImagePath() string {
	for _, f := range ImageFields {
		v := r.Get(f)
		if v.IsArray() {
			if arr := v.Array(); len(arr) > 0 && arr[0].Type == gjson.String {
				return arr[0].String()
			}
			continue
		}
		if v.Type == gjson.String && v.String() != "" {
			return v.String()
		}
	}
	return ""
}

func (r Record) first(paths ...string) string {
	for _, p := range paths {
		if v := r.Get(p); v.Exists() && v.Type != gjson.Null {
			if s := v.String(); s != "" {
				return s
			}
		}
	}
	return ""
}

// MapImages returns a copy of r with every top-level image field passed through fn.
// Records that are not JSON objects are returned unchanged.
func (r Record) MapImages(fn func(string) string) (Record, error) {
	if !gjson.ParseBytes(r.raw).IsObject() {
		return r, nil
	}

	dec := json.NewDecoder(bytes.NewReader(r.raw))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return r, fmt.Errorf("failed to decode record: %w", err)
	}

	changed := false
	for _, f := range ImageFields {
		switch v := obj[f].(type) {
		case string:
			if nv := fn(v); nv != v {
				obj[f] = nv
				changed = true
			}
		case []any:
			for i, el := range v {
				if s, ok := el.(string); ok {
					if ns := fn(s); ns != s {
						v[i] = ns
						changed = true
					}
				}
			}
		}
	}
	if !changed {
		return r, nil
	}

	data, err := json.Marshal(obj)
	if err != nil {
		return r, fmt.Errorf("failed to encode record: %w", err)
	}
	return NewRecord(data), nil
}

// ParseRecords extracts a record list from a response body. The body may be a
// bare array or an object holding the array under data, items, results, or
// the resource name itself.
func ParseRecords(body []byte, resource string) ([]Record, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("invalid JSON in %s response", resource)
	}

	root := gjson.ParseBytes(body)
	list := root
	if !root.IsArray() {
		list = gjson.Result{}
		keys := append([]string{resource, "data." + strings.ReplaceAll(resource, ".", `\.`)}, listKeys...)
		for _, k := range keys {
			if v := root.Get(k); v.IsArray() {
				list = v
				break
			}
		}
		if !list.IsArray() {
			return nil, fmt.Errorf("unexpected %s response: no record list found", resource)
		}
	}

	arr := list.Array()
	records := make([]Record, 0, len(arr))
	for _, v := range arr {
		records = append(records, NewRecord([]byte(v.Raw)))
	}
	return records, nil
}

// ParseRecord extracts a single object from a response body, unwrapping a
// {"data": {...}} envelope when present.
func ParseRecord(body []byte, resource string) (Record, error) {
	if !gjson.ValidBytes(body) {
		return Record{}, fmt.Errorf("invalid JSON in %s response", resource)
	}
	root := gjson.ParseBytes(body)
	if d := root.Get("data"); d.IsObject() {
		return NewRecord([]byte(d.Raw)), nil
	}
	if !root.IsObject() {
		return Record{}, fmt.Errorf("unexpected %s response: not an object", resource)
	}
	return NewRecord(body), nil
}
