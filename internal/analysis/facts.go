package analysis

import (
	"encoding/json"
	"maps"
	"slices"

	"github.com/spf13/cast"
)

// Facts is the per-artifact store of derived data: top-level namespaces
// holding JSON-shaped values (maps, slices, strings, numbers, bools).
type Facts struct {
	data map[string]any
}

// Snapshot is an independent copy of a Facts store taken before a module runs
type Snapshot map[string]any

// NewFacts returns an empty store
func NewFacts() *Facts {
	return &Facts{data: make(map[string]any)}
}

// Get returns the top-level namespace key
func (f *Facts) Get(key string) (any, bool) {
	v, ok := f.data[key]
	return v, ok
}

// Set replaces the top-level namespace key
func (f *Facts) Set(key string, v any) {
	f.data[key] = v
}

// Delete removes a top-level namespace
func (f *Facts) Delete(key string) {
	delete(f.data, key)
}

// Keys returns the top-level namespaces, sorted
func (f *Facts) Keys() []string {
	return slices.Sorted(maps.Keys(f.data))
}

// Lookup walks nested maps, e.g. Lookup("classes", "nethandler.server").
// Keys are taken literally, so a key may itself contain dots.
func (f *Facts) Lookup(keys ...string) (any, bool) {
	var cur any = f.data
	for _, k := range keys {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = m[k]; !ok {
			return nil, false
		}
	}
	return cur, true
}

// String is Lookup for string values
func (f *Facts) String(keys ...string) (string, bool) {
	v, ok := f.Lookup(keys...)
	if !ok {
		return "", false
	}
	s, err := cast.ToStringE(v)
	return s, err == nil
}

// Int is Lookup for numeric values
func (f *Facts) Int(keys ...string) (int, bool) {
	v, ok := f.Lookup(keys...)
	if !ok {
		return 0, false
	}
	n, err := cast.ToIntE(v)
	return n, err == nil
}

// Map is Lookup for nested objects
func (f *Facts) Map(keys ...string) (map[string]any, bool) {
	v, ok := f.Lookup(keys...)
	if !ok {
		return nil, false
	}
	m, ok := v.(map[string]any)
	return m, ok
}

// Ensure returns the object at keys, creating empty objects along the way.
// An existing non-object value on the path is replaced.
func (f *Facts) Ensure(keys ...string) map[string]any {
	cur := f.data
	for _, k := range keys {
		next, ok := cur[k].(map[string]any)
		if !ok {
			next = make(map[string]any)
			cur[k] = next
		}
		cur = next
	}
	return cur
}

// Snapshot deep-copies the store
func (f *Facts) Snapshot() Snapshot {
	return deepCopy(f.data).(map[string]any)
}

// Restore replaces the store's content with a snapshot. The snapshot is
// copied again, so it can be restored more than once.
func (f *Facts) Restore(s Snapshot) {
	f.data = deepCopy(map[string]any(s)).(map[string]any)
}

// Data returns the underlying map
func (f *Facts) Data() map[string]any {
	return f.data
}

// MarshalJSON encodes the store as an object with sorted keys
func (f *Facts) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.data)
}

func deepCopy(v any) any {
	switch v := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[k] = deepCopy(e)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = deepCopy(e)
		}
		return out
	case []map[string]any:
		out := make([]map[string]any, len(v))
		for i, e := range v {
			out[i] = deepCopy(e).(map[string]any)
		}
		return out
	case []string:
		return slices.Clone(v)
	case []int:
		return slices.Clone(v)
	default:
		return v
	}
}
