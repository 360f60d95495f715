package config

import (
	"maps"
	"slices"
	"strings"
)

// Flatten turns nested JSON objects into dot-separated keys:
// {"flight": {"policy": "queue"}} becomes {"flight.policy": "queue"}.
// Empty objects produce no keys.
func Flatten(m map[string]any) map[string]any {
	out := make(map[string]any)
	for k, v := range m {
		flattenInto(out, k, v)
	}
	return out
}

func flattenInto(out map[string]any, key string, v any) {
	nested, ok := v.(map[string]any)
	if !ok {
		out[key] = v
		return
	}
	for k, child := range nested {
		flattenInto(out, key+"."+k, child)
	}
}

// Unflatten is the inverse of Flatten. A scalar in the way of a deeper key
// is replaced by an object.
func Unflatten(flat map[string]any) map[string]any {
	root := make(map[string]any)
	for key, v := range flat {
		path := strings.Split(key, ".")
		parent := root
		for _, name := range path[:len(path)-1] {
			child, ok := parent[name].(map[string]any)
			if !ok {
				child = make(map[string]any)
				parent[name] = child
			}
			parent = child
		}
		parent[path[len(path)-1]] = v
	}
	return root
}

// SortedKeys returns the keys of a flattened config in display order.
func SortedKeys(flat map[string]any) []string {
	return slices.Sorted(maps.Keys(flat))
}
