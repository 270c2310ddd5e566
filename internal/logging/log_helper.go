package logging

import (
	"maps"
	"slices"
)

// zapFields flattens extra into key/value pairs, keys in sorted order so
// records read the same every time.
func zapFields(extra map[ExtraKey]any) []any {
	fields := make([]any, 0, len(extra)*2)
	for _, k := range slices.Sorted(maps.Keys(extra)) {
		fields = append(fields, string(k), extra[k])
	}
	return fields
}

func zeroFields(extra map[ExtraKey]any) map[string]any {
	fields := make(map[string]any, len(extra))
	for k, v := range extra {
		fields[string(k)] = v
	}
	return fields
}
