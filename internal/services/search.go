package services

import "strings"

// SearchActive reports whether query would filter anything.
func SearchActive(query string) bool {
	return strings.TrimSpace(query) != ""
}

// FilterByName keeps the items whose name fields contain query, ignoring case.
// Order and any previously assigned rank are preserved. A blank query returns
// items unchanged.
func FilterByName[T any](items []T, query string, fields func(T) []string) []T {
	if !SearchActive(query) {
		return items
	}
	needle := strings.ToLower(strings.TrimSpace(query))
	out := make([]T, 0, len(items))
	for _, it := range items {
		for _, f := range fields(it) {
			if strings.Contains(strings.ToLower(f), needle) {
				out = append(out, it)
				break
			}
		}
	}
	return out
}
