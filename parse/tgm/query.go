package tgm

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// =========================
// Safe Access Helpers
// =========================

// ToUntyped renders m as plain maps, slices and scalars keyed by the YAML
// field names, suitable for Get.
func ToUntyped(m *TireModel) (any, error) {
	raw, err := yaml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("render model: %w", err)
	}
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("reload model: %w", err)
	}
	return stringKeys(doc), nil
}

// stringKeys rewrites map[any]any, which yaml produces for integer keys, into
// map[string]any so the result also encodes as JSON.
func stringKeys(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, child := range t {
			t[k] = stringKeys(child)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, child := range t {
			out[fmt.Sprint(k)] = stringKeys(child)
		}
		return out
	case []any:
		for i := range t {
			t[i] = stringKeys(t[i])
		}
		return t
	default:
		return v
	}
}

// SplitPath turns "nodes.0.plies" into its segments.
func SplitPath(s string) []string {
	parts := strings.Split(s, ".")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Get walks doc along path. Map segments match keys, list segments are
// zero-based indexes.
func Get(doc any, path ...string) (any, bool) {
	cur := doc
	for _, p := range path {
		if len(p) == 0 {
			continue
		}
		switch v := cur.(type) {
		case map[string]any:
			next, ok := v[p]
			if !ok {
				return nil, false
			}
			cur = next
		case []any:
			i, err := strconv.Atoi(p)
			if err != nil || i < 0 || i >= len(v) {
				return nil, false
			}
			cur = v[i]
		default:
			return nil, false
		}
	}
	return cur, true
}
