package normalizer

import (
	"strings"

	"paramdoc/internal/model"
)

// segment is one field access in a parameter path. depth counts the array
// levels applied to the field: "cars.*" and "cars[]" are {cars 1}.
// The unnamed root of a body that is itself a list has name "".
type segment struct {
	name  string
	depth int
}

// parsePath reads dot-star ("a.*.b"), bracket ("a[].b") and plain dot
// ("a.b") notation, in any mix. Empty names between dots are skipped.
func parsePath(name string) []segment {
	var segs []segment
	for _, token := range strings.Split(name, ".") {
		base, depth := token, 0
		if base == "*" {
			base, depth = "", 1
		}
		for strings.HasSuffix(base, "[]") {
			base = strings.TrimSuffix(base, "[]")
			depth++
		}

		if base == "" {
			// stray dots ("a..b", ".foo") carry no field
			if depth == 0 {
				continue
			}
			if len(segs) == 0 {
				segs = append(segs, segment{name: "", depth: depth})
			} else {
				segs[len(segs)-1].depth += depth
			}
			continue
		}
		segs = append(segs, segment{name: base, depth: depth})
	}
	return segs
}

// joinPath renders segments in canonical bracket notation.
func joinPath(segs []segment) string {
	parts := make([]string, len(segs))
	for i, s := range segs {
		parts[i] = s.name + strings.Repeat("[]", s.depth)
	}
	return strings.Join(parts, ".")
}

// canonicalName rewrites any notation into bracket notation: "a.*.b" -> "a[].b".
func canonicalName(name string) string {
	return joinPath(parsePath(name))
}

// parentRef locates the direct parent of a nested path: the parent's key and
// how many array levels separate the parent from its fields.
// ok is false for top-level paths.
func parentRef(segs []segment) (key string, depth int, ok bool) {
	if len(segs) < 2 {
		return "", 0, false
	}
	owner := segs[len(segs)-2]
	if owner.name == "" && owner.depth > 0 && len(segs) == 2 {
		return model.RootArrayKey, owner.depth, true
	}
	prefix := append([]segment(nil), segs[:len(segs)-2]...)
	prefix = append(prefix, segment{name: owner.name})
	return joinPath(prefix), owner.depth, true
}

func leafName(segs []segment) string {
	if len(segs) == 0 {
		return ""
	}
	return segs[len(segs)-1].name
}

// isFieldOf reports whether child is a plain field ("a.b") directly or
// indirectly below parent ("a").
func isFieldOf(child, parent []segment) bool {
	if len(child) <= len(parent) {
		return false
	}
	for i := range parent {
		if child[i] != parent[i] {
			return false
		}
	}
	return true
}
