package normalizer

import (
	"paramdoc/internal/model"
)

// Canonicalize rewrites a flat parameter set into canonical form:
//
//   - a generic "array" with plain fields ("data" + "data.name") becomes an object;
//   - trailing array levels move from the name into the type
//     ("tags.*" string -> "tags" string[]) and the example is wrapped to match;
//   - such a parameter merges into an already declared parent ("tags" array);
//   - every name uses bracket notation ("cars.*.make" -> "cars[].make").
//
// The input is not modified.
func Canonicalize(flat *model.Params) *model.Params {
	if flat == nil {
		return model.NewParams()
	}

	var all [][]segment
	for pair := flat.Oldest(); pair != nil; pair = pair.Next() {
		all = append(all, parsePath(pair.Key))
	}

	out := model.NewParams()
	derivedFrom := make(map[string]bool)
	i := 0
	for pair := flat.Oldest(); pair != nil; pair, i = pair.Next(), i+1 {
		segs := all[i]
		param := pair.Value.Clone()

		if param.Type == model.TypeArray && hasFields(segs, all) {
			param.Type = model.TypeObject
			if !param.ExampleSpecified {
				param.Example = model.ValueOf(model.NewObject())
			}
		}

		name, leafDepth := collapseLeafDepth(segs)
		param.Name = name
		if leafDepth > 0 {
			param.Type = model.WithArrayDepth(param.Type, leafDepth)
			param.Example = wrapExample(param.Example, leafDepth)
		}

		existing, ok := out.Get(name)
		switch {
		case !ok:
			out.Set(name, param)
		case leafDepth > 0 || !derivedFrom[name]:
			out.Set(name, mergeDerived(existing, param))
		default:
			// the element declaration came first; the parent arrives now
			out.Set(name, mergeDerived(param, existing))
		}
		if leafDepth > 0 {
			derivedFrom[name] = true
		}
	}
	return out
}

// hasFields reports whether any other path declares a plain field of segs.
func hasFields(segs []segment, all [][]segment) bool {
	if len(segs) == 0 {
		return false
	}
	for _, other := range all {
		if isFieldOf(other, segs) {
			return true
		}
	}
	return false
}

// collapseLeafDepth strips the array levels of the last segment from a path.
// A path that is only the root list keeps the root key.
func collapseLeafDepth(segs []segment) (string, int) {
	if len(segs) == 0 {
		return "", 0
	}
	last := segs[len(segs)-1]
	if last.depth == 0 {
		return joinPath(segs), 0
	}
	if last.name == "" {
		return model.RootArrayKey, last.depth
	}
	trimmed := append([]segment(nil), segs...)
	trimmed[len(trimmed)-1].depth = 0
	return joinPath(trimmed), last.depth
}

// wrapExample nests a present example in one list per array level.
// Missing and null examples stay as they are.
func wrapExample(ex model.Example, depth int) model.Example {
	if !ex.HasValue() {
		return ex
	}
	v := ex.Value()
	for i := 0; i < depth; i++ {
		v = []any{v}
	}
	return model.ValueOf(v)
}

// mergeDerived folds an element declaration ("tags.*") into the declaration
// of its array ("tags"). The element decides the type; the array keeps its
// own description, required flag and user-supplied example.
func mergeDerived(parent, derived *model.Parameter) *model.Parameter {
	merged := parent.Clone()
	merged.Type = derived.Type

	if merged.Description == "" {
		merged.Description = derived.Description
	}

	switch {
	case parent.ExampleSpecified:
	case !derived.Example.IsMissing():
		merged.Example = derived.Example
		merged.ExampleSpecified = derived.ExampleSpecified
	}

	if derived.Enum != nil {
		merged.Enum = derived.Enum
	}
	merged.Nullable = parent.Nullable || derived.Nullable
	return merged
}
