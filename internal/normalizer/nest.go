package normalizer

import (
	"paramdoc/internal/model"
)

// Nest turns a canonical flat parameter set into a tree: every nested
// parameter is attached to its parent's Fields under its leaf name, and
// parents that were never declared are synthesized as empty objects (or lists
// of objects) ahead of their first child.
//
// A body that is itself a list ("[].name") yields a tree holding only the
// root key "[]".
//
// The input is not modified; the tree holds copies.
func Nest(flat *model.Params) *model.Params {
	if flat == nil {
		return model.NewParams()
	}

	byName := make(map[string]*model.Parameter, flat.Len())
	for pair := flat.Oldest(); pair != nil; pair = pair.Next() {
		p := pair.Value.Clone()
		p.Name = pair.Key
		p.Fields = nil
		byName[pair.Key] = p
	}

	var order []string
	placed := make(map[string]bool)
	var place func(name string, segs []segment)
	place = func(name string, segs []segment) {
		if placed[name] {
			return
		}
		if key, depth, ok := parentRef(segs); ok {
			if _, exists := byName[key]; !exists {
				byName[key] = synthesizeParent(key, depth)
			}
			place(key, parsePath(key))
		}
		placed[name] = true
		order = append(order, name)
	}
	for pair := flat.Oldest(); pair != nil; pair = pair.Next() {
		place(pair.Key, parsePath(pair.Key))
	}

	tree := model.NewParams()
	for _, name := range order {
		p := byName[name]
		segs := parsePath(name)
		key, depth, ok := parentRef(segs)
		if !ok {
			tree.Set(name, p)
			continue
		}

		parent := byName[key]
		forceObject(parent, depth)
		if parent.Fields == nil {
			parent.Fields = model.NewParams()
		}
		parent.Fields.Set(leafName(segs), p)
	}

	if root, ok := tree.Get(model.RootArrayKey); ok {
		only := model.NewParams()
		only.Set(model.RootArrayKey, root)
		return only
	}
	return tree
}

// Normalize canonicalizes then nests a flat parameter set.
func Normalize(flat *model.Params) *model.Params {
	return Nest(Canonicalize(flat))
}

func synthesizeParent(name string, depth int) *model.Parameter {
	p := model.NewParameter(name, model.WithArrayDepth(model.TypeObject, depth))
	p.Example = model.ValueOf(emptyExample(depth))
	return p
}

// forceObject makes p an object with depth array levels. An inferred
// example of the old type is replaced by an empty one.
func forceObject(p *model.Parameter, depth int) {
	want := model.WithArrayDepth(model.TypeObject, depth)
	if p.Type == want {
		return
	}
	if !p.ExampleSpecified {
		p.Example = model.ValueOf(emptyExample(depth))
	}
	p.Type = want
}

func emptyExample(depth int) any {
	if depth > 0 {
		return []any{}
	}
	return model.NewObject()
}
