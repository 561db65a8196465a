// Package collapse reduces a normalized parameter tree to the plain example
// value a client would send.
package collapse

import (
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"

	"paramdoc/internal/model"
)

// FileRef stands in for an uploaded file in an example request.
type FileRef struct {
	Path     string `json:"path" yaml:"path"`
	Filename string `json:"filename" yaml:"filename"`
}

// NewFileRef creates a reference to the file at path.
func NewFileRef(path string) FileRef {
	return FileRef{Path: path, Filename: filepath.Base(path)}
}

// Collapse returns the example value of a parameter tree: an ordered object
// keyed by parameter name, or a list when the tree is a root array ("[]").
//
// Optional parameters without an example are left out. Collapse never
// modifies the tree, so calling it twice yields identical values.
func Collapse(tree *model.Params) any {
	if tree == nil {
		return model.NewObject()
	}
	if root, ok := tree.Get(model.RootArrayKey); ok {
		if skipped(root) {
			return []any{}
		}
		return value(root)
	}
	return object(tree, model.NewObject())
}

func skipped(p *model.Parameter) bool {
	return !p.Required && p.Example.IsMissing()
}

func object(fields *model.Params, base *model.Object) *model.Object {
	for pair := fields.Oldest(); pair != nil; pair = pair.Next() {
		if skipped(pair.Value) {
			continue
		}
		if existing, ok := base.Get(pair.Key); ok && !isEmpty(existing) {
			continue
		}
		base.Set(pair.Key, value(pair.Value))
	}
	return base
}

func value(p *model.Parameter) any {
	depth := model.ArrayDepth(p.Type)

	switch {
	case model.BaseType(p.Type) == model.TypeFile:
		return fileValue(p.Example, p.Name, depth)
	case model.IsObjectType(p.Type) && p.HasFields():
		example := p.Example.Value()
		for i := 0; i < depth; i++ {
			example = firstElement(example)
		}
		v := any(object(p.Fields, copyObject(example)))
		for i := 0; i < depth; i++ {
			v = []any{v}
		}
		return v
	default:
		return p.Example.Value()
	}
}

func fileValue(ex model.Example, name string, depth int) any {
	if ex.IsMissing() {
		var v any = dummyFile(name)
		for i := 0; i < depth; i++ {
			v = []any{v}
		}
		return v
	}
	return materialize(ex.Value())
}

func materialize(v any) any {
	switch x := v.(type) {
	case string:
		return NewFileRef(x)
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = materialize(item)
		}
		return out
	default:
		return v
	}
}

func dummyFile(name string) FileRef {
	leaf := name[strings.LastIndexAny(name, ".]")+1:]
	if leaf == "" {
		leaf = "file"
	}
	return NewFileRef(filepath.Join(os.TempDir(), leaf+".txt"))
}

func firstElement(v any) any {
	if list, ok := v.([]any); ok && len(list) > 0 {
		return list[0]
	}
	return nil
}

// copyObject starts an example object from a user-supplied value.
// Plain maps are read in key order.
func copyObject(v any) *model.Object {
	out := model.NewObject()
	switch m := v.(type) {
	case *model.Object:
		for pair := m.Oldest(); pair != nil; pair = pair.Next() {
			out.Set(pair.Key, pair.Value)
		}
	case map[string]any:
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			out.Set(k, m[k])
		}
	}
	return out
}

func isEmpty(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case *model.Object:
		return x == nil || x.Len() == 0
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map:
		return rv.Len() == 0
	}
	return false
}
