package resolver

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/spf13/cast"

	"paramdoc/internal/model"
)

// CastExample converts value to the Go representation of a parameter type.
// On failure the caller keeps the raw value.
func CastExample(value any, typ string) (any, error) {
	if value == nil {
		return nil, nil
	}

	if model.IsArrayType(typ) {
		return castList(value, strings.TrimSuffix(typ, "[]"))
	}

	switch typ {
	case model.TypeInteger:
		return cast.ToIntE(value)
	case model.TypeNumber:
		return cast.ToFloat64E(value)
	case model.TypeBoolean:
		return cast.ToBoolE(value)
	case model.TypeString:
		return cast.ToStringE(value)
	case model.TypeObject:
		return castObject(value)
	default:
		return value, nil
	}
}

func castList(value any, itemType string) (any, error) {
	if s, ok := value.(string); ok {
		var decoded []any
		if err := json.Unmarshal([]byte(s), &decoded); err != nil {
			return nil, fmt.Errorf("%q is not a JSON list: %w", s, err)
		}
		value = decoded
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("cannot cast %T to %s[]", value, itemType)
	}

	out := make([]any, rv.Len())
	for i := range out {
		item := rv.Index(i).Interface()
		casted, err := CastExample(item, itemType)
		if err != nil {
			casted = item
		}
		out[i] = casted
	}
	return out, nil
}

func castObject(value any) (any, error) {
	switch v := value.(type) {
	case *model.Object, map[string]any:
		return v, nil
	case string:
		obj := model.NewObject()
		if err := obj.UnmarshalJSON([]byte(v)); err != nil {
			return nil, fmt.Errorf("%q is not a JSON object: %w", v, err)
		}
		return obj, nil
	default:
		return nil, fmt.Errorf("cannot cast %T to object", value)
	}
}
