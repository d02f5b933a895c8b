package modules

import (
	"encoding/json"
	"fmt"

	"quickpy/value"
)

// NewJSONModule builds the json module, grounded on builtins/json.rs:
// loads/dumps round-tripping quickpy Values through Go's encoding/json. No
// pack repo carries a third-party JSON library with broader adoption than
// the standard library's encoding/json, and no example module wraps JSON
// serialization in anything else; encoding/json is the idiomatic choice
// here and is used directly, unwrapped by any third-party shim.
func NewJSONModule() *value.Module {
	m := &value.Module{Name: "json", Attrs: map[string]value.Value{}}
	m.Set("loads", value.NewNativeFunction("loads", jsonLoads))
	m.Set("dumps", value.NewNativeFunction("dumps", jsonDumps))
	return m
}

func jsonLoads(args []value.Value) (value.Value, *value.Error) {
	s, err := requireString(args, 0, "s")
	if err != nil {
		return value.Value{}, err
	}
	var decoded any
	if jsonErr := json.Unmarshal([]byte(s), &decoded); jsonErr != nil {
		return value.Value{}, value.NewError(value.ValueError, "Invalid JSON: %v", jsonErr)
	}
	return anyToValue(decoded)
}

func jsonDumps(args []value.Value) (value.Value, *value.Error) {
	if len(args) == 0 {
		return value.Value{}, typeErrorf("dumps() missing required argument: 'obj'")
	}
	encoded, err := valueToAny(args[0])
	if err != nil {
		return value.Value{}, err
	}
	data, jsonErr := json.Marshal(encoded)
	if jsonErr != nil {
		return value.Value{}, value.NewError(value.RuntimeError, "Failed to serialize: %v", jsonErr)
	}
	return value.String(string(data)), nil
}

func anyToValue(v any) (value.Value, *value.Error) {
	switch n := v.(type) {
	case nil:
		return value.None(), nil
	case bool:
		return value.Bool(n), nil
	case float64:
		if n == float64(int32(n)) {
			return value.Int(int32(n)), nil
		}
		return value.Float(n), nil
	case string:
		return value.String(n), nil
	case []any:
		items := make([]value.Value, len(n))
		for i, elem := range n {
			converted, err := anyToValue(elem)
			if err != nil {
				return value.Value{}, err
			}
			items[i] = converted
		}
		return value.NewList(items), nil
	case map[string]any:
		entries := map[value.DictKey]value.Value{}
		for key, val := range n {
			converted, err := anyToValue(val)
			if err != nil {
				return value.Value{}, err
			}
			entries[value.StringKey(key)] = converted
		}
		return value.NewDict(entries), nil
	default:
		return value.Value{}, value.NewError(value.ValueError, "unrepresentable JSON value %T", n)
	}
}

func valueToAny(v value.Value) (any, *value.Error) {
	switch v.Kind {
	case value.KindNone:
		return nil, nil
	case value.KindBool:
		return v.Bool, nil
	case value.KindInt:
		return v.Int, nil
	case value.KindFloat:
		return v.Float, nil
	case value.KindString:
		return v.Str, nil
	case value.KindList:
		items := make([]any, len(v.List.Items))
		for i, item := range v.List.Items {
			converted, err := valueToAny(item)
			if err != nil {
				return nil, err
			}
			items[i] = converted
		}
		return items, nil
	case value.KindDict:
		obj := make(map[string]any, len(v.Dict.Entries))
		for k, val := range v.Dict.Entries {
			converted, err := valueToAny(val)
			if err != nil {
				return nil, err
			}
			obj[keyString(k)] = converted
		}
		return obj, nil
	default:
		return nil, value.NewError(value.TypeError, "Object is not JSON serializable")
	}
}

func keyString(k value.DictKey) string {
	if k.IsString {
		return k.Str
	}
	return fmt.Sprintf("%d", k.Int)
}
