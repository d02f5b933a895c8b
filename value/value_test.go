package value_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"quickpy/value"
)

func TestTruthy(t *testing.T) {
	cases := []struct {
		name string
		v    value.Value
		want bool
	}{
		{"zero int", value.Int(0), false},
		{"nonzero int", value.Int(1), true},
		{"zero float", value.Float(0.0), false},
		{"none", value.None(), false},
		{"empty string", value.String(""), false},
		{"nonempty string", value.String("x"), true},
		{"empty list", value.NewList(nil), false},
		{"nonempty list", value.NewList([]value.Value{value.Int(1)}), true},
		{"empty dict", value.NewDict(nil), false},
		{"bool false", value.Bool(false), false},
		{"function always truthy", value.NewNativeFunction("f", nil), true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, c.v.Truthy())
		})
	}
}

func TestEqualNumericCoercion(t *testing.T) {
	assert.True(t, value.Equal(value.Int(2), value.Float(2.0)))
	assert.True(t, value.Equal(value.Float(2.0), value.Int(2)))
	assert.False(t, value.Equal(value.Int(2), value.Float(2.5)))
}

func TestEqualListsByElement(t *testing.T) {
	a := value.NewList([]value.Value{value.Int(1), value.String("x")})
	b := value.NewList([]value.Value{value.Int(1), value.String("x")})
	assert.True(t, value.Equal(a, b))

	c := value.NewList([]value.Value{value.Int(1), value.String("y")})
	assert.False(t, value.Equal(a, c))
}

func TestListSharingIsByReference(t *testing.T) {
	list, ok := value.NewList([]value.Value{value.Int(1)}).AsList()
	assert.True(t, ok)
	alias := value.Value{Kind: value.KindList, List: list}
	list.Items = append(list.Items, value.Int(2))
	aliasList, _ := alias.AsList()
	assert.Len(t, aliasList.Items, 2)
}

func TestDictKeyRestrictedToStringOrInt(t *testing.T) {
	d := value.NewDict(map[value.DictKey]value.Value{
		value.StringKey("name"): value.String("quickpy"),
		value.IntKey(7):         value.Int(42),
	})
	dict, ok := d.AsDict()
	assert.True(t, ok)
	assert.Equal(t, value.String("quickpy"), dict.Entries[value.StringKey("name")])
	assert.Equal(t, value.Int(42), dict.Entries[value.IntKey(7)])
}

func TestNativeFunctionErrorChannel(t *testing.T) {
	fn := value.NewNativeFunction("boom", func(args []value.Value) (value.Value, *value.Error) {
		return value.None(), value.NewError(value.TypeError, "expected %d args, got %d", 1, len(args))
	})
	_, err := fn.NativeFunction.Fn(nil)
	assert.NotNil(t, err)
	assert.Equal(t, value.TypeError, err.Kind)
	assert.Contains(t, err.Error(), "TypeError")
}

func TestStringRendering(t *testing.T) {
	assert.Equal(t, "None", value.None().String())
	assert.Equal(t, "True", value.Bool(true).String())
	assert.Equal(t, "42", value.Int(42).String())
	list := value.NewList([]value.Value{value.String("a"), value.Int(1)})
	assert.Equal(t, `["a", 1]`, list.String())
}
