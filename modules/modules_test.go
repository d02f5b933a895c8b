package modules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quickpy/modules"
	"quickpy/value"
)

func call(t *testing.T, m *value.Module, name string, args ...value.Value) (value.Value, *value.Error) {
	t.Helper()
	fn, ok := m.Get(name)
	require.True(t, ok, "module %s missing function %s", m.Name, name)
	require.Equal(t, value.KindNativeFunction, fn.Kind)
	return fn.NativeFunction.Fn(args)
}

func TestIsBuiltinAndGetBuiltin(t *testing.T) {
	assert.True(t, modules.IsBuiltin("os"))
	assert.True(t, modules.IsBuiltin("json"))
	assert.True(t, modules.IsBuiltin("re"))
	assert.True(t, modules.IsBuiltin("asyncio"))
	assert.False(t, modules.IsBuiltin("sys"))

	_, ok := modules.GetBuiltin("sys")
	assert.False(t, ok)
}

func TestGetBuiltinReturnsFreshInstances(t *testing.T) {
	a, _ := modules.GetBuiltin("os")
	b, _ := modules.GetBuiltin("os")
	assert.NotSame(t, a, b)
}

func TestJSONRoundTrip(t *testing.T) {
	m := modules.NewJSONModule()
	dumped, err := call(t, m, "dumps", value.NewList([]value.Value{value.Int(1), value.String("x"), value.Bool(true)}))
	require.Nil(t, err)
	s, _ := dumped.AsString()
	assert.Equal(t, `[1,"x",true]`, s)

	loaded, err := call(t, m, "loads", value.String(`{"a": 1, "b": [2, 3]}`))
	require.Nil(t, err)
	assert.Equal(t, value.KindDict, loaded.Kind)
}

func TestJSONLoadsInvalidInput(t *testing.T) {
	m := modules.NewJSONModule()
	_, err := call(t, m, "loads", value.String("not json"))
	require.NotNil(t, err)
	assert.Equal(t, value.ValueError, err.Kind)
}

func TestRegexFindallAndSplit(t *testing.T) {
	m := modules.NewRegexModule()
	found, err := call(t, m, "findall", value.String(`\d+`), value.String("a1 b22 c333"))
	require.Nil(t, err)
	list, _ := found.AsList()
	assert.Len(t, list.Items, 3)

	split, err := call(t, m, "split", value.String(`\s+`), value.String("a  b   c"))
	require.Nil(t, err)
	parts, _ := split.AsList()
	assert.Equal(t, []string{"a", "b", "c"}, []string{parts.Items[0].Str, parts.Items[1].Str, parts.Items[2].Str})
}

func TestRegexMatchAnchorsAtStart(t *testing.T) {
	m := modules.NewRegexModule()
	noMatch, err := call(t, m, "match", value.String(`b+`), value.String("aab"))
	require.Nil(t, err)
	assert.Equal(t, value.KindNone, noMatch.Kind)

	matched, err := call(t, m, "match", value.String(`a+`), value.String("aab"))
	require.Nil(t, err)
	assert.Equal(t, value.KindMatch, matched.Kind)
}

func TestRegexInvalidPatternIsValueError(t *testing.T) {
	m := modules.NewRegexModule()
	_, err := call(t, m, "compile", value.String(`(unclosed`))
	require.NotNil(t, err)
	assert.Equal(t, value.ValueError, err.Kind)
}

func TestAsyncioSleepReturnsMarker(t *testing.T) {
	m := modules.NewAsyncioModule()
	result, err := call(t, m, "sleep", value.Float(1.5))
	require.Nil(t, err)
	assert.Equal(t, value.KindAsyncSleep, result.Kind)
	assert.Equal(t, 1.5, result.AsyncSleep.Seconds)
}

func TestAsyncioSleepRejectsNegative(t *testing.T) {
	m := modules.NewAsyncioModule()
	_, err := call(t, m, "sleep", value.Int(-1))
	require.NotNil(t, err)
	assert.Equal(t, value.ValueError, err.Kind)
}

func TestOSGetenvFallsBackToDefault(t *testing.T) {
	m := modules.NewOSModule()
	result, err := call(t, m, "getenv", value.String("QUICKPY_DOES_NOT_EXIST"), value.String("fallback"))
	require.Nil(t, err)
	s, _ := result.AsString()
	assert.Equal(t, "fallback", s)
}

func TestOSPathJoinAndBasename(t *testing.T) {
	osModule := modules.NewOSModule()
	pathVal, ok := osModule.Get("path")
	require.True(t, ok)
	require.Equal(t, value.KindModule, pathVal.Kind)

	joined, err := call(t, pathVal.Module, "join", value.String("a"), value.String("b"), value.String("c.txt"))
	require.Nil(t, err)
	s, _ := joined.AsString()
	assert.Contains(t, s, "c.txt")

	base, err := call(t, pathVal.Module, "basename", joined)
	require.Nil(t, err)
	baseStr, _ := base.AsString()
	assert.Equal(t, "c.txt", baseStr)
}

func TestOSUUIDProducesDistinctValues(t *testing.T) {
	m := modules.NewOSModule()
	first, err := call(t, m, "uuid")
	require.Nil(t, err)
	second, err := call(t, m, "uuid")
	require.Nil(t, err)
	assert.NotEqual(t, first.Str, second.Str)
	assert.Len(t, first.Str, 36)
}

func TestOSHumanizeSize(t *testing.T) {
	m := modules.NewOSModule()
	result, err := call(t, m, "humanize_size", value.Int(1536))
	require.Nil(t, err)
	s, _ := result.AsString()
	assert.NotEmpty(t, s)
}

func TestOSStrftimeFormatsUTCDate(t *testing.T) {
	m := modules.NewOSModule()
	result, err := call(t, m, "strftime", value.String("%Y-%m-%d"), value.Int(1705276800))
	require.Nil(t, err)
	s, _ := result.AsString()
	assert.Equal(t, "2024-01-15", s)
}

func TestOSStrftimeRequiresUnixTime(t *testing.T) {
	m := modules.NewOSModule()
	_, err := call(t, m, "strftime", value.String("%Y-%m-%d"))
	require.NotNil(t, err)
}
