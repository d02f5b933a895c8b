package modules

import (
	"regexp"

	"quickpy/value"
)

// NewRegexModule builds the re module, grounded on builtins/re.rs. Go's
// regexp package (RE2 syntax, not Rust's `regex` crate's, but the same
// role) is used directly, same reasoning as the json module: no example
// repo wires a third-party regex engine, and the standard library's is
// both idiomatic and sufficient for match/search/findall/sub/split.
func NewRegexModule() *value.Module {
	m := &value.Module{Name: "re", Attrs: map[string]value.Value{}}
	m.Set("match", value.NewNativeFunction("match", reMatch))
	m.Set("search", value.NewNativeFunction("search", reSearch))
	m.Set("findall", value.NewNativeFunction("findall", reFindall))
	m.Set("sub", value.NewNativeFunction("sub", reSub))
	m.Set("subn", value.NewNativeFunction("subn", reSubn))
	m.Set("split", value.NewNativeFunction("split", reSplit))
	m.Set("compile", value.NewNativeFunction("compile", reCompile))
	return m
}

func compilePattern(pattern string) (*regexp.Regexp, *value.Error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, value.NewError(value.ValueError, "Invalid regex pattern: %v", err)
	}
	return re, nil
}

func requireTwoStrings(args []value.Value, fname string) (string, string, *value.Error) {
	if len(args) < 2 {
		return "", "", typeErrorf("%s() requires 2 arguments: pattern and string", fname)
	}
	pattern, err := requireString(args, 0, "pattern")
	if err != nil {
		return "", "", err
	}
	text, err := requireString(args, 1, "string")
	if err != nil {
		return "", "", err
	}
	return pattern, text, nil
}

func newMatchValue(text string, loc []int) value.Value {
	groups := make([]string, len(loc)/2)
	for i := range groups {
		start, end := loc[2*i], loc[2*i+1]
		if start < 0 {
			groups[i] = ""
			continue
		}
		groups[i] = text[start:end]
	}
	return value.NewMatch(&value.Match{Groups: groups, Start: loc[0], End: loc[1]})
}

// reMatch only succeeds when the match begins at index 0, mirroring
// Python's (and the source's) anchored-at-start semantics.
func reMatch(args []value.Value) (value.Value, *value.Error) {
	pattern, text, err := requireTwoStrings(args, "match")
	if err != nil {
		return value.Value{}, err
	}
	re, err := compilePattern(pattern)
	if err != nil {
		return value.Value{}, err
	}
	loc := re.FindStringSubmatchIndex(text)
	if loc == nil || loc[0] != 0 {
		return value.None(), nil
	}
	return newMatchValue(text, loc), nil
}

func reSearch(args []value.Value) (value.Value, *value.Error) {
	pattern, text, err := requireTwoStrings(args, "search")
	if err != nil {
		return value.Value{}, err
	}
	re, err := compilePattern(pattern)
	if err != nil {
		return value.Value{}, err
	}
	loc := re.FindStringSubmatchIndex(text)
	if loc == nil {
		return value.None(), nil
	}
	return newMatchValue(text, loc), nil
}

func reFindall(args []value.Value) (value.Value, *value.Error) {
	pattern, text, err := requireTwoStrings(args, "findall")
	if err != nil {
		return value.Value{}, err
	}
	re, err := compilePattern(pattern)
	if err != nil {
		return value.Value{}, err
	}
	matches := re.FindAllString(text, -1)
	items := make([]value.Value, len(matches))
	for i, m := range matches {
		items[i] = value.String(m)
	}
	return value.NewList(items), nil
}

func reSub(args []value.Value) (value.Value, *value.Error) {
	if len(args) < 3 {
		return value.Value{}, typeErrorf("sub() requires 3 arguments: pattern, repl, and string")
	}
	pattern, err := requireString(args, 0, "pattern")
	if err != nil {
		return value.Value{}, err
	}
	repl, err := requireString(args, 1, "repl")
	if err != nil {
		return value.Value{}, err
	}
	text, err := requireString(args, 2, "string")
	if err != nil {
		return value.Value{}, err
	}
	re, err := compilePattern(pattern)
	if err != nil {
		return value.Value{}, err
	}
	return value.String(re.ReplaceAllString(text, repl)), nil
}

func reSubn(args []value.Value) (value.Value, *value.Error) {
	if len(args) < 3 {
		return value.Value{}, typeErrorf("subn() requires 3 arguments: pattern, repl, and string")
	}
	pattern, err := requireString(args, 0, "pattern")
	if err != nil {
		return value.Value{}, err
	}
	repl, err := requireString(args, 1, "repl")
	if err != nil {
		return value.Value{}, err
	}
	text, err := requireString(args, 2, "string")
	if err != nil {
		return value.Value{}, err
	}
	re, err := compilePattern(pattern)
	if err != nil {
		return value.Value{}, err
	}
	count := len(re.FindAllString(text, -1))
	result := re.ReplaceAllString(text, repl)
	return value.NewList([]value.Value{value.String(result), value.Int(int32(count))}), nil
}

func reSplit(args []value.Value) (value.Value, *value.Error) {
	pattern, text, err := requireTwoStrings(args, "split")
	if err != nil {
		return value.Value{}, err
	}
	re, err := compilePattern(pattern)
	if err != nil {
		return value.Value{}, err
	}
	parts := re.Split(text, -1)
	items := make([]value.Value, len(parts))
	for i, p := range parts {
		items[i] = value.String(p)
	}
	return value.NewList(items), nil
}

func reCompile(args []value.Value) (value.Value, *value.Error) {
	pattern, err := requireString(args, 0, "pattern")
	if err != nil {
		return value.Value{}, err
	}
	re, err := compilePattern(pattern)
	if err != nil {
		return value.Value{}, err
	}
	return value.NewRegex(&value.Regex{Pattern: pattern, Compiled: re}), nil
}
