package script

import (
	"fmt"
	"os"
	"sort"
	"strings"

	cty "github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// shellFunctions is the function table visible to scripts: the go-cty
// standard library plus a few helpers that know about the shell's process.
// lookupEnv backs getenv().
func shellFunctions(lookupEnv func(string) (string, bool)) map[string]function.Function {
	fns := map[string]function.Function{
		"abs":        stdlib.AbsoluteFunc,
		"ceil":       stdlib.CeilFunc,
		"floor":      stdlib.FloorFunc,
		"max":        stdlib.MaxFunc,
		"min":        stdlib.MinFunc,
		"length":     stdlib.LengthFunc,
		"strlen":     stdlib.StrlenFunc,
		"keys":       stdlib.KeysFunc,
		"values":     stdlib.ValuesFunc,
		"split":      stdlib.SplitFunc,
		"trimspace":  stdlib.TrimSpaceFunc,
		"chomp":      stdlib.ChompFunc,
		"substr":     stdlib.SubstrFunc,
		"reverse":    stdlib.ReverseListFunc,
		"sort":       stdlib.SortFunc,
		"distinct":   stdlib.DistinctFunc,
		"flatten":    stdlib.FlattenFunc,
		"merge":      stdlib.MergeFunc,
		"range":      stdlib.RangeFunc,
		"element":    stdlib.ElementFunc,
		"zipmap":     stdlib.ZipmapFunc,
		"jsonencode": stdlib.JSONEncodeFunc,
		"jsondecode": stdlib.JSONDecodeFunc,
	}

	fns["lower"] = function.New(&function.Spec{
		Params: []function.Parameter{{Name: "s", Type: cty.String}},
		Type:   function.StaticReturnType(cty.String),
		Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
			return cty.StringVal(strings.ToLower(args[0].AsString())), nil
		},
	})
	fns["upper"] = function.New(&function.Spec{
		Params: []function.Parameter{{Name: "s", Type: cty.String}},
		Type:   function.StaticReturnType(cty.String),
		Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
			return cty.StringVal(strings.ToUpper(args[0].AsString())), nil
		},
	})
	fns["tostring"] = function.New(&function.Spec{
		Params: []function.Parameter{{Name: "v", Type: cty.DynamicPseudoType, AllowNull: true}},
		Type:   function.StaticReturnType(cty.String),
		Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
			return cty.StringVal(Value{V: args[0]}.String()), nil
		},
	})
	fns["join"] = function.New(&function.Spec{
		Params: []function.Parameter{{Name: "sep", Type: cty.String}, {Name: "list", Type: cty.List(cty.String)}},
		Type:   function.StaticReturnType(cty.String),
		Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
			sep := args[0].AsString()
			parts := []string{}
			for it := args[1].ElementIterator(); it.Next(); {
				_, v := it.Element()
				parts = append(parts, v.AsString())
			}
			return cty.StringVal(strings.Join(parts, sep)), nil
		},
	})
	fns["concat"] = function.New(&function.Spec{
		VarParam: &function.Parameter{Name: "lists", Type: cty.DynamicPseudoType},
		Type:     function.StaticReturnType(cty.DynamicPseudoType),
		Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
			out := []cty.Value{}
			for i, l := range args {
				if !l.CanIterateElements() {
					return cty.NilVal, function.NewArgErrorf(i, "concat needs lists, got %s", l.Type().FriendlyName())
				}
				for it := l.ElementIterator(); it.Next(); {
					_, v := it.Element()
					out = append(out, v)
				}
			}
			return cty.TupleVal(out), nil
		},
	})
	fns["format"] = function.New(&function.Spec{
		Params:   []function.Parameter{{Name: "fmt", Type: cty.String}},
		VarParam: &function.Parameter{Name: "args", Type: cty.DynamicPseudoType, AllowNull: true},
		Type:     function.StaticReturnType(cty.String),
		Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
			f := args[0].AsString()
			vals := make([]any, 0, len(args)-1)
			for _, a := range args[1:] {
				vals = append(vals, Value{V: a}.String())
			}
			return cty.StringVal(fmt.Sprintf(f, vals...)), nil
		},
	})
	fns["coalesce"] = function.New(&function.Spec{
		VarParam: &function.Parameter{Name: "vals", Type: cty.DynamicPseudoType, AllowNull: true},
		Type:     function.StaticReturnType(cty.DynamicPseudoType),
		Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
			for _, a := range args {
				if a.IsNull() || !a.IsKnown() {
					continue
				}
				if a.Type() == cty.String && a.AsString() == "" {
					continue
				}
				return a, nil
			}
			return cty.NullVal(cty.DynamicPseudoType), nil
		},
	})
	fns["replace"] = function.New(&function.Spec{
		Params: []function.Parameter{{Name: "s", Type: cty.String}, {Name: "substr", Type: cty.String}, {Name: "repl", Type: cty.String}},
		Type:   function.StaticReturnType(cty.String),
		Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
			return cty.StringVal(strings.ReplaceAll(args[0].AsString(), args[1].AsString(), args[2].AsString())), nil
		},
	})
	fns["getenv"] = function.New(&function.Spec{
		Params: []function.Parameter{{Name: "name", Type: cty.String}},
		Type:   function.StaticReturnType(cty.String),
		Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
			if lookupEnv == nil {
				return cty.StringVal(""), nil
			}
			v, _ := lookupEnv(args[0].AsString())
			return cty.StringVal(v), nil
		},
	})
	fns["cwd"] = function.New(&function.Spec{
		Type: function.StaticReturnType(cty.String),
		Impl: func(_ []cty.Value, _ cty.Type) (cty.Value, error) {
			wd, err := os.Getwd()
			if err != nil {
				return cty.NilVal, err
			}
			return cty.StringVal(wd), nil
		},
	})
	return fns
}

// FunctionNames lists the function table, sorted.
func FunctionNames() []string {
	fns := shellFunctions(nil)
	names := make([]string, 0, len(fns))
	for n := range fns {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
