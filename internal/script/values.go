package script

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2/hclwrite"
	cty "github.com/zclconf/go-cty/cty"
)

// Value is a script result stored in the shell's variable store.
type Value struct {
	V cty.Value
}

// String is the raw text for strings and HCL literal syntax otherwise, so a
// string variable substitutes into a command line without quotes.
func (v Value) String() string {
	if v.V.IsKnown() && !v.V.IsNull() && v.V.Type() == cty.String {
		return v.V.AsString()
	}
	return Format(v.V)
}

// Function is how a builtin function name resolves when looked up as a variable.
type Function struct {
	Name string
}

func (f Function) String() string { return "<function " + f.Name + ">" }

// Format renders v in HCL literal syntax.
func Format(v cty.Value) string {
	if v == cty.NilVal {
		return "null"
	}
	if !v.IsWhollyKnown() {
		return "(known after evaluation)"
	}
	return strings.TrimSpace(string(hclwrite.TokensForValue(v).Bytes()))
}

// toCty converts a shell variable into a script value.
func toCty(v any) (cty.Value, bool) {
	switch t := v.(type) {
	case Value:
		return t.V, t.V != cty.NilVal
	case cty.Value:
		return t, t != cty.NilVal
	case Function:
		return cty.NilVal, false
	case fmt.Stringer:
		return cty.StringVal(t.String()), true
	}
	return convertInterfaceToCty(v)
}

func convertInterfaceToCty(v any) (cty.Value, bool) {
	switch t := v.(type) {
	case nil:
		return cty.NullVal(cty.DynamicPseudoType), true
	case string:
		return cty.StringVal(t), true
	case bool:
		return cty.BoolVal(t), true
	case int:
		return cty.NumberIntVal(int64(t)), true
	case int64:
		return cty.NumberIntVal(t), true
	case float64:
		return cty.NumberFloatVal(t), true
	case []string:
		if len(t) == 0 {
			return cty.ListValEmpty(cty.String), true
		}
		arr := make([]cty.Value, len(t))
		for i, s := range t {
			arr[i] = cty.StringVal(s)
		}
		return cty.ListVal(arr), true
	case []any:
		arr := make([]cty.Value, 0, len(t))
		for _, e := range t {
			cv, ok := convertInterfaceToCty(e)
			if !ok {
				return cty.NilVal, false
			}
			arr = append(arr, cv)
		}
		return cty.TupleVal(arr), true
	case map[string]string:
		m := make(map[string]cty.Value, len(t))
		for k, s := range t {
			m[k] = cty.StringVal(s)
		}
		return objectVal(m), true
	case map[string]any:
		m := make(map[string]cty.Value, len(t))
		for k, e := range t {
			cv, ok := convertInterfaceToCty(e)
			if !ok {
				return cty.NilVal, false
			}
			m[k] = cv
		}
		return objectVal(m), true
	}
	return cty.NilVal, false
}

func objectVal(m map[string]cty.Value) cty.Value {
	if len(m) == 0 {
		return cty.EmptyObjectVal
	}
	return cty.ObjectVal(m)
}

// envObject turns KEY=VALUE pairs into an object value.
func envObject(pairs []string) cty.Value {
	m := map[string]cty.Value{}
	for _, kv := range pairs {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		m[k] = cty.StringVal(v)
	}
	return objectVal(m)
}
