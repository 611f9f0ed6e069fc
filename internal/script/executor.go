// Package script evaluates the shell's embedded language, HCL, in process.
//
// A single statement is either an assignment (name = expr), which binds a
// shell variable, or an expression whose value is printed. A block is a
// header line ending in ":" followed by attribute lines; the attributes are
// evaluated together and bound as one object under the header's name.
package script

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	cty "github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"

	"github.com/flowave-io/ctsh/internal/shell"
	"github.com/flowave-io/ctsh/pkg/log"
)

const sourceName = "<stdin>"

// EnvName is the object that exposes the process environment to scripts.
const EnvName = "env"

var assignPattern = regexp.MustCompile(`^\s*[A-Za-z_][A-Za-z0-9_]*\s*=[^=]`)

var literals = map[string]cty.Value{
	"true":  cty.True,
	"false": cty.False,
	"null":  cty.NullVal(cty.DynamicPseudoType),
}

// Executor implements shell.ScriptExecutor and shell.Builtins.
type Executor struct {
	funcs map[string]bool
}

// NewExecutor returns an executor with the full function table.
func NewExecutor() *Executor {
	e := &Executor{funcs: map[string]bool{}}
	for _, n := range FunctionNames() {
		e.funcs[n] = true
	}
	return e
}

// Builtin resolves language literals and function names.
func (e *Executor) Builtin(name string) (shell.Value, bool) {
	if v, ok := literals[name]; ok {
		return Value{V: v}, true
	}
	if e.funcs[name] {
		return Function{Name: name}, true
	}
	return nil, false
}

// Execute runs src in the given mode against s.
func (e *Executor) Execute(ctx context.Context, src string, mode shell.ScriptMode, s *shell.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if mode == shell.StatementSequence {
		return e.block(src, s)
	}
	return e.statement(src, s)
}

func (e *Executor) statement(src string, s *shell.Session) error {
	src = strings.TrimSpace(src)
	if src == "" {
		return nil
	}
	if assignPattern.MatchString(src) {
		f, diags := hclsyntax.ParseConfig([]byte(src+"\n"), sourceName, hcl.Pos{Line: 1, Column: 1})
		if diags.HasErrors() {
			return diagError(diags, f)
		}
		vals, err := e.resolve(f.Body, s, f)
		if err != nil {
			return err
		}
		for name, v := range vals {
			s.Set(name, Value{V: v})
			log.Debug("assigned", name)
		}
		return nil
	}

	expr, diags := hclsyntax.ParseExpression([]byte(src), sourceName, hcl.Pos{Line: 1, Column: 1})
	f := &hcl.File{Bytes: []byte(src)}
	if diags.HasErrors() {
		return diagError(diags, f)
	}
	v, diags := expr.Value(e.evalContext(s, nil))
	if diags.HasErrors() {
		return diagError(diags, f)
	}
	if v.IsNull() {
		return nil
	}
	fmt.Fprintln(s.Out, Format(v))
	return nil
}

// block evaluates a finished block. The first line is the header; the
// object is named by its last word unless that word is "locals", in which
// case every attribute is bound at the top level.
func (e *Executor) block(src string, s *shell.Session) error {
	header, body, _ := strings.Cut(src, "\n")
	name, err := blockName(header)
	if err != nil {
		return err
	}
	f, diags := hclsyntax.ParseConfig([]byte(insertListCommas(body)), sourceName, hcl.Pos{Line: 2, Column: 1})
	if diags.HasErrors() {
		return diagError(diags, f)
	}
	vals, err := e.resolve(f.Body, s, f)
	if err != nil {
		return err
	}
	if name == "" {
		for k, v := range vals {
			s.Set(k, Value{V: v})
		}
		return nil
	}
	s.Set(name, Value{V: objectVal(vals)})
	log.Debug("block bound", name, len(vals), "attributes")
	return nil
}

func blockName(header string) (string, error) {
	h := strings.TrimSpace(header)
	h = strings.TrimSpace(strings.TrimSuffix(h, ":"))
	fields := strings.Fields(h)
	switch len(fields) {
	case 0:
		return "", nil
	case 1, 2:
		name := fields[len(fields)-1]
		if name == "locals" {
			return "", nil
		}
		if !shell.IsIdentifier(name) {
			return "", &shell.ScriptError{Line: 1, Msg: fmt.Sprintf("invalid block name %q", name)}
		}
		return name, nil
	}
	return "", &shell.ScriptError{Line: 1, Msg: fmt.Sprintf("unsupported block header %q", h)}
}

// resolve evaluates every attribute of body. Attributes may refer to each
// other in any order, so evaluation repeats until nothing new resolves.
func (e *Executor) resolve(body hcl.Body, s *shell.Session, f *hcl.File) (map[string]cty.Value, error) {
	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return nil, diagError(diags, f)
	}
	pending := make([]*hcl.Attribute, 0, len(attrs))
	for _, a := range attrs {
		pending = append(pending, a)
	}
	sort.Slice(pending, func(i, j int) bool {
		return pending[i].Range.Start.Byte < pending[j].Range.Start.Byte
	})

	done := map[string]cty.Value{}
	for len(pending) > 0 {
		ctx := e.evalContext(s, done)
		var rest []*hcl.Attribute
		var lastDiags hcl.Diagnostics
		for _, a := range pending {
			v, d := a.Expr.Value(ctx)
			if d.HasErrors() || !v.IsWhollyKnown() {
				rest = append(rest, a)
				if lastDiags == nil {
					lastDiags = d
				}
				continue
			}
			done[a.Name] = v
		}
		if len(rest) == len(pending) {
			if lastDiags.HasErrors() {
				return nil, diagError(lastDiags, f)
			}
			return nil, &shell.ScriptError{Line: rest[0].Range.Start.Line, Msg: fmt.Sprintf("cannot resolve %q", rest[0].Name)}
		}
		pending = rest
	}
	return done, nil
}

// evalContext exposes the shell variables, the environment and any
// attributes already resolved in the current body.
func (e *Executor) evalContext(s *shell.Session, scope map[string]cty.Value) *hcl.EvalContext {
	vars := map[string]cty.Value{EnvName: envObject(s.Environ())}
	for _, name := range s.LocalNames() {
		v, _ := s.Local(name)
		if cv, ok := toCty(v); ok {
			vars[name] = cv
		}
	}
	for k, v := range scope {
		vars[k] = v
	}
	return &hcl.EvalContext{
		Variables: vars,
		Functions: e.functions(s),
	}
}

func (e *Executor) functions(s *shell.Session) map[string]function.Function {
	return shellFunctions(s.LookupEnv)
}

// diagError turns the first error diagnostic into a ScriptError. The full
// rendering, with source snippets, goes to the debug log.
func diagError(diags hcl.Diagnostics, f *hcl.File) error {
	var first *hcl.Diagnostic
	for _, d := range diags {
		if d.Severity == hcl.DiagError {
			first = d
			break
		}
	}
	if first == nil {
		return nil
	}
	files := map[string]*hcl.File{}
	if f != nil {
		files[sourceName] = f
	}
	var buf bytes.Buffer
	wr := hcl.NewDiagnosticTextWriter(&buf, files, 0, false)
	if err := wr.WriteDiagnostics(diags); err == nil {
		log.Debug("script diagnostics:\n" + buf.String())
	}
	msg := first.Summary
	if first.Detail != "" {
		msg += ": " + first.Detail
	}
	line := 0
	if first.Subject != nil {
		line = first.Subject.Start.Line
	}
	return &shell.ScriptError{Line: line, Msg: msg}
}
