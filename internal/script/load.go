package script

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/terraform-config-inspect/tfconfig"
	cty "github.com/zclconf/go-cty/cty"

	"github.com/flowave-io/ctsh/internal/shell"
)

// Load binds the values defined at path into s and returns the bound names,
// sorted. A directory is read as a Terraform module and contributes the
// defaults of its input variables. A file is read as HCL (or HCL JSON for
// .json) and contributes its top-level attributes, which may refer to
// existing shell variables and to each other.
func (e *Executor) Load(path string, s *shell.Session) ([]string, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	var vals map[string]cty.Value
	if fi.IsDir() {
		vals, err = loadModuleDefaults(path)
	} else {
		vals, err = e.loadFile(path, s)
	}
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(vals))
	for k, v := range vals {
		s.Set(k, Value{V: v})
		names = append(names, k)
	}
	sort.Strings(names)
	return names, nil
}

func loadModuleDefaults(dir string) (map[string]cty.Value, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	if !tfconfig.IsModuleDir(abs) {
		return nil, fmt.Errorf("%s contains no configuration files", dir)
	}
	mod, diags := tfconfig.LoadModule(abs)
	if diags.HasErrors() {
		return nil, diags.Err()
	}
	vals := map[string]cty.Value{}
	for name, v := range mod.Variables {
		if v.Default == nil {
			continue
		}
		if cv, ok := convertInterfaceToCty(v.Default); ok {
			vals[name] = cv
		}
	}
	return vals, nil
}

func (e *Executor) loadFile(path string, s *shell.Session) (map[string]cty.Value, error) {
	p := hclparse.NewParser()
	var (
		f     *hcl.File
		diags hcl.Diagnostics
	)
	if strings.EqualFold(filepath.Ext(path), ".json") {
		f, diags = p.ParseJSONFile(path)
	} else {
		f, diags = p.ParseHCLFile(path)
	}
	if diags.HasErrors() || f == nil {
		return nil, fileError(path, diags)
	}
	vals, err := e.resolve(f.Body, s, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return vals, nil
}

func fileError(path string, diags hcl.Diagnostics) error {
	for _, d := range diags {
		if d.Severity != hcl.DiagError {
			continue
		}
		line := 0
		if d.Subject != nil {
			line = d.Subject.Start.Line
		}
		return fmt.Errorf("%s: %w", path, &shell.ScriptError{Line: line, Msg: d.Summary})
	}
	return fmt.Errorf("%s: cannot parse", path)
}
