package arch_test

import (
	"go/ast"
	"go/parser"
	"go/token"
	"path/filepath"
	"strings"
	"testing"
)

// allowedGlobalPrefixes lists name prefixes for which all vars in the given
// package are treated as constant-like. Lipgloss styles and colors are never
// reassigned after package init.
var allowedGlobalPrefixes = map[string][]string{
	"tui": {"style", "color"},
	"ui":  {"style", "color"},
}

// TestNoMutableGlobalState scans all internal packages for package-level var
// declarations and flags any that are not in the allowed categories:
//   - error sentinels (errors.New / fmt.Errorf)
//   - compile-time interface checks (var _ T = ...)
//   - regexp.MustCompile
//   - sync primitives and atomic types
//   - simple or composite literals
//   - allowlisted prefixes
//
// Random sources and generation state must be passed in explicitly so a
// seeded run is reproducible.
func TestNoMutableGlobalState(t *testing.T) {
	t.Parallel()

	dir := internalDirPath(t)
	for _, pkg := range internalPackages(t) {
		t.Run(pkg, func(t *testing.T) {
			t.Parallel()

			prefixes := allowedGlobalPrefixes[pkg]
			fset := token.NewFileSet()
			for _, filePath := range goFilesIn(t, filepath.Join(dir, pkg)) {
				node, err := parser.ParseFile(fset, filePath, nil, 0)
				if err != nil {
					t.Fatalf("parsing %s: %v", filePath, err)
				}
				for _, vs := range varSpecs(node) {
					for _, name := range disallowedVars(vs, prefixes) {
						t.Errorf("mutable global state in %s: var %s; pass it in instead",
							filepath.Base(filePath), name)
					}
				}
			}
		})
	}
}

// varSpecs returns every package-level var spec in a file.
func varSpecs(node *ast.File) []*ast.ValueSpec {
	var out []*ast.ValueSpec
	for _, decl := range node.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.VAR {
			continue
		}
		for _, spec := range gd.Specs {
			if vs, ok := spec.(*ast.ValueSpec); ok {
				out = append(out, vs)
			}
		}
	}
	return out
}

// disallowedVars returns the names declared by vs that match none of the
// allowed patterns.
func disallowedVars(vs *ast.ValueSpec, prefixes []string) []string {
	var bad []string
	for i, name := range vs.Names {
		if name.Name == "_" || hasAllowedPrefix(name.Name, prefixes) {
			continue
		}
		var val ast.Expr
		if i < len(vs.Values) {
			val = vs.Values[i]
		}
		if isErrorSentinel(vs.Type, val) ||
			isCall(val, "regexp", "MustCompile") ||
			isSyncOrAtomicType(vs.Type) ||
			isLiteral(val) {
			continue
		}
		bad = append(bad, name.Name)
	}
	return bad
}

func hasAllowedPrefix(varName string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(varName, p) {
			return true
		}
	}
	return false
}

// isErrorSentinel reports whether the declaration is typed error or is
// initialized by errors.New or fmt.Errorf.
func isErrorSentinel(typeExpr ast.Expr, val ast.Expr) bool {
	if ident, ok := typeExpr.(*ast.Ident); ok && ident.Name == "error" {
		return true
	}
	return isCall(val, "errors", "New") || isCall(val, "fmt", "Errorf")
}

// isCall reports whether val is a call to pkg.fn.
func isCall(val ast.Expr, pkg, fn string) bool {
	call, ok := val.(*ast.CallExpr)
	if !ok {
		return false
	}
	sel, ok := call.Fun.(*ast.SelectorExpr)
	if !ok {
		return false
	}
	ident, ok := sel.X.(*ast.Ident)
	return ok && ident.Name == pkg && sel.Sel.Name == fn
}

func isSyncOrAtomicType(typeExpr ast.Expr) bool {
	sel, ok := typeExpr.(*ast.SelectorExpr)
	if !ok {
		return false
	}
	ident, ok := sel.X.(*ast.Ident)
	return ok && (ident.Name == "sync" || ident.Name == "atomic")
}

func isLiteral(val ast.Expr) bool {
	switch val.(type) {
	case *ast.BasicLit, *ast.CompositeLit:
		return true
	}
	return false
}

func TestGlobalStateDetection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		src     string
		flagged bool
	}{
		{"error_sentinel", `package p; import "errors"; var ErrFoo = errors.New("foo")`, false},
		{"wrapped_sentinel", `package p; import "fmt"; var ErrBar = fmt.Errorf("bar: %w", nil)`, false},
		{"interface_check", `package p; type I interface{}; type S struct{}; var _ I = (*S)(nil)`, false},
		{"regexp", `package p; import "regexp"; var re = regexp.MustCompile("^foo$")`, false},
		{"string_literal", `package p; var name = "hello"`, false},
		{"map_literal", `package p; var lookup = map[string]bool{"x": true}`, false},
		{"sync_once", `package p; import "sync"; var once sync.Once`, false},
		{"make_map", `package p; var m = make(map[string]string)`, true},
		{"shared_rand", `package p; import "math/rand/v2"; var rng = rand.New(rand.NewPCG(1, 2))`, true},
		{"mutable_counter", `package p; var n int`, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			node, err := parser.ParseFile(token.NewFileSet(), "test.go", tc.src, 0)
			if err != nil {
				t.Fatalf("parsing: %v", err)
			}
			var bad []string
			for _, vs := range varSpecs(node) {
				bad = append(bad, disallowedVars(vs, nil)...)
			}
			if got := len(bad) > 0; got != tc.flagged {
				t.Errorf("flagged = %v (%v), want %v", got, bad, tc.flagged)
			}
		})
	}
}
