package arch_test

import (
	"path/filepath"
	"testing"
)

// layers assigns each internal package to a numeric layer. Lower layers are
// more foundational; higher layers may depend on lower ones but not vice versa.
// A package at layer N may only import packages at layer N or below.
var layers = map[string]int{
	"ansi":      0,
	"assets":    0,
	"compose":   0,
	"config":    0,
	"telemetry": 0,

	"layer": 1,

	"traits": 2,
	"ui":     2,

	"edition": 3,

	"archive": 4,
	"tui":     4,
}

// TestDependencyLayering verifies that no internal package imports a package
// from a higher layer.
func TestDependencyLayering(t *testing.T) {
	t.Parallel()

	dir := internalDirPath(t)

	for _, pkg := range internalPackages(t) {
		importerLayer, ok := layers[pkg]
		if !ok {
			// Caught by TestNoUnknownPackages.
			continue
		}

		for _, imp := range importsOf(t, filepath.Join(dir, pkg)) {
			importedLayer, ok := layers[imp]
			if !ok {
				continue
			}
			if importerLayer < importedLayer {
				t.Errorf("layer violation: %s (layer %d) imports %s (layer %d)",
					pkg, importerLayer, imp, importedLayer)
			}
		}
	}
}

// TestNoUnknownPackages verifies that every internal package has an assigned
// layer.
func TestNoUnknownPackages(t *testing.T) {
	t.Parallel()

	for _, pkg := range internalPackages(t) {
		if _, ok := layers[pkg]; !ok {
			t.Errorf("package %s has no layer assignment; add it to the layers map", pkg)
		}
	}
}
