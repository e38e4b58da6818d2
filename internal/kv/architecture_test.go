package kv

import (
	"sort"
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
)

// TestOnlyKVPackageImportsDrivers ensures that only this package wraps the
// concrete drivers. Other production packages depend on kv.Store; tests may
// still open a driver directly.
func TestOnlyKVPackageImportsDrivers(t *testing.T) {
	const (
		infraPrefix = "gymledger/internal/infra"
		allowed     = "gymledger/internal/kv"
	)

	cfg := &packages.Config{Mode: packages.NeedName | packages.NeedImports}
	pkgs, err := packages.Load(cfg, "gymledger/...")
	if err != nil {
		t.Fatalf("load packages: %v", err)
	}

	var violations []string
	for _, pkg := range pkgs {
		if pkg.PkgPath == allowed || strings.HasPrefix(pkg.PkgPath, allowed+"/") || strings.HasPrefix(pkg.PkgPath, infraPrefix+"/") {
			continue
		}
		for importPath := range pkg.Imports {
			if strings.HasPrefix(importPath, infraPrefix+"/") {
				violations = append(violations, pkg.PkgPath+": "+importPath)
			}
		}
	}
	sort.Strings(violations)
	for _, v := range violations {
		t.Errorf("forbidden driver import: %s", v)
	}
	if len(violations) > 0 {
		t.Fatalf("found %d driver imports outside internal/kv", len(violations))
	}
}
