package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPredicates(t *testing.T) {
	cases := []struct {
		in                        string
		thirdParty, internal, drv bool
	}{
		{"fmt", false, false, false},
		{"encoding/json", false, false, false},
		{"github.com/spf13/cobra", true, false, false},
		{"gopkg.in/yaml.v3", true, false, false},
		{"gymledger/pkg/domain", false, false, false},
		{"gymledger/internal/kv", false, true, false},
		{"gymledger/internal/infra/kv/fs", false, true, true},
		{"gymledger/internalx", false, false, false},
	}
	for _, c := range cases {
		if got := ThirdPartyImport(c.in); got != c.thirdParty {
			t.Errorf("ThirdPartyImport(%q)=%v want %v", c.in, got, c.thirdParty)
		}
		if got := InternalImport(c.in); got != c.internal {
			t.Errorf("InternalImport(%q)=%v want %v", c.in, got, c.internal)
		}
		if got := DriverImport(c.in); got != c.drv {
			t.Errorf("DriverImport(%q)=%v want %v", c.in, got, c.drv)
		}
	}
	if !AnyOf(ThirdPartyImport, InternalImport)("gymledger/internal/core") {
		t.Fatalf("AnyOf should match when one predicate does")
	}
	if AnyOf()("fmt") {
		t.Fatalf("empty AnyOf matches nothing")
	}
}

func writeFile(t *testing.T, dir, name, src string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(src), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestDirectImportViolationsSkipsTestsAndDirs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.go", "package tmp\nimport (\n\t\"fmt\"\n\t\"github.com/x/y\"\n)\nvar _ = fmt.Sprint\n")
	writeFile(t, dir, "a_test.go", "package tmp\nimport \"github.com/x/z\"\n")
	writeFile(t, dir, "notes.txt", "import \"github.com/x/w\"")
	if err := os.Mkdir(filepath.Join(dir, "sub.go"), 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	viols, err := directImportViolations(dir, ThirdPartyImport)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(viols) != 1 || viols[0] != "github.com/x/y (in a.go)" {
		t.Fatalf("unexpected violations %v", viols)
	}
	AssertNoDirectImports(t, dir, InternalImport, "no internal imports")
}

func TestDirectImportViolationsErrors(t *testing.T) {
	if _, err := directImportViolations(filepath.Join(t.TempDir(), "missing"), ThirdPartyImport); err == nil {
		t.Fatalf("expected error for missing dir")
	}
	dir := t.TempDir()
	writeFile(t, dir, "bad.go", "package")
	if _, err := directImportViolations(dir, ThirdPartyImport); err == nil {
		t.Fatalf("expected parse error")
	}
}

type recordingFatal struct{ msg string }

func (r *recordingFatal) Fatalf(format string, args ...any) { r.msg = fmt.Sprintf(format, args...) }

func TestFailIfViolations(t *testing.T) {
	var r recordingFatal
	failIfViolations(&r, "kind", "reason", nil)
	if r.msg != "" {
		t.Fatalf("no violations should not fail, got %q", r.msg)
	}
	failIfViolations(&r, "kind", "reason", []string{"a", "b"})
	if !strings.Contains(r.msg, "kind (reason)") || !strings.Contains(r.msg, "a\nb") {
		t.Fatalf("unexpected message %q", r.msg)
	}
}

func TestAssertNoTransitiveDependencyUsesGoList(t *testing.T) {
	orig := goListDeps
	t.Cleanup(func() { goListDeps = orig })
	var gotPattern string
	goListDeps = func(pattern string) ([]byte, error) {
		gotPattern = pattern
		return []byte("fmt\ngymledger/pkg/domain\n\n"), nil
	}
	AssertNoTransitiveDependency(t, "./pkg/domain", ThirdPartyImport, "stdlib only")
	if gotPattern != "./pkg/domain" {
		t.Fatalf("pattern not forwarded: %q", gotPattern)
	}
}
