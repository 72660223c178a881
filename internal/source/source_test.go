package source

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"swiftconcur/internal/diag"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestWindowMiddle(t *testing.T) {
	src := "l1\nl2\nl3\nl4\nl5\nl6\nl7\n"
	ctx, err := Window(strings.NewReader(src), 4, 2)
	if err != nil {
		t.Fatalf("Window: %v", err)
	}
	if strings.Join(ctx.Before, ",") != "l2,l3" || ctx.Line != "l4" || strings.Join(ctx.After, ",") != "l5,l6" {
		t.Fatalf("unexpected window %+v", ctx)
	}
}

func TestWindowEdges(t *testing.T) {
	src := "\xEF\xBB\xBFfirst\r\nsecond\r\nthird"
	ctx, err := Window(strings.NewReader(src), 1, 3)
	if err != nil {
		t.Fatalf("Window: %v", err)
	}
	if len(ctx.Before) != 0 || ctx.Line != "first" {
		t.Fatalf("BOM or CR not stripped: %+v", ctx)
	}
	if strings.Join(ctx.After, ",") != "second,third" {
		t.Fatalf("unexpected after %q", ctx.After)
	}
}

func TestWindowOutOfRange(t *testing.T) {
	ctx, err := Window(strings.NewReader("a\nb\n"), 10, 3)
	if err == nil {
		t.Fatal("expected out of range error")
	}
	if ctx.Line != "" || len(ctx.Before) != 0 || len(ctx.After) != 0 {
		t.Fatalf("expected empty context, got %+v", ctx)
	}
}

func TestWindowLongLineIsCut(t *testing.T) {
	long := strings.Repeat("x", MaxLineBytes+100)
	ctx, err := Window(strings.NewReader(long+"\nnext\n"), 1, 1)
	if err != nil {
		t.Fatalf("Window: %v", err)
	}
	if len(ctx.Line) != MaxLineBytes {
		t.Fatalf("expected line cut to %d bytes, got %d", MaxLineBytes, len(ctx.Line))
	}
	if len(ctx.After) != 1 || ctx.After[0] != "next" {
		t.Fatalf("line after a long one lost: %+v", ctx.After)
	}
}

func TestResolverReadsRelativeToRoot(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "A.swift", "import Foundation\n\nactor Counter {\n    var value = 0\n}\n")

	r := NewResolver(dir, 1)
	ctx, ok := r.Resolve(&diag.RawDiagnostic{FilePath: "A.swift", Line: 3})
	if !ok {
		t.Fatal("expected context to resolve")
	}
	if ctx.Line != "actor Counter {" || len(ctx.Before) != 1 || len(ctx.After) != 1 {
		t.Fatalf("unexpected context %+v", ctx)
	}
}

func TestResolverDegradesOnMissingFile(t *testing.T) {
	r := NewResolver(t.TempDir(), 3)
	for range 2 {
		ctx, ok := r.Resolve(&diag.RawDiagnostic{FilePath: "Missing.swift", Line: 1})
		if ok {
			t.Fatal("missing file must not resolve")
		}
		if ctx.Before == nil || ctx.After == nil || ctx.Line != "" {
			t.Fatalf("expected empty context, got %+v", ctx)
		}
	}
}

func TestResolverPrefersEmbeddedContext(t *testing.T) {
	r := NewResolver("", 1)
	embedded := &diag.CodeContext{Before: []string{"a", "b"}, Line: "c", After: []string{"d", "e"}}
	ctx, ok := r.Resolve(&diag.RawDiagnostic{FilePath: "Nope.swift", Line: 5, Context: embedded})
	if !ok {
		t.Fatal("embedded context must be used")
	}
	if strings.Join(ctx.Before, ",") != "b" || strings.Join(ctx.After, ",") != "d" {
		t.Fatalf("embedded context not truncated: %+v", ctx)
	}
}

func TestPathTableShares(t *testing.T) {
	tab := NewPathTable()
	a := tab.Intern([]byte("./Sources/A.swift"))
	b := tab.Intern([]byte("./Sources/A.swift"))
	if a != "Sources/A.swift" || a != b || tab.Len() != 1 {
		t.Fatalf("unexpected interning: %q %q len=%d", a, b, tab.Len())
	}
}
