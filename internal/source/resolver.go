package source

import (
	"errors"
	"path/filepath"
	"sync"

	"swiftconcur/internal/diag"
)

// DefaultContextLines is the window size used when none is configured.
const DefaultContextLines = 3

// Resolver attaches source context to raw diagnostics. It is safe for
// concurrent use.
type Resolver struct {
	// Root resolves relative paths; "" means the working directory.
	Root string
	// Lines is the number of lines kept on each side.
	Lines int

	missing sync.Map // path -> struct{}
}

// NewResolver returns a Resolver reading files under root.
func NewResolver(root string, lines int) *Resolver {
	return &Resolver{Root: root, Lines: lines}
}

// Resolve returns the context for d. Failures degrade to an empty context;
// the bool reports whether any source text was found.
func (r *Resolver) Resolve(d *diag.RawDiagnostic) (diag.CodeContext, bool) {
	if d.Context != nil && !d.Context.IsEmpty() {
		return d.Context.Truncate(r.Lines), true
	}
	path := r.path(d.FilePath)
	if path == "" {
		return diag.EmptyContext(""), false
	}
	if _, gone := r.missing.Load(path); gone {
		return diag.EmptyContext(""), false
	}
	ctx, err := ReadWindow(path, d.Line, r.Lines)
	if err != nil {
		if !errors.Is(err, ErrLineOutOfRange) {
			r.missing.Store(path, struct{}{})
		}
		return diag.EmptyContext(""), false
	}
	return ctx, true
}

func (r *Resolver) path(p string) string {
	if p == "" {
		return ""
	}
	p = filepath.FromSlash(p)
	if filepath.IsAbs(p) || r.Root == "" {
		return p
	}
	return filepath.Join(r.Root, p)
}
