// Package htfs maps a tree of remote HTML directory-listing pages onto a
// lazy, caching virtual filesystem with shell-like navigation.
package htfs

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/htls/htls/internal/fetch"
)

// FS owns the root entity and the navigation stack. An empty stack means
// the current directory is the root.
type FS struct {
	root  *Entity
	stack []*Entity
	env   *env
}

// Option configures an FS.
type Option func(*env)

// WithProgress sets the factory used to build a progress sink per file
// transfer. Without it, downloads run silently.
func WithProgress(factory ProgressFactory) Option {
	return func(e *env) {
		e.progress = factory
	}
}

// New builds a filesystem rooted at baseURL, which must be an absolute
// http(s) URL of a listing page. Nothing is fetched until first use.
func New(baseURL string, transport fetch.Transport, opts ...Option) (*FS, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("htfs: base url %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("htfs: base url %q: unsupported scheme %q", baseURL, u.Scheme)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}

	e := &env{transport: transport}
	for _, opt := range opts {
		opt(e)
	}

	rootName := path.Base(u.Path)
	if rootName == "/" || rootName == "." {
		rootName = u.Host
	}

	root := newEntity(u.String(), Dirent{Name: rootName, IsFolder: true}, e)
	return &FS{root: root, env: e}, nil
}

// Root returns the root entity.
func (f *FS) Root() *Entity {
	return f.root
}

// Pwd returns the current absolute path: the stacked entity names joined
// with "/", empty at root. Pure, no I/O.
func (f *FS) Pwd() string {
	names := make([]string, len(f.stack))
	for i, e := range f.stack {
		names[i] = e.Name()
	}
	return strings.Join(names, "/")
}

// Cwd returns the current directory entity: top of the stack, or the root
// when the stack is empty.
func (f *FS) Cwd() *Entity {
	if len(f.stack) == 0 {
		return f.root
	}
	return f.stack[len(f.stack)-1]
}

// Entry resolves a path to an entity. The path is joined onto the current
// directory, split into segments, and walked from the root, lazily syncing
// each traversed folder before the lookup. A missing segment fails with
// ErrNotFound immediately.
func (f *FS) Entry(ctx context.Context, p string) (*Entity, error) {
	abs := f.Pwd() + "/" + p

	cur := f.root
	for _, seg := range splitSegments(abs) {
		if err := cur.Fetch(ctx); err != nil {
			return nil, err
		}
		next, ok := cur.Child(seg)
		if !ok {
			return nil, fmt.Errorf("htfs: entry %q: segment %q: %w", p, seg, ErrNotFound)
		}
		cur = next
	}
	return cur, nil
}

// Cd changes the current directory and returns the new pwd. A leading "/"
// resets to root before the remainder applies. Multi-segment paths are
// navigated one segment at a time, so "cd a/b/c" can fail partway with the
// stack already advanced past the segments that worked.
func (f *FS) Cd(ctx context.Context, p string) (string, error) {
	if strings.HasPrefix(p, "/") {
		f.stack = f.stack[:0]
		return f.Cd(ctx, strings.TrimPrefix(p, "/"))
	}

	trimmed := strings.Trim(p, "/")
	switch {
	case trimmed == "..":
		// underflow-safe: popping at root is a no-op
		if len(f.stack) > 0 {
			f.stack = f.stack[:len(f.stack)-1]
		}
		return f.Pwd(), nil
	case trimmed == "":
		return f.Pwd(), nil
	}

	segs := splitSegments(trimmed)
	if len(segs) == 1 {
		e, err := f.Entry(ctx, segs[0])
		if err != nil {
			return f.Pwd(), err
		}
		if !e.IsFolder() {
			return f.Pwd(), fmt.Errorf("htfs: cd %q: %w", p, ErrNotADirectory)
		}
		f.stack = append(f.stack, e)
		return f.Pwd(), nil
	}

	for _, seg := range segs {
		if _, err := f.Cd(ctx, seg); err != nil {
			return f.Pwd(), err
		}
	}
	return f.Pwd(), nil
}

// Ls syncs the current directory and returns its children's stats, in
// listing order, without the "." self-reference.
func (f *FS) Ls(ctx context.Context) ([]Dirent, error) {
	return f.Cwd().List(ctx)
}

func splitSegments(p string) []string {
	parts := strings.Split(p, "/")
	segs := parts[:0]
	for _, part := range parts {
		if part != "" {
			segs = append(segs, part)
		}
	}
	return segs
}
