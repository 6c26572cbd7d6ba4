package htfs

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/htls/htls/internal/fetch"
	"github.com/htls/htls/internal/htindex"
	"github.com/htls/htls/internal/utils"
)

// Every entity's children map itself under this key.
const selfRef = "."

const copyBufSize = 32 * 1024

// ProgressSink receives byte counts as a transfer streams.
type ProgressSink interface {
	Receive(n int)
}

// ProgressFactory builds a fresh sink for one file transfer. total is the
// declared size in bytes, -1 when unknown.
type ProgressFactory func(name string, total int64) ProgressSink

// env holds the collaborators shared by every entity of one tree.
type env struct {
	transport fetch.Transport
	progress  ProgressFactory
}

// Entity is one node of the virtual filesystem, mapping a remote listing
// page (folder) or downloadable URL (file) onto a path-addressable node.
//
// A folder's listing is fetched lazily and at most once per process: once
// synced flips true it never reverts, so remote drift is invisible until
// restart. That is a deliberate policy, not an oversight.
type Entity struct {
	locator  string
	stats    Dirent
	children map[string]*Entity
	order    []string
	synced   bool
	env      *env
}

func newEntity(locator string, stats Dirent, env *env) *Entity {
	e := &Entity{
		locator: locator,
		stats:   stats,
		env:     env,
		// files have nothing to fetch
		synced: !stats.IsFolder,
	}
	e.children = map[string]*Entity{selfRef: e}
	return e
}

func (e *Entity) Name() string    { return e.stats.Name }
func (e *Entity) Locator() string { return e.locator }
func (e *Entity) IsFolder() bool  { return e.stats.IsFolder }
func (e *Entity) Stats() Dirent   { return e.stats }
func (e *Entity) Synced() bool    { return e.synced }

// Child returns the named child. Only meaningful after Fetch on folders;
// files only ever hold their self-reference.
func (e *Entity) Child(name string) (*Entity, bool) {
	child, ok := e.children[name]
	return child, ok
}

// Fetch retrieves and parses the entity's listing page, populating
// children. No-op when already synced. On failure the entity stays
// unsynced, so the next touch retries from scratch.
func (e *Entity) Fetch(ctx context.Context) error {
	if e.synced {
		return nil
	}

	// start from a clean slate in case a previous attempt half-filled us
	e.children = map[string]*Entity{selfRef: e}
	e.order = nil

	resp, err := e.env.transport.Get(ctx, e.locator)
	if err != nil {
		return &TransportError{Locator: e.locator, Err: err}
	}
	if resp.Body == nil {
		return &TransportError{Locator: e.locator, Err: ErrEmptyBody}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return &TransportError{Locator: e.locator, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	rows, err := htindex.Parse(resp.Body)
	if err != nil {
		return &TransportError{Locator: e.locator, Err: err}
	}

	for _, row := range rows {
		e.addChild(row)
	}

	e.synced = true
	return nil
}

func (e *Entity) addChild(row htindex.Row) {
	name := strings.TrimSuffix(row.Name, "/")
	if name == "" || name == selfRef {
		return
	}

	stats := Dirent{
		Name:        name,
		Date:        parseListingDate(row.Date),
		Size:        row.Size,
		Description: row.Description,
		IsFolder:    row.IsFolder(),
	}

	child := newEntity(resolveLocator(e.locator, row.Href), stats, e.env)
	if _, exists := e.children[name]; !exists {
		e.order = append(e.order, name)
	}
	e.children[name] = child
}

// List syncs the entity and returns its children's stats in listing order,
// without the self-reference.
func (e *Entity) List(ctx context.Context) ([]Dirent, error) {
	if err := e.Fetch(ctx); err != nil {
		return nil, err
	}

	out := make([]Dirent, 0, len(e.order))
	for _, name := range e.order {
		out = append(out, e.children[name].stats)
	}
	return out, nil
}

// Download writes the entity under destDir and returns the created path.
// Folders recurse child by child, strictly sequential; a failure aborts the
// rest of the walk but leaves finished siblings on disk. destName overrides
// the entity's own name when non-empty.
func (e *Entity) Download(ctx context.Context, destDir, destName string) (string, error) {
	if err := utils.EnsureDir(destDir); err != nil {
		return "", fmt.Errorf("htfs: download %q: %w", e.locator, err)
	}

	if destName == "" {
		destName = e.stats.Name
	}

	if e.stats.IsFolder {
		return e.downloadTree(ctx, destDir, destName)
	}
	return e.downloadFile(ctx, destDir, destName)
}

func (e *Entity) downloadTree(ctx context.Context, destDir, destName string) (string, error) {
	if err := e.Fetch(ctx); err != nil {
		return "", err
	}

	dir := filepath.Join(destDir, destName)
	if err := utils.EnsureDir(dir); err != nil {
		return "", fmt.Errorf("htfs: download %q: %w", e.locator, err)
	}

	for _, name := range e.order {
		if _, err := e.children[name].Download(ctx, dir, ""); err != nil {
			return "", err
		}
	}

	return dir, nil
}

func (e *Entity) downloadFile(ctx context.Context, destDir, destName string) (string, error) {
	resp, err := e.env.transport.Get(ctx, e.locator)
	if err != nil {
		return "", &TransportError{Locator: e.locator, Err: err}
	}
	if resp.Body == nil {
		return "", fmt.Errorf("htfs: download %q: %w", e.locator, ErrEmptyBody)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", &TransportError{Locator: e.locator, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	dest := filepath.Join(destDir, destName)
	out, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("htfs: download %q: %w", e.locator, err)
	}
	defer out.Close()

	var sink ProgressSink
	if e.env.progress != nil {
		sink = e.env.progress(destName, resp.ContentLength())
	}

	buf := make([]byte, copyBufSize)
	for {
		n, rerr := resp.Body.Read(buf)
		if n > 0 {
			if _, werr := out.Write(buf[:n]); werr != nil {
				return "", fmt.Errorf("htfs: download %q: %w", e.locator, werr)
			}
			if sink != nil {
				sink.Receive(n)
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return "", &TransportError{Locator: e.locator, Err: rerr}
		}
	}

	return dest, nil
}

// resolveLocator joins a listing href onto the page's own URL. Folder
// locators keep their trailing slash so nested resolution works.
func resolveLocator(base, href string) string {
	bu, err := url.Parse(base)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return bu.ResolveReference(ref).String()
}
