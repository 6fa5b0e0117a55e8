package project

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"github.com/scrylabs/scry/internal/config"
	"github.com/scrylabs/scry/internal/debug"
	"github.com/scrylabs/scry/internal/parser"
	"github.com/scrylabs/scry/internal/types"
)

// skipDirs are directory names never worth descending into.
var skipDirs = map[string]bool{
	"node_modules": true,
	".git":         true,
	".dart_tool":   true,
	"build":        true,
	"dist":         true,
	"venv":         true,
	".venv":        true,
	"__pycache__":  true,
	"vendor":       true,
}

// Cache maps canonical project roots to populated projects. Population is
// single-writer: concurrent requests for the same root block until the
// first caller finishes, then share the same Project.
type Cache struct {
	mu       sync.Mutex
	cfg      *config.Config
	projects map[string]*Project
}

// NewCache creates an empty project cache using cfg for population limits.
func NewCache(cfg *config.Config) *Cache {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Cache{
		cfg:      cfg,
		projects: make(map[string]*Project),
	}
}

// GetOrCreate returns the cached project for root, populating it on first
// request. Roots are canonicalized so "./src" and its absolute form share
// one entry.
func (c *Cache) GetOrCreate(root string) (*Project, error) {
	canonical, err := canonicalRoot(root)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if proj, ok := c.projects[canonical]; ok {
		debug.LogCache("hit for %s (%d units)", canonical, len(proj.Units))
		return proj, nil
	}

	proj, err := populate(canonical, c.cfg)
	if err != nil {
		return nil, err
	}
	c.projects[canonical] = proj
	debug.LogCache("populated %s: %d units, %d diagnostics", canonical, len(proj.Units), len(proj.Diagnostics))
	return proj, nil
}

func canonicalRoot(root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("cannot resolve project root %q: %w", root, err)
	}
	// Symlink resolution is best effort: a root that cannot be resolved is
	// still usable under its absolute path.
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("cannot access project root %q: %w", root, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("project root %q is not a directory", root)
	}
	return abs, nil
}

// populate walks root, parses every supported file in parallel, and records
// per-file failures as diagnostics instead of aborting.
func populate(root string, cfg *config.Config) (*Project, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtree: skip it, the walk continues elsewhere.
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != root && (skipDirs[d.Name()] || strings.HasPrefix(d.Name(), ".")) {
				return fs.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if !parser.Supported(strings.ToLower(filepath.Ext(rel))) {
			return nil
		}
		for _, pattern := range cfg.Project.Exclude {
			if ok, _ := doublestar.Match(pattern, rel); ok {
				return nil
			}
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}
	sort.Strings(files)

	proj := &Project{
		Root:  root,
		Units: make(map[string]*parser.Unit, len(files)),
	}

	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(cfg.WorkerCount())

	// One parser per worker goroutine: tree-sitter parsers are not safe
	// for concurrent use.
	for _, rel := range files {
		rel := rel
		g.Go(func() error {
			content, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
			if err != nil {
				mu.Lock()
				proj.Diagnostics = append(proj.Diagnostics, types.Diagnostic{
					File: rel, Stage: "read", Message: err.Error(),
				})
				mu.Unlock()
				return nil
			}
			if cfg.Analysis.MaxFileSize > 0 && int64(len(content)) > cfg.Analysis.MaxFileSize {
				mu.Lock()
				proj.Diagnostics = append(proj.Diagnostics, types.Diagnostic{
					File: rel, Stage: "read",
					Message: fmt.Sprintf("file exceeds max size (%d bytes)", len(content)),
				})
				mu.Unlock()
				return nil
			}

			p := parserPool.Get().(*parser.Parser)
			unit, err := p.Parse(rel, content)
			parserPool.Put(p)
			if err != nil {
				mu.Lock()
				proj.Diagnostics = append(proj.Diagnostics, types.Diagnostic{
					File: rel, Stage: "parse", Message: err.Error(),
				})
				mu.Unlock()
				return nil
			}

			mu.Lock()
			proj.Units[rel] = unit
			proj.TotalBytes += int64(len(content))
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(proj.Diagnostics, func(i, j int) bool {
		return proj.Diagnostics[i].File < proj.Diagnostics[j].File
	})
	return proj, nil
}

// parserPool hands each populate worker its own parser instance; tree-sitter
// parsers are reusable but not concurrency safe.
var parserPool = sync.Pool{
	New: func() any { return parser.New() },
}
