// Package workspace finds source files under a directory tree and parses
// them in parallel.
package workspace

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/orizon-lang/swiftparse/internal/ast"
	"github.com/orizon-lang/swiftparse/internal/parser"
)

// Filter selects the files a workspace covers.
type Filter struct {
	Extensions []string // with leading dot; empty means ".swift"
	Exclude    []string // base-name glob patterns for files and directories
}

// Match reports whether path names a source file the filter accepts.
func (f Filter) Match(path string) bool {
	if f.excluded(filepath.Base(path)) {
		return false
	}
	exts := f.Extensions
	if len(exts) == 0 {
		exts = []string{".swift"}
	}
	ext := filepath.Ext(path)
	for _, want := range exts {
		if strings.EqualFold(ext, want) {
			return true
		}
	}
	return false
}

func (f Filter) excluded(base string) bool {
	for _, pattern := range f.Exclude {
		if ok, _ := filepath.Match(pattern, base); ok {
			return true
		}
	}
	return false
}

// skipDir reports whether a directory is never descended into.
func (f Filter) skipDir(root, path, base string) bool {
	if path == root {
		return false
	}
	return strings.HasPrefix(base, ".") || f.excluded(base)
}

// Discover returns the matching files under each root in lexical order.
// A root naming a file is returned as is, whatever its extension.
func Discover(roots []string, filter Filter) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			add(filepath.Clean(root))
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if filter.skipDir(root, path, d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			if filter.Match(path) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", root, err)
		}
	}
	sort.Strings(files)
	return files, nil
}

// Result is the outcome of parsing one file.
type Result struct {
	Path     string
	Source   string
	File     *ast.File // nil in strict mode when Err is set
	Err      error     // parse errors; a parser.ErrorList
	Duration time.Duration
}

// Summary totals a batch of results.
type Summary struct {
	Files   int
	Failed  int
	Errors  int
	Elapsed time.Duration
}

// Summarize counts failed files and parse errors.
func Summarize(results []Result, elapsed time.Duration) Summary {
	s := Summary{Files: len(results), Elapsed: elapsed}
	for _, r := range results {
		if r.Err == nil {
			continue
		}
		s.Failed++
		if list, ok := r.Err.(parser.ErrorList); ok {
			s.Errors += len(list)
		} else {
			s.Errors++
		}
	}
	return s
}

// ParseAll parses files with at most jobs parses in flight and returns one
// result per file in input order. Parse errors are reported per result;
// only read failures and cancellation end the batch early.
func ParseAll(ctx context.Context, files []string, jobs int, opts parser.Options) ([]Result, error) {
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	results := make([]Result, len(files))
	sem := make(chan struct{}, jobs)
	g, gctx := errgroup.WithContext(ctx)

	var mu sync.Mutex

	for i, path := range files {
		i, path := i, path

		g.Go(func() error {
			select {
			case sem <- struct{}{}:
			case <-gctx.Done():
				return gctx.Err()
			}

			defer func() { <-sem }()

			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}

			start := time.Now()
			f, perr := parser.ParseFile(gctx, path, string(data), parser.WithOptions(opts))
			if perr != nil && isCancelled(perr) {
				return gctx.Err()
			}

			mu.Lock()
			results[i] = Result{Path: path, Source: string(data), File: f, Err: perr, Duration: time.Since(start)}
			mu.Unlock()

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func isCancelled(err error) bool {
	list, ok := err.(parser.ErrorList)
	if !ok {
		return false
	}
	for _, e := range list {
		if e.Kind == parser.Cancelled {
			return true
		}
	}
	return false
}
