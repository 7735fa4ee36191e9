package shaderpp

import (
	"io"
	"io/fs"
)

// NewFileSystemLoader builds a Loader backed by an io/fs.FS, so callers can
// pass os.DirFS, embed.FS, or testing/fstest.MapFS directly. Paths are
// looked up exactly as given -- the preprocessor never resolves "./" or
// searches multiple roots, so any such resolution belongs in the fs.FS the
// caller supplies (e.g. via fs.Sub), not here.
func NewFileSystemLoader(fsys fs.FS) Loader {
	return func(path string) (string, bool) {
		f, err := fsys.Open(path)
		if err != nil {
			return "", false
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			return "", false
		}
		return string(data), true
	}
}

// NewMapLoader builds a Loader backed by an in-memory path->contents map,
// useful for tests and for hosts with a precompiled include set.
func NewMapLoader(files map[string]string) Loader {
	return func(path string) (string, bool) {
		contents, ok := files[path]
		return contents, ok
	}
}

// NewMemoizingLoader wraps next so that each distinct path is only ever
// resolved once; subsequent #includes of the same path return the first
// result from cache. The engine itself re-expands every #include -- there
// is no #pragma once or include guard built in -- so a host that wants
// once-only semantics without writing its own #ifndef guards can get it by
// wrapping its loader with this decorator instead.
func NewMemoizingLoader(next Loader) Loader {
	type result struct {
		contents string
		ok       bool
	}
	cache := make(map[string]result)
	return func(path string) (string, bool) {
		if r, cached := cache[path]; cached {
			return r.contents, r.ok
		}
		contents, ok := next(path)
		cache[path] = result{contents, ok}
		return contents, ok
	}
}
