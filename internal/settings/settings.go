// Package settings copies untracked local-settings files from a repository
// into a freshly created worktree.
//
// Files such as settings.local.json or .env.local are usually gitignored,
// so a new worktree starts without them. Copy finds them within a bounded
// depth and places each at the same relative position in the worktree.
package settings

import (
	"fmt"
	"path/filepath"

	securejoin "github.com/cyphar/filepath-securejoin"

	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/logging"
	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/system"
)

// skipDirs are never descended into.
var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	".venv":        true,
}

// Result lists relative paths that were copied or skipped.
type Result struct {
	Copied  []string
	Skipped []string
}

// Copy copies every file under src whose base name matches one of patterns
// (filepath.Match syntax) into dst. maxDepth counts path components of the
// relative file path, as find -maxdepth does: 1 is src itself, 2 one
// directory below. A file whose destination directory does not exist in
// dst is skipped.
func Copy(fs system.FileSystem, src, dst string, patterns []string, maxDepth int) (*Result, error) {
	res := &Result{}
	if len(patterns) == 0 || maxDepth < 1 {
		return res, nil
	}

	for _, p := range patterns {
		if _, err := filepath.Match(p, ""); err != nil {
			return nil, fmt.Errorf("invalid settings pattern %q: %w", p, err)
		}
	}

	var found []string
	if err := walk(fs, src, "", 1, maxDepth, patterns, &found); err != nil {
		return nil, err
	}

	for _, rel := range found {
		target, err := securejoin.SecureJoin(dst, rel)
		if err != nil {
			return nil, fmt.Errorf("resolve %s in worktree: %w", rel, err)
		}
		if !fs.IsDir(filepath.Dir(target)) {
			logging.Debug("settings destination missing, skipping", "file", rel)
			res.Skipped = append(res.Skipped, rel)
			continue
		}
		if err := fs.CopyFile(filepath.Join(src, rel), target); err != nil {
			return nil, fmt.Errorf("copy %s: %w", rel, err)
		}
		logging.Debug("copied local settings", "file", rel)
		res.Copied = append(res.Copied, rel)
	}

	return res, nil
}

func walk(fs system.FileSystem, root, rel string, depth, maxDepth int, patterns []string, found *[]string) error {
	entries, err := fs.ReadDir(filepath.Join(root, rel))
	if err != nil {
		return fmt.Errorf("read %s: %w", filepath.Join(root, rel), err)
	}

	for _, e := range entries {
		name := e.Name()
		childRel := filepath.Join(rel, name)

		if e.IsDir() {
			if skipDirs[name] || depth >= maxDepth {
				continue
			}
			if err := walk(fs, root, childRel, depth+1, maxDepth, patterns, found); err != nil {
				return err
			}
			continue
		}

		if !e.Type().IsRegular() {
			continue
		}
		if matchAny(patterns, name) {
			*found = append(*found, childRel)
		}
	}
	return nil
}

func matchAny(patterns []string, name string) bool {
	for _, p := range patterns {
		if ok, _ := filepath.Match(p, name); ok {
			return true
		}
	}
	return false
}
