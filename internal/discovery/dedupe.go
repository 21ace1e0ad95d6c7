// pattern: Functional Core

package discovery

import "path/filepath"

// Dedupe drops entries whose canonical path was already reported.
// The first occurrence keeps its position; if a later duplicate carries a
// more specific kind than a plain directory, the kept entry takes that kind.
func Dedupe(entries []Entry) []Entry {
	out := make([]Entry, 0, len(entries))
	index := make(map[string]int, len(entries))

	for _, e := range entries {
		key := canonicalPath(e.Path)
		i, seen := index[key]
		if !seen {
			index[key] = len(out)
			out = append(out, e)
			continue
		}
		if out[i].Kind == PlainDirectory && e.Kind != PlainDirectory {
			out[i].Kind = e.Kind
		}
	}
	return out
}

func canonicalPath(path string) string {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return resolved
}
