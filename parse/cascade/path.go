package cascade

import "strings"

// PathSeparator joins segments in Path. SplitPath accepts '\' as well.
const PathSeparator = "/"

// SplitPath splits a key path on '/' and '\', dropping empty segments.
func SplitPath(path string) []string {
	fields := strings.FieldsFunc(path, func(r rune) bool {
		return r == '/' || r == '\\'
	})
	out := fields[:0]
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// FindPath resolves a path of effective names below k. An empty path
// resolves to k itself.
func (k *Key) FindPath(path string) *Key {
	return k.findSegments(SplitPath(path))
}

func (k *Key) findSegments(segs []string) *Key {
	cur := k
	for _, s := range segs {
		if cur = cur.FindKey(s); cur == nil {
			return nil
		}
	}
	return cur
}

// Path is the full path of k from its root.
func (k *Key) Path() string {
	var segs []string
	for c := k; c.parent != nil; c = c.parent {
		segs = append(segs, c.EffectiveName())
	}
	for i, j := 0, len(segs)-1; i < j; i, j = i+1, j-1 {
		segs[i], segs[j] = segs[j], segs[i]
	}
	return strings.Join(segs, PathSeparator)
}
