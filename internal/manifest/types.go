package manifest

import (
	"sort"
	"strings"
)

// Manifest maps logical asset names to the files a build tool emitted for them
type Manifest map[string]string

// Key normalizes an asset reference into a manifest key
func Key(file string) string {
	return strings.TrimLeft(file, "/")
}

// Lookup returns the mapped path for file, ignoring any leading slash
func (m Manifest) Lookup(file string) (string, bool) {
	if m == nil {
		return "", false
	}
	v, ok := m[Key(file)]
	return v, ok
}

// Keys returns the logical names in sorted order
func (m Manifest) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of entries
func (m Manifest) Len() int {
	return len(m)
}
