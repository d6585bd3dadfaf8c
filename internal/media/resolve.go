// Package media turns server-returned media paths into loadable URLs.
package media

import "strings"

// absolutePrefixes are left untouched by Resolve. Matching is case-insensitive.
var absolutePrefixes = []string{"http://", "https://", "data:", "file://", "//"}

// IsAbsolute reports whether path already names a loadable location.
func IsAbsolute(path string) bool {
	lower := strings.ToLower(path)
	for _, p := range absolutePrefixes {
		if strings.HasPrefix(lower, p) {
			return true
		}
	}
	return false
}

// Resolve joins a relative media path onto base.
//
// An empty (or blank) path yields "", meaning "no image". Absolute URLs are
// returned unchanged. Otherwise exactly one "/" separates base and path.
// With an empty base the path is returned as given.
func Resolve(base, path string) string {
	if strings.TrimSpace(path) == "" {
		return ""
	}
	if IsAbsolute(path) {
		return path
	}
	if base == "" {
		return path
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}

// Resolver resolves paths against whatever base URL is current at call time.
type Resolver struct {
	Base func() string
}

// NewResolver binds Resolve to a base URL source such as backend.Provider.Get.
func NewResolver(base func() string) *Resolver {
	return &Resolver{Base: base}
}

// Resolve resolves path against r.Base().
func (r *Resolver) Resolve(path string) string {
	base := ""
	if r.Base != nil {
		base = r.Base()
	}
	return Resolve(base, path)
}
