package domain

import (
	"path/filepath"
	"strings"
)

// ModuleMapDescriptionExt is the extension of module map description files.
// The scanner reports them as dependencies but they never affect a source.
const ModuleMapDescriptionExt = ".modulemap"

// PathKey returns the canonical form of a path used as a map key.
// Keys are absolute, cleaned, slash separated and case-insensitive.
func PathKey(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		p = abs
	}
	return strings.ToLower(filepath.ToSlash(filepath.Clean(p)))
}

// SamePath reports whether two paths name the same file.
func SamePath(a, b string) bool {
	return PathKey(a) == PathKey(b)
}

// HeaderUnitName derives the module name under which a header unit is imported.
func HeaderUnitName(header string) string {
	base := filepath.Base(header)
	return strings.ToUpper(strings.TrimSuffix(base, filepath.Ext(base)))
}

// IsStdModule reports whether a module name belongs to the standard library.
func IsStdModule(name string) bool {
	return name == "std" || strings.HasPrefix(name, "std.")
}
