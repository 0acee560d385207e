package domain

import "slices"

// ToolchainKind names a supported compiler family.
type ToolchainKind string

const (
	// ToolchainClang selects clang-style flags.
	ToolchainClang ToolchainKind = "clang"
	// ToolchainMSVC selects cl.exe-style flags.
	ToolchainMSVC ToolchainKind = "msvc"
)

// StoreKind selects the module definition store backend.
type StoreKind string

const (
	// StoreJSON persists one JSON file per source.
	StoreJSON StoreKind = "json"
	// StoreSQLite persists definitions in a sqlite database.
	StoreSQLite StoreKind = "sqlite"
)

// Toolchain describes the compiler and scanner used by a project.
type Toolchain struct {
	Kind               ToolchainKind
	Compiler           string
	Scanner            string
	OptionsVersion     string
	ExplicitStdModules bool
	InterfaceExtension string
	ObjectExtension    string
}

// Project is one buildable unit with its own sources and intermediate directory.
type Project struct {
	Name        string
	Dir         string
	File        string
	IntDir      string
	Sources     []string
	HeaderUnits []string
	References  []string
	Toolchain   Toolchain
	Options     map[string][]string
	Store       StoreKind
}

// HasSource reports whether the given path is one of the project's sources.
func (p *Project) HasSource(source string) bool {
	key := PathKey(source)
	return slices.ContainsFunc(p.Sources, func(s string) bool {
		return PathKey(s) == key
	})
}

// IsHeaderUnit reports whether the given path is registered as a header unit.
func (p *Project) IsHeaderUnit(path string) bool {
	key := PathKey(path)
	return slices.ContainsFunc(p.HeaderUnits, func(s string) bool {
		return PathKey(s) == key
	})
}
