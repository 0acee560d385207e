package domain

// SchemaVersion is written into every persisted definition and module map.
const SchemaVersion = "1.0.0"

// ModuleDefinition describes what a single source exports and depends on.
// It is produced by scanning and persisted per source.
type ModuleDefinition struct {
	Schema            string   `json:"schema,omitempty"`
	ExportedModule    string   `json:"exported_module,omitempty"`
	IsHeaderUnit      bool     `json:"is_header_unit,omitempty"`
	ImportedModules   []string `json:"imported_modules,omitempty"`
	ImportedHeaders   []string `json:"imported_headers,omitempty"`
	IncludedHeaders   []string `json:"included_headers,omitempty"`
	InterfaceArtifact string   `json:"interface_artifact_path,omitempty"`
	ObjectFile        string   `json:"object_file"`
	BuildCommand      string   `json:"build_command"`
}

// Exports reports whether the source makes a module available to importers.
func (d *ModuleDefinition) Exports() bool {
	return d.ExportedModule != ""
}

// Consistent reports whether an interface artifact is declared exactly when a module is exported.
func (d *ModuleDefinition) Consistent() bool {
	return (d.ExportedModule == "") == (d.InterfaceArtifact == "")
}

// ModuleMapEntry binds a module definition to its source file.
type ModuleMapEntry struct {
	SourceFile string `json:"source_file"`
	ModuleDefinition
}

// ModuleMap is the ordered set of entries for one project.
type ModuleMap struct {
	Schema  string           `json:"schema"`
	Project string           `json:"project"`
	Entries []ModuleMapEntry `json:"entries"`

	index map[string]int
}

// NewModuleMap returns an empty map for the named project.
func NewModuleMap(project string) *ModuleMap {
	return &ModuleMap{
		Schema:  SchemaVersion,
		Project: project,
		Entries: make([]ModuleMapEntry, 0),
	}
}

// Add appends an entry, replacing any previous entry for the same source.
func (m *ModuleMap) Add(entry ModuleMapEntry) {
	m.ensureIndex()
	key := PathKey(entry.SourceFile)
	if i, ok := m.index[key]; ok {
		m.Entries[i] = entry
		return
	}
	m.index[key] = len(m.Entries)
	m.Entries = append(m.Entries, entry)
}

// Lookup returns the entry for a source file.
func (m *ModuleMap) Lookup(source string) (ModuleMapEntry, bool) {
	m.ensureIndex()
	i, ok := m.index[PathKey(source)]
	if !ok {
		return ModuleMapEntry{}, false
	}
	return m.Entries[i], true
}

// Len returns the number of entries.
func (m *ModuleMap) Len() int {
	return len(m.Entries)
}

func (m *ModuleMap) ensureIndex() {
	if m.index != nil && len(m.index) == len(m.Entries) {
		return
	}
	m.index = make(map[string]int, len(m.Entries))
	for i := range m.Entries {
		m.index[PathKey(m.Entries[i].SourceFile)] = i
	}
}

// ModuleReference points an importer at the interface artifact of one module.
type ModuleReference struct {
	Module     string
	Artifact   string
	HeaderUnit bool
}
