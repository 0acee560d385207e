package domain

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
)

const (
	// IntermediateDirName is the default name of a project's intermediate directory.
	IntermediateDirName = ".cppm"

	// ProjectFileName is the name of the project configuration file.
	ProjectFileName = "cppm.yaml"

	// WorkFileName is the name of the workspace configuration file.
	WorkFileName = "cppm.work.yaml"

	// DefinitionDirName holds one module definition file per source.
	DefinitionDirName = "mdef"

	// ScanDirName holds the compilation database and the scan tracking logs.
	ScanDirName = "pp"

	// StoreDirName is the name of the build info store directory.
	StoreDirName = "store"

	// InterfaceDirName holds compiled interface artifacts.
	InterfaceDirName = "bmi"

	// ObjectDirName holds object files.
	ObjectDirName = "obj"

	// ModuleMapFileName is the name of the persisted module map.
	ModuleMapFileName = "module_map.json"

	// CompilationDatabaseFileName is the name of the compilation database handed to the scanner.
	CompilationDatabaseFileName = "pp_commands.json"

	// OutOfDateListFileName is the name of the persisted out-of-date source list.
	OutOfDateListFileName = "cppm.ood"

	// ScanDatabaseFileName is the name of the sqlite definition store.
	ScanDatabaseFileName = "scan.db"

	// PlanFileName is the name of the per-project build plan.
	PlanFileName = "build.ninja"

	// AggregatePlanFileName is the name of the build plan covering the reference closure.
	AggregatePlanFileName = "build_rec.ninja"

	// TrackingLogPrefix prefixes every tracking log written by this tool.
	TrackingLogPrefix = "cppm"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// ModuleMapFile returns the path of the project's persisted module map.
func (p *Project) ModuleMapFile() string {
	return filepath.Join(p.IntDir, ModuleMapFileName)
}

// DefinitionDir returns the directory holding the project's definition files.
func (p *Project) DefinitionDir() string {
	return filepath.Join(p.IntDir, DefinitionDirName)
}

// DefinitionFile returns the definition file path for a source of this project.
func (p *Project) DefinitionFile(source string) string {
	return filepath.Join(p.DefinitionDir(), sourceStem(source)+".json")
}

// ObjectFile returns the object file path for a source of this project.
func (p *Project) ObjectFile(source string) string {
	return filepath.Join(p.IntDir, ObjectDirName, sourceStem(source)+p.Toolchain.ObjectExtension)
}

// InterfaceArtifact returns the interface artifact path for an exported module name.
// Partition separators are not valid in every file system, so they become dashes.
func (p *Project) InterfaceArtifact(module string) string {
	name := strings.ReplaceAll(module, ":", "-")
	return filepath.Join(p.IntDir, InterfaceDirName, name+p.Toolchain.InterfaceExtension)
}

// ScanDir returns the directory holding the compilation database and scan logs.
func (p *Project) ScanDir() string {
	return filepath.Join(p.IntDir, ScanDirName)
}

// CompilationDatabaseFile returns the path of the compilation database.
func (p *Project) CompilationDatabaseFile() string {
	return filepath.Join(p.ScanDir(), CompilationDatabaseFileName)
}

// OutOfDateListFile returns the path of the persisted out-of-date list.
func (p *Project) OutOfDateListFile() string {
	return filepath.Join(p.IntDir, OutOfDateListFileName)
}

// StoreDir returns the directory of the build info store.
func (p *Project) StoreDir() string {
	return filepath.Join(p.IntDir, StoreDirName)
}

// ScanDatabaseFile returns the path of the sqlite definition store.
func (p *Project) ScanDatabaseFile() string {
	return filepath.Join(p.IntDir, ScanDatabaseFileName)
}

// PlanFile returns the path of the project's build plan.
func (p *Project) PlanFile() string {
	return filepath.Join(p.IntDir, PlanFileName)
}

// AggregatePlanFile returns the path of the plan covering the project and its references.
func (p *Project) AggregatePlanFile() string {
	return filepath.Join(p.IntDir, AggregatePlanFileName)
}

// sourceStem names per-source files. The key hash keeps sources with the same
// base name in different directories apart.
func sourceStem(source string) string {
	base := filepath.Base(source)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return fmt.Sprintf("%s-%08x", stem, uint32(xxhash.Sum64String(PathKey(source))))
}
