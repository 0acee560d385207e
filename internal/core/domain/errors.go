package domain

import "go.trai.ch/zerr"

var (
	// ErrScanFailure is returned when the scanner exits non-zero or leaves requested sources unaccounted for.
	ErrScanFailure = zerr.New("dependency scan failed")

	// ErrUnknownScanSource is returned when the scanner reports a source that was not requested.
	ErrUnknownScanSource = zerr.New("scanner reported an unknown source")

	// ErrDuplicateModule is returned when two sources export the same module name.
	ErrDuplicateModule = zerr.New("duplicate module")

	// ErrUnresolvedImport is returned when a source imports a module that no loaded project exports.
	ErrUnresolvedImport = zerr.New("unresolved import")

	// ErrImportCycle is returned when the module import graph contains a cycle.
	ErrImportCycle = zerr.New("import cycle detected")

	// ErrMissingInterfaceArtifact is returned when a compile succeeded but the interface artifact is missing or unreadable.
	ErrMissingInterfaceArtifact = zerr.New("missing interface artifact")

	// ErrCompileFailure is returned when the compiler exits non-zero.
	ErrCompileFailure = zerr.New("compile failed")

	// ErrInternalConsistency is returned when an old module map claims to be fresh but lacks an expected entry.
	ErrInternalConsistency = zerr.New("module map is inconsistent with definition files")

	// ErrTargetsNotBuilt is returned when selected targets did not finish building.
	ErrTargetsNotBuilt = zerr.New("targets not built")

	// ErrBuildFailed is returned when a build invocation fails.
	ErrBuildFailed = zerr.New("build failed")

	// ErrReferenceNotBuilt is returned when a referenced project has no module map.
	ErrReferenceNotBuilt = zerr.New("referenced project has not been built")

	// ErrSourceNotFound is returned when a requested target is not a source of any project in scope.
	ErrSourceNotFound = zerr.New("source not found")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrConfigNotFound is returned when the config file cannot be found.
	ErrConfigNotFound = zerr.New("could not find project file or workfile")

	// ErrMissingProjectName is returned when a project file has no project name.
	ErrMissingProjectName = zerr.New("missing project name")

	// ErrInvalidProjectName is returned when a project name contains invalid characters.
	ErrInvalidProjectName = zerr.New("invalid project name")

	// ErrReferenceNotFound is returned when a referenced directory holds no project file.
	ErrReferenceNotFound = zerr.New("referenced project not found")

	// ErrMissingSourceFile is returned when a literal source path does not exist.
	ErrMissingSourceFile = zerr.New("source file does not exist")

	// ErrNoSources is returned when a project lists no sources.
	ErrNoSources = zerr.New("project has no sources")

	// ErrDuplicateProjectName is returned when multiple projects share the same name.
	ErrDuplicateProjectName = zerr.New("duplicate project name")

	// ErrInvalidSourcePattern is returned when a source glob cannot be expanded.
	ErrInvalidSourcePattern = zerr.New("invalid source pattern")

	// ErrInvalidToolchain is returned when a toolchain kind or option table version is not supported.
	ErrInvalidToolchain = zerr.New("invalid toolchain")

	// ErrUnknownOption is returned when a project names an option the toolchain table does not define.
	ErrUnknownOption = zerr.New("unknown compiler option")

	// ErrInvalidOptionValue is returned when an option value is not accepted by its effect.
	ErrInvalidOptionValue = zerr.New("invalid compiler option value")

	// ErrIncompatibleSchema is returned when a persisted record has an unsupported schema version.
	ErrIncompatibleSchema = zerr.New("incompatible schema version")

	// ErrStoreCreateFailed is returned when a store directory cannot be created.
	ErrStoreCreateFailed = zerr.New("failed to create store directory")

	// ErrStoreReadFailed is returned when a persisted record cannot be read.
	ErrStoreReadFailed = zerr.New("failed to read persisted record")

	// ErrStoreUnmarshalFailed is returned when a persisted record cannot be unmarshaled.
	ErrStoreUnmarshalFailed = zerr.New("failed to unmarshal persisted record")

	// ErrStoreMarshalFailed is returned when a record cannot be marshaled.
	ErrStoreMarshalFailed = zerr.New("failed to marshal record")

	// ErrStoreWriteFailed is returned when a record cannot be written.
	ErrStoreWriteFailed = zerr.New("failed to write persisted record")

	// ErrTrackingLogReadFailed is returned when tracking logs cannot be read.
	ErrTrackingLogReadFailed = zerr.New("failed to read tracking log")

	// ErrTrackingLogWriteFailed is returned when tracking logs cannot be written.
	ErrTrackingLogWriteFailed = zerr.New("failed to write tracking log")

	// ErrFileOpenFailed is returned when a file cannot be opened.
	ErrFileOpenFailed = zerr.New("failed to open file")

	// ErrFileHashFailed is returned when hashing a file fails.
	ErrFileHashFailed = zerr.New("failed to hash file content")

	// ErrTouchFailed is returned when refreshing a file timestamp fails.
	ErrTouchFailed = zerr.New("failed to touch file")

	// ErrPlanWriteFailed is returned when the build plan cannot be written.
	ErrPlanWriteFailed = zerr.New("failed to write build plan")

	// ErrCleanFailed is returned when intermediate state cannot be removed.
	ErrCleanFailed = zerr.New("failed to clean intermediate directory")
)
