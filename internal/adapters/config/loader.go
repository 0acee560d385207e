// Package config provides the configuration loader for cppm.
package config

import (
	"errors"
	"fmt"
	iofs "io/fs"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"go.trai.ch/cppm/internal/core/domain"
	"go.trai.ch/cppm/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using YAML files.
type Loader struct {
	Logger ports.Logger
	FS     FileSystem
}

// NewLoader creates a new Loader with the given logger reading from the host file system.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger, FS: NewOSFS()}
}

var validProjectNameRegex = regexp.MustCompile("^[a-zA-Z0-9_.-]+$")

// workspace holds the optional defaults and the project index of a workfile.
type workspace struct {
	root      string
	toolchain *ToolchainDTO
	options   map[string]StringList
	byName    map[string]string
}

// Load reads the project found from cwd and every project it transitively references.
func (l *Loader) Load(cwd string) ([]*domain.Project, error) {
	projectPath, err := l.findUp(cwd, domain.ProjectFileName)
	if err != nil {
		return nil, err
	}

	ws, err := l.loadWorkspace(filepath.Dir(projectPath))
	if err != nil {
		return nil, err
	}

	return l.loadClosure(filepath.Dir(projectPath), ws)
}

// findUp walks from dir toward the file system root looking for name.
func (l *Loader) findUp(dir, name string) (string, error) {
	current := filepath.Clean(dir)
	for {
		candidate := filepath.Join(current, name)
		if _, err := l.FS.Stat(candidate); err == nil {
			return candidate, nil
		}

		parent := filepath.Dir(current)
		if parent == current {
			return "", zerr.With(domain.ErrConfigNotFound, "cwd", dir)
		}
		current = parent
	}
}

func (l *Loader) loadWorkspace(projectDir string) (*workspace, error) {
	workfilePath, err := l.findUp(projectDir, domain.WorkFileName)
	if err != nil {
		// A workfile is optional.
		return nil, nil
	}

	var workfile Workfile
	if err := l.readAndUnmarshalYAML(workfilePath, &workfile); err != nil {
		return nil, err
	}

	ws := &workspace{
		root:      filepath.Dir(workfilePath),
		toolchain: workfile.Toolchain,
		options:   workfile.Options,
		byName:    make(map[string]string),
	}

	dirs, err := l.resolveProjectPaths(ws.root, workfile.Projects)
	if err != nil {
		return nil, err
	}

	for _, dir := range dirs {
		path := filepath.Join(dir, domain.ProjectFileName)
		if _, statErr := l.FS.Stat(path); statErr != nil {
			rel, _ := filepath.Rel(ws.root, dir)
			l.Logger.Warn(fmt.Sprintf("%s missing in project %s, skipping", domain.ProjectFileName, rel))
			continue
		}

		var pf ProjectFile
		if err := l.readAndUnmarshalYAML(path, &pf); err != nil {
			return nil, err
		}
		if existing, ok := ws.byName[pf.Project]; ok && pf.Project != "" {
			err := zerr.With(domain.ErrDuplicateProjectName, "project_name", pf.Project)
			err = zerr.With(err, "first_occurrence", existing)
			return nil, zerr.With(err, "duplicate_at", dir)
		}
		if pf.Project != "" {
			ws.byName[pf.Project] = dir
		}
	}

	return ws, nil
}

func (l *Loader) resolveProjectPaths(root string, patterns []string) ([]string, error) {
	// Several globs may match the same directory.
	unique := make(map[string]struct{})

	for _, pattern := range patterns {
		matches, err := l.FS.Glob(filepath.Join(root, pattern))
		if err != nil {
			return nil, zerr.Wrap(err, "glob pattern failed: "+pattern)
		}

		for _, match := range matches {
			if isDir, dirErr := l.FS.IsDir(match); dirErr == nil && isDir {
				unique[match] = struct{}{}
			}
		}
	}

	paths := make([]string, 0, len(unique))
	for p := range unique {
		paths = append(paths, p)
	}
	slices.Sort(paths)

	return paths, nil
}

// loadClosure resolves the reference closure of the project in dir breadth-first.
func (l *Loader) loadClosure(dir string, ws *workspace) ([]*domain.Project, error) {
	var projects []*domain.Project
	seen := map[string]bool{domain.PathKey(dir): true}
	names := make(map[string]string)
	queue := []string{dir}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		project, err := l.loadProject(current, ws)
		if err != nil {
			return nil, err
		}

		if existing, ok := names[project.Name]; ok {
			err := zerr.With(domain.ErrDuplicateProjectName, "project_name", project.Name)
			err = zerr.With(err, "first_occurrence", existing)
			return nil, zerr.With(err, "duplicate_at", current)
		}
		names[project.Name] = current
		projects = append(projects, project)

		for _, ref := range project.References {
			key := domain.PathKey(ref)
			if seen[key] {
				continue
			}
			seen[key] = true
			queue = append(queue, ref)
		}
	}

	return projects, nil
}

func (l *Loader) loadProject(dir string, ws *workspace) (*domain.Project, error) {
	path := filepath.Join(dir, domain.ProjectFileName)

	var pf ProjectFile
	if err := l.readAndUnmarshalYAML(path, &pf); err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return nil, zerr.With(domain.ErrReferenceNotFound, "directory", dir)
		}
		return nil, zerr.With(err, "directory", dir)
	}

	if err := validateProjectFile(&pf, dir); err != nil {
		return nil, err
	}

	var wsToolchain *ToolchainDTO
	var wsOptions map[string]StringList
	if ws != nil {
		wsToolchain = ws.toolchain
		wsOptions = ws.options
	}

	toolchain, err := resolveToolchain(wsToolchain, pf.Toolchain)
	if err != nil {
		return nil, zerr.With(err, "project", pf.Project)
	}

	store := domain.StoreKind(pf.Store)
	switch store {
	case "":
		store = domain.StoreJSON
	case domain.StoreJSON, domain.StoreSQLite:
	default:
		err := zerr.With(domain.ErrConfigParseFailed, "store", pf.Store)
		return nil, zerr.With(err, "project", pf.Project)
	}

	intDir := pf.IntermediateDir
	if intDir == "" {
		intDir = domain.IntermediateDirName
	}

	headerUnits, err := l.expandSources(dir, pf.HeaderUnits)
	if err != nil {
		return nil, zerr.With(err, "project", pf.Project)
	}
	sources, err := l.expandSources(dir, pf.Sources)
	if err != nil {
		return nil, zerr.With(err, "project", pf.Project)
	}
	// Header units are compiled like any other source.
	sources = mergePaths(sources, headerUnits)
	if len(sources) == 0 {
		return nil, zerr.With(domain.ErrNoSources, "project", pf.Project)
	}

	references := make([]string, 0, len(pf.References))
	for _, ref := range pf.References {
		references = append(references, resolveReference(dir, ref, ws))
	}

	return &domain.Project{
		Name:        pf.Project,
		Dir:         dir,
		File:        path,
		IntDir:      resolvePath(dir, intDir),
		Sources:     sources,
		HeaderUnits: headerUnits,
		References:  references,
		Toolchain:   toolchain,
		Options:     mergeOptions(wsOptions, pf.Options),
		Store:       store,
	}, nil
}

func validateProjectFile(pf *ProjectFile, dir string) error {
	if pf.Project == "" {
		return zerr.With(domain.ErrMissingProjectName, "directory", dir)
	}

	if !validProjectNameRegex.MatchString(pf.Project) {
		err := zerr.With(domain.ErrInvalidProjectName, "project_name", pf.Project)
		return zerr.With(err, "directory", dir)
	}

	return nil
}

// expandSources resolves source globs relative to dir. A pattern without
// wildcards must name an existing file.
func (l *Loader) expandSources(dir string, patterns []string) ([]string, error) {
	var out []string
	for _, pattern := range patterns {
		abs := resolvePath(dir, pattern)

		if !strings.ContainsAny(pattern, "*?[") {
			if _, err := l.FS.Stat(abs); err != nil {
				return nil, zerr.With(domain.ErrMissingSourceFile, "source", abs)
			}
			out = mergePaths(out, []string{abs})
			continue
		}

		matches, err := l.FS.Glob(abs)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrInvalidSourcePattern.Error()), "pattern", pattern)
		}
		var files []string
		for _, m := range matches {
			if isDir, dirErr := l.FS.IsDir(m); dirErr == nil && !isDir {
				files = append(files, m)
			}
		}
		out = mergePaths(out, files)
	}
	return out, nil
}

// mergePaths appends extra to base, skipping paths already present, and keeps the result sorted.
func mergePaths(base, extra []string) []string {
	seen := make(map[string]bool, len(base)+len(extra))
	for _, p := range base {
		seen[domain.PathKey(p)] = true
	}
	for _, p := range extra {
		key := domain.PathKey(p)
		if seen[key] {
			continue
		}
		seen[key] = true
		base = append(base, p)
	}
	slices.SortFunc(base, func(a, b string) int {
		return strings.Compare(domain.PathKey(a), domain.PathKey(b))
	})
	return base
}

// resolveReference maps a reference onto a project directory. Names of
// workspace projects take precedence over relative paths.
func resolveReference(dir, ref string, ws *workspace) string {
	if ws != nil {
		if target, ok := ws.byName[ref]; ok {
			return target
		}
	}
	return resolvePath(dir, ref)
}

func resolveToolchain(base, override *ToolchainDTO) (domain.Toolchain, error) {
	merged := mergeToolchain(base, override)

	kind := domain.ToolchainKind(merged.Kind)
	if kind == "" {
		kind = domain.ToolchainClang
	}

	tc := domain.Toolchain{Kind: kind}
	switch kind {
	case domain.ToolchainClang:
		tc.Compiler = "clang++"
		tc.Scanner = "clang-scan-deps"
		tc.ExplicitStdModules = true
		tc.InterfaceExtension = ".pcm"
		tc.ObjectExtension = ".o"
	case domain.ToolchainMSVC:
		tc.Compiler = "cl.exe"
		tc.Scanner = "clang-scan-deps"
		tc.InterfaceExtension = ".ifc"
		tc.ObjectExtension = ".obj"
	default:
		return domain.Toolchain{}, zerr.With(domain.ErrInvalidToolchain, "kind", merged.Kind)
	}

	if merged.Compiler != "" {
		tc.Compiler = merged.Compiler
	}
	if merged.Scanner != "" {
		tc.Scanner = merged.Scanner
	}
	if merged.ExplicitStdModules != nil {
		tc.ExplicitStdModules = *merged.ExplicitStdModules
	}
	if merged.InterfaceExtension != "" {
		tc.InterfaceExtension = merged.InterfaceExtension
	}
	if merged.ObjectExtension != "" {
		tc.ObjectExtension = merged.ObjectExtension
	}
	tc.OptionsVersion = merged.OptionsVersion

	return tc, nil
}

// mergeToolchain overlays the non-empty fields of override onto base.
func mergeToolchain(base, override *ToolchainDTO) ToolchainDTO {
	var out ToolchainDTO
	if base != nil {
		out = *base
	}
	if override == nil {
		return out
	}
	if override.Kind != "" && override.Kind != kindOrDefault(out.Kind) {
		// Flags of another compiler family do not carry over.
		out = ToolchainDTO{}
	}

	if override.Kind != "" {
		out.Kind = override.Kind
	}
	if override.Compiler != "" {
		out.Compiler = override.Compiler
	}
	if override.Scanner != "" {
		out.Scanner = override.Scanner
	}
	if override.OptionsVersion != "" {
		out.OptionsVersion = override.OptionsVersion
	}
	if override.ExplicitStdModules != nil {
		out.ExplicitStdModules = override.ExplicitStdModules
	}
	if override.InterfaceExtension != "" {
		out.InterfaceExtension = override.InterfaceExtension
	}
	if override.ObjectExtension != "" {
		out.ObjectExtension = override.ObjectExtension
	}
	return out
}

// mergeOptions creates a new map with workspace options as base, project options overriding.
func mergeOptions(workspaceOptions, projectOptions map[string]StringList) map[string][]string {
	result := make(map[string][]string, len(workspaceOptions)+len(projectOptions))
	for k, v := range workspaceOptions {
		result[k] = slices.Clone(v)
	}
	for k, v := range projectOptions {
		result[k] = slices.Clone(v)
	}
	return result
}

func kindOrDefault(kind string) string {
	if kind == "" {
		return string(domain.ToolchainClang)
	}
	return kind
}

func resolvePath(dir, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Clean(filepath.Join(dir, p))
}

// readAndUnmarshalYAML reads a YAML file and unmarshals it into the target struct.
// A missing file keeps iofs.ErrNotExist reachable through errors.Is.
func (l *Loader) readAndUnmarshalYAML(path string, target any) error {
	data, err := l.FS.ReadFile(path)
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return err
		}
		return zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path)
	}

	if parseErr := yaml.Unmarshal(data, target); parseErr != nil {
		return zerr.With(zerr.Wrap(parseErr, domain.ErrConfigParseFailed.Error()), "path", path)
	}

	return nil
}
