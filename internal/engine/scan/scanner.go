package scan

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"maps"
	"os/exec"
	"slices"
	"strconv"
	"strings"
	"time"

	"go.trai.ch/cppm/internal/core/domain"
	"go.trai.ch/cppm/internal/core/ports"
	"go.trai.ch/cppm/internal/engine/staleness"
	"go.trai.ch/cppm/internal/engine/toolchain"
	"go.trai.ch/zerr"
)

// compileCommand is one entry of the compilation database handed to the scanner.
type compileCommand struct {
	Directory string `json:"directory"`
	File      string `json:"file"`
	Command   string `json:"command"`
}

// Scanner keeps the module definitions of a project in sync with its sources.
type Scanner struct {
	executor ports.Executor
	defs     ports.DefinitionStore
	tlog     ports.TrackingLog
	fs       ports.FileSystem
	detector *staleness.Detector
	metrics  ports.Metrics
	logger   ports.Logger
	lookPath func(file string) (string, error)
}

// New creates a Scanner.
func New(
	executor ports.Executor,
	defs ports.DefinitionStore,
	tlog ports.TrackingLog,
	fsys ports.FileSystem,
	metrics ports.Metrics,
	logger ports.Logger,
) *Scanner {
	return &Scanner{
		executor: executor,
		defs:     defs,
		tlog:     tlog,
		fs:       fsys,
		detector: staleness.New(fsys, logger),
		metrics:  metrics,
		logger:   logger,
		lookPath: exec.LookPath,
	}
}

// Preprocess rescans every out-of-date source of the project and returns the fresh entries.
func (s *Scanner) Preprocess(ctx context.Context, project *domain.Project) ([]domain.ModuleMapEntry, error) {
	ood, err := s.OutOfDate(project)
	if err != nil {
		return nil, err
	}
	return s.Scan(ctx, project, ood)
}

// OutOfDate returns the sources whose module definition must be produced again.
func (s *Scanner) OutOfDate(project *domain.Project) ([]string, error) {
	requests, err := s.requests(project, project.Sources)
	if err != nil {
		return nil, err
	}
	commands := make(map[string]string, len(requests))
	for _, req := range requests {
		commands[domain.PathKey(req.Source)] = req.Command
	}

	recorded, err := s.tlog.Read(project.ScanDir())
	if err != nil {
		return nil, zerr.With(err, "project", project.Name)
	}
	return s.detector.WithStat(s.definitionStat(project)).OutOfDate(recorded, project.Sources, commands)
}

// Scan runs the scanner once over the given sources and persists what it reports.
// Definitions finalized before a failure are persisted as well.
func (s *Scanner) Scan(ctx context.Context, project *domain.Project, sources []string) ([]domain.ModuleMapEntry, error) {
	if len(sources) == 0 {
		return nil, nil
	}
	requests, err := s.requests(project, sources)
	if err != nil {
		return nil, err
	}
	if err := s.writeDatabase(project, requests); err != nil {
		return nil, err
	}

	s.logger.Info("scanning " + pluralize(len(sources), "source") + " of " + project.Name)
	result, runErr := s.executor.Execute(ctx, ports.Invocation{
		Name:          project.Name,
		Command:       toolchain.ScanCommand(project.Toolchain.Scanner, project.CompilationDatabaseFile()),
		Dir:           project.Dir,
		CaptureStdout: true,
	})

	records, parseErr := NewParser(project, requests).Parse(bytes.NewReader(result.Stdout))
	entries, persistErr := s.persist(project, records)
	s.metrics.SourcesScanned(len(records))

	var errs error
	if runErr != nil {
		errs = errors.Join(errs, zerr.With(zerr.Wrap(runErr, domain.ErrScanFailure.Error()), "project", project.Name))
	}
	if parseErr != nil {
		errs = errors.Join(errs, zerr.With(zerr.Wrap(parseErr, domain.ErrScanFailure.Error()), "project", project.Name))
	}
	if missing := unaccounted(sources, records); len(missing) > 0 {
		err := zerr.With(domain.ErrScanFailure, "project", project.Name)
		errs = errors.Join(errs, zerr.With(err, "unaccounted", strings.Join(missing, ", ")))
	}
	return entries, errors.Join(errs, persistErr)
}

func (s *Scanner) requests(project *domain.Project, sources []string) ([]Request, error) {
	table, err := toolchain.Lookup(project.Toolchain)
	if err != nil {
		return nil, zerr.With(err, "project", project.Name)
	}
	requests := make([]Request, 0, len(sources))
	for _, source := range sources {
		command, err := table.BuildCommand(project, source)
		if err != nil {
			return nil, err
		}
		requests = append(requests, Request{Source: source, Command: command})
	}
	return requests, nil
}

func (s *Scanner) writeDatabase(project *domain.Project, requests []Request) error {
	db := make([]compileCommand, 0, len(requests))
	for _, req := range requests {
		db = append(db, compileCommand{Directory: project.Dir, File: req.Source, Command: req.Command})
	}
	data, err := json.MarshalIndent(db, "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrStoreMarshalFailed.Error())
	}
	return s.fs.WriteFile(project.CompilationDatabaseFile(), data)
}

// persist stores every record and merges its tracking set into the scan log.
func (s *Scanner) persist(project *domain.Project, records []Record) ([]domain.ModuleMapEntry, error) {
	scanner := ""
	if path, err := s.lookPath(project.Toolchain.Scanner); err == nil {
		scanner = path
	}

	entries := make([]domain.ModuleMapEntry, 0, len(records))
	sets := make(map[string]domain.TrackingSet, len(records))
	for _, rec := range records {
		def := rec.Definition
		if err := s.defs.Put(project, rec.Source, &def); err != nil {
			return entries, zerr.With(err, "source", rec.Source)
		}
		entries = append(entries, domain.ModuleMapEntry{SourceFile: rec.Source, ModuleDefinition: def})

		inputs := make([]string, 0, len(rec.Reads)+2)
		if scanner != "" {
			inputs = append(inputs, scanner)
		}
		inputs = append(inputs, rec.Source)
		inputs = append(inputs, rec.Reads...)
		sets[domain.PathKey(rec.Source)] = domain.TrackingSet{
			Source:  rec.Source,
			Command: def.BuildCommand,
			Inputs:  inputs,
			Outputs: []string{project.DefinitionFile(rec.Source)},
		}
	}
	if len(sets) == 0 {
		return entries, nil
	}

	existing, err := s.tlog.Read(project.ScanDir())
	if err != nil {
		return entries, err
	}
	maps.Copy(existing, sets)
	merged := make([]domain.TrackingSet, 0, len(existing))
	for _, key := range slices.Sorted(maps.Keys(existing)) {
		merged = append(merged, existing[key])
	}
	return entries, s.tlog.Write(project.ScanDir(), merged)
}

// definitionStat reports definition files through the definition store so
// backends that keep no file per source are judged by their record times.
func (s *Scanner) definitionStat(project *domain.Project) staleness.StatFunc {
	bySource := make(map[string]string, len(project.Sources))
	for _, source := range project.Sources {
		bySource[domain.PathKey(project.DefinitionFile(source))] = source
	}
	return func(path string) (time.Time, bool, error) {
		source, ok := bySource[domain.PathKey(path)]
		if !ok {
			return s.fs.ModTime(path)
		}
		mtime, err := s.defs.ModTime(project, source)
		if err != nil {
			return time.Time{}, false, err
		}
		return mtime, !mtime.IsZero(), nil
	}
}

func unaccounted(sources []string, records []Record) []string {
	seen := make(map[string]bool, len(records))
	for _, rec := range records {
		seen[domain.PathKey(rec.Source)] = true
	}
	var missing []string
	for _, source := range sources {
		if !seen[domain.PathKey(source)] {
			missing = append(missing, source)
		}
	}
	return missing
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}
