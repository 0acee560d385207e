// Package scan runs the dependency scanner and turns its output into module definitions.
package scan

import (
	"bufio"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/cppm/internal/core/domain"
	"go.trai.ch/zerr"
)

// Protocol sentinels printed by the scanner.
const (
	sourceSentinel  = ":::: "
	exportsSentinel = ":exp "
	importsSentinel = ":imp "
)

const maxLineSize = 1 << 20

// Request is one source handed to the scanner together with its compile command.
type Request struct {
	Source  string
	Command string
}

// Record is the finalized scan result of one source.
type Record struct {
	Source     string
	Definition domain.ModuleDefinition
	// Reads lists every dependency file the scanner reported, in report order.
	Reads []string
}

// Parser turns scanner output into records for the requested sources of one project.
type Parser struct {
	project   *domain.Project
	requested map[string]Request
}

// NewParser creates a Parser accepting records for the given requests only.
func NewParser(project *domain.Project, requests []Request) *Parser {
	requested := make(map[string]Request, len(requests))
	for _, req := range requests {
		requested[domain.PathKey(req.Source)] = req
	}
	return &Parser{project: project, requested: requested}
}

// Parse reads the scanner protocol from r.
// Records finalized before an error are returned together with it.
func (p *Parser) Parse(r io.Reader) ([]Record, error) {
	var (
		records []Record
		current *Record
	)
	finalize := func() {
		if current != nil {
			records = append(records, p.finalize(current))
			current = nil
		}
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")

		switch {
		case strings.HasPrefix(line, sourceSentinel):
			finalize()
			path := p.resolve(strings.TrimSpace(strings.TrimPrefix(line, sourceSentinel)))
			req, ok := p.requested[domain.PathKey(path)]
			if !ok {
				return records, zerr.With(domain.ErrUnknownScanSource, "source", path)
			}
			current = &Record{Source: req.Source}
			current.Definition.BuildCommand = req.Command

		case current == nil:
			// Output before the first record carries no information.

		case strings.HasPrefix(line, exportsSentinel):
			current.Definition.ExportedModule = strings.TrimSpace(strings.TrimPrefix(line, exportsSentinel))

		case strings.HasPrefix(line, importsSentinel):
			p.addImport(current, strings.TrimSpace(strings.TrimPrefix(line, importsSentinel)))

		default:
			if dep := strings.TrimSpace(line); dep != "" {
				p.addDependency(current, p.resolve(dep))
			}
		}
	}
	if err := scanner.Err(); err != nil {
		finalize()
		return records, zerr.Wrap(err, "failed to read scanner output")
	}
	finalize()
	return records, nil
}

func (p *Parser) addImport(rec *Record, module string) {
	if module == "" {
		return
	}
	if domain.IsStdModule(module) && !p.project.Toolchain.ExplicitStdModules {
		return
	}
	appendUnique(&rec.Definition.ImportedModules, module)
}

func (p *Parser) addDependency(rec *Record, dep string) {
	if domain.SamePath(dep, rec.Source) {
		return
	}
	rec.Reads = append(rec.Reads, dep)

	def := &rec.Definition
	switch {
	case p.project.IsHeaderUnit(dep):
		appendUnique(&def.ImportedHeaders, dep)
		appendUnique(&def.ImportedModules, domain.HeaderUnitName(dep))
	case strings.EqualFold(filepath.Ext(dep), domain.ModuleMapDescriptionExt):
		// Module map descriptions never affect the source.
	default:
		appendUnique(&def.IncludedHeaders, dep)
	}
}

func (p *Parser) finalize(rec *Record) Record {
	def := &rec.Definition
	if p.project.IsHeaderUnit(rec.Source) {
		def.ExportedModule = domain.HeaderUnitName(rec.Source)
		def.IsHeaderUnit = true
	}
	if def.Exports() {
		def.InterfaceArtifact = p.project.InterfaceArtifact(def.ExportedModule)
	}
	def.ObjectFile = p.project.ObjectFile(rec.Source)
	return *rec
}

func (p *Parser) resolve(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(p.project.Dir, path)
}

func appendUnique(list *[]string, value string) {
	if !slices.Contains(*list, value) {
		*list = append(*list, value)
	}
}
