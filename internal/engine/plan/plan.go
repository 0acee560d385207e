// Package plan writes the module graph as ninja build files.
//
// Every project gets one file describing all of its sources. A second,
// aggregate file pulls in the files of the project and of everything it
// references, so one ninja invocation can build a whole subtree.
package plan

import (
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"go.trai.ch/cppm/internal/core/domain"
	"go.trai.ch/cppm/internal/core/ports"
	"go.trai.ch/cppm/internal/engine/graph"
	"go.trai.ch/cppm/internal/engine/toolchain"
	"go.trai.ch/zerr"
)

const preamble = "rule cc\n  command = $cmd\n"

var (
	pathEscaper    = strings.NewReplacer("$", "$$", " ", "$ ", ":", "$:")
	commandEscaper = strings.NewReplacer("$", "$$", "\n", " ")
)

// Emitter writes ninja build plans.
type Emitter struct {
	fs     ports.FileSystem
	logger ports.Logger
}

// New creates an Emitter.
func New(fsys ports.FileSystem, logger ports.Logger) *Emitter {
	return &Emitter{fs: fsys, logger: logger}
}

// Emit writes the plan of every given project and the aggregate plan of the
// first one, which is the project the invocation runs for.
func (e *Emitter) Emit(g *graph.Graph, projects []*domain.Project) error {
	if len(projects) == 0 {
		return nil
	}

	var errs error
	for _, p := range projects {
		var buf bytes.Buffer
		if err := Render(&buf, g, p); err != nil {
			errs = errors.Join(errs, err)
			continue
		}
		if err := e.write(p.PlanFile(), buf.Bytes()); err != nil {
			errs = errors.Join(errs, err)
			continue
		}
		e.logger.Debug("wrote build plan " + p.PlanFile())
	}
	if errs != nil {
		return errs
	}

	current := projects[0]
	var buf bytes.Buffer
	RenderAggregate(&buf, projects)
	return e.write(current.AggregatePlanFile(), buf.Bytes())
}

func (e *Emitter) write(path string, data []byte) error {
	if err := e.fs.WriteFile(path, data); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrPlanWriteFailed.Error()), "path", path)
	}
	return nil
}

// Render writes the build statements of a project's nodes in graph order.
func Render(w io.Writer, g *graph.Graph, p *domain.Project) error {
	table, err := toolchain.Lookup(p.Toolchain)
	if err != nil {
		return zerr.With(err, "project", p.Name)
	}
	walker := g.NewWalker()

	var b strings.Builder
	b.WriteString(preamble)
	for i := range g.Len() {
		id := graph.NodeID(i)
		n := g.Node(id)
		if n.Project != p {
			continue
		}

		imports, err := g.ResolveImports(id)
		if err != nil {
			return err
		}
		refs, err := walker.References(id)
		if err != nil {
			return err
		}

		outs := []string{n.Entry.ObjectFile}
		if n.Entry.InterfaceArtifact != "" {
			outs = append(outs, n.Entry.InterfaceArtifact)
		}
		ins := []string{n.Entry.SourceFile}
		for _, dep := range imports {
			ins = append(ins, g.Node(dep).Entry.InterfaceArtifact)
		}
		ins = append(ins, n.Entry.IncludedHeaders...)
		ins = append(ins, n.Entry.ImportedHeaders...)

		b.WriteString("\nbuild " + joinPaths(outs) + ": cc " + joinPaths(ins) + "\n")
		b.WriteString("  cmd = " + commandEscaper.Replace(table.NodeCommand(&n.Entry.ModuleDefinition, refs)) + "\n")
	}

	_, err = io.WriteString(w, b.String())
	return err
}

// RenderAggregate writes a plan including the plans of all given projects.
func RenderAggregate(w io.Writer, projects []*domain.Project) {
	var b strings.Builder
	for _, p := range projects {
		b.WriteString("subninja " + pathEscaper.Replace(filepath.ToSlash(p.PlanFile())) + "\n")
	}
	_, _ = io.WriteString(w, b.String())
}

func joinPaths(paths []string) string {
	escaped := make([]string, len(paths))
	for i, p := range paths {
		escaped[i] = pathEscaper.Replace(filepath.ToSlash(p))
	}
	return strings.Join(escaped, " ")
}
