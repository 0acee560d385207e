package scheduler

import (
	"errors"
	"maps"
	"slices"
	"strings"
	"time"

	"go.trai.ch/cppm/internal/core/domain"
	"go.trai.ch/cppm/internal/engine/graph"
	"go.trai.ch/zerr"
)

// persist records what the run built. Every project in the closure gets its
// build info, compile tracking log and out-of-date list updated, even when the
// run failed, so finished work is never repeated.
func (st *runState) persist() error {
	byProject := make(map[*domain.Project][]graph.NodeID)
	var order []*domain.Project
	for _, id := range st.closure {
		p := st.g.Node(id).Project
		if !st.scope[p] {
			continue
		}
		if _, ok := byProject[p]; !ok {
			order = append(order, p)
		}
		byProject[p] = append(byProject[p], id)
	}

	var errs error
	for _, p := range order {
		if err := st.persistProject(p, byProject[p]); err != nil {
			errs = errors.Join(errs, zerr.With(err, "project", p.Name))
		}
	}
	return errs
}

func (st *runState) persistProject(p *domain.Project, ids []graph.NodeID) error {
	var compiled []graph.NodeID
	for _, id := range ids {
		n := st.g.Node(id)
		switch n.Outcome {
		case domain.OutcomeCompiled:
			compiled = append(compiled, id)
			if err := st.putCompiled(id); err != nil {
				return err
			}
		case domain.OutcomeTouched:
			if err := st.refreshInterfaceTime(id); err != nil {
				return err
			}
		}
	}

	if len(compiled) > 0 {
		if err := st.writeTrackingLog(p, compiled); err != nil {
			return err
		}
	}
	return st.writeOutOfDateList(p, ids)
}

func (st *runState) putCompiled(id graph.NodeID) error {
	n := st.g.Node(id)
	imports := make(map[string]string, len(n.Imports))
	for _, dep := range n.Imports {
		hash, err := st.currentHash(dep)
		if err != nil {
			return err
		}
		if hash != "" {
			imports[st.g.Node(dep).Entry.ExportedModule] = hash
		}
	}

	info := &domain.BuildInfo{
		Source:           n.Entry.SourceFile,
		Command:          st.commands[id],
		InterfaceHash:    st.hashes[id],
		InterfaceModTime: st.mtimes[id],
		ImportHashes:     imports,
		Timestamp:        time.Now(),
	}
	if err := st.s.store.Put(n.Project.StoreDir(), *info); err != nil {
		return err
	}
	st.infos[id] = info
	return nil
}

// refreshInterfaceTime keeps the recorded hash of a touched interface trusted.
func (st *runState) refreshInterfaceTime(id graph.NodeID) error {
	n := st.g.Node(id)
	if !n.Entry.Exports() {
		return nil
	}
	info, err := st.info(id)
	if err != nil || info == nil || info.InterfaceHash == "" {
		return err
	}
	mtime, ok, err := st.s.fs.ModTime(n.Entry.InterfaceArtifact)
	if err != nil || !ok {
		return err
	}

	refreshed := *info
	refreshed.InterfaceModTime = mtime
	if err := st.s.store.Put(n.Project.StoreDir(), refreshed); err != nil {
		return err
	}
	st.infos[id] = &refreshed
	return nil
}

func (st *runState) writeTrackingLog(p *domain.Project, compiled []graph.NodeID) error {
	sets, err := st.s.tlog.Read(p.IntDir)
	if err != nil {
		return err
	}

	for _, id := range compiled {
		entry := st.g.Node(id).Entry
		inputs := []string{entry.SourceFile}
		inputs = append(inputs, entry.IncludedHeaders...)
		inputs = append(inputs, entry.ImportedHeaders...)
		outputs := []string{entry.ObjectFile}
		if entry.InterfaceArtifact != "" {
			outputs = append(outputs, entry.InterfaceArtifact)
		}
		sets[domain.PathKey(entry.SourceFile)] = domain.TrackingSet{
			Source:  entry.SourceFile,
			Command: entry.BuildCommand,
			Inputs:  inputs,
			Outputs: outputs,
		}
	}

	return st.s.tlog.Write(p.IntDir, slices.Collect(maps.Values(sets)))
}

// writeOutOfDateList keeps sources that were stale but not rebuilt so the next
// run picks them up even when their tracking log claims otherwise.
func (st *runState) writeOutOfDateList(p *domain.Project, ids []graph.NodeID) error {
	previous := st.oodList[p]
	list := maps.Clone(previous)
	if list == nil {
		list = make(map[string]string)
	}

	for _, id := range ids {
		n := st.g.Node(id)
		key := domain.PathKey(n.Entry.SourceFile)
		switch {
		case n.Outcome == domain.OutcomeCompiled:
			delete(list, key)
		case !n.BuildFinished && (n.HasWork() || n.InterfaceChanged):
			list[key] = n.Entry.SourceFile
		}
	}

	if maps.Equal(list, previous) {
		return nil
	}

	sources := slices.Sorted(maps.Values(list))
	var b strings.Builder
	for _, source := range sources {
		b.WriteString(source + "\n")
	}
	return st.s.fs.WriteFile(p.OutOfDateListFile(), []byte(b.String()))
}
