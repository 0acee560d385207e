// Package tlog reads and writes tracking logs.
//
// A directory holds three logs per tool: the files written, the files read and
// the command line. Each log is a sequence of groups, one per source, opened by
// a line holding "^" followed by the source path.
package tlog

import (
	"bufio"
	"bytes"
	"errors"
	iofs "io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/cppm/internal/adapters/fs"
	"go.trai.ch/cppm/internal/core/domain"
	"go.trai.ch/cppm/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	kindWrite   = "write"
	kindRead    = "read"
	kindCommand = "command"

	groupMarker = "^"
	scanBuffer  = 1024 * 1024
)

var _ ports.TrackingLog = (*Log)(nil)

// Commands are stored on one entry line with line breaks escaped.
var (
	commandEscaper   = strings.NewReplacer(`\`, `\\`, "\n", `\n`, "\r", `\r`)
	commandUnescaper = strings.NewReplacer(`\\`, `\`, `\n`, "\n", `\r`, "\r")
)

// Log implements ports.TrackingLog with plain text files.
type Log struct {
	prefix string
}

// New creates a tracking log using the default file prefix.
func New() *Log {
	return &Log{prefix: domain.TrackingLogPrefix}
}

// Read merges every log in dir. When several files record the same source,
// the first non-empty group wins.
func (l *Log) Read(dir string) (map[string]domain.TrackingSet, error) {
	sets := make(map[string]domain.TrackingSet)

	for _, kind := range []string{kindWrite, kindRead, kindCommand} {
		files, err := filepath.Glob(filepath.Join(dir, l.prefix+"."+kind+".*.tlog"))
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrTrackingLogReadFailed.Error()), "dir", dir)
		}
		slices.Sort(files)

		for _, file := range files {
			groups, err := readGroups(file)
			if err != nil {
				return nil, err
			}
			for _, g := range groups {
				key := domain.PathKey(g.source)
				set := sets[key]
				if set.Source == "" {
					set.Source = g.source
				}
				merge(&set, kind, g.entries)
				sets[key] = set
			}
		}
	}

	return sets, nil
}

// Write replaces the logs in dir. Logs from earlier invocations with other
// indices are removed so they cannot shadow the new records.
func (l *Log) Write(dir string, sets []domain.TrackingSet) error {
	ordered := slices.Clone(sets)
	slices.SortFunc(ordered, func(a, b domain.TrackingSet) int {
		return strings.Compare(domain.PathKey(a.Source), domain.PathKey(b.Source))
	})

	for _, kind := range []string{kindWrite, kindRead, kindCommand} {
		stale, err := filepath.Glob(filepath.Join(dir, l.prefix+"."+kind+".*.tlog"))
		if err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrTrackingLogWriteFailed.Error()), "dir", dir)
		}

		var buf bytes.Buffer
		for i := range ordered {
			entries := entriesOf(&ordered[i], kind)
			if len(entries) == 0 {
				continue
			}
			buf.WriteString(groupMarker + ordered[i].Source + "\n")
			for _, e := range entries {
				buf.WriteString(e + "\n")
			}
		}

		target := filepath.Join(dir, l.prefix+"."+kind+".1.tlog")
		if err := fs.WriteFileAtomic(target, buf.Bytes()); err != nil {
			return zerr.Wrap(err, domain.ErrTrackingLogWriteFailed.Error())
		}

		for _, file := range stale {
			if file == target {
				continue
			}
			if err := os.Remove(file); err != nil && !errors.Is(err, iofs.ErrNotExist) {
				return zerr.With(zerr.Wrap(err, domain.ErrTrackingLogWriteFailed.Error()), "path", file)
			}
		}
	}

	return nil
}

type group struct {
	source  string
	entries []string
}

func readGroups(path string) ([]group, error) {
	//nolint:gosec // Path comes from globbing the tracking directory
	f, err := os.Open(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrTrackingLogReadFailed.Error()), "path", path)
	}
	defer func() { _ = f.Close() }()

	var groups []group
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), scanBuffer)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		if source, ok := strings.CutPrefix(line, groupMarker); ok {
			groups = append(groups, group{source: source})
			continue
		}
		if len(groups) == 0 {
			// Entries before the first marker belong to no source.
			continue
		}
		last := &groups[len(groups)-1]
		last.entries = append(last.entries, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrTrackingLogReadFailed.Error()), "path", path)
	}

	return groups, nil
}

func merge(set *domain.TrackingSet, kind string, entries []string) {
	if len(entries) == 0 {
		return
	}
	switch kind {
	case kindWrite:
		if len(set.Outputs) == 0 {
			set.Outputs = entries
		}
	case kindRead:
		if len(set.Inputs) == 0 {
			set.Inputs = entries
		}
	case kindCommand:
		if set.Command == "" {
			decoded := make([]string, len(entries))
			for i, e := range entries {
				decoded[i] = commandUnescaper.Replace(e)
			}
			set.Command = strings.Join(decoded, " ")
		}
	}
}

func entriesOf(set *domain.TrackingSet, kind string) []string {
	switch kind {
	case kindWrite:
		return set.Outputs
	case kindRead:
		return set.Inputs
	case kindCommand:
		if set.Command == "" {
			return nil
		}
		return []string{commandEscaper.Replace(set.Command)}
	}
	return nil
}
