// Package staleness decides which sources are out of date from their recorded tracking sets.
package staleness

import (
	"time"

	"go.trai.ch/cppm/internal/core/domain"
	"go.trai.ch/cppm/internal/core/ports"
	"go.trai.ch/zerr"
)

// StatFunc returns the modification time of path and whether it exists.
type StatFunc func(path string) (time.Time, bool, error)

// Detector compares recorded tool runs against the current file system state.
type Detector struct {
	stat   StatFunc
	logger ports.Logger
}

// New creates a Detector reading timestamps from fsys.
func New(fsys ports.FileSystem, logger ports.Logger) *Detector {
	return &Detector{stat: fsys.ModTime, logger: logger}
}

// WithStat returns a copy of the detector that reads timestamps through stat.
// Scan logs use it to see definitions kept outside the file system.
func (d *Detector) WithStat(stat StatFunc) *Detector {
	return &Detector{stat: stat, logger: d.logger}
}

// OutOfDate returns the sources whose recorded run no longer matches.
// commands maps domain.PathKey of each source to the command it would run now.
// The result keeps the order of sources.
func (d *Detector) OutOfDate(
	recorded map[string]domain.TrackingSet,
	sources []string,
	commands map[string]string,
) ([]string, error) {
	var ood []string
	for _, source := range sources {
		key := domain.PathKey(source)
		set, ok := recorded[key]
		reason, err := d.check(set, ok, commands[key])
		if err != nil {
			return nil, zerr.With(err, "source", source)
		}
		if reason != "" {
			d.logger.Debug(source + " is out of date: " + reason)
			ood = append(ood, source)
		}
	}
	return ood, nil
}

// check returns why a set is out of date, or an empty string if it is not.
func (d *Detector) check(set domain.TrackingSet, ok bool, command string) (string, error) {
	if !ok || set.Empty() {
		return "no recorded run", nil
	}
	if set.Command != command {
		return "command changed", nil
	}
	if len(set.Outputs) == 0 {
		return "no recorded outputs", nil
	}

	// The oldest output approximates when the tool last ran.
	var built time.Time
	for _, out := range set.Outputs {
		mtime, exists, err := d.stat(out)
		if err != nil {
			return "", err
		}
		if !exists {
			return "output " + out + " is missing", nil
		}
		if built.IsZero() || mtime.Before(built) {
			built = mtime
		}
	}

	for _, in := range set.Inputs {
		mtime, exists, err := d.stat(in)
		if err != nil {
			return "", err
		}
		if !exists {
			return "input " + in + " is missing", nil
		}
		if !mtime.Before(built) {
			return "input " + in + " is newer than outputs", nil
		}
	}
	return "", nil
}

// ImportsChanged reports whether an imported interface changed since the source was built.
// current maps module names to their latest recorded interface hash. Modules absent
// from current are not judged.
func ImportsChanged(info *domain.BuildInfo, current map[string]string) bool {
	if info == nil {
		return false
	}
	for module, hash := range info.ImportHashes {
		if now, ok := current[module]; ok && now != hash {
			return true
		}
	}
	return false
}
