// Package defstore persists module definitions and module maps.
package defstore

import (
	"github.com/Masterminds/semver/v3"
	"go.trai.ch/cppm/internal/core/domain"
	"go.trai.ch/zerr"
)

// readableSchemas is the range of persisted schema versions this build can read.
var readableSchemas = mustConstraint("^" + domain.SchemaVersion)

func mustConstraint(raw string) *semver.Constraints {
	c, err := semver.NewConstraint(raw)
	if err != nil {
		panic(err)
	}
	return c
}

// checkSchema rejects records whose schema version falls outside readableSchemas.
func checkSchema(raw string) error {
	v, err := semver.NewVersion(raw)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrIncompatibleSchema.Error()), "schema", raw)
	}
	if !readableSchemas.Check(v) {
		return zerr.With(domain.ErrIncompatibleSchema, "schema", raw)
	}
	return nil
}
