package domain

import "time"

// BuildInfo records the last successful compile of a source.
type BuildInfo struct {
	Source           string            `json:"source,omitzero"`
	Command          string            `json:"command,omitzero"`
	InterfaceHash    string            `json:"interface_hash,omitzero"`
	InterfaceModTime time.Time         `json:"interface_mod_time,omitzero"`
	ImportHashes     map[string]string `json:"import_hashes,omitzero"`
	Timestamp        time.Time         `json:"timestamp,omitzero"`
}
