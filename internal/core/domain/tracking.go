package domain

// TrackingSet is the recorded command and file accesses of one tool run for one source.
type TrackingSet struct {
	Source  string
	Command string
	Inputs  []string
	Outputs []string
}

// Empty reports whether nothing has been recorded for the source.
func (t *TrackingSet) Empty() bool {
	return t.Command == "" && len(t.Inputs) == 0 && len(t.Outputs) == 0
}
