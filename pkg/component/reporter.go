package component

import "time"

// PassKind distinguishes update passes from watch passes.
type PassKind string

const (
	PassUpdate PassKind = "update"
	PassWatch  PassKind = "watch"
)

// PassReport describes one drained pass of one instance.
type PassReport struct {
	Component string
	Instance  string
	Kind      PassKind
	Events    []string

	// Ran counts the descriptors whose read ran (update) or the watch
	// callbacks fired (watch).
	Ran int

	// Writes counts the writes queued by an update pass.
	Writes int

	Initial  bool
	Duration time.Duration
	Err      error
}

// Reporter receives pass and hook reports, typically for metrics.
type Reporter interface {
	ReportPass(r PassReport)
	ReportHook(component string, hook HookName, err error)
}
