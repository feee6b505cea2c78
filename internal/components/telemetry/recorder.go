package telemetry

import (
	"sync"
)

type Report struct {
	Kind   string
	ID     string
	Params []any
}

// Recorder is an API that keeps every report in memory, it is meant for tests
// asserting that components report what they should.
type Recorder struct {
	mu      sync.Mutex
	Reports []Report
}

func (r *Recorder) record(kind, id string, params []any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Reports = append(r.Reports, Report{Kind: kind, ID: id, Params: params})
}

func (r *Recorder) ReportBroken(id string, params ...any) {
	r.record("broken", id, params)
}

func (r *Recorder) ReportWarning(id string, params ...any) {
	r.record("warning", id, params)
}

func (r *Recorder) ReportInfo(msg string, params ...any) {
	r.record("info", msg, params)
}

func (r *Recorder) ReportDebug(msg string, params ...any) {
	r.record("debug", msg, params)
}

func (r *Recorder) ReportCount(id string, count int64) {
	r.record("count", id, []any{count})
}

// Of returns the ids of all reports of the given kind, in order.
func (r *Recorder) Of(kind string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []string
	for _, report := range r.Reports {
		if report.Kind == kind {
			ids = append(ids, report.ID)
		}
	}
	return ids
}
