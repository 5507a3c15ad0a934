package diag

import "prism/internal/source"

type dedupKey struct {
	code    Code
	sev     Severity
	loc     source.Location
	subject Subject
	msg     string
}

// DedupReporter wraps another Reporter and suppresses diagnostics with the
// same code, severity, location, subject and message. Several passes over the
// same program report identical problems; only the first one is kept.
type DedupReporter struct {
	next Reporter
	seen map[dedupKey]struct{}
}

func NewDedupReporter(next Reporter) *DedupReporter {
	return &DedupReporter{
		next: next,
		seen: make(map[dedupKey]struct{}),
	}
}

func (r *DedupReporter) Report(d Diagnostic) {
	if r == nil {
		return
	}
	key := dedupKey{
		code:    d.Code,
		sev:     d.Severity,
		loc:     d.Primary,
		subject: d.Subject,
		msg:     d.Message,
	}
	if _, ok := r.seen[key]; ok {
		return
	}
	r.seen[key] = struct{}{}
	if r.next != nil {
		r.next.Report(d)
	}
}
