package calls

import (
	"net/http"
	"sync"

	"github.com/tarmac-project/fetchmock/request"
)

// Record captures a single fetch observed by the mock.
type Record struct {
	// URL is the normalized URL.
	URL string
	// Options are the effective fetch options.
	Options request.Options
	// Request is the caller's original request, when one was supplied.
	Request *http.Request
	// Identifier names the route that matched. Empty for unmatched calls.
	Identifier string
	// Unmatched is set when no route accepted the call.
	Unmatched bool
	// Passthrough is set when the call was sent to the network without consulting routes.
	Passthrough bool
}

// Log is an ordered, append-only list of Records safe for concurrent use.
type Log struct {
	mu      sync.RWMutex
	records []Record
}

// Push appends r.
func (l *Log) Push(r Record) {
	l.mu.Lock()
	l.records = append(l.records, r)
	l.mu.Unlock()
}

// All returns a copy of every record in order.
func (l *Log) All() []Record {
	return l.Filter(func(Record) bool { return true })
}

// Filter returns the records for which keep returns true, in order.
func (l *Log) Filter(keep func(Record) bool) []Record {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Record, 0, len(l.records))
	for _, r := range l.records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// Matched returns the records handled by a route.
func (l *Log) Matched() []Record {
	return l.Filter(func(r Record) bool { return !r.Unmatched && !r.Passthrough })
}

// Unmatched returns the records no route accepted.
func (l *Log) Unmatched() []Record {
	return l.Filter(func(r Record) bool { return r.Unmatched })
}

// Identified returns the records matched by the route named id.
func (l *Log) Identified(id string) []Record {
	return l.Filter(func(r Record) bool { return r.Identifier != "" && r.Identifier == id })
}

// Last returns the most recent record.
func (l *Log) Last() (Record, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if len(l.records) == 0 {
		return Record{}, false
	}
	return l.records[len(l.records)-1], true
}

// Len returns the number of records.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}

// Reset discards every record.
func (l *Log) Reset() {
	l.mu.Lock()
	l.records = nil
	l.mu.Unlock()
}
