package calls

import (
	"context"
	"sync"
)

// Marker stands for one in-flight fetch.
type Marker struct {
	done    chan struct{}
	once    sync.Once
	tracker *Tracker
}

// Settle marks the fetch as finished and drops the marker from its Tracker.
// Only the first call has an effect.
func (m *Marker) Settle() {
	m.once.Do(func() {
		close(m.done)
		if m.tracker != nil {
			m.tracker.drop(m)
		}
	})
}

// Done is closed once the marker settles.
func (m *Marker) Done() <-chan struct{} { return m.done }

// Tracker issues Markers and waits for them. Only unsettled markers are kept.
type Tracker struct {
	mu      sync.Mutex
	markers map[*Marker]struct{}
}

// Hold returns a new unsettled Marker that Flush will wait for.
func (t *Tracker) Hold() *Marker {
	m := &Marker{done: make(chan struct{}), tracker: t}
	t.mu.Lock()
	if t.markers == nil {
		t.markers = make(map[*Marker]struct{})
	}
	t.markers[m] = struct{}{}
	t.mu.Unlock()
	return m
}

func (t *Tracker) drop(m *Marker) {
	t.mu.Lock()
	delete(t.markers, m)
	t.mu.Unlock()
}

// Pending returns the number of markers not yet settled.
func (t *Tracker) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.markers)
}

// Flush waits until every marker issued before the call has settled, or ctx is done.
func (t *Tracker) Flush(ctx context.Context) error {
	t.mu.Lock()
	snapshot := make([]*Marker, 0, len(t.markers))
	for m := range t.markers {
		snapshot = append(snapshot, m)
	}
	t.mu.Unlock()

	for _, m := range snapshot {
		select {
		case <-m.done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}
