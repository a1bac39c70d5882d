/*
Package metrics exposes Prometheus instrumentation for the fetch mock.

A Recorder counts fetches by routing outcome, counts aborted fetches, tracks
how many fetches are in flight, and observes how long response generation
takes. Collectors register with the supplied prometheus.Registerer; when none
is given a private registry is used so that several mocks can coexist in one
test binary.
*/
package metrics
