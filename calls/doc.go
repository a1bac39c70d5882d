/*
Package calls records fetches seen by a mock and tracks those still in flight.

A Log is append-only while requests are handled: every fetch, matched or not,
is pushed once in the order it reached the router. Reset clears it between
test scenarios.

A Tracker hands out one Marker per fetch. Flush waits until every Marker
issued so far has settled, which lets a test wait for all outstanding
responses before asserting.
*/
package calls
